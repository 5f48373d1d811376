package scheduler

import (
	"time"
)

// Phase is the state of a cadence Entry. An Entry only runs its action if it was armed before its window opened.
type Phase int

const (
	Idle Phase = iota
	Armed
)

func (p Phase) String() string {
	if p == Armed {
		return "armed"
	}
	return "idle"
}

// Action is the work performed when an Entry's window opens.
type Action int

const (
	ReadSensor Action = iota
	FetchWeather
)

func (a Action) String() string {
	switch a {
	case ReadSensor:
		return "sensor"
	case FetchWeather:
		return "weather"
	default:
		return "unknown"
	}
}

// armingSecond is the second of the preceding minute from which an Entry is armed.
const armingSecond = 50

// An Entry runs its Action once during each of its windows. A window opens at every minute selected by the Entry,
// and lasts from FirstSecond up to and including LastSecond.
type Entry struct {
	Name        string
	Action      Action
	FirstSecond int
	LastSecond  int
	minutes     [60]bool
	phase       Phase
}

// NewEntry returns an Entry with a window for every minute of the hour for which selected returns true.
func NewEntry(name string, action Action, selected func(minute int) bool, firstSecond, lastSecond int) *Entry {
	e := Entry{Name: name, Action: action, FirstSecond: firstSecond, LastSecond: lastSecond}
	for m := range e.minutes {
		e.minutes[m] = selected(m)
	}
	return &e
}

// Phase returns the current phase of the Entry.
func (e *Entry) Phase() Phase {
	return e.phase
}

// Due returns true if the Entry is armed and t falls within one of its windows.
func (e *Entry) Due(t time.Time) bool {
	return e.phase == Armed && e.inWindow(t)
}

func (e *Entry) inWindow(t time.Time) bool {
	return e.minutes[t.Minute()] && t.Second() >= e.FirstSecond && t.Second() <= e.LastSecond
}

// arming returns true if t is in the last seconds before a minute with a window.
func (e *Entry) arming(t time.Time) bool {
	return t.Second() >= armingSecond && e.minutes[(t.Minute()+1)%60]
}

// Next returns the start of the Entry's next window after t.
func (e *Entry) Next(t time.Time) time.Time {
	start := t.Truncate(time.Minute)
	for i := range 61 {
		next := start.Add(time.Duration(i)*time.Minute + time.Duration(e.FirstSecond)*time.Second)
		if next.After(t) && e.minutes[next.Minute()] {
			return next
		}
	}
	return time.Time{}
}

// A Cadence is the set of entries evaluated on every tick.
type Cadence []*Entry

// DefaultCadence reads the sensor every third minute, except at minute 30, and fetches the weather at minute 8 of
// every ten minutes. At minutes 18 and 48, a weather fetch that did not happen at second 0 happens at second 30.
func DefaultCadence() Cadence {
	return Cadence{
		NewEntry("sensor", ReadSensor, func(m int) bool { return m%3 == 0 && m != 30 }, 0, 1),
		NewEntry("weather", FetchWeather, func(m int) bool { return m%10 == 8 }, 0, 0),
		NewEntry("weather-half", FetchWeather, func(m int) bool { return m == 18 || m == 48 }, 30, 30),
	}
}

// due returns the entries whose window contains t and that are armed. At most one entry per Action is returned:
// once an entry is due, all entries for the same Action are set to Idle.
func (c Cadence) due(t time.Time) []*Entry {
	var due []*Entry
	for _, e := range c {
		if e.Due(t) {
			c.idle(e.Action)
			due = append(due, e)
		}
	}
	return due
}

func (c Cadence) idle(a Action) {
	for _, e := range c {
		if e.Action == a {
			e.phase = Idle
		}
	}
}

// arm arms each entry whose window opens in the next minute.
func (c Cadence) arm(t time.Time) {
	for _, e := range c {
		if e.arming(t) {
			e.phase = Armed
		}
	}
}

// armed returns true if any entry for the provided action is armed.
func (c Cadence) armed(a Action) bool {
	for _, e := range c {
		if e.Action == a && e.phase == Armed {
			return true
		}
	}
	return false
}
