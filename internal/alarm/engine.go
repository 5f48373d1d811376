package alarm

import (
	"github.com/clambin/go-common/set"
	"log/slog"
	"slices"
	"time"
)

const (
	// WindowLength is how long the lamp stays on once an alarm goes off.
	WindowLength = 10 * time.Minute
	// activationWindow is how late an alarm may be noticed and still go off.
	activationWindow = 6 * time.Second
)

// Phase is the state of an alarm in the Engine.
type Phase int

const (
	Pending Phase = iota
	Armed
	Active
	Expired
)

var phaseNames = map[Phase]string{
	Pending: "pending",
	Armed:   "armed",
	Active:  "active",
	Expired: "expired",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "unknown"
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// A Window is an alarm that is armed for today, or has gone off and is keeping the lamp on.
type Window struct {
	Alarm     Alarm     `json:"alarm"`
	Activated bool      `json:"activated"`
	ArmedAt   time.Time `json:"armedAt"`
}

// Phase returns Active if the alarm has gone off. Otherwise, it returns Armed.
func (w Window) Phase() Phase {
	if w.Activated {
		return Active
	}
	return Armed
}

// Due returns the time the window opens.
func (w Window) Due() time.Time {
	return w.Alarm.at(w.ArmedAt)
}

// Event reports the outcome of evaluating the engine.
type Event int

const (
	NoEvent Event = iota
	// Activated means an alarm went off: the lamp should be switched on.
	Activated
	// Deactivated means the alarm window closed: the lamp returns to sensor control.
	Deactivated
	// Missed means an armed alarm was not evaluated in time and was dropped.
	Missed
)

// Engine determines when alarms go off and for how long they keep the lamp on.
//
// Alarms are armed for the remainder of the current day only: an alarm scheduled for earlier today is not carried
// over to the next week. Only the earliest window is evaluated: any other alarms that should be active at the same
// time are handled once the first window closes.
type Engine struct {
	alarms Alarms
	active []Window
	armed  set.Set[int]
	done   set.Set[int]
	day    int
	logger *slog.Logger
}

func NewEngine(alarms Alarms, logger *slog.Logger) *Engine {
	return &Engine{
		alarms: alarms,
		armed:  set.New[int](),
		done:   set.New[int](),
		day:    -1,
		logger: logger,
	}
}

// Evaluate advances all alarms to the provided time. If the earliest window changed phase, it returns the
// corresponding Event and the window.
func (e *Engine) Evaluate(now time.Time) (Event, Window) {
	e.rollover(now)
	e.arm(now)

	if len(e.active) == 0 {
		return NoEvent, Window{}
	}

	w := &e.active[0]
	elapsed := now.Sub(w.Due())
	switch {
	case w.Activated:
		if elapsed >= WindowLength {
			return Deactivated, e.retire()
		}
	case elapsed >= 0 && elapsed < activationWindow:
		w.Activated = true
		return Activated, *w
	case elapsed >= activationWindow:
		return Missed, e.retire()
	}
	return NoEvent, *w
}

// Active returns true if an alarm is keeping the lamp on.
func (e *Engine) Active() bool {
	return len(e.active) > 0 && e.active[0].Activated
}

// Windows returns all armed and active windows, earliest first.
func (e *Engine) Windows() []Window {
	return slices.Clone(e.active)
}

// Alarms returns all configured alarms.
func (e *Engine) Alarms() Alarms {
	return e.alarms
}

func (e *Engine) rollover(now time.Time) {
	if day := now.YearDay(); day != e.day {
		e.day = day
		e.done = set.New[int]()
	}
}

func (e *Engine) arm(now time.Time) {
	today := Weekday(now)
	var added bool
	for _, a := range e.alarms {
		if a.Weekday != today || e.armed.Contains(a.key()) || e.done.Contains(a.key()) {
			continue
		}
		if a.Hour > now.Hour() || (a.Hour == now.Hour() && a.Minute >= now.Minute()) {
			e.active = append(e.active, Window{Alarm: a, ArmedAt: now})
			e.armed.Add(a.key())
			added = true
			e.logger.Debug("alarm armed", "alarm", a)
		}
	}
	if added {
		slices.SortStableFunc(e.active, func(a, b Window) int { return a.Due().Compare(b.Due()) })
	}
}

func (e *Engine) retire() Window {
	w := e.active[0]
	e.active = slices.Delete(e.active, 0, 1)
	e.armed.Remove(w.Alarm.key())
	e.done.Add(w.Alarm.key())
	return w
}
