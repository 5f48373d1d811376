// Package alarm holds the wake alarms of the lamp: how they are stored, entered and triggered.
package alarm

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// An Alarm switches the lamp on at Hour:Minute on Weekday. Weekday 0 is Monday, 6 is Sunday.
type Alarm struct {
	Hour    int `json:"hour" yaml:"hour"`
	Minute  int `json:"minute" yaml:"minute"`
	Weekday int `json:"weekday" yaml:"weekday"`
}

var weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Weekday returns the weekday of t, numbered the way alarms number them.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// Compare orders alarms by hour, minute and weekday.
func (a Alarm) Compare(b Alarm) int {
	if c := cmp.Compare(a.Hour, b.Hour); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Minute, b.Minute); c != 0 {
		return c
	}
	return cmp.Compare(a.Weekday, b.Weekday)
}

func (a Alarm) String() string {
	day := "???"
	if a.Weekday >= 0 && a.Weekday < len(weekdays) {
		day = weekdays[a.Weekday]
	}
	return fmt.Sprintf("%s %02d:%02d", day, a.Hour, a.Minute)
}

var _ slog.LogValuer = Alarm{}

func (a Alarm) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("hour", a.Hour),
		slog.Int("minute", a.Minute),
		slog.Int("weekday", a.Weekday),
	)
}

func (a Alarm) valid() bool {
	return a.Hour >= 0 && a.Hour <= 23 &&
		a.Minute >= 0 && a.Minute <= 59 &&
		a.Weekday >= 0 && a.Weekday <= 6
}

// key identifies the alarm within a week.
func (a Alarm) key() int {
	return a.Weekday*10000 + a.Hour*100 + a.Minute
}

// at returns the time the alarm goes off on the day of t.
func (a Alarm) at(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), a.Hour, a.Minute, 0, 0, t.Location())
}

// Alarms is a sorted, duplicate-free list of alarms.
type Alarms []Alarm

// Dedupe sorts the alarms and removes duplicates. The boolean reports whether any duplicates were removed.
func Dedupe(alarms []Alarm) (Alarms, bool) {
	sorted := slices.Clone(alarms)
	slices.SortFunc(sorted, Alarm.Compare)
	sorted = slices.Compact(sorted)
	return sorted, len(sorted) != len(alarms)
}
