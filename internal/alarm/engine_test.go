package alarm_test

import (
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/stretchr/testify/assert"
	"io"
	"log/slog"
	"testing"
	"time"
)

// monday returns a time on Monday 1 January 2024.
func monday(hour, minute, second int) time.Time {
	return time.Date(2024, time.January, 1, hour, minute, second, 0, time.UTC)
}

func TestEngine_Evaluate(t *testing.T) {
	type step struct {
		now       time.Time
		wantEvent alarm.Event
		wantOn    bool
	}
	testCases := []struct {
		name   string
		alarms alarm.Alarms
		steps  []step
	}{
		{
			name: "no alarms",
			steps: []step{
				{now: monday(7, 0, 0), wantEvent: alarm.NoEvent},
				{now: monday(7, 0, 3), wantEvent: alarm.NoEvent},
			},
		},
		{
			name:   "alarm goes off and expires",
			alarms: alarm.Alarms{{7, 0, 0}},
			steps: []step{
				{now: monday(6, 59, 50), wantEvent: alarm.NoEvent},
				{now: monday(7, 0, 3), wantEvent: alarm.Activated, wantOn: true},
				{now: monday(7, 5, 0), wantEvent: alarm.NoEvent, wantOn: true},
				{now: monday(7, 9, 59), wantEvent: alarm.NoEvent, wantOn: true},
				{now: monday(7, 10, 0), wantEvent: alarm.Deactivated},
				{now: monday(7, 11, 0), wantEvent: alarm.NoEvent},
			},
		},
		{
			name:   "armed at the time it goes off",
			alarms: alarm.Alarms{{7, 0, 0}},
			steps: []step{
				{now: monday(7, 0, 0), wantEvent: alarm.Activated, wantOn: true},
				{now: monday(7, 0, 1), wantEvent: alarm.NoEvent, wantOn: true},
			},
		},
		{
			name:   "window crosses the hour",
			alarms: alarm.Alarms{{7, 50, 0}},
			steps: []step{
				{now: monday(7, 50, 0), wantEvent: alarm.Activated, wantOn: true},
				{now: monday(7, 59, 59), wantEvent: alarm.NoEvent, wantOn: true},
				{now: monday(8, 0, 0), wantEvent: alarm.Deactivated},
			},
		},
		{
			name:   "alarm missed",
			alarms: alarm.Alarms{{7, 0, 0}},
			steps: []step{
				{now: monday(6, 59, 0), wantEvent: alarm.NoEvent},
				{now: monday(7, 0, 6), wantEvent: alarm.Missed},
				{now: monday(7, 0, 7), wantEvent: alarm.NoEvent},
			},
		},
		{
			name:   "earlier today is not armed",
			alarms: alarm.Alarms{{6, 0, 0}},
			steps: []step{
				{now: monday(7, 0, 0), wantEvent: alarm.NoEvent},
			},
		},
		{
			name:   "other weekday",
			alarms: alarm.Alarms{{7, 0, 1}},
			steps: []step{
				{now: monday(7, 0, 0), wantEvent: alarm.NoEvent},
				{now: monday(7, 0, 3), wantEvent: alarm.NoEvent},
			},
		},
		{
			name:   "back-to-back alarms",
			alarms: alarm.Alarms{{7, 0, 0}, {7, 10, 0}},
			steps: []step{
				{now: monday(7, 0, 0), wantEvent: alarm.Activated, wantOn: true},
				{now: monday(7, 10, 0), wantEvent: alarm.Deactivated},
				{now: monday(7, 10, 1), wantEvent: alarm.Activated, wantOn: true},
				{now: monday(7, 20, 1), wantEvent: alarm.Deactivated},
			},
		},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := alarm.NewEngine(tt.alarms, slog.New(slog.NewTextHandler(io.Discard, nil)))
			for _, s := range tt.steps {
				event, _ := e.Evaluate(s.now)
				assert.Equal(t, s.wantEvent, event, s.now.Format(time.TimeOnly))
				assert.Equal(t, s.wantOn, e.Active(), s.now.Format(time.TimeOnly))
			}
		})
	}
}

func TestEngine_Windows(t *testing.T) {
	e := alarm.NewEngine(alarm.Alarms{{7, 0, 0}, {8, 0, 0}, {6, 0, 0}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event, w := e.Evaluate(monday(6, 30, 0))
	assert.Equal(t, alarm.NoEvent, event)
	assert.Equal(t, alarm.Alarm{7, 0, 0}, w.Alarm)
	assert.Equal(t, alarm.Armed, w.Phase())

	windows := e.Windows()
	if assert.Len(t, windows, 2) {
		assert.Equal(t, alarm.Alarm{7, 0, 0}, windows[0].Alarm)
		assert.Equal(t, alarm.Alarm{8, 0, 0}, windows[1].Alarm)
		assert.Equal(t, monday(8, 0, 0), windows[1].Due())
	}

	event, w = e.Evaluate(monday(7, 0, 2))
	assert.Equal(t, alarm.Activated, event)
	assert.Equal(t, alarm.Active, w.Phase())
	assert.Len(t, e.Alarms(), 3)
}

func TestEngine_CrossesMidnight(t *testing.T) {
	e := alarm.NewEngine(alarm.Alarms{{23, 55, 0}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event, _ := e.Evaluate(monday(23, 55, 1))
	assert.Equal(t, alarm.Activated, event)
	event, _ = e.Evaluate(monday(23, 59, 59).Add(2 * time.Minute))
	assert.Equal(t, alarm.NoEvent, event)
	assert.True(t, e.Active())
	event, _ = e.Evaluate(monday(23, 55, 0).Add(alarm.WindowLength))
	assert.Equal(t, alarm.Deactivated, event)
	assert.False(t, e.Active())
}

func TestEngine_MissedOnce(t *testing.T) {
	e := alarm.NewEngine(alarm.Alarms{{7, 0, 0}, {7, 0, 1}}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	event, w := e.Evaluate(monday(7, 0, 30))
	assert.Equal(t, alarm.Missed, event)
	assert.Equal(t, alarm.Alarm{Hour: 7, Minute: 0, Weekday: 0}, w.Alarm)
	// a missed alarm is not armed again on the same day
	event, _ = e.Evaluate(monday(7, 0, 31))
	assert.Equal(t, alarm.NoEvent, event)
	assert.Empty(t, e.Windows())

	// the same time on the next day is a different alarm
	event, w = e.Evaluate(monday(7, 0, 2).AddDate(0, 0, 1))
	assert.Equal(t, alarm.Activated, event)
	assert.Equal(t, 1, w.Alarm.Weekday)
}
