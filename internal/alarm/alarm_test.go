package alarm_test

import (
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestDedupe(t *testing.T) {
	testCases := []struct {
		name          string
		input         []alarm.Alarm
		want          alarm.Alarms
		wantDuplicate assert.BoolAssertionFunc
	}{
		{
			name:          "empty",
			want:          nil,
			wantDuplicate: assert.False,
		},
		{
			name:          "sorted",
			input:         []alarm.Alarm{{7, 30, 1}, {6, 0, 0}, {7, 0, 4}, {7, 0, 2}},
			want:          alarm.Alarms{{6, 0, 0}, {7, 0, 2}, {7, 0, 4}, {7, 30, 1}},
			wantDuplicate: assert.False,
		},
		{
			name:          "duplicates",
			input:         []alarm.Alarm{{7, 0, 0}, {6, 0, 0}, {7, 0, 0}, {6, 0, 0}, {7, 0, 1}},
			want:          alarm.Alarms{{6, 0, 0}, {7, 0, 0}, {7, 0, 1}},
			wantDuplicate: assert.True,
		},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, duplicate := alarm.Dedupe(tt.input)
			assert.Equal(t, tt.want, got)
			tt.wantDuplicate(t, duplicate)

			again, duplicate := alarm.Dedupe(got)
			assert.Equal(t, got, again)
			assert.False(t, duplicate)
		})
	}
}

func TestDedupe_DoesNotModifyInput(t *testing.T) {
	input := []alarm.Alarm{{8, 0, 0}, {7, 0, 0}}
	_, _ = alarm.Dedupe(input)
	assert.Equal(t, []alarm.Alarm{{8, 0, 0}, {7, 0, 0}}, input)
}

func TestWeekday(t *testing.T) {
	// 2024-01-01 was a Monday
	for day := range 7 {
		assert.Equal(t, day, alarm.Weekday(time.Date(2024, time.January, 1+day, 12, 0, 0, 0, time.Local)))
	}
}

func TestAlarm_String(t *testing.T) {
	assert.Equal(t, "Mon 07:00", alarm.Alarm{Hour: 7}.String())
	assert.Equal(t, "Sun 23:50", alarm.Alarm{Hour: 23, Minute: 50, Weekday: 6}.String())
	assert.Equal(t, "??? 23:50", alarm.Alarm{Hour: 23, Minute: 50, Weekday: 9}.String())
}
