package telemetry_test

import (
	"github.com/clambin/smartlamp/internal/telemetry"
	"github.com/clambin/smartlamp/internal/weather"
	"github.com/stretchr/testify/assert"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestSelectFields(t *testing.T) {
	testCases := []struct {
		name     string
		volts    *float64
		snapshot *weather.Snapshot
		want     telemetry.Fields
	}{
		{
			name:  "sensor only",
			volts: ptr(1.22),
			want: telemetry.Fields{telemetry.Sensor: 1.22},
		},
		{
			name:     "full weather",
			volts:    ptr(1.22),
			snapshot: &weather.Snapshot{Temperature: ptr(11.45), Clouds: ptr(75), Rain: 0.25},
			want: telemetry.Fields{
				telemetry.Temperature: 11.45,
				telemetry.Clouds:      75,
				telemetry.Rain:        0.25,
				telemetry.Snow:        0,
				telemetry.Sensor:      1.22,
			},
		},
		{
			name:     "no temperature",
			volts:    ptr(1.22),
			snapshot: &weather.Snapshot{Clouds: ptr(75)},
			want: telemetry.Fields{
				telemetry.Clouds: 75,
				telemetry.Rain:   0,
				telemetry.Snow:   0,
				telemetry.Sensor: 1.22,
			},
		},
		{
			name:     "no clouds",
			volts:    ptr(1.22),
			snapshot: &weather.Snapshot{Temperature: ptr(-2.5), Snow: 3},
			want: telemetry.Fields{
				telemetry.Temperature: -2.5,
				telemetry.Rain:        0,
				telemetry.Snow:        3,
				telemetry.Sensor:      1.22,
			},
		},
		{
			name:     "no weather",
			volts:    ptr(1.22),
			snapshot: &weather.NoData,
			want: telemetry.Fields{
				telemetry.Rain:   0,
				telemetry.Snow:   0,
				telemetry.Sensor: 1.22,
			},
		},
		{
			name:     "no sensor reading",
			snapshot: &weather.Snapshot{Temperature: ptr(20.0), Rain: 1},
			want: telemetry.Fields{
				telemetry.Temperature: 20,
				telemetry.Rain:        1,
				telemetry.Snow:        0,
			},
		},
		{
			name: "nothing",
			want: telemetry.Fields{},
		},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, telemetry.SelectFields(tt.volts, tt.snapshot))
		})
	}
}

func TestFields_Names(t *testing.T) {
	f := telemetry.Fields{telemetry.Sensor: 1, telemetry.Temperature: 2, telemetry.Rain: 3}
	assert.Equal(t, []telemetry.Field{telemetry.Temperature, telemetry.Rain, telemetry.Sensor}, f.Names())
}
