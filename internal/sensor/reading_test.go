package sensor_test

import (
	"testing"

	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/stretchr/testify/assert"
)

func TestAverage(t *testing.T) {
	avg, err := sensor.Average([]float64{250, 250, 251})
	assert.NoError(t, err)
	assert.Equal(t, 250, avg)

	avg, err = sensor.Average([]float64{1, 2})
	assert.NoError(t, err)
	assert.Equal(t, 1, avg)

	_, err = sensor.Average(nil)
	assert.ErrorIs(t, err, sensor.ErrNoData)
}

func TestMapRange(t *testing.T) {
	testCases := []struct {
		name    string
		value   float64
		want    float64
		wantErr bool
	}{
		{name: "low", value: 0, want: 0},
		{name: "mid", value: 250, want: 50},
		{name: "high", value: 500, want: 100},
		{name: "below", value: -5, wantErr: true},
		{name: "above", value: 501, wantErr: true},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := sensor.MapRange(0, 500, 0, 100, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, sensor.ErrMappingOutOfRange)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}

	_, err := sensor.MapRange(10, 10, 0, 100, 10)
	assert.ErrorIs(t, err, sensor.ErrMappingOutOfRange)
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		mapped float64
		want   int
	}{
		{mapped: 0, want: 100},
		{mapped: 33, want: 100},
		{mapped: 33.01, want: 50},
		{mapped: 50, want: 50},
		{mapped: 66, want: 50},
		{mapped: 66.01, want: 0},
		{mapped: 100, want: 0},
	}
	for _, tt := range testCases {
		assert.Equal(t, tt.want, sensor.Classify(tt.mapped), tt.mapped)
	}
}

func TestVolts(t *testing.T) {
	assert.Equal(t, 1.22, sensor.Volts(250))
	assert.Equal(t, 0.0, sensor.Volts(0))
	assert.Equal(t, 5.0, sensor.Volts(1023))
}
