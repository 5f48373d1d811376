package sensor

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	// DefaultInputLow and DefaultInputHigh are the bounds of the raw readings sent by the sensor.
	DefaultInputLow  = 0
	DefaultInputHigh = 500
)

// RunReader reads a run of samples from one of the provided ports.
type RunReader interface {
	ReadRun(ctx context.Context, ports []string) Run
}

// A Measurement is the result of one acquisition.
type Measurement struct {
	Port      string  `json:"port"`
	Samples   int     `json:"samples"`
	Complete  bool    `json:"complete"`
	Average   int     `json:"average"`
	Volts     float64 `json:"volts"`
	Mapped    float64 `json:"mapped"`
	DutyCycle int     `json:"dutyCycle"`
}

func (m Measurement) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("port", m.Port),
		slog.Int("samples", m.Samples),
		slog.Bool("complete", m.Complete),
		slog.Int("average", m.Average),
		slog.Float64("volts", m.Volts),
		slog.Float64("mapped", m.Mapped),
		slog.Int("dutyCycle", m.DutyCycle),
	)
}

// An Acquirer takes a measurement of the ambient light and determines the matching duty cycle for the lamp.
type Acquirer struct {
	Reader RunReader
	// Ports returns the serial ports to read from.
	Ports     func() ([]string, error)
	InputLow  float64
	InputHigh float64
	Logger    *slog.Logger
}

// Acquire reads the sensor and classifies the reading. An empty run is retried once. If the second run is also
// empty, Acquire returns ErrAcquisitionTimeout.
//
// If the reading cannot be mapped onto a duty cycle, the mapping is retried once with the same reading. The sensor
// is not read again. If the retry fails too, Acquire returns ErrMappingOutOfRange, together with a Measurement
// holding the reading.
func (a Acquirer) Acquire(ctx context.Context) (Measurement, error) {
	m, err := a.measure(ctx)
	if err != nil {
		return m, err
	}
	mapped, err := a.mapRange(m)
	if err != nil {
		a.Logger.Warn("reading out of range. retrying", "measurement", m, "err", err)
		if mapped, err = a.mapRange(m); err != nil {
			return m, err
		}
	}
	m.Mapped = mapped
	m.DutyCycle = Classify(mapped)
	return m, nil
}

func (a Acquirer) measure(ctx context.Context) (Measurement, error) {
	ports, err := a.Ports()
	if err != nil {
		return Measurement{}, fmt.Errorf("ports: %w", err)
	}
	run := a.Reader.ReadRun(ctx, ports)
	if run.Empty() && ctx.Err() == nil {
		a.Logger.Warn("no data received from sensor. retrying", "ports", ports)
		run = a.Reader.ReadRun(ctx, ports)
	}
	avg, err := Average(run.Samples)
	if err != nil {
		return Measurement{}, &acquisitionError{ports: ports}
	}
	return Measurement{
		Port:     run.Port,
		Samples:  len(run.Samples),
		Complete: run.Complete,
		Average:  avg,
		Volts:    Volts(avg),
	}, nil
}

func (a Acquirer) mapRange(m Measurement) (float64, error) {
	return MapRange(a.InputLow, a.InputHigh, 0, 100, float64(m.Average))
}
