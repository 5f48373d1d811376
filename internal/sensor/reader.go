package sensor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"
)

const (
	// RunLength is the number of samples after which a run is complete.
	RunLength = 20
	// DefaultReadTimeout is how long a run waits for samples on one port.
	DefaultReadTimeout = 25 * time.Second
)

// A Run is the outcome of reading samples from the sensor.
type Run struct {
	// Port is the serial port the samples were read from.
	Port string
	// Samples holds the usable samples. For a complete run, the oldest and newest sample are dropped.
	Samples []float64
	// Complete is true if the run reached RunLength samples before the timeout.
	Complete bool
}

// Empty returns true if the run holds no samples.
func (r Run) Empty() bool {
	return len(r.Samples) == 0
}

// A Reader reads runs of samples from a serial port. The sensor sends one numeric value per line.
type Reader struct {
	Open    Opener
	Timeout time.Duration
	Logger  *slog.Logger
	// GetCurrentTime returns the current time. Defaults to time.Now.
	GetCurrentTime func() time.Time
}

// ReadRun reads a run from the first port that provides samples. Ports that cannot be opened, or that send nothing,
// are skipped. All ports share one timeout: ReadRun returns once the timeout expires, whatever the number of ports.
// If no port provides samples, ReadRun returns an empty Run.
//
// A read in progress is not interrupted when ctx is canceled: it ends at its own timeout.
func (r Reader) ReadRun(ctx context.Context, ports []string) Run {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	deadline := r.now().Add(timeout)

	for _, name := range ports {
		if ctx.Err() != nil || !r.now().Before(deadline) {
			break
		}
		run, err := r.readPort(name, deadline)
		if err != nil {
			r.Logger.Debug("no serial connection", "port", name, "err", err)
			continue
		}
		if !run.Empty() {
			return run
		}
		r.Logger.Debug("no samples received", "port", name)
	}
	return Run{}
}

func (r Reader) readPort(name string, deadline time.Time) (Run, error) {
	p, err := r.Open(name)
	if err != nil {
		return Run{}, err
	}
	defer func() { _ = p.Close() }()

	samples := make([]float64, 0, RunLength)
	var line []byte
	buf := make([]byte, 128)
	for len(samples) < RunLength && r.now().Before(deadline) {
		n, err := p.Read(buf)
		for _, b := range buf[:n] {
			if b != '\n' {
				line = append(line, b)
				continue
			}
			if value, ok := parseSample(line); ok {
				samples = append(samples, value)
			} else if len(bytes.TrimSpace(line)) > 0 {
				r.Logger.Debug("ignoring invalid sample", "port", name, "line", string(line))
			}
			line = line[:0]
			if len(samples) == RunLength {
				break
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				r.Logger.Warn("serial read failed", "port", name, "err", err)
			}
			break
		}
	}

	run := Run{Port: name, Samples: samples}
	if len(samples) == RunLength {
		run.Samples = samples[1 : RunLength-1]
		run.Complete = true
	}
	return run, nil
}

func (r Reader) now() time.Time {
	if r.GetCurrentTime != nil {
		return r.GetCurrentTime()
	}
	return time.Now()
}

func parseSample(line []byte) (float64, bool) {
	value, err := strconv.ParseFloat(string(bytes.TrimSpace(line)), 64)
	return value, err == nil
}
