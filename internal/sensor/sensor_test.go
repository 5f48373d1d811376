package sensor_test

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clambin/smartlamp/internal/sensor"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakePort struct {
	io.Reader
	closed atomic.Bool
}

func (f *fakePort) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeOpener opens ports that produce the provided content. Ports without content do not exist.
func fakeOpener(content map[string]string) sensor.Opener {
	return func(name string) (sensor.Port, error) {
		data, ok := content[name]
		if !ok {
			return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrNotExist}
		}
		return &fakePort{Reader: strings.NewReader(data)}, nil
	}
}

// silentPort never sends any data, the way a serial port with a read timeout behaves.
type silentPort struct{}

func (silentPort) Read(_ []byte) (int, error) { return 0, nil }
func (silentPort) Close() error               { return nil }

// tickingClock advances one second every time it is read.
func tickingClock() func() time.Time {
	now := time.Date(2024, time.January, 1, 7, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

// clockSlack covers the reads of a fakeClock around a run's timeout.
const clockSlack = 3 * time.Second

// fakeClock advances one second every time it is read, and remembers the last time it returned.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

func lines(value string, count int) string {
	return strings.Repeat(value+"\n", count)
}

var errPortFailed = errors.New("port failed")
