package telemetry

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/smartlamp/internal/weather"
	"log/slog"
	"time"
)

// DefaultDelay is how long the Sink waits after each upload. ThingSpeak rejects updates sent less than 15 seconds apart.
const DefaultDelay = 15 * time.Second

// ErrRemoteService means a telemetry service could not be reached, or rejected the upload.
var ErrRemoteService = errors.New("remote service failure")

// An Uploader sends fields to one remote data store.
type Uploader interface {
	Upload(ctx context.Context, fields Fields) error
}

// A Sink sends readings to all its uploaders.
type Sink struct {
	Uploaders map[string]Uploader
	Delay     time.Duration
	Logger    *slog.Logger
	// Sleep waits for the provided duration, or until ctx is done. Defaults to a timer.
	Sleep func(ctx context.Context, d time.Duration)
}

// Upload sends the sensor reading, in volts, and the weather snapshot to all uploaders. Either may be nil.
// Failures are logged and returned as one joined error. After every attempt, Upload waits for the configured delay.
func (s Sink) Upload(ctx context.Context, volts *float64, snapshot *weather.Snapshot) error {
	fields := SelectFields(volts, snapshot)
	var errs []error
	for name, u := range s.Uploaders {
		if err := u.Upload(ctx, fields); err != nil {
			s.Logger.Error("telemetry upload failed", "uploader", name, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		s.Logger.Debug("telemetry uploaded", "uploader", name, "fields", fields)
	}
	s.wait(ctx)
	return errors.Join(errs...)
}

func (s Sink) wait(ctx context.Context) {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	if s.Sleep != nil {
		s.Sleep(ctx, delay)
		return
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
