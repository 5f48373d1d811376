// Package scheduler runs the lamp: on every tick it evaluates the alarms and, at fixed moments of the hour, reads
// the light sensor or fetches the weather.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/clambin/smartlamp/internal/weather"
	"github.com/clambin/smartlamp/pkg/pubsub"
	"log/slog"
	"time"
)

const (
	// DefaultSettle is the pause before acting on a window.
	DefaultSettle = time.Second
	tickInterval  = time.Second
)

type Alarms interface {
	Evaluate(now time.Time) (alarm.Event, alarm.Window)
	Active() bool
	Windows() []alarm.Window
}

type Sensor interface {
	Acquire(ctx context.Context) (sensor.Measurement, error)
}

type Weather interface {
	Fetch(ctx context.Context) weather.Snapshot
}

type Telemetry interface {
	Upload(ctx context.Context, volts *float64, snapshot *weather.Snapshot) error
}

// Outputs drives the lamp and the indicator.
type Outputs interface {
	SetDutyCycle(duty int) error
	SetPins(levels [2]bool) error
}

type Notifier interface {
	Notify(string)
}

// A Scheduler owns all state of the lamp. Tick is not safe for concurrent use: the Scheduler's state is shared with
// other components through the Status it publishes.
type Scheduler struct {
	*pubsub.Publisher[Status]
	alarms    Alarms
	sensor    Sensor
	weather   Weather
	telemetry Telemetry
	outputs   Outputs
	notifier  Notifier
	cadence   Cadence
	logger    *slog.Logger

	// Settle is the pause before reading the sensor or fetching the weather.
	Settle time.Duration
	// GetCurrentTime returns the current time. Defaults to time.Now.
	GetCurrentTime func() time.Time
	// Sleep waits for the provided duration, or until ctx is done.
	Sleep func(ctx context.Context, d time.Duration)

	duty        int
	sensorDuty  *int
	measurement *sensor.Measurement
	snapshot    *weather.Snapshot
	indicator   *weather.Indicator
	counters    Counters
}

func New(a Alarms, s Sensor, w Weather, t Telemetry, o Outputs, n Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		Publisher: pubsub.New[Status](logger),
		alarms:    a,
		sensor:    s,
		weather:   w,
		telemetry: t,
		outputs:   o,
		notifier:  n,
		cadence:   DefaultCadence(),
		logger:    logger,
		Settle:    DefaultSettle,
	}
}

// Run fetches the weather once, to set the indicator, and then calls Tick every second until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Debug("started")
	defer s.logger.Debug("stopped")

	s.warmUp(ctx)

	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick(ctx, s.now())
		}
	}
}

// Tick performs one iteration of the scheduler for the provided time.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	s.evaluateAlarms(now)

	for _, e := range s.cadence.due(now) {
		s.logger.Debug("window opened", "entry", e.Name, "time", now.Format(time.TimeOnly))
		switch e.Action {
		case ReadSensor:
			s.readSensor(ctx, now)
		case FetchWeather:
			s.fetchWeather(ctx)
		}
	}

	s.cadence.arm(now)
	s.Publish(s.status(now))
}

func (s *Scheduler) evaluateAlarms(now time.Time) {
	event, w := s.alarms.Evaluate(now)
	switch event {
	case alarm.Activated:
		s.counters.AlarmsActivated++
		s.logger.Info("alarm activated", "alarm", w.Alarm)
		s.setDutyCycle(100)
		s.notifier.Notify("Lights On")
	case alarm.Deactivated:
		s.logger.Info("alarm deactivated", "alarm", w.Alarm)
		s.notifier.Notify(fmt.Sprintf("Alarm %s deactivated", w.Alarm))
		s.setDutyCycle(s.sensorControlledDuty(now))
	case alarm.Missed:
		s.counters.AlarmsMissed++
		s.logger.Warn("alarm missed", "alarm", w.Alarm)
	}
}

func (s *Scheduler) readSensor(ctx context.Context, now time.Time) {
	s.sleep(ctx, s.Settle)

	m, err := s.sensor.Acquire(ctx)
	switch {
	case err == nil:
	case errors.Is(err, sensor.ErrMappingOutOfRange):
		// the reading is valid. only the brightness can't be derived from it.
		s.counters.SensorFailures++
		s.logger.Warn("sensor reading out of range. brightness unchanged", "measurement", m, "err", err)
		s.measurement = &m
		s.upload(ctx, &m.Volts, nil)
		return
	default:
		s.counters.SensorFailures++
		s.logger.Error("failed to read sensor", "err", err)
		return
	}

	s.counters.SensorReads++
	s.logger.Info("sensor read", "measurement", m)
	s.measurement = &m
	s.upload(ctx, &m.Volts, nil)

	duty := m.DutyCycle
	s.sensorDuty = &duty
	if s.alarms.Active() {
		s.logger.Debug("alarm active. brightness unchanged")
		return
	}
	s.setDutyCycle(s.sensorControlledDuty(now))
}

func (s *Scheduler) fetchWeather(ctx context.Context) {
	s.sleep(ctx, s.Settle)

	snapshot := s.weather.Fetch(ctx)
	if snapshot.IsZero() {
		s.counters.WeatherFailures++
		return
	}
	s.counters.WeatherFetches++
	s.snapshot = &snapshot
	s.updateIndicator(snapshot)

	var volts *float64
	if s.measurement != nil {
		volts = &s.measurement.Volts
	}
	s.upload(ctx, volts, &snapshot)
}

// warmUp sets the indicator from the current weather. The weather is not uploaded.
func (s *Scheduler) warmUp(ctx context.Context) {
	snapshot := s.weather.Fetch(ctx)
	if snapshot.IsZero() {
		s.logger.Warn("no weather available at startup")
		return
	}
	s.logger.Info("weather at startup", "weather", snapshot)
	s.snapshot = &snapshot
	s.updateIndicator(snapshot)
}

func (s *Scheduler) updateIndicator(snapshot weather.Snapshot) {
	indicator, ok := weather.ClassifyTemperature(snapshot)
	if !ok {
		s.logger.Debug("no temperature. indicator unchanged")
		return
	}
	if err := s.outputs.SetPins(indicator.Pins()); err != nil {
		s.logger.Error("failed to set indicator", "indicator", indicator, "err", err)
		return
	}
	s.indicator = &indicator
	s.logger.Debug("indicator set", "indicator", indicator)
}

func (s *Scheduler) upload(ctx context.Context, volts *float64, snapshot *weather.Snapshot) {
	if err := s.telemetry.Upload(ctx, volts, snapshot); err != nil {
		s.counters.UploadFailures++
		return
	}
	s.counters.Uploads++
}

// sensorControlledDuty returns the brightness determined by the last sensor reading, or zero at night.
func (s *Scheduler) sensorControlledDuty(now time.Time) int {
	if isNight(now) || s.sensorDuty == nil {
		return 0
	}
	return *s.sensorDuty
}

// isNight returns true between 23:00 and 06:00.
func isNight(now time.Time) bool {
	return now.Hour() >= 23 || now.Hour() < 6
}

func (s *Scheduler) setDutyCycle(duty int) {
	if err := s.outputs.SetDutyCycle(duty); err != nil {
		s.logger.Error("failed to set brightness", "duty", duty, "err", err)
		return
	}
	if duty != s.duty {
		s.logger.Debug("brightness changed", "from", s.duty, "to", duty)
	}
	s.duty = duty
}

func (s *Scheduler) status(now time.Time) Status {
	status := Status{
		Time:        now,
		State:       s.state(),
		DutyCycle:   s.duty,
		Windows:     s.alarms.Windows(),
		Measurement: s.measurement,
		Weather:     s.snapshot,
		Counters:    s.counters,
	}
	if s.indicator != nil {
		indicator := s.indicator.String()
		status.Indicator = &indicator
	}
	for _, e := range s.cadence {
		if e.Action != ReadSensor {
			continue
		}
		if next := e.Next(now); status.NextSensorRead.IsZero() || next.Before(status.NextSensorRead) {
			status.NextSensorRead = next
		}
	}
	return status
}

func (s *Scheduler) state() State {
	switch {
	case s.alarms.Active():
		return AlarmActive
	case s.cadence.armed(ReadSensor):
		return AwaitingPhotoWindow
	case s.cadence.armed(FetchWeather):
		return AwaitingWeatherWindow
	default:
		return StateIdle
	}
}

func (s *Scheduler) now() time.Time {
	if s.GetCurrentTime != nil {
		return s.GetCurrentTime()
	}
	return time.Now()
}

func (s *Scheduler) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	if s.Sleep != nil {
		s.Sleep(ctx, d)
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
