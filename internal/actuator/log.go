package actuator

import (
	"log/slog"
	"sync"
)

// Log is a Driver that only logs the requested outputs. It is used when the lamp runs without GPIO hardware.
type Log struct {
	Logger *slog.Logger
	lock   sync.RWMutex
	duty   int
	pins   [2]bool
}

var _ Driver = &Log{}

func (l *Log) SetDutyCycle(duty int) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.duty = clamp(duty)
	l.Logger.Info("lamp brightness set", "duty", l.duty)
	return nil
}

func (l *Log) SetPins(levels [2]bool) error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.pins = levels
	l.Logger.Info("indicator set", "pin1", levels[0], "pin2", levels[1])
	return nil
}

func (l *Log) Close() error {
	l.lock.Lock()
	defer l.lock.Unlock()
	l.duty = 0
	l.pins = [2]bool{}
	l.Logger.Info("outputs reset")
	return nil
}

// DutyCycle returns the last duty cycle that was set.
func (l *Log) DutyCycle() int {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.duty
}

// Pins returns the last indicator levels that were set.
func (l *Log) Pins() [2]bool {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.pins
}
