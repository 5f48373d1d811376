// Package actuator drives the lamp's LED and its two indicator pins.
package actuator

// A Lamp sets the brightness of the lamp, as a duty cycle between 0 and 100.
type Lamp interface {
	SetDutyCycle(duty int) error
}

// An Indicator sets the level of the two indicator pins. True means high.
type Indicator interface {
	SetPins(levels [2]bool) error
}

// A Driver controls all outputs. Close switches the lamp off, sets the indicator pins low and releases the pins.
type Driver interface {
	Lamp
	Indicator
	Close() error
}

func clamp(duty int) int {
	return min(max(duty, 0), 100)
}
