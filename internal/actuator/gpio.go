package actuator

import (
	"errors"
	"fmt"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

const (
	DefaultPWMPin       = "GPIO18"
	DefaultPWMFrequency = 1000 * physic.Hertz
)

// DefaultIndicatorPins are the pins driving the indicator LEDs.
var DefaultIndicatorPins = [2]string{"GPIO20", "GPIO21"}

// GPIO drives the lamp through a PWM-capable pin and the indicator through two digital pins.
type GPIO struct {
	pwm        gpio.PinIO
	frequency  physic.Frequency
	indicators [2]gpio.PinIO
}

var _ Driver = &GPIO{}

// NewGPIO initializes the host's GPIO drivers and opens the provided pins. The lamp starts off, with the indicator
// pins low.
func NewGPIO(pwmPin string, frequency physic.Frequency, indicatorPins [2]string) (*GPIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio: init: %w", err)
	}
	g := GPIO{frequency: frequency}
	if g.pwm = gpioreg.ByName(pwmPin); g.pwm == nil {
		return nil, fmt.Errorf("gpio: unknown pin %q", pwmPin)
	}
	for i, name := range indicatorPins {
		if g.indicators[i] = gpioreg.ByName(name); g.indicators[i] == nil {
			return nil, fmt.Errorf("gpio: unknown pin %q", name)
		}
	}
	if err := g.SetDutyCycle(0); err != nil {
		return nil, err
	}
	if err := g.SetPins([2]bool{}); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *GPIO) SetDutyCycle(duty int) error {
	if err := g.pwm.PWM(dutyCycle(duty), g.frequency); err != nil {
		return fmt.Errorf("gpio: %s: pwm: %w", g.pwm.Name(), err)
	}
	return nil
}

func (g *GPIO) SetPins(levels [2]bool) error {
	for i, pin := range g.indicators {
		if err := pin.Out(gpio.Level(levels[i])); err != nil {
			return fmt.Errorf("gpio: %s: %w", pin.Name(), err)
		}
	}
	return nil
}

func (g *GPIO) Close() error {
	errs := []error{g.SetDutyCycle(0), g.SetPins([2]bool{}), g.pwm.Halt()}
	for _, pin := range g.indicators {
		errs = append(errs, pin.Halt())
	}
	return errors.Join(errs...)
}

// dutyCycle converts a percentage to a periph duty cycle.
func dutyCycle(duty int) gpio.Duty {
	return gpio.DutyMax * gpio.Duty(clamp(duty)) / 100
}
