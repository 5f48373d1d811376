package sensor

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedPlatform means serial ports cannot be discovered on this operating system.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrNoData means no samples were available to compute a reading.
	ErrNoData = errors.New("no data")
	// ErrAcquisitionTimeout means no samples were received from any serial port within the read window.
	ErrAcquisitionTimeout = &acquisitionError{}
	// ErrMappingOutOfRange means a reading could not be mapped onto the duty cycle range.
	ErrMappingOutOfRange = &rangeError{}
)

type acquisitionError struct {
	ports []string
}

func (e *acquisitionError) Error() string {
	if len(e.ports) == 0 {
		return "acquisition timeout: no serial ports"
	}
	return fmt.Sprintf("acquisition timeout: no data received from %v", e.ports)
}

func (e *acquisitionError) Is(err error) bool {
	return err == ErrAcquisitionTimeout
}

type rangeError struct {
	value  float64
	lo, hi float64
}

func (e *rangeError) Error() string {
	if e.lo == e.hi {
		return "mapped value out of range"
	}
	return fmt.Sprintf("mapped value out of range: %.2f not in [%g,%g]", e.value, e.lo, e.hi)
}

func (e *rangeError) Is(err error) bool {
	return err == ErrMappingOutOfRange
}
