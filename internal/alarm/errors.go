package alarm

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for any alarm field that could not be accepted.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotANumber means the input could not be parsed as a number.
	ErrNotANumber = fmt.Errorf("%w: value entered not a number", ErrInvalidInput)
	// ErrOutOfRange means the input was a number, but not an acceptable one.
	ErrOutOfRange = fmt.Errorf("%w: value is not within range", ErrInvalidInput)
)

var _ error = &fieldError{}

type fieldError struct {
	field string
	input string
	err   error
}

func (e *fieldError) Error() string {
	return fmt.Sprintf("%s: %q: %s", e.field, e.input, e.err.Error())
}

func (e *fieldError) Unwrap() error {
	return e.err
}
