package alarm

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// FinishedInput ends interactive alarm entry when given at the "finished" prompt.
const FinishedInput = "1"

// A Prompter creates alarms from line-based console input.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Prompt asks for new alarms until the user is finished, or the input ends, and returns the provided alarms
// merged with the new ones.
func (p *Prompter) Prompt(alarms Alarms) Alarms {
	for {
		a, err := p.promptAlarm()
		if err != nil {
			return alarms
		}
		var duplicate bool
		if alarms, duplicate = Dedupe(append(alarms, a)); duplicate {
			p.printf("Duplicate found. Alarm %s not added!\n", a)
		}
		p.printf("Available alarms: %v\n", alarms)

		answer, err := p.readLine("If finished type " + FinishedInput + ", else press enter: ")
		if err != nil || answer == FinishedInput {
			return alarms
		}
	}
}

func (p *Prompter) promptAlarm() (Alarm, error) {
	var a Alarm
	var err error
	if a.Hour, err = p.promptField("Hour in 24 hour format (midnight is 0): ", "hour", 0, 23, 1); err != nil {
		return a, err
	}
	if a.Minute, err = p.promptField("Minutes, in multiples of 10: ", "minute", 0, 59, 10); err != nil {
		return a, err
	}
	a.Weekday, err = p.promptField("Day of the week (0 is Monday, 6 is Sunday): ", "weekday", 0, 6, 1)
	return a, err
}

// promptField re-prompts until a valid value is entered. It only returns an error when the input ends.
func (p *Prompter) promptField(prompt, field string, low, high, step int) (int, error) {
	for {
		input, err := p.readLine(prompt)
		if err != nil {
			return 0, err
		}
		value, err := ParseField(field, input, low, high, step)
		if err == nil {
			return value, nil
		}
		p.printf("Received error: %s\n", err)
	}
}

func (p *Prompter) readLine(prompt string) (string, error) {
	p.printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// ParseField parses one alarm field. The value must lie in [low, high] and be a multiple of step.
// Errors match ErrNotANumber or ErrOutOfRange, both of which are ErrInvalidInput.
func ParseField(field, input string, low, high, step int) (int, error) {
	value, err := strconv.Atoi(input)
	if err != nil {
		return 0, &fieldError{field: field, input: input, err: ErrNotANumber}
	}
	if value < low || value > high || value%step != 0 {
		return 0, &fieldError{field: field, input: input, err: fmt.Errorf("%w: %d-%d", ErrOutOfRange, low, high)}
	}
	return value, nil
}
