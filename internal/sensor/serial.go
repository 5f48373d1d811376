package sensor

import (
	"fmt"
	"go.bug.st/serial"
	"time"
)

// readPollInterval bounds each read from the serial port, so the Reader can enforce its own deadline.
const readPollInterval = time.Second

// SerialOpener returns an Opener for physical serial ports at the provided baud rate.
func SerialOpener(baud int) Opener {
	return func(name string) (Port, error) {
		p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
		if err != nil {
			return nil, fmt.Errorf("serial %s: %w", name, err)
		}
		if err = p.SetReadTimeout(readPollInterval); err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("serial %s: read timeout: %w", name, err)
		}
		// discard anything the sensor sent while the port was closed
		_ = p.ResetInputBuffer()
		return p, nil
	}
}
