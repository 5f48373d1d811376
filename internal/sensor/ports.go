package sensor

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strconv"
)

// A Port is an open serial connection.
type Port interface {
	io.Reader
	io.Closer
}

// An Opener opens the serial port with the provided name.
type Opener func(name string) (Port, error)

// Discovery finds the serial ports that can be opened on the current system.
type Discovery struct {
	// GOOS selects the naming convention of the serial devices. Defaults to runtime.GOOS.
	GOOS string
	// Glob lists the devices matching a pattern. Defaults to filepath.Glob.
	Glob func(pattern string) ([]string, error)
	// Open probes each candidate port.
	Open Opener
}

const maxWindowsPort = 256

// Candidates returns the names of all serial devices that may exist on the system.
func (d Discovery) Candidates() ([]string, error) {
	goos := d.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	glob := d.Glob
	if glob == nil {
		glob = filepath.Glob
	}

	switch goos {
	case "windows":
		ports := make([]string, 0, maxWindowsPort)
		for i := 1; i <= maxWindowsPort; i++ {
			ports = append(ports, "COM"+strconv.Itoa(i))
		}
		return ports, nil
	case "linux", "cygwin":
		// excludes the current terminal /dev/tty
		return glob("/dev/tty[A-Za-z]*")
	case "darwin":
		return glob("/dev/tty.*")
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, goos)
	}
}

// Ports returns the candidate ports that could be opened.
func (d Discovery) Ports() ([]string, error) {
	candidates, err := d.Candidates()
	if err != nil {
		return nil, err
	}
	var ports []string
	for _, name := range candidates {
		p, err := d.Open(name)
		if err != nil {
			continue
		}
		_ = p.Close()
		ports = append(ports, name)
	}
	return ports, nil
}
