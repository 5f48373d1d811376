package sensor_test

import (
	"testing"

	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscovery_Candidates(t *testing.T) {
	testCases := []struct {
		name        string
		goos        string
		wantPattern string
		wantErr     assert.ErrorAssertionFunc
	}{
		{name: "linux", goos: "linux", wantPattern: "/dev/tty[A-Za-z]*", wantErr: assert.NoError},
		{name: "cygwin", goos: "cygwin", wantPattern: "/dev/tty[A-Za-z]*", wantErr: assert.NoError},
		{name: "darwin", goos: "darwin", wantPattern: "/dev/tty.*", wantErr: assert.NoError},
		{name: "plan9", goos: "plan9", wantErr: assert.Error},
	}

	for _, tt := range testCases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var pattern string
			d := sensor.Discovery{
				GOOS: tt.goos,
				Glob: func(p string) ([]string, error) {
					pattern = p
					return []string{"/dev/ttyACM0"}, nil
				},
			}
			ports, err := d.Candidates()
			tt.wantErr(t, err)
			assert.Equal(t, tt.wantPattern, pattern)
			if err != nil {
				assert.ErrorIs(t, err, sensor.ErrUnsupportedPlatform)
				return
			}
			assert.Equal(t, []string{"/dev/ttyACM0"}, ports)
		})
	}
}

func TestDiscovery_Candidates_Windows(t *testing.T) {
	ports, err := sensor.Discovery{GOOS: "windows"}.Candidates()
	require.NoError(t, err)
	require.Len(t, ports, 256)
	assert.Equal(t, "COM1", ports[0])
	assert.Equal(t, "COM256", ports[255])
}

func TestDiscovery_Ports(t *testing.T) {
	d := sensor.Discovery{
		GOOS: "windows",
		Open: fakeOpener(map[string]string{"COM3": "", "COM7": ""}),
	}
	ports, err := d.Ports()
	require.NoError(t, err)
	assert.Equal(t, []string{"COM3", "COM7"}, ports)

	_, err = sensor.Discovery{GOOS: "js"}.Ports()
	assert.ErrorIs(t, err, sensor.ErrUnsupportedPlatform)
}
