package ports

import (
	"fmt"
	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"io"
)

var Cmd = cobra.Command{
	Use:   "ports",
	Short: "list the serial ports the light sensor can be read from",
	RunE: func(cmd *cobra.Command, _ []string) error {
		baud := viper.GetInt("sensor.baud")
		if baud == 0 {
			baud = 9600
		}
		return listPorts(cmd.OutOrStdout(), sensor.Discovery{Open: sensor.SerialOpener(baud)})
	},
}

func listPorts(w io.Writer, d sensor.Discovery) error {
	ports, err := d.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		_, _ = fmt.Fprintln(w, "no serial ports found")
		return nil
	}
	for _, port := range ports {
		_, _ = fmt.Fprintln(w, port)
	}
	return nil
}
