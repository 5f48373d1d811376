package alarms

import (
	"encoding/json"
	"fmt"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
	"io"
	"log/slog"
)

var (
	Cmd = cobra.Command{
		Use:   "alarms",
		Short: "manage the lamp's alarms",
	}

	listCmd = cobra.Command{
		Use:   "list",
		Short: "list the alarms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return list(cmd.OutOrStdout(), viper.GetString("alarms.file"), viper.GetString("format"), slog.Default())
		},
	}

	addCmd = cobra.Command{
		Use:   "add",
		Short: "add alarms interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return add(cmd.InOrStdin(), cmd.OutOrStdout(), viper.GetString("alarms.file"), slog.Default())
		},
	}

	listArgs = charmer.Arguments{
		"format": {Default: "yaml", Help: "output format (yaml or json)"},
	}
)

func init() {
	_ = charmer.SetPersistentFlags(&listCmd, viper.GetViper(), listArgs)
	Cmd.AddCommand(&listCmd, &addCmd)
}

func list(w io.Writer, path string, format string, l *slog.Logger) error {
	alarms := alarm.Load(path, l)
	if alarms == nil {
		alarms = alarm.Alarms{}
	}
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(alarms); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(alarms)
	default:
		return fmt.Errorf("invalid format %q", format)
	}
}

func add(r io.Reader, w io.Writer, path string, l *slog.Logger) error {
	alarms := alarm.NewPrompter(r, w).Prompt(alarm.Load(path, l))
	if err := alarm.Save(path, alarms); err != nil {
		return fmt.Errorf("save alarms: %w", err)
	}
	l.Info("alarms saved", "path", path, "count", len(alarms))
	return nil
}
