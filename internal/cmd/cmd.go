package cmd

import (
	"errors"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/smartlamp/internal/cmd/alarms"
	"github.com/clambin/smartlamp/internal/cmd/ports"
	"github.com/clambin/smartlamp/internal/cmd/run"
	"github.com/clambin/smartlamp/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"log/slog"
	"os"
	"strings"
)

var (
	configFilename string
	RootCmd        = cobra.Command{
		Use:   "smartlamp",
		Short: "Controls a lamp from alarms, ambient light and the weather",
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), viper.GetString("log.format"), viper.GetBool("debug")))
		},
	}
)

var args = charmer.Arguments{
	"debug":       {Default: false, Help: "Log debug messages"},
	"log.format":  {Default: "json", Help: "Log format (json or text)"},
	"alarms.file": {Default: "Alarms.csv", Help: "File holding the alarms"},
}

func init() {
	cobra.OnInitialize(initConfig)
	RootCmd.PersistentFlags().StringVar(&configFilename, "config", "", "Configuration file")
	_ = charmer.SetPersistentFlags(&RootCmd, viper.GetViper(), args)
	for key, arg := range args {
		viper.SetDefault(key, arg.Default)
	}

	RootCmd.AddCommand(&run.Cmd, &alarms.Cmd, &ports.Cmd)
}

func initConfig() {
	if configFilename != "" {
		viper.SetConfigFile(configFilename)
	} else {
		viper.AddConfigPath("/etc/smartlamp/")
		viper.AddConfigPath("$HOME/.smartlamp")
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("SMARTLAMP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// all settings have a default: only an explicitly requested configuration file must exist
		var notFound viper.ConfigFileNotFoundError
		if configFilename != "" || !errors.As(err, &notFound) {
			slog.Error("failed to read config file", "err", err)
			os.Exit(1)
		}
	}
}
