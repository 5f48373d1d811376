package run

import (
	"context"
	"errors"
	"github.com/clambin/go-common/charmer"
	"github.com/clambin/smartlamp/internal/actuator"
	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/clambin/smartlamp/internal/telemetry"
	"github.com/clambin/smartlamp/internal/weather"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

var (
	Cmd = cobra.Command{
		Use:   "run",
		Short: "Control the lamp",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), viper.GetViper(), cmd.Root().Version, slog.Default())
		},
	}

	args = charmer.Arguments{
		"sensor.port":           {Default: "", Help: "Serial port of the light sensor (default: discover)"},
		"sensor.baud":           {Default: 9600, Help: "Baud rate of the light sensor"},
		"sensor.timeout":        {Default: sensor.DefaultReadTimeout, Help: "Time to wait for the sensor's readings"},
		"sensor.inputLow":       {Default: sensor.DefaultInputLow, Help: "Lowest expected sensor reading"},
		"sensor.inputHigh":      {Default: sensor.DefaultInputHigh, Help: "Highest expected sensor reading"},
		"lamp.driver":           {Default: "gpio", Help: "Lamp driver (gpio or log)"},
		"lamp.pwmPin":           {Default: actuator.DefaultPWMPin, Help: "PWM pin driving the lamp"},
		"lamp.pwmFrequency":     {Default: 1000, Help: "PWM frequency, in Hz"},
		"lamp.indicatorPins":    {Default: actuator.DefaultIndicatorPins[0] + "," + actuator.DefaultIndicatorPins[1], Help: "Pins driving the weather indicator"},
		"weather.apiKey":        {Default: "", Help: "OpenWeatherMap API key"},
		"weather.geoURL":        {Default: weather.DefaultGeoURL, Help: "Geolocation service URL"},
		"weather.url":           {Default: weather.DefaultWeatherURL, Help: "OpenWeatherMap current weather URL"},
		"telemetry.channel":     {Default: "", Help: "ThingSpeak channel ID"},
		"telemetry.writeKey":    {Default: "", Help: "ThingSpeak write key (default: ThingSpeak disabled)"},
		"telemetry.url":         {Default: telemetry.DefaultThingSpeakURL, Help: "ThingSpeak update URL"},
		"telemetry.delay":       {Default: telemetry.DefaultDelay, Help: "Time to wait after each upload"},
		"telemetry.mqtt.broker": {Default: "", Help: "MQTT broker (default: MQTT disabled)"},
		"telemetry.mqtt.topic":  {Default: telemetry.DefaultMQTTTopic, Help: "MQTT topic"},
		"slack.token":           {Default: "", Help: "Slack token (default: Slack disabled)"},
		"slack.channel":         {Default: "", Help: "Slack channel (default: all channels the bot has joined)"},
		"exporter.addr":         {Default: ":9090", Help: "Address of Prometheus exporter"},
		"health.addr":           {Default: ":8080", Help: "Address of /health endpoint"},
	}
)

func init() {
	_ = charmer.SetPersistentFlags(&Cmd, viper.GetViper(), args)
	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	for key, arg := range args {
		v.SetDefault(key, arg.Default)
	}
}

// Run controls the lamp until ctx is done, or the process is interrupted.
func Run(ctx context.Context, v *viper.Viper, version string, l *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c, err := newComponents(v, prometheus.DefaultRegisterer, l)
	if err != nil {
		return err
	}
	defer c.close()

	l.Info("smartlamp starting", "version", version, "alarms", len(c.engine.Alarms()))
	defer l.Info("smartlamp stopped")

	return c.run(ctx, v.GetString("exporter.addr"), v.GetString("health.addr"))
}

func (c *components) run(ctx context.Context, exporterAddr, healthAddr string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.scheduler.Run(ctx) })
	g.Go(func() error { return c.collector.Run(ctx) })
	g.Go(func() error { return c.health.Run(ctx) })
	g.Go(func() error { return serve(ctx, exporterAddr, c.metricsHandler) })
	g.Go(func() error {
		m := http.NewServeMux()
		m.Handle("/health", c.health)
		return serve(ctx, healthAddr, m)
	})
	return g.Wait()
}

const shutdownTimeout = 5 * time.Second

// serve runs an HTTP server until ctx is done.
func serve(ctx context.Context, addr string, h http.Handler) error {
	s := http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}
