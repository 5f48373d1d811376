package run

import (
	"fmt"
	"github.com/clambin/smartlamp/internal/actuator"
	"github.com/clambin/smartlamp/internal/alarm"
	"github.com/clambin/smartlamp/internal/collector"
	"github.com/clambin/smartlamp/internal/health"
	"github.com/clambin/smartlamp/internal/httpclient"
	"github.com/clambin/smartlamp/internal/notifier"
	"github.com/clambin/smartlamp/internal/scheduler"
	"github.com/clambin/smartlamp/internal/sensor"
	"github.com/clambin/smartlamp/internal/telemetry"
	"github.com/clambin/smartlamp/internal/weather"
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"log/slog"
	"net/http"
	"periph.io/x/conn/v3/physic"
	"strings"
	"time"
)

const (
	mqttClientID       = "smartlamp"
	mqttTimeout        = 10 * time.Second
	mqttDisconnectWait = 250
)

type components struct {
	engine         *alarm.Engine
	driver         actuator.Driver
	mqttClient     mqtt.Client
	scheduler      *scheduler.Scheduler
	collector      *collector.Collector
	health         *health.Health
	metricsHandler http.Handler
	logger         *slog.Logger
}

func newComponents(v *viper.Viper, r prometheus.Registerer, l *slog.Logger) (*components, error) {
	ports, err := sensorPorts(v)
	if err != nil {
		return nil, err
	}

	c := components{logger: l}

	requestMetrics := httpclient.NewRequestMetrics("smartlamp", "remote", nil)
	if err = r.Register(requestMetrics); err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	httpClient := httpclient.New(nil, requestMetrics)

	c.engine = alarm.NewEngine(alarm.Load(v.GetString("alarms.file"), l.With("component", "alarms")), l.With("component", "alarms"))

	acquirer := sensor.Acquirer{
		Reader: sensor.Reader{
			Open:    sensor.SerialOpener(v.GetInt("sensor.baud")),
			Timeout: v.GetDuration("sensor.timeout"),
			Logger:  l.With("component", "sensor"),
		},
		Ports:     ports,
		InputLow:  v.GetFloat64("sensor.inputLow"),
		InputHigh: v.GetFloat64("sensor.inputHigh"),
		Logger:    l.With("component", "sensor"),
	}

	weatherClient := weather.Client{
		HTTPClient: httpClient,
		GeoURL:     v.GetString("weather.geoURL"),
		WeatherURL: v.GetString("weather.url"),
		APIKey:     v.GetString("weather.apiKey"),
		Logger:     l.With("component", "weather"),
	}

	uploaders := make(map[string]telemetry.Uploader)
	if key := v.GetString("telemetry.writeKey"); key != "" {
		uploaders["thingspeak"] = telemetry.ThingSpeak{HTTPClient: httpClient, URL: v.GetString("telemetry.url"), WriteKey: key}
		l.Debug("thingspeak enabled", "channel", v.GetString("telemetry.channel"))
	}
	if broker := v.GetString("telemetry.mqtt.broker"); broker != "" {
		// telemetry is never fatal: without a broker, the lamp still works
		if c.mqttClient, err = telemetry.Connect(broker, mqttClientID, mqttTimeout); err != nil {
			l.Error("mqtt disabled", "broker", broker, "err", err)
		} else {
			uploaders["mqtt"] = telemetry.MQTT{Client: c.mqttClient, Topic: v.GetString("telemetry.mqtt.topic"), Timeout: mqttTimeout}
		}
	}
	if len(uploaders) == 0 {
		l.Warn("no telemetry configured")
	}
	sink := telemetry.Sink{
		Uploaders: uploaders,
		Delay:     v.GetDuration("telemetry.delay"),
		Logger:    l.With("component", "telemetry"),
	}

	if c.driver, err = newDriver(v, l.With("component", "actuator")); err != nil {
		c.close()
		return nil, err
	}

	c.scheduler = scheduler.New(c.engine, acquirer, weatherClient, sink, c.driver, newNotifier(v, l), l.With("component", "scheduler"))

	c.collector = &collector.Collector{Publisher: c.scheduler, Logger: l.With("component", "collector")}
	if err = r.Register(c.collector); err != nil {
		c.close()
		return nil, fmt.Errorf("metrics: %w", err)
	}
	c.metricsHandler = promhttp.Handler()
	if g, ok := r.(prometheus.Gatherer); ok {
		c.metricsHandler = promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	}

	c.health = health.New(c.scheduler, l.With("component", "health"))
	return &c, nil
}

// close turns off the lamp and releases the connections held by the components.
func (c *components) close() {
	if c.driver != nil {
		if err := c.driver.Close(); err != nil {
			c.logger.Error("failed to reset outputs", "err", err)
		}
	}
	if c.mqttClient != nil {
		c.mqttClient.Disconnect(mqttDisconnectWait)
	}
}

// sensorPorts returns the serial ports to read from: the configured port, or all ports found on the system.
func sensorPorts(v *viper.Viper) (func() ([]string, error), error) {
	if port := v.GetString("sensor.port"); port != "" {
		return func() ([]string, error) { return []string{port}, nil }, nil
	}
	d := sensor.Discovery{Open: sensor.SerialOpener(v.GetInt("sensor.baud"))}
	if _, err := d.Candidates(); err != nil {
		return nil, err
	}
	return d.Ports, nil
}

func newDriver(v *viper.Viper, l *slog.Logger) (actuator.Driver, error) {
	switch driver := v.GetString("lamp.driver"); driver {
	case "gpio":
		pins, err := indicatorPins(v)
		if err != nil {
			return nil, err
		}
		return actuator.NewGPIO(v.GetString("lamp.pwmPin"), physic.Frequency(v.GetInt64("lamp.pwmFrequency"))*physic.Hertz, pins)
	case "log":
		return &actuator.Log{Logger: l}, nil
	default:
		return nil, fmt.Errorf("invalid lamp driver %q", driver)
	}
}

// indicatorPins accepts both a list and a comma-separated string.
func indicatorPins(v *viper.Viper) ([2]string, error) {
	var pins []string
	for _, entry := range v.GetStringSlice("lamp.indicatorPins") {
		for _, pin := range strings.Split(entry, ",") {
			if pin = strings.TrimSpace(pin); pin != "" {
				pins = append(pins, pin)
			}
		}
	}
	if len(pins) != 2 {
		return [2]string{}, fmt.Errorf("lamp.indicatorPins: expected 2 pins, got %d", len(pins))
	}
	return [2]string{pins[0], pins[1]}, nil
}

func newNotifier(v *viper.Viper, l *slog.Logger) notifier.Notifiers {
	n := notifier.Notifiers{notifier.SLogNotifier{Logger: l.With("component", "notifier")}}
	if token := v.GetString("slack.token"); token != "" {
		n = append(n, &notifier.SlackNotifier{
			Logger:      l.With("component", "slack"),
			SlackSender: slack.New(token),
			Channel:     v.GetString("slack.channel"),
		})
	}
	return n
}
