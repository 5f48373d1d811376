package collector

import (
	"context"
	"github.com/clambin/smartlamp/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"log/slog"
	"sync"
)

var (
	lampDutyCycle = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "lamp", "duty_cycle"),
		"Brightness of the lamp in percentage (0-100)",
		nil,
		nil,
	)
	lampState = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "", "state"),
		"State of the scheduler. Label state specifies the state, if the value is 1",
		[]string{"state"},
		nil,
	)
	lampAlarmWindows = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "alarm", "windows"),
		"Number of alarm windows, by phase",
		[]string{"phase"},
		nil,
	)
	sensorVolts = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "sensor", "volts"),
		"Last reading of the light sensor in volts",
		nil,
		nil,
	)
	sensorSamples = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "sensor", "samples"),
		"Number of samples in the last sensor reading",
		nil,
		nil,
	)
	outsideTemperature = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "outside", "temp_celsius"),
		"Current feels-like outside temperature in degrees celsius",
		nil,
		nil,
	)
	outsideClouds = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "outside", "clouds_percentage"),
		"Current cloudiness in percentage (0-100)",
		nil,
		nil,
	)
	outsideRain = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "outside", "rain_mm"),
		"Rain volume for the last hour in mm",
		nil,
		nil,
	)
	outsideSnow = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "outside", "snow_mm"),
		"Snow volume for the last hour in mm",
		nil,
		nil,
	)
	actions = prometheus.NewDesc(
		prometheus.BuildFQName("smartlamp", "", "actions_total"),
		"Number of actions performed by the scheduler, by action and result",
		[]string{"action", "result"},
		nil,
	)
)

type Publisher[T any] interface {
	Subscribe() chan T
	Unsubscribe(chan T)
}

// Collector exports the last Status published by the scheduler as Prometheus metrics.
type Collector struct {
	Publisher  Publisher[scheduler.Status]
	Logger     *slog.Logger
	lock       sync.RWMutex
	lastStatus *scheduler.Status
}

func (c *Collector) Run(ctx context.Context) error {
	c.Logger.Debug("started")
	defer c.Logger.Debug("stopped")

	ch := c.Publisher.Subscribe()
	defer c.Publisher.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return nil
		case status := <-ch:
			c.process(status)
		}
	}
}

func (c *Collector) process(status scheduler.Status) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.lastStatus = &status
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- lampDutyCycle
	ch <- lampState
	ch <- lampAlarmWindows
	ch <- sensorVolts
	ch <- sensorSamples
	ch <- outsideTemperature
	ch <- outsideClouds
	ch <- outsideRain
	ch <- outsideSnow
	ch <- actions
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.lock.RLock()
	defer c.lock.RUnlock()

	if c.lastStatus != nil {
		c.collectLamp(ch)
		c.collectSensor(ch)
		c.collectWeather(ch)
		c.collectActions(ch)
	}
}

func (c *Collector) collectLamp(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(lampDutyCycle, prometheus.GaugeValue, float64(c.lastStatus.DutyCycle))
	for _, state := range scheduler.States {
		var value float64
		if state == c.lastStatus.State {
			value = 1
		}
		ch <- prometheus.MustNewConstMetric(lampState, prometheus.GaugeValue, value, state.String())
	}
	var armed, active float64
	for _, w := range c.lastStatus.Windows {
		if w.Activated {
			active++
		} else {
			armed++
		}
	}
	ch <- prometheus.MustNewConstMetric(lampAlarmWindows, prometheus.GaugeValue, armed, "armed")
	ch <- prometheus.MustNewConstMetric(lampAlarmWindows, prometheus.GaugeValue, active, "active")
}

func (c *Collector) collectSensor(ch chan<- prometheus.Metric) {
	if m := c.lastStatus.Measurement; m != nil {
		ch <- prometheus.MustNewConstMetric(sensorVolts, prometheus.GaugeValue, m.Volts)
		ch <- prometheus.MustNewConstMetric(sensorSamples, prometheus.GaugeValue, float64(m.Samples))
	}
}

func (c *Collector) collectWeather(ch chan<- prometheus.Metric) {
	w := c.lastStatus.Weather
	if w == nil {
		return
	}
	if w.Temperature != nil {
		ch <- prometheus.MustNewConstMetric(outsideTemperature, prometheus.GaugeValue, *w.Temperature)
	}
	if w.Clouds != nil {
		ch <- prometheus.MustNewConstMetric(outsideClouds, prometheus.GaugeValue, float64(*w.Clouds))
	}
	ch <- prometheus.MustNewConstMetric(outsideRain, prometheus.GaugeValue, w.Rain)
	ch <- prometheus.MustNewConstMetric(outsideSnow, prometheus.GaugeValue, w.Snow)
}

func (c *Collector) collectActions(ch chan<- prometheus.Metric) {
	counters := c.lastStatus.Counters
	for _, a := range []struct {
		action string
		result string
		value  int
	}{
		{action: "alarm", result: "activated", value: counters.AlarmsActivated},
		{action: "alarm", result: "missed", value: counters.AlarmsMissed},
		{action: "sensor", result: "success", value: counters.SensorReads},
		{action: "sensor", result: "failure", value: counters.SensorFailures},
		{action: "weather", result: "success", value: counters.WeatherFetches},
		{action: "weather", result: "failure", value: counters.WeatherFailures},
		{action: "upload", result: "success", value: counters.Uploads},
		{action: "upload", result: "failure", value: counters.UploadFailures},
	} {
		ch <- prometheus.MustNewConstMetric(actions, prometheus.CounterValue, float64(a.value), a.action, a.result)
	}
}
