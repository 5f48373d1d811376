// Package telemetry uploads sensor and weather readings to remote data stores.
package telemetry

import (
	"github.com/clambin/smartlamp/internal/weather"
	"log/slog"
	"sort"
)

// A Field identifies one value of an upload. The names match the fields of a ThingSpeak channel.
type Field string

const (
	Temperature Field = "field1"
	Clouds      Field = "field2"
	Rain        Field = "field3"
	Snow        Field = "field4"
	Sensor      Field = "field5"
)

// Fields are the values of one upload.
type Fields map[Field]float64

// SelectFields returns the fields to upload for an optional sensor reading, in volts, and an optional weather
// snapshot. Temperature and clouds are only included if the snapshot reports them.
func SelectFields(volts *float64, snapshot *weather.Snapshot) Fields {
	fields := make(Fields, 5)
	if volts != nil {
		fields[Sensor] = *volts
	}
	if snapshot == nil {
		return fields
	}
	fields[Rain] = snapshot.Rain
	fields[Snow] = snapshot.Snow
	if snapshot.Temperature != nil {
		fields[Temperature] = *snapshot.Temperature
	}
	if snapshot.Clouds != nil {
		fields[Clouds] = float64(*snapshot.Clouds)
	}
	return fields
}

// Names returns the names of the fields, in order.
func (f Fields) Names() []Field {
	names := make([]Field, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

func (f Fields) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(f))
	for _, name := range f.Names() {
		attrs = append(attrs, slog.Float64(string(name), f[name]))
	}
	return slog.GroupValue(attrs...)
}
