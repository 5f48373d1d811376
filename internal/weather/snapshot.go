package weather

import (
	"fmt"
	"log/slog"
)

// A ClockTime is a local time of day, with minute precision.
type ClockTime struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// A Snapshot holds the current weather. Each field is optional: a nil pointer, or an empty Description, means the
// weather service did not report it. Rain and Snow default to zero.
//
// The zero Snapshot is returned when no weather could be obtained at all.
type Snapshot struct {
	Temperature *float64   `json:"temperature,omitempty"`
	Clouds      *int       `json:"clouds,omitempty"`
	Description string     `json:"description,omitempty"`
	Rain        float64    `json:"rain"`
	Snow        float64    `json:"snow"`
	Sunrise     *ClockTime `json:"sunrise,omitempty"`
	Sunset      *ClockTime `json:"sunset,omitempty"`
}

// NoData is the snapshot returned when the weather could not be retrieved.
var NoData = Snapshot{}

// IsZero returns true if the snapshot holds no weather data.
func (s Snapshot) IsZero() bool {
	return s == NoData
}

const noData = "No data"

var _ slog.LogValuer = Snapshot{}

func (s Snapshot) LogValue() slog.Value {
	if s.IsZero() {
		return slog.StringValue(noData)
	}
	attrs := make([]slog.Attr, 0, 7)
	if s.Temperature != nil {
		attrs = append(attrs, slog.Float64("temperature", *s.Temperature))
	} else {
		attrs = append(attrs, slog.String("temperature", noData))
	}
	if s.Clouds != nil {
		attrs = append(attrs, slog.Int("clouds", *s.Clouds))
	} else {
		attrs = append(attrs, slog.String("clouds", noData))
	}
	description := s.Description
	if description == "" {
		description = noData
	}
	attrs = append(attrs,
		slog.String("description", description),
		slog.Float64("rain", s.Rain),
		slog.Float64("snow", s.Snow),
	)
	if s.Sunrise != nil {
		attrs = append(attrs, slog.String("sunrise", s.Sunrise.String()))
	}
	if s.Sunset != nil {
		attrs = append(attrs, slog.String("sunset", s.Sunset.String()))
	}
	return slog.GroupValue(attrs...)
}
