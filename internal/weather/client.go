// Package weather retrieves the current weather at the lamp's location.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultGeoURL     = "https://extreme-ip-lookup.com/json/"
	DefaultWeatherURL = "http://api.openweathermap.org/data/2.5/weather"
)

// ErrRemoteService means the geolocation or weather service could not be reached, or returned an invalid response.
var ErrRemoteService = errors.New("remote service failure")

// A Client fetches the weather for the location of the system's public IP address.
type Client struct {
	HTTPClient *http.Client
	GeoURL     string
	WeatherURL string
	APIKey     string
	// Location is the time zone for sunrise and sunset. Defaults to time.Local.
	Location *time.Location
	Logger   *slog.Logger
}

// Fetch returns the current weather. If the weather cannot be retrieved, Fetch logs the error and returns NoData.
func (c Client) Fetch(ctx context.Context) Snapshot {
	s, err := c.fetch(ctx)
	if err != nil {
		c.Logger.Error("failed to get weather", "err", err)
		return NoData
	}
	c.Logger.Debug("weather received", "weather", s)
	return s
}

func (c Client) fetch(ctx context.Context) (Snapshot, error) {
	var loc geolocation
	if err := c.get(ctx, c.GeoURL, &loc); err != nil {
		return NoData, fmt.Errorf("geolocation: %w", err)
	}

	target, err := url.Parse(c.WeatherURL)
	if err != nil {
		return NoData, fmt.Errorf("weather: invalid url: %w", err)
	}
	q := target.Query()
	q.Set("lat", strconv.FormatFloat(float64(loc.Lat), 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(float64(loc.Lon), 'f', -1, 64))
	q.Set("appid", c.APIKey)
	target.RawQuery = q.Encode()

	var current currentWeather
	if err = c.get(ctx, target.String(), &current); err != nil {
		return NoData, fmt.Errorf("weather: %w", err)
	}
	return current.snapshot(c.location(), c.Logger), nil
}

func (c Client) get(ctx context.Context, target string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteService, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s", ErrRemoteService, resp.Status)
	}
	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode: %w", ErrRemoteService, err)
	}
	return nil
}

func (c Client) location() *time.Location {
	if c.Location != nil {
		return c.Location
	}
	return time.Local
}

type geolocation struct {
	Lat coordinate `json:"lat"`
	Lon coordinate `json:"lon"`
}

// coordinate accepts both a JSON number and a quoted number.
type coordinate float64

func (c *coordinate) UnmarshalJSON(b []byte) error {
	v, err := strconv.ParseFloat(strings.Trim(string(b), `"`), 64)
	if err != nil {
		return fmt.Errorf("invalid coordinate %s", string(b))
	}
	*c = coordinate(v)
	return nil
}

type currentWeather struct {
	Main *struct {
		FeelsLike *float64 `json:"feels_like"`
	} `json:"main"`
	Clouds *struct {
		All *int `json:"all"`
	} `json:"clouds"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Rain *precipitation `json:"rain"`
	Snow *precipitation `json:"snow"`
	Sys  *struct {
		Sunrise *int64 `json:"sunrise"`
		Sunset  *int64 `json:"sunset"`
	} `json:"sys"`
}

type precipitation struct {
	OneHour *float64 `json:"1h"`
}

const kelvin = 273.15

func (w currentWeather) snapshot(loc *time.Location, logger *slog.Logger) Snapshot {
	var s Snapshot
	if w.Main != nil && w.Main.FeelsLike != nil {
		t := math.Round((*w.Main.FeelsLike-kelvin)*100) / 100
		s.Temperature = &t
	} else {
		logger.Debug("no temperature reported")
	}
	if w.Clouds != nil && w.Clouds.All != nil {
		clouds := *w.Clouds.All
		s.Clouds = &clouds
	} else {
		logger.Debug("no clouds reported")
	}
	if len(w.Weather) > 0 && w.Weather[0].Description != "" {
		s.Description = w.Weather[0].Description
	} else {
		logger.Debug("no description reported")
	}
	if w.Rain != nil && w.Rain.OneHour != nil {
		s.Rain = *w.Rain.OneHour
	} else {
		logger.Debug("no rain reported")
	}
	if w.Snow != nil && w.Snow.OneHour != nil {
		s.Snow = *w.Snow.OneHour
	} else {
		logger.Debug("no snow reported")
	}
	if w.Sys != nil {
		s.Sunrise = clockTime(w.Sys.Sunrise, loc)
		s.Sunset = clockTime(w.Sys.Sunset, loc)
	}
	if s.Sunrise == nil || s.Sunset == nil {
		logger.Debug("no sunrise/sunset reported")
	}
	return s
}

func clockTime(timestamp *int64, loc *time.Location) *ClockTime {
	if timestamp == nil {
		return nil
	}
	t := time.Unix(*timestamp, 0).In(loc)
	return &ClockTime{Hour: t.Hour(), Minute: t.Minute()}
}
