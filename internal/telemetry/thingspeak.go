package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const DefaultThingSpeakURL = "https://api.thingspeak.com/update"

// ThingSpeak uploads fields to a ThingSpeak channel, identified by its write key.
type ThingSpeak struct {
	HTTPClient *http.Client
	URL        string
	WriteKey   string
}

var _ Uploader = ThingSpeak{}

func (t ThingSpeak) Upload(ctx context.Context, fields Fields) error {
	target, err := url.Parse(t.URL)
	if err != nil {
		return fmt.Errorf("thingspeak: invalid url: %w", err)
	}
	q := target.Query()
	q.Set("api_key", t.WriteKey)
	for name, value := range fields {
		q.Set(string(name), strconv.FormatFloat(value, 'f', -1, 64))
	}
	target.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("thingspeak: %w", err)
	}
	httpClient := t.HTTPClient
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
	// ThingSpeak returns the entry id of the update, or 0 if the update was rejected.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRemoteService, err)
	}
	if entry := strings.TrimSpace(string(body)); entry == "0" || entry == "" {
		return fmt.Errorf("%w: update rejected", ErrRemoteService)
	}
	return nil
}
