// Package httpclient creates the instrumented HTTP clients used to reach the weather and telemetry services.
package httpclient

import (
	"github.com/clambin/go-common/http/metrics"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus"
	"net/http"
	"strconv"
	"time"
)

// DefaultTimeout is the overall timeout of one request.
const DefaultTimeout = 10 * time.Second

// New returns an http.Client that records request metrics for every call. If rt is nil, http.DefaultTransport is used.
func New(rt http.RoundTripper, m metrics.RequestMetrics) *http.Client {
	return &http.Client{
		Transport: instrumentedRoundTripper(rt, m),
		Timeout:   DefaultTimeout,
	}
}

func instrumentedRoundTripper(rt http.RoundTripper, m metrics.RequestMetrics) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return roundtripper.New(
		roundtripper.WithRequestMetrics(m),
		roundtripper.WithRoundTripper(rt),
	)
}

// NewRequestMetrics returns the request metrics for the remote services. Requests are labeled by host and path,
// so the API keys passed as query parameters never end up in a label.
func NewRequestMetrics(namespace, subsystem string, labels prometheus.Labels) metrics.RequestMetrics {
	return metrics.NewRequestMetrics(metrics.Options{
		Namespace:   namespace,
		Subsystem:   subsystem,
		ConstLabels: labels,
		LabelValues: func(request *http.Request, code int) (string, string, string) {
			return request.Method, request.URL.Host + request.URL.Path, strconv.Itoa(code)
		},
	})
}
