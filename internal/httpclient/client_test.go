package httpclient

import (
	"bytes"
	"github.com/clambin/go-common/http/roundtripper"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		url  string
		code int
		want string
	}{
		{
			name: "thingspeak",
			url:  "https://api.thingspeak.com/update?api_key=secret&field5=1.22",
			code: http.StatusOK,
			want: `
# HELP smartlamp_remote_http_requests_total total number of http requests
# TYPE smartlamp_remote_http_requests_total counter
smartlamp_remote_http_requests_total{application="smartlamp",code="200",method="GET",path="api.thingspeak.com/update"} 1
`,
		},
		{
			name: "weather",
			url:  "http://api.openweathermap.org/data/2.5/weather?lat=1&lon=2&appid=secret",
			code: http.StatusUnauthorized,
			want: `
# HELP smartlamp_remote_http_requests_total total number of http requests
# TYPE smartlamp_remote_http_requests_total counter
smartlamp_remote_http_requests_total{application="smartlamp",code="401",method="GET",path="api.openweathermap.org/data/2.5/weather"} 1
`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewRequestMetrics("smartlamp", "remote", map[string]string{"application": "smartlamp"})
			finalRoundTripper := roundtripper.RoundTripperFunc(func(request *http.Request) (*http.Response, error) {
				return &http.Response{StatusCode: tt.code, Body: io.NopCloser(&bytes.Buffer{})}, nil
			})

			c := New(finalRoundTripper, m)
			resp, err := c.Get(tt.url)
			require.NoError(t, err)
			_ = resp.Body.Close()

			assert.NoError(t, testutil.CollectAndCompare(m, strings.NewReader(tt.want), "smartlamp_remote_http_requests_total"))
		})
	}
}
