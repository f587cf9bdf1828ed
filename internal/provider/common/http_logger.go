package common

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/johanforsgren/glprofiles/internal/logger"
)

var httpLog = logger.ForComponent("http")

// LoggingTransport wraps an http.RoundTripper and logs one line per request
// and one per response. Credentials and bodies are never logged.
type LoggingTransport struct {
	Transport http.RoundTripper
}

func NewLoggingTransport(transport http.RoundTripper) *LoggingTransport {
	if transport == nil {
		transport = http.DefaultTransport
	}
	return &LoggingTransport{
		Transport: transport,
	}
}

func (t *LoggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	httpLog.Log("%s %s headers=[%s]", req.Method, req.URL.Redacted(), formatHeaders(req.Header))

	resp, err := t.Transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		httpLog.LogError("HTTP_REQUEST", fmt.Sprintf("%s %s", req.Method, req.URL.Redacted()), err)
		return nil, err
	}

	httpLog.Log("%s %s - %s (%v, %d bytes)", req.Method, req.URL.Path, resp.Status, duration.Round(time.Millisecond), resp.ContentLength)
	return resp, nil
}

func formatHeaders(h http.Header) string {
	parts := make([]string, 0, len(h))
	for name, values := range h {
		if isSensitiveHeader(name) {
			parts = append(parts, name+": [REDACTED]")
			continue
		}
		parts = append(parts, name+": "+strings.Join(values, ","))
	}
	return strings.Join(parts, "; ")
}

func isSensitiveHeader(name string) bool {
	switch strings.ToLower(name) {
	case "authorization", "private-token", "x-api-key", "api-key", "x-auth-token", "cookie", "set-cookie":
		return true
	}
	return false
}
