package clog

import (
	"log/slog"
	"net/http"
	"time"
)

// Transport is an http.RoundTripper that emits one request log line per
// outgoing call, leveled by the response status.
type Transport struct {
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	startTime := time.Now()
	resp, err := base.RoundTrip(req)
	duration := time.Since(startTime)

	ctx := req.Context()
	attrs := []slog.Attr{
		slog.String("method", req.Method),
		slog.String("url", req.URL.String()),
		slog.Duration("duration", duration),
	}
	if err != nil {
		attrs = append(attrs, slog.Any(ErrorAttributeKey, err))
		slog.LogAttrs(ctx, slog.LevelWarn, "remote call failed", attrs...)
		return nil, err
	}
	attrs = append(attrs, slog.Int("status", resp.StatusCode))
	slog.LogAttrs(ctx, HTTPStatusToLevel(resp.StatusCode), http.StatusText(resp.StatusCode), attrs...)
	return resp, nil
}
