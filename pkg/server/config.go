package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/vpatch/pkg/patch"
)

// Config configures sessions and the HTTP handler.
type Config struct {
	// Logger receives session and request logs. Default: slog.Default().
	Logger *slog.Logger

	// Diagnostics selects how descriptor contract violations are reported.
	Diagnostics patch.Diagnostics

	// IsolateHooks recovers module hook panics instead of aborting.
	IsolateHooks bool

	// Tracing records every patch and request as an OpenTelemetry span.
	Tracing bool

	// TracerName is the instrumentation name. Default: "vpatch".
	TracerName string

	// Registry enables Prometheus collectors and the /metrics route.
	Registry *prometheus.Registry

	// Namespace and Subsystem prefix every metric name.
	Namespace string
	Subsystem string

	// ReadLimit is the maximum size in bytes of a request body or
	// WebSocket message. Zero means no limit.
	ReadLimit int64

	// WriteTimeout bounds each WebSocket write. Zero means no deadline.
	WriteTimeout time.Duration

	// CheckOrigin validates WebSocket upgrade origins. Default: same
	// origin only.
	CheckOrigin func(r *http.Request) bool

	// metrics is shared by every session of a handler.
	metrics *patch.Metrics
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Logger:       slog.Default(),
		TracerName:   "vpatch",
		Namespace:    "vpatch",
		ReadLimit:    1 << 20,
		WriteTimeout: 10 * time.Second,
	}
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
