// Package gateway is the HTTP surface of the log streaming service: the viewer
// page, the SSE and WebSocket streams, health and metrics.
package gateway

import (
	"github.com/benbjohnson/clock"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/logstream/pkg/config"
	"github.com/DeBrosOfficial/logstream/pkg/logging"
	"github.com/DeBrosOfficial/logstream/pkg/logsource"
	"github.com/DeBrosOfficial/logstream/pkg/metrics"
	"github.com/DeBrosOfficial/logstream/pkg/stream"
)

// Gateway holds the shared, read-only state of all request handlers.
type Gateway struct {
	cfg     *config.Config
	logger  *logging.ColoredLogger
	source  *logsource.Source
	clock   clock.Clock
	metrics *metrics.Metrics

	// existsFunc overrides the health check's existence check in tests.
	existsFunc func() (bool, error)
}

// Option customizes a Gateway.
type Option func(*Gateway)

// WithClock replaces the wall clock, used for timestamps and session polling.
func WithClock(clk clock.Clock) Option {
	return func(g *Gateway) { g.clock = clk }
}

// WithSource replaces the log source built from cfg.LogFilePath.
func WithSource(src *logsource.Source) Option {
	return func(g *Gateway) { g.source = src }
}

// New creates the gateway.
func New(cfg *config.Config, logger *logging.ColoredLogger, opts ...Option) *Gateway {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	g := &Gateway{
		cfg:    cfg,
		logger: logger,
		clock:  clock.New(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.source == nil {
		g.source = logsource.New(cfg.LogFilePath, g.clock, logger)
	}
	if cfg.MetricsEnabled {
		g.metrics = metrics.New(g.source.OpenHandles)
	}

	logger.ComponentInfo(logging.ComponentGateway, "Gateway initialized",
		zap.String("log_file", g.source.Path()),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("heartbeat_interval", cfg.HeartbeatInterval),
		zap.Bool("metrics", cfg.MetricsEnabled),
	)
	return g
}

// Source returns the tailed log source.
func (g *Gateway) Source() *logsource.Source {
	return g.source
}

// Metrics returns the collectors, or nil when metrics are disabled.
func (g *Gateway) Metrics() *metrics.Metrics {
	return g.metrics
}

func (g *Gateway) newSession() *stream.Session {
	return stream.NewSession(g.source, stream.Options{
		PollInterval:      g.cfg.PollInterval,
		HeartbeatInterval: g.cfg.HeartbeatInterval,
		Clock:             g.clock,
		Logger:            g.logger,
	})
}
