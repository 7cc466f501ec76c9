// Package logger bootstraps the structured logger threaded through every
// engine subsystem. It wraps zap's production/development presets rather
// than hand-rolling encoder configuration, matching how the rest of this
// codebase depends on zap directly instead of a logging abstraction layer.
package logger

import (
	"go.uber.org/zap"
)

// Option customizes logger construction.
type Option func(*config)

type config struct {
	development bool
	level       zap.AtomicLevel
}

// WithDevelopment switches to a human-readable console encoder and
// debug-level verbosity, suited for local smoke-testing rather than
// production deployment.
func WithDevelopment() Option {
	return func(c *config) {
		c.development = true
	}
}

// WithLevel overrides the minimum enabled log level.
func WithLevel(level zap.AtomicLevel) Option {
	return func(c *config) {
		c.level = level
	}
}

// New builds a *zap.SugaredLogger for service, tagged with a "service"
// field so logs from multiple embedded stores in the same process can be
// told apart.
func New(service string, opts ...Option) (*zap.SugaredLogger, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	// The presets default to Info (production) and Debug (development);
	// WithLevel overrides either.
	var zapCfg zap.Config
	if cfg.development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	if cfg.level != (zap.AtomicLevel{}) {
		zapCfg.Level = cfg.level
	}

	base, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}

	return base.Sugar().With("service", service), nil
}

// Noop returns a logger that discards everything, for tests and callers
// that don't supply one of their own.
func Noop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
