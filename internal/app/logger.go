package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide logger. Deployments set LOG_FORMAT=json
// for machine-readable output; anything else gets the text handler, which is
// easier to scan locally. Every line carries the app attribute so the two
// binaries are distinguishable in shared log streams.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	var handler slog.Handler
	if cfg != nil && cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler).With(slog.String("app", "decretos"))
}
