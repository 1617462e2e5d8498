package environment

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"smm-storefront/internal/config"
)

const appName = "smm-storefront"

// initLogger picks text output for local runs and JSON elsewhere.
func initLogger(cfg config.Config) (*slog.Logger, error) {
	return newLogger(os.Stdout, cfg.Env, cfg.Logger.Level), nil
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLogLevel(level),
		AddSource: env != "local" && parseLogLevel(level) == slog.LevelDebug,
	}

	var handler slog.Handler
	if env == "local" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With("app", appName, "env", env)
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
