// Package obs contains observability utilities: logging and metrics.
package obs

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the global structured logger used by the gateway and the SDK.
var Logger = slog.New(slog.NewJSONHandler(io.Discard, nil))

// InitLogger initializes the global Logger with a JSON handler at info level.
func InitLogger() {
	InitLoggerTo(os.Stdout, slog.LevelInfo)
}

func InitLoggerTo(w io.Writer, level slog.Level) {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	Logger = slog.New(h)
}
