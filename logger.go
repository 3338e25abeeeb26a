package drawpool

import (
	"log/slog"

	"github.com/gogpu/drawpool/internal/logx"
)

// SetLogger configures the logger for drawpool and all its sub-packages.
// By default, drawpool produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by drawpool:
//   - [slog.LevelDebug]: buffer invalidations, frame buffer repaints, GPU uploads
//   - [slog.LevelWarn]: glyph atlas exhaustion, shaping fallbacks
//
// Example:
//
//	drawpool.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logx.SetLogger(l)
}

// Logger returns the current logger used by drawpool.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logx.Logger()
}
