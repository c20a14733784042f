// Package logging holds small helpers shared by log call sites.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// ShortHash renders the leading bytes of a 32-byte root for log lines.
func ShortHash(h [32]byte) string {
	return fmt.Sprintf("%x", h[:4])
}

// New builds a text slog.Logger at the named level (debug, info, warn,
// error); unknown names fall back to info.
func New(level string) *slog.Logger {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: l}))
}
