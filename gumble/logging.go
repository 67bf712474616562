package gumble

import (
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
)

// NewDevLogger returns a *slog.Logger using lmittmann/tint's colorized,
// human-readable handler, matching the pattern DMRHub uses for its local
// development logger (cmd/root.go). Intended for Config.Logger during
// interactive development; production embedders typically inject their own
// structured *slog.Logger instead.
func NewDevLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
}
