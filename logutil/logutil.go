// logutil.go - slog-Konstruktion fuer CLI und Server
//
// Dieses Modul enthaelt:
// - NewLogger: Erstellt einen slog-Logger mit Source-Kuerzung
// - LevelTrace: Zusaetzliches Log-Level unterhalb von Debug
// - Trace: Convenience-Funktion fuer Trace-Logging
package logutil

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
)

// LevelTrace liegt unterhalb von slog.LevelDebug
const LevelTrace slog.Level = slog.LevelDebug - 4

// NewLogger erstellt einen Text-Logger mit gekuerzten Quellpfaden
func NewLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.SourceKey:
				source := attr.Value.Any().(*slog.Source)
				source.File = filepath.Base(source.File)
			case slog.LevelKey:
				if attr.Value.Any().(slog.Level) == LevelTrace {
					attr.Value = slog.StringValue("TRACE")
				}
			}
			return attr
		},
	}))
}

// Trace loggt auf Trace-Level ueber den Default-Logger
func Trace(msg string, args ...any) {
	slog.Log(context.TODO(), LevelTrace, msg, args...)
}
