// Package logging constructs the process-wide zap logger. Components
// derive their own scope with logger.Named.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// #region constructor

// New builds the process logger. debug enables development output with
// Debug-level gating; otherwise a production JSON logger is returned.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		return cfg.Build()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableStacktrace = true
	return cfg.Build()
}

// #endregion constructor

// #region preview

// Preview renders a compact single-line preview of raw child output:
// truncated to max bytes, control characters escaped.
func Preview(out []byte, max int) string {
	if max > 0 && len(out) > max {
		out = out[:max]
	}
	var b strings.Builder
	for _, c := range out {
		switch {
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c >= 0x20 && c < 0x7f:
			b.WriteByte(c)
		default:
			fmt.Fprintf(&b, `\x%02X`, c)
		}
	}
	return b.String()
}

// #endregion preview
