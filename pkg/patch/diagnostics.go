package patch

import (
	"fmt"
	"strings"

	"github.com/vango-dev/vpatch/internal/errors"
)

// Diagnostics selects how descriptor contract violations (duplicate keys,
// elements without tag, components rendering nil) are handled. In every
// mode the patcher degrades the same way: the first duplicate key wins
// lookups and missing content becomes an empty comment node.
type Diagnostics uint8

const (
	// DiagnosticsWarn logs each violation and degrades.
	DiagnosticsWarn Diagnostics = iota
	// DiagnosticsOff degrades silently.
	DiagnosticsOff
	// DiagnosticsStrict panics with the violation; SafePatch returns it.
	DiagnosticsStrict
)

// String returns the string representation of the Diagnostics mode.
func (d Diagnostics) String() string {
	switch d {
	case DiagnosticsWarn:
		return "warn"
	case DiagnosticsOff:
		return "off"
	case DiagnosticsStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// ParseDiagnostics parses "off", "warn" or "strict". An empty string is "warn".
func ParseDiagnostics(s string) (Diagnostics, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "warn":
		return DiagnosticsWarn, nil
	case "off":
		return DiagnosticsOff, nil
	case "strict":
		return DiagnosticsStrict, nil
	default:
		return DiagnosticsWarn, fmt.Errorf("unknown diagnostics mode %q", s)
	}
}

func (p *Patcher) violation(err *errors.Error) {
	switch p.diag {
	case DiagnosticsOff:
	case DiagnosticsStrict:
		panic(err)
	default:
		p.logger.Warn("descriptor contract violation",
			"error", err,
			"code", err.Code,
		)
	}
}
