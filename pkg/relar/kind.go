// Package relar defines the valuation report kinds sold by the provider and
// the normalization of their response payloads into flat, column-keyed
// records. Normalization is pure: no I/O, no shared state.
package relar

import (
	"fmt"
	"strings"
)

// Kind selects which valuation report is requested from the provider. It
// determines both the endpoint called and the response shape the normalizer
// extracts.
type Kind int

const (
	// KindFull is the RELAR Full Report (api/Valuation/advantage).
	KindFull Kind = iota
	// KindSimple is the RELAR Simple Report (api/Valuation/simple).
	KindSimple
	// KindRanged is the RELAR Ranged Report (api/Valuation/ranged).
	KindRanged
)

// Kinds lists all report kinds in display order.
func Kinds() []Kind {
	return []Kind{KindFull, KindSimple, KindRanged}
}

// String returns the short wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFull:
		return "full"
	case KindSimple:
		return "simple"
	case KindRanged:
		return "ranged"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Label returns the report name as the dashboard displays it.
func (k Kind) Label() string {
	switch k {
	case KindFull:
		return "RELAR Full Report"
	case KindSimple:
		return "RELAR Simple Report"
	case KindRanged:
		return "Ranged Report"
	default:
		return k.String()
	}
}

// Slug returns the kind token used in export filenames.
func (k Kind) Slug() string {
	switch k {
	case KindFull:
		return "relar_full_report"
	case KindSimple:
		return "relar_simple_report"
	case KindRanged:
		return "ranged_report"
	default:
		return k.String()
	}
}

// Valid reports whether k is one of the defined report kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindFull, KindSimple, KindRanged:
		return true
	}
	return false
}

// ParseKind maps a user-facing report name to a Kind. It accepts the short
// wire names and the long report labels, case-insensitively and ignoring
// surrounding whitespace.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full", "relar full report", "get relar full report":
		return KindFull, nil
	case "simple", "relar simple report", "get relar simple report":
		return KindSimple, nil
	case "ranged", "ranged report", "get ranged report":
		return KindRanged, nil
	}
	return 0, fmt.Errorf("unknown report kind %q", s)
}

// Address identifies one property for a provider lookup. The zip code stays
// a string so leading zeros survive the round trip. Empty fields are passed
// through unchanged; the provider decides what it accepts.
type Address struct {
	Street string `json:"address"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}
