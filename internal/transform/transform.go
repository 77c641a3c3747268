// Package transform is the library of value transformations mapping raw
// source codes to canonical trade vocabulary. Table-driven transformations
// are strict: an unrecognized code fails rather than defaulting, so bad
// reference data surfaces instead of leaking into the canonical output.
package transform

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
)

// Names of the structural transformations that need no lookup table.
const (
	NameDateFormat  = "date_format"
	NameInteger     = "integer"
	NameFloat       = "float"
	NameNotional    = "notional"
	NameFXFixingLag = "fx_fixing_lag"
)

// Error reports a failed transformation application: an unknown code, an
// unknown transformation name, or an unparsable structural value.
type Error struct {
	// Name of the transformation that failed.
	Name string
	// Value is the offending raw value.
	Value string
	// Reason is a short human-readable explanation.
	Reason string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("transformation %s: %s (value %q)", e.Name, e.Reason, e.Value)
}

// DateLayout maps a configured date pattern to a Go time layout.
// Unrecognized patterns fall back to YYYY-MM-DD, as the original rules do.
func DateLayout(pattern string) string {
	switch pattern {
	case "DD/MM/YYYY":
		return "02/01/2006"
	case "MM/DD/YYYY":
		return "01/02/2006"
	case "YYYY/MM/DD":
		return "2006/01/02"
	default: // YYYY-MM-DD
		return "2006-01-02"
	}
}

// fallbackLayouts are tried, in order, when the configured layout fails.
var fallbackLayouts = []string{"02/01/2006", "2006-01-02", "01/02/2006", "2006/01/02"}

// outputDateLayout is the canonical rendering for all dates.
const outputDateLayout = "02/01/2006"

// Apply applies the named transformation to a raw source value using the
// tables and date format in cfg.
func Apply(name, raw string, cfg *mapping.Config) (any, error) {
	switch name {
	case NameDateFormat:
		return Date(raw, cfg.DateFormat), nil

	case NameInteger:
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &Error{Name: name, Value: raw, Reason: "not an integer"}
		}

		return n, nil

	case NameFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, &Error{Name: name, Value: raw, Reason: "not a number"}
		}

		return f, nil

	case NameNotional:
		return Notional(raw)

	case NameFXFixingLag:
		// Asymmetric fallback: table value when the code is known,
		// otherwise the raw value parsed as an integer (0 when empty).
		if table, ok := cfg.Transformations[name]; ok {
			if v, ok := table[raw]; ok {
				return v, nil
			}
		}

		if raw == "" {
			return 0, nil
		}

		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return nil, &Error{Name: name, Value: raw, Reason: "not an integer"}
		}

		return n, nil

	default:
		table, ok := cfg.Transformations[name]
		if !ok {
			return nil, &Error{Name: name, Value: raw, Reason: "unknown transformation type"}
		}

		v, ok := table[raw]
		if !ok {
			return nil, &Error{Name: name, Value: raw, Reason: "unknown code"}
		}

		return v, nil
	}
}

// Date re-renders a source date as DD/MM/YYYY. The configured input pattern
// is tried first, then a fixed list of common alternatives. Date parsing
// never fails a record: when nothing matches, the raw string passes through
// unchanged with a warning.
func Date(raw, pattern string) string {
	if raw == "" {
		return ""
	}

	layout := DateLayout(pattern)

	if t, err := time.Parse(layout, raw); err == nil {
		return t.Format(outputDateLayout)
	}

	for _, alt := range fallbackLayouts {
		if alt == layout {
			continue
		}

		if t, err := time.Parse(alt, raw); err == nil {
			log.Printf("warning: date %q parsed with alternative format %q instead of configured %q", raw, alt, pattern)
			return t.Format(outputDateLayout)
		}
	}

	log.Printf("warning: could not parse date: %q", raw)

	return raw
}

// Notional parses a notional amount, stripping thousands separators and
// spaces. Empty input is an error: a trade without a notional is broken data.
func Notional(raw string) (any, error) {
	clean := strings.ReplaceAll(strings.ReplaceAll(raw, ",", ""), " ", "")
	if clean == "" {
		return nil, &Error{Name: NameNotional, Value: raw, Reason: "notional amount cannot be empty"}
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return nil, &Error{Name: NameNotional, Value: raw, Reason: "not a number"}
	}

	f, _ := d.Float64()

	return f, nil
}
