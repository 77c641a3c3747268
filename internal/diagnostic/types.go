// Package diagnostic collects warnings and per-record failures raised
// during a mapping or comparison run, so the CLIs can print a batch
// summary instead of aborting on the first bad record.
package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/palace-finmktstech-latam/cr2.0/internal/common"
)

// Diagnostics holds all diagnostic information from a run.
type Diagnostics struct {
	Errors   []Diagnostic
	Warnings []Diagnostic
	Infos    []Diagnostic
}

// Diagnostic represents a single diagnostic message.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity
	// Code is a unique identifier for this type of diagnostic.
	Code string
	// Message is the human-readable description.
	Message string
	// Record identifies which trade record this relates to (if any),
	// normally the deal number.
	Record string
	// Rule identifies which output field rule this relates to (if any).
	Rule string
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// String renders a diagnostic as a single log-friendly line.
func (d Diagnostic) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message))

	if d.Record != "" {
		sb.WriteString(fmt.Sprintf(" (record %s)", d.Record))
	}

	if d.Rule != "" {
		sb.WriteString(fmt.Sprintf(" (rule %s)", d.Rule))
	}

	return sb.String()
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, record, rule string) {
	d.Errors = append(d.Errors, Diagnostic{
		Severity: SeverityError,
		Code:     code,
		Message:  message,
		Record:   record,
		Rule:     rule,
	})
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, record, rule string) {
	d.Warnings = append(d.Warnings, Diagnostic{
		Severity: SeverityWarning,
		Code:     code,
		Message:  message,
		Record:   record,
		Rule:     rule,
	})
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, record, rule string) {
	d.Infos = append(d.Infos, Diagnostic{
		Severity: SeverityInfo,
		Code:     code,
		Message:  message,
		Record:   record,
		Rule:     rule,
	})
}

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	return len(d.Errors) > 0
}

// Merge merges another Diagnostics instance into this one.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.Errors = append(d.Errors, other.Errors...)
	d.Warnings = append(d.Warnings, other.Warnings...)
	d.Infos = append(d.Infos, other.Infos...)
}

// Error returns a combined error from all error diagnostics, or nil if there are none.
func (d *Diagnostics) Error() error {
	if !d.HasErrors() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}
