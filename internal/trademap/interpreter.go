package trademap

import (
	"fmt"
	"strings"

	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
	"github.com/palace-finmktstech-latam/cr2.0/internal/transform"
)

// MappingReason classifies a field-rule resolution failure.
type MappingReason string

const (
	// ReasonMissingField means a source field named by a rule is absent
	// from the record.
	ReasonMissingField MappingReason = "missing_field"
	// ReasonUnresolvedReference means a rule names a value the engine
	// cannot produce (e.g. an unknown dynamic value kind).
	ReasonUnresolvedReference MappingReason = "unresolved_reference"
)

// MappingError reports a failed field-rule resolution. It is scoped to one
// rule; the transformer catches it per record.
type MappingError struct {
	Reason MappingReason
	Field  string
}

// Error implements the error interface.
func (e *MappingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Field)
}

// SourceBank and SourceContract are the two run-level source tags: which
// side (bank system export vs. extracted contract) produced the input.
const (
	SourceBank     = "banco"
	SourceContract = "contrato"
)

// dynamicSourceParameter is the only supported dynamic value kind.
const dynamicSourceParameter = "source_parameter"

// defaultBusinessCenters is returned when a reference rule fails to resolve:
// the domestic settlement calendar is the safe default for this market.
var defaultBusinessCenters = []string{"CLSA"}

// Context carries the per-leg state a rule resolves against.
type Context struct {
	// LegIdx is the physical input leg index being read, or -1 when
	// building the header.
	LegIdx int

	// IsReceive is true while building the canonical receive leg.
	IsReceive bool

	// Leg is the leg object built so far in the current pass; reference
	// rules resolve dot paths against it.
	Leg map[string]any
}

// Interpreter resolves field rules against raw records. It holds only
// immutable run state and is safe to share across records.
type Interpreter struct {
	cfg    *mapping.Config
	source string
}

// NewInterpreter creates an interpreter for one run. source is the run-level
// source tag (SourceBank or SourceContract).
func NewInterpreter(cfg *mapping.Config, source string) *Interpreter {
	return &Interpreter{cfg: cfg, source: source}
}

// Resolve evaluates one field rule. The variant dispatch is exhaustive over
// the rule kinds; the priority order among overlapping YAML shapes was
// already decided at parse time.
func (it *Interpreter) Resolve(rule *mapping.FieldRule, rec Record, la LegAssignment, ctx Context) (any, error) {
	switch rule.Kind {
	case mapping.KindStatic:
		return rule.Static, nil

	case mapping.KindDynamic:
		if rule.Dynamic == dynamicSourceParameter {
			return it.source, nil
		}

		return nil, &MappingError{Reason: ReasonUnresolvedReference, Field: rule.Dynamic}

	case mapping.KindSourceField:
		return it.resolveSourceField(rule, rec, la, ctx)

	case mapping.KindSourceWithFallback:
		return it.resolveSourceWithFallback(rule, rec, la, ctx)

	case mapping.KindPeriodCalc:
		return it.calculatePeriod(rule.Period, rec, ctx)

	case mapping.KindFallbackSource:
		return it.resolveFallbackSource(rule, rec, la, ctx)

	case mapping.KindReference:
		return resolveReference(rule.Reference, ctx.Leg), nil

	case mapping.KindNested:
		nested := make(map[string]any, len(rule.Nested))

		for _, nr := range rule.Nested {
			v, err := it.Resolve(nr.Rule, rec, la, ctx)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", nr.Name, err)
			}

			nested[nr.Name] = v
		}

		return nested, nil

	case mapping.KindLegRole:
		if ctx.IsReceive {
			return rule.ReceiveValue, nil
		}

		return rule.PayValue, nil

	default:
		return nil, &MappingError{Reason: ReasonUnresolvedReference, Field: rule.Kind.String()}
	}
}

func (it *Interpreter) resolveSourceField(rule *mapping.FieldRule, rec Record, la LegAssignment, ctx Context) (any, error) {
	field := resolveTemplate(rule.SourceField, la, ctx.LegIdx)

	raw, ok := rec[field]
	if !ok {
		return nil, &MappingError{Reason: ReasonMissingField, Field: field}
	}

	if rule.Transformation != "" {
		return transform.Apply(rule.Transformation, raw, it.cfg)
	}

	return raw, nil
}

func (it *Interpreter) resolveSourceWithFallback(rule *mapping.FieldRule, rec Record, la LegAssignment, ctx Context) (any, error) {
	primary := resolveTemplate(rule.Primary, la, ctx.LegIdx)

	if raw, ok := rec[primary]; ok && raw != "" {
		if rule.Transformation != "" {
			return transform.Apply(rule.Transformation, raw, it.cfg)
		}

		return raw, nil
	}

	if rule.Fallback == "" {
		return nil, &MappingError{Reason: ReasonMissingField, Field: primary}
	}

	fallback := resolveTemplate(rule.Fallback, la, ctx.LegIdx)

	raw, ok := rec[fallback]
	if !ok {
		return nil, &MappingError{Reason: ReasonMissingField, Field: fallback}
	}

	if rule.Transformation != "" {
		return transform.Apply(rule.Transformation, raw, it.cfg)
	}

	return raw, nil
}

func (it *Interpreter) resolveFallbackSource(rule *mapping.FieldRule, rec Record, la LegAssignment, ctx Context) (any, error) {
	// Optional primary: absence or emptiness falls through silently.
	if rule.SourceField != "" {
		field := resolveTemplate(rule.SourceField, la, ctx.LegIdx)
		if raw, ok := rec[field]; ok && raw != "" {
			return raw, nil
		}
	}

	field := resolveTemplate(rule.FallbackSource, la, ctx.LegIdx)

	raw, ok := rec[field]
	if !ok {
		return nil, &MappingError{Reason: ReasonMissingField, Field: field}
	}

	return raw, nil
}

// resolveReference walks a dot path through the leg object built so far.
// An unresolvable path degrades to the default business-center list rather
// than failing the record.
func resolveReference(path string, leg map[string]any) any {
	var current any = leg

	for _, part := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return defaultBusinessCenters
		}

		current, ok = m[part]
		if !ok {
			return defaultBusinessCenters
		}
	}

	return current
}
