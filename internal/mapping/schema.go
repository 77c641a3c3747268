// Package mapping defines the declarative trade-data mapping configuration:
// an ordered rule tree loaded once per run and shared, immutable, across
// every record the transformer processes.
package mapping

import (
	"github.com/palace-finmktstech-latam/cr2.0/internal/common"
)

// Config is the root of a YAML mapping configuration file.
// This is the authoritative, human-reviewed mapping configuration.
type Config struct {
	// DateFormat is the pattern source dates are written in
	// (e.g. "YYYY-MM-DD"). Output dates are always DD/MM/YYYY.
	DateFormat string `yaml:"date_format,omitempty"`

	// LegAssignment describes how raw role markers map input legs to the
	// canonical receive/pay legs.
	LegAssignment LegAssignment `yaml:"leg_assignment,omitempty"`

	// HeaderMappings are the rules for the trade header, in document order.
	HeaderMappings RuleMap `yaml:"header_mappings,omitempty"`

	// LegMappings are the rules applied once per canonical leg, in document order.
	LegMappings RuleMap `yaml:"leg_mappings,omitempty"`

	// ConditionalLegMappings are named rule sets applied after the base leg
	// mapping when their condition holds for the raw record.
	ConditionalLegMappings ConditionalRuleList `yaml:"conditional_leg_mappings,omitempty"`

	// Transformations are the named value lookup tables
	// (raw source code -> canonical value).
	Transformations map[string]TransformTable `yaml:"transformations,omitempty"`
}

// TransformTable is one exact-match value lookup table.
// Values may be strings or numbers, whatever the canonical vocabulary needs.
type TransformTable map[string]any

// LegAssignment configures role-marker resolution.
type LegAssignment struct {
	// RoleField is the templated source field holding the role marker,
	// with an {idx} placeholder for the physical input leg index.
	RoleField string `yaml:"role_field,omitempty"`

	// Roles are the raw codes marking the receiving and paying side.
	Roles RoleCodes `yaml:"roles,omitempty"`
}

// RoleCodes holds the raw role markers for each canonical side.
type RoleCodes struct {
	Receive string `yaml:"receive,omitempty"`
	Pay     string `yaml:"pay,omitempty"`
}

// RuleKind identifies which variant of FieldRule is active.
// Exactly one variant is active per rule instance.
type RuleKind int

const (
	// KindStatic emits a literal value from the configuration.
	KindStatic RuleKind = iota
	// KindDynamic injects a run-level value (e.g. the source parameter).
	KindDynamic
	// KindSourceField looks up a (templated) source field, with an
	// optional transformation.
	KindSourceField
	// KindSourceWithFallback tries a primary source field, falling back to a
	// secondary one when the primary is absent or empty.
	KindSourceWithFallback
	// KindPeriodCalc computes a period string from years/months/days fields.
	KindPeriodCalc
	// KindFallbackSource tries an optional primary source field and silently
	// falls through to a mandatory fallback field, without transformations.
	KindFallbackSource
	// KindReference resolves a dot path against the leg object built so far.
	KindReference
	// KindNested builds a nested object by resolving every sub-rule.
	KindNested
	// KindLegRole picks one of two literals depending on the canonical role
	// of the leg being built.
	KindLegRole
)

// String returns a human-readable rule kind name.
func (k RuleKind) String() string {
	switch k {
	case KindStatic:
		return "static_value"
	case KindDynamic:
		return "dynamic_value"
	case KindSourceField:
		return "source_field"
	case KindSourceWithFallback:
		return "source_fields"
	case KindPeriodCalc:
		return "period_calculation"
	case KindFallbackSource:
		return "fallback_source"
	case KindReference:
		return "reference_field"
	case KindNested:
		return "nested"
	case KindLegRole:
		return "leg_role"
	default:
		return common.UnknownStr
	}
}

// FieldRule is a single declarative instruction for deriving one output
// field from a raw record. Kind selects the active variant; only the fields
// belonging to that variant are meaningful.
type FieldRule struct {
	Kind RuleKind

	// Static holds the literal for KindStatic (string, number, bool or list).
	Static any

	// Dynamic names the run-level value for KindDynamic
	// (currently only "source_parameter").
	Dynamic string

	// SourceField is the templated field name for KindSourceField, and the
	// optional primary for KindFallbackSource.
	SourceField string

	// Transformation optionally names a transformation applied to the looked
	// up value (KindSourceField and KindSourceWithFallback).
	Transformation string

	// Primary and Fallback are the templated field names for
	// KindSourceWithFallback.
	Primary  string
	Fallback string

	// FallbackSource is the mandatory fallback field for KindFallbackSource.
	FallbackSource string

	// Period holds the calculation spec for KindPeriodCalc.
	Period *PeriodSpec

	// Reference is the dot path for KindReference.
	Reference string

	// Nested holds the ordered sub-rules for KindNested.
	Nested RuleMap

	// ReceiveValue and PayValue are the literals for KindLegRole.
	ReceiveValue any
	PayValue     any
}

// PeriodSpec configures a period calculation.
type PeriodSpec struct {
	// Years, Months and Days are templated source field names holding the
	// period components as integers.
	Years  string
	Months string
	Days   string

	// StartDate and EndDate optionally name the fields bounding the whole
	// trade, used to detect periods spanning the full trade term.
	StartDate string
	EndDate   string

	// Calculation selects the result vocabulary.
	Calculation CalculationType
}

// CalculationType selects between tenor and payment-frequency vocabulary.
type CalculationType string

const (
	// CalcTermFrequency renders full-trade periods as "TERM".
	CalcTermFrequency CalculationType = "term_frequency"
	// CalcPaymentFrequency renders full-trade periods as "ATMATURITY".
	CalcPaymentFrequency CalculationType = "payment_frequency"
)

// NamedRule pairs an output field name with its rule. Order matters:
// reference rules resolve against fields built earlier in the same pass.
type NamedRule struct {
	Name string
	Rule *FieldRule
}

// RuleMap is an ordered set of named field rules, preserving YAML document order.
type RuleMap []NamedRule

// Get returns the rule for the given output field name, or nil.
func (m RuleMap) Get(name string) *FieldRule {
	for _, nr := range m {
		if nr.Name == name {
			return nr.Rule
		}
	}

	return nil
}

// ConditionalRules is one named conditional rule set.
type ConditionalRules struct {
	// Name of the conditional block (the YAML key).
	Name string

	// Condition is the raw condition expression, with an {idx} placeholder
	// for the physical input leg index. Supported grammars:
	//   <field> in ['v1', 'v2']
	//   <field> is not empty
	// Anything else evaluates to false.
	Condition string

	// Fields are the extra rules applied when the condition holds.
	Fields RuleMap
}

// ConditionalRuleList preserves the document order of conditional blocks.
type ConditionalRuleList []ConditionalRules
