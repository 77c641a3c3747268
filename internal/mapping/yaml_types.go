package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// --- RuleMap YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for RuleMap.
// A plain map[string]*FieldRule would lose document order, which the
// interpreter relies on for reference-field resolution, so the mapping node
// content is walked pairwise instead.
func (m *RuleMap) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping of field rules, got %v", node.Kind)
	}

	rules := make(RuleMap, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid field name: %w", err)
		}

		rule := &FieldRule{}
		if err := node.Content[i+1].Decode(rule); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}

		rules = append(rules, NamedRule{Name: name, Rule: rule})
	}

	*m = rules

	return nil
}

// MarshalYAML renders a RuleMap back as an ordinary YAML mapping.
func (m RuleMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}

	for _, nr := range m {
		key := &yaml.Node{}
		if err := key.Encode(nr.Name); err != nil {
			return nil, err
		}

		val := &yaml.Node{}
		if err := val.Encode(nr.Rule); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, key, val)
	}

	return node, nil
}

// --- FieldRule YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for FieldRule.
// The variant is decided by which keys the mapping node carries:
//
//	static_value: ...                     -> KindStatic
//	dynamic_value: source_parameter       -> KindDynamic
//	source_fields + calculation_type      -> KindPeriodCalc
//	source_fields: {primary, fallback}    -> KindSourceWithFallback
//	source_field (no fallback_source)     -> KindSourceField
//	fallback_source [+ source_field]      -> KindFallbackSource
//	reference_field: a.b.c                -> KindReference
//	receive_leg / pay_leg                 -> KindLegRole
//	anything else (a plain mapping)       -> KindNested
//
// A bare scalar or sequence is a static literal.
func (r *FieldRule) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.SequenceNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return err
		}

		*r = FieldRule{Kind: KindStatic, Static: v}

		return nil

	case yaml.MappingNode:
		return r.unmarshalMapping(node)

	default:
		return fmt.Errorf("expected scalar, sequence or mapping for field rule, got %v", node.Kind)
	}
}

func (r *FieldRule) unmarshalMapping(node *yaml.Node) error {
	keys := make(map[string]*yaml.Node, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return fmt.Errorf("invalid rule key: %w", err)
		}

		keys[key] = node.Content[i+1]
	}

	switch {
	case keys["static_value"] != nil:
		var v any
		if err := keys["static_value"].Decode(&v); err != nil {
			return fmt.Errorf("static_value: %w", err)
		}

		*r = FieldRule{Kind: KindStatic, Static: v}

	case keys["dynamic_value"] != nil:
		var v string
		if err := keys["dynamic_value"].Decode(&v); err != nil {
			return fmt.Errorf("dynamic_value: %w", err)
		}

		*r = FieldRule{Kind: KindDynamic, Dynamic: v}

	case keys["source_fields"] != nil:
		return r.unmarshalSourceFields(keys)

	case keys["source_field"] != nil && keys["fallback_source"] == nil:
		out := FieldRule{Kind: KindSourceField}

		if err := keys["source_field"].Decode(&out.SourceField); err != nil {
			return fmt.Errorf("source_field: %w", err)
		}

		if t := keys["transformation"]; t != nil {
			if err := t.Decode(&out.Transformation); err != nil {
				return fmt.Errorf("transformation: %w", err)
			}
		}

		*r = out

	case keys["fallback_source"] != nil:
		out := FieldRule{Kind: KindFallbackSource}

		if err := keys["fallback_source"].Decode(&out.FallbackSource); err != nil {
			return fmt.Errorf("fallback_source: %w", err)
		}

		if s := keys["source_field"]; s != nil {
			if err := s.Decode(&out.SourceField); err != nil {
				return fmt.Errorf("source_field: %w", err)
			}
		}

		*r = out

	case keys["reference_field"] != nil:
		out := FieldRule{Kind: KindReference}

		if err := keys["reference_field"].Decode(&out.Reference); err != nil {
			return fmt.Errorf("reference_field: %w", err)
		}

		*r = out

	case keys["receive_leg"] != nil || keys["pay_leg"] != nil:
		out := FieldRule{Kind: KindLegRole}

		if v := keys["receive_leg"]; v != nil {
			if err := v.Decode(&out.ReceiveValue); err != nil {
				return fmt.Errorf("receive_leg: %w", err)
			}
		}

		if v := keys["pay_leg"]; v != nil {
			if err := v.Decode(&out.PayValue); err != nil {
				return fmt.Errorf("pay_leg: %w", err)
			}
		}

		*r = out

	default:
		// No recognized discriminator key: a nested object of sub-rules.
		var sub RuleMap
		if err := sub.UnmarshalYAML(node); err != nil {
			return err
		}

		*r = FieldRule{Kind: KindNested, Nested: sub}
	}

	return nil
}

// unmarshalSourceFields handles the two source_fields shapes: a period
// calculation (years/months/days, flagged by calculation_type) and a
// primary/fallback pair.
func (r *FieldRule) unmarshalSourceFields(keys map[string]*yaml.Node) error {
	var sf struct {
		Primary   string `yaml:"primary"`
		Fallback  string `yaml:"fallback"`
		Years     string `yaml:"years"`
		Months    string `yaml:"months"`
		Days      string `yaml:"days"`
		StartDate string `yaml:"start_date"`
		EndDate   string `yaml:"end_date"`
	}

	if err := keys["source_fields"].Decode(&sf); err != nil {
		return fmt.Errorf("source_fields: %w", err)
	}

	if ct := keys["calculation_type"]; ct != nil {
		var calc CalculationType
		if err := ct.Decode(&calc); err != nil {
			return fmt.Errorf("calculation_type: %w", err)
		}

		if calc != CalcTermFrequency && calc != CalcPaymentFrequency {
			return fmt.Errorf("invalid calculation_type %q", calc)
		}

		*r = FieldRule{
			Kind: KindPeriodCalc,
			Period: &PeriodSpec{
				Years:       sf.Years,
				Months:      sf.Months,
				Days:        sf.Days,
				StartDate:   sf.StartDate,
				EndDate:     sf.EndDate,
				Calculation: calc,
			},
		}

		return nil
	}

	if sf.Primary == "" {
		return fmt.Errorf("source_fields requires either calculation_type or a primary field")
	}

	out := FieldRule{
		Kind:     KindSourceWithFallback,
		Primary:  sf.Primary,
		Fallback: sf.Fallback,
	}

	if t := keys["transformation"]; t != nil {
		if err := t.Decode(&out.Transformation); err != nil {
			return fmt.Errorf("transformation: %w", err)
		}
	}

	*r = out

	return nil
}

// --- ConditionalRuleList YAML methods ---

// UnmarshalYAML decodes the named conditional blocks in document order.
func (l *ConditionalRuleList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping of conditional rule blocks, got %v", node.Kind)
	}

	list := make(ConditionalRuleList, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		var name string
		if err := node.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("invalid conditional block name: %w", err)
		}

		var body struct {
			Condition string  `yaml:"condition"`
			Fields    RuleMap `yaml:"fields"`
		}

		if err := node.Content[i+1].Decode(&body); err != nil {
			return fmt.Errorf("conditional block %q: %w", name, err)
		}

		list = append(list, ConditionalRules{
			Name:      name,
			Condition: body.Condition,
			Fields:    body.Fields,
		})
	}

	*l = list

	return nil
}
