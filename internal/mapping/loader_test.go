package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
date_format: YYYY-MM-DD
leg_assignment:
  role_field: "legs[{idx}].leg_generator.rp"
  roles:
    receive: "A"
    pay: "P"
header_mappings:
  tradeId:
    source_field: deal_number
  source:
    dynamic_value: source_parameter
  tradeDate:
    source_field: trade_date
    transformation: date_format
  bank:
    static_value: Banco-ABC
  counterpartyId:
    source_field: counterparty_official_id
    fallback_source: counterparty_name
leg_mappings:
  rateType:
    source_field: "legs[{idx}].type_of_leg"
    transformation: rate_type
  notionalAmount:
    source_fields:
      primary: "legs[{idx}].notional_fixing"
      fallback: "legs[{idx}].notional"
    transformation: notional
  paymentFrequency:
    source_fields:
      years: "legs[{idx}].leg_generator.settlement_periodicity.agnos"
      months: "legs[{idx}].leg_generator.settlement_periodicity.meses"
      days: "legs[{idx}].leg_generator.settlement_periodicity.dias"
      start_date: "legs[{idx}].leg_generator.start_date.fecha"
      end_date: "legs[{idx}].leg_generator.end_date.fecha"
    calculation_type: payment_frequency
  direction:
    receive_leg: Receive
    pay_leg: Pay
  settlement:
    currency:
      source_field: "legs[{idx}].settlement_currency"
    mechanism:
      source_field: "legs[{idx}].settlement_mechanism"
      transformation: settlement_type
conditional_leg_mappings:
  fx_fixing:
    condition: "legs[{idx}].interest_rate_index.fx_rate_index_name is not empty"
    fields:
      fixingCenters:
        reference_field: paymentDates.businessCenters
transformations:
  settlement_type:
    C: CASH
    E: PHYSICAL
  rate_type:
    FIXED_RATE: FIXED
    OVERNIGHT_INDEX: FLOATING
  fx_fixing_lag:
    "1": -2
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "YYYY-MM-DD", cfg.DateFormat)
	assert.Equal(t, "legs[{idx}].leg_generator.rp", cfg.LegAssignment.RoleField)
	assert.Equal(t, "A", cfg.LegAssignment.Roles.Receive)
	assert.Equal(t, "P", cfg.LegAssignment.Roles.Pay)

	// Header rules keep document order.
	require.Len(t, cfg.HeaderMappings, 5)
	assert.Equal(t, "tradeId", cfg.HeaderMappings[0].Name)
	assert.Equal(t, "source", cfg.HeaderMappings[1].Name)
	assert.Equal(t, "tradeDate", cfg.HeaderMappings[2].Name)
	assert.Equal(t, "bank", cfg.HeaderMappings[3].Name)
	assert.Equal(t, "counterpartyId", cfg.HeaderMappings[4].Name)

	// Variant discrimination.
	assert.Equal(t, KindSourceField, cfg.HeaderMappings[0].Rule.Kind)
	assert.Equal(t, "deal_number", cfg.HeaderMappings[0].Rule.SourceField)

	assert.Equal(t, KindDynamic, cfg.HeaderMappings[1].Rule.Kind)
	assert.Equal(t, "source_parameter", cfg.HeaderMappings[1].Rule.Dynamic)

	assert.Equal(t, KindSourceField, cfg.HeaderMappings[2].Rule.Kind)
	assert.Equal(t, "date_format", cfg.HeaderMappings[2].Rule.Transformation)

	assert.Equal(t, KindStatic, cfg.HeaderMappings[3].Rule.Kind)
	assert.Equal(t, "Banco-ABC", cfg.HeaderMappings[3].Rule.Static)

	// source_field together with fallback_source is the fallback variant.
	fb := cfg.HeaderMappings[4].Rule
	assert.Equal(t, KindFallbackSource, fb.Kind)
	assert.Equal(t, "counterparty_official_id", fb.SourceField)
	assert.Equal(t, "counterparty_name", fb.FallbackSource)

	// Leg rules.
	require.Len(t, cfg.LegMappings, 5)

	primary := cfg.LegMappings.Get("notionalAmount")
	require.NotNil(t, primary)
	assert.Equal(t, KindSourceWithFallback, primary.Kind)
	assert.Equal(t, "legs[{idx}].notional_fixing", primary.Primary)
	assert.Equal(t, "legs[{idx}].notional", primary.Fallback)
	assert.Equal(t, "notional", primary.Transformation)

	period := cfg.LegMappings.Get("paymentFrequency")
	require.NotNil(t, period)
	assert.Equal(t, KindPeriodCalc, period.Kind)
	require.NotNil(t, period.Period)
	assert.Equal(t, CalcPaymentFrequency, period.Period.Calculation)
	assert.Equal(t, "legs[{idx}].leg_generator.settlement_periodicity.agnos", period.Period.Years)
	assert.Equal(t, "legs[{idx}].leg_generator.start_date.fecha", period.Period.StartDate)

	role := cfg.LegMappings.Get("direction")
	require.NotNil(t, role)
	assert.Equal(t, KindLegRole, role.Kind)
	assert.Equal(t, "Receive", role.ReceiveValue)
	assert.Equal(t, "Pay", role.PayValue)

	nested := cfg.LegMappings.Get("settlement")
	require.NotNil(t, nested)
	assert.Equal(t, KindNested, nested.Kind)
	require.Len(t, nested.Nested, 2)
	assert.Equal(t, "currency", nested.Nested[0].Name)
	assert.Equal(t, KindSourceField, nested.Nested[1].Rule.Kind)

	// Conditional blocks.
	require.Len(t, cfg.ConditionalLegMappings, 1)
	assert.Equal(t, "fx_fixing", cfg.ConditionalLegMappings[0].Name)
	assert.Contains(t, cfg.ConditionalLegMappings[0].Condition, "is not empty")
	require.Len(t, cfg.ConditionalLegMappings[0].Fields, 1)
	assert.Equal(t, KindReference, cfg.ConditionalLegMappings[0].Fields[0].Rule.Kind)
	assert.Equal(t, "paymentDates.businessCenters", cfg.ConditionalLegMappings[0].Fields[0].Rule.Reference)

	// Transformation tables.
	assert.Equal(t, "CASH", cfg.Transformations["settlement_type"]["C"])
	assert.Equal(t, -2, cfg.Transformations["fx_fixing_lag"]["1"])
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte("header_mappings:\n  x:\n    static_value: 1\n"))
	require.NoError(t, err)

	assert.Equal(t, "YYYY-MM-DD", cfg.DateFormat)
	assert.Equal(t, "legs[{idx}].leg_generator.rp", cfg.LegAssignment.RoleField)
	assert.Equal(t, "A", cfg.LegAssignment.Roles.Receive)
	assert.Equal(t, "P", cfg.LegAssignment.Roles.Pay)
}

func TestParseStaticShapes(t *testing.T) {
	cfg, err := Parse([]byte(`
header_mappings:
  scalar: plain
  list:
    static_value: [USNY, CLSA]
`))
	require.NoError(t, err)

	scalar := cfg.HeaderMappings.Get("scalar")
	require.NotNil(t, scalar)
	assert.Equal(t, KindStatic, scalar.Kind)
	assert.Equal(t, "plain", scalar.Static)

	list := cfg.HeaderMappings.Get("list")
	require.NotNil(t, list)
	assert.Equal(t, KindStatic, list.Kind)
	assert.Equal(t, []any{"USNY", "CLSA"}, list.Static)
}

func TestParseInvalidYAML(t *testing.T) {
	_, err := Parse([]byte("header_mappings: ["))
	require.Error(t, err)
}

func TestParseInvalidCalculationType(t *testing.T) {
	_, err := Parse([]byte(`
leg_mappings:
  freq:
    source_fields:
      years: a
      months: b
      days: c
    calculation_type: weekly
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "calculation_type")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.HeaderMappings)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Path, "missing.yaml")
}
