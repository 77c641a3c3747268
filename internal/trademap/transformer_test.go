package trademap

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
)

const transformerConfig = `
header_mappings:
  tradeId:
    source_field: deal_number
  source:
    dynamic_value: source_parameter
  product:
    static_value: Swap

leg_mappings:
  notionalCurrency:
    source_field: legs[{idx}].currency
  notionalAmount:
    source_field: legs[{idx}].notional
    transformation: notional
  payReceive:
    receive_leg: Receive
    pay_leg: Pay

conditional_leg_mappings:
  floating_rate:
    condition: legs[{idx}].type in ['FLO']
    fields:
      rateIndex:
        source_field: legs[{idx}].rate_name
`

func transformerRecord() map[string]string {
	return map[string]string{
		"deal_number":              "61745",
		"legs[0].leg_generator.rp": "A",
		"legs[0].currency":         "CLP",
		"legs[0].notional":         "1,000,000.00",
		"legs[0].type":             "FLO",
		"legs[0].rate_name":        "ICP",
		"legs[1].leg_generator.rp": "P",
		"legs[1].currency":         "UF",
		"legs[1].notional":         "35000.5",
		"legs[1].type":             "FIX",
	}
}

func newTestTransformer(t *testing.T) *Transformer {
	t.Helper()

	cfg, err := mapping.Parse([]byte(transformerConfig))
	require.NoError(t, err)

	return NewTransformer(cfg, SourceBank)
}

func TestTransform(t *testing.T) {
	tr := newTestTransformer(t)

	trade, err := tr.Transform(transformerRecord())
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"tradeId": "61745",
		"source":  "banco",
		"product": "Swap",
	}, trade.Header)

	require.Len(t, trade.Legs, 2)

	receive := trade.Legs[0]
	assert.Equal(t, "Pata-Activa", receive["legId"])
	assert.Equal(t, "OurCounterparty", receive["payerPartyReference"])
	assert.Equal(t, "ThisBank", receive["receiverPartyReference"])
	assert.Equal(t, "CLP", receive["notionalCurrency"])
	assert.Equal(t, 1000000.0, receive["notionalAmount"])
	assert.Equal(t, "Receive", receive["payReceive"])
	assert.Equal(t, "ICP", receive["rateIndex"])

	pay := trade.Legs[1]
	assert.Equal(t, "Pata-Pasiva", pay["legId"])
	assert.Equal(t, "ThisBank", pay["payerPartyReference"])
	assert.Equal(t, "OurCounterparty", pay["receiverPartyReference"])
	assert.Equal(t, "UF", pay["notionalCurrency"])
	assert.Equal(t, "Pay", pay["payReceive"])

	// The conditional block only fired for the floating leg.
	_, hasIndex := pay["rateIndex"]
	assert.False(t, hasIndex)
}

func TestTransformSwappedLegs(t *testing.T) {
	tr := newTestTransformer(t)

	rec := transformerRecord()
	rec["legs[0].leg_generator.rp"] = "P"
	rec["legs[1].leg_generator.rp"] = "A"

	trade, err := tr.Transform(rec)
	require.NoError(t, err)
	require.Len(t, trade.Legs, 2)

	// Canonical order is receive first regardless of input order.
	assert.Equal(t, "Pata-Activa", trade.Legs[0]["legId"])
	assert.Equal(t, "UF", trade.Legs[0]["notionalCurrency"])
	assert.Equal(t, "Pata-Pasiva", trade.Legs[1]["legId"])
	assert.Equal(t, "CLP", trade.Legs[1]["notionalCurrency"])
}

func TestTransformSingleLeg(t *testing.T) {
	tr := newTestTransformer(t)

	rec := transformerRecord()
	delete(rec, "legs[1].leg_generator.rp")

	trade, err := tr.Transform(rec)
	require.NoError(t, err)
	require.Len(t, trade.Legs, 1)
	assert.Equal(t, "Pata-Activa", trade.Legs[0]["legId"])
}

func TestTransformAllIsolatesFailures(t *testing.T) {
	tr := newTestTransformer(t)

	bad := transformerRecord()
	bad["deal_number"] = "99999"
	delete(bad, "legs[0].currency")

	good2 := transformerRecord()
	good2["deal_number"] = "61746"

	trades := tr.TransformAll([]map[string]string{transformerRecord(), bad, good2})

	require.Len(t, trades, 2)
	assert.Equal(t, "61745", trades[0].Header["tradeId"])
	assert.Equal(t, "61746", trades[1].Header["tradeId"])

	assert.Equal(t, 3, tr.Attempted())
	assert.Equal(t, 2, tr.Transformed())

	diags := tr.Diagnostics()
	require.True(t, diags.HasErrors())
	require.Len(t, diags.Errors, 1)
	assert.Equal(t, "99999", diags.Errors[0].Record)
}

func TestTransformRecordsTieBreakWarning(t *testing.T) {
	tr := newTestTransformer(t)

	rec := transformerRecord()
	rec["legs[1].leg_generator.rp"] = "A"

	trade, err := tr.Transform(rec)
	require.NoError(t, err)

	// Leg 1 wins the receive role; the pay leg is dropped.
	require.Len(t, trade.Legs, 1)
	assert.Equal(t, "UF", trade.Legs[0]["notionalCurrency"])

	require.Len(t, tr.Diagnostics().Warnings, 1)
	assert.Contains(t, tr.Diagnostics().Warnings[0].Message, "receive role")
}

func TestWriteDocument(t *testing.T) {
	var buf bytes.Buffer

	trades := []*CanonicalTrade{{
		Header: map[string]any{"counterparty": "Banco Nuñez"},
		Legs:   []map[string]any{{"legId": "Pata-Activa"}},
	}}

	require.NoError(t, WriteDocument(&buf, trades))

	out := buf.String()
	assert.Contains(t, out, "\"trades\"")
	assert.Contains(t, out, "  {\n")
	assert.Contains(t, out, "Banco Nuñez")
	assert.NotContains(t, out, `\u`)
}

func TestWriteDocumentEmpty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteDocument(&buf, nil))
	assert.JSONEq(t, `{"trades": []}`, buf.String())
}
