package trademap

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/palace-finmktstech-latam/cr2.0/internal/diagnostic"
	"github.com/palace-finmktstech-latam/cr2.0/internal/mapping"
)

// Canonical leg identifiers and party reference constants. Leg 0 of a
// canonical trade is always the receive leg ("Pata-Activa"), leg 1 always
// the pay leg ("Pata-Pasiva"), whatever order the input legs came in.
const (
	LegIDReceive = "Pata-Activa"
	LegIDPay     = "Pata-Pasiva"

	partyThisBank     = "ThisBank"
	partyCounterparty = "OurCounterparty"
)

// CanonicalTrade is one standardized trade: a header plus at most two legs,
// receive first. Built once per record and immutable thereafter.
type CanonicalTrade struct {
	Header map[string]any   `json:"header"`
	Legs   []map[string]any `json:"legs"`
}

// Document is the persisted output shape.
type Document struct {
	Trades []*CanonicalTrade `json:"trades"`
}

// Transformer orchestrates leg assignment and rule interpretation over a
// parsed source table. It accumulates diagnostics for the batch summary but
// is otherwise stateless across records.
type Transformer struct {
	cfg   *mapping.Config
	it    *Interpreter
	diags diagnostic.Diagnostics

	attempted   int
	transformed int
}

// NewTransformer creates a transformer for one run. source is the run-level
// source tag (SourceBank or SourceContract).
func NewTransformer(cfg *mapping.Config, source string) *Transformer {
	return &Transformer{cfg: cfg, it: NewInterpreter(cfg, source)}
}

// Diagnostics returns the warnings and per-record failures collected so far.
func (t *Transformer) Diagnostics() *diagnostic.Diagnostics { return &t.diags }

// Attempted returns the number of records seen by TransformAll.
func (t *Transformer) Attempted() int { return t.attempted }

// Transformed returns the number of records successfully transformed.
func (t *Transformer) Transformed() int { return t.transformed }

// Transform builds the canonical trade for one record. A nil trade with a
// non-nil error means the record failed; the caller decides whether that
// aborts anything (TransformAll never lets it).
func (t *Transformer) Transform(rec Record) (*CanonicalTrade, error) {
	la, warnings := ResolveLegAssignment(rec, t.cfg)

	for _, w := range warnings {
		log.Printf("warning: record %s: %s", rec.DealNumber(), w)
		t.diags.AddWarning("ambiguous_leg_role", w, rec.DealNumber(), "")
	}

	header, err := t.buildSection(t.cfg.HeaderMappings, rec, la, Context{LegIdx: -1})
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	trade := &CanonicalTrade{Header: header}

	if la.HasReceive() {
		leg, err := t.buildLeg(rec, la, la.ReceiveSource, true)
		if err != nil {
			return nil, fmt.Errorf("receive leg: %w", err)
		}

		trade.Legs = append(trade.Legs, leg)
	}

	if la.HasPay() {
		leg, err := t.buildLeg(rec, la, la.PaySource, false)
		if err != nil {
			return nil, fmt.Errorf("pay leg: %w", err)
		}

		trade.Legs = append(trade.Legs, leg)
	}

	return trade, nil
}

// TransformAll maps every row, preserving input order among the successes.
// One bad record never aborts the batch: failures are logged with the
// record identifier and skipped.
func (t *Transformer) TransformAll(rows []map[string]string) []*CanonicalTrade {
	trades := make([]*CanonicalTrade, 0, len(rows))

	for _, row := range rows {
		t.attempted++

		rec := Record(row)

		trade, err := t.Transform(rec)
		if err != nil {
			log.Printf("error transforming trade %s: %v", rec.DealNumber(), err)
			t.diags.AddError("record_transform_failed", err.Error(), rec.DealNumber(), "")

			continue
		}

		t.transformed++
		trades = append(trades, trade)
	}

	return trades
}

// buildSection resolves an ordered rule map into a fresh object.
func (t *Transformer) buildSection(rules mapping.RuleMap, rec Record, la LegAssignment, ctx Context) (map[string]any, error) {
	out := make(map[string]any, len(rules))

	for _, nr := range rules {
		v, err := t.it.Resolve(nr.Rule, rec, la, ctx)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", nr.Name, err)
		}

		out[nr.Name] = v
	}

	return out, nil
}

// buildLeg builds one canonical leg: the hardcoded identity constants for
// its role first, then the base leg mappings, then any conditional block
// whose condition holds for the raw record. Later fields overwrite earlier
// ones, so the configuration can override the seeded constants.
func (t *Transformer) buildLeg(rec Record, la LegAssignment, srcIdx int, isReceive bool) (map[string]any, error) {
	leg := map[string]any{}

	if isReceive {
		leg["legId"] = LegIDReceive
		leg["payerPartyReference"] = partyCounterparty
		leg["receiverPartyReference"] = partyThisBank
	} else {
		leg["legId"] = LegIDPay
		leg["payerPartyReference"] = partyThisBank
		leg["receiverPartyReference"] = partyCounterparty
	}

	ctx := Context{LegIdx: srcIdx, IsReceive: isReceive, Leg: leg}

	for _, nr := range t.cfg.LegMappings {
		v, err := t.it.Resolve(nr.Rule, rec, la, ctx)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", nr.Name, err)
		}

		leg[nr.Name] = v
	}

	for _, cond := range t.cfg.ConditionalLegMappings {
		if !evalCondition(cond.Condition, rec, srcIdx) {
			continue
		}

		for _, nr := range cond.Fields {
			v, err := t.it.Resolve(nr.Rule, rec, la, ctx)
			if err != nil {
				return nil, fmt.Errorf("conditional %s, field %s: %w", cond.Name, nr.Name, err)
			}

			leg[nr.Name] = v
		}
	}

	return leg, nil
}

// WriteDocument serializes trades as the {"trades": [...]} document:
// 2-space indent, non-ASCII preserved.
func WriteDocument(w io.Writer, trades []*CanonicalTrade) error {
	if trades == nil {
		trades = []*CanonicalTrade{}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(Document{Trades: trades}); err != nil {
		return fmt.Errorf("failed to write trades document: %w", err)
	}

	return nil
}
