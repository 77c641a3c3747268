// Package trademap implements the trade-data mapping engine: it interprets
// the declarative rule tree from internal/mapping against raw tabular trade
// records and builds canonical trade objects (header + ordered legs).
package trademap

import (
	"strconv"
	"strings"
)

// Record is one raw source row: a flat mapping from source field name to raw
// string value. Records are never mutated by the engine.
type Record map[string]string

// unknownDeal is logged for records without a deal number.
const unknownDeal = "No deal number"

// DealNumber returns the record's identifier for logs and diagnostics.
func (r Record) DealNumber() string {
	if dn := r["deal_number"]; dn != "" {
		return dn
	}

	return unknownDeal
}

// resolveTemplate substitutes the {idx} and {receive_leg_idx} placeholders
// in a configured field name. legIdx < 0 leaves {idx} untouched (header
// rules have no current leg). When no receive leg was assigned,
// {receive_leg_idx} renders as -1, which cannot match any source field and
// therefore surfaces as a missing-field failure downstream.
func resolveTemplate(tpl string, la LegAssignment, legIdx int) string {
	if strings.Contains(tpl, "{receive_leg_idx}") {
		tpl = strings.ReplaceAll(tpl, "{receive_leg_idx}", strconv.Itoa(la.ReceiveSource))
	}

	if legIdx >= 0 {
		tpl = strings.ReplaceAll(tpl, "{idx}", strconv.Itoa(legIdx))
	}

	return tpl
}
