package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/palace-finmktstech-latam/cr2.0/internal/jsondiff"
)

// CSVOptions configure the column labels and missing-value rendering of the
// diff CSV.
type CSVOptions struct {
	// LeftLabel and RightLabel prefix the value/type column headers,
	// usually the compared input names.
	LeftLabel  string
	RightLabel string

	// MissingText is rendered for an absent side ("" for the plain CSV
	// report, "No registrado" for the customer-facing grouped report).
	MissingText string
}

// defaultCSVOptions match the historical report columns.
func (o CSVOptions) withDefaults() CSVOptions {
	if o.LeftLabel == "" {
		o.LeftLabel = "su_input"
	}

	if o.RightLabel == "" {
		o.RightLabel = "contrato_input"
	}

	return o
}

// WriteCSV writes the diff entries as the standard comparison CSV:
// path, friendly_description, difference_type, then value and type columns
// for each side.
func WriteCSV(w io.Writer, entries []jsondiff.Entry, opts CSVOptions) error {
	opts = opts.withDefaults()

	cw := csv.NewWriter(w)

	header := []string{
		"path",
		"friendly_description",
		"difference_type",
		opts.LeftLabel + "_valor",
		opts.RightLabel + "_valor",
		opts.LeftLabel + "_tipo",
		opts.RightLabel + "_tipo",
	}

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range entries {
		row := []string{
			e.Path,
			e.FriendlyDescription,
			string(e.Kind),
			e.LeftString(opts.MissingText),
			e.RightString(opts.MissingText),
			e.LeftType,
			e.RightType,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", e.Path, err)
		}
	}

	cw.Flush()

	return cw.Error()
}
