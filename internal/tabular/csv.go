// Package tabular reads delimited trade files into header-keyed rows.
// Real bank exports arrive with BOMs, Latin-1 accents and ragged rows, so
// the reader is tolerant: encoding is detected, short rows are padded, long
// rows truncated, and each repair is reported as a warning.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/palace-finmktstech-latam/cr2.0/internal/common"
)

var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Warning is a non-fatal issue found while reading a row.
type Warning struct {
	Row     int
	Message string
}

// Result holds the parsed rows alongside any warnings.
type Result struct {
	Rows     []map[string]string
	Warnings []Warning
}

// ReadFile reads a CSV file into header-keyed rows.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}

	res, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("input file %s: %w", path, err)
	}

	return res, nil
}

// Parse parses CSV bytes into header-keyed rows. The first row is the
// header; every following row becomes a map from header name to cell value.
func Parse(data []byte) (*Result, error) {
	decoded := decode(data)

	reader := csv.NewReader(bytes.NewReader(decoded))
	// Column counts are checked against the header ourselves so ragged rows
	// can be repaired instead of rejected.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file: no header row found")
		}

		return nil, fmt.Errorf("failed to read header row: %w", err)
	}

	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	if common.IsEmpty(headers) {
		return nil, errors.New("header row has no columns")
	}

	res := &Result{}
	rowNum := 1

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		rowNum++

		if err != nil {
			res.Warnings = append(res.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("parse error: %v", err),
			})

			continue
		}

		if len(row) != len(headers) {
			res.Warnings = append(res.Warnings, Warning{
				Row:     rowNum,
				Message: fmt.Sprintf("expected %d columns, got %d", len(headers), len(row)),
			})
		}

		rec := make(map[string]string, len(headers))

		for i, h := range headers {
			if i < len(row) {
				rec[h] = row[i]
			} else {
				rec[h] = ""
			}
		}

		res.Rows = append(res.Rows, rec)
	}

	return res, nil
}

// decode strips a UTF-8 BOM and converts Latin-1 input to UTF-8. Invalid
// Latin-1 cannot exist (every byte is a code point), so decode never fails.
func decode(data []byte) []byte {
	data = bytes.TrimPrefix(data, bomUTF8)

	if utf8.Valid(data) {
		return data
	}

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}

	return decoded
}
