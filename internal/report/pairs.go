// Package report generates the user-facing comparison artifacts: the diff
// CSV, the HTML report, and the pairing of bank-side and contract-side
// output files by their filename convention.
package report

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"
)

// File naming convention:
//
//	banco:    Output_<tradeID>_<bank>_<counterparty>_<DDMMYYYY>_banco.json
//	contrato: Output_<tradeID>_<bank>_<counterparty>_<DDMMYYYY>_contrato_<contract>.json
const (
	filePrefix = "Output_"
	fileSuffix = ".json"

	// FileTypeBanco and FileTypeContrato are the side markers inside the
	// filename convention.
	FileTypeBanco    = "banco"
	FileTypeContrato = "contrato"
)

// filenameDateLayout is the date segment layout inside filenames.
const filenameDateLayout = "02012006"

// ParsedFilename is one output filename decomposed per the convention.
type ParsedFilename struct {
	Path                string
	CounterpartyTradeID string
	Bank                string
	Counterparty        string
	DateStr             string
	Date                time.Time
	FileType            string
	// ContractFilename is only present for contrato files.
	ContractFilename string
}

// ParseFilename decomposes an output filename. The path's directory is kept
// so pairs can be reopened later.
func ParseFilename(path string) (*ParsedFilename, error) {
	base := filepath.Base(path)

	if !strings.HasPrefix(base, filePrefix) || !strings.HasSuffix(base, fileSuffix) {
		return nil, fmt.Errorf("filename %s doesn't follow the Output_*.json convention", base)
	}

	parts := strings.Split(strings.TrimSuffix(strings.TrimPrefix(base, filePrefix), fileSuffix), "_")
	if len(parts) < 5 {
		return nil, fmt.Errorf("filename %s doesn't have enough parts (minimum 5)", base)
	}

	p := &ParsedFilename{
		Path:                path,
		CounterpartyTradeID: parts[0],
		Bank:                parts[1],
		Counterparty:        parts[2],
		DateStr:             parts[3],
		FileType:            parts[4],
	}

	if p.FileType == FileTypeContrato && len(parts) > 5 {
		p.ContractFilename = strings.Join(parts[5:], "_")
	} else if p.FileType == FileTypeContrato {
		p.ContractFilename = "Unknown"
	}

	date, err := time.Parse(filenameDateLayout, p.DateStr)
	if err != nil {
		return nil, fmt.Errorf("invalid date format in filename %s: %s", base, p.DateStr)
	}

	p.Date = date

	return p, nil
}

// MatchKey identifies the trade a file belongs to, independent of side.
func (p *ParsedFilename) MatchKey() string {
	return fmt.Sprintf("%s_%s_%s_%s", p.CounterpartyTradeID, p.Bank, p.Counterparty, p.DateStr)
}

// FormattedDate renders the filename date as DD/MM/YYYY.
func (p *ParsedFilename) FormattedDate() string {
	return p.Date.Format("02/01/2006")
}

// Pair is one matched banco/contrato file pair.
type Pair struct {
	Banco    *ParsedFilename
	Contrato *ParsedFilename
}

// FindMatchingPairs scans the two directories and pairs banco and contrato
// files by match key. Unparsable or unmatched files are logged and skipped,
// not fatal: a missing counterpart just means no report for that trade yet.
func FindMatchingPairs(bancoDir, contratoDir string) ([]Pair, error) {
	bancoFiles, err := filepath.Glob(filepath.Join(bancoDir, filePrefix+"*_banco.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan banco dir: %w", err)
	}

	contratoFiles, err := filepath.Glob(filepath.Join(contratoDir, filePrefix+"*_contrato_*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan contrato dir: %w", err)
	}

	bancoByKey := make(map[string]*ParsedFilename, len(bancoFiles))

	for _, f := range bancoFiles {
		parsed, err := ParseFilename(f)
		if err != nil {
			log.Printf("warning: could not parse banco file %s: %v", f, err)
			continue
		}

		bancoByKey[parsed.MatchKey()] = parsed
	}

	var pairs []Pair

	for _, f := range contratoFiles {
		parsed, err := ParseFilename(f)
		if err != nil {
			log.Printf("warning: could not parse contrato file %s: %v", f, err)
			continue
		}

		banco, ok := bancoByKey[parsed.MatchKey()]
		if !ok {
			log.Printf("warning: no matching banco file found for %s", filepath.Base(f))
			continue
		}

		pairs = append(pairs, Pair{Banco: banco, Contrato: parsed})
	}

	return pairs, nil
}
