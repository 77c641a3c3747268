package jsondiff

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// Translations maps JSON paths to human-friendly descriptions. Keys may use
// concrete indices ("legs[0].notionalCurrency"), the generic form
// ("legs[*].notionalCurrency"), or no brackets at all.
type Translations map[string]string

// LoadTranslations reads a path-translation table from a JSON file.
func LoadTranslations(path string) (Translations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read translation file %s: %w", path, err)
	}

	var t Translations
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid JSON in translation file %s: %w", path, err)
	}

	return t, nil
}

// LabelMode selects the fallback when no translation matches a path at all.
// Both behaviors exist among the report call sites and are deliberately kept
// distinct.
type LabelMode int

const (
	// LabelStrict falls back to an empty string; the CSV report renders a
	// placeholder for it.
	LabelStrict LabelMode = iota
	// LabelLenient falls back to the raw path, so grouped text reports
	// always have something to print.
	LabelLenient
)

var (
	arrayIndex = regexp.MustCompile(`\[\d+\]`)
)

// Resolve finds the friendly description for a path. Matching order: exact
// path, generic indices ("[3]" -> "[*]"), bracket segments stripped, then
// the longest translation key contained in the path. With no match at all
// the mode decides between empty string and the raw path.
func (t Translations) Resolve(path string, mode LabelMode) string {
	if desc, ok := t[path]; ok {
		return desc
	}

	if desc, ok := t[arrayIndex.ReplaceAllString(path, "[*]")]; ok {
		return desc
	}

	if desc, ok := t[arrayIndex.ReplaceAllString(path, "")]; ok {
		return desc
	}

	best := ""
	bestDesc := ""

	for key, desc := range t {
		if strings.Contains(path, key) && len(key) > len(best) {
			best = key
			bestDesc = desc
		}
	}

	if bestDesc != "" {
		return bestDesc
	}

	if mode == LabelLenient {
		return path
	}

	return ""
}
