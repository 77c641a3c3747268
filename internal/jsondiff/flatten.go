// Package jsondiff flattens JSON trees to path->value maps and computes
// structural diffs between them, with human-friendly label resolution for
// report generation.
package jsondiff

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Flatten flattens a decoded JSON tree into dot-notation paths: object keys
// join with ".", array elements render as "name[i]". Only scalar leaves
// appear as values; empty objects and arrays contribute no paths.
func Flatten(v any) map[string]any {
	out := map[string]any{}
	flattenInto(v, "", out)

	return out
}

func flattenInto(v any, prefix string, out map[string]any) {
	switch node := v.(type) {
	case map[string]any:
		for key, val := range node {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}

			flattenInto(val, path, out)
		}

	case []any:
		for i, val := range node {
			flattenInto(val, fmt.Sprintf("%s[%d]", prefix, i), out)
		}

	default:
		out[prefix] = v
	}
}

// Decode parses a JSON document, keeping numbers as json.Number so the
// differ can tell integers from floats the way the source systems write them.
func Decode(r io.Reader) (any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return v, nil
}

// DecodeFile loads and parses a JSON file.
func DecodeFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	v, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("file %s: %w", path, err)
	}

	return v, nil
}

// typeName returns the reported runtime type of a scalar leaf. The names
// match what the downstream report consumers already expect from the
// historical reports (str/int/float/bool).
func typeName(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return "str"
	case bool:
		return "bool"
	case json.Number:
		if strings.ContainsAny(n.String(), ".eE") {
			return "float"
		}

		return "int"
	default:
		return fmt.Sprintf("%T", v)
	}
}
