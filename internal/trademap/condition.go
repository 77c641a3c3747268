package trademap

import (
	"regexp"
	"strconv"
	"strings"
)

// quotedValue extracts the single-quoted literals of an "in [...]" list.
var quotedValue = regexp.MustCompile(`'([^']*)'`)

// evalCondition evaluates a conditional-mapping condition against the raw
// record. Two grammars are supported:
//
//	<field> in ['v1', 'v2', ...]
//	<field> is not empty
//
// An unsupported grammar evaluates to false, never errors: a typo in a
// condition silently disables its block rather than failing records.
func evalCondition(condition string, rec Record, legIdx int) bool {
	if condition == "" {
		return false
	}

	condition = strings.ReplaceAll(condition, "{idx}", strconv.Itoa(legIdx))

	if field, values, ok := strings.Cut(condition, " in ["); ok {
		field = strings.TrimSpace(field)

		v, present := rec[field]
		if !present {
			return false
		}

		for _, m := range quotedValue.FindAllStringSubmatch(values, -1) {
			if v == m[1] {
				return true
			}
		}

		return false
	}

	if field, ok := strings.CutSuffix(condition, " is not empty"); ok {
		return rec[strings.TrimSpace(field)] != ""
	}

	return false
}
