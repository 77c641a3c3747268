package jsondiff

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, doc string) any {
	t.Helper()

	v, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	return v
}

func TestFlatten(t *testing.T) {
	v := decode(t, `{
		"header": {"tradeId": "61745", "active": true},
		"legs": [
			{"notionalCurrency": "CLP", "notionalAmount": 1000000},
			{"notionalCurrency": "UF", "spread": 0.0015}
		]
	}`)

	flat := Flatten(v)

	assert.Equal(t, map[string]any{
		"header.tradeId":           "61745",
		"header.active":            true,
		"legs[0].notionalCurrency": "CLP",
		"legs[0].notionalAmount":   json.Number("1000000"),
		"legs[1].notionalCurrency": "UF",
		"legs[1].spread":           json.Number("0.0015"),
	}, flat)
}

func TestFlattenScalarLeavesOnly(t *testing.T) {
	v := decode(t, `{"a": {}, "b": [], "c": {"d": null}}`)

	// Empty containers contribute no paths; null is a leaf.
	flat := Flatten(v)
	assert.Equal(t, map[string]any{"c.d": nil}, flat)
}

func TestFlattenNestedArrays(t *testing.T) {
	v := decode(t, `{"trades": [{"legs": [{"legId": "Pata-Activa"}]}]}`)

	flat := Flatten(v)
	assert.Equal(t, map[string]any{"trades[0].legs[0].legId": "Pata-Activa"}, flat)
}

// pathToken is one step of a flattened path: a map key or an array index.
type pathToken struct {
	key string
	idx int
}

func tokenizeSegment(seg string) []pathToken {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return []pathToken{{key: seg, idx: -1}}
	}

	toks := []pathToken{{key: seg[:open], idx: -1}}

	for rest := seg[open:]; rest != ""; {
		close := strings.IndexByte(rest, ']')
		n, _ := strconv.Atoi(rest[1:close])
		toks = append(toks, pathToken{idx: n})
		rest = rest[close+1:]
	}

	return toks
}

func setPath(node any, toks []pathToken, val any) any {
	if len(toks) == 0 {
		return val
	}

	tk := toks[0]

	if tk.idx < 0 {
		m, _ := node.(map[string]any)
		if m == nil {
			m = map[string]any{}
		}

		m[tk.key] = setPath(m[tk.key], toks[1:], val)

		return m
	}

	s, _ := node.([]any)
	for len(s) <= tk.idx {
		s = append(s, nil)
	}

	s[tk.idx] = setPath(s[tk.idx], toks[1:], val)

	return s
}

func unflatten(flat map[string]any) any {
	var root any

	for path, val := range flat {
		var toks []pathToken
		for _, seg := range strings.Split(path, ".") {
			toks = append(toks, tokenizeSegment(seg)...)
		}

		root = setPath(root, toks, val)
	}

	return root
}

func TestFlattenRoundTrip(t *testing.T) {
	v := decode(t, `{
		"header": {"tradeId": "61745", "tradeDate": "17/09/2025"},
		"legs": [
			{"legId": "Pata-Activa", "notionalAmount": 1000000, "businessCenters": ["CLSA", "USNY"]},
			{"legId": "Pata-Pasiva", "spread": null}
		]
	}`)

	assert.Equal(t, v, unflatten(Flatten(v)))
}

func TestDecodeKeepsNumberForm(t *testing.T) {
	flat := Flatten(decode(t, `{"i": 5, "f": 5.0, "e": 1e3}`))

	assert.Equal(t, "int", typeName(flat["i"]))
	assert.Equal(t, "float", typeName(flat["f"]))
	assert.Equal(t, "float", typeName(flat["e"]))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "", typeName(nil))
	assert.Equal(t, "str", typeName("x"))
	assert.Equal(t, "bool", typeName(false))
	assert.Equal(t, "int", typeName(json.Number("42")))
	assert.Equal(t, "float", typeName(json.Number("42.5")))
}

func TestDecodeInvalid(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	require.Error(t, err)
}

func TestDecodeFileMissing(t *testing.T) {
	_, err := DecodeFile("does/not/exist.json")
	require.Error(t, err)
}
