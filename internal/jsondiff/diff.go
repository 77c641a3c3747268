package jsondiff

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Kind classifies one difference.
type Kind string

const (
	Added       Kind = "added"
	Removed     Kind = "removed"
	Modified    Kind = "modified"
	TypeChanged Kind = "type_changed"
)

// Title returns the report rendering of a kind ("Type Changed" etc.).
func (k Kind) Title() string {
	switch k {
	case Added:
		return "Added"
	case Removed:
		return "Removed"
	case Modified:
		return "Modified"
	case TypeChanged:
		return "Type Changed"
	default:
		return string(k)
	}
}

// Entry is one structural difference between two JSON documents.
// Left/Right hold the raw scalar values. nil means absent or null; the two
// are indistinguishable, as in the flattened maps.
type Entry struct {
	Path                string
	FriendlyDescription string
	Kind                Kind
	Left                any
	Right               any
	LeftType            string
	RightType           string
}

// LeftString renders the left value, or missing when absent.
func (e Entry) LeftString(missing string) string { return renderValue(e.Left, missing) }

// RightString renders the right value, or missing when absent.
func (e Entry) RightString(missing string) string { return renderValue(e.Right, missing) }

func renderValue(v any, missing string) string {
	if v == nil {
		return missing
	}

	return fmt.Sprintf("%v", v)
}

// Options control a comparison.
type Options struct {
	// Translations resolves friendly descriptions per path; may be nil.
	Translations Translations

	// LabelMode selects the fallback when no translation matches.
	LabelMode LabelMode

	// Exclude lists exact paths to suppress from the diff (e.g. identifier
	// fields known to always differ).
	Exclude []string
}

// Stats counts differences by kind.
type Stats struct {
	Added       int
	Removed     int
	Modified    int
	TypeChanged int
}

// Total returns the total number of differences.
func (s Stats) Total() int { return s.Added + s.Removed + s.Modified + s.TypeChanged }

// Compare flattens both trees and classifies every path in their union as
// added (right only), removed (left only), type_changed or modified. Equal
// paths produce no entry. Entries come back sorted lexicographically by path.
func Compare(left, right any, opts Options) []Entry {
	flatLeft := Flatten(left)
	flatRight := Flatten(right)

	excluded := make(map[string]bool, len(opts.Exclude))
	for _, p := range opts.Exclude {
		excluded[p] = true
	}

	paths := make([]string, 0, len(flatLeft)+len(flatRight))
	seen := make(map[string]bool, len(flatLeft)+len(flatRight))

	for p := range flatLeft {
		if !seen[p] && !excluded[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for p := range flatRight {
		if !seen[p] && !excluded[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	sort.Strings(paths)

	var entries []Entry

	for _, path := range paths {
		l := flatLeft[path]
		r := flatRight[path]

		kind, differs := classify(l, r)
		if !differs {
			continue
		}

		entries = append(entries, Entry{
			Path:                path,
			FriendlyDescription: opts.Translations.Resolve(path, opts.LabelMode),
			Kind:                kind,
			Left:                l,
			Right:               r,
			LeftType:            typeName(l),
			RightType:           typeName(r),
		})
	}

	return entries
}

// Summarize counts the entries by kind.
func Summarize(entries []Entry) Stats {
	var s Stats

	for _, e := range entries {
		switch e.Kind {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Modified:
			s.Modified++
		case TypeChanged:
			s.TypeChanged++
		}
	}

	return s
}

// classify decides how two leaf values differ. differs is false when they
// are equal (including both absent/null).
func classify(l, r any) (Kind, bool) {
	switch {
	case l == nil && r != nil:
		return Added, true
	case l != nil && r == nil:
		return Removed, true
	case l == nil && r == nil:
		return "", false
	case typeName(l) != typeName(r):
		return TypeChanged, true
	case !scalarEqual(l, r):
		return Modified, true
	default:
		return "", false
	}
}

// scalarEqual compares two same-typed scalars. Numbers compare numerically
// so "1.50" and "1.5" are equal, as they were when the documents were
// produced by systems that parse before re-serializing.
func scalarEqual(l, r any) bool {
	ln, lok := l.(json.Number)
	rn, rok := r.(json.Number)

	if lok && rok {
		ld, lerr := decimal.NewFromString(ln.String())
		rd, rerr := decimal.NewFromString(rn.String())

		if lerr == nil && rerr == nil {
			return ld.Equal(rd)
		}

		return ln.String() == rn.String()
	}

	return l == r
}
