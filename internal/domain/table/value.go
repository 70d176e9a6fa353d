// Package table provides the canonical in-memory table every CIM format is
// loaded into: an ordered set of uniquely named columns and rows of nullable
// text cells.  Set algebra, extraction and every exporter operate on it.
package table

import (
	"math"
	"strconv"
	"strings"
)

// ─────────────────────────────────────────────────────────────────────────────
// Value
// ─────────────────────────────────────────────────────────────────────────────

// Value is a single cell.  The zero Value is missing.
type Value struct {
	s  string
	ok bool
}

// Missing is the null marker.
var Missing = Value{}

// Str returns a present Value holding s.  An empty string is a present value;
// use Parse to apply the missing-value markers of text formats.
func Str(s string) Value { return Value{s: s, ok: true} }

// Strs converts a list of strings to present Values.
func Strs(ss ...string) []Value {
	out := make([]Value, len(ss))
	for i, s := range ss {
		out[i] = Str(s)
	}
	return out
}

// missingMarkers are the cell texts read as missing on text import.
var missingMarkers = map[string]struct{}{
	"":         {},
	"NA":       {},
	"N/A":      {},
	"n/a":      {},
	"NaN":      {},
	"nan":      {},
	"-NaN":     {},
	"-nan":     {},
	"NULL":     {},
	"null":     {},
	"None":     {},
	"#N/A":     {},
	"#N/A N/A": {},
	"#NA":      {},
	"<NA>":     {},
	"1.#IND":   {},
	"1.#QNAN":  {},
	"-1.#IND":  {},
	"-1.#QNAN": {},
}

// Parse converts raw cell text into a Value, mapping the missing-value markers
// to Missing.
func Parse(raw string) Value {
	if IsMissingMarker(raw) {
		return Missing
	}
	return Str(raw)
}

// IsMissingMarker reports whether raw is one of the recognised null texts.
func IsMissingMarker(raw string) bool {
	_, ok := missingMarkers[raw]
	return ok
}

// IsMissing reports whether v is the null marker.
func (v Value) IsMissing() bool { return !v.ok }

// Get returns the payload and whether it is present.
func (v Value) Get() (string, bool) { return v.s, v.ok }

// String returns the payload, or "" for a missing value.
func (v Value) String() string { return v.s }

// Float parses the payload as a finite float64.
func (v Value) Float() (float64, bool) {
	if !v.ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Equal reports cell equality.  Missing equals missing, which is the key
// semantics used by joins and duplicate counting.
func (v Value) Equal(o Value) bool {
	return v.ok == o.ok && v.s == o.s
}

// Compare orders two present values: numerically when both parse as finite
// numbers, otherwise byte-wise.  Missing values sort before present ones.
func Compare(a, b Value) int {
	switch {
	case !a.ok && !b.ok:
		return 0
	case !a.ok:
		return -1
	case !b.ok:
		return 1
	}
	fa, okA := a.Float()
	fb, okB := b.Float()
	if okA && okB {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a.s, b.s)
}

//Personal.AI order the ending
