package cbor

import "unicode/utf16"

// StringSource adapts a Go string (UTF-8) to a Source by re-encoding it
// as UCS-2/UTF-16 code units. Re-encoding happens once, at construction,
// so repeated At() calls are O(1).
type StringSource struct {
	units []uint16
}

// NewStringSource builds a Source over s's UTF-16 code units.
func NewStringSource(s string) StringSource {
	return StringSource{units: utf16.Encode([]rune(s))}
}

func (s StringSource) Len() int       { return len(s.units) }
func (s StringSource) At(i int) uint16 { return s.units[i] }

// CodeUnits is a Source over an already-decoded UCS-2 code unit slice,
// for callers that already carry UTF-16 data (e.g. from a JVM or JS
// caller across a wire boundary) and want to avoid the StringSource
// round trip through Go string/rune.
type CodeUnits []uint16

func (u CodeUnits) Len() int        { return len(u) }
func (u CodeUnits) At(i int) uint16 { return u[i] }
