package cbor

import (
	"encoding/binary"
	"math"
	"math/big"
)

// signMagnitude32 splits a signed 32-bit integer into a CBOR major type
// (0 for non-negative, 1 for negative) and its unsigned magnitude,
// where negative n maps to magnitude -n-1. Using bitwise complement
// (^n) rather than arithmetic negation computes -n-1 directly and
// sidesteps the overflow that -n alone would hit at n == math.MinInt32.
func signMagnitude32(n int32) (major byte, mag uint64) {
	if n >= 0 {
		return 0, uint64(uint32(n))
	}
	return 1, uint64(uint32(^n))
}

func signMagnitude64(n int64) (major byte, mag uint64) {
	if n >= 0 {
		return 0, uint64(n)
	}
	return 1, uint64(^n)
}

// writeInt32Head emits a 32-bit signed integer's head. minimal selects
// shortest-form width; otherwise the argument is forced to the 4-byte
// width regardless of value, per spec section 4.4.
func writeInt32Head(b *outputBuffer, n int32, minimal bool) {
	major, mag := signMagnitude32(n)
	if minimal {
		emitHead(b, major, mag, 0)
	} else {
		emitHead(b, major, mag, 4)
	}
}

// writeInt64Head emits a 64-bit signed integer's head. When minimal,
// emitHead already picks the narrowest width that fits mag (which is
// exactly "32-bit if it fits, else 64-bit" from spec section 4.4);
// otherwise the argument is forced to the 8-byte width.
func writeInt64Head(b *outputBuffer, n int64, minimal bool) {
	major, mag := signMagnitude64(n)
	if minimal {
		emitHead(b, major, mag, 0)
	} else {
		emitHead(b, major, mag, 8)
	}
}

// bigIntTag returns the CBOR tag (2 positive, 3 negative) and the
// big-endian magnitude bytes for a big.Int.
func bigIntTag(v *big.Int) (tag uint64, magnitude []byte) {
	if v.Sign() < 0 {
		// Tag 3 encodes -1-n as a positive magnitude.
		mag := new(big.Int).Neg(v)
		mag.Sub(mag, big.NewInt(1))
		return 3, mag.Bytes()
	}
	return 2, v.Bytes()
}

// Decimal is a scale/unscaled-value pair, CBOR tag 4's data model
// (decimal fraction): value == unscaled * 10^-scale.
type Decimal struct {
	Unscaled *big.Int
	Scale    int32
}

// fitsInt32 reports whether v's magnitude fits the 31-bit-plus-sign
// range the decimal writer uses to pick an integer form.
func fitsInt32(v *big.Int) bool {
	return v.IsInt64() && v.Int64() >= math.MinInt32 && v.Int64() <= math.MaxInt32
}

func fitsInt64(v *big.Int) bool {
	return v.IsInt64()
}

// minimalWidthFloat64 reports whether v can be represented as a
// float32 with no loss, by round-tripping it and comparing for exact
// equality (spec section 4.4).
func minimalWidthFloat64(v float64) (f32 float32, ok bool) {
	f32 = float32(v)
	return f32, float64(f32) == v || (math.IsNaN(float64(f32)) && math.IsNaN(v))
}

// emitFloat32 writes a 0xFA-prefixed IEEE-754 single-precision value.
// CBOR has no REAL mantissa/exponent repacking to do: the raw bit
// pattern from math.Float32bits is the wire form.
func emitFloat32(b *outputBuffer, v float32) {
	b.writeByte(0xFA)
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], math.Float32bits(v))
	b.writeBytes(tmp[:])
}

// emitFloat64 writes a 0xFB-prefixed IEEE-754 double-precision value.
func emitFloat64(b *outputBuffer, v float64) {
	b.writeByte(0xFB)
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], math.Float64bits(v))
	b.writeBytes(tmp[:])
}
