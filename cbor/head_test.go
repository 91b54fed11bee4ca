package cbor

import (
	"bytes"
	"testing"
)

func TestHeadWidth(t *testing.T) {
	test := func(argument uint64, expected int, description string) {
		t.Run(description, func(t *testing.T) {
			if got := headWidth(argument); got != expected {
				t.Errorf("headWidth(%d) = %d, want %d", argument, got, expected)
			}
		})
	}
	test(0, 1, "zero")
	test(23, 1, "max 1-byte")
	test(255, 1, "255 fits 1-byte width")
	test(256, 2, "needs 2-byte width")
	test(1<<16-1, 2, "max 2-byte width")
	test(1<<16, 4, "needs 4-byte width")
	test(1<<32-1, 4, "max 4-byte width")
	test(1<<32, 8, "exactly 2^32 needs 8-byte width")
	test(1<<64-1, 8, "max uint64")
}

func TestEmitHeadMinimal(t *testing.T) {
	test := func(major byte, argument uint64, expected string, description string) {
		t.Run(description, func(t *testing.T) {
			b := acquireBuffer(64)
			defer releaseBuffer(b)
			emitHead(b, major, argument, 0)
			if got := b.buf[:b.tail]; !bytes.Equal(got, []byte(expected)) {
				t.Errorf("emitHead(%d, %d) = % X, want % X", major, argument, got, expected)
			}
		})
	}
	test(0, 0, "\x00", "zero is inline")
	test(0, 23, "\x17", "23 is inline")
	test(0, 24, "\x18\x18", "24 needs 1-byte width")
	test(1, 0, "\x20", "negative major, zero magnitude")
	test(0, 255, "\x18\xFF", "max 1-byte width")
	test(0, 256, "\x19\x01\x00", "needs 2-byte width")
	test(0, 1000000, "\x1A\x00\x0F\x42\x40", "needs 4-byte width")
	test(6, 25, "\xD8\x19", "stringref tag head")
}

func TestHeadSizeMatchesEmitHeadMinimal(t *testing.T) {
	for _, argument := range []uint64{0, 1, 23, 24, 255, 256, 1<<16 - 1, 1 << 16, 1<<32 - 1, 1 << 32} {
		b := acquireBuffer(64)
		emitHead(b, 0, argument, 0)
		if got, want := b.tail, headSize(argument, 0); got != want {
			t.Errorf("headSize(%d, 0) = %d, but emitHead wrote %d bytes", argument, want, got)
		}
		releaseBuffer(b)
	}
}

func TestHeadSizeMatchesEmitHeadForced(t *testing.T) {
	for _, forceWidth := range []int{1, 2, 4, 8} {
		argument := uint64(1) // small enough to fit every forced width
		b := acquireBuffer(64)
		emitHead(b, 0, argument, forceWidth)
		if got, want := b.tail, headSize(argument, forceWidth); got != want {
			t.Errorf("headSize(%d, %d) = %d, but emitHead wrote %d bytes", argument, forceWidth, want, got)
		}
		releaseBuffer(b)
	}
}
