package cbor

import "encoding/binary"

// headWidth returns the smallest width in {1,2,4,8} bytes that can
// hold argument. Note that argument == 2^32 exactly must use the
// 8-byte form, which falls out naturally here since 2^32 is not < 1<<32.
func headWidth(argument uint64) int {
	switch {
	case argument < 1<<8:
		return 1
	case argument < 1<<16:
		return 2
	case argument < 1<<32:
		return 4
	default:
		return 8
	}
}

// emitHead writes a CBOR item head: a one-byte "initial byte" followed
// by 0/1/2/4/8 bytes of big-endian argument.
//
// forceWidth == 0 selects minimal width (and the single-byte inline
// form when argument < 24). A nonzero forceWidth in {1,2,4,8} is used
// when the caller wants the argument encoded at a fixed width
// regardless of value (the "full width" / non-minimal-int mode of
// spec section 4.1); forceWidth must still be wide enough to hold
// argument; callers compute it from the source integer type's width.
func emitHead(b *outputBuffer, major byte, argument uint64, forceWidth int) {
	initial := major << 5

	if forceWidth == 0 && argument < 24 {
		b.writeByte(initial | byte(argument))
		return
	}

	width := forceWidth
	if width == 0 {
		width = headWidth(argument)
	}

	switch width {
	case 1:
		b.writeByte(initial | 24)
		b.writeByte(byte(argument))
	case 2:
		b.writeByte(initial | 25)
		var tmp [2]byte
		binary.BigEndian.PutUint16(tmp[:], uint16(argument))
		b.writeBytes(tmp[:])
	case 4:
		b.writeByte(initial | 26)
		var tmp [4]byte
		binary.BigEndian.PutUint32(tmp[:], uint32(argument))
		b.writeBytes(tmp[:])
	default:
		b.writeByte(initial | 27)
		var tmp [8]byte
		binary.BigEndian.PutUint64(tmp[:], argument)
		b.writeBytes(tmp[:])
	}
}

// headSize returns the number of bytes emitHead would write for the
// given arguments, without writing anything; used by callers that
// must reserve room before transcoding (strings.go).
func headSize(argument uint64, forceWidth int) int {
	if forceWidth == 0 && argument < 24 {
		return 1
	}
	width := forceWidth
	if width == 0 {
		width = headWidth(argument)
	}
	return 1 + width
}
