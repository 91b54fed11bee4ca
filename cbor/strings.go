package cbor

import "io"

// computeMaxLongChars derives the chunk-size threshold from the output
// buffer's capacity: one chunk's worst-case body (3 bytes/code unit)
// plus its 3-byte long-form head and the 1-byte break must always fit
// in a single buffer, with headroom to spare.
func computeMaxLongChars(bufferSize int) int {
	v := bufferSize/4 - 4
	if v < 1 {
		v = 1
	}
	return v
}

// writeTextString encodes src as a CBOR text-string item, dispatching
// on length: chunked beyond maxLongChars code units, otherwise a single
// definite-length item taking the stringref-aware or plain path.
func writeTextString(b *outputBuffer, sink Sink, src Source, table *stringrefTable, features Features, maxLongChars int) error {
	L := src.Len()
	lenient := features.Has(LenientUTF8)

	if L > maxLongChars {
		return writeChunkedText(b, sink, src, lenient, maxLongChars)
	}
	if features.Has(Stringref) && L > 0 {
		return writeTextStringRef(b, sink, src, table, lenient)
	}
	return writeTextStringPlain(b, sink, src, lenient)
}

// textHeadReserve is the number of head bytes to reserve before
// transcoding, per the size classes in spec section 4.3: 1 for the
// short class's inline form, 2 for medium's uint8-length form, 3 for
// long's uint16-length form. Reservation is a starting guess; finalizeHead
// promotes (and shifts the body) if the transcoded length needs more.
func textHeadReserve(L int) int {
	switch {
	case L < 24:
		return 1
	case L <= 255:
		return 2
	default:
		return 3
	}
}

func writeTextStringPlain(b *outputBuffer, sink Sink, src Source, lenient bool) error {
	L := src.Len()
	if L == 0 {
		if err := b.ensureRoom(sink, 1); err != nil {
			return err
		}
		b.writeByte(0x60)
		return nil
	}

	reserved := textHeadReserve(L)
	maxBody := maxUTF8Bytes(L)
	if err := b.ensureRoom(sink, reserved+maxBody); err != nil {
		return err
	}
	origTail := b.tail
	bodyStart := origTail + reserved
	n, err := transcodeRun(b.buf[bodyStart:bodyStart+maxBody], src, 0, L, lenient)
	if err != nil {
		return err
	}
	finalizeHead(b, origTail, reserved, 3, n)
	return nil
}

// writeTextStringRef takes the two-pass stringref path: transcode into
// scratch first (content must be known before a table lookup can run),
// then either emit a back-reference or the literal body, inserting it
// into the table on a qualifying miss. Chunked strings never reach here
// (spec section 4.3: "chunked strings are never referenced").
func writeTextStringRef(b *outputBuffer, sink Sink, src Source, table *stringrefTable, lenient bool) error {
	L := src.Len()
	scratch := make([]byte, maxUTF8Bytes(L))
	n, err := transcodeRun(scratch, src, 0, L, lenient)
	if err != nil {
		return err
	}
	key := string(scratch[:n])

	if idx, ok := table.lookupText(key); ok {
		return writeStringrefReference(b, sink, idx)
	}
	if err := emitTextBody(b, sink, scratch[:n]); err != nil {
		return err
	}
	if qualifies(table.next, n) {
		table.insertText(key)
	}
	return nil
}

func emitTextBody(b *outputBuffer, sink Sink, data []byte) error {
	if err := b.ensureRoom(sink, headSize(uint64(len(data)), 0)); err != nil {
		return err
	}
	emitHead(b, 3, uint64(len(data)), 0)
	return b.copyChunked(sink, data)
}

func writeStringrefReference(b *outputBuffer, sink Sink, idx uint64) error {
	need := headSize(stringrefTag, 0) + headSize(idx, 0)
	if err := b.ensureRoom(sink, need); err != nil {
		return err
	}
	emitHead(b, 6, stringrefTag, 0)
	emitHead(b, 0, idx, 0)
	return nil
}

func writeChunkedText(b *outputBuffer, sink Sink, src Source, lenient bool, maxLongChars int) error {
	if err := b.ensureRoom(sink, 1); err != nil {
		return err
	}
	b.writeByte(0x7F)

	L := src.Len()
	lo := 0
	for lo < L {
		hi := lo + maxLongChars
		if hi > L {
			hi = L
		}
		if hi < L && isHighSurrogate(src.At(hi-1)) {
			hi--
		}
		if err := writeTextChunk(b, sink, src, lo, hi, lenient); err != nil {
			return err
		}
		lo = hi
	}

	if err := b.ensureRoom(sink, 1); err != nil {
		return err
	}
	b.writeByte(0xFF)
	return nil
}

func isHighSurrogate(c uint16) bool { return c >= 0xD800 && c <= 0xDBFF }

// writeTextChunk always uses the long (uint16) head form, per spec
// section 4.3, so the reservation is exact and no shift is ever needed:
// a forced 2-byte argument width is always 3 head bytes.
func writeTextChunk(b *outputBuffer, sink Sink, src Source, lo, hi int, lenient bool) error {
	maxBody := maxUTF8Bytes(hi - lo)
	if err := b.ensureRoom(sink, 3+maxBody); err != nil {
		return err
	}
	bodyStart := b.tail + 3
	n, err := transcodeRun(b.buf[bodyStart:bodyStart+maxBody], src, lo, hi, lenient)
	if err != nil {
		return err
	}
	emitHead(b, 3, uint64(n), 2)
	b.tail += n
	return nil
}

// finalizeHead writes a definite-length head of the given major type for
// a body of n bytes already sitting reserved bytes past origTail,
// promoting to a wider head form (and shifting the body down) when n's
// minimal head width exceeds the initial reservation.
func finalizeHead(b *outputBuffer, origTail, reserved int, major byte, n int) {
	need := headSize(uint64(n), 0)
	if need != reserved {
		src := origTail + reserved
		dst := origTail + need
		copy(b.buf[dst:dst+n], b.buf[src:src+n])
	}
	b.tail = origTail
	emitHead(b, major, uint64(n), 0)
	b.tail = origTail + need + n
}

// writeBinaryString encodes data as a CBOR byte-string item (spec
// section 4.5), stringref-aware. On a qualifying miss the table takes
// its own copy via insertBytes's string conversion, so later mutation
// of data by the caller cannot corrupt a stored entry.
func writeBinaryString(b *outputBuffer, sink Sink, data []byte, table *stringrefTable, features Features) error {
	if features.Has(Stringref) {
		if idx, ok := table.lookupBytes(data); ok {
			return writeStringrefReference(b, sink, idx)
		}
	}

	if err := b.ensureRoom(sink, headSize(uint64(len(data)), 0)); err != nil {
		return err
	}
	emitHead(b, 2, uint64(len(data)), 0)
	if err := b.copyChunked(sink, data); err != nil {
		return err
	}

	if features.Has(Stringref) && qualifies(table.next, len(data)) {
		table.insertBytes(data)
	}
	return nil
}

// writeBinaryStream copies exactly length bytes from r into a
// byte-string item, flushing between buffer-sized reads. A short read
// (r produces fewer than length bytes) is reported via errShortRead
// with the count of missing bytes.
func writeBinaryStream(b *outputBuffer, sink Sink, r io.Reader, length int64) error {
	if length < 0 {
		return newArgumentError("negative binary stream length: %d", length)
	}
	if err := b.ensureRoom(sink, headSize(uint64(length), 0)); err != nil {
		return err
	}
	emitHead(b, 2, uint64(length), 0)

	remaining := length
	for remaining > 0 {
		if b.room() == 0 {
			if err := b.flushTo(sink); err != nil {
				return err
			}
		}
		want := int64(b.room())
		if want > remaining {
			want = remaining
		}
		n, err := io.ReadFull(r, b.buf[b.tail:b.tail+int(want)])
		b.tail += n
		remaining -= int64(n)
		if err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return errShortRead(int(remaining))
			}
			return wrapIoError(err, "binary stream read")
		}
	}
	return nil
}
