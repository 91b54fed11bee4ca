package cbor

// startContainer pushes a new frame and emits its head, per spec
// section 4.6. size < 0 means an indefinite-length container; size >= 0
// is a definite-length container, with remaining set to size for an
// array and 2*size for a map (each key and each value decrements once).
func startContainer(ctx *contextStack, b *outputBuffer, sink Sink, kind frameKind, major byte, size int, maxDepth int) error {
	if ctx.depth() >= maxDepth {
		return newConstraintError("nesting depth exceeds %d", maxDepth)
	}

	if size < 0 {
		if err := b.ensureRoom(sink, 1); err != nil {
			return err
		}
		emitIndefiniteStart(b, major)
		ctx.push(kind, modeIndefinite, 0)
		if kind == frameMap {
			ctx.current().expectName = true
		}
		return nil
	}

	remaining := int64(size)
	if kind == frameMap {
		remaining *= 2
	}
	if err := b.ensureRoom(sink, headSize(uint64(size), 0)); err != nil {
		return err
	}
	emitHead(b, major, uint64(size), 0)
	ctx.push(kind, modeDefinite, remaining)
	if kind == frameMap {
		ctx.current().expectName = true
	}
	return nil
}

// emitIndefiniteStart writes the one-byte indefinite-length start
// marker for arrays (0x9F) or maps (0xBF).
func emitIndefiniteStart(b *outputBuffer, major byte) {
	b.writeByte(major<<5 | 31)
}

// endContainer closes the current frame: fails if it is not of kind,
// fails with a size mismatch if a definite frame has elements left,
// else emits the break byte for an indefinite frame and pops.
func endContainer(ctx *contextStack, b *outputBuffer, sink Sink, kind frameKind) error {
	f := ctx.current()
	if f.kind != kind {
		return newContextError("end does not match the open container kind")
	}
	if f.mode == modeDefinite {
		if f.remaining != 0 {
			return newSizeMismatchError("container closed with %d element(s) remaining", f.remaining)
		}
	} else {
		if err := b.ensureRoom(sink, 1); err != nil {
			return err
		}
		b.writeByte(0xFF)
	}
	ctx.pop()
	return nil
}

// writeFieldName writes name as a text item and flips the enclosing
// map frame's expect-name bit. It fails with a ContextError outside a
// map frame, and verifyNameWrite fails it when the frame expects a value.
func writeFieldName(ctx *contextStack, b *outputBuffer, sink Sink, name Source, table *stringrefTable, features Features, maxLongChars int) error {
	f := ctx.current()
	if f.kind != frameMap {
		return newContextError("field name written outside a map frame")
	}
	if err := verifyNameWrite(f); err != nil {
		return err
	}
	if err := writeTextString(b, sink, name, table, features, maxLongChars); err != nil {
		return err
	}
	f.expectName = false
	return nil
}

// closeOpenContainers repeatedly ends containers (auto-close, spec
// section 4.6) until only the root frame remains. Indefinite frames
// close with a break byte; a definite frame with elements still
// remaining fails the same as an explicit end-call would.
func closeOpenContainers(ctx *contextStack, b *outputBuffer, sink Sink) error {
	for ctx.depth() > 0 {
		f := ctx.current()
		if err := endContainer(ctx, b, sink, f.kind); err != nil {
			return err
		}
	}
	return nil
}
