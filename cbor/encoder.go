package cbor

import (
	"io"
	"math/big"
)

// selfDescribeTag is the preamble bytes for the self-describe CBOR tag
// (tag 55799, D9 D9 F7), emitted once before the first byte of output
// when SelfDescribe is enabled.
var selfDescribeTag = [3]byte{0xD9, 0xD9, 0xF7}

// Encoder is a streaming CBOR token writer over a Sink. It owns an
// output buffer, a container-nesting stack, and (when Stringref is
// enabled) a back-reference table. Not safe for concurrent use; see
// the package doc's Thread Safety note.
type Encoder struct {
	sink Sink
	cfg  config
	buf  *outputBuffer
	ctx  *contextStack

	table *stringrefTable

	maxLongChars  int
	wrotePreamble bool
	closed        bool
	poisoned      error
}

// NewEncoder wraps sink with a new Encoder configured by opts.
func NewEncoder(sink Sink, opts ...Option) *Encoder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &Encoder{
		sink:         sink,
		cfg:          cfg,
		buf:          acquireBuffer(cfg.bufferSize),
		ctx:          newContextStack(),
		maxLongChars: computeMaxLongChars(cfg.bufferSize),
	}
	if cfg.features.Has(Stringref) {
		e.table = newStringrefTable()
	}
	return e
}

// ensurePreamble emits the self-describe tag exactly once, lazily,
// before the first byte any value-producing call writes; resolved in
// DESIGN.md's Open Question section: no wrapping tag 256, preamble
// only, emitted ahead of that call's own bytes.
func (e *Encoder) ensurePreamble() error {
	if e.wrotePreamble || !e.cfg.features.Has(SelfDescribe) {
		return nil
	}
	if err := e.buf.ensureRoom(e.sink, len(selfDescribeTag)); err != nil {
		return err
	}
	e.buf.writeBytes(selfDescribeTag[:])
	e.wrotePreamble = true
	return nil
}

// enter runs before every value-producing call: it rejects further
// writes after Close or after a prior unrecovered error (poisoning),
// and emits the self-describe preamble on the very first call.
func (e *Encoder) enter() error {
	if e.poisoned != nil {
		return e.poisoned
	}
	if e.closed {
		return newContextError("write after Close")
	}
	if err := e.ensurePreamble(); err != nil {
		e.poison(err)
		return err
	}
	return nil
}

// poison records err as the encoder's terminal state: once a write
// fails partway (e.g. mid-flush), the output buffer's "no partial
// item" invariant may already be broken, so every later call fails
// fast with the same error instead of risking malformed output.
func (e *Encoder) poison(err error) {
	if e.poisoned == nil {
		e.poisoned = err
	}
}

func (e *Encoder) value() (*frame, error) {
	if err := e.enter(); err != nil {
		return nil, err
	}
	f := e.ctx.current()
	if err := verifyValueWrite(f); err != nil {
		return nil, err
	}
	return f, nil
}

// WriteNull writes the null simple value (0xF6).
func (e *Encoder) WriteNull() error { return e.writeSimple(22) }

// WriteUndefined writes the undefined simple value (0xF7).
func (e *Encoder) WriteUndefined() error { return e.writeSimple(23) }

// WriteBool writes a CBOR boolean (0xF4/0xF5).
func (e *Encoder) WriteBool(v bool) error {
	if v {
		return e.writeSimple(21)
	}
	return e.writeSimple(20)
}

func (e *Encoder) writeSimple(value byte) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.buf.ensureRoom(e.sink, 1); err != nil {
		e.poison(err)
		return err
	}
	e.buf.writeByte(0xE0 | value)
	afterValueWritten(f)
	return nil
}

// WriteInt writes a 32-bit signed integer.
func (e *Encoder) WriteInt(n int32) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.buf.ensureRoom(e.sink, 5); err != nil {
		e.poison(err)
		return err
	}
	writeInt32Head(e.buf, n, e.cfg.features.Has(MinimalInts))
	afterValueWritten(f)
	return nil
}

// WriteLong writes a 64-bit signed integer.
func (e *Encoder) WriteLong(n int64) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.buf.ensureRoom(e.sink, 9); err != nil {
		e.poison(err)
		return err
	}
	writeInt64Head(e.buf, n, e.cfg.features.Has(MinimalInts))
	afterValueWritten(f)
	return nil
}

// WriteBigInt writes an arbitrary-precision integer as tag 2 (positive)
// or tag 3 (negative) followed by a byte-string of its big-endian
// magnitude (spec section 4.4); the byte-string is stringref-aware.
func (e *Encoder) WriteBigInt(v *big.Int) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.writeBigIntBody(v); err != nil {
		e.poison(err)
		return err
	}
	afterValueWritten(f)
	return nil
}

func (e *Encoder) writeBigIntBody(v *big.Int) error {
	tag, mag := bigIntTag(v)
	if err := e.buf.ensureRoom(e.sink, headSize(tag, 0)); err != nil {
		return err
	}
	emitHead(e.buf, 6, tag, 0)
	return writeBinaryString(e.buf, e.sink, mag, e.table, e.cfg.features)
}

// WriteDecimal writes a decimal fraction (tag 4): a 2-element array of
// the negated scale and the unscaled value, the unscaled value taking
// whichever integer form fits (spec section 4.4).
func (e *Encoder) WriteDecimal(d Decimal) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.writeDecimalBody(d); err != nil {
		e.poison(err)
		return err
	}
	afterValueWritten(f)
	return nil
}

func (e *Encoder) writeDecimalBody(d Decimal) error {
	if err := e.buf.ensureRoom(e.sink, headSize(4, 0)+headSize(2, 0)); err != nil {
		return err
	}
	emitHead(e.buf, 6, 4, 0)
	emitHead(e.buf, 4, 2, 0) // array head, exactly 2 elements

	minimal := e.cfg.features.Has(MinimalInts)
	if err := e.buf.ensureRoom(e.sink, 9); err != nil {
		return err
	}
	writeInt32Head(e.buf, -d.Scale, minimal)

	unscaled := d.Unscaled
	switch {
	case fitsInt32(unscaled):
		if err := e.buf.ensureRoom(e.sink, 5); err != nil {
			return err
		}
		writeInt32Head(e.buf, int32(unscaled.Int64()), minimal)
	case fitsInt64(unscaled):
		if err := e.buf.ensureRoom(e.sink, 9); err != nil {
			return err
		}
		writeInt64Head(e.buf, unscaled.Int64(), minimal)
	default:
		return e.writeBigIntBody(unscaled)
	}
	return nil
}

// WriteFloat writes a float32, always in the 0xFA (single-precision)
// form.
func (e *Encoder) WriteFloat(v float32) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.buf.ensureRoom(e.sink, 5); err != nil {
		e.poison(err)
		return err
	}
	emitFloat32(e.buf, v)
	afterValueWritten(f)
	return nil
}

// WriteDouble writes a float64. If MinimalDoubles is enabled and v
// round-trips losslessly through float32, the shorter 0xFA form is
// emitted instead of 0xFB (spec section 4.4).
func (e *Encoder) WriteDouble(v float64) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := e.buf.ensureRoom(e.sink, 9); err != nil {
		e.poison(err)
		return err
	}
	if e.cfg.features.Has(MinimalDoubles) {
		if f32, ok := minimalWidthFloat64(v); ok {
			emitFloat32(e.buf, f32)
			afterValueWritten(f)
			return nil
		}
	}
	emitFloat64(e.buf, v)
	afterValueWritten(f)
	return nil
}

// WriteString writes src as a CBOR text-string item (spec section 4.3).
func (e *Encoder) WriteString(src Source) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := writeTextString(e.buf, e.sink, src, e.table, e.cfg.features, e.maxLongChars); err != nil {
		e.poison(err)
		return err
	}
	afterValueWritten(f)
	return nil
}

// WriteText is a convenience wrapper writing a Go string.
func (e *Encoder) WriteText(s string) error { return e.WriteString(NewStringSource(s)) }

// WriteBytes writes data as a CBOR byte-string item (spec section 4.5).
func (e *Encoder) WriteBytes(data []byte) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := writeBinaryString(e.buf, e.sink, data, e.table, e.cfg.features); err != nil {
		e.poison(err)
		return err
	}
	afterValueWritten(f)
	return nil
}

// WriteBytesFromReader writes a byte-string item of exactly length
// bytes, read and flushed in chunks from r.
func (e *Encoder) WriteBytesFromReader(r io.Reader, length int64) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	if err := writeBinaryStream(e.buf, e.sink, r, length); err != nil {
		e.poison(err)
		return err
	}
	afterValueWritten(f)
	return nil
}

// WriteTag writes a tag head of the given tag number; the tagged value
// itself is the caller's next write.
func (e *Encoder) WriteTag(tag uint64) error {
	if err := e.enter(); err != nil {
		return err
	}
	// A tag does not itself consume a value slot: verifyValueWrite runs
	// on the tagged value that follows, not on the tag head.
	if err := e.buf.ensureRoom(e.sink, headSize(tag, 0)); err != nil {
		e.poison(err)
		return err
	}
	emitHead(e.buf, 6, tag, 0)
	return nil
}

// WriteRawByte writes a single raw byte, bypassing context tracking.
// Intended for emitting break bytes or simple-value markers the public
// API does not otherwise expose; callers are responsible for keeping
// the stream well-formed.
func (e *Encoder) WriteRawByte(c byte) error {
	if err := e.enter(); err != nil {
		return err
	}
	if err := e.buf.ensureRoom(e.sink, 1); err != nil {
		e.poison(err)
		return err
	}
	e.buf.writeByte(c)
	return nil
}

// WriteStartArray opens a definite-length array of n elements.
func (e *Encoder) WriteStartArray(n int) error { return e.startContainer(frameArray, 4, n) }

// WriteStartArrayUnsized opens an indefinite-length array.
func (e *Encoder) WriteStartArrayUnsized() error { return e.startContainer(frameArray, 4, -1) }

// WriteStartObject opens a definite-length map of n key/value pairs.
func (e *Encoder) WriteStartObject(n int) error { return e.startContainer(frameMap, 5, n) }

// WriteStartObjectUnsized opens an indefinite-length map.
func (e *Encoder) WriteStartObjectUnsized() error { return e.startContainer(frameMap, 5, -1) }

func (e *Encoder) startContainer(kind frameKind, major byte, n int) error {
	f, err := e.value()
	if err != nil {
		return err
	}
	// Flip the parent before the push: f points into the frame slice,
	// which the push may reallocate.
	afterValueWritten(f)
	if err := startContainer(e.ctx, e.buf, e.sink, kind, major, n, e.cfg.maxDepth); err != nil {
		e.poison(err)
		return err
	}
	return nil
}

// WriteFieldName writes a map key (spec section 4.6); valid only
// immediately inside a map frame that currently expects a name.
func (e *Encoder) WriteFieldName(name Source) error {
	if err := e.enter(); err != nil {
		return err
	}
	if err := writeFieldName(e.ctx, e.buf, e.sink, name, e.table, e.cfg.features, e.maxLongChars); err != nil {
		e.poison(err)
		return err
	}
	return nil
}

// WriteField is a convenience wrapper writing a Go string map key.
func (e *Encoder) WriteField(name string) error { return e.WriteFieldName(NewStringSource(name)) }

// WriteEndArray closes the current array frame.
func (e *Encoder) WriteEndArray() error { return e.endContainer(frameArray) }

// WriteEndObject closes the current map frame.
func (e *Encoder) WriteEndObject() error { return e.endContainer(frameMap) }

func (e *Encoder) endContainer(kind frameKind) error {
	if err := e.enter(); err != nil {
		return err
	}
	if err := endContainer(e.ctx, e.buf, e.sink, kind); err != nil {
		e.poison(err)
		return err
	}
	return nil
}

// Flush pushes any buffered bytes to the sink and calls the sink's own
// Flush.
func (e *Encoder) Flush() error {
	if e.poisoned != nil {
		return e.poisoned
	}
	if err := e.buf.flushTo(e.sink); err != nil {
		e.poison(err)
		return err
	}
	if err := e.sink.Flush(); err != nil {
		err = wrapIoError(err, "sink flush")
		e.poison(err)
		return err
	}
	return nil
}

// Close ends any still-open containers when AutoCloseContainers is
// enabled (failing if a definite frame has elements remaining), flushes,
// releases the output buffer to the pool, and closes the sink according
// to WithOwnedSink / WithFlushPassthroughClose.
func (e *Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	if e.poisoned == nil && e.cfg.features.Has(AutoCloseContainers) {
		if err := closeOpenContainers(e.ctx, e.buf, e.sink); err != nil {
			e.poison(err)
		}
	}

	flushErr := e.Flush()

	var closeErr error
	if e.cfg.ownedSink || e.cfg.features.Has(FlushPassthroughClose) {
		closeErr = e.sink.Close()
	}

	releaseBuffer(e.buf)

	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
