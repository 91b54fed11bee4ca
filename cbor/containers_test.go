package cbor

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestStartEndArrayDefinite(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, 2, defaultMaxDepth))
	assert.Assert(t, is.Equal(ctx.depth(), 1))

	assert.NilError(t, consumeSlot(ctx.current()))
	assert.NilError(t, consumeSlot(ctx.current()))
	assert.NilError(t, endContainer(ctx, b, sink, frameArray))
	assert.Assert(t, is.Equal(ctx.depth(), 0))
	assert.NilError(t, b.flushTo(sink))
	assert.Assert(t, is.DeepEqual(sink.Bytes(), []byte{0x82}))
}

func TestEndContainerSizeMismatch(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, 2, defaultMaxDepth))
	assert.NilError(t, consumeSlot(ctx.current()))
	err := endContainer(ctx, b, sink, frameArray)
	var sizeErr *SizeMismatchError
	assert.Assert(t, asSizeMismatchError(err, &sizeErr))
}

func TestEndContainerWrongKind(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, 0, defaultMaxDepth))
	err := endContainer(ctx, b, sink, frameMap)
	var ctxErr *ContextError
	assert.Assert(t, asContextError(err, &ctxErr))
}

func TestIndefiniteArrayEmitsBreak(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, -1, defaultMaxDepth))
	assert.NilError(t, endContainer(ctx, b, sink, frameArray))
	assert.NilError(t, b.flushTo(sink))
	assert.Assert(t, is.DeepEqual(sink.Bytes(), []byte{0x9F, 0xFF}))
}

func TestWriteFieldNameTogglesExpectation(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameMap, 5, 1, defaultMaxDepth))
	assert.Assert(t, ctx.current().expectName)

	err := writeFieldName(ctx, b, sink, NewStringSource("a"), nil, 0, computeMaxLongChars(64))
	assert.NilError(t, err)
	assert.Assert(t, !ctx.current().expectName)

	// A second field name before a value is an error.
	err = writeFieldName(ctx, b, sink, NewStringSource("b"), nil, 0, computeMaxLongChars(64))
	var ctxErr *ContextError
	assert.Assert(t, asContextError(err, &ctxErr))
}

func TestCloseOpenContainersAutoCloses(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, -1, defaultMaxDepth))
	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, -1, defaultMaxDepth))
	assert.NilError(t, closeOpenContainers(ctx, b, sink))
	assert.Assert(t, is.Equal(ctx.depth(), 0))
	assert.NilError(t, b.flushTo(sink))
	assert.Assert(t, is.DeepEqual(sink.Bytes(), []byte{0x9F, 0x9F, 0xFF, 0xFF}))
}

func TestStartContainerMaxDepth(t *testing.T) {
	sink := &memSink{}
	b := acquireBuffer(64)
	defer releaseBuffer(b)
	ctx := newContextStack()

	assert.NilError(t, startContainer(ctx, b, sink, frameArray, 4, -1, 1))
	err := startContainer(ctx, b, sink, frameArray, 4, -1, 1)
	var constraintErr *ConstraintError
	assert.Assert(t, asConstraintError(err, &constraintErr))
}

func asSizeMismatchError(err error, target **SizeMismatchError) bool {
	e, ok := err.(*SizeMismatchError)
	if ok {
		*target = e
	}
	return ok
}

func asContextError(err error, target **ContextError) bool {
	e, ok := err.(*ContextError)
	if ok {
		*target = e
	}
	return ok
}

func asConstraintError(err error, target **ConstraintError) bool {
	e, ok := err.(*ConstraintError)
	if ok {
		*target = e
	}
	return ok
}
