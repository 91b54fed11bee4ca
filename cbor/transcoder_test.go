package cbor

import (
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func transcodeAll(t *testing.T, src Source, lenient bool) ([]byte, error) {
	t.Helper()
	dst := make([]byte, maxUTF8Bytes(src.Len()))
	n, err := transcodeRun(dst, src, 0, src.Len(), lenient)
	return dst[:n], err
}

func TestTranscodeASCII(t *testing.T) {
	got, err := transcodeAll(t, NewStringSource("IETF"), false)
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(got, []byte("IETF")))
}

func TestTranscodeTwoByteRange(t *testing.T) {
	// U+00FC (u with diaeresis) encodes as C3 BC in UTF-8.
	got, err := transcodeAll(t, CodeUnits{0x00FC}, false)
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(got, []byte{0xC3, 0xBC}))
}

func TestTranscodeThreeByteRange(t *testing.T) {
	// U+20AC (EURO SIGN) encodes as E2 82 AC in UTF-8.
	got, err := transcodeAll(t, CodeUnits{0x20AC}, false)
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(got, []byte{0xE2, 0x82, 0xAC}))
}

func TestTranscodeSurrogatePair(t *testing.T) {
	// U+1F600 (GRINNING FACE) = D83D DE00 -> F0 9F 98 80.
	got, err := transcodeAll(t, CodeUnits{0xD83D, 0xDE00}, false)
	assert.NilError(t, err)
	assert.Assert(t, is.DeepEqual(got, []byte{0xF0, 0x9F, 0x98, 0x80}))
}

func TestTranscodeUnmatchedHighSurrogateStrict(t *testing.T) {
	_, err := transcodeAll(t, CodeUnits{0xD83D}, false)
	assert.ErrorContains(t, err, "invalid surrogate")
	var encErr *EncodingError
	assert.Assert(t, asEncodingError(err, &encErr))
	assert.Assert(t, encErr.BadEnd)
}

func TestTranscodeUnpairedLowSurrogateStrict(t *testing.T) {
	_, err := transcodeAll(t, CodeUnits{0xDE00}, false)
	assert.ErrorContains(t, err, "invalid surrogate")
	var encErr *EncodingError
	assert.Assert(t, asEncodingError(err, &encErr))
	assert.Assert(t, !encErr.BadEnd)
}

func TestTranscodeLenientSubstitutesReplacementChar(t *testing.T) {
	got, err := transcodeAll(t, CodeUnits{0xD83D, 'A'}, true)
	assert.NilError(t, err)
	want := append(append([]byte{}, replacementChar[:]...), 'A')
	assert.Assert(t, is.DeepEqual(got, want))
}

func TestTranscodeFastPathMatchesGeneralLoop(t *testing.T) {
	// Mixed ASCII + surrogate pair: the ASCII prefix must take the fast
	// path and still agree byte-for-byte with a run that is entirely
	// handled by the general loop.
	mixed := CodeUnits{'h', 'i', 0xD83D, 0xDE00}
	got, err := transcodeAll(t, mixed, false)
	assert.NilError(t, err)

	allGeneral := make([]byte, maxUTF8Bytes(len(mixed)))
	n, err := transcodeRun(allGeneral, mixed, 2, len(mixed), false)
	assert.NilError(t, err)
	want := append([]byte("hi"), allGeneral[:n]...)
	assert.Assert(t, is.DeepEqual(got, want))
}

func asEncodingError(err error, target **EncodingError) bool {
	e, ok := err.(*EncodingError)
	if ok {
		*target = e
	}
	return ok
}
