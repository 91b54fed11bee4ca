// Package cbor implements a streaming CBOR (RFC 8949) encoder.
//
// # Overview
//
// Encoder consumes a sequence of structural and scalar token-write calls
// (WriteInt, WriteString, WriteStartArray, ...) and emits a CBOR byte
// stream to a Sink. It is the hard core of a larger token-pipeline
// family (CBOR, Smile, Protobuf, Avro, Ion sit side by side on the same
// token-producer contract); this package implements CBOR only. The
// decoder, the other codecs, schema generation, object-to-token
// binding and pretty-printing are treated as external collaborators
// and are not implemented here.
//
// # Dependencies
//
// The core encoder uses the standard library (encoding/binary, math,
// math/big, unicode/utf16, sync) plus github.com/pkg/errors, which
// errors.go uses to wrap sink errors. The cmd/cborcat front end and
// this package's own tests pull in github.com/sirupsen/logrus,
// github.com/spf13/pflag, gotest.tools/v3, github.com/google/go-cmp
// and pgregory.net/rapid; see the module's
// SPEC_FULL.md and DESIGN.md for the wiring rationale.
//
// # Scope
//
// Non-canonical: this encoder never reorders map keys and applies no
// determinism beyond what the caller's write order already produces.
//
// # Thread Safety
//
// Encoder is NOT safe for concurrent use. It owns a single output
// buffer and stringref table; callers needing concurrent streams must
// use one Encoder per goroutine.
package cbor

import "io"

// Sink is the byte receiver the encoder writes to. Flush pushes any
// data buffered downstream of the encoder (e.g. through a bufio.Writer)
// out to its destination; Close releases the sink's own resources.
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

// Source is a UCS-2 (16-bit code unit) view over a string, the
// abstraction the UTF-8 transcoder and string writer consume. Surrogate
// pairs are two adjacent code units, exactly as in Java's char[] or
// JavaScript's UTF-16 strings, the wire format this package's sibling
// JVM/JS implementations were built against.
type Source interface {
	Len() int
	At(i int) uint16
}
