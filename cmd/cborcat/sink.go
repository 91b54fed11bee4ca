package main

import (
	"bufio"
	"io"
)

// stdoutSink adapts a buffered stdout writer to cbor.Sink. Close is a
// no-op since stdout is not ours to close.
type stdoutSink struct {
	w *bufio.Writer
}

func newStdoutSink(w io.Writer) *stdoutSink {
	return &stdoutSink{w: bufio.NewWriter(w)}
}

func (s *stdoutSink) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *stdoutSink) Flush() error                { return s.w.Flush() }
func (s *stdoutSink) Close() error                { return nil }
