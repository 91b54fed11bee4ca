package cbor

// Features is a bit-set of optional extensions, queryable at runtime
// per the encoder's external API surface. defaultFeatures below turns
// on MinimalInts and AutoCloseContainers; everything else is off.
type Features uint32

const (
	// SelfDescribe prepends D9 D9 F7 once, before the first byte of
	// the stream.
	SelfDescribe Features = 1 << iota
	// Stringref enables the content-addressed string/byte-string
	// back-reference table (tag 25 per reference).
	Stringref
	// MinimalInts selects the shortest-form integer argument width.
	// On by default.
	MinimalInts
	// MinimalDoubles round-trips a double through float32 and emits
	// the float32 form when lossless.
	MinimalDoubles
	// LenientUTF8 substitutes U+FFFD for invalid UCS-2 sequences
	// instead of failing.
	LenientUTF8
	// AutoCloseContainers makes Close() repeatedly end open
	// containers down to the root before flushing.
	AutoCloseContainers
	// FlushPassthroughClose closes the Sink on Close() even when the
	// encoder did not open it (see WithOwnedSink for the converse).
	FlushPassthroughClose
)

const defaultFeatures = MinimalInts | AutoCloseContainers

// Has reports whether every bit in want is set in f.
func (f Features) Has(want Features) bool { return f&want == want }

// config collects constructor-time settings applied by Option values.
type config struct {
	features   Features
	bufferSize int
	maxDepth   int
	ownedSink  bool
}

func defaultConfig() config {
	return config{
		features:   defaultFeatures,
		bufferSize: defaultBufferSize,
		maxDepth:   defaultMaxDepth,
	}
}

// Option configures an Encoder at construction time.
type Option func(*config)

// WithFeatures replaces the default feature set outright.
func WithFeatures(f Features) Option {
	return func(c *config) { c.features = f }
}

// WithSelfDescribe toggles the self-describe tag preamble.
func WithSelfDescribe(on bool) Option { return toggle(SelfDescribe, on) }

// WithStringref toggles the stringref back-reference extension.
func WithStringref(on bool) Option { return toggle(Stringref, on) }

// WithMinimalInts toggles shortest-form integer widths.
func WithMinimalInts(on bool) Option { return toggle(MinimalInts, on) }

// WithMinimalDoubles toggles the float32 round-trip check for doubles.
func WithMinimalDoubles(on bool) Option { return toggle(MinimalDoubles, on) }

// WithLenientUTF8 toggles U+FFFD substitution for bad surrogates.
func WithLenientUTF8(on bool) Option { return toggle(LenientUTF8, on) }

// WithAutoCloseContainers toggles auto-closing open containers on Close.
func WithAutoCloseContainers(on bool) Option { return toggle(AutoCloseContainers, on) }

// WithFlushPassthroughClose toggles closing the sink on Close() even
// when the encoder did not open it.
func WithFlushPassthroughClose(on bool) Option { return toggle(FlushPassthroughClose, on) }

func toggle(bit Features, on bool) Option {
	return func(c *config) {
		if on {
			c.features |= bit
		} else {
			c.features &^= bit
		}
	}
}

// WithBufferSize sets the output buffer's fixed capacity in bytes.
// Must be large enough to hold MAX_LONG_CHARS worth of a chunked string
// (see strings.go); values below minBufferSize are rounded up.
func WithBufferSize(n int) Option {
	return func(c *config) {
		if n < minBufferSize {
			n = minBufferSize
		}
		c.bufferSize = n
	}
}

// WithMaxDepth sets the maximum container nesting depth, checked on
// every start-container call.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// WithOwnedSink marks the sink as opened by the encoder, so Close()
// always closes it (independent of FlushPassthroughClose, which closes
// a sink the encoder does NOT own).
func WithOwnedSink(owned bool) Option {
	return func(c *config) { c.ownedSink = owned }
}
