// Command cborcat reads a line-oriented token script and writes the
// CBOR byte stream it describes to stdout. It is a thin demonstration
// harness over cbor.Encoder, not a schema or data-binding layer.
package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/thebagchi/cbor-codec/cbor"
)

var log = logrus.New()

func main() {
	var (
		filename       = pflag.StringP("file", "f", "", "token script file (default: stdin)")
		selfDescribe   = pflag.Bool("self-describe", false, "prepend the self-describe tag preamble")
		stringref      = pflag.Bool("stringref", false, "enable the stringref back-reference extension")
		lenientUTF8    = pflag.Bool("lenient-utf8", false, "substitute U+FFFD for invalid surrogate sequences")
		fullWidthInts  = pflag.Bool("full-width-ints", false, "disable shortest-form integer widths")
		minimalDoubles = pflag.Bool("minimal-doubles", false, "round-trip doubles through float32 when lossless")
	)
	pflag.Parse()

	in := os.Stdin
	if *filename != "" {
		f, err := os.Open(*filename)
		if err != nil {
			log.WithError(err).Fatal("opening token script")
		}
		defer f.Close()
		in = f
	}

	sink := newStdoutSink(os.Stdout)
	enc := cbor.NewEncoder(sink,
		cbor.WithSelfDescribe(*selfDescribe),
		cbor.WithStringref(*stringref),
		cbor.WithLenientUTF8(*lenientUTF8),
		cbor.WithMinimalInts(!*fullWidthInts),
		cbor.WithMinimalDoubles(*minimalDoubles),
	)

	if err := run(in, enc); err != nil {
		log.WithError(err).Fatal("encoding token script")
	}
	if err := enc.Close(); err != nil {
		log.WithError(err).Fatal("closing encoder")
	}
}

// run drives enc from one token instruction per line of r. Blank lines
// and lines starting with # are skipped.
func run(r io.Reader, enc *cbor.Encoder) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields, err := tokenize(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
		if err := dispatch(enc, fields); err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	return scanner.Err()
}

// tokenize splits a line into space-separated fields, treating a
// double-quoted run as a single field with its quotes stripped.
func tokenize(line string) ([]string, error) {
	var fields []string
	i, n := 0, len(line)
	for i < n {
		for i < n && line[i] == ' ' {
			i++
		}
		if i >= n {
			break
		}
		if line[i] == '"' {
			j := i + 1
			for j < n && line[j] != '"' {
				j++
			}
			if j >= n {
				return nil, fmt.Errorf("unterminated quoted string")
			}
			fields = append(fields, line[i+1:j])
			i = j + 1
			continue
		}
		j := i
		for j < n && line[j] != ' ' {
			j++
		}
		fields = append(fields, line[i:j])
		i = j
	}
	return fields, nil
}

func dispatch(enc *cbor.Encoder, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	op, args := fields[0], fields[1:]

	switch op {
	case "null":
		return enc.WriteNull()
	case "undefined":
		return enc.WriteUndefined()
	case "bool":
		return enc.WriteBool(args[0] == "true")
	case "int":
		n, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return err
		}
		return enc.WriteInt(int32(n))
	case "long":
		n, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}
		return enc.WriteLong(n)
	case "bigint":
		v, ok := new(big.Int).SetString(args[0], 10)
		if !ok {
			return fmt.Errorf("invalid bigint literal %q", args[0])
		}
		return enc.WriteBigInt(v)
	case "decimal":
		scale, err := strconv.ParseInt(args[0], 10, 32)
		if err != nil {
			return err
		}
		unscaled, ok := new(big.Int).SetString(args[1], 10)
		if !ok {
			return fmt.Errorf("invalid decimal unscaled literal %q", args[1])
		}
		return enc.WriteDecimal(cbor.Decimal{Unscaled: unscaled, Scale: int32(scale)})
	case "float":
		v, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return err
		}
		return enc.WriteFloat(float32(v))
	case "double":
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return err
		}
		return enc.WriteDouble(v)
	case "string":
		return enc.WriteText(args[0])
	case "bytes":
		data, err := hex.DecodeString(args[0])
		if err != nil {
			return err
		}
		return enc.WriteBytes(data)
	case "tag":
		n, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return err
		}
		return enc.WriteTag(n)
	case "begin-array":
		if len(args) == 0 {
			return enc.WriteStartArrayUnsized()
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		return enc.WriteStartArray(n)
	case "end-array":
		return enc.WriteEndArray()
	case "begin-object":
		if len(args) == 0 {
			return enc.WriteStartObjectUnsized()
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return err
		}
		return enc.WriteStartObject(n)
	case "end-object":
		return enc.WriteEndObject()
	case "field":
		return enc.WriteField(args[0])
	default:
		return fmt.Errorf("unknown token %q", op)
	}
}
