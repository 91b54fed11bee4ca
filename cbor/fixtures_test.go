package cbor

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// intCase is one row of testing/ints.json.
type intCase struct {
	Input   int64  `json:"input"`
	Minimal bool   `json:"minimal"`
	Output  string `json:"output"`
}

func TestWriteIntFixtures(t *testing.T) {
	path := filepath.Join("testing", "ints.json")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}

	var cases []intCase
	if err := json.Unmarshal(data, &cases); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}

	for _, tc := range cases {
		name := fmt.Sprintf("INPUT_%d_MINIMAL_%v", tc.Input, tc.Minimal)
		t.Run(name, func(t *testing.T) {
			expected, err := hex.DecodeString(tc.Output)
			if err != nil {
				t.Fatalf("decoding expected hex: %v", err)
			}

			sink := &memSink{}
			enc := NewEncoder(sink, WithMinimalInts(tc.Minimal))
			if tc.Input >= -(1<<31) && tc.Input < 1<<31 {
				if err := enc.WriteInt(int32(tc.Input)); err != nil {
					t.Fatalf("WriteInt: %v", err)
				}
			} else {
				if err := enc.WriteLong(tc.Input); err != nil {
					t.Fatalf("WriteLong: %v", err)
				}
			}
			if err := enc.Close(); err != nil {
				t.Fatalf("Close: %v", err)
			}

			if diff := cmp.Diff(expected, sink.Bytes()); diff != "" {
				t.Errorf("encoded bytes mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
