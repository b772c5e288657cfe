package compression

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestIdentityRoundTrip(t *testing.T) {
	c := Identity{}
	src := []byte("the quick brown fox")
	enc := c.Encode(nil, src)
	dec, err := c.Decode(nil, enc, len(src))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(dec, src) {
		t.Fatalf("round trip mismatch: got %q want %q", dec, src)
	}
}

func TestLZ4RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cases := [][]byte{
		nil,
		[]byte("x"),
		bytes.Repeat([]byte("abcabcabcabc"), 200),
	}
	random := make([]byte, 4096)
	rng.Read(random)
	cases = append(cases, random)

	c := NewLZ4()
	for i, src := range cases {
		enc := c.Encode(nil, src)
		dec, err := c.Decode(nil, enc, len(src))
		if err != nil {
			t.Fatalf("case %d: Decode: %v", i, err)
		}
		if !bytes.Equal(dec, src) {
			t.Fatalf("case %d: round trip mismatch", i)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	r := Default()
	if _, ok := r.Lookup(0); !ok {
		t.Fatal("expected identity codec at id 0")
	}
	if _, ok := r.Lookup(1); !ok {
		t.Fatal("expected lz4 codec at id 1")
	}
	if _, ok := r.Lookup(99); ok {
		t.Fatal("expected no codec at id 99")
	}
}
