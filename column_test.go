package iresearch

import (
	"testing"

	"github.com/wanghenshui/iresearch/compression"
)

func TestSelectVariant(t *testing.T) {
	cases := []struct {
		name               string
		n, d               int
		allEmpty, fixedLen bool
		want               Variant
	}{
		{"dense mask", 4, 4, true, false, VariantDenseMask},
		{"sparse mask", 4, 10, true, false, VariantSparseMask},
		{"dense fixed", 4, 4, false, true, VariantDenseFixed},
		{"dense variable", 4, 4, false, false, VariantDenseVariable},
		{"sparse fixed", 4, 10, false, true, VariantSparseFixed},
		{"sparse variable", 4, 10, false, false, VariantSparseVariable},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := selectVariant(c.n, c.d, c.allEmpty, c.fixedLen); got != c.want {
				t.Errorf("selectVariant(%d,%d,%v,%v) = %v, want %v", c.n, c.d, c.allEmpty, c.fixedLen, got, c.want)
			}
		})
	}
}

func encodeDecode(t *testing.T, entries []accumEntry) *materializedBlock {
	t.Helper()
	codec := compression.Identity{}
	body, variant, err := encodeBlock(entries, codec)
	if err != nil {
		t.Fatalf("encodeBlock: %v", err)
	}
	mb, err := decodeBlock(body, entries[0].doc, variant, codec)
	if err != nil {
		t.Fatalf("decodeBlock: %v", err)
	}
	return mb
}

func TestEncodeDecodeDenseFixed(t *testing.T) {
	entries := []accumEntry{
		{doc: 10, value: []byte("aaaa")},
		{doc: 11, value: []byte("bbbb")},
		{doc: 12, value: []byte("cccc")},
	}
	mb := encodeDecode(t, entries)
	if mb.variant != VariantDenseFixed {
		t.Fatalf("variant = %v, want DenseFixed", mb.variant)
	}
	for i, e := range entries {
		rank, ok := mb.present(i)
		if !ok || rank != i {
			t.Fatalf("present(%d) = (%d, %v), want (%d, true)", i, rank, ok, i)
		}
		if got := mb.valueAt(rank); string(got) != string(e.value) {
			t.Errorf("valueAt(%d) = %q, want %q", rank, got, e.value)
		}
	}
}

func TestEncodeDecodeSparseVariable(t *testing.T) {
	entries := []accumEntry{
		{doc: 100, value: []byte("x")},
		{doc: 105, value: []byte("hello")},
		{doc: 109, value: []byte("ab")},
	}
	mb := encodeDecode(t, entries)
	if mb.variant != VariantSparseVariable {
		t.Fatalf("variant = %v, want SparseVariable", mb.variant)
	}

	rank, ok := mb.present(5) // doc 105
	if !ok || rank != 1 {
		t.Fatalf("present(5) = (%d, %v), want (1, true)", rank, ok)
	}
	if got := string(mb.valueAt(rank)); got != "hello" {
		t.Errorf("valueAt(1) = %q, want hello", got)
	}

	if _, ok := mb.present(1); ok {
		t.Fatalf("present(1) = true, want false (no key at doc 101)")
	}
	local, nextRank, ok := mb.nextPresent(1)
	if !ok || local != 5 || nextRank != 1 {
		t.Fatalf("nextPresent(1) = (%d, %d, %v), want (5, 1, true)", local, nextRank, ok)
	}
}

func TestEncodeDecodeMask(t *testing.T) {
	entries := []accumEntry{
		{doc: 1, value: nil},
		{doc: 2, value: nil},
		{doc: 3, value: nil},
	}
	mb := encodeDecode(t, entries)
	if mb.variant != VariantDenseMask {
		t.Fatalf("variant = %v, want DenseMask", mb.variant)
	}
	if rank, ok := mb.present(1); !ok || rank != 1 {
		t.Fatalf("present(1) = (%d, %v), want (1, true)", rank, ok)
	}
}

func TestEncodeBlockRejectsEmptyInput(t *testing.T) {
	if _, _, err := encodeBlock(nil, compression.Identity{}); err == nil {
		t.Fatal("encodeBlock(nil) returned nil error, want invalid_argument")
	}
}
