package iresearch

import (
	"errors"
	"strconv"
	"testing"

	"github.com/wanghenshui/iresearch/compression"
	ierrors "github.com/wanghenshui/iresearch/errors"
)

func buildSegment(t *testing.T, populate func(w *Writer)) *Reader {
	t.Helper()
	dir, err := NewFSDirectory(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	w, err := NewWriter(dir, compression.Default(), 0)
	if err != nil {
		t.Fatal(err)
	}
	populate(w)
	if err := w.Commit(); err != nil {
		t.Fatal(err)
	}
	r, err := OpenReader(dir, compression.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func drain(it DocIterator) []DocID {
	var out []DocID
	for it.Next() {
		out = append(out, it.Value())
	}
	return out
}

func TestSegmentRoundTrip(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		title, err := w.Column("title", 1)
		if err != nil {
			t.Fatal(err)
		}
		docs := []DocID{1, 2, 5, 100}
		values := []string{"alpha", "beta", "gamma", "delta"}
		for i, doc := range docs {
			if err := title.AddKey(doc, []byte(values[i])); err != nil {
				t.Fatal(err)
			}
		}
	})

	col, err := r.ColumnByName("title")
	if err != nil {
		t.Fatal(err)
	}
	if col == nil {
		t.Fatal("ColumnByName(title) = nil, want the column")
	}
	if got, want := col.Size(), uint64(4); got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}

	it := col.Iterator(HintNormal)
	got := drain(it)
	want := []DocID{1, 2, 5, 100}
	if len(got) != len(want) {
		t.Fatalf("drain() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("drain()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestSegmentSeekAcrossGap(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		col, err := w.Column("title", 0)
		if err != nil {
			t.Fatal(err)
		}
		for _, doc := range []DocID{1, 2, 10, 20} {
			if err := col.AddKey(doc, []byte("v")); err != nil {
				t.Fatal(err)
			}
		}
	})
	col, _ := r.ColumnByName("title")
	it := col.Iterator(HintNormal)

	if got := it.Seek(5); got != 10 {
		t.Fatalf("Seek(5) = %d, want 10", got)
	}
	if got := it.Seek(10); got != 10 {
		t.Fatalf("Seek(10) = %d, want 10", got)
	}
	if got := it.Seek(21); got != DocIDEOF {
		t.Fatalf("Seek(21) = %d, want EOF", got)
	}
}

// TestSegmentDenseVariableRoundTripWithGap exercises a column spanning
// more than one block (blockSize keys per block) with a single missing
// doc right at a block boundary, so Seek must cross from the block
// ending the gap into the one starting it.
func TestSegmentDenseVariableRoundTripWithGap(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		col, err := w.Column("title", 0)
		if err != nil {
			t.Fatal(err)
		}
		for d := DocID(1); d <= 1500; d++ {
			if d == 1025 {
				continue
			}
			v := strconv.Itoa(int(d) - 1)
			if (int(d)-1)%2 != 0 {
				v += "id"
			}
			if err := col.AddKey(d, []byte(v)); err != nil {
				t.Fatal(err)
			}
		}
	})

	col, err := r.ColumnByName("title")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := col.Size(), uint64(1499); got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}

	got := drain(col.Iterator(HintNormal))
	if len(got) != 1499 {
		t.Fatalf("drain() visited %d docs, want 1499", len(got))
	}
	want := DocID(1)
	for _, d := range got {
		if d == 1025 {
			t.Fatal("drain() visited the skipped doc 1025")
		}
		if d != want {
			t.Fatalf("drain() visited %d, want %d", d, want)
		}
		want++
		if want == 1025 {
			want = 1026
		}
	}

	it := col.Iterator(HintNormal)
	if got := it.Seek(1025); got != 1026 {
		t.Fatalf("Seek(1025) = %d, want 1026", got)
	}
	if got := it.Seek(1501); got != DocIDEOF {
		t.Fatalf("Seek(1501) = %d, want EOF", got)
	}
}

// TestSegmentDenseMaskMultiBlockGap builds a mask column spanning many
// blocks with a one-doc gap right after the first block boundary, the
// scenario that exercises columnIterator.Seek's cross-block path where
// the target falls strictly between two blocks.
func TestSegmentDenseMaskMultiBlockGap(t *testing.T) {
	const upper = 1050627
	r := buildSegment(t, func(w *Writer) {
		col, err := w.Column("exists", 0)
		if err != nil {
			t.Fatal(err)
		}
		for d := DocID(1); d <= 1024; d++ {
			if err := col.AddKey(d, nil); err != nil {
				t.Fatal(err)
			}
		}
		for d := DocID(1026); d <= upper; d++ {
			if err := col.AddKey(d, nil); err != nil {
				t.Fatal(err)
			}
		}
	})

	col, err := r.ColumnByName("exists")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := col.Size(), uint64(1024+(upper-1026+1)); got != want {
		t.Fatalf("Size() = %d, want %d", got, want)
	}

	it := col.Iterator(HintNormal)
	if got := it.Seek(1025); got != 1026 {
		t.Fatalf("Seek(1025) = %d, want 1026", got)
	}

	last := col.Iterator(HintNormal)
	if got := last.Seek(upper); got != DocID(upper) {
		t.Fatalf("Seek(%d) = %d, want %d", upper, got, upper)
	}
	if last.Next() {
		t.Fatal("Next() past the last doc returned true, want EOF")
	}
}

func TestColumnByNameAbsent(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		if _, err := w.Column("title", 0); err != nil {
			t.Fatal(err)
		}
	})
	col, err := r.ColumnByName("nope")
	if err != nil {
		t.Fatal(err)
	}
	if col != nil {
		t.Fatal("ColumnByName(nope) returned a column, want nil")
	}
}

func TestExistenceAbsentColumnIsEmptyNotError(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		if _, err := w.Column("title", 0); err != nil {
			t.Fatal(err)
		}
	})
	it, err := Existence(r, "nope")
	if err != nil {
		t.Fatalf("Existence(nope) error = %v, want nil", err)
	}
	if it.Next() {
		t.Fatal("Existence(nope).Next() = true, want false (empty iterator)")
	}
}

func TestExistenceEmptyFieldIsInvalidArgument(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		if _, err := w.Column("title", 0); err != nil {
			t.Fatal(err)
		}
	})
	if _, err := Existence(r, ""); !errors.Is(err, ierrors.ErrInvalidArgument) {
		t.Fatalf("Existence(\"\") error = %v, want invalid_argument", err)
	}
}

func TestConjunction(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		a, err := w.Column("a", 0)
		if err != nil {
			t.Fatal(err)
		}
		b, err := w.Column("b", 0)
		if err != nil {
			t.Fatal(err)
		}
		for _, doc := range []DocID{1, 2, 3, 4} {
			if err := a.AddKey(doc, []byte("x")); err != nil {
				t.Fatal(err)
			}
		}
		for _, doc := range []DocID{2, 4, 6} {
			if err := b.AddKey(doc, []byte("y")); err != nil {
				t.Fatal(err)
			}
		}
	})

	ia, _ := Existence(r, "a")
	ib, _ := Existence(r, "b")
	conj := NewConjunction([]DocIterator{ia, ib}, SumMerger{})
	got := drain(conj)
	want := []DocID{2, 4}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("conjunction = %v, want %v", got, want)
	}
}

func TestDisjunction(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		a, err := w.Column("a", 0)
		if err != nil {
			t.Fatal(err)
		}
		b, err := w.Column("b", 0)
		if err != nil {
			t.Fatal(err)
		}
		for _, doc := range []DocID{1, 3} {
			if err := a.AddKey(doc, []byte("x")); err != nil {
				t.Fatal(err)
			}
		}
		for _, doc := range []DocID{2, 3} {
			if err := b.AddKey(doc, []byte("y")); err != nil {
				t.Fatal(err)
			}
		}
	})

	ia, _ := Existence(r, "a")
	ib, _ := Existence(r, "b")
	disj := NewDisjunction([]DocIterator{ia, ib}, SumMerger{})
	got := drain(disj)
	want := []DocID{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("disjunction = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("disjunction[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestPrefix(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		f1, err := w.Column("field_a", 0)
		if err != nil {
			t.Fatal(err)
		}
		f2, err := w.Column("field_b", 0)
		if err != nil {
			t.Fatal(err)
		}
		other, err := w.Column("other", 0)
		if err != nil {
			t.Fatal(err)
		}
		if err := f1.AddKey(1, []byte("x")); err != nil {
			t.Fatal(err)
		}
		if err := f2.AddKey(2, []byte("x")); err != nil {
			t.Fatal(err)
		}
		if err := other.AddKey(3, []byte("x")); err != nil {
			t.Fatal(err)
		}
	})

	it, err := Prefix(r, SumMerger{}, "field_")
	if err != nil {
		t.Fatal(err)
	}
	got := drain(it)
	want := []DocID{1, 2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("Prefix(field_) = %v, want %v", got, want)
	}
}

func TestPrefixEmptyIsInvalidArgument(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		if _, err := w.Column("title", 0); err != nil {
			t.Fatal(err)
		}
	})
	if _, err := Prefix(r, SumMerger{}, ""); !errors.Is(err, ierrors.ErrInvalidArgument) {
		t.Fatalf("Prefix(\"\") error = %v, want invalid_argument", err)
	}
}

func TestEmptyColumnHasInvalidMinMax(t *testing.T) {
	r := buildSegment(t, func(w *Writer) {
		if _, err := w.Column("empty", 0); err != nil {
			t.Fatal(err)
		}
	})
	col, err := r.ColumnByName("empty")
	if err != nil {
		t.Fatal(err)
	}
	if col == nil {
		t.Fatal("ColumnByName(empty) = nil, want the (empty) column")
	}
	if col.Min() != DocIDInvalid || col.Max() != DocIDInvalid {
		t.Fatalf("Min/Max = %d/%d, want Invalid/Invalid", col.Min(), col.Max())
	}
	if it := col.Iterator(HintNormal); it.Next() {
		t.Fatal("empty column's iterator produced a document")
	}
}
