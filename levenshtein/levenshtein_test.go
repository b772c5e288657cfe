package levenshtein

import (
	"bytes"
	"errors"
	"testing"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

func TestNewParametricDescriptionRejectsOversizedMaxDistance(t *testing.T) {
	if _, err := NewParametricDescription(MaxDistance+1, false); !errors.Is(err, ierrors.ErrInvalidArgument) {
		t.Fatalf("got %v, want invalid_argument", err)
	}
}

func TestDistanceZero(t *testing.T) {
	d, err := NewParametricDescription(2, true)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Distance([]byte("café"), []byte("café")); got != 0 {
		t.Fatalf("Distance(café, café) = %d, want 0", got)
	}
}

// Sanity checks for a (max_distance=2, transpositions=true) description
// against target "café".
func TestDistanceCafe(t *testing.T) {
	d, err := NewParametricDescription(2, true)
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		word string
		want int
	}{
		{"café", 0},
		{"cafe", 1},
		{"cafés", 1},
		{"cfaé", 1},   // transposition of the second and third runes
		{"koffee", 3}, // = max_distance+1, i.e. reject
	}
	for _, c := range cases {
		if got := d.Distance([]byte("café"), []byte(c.word)); got != c.want {
			t.Errorf("Distance(café, %q) = %d, want %d", c.word, got, c.want)
		}
	}
}

func TestDistanceMaxDistanceZero(t *testing.T) {
	d, err := NewParametricDescription(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if got := d.Distance([]byte("abc"), []byte("abc")); got != 0 {
		t.Fatalf("Distance(abc,abc) = %d, want 0", got)
	}
	if got := d.Distance([]byte("abc"), []byte("abd")); got != 1 {
		t.Fatalf("Distance(abc,abd) = %d, want 1 (= max_distance+1)", got)
	}
}

func TestBuildAutomatonAcceptsWithinDistance(t *testing.T) {
	d, err := NewParametricDescription(1, false)
	if err != nil {
		t.Fatal(err)
	}
	a, err := d.BuildAutomaton(nil, []byte("cat"))
	if err != nil {
		t.Fatal(err)
	}
	ok, dist := a.Accepts([]byte("cat"))
	if !ok || dist != 0 {
		t.Fatalf("Accepts(cat) = (%v, %d), want (true, 0)", ok, dist)
	}
	ok, dist = a.Accepts([]byte("cats"))
	if !ok || dist != 1 {
		t.Fatalf("Accepts(cats) = (%v, %d), want (true, 1)", ok, dist)
	}
	ok, _ = a.Accepts([]byte("dog"))
	if ok {
		t.Fatalf("Accepts(dog) = true, want false")
	}
}

func TestBuildAutomatonRejectsNonUTF8(t *testing.T) {
	d, err := NewParametricDescription(1, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := d.BuildAutomaton(nil, []byte{0xff, 0xfe}); !errors.Is(err, ierrors.ErrInvalidArgument) {
		t.Fatalf("got %v, want invalid_argument", err)
	}
}

func TestBuildAutomatonLiteralPrefix(t *testing.T) {
	d, err := NewParametricDescription(1, false)
	if err != nil {
		t.Fatal(err)
	}
	a, err := d.BuildAutomaton([]byte("pre"), []byte("fix"))
	if err != nil {
		t.Fatal(err)
	}
	ok, _ := a.Accepts([]byte("prefix"))
	if !ok {
		t.Fatalf("Accepts(prefix) = false, want true")
	}
	ok, _ = a.Accepts([]byte("xrefix"))
	if ok {
		t.Fatalf("Accepts(xrefix) = true, want false (prefix is literal)")
	}
}

// A description with max_distance == 0 only ever needs the dead state
// and the single all-matched state.
func TestMaxDistanceZeroHasTwoStates(t *testing.T) {
	d, err := NewParametricDescription(0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.states) != 2 {
		t.Fatalf("len(states) = %d, want 2", len(d.states))
	}
}

// S6: round-trip serialization must reproduce identical transition and
// distance tables, and post-roundtrip behavior must match pre-roundtrip.
func TestSerializeRoundTrip(t *testing.T) {
	d, err := NewParametricDescription(3, false)
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}

	d2, err := ReadParametricDescription(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(d.transitions) != len(d2.transitions) {
		t.Fatalf("state count mismatch: %d vs %d", len(d.transitions), len(d2.transitions))
	}
	for s := range d.transitions {
		for c := range d.transitions[s] {
			if d.transitions[s][c] != d2.transitions[s][c] {
				t.Fatalf("transition[%d][%d] mismatch: %+v vs %+v", s, c, d.transitions[s][c], d2.transitions[s][c])
			}
		}
	}
	for s := range d.distance {
		for i := range d.distance[s] {
			if d.distance[s][i] != d2.distance[s][i] {
				t.Fatalf("distance[%d][%d] mismatch: %d vs %d", s, i, d.distance[s][i], d2.distance[s][i])
			}
		}
	}

	words := []string{"abc", "abd", "xyz", "a", ""}
	for _, w := range words {
		if got, want := d2.Distance([]byte("abc"), []byte(w)), d.Distance([]byte("abc"), []byte(w)); got != want {
			t.Errorf("post-roundtrip Distance(abc,%q) = %d, want %d", w, got, want)
		}
	}
}

func TestSerializeRejectsOversizedMaxDistance(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteByte(MaxDistance + 1)
	if _, err := ReadParametricDescription(&buf); !errors.Is(err, ierrors.ErrCorruption) {
		t.Fatalf("got %v, want corruption", err)
	}
}
