package iresearch

import "testing"

func TestVarintRoundTrip(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 20, 1<<63 - 1, ^uint64(0)}
	out := &dataOutput{}
	for _, v := range values {
		out.WriteVarint(v)
	}
	in := newDataInput(out.Bytes())
	for _, want := range values {
		got, err := in.ReadVarint()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("varint round trip: got %d, want %d", got, want)
		}
	}
}

func TestZigzagVarintRoundTrip(t *testing.T) {
	values := []int64{0, -1, 1, -300, 300, 1<<40 - 1, -(1 << 40)}
	out := &dataOutput{}
	for _, v := range values {
		out.WriteZigzagVarint(v)
	}
	in := newDataInput(out.Bytes())
	for _, want := range values {
		got, err := in.ReadZigzagVarint()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("zigzag round trip: got %d, want %d", got, want)
		}
	}
}

func TestStringRoundTrip(t *testing.T) {
	out := &dataOutput{}
	out.WriteString("")
	out.WriteString("title")
	out.WriteString("the unbearable lightness of being")

	in := newDataInput(out.Bytes())
	for _, want := range []string{"", "title", "the unbearable lightness of being"} {
		got, err := in.ReadString()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("string round trip: got %q, want %q", got, want)
		}
	}
}

func TestReadVarintRejectsOverlongEncoding(t *testing.T) {
	buf := make([]byte, 11)
	for i := range buf {
		buf[i] = 0xff
	}
	in := newDataInput(buf)
	if _, err := in.ReadVarint(); err == nil {
		t.Fatal("ReadVarint on an overlong encoding returned nil error, want corruption")
	}
}
