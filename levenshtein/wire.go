package levenshtein

import (
	"bufio"
	"fmt"
	"io"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

// Varint/zigzag-varint helpers, the same bit layout the rest of this
// module's wire formats use (see dataio.go at the module root) —
// duplicated here in miniature since this package does not import the
// root package's unexported I/O helpers.

func writeVarint(w io.ByteWriter, v uint64) error {
	for v >= 0x80 {
		if err := w.WriteByte(byte(v) | 0x80); err != nil {
			return err
		}
		v >>= 7
	}
	return w.WriteByte(byte(v))
}

func readVarint(r io.ByteReader) (uint64, error) {
	var v uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		if shift >= 64 {
			return 0, fmt.Errorf("levenshtein: varint too long: %w", ierrors.ErrCorruption)
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, nil
		}
		shift += 7
	}
}

func zigzagEncode(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }
func zigzagDecode(u uint64) int64 { return int64(u>>1) ^ -(int64(u & 1)) }

// WriteTo serializes the description: max_distance, the flattened
// (state-major, χ-minor) transition grid as delta+zigzag varint pairs,
// then the distance table as raw bytes.
func (d *ParametricDescription) WriteTo(w io.Writer) (int64, error) {
	bw := &countingByteWriter{w: bufio.NewWriter(w)}

	if err := bw.WriteByte(byte(d.maxDistance)); err != nil {
		return bw.n, err
	}

	numChi := d.numChi()
	total := uint64(len(d.states)) * uint64(numChi)
	if err := writeVarint(bw, total); err != nil {
		return bw.n, err
	}

	prevNext, prevShift := 0, 0
	for _, row := range d.transitions {
		for _, tr := range row {
			if err := writeVarint(bw, zigzagEncode(int64(tr.next-prevNext))); err != nil {
				return bw.n, err
			}
			if err := writeVarint(bw, zigzagEncode(int64(tr.shift-prevShift))); err != nil {
				return bw.n, err
			}
			prevNext, prevShift = tr.next, tr.shift
		}
	}

	distanceBytes := make([]byte, 0, len(d.states)*d.distanceWidth)
	for _, row := range d.distance {
		for _, v := range row {
			distanceBytes = append(distanceBytes, byte(v))
		}
	}
	if err := writeVarint(bw, uint64(len(distanceBytes))); err != nil {
		return bw.n, err
	}
	if _, err := bw.Write(distanceBytes); err != nil {
		return bw.n, err
	}

	if f, ok := bw.w.(*bufio.Writer); ok {
		if err := f.Flush(); err != nil {
			return bw.n, err
		}
	}
	return bw.n, nil
}

// ReadParametricDescription deserializes a table written by WriteTo. The
// transpositions flag is not itself part of the wire format (only
// max_distance is carried) — it only ever affected how the table was
// built, and a read-back table already has its transitions and
// distances baked in, so BuildAutomaton/Distance need nothing more.
func ReadParametricDescription(r io.Reader) (*ParametricDescription, error) {
	br := bufio.NewReader(r)

	maxDistance, err := br.ReadByte()
	if err != nil {
		return nil, err
	}
	if int(maxDistance) > MaxDistance {
		return nil, fmt.Errorf("levenshtein: max_distance %d exceeds the supported table (max %d): %w",
			maxDistance, MaxDistance, ierrors.ErrCorruption)
	}

	n := int(maxDistance)
	d := &ParametricDescription{
		maxDistance:   n,
		window:        2*n + 1,
		distanceWidth: 2*n + 1,
	}
	numChi := d.numChi()

	total, err := readVarint(br)
	if err != nil {
		return nil, err
	}
	if numChi == 0 || total%uint64(numChi) != 0 {
		return nil, fmt.Errorf("levenshtein: transition count %d not a multiple of χ-width %d: %w",
			total, numChi, ierrors.ErrCorruption)
	}
	numStates := int(total / uint64(numChi))

	d.transitions = make([][]transitionTarget, numStates)
	d.states = make([][]position, numStates)
	prevNext, prevShift := 0, 0
	for s := 0; s < numStates; s++ {
		row := make([]transitionTarget, numChi)
		for c := 0; c < numChi; c++ {
			dn, err := readVarint(br)
			if err != nil {
				return nil, err
			}
			ds, err := readVarint(br)
			if err != nil {
				return nil, err
			}
			next := prevNext + int(zigzagDecode(dn))
			shift := prevShift + int(zigzagDecode(ds))
			row[c] = transitionTarget{next: next, shift: shift}
			prevNext, prevShift = next, shift
		}
		d.transitions[s] = row
	}

	nDistances, err := readVarint(br)
	if err != nil {
		return nil, err
	}
	if nDistances != uint64(numStates*d.distanceWidth) {
		return nil, fmt.Errorf("levenshtein: distance table size %d does not match %d states x %d offsets: %w",
			nDistances, numStates, d.distanceWidth, ierrors.ErrCorruption)
	}
	raw := make([]byte, nDistances)
	if _, err := io.ReadFull(br, raw); err != nil {
		return nil, err
	}
	d.distance = make([][]int, numStates)
	for s := 0; s < numStates; s++ {
		row := make([]int, d.distanceWidth)
		for i := 0; i < d.distanceWidth; i++ {
			row[i] = int(raw[s*d.distanceWidth+i])
		}
		d.distance[s] = row
	}

	return d, nil
}

// countingByteWriter adapts a bufio.Writer to io.ByteWriter while
// tracking the total bytes written, for WriteTo's int64 return.
type countingByteWriter struct {
	w io.Writer
	n int64
}

func (c *countingByteWriter) WriteByte(b byte) error {
	bw, ok := c.w.(*bufio.Writer)
	if ok {
		c.n++
		return bw.WriteByte(b)
	}
	_, err := c.Write([]byte{b})
	return err
}

func (c *countingByteWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
