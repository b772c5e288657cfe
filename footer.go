package iresearch

import (
	"fmt"

	ierrors "github.com/wanghenshui/iresearch/errors"
)

const (
	footerMagic   uint32 = 0xC01DC01D
	footerVersion uint32 = 1
)

// footer is the decoded form of the index file's trailer: how many
// columns the segment has and where each one's header starts.
type footer struct {
	Version uint32
	Offsets []uint64
}

// writeColumnHeader serializes one column header: id, name, count,
// min/max doc, compression id, encrypted flag, then the delta-encoded
// block index, then a trailer crc64 over everything written for this
// column.
func writeColumnHeader(out *dataOutput, h *columnHeader) {
	start := out.Len()
	out.WriteUint64(h.ID)
	out.WriteString(h.Name)
	out.WriteVarint(h.Count)
	out.WriteVarint(uint64(h.MinDoc))
	out.WriteVarint(uint64(h.MaxDoc))
	out.WriteUint16(h.Compression)
	if h.Encrypted {
		out.WriteByte(1)
	} else {
		out.WriteByte(0)
	}
	out.WriteVarint(uint64(len(h.Blocks)))

	var prevKey DocID
	var prevOffset int64
	for _, b := range h.Blocks {
		out.WriteVarint(uint64(b.FirstKey - prevKey))
		out.WriteZigzagVarint(int64(b.DataOffset) - prevOffset)
		out.WriteVarint(b.ByteSize)
		out.WriteByte(byte(b.Variant))
		prevKey = b.FirstKey
		prevOffset = int64(b.DataOffset)
	}

	crc := crc64Of(out.Bytes()[start:])
	out.WriteUint64(crc)
}

// readColumnHeader parses one column header starting at in's current
// position, verifying the trailer crc64.
func readColumnHeader(in *dataInput) (*columnHeader, error) {
	start := in.pos
	h := &columnHeader{}
	var err error
	if h.ID, err = in.ReadUint64(); err != nil {
		return nil, err
	}
	if h.Name, err = in.ReadString(); err != nil {
		return nil, err
	}
	if h.Count, err = in.ReadVarint(); err != nil {
		return nil, err
	}
	minDoc, err := in.ReadVarint()
	if err != nil {
		return nil, err
	}
	h.MinDoc = DocID(minDoc)
	maxDoc, err := in.ReadVarint()
	if err != nil {
		return nil, err
	}
	h.MaxDoc = DocID(maxDoc)
	if h.Compression, err = in.ReadUint16(); err != nil {
		return nil, err
	}
	enc, err := in.ReadByte()
	if err != nil {
		return nil, err
	}
	h.Encrypted = enc != 0
	nblocks, err := in.ReadVarint()
	if err != nil {
		return nil, err
	}

	h.Blocks = make([]blockIndexEntry, nblocks)
	var prevKey DocID
	var prevOffset int64
	for i := range h.Blocks {
		delta, err := in.ReadVarint()
		if err != nil {
			return nil, err
		}
		offDelta, err := in.ReadZigzagVarint()
		if err != nil {
			return nil, err
		}
		byteSize, err := in.ReadVarint()
		if err != nil {
			return nil, err
		}
		variant, err := in.ReadByte()
		if err != nil {
			return nil, err
		}
		prevKey += DocID(delta)
		prevOffset += offDelta
		h.Blocks[i] = blockIndexEntry{
			FirstKey:   prevKey,
			DataOffset: uint64(prevOffset),
			ByteSize:   byteSize,
			Variant:    Variant(variant),
		}
	}

	end := in.pos
	wantCRC, err := in.ReadUint64()
	if err != nil {
		return nil, err
	}
	if got := crc64Of(in.buf[start:end]); got != wantCRC {
		return nil, fmt.Errorf("footer: column %q header checksum mismatch: %w", h.Name, ierrors.ErrCorruption)
	}
	return h, nil
}

// writeFooter serializes the index file's trailer: magic, version, column
// count, per-column offsets into the index file, and a crc64 over all of
// the above.
func writeFooter(out *dataOutput, offsets []uint64) {
	start := out.Len()
	out.WriteUint32(footerMagic)
	out.WriteUint32(footerVersion)
	out.WriteUint32(uint32(len(offsets)))
	for _, off := range offsets {
		out.WriteUint64(off)
	}
	crc := crc64Of(out.Bytes()[start:])
	out.WriteUint64(crc)
}

// readFooter parses the footer. The caller locates it first (the index
// file holds exactly one footer, whose length is recorded in the file's
// last four bytes — see Reader.load), so buf is just the footer's own
// bytes.
func readFooter(buf []byte) (*footer, error) {
	in := newDataInput(buf)
	magic, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	if magic != footerMagic {
		return nil, fmt.Errorf("footer: bad magic %#x: %w", magic, ierrors.ErrCorruption)
	}
	version, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	count, err := in.ReadUint32()
	if err != nil {
		return nil, err
	}
	offsets := make([]uint64, count)
	for i := range offsets {
		if offsets[i], err = in.ReadUint64(); err != nil {
			return nil, err
		}
	}
	end := in.pos
	wantCRC, err := in.ReadUint64()
	if err != nil {
		return nil, err
	}
	if got := crc64Of(buf[:end]); got != wantCRC {
		return nil, fmt.Errorf("footer: checksum mismatch: %w", ierrors.ErrCorruption)
	}
	return &footer{Version: version, Offsets: offsets}, nil
}
