// Package xpk implements the XPK container multiplexer: it parses the
// XPKF frame, enumerates its checksummed chunks, and delegates each
// compressed chunk to a sub-codec selected by the frame's 4-character type
// code.
package xpk

import (
	"iter"

	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/codec/delta"
	"github.com/polluks/ancient-format-decompressor/codec/none"
	"github.com/polluks/ancient-format-decompressor/codec/rake"
	"github.com/polluks/ancient-format-decompressor/codec/stub"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
)

const fourCCXPKF = 0x58504b46 // "XPKF"

// DetectHeader reports whether hdr is the XPKF container magic.
func DetectHeader(hdr uint32) bool {
	return hdr == fourCCXPKF
}

// subEntry pairs a sub-codec's type detector with its constructor. Go
// function values aren't covariant in return type, so each create closure
// re-wraps its codec's concrete *T as a contract.SubDecompressor.
type subEntry struct {
	detect func(typ uint32) bool
	create func(typ uint32, payload *buffer.View, state *contract.State) contract.SubDecompressor
}

// subRegistry lists every sub-codec type this container can dispatch to,
// in alphabetical order by type code.
var subRegistry = []subEntry{
	{stub.DetectHeaderXPKCBR0, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKCBR0(t, p, s) }},
	{stub.DetectHeaderXPKCRM, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKCRM(t, p, s) }},
	{stub.DetectHeaderXPKDFLT, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKDFLT(t, p, s) }},
	{delta.DetectHeaderXPK, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return delta.New(t, p, s) }},
	{stub.DetectHeaderXPKFAST, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKFAST(t, p, s) }},
	{stub.DetectHeaderXPKFRLE, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKFRLE(t, p, s) }},
	{stub.DetectHeaderXPKHUFF, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKHUFF(t, p, s) }},
	{stub.DetectHeaderXPKIMPL, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKIMPL(t, p, s) }},
	{stub.DetectHeaderXPKMASH, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKMASH(t, p, s) }},
	{none.DetectHeaderXPK, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return none.New(t, p, s) }},
	{stub.DetectHeaderXPKNUKE, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKNUKE(t, p, s) }},
	{rake.DetectHeaderXPK, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return rake.New(t, p, s) }},
	{stub.DetectHeaderXPKRLEN, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKRLEN(t, p, s) }},
	{stub.DetectHeaderXPKSQSH, func(t uint32, p *buffer.View, s *contract.State) contract.SubDecompressor { return stub.NewXPKSQSH(t, p, s) }},
}

func detectSubDecompressor(typ uint32) bool {
	for _, e := range subRegistry {
		if e.detect(typ) {
			return true
		}
	}
	return false
}

func createSubDecompressor(typ uint32, payload *buffer.View, state *contract.State) contract.SubDecompressor {
	for _, e := range subRegistry {
		if e.detect(typ) {
			return e.create(typ, payload, state)
		}
	}
	return nil
}

// Decompressor is the XPK container. Construct with New.
type Decompressor struct {
	packed      *buffer.View
	packedSize  int // excludes the 8-byte magic+size prefix, per the frame field
	typ         uint32
	rawSize     int
	longHeaders bool
	headerSize  int
	valid       bool

	state contract.State
}

const maxRawSize = 1 << 32
const maxPackedSize = 1 << 32

// New parses an XPKF frame.
func New(packed *buffer.View) *Decompressor {
	d := &Decompressor{packed: packed}
	if packed.Size() < 44 {
		return d
	}
	hdr, ok := packed.Uint32(0, buffer.BigEndian)
	if !ok || !DetectHeader(hdr) {
		return d
	}
	packedSize, ok := packed.Uint32(4, buffer.BigEndian)
	if !ok {
		return d
	}
	typ, ok := packed.Uint32(8, buffer.BigEndian)
	if !ok {
		return d
	}
	rawSize, ok := packed.Uint32(12, buffer.BigEndian)
	if !ok {
		return d
	}
	if rawSize == 0 || packedSize == 0 {
		return d
	}
	if uint64(rawSize) > maxRawSize || uint64(packedSize) > maxPackedSize {
		return d
	}

	flags, ok := packed.Uint8(32)
	if !ok {
		return d
	}
	d.longHeaders = flags&1 != 0
	if flags&2 != 0 { // password: unsupported
		return d
	}
	if flags&4 != 0 {
		extraLen, ok := packed.Uint16(36, buffer.BigEndian)
		if !ok {
			return d
		}
		d.headerSize = 38 + int(extraLen)
	} else {
		d.headerSize = 36
	}

	if int(packedSize)+8 > packed.Size() {
		return d
	}

	d.packedSize = int(packedSize)
	d.typ = typ
	d.rawSize = int(rawSize)
	d.valid = detectSubDecompressor(d.typ)
	return d
}

func (d *Decompressor) IsValid() bool { return d.valid }

func (d *Decompressor) GetPackedSize() int {
	if !d.valid {
		return 0
	}
	return d.packedSize + 8
}

func (d *Decompressor) GetRawSize() int {
	if !d.valid {
		return 0
	}
	return d.rawSize
}

func headerChecksum(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	var tmp uint8
	for _, b := range data {
		tmp ^= b
	}
	return tmp == 0
}

func chunkChecksum(data []byte, check uint16) bool {
	if len(data) == 0 {
		return false
	}
	var tmp [2]uint8
	for i, b := range data {
		tmp[i&1] ^= b
	}
	return tmp[0] == uint8(check>>8) && tmp[1] == uint8(check)
}

// chunk is one XPK chunk as seen by forEachChunk/Chunks: its header view,
// its payload view, its declared raw size, and its type byte.
type chunk struct {
	header       *buffer.View
	payload      *buffer.View
	rawChunkSize uint32
	chunkType    uint8
}

// ChunkInfo is the public view of one chunk exposed by Chunks.
type ChunkInfo struct {
	RawSize uint32
	Type    uint8
}

// forEachChunk is the pure traversal every public operation builds on: it
// stops after visiting a type-15 terminator, and reaching end-of-stream
// without one is itself a failure.
func (d *Decompressor) forEachChunk(visit func(c chunk) error) error {
	currentOffset := 0
	isLast := false

	readDual := func(offsetShort, offsetLong int) (uint32, bool) {
		base := currentOffset
		if d.longHeaders {
			v, ok := d.packed.Uint32(base+offsetLong, buffer.BigEndian)
			return v, ok
		}
		v, ok := d.packed.Uint16(base+offsetShort, buffer.BigEndian)
		return uint32(v), ok
	}

	chunkHeaderLen := 8
	if d.longHeaders {
		chunkHeaderLen = 12
	}

	for currentOffset < d.packedSize+8 && !isLast {
		if currentOffset == 0 {
			currentOffset = d.headerSize
		} else {
			prevPackedSize, ok := readDual(4, 4)
			if !ok {
				return errs.New(errs.OutOfBounds, "xpk: chunk advance")
			}
			currentOffset += chunkHeaderLen + int((prevPackedSize+3)&^3)
		}

		packedSize, ok := readDual(4, 4)
		if !ok {
			return errs.New(errs.OutOfBounds, "xpk: chunk packed size")
		}
		rawSize, ok := readDual(6, 8)
		if !ok {
			return errs.New(errs.OutOfBounds, "xpk: chunk raw size")
		}
		typ, ok := d.packed.Uint8(currentOffset)
		if !ok {
			return errs.New(errs.OutOfBounds, "xpk: chunk type")
		}

		header, err := d.packed.Slice(currentOffset, chunkHeaderLen)
		if err != nil {
			return errs.Wrap(errs.OutOfBounds, "xpk: chunk header", err)
		}
		payload, err := d.packed.Slice(currentOffset+chunkHeaderLen, int(packedSize))
		if err != nil {
			return errs.Wrap(errs.OutOfBounds, "xpk: chunk payload", err)
		}

		if err := visit(chunk{header: header, payload: payload, rawChunkSize: rawSize, chunkType: typ}); err != nil {
			return err
		}
		if typ == 15 {
			isLast = true
		}
	}
	if !isLast {
		return errs.New(errs.InvalidFormat, "xpk: missing terminator")
	}
	return nil
}

// Chunks iterates a frame's chunks as an iter.Seq2, stopping at the
// terminator or the first structural error. The returned error func
// reports any traversal failure once the sequence is exhausted or
// abandoned early.
func (d *Decompressor) Chunks() (iter.Seq2[int, ChunkInfo], func() error) {
	var retErr error
	seq := func(yield func(int, ChunkInfo) bool) {
		i := 0
		retErr = d.forEachChunk(func(c chunk) error {
			if !yield(i, ChunkInfo{RawSize: c.rawChunkSize, Type: c.chunkType}) {
				return errStopIteration
			}
			i++
			return nil
		})
		if retErr == errStopIteration {
			retErr = nil
		}
	}
	return seq, func() error { return retErr }
}

var errStopIteration = errs.New(errs.InvalidFormat, "xpk: iteration stopped")

func (d *Decompressor) VerifyPacked() error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "xpk: verify packed")
	}
	frameHeader, err := d.packed.Slice(0, 36)
	if err != nil || !headerChecksum(frameHeader.Data()) {
		return errs.New(errs.ChecksumMismatch, "xpk: frame header checksum")
	}

	return d.forEachChunk(func(c chunk) error {
		if !headerChecksum(c.header.Data()) {
			return errs.New(errs.ChecksumMismatch, "xpk: chunk header checksum")
		}
		hdrCheck, ok := c.header.Uint16(2, buffer.BigEndian)
		if !ok {
			return errs.New(errs.OutOfBounds, "xpk: chunk check value")
		}
		if c.payload.Size() > 0 && !chunkChecksum(c.payload.Data(), hdrCheck) {
			return errs.New(errs.ChecksumMismatch, "xpk: chunk data checksum")
		}

		switch c.chunkType {
		case 1:
			sub := createSubDecompressor(d.typ, c.payload, new(contract.State))
			if sub == nil || !sub.IsValid() || (sub.GetRawSize() != 0 && sub.GetRawSize() != int(c.rawChunkSize)) {
				return errs.New(errs.InvalidFormat, "xpk: sub-codec")
			}
			if err := sub.VerifyPacked(); err != nil {
				return err
			}
		case 0, 15:
		default:
			return errs.New(errs.InvalidFormat, "xpk: chunk type")
		}
		return nil
	})
}

// VerifyRaw checks the leading preview and, for each compressed chunk,
// delegates to the sub-codec's own VerifyRaw — the only cross-check
// available for most sub-codecs.
func (d *Decompressor) VerifyRaw(raw *buffer.View) error {
	if !d.valid || raw.Size() < d.rawSize {
		return errs.New(errs.InvalidFormat, "xpk: verify raw")
	}
	previewLen := d.rawSize
	if previewLen > 16 {
		previewLen = 16
	}
	preview, err := d.packed.Slice(16, previewLen)
	if err != nil {
		return errs.Wrap(errs.OutOfBounds, "xpk: preview", err)
	}
	rawPreview, err := raw.Slice(0, previewLen)
	if err != nil {
		return errs.Wrap(errs.OutOfBounds, "xpk: raw preview", err)
	}
	for i := 0; i < previewLen; i++ {
		if preview.Data()[i] != rawPreview.Data()[i] {
			return errs.New(errs.ChecksumMismatch, "xpk: preview mismatch")
		}
	}

	destOffset := 0
	err = d.forEachChunk(func(c chunk) error {
		if destOffset+int(c.rawChunkSize) > raw.Size() {
			return errs.New(errs.OutOfBounds, "xpk: chunk raw range")
		}
		if c.rawChunkSize == 0 {
			return nil
		}
		out, err := raw.Slice(destOffset, int(c.rawChunkSize))
		if err != nil {
			return errs.Wrap(errs.OutOfBounds, "xpk: chunk raw slice", err)
		}
		switch c.chunkType {
		case 1:
			// VerifyRaw needs no carried state: a fresh probe instance is
			// enough to check this chunk's output against the sub-codec's
			// own rules; only Decompress threads state across chunks.
			sub := createSubDecompressor(d.typ, c.payload, new(contract.State))
			if sub == nil || !sub.IsValid() || (sub.GetRawSize() != 0 && sub.GetRawSize() != int(c.rawChunkSize)) {
				return errs.New(errs.InvalidFormat, "xpk: sub-codec")
			}
			if err := sub.VerifyRaw(out); err != nil {
				return err
			}
		case 0, 15:
		default:
			return errs.New(errs.InvalidFormat, "xpk: chunk type")
		}
		destOffset += int(c.rawChunkSize)
		return nil
	})
	if err != nil {
		return err
	}
	if destOffset != d.rawSize {
		return errs.New(errs.InvalidFormat, "xpk: raw size mismatch")
	}
	return nil
}

// GetName probes the first chunk's sub-codec for its sub-name; if that
// sub-codec cannot be constructed, it reports "<invalid>" as a
// display-only fallback.
func (d *Decompressor) GetName() string {
	if !d.valid {
		return "<invalid>"
	}
	name := "<invalid>"
	_ = d.forEachChunk(func(c chunk) error {
		if sub := createSubDecompressor(d.typ, c.payload, new(contract.State)); sub != nil {
			name = sub.GetSubName()
		}
		return errStopIteration
	})
	return name
}

func (d *Decompressor) GetSubName() string { return "<invalid>" }

// Decompress runs every chunk in order, copying literal chunks verbatim
// and delegating compressed chunks to their sub-codec.
func (d *Decompressor) Decompress(dst *buffer.Mutable) error {
	if !d.valid || dst.Size() < d.rawSize {
		return errs.New(errs.InvalidFormat, "xpk: decompress")
	}

	destOffset := 0
	var previous *buffer.View
	err := d.forEachChunk(func(c chunk) error {
		if destOffset+int(c.rawChunkSize) > dst.Size() {
			return errs.New(errs.OutOfBounds, "xpk: chunk raw range")
		}
		if c.rawChunkSize == 0 {
			return nil
		}
		out, err := dst.Slice(destOffset, int(c.rawChunkSize))
		if err != nil {
			return errs.Wrap(errs.OutOfBounds, "xpk: chunk dest slice", err)
		}

		switch c.chunkType {
		case 0:
			if int(c.rawChunkSize) != c.payload.Size() {
				return errs.New(errs.InvalidFormat, "xpk: literal chunk size")
			}
			copy(out.Data(), c.payload.Data())
		case 1:
			sub := createSubDecompressor(d.typ, c.payload, &d.state)
			if sub == nil || !sub.IsValid() || (sub.GetRawSize() != 0 && sub.GetRawSize() != int(c.rawChunkSize)) {
				return errs.New(errs.InvalidFormat, "xpk: sub-codec")
			}
			if err := sub.Decompress(out, previous); err != nil {
				return err
			}
		case 15:
		default:
			return errs.New(errs.InvalidFormat, "xpk: chunk type")
		}

		previous = out.View()
		destOffset += int(c.rawChunkSize)
		return nil
	})
	if err != nil {
		return err
	}
	if destOffset != d.rawSize {
		return errs.New(errs.InvalidFormat, "xpk: raw size mismatch")
	}
	return nil
}
