// Package rake implements the RAKE/FRHT XPK sub-codec: an LZ77-over-
// canonical-Huffman scheme whose payload is a dual-direction stream (a
// forward Huffman-coded bit stream and a reverse literal byte stream)
// decoded back-to-front into the caller's output buffer.
package rake

import (
	"github.com/polluks/ancient-format-decompressor/bitio"
	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
	"github.com/polluks/ancient-format-decompressor/huffman"
)

const (
	fourCCFRHT = 0x46524854 // "FRHT"
	fourCCRAKE = 0x52414b45 // "RAKE"
)

// DetectHeaderXPK reports whether typ is the RAKE or FRHT XPK sub-codec
// type.
func DetectHeaderXPK(typ uint32) bool {
	return typ == fourCCFRHT || typ == fourCCRAKE
}

// Decompressor is the RAKE/FRHT sub-codec. Construct with New.
type Decompressor struct {
	packed          *buffer.View
	isRAKE          bool
	midStreamOffset int
	valid           bool
}

// New constructs a RAKE/FRHT sub-codec from an XPK chunk payload. state is
// accepted to satisfy the sub-codec construction contract but unused:
// RAKE carries no history across chunks.
func New(typ uint32, packed *buffer.View, state *contract.State) *Decompressor {
	d := &Decompressor{packed: packed, isRAKE: typ == fourCCRAKE}
	if !DetectHeaderXPK(typ) {
		return d
	}
	if packed.Size() < 4 {
		return d
	}
	off, ok := packed.Uint16(2, buffer.BigEndian)
	if !ok {
		return d
	}
	if int(off) >= packed.Size() {
		return d
	}
	d.midStreamOffset = int(off)
	d.valid = true
	return d
}

// IsValid reports whether construction succeeded.
func (d *Decompressor) IsValid() bool {
	return d.valid
}

// GetRawSize is unknown up front for RAKE: the chunk header carries it, not
// the payload itself.
func (d *Decompressor) GetRawSize() int {
	return 0
}

// VerifyPacked has nothing to check structurally ahead of decoding: the
// format carries no packed-side checksum of its own.
func (d *Decompressor) VerifyPacked() error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "rake: verify packed")
	}
	return nil
}

// VerifyRaw has no codec-specific check beyond the XPK container's own
// preview comparison.
func (d *Decompressor) VerifyRaw(raw *buffer.View) error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "rake: verify raw")
	}
	return nil
}

// GetSubName identifies this instance as FRHT or RAKE for display.
func (d *Decompressor) GetSubName() string {
	if d.isRAKE {
		return "XPK-RAKE: RAKE LZ77-compressor"
	}
	return "XPK-FRHT: FRHT LZ77-compressor"
}

// Decompress runs the RAKE/FRHT algorithm: destOffset starts at
// dst.Size() and decrements, so the output is produced back to front.
func (d *Decompressor) Decompress(dst *buffer.Mutable, previousData *buffer.View) error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "rake: decompress")
	}

	data := d.packed.Data()
	rawSize := dst.Size()
	out := dst.Data()

	bitStart := d.midStreamOffset
	if bitStart&1 != 0 {
		bitStart++
	}

	pair := bitio.NewPair(data, bitStart, d.midStreamOffset, 4)

	drop, ok := d.packed.Uint16(0, buffer.BigEndian)
	if !ok || drop > 32 {
		return errs.New(errs.InvalidFormat, "rake: initial bit-drop count")
	}
	if !pair.Start(drop) {
		return errs.New(errs.OutOfBounds, "rake: priming forward bit stream")
	}

	table := buildLengthTable()

	destOffset := rawSize
	for !pair.Failed() && destOffset > 0 {
		if pair.Bits.Bit() == 0 {
			destOffset--
			out[destOffset] = pair.Bytes.Byte()
			continue
		}

		// An unmatched Huffman code means corrupt input; stop here.
		symbol, err := table.Decode(pair.Bits.Bit)
		if err != nil {
			pair.Fail()
			break
		}
		count := int(symbol) + 2

		var distance int
		if pair.Bits.Bit() == 0 {
			distance = int(pair.Bytes.Byte()) + 1
		} else if pair.Bits.Bit() == 0 {
			distance = (int(pair.Bits.Bits(3))<<8 | int(pair.Bytes.Byte())) + 0x101
		} else {
			distance = (int(pair.Bits.Bits(6))<<8 | int(pair.Bytes.Byte())) + 0x901
		}

		if pair.Failed() || destOffset < count || destOffset+distance > rawSize {
			pair.Fail()
			break
		}

		src := destOffset + distance
		for i := 0; i < count; i++ {
			destOffset--
			src--
			out[destOffset] = out[src]
		}
	}

	if pair.Failed() || destOffset != 0 {
		return errs.New(errs.InvalidFormat, "rake: decompress")
	}
	return nil
}

// buildLengthTable constructs the fixed 255-entry canonical Huffman table
// used for length decoding, from its literal (length, symbol) pairs.
func buildLengthTable() *huffman.Table[uint32] {
	table := huffman.NewTable[uint32]()
	var gen huffman.Generator
	for _, e := range lengthTableEntries {
		table.MustInsert(e.length, gen.Next(e.length), uint32(e.symbol))
	}
	return table
}

type tableEntry struct {
	length uint8
	symbol uint8
}

// lengthTableEntries is RAKE's fixed canonical table, inserted in
// declaration order.
var lengthTableEntries = [255]tableEntry{
	{1, 0x01}, {3, 0x03}, {5, 0x05}, {6, 0x09}, {7, 0x0c}, {9, 0x13}, {12, 0x34}, {18, 0xc0},
	{18, 0xc2}, {18, 0xc3}, {18, 0xc6}, {16, 0x79}, {18, 0xc7}, {18, 0xd6}, {18, 0xd7}, {18, 0xd8},
	{17, 0xa8}, {17, 0x92}, {17, 0x8a}, {17, 0x82}, {16, 0x6c}, {17, 0x94}, {18, 0xda}, {18, 0xca},
	{16, 0x7b}, {13, 0x36}, {13, 0x39}, {13, 0x48}, {14, 0x49}, {14, 0x50}, {15, 0x62}, {15, 0x5e},
	{16, 0x6f}, {17, 0x83}, {17, 0x87}, {15, 0x56}, {11, 0x21}, {12, 0x31}, {13, 0x38}, {13, 0x3d},
	{8, 0x0f}, {4, 0x04}, {6, 0x08}, {10, 0x1c}, {12, 0x27}, {13, 0x42}, {13, 0x3a}, {12, 0x30},
	{12, 0x32}, {9, 0x16}, {8, 0x11}, {7, 0x0b}, {5, 0x06}, {10, 0x19}, {10, 0x1a}, {10, 0x18},
	{11, 0x26}, {17, 0x98}, {17, 0x99}, {17, 0x9b}, {17, 0x9e}, {17, 0x9f}, {17, 0xa6}, {16, 0x73},
	{17, 0x7f}, {17, 0x81}, {17, 0x84}, {17, 0x85}, {15, 0x5d}, {14, 0x4d}, {14, 0x4f}, {13, 0x45},
	{13, 0x3c}, {9, 0x17}, {10, 0x1d}, {12, 0xff}, {13, 0x41}, {17, 0x8c}, {18, 0xaa}, {19, 0xdb},
	{19, 0xdc}, {16, 0x77}, {15, 0x63}, {16, 0x7c}, {16, 0x76}, {16, 0x71}, {16, 0x7d}, {12, 0x2c},
	{13, 0x3b}, {16, 0x7a}, {16, 0x75}, {15, 0x55}, {15, 0x60}, {16, 0x74}, {17, 0xa4}, {18, 0xab},
	{18, 0xac}, {7, 0x0a}, {6, 0x07}, {9, 0x15}, {11, 0x20}, {11, 0x24}, {10, 0x1b}, {8, 0x10},
	{9, 0x12}, {12, 0x33}, {14, 0x4b}, {15, 0x53}, {19, 0xdd}, {19, 0xde}, {18, 0xad}, {19, 0xdf},
	{19, 0xe0}, {18, 0xae}, {17, 0x88}, {18, 0xaf}, {19, 0xe1}, {19, 0xe2}, {13, 0x37}, {12, 0x2e},
	{18, 0xb0}, {18, 0xb1}, {19, 0xe3}, {19, 0xe4}, {18, 0xb2}, {18, 0xb3}, {19, 0xe5}, {19, 0xe6},
	{19, 0xe7}, {19, 0xe8}, {18, 0xb4}, {17, 0x9a}, {18, 0xb5}, {18, 0xb6}, {18, 0xb7}, {19, 0xe9},
	{19, 0xea}, {18, 0xb8}, {19, 0xeb}, {19, 0xec}, {19, 0xed}, {19, 0xee}, {18, 0xb9}, {19, 0xef},
	{19, 0xf0}, {18, 0xbb}, {18, 0xbc}, {19, 0xf1}, {19, 0xf2}, {18, 0xbd}, {18, 0xbe}, {19, 0xf3},
	{19, 0xf4}, {18, 0xbf}, {18, 0xc1}, {19, 0xf5}, {19, 0xf6}, {18, 0xc4}, {18, 0xc5}, {17, 0x95},
	{18, 0xc8}, {18, 0xc9}, {19, 0xf7}, {19, 0xf8}, {18, 0xcb}, {18, 0xcc}, {19, 0xf9}, {19, 0xfa},
	{18, 0xcd}, {18, 0xce}, {17, 0x96}, {18, 0xcf}, {18, 0xd0}, {19, 0xfb}, {19, 0xfc}, {18, 0xd1},
	{18, 0xd2}, {18, 0xd3}, {17, 0x9c}, {17, 0x9d}, {18, 0xd4}, {18, 0xd5}, {17, 0xa0}, {17, 0xa1},
	{17, 0xa2}, {17, 0xa3}, {17, 0xa5}, {19, 0xfd}, {19, 0xfe}, {18, 0xd9}, {17, 0xa7}, {16, 0x66},
	{15, 0x54}, {15, 0x57}, {16, 0x6b}, {16, 0x68}, {14, 0x4c}, {14, 0x4e}, {12, 0x28}, {11, 0x23},
	{8, 0x0e}, {7, 0x0d}, {10, 0x1f}, {13, 0x47}, {15, 0x64}, {15, 0x58}, {15, 0x59}, {15, 0x5a},
	{12, 0x29}, {13, 0x3e}, {15, 0x5f}, {17, 0x8e}, {18, 0xba}, {18, 0xa9}, {16, 0x70}, {14, 0x4a},
	{12, 0x2a}, {9, 0x14}, {11, 0x22}, {12, 0x2f}, {16, 0x7e}, {16, 0x67}, {16, 0x69}, {16, 0x65},
	{15, 0x51}, {16, 0x78}, {16, 0x6a}, {13, 0x46}, {11, 0x25}, {16, 0x72}, {16, 0x6e}, {15, 0x5b},
	{15, 0x61}, {15, 0x52}, {13, 0x40}, {13, 0x43}, {13, 0x44}, {13, 0x3f}, {15, 0x5c}, {17, 0x93},
	{17, 0x80}, {17, 0x8d}, {17, 0x8b}, {17, 0x86}, {17, 0x89}, {17, 0x97}, {17, 0x8f}, {17, 0x90},
	{17, 0x91}, {16, 0x6d}, {12, 0x2b}, {12, 0x2d}, {12, 0x35}, {10, 0x1e}, {3, 0x02},
}
