// Package bitio implements the MSB-first bit-stream reader shared by the
// codecs in this module, together with the paired reverse-direction byte
// reader that dual-stream codecs like RAKE multiplex into a single payload.
package bitio

// Reader consumes bits MSB-first from a forward byte cursor, refilling a
// 32-bit shift register four bytes at a time. Once it cannot refill (fewer
// than 4 bytes remain) it enters a sticky failed state: every further read
// returns 0.
type Reader struct {
	data   []byte
	cursor int
	reg    uint32
	nbits  uint8
	failed *bool
}

func newReader(data []byte, start int, failed *bool) *Reader {
	return &Reader{data: data, cursor: start, failed: failed}
}

// NewReader returns a standalone forward bit reader starting at byte offset
// start, with its own private failure flag.
func NewReader(data []byte, start int) *Reader {
	failed := new(bool)
	return newReader(data, start, failed)
}

func (r *Reader) refill() bool {
	if r.cursor+4 > len(r.data) {
		return false
	}
	var reg uint32
	for i := 0; i < 4; i++ {
		reg = (reg << 8) | uint32(r.data[r.cursor])
		r.cursor++
	}
	r.reg = reg
	r.nbits = 32
	return true
}

// Refill forces an immediate 4-byte refill, used by dual-stream codecs to
// prime the register before applying their initial bit-drop count.
func (r *Reader) Refill() bool {
	return r.refill()
}

// Failed reports whether the stream has entered its sticky failure state.
func (r *Reader) Failed() bool {
	return *r.failed
}

// Bit returns the next bit, MSB-first, refilling the register on demand.
// It returns 0 once the stream has failed.
func (r *Reader) Bit() uint8 {
	if *r.failed {
		return 0
	}
	if r.nbits == 0 {
		if !r.refill() {
			*r.failed = true
			return 0
		}
	}
	bit := uint8(r.reg >> 31)
	r.reg <<= 1
	r.nbits--
	return bit
}

// Bits assembles an n-bit value MSB-first via repeated calls to Bit.
func (r *Reader) Bits(n uint) uint32 {
	var v uint32
	for i := uint(0); i < n; i++ {
		v = (v << 1) | uint32(r.Bit())
	}
	return v
}

// Drop discards up to n already-buffered bits without returning them. It is
// the dual-stream startup primitive: after one Refill, the caller drops
// the codec's reported initial bit-drop count so the stream aligns to the
// codec's framing.
func (r *Reader) Drop(n uint8) {
	if n > r.nbits {
		n = r.nbits
	}
	r.reg <<= n
	r.nbits -= n
}

// ReverseByteReader reads single bytes backwards from an independent cursor,
// failing once the cursor would cross below an inclusive floor.
type ReverseByteReader struct {
	data   []byte
	cursor int
	floor  int
	failed *bool
}

func newReverseByteReader(data []byte, start, floor int, failed *bool) *ReverseByteReader {
	return &ReverseByteReader{data: data, cursor: start, floor: floor, failed: failed}
}

// Failed reports whether the stream has entered its sticky failure state.
func (r *ReverseByteReader) Failed() bool {
	return *r.failed
}

// Byte returns the byte immediately before the current cursor and
// decrements the cursor, or fails the stream if that would cross the floor.
func (r *ReverseByteReader) Byte() uint8 {
	if *r.failed || r.cursor <= r.floor {
		*r.failed = true
		return 0
	}
	r.cursor--
	return r.data[r.cursor]
}

// Pair couples a forward Reader and a ReverseByteReader over the same
// backing buffer so they share one sticky failure flag: a failure on
// either side poisons both without tearing the other's state.
type Pair struct {
	Bits   *Reader
	Bytes  *ReverseByteReader
	failed bool
}

// NewPair constructs a dual-stream reader: the forward bit reader starts at
// bitStart and runs to the end of data; the reverse byte reader starts at
// byteStart and runs backwards down to and including the byte at byteFloor.
func NewPair(data []byte, bitStart, byteStart, byteFloor int) *Pair {
	p := &Pair{}
	p.Bits = newReader(data, bitStart, &p.failed)
	p.Bytes = newReverseByteReader(data, byteStart, byteFloor, &p.failed)
	return p
}

// Failed reports whether either side of the pair has failed.
func (p *Pair) Failed() bool {
	return p.failed
}

// Fail marks the pair as failed, e.g. after a caller-side bounds check that
// neither stream itself could detect (a Huffman symbol out of range, a
// distance that would read unwritten output).
func (p *Pair) Fail() {
	p.failed = true
}

// Start applies dual-stream startup discipline: it refills the forward
// reader once and then discards drop bits from it. It fails if drop
// exceeds the 32-bit register width.
func (p *Pair) Start(drop uint16) bool {
	if drop > 32 {
		p.failed = true
		return false
	}
	if !p.Bits.Refill() {
		p.failed = true
		return false
	}
	p.Bits.Drop(uint8(drop))
	return true
}
