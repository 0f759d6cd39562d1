package bitio

import "testing"

func TestReaderReadsMSBFirst(t *testing.T) {
	// 0x80000001 = 1000...0001
	r := NewReader([]byte{0x80, 0x00, 0x00, 0x01}, 0)

	if got := r.Bit(); got != 1 {
		t.Fatalf("first bit = %d, want 1", got)
	}
	for i := 0; i < 30; i++ {
		if got := r.Bit(); got != 0 {
			t.Fatalf("bit %d = %d, want 0", i+1, got)
		}
	}
	if got := r.Bit(); got != 1 {
		t.Fatalf("last bit = %d, want 1", got)
	}
}

func TestReaderFailsOnTruncatedRefill(t *testing.T) {
	// One full 4-byte refill, then only 2 bytes left for the next one.
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, 0)
	r.Bits(32)
	if r.Failed() {
		t.Fatal("reader failed before exhausting buffered bits")
	}
	r.Bit()
	if !r.Failed() {
		t.Fatal("expected reader to fail on refill past end of buffer")
	}
	if got := r.Bit(); got != 0 {
		t.Fatalf("failed reader returned %d, want 0", got)
	}
}

func TestReaderDrop(t *testing.T) {
	r := NewReader([]byte{0xff, 0xff, 0xff, 0xff}, 0)
	r.Refill()
	r.Drop(31)
	if got := r.Bit(); got != 1 {
		t.Fatalf("Bit() after dropping 31 of 32 ones = %d, want 1", got)
	}
	// Register is now empty and there is no more data to refill from.
	if r.Bit(); !r.Failed() {
		t.Fatal("expected reader to fail once exhausted with no data left")
	}
}

func TestReverseByteReader(t *testing.T) {
	data := []byte{0xAA, 0x01, 0x02, 0x03, 0x04, 0x05}
	failed := new(bool)
	r := newReverseByteReader(data, 6, 4, failed)

	if got := r.Byte(); got != 0x05 {
		t.Fatalf("Byte() = %#x, want 0x05", got)
	}
	if got := r.Byte(); got != 0x04 {
		t.Fatalf("Byte() = %#x, want 0x04", got)
	}
	if r.Failed() {
		t.Fatal("reached floor prematurely")
	}
	r.Byte() // cursor==4, at floor: must fail
	if !r.Failed() {
		t.Fatal("expected failure crossing floor")
	}
}

func TestPairSharesFailureFlag(t *testing.T) {
	data := make([]byte, 8)
	p := NewPair(data, 0, 4, 4)

	p.Bytes.Byte()
	if !p.Failed() {
		t.Fatal("expected ReverseByteReader at its floor to fail the pair")
	}
	if !p.Bits.Failed() {
		t.Fatal("expected shared failure flag to poison the bit reader too")
	}
}

func TestPairStartRejectsOversizedDrop(t *testing.T) {
	p := NewPair(make([]byte, 8), 0, 4, 0)
	if p.Start(33) {
		t.Fatal("expected Start(33) to fail: drop count exceeds register width")
	}
}

func TestPairStartDropsBufferedBits(t *testing.T) {
	data := []byte{0xff, 0xff, 0xff, 0xff}
	p := NewPair(data, 0, 4, 0)
	if !p.Start(16) {
		t.Fatal("Start(16) failed unexpectedly")
	}
	// 16 of 32 buffered bits were dropped; 16 remain, all ones.
	if got := p.Bits.Bits(16); got != 0xffff {
		t.Fatalf("Bits(16) = %#x, want 0xffff", got)
	}
}
