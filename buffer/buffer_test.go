package buffer

import "testing"

func TestViewReads(t *testing.T) {
	v := NewView([]byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07})

	if b, ok := v.Uint8(1); !ok || b != 0x01 {
		t.Fatalf("Uint8(1) = %d, %v", b, ok)
	}

	if u, ok := v.Uint16(0, BigEndian); !ok || u != 0x0001 {
		t.Fatalf("Uint16 BE = %#x, %v", u, ok)
	}

	if u, ok := v.Uint16(0, LittleEndian); !ok || u != 0x0100 {
		t.Fatalf("Uint16 LE = %#x, %v", u, ok)
	}

	if u, ok := v.Uint32(0, BigEndian); !ok || u != 0x00010203 {
		t.Fatalf("Uint32 BE = %#x, %v", u, ok)
	}

	if u, ok := v.Uint64(0, BigEndian); !ok || u != 0x0001020304050607 {
		t.Fatalf("Uint64 BE = %#x, %v", u, ok)
	}
}

func TestViewReadOutOfBounds(t *testing.T) {
	v := NewView([]byte{0x01, 0x02})

	if _, ok := v.Uint32(0, BigEndian); ok {
		t.Fatal("expected Uint32 to fail past end of buffer")
	}

	if _, ok := v.Uint8(2); ok {
		t.Fatal("expected Uint8(2) to fail on a 2-byte buffer")
	}

	if _, ok := v.Uint8(-1); ok {
		t.Fatal("expected Uint8(-1) to fail")
	}
}

func TestViewSlice(t *testing.T) {
	v := NewView([]byte{0x01, 0x02, 0x03, 0x04})

	sub, err := v.Slice(1, 2)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if sub.Size() != 2 {
		t.Fatalf("sub.Size() = %d, want 2", sub.Size())
	}
	if b, _ := sub.Uint8(0); b != 0x02 {
		t.Fatalf("sub[0] = %#x, want 0x02", b)
	}

	if _, err := v.Slice(3, 2); err != ErrOutOfBounds {
		t.Fatalf("Slice(3, 2) err = %v, want ErrOutOfBounds", err)
	}
	if _, err := v.Slice(-1, 1); err != ErrOutOfBounds {
		t.Fatalf("Slice(-1, 1) err = %v, want ErrOutOfBounds", err)
	}
}

func TestMutableSliceSharesBackingArray(t *testing.T) {
	m, err := NewMutable(4)
	if err != nil {
		t.Fatalf("NewMutable: %v", err)
	}

	sub, err := m.Slice(1, 2)
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	sub.Data()[0] = 0xAA

	if m.Data()[1] != 0xAA {
		t.Fatalf("write through sub-buffer not visible in parent: %v", m.Data())
	}
}

func TestMutableResize(t *testing.T) {
	m, err := NewMutable(2)
	if err != nil {
		t.Fatalf("NewMutable: %v", err)
	}
	m.Data()[0] = 0x11
	m.Data()[1] = 0x22

	if err := m.Resize(4); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if m.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", m.Size())
	}
	if m.Data()[0] != 0x11 || m.Data()[1] != 0x22 {
		t.Fatalf("resize did not preserve content: %v", m.Data())
	}

	if err := m.Resize(-1); err != ErrOutOfMemory {
		t.Fatalf("Resize(-1) err = %v, want ErrOutOfMemory", err)
	}
	if err := m.Resize(maxSize + 1); err != ErrOutOfMemory {
		t.Fatalf("Resize(maxSize+1) err = %v, want ErrOutOfMemory", err)
	}
}

func TestNewMutableRejectsUnreasonableSize(t *testing.T) {
	if _, err := NewMutable(-1); err != ErrOutOfMemory {
		t.Fatalf("NewMutable(-1) err = %v, want ErrOutOfMemory", err)
	}
}
