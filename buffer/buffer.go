// Package buffer implements the bounds-checked byte-region abstraction
// that every decompressor in this module reads from and writes into.
//
// A View is a read-only region; a Mutable is a writable one. Both support
// zero-copy sub-regions (Slice): a slice shares the parent's backing array,
// so it becomes invalid the instant the parent's backing array is mutated
// out from under it, but never outlives the parent in the memory-safety
// sense a raw pointer would in the C++ original this is ported from.
package buffer

import (
	"encoding/binary"
	"errors"
)

// ErrOutOfBounds is returned by any read or slice that would step outside
// the buffer's range.
var ErrOutOfBounds = errors.New("buffer: out of bounds")

// ErrOutOfMemory is returned by Mutable.Resize when the requested size is
// unreasonable (negative, or past maxSize).
var ErrOutOfMemory = errors.New("buffer: out of memory")

// maxSize bounds Resize so a corrupt, huge reported raw size fails cleanly
// as ErrOutOfMemory instead of attempting a multi-gigabyte allocation.
const maxSize = 1 << 32

// Endian selects the byte order for multi-byte reads.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

// View is a read-only byte region. The zero value is an empty view.
type View struct {
	data []byte
}

// NewView wraps b as a read-only View. b is not copied.
func NewView(b []byte) *View {
	return &View{data: b}
}

// Size returns the number of bytes in the view.
func (v *View) Size() int {
	if v == nil {
		return 0
	}
	return len(v.data)
}

// Data returns the view's bytes. Callers must not mutate the returned slice.
func (v *View) Data() []byte {
	if v == nil {
		return nil
	}
	return v.data
}

// Slice returns a zero-copy sub-view [offset, offset+length) of v. It fails
// if the requested range escapes v's range.
func (v *View) Slice(offset, length int) (*View, error) {
	if offset < 0 || length < 0 || offset+length > v.Size() {
		return nil, ErrOutOfBounds
	}
	return &View{data: v.data[offset : offset+length]}, nil
}

// Uint8 reads a single byte at offset.
func (v *View) Uint8(offset int) (uint8, bool) {
	if offset < 0 || offset+1 > v.Size() {
		return 0, false
	}
	return v.data[offset], true
}

// Uint16 reads a 16-bit integer at offset in the given byte order.
func (v *View) Uint16(offset int, e Endian) (uint16, bool) {
	if offset < 0 || offset+2 > v.Size() {
		return 0, false
	}
	if e == BigEndian {
		return binary.BigEndian.Uint16(v.data[offset:]), true
	}
	return binary.LittleEndian.Uint16(v.data[offset:]), true
}

// Uint32 reads a 32-bit integer at offset in the given byte order.
func (v *View) Uint32(offset int, e Endian) (uint32, bool) {
	if offset < 0 || offset+4 > v.Size() {
		return 0, false
	}
	if e == BigEndian {
		return binary.BigEndian.Uint32(v.data[offset:]), true
	}
	return binary.LittleEndian.Uint32(v.data[offset:]), true
}

// Uint64 reads a 64-bit integer at offset in the given byte order.
func (v *View) Uint64(offset int, e Endian) (uint64, bool) {
	if offset < 0 || offset+8 > v.Size() {
		return 0, false
	}
	if e == BigEndian {
		return binary.BigEndian.Uint64(v.data[offset:]), true
	}
	return binary.LittleEndian.Uint64(v.data[offset:]), true
}

// Mutable is a writable byte region, resizable up to maxSize.
type Mutable struct {
	data []byte
}

// NewMutable allocates a Mutable of the given size, zero-filled.
func NewMutable(size int) (*Mutable, error) {
	if size < 0 || size > maxSize {
		return nil, ErrOutOfMemory
	}
	return &Mutable{data: make([]byte, size)}, nil
}

// Size returns the number of bytes in the buffer.
func (m *Mutable) Size() int {
	if m == nil {
		return 0
	}
	return len(m.data)
}

// Data returns the buffer's bytes for direct read/write access.
func (m *Mutable) Data() []byte {
	if m == nil {
		return nil
	}
	return m.data
}

// View returns a read-only View over the same backing array.
func (m *Mutable) View() *View {
	return &View{data: m.data}
}

// Slice returns a zero-copy sub-region [offset, offset+length) of m,
// sharing the backing array so writes to it are visible through m.
func (m *Mutable) Slice(offset, length int) (*Mutable, error) {
	if offset < 0 || length < 0 || offset+length > m.Size() {
		return nil, ErrOutOfBounds
	}
	return &Mutable{data: m.data[offset : offset+length]}, nil
}

// Resize grows or shrinks the buffer in place, preserving existing content
// up to min(oldSize, newSize). It fails with ErrOutOfMemory for unreasonable
// sizes rather than attempting the allocation.
func (m *Mutable) Resize(newSize int) error {
	if newSize < 0 || newSize > maxSize {
		return ErrOutOfMemory
	}
	grown := make([]byte, newSize)
	copy(grown, m.data)
	m.data = grown
	return nil
}
