// Package huffman implements a canonical Huffman decode table: codes are
// inserted in canonical order (increasing length, then increasing value
// within a length) and decoded one bit at a time from a caller-supplied bit
// source.
package huffman

import (
	"errors"

	"golang.org/x/exp/constraints"
)

// maxBits is the width of the canonical-code generator.
const maxBits = 32

var (
	// ErrCodeOverflow is returned by Insert when length is zero, exceeds
	// maxBits, or the supplied code bits are not actually left-justified
	// (stray low bits set past the declared length).
	ErrCodeOverflow = errors.New("huffman: code overflow")

	// ErrDuplicateCode is returned by Insert when a (length, code) pair has
	// already been inserted, meaning the table is not prefix-free.
	ErrDuplicateCode = errors.New("huffman: duplicate code")

	// ErrUnmatched is returned by Decode when no stored code matches the
	// bits pulled from the bit source before the table's longest code is
	// exceeded: the input is corrupt or the table is incomplete.
	ErrUnmatched = errors.New("huffman: unmatched code")
)

type entry[Symbol constraints.Unsigned] struct {
	symbol Symbol
}

// Table is a canonical Huffman decode table over Symbol, the type the
// decoded values are returned as (RAKE's length table uses uint32
// symbols, so Symbol is generic rather than fixed at uint8).
type Table[Symbol constraints.Unsigned] struct {
	entries map[uint64]entry[Symbol]
	maxLen  uint8
}

// NewTable returns an empty canonical Huffman table.
func NewTable[Symbol constraints.Unsigned]() *Table[Symbol] {
	return &Table[Symbol]{entries: make(map[uint64]entry[Symbol])}
}

func key(length uint8, code uint32) uint64 {
	return uint64(length)<<32 | uint64(code)
}

// Insert adds one canonical code: length is the code's bit length,
// leftJustifiedBits is codeBits<<(maxBits-length) (the code occupying the
// high `length` bits of a 32-bit word), and symbol is the value it
// decodes to.
func (t *Table[Symbol]) Insert(length uint8, leftJustifiedBits uint32, symbol Symbol) error {
	if length == 0 || length > maxBits {
		return ErrCodeOverflow
	}
	shift := maxBits - length
	if leftJustifiedBits&((uint32(1)<<shift)-1) != 0 {
		// Stray bits below the code's own width: not actually left-justified.
		return ErrCodeOverflow
	}
	code := leftJustifiedBits >> shift
	k := key(length, code)
	if _, exists := t.entries[k]; exists {
		return ErrDuplicateCode
	}
	t.entries[k] = entry[Symbol]{symbol: symbol}
	if length > t.maxLen {
		t.maxLen = length
	}
	return nil
}

// MustInsert is Insert but panics on error, for building fixed literal
// tables (like RAKE's 255-entry table) at init time where a failure would
// mean the literal table itself is wrong.
func (t *Table[Symbol]) MustInsert(length uint8, leftJustifiedBits uint32, symbol Symbol) {
	if err := t.Insert(length, leftJustifiedBits, symbol); err != nil {
		panic(err)
	}
}

// Decode reads bits one at a time from bit (MSB-first, matching the
// insertion convention) until the accumulated bits match a stored code,
// returning its symbol. It fails with ErrUnmatched if no code matches
// before the table's longest code length is exhausted.
func (t *Table[Symbol]) Decode(bit func() uint8) (Symbol, error) {
	var code uint32
	for length := uint8(1); length <= t.maxLen; length++ {
		code = (code << 1) | uint32(bit())
		if e, ok := t.entries[key(length, code)]; ok {
			return e.symbol, nil
		}
	}
	var zero Symbol
	return zero, ErrUnmatched
}

// Generator produces successive left-justified code values for a canonical
// table built from (length, symbol) pairs given in canonical order: each
// call to Next returns the left-justified bits for the given length, and
// advances the running code by 1<<(maxBits-length) after each call.
type Generator struct {
	code uint32
}

// Next returns the left-justified code bits for the next symbol of the
// given length, then advances the generator.
func (g *Generator) Next(length uint8) uint32 {
	bits := g.code
	g.code += uint32(1) << (maxBits - length)
	return bits
}
