// Package delta implements the DLTA XPK sub-codec: a running-sum byte
// filter. Each output byte is the wrapping sum of the packed byte and the
// previously emitted output byte, continued across chunk boundaries via
// previousData.
package delta

import (
	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
)

const fourCCDLTA = 0x444c5441 // "DLTA"

// DetectHeaderXPK reports whether typ is the DLTA XPK sub-codec type.
func DetectHeaderXPK(typ uint32) bool {
	return typ == fourCCDLTA
}

// Decompressor is the DLTA sub-codec.
type Decompressor struct {
	payload *buffer.View
	valid   bool
}

// New constructs a DLTA sub-codec. state is unused: DLTA's only carried
// value is the last output byte, which it reads from previousData instead.
func New(typ uint32, payload *buffer.View, state *contract.State) *Decompressor {
	d := &Decompressor{payload: payload, valid: DetectHeaderXPK(typ)}
	return d
}

func (d *Decompressor) IsValid() bool   { return d.valid }
func (d *Decompressor) GetRawSize() int { return d.payload.Size() }

func (d *Decompressor) VerifyPacked() error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "delta: verify packed")
	}
	return nil
}

func (d *Decompressor) VerifyRaw(raw *buffer.View) error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "delta: verify raw")
	}
	return nil
}

func (d *Decompressor) GetSubName() string {
	return "XPK-DLTA: delta filter"
}

func (d *Decompressor) Decompress(dst *buffer.Mutable, previousData *buffer.View) error {
	if !d.valid || dst.Size() != d.payload.Size() {
		return errs.New(errs.InvalidFormat, "delta: decompress")
	}
	in := d.payload.Data()
	out := dst.Data()
	var acc uint8
	if previousData != nil && previousData.Size() > 0 {
		acc = previousData.Data()[previousData.Size()-1]
	}
	for i, b := range in {
		acc += b
		out[i] = acc
	}
	return nil
}
