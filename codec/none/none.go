// Package none implements the NONE XPK sub-codec: a verbatim copy,
// distinct from the XPK container's own chunk-type-0 literal bypass in
// that it is selected by the frame's sub-codec type fourcc and reached
// through the type-1 "compressed" chunk path like any other sub-codec.
package none

import (
	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
)

const fourCCNONE = 0x4e4f4e45 // "NONE"

// DetectHeaderXPK reports whether typ is the NONE XPK sub-codec type.
func DetectHeaderXPK(typ uint32) bool {
	return typ == fourCCNONE
}

// Decompressor is the NONE sub-codec.
type Decompressor struct {
	payload *buffer.View
	valid   bool
}

// New constructs a NONE sub-codec. state is unused: NONE carries no
// history across chunks.
func New(typ uint32, payload *buffer.View, state *contract.State) *Decompressor {
	return &Decompressor{payload: payload, valid: DetectHeaderXPK(typ)}
}

func (d *Decompressor) IsValid() bool   { return d.valid }
func (d *Decompressor) GetRawSize() int { return d.payload.Size() }

func (d *Decompressor) VerifyPacked() error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "none: verify packed")
	}
	return nil
}

func (d *Decompressor) VerifyRaw(raw *buffer.View) error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, "none: verify raw")
	}
	return nil
}

func (d *Decompressor) GetSubName() string {
	return "XPK-NONE: no compression"
}

func (d *Decompressor) Decompress(dst *buffer.Mutable, previousData *buffer.View) error {
	if !d.valid || dst.Size() != d.payload.Size() {
		return errs.New(errs.InvalidFormat, "none: decompress")
	}
	copy(dst.Data(), d.payload.Data())
	return nil
}
