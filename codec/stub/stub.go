// Package stub implements the codecs this module can detect and register
// for dispatch but does not decode: each stub parses only enough of its
// header to identify itself, then fails Decompress/VerifyRaw with
// errs.UnsupportedFeature — a real decoder can be dropped in later without
// touching the dispatcher.
package stub

import (
	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
)

// TopLevel is a headers-only top-level codec: CRM, DEFL, IMP, RNC, TPWM.
type TopLevel struct {
	packed *buffer.View
	name   string
	valid  bool
}

func newTopLevel(magic uint32, name string, packed *buffer.View) *TopLevel {
	d := &TopLevel{packed: packed, name: name}
	if packed.Size() < 4 {
		return d
	}
	hdr, ok := packed.Uint32(0, buffer.BigEndian)
	if !ok || hdr != magic {
		return d
	}
	d.valid = true
	return d
}

func (d *TopLevel) IsValid() bool      { return d.valid }
func (d *TopLevel) GetPackedSize() int { return 0 }
func (d *TopLevel) GetRawSize() int    { return 0 }

func (d *TopLevel) VerifyPacked() error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, d.name+": verify packed")
	}
	return errs.New(errs.UnsupportedFeature, d.name+": verify packed")
}

func (d *TopLevel) VerifyRaw(raw *buffer.View) error {
	return errs.New(errs.UnsupportedFeature, d.name+": verify raw")
}

func (d *TopLevel) GetName() string {
	if !d.valid {
		return "<invalid>"
	}
	return d.name
}

func (d *TopLevel) GetSubName() string { return "<invalid>" }

func (d *TopLevel) Decompress(dst *buffer.Mutable) error {
	return errs.New(errs.UnsupportedFeature, d.name+": decompress")
}

const (
	fourCCCRM  = 0x43524d21 // "CRM!"
	fourCCDEFL = 0x4445464c // "DEFL"
	fourCCIMP  = 0x494d5021 // "IMP!"
	fourCCRNC1 = 0x524e4301 // "RNC\x01"
	fourCCRNC2 = 0x524e4302 // "RNC\x02"
	fourCCTPWM = 0x5450574d // "TPWM"
)

func DetectHeaderCRM(hdr uint32) bool  { return hdr == fourCCCRM }
func DetectHeaderDEFL(hdr uint32) bool { return hdr == fourCCDEFL }
func DetectHeaderIMP(hdr uint32) bool  { return hdr == fourCCIMP }
func DetectHeaderRNC(hdr uint32) bool  { return hdr == fourCCRNC1 || hdr == fourCCRNC2 }
func DetectHeaderTPWM(hdr uint32) bool { return hdr == fourCCTPWM }

func NewCRM(packed *buffer.View) *TopLevel  { return newTopLevel(fourCCCRM, "CRM: LZ77 cruncher", packed) }
func NewDEFL(packed *buffer.View) *TopLevel { return newTopLevel(fourCCDEFL, "DEFL: DEFLATE compressor", packed) }
func NewIMP(packed *buffer.View) *TopLevel  { return newTopLevel(fourCCIMP, "IMP: Imploder", packed) }
func NewTPWM(packed *buffer.View) *TopLevel { return newTopLevel(fourCCTPWM, "TPWM: Turbo Packer", packed) }

// NewRNC constructs the RNC stub, matching either of its two header
// variants (RNC\x01 and RNC\x02).
func NewRNC(packed *buffer.View) *TopLevel {
	name := "RNC: Rob Northen compression"
	d := &TopLevel{packed: packed, name: name}
	if packed.Size() < 4 {
		return d
	}
	hdr, ok := packed.Uint32(0, buffer.BigEndian)
	if !ok || !DetectHeaderRNC(hdr) {
		return d
	}
	d.valid = true
	return d
}

// Sub is a headers-only XPK sub-codec: CBR0, CRM, DFLT/GZIP, FAST, FRLE,
// HUFF, IMPL, MASH, NUKE, RLEN, SQSH.
type Sub struct {
	payload *buffer.View
	subName string
	valid   bool
}

func newSub(typ, want uint32, subName string, payload *buffer.View) *Sub {
	return &Sub{payload: payload, subName: subName, valid: typ == want}
}

func (d *Sub) IsValid() bool   { return d.valid }
func (d *Sub) GetRawSize() int { return 0 }

func (d *Sub) VerifyPacked() error {
	if !d.valid {
		return errs.New(errs.InvalidFormat, d.subName+": verify packed")
	}
	return errs.New(errs.UnsupportedFeature, d.subName+": verify packed")
}

func (d *Sub) VerifyRaw(raw *buffer.View) error {
	return errs.New(errs.UnsupportedFeature, d.subName+": verify raw")
}

func (d *Sub) GetSubName() string {
	if !d.valid {
		return "<invalid>"
	}
	return d.subName
}

func (d *Sub) Decompress(dst *buffer.Mutable, previousData *buffer.View) error {
	return errs.New(errs.UnsupportedFeature, d.subName+": decompress")
}

const (
	fourCCCBR0   = 0x43425230 // "CBR0"
	fourCCCRMSub = 0x43524d20 // "CRM "
	fourCCDFLT   = 0x44464c54 // "DFLT"
	fourCCFAST   = 0x46415354 // "FAST"
	fourCCFRLE   = 0x46524c45 // "FRLE"
	fourCCGZIP   = 0x475a4950 // "GZIP"
	fourCCHUFF   = 0x48554646 // "HUFF"
	fourCCIMPL   = 0x494d504c // "IMPL"
	fourCCMASH   = 0x4d415348 // "MASH"
	fourCCNUKE   = 0x4e554b45 // "NUKE"
	fourCCRLEN   = 0x524c454e // "RLEN"
	fourCCSQSH   = 0x53515348 // "SQSH"
)

func DetectHeaderXPKCBR0(typ uint32) bool { return typ == fourCCCBR0 }
func DetectHeaderXPKCRM(typ uint32) bool  { return typ == fourCCCRMSub }
func DetectHeaderXPKDFLT(typ uint32) bool { return typ == fourCCDFLT || typ == fourCCGZIP }
func DetectHeaderXPKFAST(typ uint32) bool { return typ == fourCCFAST }
func DetectHeaderXPKFRLE(typ uint32) bool { return typ == fourCCFRLE }
func DetectHeaderXPKHUFF(typ uint32) bool { return typ == fourCCHUFF }
func DetectHeaderXPKIMPL(typ uint32) bool { return typ == fourCCIMPL }
func DetectHeaderXPKMASH(typ uint32) bool { return typ == fourCCMASH }
func DetectHeaderXPKNUKE(typ uint32) bool { return typ == fourCCNUKE }
func DetectHeaderXPKRLEN(typ uint32) bool { return typ == fourCCRLEN }
func DetectHeaderXPKSQSH(typ uint32) bool { return typ == fourCCSQSH }

func NewXPKCBR0(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCCBR0, "XPK-CBR0: byte-run RLE", payload)
}
func NewXPKCRM(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCCRMSub, "XPK-CRM: LZ77 cruncher", payload)
}

// NewXPKDFLT constructs the DFLT/GZIP stub across both its type codes; the
// sub-name differs between the raw-DEFLATE and gzip-wrapped variants.
func NewXPKDFLT(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	name := "XPK-DFLT: raw DEFLATE"
	if typ == fourCCGZIP {
		name = "XPK-GZIP: gzip-wrapped DEFLATE"
	}
	return &Sub{payload: payload, subName: name, valid: DetectHeaderXPKDFLT(typ)}
}
func NewXPKFAST(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCFAST, "XPK-FAST: fast LZ", payload)
}
func NewXPKFRLE(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCFRLE, "XPK-FRLE: fast RLE", payload)
}
func NewXPKHUFF(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCHUFF, "XPK-HUFF: Huffman", payload)
}
func NewXPKIMPL(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCIMPL, "XPK-IMPL: Imploder", payload)
}
func NewXPKMASH(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCMASH, "XPK-MASH: LZ+Huffman", payload)
}
func NewXPKNUKE(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCNUKE, "XPK-NUKE: Nuke cruncher", payload)
}
func NewXPKRLEN(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCRLEN, "XPK-RLEN: run-length", payload)
}
func NewXPKSQSH(typ uint32, payload *buffer.View, state *contract.State) *Sub {
	return newSub(typ, fourCCSQSH, "XPK-SQSH: Squash", payload)
}
