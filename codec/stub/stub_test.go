package stub

import (
	"testing"

	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
)

func TestTopLevelDetectAndStub(t *testing.T) {
	packed := buffer.NewView([]byte{'C', 'R', 'M', '!', 0, 0, 0, 0})
	d := NewCRM(packed)
	if !d.IsValid() {
		t.Fatal("expected CRM! magic to parse as valid")
	}
	if err := d.VerifyPacked(); !errs.Is(err, errs.UnsupportedFeature) {
		t.Fatalf("VerifyPacked() = %v, want UnsupportedFeature", err)
	}
	dst, err := buffer.NewMutable(4)
	if err != nil {
		t.Fatalf("NewMutable: %v", err)
	}
	if err := d.Decompress(dst); !errs.Is(err, errs.UnsupportedFeature) {
		t.Fatalf("Decompress() = %v, want UnsupportedFeature", err)
	}
}

func TestTopLevelRejectsWrongMagic(t *testing.T) {
	d := NewCRM(buffer.NewView([]byte{'Z', 'Z', 'Z', 'Z'}))
	if d.IsValid() {
		t.Fatal("expected wrong magic to be invalid")
	}
	if got := d.GetName(); got != "<invalid>" {
		t.Fatalf("GetName() = %q, want <invalid>", got)
	}
}

func TestRNCDetectsBothVariants(t *testing.T) {
	if !DetectHeaderRNC(fourCCRNC1) {
		t.Fatal("RNC\\x01 should be detected")
	}
	if !DetectHeaderRNC(fourCCRNC2) {
		t.Fatal("RNC\\x02 should be detected")
	}

	d := NewRNC(buffer.NewView([]byte{'R', 'N', 'C', 0x02}))
	if !d.IsValid() {
		t.Fatal("expected RNC\\x02 to parse as valid")
	}
}

func TestSubCodecDetectAndStub(t *testing.T) {
	payload := buffer.NewView([]byte("payload"))
	d := NewXPKFAST(fourCCFAST, payload, new(contract.State))
	if !d.IsValid() {
		t.Fatal("expected FAST type to parse as valid")
	}
	if err := d.VerifyPacked(); !errs.Is(err, errs.UnsupportedFeature) {
		t.Fatalf("VerifyPacked() = %v, want UnsupportedFeature", err)
	}

	wrong := NewXPKFAST(0x4e4f4e45, payload, new(contract.State)) // "NONE"
	if wrong.IsValid() {
		t.Fatal("expected wrong type code to be invalid")
	}
	if got := wrong.GetSubName(); got != "<invalid>" {
		t.Fatalf("GetSubName() = %q, want <invalid>", got)
	}
}

func TestDEFLDetectAndStub(t *testing.T) {
	d := NewDEFL(buffer.NewView([]byte{'D', 'E', 'F', 'L', 0, 0, 0, 0}))
	if !d.IsValid() {
		t.Fatal("expected DEFL magic to parse as valid")
	}
	if err := d.VerifyPacked(); !errs.Is(err, errs.UnsupportedFeature) {
		t.Fatalf("VerifyPacked() = %v, want UnsupportedFeature", err)
	}
}

func TestXPKDFLTAndGZIPDetectAndStub(t *testing.T) {
	payload := buffer.NewView([]byte("payload"))

	dflt := NewXPKDFLT(fourCCDFLT, payload, new(contract.State))
	if !dflt.IsValid() || dflt.GetSubName() != "XPK-DFLT: raw DEFLATE" {
		t.Fatalf("DFLT: valid=%v subName=%q", dflt.IsValid(), dflt.GetSubName())
	}

	gzip := NewXPKDFLT(fourCCGZIP, payload, new(contract.State))
	if !gzip.IsValid() || gzip.GetSubName() != "XPK-GZIP: gzip-wrapped DEFLATE" {
		t.Fatalf("GZIP: valid=%v subName=%q", gzip.IsValid(), gzip.GetSubName())
	}
	if err := gzip.VerifyPacked(); !errs.Is(err, errs.UnsupportedFeature) {
		t.Fatalf("VerifyPacked() = %v, want UnsupportedFeature", err)
	}
}
