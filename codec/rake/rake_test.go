package rake

import (
	"bytes"
	"testing"

	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/contract"
)

func TestDetectHeaderXPK(t *testing.T) {
	if !DetectHeaderXPK(fourCCFRHT) {
		t.Fatal("FRHT should be detected")
	}
	if !DetectHeaderXPK(fourCCRAKE) {
		t.Fatal("RAKE should be detected")
	}
	if DetectHeaderXPK(0x4e4f4e45) { // "NONE"
		t.Fatal("NONE should not be detected as RAKE/FRHT")
	}
}

// TestLiteralRoundTrip checks a payload whose byte stream is only literals
// 0x61..0x70 in reverse and whose bit stream is all zeros decodes to
// "abcdefghijklmnop".
func TestLiteralRoundTrip(t *testing.T) {
	payload := []byte{
		0x00, 0x00, // initial bit-drop count k=0
		0x00, 0x18, // midStreamOffset = 24
		0x00, 0x00, 0x00, 0x00, // unread padding (floor..midStreamOffset-16)
	}
	payload = append(payload, []byte("abcdefghijklmnop")...)  // offsets 8..23
	payload = append(payload, 0x00, 0x00, 0x00, 0x00)          // all-zero bit stream word

	d := New(fourCCRAKE, buffer.NewView(payload), new(contract.State))
	if !d.IsValid() {
		t.Fatal("expected valid RAKE header")
	}

	dst, err := buffer.NewMutable(16)
	if err != nil {
		t.Fatalf("NewMutable: %v", err)
	}
	if err := d.Decompress(dst, nil); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if got := string(dst.Data()); got != "abcdefghijklmnop" {
		t.Fatalf("Decompress output = %q, want %q", got, "abcdefghijklmnop")
	}
}

// TestBackReference checks a literal 'x' followed by a count=3/distance=1
// match decodes to "xxxx".
func TestBackReference(t *testing.T) {
	payload := []byte{
		0x00, 0x00, // initial bit-drop count k=0
		0x00, 0x08, // midStreamOffset = 8
		0x00, 0x00, // unread padding
		0x00,       // distance byte (0 -> distance = 0+1 = 1)
		0x78,       // literal 'x'
		0x40,       // bit stream: 0,1,0,0,...
		0x00, 0x00, 0x00,
	}

	d := New(fourCCFRHT, buffer.NewView(payload), new(contract.State))
	if !d.IsValid() {
		t.Fatal("expected valid FRHT header")
	}
	if got := d.GetSubName(); got == "" || bytes.Contains([]byte(got), []byte("RAKE")) {
		t.Fatalf("GetSubName() = %q, want an FRHT name", got)
	}

	dst, err := buffer.NewMutable(4)
	if err != nil {
		t.Fatalf("NewMutable: %v", err)
	}
	if err := d.Decompress(dst, nil); err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if got := string(dst.Data()); got != "xxxx" {
		t.Fatalf("Decompress output = %q, want %q", got, "xxxx")
	}
}

func TestInvalidMidStreamOffset(t *testing.T) {
	payload := []byte{0x00, 0x00, 0xff, 0xff} // midStreamOffset = 65535, way past end
	d := New(fourCCRAKE, buffer.NewView(payload), new(contract.State))
	if d.IsValid() {
		t.Fatal("expected invalid: midStreamOffset >= payload size")
	}
}

func TestTruncatedPayload(t *testing.T) {
	d := New(fourCCRAKE, buffer.NewView([]byte{0x00, 0x00}), new(contract.State))
	if d.IsValid() {
		t.Fatal("expected invalid: payload shorter than 4 bytes")
	}
}

func TestDropCountOver32Fails(t *testing.T) {
	payload := []byte{
		0x00, 33, // drop count = 33, over the 32-bit register width
		0x00, 0x08,
		0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
	d := New(fourCCRAKE, buffer.NewView(payload), new(contract.State))
	if !d.IsValid() {
		t.Fatal("header parses fine; the drop count is only checked at decompress time")
	}

	dst, err := buffer.NewMutable(4)
	if err != nil {
		t.Fatalf("NewMutable: %v", err)
	}
	if err := d.Decompress(dst, nil); err == nil {
		t.Fatal("expected Decompress to fail: drop count > 32")
	}
}
