// Package ancient is the top-level dispatcher: given one packed buffer, it
// picks the codec whose magic matches and returns it as a Decompressor.
package ancient

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/polluks/ancient-format-decompressor/buffer"
	"github.com/polluks/ancient-format-decompressor/codec/stub"
	"github.com/polluks/ancient-format-decompressor/contract"
	"github.com/polluks/ancient-format-decompressor/errs"
	"github.com/polluks/ancient-format-decompressor/xpk"
)

// Decompressor is the contract every top-level codec this package
// dispatches to implements; re-exported from contract so callers never
// need to import that package directly.
type Decompressor = contract.Decompressor

type topLevelEntry struct {
	detect func(hdr uint32) bool
	create func(packed *buffer.View) Decompressor
}

// topLevelCodecs is tried in order; the first whose magic matches the
// input's first 32-bit big-endian word wins. XPK is tried last since its
// magic is checked the same way as every other entry here, not given any
// special priority.
var topLevelCodecs = []topLevelEntry{
	{stub.DetectHeaderCRM, func(p *buffer.View) Decompressor { return stub.NewCRM(p) }},
	{stub.DetectHeaderDEFL, func(p *buffer.View) Decompressor { return stub.NewDEFL(p) }},
	{stub.DetectHeaderIMP, func(p *buffer.View) Decompressor { return stub.NewIMP(p) }},
	{stub.DetectHeaderRNC, func(p *buffer.View) Decompressor { return stub.NewRNC(p) }},
	{stub.DetectHeaderTPWM, func(p *buffer.View) Decompressor { return stub.NewTPWM(p) }},
	{xpk.DetectHeader, func(p *buffer.View) Decompressor { return xpk.New(p) }},
}

// Dispatch picks a codec by its 4-byte big-endian header magic and
// constructs it, or returns nil if no registered codec's magic matches.
func Dispatch(packed *buffer.View) Decompressor {
	hdr, ok := packed.Uint32(0, buffer.BigEndian)
	if !ok {
		return nil
	}
	for _, e := range topLevelCodecs {
		if e.detect(hdr) {
			return e.create(packed)
		}
	}
	return nil
}

// Verify dispatches packed and reports whether its packed-side checksums
// (if any) are intact.
func Verify(packed *buffer.View) error {
	d := Dispatch(packed)
	if d == nil || !d.IsValid() {
		return errs.New(errs.InvalidFormat, "ancient: unrecognized format")
	}
	return d.VerifyPacked()
}

// Decompress dispatches packed, decompresses it into a freshly allocated
// buffer sized by the codec's own GetRawSize, and returns it.
func Decompress(packed *buffer.View) (*buffer.Mutable, error) {
	d := Dispatch(packed)
	if d == nil || !d.IsValid() {
		return nil, errs.New(errs.InvalidFormat, "ancient: unrecognized format")
	}
	rawSize := d.GetRawSize()
	if rawSize == 0 {
		return nil, errs.New(errs.InvalidFormat, "ancient: unknown raw size")
	}
	dst, err := buffer.NewMutable(rawSize)
	if err != nil {
		return nil, errs.Wrap(errs.OutOfMemory, "ancient: allocate output", err)
	}
	if err := d.Decompress(dst); err != nil {
		return nil, err
	}
	return dst, nil
}

// DecompressAll decompresses a batch of independent packed buffers
// concurrently: each buffer gets its own Decompressor instance, and
// distinct instances on distinct buffers have no shared state. The first
// error cancels ctx and is returned; results is nil in that case.
func DecompressAll(ctx context.Context, packedBuffers []*buffer.View) ([]*buffer.Mutable, error) {
	results := make([]*buffer.Mutable, len(packedBuffers))
	g, ctx := errgroup.WithContext(ctx)
	for i, packed := range packedBuffers {
		i, packed := i, packed
		g.Go(func() error {
			out, err := Decompress(packed)
			if err != nil {
				return err
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
