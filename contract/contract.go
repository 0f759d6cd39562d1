// Package contract defines the polymorphic interfaces every codec in this
// module implements, and the opaque state a sub-codec may carry across the
// chunks of one XPK stream.
//
// It exists as its own package, separate from the dispatcher, so that leaf
// codec packages (rake, delta, none, stub) and the xpk container never need
// to import the dispatcher to declare that they satisfy it: the dispatcher
// imports xpk and stub, and xpk imports the sub-codec packages, never the
// reverse.
package contract

import "github.com/polluks/ancient-format-decompressor/buffer"

// Decompressor is the contract every top-level codec implements. The
// boolean verify/decompress results are represented as error (nil ==
// success) so a caller can recover the reason a stream was rejected;
// GetPackedSize/GetRawSize return 0 when the value is not known before
// decompression.
type Decompressor interface {
	// IsValid reports whether construction fully parsed the header and
	// its preconditions hold.
	IsValid() bool
	// GetPackedSize returns bytes consumed from the input, including
	// framing, or 0 if unknown before decompression.
	GetPackedSize() int
	// GetRawSize returns the bytes this codec will emit, or 0 if unknown
	// before decompression.
	GetRawSize() int
	// VerifyPacked recomputes and compares any structural checksums over
	// the compressed data without producing output.
	VerifyPacked() error
	// VerifyRaw validates already-decompressed output against embedded
	// checksums or a header preview.
	VerifyRaw(raw *buffer.View) error
	// Decompress fills dst with exactly GetRawSize() bytes.
	Decompress(dst *buffer.Mutable) error
	// GetName is a human-readable identifier, for logging only.
	GetName() string
	// GetSubName is a human-readable sub-identifier, for logging only.
	GetSubName() string
}

// SubDecompressor is the contract a codec usable only inside an XPK chunk
// implements. It differs from Decompressor in that it is detected by a
// 4-character XPK type code rather than a header magic, and its
// Decompress receives the previous chunk's raw output to seed any carried
// LZ history.
type SubDecompressor interface {
	IsValid() bool
	GetRawSize() int
	VerifyPacked() error
	VerifyRaw(raw *buffer.View) error
	// Decompress fills dst with exactly GetRawSize() bytes. previousData
	// is the prior chunk's decompressed output (empty for the first
	// chunk), letting stateful sub-codecs seed LZ history across chunks.
	Decompress(dst *buffer.Mutable, previousData *buffer.View) error
	// GetSubName is a human-readable identifier, used by the XPK
	// container in place of its own name.
	GetSubName() string
}

// State is the opaque value an XPK stream threads through successive
// chunks of the same sub-codec so it can carry history (e.g. LZ window)
// from one chunk's output into the next chunk's decode. Each sub-codec
// package defines its own concrete state type as needed; the container
// only stores and forwards it.
type State any
