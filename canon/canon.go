// Package canon implements Aura's canonical, deterministic, length-bounded
// binary serialization: the wire format spec.md §6 requires for every fact
// and message. Two encodings of the same value are byte-identical, every
// encoded value carries a magic tag and schema version, and every
// variable-length field has a declared upper bound enforced on decode.
package canon

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Magic identifies an Aura wire value, distinguishing it from unrelated
// binary blobs that might otherwise decode successfully by accident.
type Magic uint32

// SchemaVersion is carried on every encoded value. Decoders reject
// versions they don't recognize rather than guess at layout.
type SchemaVersion uint16

// MaxBytesField bounds any single length-prefixed byte field. It is
// generous enough for a signature or a commitment-tree proof but rejects
// a maliciously large length prefix before allocating.
const MaxBytesField = 1 << 20 // 1 MiB

var (
	// ErrUnknownMagic is returned when the decoded magic tag doesn't
	// match what the caller expected.
	ErrUnknownMagic = errors.New("canon: unknown magic tag")
	// ErrUnknownVersion is returned when the schema version is not one
	// this build understands.
	ErrUnknownVersion = errors.New("canon: unsupported schema version")
	// ErrFieldTooLarge is returned when a length-prefixed field exceeds
	// its declared upper bound.
	ErrFieldTooLarge = errors.New("canon: field exceeds declared bound")
	// ErrTruncated is returned when the buffer ends before a declared
	// field can be fully read.
	ErrTruncated = errors.New("canon: truncated input")
)

// Encoder accumulates a canonical binary encoding. Every Encoder method
// appends; there is no intermediate reflection or map iteration, so the
// output for a given sequence of calls is always byte-identical.
type Encoder struct {
	buf []byte
}

// NewEncoder starts a fresh encoding framed with magic and version.
func NewEncoder(magic Magic, version SchemaVersion) *Encoder {
	e := &Encoder{buf: make([]byte, 0, 128)}
	e.buf = protowire.AppendFixed32(e.buf, uint32(magic))
	e.buf = protowire.AppendVarint(e.buf, uint64(version))
	return e
}

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf }

// Byte appends a single byte.
func (e *Encoder) Byte(b byte) *Encoder {
	e.buf = append(e.buf, b)
	return e
}

// Uint64 appends a fixed-width 64-bit unsigned integer (never
// machine-width, per spec.md §6).
func (e *Encoder) Uint64(v uint64) *Encoder {
	e.buf = protowire.AppendFixed64(e.buf, v)
	return e
}

// Uint32 appends a fixed-width 32-bit unsigned integer.
func (e *Encoder) Uint32(v uint32) *Encoder {
	e.buf = protowire.AppendFixed32(e.buf, v)
	return e
}

// Varint appends a variable-length (but self-delimiting) unsigned
// integer, used for counts and lengths.
func (e *Encoder) Varint(v uint64) *Encoder {
	e.buf = protowire.AppendVarint(e.buf, v)
	return e
}

// Fixed appends a fixed-size byte array as-is (no length prefix) — used
// for identifiers, whose size is implied by their type.
func (e *Encoder) Fixed(b []byte) *Encoder {
	e.buf = append(e.buf, b...)
	return e
}

// BytesField appends a length-prefixed byte slice. The length is not
// bounded here; Decoder.BytesField enforces the bound on decode.
func (e *Encoder) BytesField(b []byte) *Encoder {
	e.buf = protowire.AppendVarint(e.buf, uint64(len(b)))
	e.buf = append(e.buf, b...)
	return e
}

// Decoder reads a canonical encoding produced by Encoder.
type Decoder struct {
	buf []byte
	off int
}

// NewDecoder parses the magic/version header and returns a Decoder
// positioned at the first field, or an error if the header doesn't
// match expectations.
func NewDecoder(data []byte, wantMagic Magic, maxVersion SchemaVersion) (*Decoder, SchemaVersion, error) {
	if len(data) < 4 {
		return nil, 0, ErrTruncated
	}
	magic, n := protowire.ConsumeFixed32(data)
	if n < 0 {
		return nil, 0, ErrTruncated
	}
	if Magic(magic) != wantMagic {
		return nil, 0, ErrUnknownMagic
	}
	version, vn := protowire.ConsumeVarint(data[n:])
	if vn < 0 {
		return nil, 0, ErrTruncated
	}
	if SchemaVersion(version) > maxVersion {
		return nil, 0, ErrUnknownVersion
	}
	return &Decoder{buf: data, off: n + vn}, SchemaVersion(version), nil
}

// Byte reads a single byte.
func (d *Decoder) Byte() (byte, error) {
	if d.off >= len(d.buf) {
		return 0, ErrTruncated
	}
	b := d.buf[d.off]
	d.off++
	return b, nil
}

// Uint64 reads a fixed-width 64-bit unsigned integer.
func (d *Decoder) Uint64() (uint64, error) {
	v, n := protowire.ConsumeFixed64(d.buf[d.off:])
	if n < 0 {
		return 0, ErrTruncated
	}
	d.off += n
	return v, nil
}

// Uint32 reads a fixed-width 32-bit unsigned integer.
func (d *Decoder) Uint32() (uint32, error) {
	v, n := protowire.ConsumeFixed32(d.buf[d.off:])
	if n < 0 {
		return 0, ErrTruncated
	}
	d.off += n
	return v, nil
}

// Varint reads a variable-length unsigned integer.
func (d *Decoder) Varint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.buf[d.off:])
	if n < 0 {
		return 0, ErrTruncated
	}
	d.off += n
	return v, nil
}

// Fixed reads exactly n raw bytes, used for fixed-size identifiers.
func (d *Decoder) Fixed(n int) ([]byte, error) {
	if d.off+n > len(d.buf) {
		return nil, ErrTruncated
	}
	out := d.buf[d.off : d.off+n]
	d.off += n
	return out, nil
}

// BytesField reads a length-prefixed byte slice, rejecting any
// declared length above maxLen.
func (d *Decoder) BytesField(maxLen int) ([]byte, error) {
	n, err := d.Varint()
	if err != nil {
		return nil, err
	}
	if n > uint64(maxLen) {
		return nil, fmt.Errorf("%w: declared %d > max %d", ErrFieldTooLarge, n, maxLen)
	}
	return d.Fixed(int(n))
}

// Remaining reports whether unread bytes remain, used by callers that
// want to reject encodings with trailing garbage.
func (d *Decoder) Remaining() int { return len(d.buf) - d.off }
