// Package wire implements the canonical, bijective binary encoding
// every ledger object uses for hashing, signing and network transport:
// little-endian fixed-width integers, 32-byte scalar/point encodings,
// and u32 length-prefixed vectors and byte strings.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned by Done when a top-level decode leaves
// unconsumed bytes in the input.
var ErrTrailingData = errors.New("wire: trailing data after decode")

// ErrShortBuffer is returned when a decode call runs out of input
// before a fixed-size field is fully read.
var ErrShortBuffer = errors.New("wire: buffer too short")

// Encoder appends canonical-encoded fields to an in-memory buffer.
type Encoder struct {
	buf bytes.Buffer
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Bytes returns the accumulated encoding.
func (e *Encoder) Bytes() []byte { return e.buf.Bytes() }

// PutUint32 appends a little-endian u32.
func (e *Encoder) PutUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buf.Write(b[:])
}

// PutUint64 appends a little-endian u64.
func (e *Encoder) PutUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buf.Write(b[:])
}

// PutFixed appends raw bytes with no length prefix; used for the
// fixed-width 32-byte scalar/point/hash fields.
func (e *Encoder) PutFixed(b []byte) {
	e.buf.Write(b)
}

// PutBytes appends a u32 length prefix followed by the bytes.
func (e *Encoder) PutBytes(b []byte) {
	e.PutUint32(uint32(len(b)))
	e.buf.Write(b)
}

// Decoder consumes canonical-encoded fields from an in-memory buffer.
type Decoder struct {
	r *bytes.Reader
}

// NewDecoder wraps raw bytes for sequential field decoding.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{r: bytes.NewReader(b)}
}

// Uint32 reads a little-endian u32.
func (d *Decoder) Uint32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// Uint64 reads a little-endian u64.
func (d *Decoder) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(d.r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// Fixed reads exactly n raw bytes.
func (d *Decoder) Fixed(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrShortBuffer, err)
	}
	return b, nil
}

// Bytes reads a u32 length prefix followed by that many bytes.
func (d *Decoder) Bytes() ([]byte, error) {
	n, err := d.Uint32()
	if err != nil {
		return nil, err
	}
	return d.Fixed(int(n))
}

// Done reports an error if the decoder has unconsumed bytes left.
func (d *Decoder) Done() error {
	if d.r.Len() != 0 {
		return ErrTrailingData
	}
	return nil
}
