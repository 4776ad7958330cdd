// Package wire encodes the persisted records of the gate. Fields are
// little-endian and fixed-size; sequences carry a u32 length prefix.
// Timestamps are int64 Unix nanoseconds.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"transfer-gate/internal/address"
)

// Record sizes.
const (
	IssuerSize      = address.Size + 8 + 8 + 1
	FunctionSize    = 1 + 8 + 1 + 1
	ApprovalSize    = address.Size + address.Size + 8 + 8 + 1
	LastTxSize      = 8
	identityHeader  = address.Size + address.Size
	lengthPrefix    = 4
	maxSequenceSize = 1 << 20
)

var (
	// ErrShortBuffer is returned when a record ends before its layout does.
	ErrShortBuffer = errors.New("wire: short buffer")
	// ErrTrailingData is returned when bytes follow a complete record.
	ErrTrailingData = errors.New("wire: trailing data")
	// ErrShrink is returned by Resize when asked to truncate.
	ErrShrink = errors.New("wire: resize would truncate record")
	// ErrUnknownTag is returned for function tags outside the known set.
	ErrUnknownTag = errors.New("wire: unknown function tag")
)

// Resize returns buf grown to n bytes, preserving its contents. The new tail is
// zeroed. Records only ever grow; shrinking is an error.
func Resize(buf []byte, n int) ([]byte, error) {
	if n < len(buf) {
		return nil, fmt.Errorf("%w: %d < %d", ErrShrink, n, len(buf))
	}
	if n <= cap(buf) {
		grown := buf[:n]
		clear(grown[len(buf):])
		return grown, nil
	}
	grown := make([]byte, n, n+n/4)
	copy(grown, buf)
	return grown, nil
}

func putTime(b []byte, t time.Time) {
	var v int64
	if !t.IsZero() {
		v = t.UnixNano()
	}
	binary.LittleEndian.PutUint64(b, uint64(v))
}

func getTime(b []byte) time.Time {
	v := int64(binary.LittleEndian.Uint64(b))
	if v == 0 {
		return time.Time{}
	}
	return time.Unix(0, v).UTC()
}

func putBool(b []byte, v bool) {
	if v {
		b[0] = 1
	} else {
		b[0] = 0
	}
}

// reader walks a record and remembers the first failure.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.err = ErrShortBuffer
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *reader) address() address.Address {
	b := r.next(address.Size)
	if b == nil {
		return address.Zero
	}
	a, _ := address.FromBytes(b)
	return a
}

func (r *reader) u8() uint8 {
	b := r.next(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) bool() bool {
	return r.u8() != 0
}

func (r *reader) u32() uint32 {
	b := r.next(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (r *reader) u64() uint64 {
	b := r.next(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (r *reader) time() time.Time {
	b := r.next(8)
	if b == nil {
		return time.Time{}
	}
	return getTime(b)
}

// count reads a length prefix and checks that elem*n bytes can follow.
func (r *reader) count(elem int) int {
	n := r.u32()
	if r.err != nil {
		return 0
	}
	if n > maxSequenceSize || int(n)*elem > len(r.buf)-r.off {
		r.err = ErrShortBuffer
		return 0
	}
	return int(n)
}

func (r *reader) addresses() []address.Address {
	n := r.count(address.Size)
	if n == 0 {
		return nil
	}
	out := make([]address.Address, n)
	for i := range out {
		out[i] = r.address()
	}
	return out
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.off != len(r.buf) {
		return fmt.Errorf("%w: %d bytes", ErrTrailingData, len(r.buf)-r.off)
	}
	return nil
}

// writer appends fields, growing its buffer through Resize.
type writer struct {
	buf []byte
}

func (w *writer) grow(n int) []byte {
	start := len(w.buf)
	// Growing never fails.
	w.buf, _ = Resize(w.buf, start+n)
	return w.buf[start:]
}

func (w *writer) address(a address.Address) {
	copy(w.grow(address.Size), a[:])
}

func (w *writer) u8(v uint8) {
	w.grow(1)[0] = v
}

func (w *writer) bool(v bool) {
	putBool(w.grow(1), v)
}

func (w *writer) u32(v uint32) {
	binary.LittleEndian.PutUint32(w.grow(4), v)
}

func (w *writer) u64(v uint64) {
	binary.LittleEndian.PutUint64(w.grow(8), v)
}

func (w *writer) time(t time.Time) {
	putTime(w.grow(8), t)
}

func (w *writer) addresses(list []address.Address) {
	w.u32(uint32(len(list)))
	for _, a := range list {
		w.address(a)
	}
}
