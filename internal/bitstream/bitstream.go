// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package bitstream packs sequences of bits into bytes, most significant bit first.
//
// A packed stream starts with a single 1 bit, the sentinel,
// preceded by just enough 0 bits to fill out the first byte:
//
//	byte  0               1
//	     +---------------+---------------+-
//	     |0 0 0 1 b b b b|b b b b b b b b|b ...
//	     +---------------+---------------+-
//	      pad   ^ sentinel
//
// Read as a big-endian integer, the packed bytes equal the bit sequence
// read as a binary number with the sentinel in front,
// so leading zero bits of the payload are never lost.
package bitstream

import (
	"io"
	"math/bits"
	"strings"

	"github.com/elliotnunn/huffarc/internal/archerr"
)

// BitString is a bounded sequence of bits packed MSB-first.
// Bits beyond BitLength in the final byte are zero.
type BitString struct {
	Packed    []byte
	BitLength int
}

// ParseBitString converts a string of '0' and '1' characters.
func ParseBitString(s string) BitString {
	var bs BitString
	for _, c := range s {
		bs = bs.Append(uint(c - '0'))
	}
	return bs
}

// Bit returns the bit at index i.
func (s BitString) Bit(i int) uint {
	return uint(s.Packed[i/8]>>(7-i%8)) & 1
}

// Append returns a new BitString with one more bit. The receiver is not modified.
func (s BitString) Append(bit uint) BitString {
	packed := make([]byte, (s.BitLength+8)/8)
	copy(packed, s.Packed[:(s.BitLength+7)/8])
	if bit&1 != 0 {
		packed[s.BitLength/8] |= 0x80 >> (s.BitLength % 8)
	}
	return BitString{packed, s.BitLength + 1}
}

// Invert returns a copy with the bit at index i flipped.
func (s BitString) Invert(i int) BitString {
	packed := append([]byte(nil), s.Packed[:(s.BitLength+7)/8]...)
	packed[i/8] ^= 0x80 >> (i % 8)
	return BitString{packed, s.BitLength}
}

func (s BitString) Equal(t BitString) bool {
	if s.BitLength != t.BitLength {
		return false
	}
	for i := range s.BitLength {
		if s.Bit(i) != t.Bit(i) {
			return false
		}
	}
	return true
}

func (s BitString) String() string {
	var b strings.Builder
	for i := range s.BitLength {
		b.WriteByte('0' + byte(s.Bit(i)))
	}
	return b.String()
}

// Writer accumulates bits in memory. The zero value is ready to use.
type Writer struct {
	buf []byte
	n   int
}

// Len is the number of bits written so far, not counting the sentinel.
func (w *Writer) Len() int { return w.n }

func (w *Writer) WriteBit(bit uint) {
	if w.n%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit&1 != 0 {
		w.buf[w.n/8] |= 0x80 >> (w.n % 8)
	}
	w.n++
}

// WriteBits writes the low n bits of v, most significant first. n must be at most 64.
func (w *Writer) WriteBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(uint(v>>i) & 1)
	}
}

func (w *Writer) WriteBitString(s BitString) {
	for i := range s.BitLength {
		w.WriteBit(s.Bit(i))
	}
}

// WriteZeros writes n 0 bits.
func (w *Writer) WriteZeros(n int) {
	for range n {
		w.WriteBit(0)
	}
}

// Bytes packs the sentinel and everything written so far.
func (w *Writer) Bytes() []byte {
	total := w.n + 1
	out := make([]byte, (total+7)/8)
	shift := uint(len(out)*8 - total + 1) // 1..8: the pad plus the sentinel

	get := func(i int) byte {
		if i < 0 || i >= len(w.buf) {
			return 0
		}
		return w.buf[i]
	}

	out[0] = 1<<(8-shift) | get(0)>>shift
	for k := 1; k < len(out); k++ {
		out[k] = get(k-1)<<(8-shift) | get(k)>>shift
	}
	return out
}

// Reader reads back a stream produced by Writer.Bytes.
type Reader struct {
	p   []byte
	pos int // absolute bit index into p
	end int
	org int // bit index just after the sentinel
}

// NewReader finds the sentinel. An empty stream, or one whose first byte is zero, has no sentinel.
func NewReader(p []byte) (*Reader, error) {
	if len(p) == 0 {
		return nil, archerr.Corrupt("no sentinel bit in empty stream")
	}
	if p[0] == 0 {
		return nil, archerr.Corrupt("no sentinel bit in first byte")
	}
	org := bits.LeadingZeros8(p[0]) + 1
	return &Reader{p: p, pos: org, end: len(p) * 8, org: org}, nil
}

// Pos is the number of bits consumed since the sentinel.
func (r *Reader) Pos() int { return r.pos - r.org }

// Remaining is the number of bits left to read.
func (r *Reader) Remaining() int { return r.end - r.pos }

// ReadBit returns io.ErrUnexpectedEOF at the end of the stream.
func (r *Reader) ReadBit() (uint, error) {
	if r.pos >= r.end {
		return 0, io.ErrUnexpectedEOF
	}
	bit := uint(r.p[r.pos/8]>>(7-r.pos%8)) & 1
	r.pos++
	return bit, nil
}

// ReadBits reads n bits (at most 64) as an unsigned integer, most significant first.
// Nothing is consumed if fewer than n bits remain.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n > r.Remaining() {
		return 0, io.ErrUnexpectedEOF
	}
	var v uint64
	for range n {
		bit, _ := r.ReadBit()
		v = v<<1 | uint64(bit)
	}
	return v, nil
}
