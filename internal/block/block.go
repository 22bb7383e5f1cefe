// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package block frames Huffman-coded data into fixed-size blocks.
//
// The body starts with a 16-bit block size. Each block then starts with a flag bit:
// 1 for a literal block of raw bytes, 0 for a block of codewords.
// A block is stored literally whenever coding it would not save at least one byte.
package block

import (
	"io"

	"github.com/elliotnunn/huffarc/internal/archerr"
	"github.com/elliotnunn/huffarc/internal/bitstream"
	"github.com/elliotnunn/huffarc/internal/huffman"
)

const (
	MinSize = 1
	MaxSize = 1<<16 - 1

	sizeBits = 16

	flagCoded   = 0
	flagLiteral = 1
)

// Stats counts the kinds of block written.
type Stats struct {
	Coded, Literal int
}

// Encode writes the block size and then every block of p.
func Encode(w *bitstream.Writer, p []byte, cb *huffman.Codebook, size int) (Stats, error) {
	var st Stats
	if size < MinSize || size > MaxSize {
		return st, archerr.BadBlockSize(size)
	}

	w.WriteBits(uint64(size), sizeBits)
	for len(p) > 0 {
		chunk := p[:min(size, len(p))]
		p = p[len(chunk):]

		if (cb.EncodedLen(chunk)+7)/8 >= len(chunk) {
			w.WriteBit(flagLiteral)
			for _, c := range chunk {
				w.WriteBits(uint64(c), 8)
			}
			st.Literal++
		} else {
			w.WriteBit(flagCoded)
			for _, c := range chunk {
				w.WriteBitString(cb[c])
			}
			st.Coded++
		}
	}
	return st, nil
}

// Decoder produces one block at a time.
type Decoder struct {
	r    *bitstream.Reader
	tree *huffman.Tree
	size int
	n    int // blocks returned so far
	lit  int
}

// NewDecoder reads the block size that precedes the first block.
func NewDecoder(r *bitstream.Reader, tree *huffman.Tree) (*Decoder, error) {
	size, err := r.ReadBits(sizeBits)
	if err != nil {
		return nil, archerr.CorruptCause(err, "block size field")
	}
	if size < MinSize {
		return nil, archerr.BadBlockSize(int(size))
	}
	return &Decoder{r: r, tree: tree, size: int(size)}, nil
}

// Size is the block size read from the stream.
func (d *Decoder) Size() int { return d.size }

// Stats counts the blocks decoded so far.
func (d *Decoder) Stats() Stats { return Stats{Coded: d.n - d.lit, Literal: d.lit} }

// Next returns the next decoded block, or io.EOF once the stream is exhausted.
// Only the final block may be shorter than Size.
func (d *Decoder) Next() ([]byte, error) {
	if d.r.Remaining() == 0 {
		return nil, io.EOF
	}
	flag, _ := d.r.ReadBit()

	var (
		blk []byte
		err error
	)
	if flag == flagLiteral {
		blk, err = d.literal()
		d.lit++
	} else {
		blk, err = d.coded()
	}
	if err != nil {
		return nil, err
	}
	d.n++
	return blk, nil
}

func (d *Decoder) literal() ([]byte, error) {
	nbits := min(d.size*8, d.r.Remaining())
	if nbits == 0 || nbits%8 != 0 {
		return nil, archerr.Corrupt("literal block %d has %d bits", d.n, nbits)
	}
	blk := make([]byte, nbits/8)
	for i := range blk {
		c, _ := d.r.ReadBits(8)
		blk[i] = byte(c)
	}
	return blk, nil
}

func (d *Decoder) coded() ([]byte, error) {
	blk := make([]byte, 0, min(d.size, d.r.Remaining()))
	at := d.tree.Root()
	for len(blk) < d.size && d.r.Remaining() > 0 {
		bit, _ := d.r.ReadBit()
		next, ok := d.tree.Step(at, bit)
		if !ok {
			return nil, archerr.Corrupt("no code matches at bit %d of block %d", d.r.Pos(), d.n)
		}
		if sym, leaf := d.tree.Symbol(next); leaf {
			blk = append(blk, sym)
			at = d.tree.Root()
		} else {
			at = next
		}
	}
	if at != d.tree.Root() {
		return nil, archerr.Corrupt("stream ends inside a codeword in block %d", d.n)
	}
	if len(blk) == 0 {
		return nil, archerr.Corrupt("coded block %d is empty", d.n)
	}
	return blk, nil
}

// DecodeAll appends every remaining block to dst.
func (d *Decoder) DecodeAll(dst []byte) ([]byte, error) {
	for {
		blk, err := d.Next()
		if err == io.EOF {
			return dst, nil
		} else if err != nil {
			return nil, err
		}
		dst = append(dst, blk...)
	}
}
