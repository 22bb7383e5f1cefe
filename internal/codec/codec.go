// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package codec compresses whole buffers into the huffarc stream format:
//
//	1 (sentinel) | codebook (256 gamma codes) | block size (16 bits) | blocks...
//
// all packed MSB-first. Calls share no state and are safe to run concurrently.
package codec

import (
	"io"

	"github.com/elliotnunn/huffarc/internal/archerr"
	"github.com/elliotnunn/huffarc/internal/bitstream"
	"github.com/elliotnunn/huffarc/internal/block"
	"github.com/elliotnunn/huffarc/internal/huffman"
)

// Stats describes one compressed stream.
type Stats struct {
	BlockSize    int
	Coded        int
	Literal      int
	CodebookBits int
	UsedSymbols  int
	LongestCode  int
	InputBytes   int
	StreamBytes  int
}

// Compress encodes p with a code built from p's own byte frequencies.
func Compress(p []byte, blockSize int) ([]byte, Stats, error) {
	if blockSize < block.MinSize || blockSize > block.MaxSize {
		return nil, Stats{}, archerr.BadBlockSize(blockSize)
	}

	ft := huffman.Count(p)
	cb := huffman.NewCodebook(ft)

	var w bitstream.Writer
	cb.Serialize(&w)
	st := Stats{
		BlockSize:    blockSize,
		CodebookBits: w.Len(),
		UsedSymbols:  ft.Used(),
		LongestCode:  longest(cb),
		InputBytes:   len(p),
	}

	bst, err := block.Encode(&w, p, cb, blockSize)
	if err != nil {
		return nil, Stats{}, err
	}
	st.Coded, st.Literal = bst.Coded, bst.Literal

	out := w.Bytes()
	st.StreamBytes = len(out)
	return out, st, nil
}

// Decompress reverses Compress. Any structural problem is reported as
// archerr.ErrCorruptedStream (or archerr.ErrInvalidBlockSize for a zero block size field);
// no partial output is returned alongside an error.
func Decompress(stream []byte) ([]byte, error) {
	d, _, err := open(stream)
	if err != nil {
		return nil, err
	}
	return d.DecodeAll(make([]byte, 0, d.Size()))
}

// Inspect decodes the stream without keeping the output, to describe it.
func Inspect(stream []byte) (Stats, error) {
	d, cb, err := open(stream)
	if err != nil {
		return Stats{}, err
	}

	n := 0
	for {
		blk, err := d.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return Stats{}, err
		}
		n += len(blk)
	}

	used := 0
	for s := range 256 {
		if cb.Used(byte(s)) {
			used++
		}
	}

	var w bitstream.Writer
	cb.Serialize(&w)
	bst := d.Stats()
	return Stats{
		BlockSize:    d.Size(),
		Coded:        bst.Coded,
		Literal:      bst.Literal,
		CodebookBits: w.Len(),
		UsedSymbols:  used,
		LongestCode:  longest(cb),
		InputBytes:   n,
		StreamBytes:  len(stream),
	}, nil
}

func open(stream []byte) (*block.Decoder, *huffman.Codebook, error) {
	r, err := bitstream.NewReader(stream)
	if err != nil {
		return nil, nil, err
	}
	cb, err := huffman.ReadCodebook(r)
	if err != nil {
		return nil, nil, err
	}
	tree, err := huffman.NewDecodeTree(cb)
	if err != nil {
		return nil, nil, err
	}
	d, err := block.NewDecoder(r, tree)
	if err != nil {
		return nil, nil, err
	}
	return d, cb, nil
}

func longest(cb *huffman.Codebook) int {
	n := 0
	for s := range 256 {
		if cb.Used(byte(s)) {
			n = max(n, cb[s].BitLength)
		}
	}
	return n
}
