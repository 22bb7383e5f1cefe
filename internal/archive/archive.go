// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package archive is the single entry point for turning bytes into a huffarc archive and back.
// An archive is a compressed stream, optionally sealed under a password.
package archive

import (
	"io"

	"github.com/elliotnunn/huffarc/internal/archerr"
	"github.com/elliotnunn/huffarc/internal/block"
	"github.com/elliotnunn/huffarc/internal/cache"
	"github.com/elliotnunn/huffarc/internal/codec"
	"github.com/elliotnunn/huffarc/internal/seal"
)

const DefaultBlockSize = 1000

// Cache is satisfied by *cache.Cache.
type Cache interface {
	Get(k cache.Key) ([]byte, bool)
	Put(k cache.Key, stream []byte)
}

type Options struct {
	BlockSize int    // zero means DefaultBlockSize
	Password  string // empty means no encryption
	Cache     Cache  // nil disables caching

	Rand io.Reader // IV source for testing, nil for crypto/rand
}

func (o Options) blockSize() int {
	if o.BlockSize == 0 {
		return DefaultBlockSize
	}
	return o.BlockSize
}

// Pack compresses data and, if a password is set, encrypts it.
func Pack(data []byte, opts Options) ([]byte, error) {
	stream, err := compress(data, opts)
	if err != nil {
		return nil, err
	}
	if opts.Password == "" {
		return stream, nil
	}
	return seal.Seal(stream, opts.Password, opts.Rand)
}

func compress(data []byte, opts Options) ([]byte, error) {
	size := opts.blockSize()
	if size < block.MinSize || size > block.MaxSize {
		return nil, archerr.BadBlockSize(size)
	}

	var k cache.Key
	if opts.Cache != nil {
		k = cache.KeyOf(data, size)
		if stream, ok := opts.Cache.Get(k); ok {
			return stream, nil
		}
	}

	stream, _, err := codec.Compress(data, size)
	if err != nil {
		return nil, err
	}
	if opts.Cache != nil {
		opts.Cache.Put(k, stream)
	}
	return stream, nil
}

// Unpack reverses Pack. A wrong password is indistinguishable from corruption
// and is reported as archerr.ErrCorruptedStream.
func Unpack(p []byte, password string) ([]byte, error) {
	stream, err := Stream(p, password)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(stream)
}

// Stream returns the compressed stream inside an archive, decrypting it if necessary.
func Stream(p []byte, password string) ([]byte, error) {
	if len(p) == 0 {
		return nil, archerr.ErrEmptyInput
	}
	if password == "" {
		return p, nil
	}
	return seal.Open(p, password)
}

// Inspect describes the compressed stream inside an archive.
func Inspect(p []byte, password string) (codec.Stats, error) {
	stream, err := Stream(p, password)
	if err != nil {
		return codec.Stats{}, err
	}
	return codec.Inspect(stream)
}
