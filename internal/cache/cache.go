// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package cache remembers compressed streams so that packing the same bytes
// twice skips the Huffman pass.
//
// Recently used streams stay in memory under a TinyLFU admission policy.
// When a directory is given they are also written through to a pebble database,
// which outlives the process.
package cache

import (
	"encoding/binary"
	"errors"
	"hash/maphash"
	"log/slog"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/pebble/v2"
	"github.com/dgryski/go-tinylfu"
)

// Key identifies a compressed stream by the content it was made from.
type Key struct {
	Sum       uint64
	BlockSize uint16
}

// KeyOf hashes the uncompressed input.
func KeyOf(p []byte, blockSize int) Key {
	return Key{Sum: xxhash.Sum64(p), BlockSize: uint16(blockSize)}
}

func (k Key) bytes() []byte {
	var b [10]byte
	binary.BigEndian.PutUint64(b[:], k.Sum)
	binary.BigEndian.PutUint16(b[8:], k.BlockSize)
	return b[:]
}

var seed = maphash.MakeSeed()

func khash(k Key) uint64 { return maphash.Comparable(seed, k) }

// A Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	mu  sync.Mutex
	mem *tinylfu.T[Key, []byte]
	db  *pebble.DB // nil if memory only
}

// Open creates a cache holding up to n streams in memory.
// If dir is not empty, a pebble database there backs the memory cache.
func Open(dir string, n int) (*Cache, error) {
	n = max(n, 1)
	c := &Cache{mem: tinylfu.New[Key, []byte](n, n*10, khash)}
	if dir != "" {
		db, err := pebble.Open(dir, &pebble.Options{})
		if err != nil {
			return nil, err
		}
		c.db = db
	}
	return c, nil
}

// Get returns a copy of the stream stored under k.
func (c *Cache) Get(k Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if p, ok := c.mem.Get(k); ok {
		return clone(p), true
	}
	if c.db == nil {
		return nil, false
	}

	val, closer, err := c.db.Get(k.bytes())
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false
	} else if err != nil {
		slog.Warn("cacheReadError", "err", err)
		return nil, false
	}
	p := clone(val) // val is only valid until the closer is closed
	closer.Close()

	c.mem.Add(k, p)
	return clone(p), true
}

// Put stores a stream. Failures to persist are logged, not returned.
func (c *Cache) Put(k Key, stream []byte) {
	p := clone(stream)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.mem.Add(k, p)
	if c.db == nil {
		return
	}
	if err := c.db.Set(k.bytes(), p, pebble.NoSync); err != nil {
		slog.Warn("cacheWriteError", "err", err)
	}
}

// Close flushes and closes the database, if any.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	if err := c.db.Flush(); err != nil {
		c.db.Close()
		c.db = nil
		return err
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func clone(p []byte) []byte {
	return append(make([]byte, 0, len(p)), p...)
}
