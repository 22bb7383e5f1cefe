// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package fileid tells whether two paths name the same file on disk.
package fileid

import (
	"encoding/hex"
	"errors"
)

// ID = (64 bits of inode number) + (32 bits of hash of filename)
type ID [12]byte

var ErrNotOS = errors.New("file identity not available on this OS")

func (id ID) String() string { return hex.EncodeToString(id[:]) }
