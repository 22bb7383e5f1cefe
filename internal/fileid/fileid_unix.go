// Copyright (c) Elliot Nunn
// Licensed under the MIT license

//go:build unix

package fileid

import (
	"encoding/binary"
	"io/fs"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sys/unix"
)

// Get identifies the file at name without following a final symlink.
func Get(name string) (ID, error) {
	var stat unix.Stat_t
	if err := unix.Lstat(name, &stat); err != nil {
		return ID{}, &fs.PathError{Op: "lstat", Path: name, Err: err}
	}

	var id ID
	binary.BigEndian.PutUint64(id[:], uint64(stat.Ino))
	var h xxhash.Digest
	h.WriteString(filepath.Base(name))
	binary.BigEndian.PutUint32(id[8:], uint32(h.Sum64()))
	return id, nil
}
