// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package probe unwraps archives that were passed through a general-purpose compressor.
//
// A huffarc stream has no magic number, and any stream whose first bytes happen to match
// a compressor's would be misread. So a wrapper is removed only when the file's
// extension agrees with its magic number.
package probe

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/therootcompany/xz"
)

const (
	None  = ""
	Gzip  = "gzip"
	Bzip2 = "bzip2"
	XZ    = "xz"
)

type format struct {
	kind     string
	magic    string
	suffixes string // space separated, "from=to" renames
	open     func(io.Reader) (io.Reader, error)
}

var formats = []format{
	{Gzip, "\x1f\x8b", ".gz .gzip .tgz=.tar", func(r io.Reader) (io.Reader, error) {
		return gzip.NewReader(r)
	}},
	{Bzip2, "BZh", ".bz .bz2 .bzip2 .tbz=.tar .tb2=.tar", func(r io.Reader) (io.Reader, error) {
		return bzip2.NewReader(r), nil
	}},
	{XZ, "\xfd7zXZ\x00", ".xz .txz=.tar", func(r io.Reader) (io.Reader, error) {
		return xz.NewReader(r, xz.DefaultDictMax)
	}},
}

// Unwrap returns the contents of p with any compression wrapper removed,
// and names the wrapper it removed.
func Unwrap(name string, p []byte) ([]byte, string, error) {
	for _, f := range formats {
		if !bytes.HasPrefix(p, []byte(f.magic)) {
			continue
		}
		if _, ok := changeSuffix(name, f.suffixes); !ok {
			continue
		}
		r, err := f.open(bytes.NewReader(p))
		if err != nil {
			return nil, f.kind, fmt.Errorf("%s: %w", f.kind, err)
		}
		inner, err := io.ReadAll(r)
		if err != nil {
			return nil, f.kind, fmt.Errorf("%s: %w", f.kind, err)
		}
		return inner, f.kind, nil
	}
	return p, None, nil
}

// InnerName strips a compressor's extension, if the name has one.
func InnerName(name string) string {
	for _, f := range formats {
		if inner, ok := changeSuffix(name, f.suffixes); ok {
			return inner
		}
	}
	return name
}

func changeSuffix(s string, suffixes string) (string, bool) {
	for _, rule := range strings.Split(suffixes, " ") {
		from, to, _ := strings.Cut(rule, "=")
		if strings.HasSuffix(s, from) && len(s) > len(from) {
			return s[:len(s)-len(from)] + to, true
		}
	}
	return s, false
}
