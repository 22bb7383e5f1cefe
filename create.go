// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotnunn/huffarc/internal/archerr"
	"github.com/elliotnunn/huffarc/internal/archive"
	"github.com/elliotnunn/huffarc/internal/block"
	"github.com/elliotnunn/huffarc/internal/bundle"
	"github.com/elliotnunn/huffarc/internal/fileid"
)

func (e *env) create() cmd {
	f := flag.NewFlagSet("create", flag.ContinueOnError)
	out := f.String("o", "", "archive to write (default from the input names)")
	password := f.String("p", "", "encrypt with this password")
	size := f.Int("b", blockSize, "block size in bytes, 1-65535")
	force := f.Bool("f", false, "overwrite an existing archive")

	return cmd{f, func(names []string) error {
		if len(names) == 0 {
			return errUsage
		}
		if *size < block.MinSize || *size > block.MaxSize {
			return archerr.BadBlockSize(*size)
		}
		for _, n := range names {
			if !filepath.IsLocal(n) {
				return &fs.PathError{Op: "create", Path: n, Err: errors.New("must be inside the working directory")}
			}
		}

		dest := *out
		if dest == "" {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			dest = archiveName(names, wd)
		}
		if !*force {
			if _, err := os.Lstat(dest); err == nil {
				return &fs.PathError{Op: "create", Path: dest, Err: errors.New("already exists (use -f to overwrite)")}
			}
		}

		opts := archive.Options{BlockSize: *size, Password: *password}
		if e.cache != nil {
			opts.Cache = e.cache
		}
		return e.background("creating "+dest, func() error {
			return pack(dest, names, opts)
		})
	}}
}

func pack(dest string, names []string, opts archive.Options) error {
	var tarball bytes.Buffer
	done, err := bundle.Create(&tarball, os.DirFS("."), filepathsToSlash(names), bundle.CreateOptions{
		Identify: func(name string) (fileid.ID, error) { return fileid.Get(filepath.FromSlash(name)) },
	})
	if err != nil {
		return err
	}

	p, err := archive.Pack(tarball.Bytes(), opts)
	if err != nil {
		return errWithPath("create", dest, err)
	}
	if err := os.WriteFile(dest, p, 0o644); err != nil {
		return err
	}
	slog.Info("createDone", "path", dest, "files", len(done), "tarBytes", tarball.Len(), "archiveBytes", len(p))
	return nil
}

// archiveName picks the default archive for a set of inputs:
// a lone file lends its own name, several files the working directory's.
func archiveName(names []string, wd string) string {
	var stem string
	if len(names) == 1 {
		base := filepath.Base(names[0])
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	} else {
		stem = filepath.Base(wd)
	}
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "archive"
	}
	return stem + ".z"
}

func filepathsToSlash(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.ToSlash(filepath.Clean(n))
	}
	return out
}
