// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package bundle gathers named files into a tar stream and scatters them out again.
// It handles regular files only and never recurses into directories.
package bundle

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/elliotnunn/huffarc/internal/fileid"
)

var ErrNotRegular = errors.New("not a regular file")

type CreateOptions struct {
	// Identify, if set, recognizes one file reached under two names,
	// which is then bundled only once.
	Identify func(name string) (fileid.ID, error)
}

// Create writes a tar stream holding the named files of fsys, in order.
// Each member is named by its path within fsys.
func Create(w io.Writer, fsys fs.FS, names []string, opt CreateOptions) ([]string, error) {
	tw := tar.NewWriter(w)
	seenName := make(map[string]bool)
	seenID := make(map[fileid.ID]string)
	var done []string

	for _, name := range names {
		name = path.Clean(name)
		if !fs.ValidPath(name) || name == "." {
			return done, &fs.PathError{Op: "bundle", Path: name, Err: fs.ErrInvalid}
		}
		if seenName[name] {
			continue
		}
		seenName[name] = true

		if opt.Identify != nil {
			id, err := opt.Identify(name)
			if err == nil {
				if first, ok := seenID[id]; ok {
					slog.Info("bundleDuplicate", "path", name, "same", first)
					continue
				}
				seenID[id] = name
			} else if !errors.Is(err, fileid.ErrNotOS) {
				return done, err
			}
		}

		if err := add(tw, fsys, name); err != nil {
			return done, err
		}
		done = append(done, name)
	}
	return done, tw.Close()
}

func add(tw *tar.Writer, fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return &fs.PathError{Op: "bundle", Path: name, Err: ErrNotRegular}
	}

	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	hdr.Name = name
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	n, err := io.Copy(tw, f)
	if err != nil {
		return &fs.PathError{Op: "read", Path: name, Err: err}
	}
	if n != info.Size() {
		return &fs.PathError{Op: "read", Path: name, Err: io.ErrUnexpectedEOF}
	}
	return nil
}

type ExtractOptions struct {
	Only string // doublestar pattern over member names, empty for all
}

// Extract writes the regular files of a tar stream beneath dest, creating dest if needed.
// A member whose name would land outside dest fails the whole extraction.
func Extract(r io.Reader, dest string, opt ExtractOptions) ([]string, error) {
	if opt.Only != "" && !doublestar.ValidatePattern(opt.Only) {
		return nil, fmt.Errorf("%w: %q", doublestar.ErrBadPattern, opt.Only)
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, err
	}
	root, err := os.OpenRoot(dest)
	if err != nil {
		return nil, err
	}
	defer root.Close()

	var done []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return done, nil
		} else if err != nil {
			return done, err
		}

		name := path.Clean(hdr.Name)
		if !filepath.IsLocal(filepath.FromSlash(name)) {
			return done, &fs.PathError{Op: "extract", Path: hdr.Name, Err: fs.ErrInvalid}
		}
		if hdr.Typeflag != tar.TypeReg {
			slog.Info("extractSkip", "path", name, "type", string(hdr.Typeflag))
			continue
		}
		if opt.Only != "" && !doublestar.MatchUnvalidated(opt.Only, name) {
			continue
		}

		if err := write(root, name, hdr.FileInfo().Mode().Perm(), tr); err != nil {
			return done, err
		}
		done = append(done, name)
	}
}

func write(root *os.Root, name string, perm fs.FileMode, r io.Reader) error {
	if dir := path.Dir(name); dir != "." {
		if err := root.MkdirAll(filepath.FromSlash(dir), 0o755); err != nil {
			return err
		}
	}
	f, err := root.OpenFile(filepath.FromSlash(name), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm|0o200)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return &fs.PathError{Op: "write", Path: name, Err: err}
	}
	return f.Close()
}
