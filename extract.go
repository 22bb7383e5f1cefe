// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/elliotnunn/huffarc/internal/archive"
	"github.com/elliotnunn/huffarc/internal/bundle"
	"github.com/elliotnunn/huffarc/internal/probe"
)

func (e *env) extract() cmd {
	f := flag.NewFlagSet("extract", flag.ContinueOnError)
	out := f.String("o", "", "directory to extract into (default: archive name without extension)")
	password := f.String("p", "", "decrypt with this password")
	only := f.String("only", "", "extract only members matching this glob")

	return cmd{f, func(names []string) error {
		if len(names) == 0 {
			return errUsage
		}
		for _, name := range names {
			dest := *out
			if dest == "" {
				dest = extractDir(name)
			}
			err := e.background("extracting "+name, func() error {
				return unpack(name, dest, *password, bundle.ExtractOptions{Only: *only})
			})
			if err != nil {
				return err
			}
		}
		return nil
	}}
}

func unpack(name, dest, password string, opt bundle.ExtractOptions) error {
	p, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	p, kind, err := probe.Unwrap(filepath.Base(name), p)
	if err != nil {
		return errWithPath("unwrap", name, err)
	}
	if kind != probe.None {
		slog.Info("extractUnwrap", "path", name, "kind", kind)
	}

	tarball, err := archive.Unpack(p, password)
	if err != nil {
		return errWithPath("extract", name, err)
	}
	done, err := bundle.Extract(bytes.NewReader(tarball), dest, opt)
	if err != nil {
		return err
	}
	slog.Info("extractDone", "path", name, "dest", dest, "files", len(done))
	return nil
}

// extractDir is the archive's path without its extension,
// looking through any compressor's extension first.
func extractDir(name string) string {
	inner := probe.InnerName(name)
	dir := strings.TrimSuffix(inner, filepath.Ext(inner))
	if dir == inner || filepath.Base(dir) == "" {
		dir = inner + ".d"
	}
	return dir
}
