// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Command huffarc packs files into Huffman-coded archives, optionally encrypted.
//
//	huffarc create [-o archive.z] [-p password] [-b blocksize] [-f] file...
//	huffarc extract [-o dir] [-p password] [-only glob] archive...
//	huffarc inspect [-p password] archive
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/elliotnunn/huffarc/internal/archerr"
	"github.com/elliotnunn/huffarc/internal/cache"
	"github.com/elliotnunn/huffarc/internal/progress"
	"github.com/elliotnunn/huffarc/internal/task"
)

var errUsage = errors.New("usage")

const usage = `usage:
  huffarc create [-o archive.z] [-p password] [-b blocksize] [-f] file...
  huffarc extract [-o dir] [-p password] [-only glob] archive...
  huffarc inspect [-p password] archive
`

func main() {
	slog.SetLogLoggerLevel(logLevel)
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// A cmd is one subcommand. Its flags are parsed before it runs.
type cmd struct {
	flags *flag.FlagSet
	run   func(args []string) error
}

type env struct {
	stdout, stderr io.Writer
	cache          *cache.Cache // nil unless HUFFARC_CACHE is set
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	e := &env{stdout: stdout, stderr: stderr}
	cmds := map[string]func(*env) cmd{
		"create":  (*env).create,
		"extract": (*env).extract,
		"inspect": (*env).inspect,
	}
	mk, ok := cmds[args[0]]
	if !ok {
		fmt.Fprint(stderr, usage)
		return 2
	}
	c := mk(e)
	c.flags.SetOutput(stderr)
	if err := c.flags.Parse(args[1:]); err != nil {
		return 2
	}

	if cacheDir != "" {
		ch, err := cache.Open(cacheDir, cacheN)
		if err != nil {
			slog.Warn("cacheOpenError", "path", cacheDir, "err", err)
		} else {
			e.cache = ch
			defer ch.Close()
		}
	}

	err := c.run(c.flags.Args())
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprint(stderr, usage)
		return 2
	default:
		fmt.Fprintf(stderr, "huffarc: %s\n", message(err))
		return 1
	}
}

// message turns an error into the single line shown to the user.
func message(err error) string {
	prefix := ""
	var pe *fs.PathError
	if errors.As(err, &pe) {
		prefix = pe.Path + ": "
	}
	switch archerr.KindOf(err) {
	case archerr.CorruptedStream:
		return prefix + "incorrect password or corrupted file"
	case archerr.EmptyInput:
		return prefix + "archive is empty"
	}
	return err.Error()
}

func errWithPath(op, path string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*fs.PathError); ok {
		return err
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// background runs f as a task, with a spinner if stderr is a terminal.
func (e *env) background(name string, f func() error) error {
	t := task.Start(name, f)
	var w io.Writer
	if isTerminal(e.stderr) {
		w = e.stderr
	}
	return progress.Watch(w, t, progress.Interval)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	st, err := f.Stat()
	return err == nil && st.Mode()&os.ModeCharDevice != 0
}
