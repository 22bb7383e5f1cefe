// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elliotnunn/huffarc/internal/archive"
	"github.com/elliotnunn/huffarc/internal/probe"
)

func (e *env) inspect() cmd {
	f := flag.NewFlagSet("inspect", flag.ContinueOnError)
	password := f.String("p", "", "decrypt with this password")

	return cmd{f, func(names []string) error {
		if len(names) != 1 {
			return errUsage
		}
		name := names[0]
		p, err := os.ReadFile(name)
		if err != nil {
			return err
		}
		p, kind, err := probe.Unwrap(filepath.Base(name), p)
		if err != nil {
			return errWithPath("unwrap", name, err)
		}
		st, err := archive.Inspect(p, *password)
		if err != nil {
			return errWithPath("inspect", name, err)
		}

		w := e.stdout
		if kind != probe.None {
			fmt.Fprintf(w, "wrapper:       %s\n", kind)
		}
		fmt.Fprintf(w, "block size:    %d\n", st.BlockSize)
		fmt.Fprintf(w, "blocks:        %d coded, %d literal\n", st.Coded, st.Literal)
		fmt.Fprintf(w, "symbols used:  %d\n", st.UsedSymbols)
		fmt.Fprintf(w, "longest code:  %d bits\n", st.LongestCode)
		fmt.Fprintf(w, "codebook:      %d bits\n", st.CodebookBits)
		fmt.Fprintf(w, "size:          %d -> %d bytes", st.InputBytes, st.StreamBytes)
		if st.InputBytes > 0 {
			fmt.Fprintf(w, " (%.1f%%)", 100*float64(st.StreamBytes)/float64(st.InputBytes))
		}
		fmt.Fprintln(w)
		return nil
	}}
}
