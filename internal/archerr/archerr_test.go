// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package archerr

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestIsByKind(t *testing.T) {
	cases := []struct {
		err  error
		want error
		not  error
	}{
		{Corrupt("dead end at bit %d", 7), ErrCorruptedStream, ErrEmptyInput},
		{CorruptCause(io.ErrUnexpectedEOF, "codebook"), ErrCorruptedStream, ErrInvalidBlockSize},
		{BadBlockSize(0), ErrInvalidBlockSize, ErrCorruptedStream},
		{fmt.Errorf("extract a.z: %w", ErrEmptyInput), ErrEmptyInput, ErrCorruptedStream},
	}

	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			if !errors.Is(c.err, c.want) {
				t.Errorf("errors.Is(%v, %v) = false", c.err, c.want)
			}
			if errors.Is(c.err, c.not) {
				t.Errorf("errors.Is(%v, %v) = true", c.err, c.not)
			}
		})
	}
}

func TestCauseSurvives(t *testing.T) {
	err := CorruptCause(io.ErrUnexpectedEOF, "block %d", 3)
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("cause lost from %v", err)
	}
	if got := err.Error(); got != "corrupted stream: block 3: unexpected EOF" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(fmt.Errorf("wrapped: %w", BadBlockSize(70000))); k != InvalidBlockSize {
		t.Errorf("got %v", k)
	}
	if k := KindOf(io.EOF); k != KindUnknown {
		t.Errorf("got %v", k)
	}
	if k := KindOf(nil); k != KindUnknown {
		t.Errorf("got %v", k)
	}
}
