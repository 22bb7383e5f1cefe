// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package bitstream

import (
	"encoding/hex"
	"errors"
	"io"
	"math/big"
	"strings"
	"testing"

	"github.com/elliotnunn/huffarc/internal/archerr"
)

func TestPacking(t *testing.T) {
	cases := []struct {
		bits string
		want string
	}{
		{"", "01"},
		{"0", "02"},
		{"1", "03"},
		{"0000000", "80"},
		{"1111111", "ff"},
		{"00000000", "0100"},
		{"0000000000000001", "010001"},
		{"101", "0d"},
	}

	for _, c := range cases {
		t.Run(c.bits, func(t *testing.T) {
			var w Writer
			w.WriteBitString(ParseBitString(c.bits))
			got := hex.EncodeToString(w.Bytes())
			if got != c.want {
				t.Errorf("packed %q: wanted %s, got %s", c.bits, c.want, got)
			}
		})
	}
}

// The packed form must agree with treating "1"+bits as a binary number.
func TestPackingIsBigEndianInteger(t *testing.T) {
	for _, s := range []string{"0", "0110", "000000000111", strings.Repeat("01", 37), strings.Repeat("0", 64)} {
		var w Writer
		w.WriteBitString(ParseBitString(s))

		n, ok := new(big.Int).SetString("1"+s, 2)
		if !ok {
			t.Fatal("bad test string")
		}
		want := n.Bytes()
		if got := w.Bytes(); hex.EncodeToString(got) != hex.EncodeToString(want) {
			t.Errorf("%q: wanted %x, got %x", s, want, got)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for n := range 40 {
		var w Writer
		var want strings.Builder
		for i := range n {
			bit := uint(i*7/3) & 1
			w.WriteBit(bit)
			want.WriteByte('0' + byte(bit))
		}
		if w.Len() != n {
			t.Fatalf("Len() = %d, wanted %d", w.Len(), n)
		}

		r, err := NewReader(w.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if r.Remaining() != n {
			t.Errorf("%d bits: Remaining() = %d", n, r.Remaining())
		}

		var got strings.Builder
		for r.Remaining() > 0 {
			bit, err := r.ReadBit()
			if err != nil {
				t.Fatal(err)
			}
			got.WriteByte('0' + byte(bit))
		}
		if got.String() != want.String() {
			t.Errorf("wanted %s, got %s", want.String(), got.String())
		}
		if _, err := r.ReadBit(); err != io.ErrUnexpectedEOF {
			t.Errorf("read past end: got %v", err)
		}
	}
}

func TestReadBits(t *testing.T) {
	var w Writer
	w.WriteBits(0xbeef, 16)
	w.WriteBits(5, 3)
	w.WriteBits(0xffffffffffffffff, 64)

	r, err := NewReader(w.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if v, err := r.ReadBits(16); v != 0xbeef || err != nil {
		t.Errorf("got %#x, %v", v, err)
	}
	if v, err := r.ReadBits(3); v != 5 || err != nil {
		t.Errorf("got %d, %v", v, err)
	}
	if r.Pos() != 19 {
		t.Errorf("Pos() = %d", r.Pos())
	}
	if _, err := r.ReadBits(65); err != io.ErrUnexpectedEOF {
		t.Errorf("overlong read: got %v", err)
	}
	if r.Pos() != 19 {
		t.Errorf("failed read consumed bits")
	}
	if v, err := r.ReadBits(64); v != 0xffffffffffffffff || err != nil {
		t.Errorf("got %#x, %v", v, err)
	}
}

func TestNoSentinel(t *testing.T) {
	for _, p := range [][]byte{nil, {0}, {0, 0xff}} {
		_, err := NewReader(p)
		if !errors.Is(err, archerr.ErrCorruptedStream) {
			t.Errorf("NewReader(%x): got %v", p, err)
		}
	}
}

func TestBitString(t *testing.T) {
	s := ParseBitString("011")
	if s.String() != "011" || s.BitLength != 3 {
		t.Errorf("got %q (%d bits)", s.String(), s.BitLength)
	}

	longer := s.Append(1)
	if s.String() != "011" {
		t.Errorf("Append modified receiver: %q", s.String())
	}
	if longer.String() != "0111" {
		t.Errorf("got %q", longer.String())
	}

	if inv := longer.Invert(0); inv.String() != "1111" || longer.String() != "0111" {
		t.Errorf("Invert: got %q from %q", inv.String(), longer.String())
	}

	if !s.Equal(ParseBitString("011")) || s.Equal(ParseBitString("0110")) || s.Equal(ParseBitString("010")) {
		t.Error("Equal is wrong")
	}

	nine := ParseBitString("101010101")
	if len(nine.Packed) != 2 || nine.Packed[1] != 0x80 {
		t.Errorf("got packed %x", nine.Packed)
	}
}
