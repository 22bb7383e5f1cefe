// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package huffman

import (
	"github.com/elliotnunn/huffarc/internal/archerr"
	"github.com/elliotnunn/huffarc/internal/bitstream"
)

// maxCodeLength bounds a serialized path. A tree over 256 leaves is never deeper than 255.
const maxCodeLength = totalSymbols - 1

// Codebook maps each symbol to its path from the root, 0 for the zero side and 1 for the one side.
type Codebook [totalSymbols]bitstream.BitString

// unusedCode marks a symbol that never occurs in the data.
var unusedCode = bitstream.ParseBitString("0")

// Codes accumulates the path to every leaf.
func (t *Tree) Codes() *Codebook {
	cb := new(Codebook)
	var descend func(i int, path bitstream.BitString)
	descend = func(i int, path bitstream.BitString) {
		nd := &t.nodes[i]
		if nd.leaf {
			// Only a lone root leaf has an empty path, and a 256-symbol tree always splits at the root.
			// With a smaller alphabet the convention would be a one-bit code.
			if path.BitLength == 0 {
				path = unusedCode
			}
			cb[nd.sym] = path
			return
		}
		if nd.zero != none {
			descend(nd.zero, path.Append(0))
		}
		if nd.one != none {
			descend(nd.one, path.Append(1))
		}
	}
	descend(t.root, bitstream.BitString{})
	return cb
}

// NewCodebook builds the tree for ft and returns the codes ready to serialize.
//
// Unused symbols are given the one-bit code 0, which keeps the serialized codebook short.
// A used symbol can only have that same code by being the zero-side child of the root;
// if so, the first bit of every used code is inverted.
func NewCodebook(ft FrequencyTable) *Codebook {
	cb := Build(ft).Codes()

	clash := false
	for s := range totalSymbols {
		if ft[s] != 0 && cb[s].Equal(unusedCode) {
			clash = true
		}
	}
	for s := range totalSymbols {
		switch {
		case ft[s] == 0:
			cb[s] = unusedCode
		case clash:
			cb[s] = cb[s].Invert(0)
		}
	}
	return cb
}

// Used reports whether symbol s has a real code.
func (cb *Codebook) Used(s byte) bool {
	return !cb[s].Equal(unusedCode)
}

// EncodedLen is the number of bits needed to code p.
func (cb *Codebook) EncodedLen(p []byte) int {
	n := 0
	for _, c := range p {
		n += cb[c].BitLength
	}
	return n
}

// Serialize writes the 256 codes in symbol order.
// Each is written as the Elias gamma code of the integer whose binary form is 1 followed by the path:
// as many 0 bits as the path is long, a 1, then the path itself.
func (cb *Codebook) Serialize(w *bitstream.Writer) {
	for s := range totalSymbols {
		w.WriteZeros(cb[s].BitLength)
		w.WriteBit(1)
		w.WriteBitString(cb[s])
	}
}

// ReadCodebook reverses Serialize, stopping after exactly 256 codes.
func ReadCodebook(r *bitstream.Reader) (*Codebook, error) {
	cb := new(Codebook)
	for s := range totalSymbols {
		zeros := 0
		for {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, archerr.CorruptCause(err, "codebook entry %d", s)
			}
			if bit == 1 {
				break
			}
			zeros++
			if zeros > maxCodeLength {
				return nil, archerr.Corrupt("codebook entry %d longer than %d bits", s, maxCodeLength)
			}
		}
		if zeros == 0 {
			return nil, archerr.Corrupt("codebook entry %d is empty", s)
		}

		var path bitstream.BitString
		for range zeros {
			bit, err := r.ReadBit()
			if err != nil {
				return nil, archerr.CorruptCause(err, "codebook entry %d", s)
			}
			path = path.Append(bit)
		}
		cb[s] = path
	}
	return cb, nil
}

// NewDecodeTree rebuilds a tree holding only the used symbols.
// Codes that are not prefix-free make the codebook corrupt.
func NewDecodeTree(cb *Codebook) (*Tree, error) {
	t := &Tree{nodes: []node{{zero: none, one: none}}}
	for s := range totalSymbols {
		if !cb.Used(byte(s)) {
			continue
		}
		code := cb[s]
		at := t.root
		for i := range code.BitLength {
			if t.nodes[at].leaf {
				return nil, archerr.Corrupt("code for %02x passes through another symbol", s)
			}
			side := uint8(code.Bit(i))
			last := i == code.BitLength-1

			next, ok := t.Step(at, uint(side))
			if ok && last {
				return nil, archerr.Corrupt("code for %02x is a prefix of another", s)
			}
			if !ok {
				next = len(t.nodes)
				t.nodes = append(t.nodes, node{zero: none, one: none, side: side, leaf: last, sym: byte(s)})
				if side == 0 {
					t.nodes[at].zero = next
				} else {
					t.nodes[at].one = next
				}
			}
			at = next
		}
	}
	return t, nil
}

// Root is where every decode starts.
func (t *Tree) Root() int { return t.root }

// Step follows one bit down from node at. It fails if that child does not exist.
func (t *Tree) Step(at int, bit uint) (int, bool) {
	nd := &t.nodes[at]
	next := nd.zero
	if bit != 0 {
		next = nd.one
	}
	return next, next != none
}

// Symbol returns the symbol at a leaf.
func (t *Tree) Symbol(at int) (byte, bool) {
	nd := &t.nodes[at]
	return nd.sym, nd.leaf
}
