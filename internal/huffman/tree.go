// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package huffman builds the per-archive prefix code over all 256 byte values
// and serializes it as a gamma-coded codebook.
package huffman

import (
	"fmt"
	"slices"
	"strings"
)

const totalSymbols = 256

// FrequencyTable counts each byte value.
type FrequencyTable [totalSymbols]uint64

// Count is a pure function of p.
func Count(p []byte) FrequencyTable {
	var ft FrequencyTable
	for _, c := range p {
		ft[c]++
	}
	return ft
}

// Used is the number of byte values that occur at least once.
func (ft *FrequencyTable) Used() int {
	n := 0
	for _, f := range ft {
		if f != 0 {
			n++
		}
	}
	return n
}

const none = -1

type node struct {
	zero, one int // child indices, or none
	leaf      bool
	sym       uint8
	freq      uint64
	side      uint8 // 0 if the left child of its parent, 1 if the right
}

// Tree is an arena of nodes addressed by index. It never changes after construction.
type Tree struct {
	nodes []node
	root  int
}

// Build merges all 256 symbols, zero-frequency ones included, into one tree.
//
// The working list starts as one leaf per symbol in symbol order. Each round
// stable-sorts it by frequency, merges the first two (first on the 0 side),
// and appends the merged node at the end, so equal frequencies resolve in
// favour of whatever was earlier in the list.
func Build(ft FrequencyTable) *Tree {
	t := &Tree{nodes: make([]node, 0, 2*totalSymbols-1)}
	work := make([]int, 0, totalSymbols)
	for s := range totalSymbols {
		t.nodes = append(t.nodes, node{zero: none, one: none, leaf: true, sym: uint8(s), freq: ft[s]})
		work = append(work, s)
	}

	for len(work) > 1 {
		slices.SortStableFunc(work, func(a, b int) int {
			fa, fb := t.nodes[a].freq, t.nodes[b].freq
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		})

		zero, one := work[0], work[1]
		t.nodes[zero].side = 0
		t.nodes[one].side = 1
		t.nodes = append(t.nodes, node{
			zero: zero,
			one:  one,
			freq: t.nodes[zero].freq + t.nodes[one].freq,
		})
		work = append(work[2:], len(t.nodes)-1)
	}

	t.root = work[0]
	return t
}

// Leaves counts the leaf nodes reachable from the root.
func (t *Tree) Leaves() int {
	n := 0
	t.walk(t.root, func(i int) {
		if t.nodes[i].leaf {
			n++
		}
	})
	return n
}

// Depth is the length of the longest code.
func (t *Tree) Depth() int {
	var depth func(i int) int
	depth = func(i int) int {
		nd := &t.nodes[i]
		if nd.leaf {
			return 0
		}
		d := 0
		if nd.zero != none {
			d = max(d, depth(nd.zero))
		}
		if nd.one != none {
			d = max(d, depth(nd.one))
		}
		return d + 1
	}
	return depth(t.root)
}

func (t *Tree) walk(i int, f func(int)) {
	if i == none {
		return
	}
	f(i)
	t.walk(t.nodes[i].zero, f)
	t.walk(t.nodes[i].one, f)
}

// String lists the arena for debugging.
func (t *Tree) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "TREE root=%d {\n", t.root)
	for i, nd := range t.nodes {
		if nd.leaf {
			fmt.Fprintf(&b, "\t%d: @%02x freq=%d side=%d\n", i, nd.sym, nd.freq, nd.side)
		} else {
			fmt.Fprintf(&b, "\t%d: (0)=%d (1)=%d freq=%d side=%d\n", i, nd.zero, nd.one, nd.freq, nd.side)
		}
	}
	b.WriteString("}")
	return b.String()
}
