// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"errors"
	"fmt"
)

// Errors returned when building or restricting a tree.
var (
	ErrDupTaxon     = errors.New("repeated taxon")
	ErrEmptySubset  = errors.New("empty taxon subset")
	ErrUnknownTaxon = errors.New("taxon not in tree")
)

// Restrict returns the tree induced by a subset of taxa,
// i.e., the tree with only the terminals in the subset,
// in which inner nodes that have less than three neighbors
// after removing the other terminals
// are contracted.
//
// The subset must not be empty,
// and all taxa must be in the tree.
func (t *Tree) Restrict(subset []string) (*Tree, error) {
	if len(subset) == 0 {
		return nil, ErrEmptySubset
	}
	keep := make([]bool, len(t.nodes))
	for _, tx := range subset {
		id, ok := t.taxa[tx]
		if !ok {
			return nil, fmt.Errorf("taxon %q: %w", tx, ErrUnknownTaxon)
		}
		keep[id] = true
	}

	root := -1
	for i, k := range keep {
		if k {
			root = i
			break
		}
	}

	// number of kept terminals at each node,
	// counting towards the leaves
	count := make([]int, len(t.nodes))
	t.countKept(root, -1, keep, count)

	nt := New()
	r, _ := nt.AddNode(t.nodes[root].taxon)
	for _, e := range t.nodes[root].edges {
		c := t.Other(e, root)
		if count[c] == 0 {
			continue
		}
		if err := t.copyKept(nt, c, root, r, count); err != nil {
			return nil, err
		}
	}
	return nt, nil
}

func (t *Tree) countKept(n, dad int, keep []bool, count []int) {
	if keep[n] {
		count[n] = 1
	}
	for _, e := range t.nodes[n].edges {
		c := t.Other(e, n)
		if c == dad {
			continue
		}
		t.countKept(c, n, keep, count)
		count[n] += count[c]
	}
}

// CopyKept copies the node n
// (reached from dad in the source tree)
// into the new tree,
// as a descendant of the node parent.
func (t *Tree) copyKept(nt *Tree, n, dad, parent int, count []int) error {
	if t.nodes[n].taxon != "" {
		id, err := nt.AddNode(t.nodes[n].taxon)
		if err != nil {
			return err
		}
		nt.Connect(parent, id)
		return nil
	}

	var desc []int
	for _, e := range t.nodes[n].edges {
		c := t.Other(e, n)
		if c == dad || count[c] == 0 {
			continue
		}
		desc = append(desc, c)
	}
	if len(desc) == 1 {
		return t.copyKept(nt, desc[0], n, parent, count)
	}

	id, _ := nt.AddNode("")
	nt.Connect(parent, id)
	for _, c := range desc {
		if err := t.copyKept(nt, c, n, id, count); err != nil {
			return err
		}
	}
	return nil
}
