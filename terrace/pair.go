// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace

import (
	"github.com/js-arias/terrace/tree"
)

// A Pair is the pair of trees of a partition
// used while generating the trees of a terrace.
//
// The top tree is the partition tree
// of the considered terrace,
// and the low tree is the common subtree
// realized in the tree that is being expanded.
// The edges of the top tree are mapped into the low tree,
// so the edge of the low tree
// in which a taxon must be inserted
// can be read directly from the map.
type Pair struct {
	part int
	top  *tree.Tree
	low  *tree.Tree
	idx  *tree.Index

	topSides *tree.Sides
	lowSet   *tree.SplitSet
	m        *Map
}

// NewPairs creates the top-low partition tree pairs
// of each partition.
// The low trees are the partition trees
// of the initial terrace,
// and are shared with it.
// The top trees are the partition trees
// of the considered terrace.
func NewPairs(init, considered *Terrace) ([]*Pair, error) {
	if init.NumParts() != considered.NumParts() {
		return nil, configErr(nil, "initial terrace with %d partitions, want %d", init.NumParts(), considered.NumParts())
	}
	pairs := make([]*Pair, considered.NumParts())
	for p := range pairs {
		top := considered.parts[p]
		sd, err := top.Sides(top.First(), considered.idx)
		if err != nil {
			return nil, configErr(err, "partition %q", considered.matrix.Partition(p))
		}
		pr := &Pair{
			part:     p,
			top:      top,
			low:      init.parts[p],
			idx:      considered.idx,
			topSides: sd,
		}
		for _, tx := range pr.low.Terms() {
			if _, ok := top.TaxNode(tx); !ok {
				return nil, configErr(nil, "partition %q: taxon %q: not in partition tree", considered.matrix.Partition(p), tx)
			}
		}
		if err := pr.relink(); err != nil {
			return nil, err
		}
		pairs[p] = pr
	}
	return pairs, nil
}

// Relink recomputes the splits of the low tree
// and the mapping of the top tree into the low tree.
func (pr *Pair) relink() error {
	ls, err := pr.low.Splits(pr.idx)
	if err != nil {
		return configErr(err, "low tree of partition %d", pr.part)
	}
	m := linkEdges(pr.topSides, pr.top.NumEdges(), pr.low, ls)
	m.linkEmpty(pr.top)
	if err := m.check(); err != nil {
		return &Error{Kind: KindMapping, Msg: "top tree into low tree", Err: err}
	}
	pr.lowSet = ls
	pr.m = m
	return nil
}

// Free returns true if any insertion is valid
// for the partition,
// because the low tree has less than two terminals.
func (pr *Pair) Free() bool {
	return pr.low.Len() < 2
}

// Target returns the edge of the low tree
// in which a taxon should be inserted
// to be consistent with the top tree.
// It returns Empty if the taxon is not in the top tree,
// or if the low tree has no edges.
func (pr *Pair) Target(taxon string) int {
	n, ok := pr.top.TaxNode(taxon)
	if !ok || pr.Free() {
		return Empty
	}
	return pr.m.Target(pr.top.Adjacent(n)[0])
}

// Top returns the top tree of the pair.
func (pr *Pair) Top() *tree.Tree {
	return pr.top
}

// Low returns the low tree of the pair.
func (pr *Pair) Low() *tree.Tree {
	return pr.low
}
