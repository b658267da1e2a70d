// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terrace implements phylogenetic terraces.
//
// A terrace is the set of trees
// that induce the same subtrees
// on each partition of a presence-absence matrix.
// The package links a tree with its induced partition trees,
// generates all the trees of a terrace
// by inserting taxa into a common subtree,
// and checks if a tree belongs to a terrace.
package terrace

import (
	"slices"

	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/tree"
)

// A Terrace is a tree
// with its presence-absence matrix
// and the trees induced on each partition.
type Terrace struct {
	tree   *tree.Tree
	matrix *pam.Matrix
	parts  []*tree.Tree

	idx   *tree.Index
	maps  []*Map
	psets []*tree.SplitSet
}

// New creates a new terrace from a tree
// and a presence-absence matrix.
// The partition trees are the trees
// induced by the taxa of each partition.
//
// The tree and the matrix must have the same taxa.
func New(t *tree.Tree, m *pam.Matrix) (*Terrace, error) {
	if err := m.Validate(); err != nil {
		return nil, configErr(err, "invalid matrix")
	}
	return newTerrace(t, m, tree.NewIndex(m.Taxa()))
}

// NewWithParts creates a new terrace
// from a tree,
// a presence-absence matrix,
// and a tree for each partition.
// Each partition tree must contain the taxa
// present in that partition.
func NewWithParts(t *tree.Tree, m *pam.Matrix, parts []*tree.Tree) (*Terrace, error) {
	if err := m.Validate(); err != nil {
		return nil, configErr(err, "invalid matrix")
	}
	if len(parts) != m.NumParts() {
		return nil, configErr(nil, "got %d partition trees, want %d", len(parts), m.NumParts())
	}
	tr := &Terrace{
		tree:   t,
		matrix: m,
		idx:    tree.NewIndex(m.Taxa()),
	}
	if err := tr.checkTaxa(); err != nil {
		return nil, err
	}
	for p, pt := range parts {
		want := m.PartTaxa(p)
		got := pt.Terms()
		slices.Sort(want)
		if !slices.Equal(got, want) {
			return nil, configErr(nil, "partition %q: tree taxa differ from matrix taxa", m.Partition(p))
		}
	}
	tr.parts = parts
	return tr, nil
}

func newTerrace(t *tree.Tree, m *pam.Matrix, idx *tree.Index) (*Terrace, error) {
	tr := &Terrace{
		tree:   t,
		matrix: m,
		idx:    idx,
	}
	if err := tr.checkTaxa(); err != nil {
		return nil, err
	}

	tr.parts = make([]*tree.Tree, m.NumParts())
	for p := range tr.parts {
		taxa := m.PartTaxa(p)
		if len(taxa) == 0 {
			tr.parts[p] = tree.New()
			continue
		}
		pt, err := t.Restrict(taxa)
		if err != nil {
			return nil, configErr(err, "partition %q", m.Partition(p))
		}
		tr.parts[p] = pt
	}
	return tr, nil
}

// CheckTaxa checks that the tree and the matrix
// have the same taxa.
func (tr *Terrace) checkTaxa() error {
	for _, tx := range tr.matrix.Taxa() {
		if _, ok := tr.tree.TaxNode(tx); !ok {
			return configErr(nil, "taxon %q: in matrix but not in tree", tx)
		}
	}
	for _, tx := range tr.tree.Terms() {
		if tr.matrix.TaxonID(tx) < 0 {
			return configErr(nil, "taxon %q: in tree but not in matrix", tx)
		}
		if _, ok := tr.idx.Pos(tx); !ok {
			return configErr(nil, "taxon %q: unknown taxon", tx)
		}
	}
	return nil
}

// Sub returns a new terrace
// with the indicated taxa,
// using the tree induced by the taxa
// and the projection of the matrix
// on the taxa.
//
// The new terrace shares the taxon index
// of the parent terrace.
func (tr *Terrace) Sub(taxa []string) (*Terrace, error) {
	sm, err := tr.matrix.Sub(taxa)
	if err != nil {
		return nil, configErr(err, "sub-matrix")
	}
	st, err := tr.tree.Restrict(taxa)
	if err != nil {
		return nil, configErr(err, "sub-tree")
	}
	return newTerrace(st, sm, tr.idx)
}

// Tree returns the main tree of the terrace.
func (tr *Terrace) Tree() *tree.Tree {
	return tr.tree
}

// Matrix returns the presence-absence matrix
// of the terrace.
func (tr *Terrace) Matrix() *pam.Matrix {
	return tr.matrix
}

// NumParts returns the number of partitions.
func (tr *Terrace) NumParts() int {
	return len(tr.parts)
}

// Part returns the induced tree of a partition.
func (tr *Terrace) Part(p int) *tree.Tree {
	return tr.parts[p]
}

// Map returns the mapping of the main tree
// into a partition tree.
// It returns nil if the trees are not linked.
func (tr *Terrace) Map(p int) *Map {
	if tr.maps == nil {
		return nil
	}
	return tr.maps[p]
}

// Index returns the taxon index used by the terrace.
func (tr *Terrace) Index() *tree.Index {
	return tr.idx
}

// PartSplits returns the bipartitions
// of a partition tree.
func (tr *Terrace) partSplits(p int) (*tree.SplitSet, error) {
	if tr.psets == nil {
		tr.psets = make([]*tree.SplitSet, len(tr.parts))
	}
	if tr.psets[p] != nil {
		return tr.psets[p], nil
	}
	ss, err := tr.parts[p].Splits(tr.idx)
	if err != nil {
		return nil, configErr(err, "partition %q", tr.matrix.Partition(p))
	}
	tr.psets[p] = ss
	return ss, nil
}
