// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace

import (
	"context"
	"io"

	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/tree"
)

// Considered builds and links the considered terrace
// of a reference tree and a presence-absence matrix.
//
// If rooted is true,
// the tree must include the root pseudo-taxon
// (see tree.RootTaxon),
// and the taxon is added to the matrix
// as present in every partition.
func Considered(t *tree.Tree, m *pam.Matrix, rooted bool) (*Terrace, error) {
	if t == nil || t.Len() == 0 {
		return nil, configErr(nil, "undefined tree")
	}
	if m == nil {
		return nil, configErr(nil, "undefined matrix")
	}
	if rooted {
		var err error
		m, err = rootMatrix(m)
		if err != nil {
			return nil, err
		}
	}

	tr, err := New(t, m)
	if err != nil {
		return nil, err
	}
	if err := tr.LinkAll(); err != nil {
		return nil, err
	}
	return tr, nil
}

// RootMatrix returns a copy of a matrix
// with the root pseudo-taxon
// present in all partitions.
func rootMatrix(m *pam.Matrix) (*pam.Matrix, error) {
	if m.TaxonID(tree.RootTaxon) >= 0 {
		return m, nil
	}
	rm, err := m.Sub(m.Taxa())
	if err != nil {
		return nil, configErr(err, "rooted matrix")
	}
	rm.AddTaxon(tree.RootTaxon)
	for _, p := range rm.Partitions() {
		rm.Set(tree.RootTaxon, p, true)
	}
	return rm, nil
}

// Init returns the taxa of the initial tree
// and the insertion order of the remaining taxa,
// using the order policy of the configuration.
func (c Config) Init(m *pam.Matrix) (init, order []string, err error) {
	switch c.Order {
	case "", OrderHeuristic:
		init, order = m.InitTaxonOrder()
	case OrderMatrix:
		init, order = m.FirstPartOrder()
	default:
		return nil, nil, configErr(nil, "unknown taxon order %q", c.Order)
	}
	return init, order, nil
}

// Analysis generates the trees of the terrace
// defined by a reference tree and a presence-absence matrix,
// and writes them into w.
//
// The initial tree is the tree induced on a set of taxa
// shared by all the trees of the terrace
// (the taxa of a single partition,
// or at most three taxa),
// and the other taxa are inserted
// using the order given by the configuration.
func Analysis(ctx context.Context, t *tree.Tree, m *pam.Matrix, w io.Writer, cfg Config) (Result, error) {
	logger := cfg.logger()

	considered, err := Considered(t, m, cfg.Rooted)
	if err != nil {
		return Result{}, err
	}
	cm := considered.Matrix()
	logger.Info("considered terrace", "taxa", cm.NumTaxa(), "partitions", cm.NumParts(), "missing", cm.PercentMissing())

	init, order, err := cfg.Init(cm)
	if err != nil {
		return Result{}, err
	}
	logger.Debug("initial tree", "taxa", len(init), "insert", len(order))

	it, err := considered.Sub(init)
	if err != nil {
		return Result{}, err
	}
	if err := it.LinkAll(); err != nil {
		return Result{}, err
	}
	for p := 0; p < it.NumParts(); p++ {
		logger.Debug("initial map", "partition", it.Matrix().Partition(p), "taxa", it.Part(p).Len(), "edges", it.Map(p).Len())
	}
	if cfg.Maps != nil {
		if err := it.WriteMaps(cfg.Maps); err != nil {
			return Result{}, err
		}
	}

	pairs, err := NewPairs(it, considered)
	if err != nil {
		return Result{}, err
	}
	return it.Generate(ctx, considered, pairs, order, w, cfg)
}
