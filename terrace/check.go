// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace

import (
	"io"
	"slices"

	"github.com/js-arias/terrace/tree"
)

// Check returns true if a candidate tree
// belongs to the terrace,
// i.e. if for each partition,
// the tree induced by the candidate
// has the same bipartitions
// as the partition tree.
//
// The candidate must have the same taxa
// as the main tree of the terrace.
// Rooted candidates must be normalized
// in the same way as the main tree.
func (tr *Terrace) Check(c *tree.Tree) (bool, error) {
	if got, want := c.Terms(), tr.tree.Terms(); !slices.Equal(got, want) {
		return false, configErr(nil, "candidate tree with %d taxa, want %d: taxa differ", len(got), len(want))
	}

	for p := range tr.parts {
		taxa := tr.matrix.PartTaxa(p)
		if len(taxa) < 4 {
			// no informative bipartitions
			continue
		}
		ps, err := tr.partSplits(p)
		if err != nil {
			return false, err
		}
		rt, err := c.Restrict(taxa)
		if err != nil {
			return false, configErr(err, "partition %q", tr.matrix.Partition(p))
		}
		cs, err := rt.Splits(tr.idx)
		if err != nil {
			return false, configErr(err, "partition %q", tr.matrix.Partition(p))
		}
		if !cs.Equal(ps) {
			return false, nil
		}
	}
	return true, nil
}

// CheckSet checks a set of query trees.
// Trees on the terrace are written into on,
// and trees outside the terrace are written into off,
// in Newick format.
// Any of the writers can be nil.
//
// It returns the result for each query.
func (tr *Terrace) CheckSet(queries []*tree.Tree, on, off io.Writer) ([]bool, error) {
	res := make([]bool, len(queries))
	for i, q := range queries {
		ok, err := tr.Check(q)
		if err != nil {
			return nil, err
		}
		res[i] = ok

		w := off
		if ok {
			w = on
		}
		if w == nil {
			continue
		}
		if err := q.WriteNewick(w); err != nil {
			return nil, &Error{Kind: KindIO, Msg: "while writing tree", Err: err}
		}
	}
	return res, nil
}
