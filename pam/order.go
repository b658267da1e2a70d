// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pam

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

// MinInit is the minimum number of taxa
// in an initial tree
// (if the matrix has enough taxa).
const MinInit = 3

// InitTaxonOrder returns a set of taxa
// to build an initial tree,
// and the order in which the remaining taxa
// should be inserted into that tree.
//
// Every tree on a terrace must share the initial tree,
// so the initial set is the set of taxa
// of the largest partition
// (ties broken by partition order).
// If that partition has less than MinInit taxa,
// the set is completed up to MinInit taxa
// (an unrooted tree of three taxa is unique)
// using the insertion order.
//
// The taxa required to cover the partitions
// without taxa in the initial set
// are inserted first,
// picking on each step the taxon present
// in most uncovered partitions.
// The other taxa are ordered
// by decreasing number of partitions
// in which they are present,
// ties are broken by matrix order.
func (m *Matrix) InitTaxonOrder() (init, order []string) {
	if len(m.taxa) == 0 {
		return nil, nil
	}

	in := make([]bool, len(m.taxa))
	if p := m.largestPart(); p >= 0 {
		for i := range m.taxa {
			if m.m[i][p] {
				in[i] = true
			}
		}
	}
	for _, i := range m.byParts(in) {
		if count(in) >= MinInit {
			break
		}
		in[i] = true
	}

	for i, ok := range in {
		if ok {
			init = append(init, m.taxa[i])
		}
	}

	picked := slices.Clone(in)
	for _, i := range m.cover(in) {
		order = append(order, m.taxa[i])
		picked[i] = true
	}
	for _, i := range m.byParts(picked) {
		order = append(order, m.taxa[i])
	}
	return init, order
}

// FirstPartOrder returns the taxa of the first partition
// as the initial set,
// completed up to MinInit taxa in matrix order,
// and the remaining taxa in matrix order.
func (m *Matrix) FirstPartOrder() (init, order []string) {
	if len(m.taxa) == 0 {
		return nil, nil
	}
	in := make([]bool, len(m.taxa))
	for i := range m.taxa {
		if len(m.parts) > 0 && m.m[i][0] {
			in[i] = true
		}
	}
	for i := range m.taxa {
		if count(in) >= MinInit {
			break
		}
		in[i] = true
	}

	for i, tx := range m.taxa {
		if in[i] {
			init = append(init, tx)
			continue
		}
		order = append(order, tx)
	}
	return init, order
}

// LargestPart returns the partition with most taxa,
// or -1 if the matrix has no partitions.
func (m *Matrix) largestPart() int {
	largest, size := -1, -1
	for p := range m.parts {
		if c := len(m.PartTaxa(p)); c > size {
			largest, size = p, c
		}
	}
	return largest
}

// Cover returns the taxa,
// not in the set,
// required to have at least one taxon
// of each partition.
// On each step it picks the taxon
// present in most uncovered partitions,
// ties are broken by matrix order.
func (m *Matrix) cover(in []bool) []int {
	covered := make([]bool, len(m.parts))
	for i, ok := range in {
		if !ok {
			continue
		}
		for _, p := range m.TaxonParts(i) {
			covered[p] = true
		}
	}

	used := slices.Clone(in)
	var picked []int
	for {
		best, bc := -1, 0
		for i := range m.taxa {
			if used[i] {
				continue
			}
			c := 0
			for _, p := range m.TaxonParts(i) {
				if !covered[p] {
					c++
				}
			}
			if c > bc {
				best, bc = i, c
			}
		}
		if best < 0 {
			return picked
		}
		used[best] = true
		picked = append(picked, best)
		for _, p := range m.TaxonParts(best) {
			covered[p] = true
		}
	}
}

// ByParts returns the taxa not in the set
// ordered by decreasing number of partitions.
func (m *Matrix) byParts(in []bool) []int {
	var rest []int
	for i, ok := range in {
		if !ok {
			rest = append(rest, i)
		}
	}
	slices.SortStableFunc(rest, func(a, b int) int {
		return cmp.Compare(len(m.TaxonParts(b)), len(m.TaxonParts(a)))
	})
	return rest
}

func count(in []bool) int {
	var c int
	for _, ok := range in {
		if ok {
			c++
		}
	}
	return c
}

// WriteOrder writes a report
// of the initial taxa and the insertion order
// returned by InitTaxonOrder.
func (m *Matrix) WriteOrder(w io.Writer) error {
	init, order := m.InitTaxonOrder()
	if _, err := fmt.Fprintf(w, "Initial taxa: %d\n", len(init)); err != nil {
		return err
	}
	for _, tx := range init {
		fmt.Fprintf(w, "\t%s\t%d\n", tx, len(m.TaxonParts(m.TaxonID(tx))))
	}

	covered := make(map[int]bool)
	for _, tx := range init {
		for _, p := range m.TaxonParts(m.TaxonID(tx)) {
			covered[p] = true
		}
	}
	fmt.Fprintf(w, "Covered partitions: %d of %d\n", len(covered), len(m.parts))

	fmt.Fprintf(w, "Taxa to insert: %d\n", len(order))
	for i, tx := range order {
		fmt.Fprintf(w, "\t%d\t%s\t%d\n", i, tx, len(m.TaxonParts(m.TaxonID(tx))))
	}
	_, err := fmt.Fprintf(w, "\n")
	return err
}
