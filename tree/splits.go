// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/cespare/xxhash/v2"
)

// An Index assigns a position to each taxon name,
// used to store taxon sets as bit sets.
type Index struct {
	pos   map[string]uint
	names []string
}

// NewIndex returns an index for the given taxa,
// using the order of the slice.
func NewIndex(taxa []string) *Index {
	idx := &Index{
		pos:   make(map[string]uint, len(taxa)),
		names: make([]string, 0, len(taxa)),
	}
	for _, tx := range taxa {
		idx.Add(tx)
	}
	return idx
}

// Add adds a taxon to the index
// and returns its position.
func (idx *Index) Add(name string) uint {
	if p, ok := idx.pos[name]; ok {
		return p
	}
	p := uint(len(idx.names))
	idx.pos[name] = p
	idx.names = append(idx.names, name)
	return p
}

// Len returns the number of taxa in the index.
func (idx *Index) Len() uint {
	return uint(len(idx.names))
}

// Pos returns the position of a taxon.
func (idx *Index) Pos(name string) (uint, bool) {
	p, ok := idx.pos[name]
	return p, ok
}

// Name returns the taxon name at a given position.
func (idx *Index) Name(p uint) string {
	return idx.names[p]
}

// Set returns a bit set with the given taxa.
// Taxa not in the index are ignored.
func (idx *Index) Set(taxa []string) *bitset.BitSet {
	b := bitset.New(idx.Len())
	for _, tx := range taxa {
		if p, ok := idx.pos[tx]; ok {
			b.Set(p)
		}
	}
	return b
}

// Sides stores, for a tree hanging from a root node,
// the set of taxa at the far side of each edge.
type Sides struct {
	// Root node of the traversal.
	Root int

	// Below is the node of each edge
	// farther from the root.
	Below []int

	// Set is the set of taxa in the subtree
	// of the node below each edge.
	Set []*bitset.BitSet
}

// Sides returns the taxon sets at the far side of each edge
// as seen from the root node.
// All the terminals of the tree must be in the index.
func (t *Tree) Sides(root int, idx *Index) (*Sides, error) {
	sd := &Sides{
		Root:  root,
		Below: make([]int, len(t.edges)),
		Set:   make([]*bitset.BitSet, len(t.edges)),
	}
	if root < 0 {
		return sd, nil
	}
	if _, err := t.sides(root, -1, idx, sd); err != nil {
		return nil, err
	}
	return sd, nil
}

func (t *Tree) sides(n, from int, idx *Index, sd *Sides) (*bitset.BitSet, error) {
	set := bitset.New(idx.Len())
	if tx := t.nodes[n].taxon; tx != "" {
		p, ok := idx.Pos(tx)
		if !ok {
			return nil, fmt.Errorf("taxon %q: not in index", tx)
		}
		set.Set(p)
	}
	for _, e := range t.nodes[n].edges {
		if e == from {
			continue
		}
		c := t.Other(e, n)
		cs, err := t.sides(c, e, idx, sd)
		if err != nil {
			return nil, err
		}
		sd.Below[e] = c
		sd.Set[e] = cs
		set.InPlaceUnion(cs)
	}
	return set, nil
}

// Splits returns the bipartitions of the tree.
// The terminals of the tree must be in the index.
func (t *Tree) Splits(idx *Index) (*SplitSet, error) {
	ss := NewSplitSet(idx.Set(t.Terms()))
	root := t.First()
	if root < 0 {
		return ss, nil
	}
	sd, err := t.Sides(root, idx)
	if err != nil {
		return nil, err
	}
	for e, s := range sd.Set {
		ss.Add(s, e)
	}
	return ss, nil
}

// A SplitSet is a collection of bipartitions
// over a fixed set of taxa.
//
// Each bipartition is stored in a normalized form:
// the side that does not include the first taxon of the set.
type SplitSet struct {
	universe *bitset.BitSet
	first    uint
	size     uint

	splits  map[uint64][]split
	n       int
	scratch []byte
}

type split struct {
	set  *bitset.BitSet
	edge int
}

// NewSplitSet returns an empty split set
// defined over the taxa of the universe set.
func NewSplitSet(universe *bitset.BitSet) *SplitSet {
	first, _ := universe.NextSet(0)
	return &SplitSet{
		universe: universe,
		first:    first,
		size:     universe.Count(),
		splits:   make(map[uint64][]split),
	}
}

// Universe returns the set of taxa
// in which the splits are defined.
func (ss *SplitSet) Universe() *bitset.BitSet {
	return ss.universe
}

// Len returns the number of splits in the set.
func (ss *SplitSet) Len() int {
	return ss.n
}

// Normalize returns the normalized form of a side,
// restricted to the universe of the split set.
// It returns false if the side is trivial
// (i.e., empty, or equal to the universe)
// after the restriction.
func (ss *SplitSet) Normalize(side *bitset.BitSet) (*bitset.BitSet, bool) {
	r := side.Intersection(ss.universe)
	c := r.Count()
	if c == 0 || c == ss.size {
		return nil, false
	}
	if r.Test(ss.first) {
		r = ss.universe.Difference(r)
	}
	return r, true
}

// Add adds a bipartition defined by one of its sides,
// and associates it with an edge ID.
// Trivial sides are ignored.
func (ss *SplitSet) Add(side *bitset.BitSet, edge int) {
	r, ok := ss.Normalize(side)
	if !ok {
		return
	}
	h := ss.hash(r)
	for _, s := range ss.splits[h] {
		if equal(s.set, r) {
			return
		}
	}
	ss.splits[h] = append(ss.splits[h], split{set: r, edge: edge})
	ss.n++
}

// Find returns the edge associated with a side
// of a bipartition.
func (ss *SplitSet) Find(side *bitset.BitSet) (int, bool) {
	r, ok := ss.Normalize(side)
	if !ok {
		return -1, false
	}
	for _, s := range ss.splits[ss.hash(r)] {
		if equal(s.set, r) {
			return s.edge, true
		}
	}
	return -1, false
}

// Equal returns true if both split sets
// are defined in the same taxa
// and contain the same bipartitions.
func (ss *SplitSet) Equal(o *SplitSet) bool {
	if ss.n != o.n {
		return false
	}
	if !equal(ss.universe, o.universe) {
		return false
	}
	for _, b := range ss.splits {
		for _, s := range b {
			if _, ok := o.Find(s.set); !ok {
				return false
			}
		}
	}
	return true
}

func (ss *SplitSet) hash(b *bitset.BitSet) uint64 {
	buf := ss.scratch[:0]
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(i))
	}
	ss.scratch = buf
	return xxhash.Sum64(buf)
}

// Equal compares two sets by their elements,
// ignoring the length of the underlying bit sets.
func equal(a, b *bitset.BitSet) bool {
	c := a.Count()
	return c == b.Count() && a.IntersectionCardinality(b) == c
}
