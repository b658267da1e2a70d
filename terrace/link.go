// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/js-arias/terrace/tree"
)

// Mapping states of an edge.
const (
	// The edge has not been mapped.
	Unmapped = -2

	// The edge has an empty image:
	// one side of the edge has no taxa of the partition.
	Empty = -1
)

// A Map is the mapping of the edges of a tree
// into the edges of a partition tree.
type Map struct {
	// Image is the partition edge
	// with the same bipartition as each edge.
	image []int

	// Enclosing is,
	// for edges with an empty image,
	// the partition edge in which the empty side hangs,
	// or Empty if it hangs from a partition node.
	enclosing []int

	// Back is the list of edges
	// mapped into each partition edge.
	back [][]int

	// values used by the empty image pass
	below []int
	count []uint
	size  uint
}

// Image returns the image of an edge
// in the partition tree.
// It returns Empty if the edge has an empty image.
func (m *Map) Image(e int) int {
	return m.image[e]
}

// Enclosing returns the partition edge
// in which an edge with an empty image hangs.
// It returns Empty if the edge hangs on a node,
// or if the partition tree has no edges.
func (m *Map) Enclosing(e int) int {
	return m.enclosing[e]
}

// Target returns the partition edge
// that would receive a terminal
// attached to an edge:
// its image,
// or the enclosing edge if the image is empty.
func (m *Map) Target(e int) int {
	if img := m.image[e]; img >= 0 {
		return img
	}
	return m.enclosing[e]
}

// Back returns the edges of the tree
// mapped into a partition edge.
func (m *Map) Back(pe int) []int {
	return m.back[pe]
}

// Len returns the number of mapped edges.
func (m *Map) Len() int {
	return len(m.image)
}

func newMap(edges, partEdges int) *Map {
	m := &Map{
		image:     make([]int, edges),
		enclosing: make([]int, edges),
		back:      make([][]int, partEdges),
	}
	for e := range m.image {
		m.image[e] = Unmapped
		m.enclosing[e] = Unmapped
	}
	return m
}

// LinkEdges maps each edge of a tree
// into the edge of a partition tree
// with the same bipartition,
// or marks it as an edge with an empty image.
func linkEdges(sd *tree.Sides, edges int, part *tree.Tree, ps *tree.SplitSet) *Map {
	m := newMap(edges, part.NumEdges())
	if part.Len() < 2 {
		for e := range m.image {
			m.image[e] = Empty
			m.enclosing[e] = Empty
		}
		return m
	}

	u := ps.Universe()
	m.size = u.Count()
	m.below = sd.Below
	m.count = make([]uint, edges)
	for e := range m.image {
		m.linkEdge(e, sd, ps)
	}
	return m
}

// LinkEdge maps a single edge
// using the taxa at the far side of the edge.
func (m *Map) linkEdge(e int, sd *tree.Sides, ps *tree.SplitSet) {
	c := sd.Set[e].IntersectionCardinality(ps.Universe())
	m.count[e] = c
	if c == 0 || c == m.size {
		m.image[e] = Empty
		return
	}
	pe, ok := ps.Find(sd.Set[e])
	if !ok {
		return
	}
	m.image[e] = pe
	m.back[pe] = append(m.back[pe], e)
}

// LinkEmpty sets the enclosing edge
// of each edge with an empty image.
func (m *Map) linkEmpty(t *tree.Tree) {
	if m.count == nil {
		return
	}
	for e, img := range m.image {
		if img != Empty {
			continue
		}
		m.resolve(t, e)
	}
	m.below = nil
	m.count = nil
}

// Resolve returns the enclosing edge of an edge
// with an empty image.
// It walks from the empty side of the edge
// toward the partition taxa,
// until it finds a node that has more than one direction
// with taxa of the partition.
func (m *Map) resolve(t *tree.Tree, e int) int {
	if enc := m.enclosing[e]; enc != Unmapped {
		return enc
	}

	// v is the node at the non-empty side
	v := m.below[e]
	if m.count[e] == 0 {
		v = t.Other(e, v)
	}

	var dirs []int
	for _, f := range t.Adjacent(v) {
		if f == e {
			continue
		}
		if m.hasTaxa(f, v) {
			dirs = append(dirs, f)
		}
	}

	enc := Empty
	switch len(dirs) {
	case 0:
		enc = Unmapped
	case 1:
		enc = m.resolve(t, dirs[0])
	case 2:
		a, b := m.image[dirs[0]], m.image[dirs[1]]
		if a != b || a < 0 {
			enc = Unmapped
			break
		}
		enc = a
	}
	m.enclosing[e] = enc
	return enc
}

// HasTaxa returns true if the side of the edge f
// opposite to the node v
// has taxa of the partition.
func (m *Map) hasTaxa(f, v int) bool {
	if m.below[f] == v {
		return m.count[f] < m.size
	}
	return m.count[f] > 0
}

// Extend updates the map
// after a terminal that is not in the partition
// was inserted into the edge e of the tree,
// adding the far edge fe and the terminal edge le.
func (m *Map) extend(e, fe, le int) {
	img := m.image[e]
	enc := m.enclosing[e]
	target := m.Target(e)

	m.image = append(m.image, img, Empty)
	m.enclosing = append(m.enclosing, enc, target)
	if img >= 0 {
		m.back[img] = append(m.back[img], fe)
	}
}

// Shrink undoes the last extension of the map.
func (m *Map) shrink() {
	n := len(m.image) - 2
	if img := m.image[n]; img >= 0 {
		m.back[img] = m.back[img][:len(m.back[img])-1]
	}
	m.image = m.image[:n]
	m.enclosing = m.enclosing[:n]
}

// Check returns an error
// if an edge is not mapped.
func (m *Map) check() error {
	for e, img := range m.image {
		if img == Unmapped {
			return fmt.Errorf("edge %d: without image", e)
		}
		if img == Empty && m.enclosing[e] == Unmapped {
			return fmt.Errorf("edge %d: empty image without enclosing edge", e)
		}
	}
	return nil
}

// Link maps each edge of the main tree
// into the edges of the partition trees,
// using the bipartitions induced by each edge
// on the taxa of the partition.
//
// Edges in which one side has no taxa of a partition
// are marked with an empty image.
// Those edges are resolved by LinkEmptyImage.
func (tr *Terrace) Link() error {
	root := tr.tree.First()
	sd, err := tr.tree.Sides(root, tr.idx)
	if err != nil {
		return configErr(err, "main tree")
	}

	tr.maps = make([]*Map, len(tr.parts))
	for p := range tr.parts {
		if err := tr.linkPart(p, sd); err != nil {
			return err
		}
	}
	return nil
}

func (tr *Terrace) linkPart(p int, sd *tree.Sides) error {
	ps, err := tr.partSplits(p)
	if err != nil {
		return err
	}
	tr.maps[p] = linkEdges(sd, tr.tree.NumEdges(), tr.parts[p], ps)
	return nil
}

// LinkEmptyImage resolves the edges with an empty image,
// by setting the partition edge
// in which the empty side of the edge hangs.
func (tr *Terrace) LinkEmptyImage() error {
	if tr.maps == nil {
		return configErr(nil, "trees not linked")
	}
	for _, m := range tr.maps {
		m.linkEmpty(tr.tree)
	}
	return nil
}

// CheckMapping returns an error of KindMapping
// if any edge of the main tree
// is not mapped in a partition tree.
func (tr *Terrace) CheckMapping() error {
	if tr.maps == nil {
		return &Error{Kind: KindMapping, Msg: "trees not linked"}
	}
	for p, m := range tr.maps {
		if err := m.check(); err != nil {
			return &Error{
				Kind: KindMapping,
				Msg:  fmt.Sprintf("partition %q", tr.matrix.Partition(p)),
				Err:  err,
			}
		}
	}
	return nil
}

// LinkAll runs both linking passes
// and checks the mapping.
func (tr *Terrace) LinkAll() error {
	if err := tr.Link(); err != nil {
		return err
	}
	if err := tr.LinkEmptyImage(); err != nil {
		return err
	}
	return tr.CheckMapping()
}

// WriteMaps writes a report of the edge mapping
// of each partition tree:
// the image and enclosing edge of each edge
// of the main tree,
// and the back map of each partition edge.
func (tr *Terrace) WriteMaps(w io.Writer) error {
	if tr.maps == nil {
		return &Error{Kind: KindMapping, Msg: "trees not linked"}
	}

	bw := bufio.NewWriter(w)
	for p, m := range tr.maps {
		fmt.Fprintf(bw, "partition %s: %d taxa, %d edges\n", tr.matrix.Partition(p), tr.parts[p].Len(), tr.parts[p].NumEdges())
		for e := range m.image {
			fmt.Fprintf(bw, "\tedge %d: image %s, enclosing %s\n", e, edgeLabel(m.image[e]), edgeLabel(m.enclosing[e]))
		}
		for pe, back := range m.back {
			fmt.Fprintf(bw, "\tback %d: %v\n", pe, back)
		}
	}
	if err := bw.Flush(); err != nil {
		return &Error{Kind: KindIO, Msg: "while writing maps", Err: err}
	}
	return nil
}

func edgeLabel(e int) string {
	switch e {
	case Empty:
		return "empty"
	case Unmapped:
		return "unmapped"
	}
	return strconv.Itoa(e)
}
