// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements unrooted phylogenetic trees
// stored as an arena of nodes and edges.
//
// Nodes and edges are identified by integers,
// so annotations from other structures
// (for example the mapping between a tree
// and the trees induced on a partition)
// can be kept as plain tables indexed by edge ID.
package tree

import (
	"fmt"
	"slices"
	"strings"
)

// RootTaxon is the name of the pseudo-terminal
// added at the root of a rooted tree
// to represent it as an unrooted tree.
const RootTaxon = "__root__"

// A Tree is an unrooted phylogenetic tree.
type Tree struct {
	nodes []node
	edges []edge
	taxa  map[string]int

	// stack of leaf insertions,
	// used to undo them in reverse order
	hist []insertion
}

type node struct {
	taxon string
	edges []int
}

type edge struct {
	a, b int
}

// An insertion stores the information
// required to undo a leaf insertion.
type insertion struct {
	// edge that was subdivided,
	// or -1 if the leaf was attached without splitting an edge.
	edge int

	// the node at the b side of the subdivided edge.
	far int
}

// New returns a new empty tree.
func New() *Tree {
	return &Tree{
		taxa: make(map[string]int),
	}
}

// AddNode adds a new node to the tree
// and returns its ID.
// If the taxon name is not empty,
// the node is a terminal.
func (t *Tree) AddNode(taxon string) (int, error) {
	taxon = strings.TrimSpace(taxon)
	if taxon != "" {
		if _, dup := t.taxa[taxon]; dup {
			return -1, fmt.Errorf("taxon %q: %w", taxon, ErrDupTaxon)
		}
	}
	id := len(t.nodes)
	t.nodes = append(t.nodes, node{taxon: taxon})
	if taxon != "" {
		t.taxa[taxon] = id
	}
	return id, nil
}

// Connect adds an edge between two nodes
// and returns the ID of the new edge.
func (t *Tree) Connect(a, b int) int {
	id := len(t.edges)
	t.edges = append(t.edges, edge{a: a, b: b})
	t.nodes[a].edges = append(t.nodes[a].edges, id)
	t.nodes[b].edges = append(t.nodes[b].edges, id)
	return id
}

// Adjacent returns the edges incident to a node.
// The returned slice should not be modified.
func (t *Tree) Adjacent(n int) []int {
	return t.nodes[n].edges
}

// Ends returns the two nodes of an edge.
func (t *Tree) Ends(e int) (a, b int) {
	return t.edges[e].a, t.edges[e].b
}

// Other returns the node of an edge
// that is not the given node.
func (t *Tree) Other(e, n int) int {
	if t.edges[e].a == n {
		return t.edges[e].b
	}
	return t.edges[e].a
}

// IsTerm returns true if the node is a terminal.
func (t *Tree) IsTerm(n int) bool {
	return t.nodes[n].taxon != ""
}

// Len returns the number of terminals in the tree.
func (t *Tree) Len() int {
	return len(t.taxa)
}

// NumEdges returns the number of edges of the tree.
func (t *Tree) NumEdges() int {
	return len(t.edges)
}

// NumNodes returns the number of nodes of the tree.
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// TaxNode returns the ID of the node
// of a given taxon.
func (t *Tree) TaxNode(name string) (int, bool) {
	id, ok := t.taxa[name]
	return id, ok
}

// Taxon returns the taxon name of a node.
// Inner nodes return an empty string.
func (t *Tree) Taxon(n int) string {
	return t.nodes[n].taxon
}

// Terms returns the names of the terminals
// in alphabetical order.
func (t *Tree) Terms() []string {
	terms := make([]string, 0, len(t.taxa))
	for tx := range t.taxa {
		terms = append(terms, tx)
	}
	slices.Sort(terms)
	return terms
}

// First returns the terminal node
// with the lowest ID,
// or -1 if the tree is empty.
//
// It is the node used as the fixed root
// for traversals of the tree.
func (t *Tree) First() int {
	for i, n := range t.nodes {
		if n.taxon != "" {
			return i
		}
	}
	return -1
}

// Clone returns a copy of the tree.
// The undo history is not copied.
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		nodes: make([]node, len(t.nodes)),
		edges: slices.Clone(t.edges),
		taxa:  make(map[string]int, len(t.taxa)),
	}
	for i, n := range t.nodes {
		nt.nodes[i] = node{
			taxon: n.taxon,
			edges: slices.Clone(n.edges),
		}
	}
	for tx, id := range t.taxa {
		nt.taxa[tx] = id
	}
	return nt
}

// Preorder visits all the edges of the tree
// in pre-order,
// starting at the indicated root node.
// For each edge
// the function receives the edge ID,
// the node closer to the root (the dad),
// and the node farther from the root.
func (t *Tree) Preorder(root int, fn func(e, dad, n int)) {
	if root < 0 {
		return
	}
	t.preorder(root, -1, -1, fn)
}

func (t *Tree) preorder(n, dad, from int, fn func(e, dad, n int)) {
	for _, e := range t.nodes[n].edges {
		if e == from {
			continue
		}
		c := t.Other(e, n)
		fn(e, n, c)
		t.preorder(c, n, e, fn)
	}
}

// EdgeOrder returns the edges of the tree
// in pre-order from the given root.
func (t *Tree) EdgeOrder(root int) []int {
	order := make([]int, 0, len(t.edges))
	t.Preorder(root, func(e, _, _ int) {
		order = append(order, e)
	})
	return order
}

// InsertLeaf adds a new terminal to the tree,
// attached to the middle of the indicated edge,
// and returns the ID of the new terminal node.
//
// The edge is subdivided by a new inner node:
// the original edge ID keeps the side of its first node,
// and two new edges are added,
// one to the far side of the original edge,
// and the other to the new terminal.
//
// If the tree has less than two terminals,
// the edge must be -1
// and the terminal is connected directly.
func (t *Tree) InsertLeaf(e int, taxon string) (int, error) {
	if taxon == "" {
		return -1, fmt.Errorf("inserting an unnamed terminal")
	}
	if len(t.taxa) < 2 {
		if e != -1 {
			return -1, fmt.Errorf("inserting %q: tree has no edges", taxon)
		}
		id, err := t.AddNode(taxon)
		if err != nil {
			return -1, err
		}
		if id > 0 {
			t.Connect(t.First(), id)
		}
		t.hist = append(t.hist, insertion{edge: -1, far: -1})
		return id, nil
	}
	if e < 0 || e >= len(t.edges) {
		return -1, fmt.Errorf("inserting %q: invalid edge %d", taxon, e)
	}

	leaf, err := t.AddNode(taxon)
	if err != nil {
		return -1, err
	}
	w, _ := t.AddNode("")

	far := t.edges[e].b
	t.edges[e].b = w
	t.nodes[w].edges = append(t.nodes[w].edges, e)

	fe := len(t.edges)
	t.edges = append(t.edges, edge{a: w, b: far})
	t.nodes[w].edges = append(t.nodes[w].edges, fe)
	replaceEdge(t.nodes[far].edges, e, fe)

	t.Connect(w, leaf)
	t.hist = append(t.hist, insertion{edge: e, far: far})
	return leaf, nil
}

// RemoveLastLeaf removes the last terminal
// added with InsertLeaf,
// restoring the tree to its state
// before the insertion.
func (t *Tree) RemoveLastLeaf() error {
	if len(t.hist) == 0 {
		return fmt.Errorf("no insertion to undo")
	}
	ins := t.hist[len(t.hist)-1]
	t.hist = t.hist[:len(t.hist)-1]

	if ins.edge < 0 {
		leaf := len(t.nodes) - 1
		delete(t.taxa, t.nodes[leaf].taxon)
		if len(t.nodes[leaf].edges) > 0 {
			e := t.nodes[leaf].edges[0]
			other := t.Other(e, leaf)
			t.nodes[other].edges = removeEdge(t.nodes[other].edges, e)
			t.edges = t.edges[:len(t.edges)-1]
		}
		t.nodes = t.nodes[:len(t.nodes)-1]
		return nil
	}

	// nodes: ..., leaf, w
	// edges: ..., far edge, leaf edge
	w := len(t.nodes) - 1
	leaf := w - 1
	fe := len(t.edges) - 2
	replaceEdge(t.nodes[ins.far].edges, fe, ins.edge)
	t.edges[ins.edge].b = ins.far

	delete(t.taxa, t.nodes[leaf].taxon)
	t.nodes = t.nodes[:leaf]
	t.edges = t.edges[:fe]
	return nil
}

func replaceEdge(edges []int, old, e int) {
	for i, x := range edges {
		if x == old {
			edges[i] = e
			return
		}
	}
}

func removeEdge(edges []int, e int) []int {
	for i, x := range edges {
		if x == e {
			return append(edges[:i], edges[i+1:]...)
		}
	}
	return edges
}
