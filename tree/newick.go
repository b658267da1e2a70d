// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/evolbioinfo/gotree/io/newick"
	gtree "github.com/evolbioinfo/gotree/tree"
	"github.com/js-arias/timetree"
)

// A builder copies a rooted source tree
// into an unrooted arena tree,
// contracting nodes with a single descendant.
type builder[N any] struct {
	t        *Tree
	children func(N) []N
	name     func(N) string
}

func (b *builder[N]) build(root N, rooted bool) (*Tree, error) {
	ch := b.children(root)
	for len(ch) == 1 && b.name(root) == "" {
		root = ch[0]
		ch = b.children(root)
	}

	if tx := b.name(root); tx != "" && len(ch) <= 1 {
		// the root is a terminal
		r, err := b.t.AddNode(tx)
		if err != nil {
			return nil, err
		}
		for _, c := range ch {
			if _, err := b.copy(c, r); err != nil {
				return nil, err
			}
		}
		return b.t, nil
	}

	if rooted {
		r, _ := b.t.AddNode("")
		pr, err := b.t.AddNode(RootTaxon)
		if err != nil {
			return nil, err
		}
		b.t.Connect(r, pr)
		for _, c := range ch {
			if _, err := b.copy(c, r); err != nil {
				return nil, err
			}
		}
		return b.t, nil
	}

	if len(ch) == 2 {
		// unroot the tree
		x, err := b.copy(ch[0], -1)
		if err != nil {
			return nil, err
		}
		y, err := b.copy(ch[1], -1)
		if err != nil {
			return nil, err
		}
		b.t.Connect(x, y)
		return b.t, nil
	}

	r, _ := b.t.AddNode("")
	for _, c := range ch {
		if _, err := b.copy(c, r); err != nil {
			return nil, err
		}
	}
	return b.t, nil
}

func (b *builder[N]) copy(n N, parent int) (int, error) {
	ch := b.children(n)
	if len(ch) == 0 {
		tx := b.name(n)
		if tx == "" {
			return -1, fmt.Errorf("terminal without a taxon name")
		}
		id, err := b.t.AddNode(tx)
		if err != nil {
			return -1, err
		}
		if parent >= 0 {
			b.t.Connect(parent, id)
		}
		return id, nil
	}
	if len(ch) == 1 {
		return b.copy(ch[0], parent)
	}

	id, _ := b.t.AddNode("")
	if parent >= 0 {
		b.t.Connect(parent, id)
	}
	for _, c := range ch {
		if _, err := b.copy(c, id); err != nil {
			return -1, err
		}
	}
	return id, nil
}

// A gnode is a node of a gotree tree,
// with the node used to reach it.
type gnode struct {
	n, dad *gtree.Node
}

// ParseNewick reads a tree in Newick format.
//
// Trees are stored unrooted.
// If rooted is true,
// the root is kept as the attachment point
// of a pseudo-terminal named RootTaxon.
func ParseNewick(s string, rooted bool) (*Tree, error) {
	gt, err := newick.NewParser(strings.NewReader(s)).Parse()
	if err != nil {
		return nil, err
	}
	if gt.Root() == nil {
		return nil, fmt.Errorf("empty tree")
	}

	b := &builder[gnode]{
		t: New(),
		children: func(g gnode) []gnode {
			var ch []gnode
			for _, c := range g.n.Neigh() {
				if c == g.dad {
					continue
				}
				ch = append(ch, gnode{n: c, dad: g.n})
			}
			return ch
		},
		name: func(g gnode) string {
			if g.dad != nil && len(g.n.Neigh()) > 1 {
				return ""
			}
			return strings.TrimSpace(g.n.Name())
		},
	}
	return b.build(gnode{n: gt.Root()}, rooted)
}

// ReadNewick reads one or more trees in Newick format,
// one tree per line.
// Empty lines and lines starting with '#' are ignored.
func ReadNewick(r io.Reader, rooted bool) ([]*Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<28)

	var ts []*Tree
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseNewick(line, rooted)
		if err != nil {
			return nil, fmt.Errorf("on line %d: %v", ln, err)
		}
		ts = append(ts, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return ts, nil
}

// FromTimeTree copies a time calibrated tree
// as an unrooted tree.
// Ages are ignored.
func FromTimeTree(tt *timetree.Tree, rooted bool) (*Tree, error) {
	b := &builder[int]{
		t:        New(),
		children: tt.Children,
		name: func(id int) string {
			if !tt.IsTerm(id) {
				return ""
			}
			return tt.Taxon(id)
		},
	}
	t, err := b.build(tt.Root(), rooted)
	if err != nil {
		return nil, fmt.Errorf("tree %q: %v", tt.Name(), err)
	}
	return t, nil
}

// Newick returns the tree in Newick format.
//
// Unrooted trees are written
// from the inner node adjacent to the first terminal.
// If the tree includes a RootTaxon terminal
// the tree is written as rooted at the attachment point
// of that terminal,
// and the pseudo-terminal is omitted.
func (t *Tree) Newick() string {
	gt := gtree.NewTree()
	switch t.Len() {
	case 0:
		return ";"
	case 1:
		n := gt.NewNode()
		n.SetName(t.nodes[t.First()].taxon)
		gt.SetRoot(n)
		return gt.Newick()
	}

	root := t.First()
	skip := -1
	if pr, ok := t.taxa[RootTaxon]; ok {
		root = pr
		skip = pr
	}
	if t.Len() == 2 {
		r := gt.NewNode()
		for _, n := range t.nodes {
			if n.taxon == "" || n.taxon == RootTaxon {
				continue
			}
			c := gt.NewNode()
			c.SetName(n.taxon)
			gt.ConnectNodes(r, c)
		}
		gt.SetRoot(r)
		return gt.Newick()
	}

	// start at the node adjacent to the root terminal
	start := t.Other(t.nodes[root].edges[0], root)
	var from int
	if skip >= 0 {
		from = t.nodes[root].edges[0]
	} else {
		from = -1
	}

	r := gt.NewNode()
	gt.SetRoot(r)
	t.toGoTree(gt, start, from, r)
	return gt.Newick()
}

func (t *Tree) toGoTree(gt *gtree.Tree, n, from int, gn *gtree.Node) {
	for _, e := range t.nodes[n].edges {
		if e == from {
			continue
		}
		c := t.Other(e, n)
		cn := gt.NewNode()
		gt.ConnectNodes(gn, cn)
		if tx := t.nodes[c].taxon; tx != "" {
			cn.SetName(tx)
			continue
		}
		t.toGoTree(gt, c, e, cn)
	}
}

// WriteNewick writes the tree in Newick format
// followed by a new line.
func (t *Tree) WriteNewick(w io.Writer) error {
	_, err := io.WriteString(w, t.Newick()+"\n")
	return err
}
