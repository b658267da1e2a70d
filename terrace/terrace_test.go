// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/terrace"
	"github.com/js-arias/terrace/tree"
)

func TestNew(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, [][]string{
		{"A", "B", "C", "D"},
		{"A", "B", "E"},
	})
	ref := parseTree(t, "((A,B),(C,D),E);", false)

	tr, err := terrace.New(ref, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.NumParts() != 2 {
		t.Errorf("partitions: got %d, want %d", tr.NumParts(), 2)
	}
	want := [][]string{
		{"A", "B", "C", "D"},
		{"A", "B", "E"},
	}
	for p, w := range want {
		got := tr.Part(p).Terms()
		if !equalStrings(got, w) {
			t.Errorf("partition %d: got %v, want %v", p, got, w)
		}
	}
	if tr.Map(0) != nil {
		t.Errorf("map defined before linking")
	}

	// a taxon in the matrix but not in the tree
	m.Set("F", "1", true)
	if _, err := terrace.New(ref, m); !errors.Is(err, terrace.ErrConfig) {
		t.Errorf("error: got %v, want %v", err, terrace.ErrConfig)
	}
}

func TestNewWithParts(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D"}, [][]string{
		{"A", "B", "C", "D"},
	})
	ref := parseTree(t, "((A,B),(C,D));", false)

	if _, err := terrace.NewWithParts(ref, m, []*tree.Tree{parseTree(t, "((A,C),(B,D));", false)}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := terrace.NewWithParts(ref, m, []*tree.Tree{parseTree(t, "(A,B,C);", false)}); !errors.Is(err, terrace.ErrConfig) {
		t.Errorf("error: got %v, want %v", err, terrace.ErrConfig)
	}
	if _, err := terrace.NewWithParts(ref, m, nil); !errors.Is(err, terrace.ErrConfig) {
		t.Errorf("error: got %v, want %v", err, terrace.ErrConfig)
	}
}

func TestLink(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, [][]string{
		{"A", "B", "C"},
		{"A", "B", "C", "D", "E"},
		{"D"},
	})
	ref := parseTree(t, "((A,B),(C,D),E);", false)
	tr, err := terrace.New(ref, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.CheckMapping(); !errors.Is(err, terrace.ErrMapping) {
		t.Errorf("unlinked trees: got %v, want %v", err, terrace.ErrMapping)
	}
	if err := tr.LinkAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testMapTotal(t, tr)

	mp := tr.Map(0)
	for _, tx := range []string{"A", "B", "C"} {
		if img := mp.Image(leafEdge(t, ref, tx)); img < 0 {
			t.Errorf("partition 0: taxon %q: got image %d", tx, img)
		}
	}
	if mp.Image(leafEdge(t, ref, "A")) == mp.Image(leafEdge(t, ref, "B")) {
		t.Errorf("partition 0: taxa A and B with the same image")
	}

	// D and E hang on the terminal edge of C
	wantC := mp.Image(leafEdge(t, ref, "C"))
	for _, tx := range []string{"D", "E"} {
		e := leafEdge(t, ref, tx)
		if img := mp.Image(e); img != terrace.Empty {
			t.Errorf("partition 0: taxon %q: image %d, want %d", tx, img, terrace.Empty)
		}
		if enc := mp.Enclosing(e); enc != wantC {
			t.Errorf("partition 0: taxon %q: enclosing %d, want %d", tx, enc, wantC)
		}
		if tg := mp.Target(e); tg != wantC {
			t.Errorf("partition 0: taxon %q: target %d, want %d", tx, tg, wantC)
		}
	}
	if back := mp.Back(wantC); len(back) != 3 {
		t.Errorf("partition 0: back map of C edge: got %v, want 3 edges", back)
	}

	// full partition: the map is a bijection
	full := tr.Map(1)
	seen := make(map[int]bool)
	for e := 0; e < full.Len(); e++ {
		img := full.Image(e)
		if img < 0 {
			t.Errorf("partition 1: edge %d: image %d", e, img)
			continue
		}
		if seen[img] {
			t.Errorf("partition 1: image %d: repeated", img)
		}
		seen[img] = true
	}

	// partition with a single taxon
	single := tr.Map(2)
	for e := 0; e < single.Len(); e++ {
		if img := single.Image(e); img != terrace.Empty {
			t.Errorf("partition 2: edge %d: image %d, want %d", e, img, terrace.Empty)
		}
	}
}

func TestWriteMaps(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, [][]string{
		{"A", "B", "C"},
		{"A", "B", "C", "D", "E"},
		{"D"},
	})
	ref := parseTree(t, "((A,B),(C,D),E);", false)
	tr, err := terrace.New(ref, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.WriteMaps(&bytes.Buffer{}); !errors.Is(err, terrace.ErrMapping) {
		t.Errorf("unlinked trees: got %v, want %v", err, terrace.ErrMapping)
	}
	if err := tr.LinkAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := tr.WriteMaps(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, w := range []string{
		"partition 1: 3 taxa, 3 edges\n",
		"partition 2: 5 taxa, 7 edges\n",
		"partition 3: 1 taxa",
	} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q: want %q", out, w)
		}
	}

	edges, back := 0, 0
	for _, ln := range strings.Split(out, "\n") {
		switch {
		case strings.HasPrefix(ln, "\tedge "):
			edges++
		case strings.HasPrefix(ln, "\tback "):
			back++
		}
	}
	if want := 3 * ref.NumEdges(); edges != want {
		t.Errorf("edge lines: got %d, want %d", edges, want)
	}
	if want := 3 + 7; back != want {
		t.Errorf("back map lines: got %d, want %d", back, want)
	}

	// the single taxon partition has no image
	single := out[strings.Index(out, "partition 3:"):]
	if n := strings.Count(single, "image empty, enclosing empty"); n != ref.NumEdges() {
		t.Errorf("partition 3: got %d empty edges, want %d", n, ref.NumEdges())
	}

	if err := tr.WriteMaps(errWriter{}); !errors.Is(err, terrace.ErrIO) {
		t.Errorf("write error: got %v, want %v", err, terrace.ErrIO)
	}
}

func TestLinkNode(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, [][]string{
		{"A", "B", "C"},
		{"A", "B", "C", "D", "E"},
	})
	ref := parseTree(t, "(A,B,C,(D,E));", false)
	tr, err := terrace.New(ref, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tr.LinkAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testMapTotal(t, tr)

	// the subtree (D,E) hangs on the inner node
	// of the partition tree
	mp := tr.Map(0)
	d, _ := ref.TaxNode("D")
	dad := ref.Other(leafEdge(t, ref, "D"), d)
	for _, e := range ref.Adjacent(dad) {
		if img := mp.Image(e); img != terrace.Empty {
			t.Errorf("edge %d: image %d, want %d", e, img, terrace.Empty)
		}
	}
	for _, e := range ref.Adjacent(dad) {
		o := ref.Other(e, dad)
		if ref.IsTerm(o) {
			continue
		}
		if enc := mp.Enclosing(e); enc != terrace.Empty {
			t.Errorf("edge %d: enclosing %d, want %d", e, enc, terrace.Empty)
		}
	}
}

func TestSub(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, [][]string{
		{"A", "B", "C", "D"},
		{"A", "B", "E"},
	})
	ref := parseTree(t, "((A,B),(C,D),E);", false)
	tr, err := terrace.New(ref, m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st, err := tr.Sub([]string{"A", "C", "E"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Index() != tr.Index() {
		t.Errorf("sub-terrace with a different index")
	}
	if got := st.Tree().Terms(); !equalStrings(got, []string{"A", "C", "E"}) {
		t.Errorf("sub-terrace taxa: got %v", got)
	}
	if got := st.Matrix().Taxa(); !equalStrings(got, []string{"A", "C", "E"}) {
		t.Errorf("sub-matrix taxa: got %v", got)
	}
	if got := st.Part(1).Terms(); !equalStrings(got, []string{"A", "E"}) {
		t.Errorf("sub-terrace partition 1: got %v", got)
	}
	if err := st.LinkAll(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	if _, err := tr.Sub([]string{"A", "X"}); !errors.Is(err, terrace.ErrConfig) {
		t.Errorf("error: got %v, want %v", err, terrace.ErrConfig)
	}
}

func TestNewPairs(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, [][]string{
		{"A", "B", "C", "D"},
		{"A", "B", "E"},
	})
	ref := parseTree(t, "((A,B),(C,D),E);", false)
	considered, err := terrace.Considered(ref, m, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	init, err := considered.Sub([]string{"A", "B", "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := init.LinkAll(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pairs, err := terrace.NewPairs(init, considered)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pairs) != 2 {
		t.Fatalf("pairs: got %d, want %d", len(pairs), 2)
	}
	if pairs[0].Low() != init.Part(0) {
		t.Errorf("low tree is not the partition tree of the initial terrace")
	}
	if pairs[0].Top() != considered.Part(0) {
		t.Errorf("top tree is not the partition tree of the considered terrace")
	}

	// D must be inserted on the terminal edge of C
	low := pairs[0].Low()
	if got, want := pairs[0].Target("D"), leafEdge(t, low, "C"); got != want {
		t.Errorf("target of D: got %d, want %d", got, want)
	}

	// E can be inserted on the only edge of the low tree
	if pairs[1].Free() {
		t.Errorf("partition 1 with two terminals: should not be free")
	}
	if got := pairs[1].Target("E"); got != 0 {
		t.Errorf("target of E: got %d, want %d", got, 0)
	}
}

func newMatrix(t testing.TB, taxa []string, parts [][]string) *pam.Matrix {
	t.Helper()

	m := pam.New()
	for i := range parts {
		m.AddPartition(partName(i))
	}
	for _, tx := range taxa {
		m.AddTaxon(tx)
	}
	for i, p := range parts {
		for _, tx := range p {
			m.Set(tx, partName(i), true)
		}
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("invalid matrix: %v", err)
	}
	return m
}

func partName(p int) string {
	return string(rune('1' + p))
}

func parseTree(t testing.TB, s string, rooted bool) *tree.Tree {
	t.Helper()

	tr, err := tree.ParseNewick(s, rooted)
	if err != nil {
		t.Fatalf("unable to parse tree %q: %v", s, err)
	}
	return tr
}

func leafEdge(t testing.TB, tr *tree.Tree, taxon string) int {
	t.Helper()

	n, ok := tr.TaxNode(taxon)
	if !ok {
		t.Fatalf("taxon %q: not in tree", taxon)
	}
	return tr.Adjacent(n)[0]
}

func testMapTotal(t testing.TB, tr *terrace.Terrace) {
	t.Helper()

	for p := 0; p < tr.NumParts(); p++ {
		mp := tr.Map(p)
		if mp.Len() != tr.Tree().NumEdges() {
			t.Errorf("partition %d: map with %d edges, want %d", p, mp.Len(), tr.Tree().NumEdges())
		}
		for e := 0; e < mp.Len(); e++ {
			img := mp.Image(e)
			if img == terrace.Unmapped {
				t.Errorf("partition %d: edge %d: unmapped", p, e)
				continue
			}
			if img == terrace.Empty && mp.Enclosing(e) == terrace.Unmapped {
				t.Errorf("partition %d: edge %d: empty image without enclosing edge", p, e)
			}
		}
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
