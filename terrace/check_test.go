// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/js-arias/terrace/terrace"
	"github.com/js-arias/terrace/tree"
)

func TestCheck(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D"}, [][]string{
		{"A", "B", "C"},
		{"B", "C", "D"},
	})
	ref := parseTree(t, "(((A,B),C),D);", true)
	considered, err := terrace.Considered(ref, m, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		tree string
		want bool
	}{
		"reference":         {"(((A,B),C),D);", true},
		"rotated":           {"(D,(C,(B,A)));", true},
		"partition 1 fails": {"(((A,C),B),D);", false},
		"partition 2 fails": {"((A,B),(C,D));", false},
	}
	for name, test := range tests {
		c := parseTree(t, test.tree, true)
		got, err := considered.Check(c)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != test.want {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
	}

	// candidate with different taxa
	c := parseTree(t, "((A,B),C);", true)
	if _, err := considered.Check(c); !errors.Is(err, terrace.ErrConfig) {
		t.Errorf("different taxa: got %v, want %v", err, terrace.ErrConfig)
	}
}

func TestCheckUnrooted(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, fiveTaxa)
	ref := parseTree(t, "((A,B),(C,D),E);", false)
	considered, err := terrace.Considered(ref, m, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := map[string]struct {
		tree string
		want bool
	}{
		"reference":         {"((A,B),(C,D),E);", true},
		"E on A":            {"(((A,E),B),(C,D));", true},
		"E on C":            {"((A,B),((C,E),D));", true},
		"different quartet": {"((A,C),(B,D),E);", false},
	}
	for name, test := range tests {
		got, err := considered.Check(parseTree(t, test.tree, false))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got != test.want {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
	}
}

func TestCheckSet(t *testing.T) {
	m := newMatrix(t, []string{"A", "B", "C", "D", "E"}, fiveTaxa)
	ref := parseTree(t, "((A,B),(C,D),E);", false)
	considered, err := terrace.Considered(ref, m, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queries := []*tree.Tree{
		parseTree(t, "((A,B),(C,D),E);", false),
		parseTree(t, "((A,C),(B,D),E);", false),
		parseTree(t, "(((A,E),B),(C,D));", false),
		parseTree(t, "((A,D),(B,C),E);", false),
		parseTree(t, "((A,B),((C,E),D));", false),
	}
	want := []bool{true, false, true, false, true}

	var on, off bytes.Buffer
	got, err := considered.CheckSet(queries, &on, &off)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("results: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("query %d: got %v, want %v", i, got[i], want[i])
		}
	}

	onTrees, err := tree.ReadNewick(&on, false)
	if err != nil {
		t.Fatalf("unable to read on trees: %v", err)
	}
	if len(onTrees) != 3 {
		t.Errorf("on terrace: got %d trees, want %d", len(onTrees), 3)
	}
	offTrees, err := tree.ReadNewick(&off, false)
	if err != nil {
		t.Fatalf("unable to read off trees: %v", err)
	}
	if len(offTrees) != 2 {
		t.Errorf("off terrace: got %d trees, want %d", len(offTrees), 2)
	}
	testOnTerrace(t, "on trees", considered, onTrees)

	// without writers
	if _, err := considered.CheckSet(queries, nil, nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
