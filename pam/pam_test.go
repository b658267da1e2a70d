// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pam_test

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/terrace/align"
	"github.com/js-arias/terrace/pam"
)

func TestMatrix(t *testing.T) {
	m := testMatrix(t)

	if got := m.Taxa(); !reflect.DeepEqual(got, []string{"A", "B", "C", "D", "E", "F"}) {
		t.Errorf("taxa: got %v", got)
	}
	if got := m.Partitions(); !reflect.DeepEqual(got, []string{"p1", "p2", "p3"}) {
		t.Errorf("partitions: got %v", got)
	}
	if id := m.TaxonID("C"); id != 2 {
		t.Errorf("taxon C: got %d, want %d", id, 2)
	}
	if id := m.TaxonID("X"); id != -1 {
		t.Errorf("taxon X: got %d, want %d", id, -1)
	}
	if p := m.PartID("p3"); p != 2 {
		t.Errorf("partition p3: got %d, want %d", p, 2)
	}
	if got := m.PartTaxa(0); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("partition p1: got %v", got)
	}
	if got := m.TaxonParts(m.TaxonID("B")); !reflect.DeepEqual(got, []int{0, 2}) {
		t.Errorf("taxon B: got %v", got)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	m.AddTaxon("G")
	if err := m.Validate(); err == nil {
		t.Errorf("expecting error on taxon without partitions")
	}
}

func TestSub(t *testing.T) {
	m := testMatrix(t)

	subset := []string{"F", "A", "D"}
	sm, err := m.Sub(subset)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sm.Taxa(); !reflect.DeepEqual(got, subset) {
		t.Errorf("taxa: got %v, want %v", got, subset)
	}
	if sm.NumParts() != m.NumParts() {
		t.Errorf("partitions: got %d, want %d", sm.NumParts(), m.NumParts())
	}
	for i, tx := range subset {
		id := m.TaxonID(tx)
		for p := 0; p < m.NumParts(); p++ {
			if sm.Present(i, p) != m.Present(id, p) {
				t.Errorf("taxon %q, partition %d: got %v, want %v", tx, p, sm.Present(i, p), m.Present(id, p))
			}
		}
	}

	if _, err := m.Sub([]string{"A", "X"}); !errors.Is(err, pam.ErrUnknownTaxon) {
		t.Errorf("unknown taxon: got %v, want %v", err, pam.ErrUnknownTaxon)
	}
	if _, err := m.Sub([]string{"A", "A"}); err == nil {
		t.Errorf("expecting error on repeated taxon")
	}
}

func TestMissing(t *testing.T) {
	m := testMatrix(t)

	want := 10.0 / 18.0
	if got := m.Missing(); math.Abs(got-want) > 1e-9 {
		t.Errorf("missing: got %.6f, want %.6f", got, want)
	}
	if got := m.PercentMissing(); math.Abs(got-want*100) > 1e-9 {
		t.Errorf("percent missing: got %.6f, want %.6f", got, want*100)
	}
	if got := pam.New().PercentMissing(); got != 0 {
		t.Errorf("empty matrix: got %.6f, want 0", got)
	}
}

func TestOverlap(t *testing.T) {
	m := testMatrix(t)
	o := m.Overlap()

	want := [][]float64{
		{4, 1, 1},
		{1, 2, 0},
		{1, 0, 2},
	}
	if n := o.SymmetricDim(); n != len(want) {
		t.Fatalf("dimension: got %d, want %d", n, len(want))
	}
	for i, row := range want {
		for j, v := range row {
			if got := o.At(i, j); got != v {
				t.Errorf("overlap [%d, %d]: got %.0f, want %.0f", i, j, got, v)
			}
		}
	}
}

func TestOverlapEmpty(t *testing.T) {
	m := pam.New()
	if o := m.Overlap(); !o.IsEmpty() {
		t.Errorf("empty matrix: got dimension %d", o.SymmetricDim())
	}
	if d := m.Dense(); !d.IsEmpty() {
		t.Errorf("empty matrix: dense matrix not empty")
	}

	m.AddTaxon("A")
	if o := m.Overlap(); !o.IsEmpty() {
		t.Errorf("matrix without partitions: got dimension %d", o.SymmetricDim())
	}

	m = pam.New()
	m.AddPartition("p1")
	m.AddPartition("p2")
	o := m.Overlap()
	if n := o.SymmetricDim(); n != 2 {
		t.Fatalf("matrix without taxa: dimension: got %d, want %d", n, 2)
	}
	if v := o.At(0, 1); v != 0 {
		t.Errorf("matrix without taxa: overlap [0, 1]: got %.0f, want 0", v)
	}
}

func TestStats(t *testing.T) {
	m := testMatrix(t)
	st := m.Stats()

	if !reflect.DeepEqual(st.PartSize, []int{4, 2, 2}) {
		t.Errorf("partition size: got %v", st.PartSize)
	}
	if !reflect.DeepEqual(st.TaxonParts, []int{2, 2, 1, 1, 1, 1}) {
		t.Errorf("taxon partitions: got %v", st.TaxonParts)
	}
	if math.Abs(st.MeanPart-8.0/3.0) > 1e-9 {
		t.Errorf("mean partition size: got %.6f, want %.6f", st.MeanPart, 8.0/3.0)
	}
	if math.Abs(st.MeanTaxon-8.0/6.0) > 1e-9 {
		t.Errorf("mean taxon partitions: got %.6f, want %.6f", st.MeanTaxon, 8.0/6.0)
	}
}

func TestInitTaxonOrder(t *testing.T) {
	tests := map[string]struct {
		m     *pam.Matrix
		init  []string
		order []string
	}{
		"largest partition": {
			m:     testMatrix(t),
			init:  []string{"A", "B", "C", "D"},
			order: []string{"E", "F"},
		},
		"by partitions": {
			m: buildMatrix(t, []string{"A", "B", "C", "D", "E", "F"}, map[string][]string{
				"p1": {"A", "B"},
				"p2": {"A", "C", "D", "E"},
				"p3": {"D", "E", "F"},
				"p4": {"E", "F"},
			}, []string{"p1", "p2", "p3", "p4"}),
			init:  []string{"A", "C", "D", "E"},
			order: []string{"F", "B"},
		},
		"singleton partitions": {
			m: buildMatrix(t, []string{"A", "B", "C", "D", "E"}, map[string][]string{
				"p1": {"A", "B", "C"},
				"p2": {"D"},
				"p3": {"E"},
			}, []string{"p1", "p2", "p3"}),
			init:  []string{"A", "B", "C"},
			order: []string{"D", "E"},
		},
		"cover taxa first": {
			m: buildMatrix(t, []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}, map[string][]string{
				"p1": {"A", "B", "C", "D"},
				"p2": {"E", "F"},
				"p3": {"G", "H"},
				"p4": {"I"},
			}, []string{"p1", "p2", "p3", "p4"}),
			init:  []string{"A", "B", "C", "D"},
			order: []string{"E", "G", "I", "F", "H"},
		},
		"small partitions": {
			m: buildMatrix(t, []string{"A", "B", "C", "D", "E"}, map[string][]string{
				"p1": {"A", "B"},
				"p2": {"C", "D"},
				"p3": {"D", "E"},
			}, []string{"p1", "p2", "p3"}),
			init:  []string{"A", "B", "D"},
			order: []string{"C", "E"},
		},
	}

	for name, test := range tests {
		init, order := test.m.InitTaxonOrder()
		if !reflect.DeepEqual(init, test.init) {
			t.Errorf("%s: initial taxa: got %v, want %v", name, init, test.init)
		}
		if !reflect.DeepEqual(order, test.order) {
			t.Errorf("%s: order: got %v, want %v", name, order, test.order)
		}
		testFixedInit(t, name, test.m, init)
	}
}

func TestFirstPartOrder(t *testing.T) {
	tests := map[string]struct {
		m     *pam.Matrix
		init  []string
		order []string
	}{
		"first partition": {
			m:     testMatrix(t),
			init:  []string{"A", "B", "C", "D"},
			order: []string{"E", "F"},
		},
		"small first partition": {
			m: buildMatrix(t, []string{"A", "B", "C", "D", "E"}, map[string][]string{
				"p1": {"B", "E"},
				"p2": {"A", "B", "C", "D"},
			}, []string{"p1", "p2"}),
			init:  []string{"A", "B", "E"},
			order: []string{"C", "D"},
		},
	}

	for name, test := range tests {
		init, order := test.m.FirstPartOrder()
		if !reflect.DeepEqual(init, test.init) {
			t.Errorf("%s: initial taxa: got %v, want %v", name, init, test.init)
		}
		if !reflect.DeepEqual(order, test.order) {
			t.Errorf("%s: order: got %v, want %v", name, order, test.order)
		}
		testFixedInit(t, name, test.m, init)
	}
}

func TestWriteOrder(t *testing.T) {
	m := testMatrix(t)
	var buf bytes.Buffer
	if err := m.WriteOrder(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"Initial taxa: 4", "Covered partitions: 3 of 3", "Taxa to insert: 2"} {
		if !strings.Contains(out, s) {
			t.Errorf("output %q: expecting %q", out, s)
		}
	}
}

func TestTSV(t *testing.T) {
	m := testMatrix(t)

	var buf bytes.Buffer
	if err := m.TSV(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	nm, err := pam.ReadTSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("unable to read %q: %v", buf.String(), err)
	}
	testEqual(t, "tsv", nm, m)

	bad := map[string]string{
		"no taxon field":  "name\tp1\nA\t1\n",
		"invalid value":   "taxon\tp1\nA\t2\n",
		"repeated taxon":  "taxon\tp1\nA\t1\nA\t0\n",
		"repeated column": "taxon\tp1\tp1\nA\t1\t0\n",
	}
	for name, in := range bad {
		if _, err := pam.ReadTSV(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestReadTable(t *testing.T) {
	in := `6 3
A 1 0 0
B 1 0 1
C 1 0 0
D 1 0 0
E 0 1 0
F 0 0 1
`
	m, err := pam.ReadTable(strings.NewReader(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.Partitions(); !reflect.DeepEqual(got, []string{"1", "2", "3"}) {
		t.Errorf("partitions: got %v", got)
	}
	if got := m.PartTaxa(0); !reflect.DeepEqual(got, []string{"A", "B", "C", "D"}) {
		t.Errorf("partition 1: got %v", got)
	}
	if got := m.PartTaxa(1); !reflect.DeepEqual(got, []string{"E"}) {
		t.Errorf("partition 2: got %v", got)
	}

	bad := map[string]string{
		"header":         "6\n",
		"taxa count":     "2 1\nA 1\n",
		"columns":        "1 2\nA 1\n",
		"invalid value":  "1 1\nA x\n",
		"repeated taxon": "2 1\nA 1\nA 0\n",
	}
	for name, in := range bad {
		if _, err := pam.ReadTable(strings.NewReader(in)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestFromAlignment(t *testing.T) {
	fasta := `>A
ACGTACGT--
>B
----ACGTAA
>C
NNNN????AC
`
	parts := `DNA, first = 1-4
DNA, second = 5-8
DNA, third = 9-10
`
	a, err := align.ReadFasta(strings.NewReader(fasta))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	a.Parts, err = align.ReadPartitions(strings.NewReader(parts))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m, err := pam.FromAlignment(a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := buildMatrix(t, []string{"A", "B", "C"}, map[string][]string{
		"first":  {"A"},
		"second": {"A", "B"},
		"third":  {"B", "C"},
	}, []string{"first", "second", "third"})
	testEqual(t, "alignment", m, want)

	a.Parts = nil
	if _, err := pam.FromAlignment(a); err == nil {
		t.Errorf("expecting error on alignment without partitions")
	}
}

// TestMatrix returns a matrix with taxa A-F
// and partitions:
//
//	p1: A B C D
//	p2: A E
//	p3: B F
func testMatrix(t testing.TB) *pam.Matrix {
	t.Helper()

	return buildMatrix(t, []string{"A", "B", "C", "D", "E", "F"}, map[string][]string{
		"p1": {"A", "B", "C", "D"},
		"p2": {"A", "E"},
		"p3": {"B", "F"},
	}, []string{"p1", "p2", "p3"})
}

func buildMatrix(t testing.TB, taxa []string, parts map[string][]string, order []string) *pam.Matrix {
	t.Helper()

	m := pam.New()
	for _, p := range order {
		m.AddPartition(p)
	}
	for _, tx := range taxa {
		m.AddTaxon(tx)
	}
	for p, ls := range parts {
		for _, tx := range ls {
			m.Set(tx, p, true)
		}
	}
	return m
}

func testEqual(t testing.TB, name string, got, want *pam.Matrix) {
	t.Helper()

	if !reflect.DeepEqual(got.Taxa(), want.Taxa()) {
		t.Fatalf("%s: taxa: got %v, want %v", name, got.Taxa(), want.Taxa())
	}
	if !reflect.DeepEqual(got.Partitions(), want.Partitions()) {
		t.Fatalf("%s: partitions: got %v, want %v", name, got.Partitions(), want.Partitions())
	}
	for i, tx := range want.Taxa() {
		for p, pn := range want.Partitions() {
			if got.Present(i, p) != want.Present(i, p) {
				t.Errorf("%s: taxon %q, partition %q: got %v, want %v", name, tx, pn, got.Present(i, p), want.Present(i, p))
			}
		}
	}
}

// TestFixedInit checks that the initial taxa
// are in a single partition,
// or that they are at most three taxa,
// so all the trees of a terrace share the initial tree.
func testFixedInit(t testing.TB, name string, m *pam.Matrix, init []string) {
	t.Helper()

	if len(init) <= pam.MinInit {
		return
	}
	for p := range m.NumParts() {
		in := true
		for _, tx := range init {
			if !m.Present(m.TaxonID(tx), p) {
				in = false
				break
			}
		}
		if in {
			return
		}
	}
	t.Errorf("%s: initial taxa %v: not in a single partition", name, init)
}
