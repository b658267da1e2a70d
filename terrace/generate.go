// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package terrace

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/js-arias/terrace/tree"
)

// Config is the configuration
// of a terrace analysis.
// A zero value for a limit means no limit.
type Config struct {
	// Maximum number of intermediate trees
	// (trees with some taxa still to be inserted)
	// visited by the search.
	MaxIntermediate int64

	// Maximum number of trees of the terrace
	// to be generated.
	MaxTrees int64

	// Maximum running time of the search.
	MaxTime time.Duration

	// Maximum number of generated trees
	// written into the output.
	// Trees are still counted
	// after the limit is reached.
	PrintLimit int64

	// If true,
	// input trees are rooted.
	Rooted bool

	// Order is the policy to select the initial taxa
	// and the insertion order.
	// Valid values are "heuristic" (the default)
	// and "matrix".
	Order string

	// If set,
	// the edge maps of the initial tree
	// are written into Maps
	// before the search starts.
	Maps io.Writer

	// Logger for progress messages.
	// If nil,
	// no messages will be logged.
	Logger *log.Logger
}

// Valid taxon order policies.
const (
	OrderHeuristic = "heuristic"
	OrderMatrix    = "matrix"
)

func (c Config) logger() *log.Logger {
	if c.Logger == nil {
		return log.NewWithOptions(io.Discard, log.Options{})
	}
	return c.Logger
}

// Stop is the reason
// by which a search was finished.
type Stop int

// Valid stop reasons.
const (
	// All trees were visited.
	Complete Stop = iota

	// The search reached the time limit.
	TimeLimit

	// The search reached the limit of generated trees.
	TreeLimit

	// The search reached the limit of intermediate trees.
	IntermediateLimit

	// The search was canceled.
	Canceled
)

func (s Stop) String() string {
	switch s {
	case Complete:
		return "complete"
	case TimeLimit:
		return "time limit reached"
	case TreeLimit:
		return "tree limit reached"
	case IntermediateLimit:
		return "intermediate tree limit reached"
	case Canceled:
		return "canceled"
	}
	return "unknown"
}

// Result is the summary of a search.
type Result struct {
	// Number of trees of the terrace found.
	Trees int64

	// Number of trees written into the output.
	Printed int64

	// Number of intermediate trees visited.
	Intermediate int64

	// Number of intermediate trees
	// in which the next taxon could not be inserted.
	DeadEnds int64

	Stop    Stop
	Elapsed time.Duration
}

// Partial returns true if the search
// was stopped before visiting all trees.
func (r Result) Partial() bool {
	return r.Stop != Complete
}

// errStop is used to unwind the recursion
// when a limit is reached.
var errStop = errors.New("search stopped")

// progressStep is the number of intermediate trees
// between progress messages.
const progressStep = 1 << 20

type search struct {
	t     *Terrace
	pairs []*Pair
	taxa  []string
	parts [][]int
	in    [][]bool
	root  int

	w      io.Writer
	cfg    Config
	logger *log.Logger
	start  time.Time
	res    Result

	frames []frame
}

// A frame stores the state required
// to undo an insertion.
type frame struct {
	// all maps were recomputed
	full bool

	maps     []*Map
	pairMaps []*Map
}

// Generate generates all the trees of a terrace,
// by inserting the taxa,
// in the given order,
// into the main tree of the terrace,
// and writes each tree in Newick format.
//
// The terrace must be a linked sub-terrace
// of the considered terrace,
// and the taxa must be the taxa of the considered terrace
// not in the terrace tree.
// The pairs must be built with NewPairs.
//
// On return,
// the terrace is restored to its initial state.
func (tr *Terrace) Generate(ctx context.Context, considered *Terrace, pairs []*Pair, taxa []string, w io.Writer, cfg Config) (Result, error) {
	if tr.maps == nil {
		return Result{}, configErr(nil, "trees not linked")
	}
	if len(pairs) != tr.NumParts() || tr.NumParts() != considered.NumParts() {
		return Result{}, configErr(nil, "got %d partition pairs, want %d", len(pairs), considered.NumParts())
	}
	if tr.tree.Len()+len(taxa) != considered.tree.Len() {
		return Result{}, configErr(nil, "got %d taxa, want %d", tr.tree.Len()+len(taxa), considered.tree.Len())
	}

	s := &search{
		t:      tr,
		pairs:  pairs,
		taxa:   taxa,
		parts:  make([][]int, len(taxa)),
		in:     make([][]bool, len(taxa)),
		root:   tr.tree.First(),
		w:      w,
		cfg:    cfg,
		logger: cfg.logger(),
	}
	seen := make(map[string]bool, len(taxa))
	for i, tx := range taxa {
		id := considered.matrix.TaxonID(tx)
		if id < 0 {
			return Result{}, configErr(nil, "taxon %q: not in matrix", tx)
		}
		if _, ok := tr.tree.TaxNode(tx); ok || seen[tx] {
			return Result{}, configErr(nil, "taxon %q: already in tree", tx)
		}
		seen[tx] = true
		s.parts[i] = considered.matrix.TaxonParts(id)
		s.in[i] = make([]bool, tr.NumParts())
		for _, p := range s.parts[i] {
			s.in[i][p] = true
		}
	}

	s.start = time.Now()
	err := s.step(ctx, 0)
	s.res.Elapsed = time.Since(s.start)
	if err != nil && !errors.Is(err, errStop) {
		return s.res, err
	}
	s.logger.Info("search finished", "trees", s.res.Trees, "intermediate", s.res.Intermediate, "stop", s.res.Stop)
	return s.res, nil
}

// Limit checks the stopping criteria.
func (s *search) limit(ctx context.Context) error {
	if ctx.Err() != nil {
		s.res.Stop = Canceled
		return errStop
	}
	if s.cfg.MaxTime > 0 && time.Since(s.start) >= s.cfg.MaxTime {
		s.res.Stop = TimeLimit
		return errStop
	}
	if s.cfg.MaxIntermediate > 0 && s.res.Intermediate >= s.cfg.MaxIntermediate {
		s.res.Stop = IntermediateLimit
		return errStop
	}
	return nil
}

func (s *search) step(ctx context.Context, depth int) error {
	if err := s.limit(ctx); err != nil {
		return err
	}
	if depth == len(s.taxa) {
		return s.emit()
	}

	s.res.Intermediate++
	if s.res.Intermediate%progressStep == 0 {
		s.logger.Debug("searching", "intermediate", s.res.Intermediate, "trees", s.res.Trees, "elapsed", time.Since(s.start).Round(time.Second))
	}

	tx := s.taxa[depth]
	parts := s.parts[depth]
	want := make([]int, len(parts))
	for i, p := range parts {
		want[i] = Unmapped
		if pr := s.pairs[p]; !pr.Free() {
			want[i] = pr.Target(tx)
		}
	}

	var edges []int
	if s.t.tree.Len() < 2 {
		edges = []int{-1}
	} else {
		edges = s.t.tree.EdgeOrder(s.root)
	}

	found := false
	for _, e := range edges {
		if !s.legal(e, parts, want) {
			continue
		}
		found = true
		if err := s.insert(e, depth); err != nil {
			return err
		}
		err := s.step(ctx, depth+1)
		if uerr := s.undo(depth); uerr != nil {
			return uerr
		}
		if err != nil {
			return err
		}
	}
	if !found {
		s.res.DeadEnds++
	}
	return nil
}

// Legal returns true if inserting a taxon
// at the edge e of the main tree
// is consistent with the top tree
// of each partition of the taxon.
func (s *search) legal(e int, parts, want []int) bool {
	if e < 0 {
		return true
	}
	for i, p := range parts {
		if want[i] == Unmapped {
			continue
		}
		if want[i] == Empty {
			return false
		}
		if s.t.maps[p].Target(e) != want[i] {
			return false
		}
	}
	return true
}

// Insert inserts the taxon of the given depth
// at the edge e of the main tree,
// and updates the low trees and the maps.
func (s *search) insert(e, depth int) error {
	tx := s.taxa[depth]
	if _, err := s.t.tree.InsertLeaf(e, tx); err != nil {
		return &Error{Kind: KindMapping, Msg: "insert into main tree", Err: err}
	}
	if s.root < 0 {
		s.root = s.t.tree.First()
	}

	f := frame{full: e < 0}
	if f.full {
		f.maps = append([]*Map(nil), s.t.maps...)
	} else {
		ne := s.t.tree.NumEdges()
		for q, m := range s.t.maps {
			if s.in[depth][q] {
				continue
			}
			m.extend(e, ne-2, ne-1)
		}
	}

	parts := s.parts[depth]
	f.pairMaps = make([]*Map, len(parts))
	if !f.full {
		f.maps = make([]*Map, len(parts))
	}
	for i, p := range parts {
		pr := s.pairs[p]
		target := Empty
		if !pr.Free() {
			target = pr.Target(tx)
		}
		if _, err := pr.low.InsertLeaf(target, tx); err != nil {
			return &Error{Kind: KindMapping, Msg: "insert into low tree", Err: err}
		}
		f.pairMaps[i] = pr.m
		if !f.full {
			f.maps[i] = s.t.maps[p]
		}
	}
	s.frames = append(s.frames, f)

	sd, err := s.t.tree.Sides(s.root, s.t.idx)
	if err != nil {
		return configErr(err, "main tree")
	}
	if f.full {
		for p := range s.t.maps {
			if err := s.relink(p, sd); err != nil {
				return err
			}
		}
		return nil
	}
	for _, p := range parts {
		if err := s.relink(p, sd); err != nil {
			return err
		}
	}
	return nil
}

// Relink updates the maps of a partition
// after its low tree was modified.
func (s *search) relink(p int, sd *tree.Sides) error {
	pr := s.pairs[p]
	if err := pr.relink(); err != nil {
		return err
	}
	m := linkEdges(sd, s.t.tree.NumEdges(), pr.low, pr.lowSet)
	m.linkEmpty(s.t.tree)
	if err := m.check(); err != nil {
		return &Error{Kind: KindMapping, Msg: "main tree into low tree", Err: err}
	}
	s.t.maps[p] = m
	return nil
}

// Undo removes the taxon of the given depth
// and restores the maps.
func (s *search) undo(depth int) error {
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]

	parts := s.parts[depth]
	for i, p := range parts {
		pr := s.pairs[p]
		if err := pr.low.RemoveLastLeaf(); err != nil {
			return &Error{Kind: KindMapping, Msg: "undo low tree", Err: err}
		}
		pr.m = f.pairMaps[i]
		ls, err := pr.low.Splits(pr.idx)
		if err != nil {
			return configErr(err, "low tree of partition %d", p)
		}
		pr.lowSet = ls
		if !f.full {
			s.t.maps[p] = f.maps[i]
		}
	}

	if f.full {
		copy(s.t.maps, f.maps)
	} else {
		for q, m := range s.t.maps {
			if s.in[depth][q] {
				continue
			}
			m.shrink()
		}
	}

	if err := s.t.tree.RemoveLastLeaf(); err != nil {
		return &Error{Kind: KindMapping, Msg: "undo main tree", Err: err}
	}
	if s.t.tree.Len() == 0 {
		s.root = -1
	}
	return nil
}

// Emit writes a complete tree.
func (s *search) emit() error {
	s.res.Trees++
	if s.cfg.PrintLimit == 0 || s.res.Printed < s.cfg.PrintLimit {
		if err := s.t.tree.WriteNewick(s.w); err != nil {
			return &Error{Kind: KindIO, Msg: "while writing tree", Err: err}
		}
		s.res.Printed++
	}
	if s.cfg.MaxTrees > 0 && s.res.Trees >= s.cfg.MaxTrees {
		s.res.Stop = TreeLimit
		return errStop
	}
	return nil
}
