// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package align implements reading of partitioned
// sequence alignments.
package align

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/evolbioinfo/goalign/io/fasta"
)

// An Alignment is a set of aligned sequences
// divided in partitions.
type Alignment struct {
	names []string
	seqs  map[string]string

	// Partitions of the alignment.
	Parts []Partition
}

// A Partition is a named set of alignment columns.
type Partition struct {
	// Type of the data,
	// for example "DNA" or "WAG".
	Type string

	Name   string
	Ranges []Range
}

// A Range is a set of columns in an alignment.
// Positions start at 1
// and both extremes are included.
type Range struct {
	Start, End int

	// Step between columns,
	// 1 for contiguous columns.
	Step int
}

// Names returns the names of the sequences
// in input order.
func (a *Alignment) Names() []string {
	return a.names
}

// Seq returns the sequence of a taxon.
func (a *Alignment) Seq(name string) string {
	return a.seqs[name]
}

// Len returns the number of columns of the alignment.
func (a *Alignment) Len() int {
	if len(a.names) == 0 {
		return 0
	}
	return len(a.seqs[a.names[0]])
}

// IsDNA returns true if the data type of the partition
// is nucleotide data.
func (p Partition) IsDNA() bool {
	switch strings.ToUpper(p.Type) {
	case "DNA", "NT", "BIN":
		return true
	}
	return false
}

// Missing returns true if a character
// is missing data or a gap
// for the data type of the partition.
func (p Partition) Missing(c byte) bool {
	switch c {
	case '-', '?', '.', '~':
		return true
	case 'N', 'n':
		return p.IsDNA()
	case 'X', 'x':
		return !p.IsDNA()
	}
	return false
}

// ReadFasta reads an alignment
// in FASTA format.
// All sequences must have the same length.
func ReadFasta(r io.Reader) (*Alignment, error) {
	al, err := fasta.NewParser(r).Parse()
	if err != nil {
		return nil, err
	}

	a := &Alignment{
		seqs: make(map[string]string, al.NbSequences()),
	}
	al.Iterate(func(name, seq string) bool {
		name = strings.TrimSpace(name)
		if name == "" {
			err = errors.New("empty sequence name")
			return true
		}
		if _, dup := a.seqs[name]; dup {
			err = fmt.Errorf("repeated sequence %q", name)
			return true
		}
		a.names = append(a.names, name)
		a.seqs[name] = seq
		return false
	})
	if err != nil {
		return nil, err
	}

	for _, n := range a.names {
		if len(a.seqs[n]) != a.Len() {
			return nil, fmt.Errorf("sequence %q: got %d columns, want %d", n, len(a.seqs[n]), a.Len())
		}
	}
	return a, nil
}

// ReadPartitions reads a partition file
// in RAxML format.
//
// Each line defines a partition,
// with the data type,
// the partition name,
// and one or more ranges separated by commas,
// a range may define a step with a backslash.
//
// Here is an example file:
//
//	DNA, COI = 1-657
//	DNA, RAG1_1 = 658-1500\3
//	WAG, cytb = 1501-1800, 1900-2000
func ReadPartitions(r io.Reader) ([]Partition, error) {
	sc := bufio.NewScanner(r)

	var parts []Partition
	names := make(map[string]bool)
	for ln := 1; sc.Scan(); ln++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		def, rng, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("on line %d: expecting '='", ln)
		}
		tp, name, ok := strings.Cut(def, ",")
		if !ok {
			return nil, fmt.Errorf("on line %d: expecting data type", ln)
		}
		p := Partition{
			Type: strings.TrimSpace(tp),
			Name: strings.TrimSpace(name),
		}
		if p.Name == "" {
			return nil, fmt.Errorf("on line %d: empty partition name", ln)
		}
		if names[p.Name] {
			return nil, fmt.Errorf("on line %d: repeated partition %q", ln, p.Name)
		}
		names[p.Name] = true

		for _, s := range strings.Split(rng, ",") {
			r, err := parseRange(s)
			if err != nil {
				return nil, fmt.Errorf("on line %d: %v", ln, err)
			}
			p.Ranges = append(p.Ranges, r)
		}
		parts = append(parts, p)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return parts, nil
}

func parseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	r := Range{Step: 1}

	if pos, step, ok := strings.Cut(s, "\\"); ok {
		st, err := strconv.Atoi(strings.TrimSpace(step))
		if err != nil || st < 1 {
			return r, fmt.Errorf("range %q: invalid step", s)
		}
		r.Step = st
		s = strings.TrimSpace(pos)
	}

	start, end, ok := strings.Cut(s, "-")
	if !ok {
		end = start
	}
	var err error
	r.Start, err = strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return r, fmt.Errorf("range %q: %v", s, err)
	}
	r.End, err = strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return r, fmt.Errorf("range %q: %v", s, err)
	}
	if r.Start < 1 || r.End < r.Start {
		return r, fmt.Errorf("range %q: invalid limits", s)
	}
	return r, nil
}

// Present returns true if the sequence of a taxon
// has at least one character
// that is not missing data or a gap
// in the columns of the partition.
func (a *Alignment) Present(name string, p Partition) bool {
	seq, ok := a.seqs[name]
	if !ok {
		return false
	}
	for _, r := range p.Ranges {
		for i := r.Start; i <= r.End && i <= len(seq); i += r.Step {
			if !p.Missing(seq[i-1]) {
				return true
			}
		}
	}
	return false
}
