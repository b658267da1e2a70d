// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package project implements reading and writing
// of terrace project files.
//
// A terrace project is a tab-delimited file (TSV)
// used to store the different data files
// required by terrace commands.
package project

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"
)

// Dataset is a keyword to identify
// the type of a dataset file in a project.
type Dataset string

// Valid dataset types.
const (
	// File for the sequence alignment
	// used to build the presence-absence matrix.
	Alignment Dataset = "alignment"

	// File for the presence-absence matrix
	// of taxa in partitions.
	Matrix Dataset = "matrix"

	// File for the search parameters.
	Params Dataset = "params"

	// File for the partitions of the alignment.
	Partitions Dataset = "partitions"

	// File for the reference phylogenetic tree.
	Tree Dataset = "tree"
)

// A Project represents a collection of paths
// for particular datasets.
type Project struct {
	name  string
	paths map[Dataset]string
}

// New creates a new empty project.
func New() *Project {
	return &Project{
		name:  "",
		paths: make(map[Dataset]string),
	}
}

var header = []string{
	"dataset",
	"path",
}

var datasets = map[Dataset]bool{
	Alignment:  true,
	Matrix:     true,
	Params:     true,
	Partitions: true,
	Tree:       true,
}

// Read reads a project file.
func Read(name string) (*Project, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	p.name = name
	return p, nil
}

// ReadTSV reads a project from a TSV file.
//
// The TSV must contain the following fields:
//
//   - dataset, for the kind of file
//   - path, for the path of the file
//
// Each dataset can be defined only once.
//
// Here is an example file:
//
//	# terrace project files
//	dataset	path
//	matrix	matrix.tab
//	params	params.toml
//	tree	tree.nwk
func ReadTSV(r io.Reader) (*Project, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		fields[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	p := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		set := Dataset(strings.ToLower(strings.TrimSpace(row[fields["dataset"]])))
		if !datasets[set] {
			return nil, fmt.Errorf("on row %d: unknown dataset %q", ln, set)
		}
		if _, dup := p.paths[set]; dup {
			return nil, fmt.Errorf("on row %d: dataset %q already defined", ln, set)
		}
		path := strings.TrimSpace(row[fields["path"]])
		if path == "" {
			continue
		}
		p.paths[set] = path
	}

	return p, nil
}

// Add adds a filepath of a dataset to a given project.
// It returns the previous value
// for the dataset.
// An empty path removes the dataset.
func (p *Project) Add(set Dataset, path string) string {
	prev := p.paths[set]
	if path == "" {
		delete(p.paths, set)
		return prev
	}
	p.paths[set] = path
	return prev
}

// Path returns the path of the given dataset.
func (p *Project) Path(set Dataset) string {
	return p.paths[set]
}

// Sets returns the datasets defined on a project.
func (p *Project) Sets() []Dataset {
	return slices.Sorted(maps.Keys(p.paths))
}

// Name returns the project file name.
func (p *Project) Name() string {
	return p.name
}

// SetName sets the project file name.
func (p *Project) SetName(name string) {
	p.name = name
}

// Write writes a project into its file.
func (p *Project) Write() (err error) {
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := p.TSV(f); err != nil {
		return fmt.Errorf("on file %q: %v", p.name, err)
	}
	return nil
}

// TSV writes a project as a TSV file.
func (p *Project) TSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# terrace project files\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))

	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true
	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, s := range p.Sets() {
		if err := tsv.Write([]string{string(s), p.paths[s]}); err != nil {
			return err
		}
	}
	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return bw.Flush()
}
