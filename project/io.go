// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/js-arias/terrace/align"
	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/searchparam"
	"github.com/js-arias/terrace/tree"
)

// Alignment reads a partitioned alignment
// as defined in a project.
func (p *Project) Alignment() (*align.Alignment, error) {
	name := p.Path(Alignment)
	if name == "" {
		return nil, fmt.Errorf("alignment not defined in project %q", p.name)
	}
	pName := p.Path(Partitions)
	if pName == "" {
		return nil, fmt.Errorf("partitions not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := align.ReadFasta(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}

	pf, err := os.Open(pName)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	a.Parts, err = align.ReadPartitions(pf)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", pName, err)
	}
	return a, nil
}

// Matrix reads a presence-absence matrix
// as defined in a project.
func (p *Project) Matrix() (*pam.Matrix, error) {
	name := p.Path(Matrix)
	if name == "" {
		return nil, fmt.Errorf("presence-absence matrix not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := pam.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return m, nil
}

// Params reads the search parameters
// as defined in a project.
// If the parameters are not defined,
// it returns the default parameters.
func (p *Project) Params() (*searchparam.SP, error) {
	name := p.Path(Params)
	if name == "" {
		return searchparam.New(""), nil
	}
	return searchparam.Read(name)
}

// Tree reads the reference tree
// as defined in a project.
// If the file has more than one tree,
// only the first tree will be used.
func (p *Project) Tree(rooted bool) (*tree.Tree, error) {
	name := p.Path(Tree)
	if name == "" {
		return nil, fmt.Errorf("tree not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts, err := tree.ReadNewick(f, rooted)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("while reading file %q: no trees", name)
	}
	return ts[0], nil
}
