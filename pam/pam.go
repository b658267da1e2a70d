// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pam implements a presence-absence matrix
// of taxa in the partitions
// (for example, genes)
// of a phylogenetic dataset.
package pam

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ErrUnknownTaxon is the error returned
// when a taxon is not in the matrix.
var ErrUnknownTaxon = errors.New("taxon not in matrix")

// Matrix is a presence-absence matrix.
// Rows are taxa
// and columns are partitions.
type Matrix struct {
	taxa  []string
	parts []string
	ids   map[string]int
	pids  map[string]int
	m     [][]bool
}

// New creates a new empty matrix.
func New() *Matrix {
	return &Matrix{
		ids:  make(map[string]int),
		pids: make(map[string]int),
	}
}

// AddPartition adds a partition to the matrix
// and returns its index.
// If the partition already exists,
// it returns the index of the partition.
func (m *Matrix) AddPartition(name string) int {
	name = strings.Join(strings.Fields(name), " ")
	if p, ok := m.pids[name]; ok {
		return p
	}
	p := len(m.parts)
	m.parts = append(m.parts, name)
	m.pids[name] = p
	for i := range m.m {
		m.m[i] = append(m.m[i], false)
	}
	return p
}

// AddTaxon adds a taxon to the matrix
// and returns its index.
// If the taxon already exists,
// it returns the index of the taxon.
func (m *Matrix) AddTaxon(name string) int {
	name = strings.TrimSpace(name)
	if id, ok := m.ids[name]; ok {
		return id
	}
	id := len(m.taxa)
	m.taxa = append(m.taxa, name)
	m.ids[name] = id
	m.m = append(m.m, make([]bool, len(m.parts)))
	return id
}

// Set sets the presence of a taxon
// in a partition.
// Taxa and partitions are added
// if they are not already in the matrix.
func (m *Matrix) Set(taxon, part string, present bool) {
	taxon = strings.TrimSpace(taxon)
	if taxon == "" {
		return
	}
	part = strings.Join(strings.Fields(part), " ")
	if part == "" {
		return
	}

	t := m.AddTaxon(taxon)
	p := m.AddPartition(part)
	m.m[t][p] = present
}

// NumParts returns the number of partitions.
func (m *Matrix) NumParts() int {
	return len(m.parts)
}

// NumTaxa returns the number of taxa.
func (m *Matrix) NumTaxa() int {
	return len(m.taxa)
}

// PartID returns the index of a partition,
// or -1 if the partition is not in the matrix.
func (m *Matrix) PartID(name string) int {
	name = strings.Join(strings.Fields(name), " ")
	if p, ok := m.pids[name]; ok {
		return p
	}
	return -1
}

// Partition returns the name of a partition.
func (m *Matrix) Partition(p int) string {
	return m.parts[p]
}

// Partitions returns the partition names
// in matrix order.
func (m *Matrix) Partitions() []string {
	return slices.Clone(m.parts)
}

// PartTaxa returns the taxa present in a partition,
// in matrix order.
func (m *Matrix) PartTaxa(p int) []string {
	var taxa []string
	for i, tx := range m.taxa {
		if m.m[i][p] {
			taxa = append(taxa, tx)
		}
	}
	return taxa
}

// Present returns true if a taxon
// is present in a partition.
func (m *Matrix) Present(taxon, p int) bool {
	return m.m[taxon][p]
}

// Taxa returns the taxon names
// in matrix order.
func (m *Matrix) Taxa() []string {
	return slices.Clone(m.taxa)
}

// Taxon returns the name of a taxon.
func (m *Matrix) Taxon(id int) string {
	return m.taxa[id]
}

// TaxonID returns the index of a taxon,
// or -1 if the taxon is not in the matrix.
func (m *Matrix) TaxonID(name string) int {
	if id, ok := m.ids[strings.TrimSpace(name)]; ok {
		return id
	}
	return -1
}

// TaxonParts returns the partitions
// in which a taxon is present.
func (m *Matrix) TaxonParts(id int) []int {
	var parts []int
	for p, ok := range m.m[id] {
		if ok {
			parts = append(parts, p)
		}
	}
	return parts
}

// Sub returns a new matrix
// with the indicated taxa,
// in the order of the subset.
// All taxa in the subset must be in the matrix.
func (m *Matrix) Sub(subset []string) (*Matrix, error) {
	sm := New()
	for _, p := range m.parts {
		sm.AddPartition(p)
	}
	for _, tx := range subset {
		id := m.TaxonID(tx)
		if id < 0 {
			return nil, fmt.Errorf("taxon %q: %w", tx, ErrUnknownTaxon)
		}
		st := sm.AddTaxon(m.taxa[id])
		copy(sm.m[st], m.m[id])
	}
	if sm.NumTaxa() != len(subset) {
		return nil, fmt.Errorf("subset with %d taxa: %d different taxa: repeated names", len(subset), sm.NumTaxa())
	}
	return sm, nil
}

// Validate returns an error
// if the matrix is empty,
// or if a taxon is not present in any partition.
func (m *Matrix) Validate() error {
	if len(m.taxa) == 0 {
		return errors.New("matrix without taxa")
	}
	if len(m.parts) == 0 {
		return errors.New("matrix without partitions")
	}
	for i, tx := range m.taxa {
		if !slices.Contains(m.m[i], true) {
			return fmt.Errorf("taxon %q: not present in any partition", tx)
		}
	}
	return nil
}

// Missing returns the fraction of absent cells
// in the matrix.
func (m *Matrix) Missing() float64 {
	if len(m.taxa) == 0 || len(m.parts) == 0 {
		return 0
	}
	var missing int
	for _, row := range m.m {
		for _, ok := range row {
			if !ok {
				missing++
			}
		}
	}
	return float64(missing) / float64(len(m.taxa)*len(m.parts))
}

// PercentMissing returns the percentage of absent cells
// in the matrix.
func (m *Matrix) PercentMissing() float64 {
	return m.Missing() * 100
}

// Dense returns the matrix as a dense matrix
// of ones (present) and zeros (absent).
//
// It returns an empty matrix
// if the matrix has no taxa or no partitions.
func (m *Matrix) Dense() *mat.Dense {
	if len(m.taxa) == 0 || len(m.parts) == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(len(m.taxa), len(m.parts), nil)
	for i, row := range m.m {
		for j, ok := range row {
			if ok {
				d.Set(i, j, 1)
			}
		}
	}
	return d
}

// Overlap returns a symmetric matrix
// with the number of taxa shared
// by each pair of partitions.
// The diagonal stores the number of taxa
// in each partition.
//
// It returns an empty matrix
// if the matrix has no partitions.
func (m *Matrix) Overlap() *mat.SymDense {
	if len(m.parts) == 0 {
		return &mat.SymDense{}
	}
	s := mat.NewSymDense(len(m.parts), nil)
	if len(m.taxa) == 0 {
		return s
	}
	s.SymOuterK(1, m.Dense().T())
	return s
}

// Stats is a summary of a presence-absence matrix.
type Stats struct {
	// Number of taxa of each partition.
	PartSize []int

	// Number of partitions of each taxon.
	TaxonParts []int

	// Mean and standard deviation
	// of the partition sizes.
	MeanPart, SDPart float64

	// Mean and standard deviation
	// of the number of partitions per taxon.
	MeanTaxon, SDTaxon float64

	// Percentage of missing cells.
	Missing float64
}

// Stats returns a summary of the matrix.
func (m *Matrix) Stats() Stats {
	st := Stats{
		PartSize:   make([]int, len(m.parts)),
		TaxonParts: make([]int, len(m.taxa)),
		Missing:    m.PercentMissing(),
	}
	for i, row := range m.m {
		for j, ok := range row {
			if !ok {
				continue
			}
			st.PartSize[j]++
			st.TaxonParts[i]++
		}
	}

	st.MeanPart, st.SDPart = meanSD(st.PartSize)
	st.MeanTaxon, st.SDTaxon = meanSD(st.TaxonParts)
	return st
}

func meanSD(v []int) (mean, sd float64) {
	if len(v) == 0 {
		return 0, 0
	}
	x := make([]float64, len(v))
	for i, c := range v {
		x[i] = float64(c)
	}
	if len(x) == 1 {
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
