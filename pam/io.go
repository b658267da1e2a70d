// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadTSV reads a presence-absence matrix
// from a TSV file.
//
// The TSV file must contain a field "taxon",
// with the name of the taxon,
// and any other field is read as a partition.
// Values of the partitions must be 0 (absent)
// or 1 (present).
//
// Here is an example file:
//
//	taxon	COI	16S	RAG1
//	Bufo bufo	1	1	0
//	Rana temporaria	1	0	1
//	Hyla arborea	0	1	1
func ReadTSV(r io.Reader) (*Matrix, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	tf := -1
	for i, h := range head {
		if strings.ToLower(strings.TrimSpace(h)) == "taxon" {
			tf = i
			break
		}
	}
	if tf < 0 {
		return nil, fmt.Errorf("expecting field %q", "taxon")
	}

	m := New()
	cols := make(map[int]int, len(head)-1)
	for i, h := range head {
		if i == tf {
			continue
		}
		h = strings.Join(strings.Fields(h), " ")
		if h == "" {
			return nil, fmt.Errorf("header: empty partition name in column %d", i+1)
		}
		if m.PartID(h) >= 0 {
			return nil, fmt.Errorf("header: repeated partition %q", h)
		}
		cols[i] = m.AddPartition(h)
	}

	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		tax := strings.TrimSpace(row[tf])
		if tax == "" {
			continue
		}
		if m.TaxonID(tax) >= 0 {
			return nil, fmt.Errorf("on row %d: repeated taxon %q", ln, tax)
		}
		id := m.AddTaxon(tax)
		for c, p := range cols {
			v, err := parsePresence(row[c])
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, m.parts[p], err)
			}
			m.m[id][p] = v
		}
	}
	return m, nil
}

// TSV writes a presence-absence matrix
// as a TSV file.
func (m *Matrix) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"taxon"}, m.parts...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for i, tx := range m.taxa {
		row := make([]string, 0, len(m.parts)+1)
		row = append(row, tx)
		for _, ok := range m.m[i] {
			if ok {
				row = append(row, "1")
				continue
			}
			row = append(row, "0")
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}

// ReadTable reads a presence-absence matrix
// from a plain text table.
//
// The first line contains the number of taxa
// and the number of partitions,
// then each line contains a taxon name
// followed by the presence (1) or absence (0)
// of the taxon in each partition.
// Fields are separated by spaces or tabs.
// Partitions are named by their column number,
// starting at 1.
//
// Here is an example file:
//
//	3 3
//	Bufo_bufo 1 1 0
//	Rana_temporaria 1 0 1
//	Hyla_arborea 0 1 1
func ReadTable(r io.Reader) (*Matrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<24)

	var head []string
	ln := 0
	for sc.Scan() {
		ln++
		head = strings.Fields(sc.Text())
		if len(head) > 0 {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(head) < 2 {
		return nil, fmt.Errorf("on line %d: expecting number of taxa and partitions", ln)
	}
	nt, err := strconv.Atoi(head[0])
	if err != nil {
		return nil, fmt.Errorf("on line %d: number of taxa: %v", ln, err)
	}
	np, err := strconv.Atoi(head[1])
	if err != nil {
		return nil, fmt.Errorf("on line %d: number of partitions: %v", ln, err)
	}

	m := New()
	for p := 0; p < np; p++ {
		m.AddPartition(strconv.Itoa(p + 1))
	}
	for sc.Scan() {
		ln++
		row := strings.Fields(sc.Text())
		if len(row) == 0 {
			continue
		}
		if len(row) != np+1 {
			return nil, fmt.Errorf("on line %d: got %d partitions, want %d", ln, len(row)-1, np)
		}
		if m.TaxonID(row[0]) >= 0 {
			return nil, fmt.Errorf("on line %d: repeated taxon %q", ln, row[0])
		}
		id := m.AddTaxon(row[0])
		for p, v := range row[1:] {
			ok, err := parsePresence(v)
			if err != nil {
				return nil, fmt.Errorf("on line %d: partition %d: %v", ln, p+1, err)
			}
			m.m[id][p] = ok
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if m.NumTaxa() != nt {
		return nil, fmt.Errorf("got %d taxa, want %d", m.NumTaxa(), nt)
	}
	return m, nil
}

func parsePresence(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("invalid value %q", s)
}
