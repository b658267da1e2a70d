// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pam

import (
	"errors"

	"github.com/js-arias/terrace/align"
)

// FromAlignment builds a presence-absence matrix
// from a partitioned alignment.
// A taxon is present in a partition
// if its sequence has at least one character
// that is not missing data
// in the partition columns.
func FromAlignment(a *align.Alignment) (*Matrix, error) {
	if len(a.Parts) == 0 {
		return nil, errors.New("alignment without partitions")
	}

	m := New()
	for _, p := range a.Parts {
		m.AddPartition(p.Name)
	}
	for _, tx := range a.Names() {
		id := m.AddTaxon(tx)
		for i, p := range a.Parts {
			m.m[id][i] = a.Present(tx, p)
		}
	}
	return m, nil
}
