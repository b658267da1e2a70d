// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package info implements a command to print
// a summary of the presence-absence matrix of a project.
package info

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/project"
)

var Command = &command.Command{
	Usage: "info [--overlap] [--taxa] <project-file>",
	Short: "print a summary of a presence-absence matrix",
	Long: `
Command info reads the presence-absence matrix of a terrace project and
prints a summary into the standard output. The summary includes the number
of taxa and partitions, the percentage of missing data, and the number of
taxa in each partition.

The argument of the command is the name of the project file.

If the flag --taxa is defined, the number of partitions of each taxon will
be printed.

If the flag --overlap is defined, a table with the number of taxa shared by
each pair of partitions will be printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var overlapFlag bool
var taxaFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&overlapFlag, "overlap", false, "")
	c.Flags().BoolVar(&taxaFlag, "taxa", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	m, err := p.Matrix()
	if err != nil {
		return err
	}

	printSummary(c.Stdout(), m)
	if taxaFlag {
		printTaxa(c.Stdout(), m)
	}
	if overlapFlag {
		printOverlap(c.Stdout(), m)
	}
	return nil
}

func printSummary(w io.Writer, m *pam.Matrix) {
	st := m.Stats()

	fmt.Fprintf(w, "taxa:         %d\n", m.NumTaxa())
	fmt.Fprintf(w, "partitions:   %d\n", m.NumParts())
	fmt.Fprintf(w, "missing data: %.2f%%\n", st.Missing)
	fmt.Fprintf(w, "taxa per partition:      %.2f (sd %.2f)\n", st.MeanPart, st.SDPart)
	fmt.Fprintf(w, "partitions per taxon:    %.2f (sd %.2f)\n", st.MeanTaxon, st.SDTaxon)
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "partition\ttaxa\n")
	for i, s := range st.PartSize {
		fmt.Fprintf(w, "%s\t%d\n", m.Partition(i), s)
	}
	fmt.Fprintf(w, "\n")
}

func printTaxa(w io.Writer, m *pam.Matrix) {
	st := m.Stats()

	fmt.Fprintf(w, "taxon\tpartitions\n")
	for i, c := range st.TaxonParts {
		fmt.Fprintf(w, "%s\t%d\n", m.Taxon(i), c)
	}
	fmt.Fprintf(w, "\n")
}

func printOverlap(w io.Writer, m *pam.Matrix) {
	ov := m.Overlap()

	fmt.Fprintf(w, "overlap")
	for _, p := range m.Partitions() {
		fmt.Fprintf(w, "\t%s", p)
	}
	fmt.Fprintf(w, "\n")
	for i, p := range m.Partitions() {
		fmt.Fprintf(w, "%s", p)
		for j := range m.NumParts() {
			fmt.Fprintf(w, "\t%.0f", ov.At(i, j))
		}
		fmt.Fprintf(w, "\n")
	}
	fmt.Fprintf(w, "\n")
}
