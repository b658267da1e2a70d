// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package terms implements a command to print
// the list of the terminals in the reference tree of a terrace project.
package terms

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/terrace/project"
)

var Command = &command.Command{
	Usage: "terms [--missing] <project-file>",
	Short: "print a list of tree terminals",
	Long: `
Command terms reads the reference tree from a terrace project and prints the
name of the terminals in the standard output.

The argument of the command is the name of the project file.

If the flag --missing is set, it will print the terminals of the tree that
are not defined in the presence-absence matrix of the project, as well as the
taxa of the matrix that are not in the tree.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var missingFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&missingFlag, "missing", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	t, err := p.Tree(false)
	if err != nil {
		return err
	}

	if !missingFlag {
		for _, term := range t.Terms() {
			fmt.Fprintf(c.Stdout(), "%s\n", term)
		}
		return nil
	}

	m, err := p.Matrix()
	if err != nil {
		return err
	}
	for _, term := range t.Terms() {
		if m.TaxonID(term) < 0 {
			fmt.Fprintf(c.Stdout(), "%s\tnot in matrix\n", term)
		}
	}
	for _, tx := range m.Taxa() {
		if _, ok := t.TaxNode(tx); !ok {
			fmt.Fprintf(c.Stdout(), "%s\tnot in tree\n", tx)
		}
	}
	return nil
}
