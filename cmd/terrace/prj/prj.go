// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/terrace/project"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a terrace project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	sp, err := p.Params()
	if err != nil {
		return err
	}

	if p.Path(project.Matrix) != "" {
		if err := printMatrix(c.Stdout(), p); err != nil {
			return err
		}
	}
	if p.Path(project.Alignment) != "" {
		if err := printAlignment(c.Stdout(), p); err != nil {
			return err
		}
	}
	if p.Path(project.Tree) != "" {
		if err := printTree(c.Stdout(), p); err != nil {
			return err
		}
	}

	w := c.Stdout()
	fmt.Fprintf(w, "Search parameters:\n")
	if name := p.Path(project.Params); name != "" {
		fmt.Fprintf(w, "\tfile: %s\n", name)
	} else {
		fmt.Fprintf(w, "\tfile: <default values>\n")
	}
	fmt.Fprintf(w, "\trooted: %v\n", sp.Rooted())
	fmt.Fprintf(w, "\torder: %s\n", sp.Order())
	fmt.Fprintf(w, "\n")

	return nil
}

func printMatrix(w io.Writer, p *project.Project) error {
	m, err := p.Matrix()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Presence-absence matrix:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Matrix))
	fmt.Fprintf(w, "\ttaxa: %d\n", m.NumTaxa())
	fmt.Fprintf(w, "\tpartitions: %d\n", m.NumParts())
	fmt.Fprintf(w, "\tmissing data: %.2f%%\n", m.PercentMissing())
	fmt.Fprintf(w, "\n")
	return nil
}

func printAlignment(w io.Writer, p *project.Project) error {
	a, err := p.Alignment()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Alignment:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Alignment))
	fmt.Fprintf(w, "\tpartition file: %s\n", p.Path(project.Partitions))
	fmt.Fprintf(w, "\tsequences: %d\n", len(a.Names()))
	fmt.Fprintf(w, "\tcolumns: %d\n", a.Len())
	fmt.Fprintf(w, "\tpartitions: %d\n", len(a.Parts))
	fmt.Fprintf(w, "\n")
	return nil
}

func printTree(w io.Writer, p *project.Project) error {
	t, err := p.Tree(false)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Reference tree:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Tree))
	fmt.Fprintf(w, "\tterminals: %d\n", len(t.Terms()))
	fmt.Fprintf(w, "\tbranches: %d\n", t.NumEdges())
	fmt.Fprintf(w, "\n")
	return nil
}
