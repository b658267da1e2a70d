// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package check implements a command to check
// if a set of trees are on the terrace of a reference tree.
package check

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/js-arias/command"
	"github.com/js-arias/terrace/project"
	"github.com/js-arias/terrace/terrace"
	"github.com/js-arias/terrace/tree"
)

var Command = &command.Command{
	Usage: `check [--on <file>] [--off <file>] [--quiet]
	-q|--queries <tree-file> <project-file>`,
	Short: "check if trees are on a terrace",
	Long: `
Command check reads a set of query trees and checks whether each tree is on
the terrace of the reference tree of a terrace project. A tree is on the
terrace if for each partition of the presence-absence matrix, the subtree
induced by the taxa of the partition is equal to the subtree induced on the
reference tree. Query trees must have the same terminals as the reference
tree.

The argument of the command is the name of the project file.

The flag --queries, or -q, is required, and defines the file with the query
trees, in newick format, one tree per line.

For each query tree, the command prints the tree number (starting at 1) and
whether the tree is on the terrace ("on") or not ("off"). Then, it prints
the total of trees on and off the terrace. If the flag --quiet is defined,
only the totals will be printed.

The flags --on and --off define files in which the trees on or off the
terrace will be written.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var queryFile string
var onFile string
var offFile string
var quiet bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&queryFile, "queries", "", "")
	c.Flags().StringVar(&queryFile, "q", "", "")
	c.Flags().StringVar(&onFile, "on", "", "")
	c.Flags().StringVar(&offFile, "off", "", "")
	c.Flags().BoolVar(&quiet, "quiet", false, "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if queryFile == "" {
		return c.UsageError("expecting --queries flag")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	m, err := p.Matrix()
	if err != nil {
		return err
	}
	sp, err := p.Params()
	if err != nil {
		return err
	}
	t, err := p.Tree(sp.Rooted())
	if err != nil {
		return err
	}

	queries, err := readQueries(queryFile, sp.Rooted())
	if err != nil {
		return err
	}

	considered, err := terrace.Considered(t, m, sp.Rooted())
	if err != nil {
		return err
	}

	on, err := newTreeFile(onFile)
	if err != nil {
		return err
	}
	defer func() {
		if e := on.close(); e != nil && err == nil {
			err = e
		}
	}()
	off, err := newTreeFile(offFile)
	if err != nil {
		return err
	}
	defer func() {
		if e := off.close(); e != nil && err == nil {
			err = e
		}
	}()

	res, err := considered.CheckSet(queries, on.writer(), off.writer())
	if err != nil {
		return err
	}

	printResults(c.Stdout(), res)
	return nil
}

func readQueries(name string, rooted bool) ([]*tree.Tree, error) {
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
	return ts, nil
}

// A treeFile is an optional output file.
type treeFile struct {
	f  *os.File
	bw *bufio.Writer
}

func newTreeFile(name string) (*treeFile, error) {
	if name == "" {
		return &treeFile{}, nil
	}
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	return &treeFile{f: f, bw: bufio.NewWriter(f)}, nil
}

func (tf *treeFile) writer() io.Writer {
	if tf.bw == nil {
		return nil
	}
	return tf.bw
}

func (tf *treeFile) close() error {
	if tf.f == nil {
		return nil
	}
	if err := tf.bw.Flush(); err != nil {
		tf.f.Close()
		return fmt.Errorf("while writing to %q: %v", tf.f.Name(), err)
	}
	return tf.f.Close()
}

func printResults(w io.Writer, res []bool) {
	var onTerrace int64
	for i, ok := range res {
		if ok {
			onTerrace++
		}
		if quiet {
			continue
		}
		v := "off"
		if ok {
			v = "on"
		}
		fmt.Fprintf(w, "%d\t%s\n", i+1, v)
	}
	fmt.Fprintf(w, "on terrace:  %s\n", humanize.Comma(onTerrace))
	fmt.Fprintf(w, "off terrace: %s\n", humanize.Comma(int64(len(res))-onTerrace))
}
