// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add
// the reference tree to a terrace project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/terrace/project"
	"github.com/js-arias/terrace/tree"
	"github.com/js-arias/timetree"
)

var Command = &command.Command{
	Usage: `add [-f|--file <tree-file>] [--tsv] [--tree <name>]
	<project-file> [<input-file>]`,
	Short: "add a reference tree to a terrace project",
	Long: `
Command add reads a phylogenetic tree and sets it as the reference tree of a
terrace project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

The second argument is the file with the tree. If no file is given, the tree
will be read from the standard input.

By default, the input is expected to be in newick (parenthetical) format,
with one tree per line. If the file has more than one tree, only the first
tree will be used. Use the flag --tsv to read the tree from a tab-delimited
tree file as used by PhyGeo. In that case, the flag --tree can be used to
select a tree by its name.

If the search parameters of the project define rooted trees, the root of the
input tree will be kept.

By default the tree will be stored in the tree file currently defined for the
project. If the project does not have a tree file, a new one will be created
with the name 'tree.nwk'. A different tree file name can be defined using
the flag --file, or -f. Any previous data in the tree file will be replaced.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var treeName string
var tsvFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "file", "", "")
	c.Flags().StringVar(&treeFile, "f", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().BoolVar(&tsvFlag, "tsv", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if treeName != "" && !tsvFlag {
		return c.UsageError("flag --tree requires flag --tsv")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	sp, err := p.Params()
	if err != nil {
		return err
	}

	var input string
	if len(args) > 1 && args[1] != "-" {
		input = args[1]
	}

	var t *tree.Tree
	if tsvFlag {
		t, err = readTSV(c.Stdin(), input, sp.Rooted())
	} else {
		t, err = readNewick(c.Stdin(), input, sp.Rooted())
	}
	if err != nil {
		return err
	}

	if treeFile == "" {
		treeFile = p.Path(project.Tree)
		if treeFile == "" {
			treeFile = "tree.nwk"
		}
	}
	if err := writeTree(t); err != nil {
		return err
	}

	p.Add(project.Tree, treeFile)
	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}

func readNewick(r io.Reader, name string, rooted bool) (*tree.Tree, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	ts, err := tree.ReadNewick(r, rooted)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	if len(ts) == 0 {
		return nil, fmt.Errorf("while reading file %q: no trees", name)
	}
	return ts[0], nil
}

func readTSV(r io.Reader, name string, rooted bool) (*tree.Tree, error) {
	if name != "" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	c, err := timetree.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}

	tn := treeName
	if tn == "" {
		ls := c.Names()
		if len(ls) == 0 {
			return nil, fmt.Errorf("while reading file %q: no trees", name)
		}
		tn = ls[0]
	}
	tt := c.Tree(tn)
	if tt == nil {
		return nil, fmt.Errorf("while reading file %q: tree %q not found", name, tn)
	}
	return tree.FromTimeTree(tt, rooted)
}

func writeTree(t *tree.Tree) (err error) {
	f, err := os.Create(treeFile)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := t.WriteNewick(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", treeFile, err)
	}
	return nil
}
