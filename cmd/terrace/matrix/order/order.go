// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package order implements a command to print
// the initial taxa and the insertion order
// used by a terrace search.
package order

import (
	"github.com/js-arias/command"
	"github.com/js-arias/terrace/project"
)

var Command = &command.Command{
	Usage: "order <project-file>",
	Short: "print the initial taxa of a terrace search",
	Long: `
Command order reads the presence-absence matrix of a terrace project and
prints the taxa used to build the initial tree of a terrace search, as well
as the order in which the other taxa will be inserted.

The initial taxa are the taxa of the largest partition, as they are shared
by all the trees of the terrace. If the partition has less than three taxa,
it is completed with the taxa present in most partitions. The taxa that
cover the partitions without initial taxa are inserted first. For each
taxon, the number of partitions in which the taxon is present is also
printed.

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
	m, err := p.Matrix()
	if err != nil {
		return err
	}

	return m.WriteOrder(c.Stdout())
}
