// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Terrace is a tool for the analysis of phylogenetic terraces.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/terrace/cmd/terrace/check"
	"github.com/js-arias/terrace/cmd/terrace/generate"
	"github.com/js-arias/terrace/cmd/terrace/matrix"
	"github.com/js-arias/terrace/cmd/terrace/param"
	"github.com/js-arias/terrace/cmd/terrace/prj"
	"github.com/js-arias/terrace/cmd/terrace/tree"
)

var app = &command.Command{
	Usage: "terrace <command> [<argument>...]",
	Short: "a tool for phylogenetic terrace analysis",
}

func init() {
	app.Add(check.Command)
	app.Add(generate.Command)
	app.Add(matrix.Command)
	app.Add(param.Command)
	app.Add(prj.Command)
	app.Add(tree.Command)
}

func main() {
	app.Main()
}
