// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package matrix is a metapackage for commands
// that dealt with presence-absence matrices.
package matrix

import (
	"github.com/js-arias/command"
	"github.com/js-arias/terrace/cmd/terrace/matrix/add"
	"github.com/js-arias/terrace/cmd/terrace/matrix/info"
	"github.com/js-arias/terrace/cmd/terrace/matrix/order"
	"github.com/js-arias/terrace/cmd/terrace/matrix/plot"
)

var Command = &command.Command{
	Usage: "matrix <command> [<argument>...]",
	Short: "commands for presence-absence matrices",
}

func init() {
	Command.Add(add.Command)
	Command.Add(info.Command)
	Command.Add(order.Command)
	Command.Add(plot.Command)
}
