// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to manage
// the parameters of a terrace search.
package param

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/terrace/project"
	"github.com/js-arias/terrace/searchparam"
)

var Command = &command.Command{
	Usage: `param [--add <param-file>] [-f|--file <file-name>]
	[--maxtrees <value>] [--maxintermediate <value>]
	[--maxtime <seconds>] [--printlimit <value>]
	[--rooted <bool>] [--order <policy>]
	<project-file>`,
	Short: "manage terrace search parameters",
	Long: `
Command param manages the parameters of the terrace search defined for a
terrace project. These parameters define the limits of the search, as well
as the way in which the initial tree is selected.

The argument of the command is the name of the project file. If no project
file exists, a new project will be created.

By default, the command will print the currently defined parameters.

If the flag --add is defined, it will use the indicated file for the search
parameters.

By default, any change on the parameters will be stored in the current
parameters file. If the project does not have a parameters file, a new one
will be created with the name 'params.tab'. Use the flag --file, or -f, to
define a new parameters file. If the file name has the extension ".toml",
the parameters will be stored as a TOML file.

The flags --maxtrees, --maxintermediate, and --printlimit set the maximum
number of generated trees, visited intermediate trees, and trees written in
the output, respectively. The flag --maxtime sets the maximum search time,
in seconds. A value of 0 means no limit.

The flag --rooted sets whether the trees are rooted ("true") or unrooted
("false", the default).

The flag --order sets the policy used to select the initial tree. Valid
values are:

	heuristic  the taxa of the largest partition (default)
	matrix     the taxa of the first partition of the matrix

See 'terrace help param-files' for a description of the file format.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addFile string
var paramFile string
var maxTrees string
var maxInter string
var maxTime string
var printLimit string
var rooted string
var order string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addFile, "add", "", "")
	c.Flags().StringVar(&paramFile, "file", "", "")
	c.Flags().StringVar(&paramFile, "f", "", "")
	c.Flags().StringVar(&maxTrees, "maxtrees", "", "")
	c.Flags().StringVar(&maxInter, "maxintermediate", "", "")
	c.Flags().StringVar(&maxTime, "maxtime", "", "")
	c.Flags().StringVar(&printLimit, "printlimit", "", "")
	c.Flags().StringVar(&rooted, "rooted", "", "")
	c.Flags().StringVar(&order, "order", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	if addFile != "" {
		if _, err := searchparam.Read(addFile); err != nil {
			return err
		}
		p.Add(project.Params, addFile)
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}

	sp, err := p.Params()
	if err != nil {
		return err
	}
	if paramFile != "" {
		sp.SetName(paramFile)
	}
	if sp.Name() == "" {
		sp.SetName("params.tab")
	}

	vals := []struct {
		p searchparam.Param
		v string
	}{
		{searchparam.MaxTrees, maxTrees},
		{searchparam.MaxIntermediate, maxInter},
		{searchparam.MaxTime, maxTime},
		{searchparam.PrintLimit, printLimit},
		{searchparam.Rooted, rooted},
		{searchparam.Order, order},
	}
	ed := false
	for _, v := range vals {
		if v.v == "" {
			continue
		}
		if err := sp.Set(v.p, v.v); err != nil {
			return fmt.Errorf("flag --%s: %v", v.p, err)
		}
		ed = true
	}

	if p.Path(project.Params) != sp.Name() {
		if err := sp.Write(); err != nil {
			return err
		}
		p.Add(project.Params, sp.Name())
		if err := p.Write(); err != nil {
			return err
		}
		return nil
	}
	if ed {
		if err := sp.Write(); err != nil {
			return err
		}
		return nil
	}

	printParams(c.Stdout(), sp)
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

func printParams(w io.Writer, sp *searchparam.SP) {
	fmt.Fprintf(w, "file:             %s\n", sp.Name())
	fmt.Fprintf(w, "max trees:        %s\n", limit(sp.MaxTrees()))
	fmt.Fprintf(w, "max intermediate: %s\n", limit(sp.MaxIntermediate()))
	if t := sp.MaxTime(); t > 0 {
		fmt.Fprintf(w, "max time:         %v\n", t)
	} else {
		fmt.Fprintf(w, "max time:         no limit\n")
	}
	fmt.Fprintf(w, "print limit:      %s\n", limit(sp.PrintLimit()))
	fmt.Fprintf(w, "rooted:           %v\n", sp.Rooted())
	fmt.Fprintf(w, "order:            %s\n", sp.Order())
}

func limit(n int64) string {
	if n == 0 {
		return "no limit"
	}
	return fmt.Sprintf("%d", n)
}
