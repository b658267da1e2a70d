// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package generate implements a command to generate
// the trees of a phylogenetic terrace.
package generate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/js-arias/command"
	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/project"
	"github.com/js-arias/terrace/terrace"
)

var Command = &command.Command{
	Usage: `generate [-o|--output <file>] [--maps <file>] [--verbose]
	<project-file>`,
	Short: "generate the trees of a terrace",
	Long: `
Command generate reads the reference tree and the presence-absence matrix of
a terrace project, and writes all the trees on the terrace of the reference
tree, in newick format.

The argument of the command is the name of the project file.

By default the trees are written into the standard output. Use the flag
--output, or -o, to write the trees into a file.

The search is limited by the search parameters of the project (see 'terrace
param'). If a limit is reached, or the search is interrupted, the trees
found are reported as a partial result.

At the end of the search, a summary of the analysis will be printed. If the
trees are written into the standard output, the summary will be printed in
the standard error.

The flag --maps writes into the indicated file a report of the edge maps
between the initial tree and the trees induced on each partition.

The flag --verbose enables the report of the search progress.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string
var mapsFile string
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
	c.Flags().StringVar(&mapsFile, "maps", "", "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
}

func run(c *command.Command, args []string) (err error) {
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
	sp, err := p.Params()
	if err != nil {
		return err
	}
	t, err := p.Tree(sp.Rooted())
	if err != nil {
		return err
	}

	cfg := sp.Config()
	cfg.Logger = newLogger(c.Stderr())

	w := c.Stdout()
	sw := c.Stderr()
	if output != "" {
		f, ferr := os.Create(output)
		if ferr != nil {
			return ferr
		}
		defer func() {
			e := f.Close()
			if e != nil && err == nil {
				err = e
			}
		}()
		w = f
		sw = c.Stdout()
	}
	bw := bufio.NewWriter(w)

	if mapsFile != "" {
		mf, ferr := os.Create(mapsFile)
		if ferr != nil {
			return ferr
		}
		defer func() {
			e := mf.Close()
			if e != nil && err == nil {
				err = e
			}
		}()
		cfg.Maps = mf
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := terrace.Analysis(ctx, t, m, bw, cfg)
	if err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing trees: %v", err)
	}

	printSummary(sw, m, res)
	return nil
}

func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           level,
		Prefix:          "terrace",
	})
}

func printSummary(w io.Writer, m *pam.Matrix, res terrace.Result) {
	fmt.Fprintf(w, "taxa:               %d\n", m.NumTaxa())
	fmt.Fprintf(w, "partitions:         %d\n", m.NumParts())
	fmt.Fprintf(w, "missing data:       %.2f%%\n", m.PercentMissing())
	fmt.Fprintf(w, "trees:              %s\n", humanize.Comma(res.Trees))
	fmt.Fprintf(w, "printed trees:      %s\n", humanize.Comma(res.Printed))
	fmt.Fprintf(w, "intermediate trees: %s\n", humanize.Comma(res.Intermediate))
	fmt.Fprintf(w, "dead ends:          %s\n", humanize.Comma(res.DeadEnds))
	fmt.Fprintf(w, "elapsed time:       %v\n", res.Elapsed.Round(time.Millisecond))
	if cpu := cpuTime(); cpu > 0 {
		fmt.Fprintf(w, "cpu time:           %v\n", cpu.Round(time.Millisecond))
	}
	if res.Partial() {
		fmt.Fprintf(w, "stop:               %s (partial result)\n", res.Stop)
	} else {
		fmt.Fprintf(w, "stop:               %s\n", res.Stop)
	}
}
