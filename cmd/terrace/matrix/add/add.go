// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add
// a presence-absence matrix to a terrace project.
package add

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/terrace/align"
	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/project"
)

var Command = &command.Command{
	Usage: `add [-f|--file <matrix-file>] [--table]
	[--fasta <alignment-file> --parts <partition-file>]
	<project-file> [<input-file>]`,
	Short: "add a presence-absence matrix to a terrace project",
	Long: `
Command add reads a presence-absence matrix of taxa in gene partitions, and
add it to a terrace project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

The second argument is the file with the matrix. If no file is given, the
matrix will be read from the standard input.

By default, the input is expected to be a tab-delimited matrix file (see
'terrace help matrix-files'). Use the flag --table to read the matrix from a
plain table, in which the first line has the number of taxa and partitions,
and each following line is a taxon name with its presence-absence values.

If the flag --fasta is used, the matrix will be build from the indicated
alignment, with the partitions defined in the file given with the flag
--parts. Both files will be added to the project. In this case, no input
file should be given.

By default the matrix will be stored in the matrix file currently defined
for the project. If the project does not have a matrix file, a new one will
be created with the name 'matrix.tab'. A different matrix file name can be
defined using the flag --file, or -f. Any previous data in the matrix file
will be replaced.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var matrixFile string
var fastaFile string
var partsFile string
var tableFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&matrixFile, "file", "", "")
	c.Flags().StringVar(&matrixFile, "f", "", "")
	c.Flags().StringVar(&fastaFile, "fasta", "", "")
	c.Flags().StringVar(&partsFile, "parts", "", "")
	c.Flags().BoolVar(&tableFlag, "table", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if fastaFile != "" && partsFile == "" {
		return c.UsageError("flag --fasta requires flag --parts")
	}
	if fastaFile != "" && tableFlag {
		return c.UsageError("flags --fasta and --table are incompatible")
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	var m *pam.Matrix
	if fastaFile != "" {
		m, err = readAlignment()
	} else {
		var input string
		if len(args) > 1 && args[1] != "-" {
			input = args[1]
		}
		m, err = readMatrix(c.Stdin(), input)
	}
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}

	if matrixFile == "" {
		matrixFile = p.Path(project.Matrix)
		if matrixFile == "" {
			matrixFile = "matrix.tab"
		}
	}
	if err := writeMatrix(m); err != nil {
		return err
	}

	p.Add(project.Matrix, matrixFile)
	if fastaFile != "" {
		p.Add(project.Alignment, fastaFile)
		p.Add(project.Partitions, partsFile)
	}
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

func readMatrix(r io.Reader, name string) (*pam.Matrix, error) {
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

	read := pam.ReadTSV
	if tableFlag {
		read = pam.ReadTable
	}
	m, err := read(r)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return m, nil
}

func readAlignment() (*pam.Matrix, error) {
	f, err := os.Open(fastaFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	a, err := align.ReadFasta(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", fastaFile, err)
	}

	pf, err := os.Open(partsFile)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	a.Parts, err = align.ReadPartitions(pf)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", partsFile, err)
	}

	m, err := pam.FromAlignment(a)
	if err != nil {
		return nil, fmt.Errorf("alignment %q: %v", fastaFile, err)
	}
	return m, nil
}

func writeMatrix(m *pam.Matrix) (err error) {
	f, err := os.Create(matrixFile)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := m.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", matrixFile, err)
	}
	return nil
}
