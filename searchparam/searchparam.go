// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package searchparam implements reading and writing
// of the parameters for a terrace search.
//
// Parameters are stored in a TSV file,
// or in a TOML file
// if the file name has the ".toml" extension.
package searchparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/terrace/terrace"
)

// Param is a keyword to identify
// the type of parameter in a search parameter file.
type Param string

// Valid parameters
const (
	// MaxIntermediate is the maximum number
	// of intermediate trees visited by the search.
	MaxIntermediate Param = "maxintermediate"

	// MaxTrees is the maximum number
	// of terrace trees generated by the search.
	MaxTrees Param = "maxtrees"

	// MaxTime is the maximum running time
	// of the search,
	// in seconds.
	MaxTime Param = "maxtime"

	// PrintLimit is the maximum number of trees
	// written into the output.
	PrintLimit Param = "printlimit"

	// Rooted indicates that the trees are rooted.
	Rooted Param = "rooted"

	// Order is the policy for the initial taxa
	// and the insertion order.
	Order Param = "order"
)

// SP represents a collection of search parameters.
// A zero value in a limit means no limit.
type SP struct {
	name string // file name

	maxInter   int64
	maxTrees   int64
	maxTime    time.Duration
	printLimit int64
	rooted     bool
	order      string
}

// New creates a new parameter collection
// with the default values.
func New(name string) *SP {
	return &SP{
		name:  name,
		order: terrace.OrderHeuristic,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a search parameter file.
//
// If the file has the ".toml" extension,
// it is read as a TOML file.
// Otherwise it is read as a TSV file
// that must contain the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# terrace search parameters
//	parameter	value
//	maxtrees	1000000
//	maxtime	3600
//	order	heuristic
func Read(name string) (*SP, error) {
	if isTOML(name) {
		return readTOML(name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	sp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(strings.TrimSpace(row[fields[f]])))

		f = "value"
		if err := sp.Set(p, row[fields[f]]); err != nil {
			return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
		}
	}
	return sp, nil
}

// Set sets a parameter from its string value.
// Unknown parameters are ignored.
func (sp *SP) Set(p Param, v string) error {
	v = strings.TrimSpace(v)
	switch p {
	case MaxIntermediate:
		n, err := parseLimit(v)
		if err != nil {
			return err
		}
		sp.maxInter = n
	case MaxTrees:
		n, err := parseLimit(v)
		if err != nil {
			return err
		}
		sp.maxTrees = n
	case MaxTime:
		s, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		return sp.SetMaxTime(s)
	case PrintLimit:
		n, err := parseLimit(v)
		if err != nil {
			return err
		}
		sp.printLimit = n
	case Rooted:
		r, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		sp.rooted = r
	case Order:
		return sp.SetOrder(v)
	}
	return nil
}

func parseLimit(v string) (int64, error) {
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid limit: %d", n)
	}
	return n, nil
}

// Config returns the search configuration
// defined by the parameters.
func (sp *SP) Config() terrace.Config {
	return terrace.Config{
		MaxIntermediate: sp.maxInter,
		MaxTrees:        sp.maxTrees,
		MaxTime:         sp.maxTime,
		PrintLimit:      sp.printLimit,
		Rooted:          sp.rooted,
		Order:           sp.order,
	}
}

// MaxIntermediate returns the maximum number
// of intermediate trees.
func (sp *SP) MaxIntermediate() int64 {
	return sp.maxInter
}

// MaxTime returns the maximum running time.
func (sp *SP) MaxTime() time.Duration {
	return sp.maxTime
}

// MaxTrees returns the maximum number
// of generated trees.
func (sp *SP) MaxTrees() int64 {
	return sp.maxTrees
}

// Name returns the file name
// of the parameter collection.
func (sp *SP) Name() string {
	return sp.name
}

// Order returns the taxon order policy.
func (sp *SP) Order() string {
	return sp.order
}

// PrintLimit returns the maximum number
// of trees written into the output.
func (sp *SP) PrintLimit() int64 {
	return sp.printLimit
}

// Rooted returns true if the trees are rooted.
func (sp *SP) Rooted() bool {
	return sp.rooted
}

// SetMaxIntermediate sets the maximum number
// of intermediate trees.
func (sp *SP) SetMaxIntermediate(n int64) error {
	if n < 0 {
		return fmt.Errorf("invalid limit: %d", n)
	}
	sp.maxInter = n
	return nil
}

// SetMaxTime sets the maximum running time,
// in seconds.
func (sp *SP) SetMaxTime(s float64) error {
	if s < 0 {
		return fmt.Errorf("invalid time: %.3f", s)
	}
	sp.maxTime = time.Duration(s * float64(time.Second))
	return nil
}

// SetMaxTrees sets the maximum number
// of generated trees.
func (sp *SP) SetMaxTrees(n int64) error {
	if n < 0 {
		return fmt.Errorf("invalid limit: %d", n)
	}
	sp.maxTrees = n
	return nil
}

// SetName sets the name of a parameter collection.
func (sp *SP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	sp.name = name
}

var orders = []string{
	terrace.OrderHeuristic,
	terrace.OrderMatrix,
}

// SetOrder sets the taxon order policy.
func (sp *SP) SetOrder(o string) error {
	o = strings.ToLower(strings.TrimSpace(o))
	if !slices.Contains(orders, o) {
		return fmt.Errorf("unknown order %q", o)
	}
	sp.order = o
	return nil
}

// SetPrintLimit sets the maximum number of trees
// written into the output.
func (sp *SP) SetPrintLimit(n int64) error {
	if n < 0 {
		return fmt.Errorf("invalid limit: %d", n)
	}
	sp.printLimit = n
	return nil
}

// SetRooted sets the rooting of the trees.
func (sp *SP) SetRooted(r bool) {
	sp.rooted = r
}

// Write writes a parameter collection into a file.
func (sp *SP) Write() (err error) {
	f, err := os.Create(sp.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if isTOML(sp.name) {
		return sp.TOML(f)
	}

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# terrace search parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", sp.name, err)
	}

	rows := [][]string{
		{string(MaxIntermediate), strconv.FormatInt(sp.maxInter, 10)},
		{string(MaxTrees), strconv.FormatInt(sp.maxTrees, 10)},
		{string(MaxTime), strconv.FormatFloat(sp.maxTime.Seconds(), 'f', -1, 64)},
		{string(PrintLimit), strconv.FormatInt(sp.printLimit, 10)},
		{string(Rooted), strconv.FormatBool(sp.rooted)},
		{string(Order), sp.order},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", sp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", sp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", sp.name, err)
	}
	return nil
}

func isTOML(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".toml"
}
