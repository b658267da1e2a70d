// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package searchparam

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
)

// TomlParams is the layout of a TOML parameter file.
type tomlParams struct {
	MaxIntermediate int64   `toml:"maxintermediate"`
	MaxTrees        int64   `toml:"maxtrees"`
	MaxTime         float64 `toml:"maxtime"`
	PrintLimit      int64   `toml:"printlimit"`
	Rooted          bool    `toml:"rooted"`
	Order           string  `toml:"order,omitempty"`
}

// ReadTOML reads the parameters from a TOML file.
//
// Here is an example file:
//
//	maxtrees = 1000000
//	maxtime = 3600
//	order = "heuristic"
func readTOML(name string) (*SP, error) {
	var tp tomlParams
	md, err := toml.DecodeFile(name, &tp)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return nil, fmt.Errorf("on file %q: unknown parameter %q", name, und[0].String())
	}

	sp := New(name)
	if err := sp.SetMaxIntermediate(tp.MaxIntermediate); err != nil {
		return nil, fmt.Errorf("on file %q: %s: %v", name, MaxIntermediate, err)
	}
	if err := sp.SetMaxTrees(tp.MaxTrees); err != nil {
		return nil, fmt.Errorf("on file %q: %s: %v", name, MaxTrees, err)
	}
	if err := sp.SetMaxTime(tp.MaxTime); err != nil {
		return nil, fmt.Errorf("on file %q: %s: %v", name, MaxTime, err)
	}
	if err := sp.SetPrintLimit(tp.PrintLimit); err != nil {
		return nil, fmt.Errorf("on file %q: %s: %v", name, PrintLimit, err)
	}
	sp.SetRooted(tp.Rooted)
	if tp.Order != "" {
		if err := sp.SetOrder(tp.Order); err != nil {
			return nil, fmt.Errorf("on file %q: %s: %v", name, Order, err)
		}
	}
	return sp, nil
}

// TOML writes the parameters into w
// as a TOML document.
func (sp *SP) TOML(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# terrace search parameters\n"); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", sp.name, err)
	}
	fmt.Fprintf(w, "# data save on: %s\n\n", time.Now().Format(time.RFC3339))

	tp := tomlParams{
		MaxIntermediate: sp.maxInter,
		MaxTrees:        sp.maxTrees,
		MaxTime:         sp.maxTime.Seconds(),
		PrintLimit:      sp.printLimit,
		Rooted:          sp.rooted,
		Order:           sp.order,
	}
	if err := toml.NewEncoder(w).Encode(tp); err != nil {
		return fmt.Errorf("on file %q: %v", sp.name, err)
	}
	return nil
}
