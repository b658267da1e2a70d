// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package searchparam_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/js-arias/terrace/searchparam"
	"github.com/js-arias/terrace/terrace"
)

func TestSearchParam(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"params.tab", "params.toml"} {
		name = filepath.Join(dir, name)
		sp := searchparam.New(name)
		testSP(t, sp, nil, name)

		sp.SetMaxIntermediate(1_000_000)
		sp.SetMaxTrees(1000)
		sp.SetMaxTime(90.5)
		sp.SetPrintLimit(10)
		sp.SetRooted(true)
		if err := sp.SetOrder("Matrix"); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}

		if err := sp.Write(); err != nil {
			t.Fatalf("%s: error when writing data: %v", name, err)
		}
		np, err := searchparam.Read(name)
		if err != nil {
			t.Fatalf("%s: error when reading data: %v", name, err)
		}
		testSP(t, np, sp, name)
	}
}

func TestRead(t *testing.T) {
	dir := t.TempDir()

	tests := map[string]struct {
		name string
		data string
		want terrace.Config
		err  bool
	}{
		"tsv": {
			name: "ok.tab",
			data: "# comment\nparameter\tvalue\nmaxtrees\t100\nmaxtime\t2\nunknown\tx\n",
			want: terrace.Config{MaxTrees: 100, MaxTime: 2 * time.Second, Order: terrace.OrderHeuristic},
		},
		"toml": {
			name: "ok.toml",
			data: "maxtrees = 100\nmaxtime = 2.0\nrooted = true\n",
			want: terrace.Config{MaxTrees: 100, MaxTime: 2 * time.Second, Rooted: true, Order: terrace.OrderHeuristic},
		},
		"tsv without header": {
			name: "bad-header.tab",
			data: "name\tvalue\nmaxtrees\t100\n",
			err:  true,
		},
		"negative limit": {
			name: "negative.tab",
			data: "parameter\tvalue\nmaxtrees\t-1\n",
			err:  true,
		},
		"invalid order": {
			name: "order.tab",
			data: "parameter\tvalue\norder\trandom\n",
			err:  true,
		},
		"toml unknown key": {
			name: "unknown.toml",
			data: "maxtrees = 100\nsteps = 2\n",
			err:  true,
		},
		"toml invalid order": {
			name: "order.toml",
			data: "order = \"random\"\n",
			err:  true,
		},
	}

	for name, test := range tests {
		file := filepath.Join(dir, test.name)
		if err := os.WriteFile(file, []byte(test.data), 0o644); err != nil {
			t.Fatalf("%s: unable to write file: %v", name, err)
		}
		sp, err := searchparam.Read(file)
		if test.err {
			if err == nil {
				t.Errorf("%s: expecting error", name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if got := sp.Config(); got != test.want {
			t.Errorf("%s: got %+v, want %+v", name, got, test.want)
		}
	}
}

type errWriter struct{}

func (errWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failure")
}

func TestTOML(t *testing.T) {
	sp := searchparam.New("params.toml")
	sp.SetMaxTrees(1000)
	sp.SetRooted(true)

	var buf bytes.Buffer
	if err := sp.TOML(&buf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, w := range []string{"# terrace search parameters\n", "maxtrees = 1000\n", "rooted = true\n"} {
		if !strings.Contains(out, w) {
			t.Errorf("output %q: want %q", out, w)
		}
	}

	if err := sp.TOML(errWriter{}); err == nil {
		t.Errorf("expecting error on a failed write")
	}
}

func testSP(t testing.TB, sp, want *searchparam.SP, name string) {
	t.Helper()

	if want == nil {
		want = searchparam.New(name)
	}

	if sp.Name() != want.Name() {
		t.Errorf("name: got %q, want %q", sp.Name(), want.Name())
	}
	if sp.MaxIntermediate() != want.MaxIntermediate() {
		t.Errorf("%s: max intermediate: got %d, want %d", name, sp.MaxIntermediate(), want.MaxIntermediate())
	}
	if sp.MaxTrees() != want.MaxTrees() {
		t.Errorf("%s: max trees: got %d, want %d", name, sp.MaxTrees(), want.MaxTrees())
	}
	if sp.MaxTime() != want.MaxTime() {
		t.Errorf("%s: max time: got %v, want %v", name, sp.MaxTime(), want.MaxTime())
	}
	if sp.PrintLimit() != want.PrintLimit() {
		t.Errorf("%s: print limit: got %d, want %d", name, sp.PrintLimit(), want.PrintLimit())
	}
	if sp.Rooted() != want.Rooted() {
		t.Errorf("%s: rooted: got %v, want %v", name, sp.Rooted(), want.Rooted())
	}
	if sp.Order() != want.Order() {
		t.Errorf("%s: order: got %q, want %q", name, sp.Order(), want.Order())
	}
}
