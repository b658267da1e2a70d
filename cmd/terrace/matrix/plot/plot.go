// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plot implements a command to draw
// the presence-absence matrix of a project.
package plot

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/js-arias/blind"
	"github.com/js-arias/command"
	"github.com/js-arias/terrace/pam"
	"github.com/js-arias/terrace/project"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `plot [--hist <file>] [--image <file>] [--cell <value>]
	<project-file>`,
	Short: "draw a presence-absence matrix",
	Long: `
Command plot reads the presence-absence matrix of a terrace project and draws
it as one or more images.

The argument of the command is the name of the project file.

The flag --hist defines the name of a bar chart with the number of taxa in
each partition. The format of the chart is defined by the extension of the
file name (for example, ".png" or ".svg").

The flag --image defines the name of a png image of the matrix, in which rows
are the taxa and columns are the partitions. Absent cells are drawn in white,
and present cells are colored by the fraction of partitions in which the
taxon is present. By default each cell is 10 pixels wide, use the flag --cell
to define a different size.

At least one of --hist or --image must be defined.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var histFile string
var imageFile string
var cellSize int

func setFlags(c *command.Command) {
	c.Flags().StringVar(&histFile, "hist", "", "")
	c.Flags().StringVar(&imageFile, "image", "", "")
	c.Flags().IntVar(&cellSize, "cell", 10, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if histFile == "" && imageFile == "" {
		return c.UsageError("expecting --hist or --image flag")
	}
	if cellSize < 1 {
		return c.UsageError("flag --cell must be a positive value")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	m, err := p.Matrix()
	if err != nil {
		return err
	}

	if histFile != "" {
		if err := partChart(m); err != nil {
			return err
		}
	}
	if imageFile != "" {
		if err := writeImage(imageFile, newMatrixImage(m)); err != nil {
			return err
		}
	}
	return nil
}

func partChart(m *pam.Matrix) error {
	st := m.Stats()

	p := plot.New()
	p.Title.Text = "taxa per partition"
	p.X.Label.Text = "partition"
	p.Y.Label.Text = "taxa"

	vals := make(plotter.Values, 0, len(st.PartSize))
	for _, s := range st.PartSize {
		vals = append(vals, float64(s))
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(10))
	if err != nil {
		return fmt.Errorf("while building chart: %v", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = blind.Sequential(blind.Iridescent, 0.75)
	p.Add(bars)

	if m.NumParts() <= 30 {
		p.NominalX(m.Partitions()...)
	}

	width := vg.Length(m.NumParts())*vg.Points(12) + vg.Inch
	if width < 5*vg.Inch {
		width = 5 * vg.Inch
	}
	if err := p.Save(width, 3*vg.Inch, histFile); err != nil {
		return err
	}
	return nil
}

// A matrixImage is an image of a presence-absence matrix.
type matrixImage struct {
	m    *pam.Matrix
	cell int

	// color of each taxon
	colors []color.RGBA
}

func newMatrixImage(m *pam.Matrix) matrixImage {
	st := m.Stats()
	colors := make([]color.RGBA, len(st.TaxonParts))
	for i, c := range st.TaxonParts {
		colors[i] = blind.Sequential(blind.Iridescent, float64(c)/float64(m.NumParts()))
	}
	return matrixImage{
		m:      m,
		cell:   cellSize,
		colors: colors,
	}
}

func (mi matrixImage) ColorModel() color.Model { return color.RGBAModel }
func (mi matrixImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, mi.m.NumParts()*mi.cell, mi.m.NumTaxa()*mi.cell)
}
func (mi matrixImage) At(x, y int) color.Color {
	tx := y / mi.cell
	p := x / mi.cell
	if !mi.m.Present(tx, p) {
		return color.RGBA{255, 255, 255, 255}
	}
	return mi.colors[tx]
}

func writeImage(name string, img image.Image) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("when encoding image file %q: %v", name, err)
	}
	return nil
}
