/*
 * plot.go, part of molrec.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}usachDOTcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * molrec is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

package align

import (
	"image/color"

	"github.com/rmera/molrec/v3"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//PlotAlignment writes a scatter plot of the x,y projections of the
//reference geometry together with the concern geometry before and
//after alignment, to look at how an alignment went. The format
//follows the filename extension (png, pdf, svg...).
func PlotAlignment(ref, before, after *v3.Matrix, filename string) error {
	p := plot.New()
	p.Title.Text = "Alignment, xy projection"
	p.X.Label.Text = "x (bohr)"
	p.Y.Label.Text = "y (bohr)"
	sets := []struct {
		name  string
		geom  *v3.Matrix
		color color.RGBA
	}{
		{"reference", ref, color.RGBA{B: 255, A: 255}},
		{"before", before, color.RGBA{R: 255, A: 255}},
		{"after", after, color.RGBA{G: 180, A: 255}},
	}
	for _, s := range sets {
		if s.geom == nil {
			continue
		}
		xys := make(plotter.XYs, s.geom.NVecs())
		for i := range xys {
			xys[i].X = s.geom.At(i, 0)
			xys[i].Y = s.geom.At(i, 1)
		}
		sc, err := plotter.NewScatter(xys)
		if err != nil {
			return errDecorate(err, "PlotAlignment")
		}
		sc.GlyphStyle.Color = s.color
		p.Add(sc)
		p.Legend.Add(s.name, sc)
	}
	if err := p.Save(15*vg.Centimeter, 15*vg.Centimeter, filename); err != nil {
		return errDecorate(err, "PlotAlignment")
	}
	return nil
}

//errDecorate decorates an error if it implements the molrec Error
//interface, and otherwise wraps it.
func errDecorate(err error, caller string) error {
	if err == nil {
		return nil
	}
	if err2, ok := err.(interface {
		Error() string
		Decorate(string) []string
	}); ok {
		err2.Decorate(caller)
		return err2.(error)
	}
	return Error{message: err.Error(), deco: []string{caller}}
}
