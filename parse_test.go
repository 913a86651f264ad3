/*
 * parse_test.go, part of molrec.
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

package molrec

import (
	"errors"
	"math"
	"testing"

	"github.com/rmera/molrec/periodic"
)

const waterChloridePsi4 = `
# a solvated chloride, sort of
units ang
no_com
0 1
O   0.000000   0.000000  -0.068516
H   0.000000  -0.790689   0.543701
H   0.000000   0.790689   0.543701
--
-1 1
Cl  4.000000   0.000000   0.000000
`

func TestParsePsi4(Te *testing.T) {
	in, pub, err := ParseString(waterChloridePsi4, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if pub != "" {
		Te.Fatalf("unexpected pubchem request %q", pub)
	}
	if !in.FixCom || in.FixOrientation {
		Te.Errorf("directives mishandled: FixCom %v FixOrientation %v", in.FixCom, in.FixOrientation)
	}
	if in.Units != "angstrom" {
		Te.Errorf("units %q", in.Units)
	}
	if len(in.Fragments) != 2 || len(in.Fragments[0]) != 3 || len(in.Fragments[1]) != 1 {
		Te.Fatalf("fragments %v", in.Fragments)
	}
	rec, err := FromArrays(in)
	if err != nil {
		Te.Fatal(err)
	}
	if rec.MolecularCharge != -1 {
		Te.Errorf("molecular charge %v, want -1", rec.MolecularCharge)
	}
	if rec.FragmentCharges[0] != 0 || rec.FragmentCharges[1] != -1 {
		Te.Errorf("fragment charges %v", rec.FragmentCharges)
	}
	if rec.MolecularMultiplicity != 1 {
		Te.Errorf("molecular multiplicity %d", rec.MolecularMultiplicity)
	}
}

func TestParseXYZ(Te *testing.T) {
	text := "3\nplain water\nO 0.0 0.0 -0.0685\nH 0.0 -0.7907 0.5437\nH 0.0 0.7907 0.5437\n"
	in, _, err := ParseString(text, &ParseOptions{Dialect: "xyz"})
	if err != nil {
		Te.Fatal(err)
	}
	if len(in.Symbols) != 3 || in.Comment != "plain water" {
		Te.Fatalf("symbols %v comment %q", in.Symbols, in.Comment)
	}
	if in.Units != "" {
		Te.Errorf("strict xyz should leave units to the angstrom default, got %q", in.Units)
	}
	//decorated tokens only pass in the extended flavor
	ghost := "2\nau\n@He 0.0 0.0 0.0\nHe 0.0 0.0 5.0\n"
	_, _, err = ParseString(ghost, &ParseOptions{Dialect: "xyz"})
	if err == nil {
		Te.Error("strict xyz accepted a ghost token")
	}
	in, _, err = ParseString(ghost, &ParseOptions{Dialect: "xyz+"})
	if err != nil {
		Te.Fatal(err)
	}
	if in.Units != "bohr" {
		Te.Errorf("au marker in the comment line ignored, units %q", in.Units)
	}
	rec, err := FromArrays(in)
	if err != nil {
		Te.Fatal(err)
	}
	if rec.Real[0] || !rec.Real[1] {
		Te.Errorf("ghost pattern wrong: %v", rec.Real)
	}
	//charge and multiplicity on the count line
	charged := "1 1 2\ncomment\nNa 0.0 0.0 0.0\n"
	in, _, err = ParseString(charged, &ParseOptions{Dialect: "xyz+"})
	if err != nil {
		Te.Fatal(err)
	}
	if in.MolecularCharge == nil || *in.MolecularCharge != 1 || in.MolecularMultiplicity != 2 {
		Te.Errorf("count-line charge and multiplicity not taken: %v %d", in.MolecularCharge, in.MolecularMultiplicity)
	}
}

func TestXYZCommentLine(Te *testing.T) {
	//an empty comment line is the common case in the wild and must
	//keep its place
	text := "2\n\nH 0.0 0.0 0.0\nH 0.0 0.0 0.74\n"
	in, _, err := ParseString(text, &ParseOptions{Dialect: "xyz"})
	if err != nil {
		Te.Fatal(err)
	}
	if len(in.Symbols) != 2 || in.Comment != "" {
		Te.Fatalf("symbols %v comment %q", in.Symbols, in.Comment)
	}
	//the automatic fallback must land on xyz too
	if _, _, err = ParseString(text, nil); err != nil {
		Te.Fatal(err)
	}
	//a # in the comment line is text, not a comment marker
	text = "1\nstep #42\nHe 0.0 0.0 0.0\n"
	in, _, err = ParseString(text, &ParseOptions{Dialect: "xyz"})
	if err != nil {
		Te.Fatal(err)
	}
	if in.Comment != "step #42" {
		Te.Errorf("comment %q, want it verbatim", in.Comment)
	}
}

func TestDialectFallback(Te *testing.T) {
	//without an explicit dialect the xyz body should still land
	text := "2\nhydrogen\nH 0.0 0.0 0.0\nH 0.0 0.0 0.74\n"
	in, _, err := ParseString(text, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(in.Symbols) != 2 {
		Te.Fatalf("symbols %v", in.Symbols)
	}
	_, _, err = ParseString("this is not a molecule at all", nil)
	if err == nil {
		Te.Error("expected an error for garbage input")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		Te.Errorf("garbage input should yield a *ValidationError, got %T", err)
	}
}

func TestParsePubchem(Te *testing.T) {
	_, name, err := ParseString("pubchem:benzene", nil)
	if err != nil {
		Te.Fatal(err)
	}
	if name != "benzene" {
		Te.Errorf("pubchem name %q", name)
	}
	_, _, err = ParseString("O 0 0 0\npubchem:benzene", nil)
	if err == nil {
		Te.Error("pubchem line mixed with atoms should fail")
	}
}

func TestChgmultRules(Te *testing.T) {
	//explicit fragment charges and no molecular charge: the molecule
	//gets their sum
	in := &ArrayInput{
		Symbols:  []string{"Na", "Cl"},
		Geometry: []float64{0, 0, 0, 0, 0, 5},
		Units:    "bohr",
		Fragments: [][]int{
			{0}, {1},
		},
		FragmentCharges: []*float64{Float64(1), Float64(-1)},
	}
	rec, err := FromArrays(in)
	if err != nil {
		Te.Fatal(err)
	}
	if rec.MolecularCharge != 0 {
		Te.Errorf("molecular charge %v, want 0", rec.MolecularCharge)
	}
	//an explicit molecular charge that contradicts fully specified
	//fragments is rejected
	in.MolecularCharge = Float64(1)
	if _, err = FromArrays(in); err == nil {
		Te.Error("inconsistent molecular charge accepted")
	}
	//a single unspecified fragment absorbs the remainder
	in.FragmentCharges = []*float64{Float64(1), nil}
	in.MolecularCharge = Float64(0)
	rec, err = FromArrays(in)
	if err != nil {
		Te.Fatal(err)
	}
	if rec.FragmentCharges[1] != -1 {
		Te.Errorf("remainder not absorbed: %v", rec.FragmentCharges)
	}
}

func TestNucleusTokens(Te *testing.T) {
	cases := []struct {
		tok  string
		real bool
		a    int
	}{
		{"O", true, -1},
		{"@O", false, -1},
		{"Gh(O)", false, -1},
		{"18O", true, 18},
		{"O18", true, 18},
	}
	for _, c := range cases {
		lbl, err := ParseNucleusLabel(c.tok)
		if err != nil {
			Te.Fatalf("%s: %v", c.tok, err)
		}
		if lbl.Real != c.real || lbl.A != c.a {
			Te.Errorf("%s: real %v A %d", c.tok, lbl.Real, lbl.A)
		}
	}
	lbl, err := ParseNucleusLabel("C_mine@12.5")
	if err != nil {
		Te.Fatal(err)
	}
	if lbl.Label != "mine" || math.Abs(lbl.Mass-12.5) > 1e-12 {
		Te.Errorf("label %q mass %v", lbl.Label, lbl.Mass)
	}
	for _, bad := range []string{"Gh(O", "12O13", "Abcd"} {
		if _, err := ParseNucleusLabel(bad); err == nil {
			Te.Errorf("token %q should not parse", bad)
		}
	}
	//the element itself is settled later, against the periodic table,
	//and resolution failures keep the periodic error type
	_, _, _, _, err = reconcileNucleus("xx", -1, -1, math.NaN())
	if err == nil {
		Te.Fatal("made-up element accepted at reconciliation")
	}
	var nerr *periodic.NotAnElementError
	if !errors.As(err, &nerr) {
		Te.Errorf("unknown element gave %T, want *periodic.NotAnElementError", err)
	}
	in := &ArrayInput{Symbols: []string{"O99"}, Geometry: []float64{0, 0, 0}}
	if _, err := FromArrays(in); !errors.As(err, &nerr) {
		Te.Errorf("unknown nuclide gave %T, want *periodic.NotAnElementError", err)
	}
}

func TestTooClose(Te *testing.T) {
	in := &ArrayInput{
		Symbols:  []string{"H", "H"},
		Geometry: []float64{0, 0, 0, 0, 0, 0.01},
		Units:    "bohr",
	}
	if _, err := FromArrays(in); err == nil {
		Te.Error("coincident nuclei accepted")
	}
}
