/*
 * molecule_test.go, part of molrec.
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
	"math"
	"strings"
	"testing"
)

func water(Te *testing.T) *Molecule {
	in := &ArrayInput{
		Symbols: []string{"O", "H", "H"},
		Geometry: []float64{
			0.0, 0.0, -0.1294,
			0.0, -1.4941, 1.0274,
			0.0, 1.4941, 1.0274,
		},
		Units: "bohr",
		Name:  "water",
	}
	mol, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestHashStability(Te *testing.T) {
	a := water(Te)
	b := water(Te).WithName("agua")
	if a.Hash() != b.Hash() {
		Te.Error("the name should not enter the hash")
	}
	//isotope substitution must change it
	in := &ArrayInput{
		Symbols: []string{"O18", "H", "H"},
		Geometry: []float64{
			0.0, 0.0, -0.1294,
			0.0, -1.4941, 1.0274,
			0.0, 1.4941, 1.0274,
		},
		Units: "bohr",
	}
	heavy, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if heavy.Hash() == a.Hash() {
		Te.Error("heavy water hashes like light water")
	}
	if len(a.Hash()) != 40 {
		Te.Errorf("hash %q is not a sha1 hex digest", a.Hash())
	}
}

func TestHashIdempotence(Te *testing.T) {
	//re-canonicalizing a canonical record is a fixed point
	mol := water(Te)
	rec := mol.Record()
	in := &ArrayInput{
		Symbols:  rec.Symbols,
		Masses:   rec.Masses,
		Units:    "bohr",
		Geometry: make([]float64, 0, 9),
	}
	for i := 0; i < rec.NAtoms(); i++ {
		in.Geometry = append(in.Geometry, rec.Geometry.At(i, 0), rec.Geometry.At(i, 1), rec.Geometry.At(i, 2))
	}
	again, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if again.Hash() != mol.Hash() {
		Te.Error("canonicalization is not idempotent")
	}
}

func TestFormulaAndElectrons(Te *testing.T) {
	in := &ArrayInput{
		Symbols: []string{"O", "C", "O", "@He"},
		Geometry: []float64{
			0.0, 0.0, -2.2,
			0.0, 0.0, 0.0,
			0.0, 0.0, 2.2,
			0.0, 4.0, 0.0,
		},
		Units: "bohr",
	}
	mol, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if f := mol.Formula(); f != "CO2" {
		Te.Errorf("formula %q, want CO2 (ghosts excluded)", f)
	}
	if n := mol.Nelectrons(); n != 22 {
		Te.Errorf("%d electrons, want 22", n)
	}
}

func TestNuclearRepulsion(Te *testing.T) {
	in := &ArrayInput{
		Symbols:  []string{"H", "H"},
		Geometry: []float64{0, 0, 0, 0, 0, 1.4},
		Units:    "bohr",
	}
	mol, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if nre := mol.NuclearRepulsionEnergy(); math.Abs(nre-1.0/1.4) > 1e-8 {
		Te.Errorf("NRE %g, want %g", nre, 1.0/1.4)
	}
	//a ghost partner contributes nothing
	in.Symbols = []string{"H", "@H"}
	mol, err = FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if nre := mol.NuclearRepulsionEnergy(); nre != 0 {
		Te.Errorf("ghost NRE %g", nre)
	}
}

func TestMeasure(Te *testing.T) {
	mol := water(Te)
	d, err := mol.Measure(0, 1)
	if err != nil {
		Te.Fatal(err)
	}
	want := math.Sqrt(1.4941*1.4941 + (1.0274+0.1294)*(1.0274+0.1294))
	if math.Abs(d-want) > 1e-6 {
		Te.Errorf("OH distance %g, want %g", d, want)
	}
	ang, err := mol.Measure(1, 0, 2)
	if err != nil {
		Te.Fatal(err)
	}
	if ang < 90 || ang > 120 {
		Te.Errorf("HOH angle %g out of any sensible range", ang)
	}
	if _, err = mol.Measure(0); err == nil {
		Te.Error("one index should not measure anything")
	}
	if _, err = mol.Measure(0, 7); err == nil {
		Te.Error("out of range index accepted")
	}
}

func TestFragmentExtraction(Te *testing.T) {
	in := &ArrayInput{
		Symbols: []string{"O", "H", "H", "Cl"},
		Geometry: []float64{
			0.0, 0.0, -0.13,
			0.0, -1.49, 1.03,
			0.0, 1.49, 1.03,
			7.0, 0.0, 0.0,
		},
		Units:           "bohr",
		Fragments:       [][]int{{0, 1, 2}, {3}},
		FragmentCharges: []*float64{Float64(0), Float64(-1)},
	}
	dimer, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	//keep the water real, demote the chloride to ghost
	cp, err := dimer.Fragment([]int{0}, []int{1}, false)
	if err != nil {
		Te.Fatal(err)
	}
	rec := cp.Record()
	if rec.NAtoms() != 4 {
		Te.Fatalf("%d atoms after extraction", rec.NAtoms())
	}
	if !rec.Real[0] || rec.Real[3] {
		Te.Errorf("real pattern %v", rec.Real)
	}
	if rec.MolecularCharge != 0 {
		Te.Errorf("ghosting the anion should drop its charge, got %v", rec.MolecularCharge)
	}
	if cp.Nelectrons() != 10 {
		Te.Errorf("%d electrons, want the water's 10", cp.Nelectrons())
	}
	//real-only extraction drops nothing but the other fragment
	w, err := dimer.Fragment([]int{0}, nil, false)
	if err != nil {
		Te.Fatal(err)
	}
	if w.NAtoms() != 3 || w.Formula() != "H2O" {
		Te.Errorf("water extraction gave %d atoms, formula %q", w.NAtoms(), w.Formula())
	}
	if _, err = dimer.Fragment([]int{0}, []int{0}, false); err == nil {
		Te.Error("a fragment cannot be both real and ghost")
	}
}

func TestValidateRejects(Te *testing.T) {
	mol := water(Te)
	rec := mol.Record()
	rec.Masses[0] = math.NaN()
	if _, err := New(rec, true); err == nil {
		Te.Error("NaN mass accepted")
	}
	rec = mol.Record()
	rec.FragmentCharges[0] = math.Inf(1)
	if _, err := New(rec, true); err == nil {
		Te.Error("infinite fragment charge accepted")
	}
	rec = mol.Record()
	rec.MolecularCharge = math.NaN()
	if _, err := New(rec, true); err == nil {
		Te.Error("NaN molecular charge accepted")
	}
	rec = mol.Record()
	rec.Fragments = [][]int{{0, 1}} //atom 2 uncovered
	if _, err := New(rec, true); err == nil {
		Te.Error("fragments not covering every atom accepted")
	}
	rec = mol.Record()
	rec.Connectivity = []Bond{{At1: 0, At2: 5, Order: 1}}
	if _, err := New(rec, true); err == nil {
		Te.Error("bond to a nonexistent atom accepted")
	}
}

func TestWithoutOrientation(Te *testing.T) {
	in := &ArrayInput{
		Symbols:        []string{"O", "H", "H"},
		Geometry:       []float64{5, 5, 5, 5, 3.5, 6.2, 5, 6.5, 6.2},
		Units:          "bohr",
		FixCom:         true,
		FixOrientation: true,
	}
	pinned, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	free, err := pinned.WithoutOrientation()
	if err != nil {
		Te.Fatal(err)
	}
	rec := free.Record()
	if rec.FixCom || rec.FixOrientation {
		Te.Error("fix flags survived WithoutOrientation")
	}
	com, err := CenterOfMass(rec.Geometry, rec.Masses)
	if err != nil {
		Te.Fatal(err)
	}
	for j := 0; j < 3; j++ {
		if math.Abs(com.At(0, j)) > 1e-7 {
			Te.Errorf("COM component %d is %g after reframing", j, com.At(0, j))
		}
	}
	in.FixCom = false
	in.FixOrientation = false
	canonical, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if !free.Compare(canonical, 1e-6) {
		Te.Error("reframed copy does not match the canonical construction")
	}
}

func TestCopyExtras(Te *testing.T) {
	mol := water(Te)
	rec := mol.Record()
	rec.Extras = map[string]interface{}{
		"tags":   []interface{}{"a", "b"},
		"nested": map[string]interface{}{"k": 1.0},
	}
	cp := rec.Copy()
	cp.Extras["nested"].(map[string]interface{})["k"] = 2.0
	cp.Extras["tags"].([]interface{})[0] = "z"
	if rec.Extras["nested"].(map[string]interface{})["k"] != 1.0 {
		Te.Error("nested extras map still aliased after Copy")
	}
	if rec.Extras["tags"].([]interface{})[0] != "a" {
		Te.Error("extras slice still aliased after Copy")
	}
}

func TestSchemaRoundTrip(Te *testing.T) {
	mol := water(Te)
	data, err := mol.Record().MarshalJSON()
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(string(data), "qcschema_molecule") {
		Te.Error("schema name missing from the serialization")
	}
	back, err := FromSchema(data)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Hash() != mol.Hash() {
		Te.Errorf("hash changed across schema round trip")
	}
}

func TestPrettyPrint(Te *testing.T) {
	s := water(Te).PrettyPrint()
	if !strings.Contains(s, "O") || !strings.Contains(s, "H") {
		Te.Errorf("unexpected rendering:\n%s", s)
	}
}
