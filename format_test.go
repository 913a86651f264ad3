/*
 * format_test.go, part of molrec.
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
	"strings"
	"testing"
)

func ghostDimer(Te *testing.T) *Molecule {
	in := &ArrayInput{
		Symbols: []string{"O", "H", "H", "@Ne"},
		Geometry: []float64{
			0.0, 0.0, -0.13,
			0.0, -1.49, 1.03,
			0.0, 1.49, 1.03,
			6.0, 0.0, 0.0,
		},
		Units: "bohr",
	}
	mol, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestXYZRoundTrip(Te *testing.T) {
	mol := water(Te)
	text, err := mol.ToString("xyz")
	if err != nil {
		Te.Fatal(err)
	}
	in, _, err := ParseString(text, &ParseOptions{Dialect: "xyz"})
	if err != nil {
		Te.Fatal(err)
	}
	back, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Hash() != mol.Hash() {
		Te.Error("hash changed across an xyz round trip")
	}
}

func TestXYZPlusRoundTrip(Te *testing.T) {
	mol := ghostDimer(Te)
	text, err := mol.ToString("xyz+")
	if err != nil {
		Te.Fatal(err)
	}
	in, _, err := ParseString(text, &ParseOptions{Dialect: "xyz+"})
	if err != nil {
		Te.Fatal(err)
	}
	back, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Hash() != mol.Hash() {
		Te.Error("hash changed across an xyz+ round trip")
	}
}

func TestPsi4RoundTrip(Te *testing.T) {
	in, _, err := ParseString(waterChloridePsi4, nil)
	if err != nil {
		Te.Fatal(err)
	}
	mol, err := FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	text, err := mol.ToString("psi4")
	if err != nil {
		Te.Fatal(err)
	}
	in2, _, err := ParseString(text, &ParseOptions{Dialect: "psi4"})
	if err != nil {
		Te.Fatalf("own psi4 output does not parse back: %v\n%s", err, text)
	}
	back, err := FromArraysMol(in2)
	if err != nil {
		Te.Fatal(err)
	}
	if back.Hash() != mol.Hash() {
		Te.Error("hash changed across a psi4 round trip")
	}
	if len(back.Record().Fragments) != 2 {
		Te.Errorf("fragments lost: %v", back.Record().Fragments)
	}
}

func TestGhostRefusal(Te *testing.T) {
	mol := ghostDimer(Te)
	for _, dialect := range []string{"xyz", "turbomole"} {
		if _, err := mol.ToString(dialect); err == nil {
			Te.Errorf("%s produced output for a molecule with ghosts", dialect)
		}
	}
	//psi4 and nwchem do know how to write them
	s, err := mol.ToString("psi4")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(s, "Gh(") {
		Te.Errorf("no Gh() marker in psi4 output:\n%s", s)
	}
	s, err = mol.ToString("nwchem")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(s, "bq") {
		Te.Errorf("no bq marker in nwchem output:\n%s", s)
	}
}

func TestProgramInputs(Te *testing.T) {
	mol := water(Te)
	s, err := mol.ToString("orca")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.HasPrefix(s, "* xyz 0 1") || !strings.HasSuffix(strings.TrimSpace(s), "*") {
		Te.Errorf("orca block malformed:\n%s", s)
	}
	s, err = mol.ToString("nwchem")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(s, "geometry units angstroms") || !strings.Contains(s, "end") {
		Te.Errorf("nwchem block malformed:\n%s", s)
	}
	s, err = mol.ToString("turbomole")
	if err != nil {
		Te.Fatal(err)
	}
	if !strings.HasPrefix(s, "$coord") {
		Te.Errorf("turbomole block malformed:\n%s", s)
	}
	if _, err = mol.ToString("gaussian"); err == nil {
		Te.Error("unknown dialect accepted")
	}
}
