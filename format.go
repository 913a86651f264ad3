/*
 * format.go, part of molrec.
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
	"fmt"
	"math"
	"strings"

	"github.com/rmera/molrec/periodic"
)

//ToString renders the molecule in the given text dialect. Dialects
//that cannot express some feature of the molecule (ghosts in strict
//xyz, ghosts in turbomole) fail rather than silently dropping atoms.
func (M *Molecule) ToString(dialect string) (string, error) {
	switch strings.ToLower(dialect) {
	case "xyz":
		return M.toXYZ(true)
	case "xyz+":
		return M.toXYZ(false)
	case "psi4":
		return M.toPsi4()
	case "nwchem":
		return M.toNWChem()
	case "orca":
		return M.toOrca()
	case "turbomole":
		return M.toTurbomole()
	}
	return "", validationError(KindDialect, "unknown dialect %q", dialect)
}

func (M *Molecule) hasGhosts() bool {
	for _, r := range M.rec.Real {
		if !r {
			return true
		}
	}
	return false
}

//atomToken renders atom i the way the text grammar reads it back:
//ghost marker, mass number when one was given, user label.
func (M *Molecule) atomToken(i int) string {
	R := M.rec
	s := R.Symbols[i]
	if a := R.MassNumbers[i]; a > 0 && !isMostCommon(R.Symbols[i], a) {
		s = fmt.Sprintf("%d%s", a, s)
	} else if a < 0 {
		s = fmt.Sprintf("%s@%f", s, R.Masses[i])
	}
	if R.AtomLabels[i] != "" {
		s = s + "_" + R.AtomLabels[i]
	}
	if !R.Real[i] {
		s = "@" + s
	}
	return s
}

func isMostCommon(sym string, a int) bool {
	iso, err := periodic.MostCommonIsotope(sym)
	return err == nil && iso.A == a
}

func (M *Molecule) toXYZ(strict bool) (string, error) {
	R := M.rec
	if strict && M.hasGhosts() {
		return "", validationError(KindDialect, "strict xyz cannot express ghost atoms")
	}
	var b strings.Builder
	if strict {
		fmt.Fprintf(&b, "%d\n", R.NAtoms())
	} else {
		fmt.Fprintf(&b, "%d %d %d\n", R.NAtoms(), int(math.Round(R.MolecularCharge)), R.MolecularMultiplicity)
	}
	comment := R.Comment
	if comment == "" {
		comment = R.Name
	}
	if comment == "" {
		comment = M.Formula()
	}
	fmt.Fprintf(&b, "%s\n", comment)
	for i := 0; i < R.NAtoms(); i++ {
		tok := R.Symbols[i]
		if !strict {
			tok = M.atomToken(i)
		}
		fmt.Fprintf(&b, "%-4s %20.12f %20.12f %20.12f\n", tok,
			R.Geometry.At(i, 0)*Bohr2A, R.Geometry.At(i, 1)*Bohr2A, R.Geometry.At(i, 2)*Bohr2A)
	}
	return b.String(), nil
}

func (M *Molecule) toPsi4() (string, error) {
	R := M.rec
	var b strings.Builder
	if R.FixCom {
		b.WriteString("no_com\n")
	}
	if R.FixOrientation {
		b.WriteString("no_reorient\n")
	}
	if R.FixSymmetry != "" {
		fmt.Fprintf(&b, "symmetry %s\n", R.FixSymmetry)
	}
	b.WriteString("units angstrom\n")
	for fi, frag := range R.Fragments {
		if fi > 0 {
			b.WriteString("--\n")
		}
		fmt.Fprintf(&b, "%d %d\n", int(math.Round(R.FragmentCharges[fi])), R.FragmentMultiplicities[fi])
		for _, i := range frag {
			tok := M.atomToken(i)
			//psi4 spells ghosts Gh(), not @
			if !R.Real[i] {
				tok = "Gh(" + strings.TrimPrefix(tok, "@") + ")"
			}
			fmt.Fprintf(&b, "%-8s %20.12f %20.12f %20.12f\n", tok,
				R.Geometry.At(i, 0)*Bohr2A, R.Geometry.At(i, 1)*Bohr2A, R.Geometry.At(i, 2)*Bohr2A)
		}
	}
	return b.String(), nil
}

func (M *Molecule) toNWChem() (string, error) {
	R := M.rec
	var b strings.Builder
	b.WriteString("geometry units angstroms\n")
	for i := 0; i < R.NAtoms(); i++ {
		symbol := R.Symbols[i]
		if !R.Real[i] {
			symbol = "bq" + symbol
		}
		fmt.Fprintf(&b, " %-4s  %8.3f%8.3f%8.3f \n", symbol,
			R.Geometry.At(i, 0)*Bohr2A, R.Geometry.At(i, 1)*Bohr2A, R.Geometry.At(i, 2)*Bohr2A)
	}
	fmt.Fprintf(&b, "end\n")
	fmt.Fprintf(&b, "charge %d\n", int(math.Round(R.MolecularCharge)))
	return b.String(), nil
}

func (M *Molecule) toOrca() (string, error) {
	R := M.rec
	var b strings.Builder
	fmt.Fprintf(&b, "* xyz %d %d\n", int(math.Round(R.MolecularCharge)), R.MolecularMultiplicity)
	for i := 0; i < R.NAtoms(); i++ {
		symbol := R.Symbols[i]
		//orca marks ghosts with a colon after the symbol
		if !R.Real[i] {
			symbol = symbol + " :"
		}
		fmt.Fprintf(&b, "%-4s  %8.3f%8.3f%8.3f\n", symbol,
			R.Geometry.At(i, 0)*Bohr2A, R.Geometry.At(i, 1)*Bohr2A, R.Geometry.At(i, 2)*Bohr2A)
	}
	fmt.Fprintf(&b, "*\n")
	return b.String(), nil
}

func (M *Molecule) toTurbomole() (string, error) {
	R := M.rec
	if M.hasGhosts() {
		return "", validationError(KindDialect, "turbomole $coord cannot express ghost atoms")
	}
	var b strings.Builder
	b.WriteString("$coord\n")
	for i := 0; i < R.NAtoms(); i++ {
		fmt.Fprintf(&b, "%20.13f %19.13f %19.13f  %s\n",
			R.Geometry.At(i, 0), R.Geometry.At(i, 1), R.Geometry.At(i, 2),
			strings.ToLower(R.Symbols[i]))
	}
	b.WriteString("$end\n")
	return b.String(), nil
}
