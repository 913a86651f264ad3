/*
 * molecule.go, part of molrec.
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
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rmera/molrec/v3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

//Molecule is a validated, canonical molecule. It is immutable by
//convention: every operation that would change it returns a new
//Molecule instead, so a Molecule can be shared freely.
type Molecule struct {
	rec *Record
}

//New wraps a record into a Molecule. With validate, the record
//invariants are checked first; skip validation only for records coming
//from this library.
func New(rec *Record, validate bool) (*Molecule, error) {
	if validate {
		if err := rec.Validate(); err != nil {
			return nil, errDecorate(err, "New")
		}
	}
	return &Molecule{rec: rec.Copy()}, nil
}

//MustNew is New, panicking on error. For tests and static data.
func MustNew(rec *Record) *Molecule {
	M, err := New(rec, true)
	if err != nil {
		panic(err)
	}
	return M
}

//FromArraysMol canonicalizes arrays into a Molecule.
func FromArraysMol(in *ArrayInput) (*Molecule, error) {
	rec, err := FromArrays(in)
	if err != nil {
		return nil, err
	}
	return &Molecule{rec: rec}, nil
}

//FromString parses text in any of the known dialects into a Molecule.
//A pubchem: line triggers a network lookup against PubChem.
func FromString(text string, o *ParseOptions) (*Molecule, error) {
	in, pub, err := ParseString(text, o)
	if err != nil {
		return nil, err
	}
	if pub != "" {
		in, err = PubChem(context.Background(), pub)
		if err != nil {
			return nil, err
		}
	}
	return FromArraysMol(in)
}

//Record returns a deep copy of the underlying canonical record.
func (M *Molecule) Record() *Record {
	return M.rec.Copy()
}

//NAtoms returns the number of atoms, ghosts included.
func (M *Molecule) NAtoms() int { return M.rec.NAtoms() }

//Copy returns an independent copy of the molecule.
func (M *Molecule) Copy() *Molecule {
	return &Molecule{rec: M.rec.Copy()}
}

//Hash returns the canonical hash of the molecule. See Record.Hash.
func (M *Molecule) Hash() string { return M.rec.Hash() }

//Name returns the molecule's name.
func (M *Molecule) Name() string { return M.rec.Name }

//Formula returns the molecular formula with the element counts in
//alphabetical order and single counts suppressed, as in "CO2" or
//"H2O". Ghosts do not count.
func (M *Molecule) Formula() string {
	counts := map[string]int{}
	for i, s := range M.rec.Symbols {
		if M.rec.Real[i] {
			counts[s]++
		}
	}
	syms := make([]string, 0, len(counts))
	for s := range counts {
		syms = append(syms, s)
	}
	sort.Strings(syms)
	var b strings.Builder
	for _, s := range syms {
		b.WriteString(s)
		if counts[s] > 1 {
			fmt.Fprintf(&b, "%d", counts[s])
		}
	}
	return b.String()
}

//Nelectrons returns the electron count: effective nuclear charges
//(ghosts contribute none) minus the molecular charge.
func (M *Molecule) Nelectrons() int {
	n := 0
	for i := 0; i < M.rec.NAtoms(); i++ {
		n += M.rec.Zeff(i)
	}
	return n - int(math.Round(M.rec.MolecularCharge))
}

//NuclearRepulsionEnergy returns the nuclear repulsion energy in
//hartree, over the effective nuclear charges.
func (M *Molecule) NuclearRepulsionEnergy() float64 {
	nre := 0.0
	n := M.rec.NAtoms()
	for i := 0; i < n; i++ {
		zi := float64(M.rec.Zeff(i))
		if zi == 0 {
			continue
		}
		for j := i + 1; j < n; j++ {
			zj := float64(M.rec.Zeff(j))
			if zj == 0 {
				continue
			}
			nre += zi * zj / Distance(M.rec.Geometry.VecView(i), M.rec.Geometry.VecView(j))
		}
	}
	return nre
}

//Measure returns a distance (bohr), angle or signed dihedral (degrees)
//over 2, 3 or 4 atom indices.
func (M *Molecule) Measure(idx ...int) (float64, error) {
	return MeasureCoordinates(M.rec.Geometry, idx...)
}

//DistanceMatrix returns the pairwise distance matrix in bohr.
func (M *Molecule) DistanceMatrix() *mat.Dense {
	return DistanceMatrix(M.rec.Geometry)
}

//Fragment extracts the fragments with the given indices into a new
//Molecule. The fragments in real stay real; the ones in ghost are
//demoted to ghost atoms. With group, the real fragments come first and
//the ghost ones after; without it every kept fragment stays in its
//original relative order. The geometry is taken verbatim, with no
//recentering. Charge and multiplicity are recomputed from the kept
//real fragments.
func (M *Molecule) Fragment(real []int, ghost []int, group bool) (*Molecule, error) {
	nfr := len(M.rec.Fragments)
	for _, fi := range append(append([]int{}, real...), ghost...) {
		if fi < 0 || fi >= nfr {
			return nil, validationError(KindFragments, "fragment index %d out of range for %d fragments", fi, nfr)
		}
	}
	isGhost := map[int]bool{}
	for _, fi := range ghost {
		isGhost[fi] = true
	}
	for _, fi := range real {
		if isGhost[fi] {
			return nil, validationError(KindFragments, "fragment %d asked for as both real and ghost", fi)
		}
	}
	var order []int
	if group {
		order = append(append([]int{}, real...), ghost...)
	} else {
		order = append(append([]int{}, real...), ghost...)
		sort.Ints(order)
	}
	in := &ArrayInput{
		Units:          "bohr",
		FixCom:         true,
		FixOrientation: true,
		Name:           M.rec.Name,
		Routine:        "Fragment",
	}
	at := 0
	for _, fi := range order {
		frag := M.rec.Fragments[fi]
		idxs := []int{}
		for _, a := range frag {
			sym := M.rec.Symbols[a]
			if !M.rec.Real[a] || isGhost[fi] {
				sym = "@" + sym
			}
			in.Symbols = append(in.Symbols, sym)
			in.Masses = append(in.Masses, M.rec.Masses[a])
			in.AtomicNumbers = append(in.AtomicNumbers, M.rec.AtomicNumbers[a])
			in.Geometry = append(in.Geometry,
				M.rec.Geometry.At(a, 0), M.rec.Geometry.At(a, 1), M.rec.Geometry.At(a, 2))
			idxs = append(idxs, at)
			at++
		}
		in.Fragments = append(in.Fragments, idxs)
		if isGhost[fi] {
			in.FragmentCharges = append(in.FragmentCharges, Float64(0))
			in.FragmentMultiplicities = append(in.FragmentMultiplicities, 1)
		} else {
			in.FragmentCharges = append(in.FragmentCharges, Float64(M.rec.FragmentCharges[fi]))
			in.FragmentMultiplicities = append(in.FragmentMultiplicities, M.rec.FragmentMultiplicities[fi])
		}
	}
	return FromArraysMol(in)
}

//WithGeometry returns a copy of the molecule with its coordinates
//replaced (bohr). The replacement is taken as-is, with no reframing.
func (M *Molecule) WithGeometry(geom *v3.Matrix) (*Molecule, error) {
	if geom.NVecs() != M.rec.NAtoms() {
		return nil, validationError(KindShape, "replacement geometry has %d vectors for %d atoms", geom.NVecs(), M.rec.NAtoms())
	}
	rec := M.rec.Copy()
	rec.Geometry = geom.CopyTo()
	if err := rec.Validate(); err != nil {
		return nil, errDecorate(err, "WithGeometry")
	}
	return &Molecule{rec: rec}, nil
}

//WithName returns a copy of the molecule with a new name.
func (M *Molecule) WithName(name string) *Molecule {
	rec := M.rec.Copy()
	rec.Name = name
	return &Molecule{rec: rec}
}

//WithoutOrientation returns a copy of the molecule moved to the
//canonical frame, clearing the FixCom and FixOrientation flags a
//frame-pinned input carried.
func (M *Molecule) WithoutOrientation() (*Molecule, error) {
	rec := M.rec.Copy()
	rec.FixCom = false
	rec.FixOrientation = false
	if err := fixFrame(rec); err != nil {
		return nil, errDecorate(err, "WithoutOrientation")
	}
	roundNoise(rec)
	return New(rec, true)
}

//Compare reports whether the two molecules agree field by field, with
//tol (bohr) on the geometry and a fixed small tolerance on masses and
//charges.
func (M *Molecule) Compare(other *Molecule, tol float64) bool {
	a, b := M.rec, other.rec
	if a.NAtoms() != b.NAtoms() || len(a.Fragments) != len(b.Fragments) {
		return false
	}
	for i := range a.Symbols {
		if a.Symbols[i] != b.Symbols[i] || a.Real[i] != b.Real[i] || a.AtomicNumbers[i] != b.AtomicNumbers[i] {
			return false
		}
	}
	if !floats.EqualApprox(a.Masses, b.Masses, massTol) {
		return false
	}
	if math.Abs(a.MolecularCharge-b.MolecularCharge) > 1e-6 || a.MolecularMultiplicity != b.MolecularMultiplicity {
		return false
	}
	if !floats.EqualApprox(a.FragmentCharges, b.FragmentCharges, 1e-6) {
		return false
	}
	for i := range a.FragmentMultiplicities {
		if a.FragmentMultiplicities[i] != b.FragmentMultiplicities[i] {
			return false
		}
	}
	for fi := range a.Fragments {
		if len(a.Fragments[fi]) != len(b.Fragments[fi]) {
			return false
		}
		for k := range a.Fragments[fi] {
			if a.Fragments[fi][k] != b.Fragments[fi][k] {
				return false
			}
		}
	}
	if a.NAtoms() > 0 && !mat.EqualApprox(a.Geometry.Dense, b.Geometry.Dense, tol) {
		return false
	}
	return true
}

//PrettyPrint returns a human-oriented text rendering of the molecule,
//in angstrom.
func (M *Molecule) PrettyPrint() string {
	var b strings.Builder
	name := M.rec.Name
	if name == "" {
		name = M.Formula()
	}
	fmt.Fprintf(&b, "Geometry (in Angstrom), charge = %.4f, multiplicity = %d:\n\n", M.rec.MolecularCharge, M.rec.MolecularMultiplicity)
	fmt.Fprintf(&b, "   Center              X                  Y                   Z\n")
	fmt.Fprintf(&b, "------------   -----------------  -----------------  -----------------\n")
	for i := 0; i < M.rec.NAtoms(); i++ {
		sym := M.rec.Symbols[i]
		if !M.rec.Real[i] {
			sym = "Gh(" + sym + ")"
		}
		fmt.Fprintf(&b, "%-11s %18.12f %18.12f %18.12f\n", strings.ToUpper(sym),
			M.rec.Geometry.At(i, 0)*Bohr2A, M.rec.Geometry.At(i, 1)*Bohr2A, M.rec.Geometry.At(i, 2)*Bohr2A)
	}
	return b.String()
}
