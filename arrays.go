/*
 * arrays.go, part of molrec.
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
	"sort"
	"strings"

	"github.com/rmera/molrec/v3"
)

//Float64 returns a pointer to v. It spares callers a variable when
//filling the optional fields of ArrayInput.
func Float64(v float64) *float64 { return &v }

//ArrayInput is the heterogeneous, partially specified input that
//FromArrays reduces to a canonical Record. Optional per-atom slices
//may be nil; optional entries use -1 (mass numbers), NaN (masses), nil
//(charges) or 0 (multiplicities) to mean unspecified.
type ArrayInput struct {
	Units    string //"angstrom" (default), "bohr" or "au"
	Geometry []float64

	//Atom identity, any consistent subset. Symbols may use the full
	//atom-token syntax of the text grammar (@O, 18O, O18, C_mine).
	Symbols       []string
	AtomicNumbers []int
	Masses        []float64
	MassNumbers   []int
	Real          []bool
	AtomLabels    []string

	Fragments              [][]int
	FragmentCharges        []*float64
	FragmentMultiplicities []int
	MolecularCharge        *float64
	MolecularMultiplicity  int

	Connectivity []Bond

	FixCom         bool
	FixOrientation bool
	FixSymmetry    string

	Name    string
	Comment string
	Routine string
}

//FromArrays runs the canonicalization pipeline over in and returns the
//canonical record: units to bohr, geometry checked, nuclei reconciled,
//fragments and charge/multiplicity filled and cross-checked, frame
//fixed (center of mass removed and principal axes applied, unless the
//corresponding Fix flag is set), numerical noise rounded away.
func FromArrays(in *ArrayInput) (*Record, error) {
	factor, err := unitFactor(in.Units)
	if err != nil {
		return nil, err
	}
	geom, err := validateGeometry(in.Geometry, factor)
	if err != nil {
		return nil, err
	}
	nat := 0
	if geom != nil {
		nat = geom.NVecs()
	}
	R := &Record{
		Geometry:       geom,
		FixCom:         in.FixCom,
		FixOrientation: in.FixOrientation,
		FixSymmetry:    in.FixSymmetry,
		Name:           in.Name,
		Comment:        in.Comment,
	}
	if err := fillNuclei(R, in, nat); err != nil {
		return nil, err
	}
	if err := tooClose(R); err != nil {
		return nil, err
	}
	if err := fillFragments(R, in.Fragments); err != nil {
		return nil, err
	}
	if err := fillChgmult(R, in); err != nil {
		return nil, err
	}
	if err := fixFrame(R); err != nil {
		return nil, err
	}
	roundNoise(R)
	R.Connectivity, err = canonicalConnectivity(in.Connectivity, nat)
	if err != nil {
		return nil, err
	}
	routine := in.Routine
	if routine == "" {
		routine = "FromArrays"
	}
	R.Provenance = Provenance{Creator: "molrec", Version: Version, Routine: routine}
	if err := R.Validate(); err != nil {
		return nil, errDecorate(err, "FromArrays")
	}
	return R, nil
}

func unitFactor(units string) (float64, error) {
	switch strings.ToLower(units) {
	case "", "angstrom", "angstroms":
		return A2Bohr, nil
	case "bohr", "au":
		return 1.0, nil
	}
	return 0, validationError(KindUnits, "unknown units %q", units)
}

func validateGeometry(flat []float64, factor float64) (*v3.Matrix, error) {
	if len(flat)%3 != 0 {
		return nil, validationError(KindGeometry, "geometry length %d is not a multiple of 3", len(flat))
	}
	if len(flat) == 0 {
		return nil, nil
	}
	for i, v := range flat {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, validationError(KindGeometry, "non-finite value at geometry position %d", i)
		}
	}
	geom, err := v3.NewMatrix(flat)
	if err != nil {
		return nil, errDecorate(err, "validateGeometry")
	}
	geom.Scale(factor, geom)
	return geom, nil
}

//tooClose rejects overlapping atoms, naming the offending pair.
func tooClose(R *Record) error {
	n := R.NAtoms()
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if Distance(R.Geometry.VecView(i), R.Geometry.VecView(j)) < tooCloseBohr {
				return validationError(KindGeometry, "atoms %d (%s) and %d (%s) are closer than %.1f bohr", i, R.Symbols[i], j, R.Symbols[j], tooCloseBohr)
			}
		}
	}
	return nil
}

//fillNuclei reconciles, atom by atom, whatever identity information
//the input carries (symbols with the full token syntax, atomic
//numbers, masses, mass numbers, ghost flags) into the concrete
//per-atom fields of the record.
func fillNuclei(R *Record, in *ArrayInput, nat int) error {
	if in.Symbols == nil && in.AtomicNumbers == nil {
		if nat != 0 {
			return validationError(KindNuclei, "neither symbols nor atomic numbers given for %d atoms", nat)
		}
	}
	check := func(name string, l, want int) error {
		if l != 0 && l != want {
			return validationError(KindShape, "%d %s for %d atoms", l, name, want)
		}
		return nil
	}
	for _, c := range []struct {
		name string
		l    int
	}{
		{"symbols", len(in.Symbols)},
		{"atomic numbers", len(in.AtomicNumbers)},
		{"masses", len(in.Masses)},
		{"mass numbers", len(in.MassNumbers)},
		{"real flags", len(in.Real)},
		{"atom labels", len(in.AtomLabels)},
	} {
		if err := check(c.name, c.l, nat); err != nil {
			return err
		}
	}
	R.Symbols = make([]string, nat)
	R.AtomicNumbers = make([]int, nat)
	R.Masses = make([]float64, nat)
	R.MassNumbers = make([]int, nat)
	R.Real = make([]bool, nat)
	R.AtomLabels = make([]string, nat)
	for i := 0; i < nat; i++ {
		var lbl *NucleusLabel
		if in.Symbols != nil {
			var err error
			lbl, err = ParseNucleusLabel(in.Symbols[i])
			if err != nil {
				return errDecorate(err, "fillNuclei")
			}
		} else {
			lbl = &NucleusLabel{Z: -1, A: -1, Mass: math.NaN(), Real: true}
		}
		z := lbl.Z
		if in.AtomicNumbers != nil {
			if z > 0 && z != in.AtomicNumbers[i] {
				return validationError(KindNuclei, "atom %d: token gives Z=%d, atomic numbers give %d", i, z, in.AtomicNumbers[i])
			}
			z = in.AtomicNumbers[i]
		}
		a := lbl.A
		if in.MassNumbers != nil && in.MassNumbers[i] > 0 {
			if a > 0 && a != in.MassNumbers[i] {
				return validationError(KindNuclei, "atom %d: token gives A=%d, mass numbers give %d", i, a, in.MassNumbers[i])
			}
			a = in.MassNumbers[i]
		}
		mass := lbl.Mass
		if in.Masses != nil && !math.IsNaN(in.Masses[i]) {
			if !math.IsNaN(mass) && math.Abs(mass-in.Masses[i]) > massTol {
				return validationError(KindNuclei, "atom %d: token gives mass %f, masses give %f", i, mass, in.Masses[i])
			}
			mass = in.Masses[i]
		}
		sym, zOut, aOut, massOut, err := reconcileNucleus(lbl.Symbol, z, a, mass)
		if err != nil {
			return errDecorate(err, "fillNuclei")
		}
		real := lbl.Real
		if in.Real != nil {
			real = real && in.Real[i]
		}
		label := lbl.Label
		if in.AtomLabels != nil && in.AtomLabels[i] != "" {
			label = in.AtomLabels[i]
		}
		R.Symbols[i] = sym
		R.AtomicNumbers[i] = zOut
		R.MassNumbers[i] = aOut
		R.Masses[i] = massOut
		R.Real[i] = real
		R.AtomLabels[i] = label
	}
	return nil
}

//fillFragments defaults the missing fragmentation to a single fragment
//spanning every atom, and sorts each given fragment so order is
//preserved.
func fillFragments(R *Record, fragments [][]int) error {
	nat := R.NAtoms()
	if fragments == nil {
		if nat == 0 {
			R.Fragments = [][]int{}
			return nil
		}
		all := make([]int, nat)
		for i := range all {
			all[i] = i
		}
		R.Fragments = [][]int{all}
		return nil
	}
	R.Fragments = make([][]int, len(fragments))
	for i, f := range fragments {
		R.Fragments[i] = append([]int{}, f...)
		sort.Ints(R.Fragments[i])
	}
	return nil
}

//fillChgmult fills the unspecified charges and multiplicities and
//cross-checks the explicit ones. The rules: an unspecified fragment
//charge is 0, except that when the molecular charge is explicit and
//exactly one fragment charge is unspecified, that fragment absorbs the
//remainder. An unspecified multiplicity follows electron parity, one
//paired electron short of closed shell at most (singlet for an even
//count, doublet for odd). Explicit totals must agree with the
//fragment sums.
func fillChgmult(R *Record, in *ArrayInput) error {
	nfr := len(R.Fragments)
	if in.FragmentCharges != nil && len(in.FragmentCharges) != nfr {
		return validationError(KindShape, "%d fragment charges for %d fragments", len(in.FragmentCharges), nfr)
	}
	if in.FragmentMultiplicities != nil && len(in.FragmentMultiplicities) != nfr {
		return validationError(KindShape, "%d fragment multiplicities for %d fragments", len(in.FragmentMultiplicities), nfr)
	}
	zeff := make([]int, nfr)
	for fi, f := range R.Fragments {
		for _, at := range f {
			zeff[fi] += R.Zeff(at)
		}
	}
	charges := make([]float64, nfr)
	missing := []int{}
	explicitSum := 0.0
	for fi := 0; fi < nfr; fi++ {
		if in.FragmentCharges == nil || in.FragmentCharges[fi] == nil {
			missing = append(missing, fi)
			continue
		}
		charges[fi] = *in.FragmentCharges[fi]
		explicitSum += charges[fi]
	}
	if in.MolecularCharge != nil {
		rem := *in.MolecularCharge - explicitSum
		switch {
		case len(missing) == 0:
			if math.Abs(rem) > 1e-6 {
				return validationError(KindChgmult, "molecular charge %.4f but fragment charges sum to %.4f", *in.MolecularCharge, explicitSum)
			}
		case math.Abs(rem) <= 1e-6:
			//all missing stay 0
		case len(missing) == 1:
			charges[missing[0]] = rem
		default:
			return validationError(KindChgmult, "cannot distribute charge remainder %.4f over %d unspecified fragments", rem, len(missing))
		}
		R.MolecularCharge = *in.MolecularCharge
	} else {
		R.MolecularCharge = explicitSum
	}
	R.FragmentCharges = charges
	mults := make([]int, nfr)
	for fi := 0; fi < nfr; fi++ {
		nel := zeff[fi] - int(math.Round(charges[fi]))
		if nel < 0 {
			return validationError(KindChgmult, "fragment %d has %d electrons", fi, nel)
		}
		if in.FragmentMultiplicities != nil && in.FragmentMultiplicities[fi] > 0 {
			mults[fi] = in.FragmentMultiplicities[fi]
		} else {
			mults[fi] = 1 + nel%2
		}
	}
	R.FragmentMultiplicities = mults
	if in.MolecularMultiplicity > 0 {
		R.MolecularMultiplicity = in.MolecularMultiplicity
	} else {
		nel := 0
		for i := 0; i < R.NAtoms(); i++ {
			nel += R.Zeff(i)
		}
		nel -= int(math.Round(R.MolecularCharge))
		R.MolecularMultiplicity = 1 + ((nel%2)+2)%2
	}
	return nil
}

//fixFrame moves the record to the canonical frame, honoring the Fix
//flags.
func fixFrame(R *Record) error {
	if R.NAtoms() == 0 {
		return nil
	}
	if !R.FixCom {
		if _, err := MassCentrate(R.Geometry, R.Geometry, R.Masses); err != nil {
			return errDecorate(err, "fixFrame")
		}
	}
	if !R.FixOrientation {
		if err := orientToPrincipalAxes(R.Geometry, R.Masses); err != nil {
			return errDecorate(err, "fixFrame")
		}
	}
	return nil
}

func roundNoise(R *Record) {
	for i := 0; i < R.NAtoms(); i++ {
		for j := 0; j < 3; j++ {
			R.Geometry.Set(i, j, floatPrep(R.Geometry.At(i, j), geometryNoise))
		}
		R.Masses[i] = floatPrep(R.Masses[i], massNoise)
	}
	for i := range R.FragmentCharges {
		R.FragmentCharges[i] = floatPrep(R.FragmentCharges[i], chargeNoise)
	}
	R.MolecularCharge = floatPrep(R.MolecularCharge, chargeNoise)
}

//canonicalConnectivity normalizes each bond to At1 < At2 and sorts the
//list.
func canonicalConnectivity(bonds []Bond, nat int) ([]Bond, error) {
	if bonds == nil {
		return nil, nil
	}
	out := make([]Bond, len(bonds))
	for i, b := range bonds {
		if b.At1 > b.At2 {
			b.At1, b.At2 = b.At2, b.At1
		}
		if b.At1 == b.At2 {
			return nil, validationError(KindConnectivity, "bond %d connects atom %d to itself", i, b.At1)
		}
		out[i] = b
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At1 != out[j].At1 {
			return out[i].At1 < out[j].At1
		}
		return out[i].At2 < out[j].At2
	})
	return out, validateConnectivity(out, nat)
}
