/*
 * record.go, part of molrec.
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
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rmera/molrec/v3"
)

//Version is the library version, recorded in the provenance of every
//record this library creates.
const Version = "0.1.0"

//Unit conversion. Geometries are kept in bohr internally; text formats
//other than turbomole speak angstrom.
const (
	Bohr2A = 0.52917721067
	A2Bohr = 1.0 / Bohr2A
)

const (
	Deg2Rad = math.Pi / 180
	Rad2Deg = 180 / math.Pi
)

//Decimal places kept when rounding away numerical noise before hashing
//or serializing.
const (
	geometryNoise = 8
	massNoise     = 6
	chargeNoise   = 4
)

//Real atoms closer than this (bohr) are rejected as overlapping.
const tooCloseBohr = 0.1

//floatPrep rounds x to n decimals and squashes the negative zeros the
//rounding can produce, so equal geometries serialize identically.
func floatPrep(x float64, n int) float64 {
	p := math.Pow(10, float64(n))
	v := math.Round(x*p) / p
	if math.Abs(v) < math.Pow(5, -float64(n+1)) {
		v = 0
	}
	return v
}

//Bond is one entry of the connectivity list. Atom indices are
//zero-based with At1 < At2; Order may be fractional, in [0,5].
type Bond struct {
	At1   int     `json:"at1"`
	At2   int     `json:"at2"`
	Order float64 `json:"order"`
}

//Provenance records which code produced a record.
type Provenance struct {
	Creator string `json:"creator"`
	Version string `json:"version"`
	Routine string `json:"routine"`
}

//Record is the canonical molecule record: the single, validated,
//frame-fixed representation every input form is reduced to. Geometry is
//in bohr. Per-atom slices all have one entry per atom. A Record is
//produced by FromArrays (or the higher level constructors); building
//one by hand and skipping validation forfeits the invariants.
type Record struct {
	Symbols   []string
	Geometry  *v3.Matrix
	Masses    []float64
	MassNumbers []int //-1 when no tabulated nuclide matches the mass
	AtomicNumbers []int
	Real      []bool
	AtomLabels []string

	Fragments            [][]int
	FragmentCharges      []float64
	FragmentMultiplicities []int
	MolecularCharge      float64
	MolecularMultiplicity int

	Connectivity []Bond

	FixCom         bool
	FixOrientation bool
	FixSymmetry    string

	Name       string
	Comment    string
	Provenance Provenance
	Extras     map[string]interface{}
}

//NAtoms returns the number of atoms in the record, ghosts included.
func (R *Record) NAtoms() int {
	return len(R.Symbols)
}

//Zeff returns the effective nuclear charge of atom i, which is zero
//for ghosts.
func (R *Record) Zeff(i int) int {
	if !R.Real[i] {
		return 0
	}
	return R.AtomicNumbers[i]
}

//Copy returns a deep copy of the record.
func (R *Record) Copy() *Record {
	n := &Record{
		Symbols:                append([]string{}, R.Symbols...),
		Masses:                 append([]float64{}, R.Masses...),
		MassNumbers:            append([]int{}, R.MassNumbers...),
		AtomicNumbers:          append([]int{}, R.AtomicNumbers...),
		Real:                   append([]bool{}, R.Real...),
		AtomLabels:             append([]string{}, R.AtomLabels...),
		FragmentCharges:        append([]float64{}, R.FragmentCharges...),
		FragmentMultiplicities: append([]int{}, R.FragmentMultiplicities...),
		MolecularCharge:        R.MolecularCharge,
		MolecularMultiplicity:  R.MolecularMultiplicity,
		Connectivity:           append([]Bond{}, R.Connectivity...),
		FixCom:                 R.FixCom,
		FixOrientation:         R.FixOrientation,
		FixSymmetry:            R.FixSymmetry,
		Name:                   R.Name,
		Comment:                R.Comment,
		Provenance:             R.Provenance,
	}
	if R.Geometry != nil {
		n.Geometry = R.Geometry.CopyTo()
	}
	n.Fragments = make([][]int, len(R.Fragments))
	for i, f := range R.Fragments {
		n.Fragments[i] = append([]int{}, f...)
	}
	if R.Extras != nil {
		n.Extras = copyExtras(R.Extras)
	}
	return n
}

//copyExtras deep-copies an extras tree, recursing into the nested
//maps and slices json decoding produces.
func copyExtras(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = copyExtrasValue(v)
	}
	return out
}

func copyExtrasValue(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return copyExtras(t)
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = copyExtrasValue(e)
		}
		return out
	}
	return v
}

//Validate checks the record invariants: per-atom slices of consistent
//length, finite geometry, fragments disjoint, covering and
//order-preserving, charges and multiplicities mutually consistent.
func (R *Record) Validate() error {
	nat := R.NAtoms()
	if len(R.Masses) != nat || len(R.AtomicNumbers) != nat || len(R.Real) != nat ||
		len(R.MassNumbers) != nat || len(R.AtomLabels) != nat {
		return validationError(KindShape, "per-atom fields disagree on the atom count %d", nat)
	}
	if R.Geometry == nil {
		if nat != 0 {
			return validationError(KindShape, "nil geometry for %d atoms", nat)
		}
	} else if R.Geometry.NVecs() != nat {
		return validationError(KindShape, "geometry has %d vectors for %d atoms", R.Geometry.NVecs(), nat)
	}
	for i := 0; i < nat; i++ {
		for j := 0; j < 3; j++ {
			if v := R.Geometry.At(i, j); math.IsNaN(v) || math.IsInf(v, 0) {
				return validationError(KindGeometry, "non-finite coordinate at atom %d", i)
			}
		}
	}
	for i, m := range R.Masses {
		if math.IsNaN(m) || math.IsInf(m, 0) || m < 0 {
			return validationError(KindNuclei, "atom %d has mass %v", i, m)
		}
	}
	if math.IsNaN(R.MolecularCharge) || math.IsInf(R.MolecularCharge, 0) {
		return validationError(KindChgmult, "non-finite molecular charge")
	}
	for fi, c := range R.FragmentCharges {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return validationError(KindChgmult, "non-finite charge on fragment %d", fi)
		}
	}
	if len(R.FragmentCharges) != len(R.Fragments) || len(R.FragmentMultiplicities) != len(R.Fragments) {
		return validationError(KindShape, "fragment fields disagree on the fragment count %d", len(R.Fragments))
	}
	seen := make([]bool, nat)
	total := 0
	for fi, f := range R.Fragments {
		for k, at := range f {
			if at < 0 || at >= nat {
				return validationError(KindFragments, "fragment %d references atom %d, out of range", fi, at)
			}
			if seen[at] {
				return validationError(KindFragments, "atom %d belongs to more than one fragment", at)
			}
			if k > 0 && f[k] <= f[k-1] {
				return validationError(KindFragments, "fragment %d is not order-preserving", fi)
			}
			seen[at] = true
			total++
		}
	}
	if total != nat {
		return validationError(KindFragments, "fragments cover %d of %d atoms", total, nat)
	}
	if err := checkChgmult(R); err != nil {
		return err
	}
	return validateConnectivity(R.Connectivity, nat)
}

func validateConnectivity(bonds []Bond, nat int) error {
	seen := make(map[[2]int]bool, len(bonds))
	for i, b := range bonds {
		if b.At1 < 0 || b.At2 >= nat || b.At1 >= b.At2 {
			return validationError(KindConnectivity, "bond %d (%d-%d) is not canonical for %d atoms", i, b.At1, b.At2, nat)
		}
		if b.Order < 0 || b.Order > 5 {
			return validationError(KindConnectivity, "bond %d-%d has order %.2f, outside [0,5]", b.At1, b.At2, b.Order)
		}
		k := [2]int{b.At1, b.At2}
		if seen[k] {
			return validationError(KindConnectivity, "bond %d-%d appears twice", b.At1, b.At2)
		}
		seen[k] = true
	}
	return nil
}

//Hash returns the sha1 hex digest of the record's physically meaningful
//fields, after noise rounding. Two records describing the same physical
//system in the canonical frame hash alike; name, comment, provenance
//and frame flags do not contribute.
func (R *Record) Hash() string {
	h := sha1.New()
	write := func(v interface{}) {
		b, err := json.Marshal(v)
		if err != nil {
			panic(err)
		}
		h.Write(b)
	}
	nat := R.NAtoms()
	masses := make([]float64, nat)
	for i, m := range R.Masses {
		masses[i] = floatPrep(m, massNoise)
	}
	geom := make([]float64, 0, 3*nat)
	for i := 0; i < nat; i++ {
		for j := 0; j < 3; j++ {
			geom = append(geom, floatPrep(R.Geometry.At(i, j), geometryNoise))
		}
	}
	fchg := make([]float64, len(R.FragmentCharges))
	for i, c := range R.FragmentCharges {
		fchg[i] = floatPrep(c, chargeNoise)
	}
	conn := make([][3]float64, len(R.Connectivity))
	for i, b := range R.Connectivity {
		conn[i] = [3]float64{float64(b.At1), float64(b.At2), b.Order}
	}
	write(R.Symbols)
	write(masses)
	write(floatPrep(R.MolecularCharge, chargeNoise))
	write(R.MolecularMultiplicity)
	write(R.Real)
	write(geom)
	write(R.Fragments)
	write(fchg)
	write(R.FragmentMultiplicities)
	write(conn)
	return fmt.Sprintf("%x", h.Sum(nil))
}

//checkChgmult verifies the mutual consistency of the filled charge and
//multiplicity fields. Filling of absent values happens in FromArrays;
//here everything is already concrete.
func checkChgmult(R *Record) error {
	sum := 0.0
	unpaired := 0
	for fi, f := range R.Fragments {
		zeff := 0
		for _, at := range f {
			zeff += R.Zeff(at)
		}
		chg := R.FragmentCharges[fi]
		mult := R.FragmentMultiplicities[fi]
		if mult < 1 {
			return validationError(KindChgmult, "fragment %d multiplicity %d < 1", fi, mult)
		}
		nel := zeff - int(math.Round(chg))
		if nel < 0 {
			return validationError(KindChgmult, "fragment %d has %d electrons", fi, nel)
		}
		if (nel-(mult-1))%2 != 0 || mult-1 > nel {
			return validationError(KindChgmult, "fragment %d: %d electrons cannot give multiplicity %d", fi, nel, mult)
		}
		sum += chg
		unpaired += mult - 1
	}
	if math.Abs(sum-R.MolecularCharge) > 1e-6 {
		return validationError(KindChgmult, "fragment charges sum to %.4f but molecular charge is %.4f", sum, R.MolecularCharge)
	}
	m := R.MolecularMultiplicity
	if m < 1 {
		return validationError(KindChgmult, "molecular multiplicity %d < 1", m)
	}
	nel := 0
	for i := 0; i < R.NAtoms(); i++ {
		nel += R.Zeff(i)
	}
	nel -= int(math.Round(R.MolecularCharge))
	if (nel-(m-1))%2 != 0 || (nel > 0 && m-1 > nel) {
		return validationError(KindChgmult, "%d electrons cannot give molecular multiplicity %d", nel, m)
	}
	if (m-1)%2 != unpaired%2 {
		return validationError(KindChgmult, "molecular multiplicity %d has the wrong parity for fragment multiplicities %v", m, R.FragmentMultiplicities)
	}
	return nil
}
