/*
 * json.go, part of molrec.
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
	"encoding/json"
	"math"
)

//schemaName is the name this library writes; the older spelling is
//still accepted on read.
const (
	schemaName    = "qcschema_molecule"
	schemaNameV1  = "qc_schema_molecule"
	schemaVersion = 2
)

//molWire is the schema (JSON dict) form of a record.
type molWire struct {
	SchemaName    string    `json:"schema_name"`
	SchemaVersion int       `json:"schema_version"`
	Symbols       []string  `json:"symbols"`
	Geometry      []float64 `json:"geometry"`
	Masses        []float64 `json:"masses,omitempty"`
	MassNumbers   []int     `json:"mass_numbers,omitempty"`
	AtomicNumbers []int     `json:"atomic_numbers,omitempty"`
	Real          []bool    `json:"real,omitempty"`
	AtomLabels    []string  `json:"atom_labels,omitempty"`

	Fragments              [][]int   `json:"fragments,omitempty"`
	FragmentCharges        []float64 `json:"fragment_charges,omitempty"`
	FragmentMultiplicities []int     `json:"fragment_multiplicities,omitempty"`
	MolecularCharge        float64   `json:"molecular_charge"`
	MolecularMultiplicity  int       `json:"molecular_multiplicity"`

	Connectivity [][3]float64 `json:"connectivity,omitempty"`

	FixCom         bool   `json:"fix_com"`
	FixOrientation bool   `json:"fix_orientation"`
	FixSymmetry    string `json:"fix_symmetry,omitempty"`

	Name       string                 `json:"name,omitempty"`
	Comment    string                 `json:"comment,omitempty"`
	Provenance *Provenance            `json:"provenance,omitempty"`
	Extras     map[string]interface{} `json:"extras,omitempty"`
}

//MarshalJSON serializes the record in its schema dict form, version 2,
//geometry flattened in bohr, with the numerical noise rounded away.
func (R *Record) MarshalJSON() ([]byte, error) {
	nat := R.NAtoms()
	w := &molWire{
		SchemaName:             schemaName,
		SchemaVersion:          schemaVersion,
		Symbols:                R.Symbols,
		MassNumbers:            R.MassNumbers,
		AtomicNumbers:          R.AtomicNumbers,
		Real:                   R.Real,
		AtomLabels:             R.AtomLabels,
		Fragments:              R.Fragments,
		FragmentMultiplicities: R.FragmentMultiplicities,
		MolecularCharge:        floatPrep(R.MolecularCharge, chargeNoise),
		MolecularMultiplicity:  R.MolecularMultiplicity,
		FixCom:                 R.FixCom,
		FixOrientation:         R.FixOrientation,
		FixSymmetry:            R.FixSymmetry,
		Name:                   R.Name,
		Comment:                R.Comment,
		Extras:                 R.Extras,
	}
	prov := R.Provenance
	w.Provenance = &prov
	w.Geometry = make([]float64, 0, 3*nat)
	for i := 0; i < nat; i++ {
		for j := 0; j < 3; j++ {
			w.Geometry = append(w.Geometry, floatPrep(R.Geometry.At(i, j), geometryNoise))
		}
	}
	w.Masses = make([]float64, nat)
	for i, m := range R.Masses {
		w.Masses[i] = floatPrep(m, massNoise)
	}
	w.FragmentCharges = make([]float64, len(R.FragmentCharges))
	for i, c := range R.FragmentCharges {
		w.FragmentCharges[i] = floatPrep(c, chargeNoise)
	}
	if R.Connectivity != nil {
		w.Connectivity = make([][3]float64, len(R.Connectivity))
		for i, b := range R.Connectivity {
			w.Connectivity[i] = [3]float64{float64(b.At1), float64(b.At2), b.Order}
		}
	}
	return json.Marshal(w)
}

//schemaToArrays turns a decoded wire record into canonicalization
//input. Both schema versions land here; the differences between them
//are only in naming and defaults, which the decoding already leveled.
func schemaToArrays(w *molWire) (*ArrayInput, error) {
	switch w.SchemaName {
	case schemaName, schemaNameV1, "":
	default:
		return nil, validationError(KindShape, "schema name %q is not a molecule schema", w.SchemaName)
	}
	if w.SchemaVersion > schemaVersion {
		return nil, validationError(KindShape, "schema version %d is newer than this library", w.SchemaVersion)
	}
	in := &ArrayInput{
		Units:          "bohr",
		Geometry:       w.Geometry,
		Symbols:        w.Symbols,
		AtomicNumbers:  w.AtomicNumbers,
		Masses:         w.Masses,
		MassNumbers:    w.MassNumbers,
		Real:           w.Real,
		AtomLabels:     w.AtomLabels,
		Fragments:      w.Fragments,
		FixCom:         w.FixCom,
		FixOrientation: w.FixOrientation,
		FixSymmetry:    w.FixSymmetry,
		Name:           w.Name,
		Comment:        w.Comment,
		Routine:        "FromSchema",
	}
	if w.FragmentCharges != nil {
		in.FragmentCharges = make([]*float64, len(w.FragmentCharges))
		for i := range w.FragmentCharges {
			in.FragmentCharges[i] = Float64(w.FragmentCharges[i])
		}
	}
	in.FragmentMultiplicities = w.FragmentMultiplicities
	in.MolecularCharge = Float64(w.MolecularCharge)
	if w.MolecularMultiplicity > 0 {
		in.MolecularMultiplicity = w.MolecularMultiplicity
	}
	if w.Connectivity != nil {
		in.Connectivity = make([]Bond, len(w.Connectivity))
		for i, c := range w.Connectivity {
			a1 := int(math.Round(c[0]))
			a2 := int(math.Round(c[1]))
			in.Connectivity[i] = Bond{At1: a1, At2: a2, Order: c[2]}
		}
	}
	return in, nil
}

//FromSchema parses a schema (JSON) molecule, either version, and runs
//it through the canonicalization pipeline.
func FromSchema(data []byte) (*Molecule, error) {
	w := &molWire{}
	if err := json.Unmarshal(data, w); err != nil {
		return nil, errDecorate(err, "FromSchema")
	}
	in, err := schemaToArrays(w)
	if err != nil {
		return nil, err
	}
	return FromArraysMol(in)
}
