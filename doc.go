/*
 * doc.go, part of molrec.
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
 * molrec is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package molrec builds canonical molecule records out of heterogeneous
input and works with them. It provides the pieces a quantum chemistry
pipeline needs before any actual quantum chemistry happens.


	**molrec capabilities**

    Parses molecules from text in several dialects (psi4-style,
	xyz, extended xyz), from plain arrays, and from the qcschema
	JSON form, all through one canonicalization pipeline.

    Reconciles partially specified nuclei (symbols, atomic numbers,
	mass numbers, exact masses, ghost markers, user labels) against
	the periodic table, cross-checking whatever redundant
	information the input gives.

    Fills and validates fragment charges and multiplicities from
	whatever subset the input specifies, with electron-parity
	checks.

    Moves every molecule to a canonical frame: center of mass at
	the origin and principal axes of inertia along x, y, z, with
	numerical noise rounded away so that equivalent inputs produce
	byte-identical records.

    Hashes records by content (sha1), so two molecules are the same
	iff their hashes match.

    Measures distances, angles and signed dihedrals, computes
	distance matrices, nuclear repulsion energies, formulas and
	electron counts, and extracts fragments with optional ghosting
	of the rest.

    Fetches molecules by name from PubChem.

    Writes input blocks for several quantum chemistry programs
	(psi4, nwchem, orca, turbomole).

The align subpackage finds the rotation, translation, atom
correspondence and optional reflection that best superimpose two
molecules, and the schema subpackage persists records as plain or
zstd-compressed JSON.

All coordinates inside a Record are in bohr; text dialects default to
angstrom on the outside. All operations on a Molecule leave it
unchanged and return a new one.
*/
package molrec
