/*
 * periodic.go, part of molrec.
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

//Package periodic contains reference data for the elements and their
//isotopes, plus lookup functions over those data. Lookups never return
//partial results: an identifier either resolves to an element known to
//the table or the lookup fails with a *NotAnElementError.
package periodic

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
)

//Element holds the per-element reference data. Mass is the standard
//atomic weight in Daltons (the conventional value for elements with no
//stable isotope).
type Element struct {
	Symbol string
	Name   string
	Z      int
	Mass   float64
	Period int
	Group  int
}

//NotAnElementError reports an identifier that does not resolve to any
//element or nuclide in the table.
type NotAnElementError struct {
	identifier string
	deco       []string
}

func (err *NotAnElementError) Error() string {
	return fmt.Sprintf("molrec/periodic: not an element: %q", err.identifier)
}

func (err *NotAnElementError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Identifier returns the identifier that failed to resolve.
func (err *NotAnElementError) Identifier() string { return err.identifier }

var lookupCache sync.Map //normalized identifier -> *Element

var byName map[string]*Element
var bySymbol map[string]*Element
var byZ map[int]*Element

func init() {
	byName = make(map[string]*Element, len(table))
	bySymbol = make(map[string]*Element, len(table))
	byZ = make(map[int]*Element, len(table))
	for i := range table {
		e := &table[i]
		byName[strings.ToLower(e.Name)] = e
		bySymbol[strings.ToLower(e.Symbol)] = e
		byZ[e.Z] = e
	}
}

//Lookup resolves identifier, which may be an element symbol ("na"), an
//element name ("Sodium") or a decimal atomic number ("11"), all
//case-insensitive, to the corresponding element. Results are memoized.
func Lookup(identifier string) (*Element, error) {
	key := strings.ToLower(strings.TrimSpace(identifier))
	if v, ok := lookupCache.Load(key); ok {
		return v.(*Element), nil
	}
	var e *Element
	if z, err := strconv.Atoi(key); err == nil {
		e = byZ[z]
	} else if el, ok := bySymbol[key]; ok {
		e = el
	} else if el, ok := byName[key]; ok {
		e = el
	}
	if e == nil {
		return nil, &NotAnElementError{identifier: identifier}
	}
	lookupCache.Store(key, e)
	return e, nil
}

//LookupZ resolves an atomic number to its element.
func LookupZ(z int) (*Element, error) {
	if e, ok := byZ[z]; ok {
		return e, nil
	}
	return nil, &NotAnElementError{identifier: strconv.Itoa(z)}
}

//table lists every named element. Standard atomic weights follow the
//2021 IUPAC abridged values.
var table = []Element{
	{"H", "Hydrogen", 1, 1.008, 1, 1},
	{"He", "Helium", 2, 4.0026, 1, 18},
	{"Li", "Lithium", 3, 6.94, 2, 1},
	{"Be", "Beryllium", 4, 9.0122, 2, 2},
	{"B", "Boron", 5, 10.81, 2, 13},
	{"C", "Carbon", 6, 12.011, 2, 14},
	{"N", "Nitrogen", 7, 14.007, 2, 15},
	{"O", "Oxygen", 8, 15.999, 2, 16},
	{"F", "Fluorine", 9, 18.998, 2, 17},
	{"Ne", "Neon", 10, 20.180, 2, 18},
	{"Na", "Sodium", 11, 22.990, 3, 1},
	{"Mg", "Magnesium", 12, 24.305, 3, 2},
	{"Al", "Aluminium", 13, 26.982, 3, 13},
	{"Si", "Silicon", 14, 28.085, 3, 14},
	{"P", "Phosphorus", 15, 30.974, 3, 15},
	{"S", "Sulfur", 16, 32.06, 3, 16},
	{"Cl", "Chlorine", 17, 35.45, 3, 17},
	{"Ar", "Argon", 18, 39.95, 3, 18},
	{"K", "Potassium", 19, 39.098, 4, 1},
	{"Ca", "Calcium", 20, 40.078, 4, 2},
	{"Sc", "Scandium", 21, 44.956, 4, 3},
	{"Ti", "Titanium", 22, 47.867, 4, 4},
	{"V", "Vanadium", 23, 50.942, 4, 5},
	{"Cr", "Chromium", 24, 51.996, 4, 6},
	{"Mn", "Manganese", 25, 54.938, 4, 7},
	{"Fe", "Iron", 26, 55.845, 4, 8},
	{"Co", "Cobalt", 27, 58.933, 4, 9},
	{"Ni", "Nickel", 28, 58.693, 4, 10},
	{"Cu", "Copper", 29, 63.546, 4, 11},
	{"Zn", "Zinc", 30, 65.38, 4, 12},
	{"Ga", "Gallium", 31, 69.723, 4, 13},
	{"Ge", "Germanium", 32, 72.630, 4, 14},
	{"As", "Arsenic", 33, 74.922, 4, 15},
	{"Se", "Selenium", 34, 78.971, 4, 16},
	{"Br", "Bromine", 35, 79.904, 4, 17},
	{"Kr", "Krypton", 36, 83.798, 4, 18},
	{"Rb", "Rubidium", 37, 85.468, 5, 1},
	{"Sr", "Strontium", 38, 87.62, 5, 2},
	{"Y", "Yttrium", 39, 88.906, 5, 3},
	{"Zr", "Zirconium", 40, 91.224, 5, 4},
	{"Nb", "Niobium", 41, 92.906, 5, 5},
	{"Mo", "Molybdenum", 42, 95.95, 5, 6},
	{"Tc", "Technetium", 43, 97.0, 5, 7},
	{"Ru", "Ruthenium", 44, 101.07, 5, 8},
	{"Rh", "Rhodium", 45, 102.91, 5, 9},
	{"Pd", "Palladium", 46, 106.42, 5, 10},
	{"Ag", "Silver", 47, 107.87, 5, 11},
	{"Cd", "Cadmium", 48, 112.41, 5, 12},
	{"In", "Indium", 49, 114.82, 5, 13},
	{"Sn", "Tin", 50, 118.71, 5, 14},
	{"Sb", "Antimony", 51, 121.76, 5, 15},
	{"Te", "Tellurium", 52, 127.60, 5, 16},
	{"I", "Iodine", 53, 126.90, 5, 17},
	{"Xe", "Xenon", 54, 131.29, 5, 18},
	{"Cs", "Caesium", 55, 132.91, 6, 1},
	{"Ba", "Barium", 56, 137.33, 6, 2},
	{"La", "Lanthanum", 57, 138.91, 6, 3},
	{"Ce", "Cerium", 58, 140.12, 6, 3},
	{"Pr", "Praseodymium", 59, 140.91, 6, 3},
	{"Nd", "Neodymium", 60, 144.24, 6, 3},
	{"Pm", "Promethium", 61, 145.0, 6, 3},
	{"Sm", "Samarium", 62, 150.36, 6, 3},
	{"Eu", "Europium", 63, 151.96, 6, 3},
	{"Gd", "Gadolinium", 64, 157.25, 6, 3},
	{"Tb", "Terbium", 65, 158.93, 6, 3},
	{"Dy", "Dysprosium", 66, 162.50, 6, 3},
	{"Ho", "Holmium", 67, 164.93, 6, 3},
	{"Er", "Erbium", 68, 167.26, 6, 3},
	{"Tm", "Thulium", 69, 168.93, 6, 3},
	{"Yb", "Ytterbium", 70, 173.05, 6, 3},
	{"Lu", "Lutetium", 71, 174.97, 6, 3},
	{"Hf", "Hafnium", 72, 178.49, 6, 4},
	{"Ta", "Tantalum", 73, 180.95, 6, 5},
	{"W", "Tungsten", 74, 183.84, 6, 6},
	{"Re", "Rhenium", 75, 186.21, 6, 7},
	{"Os", "Osmium", 76, 190.23, 6, 8},
	{"Ir", "Iridium", 77, 192.22, 6, 9},
	{"Pt", "Platinum", 78, 195.08, 6, 10},
	{"Au", "Gold", 79, 196.97, 6, 11},
	{"Hg", "Mercury", 80, 200.59, 6, 12},
	{"Tl", "Thallium", 81, 204.38, 6, 13},
	{"Pb", "Lead", 82, 207.2, 6, 14},
	{"Bi", "Bismuth", 83, 208.98, 6, 15},
	{"Po", "Polonium", 84, 209.0, 6, 16},
	{"At", "Astatine", 85, 210.0, 6, 17},
	{"Rn", "Radon", 86, 222.0, 6, 18},
	{"Fr", "Francium", 87, 223.0, 7, 1},
	{"Ra", "Radium", 88, 226.0, 7, 2},
	{"Ac", "Actinium", 89, 227.0, 7, 3},
	{"Th", "Thorium", 90, 232.04, 7, 3},
	{"Pa", "Protactinium", 91, 231.04, 7, 3},
	{"U", "Uranium", 92, 238.03, 7, 3},
	{"Np", "Neptunium", 93, 237.0, 7, 3},
	{"Pu", "Plutonium", 94, 244.0, 7, 3},
	{"Am", "Americium", 95, 243.0, 7, 3},
	{"Cm", "Curium", 96, 247.0, 7, 3},
	{"Bk", "Berkelium", 97, 247.0, 7, 3},
	{"Cf", "Californium", 98, 251.0, 7, 3},
	{"Es", "Einsteinium", 99, 252.0, 7, 3},
	{"Fm", "Fermium", 100, 257.0, 7, 3},
	{"Md", "Mendelevium", 101, 258.0, 7, 3},
	{"No", "Nobelium", 102, 259.0, 7, 3},
	{"Lr", "Lawrencium", 103, 266.0, 7, 3},
	{"Rf", "Rutherfordium", 104, 267.0, 7, 4},
	{"Db", "Dubnium", 105, 268.0, 7, 5},
	{"Sg", "Seaborgium", 106, 269.0, 7, 6},
	{"Bh", "Bohrium", 107, 270.0, 7, 7},
	{"Hs", "Hassium", 108, 269.0, 7, 8},
	{"Mt", "Meitnerium", 109, 278.0, 7, 9},
	{"Ds", "Darmstadtium", 110, 281.0, 7, 10},
	{"Rg", "Roentgenium", 111, 282.0, 7, 11},
	{"Cn", "Copernicium", 112, 285.0, 7, 12},
	{"Nh", "Nihonium", 113, 286.0, 7, 13},
	{"Fl", "Flerovium", 114, 289.0, 7, 14},
	{"Mc", "Moscovium", 115, 290.0, 7, 15},
	{"Lv", "Livermorium", 116, 293.0, 7, 16},
	{"Ts", "Tennessine", 117, 294.0, 7, 17},
	{"Og", "Oganesson", 118, 294.0, 7, 18},
}
