/*
 * isotopes.go, part of molrec.
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

package periodic

import (
	"fmt"
	"strings"
)

//Isotope holds the reference data for one nuclide. Mass is the exact
//atomic mass in Daltons, Abundance the natural fraction (0 for
//nuclides with no natural occurrence).
type Isotope struct {
	Symbol    string
	A         int
	Mass      float64
	Abundance float64
}

//LookupIsotope resolves a nuclide by element symbol and mass number,
//as in ("O", 18) for O18. Unknown nuclides fail with *NotAnElementError.
func LookupIsotope(symbol string, a int) (*Isotope, error) {
	e, err := Lookup(symbol)
	if err != nil {
		return nil, err
	}
	for i, iso := range isotopes[e.Symbol] {
		if iso.A == a {
			return &isotopes[e.Symbol][i], nil
		}
	}
	return nil, &NotAnElementError{identifier: fmt.Sprintf("%s%d", e.Symbol, a)}
}

//MostCommonIsotope returns the most abundant nuclide of an element. For
//elements whose nuclides are not tabulated it synthesizes one from the
//standard atomic weight, with the mass number from the rounded weight.
func MostCommonIsotope(symbol string) (*Isotope, error) {
	e, err := Lookup(symbol)
	if err != nil {
		return nil, err
	}
	var best *Isotope
	for i, iso := range isotopes[e.Symbol] {
		if best == nil || iso.Abundance > best.Abundance {
			best = &isotopes[e.Symbol][i]
		}
	}
	if best != nil {
		return best, nil
	}
	return &Isotope{Symbol: e.Symbol, A: int(e.Mass + 0.5), Mass: e.Mass}, nil
}

//IsotopeFromLabel resolves labels of the O18/16O kind, with the mass
//number either appended or prepended to the symbol. A label with no
//mass number resolves to the most common nuclide.
func IsotopeFromLabel(label string) (*Isotope, error) {
	sym := strings.TrimSpace(label)
	pre, post := "", ""
	i := 0
	for i < len(sym) && sym[i] >= '0' && sym[i] <= '9' {
		i++
	}
	pre, sym = sym[:i], sym[i:]
	j := len(sym)
	for j > 0 && sym[j-1] >= '0' && sym[j-1] <= '9' {
		j--
	}
	post, sym = sym[j:], sym[:j]
	if pre != "" && post != "" {
		return nil, &NotAnElementError{identifier: label}
	}
	digits := pre + post
	if digits == "" {
		return MostCommonIsotope(sym)
	}
	a := 0
	for _, c := range digits {
		a = a*10 + int(c-'0')
	}
	return LookupIsotope(sym, a)
}

//Exact masses and abundances for the naturally relevant nuclides of the
//lighter elements plus a few common heavy ones. CODATA/AME2020 values,
//truncated to six decimals.
var isotopes = map[string][]Isotope{
	"H":  {{"H", 1, 1.007825, 0.999885}, {"H", 2, 2.014102, 0.000115}, {"H", 3, 3.016049, 0}},
	"He": {{"He", 3, 3.016029, 0.000001}, {"He", 4, 4.002603, 0.999999}},
	"Li": {{"Li", 6, 6.015123, 0.0759}, {"Li", 7, 7.016003, 0.9241}},
	"Be": {{"Be", 9, 9.012183, 1.0}},
	"B":  {{"B", 10, 10.012937, 0.199}, {"B", 11, 11.009305, 0.801}},
	"C":  {{"C", 12, 12.0, 0.9893}, {"C", 13, 13.003355, 0.0107}, {"C", 14, 14.003242, 0}},
	"N":  {{"N", 14, 14.003074, 0.99636}, {"N", 15, 15.000109, 0.00364}},
	"O":  {{"O", 16, 15.994915, 0.99757}, {"O", 17, 16.999132, 0.00038}, {"O", 18, 17.999160, 0.00205}},
	"F":  {{"F", 19, 18.998403, 1.0}},
	"Ne": {{"Ne", 20, 19.992440, 0.9048}, {"Ne", 21, 20.993847, 0.0027}, {"Ne", 22, 21.991385, 0.0925}},
	"Na": {{"Na", 23, 22.989769, 1.0}},
	"Mg": {{"Mg", 24, 23.985042, 0.7899}, {"Mg", 25, 24.985837, 0.1000}, {"Mg", 26, 25.982593, 0.1101}},
	"Al": {{"Al", 27, 26.981538, 1.0}},
	"Si": {{"Si", 28, 27.976927, 0.92223}, {"Si", 29, 28.976495, 0.04685}, {"Si", 30, 29.973770, 0.03092}},
	"P":  {{"P", 31, 30.973762, 1.0}},
	"S":  {{"S", 32, 31.972071, 0.9499}, {"S", 33, 32.971459, 0.0075}, {"S", 34, 33.967867, 0.0425}, {"S", 36, 35.967081, 0.0001}},
	"Cl": {{"Cl", 35, 34.968853, 0.7576}, {"Cl", 37, 36.965903, 0.2424}},
	"Ar": {{"Ar", 36, 35.967545, 0.003336}, {"Ar", 38, 37.962732, 0.000629}, {"Ar", 40, 39.962383, 0.996035}},
	"K":  {{"K", 39, 38.963706, 0.932581}, {"K", 40, 39.963998, 0.000117}, {"K", 41, 40.961825, 0.067302}},
	"Ca": {{"Ca", 40, 39.962591, 0.96941}, {"Ca", 42, 41.958618, 0.00647}, {"Ca", 43, 42.958766, 0.00135}, {"Ca", 44, 43.955482, 0.02086}, {"Ca", 48, 47.952523, 0.00187}},
	"Ti": {{"Ti", 46, 45.952627, 0.0825}, {"Ti", 47, 46.951758, 0.0744}, {"Ti", 48, 47.947942, 0.7372}, {"Ti", 49, 48.947866, 0.0541}, {"Ti", 50, 49.944786, 0.0518}},
	"Cr": {{"Cr", 50, 49.946042, 0.04345}, {"Cr", 52, 51.940505, 0.83789}, {"Cr", 53, 52.940647, 0.09501}, {"Cr", 54, 53.938878, 0.02365}},
	"Mn": {{"Mn", 55, 54.938043, 1.0}},
	"Fe": {{"Fe", 54, 53.939608, 0.05845}, {"Fe", 56, 55.934936, 0.91754}, {"Fe", 57, 56.935392, 0.02119}, {"Fe", 58, 57.933274, 0.00282}},
	"Co": {{"Co", 59, 58.933194, 1.0}},
	"Ni": {{"Ni", 58, 57.935342, 0.68077}, {"Ni", 60, 59.930785, 0.26223}, {"Ni", 61, 60.931055, 0.011399}, {"Ni", 62, 61.928345, 0.036346}, {"Ni", 64, 63.927966, 0.009255}},
	"Cu": {{"Cu", 63, 62.929597, 0.6915}, {"Cu", 65, 64.927789, 0.3085}},
	"Zn": {{"Zn", 64, 63.929142, 0.4917}, {"Zn", 66, 65.926034, 0.2773}, {"Zn", 67, 66.927127, 0.0404}, {"Zn", 68, 67.924844, 0.1845}, {"Zn", 70, 69.925319, 0.0061}},
	"Se": {{"Se", 74, 73.922476, 0.0089}, {"Se", 76, 75.919214, 0.0937}, {"Se", 77, 76.919914, 0.0763}, {"Se", 78, 77.917309, 0.2377}, {"Se", 80, 79.916522, 0.4961}, {"Se", 82, 81.916699, 0.0873}},
	"Br": {{"Br", 79, 78.918338, 0.5069}, {"Br", 81, 80.916290, 0.4931}},
	"Kr": {{"Kr", 78, 77.920365, 0.00355}, {"Kr", 80, 79.916378, 0.02286}, {"Kr", 82, 81.913483, 0.11593}, {"Kr", 83, 82.914127, 0.11500}, {"Kr", 84, 83.911498, 0.56987}, {"Kr", 86, 85.910611, 0.17279}},
	"Ag": {{"Ag", 107, 106.905092, 0.51839}, {"Ag", 109, 108.904755, 0.48161}},
	"Sn": {{"Sn", 118, 117.901607, 0.2422}, {"Sn", 120, 119.902202, 0.3258}},
	"I":  {{"I", 127, 126.904473, 1.0}},
	"Xe": {{"Xe", 129, 128.904781, 0.264006}, {"Xe", 131, 130.905084, 0.212324}, {"Xe", 132, 131.904155, 0.269086}},
	"Cs": {{"Cs", 133, 132.905452, 1.0}},
	"Pt": {{"Pt", 194, 193.962683, 0.3286}, {"Pt", 195, 194.964794, 0.3378}, {"Pt", 196, 195.964955, 0.2521}},
	"Au": {{"Au", 197, 196.966570, 1.0}},
	"Hg": {{"Hg", 200, 199.968327, 0.2310}, {"Hg", 202, 201.970644, 0.2986}},
	"Pb": {{"Pb", 206, 205.974466, 0.241}, {"Pb", 207, 206.975897, 0.221}, {"Pb", 208, 207.976653, 0.524}},
	"U":  {{"U", 235, 235.043930, 0.007204}, {"U", 238, 238.050788, 0.992742}},
}
