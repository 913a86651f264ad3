/*
 * nucleus.go, part of molrec.
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
	"regexp"
	"strconv"
	"strings"

	"github.com/rmera/molrec/periodic"
)

//NucleusLabel is the parsed form of one atom token of the text
//grammar, before reconciliation against the periodic table. Z and A
//are -1 when the token does not give them; Mass is NaN when the token
//carries no explicit mass.
type NucleusLabel struct {
	Symbol string
	Z      int
	A      int
	Mass   float64
	Label  string
	Real   bool
}

//An atom token is, in order: an optional ghost marker (@ or Gh(...)),
//an optional mass number, either an element symbol or an atomic
//number, an optional mass number again (O18 and 18O are the same
//nuclide), an optional _tag, and an optional @exactmass.
var nucleusRe = regexp.MustCompile(`^(?i)(?P<gh1>@)?(?P<gh2>gh\()?(?P<a1>\d+)?(?P<symbol>[a-z]{1,3})(?P<a2>\d+)?(?P<label>_\w+)?(?:@(?P<mass>\d+(?:\.\d+)?))?(?P<gh3>\))?$`)

var nucleusZRe = regexp.MustCompile(`^(?i)(?P<gh1>@)?(?P<gh2>gh\()?(?P<z>\d{1,3})(?P<label>_\w+)?(?:@(?P<mass>\d+(?:\.\d+)?))?(?P<gh3>\))?$`)

func reGroups(re *regexp.Regexp, s string) map[string]string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	g := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && m[i] != "" {
			g[name] = m[i]
		}
	}
	return g
}

//ParseNucleusLabel parses one atom token of the text grammar.
func ParseNucleusLabel(tok string) (*NucleusLabel, error) {
	tok = strings.TrimSpace(tok)
	g := reGroups(nucleusRe, tok)
	z := -1
	if g == nil {
		g = reGroups(nucleusZRe, tok)
		if g == nil {
			return nil, validationError(KindNuclei, "cannot parse atom token %q", tok)
		}
		var err error
		z, err = strconv.Atoi(g["z"])
		if err != nil {
			return nil, validationError(KindNuclei, "cannot parse atom token %q", tok)
		}
	}
	_, paren := g["gh2"]
	_, closed := g["gh3"]
	if paren != closed {
		return nil, validationError(KindNuclei, "unbalanced Gh() in atom token %q", tok)
	}
	_, at := g["gh1"]
	n := &NucleusLabel{Symbol: g["symbol"], Z: z, A: -1, Mass: math.NaN(), Real: !(at || paren)}
	if g["a1"] != "" && g["a2"] != "" && g["a1"] != g["a2"] {
		return nil, validationError(KindNuclei, "atom token %q gives two mass numbers", tok)
	}
	for _, k := range []string{"a1", "a2"} {
		if g[k] != "" {
			n.A, _ = strconv.Atoi(g[k])
		}
	}
	if g["label"] != "" {
		n.Label = strings.TrimPrefix(g["label"], "_")
	}
	if g["mass"] != "" {
		m, err := strconv.ParseFloat(g["mass"], 64)
		if err != nil {
			return nil, validationError(KindNuclei, "bad mass in atom token %q", tok)
		}
		n.Mass = m
	}
	return n, nil
}

//Mass agreement tolerance (Daltons) when matching a user mass against
//a tabulated nuclide.
const massTol = 1e-3

//reconcileNucleus settles the symbol, atomic number, mass number and
//mass of one atom from whatever subset of them the input gave,
//checking any redundant values against each other. aOut is -1 when the
//given mass matches no tabulated nuclide.
func reconcileNucleus(symbol string, z, a int, mass float64) (symOut string, zOut, aOut int, massOut float64, err error) {
	var e *periodic.Element
	if z > 0 {
		e, err = periodic.LookupZ(z)
		if err != nil {
			return "", 0, 0, 0, err
		}
		if symbol != "" && !strings.EqualFold(symbol, e.Symbol) {
			return "", 0, 0, 0, validationError(KindNuclei, "symbol %q disagrees with atomic number %d (%s)", symbol, z, e.Symbol)
		}
	} else {
		e, err = periodic.Lookup(symbol)
		if err != nil {
			return "", 0, 0, 0, err
		}
	}
	hasMass := !math.IsNaN(mass)
	switch {
	case a > 0:
		iso, err2 := periodic.LookupIsotope(e.Symbol, a)
		if err2 != nil {
			return "", 0, 0, 0, err2
		}
		if hasMass && math.Abs(mass-iso.Mass) > massTol {
			return "", 0, 0, 0, validationError(KindNuclei, "mass %f disagrees with nuclide %s%d (%f)", mass, e.Symbol, a, iso.Mass)
		}
		if !hasMass {
			mass = iso.Mass
		}
		return e.Symbol, e.Z, a, mass, nil
	case hasMass:
		aOut = -1
		iso, err2 := periodic.MostCommonIsotope(e.Symbol)
		if err2 == nil && math.Abs(mass-iso.Mass) <= massTol {
			aOut = iso.A
		} else {
			iso2, err3 := periodic.LookupIsotope(e.Symbol, int(mass+0.5))
			if err3 == nil && math.Abs(mass-iso2.Mass) <= massTol {
				aOut = iso2.A
			}
		}
		return e.Symbol, e.Z, aOut, mass, nil
	default:
		iso, err2 := periodic.MostCommonIsotope(e.Symbol)
		if err2 != nil {
			return "", 0, 0, 0, err2
		}
		return e.Symbol, e.Z, iso.A, iso.Mass, nil
	}
}
