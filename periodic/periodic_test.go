/*
 * periodic_test.go, part of molrec.
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
	"errors"
	"testing"
)

func TestLookup(Te *testing.T) {
	for _, id := range []string{"Na", "na", "SODIUM", "11"} {
		e, err := Lookup(id)
		if err != nil {
			Te.Fatal(err)
		}
		if e.Symbol != "Na" || e.Z != 11 {
			Te.Errorf("identifier %q resolved to %v", id, e)
		}
	}
	e, err := LookupZ(6)
	if err != nil {
		Te.Fatal(err)
	}
	if e.Symbol != "C" {
		Te.Errorf("Z=6 resolved to %s", e.Symbol)
	}
	_, err = Lookup("Xx")
	var nae *NotAnElementError
	if !errors.As(err, &nae) {
		Te.Errorf("bogus symbol gave %v, wanted NotAnElementError", err)
	}
	if nae.Identifier() != "Xx" {
		Te.Errorf("error carries identifier %q", nae.Identifier())
	}
}

func TestIsotopes(Te *testing.T) {
	iso, err := LookupIsotope("O", 18)
	if err != nil {
		Te.Fatal(err)
	}
	if iso.Mass < 17.99 || iso.Mass > 18.00 {
		Te.Errorf("O18 mass %f", iso.Mass)
	}
	iso, err = MostCommonIsotope("Cl")
	if err != nil {
		Te.Fatal(err)
	}
	if iso.A != 35 {
		Te.Errorf("most common Cl nuclide A=%d", iso.A)
	}
	//Element with no tabulated nuclides gets a synthesized one.
	iso, err = MostCommonIsotope("W")
	if err != nil {
		Te.Fatal(err)
	}
	if iso.A != 184 {
		Te.Errorf("synthesized W nuclide A=%d", iso.A)
	}
	for _, label := range []string{"O18", "18O"} {
		iso, err = IsotopeFromLabel(label)
		if err != nil {
			Te.Fatal(err)
		}
		if iso.A != 18 || iso.Symbol != "O" {
			Te.Errorf("label %q resolved to %v", label, iso)
		}
	}
	_, err = LookupIsotope("O", 99)
	var nae *NotAnElementError
	if !errors.As(err, &nae) {
		Te.Errorf("bogus nuclide gave %v, wanted NotAnElementError", err)
	}
}
