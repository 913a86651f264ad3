/*
 * parse.go, part of molrec.
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
	"strconv"
	"strings"
)

//ParseOptions controls ParseString. An empty Dialect tries every known
//dialect and keeps the parse that got furthest.
type ParseOptions struct {
	Dialect string //"psi4", "xyz", "xyz+" or "" for automatic
	Name    string
}

//DefaultParseOptions returns the options ParseString assumes when
//given nil.
func DefaultParseOptions() *ParseOptions {
	return &ParseOptions{}
}

//parsedText is what a dialect parser produces: either arrays ready for
//canonicalization or the name of a molecule to fetch from PubChem.
type parsedText struct {
	in      *ArrayInput
	pubchem string
}

//ParseString tokenizes text in one of the known dialects and returns
//the resulting arrays, ready for FromArrays, or the PubChem name the
//text asks for. Comments (# to end of line) are stripped first. With
//an automatic dialect, every parser is tried and a total failure
//reports the error of the dialect that consumed the most input.
func ParseString(text string, o *ParseOptions) (*ArrayInput, string, error) {
	if o == nil {
		o = DefaultParseOptions()
	}
	//psi4 treats # as a comment and blank lines as noise; in the xyz
	//family the second line is free text and must keep its position
	//even when empty
	psi4Lines := filterComments(text)
	xyzLines := rawLines(text)
	type dialectFn struct {
		name  string
		lines []string
		fn    func([]string) (*parsedText, int, error)
	}
	all := []dialectFn{
		{"psi4", psi4Lines, parsePsi4},
		{"xyz+", xyzLines, func(l []string) (*parsedText, int, error) { return parseXYZ(l, false) }},
		{"xyz", xyzLines, func(l []string) (*parsedText, int, error) { return parseXYZ(l, true) }},
	}
	var tried []dialectFn
	if o.Dialect != "" {
		for _, d := range all {
			if d.name == o.Dialect {
				tried = []dialectFn{d}
			}
		}
		if tried == nil {
			return nil, "", validationError(KindDialect, "unknown dialect %q", o.Dialect)
		}
	} else {
		tried = all
	}
	var best error
	bestConsumed := -1
	for _, d := range tried {
		p, consumed, err := d.fn(d.lines)
		if err == nil {
			if p.pubchem != "" {
				return nil, p.pubchem, nil
			}
			p.in.Name = o.Name
			return p.in, "", nil
		}
		if consumed > bestConsumed {
			bestConsumed = consumed
			best = err
		}
	}
	return nil, "", errDecorate(best, "ParseString")
}

//filterComments strips # comments, trims whitespace and drops the
//lines left empty.
func filterComments(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if i := strings.Index(l, "#"); i >= 0 {
			l = l[:i]
		}
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}

//rawLines splits text into lines with only trailing whitespace
//removed, dropping leading and trailing blank lines but keeping the
//interior ones.
func rawLines(text string) []string {
	raw := strings.Split(text, "\n")
	for i := range raw {
		raw[i] = strings.TrimRight(raw[i], " \t\r")
	}
	start, end := 0, len(raw)
	for start < end && raw[start] == "" {
		start++
	}
	for end > start && raw[end-1] == "" {
		end--
	}
	return raw[start:end]
}

//fields splits on whitespace and commas, psi4 style.
func fields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

//parsePsi4 handles the default dialect: directives (units, no_com,
//no_reorient, symmetry, pubchem:), fragment separators (--),
//per-fragment charge and multiplicity headers, and cartesian atom
//lines with the full nucleus token syntax.
func parsePsi4(lines []string) (*parsedText, int, error) {
	in := &ArrayInput{}
	var geometry []float64
	var symbols []string
	var fragments [][]int
	var fragCharges []*float64
	var fragMults []int
	curFrag := []int{}
	curChg := (*float64)(nil)
	curMult := 0
	nat := 0
	closeFragment := func() {
		fragments = append(fragments, curFrag)
		fragCharges = append(fragCharges, curChg)
		fragMults = append(fragMults, curMult)
		curFrag = []int{}
		curChg = nil
		curMult = 0
	}
	sawAnything := false
	for li, line := range lines {
		low := strings.ToLower(line)
		f := fields(line)
		switch {
		case strings.HasPrefix(low, "pubchem:"):
			//pubchem lines stand alone
			if sawAnything || li != len(lines)-1 {
				return nil, li, validationError(KindDialect, "pubchem: line mixed with other molecule input")
			}
			name := strings.TrimSpace(line[len("pubchem:"):])
			if name == "" {
				return nil, li, validationError(KindDialect, "pubchem: line with no compound name")
			}
			return &parsedText{pubchem: name}, li + 1, nil
		case low == "no_com" || low == "nocom":
			in.FixCom = true
		case low == "no_reorient" || low == "noreorient":
			in.FixOrientation = true
		case len(f) == 2 && strings.ToLower(f[0]) == "units":
			in.Units = normalizeUnits(f[1])
		case len(f) == 1 && strings.HasPrefix(low, "units="):
			in.Units = normalizeUnits(line[len("units="):])
		case len(f) == 2 && f[0] == "symmetry":
			in.FixSymmetry = strings.ToLower(f[1])
		case line == "--":
			if !sawAnything {
				return nil, li, validationError(KindDialect, "fragment separator before any content")
			}
			closeFragment()
		case len(f) == 2 && isInt(f[0]) && isInt(f[1]):
			if len(curFrag) > 0 {
				return nil, li, validationError(KindDialect, "charge and multiplicity line after the atoms of its fragment")
			}
			if curChg != nil {
				return nil, li, validationError(KindDialect, "second charge and multiplicity line in one fragment")
			}
			c, _ := strconv.Atoi(f[0])
			m, _ := strconv.Atoi(f[1])
			if m < 1 {
				return nil, li, validationError(KindChgmult, "multiplicity %d < 1", m)
			}
			curChg = Float64(float64(c))
			curMult = m
		case len(f) == 4:
			x, err1 := strconv.ParseFloat(f[1], 64)
			y, err2 := strconv.ParseFloat(f[2], 64)
			z, err3 := strconv.ParseFloat(f[3], 64)
			if err1 != nil || err2 != nil || err3 != nil {
				return nil, li, validationError(KindDialect, "line %q is not an atom line", line)
			}
			if _, err := ParseNucleusLabel(f[0]); err != nil {
				return nil, li, errDecorate(err, "parsePsi4")
			}
			symbols = append(symbols, f[0])
			geometry = append(geometry, x, y, z)
			curFrag = append(curFrag, nat)
			nat++
		default:
			return nil, li, validationError(KindDialect, "cannot understand line %q", line)
		}
		sawAnything = true
	}
	if nat == 0 {
		return nil, 0, validationError(KindDialect, "no atoms in input")
	}
	closeFragment()
	for fi, frag := range fragments {
		if len(frag) == 0 {
			return nil, len(lines), validationError(KindDialect, "fragment %d has no atoms", fi)
		}
	}
	in.Geometry = geometry
	in.Symbols = symbols
	in.Fragments = fragments
	in.FragmentCharges = fragCharges
	in.FragmentMultiplicities = fragMults
	in.Routine = "ParseString(psi4)"
	return &parsedText{in: in}, len(lines), nil
}

func normalizeUnits(u string) string {
	switch strings.ToLower(strings.TrimSpace(u)) {
	case "au", "bohr":
		return "bohr"
	case "ang", "angstrom", "angstroms":
		return "angstrom"
	}
	return u //FromArrays rejects it with a units error
}

//parseXYZ handles the xyz family. In the strict flavor the first line
//is exactly the atom count, the second a free comment, and each atom
//line a plain element symbol with three coordinates in angstrom. The
//extended flavor (xyz+) also takes charge and multiplicity on the
//count line, an "au"/"bohr" marker in the comment line, and the full
//nucleus token syntax.
func parseXYZ(lines []string, strict bool) (*parsedText, int, error) {
	if len(lines) < 2 {
		return nil, 0, validationError(KindDialect, "xyz input needs at least a count line and a comment line")
	}
	f := fields(lines[0])
	bad := len(f) != 1
	if !strict {
		bad = len(f) != 1 && len(f) != 3
	}
	if bad || !isInt(f[0]) {
		return nil, 0, validationError(KindDialect, "first xyz line %q is not an atom count", lines[0])
	}
	nat, _ := strconv.Atoi(f[0])
	in := &ArrayInput{Comment: lines[1]}
	if len(f) == 3 {
		if !isInt(f[1]) || !isInt(f[2]) {
			return nil, 0, validationError(KindDialect, "count line %q has a malformed charge or multiplicity", lines[0])
		}
		c, _ := strconv.Atoi(f[1])
		m, _ := strconv.Atoi(f[2])
		in.MolecularCharge = Float64(float64(c))
		in.MolecularMultiplicity = m
	}
	if !strict {
		cl := strings.ToLower(lines[1])
		for _, w := range fields(cl) {
			if w == "au" || w == "bohr" {
				in.Units = "bohr"
			}
		}
	}
	body := lines[2:]
	if len(body) != nat {
		return nil, 1, validationError(KindDialect, "xyz count line promises %d atoms but %d atom lines follow", nat, len(body))
	}
	for li, line := range body {
		f := fields(line)
		if len(f) != 4 {
			return nil, 2 + li, validationError(KindDialect, "xyz atom line %q does not have 4 fields", line)
		}
		lbl, err := ParseNucleusLabel(f[0])
		if err != nil {
			return nil, 2 + li, errDecorate(err, "parseXYZ")
		}
		if strict && (lbl.Label != "" || lbl.A > 0 || !lbl.Real || !math.IsNaN(lbl.Mass)) {
			return nil, 2 + li, validationError(KindDialect, "strict xyz does not take decorated atom token %q", f[0])
		}
		x, err1 := strconv.ParseFloat(f[1], 64)
		y, err2 := strconv.ParseFloat(f[2], 64)
		z, err3 := strconv.ParseFloat(f[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, 2 + li, validationError(KindDialect, "bad coordinates in xyz atom line %q", line)
		}
		in.Symbols = append(in.Symbols, f[0])
		in.Geometry = append(in.Geometry, x, y, z)
	}
	if strict {
		in.Routine = "ParseString(xyz)"
	} else {
		in.Routine = "ParseString(xyz+)"
	}
	return &parsedText{in: in}, len(lines), nil
}
