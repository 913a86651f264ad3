/*
 * align.go, part of molrec.
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

//Package align superimposes molecules in 3D: optimal rotations by the
//Kabsch/Horn quaternion method, atom correspondence by the Hungarian
//algorithm within (element, mass) classes, and optional reflection, so
//two orderings of the same physical structure can be brought on top of
//each other.
package align

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"

	"github.com/rmera/molrec"
	"github.com/rmera/molrec/v3"
	"gonum.org/v1/gonum/mat"
)

const (
	errNotSquare       = "cost matrix is not square"
	errMismatchedGeoms = "geometries differ in size"
	errEigenFailed     = "eigendecomposition failed"
	errComposition     = "molecules differ in composition"
)

//Error is the align implementation of the molrec Error interface.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string { return "molrec/align: " + err.message }

//Decorate adds the dec string to the decoration slice of strings of
//the error, and returns the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

//Options contains the knobs for Molecules.
type Options struct {
	Mirror  bool    //also try the reflected candidate and keep the better
	Tol     float64 //stop iterating when the RMSD improves by less than this (bohr)
	MaxIter int
	Seeds   int     //how many alternative starting correspondences to try
	UnoTol  float64 //cost slack when enumerating tied correspondences
	Verbose bool
}

//DefaultOptions returns reasonable options for molecules of up to a
//few hundred atoms.
func DefaultOptions() *Options {
	r := new(Options)
	r.Mirror = false
	r.Tol = 1e-10
	r.MaxIter = 50
	r.Seeds = 4
	r.UnoTol = 1e-6
	return r
}

//Mill is the recipe that carries one geometry onto another: reflect
//(y sign flip), rotate, translate, permute, applied in that order.
type Mill struct {
	Shift    *v3.Matrix //1x3
	Rotation *mat.Dense //3x3, applies on the right of row vectors
	Atommap  []int      //output position k takes input atom Atommap[k]
	Mirror   bool
}

//AlignCoordinates applies the mill to geom and returns the result.
func (L *Mill) AlignCoordinates(geom *v3.Matrix) *v3.Matrix {
	n := geom.NVecs()
	tmp := geom.CopyTo()
	if L.Mirror {
		flipY(tmp)
	}
	if L.Rotation != nil {
		r := v3.Zeros(n)
		r.Mul(tmp, L.Rotation)
		tmp = r
	}
	if L.Shift != nil {
		tmp.AddVec(tmp, L.Shift)
	}
	if L.Atommap == nil {
		return tmp
	}
	out := v3.Zeros(n)
	out.SomeVecs(tmp, L.Atommap)
	return out
}

func flipY(A *v3.Matrix) {
	for i := 0; i < A.NVecs(); i++ {
		A.Set(i, 1, -A.At(i, 1))
	}
}

//Info reports how an alignment went.
type Info struct {
	RMSD            float64 //bohr
	MaxDisplacement float64 //bohr
	Iterations      int
	Mill            *Mill
}

//atomClass keys an atom by everything correspondence must preserve.
func atomClass(R *molrec.Record, i int) string {
	return fmt.Sprintf("%s:%.6f:%t", R.Symbols[i], R.Masses[i], R.Real[i])
}

//Molecules brings concern onto ref: finds the atom correspondence
//(within classes of equal element, mass and ghost status; fragment
//membership does not constrain it), the rotation, the translation and
//optionally the reflection that minimize the RMSD, and returns the
//aligned copy of concern with all its per-atom fields permuted
//consistently, together with the Info describing the transformation.
func Molecules(concern, ref *molrec.Molecule, o *Options) (*molrec.Molecule, *Info, error) {
	if o == nil {
		o = DefaultOptions()
	}
	rc := ref.Record()
	cc := concern.Record()
	n := rc.NAtoms()
	if cc.NAtoms() != n {
		return nil, nil, Error{message: errMismatchedGeoms, deco: []string{"Molecules"}}
	}
	if n == 0 {
		return concern.Copy(), &Info{Mill: &Mill{}}, nil
	}
	classes, err := classIndices(rc, cc)
	if err != nil {
		return nil, nil, err
	}
	rshift := centroid(rc.Geometry)
	cshift := centroid(cc.Geometry)
	rcent := rc.Geometry.CopyTo()
	rcent.SubVec(rcent, rshift)
	ccent := cc.Geometry.CopyTo()
	ccent.SubVec(ccent, cshift)
	sigCost := seedCosts(rcent, ccent, classes)
	candidates := []bool{false}
	if o.Mirror {
		candidates = append(candidates, true)
	}
	var best *alignResult
	for _, mirror := range candidates {
		cm := ccent.CopyTo()
		if mirror {
			flipY(cm)
		}
		for _, seed := range seedMaps(sigCost, classes, n, o) {
			res, err := iterate(cm, rcent, classes, seed, o)
			if err != nil {
				return nil, nil, err
			}
			res.mirror = mirror
			if best == nil || res.rmsd < best.rmsd {
				best = res
			}
			if o.Verbose {
				fmt.Fprintf(os.Stderr, "align: mirror=%v rmsd=%.6g iters=%d\n", mirror, res.rmsd, res.iters)
			}
		}
	}
	//net translation for original, uncentered coordinates
	t := v3.Zeros(1)
	cs := cshift.CopyTo()
	if best.mirror {
		flipY(cs)
	}
	t.Mul(cs, best.rotation)
	shift := v3.Zeros(1)
	shift.SubVec(rshift, t)
	mill := &Mill{Shift: shift, Rotation: best.rotation, Atommap: best.amap, Mirror: best.mirror}
	aligned, err := applyToRecord(cc, mill, "align.Molecules")
	if err != nil {
		return nil, nil, err
	}
	info := &Info{RMSD: best.rmsd, MaxDisplacement: best.maxDisp, Iterations: best.iters, Mill: mill}
	return aligned, info, nil
}

type classPair struct {
	key  string
	ref  []int
	con  []int
}

func classIndices(rc, cc *molrec.Record) ([]classPair, error) {
	byKey := map[string]*classPair{}
	order := []string{}
	for i := 0; i < rc.NAtoms(); i++ {
		k := atomClass(rc, i)
		if byKey[k] == nil {
			byKey[k] = &classPair{key: k}
			order = append(order, k)
		}
		byKey[k].ref = append(byKey[k].ref, i)
	}
	for i := 0; i < cc.NAtoms(); i++ {
		k := atomClass(cc, i)
		if byKey[k] == nil {
			return nil, Error{message: fmt.Sprintf("%s: %s only in one molecule", errComposition, k)}
		}
		byKey[k].con = append(byKey[k].con, i)
	}
	out := make([]classPair, 0, len(order))
	for _, k := range order {
		c := byKey[k]
		if len(c.ref) != len(c.con) {
			return nil, Error{message: fmt.Sprintf("%s: %d vs %d atoms of %s", errComposition, len(c.ref), len(c.con), c.key)}
		}
		out = append(out, *c)
	}
	return out, nil
}

//seedCosts builds, per class, a rotation-invariant cost between
//concern and ref atoms: the squared difference of their sorted
//distance-to-everything signatures. A reflection leaves distances
//alone, so one set of costs serves both candidates.
func seedCosts(rcent, ccent *v3.Matrix, classes []classPair) []*mat.Dense {
	rsig := sortedDistances(rcent)
	csig := sortedDistances(ccent)
	out := make([]*mat.Dense, len(classes))
	for ci, c := range classes {
		k := len(c.con)
		cost := mat.NewDense(k, k, nil)
		for a, i := range c.con {
			for b, j := range c.ref {
				s := 0.0
				for d := range csig[i] {
					v := csig[i][d] - rsig[j][d]
					s += v * v
				}
				cost.Set(a, b, s)
			}
		}
		out[ci] = cost
	}
	return out
}

func sortedDistances(A *v3.Matrix) [][]float64 {
	n := A.NVecs()
	D := molrec.DistanceMatrix(A)
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		row := make([]float64, n)
		mat.Row(row, i, D)
		sort.Float64s(row)
		out[i] = row
	}
	return out
}

//seedMaps turns the per-class seed costs into full starting atom maps:
//the Hungarian optimum first, then variants that swap in tied
//assignments of one class at a time, Uno-enumerated, until o.Seeds
//maps are collected.
func seedMaps(sigCost []*mat.Dense, classes []classPair, n int, o *Options) [][]int {
	primary := make([]int, n) //amap: ref position -> concern atom
	perClass := make([][]int, len(classes))
	for ci, c := range classes {
		perm, _, err := LinearSumAssignment(sigCost[ci])
		if err != nil {
			//class costs are square by construction
			panic(err)
		}
		perClass[ci] = perm
		for a, b := range perm {
			primary[c.ref[b]] = c.con[a]
		}
	}
	maps := [][]int{primary}
	for ci, c := range classes {
		if len(maps) >= o.Seeds {
			break
		}
		if len(c.con) < 2 {
			continue
		}
		alts := Uno(sigCost[ci], perClass[ci], o.UnoTol, o.Seeds)
		for _, alt := range alts {
			if samePerm(alt, perClass[ci]) {
				continue
			}
			m := append([]int{}, primary...)
			for a, b := range alt {
				m[c.ref[b]] = c.con[a]
			}
			maps = append(maps, m)
			if len(maps) >= o.Seeds {
				break
			}
		}
	}
	return maps
}

func samePerm(a, b []int) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type alignResult struct {
	rotation *mat.Dense
	amap     []int
	rmsd     float64
	maxDisp  float64
	iters    int
	mirror   bool
}

//iterate alternates Kabsch on the current correspondence with a
//Hungarian reassignment on actual distances, until the RMSD stops
//improving.
func iterate(cm, rcent *v3.Matrix, classes []classPair, amap []int, o *Options) (*alignResult, error) {
	n := cm.NVecs()
	amap = append([]int{}, amap...)
	last := math.Inf(1)
	res := &alignResult{}
	for it := 0; it < o.MaxIter; it++ {
		res.iters = it + 1
		ordered := v3.Zeros(n)
		ordered.SomeVecs(cm, amap)
		U, err := Kabsch(ordered, rcent)
		if err != nil {
			return nil, err
		}
		rotated := v3.Zeros(n)
		rotated.Mul(cm, U)
		for _, c := range classes {
			k := len(c.con)
			cost := mat.NewDense(k, k, nil)
			for a, i := range c.con {
				for b, j := range c.ref {
					s := 0.0
					for d := 0; d < 3; d++ {
						v := rotated.At(i, d) - rcent.At(j, d)
						s += v * v
					}
					cost.Set(a, b, s)
				}
			}
			perm, _, err := LinearSumAssignment(cost)
			if err != nil {
				return nil, err
			}
			for a, b := range perm {
				amap[c.ref[b]] = c.con[a]
			}
		}
		rmsd, maxd := matchedRMSD(rotated, rcent, amap)
		res.rotation = U
		res.amap = append([]int{}, amap...)
		res.rmsd = rmsd
		res.maxDisp = maxd
		if last-rmsd < o.Tol {
			break
		}
		last = rmsd
	}
	return res, nil
}

func matchedRMSD(rotated, rcent *v3.Matrix, amap []int) (float64, float64) {
	n := rcent.NVecs()
	s := 0.0
	maxd := 0.0
	for k := 0; k < n; k++ {
		d2 := 0.0
		for j := 0; j < 3; j++ {
			v := rotated.At(amap[k], j) - rcent.At(k, j)
			d2 += v * v
		}
		s += d2
		if d := math.Sqrt(d2); d > maxd {
			maxd = d
		}
	}
	return math.Sqrt(s / float64(n)), maxd
}

//applyToRecord builds the aligned record: the mill applied to the
//geometry, every per-atom field permuted alike, fragment membership
//renumbered. The frame it lands in is deliberate, so the Fix flags
//are set.
func applyToRecord(cc *molrec.Record, mill *Mill, routine string) (*molrec.Molecule, error) {
	rec := cc.Copy()
	rec.Geometry = mill.AlignCoordinates(cc.Geometry)
	n := cc.NAtoms()
	pos := make([]int, n) //new position of old atom a
	for k, a := range mill.Atommap {
		pos[a] = k
	}
	for k, a := range mill.Atommap {
		rec.Symbols[k] = cc.Symbols[a]
		rec.Masses[k] = cc.Masses[a]
		rec.MassNumbers[k] = cc.MassNumbers[a]
		rec.AtomicNumbers[k] = cc.AtomicNumbers[a]
		rec.Real[k] = cc.Real[a]
		rec.AtomLabels[k] = cc.AtomLabels[a]
	}
	for fi, f := range cc.Fragments {
		nf := make([]int, len(f))
		for i, a := range f {
			nf[i] = pos[a]
		}
		sort.Ints(nf)
		rec.Fragments[fi] = nf
	}
	for i, b := range cc.Connectivity {
		a1, a2 := pos[b.At1], pos[b.At2]
		if a1 > a2 {
			a1, a2 = a2, a1
		}
		rec.Connectivity[i] = molrec.Bond{At1: a1, At2: a2, Order: b.Order}
	}
	sort.Slice(rec.Connectivity, func(i, j int) bool {
		if rec.Connectivity[i].At1 != rec.Connectivity[j].At1 {
			return rec.Connectivity[i].At1 < rec.Connectivity[j].At1
		}
		return rec.Connectivity[i].At2 < rec.Connectivity[j].At2
	})
	rec.FixCom = true
	rec.FixOrientation = true
	rec.Provenance = molrec.Provenance{Creator: "molrec", Version: molrec.Version, Routine: routine}
	return molrec.New(rec, true)
}

//ScrambleOptions controls Scramble.
type ScrambleOptions struct {
	Deflection float64 //in (0,1], how large a random rotation
	DoShift    bool
	DoRotate   bool
	DoPermute  bool
	DoMirror   bool
	Seed       int64
}

//DefaultScrambleOptions shifts, rotates and permutes, with full
//deflection and no reflection.
func DefaultScrambleOptions() *ScrambleOptions {
	return &ScrambleOptions{Deflection: 1.0, DoShift: true, DoRotate: true, DoPermute: true, Seed: 1}
}

//Scramble returns a randomly displaced, rotated, permuted and
//optionally reflected copy of m, plus the Mill that produced it.
//Useful to exercise Molecules, which should undo the whole thing.
func Scramble(m *molrec.Molecule, o *ScrambleOptions) (*molrec.Molecule, *Mill, error) {
	if o == nil {
		o = DefaultScrambleOptions()
	}
	rnd := rand.New(rand.NewSource(o.Seed))
	n := m.NAtoms()
	mill := &Mill{Mirror: o.DoMirror}
	if o.DoRotate {
		mill.Rotation = RandomRotation(rnd, o.Deflection)
	}
	if o.DoShift {
		s := v3.Zeros(1)
		for j := 0; j < 3; j++ {
			s.Set(0, j, rnd.Float64()*6-3)
		}
		mill.Shift = s
	}
	if o.DoPermute {
		mill.Atommap = rnd.Perm(n)
	} else {
		mill.Atommap = make([]int, n)
		for i := range mill.Atommap {
			mill.Atommap[i] = i
		}
	}
	rec := m.Record()
	scrambled, err := applyToRecord(rec, mill, "align.Scramble")
	if err != nil {
		return nil, nil, err
	}
	return scrambled, mill, nil
}
