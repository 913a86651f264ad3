/*
 * align_test.go, part of molrec.
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

package align

import (
	"math"
	"math/rand"
	"testing"

	"github.com/rmera/molrec"
	v3 "github.com/rmera/molrec/v3"
	"gonum.org/v1/gonum/mat"
)

func waterMol(Te *testing.T) *molrec.Molecule {
	in := &molrec.ArrayInput{
		Symbols: []string{"O", "H", "H"},
		Geometry: []float64{
			0.0, 0.0, -0.1294,
			0.0, -1.4941, 1.0274,
			0.0, 1.4941, 1.0274,
		},
		Units: "bohr",
		Name:  "water",
	}
	mol, err := molrec.FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

//a bent, chiral-framed five-atom fragment so reflections are
//distinguishable from proper rotations.
func chiralMol(Te *testing.T) *molrec.Molecule {
	in := &molrec.ArrayInput{
		Symbols: []string{"C", "H", "F", "Cl", "Br"},
		Geometry: []float64{
			0.0, 0.0, 0.0,
			1.0, 1.0, 1.0,
			-1.3, 0.8, -0.2,
			0.4, -1.7, 0.6,
			0.5, 0.3, -2.1,
		},
		Units: "bohr",
	}
	mol, err := molrec.FromArraysMol(in)
	if err != nil {
		Te.Fatal(err)
	}
	return mol
}

func TestKabschRecovery(Te *testing.T) {
	P, err := v3.NewMatrix([]float64{
		0.1, 0.2, 0.3,
		1.5, -0.4, 0.9,
		-1.1, 0.7, -0.6,
		0.4, 1.3, -1.2,
	})
	if err != nil {
		Te.Fatal(err)
	}
	rnd := rand.New(rand.NewSource(42))
	G := RandomRotation(rnd, 1.0)
	Q := v3.Zeros(P.NVecs())
	Q.Mul(P, G)
	U, err := Kabsch(P, Q)
	if err != nil {
		Te.Fatal(err)
	}
	rot := v3.Zeros(P.NVecs())
	rot.Mul(P, U)
	if r := rmsdBetween(rot, Q); r > 1e-8 {
		Te.Errorf("rotation not recovered, rmsd %g", r)
	}
	//proper rotation only
	if d := mat.Det(U); math.Abs(d-1.0) > 1e-10 {
		Te.Errorf("determinant of the recovered rotation is %g", d)
	}
}

func TestKabschIdentity(Te *testing.T) {
	P, _ := v3.NewMatrix([]float64{0, 0, 0, 1, 0, 0, 0, 1, 0})
	U, err := Kabsch(P, P)
	if err != nil {
		Te.Fatal(err)
	}
	I := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	if !mat.EqualApprox(U, I, 1e-12) {
		Te.Errorf("self-alignment did not return the identity:\n%v", mat.Formatted(U))
	}
}

func TestKabschAlign(Te *testing.T) {
	P, _ := v3.NewMatrix([]float64{
		0.0, 0.0, 0.0,
		1.0, 0.0, 0.0,
		0.0, 1.0, 0.0,
		0.0, 0.0, 1.0,
	})
	rnd := rand.New(rand.NewSource(7))
	G := RandomRotation(rnd, 1.0)
	Q := v3.Zeros(P.NVecs())
	Q.Mul(P, G)
	shift, _ := v3.NewMatrix([]float64{3.0, -2.0, 5.0})
	Q.AddVec(Q, shift)
	aligned, _, rmsd, err := KabschAlign(P, Q)
	if err != nil {
		Te.Fatal(err)
	}
	if rmsd > 1e-8 {
		Te.Errorf("rigid displacement not removed, rmsd %g", rmsd)
	}
	if r := rmsdBetween(aligned, Q); r > 1e-8 {
		Te.Errorf("aligned copy off target, rmsd %g", r)
	}
}

func TestLinearSumAssignment(Te *testing.T) {
	cost := mat.NewDense(3, 3, []float64{
		4, 1, 3,
		2, 0, 5,
		3, 2, 2,
	})
	perm, total, err := LinearSumAssignment(cost)
	if err != nil {
		Te.Fatal(err)
	}
	want := []int{1, 0, 2}
	for i, v := range want {
		if perm[i] != v {
			Te.Fatalf("assignment %v, want %v", perm, want)
		}
	}
	if math.Abs(total-5.0) > 1e-12 {
		Te.Errorf("total cost %g, want 5", total)
	}
	_, _, err = LinearSumAssignment(mat.NewDense(2, 3, make([]float64, 6)))
	if err == nil {
		Te.Error("expected an error on a rectangular matrix")
	}
}

func TestUnoTies(Te *testing.T) {
	//identical rows, so every permutation of {0,1} costs the same
	cost := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 1,
	})
	best, _, err := LinearSumAssignment(cost)
	if err != nil {
		Te.Fatal(err)
	}
	alts := Uno(cost, best, 1e-9, 10)
	if len(alts) != 2 {
		Te.Fatalf("expected 2 tied assignments, got %d: %v", len(alts), alts)
	}
	//a matrix with a unique optimum yields only the optimum
	cost = mat.NewDense(2, 2, []float64{
		0, 10,
		10, 0,
	})
	best, _, _ = LinearSumAssignment(cost)
	alts = Uno(cost, best, 1e-9, 10)
	if len(alts) != 1 {
		Te.Errorf("expected a single assignment, got %v", alts)
	}
}

func TestSelfAlignment(Te *testing.T) {
	mol := waterMol(Te)
	_, info, err := Molecules(mol, mol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if info.RMSD > 1e-8 {
		Te.Errorf("self-alignment RMSD %g", info.RMSD)
	}
}

func TestScrambleRecovery(Te *testing.T) {
	mol := chiralMol(Te)
	scrambled, _, err := Scramble(mol, DefaultScrambleOptions())
	if err != nil {
		Te.Fatal(err)
	}
	aligned, info, err := Molecules(scrambled, mol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if info.RMSD > 1e-6 {
		Te.Fatalf("scramble not undone, RMSD %g", info.RMSD)
	}
	if !aligned.Compare(mol, 1e-6) {
		Te.Error("aligned record does not match the original")
	}
	//the mill alone must reproduce the aligned geometry
	got := info.Mill.AlignCoordinates(scrambled.Record().Geometry)
	want := aligned.Record().Geometry
	for i := 0; i < got.NVecs(); i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(got.At(i, j)-want.At(i, j)) > 1e-6 {
				Te.Fatalf("mill replay differs at (%d,%d): %g vs %g", i, j, got.At(i, j), want.At(i, j))
			}
		}
	}
}

func TestMirrorRecovery(Te *testing.T) {
	mol := chiralMol(Te)
	so := DefaultScrambleOptions()
	so.DoMirror = true
	so.Seed = 3
	scrambled, _, err := Scramble(mol, so)
	if err != nil {
		Te.Fatal(err)
	}
	//without Mirror the chiral frame cannot be brought back
	_, info, err := Molecules(scrambled, mol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if info.RMSD < 1e-3 {
		Te.Errorf("a reflection should not be recoverable by rotation alone, RMSD %g", info.RMSD)
	}
	o := DefaultOptions()
	o.Mirror = true
	_, info, err = Molecules(scrambled, mol, o)
	if err != nil {
		Te.Fatal(err)
	}
	if info.RMSD > 1e-6 {
		Te.Errorf("mirror candidate did not recover the frame, RMSD %g", info.RMSD)
	}
	if !info.Mill.Mirror {
		Te.Error("winning mill should record the reflection")
	}
}

func TestCompositionMismatch(Te *testing.T) {
	water := waterMol(Te)
	other := chiralMol(Te)
	_, _, err := Molecules(water, other, nil)
	if err == nil {
		Te.Error("expected a composition error aligning different molecules")
	}
}
