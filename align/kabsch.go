/*
 * kabsch.go, part of molrec.
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

	"github.com/rmera/molrec/v3"
	"gonum.org/v1/gonum/mat"
)

//Kabsch returns the proper rotation U that best superimposes P onto Q
//in the least squares sense, via the quaternion formulation (largest
//eigenvector of Horn's 4x4 key matrix). Both matrices hold row
//vectors, assumed already centered, and U applies on the right:
//P·U ~ Q. Identical inputs short-circuit to the identity.
func Kabsch(P, Q *v3.Matrix) (*mat.Dense, error) {
	n := P.NVecs()
	if Q.NVecs() != n {
		return nil, Error{message: errMismatchedGeoms, deco: []string{"Kabsch"}}
	}
	ident := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	if n == 0 {
		return ident, nil
	}
	if mat.EqualApprox(P.Dense, Q.Dense, 1e-12) {
		return ident, nil
	}
	var C mat.Dense //C_ab = sum_i P[i,a]*Q[i,b]
	C.Mul(P.Dense.T(), Q.Dense)
	s := func(i, j int) float64 { return C.At(i-1, j-1) }
	F := mat.NewSymDense(4, []float64{
		s(1, 1) + s(2, 2) + s(3, 3), s(2, 3) - s(3, 2), s(3, 1) - s(1, 3), s(1, 2) - s(2, 1),
		s(2, 3) - s(3, 2), s(1, 1) - s(2, 2) - s(3, 3), s(1, 2) + s(2, 1), s(3, 1) + s(1, 3),
		s(3, 1) - s(1, 3), s(1, 2) + s(2, 1), -s(1, 1) + s(2, 2) - s(3, 3), s(2, 3) + s(3, 2),
		s(1, 2) - s(2, 1), s(3, 1) + s(1, 3), s(2, 3) + s(3, 2), -s(1, 1) - s(2, 2) + s(3, 3),
	})
	var eig mat.EigenSym
	if ok := eig.Factorize(F, true); !ok {
		return nil, Error{message: errEigenFailed, deco: []string{"Kabsch"}}
	}
	var evecs mat.Dense
	eig.VectorsTo(&evecs)
	//eigenvalues come out ascending, the optimum is the last one
	w := evecs.At(0, 3)
	x := evecs.At(1, 3)
	y := evecs.At(2, 3)
	z := evecs.At(3, 3)
	//R(q) rotates a column vector of P onto Q; transposed, it applies
	//on the right of row vectors.
	R := mat.NewDense(3, 3, []float64{
		w*w + x*x - y*y - z*z, 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), w*w - x*x + y*y - z*z, 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), w*w - x*x - y*y + z*z,
	})
	U := mat.NewDense(3, 3, nil)
	U.CloneFrom(R.T())
	return U, nil
}

//KabschAlign centers P and Q on their centroids, rotates P onto Q and
//returns the aligned copy of P (in Q's frame), the rotation and the
//RMSD.
func KabschAlign(P, Q *v3.Matrix) (*v3.Matrix, *mat.Dense, float64, error) {
	n := P.NVecs()
	if Q.NVecs() != n {
		return nil, nil, 0, Error{message: errMismatchedGeoms, deco: []string{"KabschAlign"}}
	}
	pc, qc := centroid(P), centroid(Q)
	cp := P.CopyTo()
	cq := Q.CopyTo()
	cp.SubVec(cp, pc)
	cq.SubVec(cq, qc)
	U, err := Kabsch(cp, cq)
	if err != nil {
		return nil, nil, 0, err
	}
	aligned := v3.Zeros(n)
	aligned.Mul(cp, U)
	rmsd := rmsdBetween(aligned, cq)
	aligned.AddVec(aligned, qc)
	return aligned, U, rmsd, nil
}

func centroid(A *v3.Matrix) *v3.Matrix {
	c := v3.Zeros(1)
	n := A.NVecs()
	if n == 0 {
		return c
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			c.Set(0, j, c.At(0, j)+A.At(i, j))
		}
	}
	c.Scale(1.0/float64(n), c)
	return c
}

func rmsdBetween(A, B *v3.Matrix) float64 {
	n := A.NVecs()
	if n == 0 {
		return 0
	}
	s := 0.0
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			d := A.At(i, j) - B.At(i, j)
			s += d * d
		}
	}
	return math.Sqrt(s / float64(n))
}

//RandomRotation returns a uniformly random rotation matrix by Arvo's
//method. deflection in (0,1] scales how far from the identity the
//rotation may wander; 1 covers the whole rotation group.
func RandomRotation(rnd *rand.Rand, deflection float64) *mat.Dense {
	theta := 2 * math.Pi * rnd.Float64() * deflection
	phi := 2 * math.Pi * rnd.Float64()
	z := rnd.Float64() * deflection
	ct, st := math.Cos(theta), math.Sin(theta)
	Rz := mat.NewDense(3, 3, []float64{ct, st, 0, -st, ct, 0, 0, 0, 1})
	sz := math.Sqrt(z)
	v := []float64{math.Cos(phi) * sz, math.Sin(phi) * sz, math.Sqrt(1 - z)}
	H := mat.NewDense(3, 3, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			h := -2 * v[i] * v[j]
			if i == j {
				h += 1
			}
			H.Set(i, j, h)
		}
	}
	M := mat.NewDense(3, 3, nil)
	M.Mul(H, Rz)
	M.Scale(-1, M)
	return M
}
