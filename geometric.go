/*
 * geometric.go, part of molrec.
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

	"github.com/rmera/molrec/v3"
	"gonum.org/v1/gonum/mat"
)

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Distance returns the distance between the first vecs of a and b, in
//whatever unit the coordinates are in.
func Distance(a, b *v3.Matrix) float64 {
	d := 0.0
	for i := 0; i < 3; i++ {
		v := a.At(0, i) - b.At(0, i)
		d += v * v
	}
	return math.Sqrt(d)
}

//Angle returns the angle a-b-c in degrees, with b the vertex. The
//cosine is clamped to [-1,1] so nearly collinear points never produce
//a NaN.
func Angle(a, b, c *v3.Matrix) float64 {
	u := v3.Zeros(1)
	w := v3.Zeros(1)
	u.SubVec(a, b)
	w.SubVec(c, b)
	cos := u.Dot(w) / (math.Sqrt(u.Dot(u)) * math.Sqrt(w.Dot(w)))
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * Rad2Deg
}

//Dihedral returns the signed dihedral a-b-c-d in degrees, following
//the atan2 convention so the sign distinguishes the two enantiomeric
//arrangements.
func Dihedral(a, b, c, d *v3.Matrix) float64 {
	u1 := v3.Zeros(1)
	u2 := v3.Zeros(1)
	u3 := v3.Zeros(1)
	u1.SubVec(b, a)
	u2.SubVec(c, b)
	u3.SubVec(d, c)
	c23 := v3.Zeros(1)
	c23.Cross(u2, u3)
	c12 := v3.Zeros(1)
	c12.Cross(u1, u2)
	n2 := math.Sqrt(u2.Dot(u2))
	y := n2 * u1.Dot(c23)
	x := c12.Dot(c23)
	return math.Atan2(y, x) * Rad2Deg
}

//MeasureCoordinates dispatches on the number of indices: two give a
//distance (in the unit of coords), three an angle and four a signed
//dihedral (both in degrees). Any other arity, or an index out of
//range, is an error.
func MeasureCoordinates(coords *v3.Matrix, idx ...int) (float64, error) {
	n := coords.NVecs()
	for _, i := range idx {
		if i < 0 || i >= n {
			return 0, validationError(KindShape, "measure index %d out of range for %d atoms", i, n)
		}
	}
	switch len(idx) {
	case 2:
		return Distance(coords.VecView(idx[0]), coords.VecView(idx[1])), nil
	case 3:
		return Angle(coords.VecView(idx[0]), coords.VecView(idx[1]), coords.VecView(idx[2])), nil
	case 4:
		return Dihedral(coords.VecView(idx[0]), coords.VecView(idx[1]), coords.VecView(idx[2]), coords.VecView(idx[3])), nil
	}
	return 0, validationError(KindShape, "measure takes 2, 3 or 4 indices, got %d", len(idx))
}

//DistanceMatrix returns the full pairwise distance matrix of coords.
func DistanceMatrix(coords *v3.Matrix) *mat.Dense {
	n := coords.NVecs()
	D := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := Distance(coords.VecView(i), coords.VecView(j))
			D.Set(i, j, d)
			D.Set(j, i, d)
		}
	}
	return D
}

//CenterOfMass returns the mass-weighted center of coords. A nil masses
//slice weights every atom alike.
func CenterOfMass(coords *v3.Matrix, masses []float64) (*v3.Matrix, error) {
	n := coords.NVecs()
	if n == 0 {
		return v3.Zeros(1), nil
	}
	if masses != nil && len(masses) != n {
		return nil, validationError(KindShape, "%d masses for %d atoms", len(masses), n)
	}
	com := v3.Zeros(1)
	tot := 0.0
	for i := 0; i < n; i++ {
		m := 1.0
		if masses != nil {
			m = masses[i]
		}
		tot += m
		for j := 0; j < 3; j++ {
			com.Set(0, j, com.At(0, j)+m*coords.At(i, j))
		}
	}
	if tot <= appzero {
		return nil, validationError(KindShape, "total mass is zero")
	}
	com.Scale(1.0/tot, com)
	return com, nil
}

//MassCentrate puts in out the coordinates of in translated so their
//mass-weighted center sits at the origin, and returns the center it
//removed. out and in may be the same matrix.
func MassCentrate(out, in *v3.Matrix, masses []float64) (*v3.Matrix, error) {
	com, err := CenterOfMass(in, masses)
	if err != nil {
		return nil, errDecorate(err, "MassCentrate")
	}
	out.SubVec(in, com)
	return com, nil
}

//InertiaTensor builds the moment of inertia tensor of coords with the
//given masses.
func InertiaTensor(coords *v3.Matrix, masses []float64) *mat.SymDense {
	T := mat.NewSymDense(3, nil)
	for i := 0; i < coords.NVecs(); i++ {
		m := masses[i]
		x := coords.At(i, 0)
		y := coords.At(i, 1)
		z := coords.At(i, 2)
		T.SetSym(0, 0, T.At(0, 0)+m*(y*y+z*z))
		T.SetSym(1, 1, T.At(1, 1)+m*(x*x+z*z))
		T.SetSym(2, 2, T.At(2, 2)+m*(x*x+y*y))
		T.SetSym(0, 1, T.At(0, 1)-m*x*y)
		T.SetSym(0, 2, T.At(0, 2)-m*x*z)
		T.SetSym(1, 2, T.At(1, 2)-m*y*z)
	}
	return T
}

//orientToPrincipalAxes rotates coords, in place, onto the principal
//axes of its inertia tensor and fixes the phase of each axis so the
//result is deterministic: the first coordinate of each column with
//absolute value above the noise floor is made positive. Assumes the
//center of mass has already been removed. Single atoms and the empty
//molecule are left alone.
func orientToPrincipalAxes(coords *v3.Matrix, masses []float64) error {
	n := coords.NVecs()
	if n < 2 {
		return nil
	}
	T := InertiaTensor(coords, masses)
	var eig mat.EigenSym
	if ok := eig.Factorize(T, true); !ok {
		return validationError(KindGeometry, "inertia tensor eigendecomposition failed")
	}
	var evecs mat.Dense
	eig.VectorsTo(&evecs)
	rotated := v3.Zeros(n)
	rotated.Mul(coords, &evecs)
	const phaseNoise = 1e-8
	for j := 0; j < 3; j++ {
		for i := 0; i < n; i++ {
			v := rotated.At(i, j)
			if math.Abs(v) <= phaseNoise {
				continue
			}
			if v < 0 {
				for k := 0; k < n; k++ {
					rotated.Set(k, j, -rotated.At(k, j))
				}
			}
			break
		}
	}
	coords.Dense.Copy(rotated.Dense)
	return nil
}
