/*
 * gonum.go, part of molrec.
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

//Package v3 implements matrices of 3D vectors (Nx3 matrices) on top of
//gonum's mat.Dense, plus the handful of operations on them that the rest
//of molrec needs. Within the package a "vector" is a row of the matrix,
//the cartesian coordinates of one point in 3D space.

package v3

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

//Matrix is a set of vectors in 3D space, backed by a gonum Dense.
type Matrix struct {
	*mat.Dense
}

func Matrix2Dense(A *Matrix) *mat.Dense {
	return A.Dense
}

func Dense2Matrix(A *mat.Dense) *Matrix {
	r, c := A.Dims()
	if c != 3 {
		panic(not3xXMatrix)
	}
	_ = r
	return &Matrix{A}
}

//NewMatrix generates and returns a Matrix with 3 columns from data.
func NewMatrix(data []float64) (*Matrix, error) {
	const cols int = 3
	l := len(data)
	rows := l / cols
	if l%cols != 0 {
		return nil, Error{fmt.Sprintf("Input slice length %d not divisible by %d", l, cols), []string{"NewMatrix"}, true}
	}
	d := make([]float64, l)
	copy(d, data)
	return &Matrix{mat.NewDense(rows, cols, d)}, nil
}

//Zeros returns a zero-filled Matrix with vecs vectors and 3 in the other dimension.
func Zeros(vecs int) *Matrix {
	const cols int = 3
	return &Matrix{mat.NewDense(vecs, cols, make([]float64, cols*vecs))}
}

//VecView returns a view of the given vector of the matrix.
func (F *Matrix) VecView(i int) *Matrix {
	r := F.Dense.Slice(i, i+1, 0, 3).(*mat.Dense)
	return &Matrix{r}
}

//View returns a view of F starting from i,j and spanning r rows and
//c columns. Changes in the view are reflected in F and vice-versa.
func (F *Matrix) View(i, j, r, c int) *Matrix {
	ret := F.Dense.Slice(i, i+r, j, j+c).(*mat.Dense)
	return &Matrix{ret}
}

//Mul wraps mat.Mul to take care of the case when one of the arguments
//is also the receiver. The gonum overlap check compares the receiver's
//Dense against the argument, so a *Matrix argument has to be unwrapped
//first.
func (F *Matrix) Mul(A, B mat.Matrix) {
	if a, ok := A.(*Matrix); ok {
		A = a.Dense
	}
	if b, ok := B.(*Matrix); ok {
		B = b.Dense
	}
	F.Dense.Mul(A, B)
}

//NVecs returns the number of vecs in F.
func (F *Matrix) NVecs() int {
	r, c := F.Dims()
	if c != 3 {
		panic(not3xXMatrix)
	}
	return r
}

//Norm returns the Frobenius norm of F.
func (F *Matrix) Norm() float64 {
	return mat.Norm(F.Dense, 2)
}

//Dot returns the dot product of the first vecs of F and A.
func (F *Matrix) Dot(A *Matrix) float64 {
	if F.NVecs() < 1 || A.NVecs() < 1 {
		panic(not3xXMatrix)
	}
	d := 0.0
	for i := 0; i < 3; i++ {
		d += F.At(0, i) * A.At(0, i)
	}
	return d
}

//Copy returns a fresh Matrix with the same contents as F.
func (F *Matrix) CopyTo() *Matrix {
	r := Zeros(F.NVecs())
	r.Dense.Copy(F.Dense)
	return r
}

const appzero float64 = 0.000000000001 //used to correct floating point
//errors. Everything equal or less than this is considered zero.

//Unit puts a normalized copy of A in the receiver.
func (F *Matrix) Unit(A *Matrix) {
	if A.Dense != F.Dense {
		F.Dense.Copy(A.Dense)
	}
	n := math.Sqrt(F.Dot(F))
	if n <= appzero {
		panic(PanicMsg("attempt to normalize a zero vector"))
	}
	F.Scale(1.0/n, F.Dense)
}

//Scale wraps mat.Scale unwrapping Matrix arguments.
func (F *Matrix) Scale(v float64, A mat.Matrix) {
	if a, ok := A.(*Matrix); ok {
		A = a.Dense
	}
	F.Dense.Scale(v, A)
}

const not3xXMatrix = PanicMsg("Matrix must have 3 columns")

//Error is the v3 implementation of the molrec Error interface.
type Error struct {
	message  string
	deco     []string
	critical bool
}

func (err Error) Error() string { return err.message }

//Decorate will add the dec string to the decoration slice of strings of the error,
//and return the resulting slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err Error) Critical() bool { return err.critical }

//PanicMsg is the type used for the text of the panics raised by shape
//mismatches in this package.
type PanicMsg string

func (v PanicMsg) Error() string { return string(v) }
