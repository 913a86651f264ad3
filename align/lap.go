/*
 * lap.go, part of molrec.
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

	"gonum.org/v1/gonum/mat"
)

//LinearSumAssignment solves the square assignment problem over cost by
//the Hungarian algorithm with potentials, in O(n^3). It returns
//perm, with perm[i] the column assigned to row i, and the total cost.
func LinearSumAssignment(cost *mat.Dense) ([]int, float64, error) {
	n, m := cost.Dims()
	if n != m {
		return nil, 0, Error{message: errNotSquare, deco: []string{"LinearSumAssignment"}}
	}
	if n == 0 {
		return []int{}, 0, nil
	}
	inf := math.Inf(1)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1)
	way := make([]int, n+1)
	for i := 1; i <= n; i++ {
		p[0] = i
		j0 := 0
		minv := make([]float64, n+1)
		used := make([]bool, n+1)
		for j := range minv {
			minv[j] = inf
		}
		for {
			used[j0] = true
			i0 := p[j0]
			delta := inf
			j1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost.At(i0-1, j-1) - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[p[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if p[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			p[j0] = p[j1]
			j0 = j1
		}
	}
	perm := make([]int, n)
	total := 0.0
	for j := 1; j <= n; j++ {
		perm[p[j]-1] = j - 1
		total += cost.At(p[j]-1, j-1)
	}
	return perm, total, nil
}

//Uno enumerates assignments whose total cost lies within tol of best's
//cost, best included, stopping at limit assignments. It is meant for
//the degenerate cost matrices that symmetric molecules produce, where
//several assignments tie for the optimum; for those, tol just above
//zero recovers every tied solution.
func Uno(cost *mat.Dense, best []int, tol float64, limit int) [][]int {
	n, _ := cost.Dims()
	if n == 0 || len(best) != n || limit < 1 {
		return nil
	}
	bound := 0.0
	for i, j := range best {
		bound += cost.At(i, j)
	}
	bound += tol
	//Row minima give an admissible bound on what the unassigned rows
	//can still cost.
	rowMin := make([]float64, n)
	for i := 0; i < n; i++ {
		m := math.Inf(1)
		for j := 0; j < n; j++ {
			if c := cost.At(i, j); c < m {
				m = c
			}
		}
		rowMin[i] = m
	}
	tailMin := make([]float64, n+1)
	for i := n - 1; i >= 0; i-- {
		tailMin[i] = tailMin[i+1] + rowMin[i]
	}
	var out [][]int
	used := make([]bool, n)
	cur := make([]int, n)
	var dfs func(row int, acc float64)
	dfs = func(row int, acc float64) {
		if len(out) >= limit {
			return
		}
		if row == n {
			out = append(out, append([]int{}, cur...))
			return
		}
		for j := 0; j < n && len(out) < limit; j++ {
			if used[j] {
				continue
			}
			c := acc + cost.At(row, j)
			if c+tailMin[row+1] > bound {
				continue
			}
			used[j] = true
			cur[row] = j
			dfs(row+1, c)
			used[j] = false
		}
	}
	dfs(0, 0)
	return out
}
