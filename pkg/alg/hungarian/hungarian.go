// Package hungarian implements the Kuhn-Munkres algorithm for the
// assignment problem: given an n x m weight matrix, find a one-to-one
// assignment of rows to columns maximizing total weight.
//
// No example repository in the reference pack ships a real
// assignment-algorithm library, so this package is self-contained, in
// the same spirit as the other leaf packages under pkg/alg.
package hungarian

import "math"

// Solve finds a maximum-weight assignment over cost, a rectangular
// weight matrix indexed [row][col]. It returns, for each row, the index
// of the column it was assigned to, or -1 if the row was left
// unassigned (happens when there are fewer columns than rows). Rows and
// columns beyond the smaller dimension are never assigned.
//
// Solve runs the classical O(n^3) Kuhn-Munkres algorithm on a square
// matrix padded with zero-weight dummy rows/columns, then strips the
// padding from the result. Zero-weight assignments to dummy rows/columns
// are reported as unassigned (-1), never as a real pairing.
func Solve(cost [][]float64) []int {
	rows := len(cost)
	if rows == 0 {
		return nil
	}

	cols := len(cost[0])
	n := rows
	if cols > n {
		n = cols
	}

	// Kuhn-Munkres is classically phrased as a minimization; negate to
	// turn "find max weight" into "find min cost", with a padded square
	// matrix so the algorithm's row/col-covering step is well-defined.
	squared := make([][]float64, n)
	maxWeight := 0.0

	for i := range rows {
		for j := range cols {
			if w := cost[i][j]; w > maxWeight {
				maxWeight = w
			}
		}
	}

	for i := range n {
		squared[i] = make([]float64, n)

		for j := range n {
			if i < rows && j < cols {
				squared[i][j] = maxWeight - cost[i][j]
			} else {
				squared[i][j] = maxWeight
			}
		}
	}

	colForRow := minCostAssignment(squared, n)

	result := make([]int, rows)

	for i := range rows {
		result[i] = -1

		j := colForRow[i]
		if j >= 0 && j < cols && cost[i][j] > 0 {
			result[i] = j
		}
	}

	return result
}

// minCostAssignment solves the square minimum-cost assignment problem
// with the Hungarian algorithm's potential/augmenting-path formulation.
// It returns, for each row, the assigned column.
func minCostAssignment(cost [][]float64, n int) []int {
	const inf = math.MaxFloat64 / 2

	u := make([]float64, n+1)
	v := make([]float64, n+1)
	p := make([]int, n+1) // p[col] = row assigned to col, 1-indexed rows
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
			j1 := -1

			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}

				cur := cost[i0-1][j-1] - u[i0] - v[j]
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

	colForRow := make([]int, n)

	for j := 1; j <= n; j++ {
		if p[j] != 0 {
			colForRow[p[j]-1] = j - 1
		}
	}

	return colForRow
}
