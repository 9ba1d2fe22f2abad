package analysis

// gridCell locates x on an ascending grid. It returns the lower index of the
// bracketing cell and the fractional position inside it. Values outside the
// grid are clamped to the edge cell (fraction 0 or 1), so nothing is
// extrapolated.
func gridCell(grid []float64, x float64) (int, float64) {
	n := len(grid)
	switch {
	case n < 2:
		return 0, 0
	case x <= grid[0]:
		return 0, 0
	case x >= grid[n-1]:
		return n - 2, 1
	}

	// Binary search for the bracketing pair
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if grid[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}

	span := grid[hi] - grid[lo]
	if span == 0 {
		return lo, 0
	}
	return lo, (x - grid[lo]) / span
}

// bilinearInterp evaluates surface[i][j] (i along xs, j along ys) at (x, y)
// with 4-corner bilinear interpolation. ok is false when the surface does not
// match the grids.
func bilinearInterp(xs, ys []float64, surface [][]float64, x, y float64) (float64, bool) {
	if len(xs) < 2 || len(ys) < 2 || len(surface) != len(xs) {
		return 0, false
	}
	for _, row := range surface {
		if len(row) != len(ys) {
			return 0, false
		}
	}

	i, fx := gridCell(xs, x)
	j, fy := gridCell(ys, y)

	v00 := surface[i][j]
	v10 := surface[i+1][j]
	v01 := surface[i][j+1]
	v11 := surface[i+1][j+1]

	return v00*(1-fx)*(1-fy) +
		v10*fx*(1-fy) +
		v01*(1-fx)*fy +
		v11*fx*fy, true
}

// nearestIndex returns the index of the grid value closest to x. Ties go to
// the lower index. Returns -1 for an empty grid.
func nearestIndex(grid []float64, x float64) int {
	best := -1
	bestDelta := 0.0
	for i, g := range grid {
		delta := g - x
		if delta < 0 {
			delta = -delta
		}
		if best < 0 || delta < bestDelta {
			best, bestDelta = i, delta
		}
	}
	return best
}
