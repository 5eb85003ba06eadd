package raster

import "math"

// BoxKernel returns a square kernel of side floor(1+2r) with every
// entry set to 1.
func BoxKernel(r float64) [][]float64 {
	s := int(math.Floor(1 + 2*math.Abs(r)))
	k := make([][]float64, s)
	for i := range k {
		row := make([]float64, s)
		for j := range row {
			row[j] = 1
		}
		k[i] = row
	}
	return k
}

// DiskKernel returns a kernel of side 2*floor(0.5+r)+1 with 1 inside a
// disk of radius r+0.5 and 0 outside.
func DiskKernel(r float64) [][]float64 {
	r = math.Abs(r)
	s := int(math.Floor(0.5 + r))
	rSqr := (r + 0.5) * (r + 0.5)
	k := make([][]float64, 0, 2*s+1)
	for y := -s; y <= s; y++ {
		row := make([]float64, 0, 2*s+1)
		for x := -s; x <= s; x++ {
			if float64(x*x+y*y) <= rSqr {
				row = append(row, 1)
			} else {
				row = append(row, 0)
			}
		}
		k = append(k, row)
	}
	return k
}

// DiamondKernel returns a kernel of side 2*floor(0.5+r)+1 with 1 inside
// a diamond-shaped region and 0 outside.
func DiamondKernel(r float64) [][]float64 {
	t := int(math.Floor(0.5 + math.Abs(r)))
	size := 2*t + 1
	k := make([][]float64, size)
	for i := range k {
		row := make([]float64, size)
		d := i
		if d > t {
			d = size - 1 - i
		}
		for j := t - d; j <= t+d; j++ {
			row[j] = 1
		}
		k[i] = row
	}
	return k
}

// NormalizeKernel divides every entry by the kernel total so the
// weights sum to 1. A zero-sum kernel is returned unchanged.
func NormalizeKernel(k [][]float64) [][]float64 {
	var sum float64
	for _, row := range k {
		for _, v := range row {
			sum += v
		}
	}
	if sum == 0 {
		return k
	}
	out := make([][]float64, len(k))
	for i, row := range k {
		r := make([]float64, len(row))
		for j, v := range row {
			r[j] = v / sum
		}
		out[i] = r
	}
	return out
}
