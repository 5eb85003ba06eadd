// Package colorize builds pseudocolor images: every distinct value in
// a matrix is assigned its own color from a gradient, with equal
// values always mapping to the same color.
package colorize

import (
	"errors"
	"sort"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/pixel"
	"github.com/wudi/imagekit/raster"
)

// ErrBadMatrix reports input that is not a non-empty rectangular
// matrix of numbers.
var ErrBadMatrix = errors.New("colorize: values must form a non-empty rectangular matrix")

// Linearize replaces every element of the matrix with the rank of its
// value among the distinct values present, so ranks run 0..n-1 with no
// gaps. It returns the rank matrix and the distinct-value count n.
//
// Ranks are found with a lockstep binary search over the sorted
// distinct values: every element tracks a [lower, upper] candidate
// range and all ranges are halved together until at most two
// candidates remain.
func Linearize(values [][]float64) ([][]int, int, error) {
	h := len(values)
	if h == 0 {
		return nil, 0, ErrBadMatrix
	}
	w := len(values[0])
	if w == 0 {
		return nil, 0, ErrBadMatrix
	}
	flat := make([]float64, 0, h*w)
	for _, row := range values {
		if len(row) != w {
			return nil, 0, ErrBadMatrix
		}
		flat = append(flat, row...)
	}

	sorted := distinctSorted(flat)
	n := len(sorted)

	lower := make([]int, len(flat))
	upper := make([]int, len(flat))
	for i := range upper {
		upper[i] = n - 1
	}

	for q := n; q > 2; q = (q + 1) / 2 {
		for i, v := range flat {
			m := (lower[i] + upper[i]) >> 1
			if v <= sorted[m] {
				upper[i] = m
			} else {
				lower[i] = m + 1
			}
		}
	}

	ranks := make([][]int, h)
	for y := 0; y < h; y++ {
		ranks[y] = make([]int, w)
		for x := 0; x < w; x++ {
			i := y*w + x
			r := upper[i]
			if flat[i] == sorted[lower[i]] {
				r = lower[i]
			}
			ranks[y][x] = r
		}
	}
	return ranks, n, nil
}

func distinctSorted(flat []float64) []float64 {
	s := make([]float64, len(flat))
	copy(s, flat)
	sort.Float64s(s)
	out := s[:0]
	for i, v := range s {
		if i == 0 || v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}

// Matrix renders the matrix as an RGB image: each distinct value gets
// the gradient color at its rank. A nil gradient uses Default.
func Matrix(values [][]float64, g *Gradient) (*raster.Image, error) {
	if g == nil {
		g = Default()
	}
	ranks, n, err := Linearize(values)
	if err != nil {
		return nil, err
	}
	palette := g.Samples(n)

	h, w := len(ranks), len(ranks[0])
	data := make([]float64, 0, h*w*3)
	for _, row := range ranks {
		for _, r := range row {
			c := palette[r]
			data = append(data, c[0], c[1], c[2])
		}
	}
	arr, err := pixel.NewReal(h, w, 3, data)
	if err != nil {
		return nil, err
	}
	return raster.New(arr, colorspace.RGB, nil)
}

// Image colorizes an image: it is reduced to grayscale, quantized to
// byte intensities, and each distinct intensity is mapped to its own
// gradient color.
func Image(im *raster.Image, g *Gradient) (*raster.Image, error) {
	gray, err := im.Grayscale()
	if err != nil {
		return nil, err
	}
	bytes, err := gray.Data("Byte")
	if err != nil {
		return nil, err
	}
	w, h := gray.Dimensions()
	values := make([][]float64, h)
	for y := 0; y < h; y++ {
		values[y] = make([]float64, w)
		for x := 0; x < w; x++ {
			values[y][x] = bytes.At(y, x, 0)
		}
	}
	return Matrix(values, g)
}
