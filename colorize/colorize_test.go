package colorize

import (
	"errors"
	"math"
	"testing"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/raster"
)

func sameRanks(a, b [][]int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

func TestLinearize(t *testing.T) {
	ranks, n, err := Linearize([][]float64{
		{1.3, 2.1, 1.5},
		{1.3, 1.3, 2.1},
	})
	if err != nil {
		t.Fatalf("Linearize failed: %v", err)
	}
	if n != 3 {
		t.Errorf("distinct count = %d, want 3", n)
	}
	want := [][]int{
		{0, 2, 1},
		{0, 0, 2},
	}
	if !sameRanks(ranks, want) {
		t.Errorf("ranks = %v, want %v", ranks, want)
	}
}

func TestLinearizeDegenerate(t *testing.T) {
	ranks, n, err := Linearize([][]float64{{7, 7}, {7, 7}})
	if err != nil {
		t.Fatalf("Linearize failed: %v", err)
	}
	if n != 1 {
		t.Errorf("distinct count = %d, want 1", n)
	}
	for _, row := range ranks {
		for _, r := range row {
			if r != 0 {
				t.Errorf("rank of the only value must be 0, got %d", r)
			}
		}
	}
}

func TestLinearizeTwoValues(t *testing.T) {
	ranks, n, err := Linearize([][]float64{{5, -1, 5}})
	if err != nil {
		t.Fatalf("Linearize failed: %v", err)
	}
	if n != 2 {
		t.Errorf("distinct count = %d, want 2", n)
	}
	if !sameRanks(ranks, [][]int{{1, 0, 1}}) {
		t.Errorf("ranks = %v", ranks)
	}
}

func TestLinearizeManyValues(t *testing.T) {
	// Ranks must agree with a direct sort-based computation.
	values := [][]float64{
		{0.9, 0.1, 0.4, 0.4},
		{0.7, 0.9, 0.0, 0.1},
		{0.3, 0.2, 0.6, 0.5},
	}
	ranks, n, err := Linearize(values)
	if err != nil {
		t.Fatalf("Linearize failed: %v", err)
	}
	if n != 9 {
		t.Errorf("distinct count = %d, want 9", n)
	}
	for y, row := range values {
		for x, v := range row {
			// The rank equals the number of distinct smaller values.
			distinctBelow := map[float64]bool{}
			for _, r2 := range values {
				for _, v2 := range r2 {
					if v2 < v {
						distinctBelow[v2] = true
					}
				}
			}
			if ranks[y][x] != len(distinctBelow) {
				t.Errorf("rank of %v = %d, want %d", v, ranks[y][x], len(distinctBelow))
			}
		}
	}
}

func TestLinearizeRejects(t *testing.T) {
	for _, values := range [][][]float64{
		nil,
		{},
		{{}},
		{{1, 2}, {3}},
	} {
		if _, _, err := Linearize(values); !errors.Is(err, ErrBadMatrix) {
			t.Errorf("values %v: got %v, want ErrBadMatrix", values, err)
		}
	}
}

func TestMatrixSameValueSameColor(t *testing.T) {
	im, err := Matrix([][]float64{
		{1.3, 2.1, 1.5},
		{1.3, 1.3, 2.1},
		{1.3, 2.1, 1.5},
	}, nil)
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if im.Space() != colorspace.RGB {
		t.Errorf("colorized space = %v, want RGB", im.Space())
	}
	if w, h := im.Dimensions(); w != 3 || h != 3 {
		t.Errorf("dimensions = %dx%d, want 3x3", w, h)
	}

	a := im.Array()
	pix := func(y, x int) RGB {
		return RGB{a.At(y, x, 0), a.At(y, x, 1), a.At(y, x, 2)}
	}
	if pix(0, 0) != pix(1, 0) || pix(0, 0) != pix(2, 0) {
		t.Errorf("equal values must colorize identically")
	}
	if pix(0, 0) == pix(0, 1) || pix(0, 0) == pix(0, 2) || pix(0, 1) == pix(0, 2) {
		t.Errorf("distinct values must get distinct colors")
	}
}

func TestMatrixCustomGradient(t *testing.T) {
	g, err := NewGradient(RGB{1, 1, 1}, RGB{0, 0, 1})
	if err != nil {
		t.Fatalf("NewGradient failed: %v", err)
	}
	im, err := Matrix([][]float64{{1, 2}}, g)
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	a := im.Array()
	if a.At(0, 0, 0) != 1 || a.At(0, 0, 2) != 1 {
		t.Errorf("lowest rank should take the first stop")
	}
	if a.At(0, 1, 0) != 0 || a.At(0, 1, 2) != 1 {
		t.Errorf("highest rank should take the last stop")
	}
}

func TestImageColorize(t *testing.T) {
	src, err := raster.FromRows([][]float64{
		{0, 0.5},
		{1, 0.5},
	})
	if err != nil {
		t.Fatalf("FromRows failed: %v", err)
	}
	out, err := Image(src, nil)
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if out.Channels() != 3 {
		t.Errorf("colorized image has %d channels, want 3", out.Channels())
	}
	a := out.Array()
	for c := 0; c < 3; c++ {
		if a.At(0, 1, c) != a.At(1, 1, c) {
			t.Errorf("equal intensities must colorize identically")
		}
	}
}

func TestGradientSampling(t *testing.T) {
	g, err := NewGradient(RGB{0, 0, 0}, RGB{1, 1, 1})
	if err != nil {
		t.Fatalf("NewGradient failed: %v", err)
	}
	if c := g.At(0.5); math.Abs(c[0]-0.5) > 1e-12 {
		t.Errorf("midpoint = %v", c)
	}
	if c := g.At(-1); c != (RGB{0, 0, 0}) {
		t.Errorf("positions below 0 clamp to the first stop, got %v", c)
	}
	if c := g.At(2); c != (RGB{1, 1, 1}) {
		t.Errorf("positions above 1 clamp to the last stop, got %v", c)
	}

	s := g.Samples(3)
	if len(s) != 3 || s[0] != (RGB{0, 0, 0}) || s[2] != (RGB{1, 1, 1}) {
		t.Errorf("samples = %v", s)
	}
	if one := g.Samples(1); one[0] != (RGB{0, 0, 0}) {
		t.Errorf("single sample = %v, want the start color", one)
	}
}

func TestGradientNeedsTwoStops(t *testing.T) {
	if _, err := NewGradient(RGB{1, 0, 0}); !errors.Is(err, ErrBadGradient) {
		t.Errorf("got %v, want ErrBadGradient", err)
	}
}
