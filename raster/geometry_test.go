package raster

import (
	"errors"
	"testing"
)

func rows(im *Image) [][]float64 {
	w, h := im.Dimensions()
	out := make([][]float64, h)
	for y := 0; y < h; y++ {
		row := make([]float64, w)
		for x := 0; x < w; x++ {
			row[x] = im.Array().At(y, x, 0)
		}
		out[y] = row
	}
	return out
}

func sameRows(a, b [][]float64) bool {
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

var gridRows = [][]float64{
	{0.0, 0.1, 0.2},
	{0.3, 0.4, 0.5},
	{0.6, 0.7, 0.8},
	{0.9, 1.0, 0.05},
}

func TestTakeClamps(t *testing.T) {
	im := grayImage(t, gridRows)

	whole := im.Take(10)
	if !whole.Equal(im) {
		t.Errorf("take beyond the height should return the whole image")
	}
	lastAll := im.Take(-10)
	if !lastAll.Equal(im) {
		t.Errorf("negative take beyond the height should return the whole image")
	}

	first2 := im.Take(2)
	if !sameRows(rows(first2), gridRows[:2]) {
		t.Errorf("Take(2) = %v", rows(first2))
	}
	last2 := im.Take(-2)
	if !sameRows(rows(last2), gridRows[2:]) {
		t.Errorf("Take(-2) = %v", rows(last2))
	}

	empty := im.Take(0)
	if _, h := empty.Dimensions(); h != 0 {
		t.Errorf("Take(0) should be empty, got height %d", h)
	}
}

func TestTakeRowsRanges(t *testing.T) {
	im := grayImage(t, gridRows)

	mid := im.TakeRows(2, 3)
	if !sameRows(rows(mid), gridRows[1:3]) {
		t.Errorf("TakeRows(2,3) = %v", rows(mid))
	}

	// Negative bounds resolve from the end: -1 is the last row.
	tail := im.TakeRows(-2, -1)
	if !sameRows(rows(tail), gridRows[2:]) {
		t.Errorf("TakeRows(-2,-1) = %v", rows(tail))
	}

	// A reversed pair flips the selection.
	rev := im.TakeRows(3, 2)
	want := [][]float64{gridRows[2], gridRows[1]}
	if !sameRows(rows(rev), want) {
		t.Errorf("TakeRows(3,2) = %v, want %v", rows(rev), want)
	}

	// Bounds collapsed past the end select nothing.
	none := im.TakeRows(5, 9)
	if _, h := none.Dimensions(); h != 0 {
		t.Errorf("TakeRows(5,9) should be empty, got height %d", h)
	}
}

func TestCropComposesAxes(t *testing.T) {
	im := grayImage(t, gridRows)
	crop := im.Crop(2, 3, 1, 2)
	want := [][]float64{
		{0.3, 0.4},
		{0.6, 0.7},
	}
	if !sameRows(rows(crop), want) {
		t.Errorf("Crop(2,3,1,2) = %v, want %v", rows(crop), want)
	}
}

func TestReflectPairs(t *testing.T) {
	im := grayImage(t, [][]float64{
		{0.1, 0.2},
		{0.3, 0.4},
		{0.5, 0.6},
	})

	// Degenerate pairs are the identity.
	for _, s := range []Side{Top, Bottom, Left, Right} {
		out, err := im.Reflect(s, s)
		if err != nil {
			t.Fatalf("Reflect(%v, %v) failed: %v", s, s, err)
		}
		if out != im {
			t.Errorf("Reflect(%v, %v) should be the identity", s, s)
		}
	}

	// Order independence for every valid pair.
	pairs := [][2]Side{
		{Top, Bottom}, {Left, Right}, {Top, Left},
		{Top, Right}, {Bottom, Left}, {Bottom, Right},
	}
	for _, p := range pairs {
		ab, err := im.Reflect(p[0], p[1])
		if err != nil {
			t.Fatalf("Reflect(%v, %v) failed: %v", p[0], p[1], err)
		}
		ba, err := im.Reflect(p[1], p[0])
		if err != nil {
			t.Fatalf("Reflect(%v, %v) failed: %v", p[1], p[0], err)
		}
		if !ab.Equal(ba) {
			t.Errorf("Reflect(%v, %v) differs from Reflect(%v, %v)", p[0], p[1], p[1], p[0])
		}
	}

	flipped, _ := im.Reflect(Top, Bottom)
	if !sameRows(rows(flipped), [][]float64{{0.5, 0.6}, {0.3, 0.4}, {0.1, 0.2}}) {
		t.Errorf("vertical flip = %v", rows(flipped))
	}

	mirrored, _ := im.Reflect(Left, Right)
	if !sameRows(rows(mirrored), [][]float64{{0.2, 0.1}, {0.4, 0.3}, {0.6, 0.5}}) {
		t.Errorf("horizontal flip = %v", rows(mirrored))
	}

	transposed, _ := im.Reflect(Top, Left)
	if !sameRows(rows(transposed), [][]float64{{0.1, 0.3, 0.5}, {0.2, 0.4, 0.6}}) {
		t.Errorf("transpose = %v", rows(transposed))
	}

	anti, _ := im.Reflect(Top, Right)
	if !sameRows(rows(anti), [][]float64{{0.6, 0.4, 0.2}, {0.5, 0.3, 0.1}}) {
		t.Errorf("anti-transpose = %v", rows(anti))
	}

	// Transpose equals anti-transpose applied to the doubly-flipped image,
	// and both transposed variants agree with their mirror pair.
	tl, _ := im.Reflect(Top, Left)
	br, _ := im.Reflect(Bottom, Right)
	if !tl.Equal(br) {
		t.Errorf("Top->Left and Bottom->Right must coincide")
	}
	tr, _ := im.Reflect(Top, Right)
	bl, _ := im.Reflect(Bottom, Left)
	if !tr.Equal(bl) {
		t.Errorf("Top->Right and Bottom->Left must coincide")
	}

	if _, err := im.Reflect(Side(9), Top); err == nil {
		t.Errorf("invalid side must be rejected")
	}
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide("Bottom")
	if err != nil || s != Bottom {
		t.Errorf("ParseSide(Bottom) = %v, %v", s, err)
	}
	if _, err := ParseSide("Center"); err == nil {
		t.Errorf("expected an error for an unknown side name")
	}
}

func TestPixelBottomLeftOrigin(t *testing.T) {
	im := grayImage(t, [][]float64{
		{0.1, 0.2},
		{0.3, 0.4},
	})
	// (1,1) addresses the bottom-left pixel.
	v, err := im.Pixel(1, 1)
	if err != nil {
		t.Fatalf("Pixel failed: %v", err)
	}
	if v[0] != 0.3 {
		t.Errorf("Pixel(1,1) = %v, want 0.3", v[0])
	}
	v, err = im.Pixel(2, 2)
	if err != nil {
		t.Fatalf("Pixel failed: %v", err)
	}
	if v[0] != 0.2 {
		t.Errorf("Pixel(2,2) = %v, want 0.2", v[0])
	}

	// Out-of-bounds lookups are a padding error, never clamped.
	for _, p := range [][2]int{{0, 1}, {3, 1}, {1, 0}, {1, 3}} {
		if _, err := im.Pixel(p[0], p[1]); !errors.Is(err, ErrPaddingNotImplemented) {
			t.Errorf("Pixel(%d,%d): got %v, want ErrPaddingNotImplemented", p[0], p[1], err)
		}
	}
}

func TestValuePositions(t *testing.T) {
	im := grayImage(t, [][]float64{
		{0, 1},
		{1, 0},
		{1, 1},
	})
	got := im.ValuePositions(1, 0)
	want := []Position{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 2, Y: 1}, {X: 2, Y: 3}}
	if len(got) != len(want) {
		t.Fatalf("ValuePositions = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: got %v, want %v", i, got[i], want[i])
		}
	}

	near := im.ValuePositions(0.5, 0.6)
	if len(near) != 6 {
		t.Errorf("tolerant search should match all 6 elements, got %d", len(near))
	}
}
