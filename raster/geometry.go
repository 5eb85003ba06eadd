package raster

import (
	"errors"
	"fmt"
	"sort"

	"github.com/wudi/imagekit/pixel"
)

// ErrPaddingNotImplemented reports a single-pixel lookup outside the
// image bounds. Deliberately not clamped, so callers never silently
// read a wrong pixel.
var ErrPaddingNotImplemented = errors.New("raster: padding not implemented")

// Take returns the first n rows when n >= 0, or the last |n| rows when
// n < 0, clamped to the image height. Take(0) is an empty image, not
// an error.
func (im *Image) Take(n int) *Image {
	h := im.pix.Height()
	var lo, hi int
	if n >= 0 {
		lo, hi = 0, min(n, h)
	} else {
		lo, hi = max(0, h+n), h
	}
	return im.derive(im.pix.Remap(hi-lo, im.pix.Width(), func(y, x int) (int, int) {
		return lo + y, x
	}))
}

// TakeRows selects rows r1..r2 of the image. Bounds are 1-based and
// inclusive; non-positive values count from the end of the axis. A
// reversed pair selects the same rows flipped top to bottom.
func (im *Image) TakeRows(r1, r2 int) *Image {
	lo, hi, flipped := normalizeSpan(r1, r2, im.pix.Height())
	out := im.pix.Remap(hi-lo, im.pix.Width(), func(y, x int) (int, int) {
		if flipped {
			return hi - 1 - y, x
		}
		return lo + y, x
	})
	return im.derive(out)
}

// TakeColumns selects columns c1..c2; see TakeRows.
func (im *Image) TakeColumns(c1, c2 int) *Image {
	lo, hi, flipped := normalizeSpan(c1, c2, im.pix.Width())
	out := im.pix.Remap(im.pix.Height(), hi-lo, func(y, x int) (int, int) {
		if flipped {
			return y, hi - 1 - x
		}
		return y, lo + x
	})
	return im.derive(out)
}

// Crop is the two-axis crop, composed of the two independent
// single-axis selections: rows first, then columns.
func (im *Image) Crop(r1, r2, c1, c2 int) *Image {
	return im.TakeRows(r1, r2).TakeColumns(c1, c2)
}

// normalizeSpan maps a 1-based, possibly negative, possibly reversed
// bound pair onto a half-open 0-based range [lo, hi) over an axis of
// extent n, plus a flag for a reversed selection. Positive bounds
// address from the start, non-positive bounds from the end (n+value);
// both clamp to the axis, so an empty range means the normalized
// bounds collapsed outside it.
func normalizeSpan(i1, i2, n int) (lo, hi int, flipped bool) {
	a := resolveBound(i1, n)
	b := resolveBound(i2, n)
	if a > b {
		a, b = b, a
		flipped = true
	}
	lo = clampInt(a, 0, n)
	hi = clampInt(b+1, 0, n)
	if lo > hi {
		hi = lo
	}
	return lo, hi, flipped
}

// resolveBound turns a 1-based bound into the 0-based row/column it
// addresses; non-positive values are relative to the end of the axis
// (n + value), so -1 is the last row.
func resolveBound(i, n int) int {
	if i > 0 {
		return i - 1
	}
	return n + i
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Side names one edge of an image for reflection specifications.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

var sideNames = map[Side]string{Top: "Top", Bottom: "Bottom", Left: "Left", Right: "Right"}

func (s Side) String() string {
	if n, ok := sideNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Side(%d)", int(s))
}

// ParseSide resolves a side name; unknown names are rejected with the
// offending name.
func ParseSide(name string) (Side, error) {
	for s, n := range sideNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("raster: %q is not a valid reflection side", name)
}

type reflectKind int

const (
	reflectNoOp reflectKind = iota
	reflectVertical
	reflectHorizontal
	reflectTranspose
	reflectAntiTranspose
)

// The ten valid side pairs, keyed order-independently. Any other pair
// is an error, never a silent default.
var reflectTable = map[[2]Side]reflectKind{
	{Top, Top}:       reflectNoOp,
	{Bottom, Bottom}: reflectNoOp,
	{Left, Left}:     reflectNoOp,
	{Right, Right}:   reflectNoOp,
	{Top, Bottom}:    reflectVertical,
	{Left, Right}:    reflectHorizontal,
	{Top, Left}:      reflectTranspose,
	{Bottom, Right}:  reflectTranspose,
	{Top, Right}:     reflectAntiTranspose,
	{Bottom, Left}:   reflectAntiTranspose,
}

// Reflect flips the image so the two named sides are interchanged.
// The pair is order-independent: (a, b) and (b, a) produce identical
// results. A degenerate pair (a side mapped to itself) is a no-op.
func (im *Image) Reflect(a, b Side) (*Image, error) {
	if a > b {
		a, b = b, a
	}
	kind, ok := reflectTable[[2]Side{a, b}]
	if !ok {
		return nil, fmt.Errorf("raster: %v -> %v is not a valid 2D reflection specification", a, b)
	}
	h, w := im.pix.Height(), im.pix.Width()
	switch kind {
	case reflectNoOp:
		return im, nil
	case reflectVertical:
		return im.derive(im.pix.Remap(h, w, func(y, x int) (int, int) {
			return h - 1 - y, x
		})), nil
	case reflectHorizontal:
		return im.derive(im.pix.Remap(h, w, func(y, x int) (int, int) {
			return y, w - 1 - x
		})), nil
	case reflectTranspose:
		return im.derive(im.pix.Remap(w, h, func(y, x int) (int, int) {
			return x, y
		})), nil
	default: // anti-transpose: flip, transpose, flip
		return im.derive(im.pix.Remap(w, h, func(y, x int) (int, int) {
			return h - 1 - x, w - 1 - y
		})), nil
	}
}

// storageRow converts a 1-based, bottom-left-origin y coordinate into
// the row index of top-first storage. All user-facing pixel addressing
// goes through here so the origin duality lives in one place.
func (im *Image) storageRow(y int) int {
	return im.pix.Height() - y
}

// Pixel returns the normalized channel values at the 1-based position
// (x, y), with row 1 at the bottom of the image and column 1 at the
// left edge. A lookup outside [1,width]×[1,height] returns
// ErrPaddingNotImplemented.
func (im *Image) Pixel(x, y int) ([]float64, error) {
	w, h := im.Dimensions()
	if x < 1 || x > w || y < 1 || y > h {
		return nil, ErrPaddingNotImplemented
	}
	f := im.pix.CastTo(pixel.Real)
	c := im.Channels()
	out := make([]float64, c)
	for i := 0; i < c; i++ {
		out[i] = f.At(im.storageRow(y), x-1, i)
	}
	return out, nil
}

// Position locates one pixel value, expressed in the bottom-left
// addressing of Pixel: x, y and, for multichannel images, the 1-based
// channel index.
type Position struct {
	X, Y    int
	Channel int
}

// ValuePositions lists the positions of all pixel elements whose
// normalized value is within tol of val, in ascending order.
func (im *Image) ValuePositions(val, tol float64) []Position {
	f := im.pix.CastTo(pixel.Real)
	w, h := im.Dimensions()
	c := im.Channels()
	var out []Position
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for i := 0; i < c; i++ {
				v := f.At(y, x, i)
				if v >= val-tol && v <= val+tol {
					p := Position{X: x + 1, Y: h - y}
					if c > 1 {
						p.Channel = i + 1
					}
					out = append(out, p)
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return positionLess(out[i], out[j]) })
	return out
}

func positionLess(a, b Position) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.Channel < b.Channel
}
