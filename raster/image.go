// Package raster implements the immutable image value and its
// fundamental transforms: color-space conversion, geometric index
// normalization, kernel convolution and pixel arithmetic. An Image is
// never mutated in place; every operation returns a new value, so
// images can be shared across goroutines without locking.
package raster

import (
	"errors"
	"fmt"
	"hash/fnv"
	"sort"
	"sync/atomic"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/pixel"
)

// ErrNotAnImage reports raw data that cannot form a valid image: a
// jagged array, or a channel count outside {1, 3, 4}. Callers fall
// back to treating the input as an unevaluated expression.
var ErrNotAnImage = errors.New("raster: not an image")

// Encoded is a display form of an image computed by the codec layer.
// It is a memoized derived value, recomputed from the canonical pixel
// data whenever absent, never authoritative state.
type Encoded struct {
	Data   []byte
	Format string
	Mode   string
	Width  int
	Height int
}

// Image is an immutable raster value: dense pixels, a color space, and
// opaque metadata. Equality and hashing are pure functions of those
// three, so two images with diverging provenance but identical content
// compare and hash equal.
type Image struct {
	pix   *pixel.Array
	space colorspace.Space
	meta  map[string]string
	hash  uint64

	display atomic.Pointer[Encoded]
}

func validChannels(c int) bool { return c == 1 || c == 3 || c == 4 }

// New wraps a pixel array in an image value. The channel count must be
// 1, 3 or 4; anything else is rejected with ErrNotAnImage. Metadata is
// copied.
func New(pix *pixel.Array, space colorspace.Space, meta map[string]string) (*Image, error) {
	if pix == nil || !validChannels(pix.Channels()) {
		return nil, ErrNotAnImage
	}
	return newImage(pix, space, copyMeta(meta)), nil
}

func newImage(pix *pixel.Array, space colorspace.Space, meta map[string]string) *Image {
	im := &Image{pix: pix, space: space, meta: meta}
	im.hash = contentHash(pix, space, meta)
	return im
}

// derive carries the receiver's color space and metadata onto a new
// pixel array.
func (im *Image) derive(pix *pixel.Array) *Image {
	return newImage(pix, im.space, im.meta)
}

func copyMeta(meta map[string]string) map[string]string {
	if len(meta) == 0 {
		return nil
	}
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		out[k] = v
	}
	return out
}

func contentHash(pix *pixel.Array, space colorspace.Space, meta map[string]string) uint64 {
	h := fnv.New64a()
	h.Write(pix.AppendBytes(nil))
	h.Write([]byte(space))
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		h.Write([]byte{0})
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(meta[k]))
	}
	return h.Sum64()
}

// FromRows builds a grayscale image from a 2-D matrix of values,
// clipped to [0,1]. Jagged input is rejected with ErrNotAnImage.
func FromRows(rows [][]float64) (*Image, error) {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	data := make([]float64, 0, h*w)
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNotAnImage
		}
		for _, v := range row {
			data = append(data, clip01(v))
		}
	}
	arr, err := pixel.NewReal(h, w, 1, data)
	if err != nil {
		return nil, ErrNotAnImage
	}
	return newImage(arr, colorspace.Grayscale, nil), nil
}

// FromPixels builds an image from a 3-D array of values, clipped to
// [0,1]. With 3 or 4 channels the color space is presumed RGB, with 1
// channel Grayscale; jagged input or any other channel count is
// rejected with ErrNotAnImage.
func FromPixels(rows [][][]float64) (*Image, error) {
	h := len(rows)
	w, c := 0, 0
	if h > 0 {
		w = len(rows[0])
		if w > 0 {
			c = len(rows[0][0])
		}
	}
	if !validChannels(c) {
		return nil, ErrNotAnImage
	}
	data := make([]float64, 0, h*w*c)
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNotAnImage
		}
		for _, px := range row {
			if len(px) != c {
				return nil, ErrNotAnImage
			}
			for _, v := range px {
				data = append(data, clip01(v))
			}
		}
	}
	arr, err := pixel.NewReal(h, w, c, data)
	if err != nil {
		return nil, ErrNotAnImage
	}
	space := colorspace.Grayscale
	if c >= 3 {
		space = colorspace.RGB
	}
	return newImage(arr, space, nil), nil
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Array exposes the canonical pixel buffer. It must not be mutated.
func (im *Image) Array() *pixel.Array { return im.pix }

// Channels returns the channel count (1, 3 or 4).
func (im *Image) Channels() int { return im.pix.Channels() }

// Dimensions returns width before height; height is the outer array
// dimension of storage.
func (im *Image) Dimensions() (w, h int) {
	return im.pix.Width(), im.pix.Height()
}

// AspectRatio is height over width.
func (im *Image) AspectRatio() float64 {
	if im.pix.Width() == 0 {
		return 0
	}
	return float64(im.pix.Height()) / float64(im.pix.Width())
}

// StorageType is derived purely from the array's element type.
func (im *Image) StorageType() pixel.Type { return im.pix.Type() }

// Space returns the image's color space name.
func (im *Image) Space() colorspace.Space { return im.space }

// Metadata returns a copy of the opaque metadata mapping.
func (im *Image) Metadata() map[string]string { return copyMeta(im.meta) }

// ColorConvert returns the image in the target color space, or
// colorspace.ErrUnsupported when no conversion is defined for the
// pair. The identity conversion returns the receiver.
func (im *Image) ColorConvert(to colorspace.Space, preserveAlpha bool) (*Image, error) {
	converted, err := colorspace.Convert(im.pix, im.space, to, preserveAlpha)
	if err != nil {
		return nil, err
	}
	if converted == im.pix && to == im.space {
		return im, nil
	}
	return newImage(converted, to, im.meta), nil
}

// Grayscale is shorthand for ColorConvert(Grayscale).
func (im *Image) Grayscale() (*Image, error) {
	return im.ColorConvert(colorspace.Grayscale, true)
}

// Data returns the pixel array coerced to the named storage format
// ("Real", "Byte", "Bit16", "Bit32" or "Bit"). Unknown names are
// reported back verbatim.
func (im *Image) Data(format string) (*pixel.Array, error) {
	t, err := pixel.ParseType(format)
	if err != nil {
		return nil, err
	}
	return im.pix.CastTo(t), nil
}

// Equal implements value identity: same color space, same metadata and
// bit-exact pixel equality. No tolerance is applied.
func (im *Image) Equal(other *Image) bool {
	if other == nil {
		return false
	}
	if im.space != other.space || len(im.meta) != len(other.meta) {
		return false
	}
	for k, v := range im.meta {
		if ov, ok := other.meta[k]; !ok || ov != v {
			return false
		}
	}
	return im.pix.Equal(other.pix)
}

// Hash returns the content hash of (pixel bytes, color space,
// metadata). It is computed once at construction.
func (im *Image) Hash() uint64 { return im.hash }

// String returns the human-readable placeholder used by the host
// expression layer.
func (im *Image) String() string { return "-Image-" }

// Display returns the memoized display encoding, or nil when it has
// not been computed yet.
func (im *Image) Display() *Encoded { return im.display.Load() }

// SetDisplay memoizes a display encoding computed from the canonical
// pixel data. Safe for concurrent use.
func (im *Image) SetDisplay(e *Encoded) { im.display.Store(e) }

// Separate splits the image into one grayscale image per channel.
func (im *Image) Separate() []*Image {
	c := im.Channels()
	w, h := im.Dimensions()
	out := make([]*Image, c)
	f := im.pix.CastTo(pixel.Real)
	for i := 0; i < c; i++ {
		ch := make([]float64, h*w)
		for p := 0; p < h*w; p++ {
			ch[p] = f.Reals()[p*c+i]
		}
		arr, _ := pixel.NewReal(h, w, 1, ch)
		out[i] = newImage(arr, colorspace.Grayscale, nil)
	}
	return out
}

// Combine stacks equally-shaped channel matrices into one image in the
// given color space. Mismatched shapes, an unknown space, or a channel
// count outside {1, 3, 4} are rejected.
func Combine(channels [][][]float64, space colorspace.Space) (*Image, error) {
	if !colorspace.Known(space) {
		return nil, fmt.Errorf("raster: unknown color space %q", space)
	}
	c := len(channels)
	if !validChannels(c) {
		return nil, ErrNotAnImage
	}
	h := len(channels[0])
	w := 0
	if h > 0 {
		w = len(channels[0][0])
	}
	data := make([]float64, h*w*c)
	for i, ch := range channels {
		if len(ch) != h {
			return nil, ErrNotAnImage
		}
		for y, row := range ch {
			if len(row) != w {
				return nil, ErrNotAnImage
			}
			for x, v := range row {
				data[(y*w+x)*c+i] = v
			}
		}
	}
	arr, err := pixel.NewReal(h, w, c, data)
	if err != nil {
		return nil, ErrNotAnImage
	}
	return newImage(arr, space, nil), nil
}

// Partition divides the image into an array of w×h pixel tiles,
// dropping incomplete tiles at the right and bottom edges.
func (im *Image) Partition(w, h int) ([][]*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: {%d, %d} is not a valid size specification for image partitions", w, h)
	}
	imgW, imgH := im.Dimensions()
	var parts [][]*Image
	for yi := 0; yi < imgH/h; yi++ {
		var row []*Image
		for xi := 0; xi < imgW/w; xi++ {
			tile := im.pix.Remap(h, w, func(y, x int) (int, int) {
				return yi*h + y, xi*w + x
			})
			row = append(row, im.derive(tile))
		}
		if len(row) > 0 {
			parts = append(parts, row)
		}
	}
	return parts, nil
}
