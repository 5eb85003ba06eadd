package raster

import (
	"fmt"
	"math/rand"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/pixel"
)

// Random builds a w×h image of uniformly random pixel values in
// [min, max]. Only Grayscale and RGB targets are supported; dimensions
// must be positive.
func Random(min, max float64, w, h int, space colorspace.Space) (*Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("raster: the specified dimension {%d, %d} should be a pair of positive integers", w, h)
	}
	var c int
	switch space {
	case colorspace.Grayscale:
		c = 1
	case colorspace.RGB:
		c = 3
	default:
		return nil, fmt.Errorf("raster: %q is an invalid color space specification for random images", space)
	}
	data := make([]float64, h*w*c)
	for i := range data {
		data[i] = clip01(rand.Float64()*(max-min) + min)
	}
	arr, err := pixel.NewReal(h, w, c, data)
	if err != nil {
		return nil, err
	}
	return newImage(arr, space, nil), nil
}
