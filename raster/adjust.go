package raster

import (
	"fmt"
	"math"
	"sort"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/pixel"
)

// Adjust normalizes the levels of each channel independently: values
// are shifted and scaled so every channel spans [0,1]. A constant
// channel is left at its shifted value.
func (im *Image) Adjust() *Image {
	f := im.pix.CastTo(pixel.Real)
	in := f.Reals()
	w, h := im.Dimensions()
	c := im.Channels()

	mins := make([]float64, c)
	maxs := make([]float64, c)
	for i := 0; i < c; i++ {
		mins[i] = math.Inf(1)
		maxs[i] = math.Inf(-1)
	}
	for p := 0; p < h*w; p++ {
		for i := 0; i < c; i++ {
			v := in[p*c+i]
			mins[i] = math.Min(mins[i], v)
			maxs[i] = math.Max(maxs[i], v)
		}
	}

	out := make([]float64, len(in))
	for i := 0; i < c; i++ {
		scale := maxs[i] - mins[i]
		if scale == 0 {
			scale = 1
		}
		for p := 0; p < h*w; p++ {
			out[p*c+i] = (in[p*c+i] - mins[i]) / scale
		}
	}
	arr, err := pixel.NewReal(h, w, c, out)
	if err != nil {
		return im
	}
	return im.derive(arr)
}

// ThresholdMethod selects how ThresholdValue estimates a binarization
// threshold.
type ThresholdMethod string

const (
	// ThresholdCluster uses Otsu's method over a 256-bin histogram.
	ThresholdCluster ThresholdMethod = "Cluster"
	ThresholdMedian  ThresholdMethod = "Median"
	ThresholdMean    ThresholdMethod = "Mean"
)

// ThresholdValue estimates a value suitable for binarizing the image.
// The image is reduced to grayscale first.
func (im *Image) ThresholdValue(method ThresholdMethod) (float64, error) {
	gray, err := im.Grayscale()
	if err != nil {
		return 0, err
	}
	values := gray.pix.CastTo(pixel.Real).Reals()
	if len(values) == 0 {
		return 0, fmt.Errorf("raster: cannot threshold an empty image")
	}
	switch method {
	case ThresholdCluster:
		return otsu(values), nil
	case ThresholdMedian:
		return median(values), nil
	case ThresholdMean:
		return mean(values), nil
	default:
		return 0, fmt.Errorf("raster: threshold method %q is not supported", method)
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// otsu maximizes the between-class variance over a 256-bin histogram
// of the normalized values.
func otsu(values []float64) float64 {
	const bins = 256
	var hist [bins]int
	for _, v := range values {
		i := int(clip01(v) * (bins - 1))
		hist[i]++
	}
	total := len(values)

	var sumAll float64
	for i, n := range hist {
		sumAll += float64(i) * float64(n)
	}

	var sumB, best float64
	var wB int
	bestIdx := 0
	for i := 0; i < bins; i++ {
		wB += hist[i]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}
		sumB += float64(i) * float64(hist[i])
		mB := sumB / float64(wB)
		mF := (sumAll - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > best {
			best = between
			bestIdx = i
		}
	}
	return float64(bestIdx) / (bins - 1)
}

// Binarize maps values above t to 1 and everything else to 0, after
// reducing the image to grayscale. The result has Bit storage.
func (im *Image) Binarize(t float64) (*Image, error) {
	gray, err := im.Grayscale()
	if err != nil {
		return nil, err
	}
	values := gray.pix.CastTo(pixel.Real).Reals()
	bits := make([]bool, len(values))
	for i, v := range values {
		bits[i] = v > t
	}
	w, h := gray.Dimensions()
	arr, err := pixel.NewBit(h, w, 1, bits)
	if err != nil {
		return nil, err
	}
	return newImage(arr, colorspace.Grayscale, nil), nil
}

// BinarizeBand maps values strictly between t1 and t2 to 1 and all
// other values to 0.
func (im *Image) BinarizeBand(t1, t2 float64) (*Image, error) {
	gray, err := im.Grayscale()
	if err != nil {
		return nil, err
	}
	values := gray.pix.CastTo(pixel.Real).Reals()
	bits := make([]bool, len(values))
	for i, v := range values {
		bits[i] = v > t1 && v < t2
	}
	w, h := gray.Dimensions()
	arr, err := pixel.NewBit(h, w, 1, bits)
	if err != nil {
		return nil, err
	}
	return newImage(arr, colorspace.Grayscale, nil), nil
}
