package raster

import (
	"fmt"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/pixel"
)

// MorphOp enumerates the operations delegated to an external
// morphology/feature-detection library. Each tag maps to one concrete
// implementation function on the Transformer; there is no lookup by
// operation name.
type MorphOp int

const (
	Dilation MorphOp = iota
	Erosion
	Opening
	Closing
	EdgeDetect
)

var morphNames = map[MorphOp]string{
	Dilation:   "Dilation",
	Erosion:    "Erosion",
	Opening:    "Opening",
	Closing:    "Closing",
	EdgeDetect: "EdgeDetect",
}

func (op MorphOp) String() string {
	if n, ok := morphNames[op]; ok {
		return n
	}
	return fmt.Sprintf("MorphOp(%d)", int(op))
}

// Transformer is the contract the external library fulfills: one
// single-channel matrix in, a same-shaped matrix back.
type Transformer interface {
	Transform(op MorphOp, channel [][]float64, kernel [][]float64) ([][]float64, error)
}

// ApplyMorphology marshals the image through a delegated operation.
// The image is forced to grayscale if it isn't already, the single
// channel is handed to the transformer as a matrix, and the result is
// rebuilt as a grayscale image of the same shape.
func (im *Image) ApplyMorphology(op MorphOp, kernel [][]float64, tr Transformer) (*Image, error) {
	if _, ok := morphNames[op]; !ok {
		return nil, fmt.Errorf("raster: %v is not a delegated operation", op)
	}
	if _, _, err := validateKernel(kernel); err != nil {
		return nil, err
	}
	gray := im
	if im.space != colorspace.Grayscale {
		var err error
		gray, err = im.Grayscale()
		if err != nil {
			return nil, err
		}
	}

	w, h := gray.Dimensions()
	channel := channelMatrix(gray.pix.CastTo(pixel.Real).Reals(), h, w)
	result, err := tr.Transform(op, channel, kernel)
	if err != nil {
		return nil, fmt.Errorf("apply %v: %w", op, err)
	}
	if len(result) != h {
		return nil, fmt.Errorf("raster: %v returned %d rows, want %d", op, len(result), h)
	}
	data := make([]float64, 0, h*w)
	for _, row := range result {
		if len(row) != w {
			return nil, fmt.Errorf("raster: %v returned a matrix of mismatched width", op)
		}
		data = append(data, row...)
	}
	arr, err := pixel.NewReal(h, w, 1, data)
	if err != nil {
		return nil, err
	}
	return newImage(arr, colorspace.Grayscale, nil), nil
}

func channelMatrix(values []float64, h, w int) [][]float64 {
	m := make([][]float64, h)
	for y := 0; y < h; y++ {
		m[y] = values[y*w : (y+1)*w : (y+1)*w]
	}
	return m
}
