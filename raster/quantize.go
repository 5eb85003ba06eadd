package raster

import (
	"fmt"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/pixel"
)

// Quantizer is the external palette-reduction contract: RGB byte
// intensities in, a same-shaped pixel matrix drawn from a palette of
// at most the requested color count back.
type Quantizer interface {
	Quantize(pixels [][][]float64, colors int) ([][][]float64, error)
}

// QuantizeColors approximates the image using at most n distinct
// colors through a delegated quantizer. The image is converted to RGB
// bytes before marshaling; the result is rebuilt as an RGB image.
func (im *Image) QuantizeColors(n int, q Quantizer) (*Image, error) {
	if n <= 0 {
		return nil, fmt.Errorf("raster: positive integer expected for color count, got %d", n)
	}
	rgb, err := im.ColorConvert(colorspace.RGB, false)
	if err != nil {
		return nil, err
	}
	bytes := rgb.pix.CastTo(pixel.Byte)
	w, h := rgb.Dimensions()
	c := rgb.Channels()

	pixels := make([][][]float64, h)
	for y := 0; y < h; y++ {
		pixels[y] = make([][]float64, w)
		for x := 0; x < w; x++ {
			px := make([]float64, 3)
			for i := 0; i < 3 && i < c; i++ {
				px[i] = bytes.At(y, x, i)
			}
			pixels[y][x] = px
		}
	}

	result, err := q.Quantize(pixels, n)
	if err != nil {
		return nil, fmt.Errorf("quantize to %d colors: %w", n, err)
	}
	if len(result) != h {
		return nil, fmt.Errorf("raster: quantizer returned %d rows, want %d", len(result), h)
	}
	data := make([]uint8, 0, h*w*3)
	for _, row := range result {
		if len(row) != w {
			return nil, fmt.Errorf("raster: quantizer returned a matrix of mismatched width")
		}
		for _, px := range row {
			if len(px) != 3 {
				return nil, fmt.Errorf("raster: quantizer returned %d channels, want 3", len(px))
			}
			for _, v := range px {
				data = append(data, uint8(clip01(v/255)*255+0.5))
			}
		}
	}
	arr, err := pixel.NewByte(h, w, 3, data)
	if err != nil {
		return nil, err
	}
	return newImage(arr, colorspace.RGB, nil), nil
}
