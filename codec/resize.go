package codec

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/observability"
	"github.com/wudi/imagekit/raster"
)

// Resampling selects the filter used when resizing.
type Resampling string

const (
	// ResampleAutomatic picks Bicubic, which holds up well both up-
	// and downscaling.
	ResampleAutomatic Resampling = "Automatic"
	ResampleNearest   Resampling = "Nearest"
	ResampleBilinear  Resampling = "Bilinear"
	ResampleBicubic   Resampling = "Bicubic"
)

func scaler(method Resampling) (draw.Scaler, error) {
	switch method {
	case ResampleNearest:
		return draw.NearestNeighbor, nil
	case ResampleBilinear:
		return draw.BiLinear, nil
	case ResampleBicubic, ResampleAutomatic, "":
		return draw.CatmullRom, nil
	default:
		return nil, fmt.Errorf("codec: resampling method %q is not supported", method)
	}
}

// Resize resamples the image to the given dimensions. A grayscale
// source comes back grayscale; color sources come back in RGB.
func Resize(im *raster.Image, w, h int, method Resampling, opts ...Option) (*raster.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("codec: resize target %dx%d is not a valid size", w, h)
	}
	sc, err := scaler(method)
	if err != nil {
		return nil, err
	}
	o := applyOptions(opts)

	src, _, err := toStdImage(im)
	if err != nil {
		return nil, err
	}
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	sc.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	arr, space, err := fromStdImage(dst)
	if err != nil {
		return nil, err
	}
	out, err := raster.New(arr, space, im.Metadata())
	if err != nil {
		return nil, err
	}
	if im.Space() == colorspace.Grayscale {
		out, err = out.ColorConvert(colorspace.Grayscale, false)
		if err != nil {
			return nil, err
		}
	}
	o.log.Debug("resized image",
		observability.Int("width", w),
		observability.Int("height", h))
	return out, nil
}
