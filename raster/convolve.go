package raster

import (
	"errors"
	"sync"

	"github.com/wudi/imagekit/pixel"
)

// ErrBadKernel reports a kernel that is not a well-formed rectangular
// numeric matrix.
var ErrBadKernel = errors.New("raster: kernel must be a non-empty rectangular matrix")

func validateKernel(kernel [][]float64) (kh, kw int, err error) {
	kh = len(kernel)
	if kh == 0 {
		return 0, 0, ErrBadKernel
	}
	kw = len(kernel[0])
	if kw == 0 {
		return 0, 0, ErrBadKernel
	}
	for _, row := range kernel {
		if len(row) != kw {
			return 0, 0, ErrBadKernel
		}
	}
	return kh, kw, nil
}

// Convolve computes the 2-D convolution of the image with the kernel.
// Pixels are cast to normalized floats first; each channel is convolved
// independently with edge-clamped boundary handling (border pixels see
// the image extended by replicating its edge values) and the channels
// are recombined in their original order. The color space is unchanged.
func (im *Image) Convolve(kernel [][]float64) (*Image, error) {
	kh, kw, err := validateKernel(kernel)
	if err != nil {
		return nil, err
	}

	f := im.pix.CastTo(pixel.Real)
	in := f.Reals()
	w, h := im.Dimensions()
	c := im.Channels()
	out := make([]float64, len(in))
	cy, cx := kh/2, kw/2

	// Channels are independent, so convolve them concurrently.
	var wg sync.WaitGroup
	for ch := 0; ch < c; ch++ {
		wg.Add(1)
		go func(ch int) {
			defer wg.Done()
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					var sum float64
					for i := 0; i < kh; i++ {
						sy := clampInt(y+cy-i, 0, h-1)
						for j := 0; j < kw; j++ {
							sx := clampInt(x+cx-j, 0, w-1)
							sum += kernel[i][j] * in[(sy*w+sx)*c+ch]
						}
					}
					out[(y*w+x)*c+ch] = sum
				}
			}
		}(ch)
	}
	wg.Wait()

	arr, err := pixel.NewReal(h, w, c, out)
	if err != nil {
		return nil, err
	}
	return im.derive(arr), nil
}

// Blur convolves with a normalized box kernel of radius r.
func (im *Image) Blur(r float64) (*Image, error) {
	if r < 0 {
		r = -r
	}
	return im.Convolve(NormalizeKernel(BoxKernel(r)))
}
