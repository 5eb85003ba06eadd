package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/wudi/imagekit/observability"
	"github.com/wudi/imagekit/raster"
)

// minDisplaySize is the smallest rendered side for tiny images. Images
// smaller than this on both sides are magnified with nearest-neighbor
// resampling so individual pixels stay visible.
const minDisplaySize = 128

// ToEncodable renders the image as PNG bytes suitable for display and
// memoizes the result on the image. Small images are scaled up to
// minDisplaySize; the reported dimensions are the scaled ones.
func ToEncodable(im *raster.Image, opts ...Option) (*raster.Encoded, error) {
	if e := im.Display(); e != nil {
		return e, nil
	}
	o := applyOptions(opts)

	std, mode, err := toStdImage(im)
	if err != nil {
		return nil, err
	}
	w, h := std.Bounds().Dx(), std.Bounds().Dy()
	scaledW, scaledH := w, h
	if w < minDisplaySize && h < minDisplaySize {
		longest := w
		if h > longest {
			longest = h
		}
		scale := float64(minDisplaySize) / float64(longest)
		scaledW = int(scale * float64(w))
		scaledH = int(scale * float64(h))
		dst := image.NewNRGBA(image.Rect(0, 0, scaledW, scaledH))
		draw.NearestNeighbor.Scale(dst, dst.Bounds(), std, std.Bounds(), draw.Src, nil)
		std = dst
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, std); err != nil {
		return nil, fmt.Errorf("encode display png: %w", err)
	}
	e := &raster.Encoded{
		Data:   buf.Bytes(),
		Format: "png",
		Mode:   mode,
		Width:  scaledW,
		Height: scaledH,
	}
	im.SetDisplay(e)
	o.log.Debug("rendered display image",
		observability.Int("width", scaledW),
		observability.Int("height", scaledH))
	return e, nil
}
