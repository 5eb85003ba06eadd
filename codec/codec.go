// Package codec moves images across the encoded-bytes boundary:
// decoding files into pixel arrays, re-encoding for display or export,
// and resampled resizing.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/observability"
	"github.com/wudi/imagekit/pixel"
	"github.com/wudi/imagekit/raster"
)

type options struct {
	log observability.Logger
}

// Option configures codec operations.
type Option func(*options)

// WithLogger attaches a structured logger.
func WithLogger(l observability.Logger) Option {
	return func(o *options) { o.log = l }
}

func applyOptions(opts []Option) options {
	o := options{log: observability.NopLogger{}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Decode reads an encoded image (png, jpeg, gif, tiff, bmp or webp)
// and converts it to a pixel array. The decoded storage type follows
// the file's sample depth; three or more channels infer an RGB color
// space, fewer infer Grayscale. The detected format is recorded under
// the "Format" metadata key.
func Decode(r io.Reader, opts ...Option) (*raster.Image, error) {
	o := applyOptions(opts)

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	arr, space, err := fromStdImage(img)
	if err != nil {
		return nil, err
	}
	im, err := raster.New(arr, space, map[string]string{"Format": format})
	if err != nil {
		return nil, err
	}
	o.log.Debug("decoded image",
		observability.String("format", format),
		observability.Int("width", arr.Width()),
		observability.Int("height", arr.Height()),
		observability.Int("channels", arr.Channels()),
		observability.Uint64("hash", im.Hash()))
	return im, nil
}

func fromStdImage(img image.Image) (*pixel.Array, colorspace.Space, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.Gray:
		data := make([]uint8, 0, h*w)
		for y := 0; y < h; y++ {
			data = append(data, src.Pix[y*src.Stride:y*src.Stride+w]...)
		}
		arr, err := pixel.NewByte(h, w, 1, data)
		return arr, colorspace.Grayscale, err

	case *image.Gray16:
		data := make([]uint16, 0, h*w)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g := src.Gray16At(b.Min.X+x, b.Min.Y+y)
				data = append(data, g.Y)
			}
		}
		arr, err := pixel.NewUint16(h, w, 1, data)
		return arr, colorspace.Grayscale, err

	case *image.YCbCr:
		data := make([]uint8, 0, h*w*3)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := src.YCbCrAt(b.Min.X+x, b.Min.Y+y)
				r, g, bl := color.YCbCrToRGB(c.Y, c.Cb, c.Cr)
				data = append(data, r, g, bl)
			}
		}
		arr, err := pixel.NewByte(h, w, 3, data)
		return arr, colorspace.RGB, err

	case *image.NRGBA:
		data := make([]uint8, 0, h*w*4)
		for y := 0; y < h; y++ {
			data = append(data, src.Pix[y*src.Stride:y*src.Stride+w*4]...)
		}
		arr, err := pixel.NewByte(h, w, 4, data)
		return arr, colorspace.RGB, err

	default:
		// Anything else goes through the generic color model.
		data := make([]uint8, 0, h*w*4)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
				data = append(data, c.R, c.G, c.B, c.A)
			}
		}
		arr, err := pixel.NewByte(h, w, 4, data)
		return arr, colorspace.RGB, err
	}
}

// toStdImage renders the image as RGB byte pixels, keeping an alpha
// channel when the source has one.
func toStdImage(im *raster.Image) (image.Image, string, error) {
	rgb, err := im.ColorConvert(colorspace.RGB, true)
	if err != nil {
		return nil, "", fmt.Errorf("convert for encoding: %w", err)
	}
	pix := rgb.Array().CastTo(pixel.Byte)
	w, h := rgb.Dimensions()

	switch rgb.Channels() {
	case 3:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := dst.PixOffset(x, y)
				dst.Pix[i+0] = uint8(pix.At(y, x, 0))
				dst.Pix[i+1] = uint8(pix.At(y, x, 1))
				dst.Pix[i+2] = uint8(pix.At(y, x, 2))
				dst.Pix[i+3] = 0xff
			}
		}
		return dst, "RGB", nil
	case 4:
		dst := image.NewNRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := dst.PixOffset(x, y)
				dst.Pix[i+0] = uint8(pix.At(y, x, 0))
				dst.Pix[i+1] = uint8(pix.At(y, x, 1))
				dst.Pix[i+2] = uint8(pix.At(y, x, 2))
				dst.Pix[i+3] = uint8(pix.At(y, x, 3))
			}
		}
		return dst, "RGBA", nil
	default:
		// ColorConvert to RGB always yields 3 or 4 channels.
		panic(fmt.Sprintf("codec: %d channels after RGB conversion", rgb.Channels()))
	}
}

// EncodePNG renders the image as a PNG byte stream.
func EncodePNG(im *raster.Image, opts ...Option) ([]byte, error) {
	o := applyOptions(opts)

	std, mode, err := toStdImage(im)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, std); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	o.log.Debug("encoded png",
		observability.String("mode", mode),
		observability.Int("bytes", buf.Len()))
	return buf.Bytes(), nil
}
