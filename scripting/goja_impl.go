package scripting

import (
	"context"
	"fmt"

	"github.com/dop251/goja"

	"github.com/wudi/imagekit/colorspace"
	"github.com/wudi/imagekit/observability"
	"github.com/wudi/imagekit/raster"
)

type GojaEngine struct {
	vm  *goja.Runtime
	log observability.Logger
}

// Option configures a GojaEngine.
type Option func(*GojaEngine)

// WithLogger attaches a structured logger.
func WithLogger(l observability.Logger) Option {
	return func(e *GojaEngine) { e.log = l }
}

func NewEngine(opts ...Option) *GojaEngine {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.UncapFieldNameMapper())
	e := &GojaEngine{vm: vm, log: observability.NopLogger{}}
	for _, fn := range opts {
		fn(e)
	}
	return e
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterImageAPI exposes an 'images' object with constructors.
// Images cross into scripts as opaque handles whose methods mirror the
// raster API.
func (e *GojaEngine) RegisterImageAPI() error {
	images := e.vm.NewObject()
	if err := images.Set("fromRows", func(rows [][]float64) (*ImageHandle, error) {
		im, err := raster.FromRows(rows)
		if err != nil {
			return nil, err
		}
		return &ImageHandle{im: im}, nil
	}); err != nil {
		return err
	}
	if err := images.Set("fromPixels", func(rows [][][]float64) (*ImageHandle, error) {
		im, err := raster.FromPixels(rows)
		if err != nil {
			return nil, err
		}
		return &ImageHandle{im: im}, nil
	}); err != nil {
		return err
	}
	e.log.Debug("registered image scripting api")
	return e.vm.Set("images", images)
}

// ImageHandle is the script-side view of an image. Handles are opaque:
// scripts can derive new images, compare and hash them, but cannot
// reach the pixel storage directly.
type ImageHandle struct {
	im *raster.Image
}

// Image returns the wrapped image for use on the Go side.
func (h *ImageHandle) Image() *raster.Image { return h.im }

func (h *ImageHandle) Width() int  { w, _ := h.im.Dimensions(); return w }
func (h *ImageHandle) Height() int { _, ht := h.im.Dimensions(); return ht }

func (h *ImageHandle) Channels() int        { return h.im.Channels() }
func (h *ImageHandle) ColorSpace() string   { return string(h.im.Space()) }
func (h *ImageHandle) StorageType() string  { return h.im.StorageType().String() }
func (h *ImageHandle) AspectRatio() float64 { return h.im.AspectRatio() }

func (h *ImageHandle) Grayscale() (*ImageHandle, error) {
	im, err := h.im.Grayscale()
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) ColorConvert(space string) (*ImageHandle, error) {
	im, err := h.im.ColorConvert(colorspace.Space(space), true)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func unwrapOperands(operands []interface{}) []any {
	out := make([]any, len(operands))
	for i, op := range operands {
		switch v := op.(type) {
		case *ImageHandle:
			out[i] = v.im
		case int64:
			out[i] = float64(v)
		default:
			out[i] = op
		}
	}
	return out
}

func (h *ImageHandle) Add(operands ...interface{}) (*ImageHandle, error) {
	im, err := raster.Add(h.im, unwrapOperands(operands)...)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) Subtract(operands ...interface{}) (*ImageHandle, error) {
	im, err := raster.Subtract(h.im, unwrapOperands(operands)...)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) Multiply(operands ...interface{}) (*ImageHandle, error) {
	im, err := raster.Multiply(h.im, unwrapOperands(operands)...)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) Take(n int) *ImageHandle {
	return &ImageHandle{im: h.im.Take(n)}
}

func (h *ImageHandle) TakeRows(a, b int) *ImageHandle {
	return &ImageHandle{im: h.im.TakeRows(a, b)}
}

func (h *ImageHandle) TakeColumns(a, b int) *ImageHandle {
	return &ImageHandle{im: h.im.TakeColumns(a, b)}
}

func (h *ImageHandle) Crop(r1, r2, c1, c2 int) *ImageHandle {
	return &ImageHandle{im: h.im.Crop(r1, r2, c1, c2)}
}

func (h *ImageHandle) Reflect(primary, secondary string) (*ImageHandle, error) {
	p, err := raster.ParseSide(primary)
	if err != nil {
		return nil, err
	}
	s, err := raster.ParseSide(secondary)
	if err != nil {
		return nil, err
	}
	im, err := h.im.Reflect(p, s)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) Convolve(kernel [][]float64) (*ImageHandle, error) {
	im, err := h.im.Convolve(kernel)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) Blur(radius float64) (*ImageHandle, error) {
	im, err := h.im.Blur(radius)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

func (h *ImageHandle) Adjust() *ImageHandle {
	return &ImageHandle{im: h.im.Adjust()}
}

func (h *ImageHandle) Binarize(t float64) (*ImageHandle, error) {
	im, err := h.im.Binarize(t)
	if err != nil {
		return nil, err
	}
	return &ImageHandle{im: im}, nil
}

// Pixel reads a pixel's channel values using 1-based coordinates with
// the origin in the bottom-left corner.
func (h *ImageHandle) Pixel(x, y int) ([]float64, error) {
	return h.im.Pixel(x, y)
}

func (h *ImageHandle) Equals(other *ImageHandle) bool {
	if other == nil {
		return false
	}
	return h.im.Equal(other.im)
}

func (h *ImageHandle) Hash() string {
	return fmt.Sprintf("%016x", h.im.Hash())
}

func (h *ImageHandle) String() string { return h.im.String() }
