package ocr

import (
	"context"
	"fmt"

	"github.com/wudi/imagekit/raster"
)

var defaultEngine Engine = &noopEngine{}

// DefaultEngine returns the library's default OCR engine (Tesseract).
func DefaultEngine() Engine {
	return defaultEngine
}

// SetDefaultEngine sets the library's default OCR engine.
func SetDefaultEngine(engine Engine) {
	defaultEngine = engine
}

// RecognizeImages converts images to OCR inputs and invokes the provided
// engine. If the engine supports batch operation, it is used; otherwise calls
// are executed sequentially.
func RecognizeImages(ctx context.Context, engine Engine, images []*raster.Image, opts ...InputOption) ([]Result, error) {
	inputs := make([]Input, 0, len(images))
	for i, im := range images {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		in, err := InputFromImage(im, opts...)
		if err != nil {
			return nil, fmt.Errorf("build input %d: %w", i, err)
		}
		inputs = append(inputs, in)
	}
	if b, ok := engine.(BatchEngine); ok {
		return b.RecognizeBatch(ctx, inputs)
	}
	results := make([]Result, 0, len(inputs))
	for _, in := range inputs {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		res, err := engine.Recognize(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("recognize %s: %w", in.ID, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// DefaultRecognizeImages runs recognition with the default (Tesseract) engine.
func DefaultRecognizeImages(ctx context.Context, images []*raster.Image, opts ...InputOption) ([]Result, error) {
	return RecognizeImages(ctx, DefaultEngine(), images, opts...)
}

type noopEngine struct{}

func (n noopEngine) Name() string {
	return "noop"
}

func (n noopEngine) Recognize(ctx context.Context, input Input) (Result, error) {
	return Result{InputID: input.ID}, nil
}
