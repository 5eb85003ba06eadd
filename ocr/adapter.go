package ocr

import (
	"fmt"

	"github.com/wudi/imagekit/codec"
	"github.com/wudi/imagekit/raster"
)

// InputOption mutates an OCR input generated from an image.
type InputOption func(*Input)

// WithID overrides the generated input identifier.
func WithID(id string) InputOption {
	return func(in *Input) { in.ID = id }
}

// WithLanguages sets language hints on the OCR input.
func WithLanguages(langs ...string) InputOption {
	return func(in *Input) { in.Languages = append([]string(nil), langs...) }
}

// WithRegion sets the recognition region on the OCR input.
func WithRegion(region Region) InputOption {
	return func(in *Input) {
		if region.IsEmpty() {
			in.Region = nil
			return
		}
		in.Region = &region
	}
}

// WithDPI overrides the DPI value on the OCR input.
func WithDPI(dpi int) InputOption {
	return func(in *Input) { in.DPI = dpi }
}

// WithMetadata sets provider-specific metadata for the input.
func WithMetadata(metadata map[string]string) InputOption {
	return func(in *Input) {
		if len(metadata) == 0 {
			in.Metadata = nil
			return
		}
		in.Metadata = make(map[string]string, len(metadata))
		for k, v := range metadata {
			in.Metadata[k] = v
		}
	}
}

// InputFromImage converts an image into an OCR input using PNG
// encoding. The generated ID is derived from the image's content hash
// so identical images correlate with identical results.
func InputFromImage(im *raster.Image, opts ...InputOption) (Input, error) {
	data, err := codec.EncodePNG(im)
	if err != nil {
		return Input{}, fmt.Errorf("encode image: %w", err)
	}
	in := Input{
		ID:     fmt.Sprintf("image-%016x", im.Hash()),
		Image:  data,
		Format: ImageFormatPNG,
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in, nil
}
