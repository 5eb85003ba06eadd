// Package colorspace holds the fixed registry of named color spaces
// and the pairwise conversion between them. Conversions always go
// through a normalized-float RGB intermediate.
package colorspace

// Space names an interpretation of a pixel's channel values.
type Space string

const (
	Grayscale Space = "Grayscale"
	RGB       Space = "RGB"
	CMYK      Space = "CMYK"
	LAB       Space = "LAB"
	HSB       Space = "HSB"
	XYZ       Space = "XYZ"
)

// endpoint describes how a space maps to and from the RGB intermediate.
// Channel values are normalized floats; LAB components are scaled into
// [0,1] on the wire (L/100, (a+128)/255, (b+128)/255).
type endpoint struct {
	channels int
	toRGB    func(in, out []float64)
	fromRGB  func(in, out []float64)
}

var registry = map[Space]endpoint{
	Grayscale: {1, grayToRGB, rgbToGray},
	RGB:       {3, copy3, copy3},
	CMYK:      {4, cmykToRGB, rgbToCMYK},
	LAB:       {3, labToRGB, rgbToLAB},
	HSB:       {3, hsbToRGB, rgbToHSB},
	XYZ:       {3, xyzToRGB, rgbToXYZ},
}

// Known reports whether s names a registered color space.
func Known(s Space) bool {
	_, ok := registry[s]
	return ok
}

// Names lists every registered space name.
func Names() []Space {
	names := make([]Space, 0, len(registry))
	for s := range registry {
		names = append(names, s)
	}
	return names
}

// Channels returns the channel count of a space, not counting alpha.
// Unknown spaces report zero.
func Channels(s Space) int {
	return registry[s].channels
}
