package colorspace

import (
	"errors"
	"math"

	"github.com/wudi/imagekit/pixel"
)

// ErrUnsupported signals a (from, to) pair with no defined conversion.
// Callers propagate it as their own failure instead of aborting the
// whole pipeline.
var ErrUnsupported = errors.New("colorspace: unsupported conversion")

// Convert transforms a pixel array from one color space to another
// through a normalized-float intermediate. The result is always a Real
// array, except on the identity fast path where the input is returned
// unchanged.
//
// A trailing alpha channel (one more channel than the source space
// defines) is stripped when preserveAlpha is false, or re-attached
// unchanged after converting the color channels when true. Unsupported
// pairs return ErrUnsupported.
func Convert(a *pixel.Array, from, to Space, preserveAlpha bool) (*pixel.Array, error) {
	src, ok := registry[from]
	if !ok {
		return nil, ErrUnsupported
	}
	dst, ok := registry[to]
	if !ok {
		return nil, ErrUnsupported
	}

	hasAlpha := a.Channels() == src.channels+1
	if a.Channels() != src.channels && !hasAlpha {
		return nil, ErrUnsupported
	}

	if from == to {
		if !hasAlpha || preserveAlpha {
			return a, nil
		}
		return dropAlpha(a.CastTo(pixel.Real), src.channels), nil
	}

	f := a.CastTo(pixel.Real)
	h, w := a.Height(), a.Width()
	outC := dst.channels
	keepAlpha := hasAlpha && preserveAlpha
	if keepAlpha {
		outC++
	}

	out := make([]float64, h*w*outC)
	in := f.Reals()
	var rgb [3]float64
	srcPix := make([]float64, src.channels)
	dstPix := make([]float64, dst.channels)
	inC := a.Channels()
	for p := 0; p < h*w; p++ {
		copy(srcPix, in[p*inC:p*inC+src.channels])
		src.toRGB(srcPix, rgb[:])
		dst.fromRGB(rgb[:], dstPix)
		copy(out[p*outC:], dstPix)
		if keepAlpha {
			out[p*outC+dst.channels] = in[p*inC+src.channels]
		}
	}
	res, err := pixel.NewReal(h, w, outC, out)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func dropAlpha(a *pixel.Array, keep int) *pixel.Array {
	h, w := a.Height(), a.Width()
	in := a.Reals()
	inC := a.Channels()
	out := make([]float64, h*w*keep)
	for p := 0; p < h*w; p++ {
		copy(out[p*keep:], in[p*inC:p*inC+keep])
	}
	res, _ := pixel.NewReal(h, w, keep, out)
	return res
}

func copy3(in, out []float64) { copy(out, in[:3]) }

func grayToRGB(in, out []float64) {
	out[0], out[1], out[2] = in[0], in[0], in[0]
}

// Luminance weights per ITU-R BT.601.
func rgbToGray(in, out []float64) {
	out[0] = 0.299*in[0] + 0.587*in[1] + 0.114*in[2]
}

func cmykToRGB(in, out []float64) {
	c, m, y, k := in[0], in[1], in[2], in[3]
	out[0] = (1 - c) * (1 - k)
	out[1] = (1 - m) * (1 - k)
	out[2] = (1 - y) * (1 - k)
}

func rgbToCMYK(in, out []float64) {
	r, g, b := in[0], in[1], in[2]
	k := 1 - math.Max(r, math.Max(g, b))
	if k < 1 {
		out[0] = (1 - r - k) / (1 - k)
		out[1] = (1 - g - k) / (1 - k)
		out[2] = (1 - b - k) / (1 - k)
	} else {
		out[0], out[1], out[2] = 0, 0, 0
	}
	out[3] = k
}

func hsbToRGB(in, out []float64) {
	h, s, v := in[0]*6, in[1], in[2]
	i := math.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))
	switch int(i) % 6 {
	case 0:
		out[0], out[1], out[2] = v, t, p
	case 1:
		out[0], out[1], out[2] = q, v, p
	case 2:
		out[0], out[1], out[2] = p, v, t
	case 3:
		out[0], out[1], out[2] = p, q, v
	case 4:
		out[0], out[1], out[2] = t, p, v
	default:
		out[0], out[1], out[2] = v, p, q
	}
}

func rgbToHSB(in, out []float64) {
	r, g, b := in[0], in[1], in[2]
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	d := max - min

	var h float64
	switch {
	case d == 0:
		h = 0
	case max == r:
		h = math.Mod((g-b)/d, 6)
	case max == g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	h /= 6
	if h < 0 {
		h++
	}

	var s float64
	if max > 0 {
		s = d / max
	}
	out[0], out[1], out[2] = h, s, max
}

// sRGB companding and the D65 matrices, per IEC 61966-2-1.

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return 12.92 * c
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func rgbToXYZ(in, out []float64) {
	r := srgbToLinear(in[0])
	g := srgbToLinear(in[1])
	b := srgbToLinear(in[2])
	out[0] = 0.4124564*r + 0.3575761*g + 0.1804375*b
	out[1] = 0.2126729*r + 0.7151522*g + 0.0721750*b
	out[2] = 0.0193339*r + 0.1191920*g + 0.9503041*b
}

func xyzToRGB(in, out []float64) {
	x, y, z := in[0], in[1], in[2]
	r := 3.2404542*x - 1.5371385*y - 0.4985314*z
	g := -0.9692660*x + 1.8760108*y + 0.0415560*z
	b := 0.0556434*x - 0.2040259*y + 1.0572252*z
	out[0] = clamp01(linearToSRGB(r))
	out[1] = clamp01(linearToSRGB(g))
	out[2] = clamp01(linearToSRGB(b))
}

// D65 reference white.
const (
	whiteX = 0.95047
	whiteY = 1.0
	whiteZ = 1.08883
)

func labF(t float64) float64 {
	const delta = 6.0 / 29
	if t > delta*delta*delta {
		return math.Cbrt(t)
	}
	return t/(3*delta*delta) + 4.0/29
}

func labFInv(t float64) float64 {
	const delta = 6.0 / 29
	if t > delta {
		return t * t * t
	}
	return 3 * delta * delta * (t - 4.0/29)
}

// LAB components travel scaled into [0,1]: L/100, (a+128)/255 and
// (b+128)/255, so LAB pixel arrays stay in the normalized domain.

func rgbToLAB(in, out []float64) {
	var xyz [3]float64
	rgbToXYZ(in, xyz[:])
	fx := labF(xyz[0] / whiteX)
	fy := labF(xyz[1] / whiteY)
	fz := labF(xyz[2] / whiteZ)
	l := 116*fy - 16
	a := 500 * (fx - fy)
	b := 200 * (fy - fz)
	out[0] = l / 100
	out[1] = (a + 128) / 255
	out[2] = (b + 128) / 255
}

func labToRGB(in, out []float64) {
	l := in[0] * 100
	a := in[1]*255 - 128
	b := in[2]*255 - 128
	fy := (l + 16) / 116
	fx := fy + a/500
	fz := fy - b/200
	xyz := [3]float64{
		whiteX * labFInv(fx),
		whiteY * labFInv(fy),
		whiteZ * labFInv(fz),
	}
	xyzToRGB(xyz[:], out)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
