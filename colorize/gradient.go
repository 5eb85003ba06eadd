package colorize

import "errors"

// ErrBadGradient reports a gradient with fewer than two color stops.
var ErrBadGradient = errors.New("colorize: a gradient needs at least two color stops")

// RGB is a color with normalized components.
type RGB [3]float64

// Gradient interpolates linearly between a sequence of evenly spaced
// color stops.
type Gradient struct {
	stops []RGB
}

// NewGradient builds a gradient from its color stops.
func NewGradient(stops ...RGB) (*Gradient, error) {
	if len(stops) < 2 {
		return nil, ErrBadGradient
	}
	s := make([]RGB, len(stops))
	copy(s, stops)
	return &Gradient{stops: s}, nil
}

// Default is the gradient used when the caller does not supply one, a
// lake-like ramp from deep violet through pale blue to sand.
func Default() *Gradient {
	return &Gradient{stops: []RGB{
		{0.293, 0.057, 0.529},
		{0.564, 0.528, 0.909},
		{0.763, 0.847, 0.914},
		{0.941, 0.907, 0.834},
	}}
}

// At samples the gradient at position t in [0,1]. Positions outside
// the range clamp to the nearest end.
func (g *Gradient) At(t float64) RGB {
	if t <= 0 {
		return g.stops[0]
	}
	if t >= 1 {
		return g.stops[len(g.stops)-1]
	}
	segments := float64(len(g.stops) - 1)
	pos := t * segments
	i := int(pos)
	frac := pos - float64(i)
	a, b := g.stops[i], g.stops[i+1]
	var c RGB
	for k := 0; k < 3; k++ {
		c[k] = a[k] + (b[k]-a[k])*frac
	}
	return c
}

// Samples returns n colors evenly spaced along the gradient. A single
// sample takes the gradient's start color.
func (g *Gradient) Samples(n int) []RGB {
	out := make([]RGB, n)
	if n == 1 {
		out[0] = g.At(0)
		return out
	}
	for i := 0; i < n; i++ {
		out[i] = g.At(float64(i) / float64(n-1))
	}
	return out
}
