package pixel

import "math"

// CastTo converts the array to the target storage type. Casts are total
// functions: out-of-range inputs are clipped, never rejected. The
// identity cast returns the receiver, which is safe because arrays are
// immutable.
//
// The conversion rules are:
//
//   - Real: source values divided by the maximum representable value of
//     the source type; Bit maps to {0,1}.
//   - Byte/Bit16/Bit32 from Real: round(x*max) clipped to range.
//     Between integer types, values are rescaled proportionally.
//   - Bit from anything: truncation to integer, then non-zero means a
//     set bit. Note that this is not a 0.5 threshold: Real values in
//     (0,1) truncate to zero.
func (a *Array) CastTo(t Type) *Array {
	if t == a.typ {
		return a
	}
	if t == Bit {
		return a.castToBit()
	}
	if a.typ == Real {
		return a.realTo(t)
	}
	if t == Real {
		return a.toReal()
	}
	// integer or bit source to a different integer width: proportional
	// rescale through the normalized intermediate.
	return a.toReal().realTo(t)
}

func (a *Array) toReal() *Array {
	out := empty(a.height, a.width, a.channels, Real)
	scale := MaxValue(a.typ)
	n := a.Len()
	for i := 0; i < n; i++ {
		out.reals[i] = a.Value(i) / scale
	}
	return out
}

func clipRound(x, max float64) float64 {
	v := math.Round(x * max)
	if v < 0 {
		return 0
	}
	if v > max {
		return max
	}
	return v
}

func (a *Array) realTo(t Type) *Array {
	out := empty(a.height, a.width, a.channels, t)
	max := MaxValue(t)
	n := a.Len()
	for i := 0; i < n; i++ {
		v := clipRound(a.reals[i], max)
		switch t {
		case Byte:
			out.bytes[i] = uint8(v)
		case Bit16:
			out.words[i] = uint16(v)
		case Bit32:
			out.dwords[i] = uint32(v)
		}
	}
	return out
}

func (a *Array) castToBit() *Array {
	out := empty(a.height, a.width, a.channels, Bit)
	n := a.Len()
	for i := 0; i < n; i++ {
		out.bits[i] = math.Trunc(a.Value(i)) != 0
	}
	return out
}

// Clip returns a Real copy with every value clamped to [lo, hi]. The
// receiver must be a Real array.
func (a *Array) Clip(lo, hi float64) *Array {
	out := empty(a.height, a.width, a.channels, Real)
	for i, v := range a.reals {
		switch {
		case v < lo:
			out.reals[i] = lo
		case v > hi:
			out.reals[i] = hi
		default:
			out.reals[i] = v
		}
	}
	return out
}
