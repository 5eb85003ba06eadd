// Package pixel defines the dense pixel buffer shared by all image
// operations, together with the storage-type enumeration and the total
// cast functions between storage representations.
package pixel

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
)

// Type identifies the numeric representation of pixel values,
// independent of color space.
type Type int

const (
	// Real stores normalized floating-point values with domain [0,1].
	Real Type = iota
	// Byte stores unsigned 8-bit values with domain [0,255].
	Byte
	// Bit16 stores unsigned 16-bit values.
	Bit16
	// Bit32 stores unsigned 32-bit values.
	Bit32
	// Bit stores boolean mask values.
	Bit
)

var typeNames = map[Type]string{
	Real:  "Real",
	Byte:  "Byte",
	Bit16: "Bit16",
	Bit32: "Bit32",
	Bit:   "Bit",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType resolves a storage-type name. Unknown names are reported
// with the offending name so callers can surface it verbatim.
func ParseType(name string) (Type, error) {
	for t, n := range typeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unsupported pixel format %q", name)
}

// MaxValue returns the maximum representable pixel value for a type.
// Bit is treated as {0,1}.
func MaxValue(t Type) float64 {
	switch t {
	case Real, Bit:
		return 1
	case Byte:
		return 255
	case Bit16:
		return 65535
	case Bit32:
		return 4294967295
	}
	panic("pixel: unknown storage type")
}

var errShape = errors.New("pixel: data length does not match shape")

// Array is a dense, immutable [height][width][channel] pixel buffer in
// row-major order with the top row first. The channel dimension is
// always present. Arrays are never mutated after construction; every
// transform allocates a new one.
type Array struct {
	height, width, channels int
	typ                     Type

	// Exactly one backing slice is non-nil, matching typ.
	reals  []float64
	bytes  []uint8
	words  []uint16
	dwords []uint32
	bits   []bool
}

func checkShape(h, w, c, n int) error {
	if h < 0 || w < 0 || c <= 0 || h*w*c != n {
		return errShape
	}
	return nil
}

// NewReal builds a Real array over data, which must have h*w*c elements.
func NewReal(h, w, c int, data []float64) (*Array, error) {
	if err := checkShape(h, w, c, len(data)); err != nil {
		return nil, err
	}
	return &Array{height: h, width: w, channels: c, typ: Real, reals: data}, nil
}

// NewByte builds a Byte array over data, which must have h*w*c elements.
func NewByte(h, w, c int, data []uint8) (*Array, error) {
	if err := checkShape(h, w, c, len(data)); err != nil {
		return nil, err
	}
	return &Array{height: h, width: w, channels: c, typ: Byte, bytes: data}, nil
}

// NewUint16 builds a Bit16 array over data, which must have h*w*c elements.
func NewUint16(h, w, c int, data []uint16) (*Array, error) {
	if err := checkShape(h, w, c, len(data)); err != nil {
		return nil, err
	}
	return &Array{height: h, width: w, channels: c, typ: Bit16, words: data}, nil
}

// NewUint32 builds a Bit32 array over data, which must have h*w*c elements.
func NewUint32(h, w, c int, data []uint32) (*Array, error) {
	if err := checkShape(h, w, c, len(data)); err != nil {
		return nil, err
	}
	return &Array{height: h, width: w, channels: c, typ: Bit32, dwords: data}, nil
}

// NewBit builds a Bit array over data, which must have h*w*c elements.
func NewBit(h, w, c int, data []bool) (*Array, error) {
	if err := checkShape(h, w, c, len(data)); err != nil {
		return nil, err
	}
	return &Array{height: h, width: w, channels: c, typ: Bit, bits: data}, nil
}

func (a *Array) Height() int   { return a.height }
func (a *Array) Width() int    { return a.width }
func (a *Array) Channels() int { return a.channels }
func (a *Array) Type() Type    { return a.typ }

// Len returns the total number of scalar elements.
func (a *Array) Len() int { return a.height * a.width * a.channels }

// Value returns the raw numeric value at flat index i, without any
// normalization. Bit values map to 0 and 1.
func (a *Array) Value(i int) float64 {
	switch a.typ {
	case Real:
		return a.reals[i]
	case Byte:
		return float64(a.bytes[i])
	case Bit16:
		return float64(a.words[i])
	case Bit32:
		return float64(a.dwords[i])
	case Bit:
		if a.bits[i] {
			return 1
		}
		return 0
	}
	panic("pixel: unknown storage type")
}

// At returns the raw value at row y, column x, channel c. Row 0 is the
// top row of storage.
func (a *Array) At(y, x, c int) float64 {
	return a.Value((y*a.width+x)*a.channels + c)
}

// Reals returns the backing float slice of a Real array, nil otherwise.
// Callers must not mutate it.
func (a *Array) Reals() []float64 {
	return a.reals
}

// Equal reports bit-exact equality: same shape, same storage type and
// identical element values. There is no tolerance-based comparison.
func (a *Array) Equal(b *Array) bool {
	if a.height != b.height || a.width != b.width || a.channels != b.channels || a.typ != b.typ {
		return false
	}
	n := a.Len()
	for i := 0; i < n; i++ {
		switch a.typ {
		case Real:
			if math.Float64bits(a.reals[i]) != math.Float64bits(b.reals[i]) {
				return false
			}
		case Byte:
			if a.bytes[i] != b.bytes[i] {
				return false
			}
		case Bit16:
			if a.words[i] != b.words[i] {
				return false
			}
		case Bit32:
			if a.dwords[i] != b.dwords[i] {
				return false
			}
		case Bit:
			if a.bits[i] != b.bits[i] {
				return false
			}
		}
	}
	return true
}

// AppendBytes appends a canonical byte encoding of the array contents
// to dst. Two arrays with equal shape, type and values always produce
// the same encoding, which makes it suitable as hash input.
func (a *Array) AppendBytes(dst []byte) []byte {
	var hdr [16]byte
	binary.LittleEndian.PutUint32(hdr[0:], uint32(a.height))
	binary.LittleEndian.PutUint32(hdr[4:], uint32(a.width))
	binary.LittleEndian.PutUint32(hdr[8:], uint32(a.channels))
	binary.LittleEndian.PutUint32(hdr[12:], uint32(a.typ))
	dst = append(dst, hdr[:]...)
	n := a.Len()
	for i := 0; i < n; i++ {
		switch a.typ {
		case Real:
			dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(a.reals[i]))
		case Byte:
			dst = append(dst, a.bytes[i])
		case Bit16:
			dst = binary.LittleEndian.AppendUint16(dst, a.words[i])
		case Bit32:
			dst = binary.LittleEndian.AppendUint32(dst, a.dwords[i])
		case Bit:
			if a.bits[i] {
				dst = append(dst, 1)
			} else {
				dst = append(dst, 0)
			}
		}
	}
	return dst
}

// empty allocates an array of the given shape and type with zeroed
// backing storage.
func empty(h, w, c int, t Type) *Array {
	a := &Array{height: h, width: w, channels: c, typ: t}
	n := h * w * c
	switch t {
	case Real:
		a.reals = make([]float64, n)
	case Byte:
		a.bytes = make([]uint8, n)
	case Bit16:
		a.words = make([]uint16, n)
	case Bit32:
		a.dwords = make([]uint32, n)
	case Bit:
		a.bits = make([]bool, n)
	}
	return a
}

// copyElem copies the element at src index si into dst index di. Both
// arrays must share the same storage type.
func copyElem(dst *Array, di int, src *Array, si int) {
	switch src.typ {
	case Real:
		dst.reals[di] = src.reals[si]
	case Byte:
		dst.bytes[di] = src.bytes[si]
	case Bit16:
		dst.words[di] = src.words[si]
	case Bit32:
		dst.dwords[di] = src.dwords[si]
	case Bit:
		dst.bits[di] = src.bits[si]
	}
}

// Remap builds a new h×w array of the same type and channel count by
// pulling each destination pixel from the source position returned by
// src. It backs the crop, flip and transpose operations.
func (a *Array) Remap(h, w int, src func(y, x int) (int, int)) *Array {
	out := empty(h, w, a.channels, a.typ)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			sy, sx := src(y, x)
			di := (y*w + x) * a.channels
			si := (sy*a.width + sx) * a.channels
			for c := 0; c < a.channels; c++ {
				copyElem(out, di+c, a, si+c)
			}
		}
	}
	return out
}
