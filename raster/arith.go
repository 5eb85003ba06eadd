package raster

import (
	"fmt"

	"github.com/wudi/imagekit/pixel"
)

// OperandError identifies an arithmetic operand that is neither a
// number nor an image, and its position in the argument list (the base
// image is position 1).
type OperandError struct {
	Position int
	Value    any
}

func (e *OperandError) Error() string {
	return fmt.Sprintf("raster: expecting a number or image instead of %v at position %d", e.Value, e.Position)
}

type arithOp int

const (
	opAdd arithOp = iota
	opSubtract
	opMultiply
)

// Add reduces the image and the operands left to right with addition
// over normalized floats, then clips to [0,1]. Each operand must be a
// number (int or float64) or an *Image of identical shape.
func Add(img *Image, operands ...any) (*Image, error) {
	return reduce(opAdd, img, operands)
}

// Subtract reduces with subtraction; see Add.
func Subtract(img *Image, operands ...any) (*Image, error) {
	return reduce(opSubtract, img, operands)
}

// Multiply reduces with multiplication; see Add.
func Multiply(img *Image, operands ...any) (*Image, error) {
	return reduce(opMultiply, img, operands)
}

func reduce(op arithOp, img *Image, operands []any) (*Image, error) {
	base := img.pix.CastTo(pixel.Real)
	w, h := img.Dimensions()
	c := img.Channels()

	// The accumulator is a copy so the in-place combination below can
	// never corrupt a shared input.
	acc := make([]float64, len(base.Reals()))
	copy(acc, base.Reals())

	for i, operand := range operands {
		switch v := operand.(type) {
		case int:
			applyScalar(op, acc, float64(v))
		case float64:
			applyScalar(op, acc, v)
		case *Image:
			ow, oh := v.Dimensions()
			if ow != w || oh != h || v.Channels() != c {
				return nil, fmt.Errorf("raster: operand %d has incompatible shape %dx%dx%d", i+2, ow, oh, v.Channels())
			}
			applyArray(op, acc, v.pix.CastTo(pixel.Real).Reals())
		default:
			return nil, &OperandError{Position: i + 2, Value: operand}
		}
	}

	for i, v := range acc {
		acc[i] = clip01(v)
	}
	arr, err := pixel.NewReal(h, w, c, acc)
	if err != nil {
		return nil, err
	}
	return img.derive(arr), nil
}

func applyScalar(op arithOp, acc []float64, v float64) {
	switch op {
	case opAdd:
		for i := range acc {
			acc[i] += v
		}
	case opSubtract:
		for i := range acc {
			acc[i] -= v
		}
	case opMultiply:
		for i := range acc {
			acc[i] *= v
		}
	}
}

func applyArray(op arithOp, acc, other []float64) {
	switch op {
	case opAdd:
		for i := range acc {
			acc[i] += other[i]
		}
	case opSubtract:
		for i := range acc {
			acc[i] -= other[i]
		}
	case opMultiply:
		for i := range acc {
			acc[i] *= other[i]
		}
	}
}
