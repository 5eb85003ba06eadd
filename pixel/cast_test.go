package pixel

import (
	"math"
	"testing"
)

func mustReal(t *testing.T, h, w, c int, data []float64) *Array {
	t.Helper()
	a, err := NewReal(h, w, c, data)
	if err != nil {
		t.Fatalf("NewReal failed: %v", err)
	}
	return a
}

func TestCastIdentity(t *testing.T) {
	a := mustReal(t, 1, 2, 1, []float64{0.25, 0.75})
	if a.CastTo(Real) != a {
		t.Errorf("identity cast should return the same array")
	}
}

func TestByteRoundTrip(t *testing.T) {
	// Real -> Byte -> Real stays within one quantization step.
	data := []float64{0, 0.1, 0.25, 0.5, 0.9, 1}
	a := mustReal(t, 1, len(data), 1, data)
	back := a.CastTo(Byte).CastTo(Real)
	for i, want := range data {
		got := back.Value(i)
		if math.Abs(got-want) > 1.0/255 {
			t.Errorf("element %d: got %v, want %v within 1/255", i, got, want)
		}
	}
}

func TestRealToByteClipsAndRounds(t *testing.T) {
	a := mustReal(t, 1, 4, 1, []float64{-0.5, 0.5, 1.5, 0.998})
	b := a.CastTo(Byte)
	want := []float64{0, 128, 255, 254}
	for i, w := range want {
		if got := b.Value(i); got != w {
			t.Errorf("element %d: got %v, want %v", i, got, w)
		}
	}
}

func TestProportionalRescale(t *testing.T) {
	a, err := NewByte(1, 3, 1, []uint8{0, 128, 255})
	if err != nil {
		t.Fatalf("NewByte failed: %v", err)
	}
	b := a.CastTo(Bit16)
	want := []float64{0, 128 * 257, 65535}
	for i, w := range want {
		if got := b.Value(i); got != w {
			t.Errorf("element %d: got %v, want %v", i, got, w)
		}
	}
}

func TestBitCastTruncates(t *testing.T) {
	// Truncation, not thresholding: 0.9 truncates to zero.
	a := mustReal(t, 1, 4, 1, []float64{0, 0.9, 1, 2.4})
	b := a.CastTo(Bit)
	want := []float64{0, 0, 1, 1}
	for i, w := range want {
		if got := b.Value(i); got != w {
			t.Errorf("element %d: got %v, want %v", i, got, w)
		}
	}
}

func TestBitToReal(t *testing.T) {
	a, err := NewBit(1, 2, 1, []bool{false, true})
	if err != nil {
		t.Fatalf("NewBit failed: %v", err)
	}
	r := a.CastTo(Real)
	if r.Value(0) != 0 || r.Value(1) != 1 {
		t.Errorf("bit to real: got %v, %v", r.Value(0), r.Value(1))
	}
}

func TestParseType(t *testing.T) {
	for _, name := range []string{"Real", "Byte", "Bit16", "Bit32", "Bit"} {
		typ, err := ParseType(name)
		if err != nil {
			t.Fatalf("ParseType(%q) failed: %v", name, err)
		}
		if typ.String() != name {
			t.Errorf("ParseType(%q) = %v", name, typ)
		}
	}
	if _, err := ParseType("Bytf"); err == nil {
		t.Errorf("expected error for unknown format name")
	}
}

func TestEqualIsBitExact(t *testing.T) {
	a := mustReal(t, 1, 2, 1, []float64{0.5, 0.25})
	b := mustReal(t, 1, 2, 1, []float64{0.5, 0.25})
	c := mustReal(t, 1, 2, 1, []float64{0.5, 0.250000001})
	if !a.Equal(b) {
		t.Errorf("identical arrays must compare equal")
	}
	if a.Equal(c) {
		t.Errorf("nearly equal arrays must not compare equal")
	}
	if a.Equal(a.CastTo(Byte)) {
		t.Errorf("arrays of different storage types must not compare equal")
	}
}

func TestAppendBytesDeterministic(t *testing.T) {
	a := mustReal(t, 2, 1, 1, []float64{0.5, 0.75})
	b := mustReal(t, 2, 1, 1, []float64{0.5, 0.75})
	ab := a.AppendBytes(nil)
	bb := b.AppendBytes(nil)
	if string(ab) != string(bb) {
		t.Errorf("equal arrays must encode identically")
	}
	// Shape is part of the encoding.
	c := mustReal(t, 1, 2, 1, []float64{0.5, 0.75})
	if string(ab) == string(c.AppendBytes(nil)) {
		t.Errorf("different shapes must encode differently")
	}
}

func TestShapeValidation(t *testing.T) {
	if _, err := NewReal(2, 2, 1, []float64{1, 2, 3}); err == nil {
		t.Errorf("expected shape error for short data")
	}
	if _, err := NewByte(1, 1, 0, nil); err == nil {
		t.Errorf("expected shape error for zero channels")
	}
}
