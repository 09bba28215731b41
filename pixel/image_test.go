package pixel

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func TestColumnMatrix(t *testing.T) {
	testImage(t, func() Image { return new(ColumnMatrix) })
}

func TestRowMatrix(t *testing.T) {
	testImage(t, func() Image { return new(RowMatrix) })
}

func TestMatrixLayout(t *testing.T) {
	t.Run("column", func(it *testing.T) {
		var m ColumnMatrix
		m.Set(3, 5, On)
		if m.Matrix[3] != 1<<5 {
			it.Errorf("expected byte 3 to be %#02x, got % x", 1<<5, m.Matrix)
		}
	})
	t.Run("row", func(it *testing.T) {
		var m RowMatrix
		m.Set(3, 5, On)
		if m.Matrix[5] != 1<<3 {
			it.Errorf("expected byte 5 to be %#02x, got % x", 1<<3, m.Matrix)
		}
	})
}

func TestMatrixSetBit(t *testing.T) {
	var m Matrix
	m[2] = 0xa5
	m.SetBit(2, 1, true)
	if m[2] != 0xa7 {
		t.Errorf("expected %#02x, got %#02x", 0xa7, m[2])
	}
	m.SetBit(2, 1, false)
	if m[2] != 0xa5 {
		t.Errorf("expected round trip to %#02x, got %#02x", 0xa5, m[2])
	}
	m.SetBit(8, 0, true)
	m.SetBit(0, 8, true)
	m.SetBit(-1, 0, true)
	if m != (Matrix{2: 0xa5}) {
		t.Errorf("expected out of range writes to be ignored, got % x", m)
	}
	if m.Bit(MatrixSize, 0) || m.Bit(0, -1) {
		t.Error("expected out of range bits to be unset")
	}
}

func TestMono(t *testing.T) {
	tests := []struct {
		c    color.Color
		want Mono
	}{
		{color.Black, Off},
		{color.White, On},
		{color.Transparent, Off},
		{color.Gray{Y: 0x80}, On},
		{color.Gray{Y: 0x7f}, Off},
		{On, On},
	}
	for _, test := range tests {
		if v := MonoModel.Convert(test.c); v != test.want {
			t.Errorf("%#+v: expected %v, got %v", test.c, test.want, v)
		}
	}
}

func testImage(t *testing.T, f func() Image) {
	t.Helper()
	size := image.Pt(MatrixSize, 8)
	i := f()

	if v := i.Bounds().Size(); !v.Eq(size) {
		t.Errorf("expected image size %s, got %s", size, v)
	}
	if v := i.ColorModel(); v != MonoModel {
		t.Errorf("expected color model %T, got %T", MonoModel, v)
	}

	t.Run("in-bounds", func(it *testing.T) {
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				c := testRandomColor()
				i.Set(x, y, c)
				if v := i.ColorModel().Convert(c); i.At(x, y) != v {
					it.Fatalf("pixel (%d,%d) is %#+v, expected %#+v (%v)", x, y, i.At(x, y), v, c)
				}
			}
		}
	})

	t.Run("round-trip", func(it *testing.T) {
		i.Clear()
		i.Set(4, 6, On)
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				want := Off
				if x == 4 && y == 6 {
					want = On
				}
				if v := i.At(x, y); v != want {
					it.Fatalf("pixel (%d,%d) is %v, expected %v", x, y, v, want)
				}
			}
		}
		i.Set(4, 6, Off)
		if v := i.At(4, 6); v != Off {
			it.Fatalf("pixel (4,6) is %v after reset", v)
		}
	})

	t.Run("out-bounds", func(it *testing.T) {
		for y := -size.Y; y < size.Y*2; y++ {
			for x := -size.X; x < size.X*2; x++ {
				if (image.Point{X: x, Y: y}).In(i.Bounds()) {
					continue
				}
				i.Set(x, y, On)
				if v := i.At(x, y); v != color.Transparent {
					it.Fatalf("pixel (%d,%d) is %#+v, expected transparent", x, y, v)
				}
			}
		}
	})

	t.Run("fill", func(it *testing.T) {
		i.Fill(On)
		x, y := rand.Intn(size.X), rand.Intn(size.Y)
		if v := i.At(x, y); v != On {
			it.Fatalf("pixel (%d,%d) is %v, expected on", x, y, v)
		}
	})

	t.Run("clear", func(it *testing.T) {
		i.Clear()
		for y := 0; y < size.Y; y++ {
			for x := 0; x < size.X; x++ {
				if v := i.At(x, y); v != Off {
					it.Fatalf("pixel (%d,%d) is not off", x, y)
				}
			}
		}
	})
}

func testRandomColor() color.Color {
	return color.RGBA{
		R: uint8(rand.Intn(255)),
		G: uint8(rand.Intn(255)),
		B: uint8(rand.Intn(255)),
		A: 0xFF,
	}
}
