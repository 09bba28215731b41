package pixel

import (
	"image"
	"image/color"

	"github.com/alanbchristie/display/draw"
)

type Image interface {
	draw.Image

	// Clear the image.
	Clear()

	// Fill the image with a single color.
	Fill(color.Color)
}

// MatrixSize is the number of register bytes backing one LED matrix.
const MatrixSize = 8

// Matrix holds the register bytes of one LED matrix.
type Matrix [MatrixSize]byte

// Bit reports if bit of byte index is set. Out of range positions are unset.
func (m *Matrix) Bit(index, bit int) bool {
	if index < 0 || index >= MatrixSize || bit < 0 || bit > 7 {
		return false
	}
	return m[index]&(1<<uint(bit)) != 0
}

// SetBit sets or clears bit of byte index, leaving all other bits untouched.
func (m *Matrix) SetBit(index, bit int, on bool) {
	if index < 0 || index >= MatrixSize || bit < 0 || bit > 7 {
		return
	}
	if on {
		m[index] |= 1 << uint(bit)
	} else {
		m[index] &^= 1 << uint(bit)
	}
}

// Clear all bits.
func (m *Matrix) Clear() {
	*m = Matrix{}
}

// Bytes returns the register bytes, sharing the underlying storage.
func (m *Matrix) Bytes() []byte {
	return m[:]
}

func (m *Matrix) fill(c color.Color) {
	var value byte
	if monoModel(c).(Mono).On {
		value = 0xff
	}
	for i := range m {
		m[i] = value
	}
}

var matrixBounds = image.Rect(0, 0, MatrixSize, 8)

// ColumnMatrix addresses a Matrix column by column: byte x holds column x, bit y is row y.
type ColumnMatrix struct {
	Matrix
}

func (p *ColumnMatrix) Bounds() image.Rectangle {
	return matrixBounds
}

func (p *ColumnMatrix) ColorModel() color.Model {
	return MonoModel
}

func (p *ColumnMatrix) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(matrixBounds) {
		return color.Transparent
	}
	return Mono{On: p.Bit(x, y)}
}

func (p *ColumnMatrix) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(matrixBounds) {
		return
	}
	p.SetBit(x, y, monoModel(c).(Mono).On)
}

func (p *ColumnMatrix) Fill(c color.Color) {
	p.fill(c)
}

// RowMatrix addresses a Matrix row by row: byte y holds row y, bit x is column x.
type RowMatrix struct {
	Matrix
}

func (p *RowMatrix) Bounds() image.Rectangle {
	return matrixBounds
}

func (p *RowMatrix) ColorModel() color.Model {
	return MonoModel
}

func (p *RowMatrix) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(matrixBounds) {
		return color.Transparent
	}
	return Mono{On: p.Bit(y, x)}
}

func (p *RowMatrix) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(matrixBounds) {
		return
	}
	p.SetBit(y, x, monoModel(c).(Mono).On)
}

func (p *RowMatrix) Fill(c color.Color) {
	p.fill(c)
}

// Interface checks.
var (
	_ Image = (*ColumnMatrix)(nil)
	_ Image = (*RowMatrix)(nil)
)
