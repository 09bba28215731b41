package display

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"periph.io/x/conn/v3/i2c"

	"github.com/alanbchristie/display/conn"
	"github.com/alanbchristie/display/font"
	"github.com/alanbchristie/display/pixel"
)

const (
	ltp305Width             = 10
	ltp305Height            = 7
	ltp305CharWidth         = 5
	ltp305DefaultAddr       = 0x61
	ltp305DefaultBrightness = 0.1
	ltp305MaxBrightness     = 127
)

// IS31FL3730 registers, as wired on the LTP305 breakout.
const (
	ltp305SetMode       = 0x00
	ltp305SetMatrixR    = 0x01
	ltp305Update        = 0x0C
	ltp305SetOptions    = 0x0D
	ltp305SetMatrixL    = 0x0E
	ltp305SetBrightness = 0x19
)

const (
	// Bits 4:3 (11) drive both matrices, bit 2 (0) audio input off, bits 1:0 (00) 8x8 size.
	ltp305Mode = 0b00011000

	// Bits 3:0 select the LED drive current, 1110 is 35mA (0000 would be 40mA).
	ltp305Options = 0b00001110

	// Any write to the update register latches the matrix data.
	ltp305UpdateValue = 0x01
)

// Both decimal points sit at (7,6) of their matrix image: byte 7 bit 6 on the left
// (column-major) matrix, byte 6 bit 7 on the right (row-major) matrix.
const (
	ltp305DecimalX = 7
	ltp305DecimalY = 6
)

var ltp305Addresses = [...]uint16{0x61, 0x62, 0x63}

// LTP305Addresses returns the addresses selectable on the LTP305 breakout.
func LTP305Addresses() []uint16 {
	return append([]uint16(nil), ltp305Addresses[:]...)
}

// Decimal is the requested state of a decimal point.
type Decimal int8

// Decimal point states.
const (
	DecimalUnchanged Decimal = iota
	DecimalOff
	DecimalOn
)

func (d Decimal) String() string {
	switch d {
	case DecimalOff:
		return "off"
	case DecimalOn:
		return "on"
	default:
		return "unchanged"
	}
}

// LTP305Config is the LTP305 configuration.
type LTP305Config struct {
	// Addr is the I²C address, one of LTP305Addresses. Zero selects 0x61.
	Addr uint16

	// Brightness in the range [0, 1]. Zero selects 0.1, use SetBrightness to start dark.
	Brightness float64
}

var DefaultLTP305Config = LTP305Config{
	Addr:       ltp305DefaultAddr,
	Brightness: ltp305DefaultBrightness,
}

// LTP305 is a dual 5×7 LED matrix with a decimal point beside each matrix.
//
// Pixel x 0-4 is on the left matrix, 5-9 on the right matrix. The right matrix is wired
// transposed: its register bytes hold rows where the left matrix holds columns.
type LTP305 struct {
	c          Conn
	left       pixel.ColumnMatrix
	right      pixel.RowMatrix
	brightness uint8
}

// NewLTP305 binds an LTP305 on bus. Nothing is sent to the device until Show is called.
func NewLTP305(bus i2c.Bus, config *LTP305Config) (*LTP305, error) {
	if bus == nil {
		return nil, ErrNoBus
	}

	cfg := DefaultLTP305Config
	if config != nil {
		cfg = *config
	}
	if cfg.Addr == 0 {
		cfg.Addr = ltp305DefaultAddr
	}
	if cfg.Brightness == 0 {
		cfg.Brightness = ltp305DefaultBrightness
	}

	var valid bool
	for _, addr := range ltp305Addresses {
		if valid = addr == cfg.Addr; valid {
			break
		}
	}
	if !valid {
		return nil, fmt.Errorf("%w %#02x for LTP305", ErrAddress, cfg.Addr)
	}

	brightness, err := ltp305Brightness(cfg.Brightness)
	if err != nil {
		return nil, err
	}

	d := &LTP305{
		c:          conn.NewI2C(bus, cfg.Addr),
		brightness: brightness,
	}
	d.Clear()
	return d, nil
}

func (d *LTP305) String() string {
	return fmt.Sprintf("LTP305 LED matrix %dx%d on %s", ltp305Width, ltp305Height, d.c)
}

// Clear both matrices, including the decimal points.
func (d *LTP305) Clear() {
	d.left.Clear()
	d.right.Clear()
}

// Bounds of the lit area: 10×7 pixels.
func (d *LTP305) Bounds() image.Rectangle {
	return image.Rect(0, 0, ltp305Width, ltp305Height)
}

func (d *LTP305) ColorModel() color.Model {
	return pixel.MonoModel
}

func (d *LTP305) At(x, y int) color.Color {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return color.Transparent
	}
	return pixel.Mono{On: d.pixel(x, y)}
}

func (d *LTP305) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}).In(d.Bounds()) {
		return
	}
	d.setPixel(x, y, pixel.MonoModel.Convert(c).(pixel.Mono).On)
}

// Brightness is the brightness register value, 0-127.
func (d *LTP305) Brightness() uint8 {
	return d.brightness
}

// SetBrightness scales level in the range [0, 1] to the brightness register (0-127),
// rounding half away from zero. Out of range levels are rejected and leave the brightness
// unchanged. A failed transmission keeps the new level for the next Show.
func (d *LTP305) SetBrightness(level float64, transmit bool) error {
	brightness, err := ltp305Brightness(level)
	if err != nil {
		return err
	}
	d.brightness = brightness
	if transmit {
		return d.write(ltp305SetBrightness, d.brightness)
	}
	return nil
}

func ltp305Brightness(level float64) (uint8, error) {
	if math.IsNaN(level) || level < 0 || level > 1 {
		return 0, fmt.Errorf("%w: %g", ErrBrightness, level)
	}
	v := math.Round(level * ltp305MaxBrightness)
	return uint8(math.Max(0, math.Min(ltp305MaxBrightness, v))), nil
}

// Decimal reports the decimal point states.
func (d *LTP305) Decimal() (left, right bool) {
	return d.left.Bit(ltp305DecimalX, ltp305DecimalY), d.right.Bit(ltp305DecimalY, ltp305DecimalX)
}

// SetDecimal sets the left and right decimal points. Use DecimalUnchanged to leave a
// decimal point as is.
func (d *LTP305) SetDecimal(left, right Decimal) {
	if left != DecimalUnchanged {
		d.left.Set(ltp305DecimalX, ltp305DecimalY, pixel.Mono{On: left == DecimalOn})
	}
	if right != DecimalUnchanged {
		d.right.Set(ltp305DecimalX, ltp305DecimalY, pixel.Mono{On: right == DecimalOn})
	}
}

// Pixel reports if pixel (x, y) is lit, with x in [0, 9] and y in [0, 7].
func (d *LTP305) Pixel(x, y int) (bool, error) {
	if err := ltp305CheckPixel(x, y); err != nil {
		return false, err
	}
	return d.pixel(x, y), nil
}

// SetPixel sets pixel (x, y), with x in [0, 9] and y in [0, 7].
func (d *LTP305) SetPixel(x, y int, on bool) error {
	if err := ltp305CheckPixel(x, y); err != nil {
		return err
	}
	d.setPixel(x, y, on)
	return nil
}

func ltp305CheckPixel(x, y int) error {
	if x < 0 || x >= ltp305Width || y < 0 || y >= pixel.MatrixSize {
		return fmt.Errorf("%w: pixel (%d,%d)", ErrBounds, x, y)
	}
	return nil
}

func (d *LTP305) pixel(x, y int) bool {
	if x < ltp305CharWidth {
		return d.left.Bit(x, y)
	}
	return d.right.Bit(y, x-ltp305CharWidth)
}

// Left matrix bytes are columns, right matrix bytes are rows.
func (d *LTP305) setPixel(x, y int, on bool) {
	if x < ltp305CharWidth {
		d.left.SetBit(x, y, on)
	} else {
		d.right.SetBit(y, x-ltp305CharWidth, on)
	}
}

// SetCharacter draws character c with its left column at x, which is 0 for the left matrix
// and 5 for the right matrix. All 5×8 pixels of the cell are written, so row 7 is cleared.
func (d *LTP305) SetCharacter(x int, c rune) error {
	if x < 0 || x > ltp305Width-ltp305CharWidth {
		return fmt.Errorf("%w: character offset %d", ErrBounds, x)
	}
	g, err := font.LookupRune(c)
	if err != nil {
		return err
	}
	d.setGlyph(x, g)
	return nil
}

// SetPair draws two characters, the first on the left and the second on the right matrix.
// Nothing changes unless both characters are in the font.
func (d *LTP305) SetPair(s string) error {
	chars := []rune(s)
	if len(chars) != 2 {
		return fmt.Errorf("%w, got %q", ErrPairLength, s)
	}
	var glyphs [2]font.Glyph
	for i, c := range chars {
		var err error
		if glyphs[i], err = font.LookupRune(c); err != nil {
			return err
		}
	}
	d.setGlyph(0, glyphs[0])
	d.setGlyph(ltp305CharWidth, glyphs[1])
	return nil
}

func (d *LTP305) setGlyph(x int, g font.Glyph) {
	for cx := 0; cx < font.Width; cx++ {
		for cy := 0; cy < pixel.MatrixSize; cy++ {
			d.setPixel(x+cx, cy, g.Bit(cx, cy))
		}
	}
}

// Buffers returns a copy of the left and right matrix registers.
func (d *LTP305) Buffers() (left, right [pixel.MatrixSize]byte) {
	return d.left.Matrix, d.right.Matrix
}

// Show sends both matrices, then the mode, options and brightness, and finally latches the
// new contents with an update. The device does not keep mode and options reliably, so they
// are sent on every refresh. The first failed write aborts; the buffers are kept, so a later
// Show sends the same contents.
func (d *LTP305) Show() error {
	return d.writes(
		append([]byte{ltp305SetMatrixL}, d.left.Bytes()...),
		append([]byte{ltp305SetMatrixR}, d.right.Bytes()...),
		[]byte{ltp305SetMode, ltp305Mode},
		[]byte{ltp305SetOptions, ltp305Options},
		[]byte{ltp305SetBrightness, d.brightness},
		[]byte{ltp305Update, ltp305UpdateValue},
	)
}

func (d *LTP305) writes(registers ...[]byte) (err error) {
	for _, register := range registers {
		if err = d.write(register[0], register[1:]...); err != nil {
			return
		}
	}
	return
}

func (d *LTP305) write(reg byte, data ...byte) error {
	if debug {
		log.Printf("display: LTP305 %#02x register %#02x <- % x", d.c.Addr(), reg, data)
	}
	if err := d.c.WriteRegister(reg, data...); err != nil {
		return fmt.Errorf("display: LTP305 %#02x write register %#02x: %w", d.c.Addr(), reg, err)
	}
	return nil
}

// Interface checks.
var (
	_ Display = (*LTP305)(nil)
	_ Conn    = (*conn.I2C)(nil)
)
