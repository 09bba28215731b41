// Package display contains drivers for small monochrome LED matrix displays.
//
// Drivers keep the display contents in memory; setters only change the buffers and nothing
// is sent to the hardware until Show is called. Drivers are not safe for concurrent use.
package display

import (
	"errors"
	"os"

	"github.com/alanbchristie/display/draw"
)

var debug bool

func init() {
	debug = os.Getenv("DISPLAY_DEBUG") != ""
}

// Errors
var (
	ErrBounds     = errors.New("display: out of display bounds")
	ErrAddress    = errors.New("display: invalid device address")
	ErrBrightness = errors.New("display: brightness out of range [0, 1]")
	ErrPairLength = errors.New("display: character pair needs exactly two characters")
	ErrNoBus      = errors.New("display: no bus")
)

// Display is a monochrome LED matrix display.
type Display interface {
	draw.Image

	// Clear the display buffer.
	Clear()

	// SetBrightness sets the brightness level in the range [0, 1]. When transmit is set, the
	// new level is sent to the device immediately, otherwise it is sent by the next Show.
	SetBrightness(level float64, transmit bool) error

	// Show sends the display buffer to the device.
	Show() error
}

// Conn is the connection interface for register based devices.
type Conn interface {
	String() string

	// Addr is the device address on the bus.
	Addr() uint16

	// WriteRegister writes data starting at register reg.
	WriteRegister(reg byte, data ...byte) error
}
