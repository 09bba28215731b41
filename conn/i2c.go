// Package conn wraps periph.io buses for register based devices.
package conn

import (
	"fmt"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// OpenBus opens the numbered I²C bus. Use a negative device to open the first available bus.
func OpenBus(device int) (i2c.BusCloser, error) {
	if device < 0 {
		return i2creg.Open("")
	}
	return i2creg.Open(strconv.FormatInt(int64(device), 10))
}

// I2C is a device at a fixed address on an I²C bus. It does not own the bus.
type I2C struct {
	bus  i2c.Bus
	addr uint16
	dev  *i2c.Dev
}

// NewI2C binds addr on bus.
func NewI2C(bus i2c.Bus, addr uint16) *I2C {
	return &I2C{
		bus:  bus,
		addr: addr,
		dev:  &i2c.Dev{Bus: bus, Addr: addr},
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s address %#02x", c.bus, c.addr)
}

// Addr is the device address.
func (c *I2C) Addr() uint16 {
	return c.addr
}

// WriteRegister writes data starting at register reg, as a single bus transaction.
func (c *I2C) WriteRegister(reg byte, data ...byte) error {
	return c.dev.Tx(append([]byte{reg}, data...), nil)
}
