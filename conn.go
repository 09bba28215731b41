package display

import (
	"periph.io/x/conn/v3/i2c"

	"github.com/alanbchristie/display/conn"
)

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C bus number, use -1 to use the first available bus.
	Device int
}

var DefaultI2CConfig = I2CConfig{
	Device: -1,
}

// OpenI2C opens the I²C bus. The caller owns the returned bus and must close it.
func OpenI2C(config *I2CConfig) (i2c.BusCloser, error) {
	if config == nil {
		config = new(I2CConfig)
		*config = DefaultI2CConfig
	}
	return conn.OpenBus(config.Device)
}
