// Package config loads the ltp305 command configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/alanbchristie/display/button"
)

// Config is the command configuration.
type Config struct {
	Display DisplayConfig `yaml:"display"`
	Buttons ButtonsConfig `yaml:"buttons"`
	Log     LogConfig     `yaml:"log"`
}

// DisplayConfig selects the bus and device.
type DisplayConfig struct {
	// Bus is the I²C bus number, -1 for the first available bus.
	Bus        int     `yaml:"bus"`
	Addr       uint16  `yaml:"addr"`
	Brightness float64 `yaml:"brightness"`
}

// ButtonsConfig maps button names to GPIO pin names.
type ButtonsConfig struct {
	Pins     map[string]string `yaml:"pins"`
	Debounce time.Duration     `yaml:"debounce"`
	Queue    int               `yaml:"queue"`
}

// LogConfig enables logging to a rotated file.
type LogConfig struct {
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	pins := make(map[string]string, len(button.ExplorerPins))
	for name, pin := range button.ExplorerPins {
		pins[name] = pin
	}
	return &Config{
		Display: DisplayConfig{
			Bus:        -1,
			Addr:       0x61,
			Brightness: 0.1,
		},
		Buttons: ButtonsConfig{
			Pins:     pins,
			Debounce: button.DefaultWindow,
			Queue:    button.DefaultQueue,
		},
		Log: LogConfig{
			MaxSizeMB:  1,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads the configuration from a YAML file. Missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()

	// Strict decoding rejects keys already present in a map, so the pins are decoded into an
	// empty map and the defaults merged back for buttons the file leaves out.
	pins := config.Buttons.Pins
	config.Buttons.Pins = nil
	if err = yaml.UnmarshalStrict(data, config); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if config.Buttons.Pins == nil {
		config.Buttons.Pins = make(map[string]string, len(pins))
	}
	for name, pin := range pins {
		if _, ok := config.Buttons.Pins[name]; !ok {
			config.Buttons.Pins[name] = pin
		}
	}
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return config, nil
}

// Validate checks value ranges that the YAML types can't express.
func (c *Config) Validate() error {
	if b := c.Display.Brightness; b < 0 || b > 1 {
		return fmt.Errorf("display brightness %g out of range [0, 1]", b)
	}
	if c.Buttons.Debounce < 0 {
		return fmt.Errorf("negative button debounce %s", c.Buttons.Debounce)
	}
	if c.Buttons.Queue < 0 {
		return fmt.Errorf("negative button queue %d", c.Buttons.Queue)
	}
	return nil
}
