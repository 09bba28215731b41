package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/host/v3"

	"github.com/alanbchristie/display"
	"github.com/alanbchristie/display/button"
	"github.com/alanbchristie/display/draw"
	"github.com/alanbchristie/display/font"
	"github.com/alanbchristie/display/internal/config"
	"github.com/alanbchristie/display/pixel"
)

const usage = `Usage: %s [flags] <command> [args]

Commands:
  pair XY                 show two characters
  char OFFSET C           show character C at column OFFSET (0 or 5)
  text STRING             render STRING with the matrix font, clipped to the display
  pixel X Y on|off        set a single pixel
  decimal on|off|- on|off|-
                          set the left and right decimal points, - leaves a point
                          unchanged (every run starts blank, so - shows it off)
  fill on|off             light or blank all pixels, decimal points untouched
  clear                   blank the display
  test                    show a border test pattern
  buttons                 show the name of pressed buttons until interrupted

Flags:
`

func main() {
	configFlag := flag.String("config", "", "YAML configuration file")
	i2cDeviceFlag := flag.Int("i2c-dev", display.DefaultI2CConfig.Device, "I²C bus number (default: use first available)")
	i2cAddrFlag := flag.Uint("i2c-addr", uint(display.DefaultLTP305Config.Addr), "I²C device address (0x61, 0x62 or 0x63)")
	brightnessFlag := flag.Float64("brightness", display.DefaultLTP305Config.Brightness, "Brightness level [0, 1]")
	logFileFlag := flag.String("log-file", "", "Log to a rotated file instead of stderr")
	debounceFlag := flag.Duration("debounce", button.DefaultWindow, "Button debounce window")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg := config.DefaultConfig()
	if *configFlag != "" {
		var err error
		if cfg, err = config.LoadConfig(*configFlag); err != nil {
			fatal(err)
		}
	}
	// Flags given on the command line win over the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i2c-dev":
			cfg.Display.Bus = *i2cDeviceFlag
		case "i2c-addr":
			cfg.Display.Addr = uint16(*i2cAddrFlag)
		case "brightness":
			cfg.Display.Brightness = *brightnessFlag
		case "log-file":
			cfg.Log.File = *logFileFlag
		case "debounce":
			cfg.Buttons.Debounce = *debounceFlag
		}
	})

	if cfg.Log.File != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
		})
	}

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	bus, err := display.OpenI2C(&display.I2CConfig{Device: cfg.Display.Bus})
	if err != nil {
		fatal(err)
	}

	// fatal exits without running deferred calls, so the bus is closed before reporting.
	if err = runOn(bus, cfg, flag.Arg(0), flag.Args()[1:]); err != nil {
		_ = bus.Close()
		fatal(err)
	}
	if err = bus.Close(); err != nil {
		fatal(err)
	}
}

func runOn(bus i2c.Bus, cfg *config.Config, command string, args []string) error {
	output, err := display.NewLTP305(bus, &display.LTP305Config{Addr: cfg.Display.Addr})
	if err != nil {
		return err
	}
	// A zero level selects the default in the constructor, here it means dark.
	if err = output.SetBrightness(cfg.Display.Brightness, false); err != nil {
		return err
	}
	log.Printf("using driver: %s", output)

	return run(output, cfg, command, args)
}

func run(output *display.LTP305, cfg *config.Config, command string, args []string) error {
	switch command {
	case "pair":
		if len(args) != 1 {
			return fmt.Errorf("pair needs one argument")
		}
		if err := output.SetPair(args[0]); err != nil {
			return err
		}

	case "char":
		if len(args) != 2 {
			return fmt.Errorf("char needs an offset and a character")
		}
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid offset %q: %w", args[0], err)
		}
		chars := []rune(args[1])
		if len(chars) != 1 {
			return fmt.Errorf("char needs exactly one character, got %q", args[1])
		}
		if err = output.SetCharacter(x, chars[0]); err != nil {
			return err
		}

	case "text":
		if len(args) != 1 {
			return fmt.Errorf("text needs one argument")
		}
		output.Clear()
		draw.String(output, image.Pt(0, font.Height), font.Face(), args[0], pixel.On)

	case "pixel":
		if len(args) != 3 {
			return fmt.Errorf("pixel needs x, y and on|off")
		}
		x, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[0], err)
		}
		y, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[1], err)
		}
		on, err := parseState(args[2])
		if err != nil {
			return err
		}
		if err = output.SetPixel(x, y, on); err != nil {
			return err
		}

	case "decimal":
		if len(args) != 2 {
			return fmt.Errorf("decimal needs a left and right state")
		}
		left, err := parseDecimal(args[0])
		if err != nil {
			return err
		}
		right, err := parseDecimal(args[1])
		if err != nil {
			return err
		}
		output.SetDecimal(left, right)

	case "fill":
		if len(args) != 1 {
			return fmt.Errorf("fill needs on|off")
		}
		on, err := parseState(args[0])
		if err != nil {
			return err
		}
		draw.Draw(output, output.Bounds(), image.NewUniform(pixel.Mono{On: on}), image.Point{}, draw.Src)

	case "clear":
		output.Clear()

	case "test":
		output.Clear()
		r := output.Bounds()
		draw.Rectangle(output, r, pixel.On)
		draw.Line(output, r.Min, r.Max.Sub(image.Pt(1, 1)), pixel.On)
		output.SetDecimal(display.DecimalOn, display.DecimalOn)

	case "buttons":
		return watchButtons(output, cfg)

	default:
		return fmt.Errorf("unsupported command %q", command)
	}

	return output.Show()
}

func watchButtons(output *display.LTP305, cfg *config.Config) error {
	names := make([]string, 0, len(cfg.Buttons.Pins))
	for name := range cfg.Buttons.Pins {
		names = append(names, name)
	}
	sort.Strings(names)

	buttons, err := button.Lookup(cfg.Buttons.Pins, names...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := button.Watch(ctx, buttons, &button.Options{Queue: cfg.Buttons.Queue})
	if err != nil {
		return err
	}

	output.Clear()
	if err = output.Show(); err != nil {
		return err
	}

	log.Printf("watching buttons %s, hit control-c to stop...", strings.Join(names, ", "))
	for e := range button.Debounce(events, cfg.Buttons.Debounce) {
		log.Printf("pressed %s", e)
		label := e.Name + " "
		if r := []rune(e.Name); len(r) >= 2 {
			label = string(r[:2])
		}
		if err = output.SetPair(label); err != nil {
			return err
		}
		if err = output.Show(); err != nil {
			return err
		}
	}

	output.Clear()
	return output.Show()
}

func parseState(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "1", "true":
		return true, nil
	case "off", "0", "false":
		return false, nil
	default:
		return false, fmt.Errorf("invalid state %q, expected on or off", s)
	}
}

func parseDecimal(s string) (display.Decimal, error) {
	if s == "-" {
		return display.DecimalUnchanged, nil
	}
	on, err := parseState(s)
	if err != nil {
		return display.DecimalUnchanged, err
	}
	if on {
		return display.DecimalOn, nil
	}
	return display.DecimalOff, nil
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "fatal: "+err.Error())
	os.Exit(1)
}
