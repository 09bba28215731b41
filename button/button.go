// Package button turns button presses on GPIO pins into a stream of events.
//
// Each watched pin has its own edge loop that only timestamps the press and queues it on a
// bounded channel. A single consumer, see [Debounce], drops the repeats.
package button

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// Defaults.
const (
	DefaultQueue  = 8
	DefaultWindow = time.Second

	// edgePoll bounds how long an edge loop waits before checking for cancellation.
	edgePoll = 100 * time.Millisecond
)

var debug = os.Getenv("DISPLAY_DEBUG") != ""

var ErrNoButtons = errors.New("button: no buttons")

// Button is a named push button on an input pin. Buttons short the pin to ground.
type Button struct {
	Name string
	Pin  gpio.PinIn
}

// Event is a button press.
type Event struct {
	Name string
	Time time.Time
}

func (e Event) String() string {
	return fmt.Sprintf("%s@%s", e.Name, e.Time.Format("15:04:05.000"))
}

// Options for Watch.
type Options struct {
	// Queue is the event channel capacity. Presses are dropped while the queue is full.
	Queue int

	// Clock stamps the events, defaults to the real clock.
	Clock clockwork.Clock
}

// ExplorerPins maps the Pico Explorer buttons to their GPIO pins.
var ExplorerPins = map[string]string{
	"A": "GPIO12",
	"B": "GPIO13",
	"X": "GPIO14",
	"Y": "GPIO15",
}

// Lookup resolves the pins of the named buttons with the gpioreg registry. Buttons are
// returned in the order of names.
func Lookup(pins map[string]string, names ...string) ([]Button, error) {
	buttons := make([]Button, 0, len(names))
	for _, name := range names {
		pinName, ok := pins[name]
		if !ok {
			return nil, fmt.Errorf("button: no pin for button %q", name)
		}
		pin := gpioreg.ByName(pinName)
		if pin == nil {
			return nil, fmt.Errorf("button: pin %s for button %q not found", pinName, name)
		}
		buttons = append(buttons, Button{Name: name, Pin: pin})
	}
	return buttons, nil
}

// ExplorerButtons resolves the A, B, X and Y buttons of the Pico Explorer.
func ExplorerButtons() ([]Button, error) {
	return Lookup(ExplorerPins, "A", "B", "X", "Y")
}

// Watch configures each pin as pulled up input with falling edge detection and queues an
// event for every edge. The returned channel is closed once ctx is done and all edge loops
// have returned.
func Watch(ctx context.Context, buttons []Button, options *Options) (<-chan Event, error) {
	if len(buttons) == 0 {
		return nil, ErrNoButtons
	}

	var (
		queue = DefaultQueue
		clock = clockwork.NewRealClock()
	)
	if options != nil {
		if options.Queue > 0 {
			queue = options.Queue
		}
		if options.Clock != nil {
			clock = options.Clock
		}
	}

	for _, b := range buttons {
		if err := b.Pin.In(gpio.PullUp, gpio.FallingEdge); err != nil {
			return nil, fmt.Errorf("button: %s on %s: %w", b.Name, b.Pin, err)
		}
	}

	var (
		events = make(chan Event, queue)
		wait   sync.WaitGroup
	)
	for _, b := range buttons {
		wait.Add(1)
		go func(b Button) {
			defer wait.Done()
			watch(ctx, b, clock, events)
		}(b)
	}
	go func() {
		wait.Wait()
		close(events)
	}()
	return events, nil
}

func watch(ctx context.Context, b Button, clock clockwork.Clock, events chan<- Event) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !b.Pin.WaitForEdge(edgePoll) {
			continue
		}
		select {
		case events <- Event{Name: b.Name, Time: clock.Now()}:
		default:
			if debug {
				log.Printf("button: queue full, dropped %s", b.Name)
			}
		}
	}
}

// Debounce forwards the events of in, dropping every event that follows a forwarded event of
// the same button within window. The returned channel is closed when in is closed.
func Debounce(in <-chan Event, window time.Duration) <-chan Event {
	out := make(chan Event, cap(in))
	go func() {
		defer close(out)
		last := make(map[string]time.Time)
		for e := range in {
			if t, seen := last[e.Name]; seen && e.Time.Sub(t) < window {
				continue
			}
			last[e.Name] = e.Time
			out <- e
		}
	}()
	return out
}
