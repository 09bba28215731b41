package button

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"gotest.tools/assert"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/gpio/gpiotest"
)

func testPin(name string, num int) *gpiotest.Pin {
	return &gpiotest.Pin{N: name, Num: num, EdgesChan: make(chan gpio.Level)}
}

func drain(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return out
			}
			out = append(out, e)
		case <-timeout:
			t.Fatal("timeout waiting for the event channel to close")
		}
	}
}

func TestWatch(t *testing.T) {
	var (
		ctx, cancel = context.WithCancel(context.Background())
		clock       = clockwork.NewFakeClock()
		a           = testPin("BTN_A", 12)
		b           = testPin("BTN_B", 13)
	)
	defer cancel()

	events, err := Watch(ctx, []Button{{Name: "A", Pin: a}, {Name: "B", Pin: b}}, &Options{Clock: clock})
	assert.NilError(t, err)
	assert.Equal(t, a.P, gpio.PullUp)
	assert.Equal(t, b.P, gpio.PullUp)

	a.EdgesChan <- gpio.Low
	e := <-events
	assert.Equal(t, e.Name, "A")
	assert.Assert(t, e.Time.Equal(clock.Now()))

	clock.Advance(time.Second)
	b.EdgesChan <- gpio.Low
	e = <-events
	assert.Equal(t, e.Name, "B")
	assert.Assert(t, e.Time.Equal(clock.Now()))

	cancel()
	assert.Equal(t, len(drain(t, events)), 0)
}

func TestWatchQueueFull(t *testing.T) {
	var (
		ctx, cancel = context.WithCancel(context.Background())
		a           = testPin("BTN_A", 12)
	)
	defer cancel()

	events, err := Watch(ctx, []Button{{Name: "A", Pin: a}}, &Options{Queue: 1})
	assert.NilError(t, err)

	for i := 0; i < 3; i++ {
		a.EdgesChan <- gpio.Low
	}
	cancel()

	got := drain(t, events)
	assert.Equal(t, len(got), 1)
	assert.Equal(t, got[0].Name, "A")
}

func TestWatchErrors(t *testing.T) {
	_, err := Watch(context.Background(), nil, nil)
	assert.Equal(t, err, ErrNoButtons)

	// Edge detection on a test pin needs an edge channel.
	_, err = Watch(context.Background(), []Button{{Name: "A", Pin: &gpiotest.Pin{N: "BTN_A"}}}, nil)
	assert.ErrorContains(t, err, "button: A on")
}

func TestDebounce(t *testing.T) {
	var (
		t0 = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		in = make(chan Event, 16)
	)
	for _, e := range []Event{
		{"A", t0},
		{"A", t0.Add(200 * time.Millisecond)},
		{"B", t0.Add(300 * time.Millisecond)},
		{"A", t0.Add(time.Second)},
		{"B", t0.Add(1200 * time.Millisecond)},
		{"A", t0.Add(1500 * time.Millisecond)},
		{"B", t0.Add(1300 * time.Millisecond)},
		{"X", t0.Add(1400 * time.Millisecond)},
	} {
		in <- e
	}
	close(in)

	var got []Event
	for e := range Debounce(in, DefaultWindow) {
		got = append(got, e)
	}
	assert.DeepEqual(t, got, []Event{
		{"A", t0},
		{"B", t0.Add(300 * time.Millisecond)},
		{"A", t0.Add(time.Second)},
		{"B", t0.Add(1300 * time.Millisecond)},
		{"X", t0.Add(1400 * time.Millisecond)},
	})
}

func TestLookup(t *testing.T) {
	if gpioreg.ByName("BTN_TEST_A") == nil {
		assert.NilError(t, gpioreg.Register(&gpiotest.Pin{N: "BTN_TEST_A", Num: 9012}))
	}

	buttons, err := Lookup(map[string]string{"A": "BTN_TEST_A"}, "A")
	assert.NilError(t, err)
	assert.Equal(t, len(buttons), 1)
	assert.Equal(t, buttons[0].Name, "A")
	assert.Equal(t, buttons[0].Pin.Name(), "BTN_TEST_A")

	_, err = Lookup(map[string]string{"A": "BTN_TEST_A"}, "B")
	assert.ErrorContains(t, err, `no pin for button "B"`)

	_, err = Lookup(map[string]string{"A": "BTN_TEST_MISSING"}, "A")
	assert.ErrorContains(t, err, "not found")
}

func TestExplorerButtons(t *testing.T) {
	if gpioreg.ByName("GPIO12") == nil {
		_, err := ExplorerButtons()
		assert.ErrorContains(t, err, `pin GPIO12 for button "A" not found`)
	}

	for i, name := range []string{"GPIO12", "GPIO13", "GPIO14", "GPIO15"} {
		if gpioreg.ByName(name) == nil {
			assert.NilError(t, gpioreg.Register(&gpiotest.Pin{N: name, Num: 9112 + i}))
		}
	}

	buttons, err := ExplorerButtons()
	assert.NilError(t, err)
	assert.Equal(t, len(buttons), 4)
	for i, want := range []struct{ name, pin string }{
		{"A", "GPIO12"},
		{"B", "GPIO13"},
		{"X", "GPIO14"},
		{"Y", "GPIO15"},
	} {
		assert.Equal(t, buttons[i].Name, want.name)
		assert.Equal(t, buttons[i].Pin.Name(), want.pin)
	}
}
