package plot

import (
	"fmt"

	"github.com/vasalvit/svgplot/device"
	"github.com/vasalvit/svgplot/gcode"
)

// ManualAction is a single command sent outside of a plot job.
type ManualAction int

const (
	ManualPenUp ManualAction = iota
	ManualPenDown
	ManualHello
	ManualWalkX
	ManualWalkY
)

var manualNames = map[string]ManualAction{
	"pen-up":   ManualPenUp,
	"pen-down": ManualPenDown,
	"hello":    ManualHello,
	"walk-x":   ManualWalkX,
	"walk-y":   ManualWalkY,
}

// ParseManualAction maps a command line name such as "walk-x" to its
// action.
func ParseManualAction(name string) (ManualAction, error) {
	a, ok := manualNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown manual command %q", name)
	}
	return a, nil
}

func (a ManualAction) String() string {
	for name, v := range manualNames {
		if v == a {
			return name
		}
	}
	return "unknown"
}

// ManualOptions configures Manual.
type ManualOptions struct {
	PenUp   int
	PenDown int
	// Walk is the jog distance in plotter steps.
	Walk int
}

// Greeter is a channel that can return the plotter's greeting.
type Greeter interface {
	Hello() (*device.Hello, error)
}

// ManualOutcome is the result of a manual command. Hello is only set for
// the handshake.
type ManualOutcome struct {
	device.Outcome
	Hello *device.Hello
}

// Manual sends one command to ch. Pen commands are sent whatever the pen
// is believed to be doing, since nothing is known about it outside of a
// job.
func Manual(ch device.Channel, action ManualAction, opts ManualOptions) (ManualOutcome, error) {
	var cmd gcode.Command
	switch action {
	case ManualPenUp:
		cmd = gcode.Pen(opts.PenUp)
	case ManualPenDown:
		cmd = gcode.Pen(opts.PenDown)
	case ManualWalkX:
		cmd = gcode.Move(opts.Walk, 0)
	case ManualWalkY:
		cmd = gcode.Move(0, opts.Walk)
	case ManualHello:
		g, ok := ch.(Greeter)
		if !ok {
			return ManualOutcome{}, fmt.Errorf("%w: channel has no handshake", device.ErrNotConnected)
		}
		h, err := g.Hello()
		if err != nil {
			return ManualOutcome{}, err
		}
		return ManualOutcome{Hello: h}, nil
	default:
		return ManualOutcome{}, fmt.Errorf("unknown manual action %d", action)
	}
	return ManualOutcome{Outcome: ch.Send(cmd)}, nil
}
