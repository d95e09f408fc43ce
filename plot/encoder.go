package plot

import (
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vasalvit/svgplot"
	"github.com/vasalvit/svgplot/device"
	"github.com/vasalvit/svgplot/gcode"
)

// EncoderOptions configures an Encoder.
type EncoderOptions struct {
	PenUp      int
	PenDown    int
	PenDelay   time.Duration
	PageHeight float64
}

// Encoder turns flattened points into plotter commands.
//
// Moves are sent as the running totals of all previous deltas, with Y
// negated, so each command lags one point behind the geometry: the move
// emitted for a point goes to the point before it. Pen changes are
// positional within a subpath, up after its first point and down after
// its second, which together with the lag draws every segment with the
// pen down and every jump between subpaths with the pen up.
type Encoder struct {
	ch     device.Channel
	state  *State
	opts   EncoderOptions
	logger *log.Logger
	sleep  func(time.Duration)
}

// NewEncoder returns an encoder sending to ch and updating state.
func NewEncoder(ch device.Channel, state *State, opts EncoderOptions, logger *log.Logger) *Encoder {
	if logger == nil {
		logger = log.Default()
	}
	return &Encoder{ch: ch, state: state, opts: opts, logger: logger, sleep: time.Sleep}
}

// Path encodes the flattened subpaths of one path. When plotting is false
// the points only establish the home position.
func (e *Encoder) Path(subpaths [][]svg.Tuple, plotting bool) {
	for _, sp := range subpaths {
		for i, p := range sp {
			e.begin()
			if !plotting {
				continue
			}
			e.lineTo(p)
			switch i {
			case 0:
				e.PenUp()
			case 1:
				e.PenDown()
			}
		}
	}
}

// begin records the home position on the first point of the job.
func (e *Encoder) begin() {
	if e.state.HasHome {
		return
	}
	e.state.Home = svg.Tuple{0, e.opts.PageHeight}
	e.state.HasHome = true
	e.state.Prev = e.state.Home
}

func (e *Encoder) lineTo(p svg.Tuple) {
	s := e.state
	dx, dy := p[0]-s.Prev[0], p[1]-s.Prev[1]
	if math.Hypot(dx, dy) == 0 {
		return
	}
	s.NodeCount++

	x, y := int(s.TotalDeltaX), int(-s.TotalDeltaY)
	switch e.ch.Dialect() {
	case device.DialectFile:
		if s.Pen == PenUp {
			e.send(gcode.MoveWithPen(x, y, e.opts.PenUp))
		}
		e.send(gcode.MoveWithPen(x, y, e.opts.PenDown))
	default:
		// the plotter misbehaves on moves while one axis total is
		// still zero, so lift the pen instead
		if s.TotalDeltaX*s.TotalDeltaY != 0 {
			e.send(gcode.Move(x, y))
		} else {
			e.send(gcode.Pen(e.opts.PenUp))
		}
	}

	s.TotalDeltaX += dx
	s.TotalDeltaY += dy
	s.Prev = p
}

// PenUp raises the pen unless it is already up.
func (e *Encoder) PenUp() {
	e.setPen(PenUp, e.opts.PenUp)
}

// PenDown lowers the pen unless it is already down.
func (e *Encoder) PenDown() {
	e.setPen(PenDown, e.opts.PenDown)
}

// setPen only sends a command in the stream dialect; command files carry
// the pen height on every move.
func (e *Encoder) setPen(pen Pen, z int) {
	if e.state.Pen == pen {
		return
	}
	e.state.Pen = pen
	if e.ch.Dialect() != device.DialectStream {
		return
	}
	e.send(gcode.Pen(z))
	if e.opts.PenDelay > 0 {
		e.sleep(e.opts.PenDelay)
	}
}

// Finish draws the pending segment by moving back home, raises the pen
// and parks the plotter. It does nothing if no point was ever seen.
func (e *Encoder) Finish() {
	if !e.state.HasHome {
		return
	}
	e.lineTo(e.state.Home)
	e.PenUp()
	e.send(gcode.Home())
}

func (e *Encoder) send(cmd gcode.Command) device.Outcome {
	out := e.ch.Send(cmd)
	if out.Err != nil {
		e.logger.Debug("command not delivered", "cmd", out.Command, "status", out.Status, "err", out.Err)
	}
	return out
}
