package plot

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vasalvit/svgplot/device"
	"github.com/vasalvit/svgplot/gcode"
)

// recorder is a channel that remembers what it was sent.
type recorder struct {
	dialect device.Dialect
	sent    []string
	closed  int
}

func (r *recorder) Send(cmd gcode.Command) device.Outcome {
	r.sent = append(r.sent, cmd.String())
	status := device.StatusAcked
	if r.dialect == device.DialectFile {
		status = device.StatusWritten
	}
	return device.Outcome{Command: cmd.String(), Status: status}
}

func (r *recorder) Dialect() device.Dialect { return r.dialect }

func (r *recorder) Close() error {
	r.closed++
	return nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func testOptions(layer LayerSelection) Options {
	return Options{
		Layer:     layer,
		Tolerance: 0.1,
		PenUp:     1000,
		PenDown:   0,
		PenDelay:  time.Millisecond,
	}
}
