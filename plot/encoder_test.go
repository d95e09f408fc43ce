package plot

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/vasalvit/svgplot"
	"github.com/vasalvit/svgplot/device"
)

func newTestEncoder(dialect device.Dialect) (*Encoder, *recorder, *[]time.Duration) {
	ch := &recorder{dialect: dialect}
	state := NewState(svg.Progress{})
	enc := NewEncoder(ch, state, EncoderOptions{
		PenUp:      1000,
		PenDown:    0,
		PenDelay:   50 * time.Millisecond,
		PageHeight: 2000,
	}, quietLogger())
	var slept []time.Duration
	enc.sleep = func(d time.Duration) { slept = append(slept, d) }
	return enc, ch, &slept
}

func TestEncoderPenIsIdempotent(t *testing.T) {
	enc, ch, slept := newTestEncoder(device.DialectStream)

	// a job starts with the pen up
	enc.PenUp()
	assert.Empty(t, ch.sent)

	enc.PenDown()
	enc.PenDown()
	enc.PenUp()
	enc.PenUp()
	if diff := cmp.Diff([]string{"G01 Z0", "G01 Z1000"}, ch.sent); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []time.Duration{50 * time.Millisecond, 50 * time.Millisecond}, *slept)
}

func TestEncoderFilePenIsSilent(t *testing.T) {
	enc, ch, slept := newTestEncoder(device.DialectFile)

	enc.PenDown()
	enc.PenUp()
	assert.Empty(t, ch.sent)
	assert.Empty(t, *slept)
	assert.Equal(t, PenUp, enc.state.Pen)
}

func TestEncoderStraightLine(t *testing.T) {
	enc, ch, _ := newTestEncoder(device.DialectStream)

	enc.Path([][]svg.Tuple{{{0, 0}, {100, 0}}}, true)
	enc.Finish()

	want := []string{
		"G01 Z1000", // first move while no axis has moved
		"G01 Z1000",
		"G01 Z0",
		"G01 X100 Y2000",
		"G01 Z1000",
		"G01 X1000 Y1000",
	}
	if diff := cmp.Diff(want, ch.sent); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	s := enc.state
	assert.Equal(t, svg.Tuple{0, 2000}, s.Home)
	assert.Equal(t, 3, s.NodeCount)
	assert.Zero(t, s.TotalDeltaX)
	assert.Zero(t, s.TotalDeltaY)
}

func TestEncoderStraightLineFile(t *testing.T) {
	enc, ch, _ := newTestEncoder(device.DialectFile)

	enc.Path([][]svg.Tuple{{{0, 0}, {100, 0}}}, true)
	enc.Finish()

	want := []string{
		"G01 X0 Y0 Z1000",
		"G01 X0 Y0 Z0",
		"G01 X0 Y2000 Z1000",
		"G01 X0 Y2000 Z0",
		"G01 X100 Y2000 Z0",
		"G01 X1000 Y1000",
	}
	if diff := cmp.Diff(want, ch.sent); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}
}

func TestEncoderZeroLengthMoveIsDropped(t *testing.T) {
	enc, ch, _ := newTestEncoder(device.DialectStream)

	enc.Path([][]svg.Tuple{{{0, 2000}, {0, 2000}}}, true)
	assert.Empty(t, ch.sent)
	assert.Zero(t, enc.state.NodeCount)
}

func TestEncoderNotPlotting(t *testing.T) {
	enc, ch, _ := newTestEncoder(device.DialectStream)

	enc.Path([][]svg.Tuple{{{5, 5}, {50, 50}}}, false)
	assert.Empty(t, ch.sent)
	assert.True(t, enc.state.HasHome)
	assert.Equal(t, svg.Tuple{0, 2000}, enc.state.Prev)

	enc.Finish()
	assert.Equal(t, []string{"G01 X1000 Y1000"}, ch.sent)
}

func TestEncoderFinishWithoutPoints(t *testing.T) {
	enc, ch, _ := newTestEncoder(device.DialectStream)

	enc.Finish()
	assert.Empty(t, ch.sent)
}

func TestEncoderTotalsCarryOver(t *testing.T) {
	ch := &recorder{}
	state := NewState(svg.Progress{TotalDeltaX: 10, TotalDeltaY: -20})
	enc := NewEncoder(ch, state, EncoderOptions{PenUp: 1000, PageHeight: 100}, quietLogger())

	enc.Path([][]svg.Tuple{{{0, 0}}}, true)
	assert.Equal(t, []string{"G01 X10 Y20"}, ch.sent)
	assert.Equal(t, 10.0, state.TotalDeltaX)
	assert.Equal(t, -120.0, state.TotalDeltaY)
}
