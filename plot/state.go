package plot

import "github.com/vasalvit/svgplot"

// Pen is the pen position.
type Pen int

const (
	PenUp Pen = iota
	PenDown
)

func (p Pen) String() string {
	if p == PenDown {
		return "down"
	}
	return "up"
}

// State is the mutable state of one plot job. It is owned by a single
// job and threaded through the traverser and the encoder.
type State struct {
	Pen Pen

	// Prev is the last plotted point in page coordinates. It starts at
	// Home once the first point of the job is seen.
	Prev svg.Tuple
	// Home is (0, page height); the job returns there at the end.
	Home    svg.Tuple
	HasHome bool

	// running sums of every move sent to the plotter
	TotalDeltaX float64
	TotalDeltaY float64

	NodeCount  int
	// PathCount is also the last path index written to progress.
	PathCount  int
	LastPathNC int

	// LayersPlotted counts layers matching the selection.
	LayersPlotted int
	// Warnings holds the tags of unsupported elements already reported.
	Warnings map[string]bool
}

// NewState starts a job from persisted progress. Only the running totals
// carry over.
func NewState(p svg.Progress) *State {
	return &State{
		Pen:         PenUp,
		TotalDeltaX: float64(p.TotalDeltaX),
		TotalDeltaY: float64(p.TotalDeltaY),
		Warnings:    make(map[string]bool),
	}
}

// Progress returns the state to persist at the end of a job that plotted
// the given layer, 0 meaning all layers.
func (s *State) Progress(layer int) svg.Progress {
	return svg.Progress{
		Layer:       layer,
		Node:        s.NodeCount,
		LastPath:    s.PathCount,
		LastPathNC:  s.LastPathNC,
		TotalDeltaX: int(s.TotalDeltaX),
		TotalDeltaY: int(s.TotalDeltaY),
	}
}

// warnOnce records tag and reports whether it was new.
func (s *State) warnOnce(tag string) bool {
	if s.Warnings[tag] {
		return false
	}
	s.Warnings[tag] = true
	return true
}
