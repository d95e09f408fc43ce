package plot

import (
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vasalvit/svgplot"
	"github.com/vasalvit/svgplot/device"
)

// Options configures a plot job.
type Options struct {
	Layer     LayerSelection
	Tolerance float64
	// MaxDepth caps curve bisection; 0 means svg.DefaultMaxDepth.
	MaxDepth   int
	SkipHidden bool

	PenUp    int
	PenDown  int
	PenDelay time.Duration

	// page size used when the document does not give one
	DefaultWidth  float64
	DefaultHeight float64
}

// Result summarises a finished job.
type Result struct {
	ID    string
	State *State
	// Progress is what should be persisted in the document.
	Progress      svg.Progress
	LayersPlotted int
	Warnings      []string
}

// Run plots doc to ch. It reads the persisted progress from doc, walks
// the whole document and returns home. ch is closed before Run returns,
// whatever the outcome.
//
// Errors are fatal ones only: bad dimensions, malformed geometry and
// reference cycles. Transport failures are logged by the channel and do
// not stop the job.
func Run(doc *svg.Svg, ch device.Channel, opts Options, logger *log.Logger) (res *Result, err error) {
	if logger == nil {
		logger = log.Default()
	}
	id := uuid.NewString()
	logger = logger.With("job", id)

	defer func() {
		if cerr := ch.Close(); cerr != nil {
			logger.Warn("closing channel", "err", cerr)
		}
	}()

	if opts.DefaultWidth <= 0 {
		opts.DefaultWidth = svg.DefaultWidth
	}
	if opts.DefaultHeight <= 0 {
		opts.DefaultHeight = svg.DefaultHeight
	}
	w, h, err := doc.Dimensions(opts.DefaultWidth, opts.DefaultHeight)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}
	m, err := doc.InitialTransform(w, h)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", doc.Name, err)
	}

	state := NewState(svg.ReadProgress(doc))
	enc := NewEncoder(ch, state, EncoderOptions{
		PenUp:      opts.PenUp,
		PenDown:    opts.PenDown,
		PenDelay:   opts.PenDelay,
		PageHeight: h,
	}, logger)
	trav := NewTraverser(doc, enc, state, TraverserOptions{
		Layer:      opts.Layer,
		Tolerance:  opts.Tolerance,
		MaxDepth:   opts.MaxDepth,
		SkipHidden: opts.SkipHidden,
	}, logger)

	logger.Info("plotting", "document", doc.Name, "width", w, "height", h, "layer", opts.Layer.ID())
	start := time.Now()
	if err := trav.Traverse(doc.Root, m); err != nil {
		return nil, err
	}
	enc.Finish()

	res = &Result{
		ID:            id,
		State:         state,
		Progress:      state.Progress(opts.Layer.ID()),
		LayersPlotted: state.LayersPlotted,
	}
	for tag := range state.Warnings {
		res.Warnings = append(res.Warnings, unsupportedMessage(tag))
	}
	sort.Strings(res.Warnings)
	logger.Info("done", "paths", state.PathCount, "nodes", state.NodeCount, "elapsed", time.Since(start).Round(time.Millisecond))
	return res, nil
}
