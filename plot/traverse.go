package plot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	mt "github.com/rustyoz/Mtransform"

	"github.com/vasalvit/svgplot"
)

// ErrReferenceCycle is returned when a use element refers to itself or to
// one of its ancestors.
var ErrReferenceCycle = errors.New("reference cycle")

// TraverserOptions configures a Traverser.
type TraverserOptions struct {
	Layer     LayerSelection
	Tolerance float64
	MaxDepth  int
	// SkipHidden skips drawable elements whose effective visibility is
	// hidden or collapse. By default they are plotted.
	SkipHidden bool
}

// Traverser walks a document in order and feeds every drawable element
// to an Encoder.
type Traverser struct {
	doc    *svg.Svg
	enc    *Encoder
	state  *State
	opts   TraverserOptions
	logger *log.Logger

	// elements being expanded, for use cycle detection
	active map[*svg.Element]bool
}

// frame is what an element inherits from its ancestors.
type frame struct {
	m          mt.Transform
	visibility string
	plotting   bool
}

// NewTraverser returns a traverser over doc.
func NewTraverser(doc *svg.Svg, enc *Encoder, state *State, opts TraverserOptions, logger *log.Logger) *Traverser {
	if logger == nil {
		logger = log.Default()
	}
	return &Traverser{
		doc:    doc,
		enc:    enc,
		state:  state,
		opts:   opts,
		logger: logger,
		active: make(map[*svg.Element]bool),
	}
}

// Traverse visits the children of root under the transform m. Outside of
// any layer, content is plotted only when all layers are selected.
func (t *Traverser) Traverse(root *svg.Element, m mt.Transform) error {
	f := frame{m: m, visibility: "visible", plotting: t.opts.Layer.All}
	return t.children(root, f)
}

func (t *Traverser) children(e *svg.Element, f frame) error {
	for _, c := range e.Children {
		if err := t.visit(c, f); err != nil {
			return err
		}
	}
	return nil
}

func (t *Traverser) visit(e *svg.Element, parent frame) error {
	own, err := e.Transform()
	if err != nil {
		return fmt.Errorf("%s %q: %w", e.Tag(), e.ID(), err)
	}

	f := parent
	f.m = mt.MultiplyTransforms(parent.m, own)
	if v, ok := e.LookupAttr("visibility"); ok && v != "inherit" {
		f.visibility = v
	}

	if e.Kind.Shape() {
		return t.shape(e, f)
	}

	switch e.Kind {
	case svg.KindGroup:
		if e.IsLayer() && !t.opts.Layer.All {
			f.plotting = t.opts.Layer.Match(e.Label())
			if f.plotting {
				t.state.LayersPlotted++
				t.logger.Debug("plotting layer", "label", e.Label())
			}
		}
		return t.children(e, f)

	case svg.KindUse:
		return t.use(e, f)

	case svg.KindPath:
		return t.path(e, e.Attr("d"), f)

	case svg.KindIgnored:
		return nil

	default:
		t.unsupported(e.Tag())
		return nil
	}
}

// shape plots a basic shape through its path form.
func (t *Traverser) shape(e *svg.Element, f frame) error {
	d, ok, err := svg.Normalize(e)
	if err != nil {
		return err
	}
	if !ok {
		t.logger.Debug("skipping empty shape", "tag", e.Tag(), "id", e.ID())
		return nil
	}
	return t.path(e, d, f)
}

func (t *Traverser) use(e *svg.Element, f frame) error {
	href := e.Href()
	if !strings.HasPrefix(href, "#") {
		return nil
	}
	ref := t.doc.Lookup(href[1:])
	if ref == nil {
		t.logger.Debug("unresolved reference", "href", href)
		return nil
	}
	if ref == e || t.active[ref] || t.isAncestor(ref, e) {
		return fmt.Errorf("%w: use %q refers to %q", ErrReferenceCycle, e.ID(), href)
	}

	x, err := e.Number("x")
	if err != nil {
		return err
	}
	y, err := e.Number("y")
	if err != nil {
		return err
	}
	if x != 0 || y != 0 {
		f.m = mt.MultiplyTransforms(f.m, svg.Translate(x, y))
	}

	t.active[e] = true
	t.active[ref] = true
	defer func() {
		delete(t.active, e)
		delete(t.active, ref)
	}()
	return t.visit(ref, f)
}

// isAncestor reports whether a is e or one of its ancestors.
func (t *Traverser) isAncestor(a, e *svg.Element) bool {
	for p := e; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}

func (t *Traverser) path(e *svg.Element, d string, f frame) error {
	if t.opts.SkipHidden && (f.visibility == "hidden" || f.visibility == "collapse") {
		t.logger.Debug("skipping hidden element", "tag", e.Tag(), "id", e.ID())
		return nil
	}

	instrs, err := svg.ParsePath(d)
	if err != nil {
		return fmt.Errorf("%s %q: %w", e.Tag(), e.ID(), err)
	}

	t.state.PathCount++
	points := svg.Flatten(svg.NewChain(instrs), f.m, t.opts.Tolerance, t.opts.MaxDepth)
	t.enc.Path(points, f.plotting)
	t.state.LastPathNC = t.state.NodeCount
	return nil
}

func (t *Traverser) unsupported(tag string) {
	if !t.state.warnOnce(tag) {
		return
	}
	t.logger.Warn(unsupportedMessage(tag))
}

func unsupportedMessage(tag string) string {
	switch tag {
	case "text":
		return "unable to draw text; please convert it to a path first"
	case "image":
		return "unable to draw bitmap images; please convert them to line art first"
	}
	return fmt.Sprintf("unable to draw %s object, please convert it to a path first", tag)
}
