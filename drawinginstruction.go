package svg

// InstructionType tells the flattener how a DrawingInstruction extends
// the current subpath.
type InstructionType int

// These are the instruction types produced by ParsePath. Arcs and
// quadratic curves are converted to CurveInstruction while parsing.
const (
	MoveInstruction InstructionType = iota
	LineInstruction
	CurveInstruction
	CloseInstruction
)

func (k InstructionType) String() string {
	switch k {
	case MoveInstruction:
		return "move"
	case LineInstruction:
		return "line"
	case CurveInstruction:
		return "curve"
	case CloseInstruction:
		return "close"
	}
	return "unknown"
}

// Tuple is an X,Y coordinate
type Tuple [2]float64

// DrawingInstruction is one step of a path in absolute, untransformed
// user coordinates. M is the end point of moves and lines, T the end
// point of curves with C1 and C2 as control points.
type DrawingInstruction struct {
	Kind InstructionType
	M    Tuple
	C1   Tuple
	C2   Tuple
	T    Tuple
}

// Node is an on-curve point together with its handles: index 0 is the
// incoming handle, 1 the point itself and 2 the outgoing handle. Line
// segments have both handles on the point.
type Node [3]Tuple

// Subpath is a contiguous run of nodes. Consecutive nodes a, b form the
// cubic segment a[1], a[2], b[0], b[1].
type Subpath []Node

// Chain is a parsed path made of one or more subpaths.
type Chain []Subpath

// Segments returns the number of cubic segments in the chain.
func (c Chain) Segments() int {
	n := 0
	for _, sp := range c {
		if len(sp) > 1 {
			n += len(sp) - 1
		}
	}
	return n
}

// NewChain converts drawing instructions into a cubic chain. A close
// instruction appends a straight segment back to the subpath start when
// the current point is elsewhere; drawing after a close without a move
// starts a new subpath at that start point.
func NewChain(instructions []DrawingInstruction) Chain {
	var (
		chain Chain
		sp    Subpath
		start Tuple
	)

	flush := func() {
		if len(sp) > 0 {
			chain = append(chain, sp)
		}
		sp = nil
	}
	open := func() {
		if sp == nil {
			sp = Subpath{{start, start, start}}
		}
	}

	for _, in := range instructions {
		switch in.Kind {
		case MoveInstruction:
			flush()
			start = in.M
			sp = Subpath{{in.M, in.M, in.M}}
		case LineInstruction:
			open()
			sp = append(sp, Node{in.M, in.M, in.M})
		case CurveInstruction:
			open()
			sp[len(sp)-1][2] = in.C1
			sp = append(sp, Node{in.C2, in.T, in.T})
		case CloseInstruction:
			if sp == nil {
				continue
			}
			if sp[len(sp)-1][1] != start {
				sp = append(sp, Node{start, start, start})
			}
			flush()
		}
	}
	flush()

	return chain
}
