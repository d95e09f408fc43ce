package svg

import (
	"fmt"
	"strconv"
	"unicode"

	gl "github.com/rustyoz/genericlexer"
)

// number of arguments taken by one repetition of each path command
var pathArity = map[rune]int{
	'M': 2, 'L': 2, 'T': 2,
	'H': 1, 'V': 1,
	'C': 6,
	'S': 4, 'Q': 4,
	'A': 7,
	'Z': 0,
}

type pathDescriptionParser struct {
	lex            *lexer
	x, y           float64
	startX, startY float64
	// control point of the previous command, for S and T reflection
	lastControl  Tuple
	lastCommand  rune
	instructions []DrawingInstruction
}

// ParsePath interprets an SVG path description. The returned
// instructions use absolute, untransformed coordinates; arcs and
// quadratic curves are converted to cubic curves.
func ParsePath(d string) ([]DrawingInstruction, error) {
	l := newLexer("d", d)
	defer l.close()
	pdp := &pathDescriptionParser{lex: l}

	for {
		pdp.lex.ConsumeWhiteSpace()
		i := pdp.lex.NextItem()
		switch i.Type {
		case gl.ItemEOS:
			if rest := l.rest(i); rest != "" {
				return nil, fmt.Errorf("%w: path data %q: unexpected %q", ErrMalformedGeometry, d, rest)
			}
			return pdp.instructions, nil
		case gl.ItemError:
			return nil, fmt.Errorf("%w: path data %q: %s", ErrMalformedGeometry, d, i.Value)
		case gl.ItemLetter:
			if err := pdp.parseLetters(i.Value); err != nil {
				return nil, fmt.Errorf("%w: path data %q: %v", ErrMalformedGeometry, d, err)
			}
		default:
			return nil, fmt.Errorf("%w: path data %q: unexpected %q", ErrMalformedGeometry, d, i.Value)
		}
	}
}

// parseLetters handles a run of command letters. Only the last one may
// take arguments, so anything before it has to be a close command.
func (pdp *pathDescriptionParser) parseLetters(letters string) error {
	cmds := []rune(letters)
	if len(cmds) == 0 {
		return nil
	}
	for _, c := range cmds[:len(cmds)-1] {
		if err := pdp.parseCommand(c, nil); err != nil {
			return err
		}
	}

	nums, err := pdp.numbers()
	if err != nil {
		return err
	}
	return pdp.parseCommand(cmds[len(cmds)-1], nums)
}

func (pdp *pathDescriptionParser) numbers() ([]float64, error) {
	var nums []float64

	pdp.lex.ConsumeWhiteSpace()
	for pdp.lex.PeekItem().Type == gl.ItemNumber {
		i := pdp.lex.NextItem()
		n, err := strconv.ParseFloat(i.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", i.Value)
		}
		nums = append(nums, n)
		pdp.lex.ConsumeWhiteSpace()
		pdp.lex.ConsumeComma()
		pdp.lex.ConsumeWhiteSpace()
	}
	return nums, nil
}

func (pdp *pathDescriptionParser) parseCommand(cmd rune, nums []float64) error {
	upper := unicode.ToUpper(cmd)
	rel := cmd != upper

	arity, ok := pathArity[upper]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	if arity == 0 {
		if len(nums) > 0 {
			return fmt.Errorf("command %q takes no arguments", cmd)
		}
		pdp.closePath()
		return nil
	}
	if len(nums) == 0 || len(nums)%arity != 0 {
		return fmt.Errorf("command %q needs a multiple of %d arguments, got %d", cmd, arity, len(nums))
	}

	for k := 0; k < len(nums); k += arity {
		a := nums[k : k+arity]
		switch upper {
		case 'M':
			if k == 0 {
				pdp.moveTo(pdp.point(a[0], a[1], rel))
			} else {
				pdp.lineTo(pdp.point(a[0], a[1], rel))
			}
		case 'L':
			pdp.lineTo(pdp.point(a[0], a[1], rel))
		case 'H':
			x := a[0]
			if rel {
				x += pdp.x
			}
			pdp.lineTo(Tuple{x, pdp.y})
		case 'V':
			y := a[0]
			if rel {
				y += pdp.y
			}
			pdp.lineTo(Tuple{pdp.x, y})
		case 'C':
			pdp.curveTo(pdp.point(a[0], a[1], rel), pdp.point(a[2], a[3], rel), pdp.point(a[4], a[5], rel))
		case 'S':
			pdp.curveTo(pdp.reflect('C'), pdp.point(a[0], a[1], rel), pdp.point(a[2], a[3], rel))
		case 'Q':
			pdp.quadTo(pdp.point(a[0], a[1], rel), pdp.point(a[2], a[3], rel))
		case 'T':
			pdp.quadTo(pdp.reflect('Q'), pdp.point(a[0], a[1], rel))
		case 'A':
			pdp.arcTo(a[0], a[1], a[2], a[3] != 0, a[4] != 0, pdp.point(a[5], a[6], rel))
		}
	}
	return nil
}

func (pdp *pathDescriptionParser) point(x, y float64, rel bool) Tuple {
	if rel {
		return Tuple{pdp.x + x, pdp.y + y}
	}
	return Tuple{x, y}
}

// reflect returns the reflection of the previous control point about the
// current point when the previous command was of the given family, or
// the current point otherwise.
func (pdp *pathDescriptionParser) reflect(family rune) Tuple {
	if pdp.lastCommand != family {
		return Tuple{pdp.x, pdp.y}
	}
	return Tuple{2*pdp.x - pdp.lastControl[0], 2*pdp.y - pdp.lastControl[1]}
}

func (pdp *pathDescriptionParser) moveTo(p Tuple) {
	pdp.instructions = append(pdp.instructions, DrawingInstruction{Kind: MoveInstruction, M: p})
	pdp.x, pdp.y = p[0], p[1]
	pdp.startX, pdp.startY = p[0], p[1]
	pdp.lastCommand = 'M'
}

func (pdp *pathDescriptionParser) lineTo(p Tuple) {
	pdp.instructions = append(pdp.instructions, DrawingInstruction{Kind: LineInstruction, M: p})
	pdp.x, pdp.y = p[0], p[1]
	pdp.lastCommand = 'L'
}

func (pdp *pathDescriptionParser) curveTo(c1, c2, end Tuple) {
	pdp.instructions = append(pdp.instructions, DrawingInstruction{Kind: CurveInstruction, C1: c1, C2: c2, T: end})
	pdp.x, pdp.y = end[0], end[1]
	pdp.lastControl = c2
	pdp.lastCommand = 'C'
}

// quadTo elevates the quadratic curve to a cubic one.
func (pdp *pathDescriptionParser) quadTo(q, end Tuple) {
	p0 := Tuple{pdp.x, pdp.y}
	c1 := Tuple{p0[0] + 2.0/3.0*(q[0]-p0[0]), p0[1] + 2.0/3.0*(q[1]-p0[1])}
	c2 := Tuple{end[0] + 2.0/3.0*(q[0]-end[0]), end[1] + 2.0/3.0*(q[1]-end[1])}
	pdp.curveTo(c1, c2, end)
	pdp.lastControl = q
	pdp.lastCommand = 'Q'
}

func (pdp *pathDescriptionParser) arcTo(rx, ry, rotation float64, largeArc, sweep bool, end Tuple) {
	p0 := Tuple{pdp.x, pdp.y}
	if p0 == end {
		pdp.lastCommand = 'A'
		return
	}
	if rx == 0 || ry == 0 {
		pdp.lineTo(end)
		return
	}
	for _, c := range arcToCubics(p0, rx, ry, rotation, largeArc, sweep, end) {
		pdp.curveTo(c[0], c[1], c[2])
	}
	pdp.x, pdp.y = end[0], end[1]
	pdp.lastCommand = 'A'
}

func (pdp *pathDescriptionParser) closePath() {
	pdp.instructions = append(pdp.instructions, DrawingInstruction{Kind: CloseInstruction})
	pdp.x, pdp.y = pdp.startX, pdp.startY
	pdp.lastCommand = 'Z'
}
