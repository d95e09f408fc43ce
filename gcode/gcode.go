// Package gcode describes the small G-code dialect understood by the
// plotter.
package gcode

import "fmt"

// Header starts every motion command file. It sets the coordinate frame
// and scale.
const Header = "G54 X0 Y0 S1"

// Kind is the shape of a Command.
type Kind int

const (
	// KindMove moves to X, Y without changing the pen.
	KindMove Kind = iota
	// KindPen moves the pen to height Z.
	KindPen
	// KindMoveWithPen moves to X, Y with the pen at height Z.
	KindMoveWithPen
)

// Command is a single G01 instruction.
type Command struct {
	Kind    Kind
	X, Y, Z int
}

// Move returns a coordinate move.
func Move(x, y int) Command {
	return Command{Kind: KindMove, X: x, Y: y}
}

// Pen returns a pen height change.
func Pen(z int) Command {
	return Command{Kind: KindPen, Z: z}
}

// MoveWithPen returns a coordinate move carrying the pen height, as used
// in command files.
func MoveWithPen(x, y, z int) Command {
	return Command{Kind: KindMoveWithPen, X: x, Y: y, Z: z}
}

// Home returns the plotter to its physical origin.
func Home() Command {
	return Move(1000, 1000)
}

func (c Command) String() string {
	switch c.Kind {
	case KindPen:
		return fmt.Sprintf("G01 Z%d", c.Z)
	case KindMoveWithPen:
		return fmt.Sprintf("G01 X%d Y%d Z%d", c.X, c.Y, c.Z)
	default:
		return fmt.Sprintf("G01 X%d Y%d", c.X, c.Y)
	}
}
