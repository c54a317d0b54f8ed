package ir

import (
	"fmt"
	"go/token"
)

// Positioner allows finding the location in the original source file.
// The easiest way to be a Positioner is to embed a Range
type Positioner interface {
	Pos() token.Pos // position of first character belonging to the node
	End() token.Pos // position of first character immediately after the node
}

type Range struct {
	PosStart token.Pos
	PosEnd   token.Pos
}

func (r Range) Pos() token.Pos { return r.PosStart }
func (r Range) End() token.Pos { return r.PosEnd }
func (r Range) String() string {
	if r.PosStart == r.PosEnd {
		return fmt.Sprintf("%v", r.PosStart)
	}
	return fmt.Sprintf("%v-%v", r.PosStart, r.PosEnd)
}

// RangeOf widens a Positioner into a Range.
// A nil Positioner becomes the zero Range
func RangeOf(p Positioner) Range {
	if p == nil {
		return Range{}
	}
	if r, ok := p.(Range); ok {
		return r
	}
	return Range{PosStart: p.Pos(), PosEnd: p.End()}
}
