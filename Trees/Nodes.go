package Trees

import (
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/exp/constraints"
)

// Color of a node. The zero value is BLACK, so a zeroed slot, including the
// nil slot 0, reads as black.
type Color byte

const (
	BLACK Color = iota
	RED
)

func (c Color) String() string {
	switch c {
	case BLACK:
		return "BLACK"
	case RED:
		return "RED"
	}
	return "Color(" + strconv.Itoa(int(c)) + ")"
}

var (
	redText   = color.New(color.FgRed, color.Bold).SprintFunc()
	blackText = color.New(color.FgHiBlack, color.Bold).SprintFunc()
)

// colored name of c. fatih/color drops the escape codes when color.NoColor is set.
func (c Color) colored() string {
	if c == RED {
		return redText(c.String())
	}
	return blackText(c.String())
}

// A slot in the arena. Index 0 is the nil slot: all fields zero, which makes
// it a black node of size 0 whose links point back to itself.
type info[S constraints.Unsigned] struct {
	l, r, p, sz S // p is a back reference only; ownership follows l and r.
	c           Color
}
