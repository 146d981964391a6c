package game

import (
	"fmt"
	"strings"
)

type Position struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var Directions = []Direction{Up, Right, Down, Left}

var directionDeltas = map[Direction]Position{
	Up:    {0, -1},
	Right: {1, 0},
	Down:  {0, 1},
	Left:  {-1, 0},
}

var directionKeys = map[string]Direction{
	"w":          Up,
	"arrowup":    Up,
	"d":          Right,
	"arrowright": Right,
	"s":          Down,
	"arrowdown":  Down,
	"a":          Left,
	"arrowleft":  Left,
}

func (pos Position) String() string {
	return fmt.Sprintf("(%d, %d)", pos.X, pos.Y)
}

func (pos Position) Add(delta Position) Position {
	return Position{pos.X + delta.X, pos.Y + delta.Y}
}

func (pos Position) Step(dir Direction) Position {
	return pos.Add(dir.Delta())
}

// Delta is the unit offset of a single move in this direction
func (dir Direction) Delta() Position {
	return directionDeltas[dir]
}

func (dir Direction) String() string {
	switch dir {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(dir))
	}
}

// ParseDirection translates a raw key name (w/a/s/d or arrowup/arrowdown/
// arrowleft/arrowright, case-insensitive) into a Direction. Any other key is
// unrecognized.
func ParseDirection(key string) (Direction, bool) {
	dir, ok := directionKeys[strings.ToLower(key)]
	return dir, ok
}

// DirectionBetween returns the direction leading from one position to an
// orthogonally adjacent one
func DirectionBetween(from, to Position) (Direction, bool) {
	delta := Position{to.X - from.X, to.Y - from.Y}
	for dir, dirDelta := range directionDeltas {
		if dirDelta == delta {
			return dir, true
		}
	}
	return Up, false
}
