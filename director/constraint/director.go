package constraint

import (
	"github.com/they4kman/gomaze/game"
	"github.com/they4kman/gomaze/util/collections"
)

// Director solves the maze by dead-end filling: any passage other than the
// player's cell and the goal with at most one open neighbor cannot lie on the
// route, so it is eliminated, until nothing changes. In a perfect maze what
// survives is exactly the corridor from the player to the goal.
type Director struct {
	engine *game.Engine
	active bool

	corridor collections.Set[game.Position]
	arrived  game.Position
}

func (director *Director) Init(engine *game.Engine) {
	director.engine = engine
	director.active = true
	director.solveFrom(engine.Player())
}

func (director *Director) solveFrom(start game.Position) {
	maze := director.engine.Maze()
	goal := director.engine.Goal()

	open := collections.NewSet(maze.Passages()...)
	pending := maze.Passages()

	for len(pending) > 0 {
		pos := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		if pos == start || pos == goal || !open.Contains(pos) {
			continue
		}

		neighbors := open.Filter(maze.Neighbors(pos))
		if len(neighbors) > 1 {
			continue
		}

		// Eliminating a dead end may turn its only neighbor into one
		open.Remove(pos)
		pending = append(pending, neighbors...)
	}

	director.corridor = open
	director.arrived = start
}

// Corridor is the set of cells still considered part of the route
func (director *Director) Corridor() collections.Set[game.Position] {
	return director.corridor
}

func (director *Director) Act() {
	if !director.active {
		return
	}

	// Moved by someone else since our last step
	here := director.engine.Player()
	if here != director.arrived {
		director.solveFrom(here)
	}

	maze := director.engine.Maze()
	for _, next := range director.corridor.Filter(maze.Neighbors(here)) {
		dir, ok := game.DirectionBetween(here, next)
		if !ok {
			continue
		}

		// The cell being left is behind us and no longer part of the route
		director.corridor.Remove(here)
		director.arrived = next
		director.engine.AttemptMove(dir)
		return
	}
}

func (director *Director) End() {
	director.active = false
}
