package random

import (
	"github.com/they4kman/gomaze/game"
	"github.com/they4kman/gomaze/util/collections"
)

// Director explores the maze depth-first, choosing uniformly among unvisited
// neighbors and backtracking along its trail at dead ends
type Director struct {
	engine  *game.Engine
	active  bool
	visited collections.Set[game.Position]
	trail   []game.Position
}

func (director *Director) Init(engine *game.Engine) {
	director.engine = engine
	director.active = true
	director.visited = collections.NewSet(engine.Player())
	director.trail = []game.Position{engine.Player()}
}

func (director *Director) Act() {
	if !director.active {
		return
	}

	here := director.engine.Player()

	// The player was moved by someone else; pick up from wherever it is now
	if director.trail[len(director.trail)-1] != here {
		director.trail = []game.Position{here}
		director.visited.Add(here)
	}

	var unvisited []game.Position
	for _, neighbor := range director.engine.Maze().Neighbors(here) {
		if !director.visited.Contains(neighbor) {
			unvisited = append(unvisited, neighbor)
		}
	}

	if len(unvisited) > 0 {
		next := unvisited[director.engine.Rand().Intn(len(unvisited))]
		director.visited.Add(next)
		director.trail = append(director.trail, next)
		director.moveTo(here, next)
		return
	}

	if len(director.trail) > 1 {
		director.trail = director.trail[:len(director.trail)-1]
		director.moveTo(here, director.trail[len(director.trail)-1])
		return
	}

	// Everything reachable from the trail's root has been explored, which only
	// happens after outside interference. Start exploring afresh.
	director.visited = collections.NewSet(here)
}

func (director *Director) moveTo(here, next game.Position) {
	if dir, ok := game.DirectionBetween(here, next); ok {
		director.engine.AttemptMove(dir)
	}
}

func (director *Director) End() {
	director.active = false
}
