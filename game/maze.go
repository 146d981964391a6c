package game

import (
	"github.com/pkg/errors"
	"math/rand"
	"strings"
)

const (
	wallRune    = '#'
	passageRune = '.'
)

// Maze is a square grid of tiles with odd side length. Coordinates are
// addressed as (x, y), both ranging over [0, size-1].
type Maze struct {
	size  int
	tiles [][]Tile
}

// Step vectors of the carving walk, in their pre-shuffle order
var carveSteps = [4]Position{{0, -2}, {2, 0}, {0, 2}, {-2, 0}}

type carveFrame struct {
	pos  Position
	dirs [4]Position
	next int
}

func newMaze(size int) *Maze {
	maze := &Maze{
		size:  size,
		tiles: make([][]Tile, size),
	}
	for y := range maze.tiles {
		row := make([]Tile, size)
		for x := range row {
			row[x] = Wall
		}
		maze.tiles[y] = row
	}
	return maze
}

// Generate carves a perfect maze with a randomized depth-first walk starting
// at (1, 1). size must be odd and at least 5.
func Generate(size int, rng *rand.Rand) *Maze {
	maze := newMaze(size)
	maze.carve(maze.Entry(), rng)

	maze.set(maze.Entry(), Passage)
	maze.set(maze.Exit(), Passage)
	return maze
}

// carve keeps one frame per open cell on the current walk. Each frame owns its
// shuffled step order and resumes where it left off once its subtree is done,
// which visits cells in the same order as the recursive formulation.
func (maze *Maze) carve(start Position, rng *rand.Rand) {
	stack := []*carveFrame{maze.enterCell(start, rng)}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		if frame.next == len(frame.dirs) {
			stack = stack[:len(stack)-1]
			continue
		}

		step := frame.dirs[frame.next]
		frame.next++

		neighbor := frame.pos.Add(step)
		if !maze.isInterior(neighbor) || maze.TileAt(neighbor) != Wall {
			continue
		}

		maze.set(frame.pos.Add(Position{step.X / 2, step.Y / 2}), Passage)
		stack = append(stack, maze.enterCell(neighbor, rng))
	}
}

func (maze *Maze) enterCell(pos Position, rng *rand.Rand) *carveFrame {
	frame := &carveFrame{pos: pos, dirs: carveSteps}
	rng.Shuffle(len(frame.dirs), func(i, j int) {
		frame.dirs[i], frame.dirs[j] = frame.dirs[j], frame.dirs[i]
	})
	maze.set(pos, Passage)
	return frame
}

func (maze *Maze) Size() int {
	return maze.size
}

// Entry is where the player starts
func (maze *Maze) Entry() Position {
	return Position{1, 1}
}

// Exit is the goal cell
func (maze *Maze) Exit() Position {
	return Position{maze.size - 2, maze.size - 2}
}

func (maze *Maze) InBounds(pos Position) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < maze.size && pos.Y < maze.size
}

func (maze *Maze) isInterior(pos Position) bool {
	return pos.X >= 1 && pos.Y >= 1 && pos.X <= maze.size-2 && pos.Y <= maze.size-2
}

// TileAt returns Wall for anything outside the grid
func (maze *Maze) TileAt(pos Position) Tile {
	if !maze.InBounds(pos) {
		return Wall
	}
	return maze.tiles[pos.Y][pos.X]
}

func (maze *Maze) IsPassage(pos Position) bool {
	return maze.InBounds(pos) && maze.tiles[pos.Y][pos.X] == Passage
}

func (maze *Maze) set(pos Position, tile Tile) {
	maze.tiles[pos.Y][pos.X] = tile
}

// Neighbors returns the orthogonally adjacent passages of pos
func (maze *Maze) Neighbors(pos Position) []Position {
	neighbors := make([]Position, 0, len(Directions))
	for _, dir := range Directions {
		next := pos.Step(dir)
		if maze.IsPassage(next) {
			neighbors = append(neighbors, next)
		}
	}
	return neighbors
}

// Passages lists every passage, row by row
func (maze *Maze) Passages() []Position {
	passages := make([]Position, 0, maze.size*maze.size/2)
	for y, row := range maze.tiles {
		for x, tile := range row {
			if tile == Passage {
				passages = append(passages, Position{x, y})
			}
		}
	}
	return passages
}

// Validate checks that the maze is a perfect maze: walled border, open entry
// and exit, and passages forming a single tree.
func (maze *Maze) Validate() error {
	if maze.size < 5 || maze.size%2 == 0 {
		return errors.Errorf("maze size %d is not an odd number of at least 5", maze.size)
	}

	last := maze.size - 1
	for i := 0; i < maze.size; i++ {
		for _, pos := range []Position{{i, 0}, {i, last}, {0, i}, {last, i}} {
			if maze.TileAt(pos) != Wall {
				return errors.Errorf("border cell %s is not a wall", pos)
			}
		}
	}

	if !maze.IsPassage(maze.Entry()) {
		return errors.Errorf("entry %s is not a passage", maze.Entry())
	}
	if !maze.IsPassage(maze.Exit()) {
		return errors.Errorf("exit %s is not a passage", maze.Exit())
	}

	passages := maze.Passages()
	edges := 0
	for _, pos := range passages {
		if maze.IsPassage(pos.Step(Right)) {
			edges++
		}
		if maze.IsPassage(pos.Step(Down)) {
			edges++
		}
	}

	reached := len(Distances(maze, maze.Entry()))
	if reached != len(passages) {
		return errors.Errorf("only %d of %d passages are reachable from the entry", reached, len(passages))
	}
	if edges != len(passages)-1 {
		return errors.Errorf("passages contain a loop (%d connections between %d cells)", edges, len(passages))
	}
	return nil
}

// String serializes the maze as rows of '#' (wall) and '.' (passage)
func (maze *Maze) String() string {
	builder := strings.Builder{}
	builder.Grow(maze.size * (maze.size + 1))

	for y, row := range maze.tiles {
		if y > 0 {
			builder.WriteByte('\n')
		}
		for _, tile := range row {
			if tile == Wall {
				builder.WriteRune(wallRune)
			} else {
				builder.WriteRune(passageRune)
			}
		}
	}
	return builder.String()
}

// ParseMaze reads the format written by Maze.String
func ParseMaze(in string) (*Maze, error) {
	rows := strings.Split(strings.TrimSpace(in), "\n")
	size := len(rows)
	if size == 0 || len(rows[0]) == 0 {
		return nil, errors.New("empty maze")
	}

	maze := newMaze(size)
	for y, row := range rows {
		row = strings.TrimRight(row, "\r")
		if len(row) != size {
			return nil, errors.Errorf("row %d has %d cells, expected %d", y, len(row), size)
		}
		for x, c := range row {
			switch c {
			case wallRune:
				maze.tiles[y][x] = Wall
			case passageRune:
				maze.tiles[y][x] = Passage
			default:
				return nil, errors.Errorf("unexpected %q at (%d, %d)", c, x, y)
			}
		}
	}
	return maze, nil
}
