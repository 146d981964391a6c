package game

import (
	"fmt"
	"strings"
	"time"
)

type Tile uint8
type EngineState int
type Difficulty int

const (
	Passage Tile = iota
	Wall
)

const (
	Playing EngineState = iota
	LevelComplete
)

const (
	Easy Difficulty = iota
	Medium
	Hard
)

var Difficulties = []Difficulty{
	Easy,
	Medium,
	Hard,
}

var difficultyNames = map[Difficulty]string{
	Easy:   "easy",
	Medium: "medium",
	Hard:   "hard",
}

var difficultySizes = map[Difficulty]int{
	Easy:   15,
	Medium: 21,
	Hard:   31,
}

const (
	// Storage key holding the whole best-time table
	BestTimesKey = "mazeBestTimes"

	DefaultLevelDelay       = 2000 * time.Millisecond
	DefaultDirectorInterval = 120 * time.Millisecond
)

func (tile Tile) String() string {
	switch tile {
	case Passage:
		return "passage"
	case Wall:
		return "wall"
	default:
		return fmt.Sprintf("Tile(%d)", uint8(tile))
	}
}

func (state EngineState) String() string {
	switch state {
	case Playing:
		return "playing"
	case LevelComplete:
		return "level-complete"
	default:
		return fmt.Sprintf("EngineState(%d)", int(state))
	}
}

func (difficulty Difficulty) String() string {
	if name, ok := difficultyNames[difficulty]; ok {
		return name
	}
	return fmt.Sprintf("Difficulty(%d)", int(difficulty))
}

// Title is the display name, e.g. "Easy"
func (difficulty Difficulty) Title() string {
	name := difficulty.String()
	return strings.ToUpper(name[:1]) + name[1:]
}

// Size is the side length of mazes generated at this difficulty. Always odd.
func (difficulty Difficulty) Size() int {
	return difficultySizes[difficulty]
}

func ParseDifficulty(name string) (Difficulty, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for difficulty, difficultyName := range difficultyNames {
		if difficultyName == name {
			return difficulty, nil
		}
	}
	return Easy, fmt.Errorf("unknown difficulty %q (expected easy, medium or hard)", name)
}
