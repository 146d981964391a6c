package game

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
	"math/rand"
	"time"
)

type MazeSnapshot struct {
	Seed       int64      `yaml:"seed"`
	Difficulty Difficulty `yaml:"difficulty"`
	Level      int        `yaml:"level"`
	Player     Position   `yaml:"player"`
	ElapsedMs  int64      `yaml:"elapsed_ms,omitempty"`
	// Rows as written by Maze.String. When empty, the maze is regenerated
	// from Seed.
	SerializedMaze string `yaml:"maze,omitempty"`
}

func (engine *Engine) Snapshot() *MazeSnapshot {
	return &MazeSnapshot{
		Seed:           engine.mazeSeed,
		Difficulty:     engine.difficulty,
		Level:          engine.level,
		Player:         engine.player,
		ElapsedMs:      engine.Elapsed().Milliseconds(),
		SerializedMaze: engine.maze.String(),
	}
}

func (snapshot *MazeSnapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", errors.Wrap(err, "encoding snapshot")
	}
	return string(out), nil
}

func (snapshot *MazeSnapshot) Elapsed() time.Duration {
	return time.Duration(snapshot.ElapsedMs) * time.Millisecond
}

// Maze rebuilds the snapshotted maze and checks it is playable
func (snapshot *MazeSnapshot) Maze() (*Maze, error) {
	var maze *Maze
	if snapshot.SerializedMaze == "" {
		maze = Generate(snapshot.Difficulty.Size(), rand.New(rand.NewSource(snapshot.Seed)))
	} else {
		var err error
		if maze, err = ParseMaze(snapshot.SerializedMaze); err != nil {
			return nil, errors.Wrap(err, "parsing snapshot maze")
		}
	}

	if maze.Size() != snapshot.Difficulty.Size() {
		return nil, errors.Errorf("snapshot maze is %dx%d but %s mazes are %dx%d",
			maze.Size(), maze.Size(), snapshot.Difficulty, snapshot.Difficulty.Size(), snapshot.Difficulty.Size())
	}
	if err := maze.Validate(); err != nil {
		return nil, errors.Wrap(err, "snapshot maze is not playable")
	}
	return maze, nil
}

func LoadSnapshot(in string) (*MazeSnapshot, error) {
	snapshot := MazeSnapshot{Level: 1}
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, errors.Wrap(err, "decoding snapshot")
	}
	if snapshot.Level < 1 {
		snapshot.Level = 1
	}
	return &snapshot, nil
}
