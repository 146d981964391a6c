package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateSeeded(size int, seed int64) *Maze {
	return Generate(size, rand.New(rand.NewSource(seed)))
}

func TestGenerateProducesPerfectMazes(t *testing.T) {
	for _, size := range []int{5, 7, 15, 21, 31} {
		for seed := int64(1); seed <= 25; seed++ {
			maze := generateSeeded(size, seed)
			require.Equal(t, size, maze.Size())
			assert.NoError(t, maze.Validate(), "size %d seed %d", size, seed)
		}
	}
}

func TestGenerateBorderIsWall(t *testing.T) {
	maze := generateSeeded(21, 99)
	last := maze.Size() - 1

	for i := 0; i <= last; i++ {
		assert.Equal(t, Wall, maze.TileAt(Position{i, 0}))
		assert.Equal(t, Wall, maze.TileAt(Position{i, last}))
		assert.Equal(t, Wall, maze.TileAt(Position{0, i}))
		assert.Equal(t, Wall, maze.TileAt(Position{last, i}))
	}
}

func TestGenerateOpensEntryAndExit(t *testing.T) {
	for seed := int64(0); seed < 50; seed++ {
		maze := generateSeeded(15, seed)
		assert.True(t, maze.IsPassage(Position{1, 1}))
		assert.True(t, maze.IsPassage(Position{13, 13}))
		assert.Equal(t, Position{1, 1}, maze.Entry())
		assert.Equal(t, Position{13, 13}, maze.Exit())
	}
}

func TestGenerateCarvesOnlyRoomsAndConnectors(t *testing.T) {
	maze := generateSeeded(31, 7)

	for _, pos := range maze.Passages() {
		assert.False(t, pos.X%2 == 0 && pos.Y%2 == 0, "even cell %s was carved", pos)
	}

	// The walk reaches every room
	for y := 1; y < maze.Size(); y += 2 {
		for x := 1; x < maze.Size(); x += 2 {
			assert.True(t, maze.IsPassage(Position{x, y}), "room (%d, %d) was never carved", x, y)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	assert.Equal(t, generateSeeded(21, 1234).String(), generateSeeded(21, 1234).String())
	assert.NotEqual(t, generateSeeded(21, 1234).String(), generateSeeded(21, 4321).String())
}

func TestTileAtOutsideGridIsWall(t *testing.T) {
	maze := generateSeeded(5, 1)
	assert.Equal(t, Wall, maze.TileAt(Position{-1, 2}))
	assert.Equal(t, Wall, maze.TileAt(Position{2, 5}))
	assert.False(t, maze.IsPassage(Position{5, 5}))
}

func TestValidateRejectsLoops(t *testing.T) {
	maze, err := ParseMaze(`#####
#...#
#.#.#
#...#
#####`)
	require.NoError(t, err)

	err = maze.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loop")
}

func TestValidateRejectsUnreachablePassages(t *testing.T) {
	maze, err := ParseMaze(`#####
#.#.#
#.#.#
#.#.#
#####`)
	require.NoError(t, err)

	err = maze.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reachable")
}

func TestValidateRejectsOpenBorder(t *testing.T) {
	maze, err := ParseMaze(`#####
#...#
###.#
#...#
##.##`)
	require.NoError(t, err)
	assert.Error(t, maze.Validate())
}

func TestParseMazeReadsStringOutput(t *testing.T) {
	maze := generateSeeded(15, 3)

	parsed, err := ParseMaze(maze.String())
	require.NoError(t, err)
	assert.Equal(t, maze.String(), parsed.String())
	assert.NoError(t, parsed.Validate())
}

func TestParseMazeRejectsMalformedInput(t *testing.T) {
	_, err := ParseMaze("")
	assert.Error(t, err)

	_, err = ParseMaze("###\n#.\n###")
	assert.Error(t, err)

	_, err = ParseMaze("###\n#x#\n###")
	assert.Error(t, err)
}
