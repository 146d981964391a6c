package cmd

import (
	"bytes"
	"io/ioutil"
	"math/rand"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/they4kman/gomaze/director/constraint"
	"github.com/they4kman/gomaze/game"
)

// execute runs the CLI with fresh option values and returns what it printed
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	gameConfig = game.NewGameConfig()
	configPath = ""
	generateSize, generateSolution, generateCheck, generateYAML = 0, false, false, false
	for _, command := range []*cobra.Command{rootCmd, generateCmd, recordsCmd} {
		command.Flags().VisitAll(func(flag *pflag.Flag) { flag.Changed = false })
		command.PersistentFlags().VisitAll(func(flag *pflag.Flag) { flag.Changed = false })
	}

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDifficultyValue(t *testing.T) {
	var difficulty game.Difficulty
	value := newDifficultyValue(game.Medium, &difficulty)
	assert.Equal(t, game.Medium, difficulty)
	assert.Equal(t, "medium", value.String())

	require.NoError(t, value.Set("Hard"))
	assert.Equal(t, game.Hard, difficulty)
	assert.Error(t, value.Set("nightmare"))
	assert.Equal(t, game.Hard, difficulty)
}

func TestNewDirector(t *testing.T) {
	director, err := newDirector("constraint")
	require.NoError(t, err)
	assert.IsType(t, &constraint.Director{}, director)

	_, err = newDirector("psychic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "constraint, random")
}

func TestDrawMazeMarksEndpointsAndSolution(t *testing.T) {
	maze := game.Generate(15, rand.New(rand.NewSource(1)))
	solution := game.ShortestPath(maze, maze.Entry(), maze.Exit())

	rows := strings.Split(strings.TrimSuffix(drawMaze(maze, solution), "\n"), "\n")
	require.Len(t, rows, 15)
	assert.Equal(t, "S", string([]rune(rows[1])[1]))
	assert.Equal(t, "E", string([]rune(rows[13])[13]))
	assert.Equal(t, strings.Repeat("█", 15), rows[0])
	assert.Equal(t, len(solution)-2, strings.Count(strings.Join(rows, ""), "•"))
}

func TestGenerateCommand(t *testing.T) {
	out, err := execute(t, "generate", "--seed", "5", "-d", "medium", "--solution", "--check")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 5\n")
	assert.Contains(t, out, "Grid Dimensions: 21x21\n")
	assert.Contains(t, out, "Solution Path Length: ")

	again, err := execute(t, "generate", "--seed", "5", "-d", "medium", "--solution")
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestGenerateCommandSize(t *testing.T) {
	out, err := execute(t, "generate", "--seed", "2", "--size", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Grid Dimensions: 9x9\n")

	_, err = execute(t, "generate", "--size", "10")
	assert.Error(t, err)
	_, err = execute(t, "generate", "--size", "3")
	assert.Error(t, err)
}

func TestGenerateYAMLIsPlayableSnapshot(t *testing.T) {
	out, err := execute(t, "generate", "--seed", "31", "-d", "hard", "--yaml")
	require.NoError(t, err)

	snapshot, err := game.LoadSnapshot(out)
	require.NoError(t, err)
	assert.Equal(t, int64(31), snapshot.Seed)
	assert.Equal(t, game.Hard, snapshot.Difficulty)

	maze, err := snapshot.Maze()
	require.NoError(t, err)
	assert.Equal(t, 31, maze.Size())
}

func TestRecordsCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.yaml")

	out, err := execute(t, "records", "--records", path)
	require.NoError(t, err)
	assert.Equal(t, "No best times yet.\n", out)

	store, err := game.OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(game.BestTimesKey, `{"hard_2": 61234, "easy_1": 9870}`))

	out, err = execute(t, "records", "--records", path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"DIFFICULTY", "LEVEL", "BEST"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"Easy", "1", "0:09.87"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"Hard", "2", "1:01.23"}, strings.Fields(lines[2]))
}

func TestConfigFileYieldsToFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gomaze.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("difficulty: hard\nseed: 4\n"), 0644))

	out, err := execute(t, "generate", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 4\n")
	assert.Contains(t, out, "Grid Dimensions: 31x31\n")

	out, err = execute(t, "generate", "--config", path, "-d", "easy")
	require.NoError(t, err)
	assert.Contains(t, out, "Seed: 4\n")
	assert.Contains(t, out, "Grid Dimensions: 15x15\n")
}

func TestGenerateYAMLKeepsPresetSize(t *testing.T) {
	_, err := execute(t, "generate", "--seed", "1", "--size", "7", "--yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--size 7")

	out, err := execute(t, "generate", "--seed", "1", "-d", "medium", "--size", "21", "--yaml")
	require.NoError(t, err)
	snapshot, err := game.LoadSnapshot(out)
	require.NoError(t, err)
	_, err = snapshot.Maze()
	assert.NoError(t, err)
}
