package cmd

import (
	"fmt"
	"github.com/spf13/cobra"
	"github.com/they4kman/gomaze/game"
	"io"
	"math/rand"
	"strings"
	"time"
)

var (
	generateSize     int
	generateSolution bool
	generateCheck    bool
	generateYAML     bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print a freshly carved maze",
	Long: `Print a maze without playing it.

	gomaze generate -d hard --solution

The same --seed always yields the same maze, so a maze can be shared and
replayed with gomaze --snapshot after saving the --yaml output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		size := gameConfig.Difficulty.Size()
		if generateSize != 0 {
			if generateSize < 5 || generateSize%2 == 0 {
				return fmt.Errorf("--size must be an odd number of at least 5, got %d", generateSize)
			}
			if generateYAML && generateSize != size {
				return fmt.Errorf("--yaml snapshots are played at the %s size of %d, got --size %d", gameConfig.Difficulty, size, generateSize)
			}
			size = generateSize
		}

		seed := gameConfig.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		maze := game.Generate(size, rand.New(rand.NewSource(seed)))

		if generateCheck {
			if err := maze.Validate(); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if generateYAML {
			snapshot := &game.MazeSnapshot{
				Seed:           seed,
				Difficulty:     gameConfig.Difficulty,
				Level:          1,
				Player:         maze.Entry(),
				SerializedMaze: maze.String(),
			}
			serialized, err := snapshot.Serialize()
			if err != nil {
				return err
			}
			_, err = io.WriteString(out, serialized)
			return err
		}

		var solution []game.Position
		if generateSolution {
			solution = game.ShortestPath(maze, maze.Entry(), maze.Exit())
		}

		fmt.Fprintf(out, "Seed: %d\nGrid Dimensions: %dx%d\n", seed, maze.Size(), maze.Size())
		if solution != nil {
			fmt.Fprintf(out, "Solution Path Length: %d steps\n", len(solution)-1)
		}
		_, err := io.WriteString(out, drawMaze(maze, solution))
		return err
	},
}

func drawMaze(maze *game.Maze, solution []game.Position) string {
	onPath := make(map[game.Position]bool, len(solution))
	for _, pos := range solution {
		onPath[pos] = true
	}

	builder := strings.Builder{}
	for y := 0; y < maze.Size(); y++ {
		for x := 0; x < maze.Size(); x++ {
			pos := game.Position{X: x, Y: y}

			switch {
			case pos == maze.Entry():
				builder.WriteString("S")
			case pos == maze.Exit():
				builder.WriteString("E")
			case maze.TileAt(pos) == game.Wall:
				builder.WriteString("█")
			case onPath[pos]:
				builder.WriteString("•")
			default:
				builder.WriteString(" ")
			}
		}
		builder.WriteString("\n")
	}
	return builder.String()
}

func init() {
	generateCmd.Flags().IntVar(&generateSize, "size", 0, "Side length overriding the difficulty preset (odd, at least 5)")
	generateCmd.Flags().BoolVar(&generateSolution, "solution", false, "Mark the shortest route from entry to exit")
	generateCmd.Flags().BoolVar(&generateCheck, "check", false, "Fail unless the maze is a perfect maze")
	generateCmd.Flags().BoolVar(&generateYAML, "yaml", false, "Print a snapshot that can be played with --snapshot")
}
