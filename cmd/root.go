package cmd

import (
	"fmt"
	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/they4kman/gomaze/director/constraint"
	"github.com/they4kman/gomaze/director/random"
	"github.com/they4kman/gomaze/game"
	"github.com/they4kman/gomaze/tui"
	"github.com/they4kman/gomaze/window"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var gameConfig = game.NewGameConfig()

var (
	directorName string
	snapshotPath string
	useTUI       bool
	configPath   string
	logLevel     string
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "gomaze",
	Short: "Race through randomly carved mazes",
	Long: `gomaze is a maze runner: steer from the top-left entry to the
bottom-right exit as fast as you can. Best times are kept per
difficulty and level.

Run with no arguments to play in a window
	gomaze

Play in the terminal instead
	gomaze --tui

Let the computer solve the mazes
	gomaze --director constraint
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfigFile(cmd.Flags()); err != nil {
			return err
		}
		return setupLogging(!cmd.HasParent() && useTUI)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if directorName != "" {
			director, err := newDirector(directorName)
			if err != nil {
				return err
			}
			gameConfig.Director = director
		}

		if snapshotPath != "" {
			in, err := ioutil.ReadFile(snapshotPath)
			if err != nil {
				return errors.Wrapf(err, "reading snapshot %s", snapshotPath)
			}
			if gameConfig.Snapshot, err = game.LoadSnapshot(string(in)); err != nil {
				return err
			}
		}

		log.WithFields(log.Fields{
			"difficulty": gameConfig.Difficulty.String(),
			"records":    gameConfig.RecordsPath,
			"director":   directorName,
		}).Debug("Starting game")

		if useTUI {
			return tui.Run(gameConfig)
		}

		var err error
		pixelgl.Run(func() {
			err = window.Run(gameConfig)
		})
		return err
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

type difficultyValue game.Difficulty

func newDifficultyValue(val game.Difficulty, p *game.Difficulty) *difficultyValue {
	*p = val
	return (*difficultyValue)(p)
}

func (difficultyVal *difficultyValue) String() string {
	return game.Difficulty(*difficultyVal).String()
}

func (difficultyVal *difficultyValue) Set(value string) error {
	difficulty, err := game.ParseDifficulty(value)
	if err != nil {
		return err
	}
	*difficultyVal = difficultyValue(difficulty)
	return nil
}

func (difficultyVal *difficultyValue) Type() string {
	return "game.Difficulty"
}

var directors = map[string]func() game.Director{
	"random":     func() game.Director { return &random.Director{} },
	"constraint": func() game.Director { return &constraint.Director{} },
}

func directorNames() []string {
	names := make([]string, 0, len(directors))
	for name := range directors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func newDirector(name string) (game.Director, error) {
	if create, isValid := directors[name]; isValid {
		return create(), nil
	}
	return nil, fmt.Errorf("invalid director %q (expected one of: %s)", name, strings.Join(directorNames(), ", "))
}

func defaultRecordsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".gomaze", "records.yaml")
}

// loadConfigFile overlays --config onto gameConfig. Flags given on the command
// line take precedence over the file.
func loadConfigFile(flags *pflag.FlagSet) error {
	if configPath == "" {
		return nil
	}

	explicit := map[string]string{}
	flags.Visit(func(flag *pflag.Flag) {
		explicit[flag.Name] = flag.Value.String()
	})

	if err := game.LoadConfigFile(configPath, &gameConfig); err != nil {
		return err
	}

	for name, value := range explicit {
		if err := flags.Set(name, value); err != nil {
			return errors.Wrapf(err, "reapplying --%s", name)
		}
	}
	return nil
}

func setupLogging(fullscreen bool) error {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	switch {
	case logFile != "":
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return errors.Wrapf(err, "opening log file %s", logFile)
		}
		log.SetOutput(file)
	case fullscreen:
		// Log lines would be drawn over the terminal UI
		log.SetOutput(ioutil.Discard)
	default:
		log.SetOutput(os.Stderr)
	}
	return nil
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.VarP(newDifficultyValue(game.Easy, &gameConfig.Difficulty), "difficulty", "d", `Maze size preset:
easy: 15x15
medium: 21x21
hard: 31x31`)
	flags.Int64Var(&gameConfig.Seed, "seed", 0, "Random seed (0 = seeded from the clock)")
	flags.StringVar(&gameConfig.RecordsPath, "records", defaultRecordsPath(), "File keeping best times (empty to keep them in memory only)")
	flags.StringVar(&configPath, "config", "", "YAML file with game settings")
	flags.StringVar(&logLevel, "log-level", "warning", "Log level (debug, info, warning, error)")
	flags.StringVar(&logFile, "log-file", "", "Write logs to this file instead of stderr")

	rootCmd.Flags().StringVar(&gameConfig.SavedSnapshotsDir, "snapshots", "", "Directory to save a snapshot of every completed maze")
	rootCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "Play the first level on a saved snapshot")
	rootCmd.Flags().StringVar(&directorName, "director", "", fmt.Sprintf("Make the computer play (%s)", strings.Join(directorNames(), ", ")))
	rootCmd.Flags().DurationVar(&gameConfig.DirectorInterval, "director-interval", game.DefaultDirectorInterval, "Time between two computer moves")
	rootCmd.Flags().DurationVar(&gameConfig.LevelDelay, "level-delay", game.DefaultLevelDelay, "Pause between completing a level and the next maze")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "Play in the terminal instead of a window")
	rootCmd.Flags().BoolVar(&gameConfig.Sound, "sound", false, "Play sound effects")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(recordsCmd)
}
