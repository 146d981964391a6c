package game

import (
	"fmt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type GameConfig struct {
	Difficulty Difficulty `yaml:"difficulty"`
	Seed       int64      `yaml:"seed"`

	// File backing the best-time table (empty = kept in memory only)
	RecordsPath string `yaml:"records"`

	// Path to directory where a snapshot of every completed maze is saved
	SavedSnapshotsDir string `yaml:"snapshots"`
	// Snapshot to play the first level on
	Snapshot *MazeSnapshot `yaml:"-"`

	Director         Director      `yaml:"-"`
	DirectorInterval time.Duration `yaml:"director_interval"`

	LevelDelay time.Duration `yaml:"level_delay"`

	Sound bool `yaml:"sound"`

	Now             func() time.Time          `yaml:"-"`
	OnLevelComplete func(*Engine, Completion) `yaml:"-"`
}

func NewGameConfig() GameConfig {
	return GameConfig{
		Difficulty:       Easy,
		RecordsPath:      "",
		Director:         nil,
		Snapshot:         nil,
		DirectorInterval: DefaultDirectorInterval,
		LevelDelay:       DefaultLevelDelay,
	}
}

// LoadConfigFile overlays the YAML settings in path onto config
func LoadConfigFile(path string, config *GameConfig) error {
	in, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "reading config %s", path)
	}
	if err := yaml.UnmarshalStrict(in, config); err != nil {
		return errors.Wrapf(err, "parsing config %s", path)
	}
	return nil
}

func (config GameConfig) OpenStore() (Store, error) {
	if config.RecordsPath == "" {
		return NewMemoryStore(), nil
	}
	return OpenFileStore(config.RecordsPath)
}

func (config GameConfig) NewEngine() (*Engine, error) {
	store, err := config.OpenStore()
	if err != nil {
		return nil, err
	}

	engineConfig := EngineConfig{
		Difficulty:      config.Difficulty,
		Seed:            config.Seed,
		Store:           store,
		Now:             config.Now,
		LevelDelay:      config.LevelDelay,
		Director:        config.Director,
		OnLevelComplete: config.onLevelComplete,
	}

	if config.Snapshot != nil {
		maze, err := config.Snapshot.Maze()
		if err != nil {
			return nil, err
		}
		engineConfig.Difficulty = config.Snapshot.Difficulty
		engineConfig.Maze = maze
		engineConfig.MazeSeed = config.Snapshot.Seed
		engineConfig.Level = config.Snapshot.Level
		engineConfig.Player = config.Snapshot.Player
		engineConfig.Elapsed = config.Snapshot.Elapsed()
	}

	return NewEngine(engineConfig), nil
}

func (config GameConfig) onLevelComplete(engine *Engine, completion Completion) {
	config.saveSnapshot(engine, completion)

	if config.OnLevelComplete != nil {
		config.OnLevelComplete(engine, completion)
	}
}

func (config GameConfig) saveSnapshot(engine *Engine, completion Completion) {
	if config.SavedSnapshotsDir == "" {
		return
	}

	stat, err := os.Stat(config.SavedSnapshotsDir)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(config.SavedSnapshotsDir, 0777); err != nil {
				log.WithError(err).Error("Creating snapshots directory")
				return
			}
		} else {
			log.WithError(err).Error("Checking snapshots directory")
			return
		}
	} else if !stat.Mode().IsDir() {
		log.Errorf("%s is not a directory; cannot save snapshots to it.", config.SavedSnapshotsDir)
		return
	}

	filename := config.generateSnapshotFilename(completion, completion.At)
	path := filepath.Join(config.SavedSnapshotsDir, filename)

	out, err := engine.Snapshot().Serialize()
	if err != nil {
		log.WithError(err).Error("Serializing snapshot")
		return
	}
	if err := ioutil.WriteFile(path, []byte(out), 0644); err != nil {
		log.WithError(err).Error("Saving snapshot")
		return
	}
	log.WithField("path", path).Debug("Saved snapshot")
}

func (config GameConfig) generateSnapshotFilename(completion Completion, t time.Time) string {
	filenameBuilder := strings.Builder{}

	filenameBuilder.WriteString(t.Format("20060102_150405_"))
	filenameBuilder.WriteString(fmt.Sprintf("%s_%d", completion.Difficulty, completion.Level))
	filenameBuilder.WriteString(".yaml")

	return filenameBuilder.String()
}

func (difficulty Difficulty) MarshalYAML() (interface{}, error) {
	return difficulty.String(), nil
}

func (difficulty *Difficulty) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}

	parsed, err := ParseDifficulty(name)
	if err != nil {
		return err
	}
	*difficulty = parsed
	return nil
}
