package game

import (
	log "github.com/sirupsen/logrus"
	"math/rand"
	"time"
)

type MoveResult struct {
	Accepted bool
	AtGoal   bool
}

// Completion describes a finished attempt
type Completion struct {
	Difficulty Difficulty
	Level      int
	Elapsed    time.Duration
	NewRecord  bool
	At         time.Time
}

type EngineConfig struct {
	Difficulty Difficulty
	// Seeds the sequence of per-maze seeds (0 = random)
	Seed  int64
	Store Store
	Now   func() time.Time

	// Pause between reaching the goal and the next level
	LevelDelay time.Duration

	Director        Director
	OnLevelComplete func(*Engine, Completion)

	// Optional maze for the first attempt, and the level it is played at
	Maze     *Maze
	MazeSeed int64
	Level    int

	// Where the first attempt on Maze resumes. Ignored unless Player is an open
	// cell other than the goal.
	Player  Position
	Elapsed time.Duration
}

// Engine owns one game session: the current maze, the player and goal
// positions, and the attempt timer. It is not safe for concurrent use; all
// calls are expected to come from the frontend's frame loop.
type Engine struct {
	difficulty Difficulty
	level      int

	maze     *Maze
	mazeSeed int64
	player   Position
	goal     Position
	state    EngineState

	rand       *rand.Rand
	now        func() time.Time
	levelDelay time.Duration
	tracker    *Tracker

	director        Director
	onLevelComplete func(*Engine, Completion)
	completion      *Completion
}

func NewEngine(config EngineConfig) *Engine {
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.LevelDelay == 0 {
		config.LevelDelay = DefaultLevelDelay
	}
	if config.Seed == 0 {
		config.Seed = time.Now().UnixNano()
	}
	if config.Store == nil {
		config.Store = NewMemoryStore()
	}
	if config.Level < 1 {
		config.Level = 1
	}

	engine := &Engine{
		difficulty:      config.Difficulty,
		level:           config.Level,
		rand:            rand.New(rand.NewSource(config.Seed)),
		now:             config.Now,
		levelDelay:      config.LevelDelay,
		tracker:         NewTracker(config.Store, config.Now),
		director:        config.Director,
		onLevelComplete: config.OnLevelComplete,
	}

	if config.Maze != nil {
		player, elapsed := config.Maze.Entry(), time.Duration(0)
		if config.Maze.IsPassage(config.Player) && config.Player != config.Maze.Exit() {
			player, elapsed = config.Player, config.Elapsed
		}
		engine.resumeAttempt(config.Maze, config.MazeSeed, player, elapsed)
	} else {
		engine.generate()
	}
	return engine
}

func (engine *Engine) generate() {
	seed := engine.rand.Int63()
	maze := Generate(engine.difficulty.Size(), rand.New(rand.NewSource(seed)))
	engine.startAttempt(maze, seed)
}

func (engine *Engine) startAttempt(maze *Maze, seed int64) {
	engine.resumeAttempt(maze, seed, maze.Entry(), 0)
}

func (engine *Engine) resumeAttempt(maze *Maze, seed int64, player Position, elapsed time.Duration) {
	engine.maze = maze
	engine.mazeSeed = seed
	engine.player = player
	engine.goal = maze.Exit()
	engine.state = Playing
	engine.completion = nil

	engine.tracker.ResumeAttempt(engine.difficulty, engine.level, elapsed)

	log.WithFields(log.Fields{
		"difficulty": engine.difficulty.String(),
		"game_level": engine.level,
		"seed":       seed,
		"player":     player.String(),
	}).Debug("Started attempt")

	if engine.director != nil {
		engine.director.Init(engine)
	}
}

// AttemptMove moves the player one cell. Moves into walls, off the grid, or
// while the level is complete are ignored.
func (engine *Engine) AttemptMove(dir Direction) MoveResult {
	if engine.state != Playing {
		return MoveResult{}
	}
	if _, ok := directionDeltas[dir]; !ok {
		return MoveResult{}
	}

	dest := engine.player.Step(dir)
	if !engine.maze.IsPassage(dest) {
		return MoveResult{}
	}

	engine.player = dest
	if engine.player != engine.goal {
		return MoveResult{Accepted: true}
	}

	engine.completeLevel()
	return MoveResult{Accepted: true, AtGoal: true}
}

func (engine *Engine) completeLevel() {
	elapsed, newRecord := engine.tracker.CompleteAttempt()
	engine.state = LevelComplete
	engine.completion = &Completion{
		Difficulty: engine.difficulty,
		Level:      engine.level,
		Elapsed:    elapsed,
		NewRecord:  newRecord,
		At:         engine.now(),
	}

	log.WithFields(log.Fields{
		"difficulty": engine.difficulty.String(),
		"game_level": engine.level,
		"elapsed":    FormatTime(elapsed),
		"record":     newRecord,
	}).Info("Level complete")

	if engine.director != nil {
		engine.director.End()
	}
	if engine.onLevelComplete != nil {
		engine.onLevelComplete(engine, *engine.completion)
	}
}

// Update advances to the next level once the level-complete delay has passed.
// Returns whether a new maze was generated.
func (engine *Engine) Update(now time.Time) bool {
	if engine.state != LevelComplete || engine.completion == nil {
		return false
	}
	if now.Sub(engine.completion.At) < engine.levelDelay {
		return false
	}

	engine.level++
	engine.generate()
	return true
}

// NewMaze abandons the current attempt and starts over at level 1
func (engine *Engine) NewMaze() {
	engine.level = 1
	engine.generate()
}

func (engine *Engine) SetDifficulty(difficulty Difficulty) {
	engine.difficulty = difficulty
	engine.NewMaze()
}

// ResetPosition puts the player back on the entry without restarting the clock
func (engine *Engine) ResetPosition() {
	if engine.state != Playing {
		return
	}
	engine.player = engine.maze.Entry()
}

// RequestDirectorAct lets the configured director make a move
func (engine *Engine) RequestDirectorAct() {
	if engine.director != nil && engine.state == Playing {
		engine.director.Act()
	}
}

func (engine *Engine) HasDirector() bool {
	return engine.director != nil
}

func (engine *Engine) Maze() *Maze {
	return engine.maze
}

func (engine *Engine) MazeSeed() int64 {
	return engine.mazeSeed
}

func (engine *Engine) Player() Position {
	return engine.player
}

func (engine *Engine) Goal() Position {
	return engine.goal
}

func (engine *Engine) State() EngineState {
	return engine.state
}

func (engine *Engine) Level() int {
	return engine.level
}

func (engine *Engine) Difficulty() Difficulty {
	return engine.difficulty
}

func (engine *Engine) Rand() *rand.Rand {
	return engine.rand
}

// Elapsed is the running attempt time, frozen once the level is complete
func (engine *Engine) Elapsed() time.Duration {
	if engine.completion != nil {
		return engine.completion.Elapsed
	}
	return engine.tracker.Elapsed()
}

// BestTime for the current difficulty and level
func (engine *Engine) BestTime() (time.Duration, bool) {
	return engine.tracker.BestTime(engine.difficulty, engine.level)
}

func (engine *Engine) BestTimes() BestTimes {
	return engine.tracker.BestTimes()
}

// LastCompletion is set while the engine is in LevelComplete
func (engine *Engine) LastCompletion() (Completion, bool) {
	if engine.completion == nil {
		return Completion{}, false
	}
	return *engine.completion, true
}
