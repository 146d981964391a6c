package tui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	log "github.com/sirupsen/logrus"
	"github.com/they4kman/gomaze/game"
	"github.com/they4kman/gomaze/sound"
)

const frameInterval = 16 * time.Millisecond // ~60 FPS

var (
	wallStyle    = tcell.StyleDefault.Background(tcell.NewRGBColor(0x34, 0x49, 0x5e))
	passageStyle = tcell.StyleDefault.Background(tcell.NewRGBColor(0xec, 0xf0, 0xf1))
	playerStyle  = passageStyle.Foreground(tcell.NewRGBColor(0x34, 0x98, 0xdb)).Bold(true)
	goalStyle    = passageStyle.Foreground(tcell.NewRGBColor(0xe7, 0x4c, 0x3c)).Bold(true)
	hudStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	messageStyle = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
)

type commandKind int

const (
	noCommand commandKind = iota
	moveCommand
	newMazeCommand
	resetCommand
	difficultyCommand
	quitCommand
)

type command struct {
	kind       commandKind
	direction  game.Direction
	difficulty game.Difficulty
}

// keyCommand maps a key press to what it asks the game to do
func keyCommand(key tcell.Key, r rune) command {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return command{kind: quitCommand}
	case tcell.KeyUp:
		return command{kind: moveCommand, direction: game.Up}
	case tcell.KeyDown:
		return command{kind: moveCommand, direction: game.Down}
	case tcell.KeyLeft:
		return command{kind: moveCommand, direction: game.Left}
	case tcell.KeyRight:
		return command{kind: moveCommand, direction: game.Right}
	case tcell.KeyRune:
	default:
		return command{}
	}

	if dir, ok := game.ParseDirection(string(r)); ok {
		return command{kind: moveCommand, direction: dir}
	}

	switch r {
	case 'q':
		return command{kind: quitCommand}
	case 'n', 'N':
		return command{kind: newMazeCommand}
	case 'r', 'R':
		return command{kind: resetCommand}
	case '1', '2', '3':
		return command{kind: difficultyCommand, difficulty: game.Difficulties[r-'1']}
	}
	return command{}
}

type frontend struct {
	screen tcell.Screen
	engine *game.Engine
	config game.GameConfig
	sound  *sound.Player

	lastDirectorAct time.Time
}

// Run plays the game in the terminal until the user quits
func Run(config game.GameConfig) error {
	ui := &frontend{config: config}

	if config.Sound {
		ui.sound = sound.NewPlayer()
		defer ui.sound.Close()

		onLevelComplete := config.OnLevelComplete
		config.OnLevelComplete = func(engine *game.Engine, completion game.Completion) {
			ui.sound.Chime(completion.NewRecord)
			if onLevelComplete != nil {
				onLevelComplete(engine, completion)
			}
		}
	}

	engine, err := config.NewEngine()
	if err != nil {
		return err
	}
	ui.engine = engine

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	ui.screen = screen
	defer screen.Fini()

	ui.run()
	return nil
}

func (ui *frontend) run() {
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := ui.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	ui.draw()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !ui.handleEvent(ev) {
				return
			}

		case now := <-ticker.C:
			if ui.engine.Update(now) {
				log.WithField("game_level", ui.engine.Level()).Debug("Advanced to next level")
			}

			if ui.engine.HasDirector() && now.Sub(ui.lastDirectorAct) >= ui.config.DirectorInterval {
				ui.lastDirectorAct = now
				ui.engine.RequestDirectorAct()
			}

			ui.draw()
		}
	}
}

func (ui *frontend) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		cmd := keyCommand(ev.Key(), ev.Rune())
		switch cmd.kind {
		case quitCommand:
			return false
		case moveCommand:
			result := ui.engine.AttemptMove(cmd.direction)
			if !result.Accepted && ui.sound != nil && ui.engine.State() == game.Playing {
				ui.sound.Bump()
			}
		case newMazeCommand:
			ui.engine.NewMaze()
		case resetCommand:
			ui.engine.ResetPosition()
		case difficultyCommand:
			ui.engine.SetDifficulty(cmd.difficulty)
		}

	case *tcell.EventResize:
		ui.screen.Sync()
	}

	return true
}

func (ui *frontend) hudLine() string {
	best, ok := ui.engine.BestTime()
	return fmt.Sprintf(
		"Level %d | %s | Time %s | Best %s",
		ui.engine.Level(),
		ui.engine.Difficulty().Title(),
		game.FormatTime(ui.engine.Elapsed()),
		game.FormatBestTime(best, ok),
	)
}

func (ui *frontend) message() string {
	completion, ok := ui.engine.LastCompletion()
	if !ok {
		return "wasd/arrows move | n new maze | r reset | 1-3 difficulty | esc quit"
	}

	if completion.NewRecord {
		return fmt.Sprintf("New Best Time! Level %d completed in %s!", completion.Level, game.FormatTime(completion.Elapsed))
	}
	return fmt.Sprintf("Level %d completed in %s!", completion.Level, game.FormatTime(completion.Elapsed))
}

func (ui *frontend) draw() {
	screen := ui.screen
	screen.Clear()

	maze := ui.engine.Maze()
	width, height := screen.Size()

	// Each tile is two columns wide to look roughly square
	if width < maze.Size()*2 || height < maze.Size()+2 {
		drawText(screen, 0, 0, "Terminal too small for this maze", hudStyle)
		screen.Show()
		return
	}

	drawText(screen, 0, 0, ui.hudLine(), hudStyle)

	player, goal := ui.engine.Player(), ui.engine.Goal()
	for y := 0; y < maze.Size(); y++ {
		for x := 0; x < maze.Size(); x++ {
			pos := game.Position{X: x, Y: y}

			style, glyph := passageStyle, ' '
			switch {
			case pos == player:
				style, glyph = playerStyle, '●'
			case pos == goal:
				style, glyph = goalStyle, '◆'
			case maze.TileAt(pos) == game.Wall:
				style = wallStyle
			}

			screen.SetContent(x*2, y+1, glyph, nil, style)
			screen.SetContent(x*2+1, y+1, ' ', nil, style)
		}
	}

	drawText(screen, 0, maze.Size()+1, ui.message(), messageStyle)
	screen.Show()
}

func drawText(screen tcell.Screen, x, y int, text string, style tcell.Style) {
	for _, r := range text {
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
