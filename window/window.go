package window

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/imdraw"
	"github.com/faiface/pixel/pixelgl"
	"github.com/faiface/pixel/text"
	log "github.com/sirupsen/logrus"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"github.com/they4kman/gomaze/game"
	"github.com/they4kman/gomaze/sound"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

const (
	tileWidth      = 20
	headerHeight   = 50
	footerHeight   = 30
	minWindowWidth = 420

	markerTravel = 0.08 // seconds to slide between two tiles
)

var (
	wallColor    = pixel.RGB(0x34/255.0, 0x49/255.0, 0x5e/255.0)
	passageColor = pixel.RGB(0xec/255.0, 0xf0/255.0, 0xf1/255.0)
	playerColor  = pixel.RGB(0x34/255.0, 0x98/255.0, 0xdb/255.0)
	goalColor    = pixel.RGB(0xe7/255.0, 0x4c/255.0, 0x3c/255.0)
	shadowColor  = pixel.RGBA{R: 0, G: 0, B: 0, A: 0.3}
)

var moveButtons = map[pixelgl.Button]game.Direction{
	pixelgl.KeyW:     game.Up,
	pixelgl.KeyUp:    game.Up,
	pixelgl.KeyS:     game.Down,
	pixelgl.KeyDown:  game.Down,
	pixelgl.KeyA:     game.Left,
	pixelgl.KeyLeft:  game.Left,
	pixelgl.KeyD:     game.Right,
	pixelgl.KeyRight: game.Right,
}

var difficultyButtons = map[pixelgl.Button]game.Difficulty{
	pixelgl.Key1: game.Easy,
	pixelgl.Key2: game.Medium,
	pixelgl.Key3: game.Hard,
}

// marker is a tile-space position that slides towards its target
type marker struct {
	target         game.Position
	x, y           float32
	tweenX, tweenY *gween.Tween
}

func newMarker(pos game.Position) *marker {
	return &marker{target: pos, x: float32(pos.X), y: float32(pos.Y)}
}

func (m *marker) moveTo(pos game.Position) {
	if pos == m.target {
		return
	}

	// Jumps (new maze, reset) are not animated
	if _, adjacent := game.DirectionBetween(m.target, pos); !adjacent {
		*m = *newMarker(pos)
		return
	}

	m.target = pos
	m.tweenX = gween.New(m.x, float32(pos.X), markerTravel, ease.OutQuad)
	m.tweenY = gween.New(m.y, float32(pos.Y), markerTravel, ease.OutQuad)
}

func (m *marker) update(dt float32) {
	var finished bool
	if m.tweenX != nil {
		if m.x, finished = m.tweenX.Update(dt); finished {
			m.tweenX = nil
		}
	}
	if m.tweenY != nil {
		if m.y, finished = m.tweenY.Update(dt); finished {
			m.tweenY = nil
		}
	}
}

func windowBounds(maze *game.Maze) pixel.Rect {
	return pixel.R(
		0, 0,
		math.Max(float64(maze.Size()*tileWidth), minWindowWidth),
		float64(maze.Size()*tileWidth+headerHeight+footerHeight),
	)
}

// Run opens the game window and plays until it is closed. Must be called from
// within pixelgl.Run.
func Run(config game.GameConfig) error {
	var player *sound.Player
	if config.Sound {
		player = sound.NewPlayer()
		defer player.Close()

		onLevelComplete := config.OnLevelComplete
		config.OnLevelComplete = func(engine *game.Engine, completion game.Completion) {
			player.Chime(completion.NewRecord)
			if onLevelComplete != nil {
				onLevelComplete(engine, completion)
			}
		}
	}

	engine, err := config.NewEngine()
	if err != nil {
		return err
	}

	cfg := pixelgl.WindowConfig{
		Title:  "gomaze",
		Bounds: windowBounds(engine.Maze()),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		return err
	}
	defer win.Destroy()

	basicAtlas := text.NewAtlas(basicfont.Face7x13, text.ASCII)
	var hudText, messageText *text.Text
	var boardTopLeft pixel.Vec

	currentSize := 0
	layout := func() {
		maze := engine.Maze()
		if maze.Size() == currentSize {
			return
		}
		currentSize = maze.Size()

		win.SetBounds(windowBounds(maze))

		topLeft := win.Bounds().Vertices()[1]
		boardTopLeft = topLeft.Sub(pixel.V(0, headerHeight))

		hudText = text.New(topLeft.Add(pixel.V(20, -30)), basicAtlas)
		messageText = text.New(pixel.V(20, footerHeight/2-4), basicAtlas)
	}
	layout()

	playerMarker := newMarker(engine.Player())
	imd := imdraw.New(nil)

	var (
		frames          = 0
		second          = time.Tick(time.Second)
		last            = time.Now()
		lastDirectorAct time.Time
	)

	for !win.Closed() {
		win.Update()
		win.Clear(colornames.Gainsboro)

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		frames++
		select {
		case <-second:
			win.SetTitle(fmt.Sprintf("%s | FPS: %d", cfg.Title, frames))
			frames = 0
		default:
		}

		if win.JustPressed(pixelgl.KeyEscape) {
			win.SetClosed(true)
			continue
		}
		if win.JustPressed(pixelgl.KeyN) {
			engine.NewMaze()
		}
		if win.JustPressed(pixelgl.KeyR) {
			engine.ResetPosition()
		}
		for button, difficulty := range difficultyButtons {
			if win.JustPressed(button) {
				engine.SetDifficulty(difficulty)
			}
		}
		for button, dir := range moveButtons {
			if win.JustPressed(button) || win.Repeated(button) {
				result := engine.AttemptMove(dir)
				if !result.Accepted && player != nil && engine.State() == game.Playing {
					player.Bump()
				}
			}
		}

		if engine.Update(now) {
			log.WithField("game_level", engine.Level()).Debug("Advanced to next level")
		}
		if engine.HasDirector() && now.Sub(lastDirectorAct) >= config.DirectorInterval {
			lastDirectorAct = now
			engine.RequestDirectorAct()
		}

		layout()
		playerMarker.moveTo(engine.Player())
		playerMarker.update(dt)

		imd.Clear()
		drawMaze(imd, engine.Maze(), boardTopLeft)
		drawMarker(imd, boardTopLeft, float64(engine.Goal().X), float64(engine.Goal().Y), goalColor)
		drawMarker(imd, boardTopLeft, float64(playerMarker.x), float64(playerMarker.y), playerColor)
		imd.Draw(win)

		best, hasBest := engine.BestTime()
		hudText.Clear()
		hudText.Color = colornames.Black
		fmt.Fprintf(
			hudText,
			"Level %d   %s   Time %s   Best %s",
			engine.Level(),
			engine.Difficulty().Title(),
			game.FormatTime(engine.Elapsed()),
			game.FormatBestTime(best, hasBest),
		)
		hudText.Draw(win, pixel.IM)

		messageText.Clear()
		if completion, ok := engine.LastCompletion(); ok {
			alpha := fadeOut(now.Sub(completion.At), config.LevelDelay)
			messageText.Color = pixel.ToRGBA(colornames.Green).Mul(pixel.Alpha(alpha))
			if completion.NewRecord {
				fmt.Fprintf(messageText, "New Best Time! Level %d completed in %s!", completion.Level, game.FormatTime(completion.Elapsed))
			} else {
				fmt.Fprintf(messageText, "Level %d completed in %s!", completion.Level, game.FormatTime(completion.Elapsed))
			}
		} else {
			messageText.Color = colornames.Dimgray
			fmt.Fprint(messageText, "WASD/arrows move  N new maze  R reset  1-3 difficulty")
		}
		messageText.Draw(win, pixel.IM)
	}

	return nil
}

// fadeOut eases an alpha from 1 down to 0 over the level-complete delay
func fadeOut(shown, total time.Duration) float64 {
	if total <= 0 || shown >= total {
		return 0
	}
	return float64(ease.InOutCubic(float32(shown.Seconds()), 1, -1, float32(total.Seconds())))
}

func drawMaze(imd *imdraw.IMDraw, maze *game.Maze, topLeft pixel.Vec) {
	for y := 0; y < maze.Size(); y++ {
		for x := 0; x < maze.Size(); x++ {
			start := topLeft.Add(pixel.V(float64(tileWidth*x), -float64(tileWidth*(y+1))))
			end := start.Add(pixel.V(tileWidth, tileWidth))

			if maze.TileAt(game.Position{X: x, Y: y}) == game.Wall {
				imd.Color = wallColor
			} else {
				imd.Color = passageColor
			}
			imd.Push(start, end)
			imd.Rectangle(0) // 0 = filled
		}
	}
}

func drawMarker(imd *imdraw.IMDraw, topLeft pixel.Vec, x, y float64, color pixel.RGBA) {
	center := topLeft.Add(pixel.V(tileWidth*(x+0.5), -tileWidth*(y+0.5)))
	radius := float64(tileWidth) / 3

	imd.Color = shadowColor
	imd.Push(center.Add(pixel.V(2, -2)))
	imd.Circle(radius, 0)

	imd.Color = color
	imd.Push(center)
	imd.Circle(radius, 0)

	imd.Color = color.Add(pixel.RGB(0.15, 0.15, 0.15))
	imd.Push(center.Add(pixel.V(-3, 3)))
	imd.Circle(radius*0.4, 0)
}
