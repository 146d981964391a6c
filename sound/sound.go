package sound

import (
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	log "github.com/sirupsen/logrus"
)

const sampleRate = beep.SampleRate(44100)

// Player plays short cues for game events. A Player whose speaker could not be
// initialized stays silent.
type Player struct {
	initialized bool
}

func NewPlayer() *Player {
	player := &Player{}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		// Non-fatal, game can run without sound
		log.WithError(err).Warn("Audio initialization failed")
		return player
	}
	player.initialized = true
	return player
}

// Chime is played when a level is completed; a higher second note marks a new
// best time
func (player *Player) Chime(newRecord bool) {
	second := 1318.5
	if newRecord {
		second = 1760
	}
	player.play(
		tone(880, 90*time.Millisecond),
		tone(second, 160*time.Millisecond),
	)
}

// Bump is played when a move runs into a wall
func (player *Player) Bump() {
	player.play(tone(110, 40*time.Millisecond))
}

func (player *Player) play(streamers ...beep.Streamer) {
	if !player.initialized {
		return
	}
	speaker.Play(beep.Seq(streamers...))
}

func (player *Player) Close() {
	if player.initialized {
		speaker.Close()
		player.initialized = false
	}
}

func tone(freq float64, duration time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.WithError(err).WithField("freq", freq).Debug("Invalid tone")
		return beep.Silence(sampleRate.N(duration))
	}
	return beep.Take(sampleRate.N(duration), sine)
}
