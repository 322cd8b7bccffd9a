package drumkit

import (
	"image"

	"github.com/ayusman/airdrums/internal/audio"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Cue receives the visual highlight for a hit.
type Cue interface {
	Highlight(at image.Point)
}

// Dispatcher turns hits into sample playback and highlight cues.
//
// There is no cooldown: a fingertip resting in a zone fires it on every
// frame, and the audio output overlaps the repeated samples.
type Dispatcher struct {
	player audio.Player
	log    zerolog.Logger
}

// NewDispatcher creates a Dispatcher that plays through player.
func NewDispatcher(player audio.Player) *Dispatcher {
	return &Dispatcher{
		player: player,
		log:    log.With().Str("module", "dispatcher").Logger(),
	}
}

// Dispatch plays the zone's sample and highlights the fingertip on cue.
// Playback errors are logged; the cue is still drawn.
func (d *Dispatcher) Dispatch(hit Hit, cue Cue) {
	if err := d.player.Play(hit.Zone); err != nil {
		d.log.Warn().Err(err).Str("zone", hit.Zone).Msg("Failed to play sample")
	} else {
		d.log.Debug().Str("zone", hit.Zone).Int("hand", hit.Hand).Int("x", hit.Tip.X).Int("y", hit.Tip.Y).Msg("Zone hit")
	}

	if cue != nil {
		cue.Highlight(hit.Tip)
	}
}

// DispatchAll dispatches every hit in action, in hand order.
func (d *Dispatcher) DispatchAll(action Action, cue Cue) int {
	for _, hit := range action.Hits {
		d.Dispatch(hit, cue)
	}
	return len(action.Hits)
}
