// Package app runs the drum loop: it owns the camera, detector, sound engine
// and display, and moves frames through them until told to stop.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ayusman/airdrums/internal/audio"
	"github.com/ayusman/airdrums/internal/capture"
	"github.com/ayusman/airdrums/internal/detector"
	"github.com/ayusman/airdrums/internal/drumkit"
	"github.com/ayusman/airdrums/internal/overlay"
	"github.com/ayusman/airdrums/internal/zone"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// QuitKey stops the loop when pressed in the display window.
const QuitKey = 'q'

var (
	// ErrCameraOpen is returned by Run when the camera cannot be opened.
	ErrCameraOpen = errors.New("camera unavailable")
	// ErrDetection wraps a failure of the hand detector.
	ErrDetection = errors.New("hand detection failed")
)

// State is the loop state.
type State int

const (
	// StateIdle is the state before Run is called.
	StateIdle State = iota
	// StateRunning means frames are being processed.
	StateRunning
	// StateStopped is terminal; all resources have been released.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SoundEngine plays samples and is shut down with the loop.
type SoundEngine interface {
	audio.Player
	io.Closer
}

// Config holds configuration options for the application.
type Config struct {
	// Zones is the drum layout; frames are resized to its plane.
	// Defaults to zone.DefaultLayout at 640x480.
	Zones *zone.Map

	// Mirror flips frames horizontally before detection.
	Mirror bool
}

// App is the drum loop. Build it with New, then call Run once.
type App struct {
	config     Config
	camera     capture.Camera
	detector   detector.Detector
	sound      SoundEngine
	display    overlay.Display
	dispatcher *drumkit.Dispatcher
	log        zerolog.Logger

	mu       sync.Mutex
	state    State
	frames   int
	triggers int
	stopOnce sync.Once
}

// New creates an App over its collaborators. The App takes ownership of
// all of them and releases them when it stops.
func New(config Config, camera capture.Camera, det detector.Detector, sound SoundEngine, display overlay.Display) (*App, error) {
	if camera == nil || det == nil || sound == nil || display == nil {
		return nil, errors.New("app: camera, detector, sound engine and display are required")
	}

	if config.Zones == nil {
		zones, err := zone.DefaultLayout(zone.DefaultWidth, zone.DefaultHeight)
		if err != nil {
			return nil, err
		}
		config.Zones = zones
	}

	return &App{
		config:     config,
		camera:     camera,
		detector:   det,
		sound:      sound,
		display:    display,
		dispatcher: drumkit.NewDispatcher(sound),
		log:        log.With().Str("module", "app").Logger(),
		state:      StateIdle,
	}, nil
}

// Run opens the camera unless it is already open, then processes frames
// until the quit key is pressed, a frame cannot be read, ctx is cancelled,
// or the detector fails. Only a detector failure or a camera that cannot be
// opened is returned as an error. Resources are released before Run returns.
func (a *App) Run(ctx context.Context) error {
	defer a.Stop()

	if !a.camera.IsOpen() {
		if err := a.camera.Open(); err != nil {
			return fmt.Errorf("%w: %w", ErrCameraOpen, err)
		}
	}

	a.setState(StateRunning)
	a.log.Info().
		Strs("zones", a.config.Zones.Names()).
		Int("width", a.config.Zones.Width()).
		Int("height", a.config.Zones.Height()).
		Int("fps", a.camera.FPS()).
		Msg("Drum loop started")

	for {
		if err := ctx.Err(); err != nil {
			a.log.Info().Msg("Drum loop interrupted")
			return nil
		}

		done, err := a.processFrame()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// Stop moves the App to StateStopped and releases the camera, display,
// sound engine and detector. Only the first call has any effect.
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		a.setState(StateStopped)

		if err := a.camera.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing camera")
		}
		if err := a.display.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing display")
		}
		if err := a.sound.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing sound engine")
		}
		if err := a.detector.Close(); err != nil {
			a.log.Error().Err(err).Msg("Error closing detector")
		}

		frames, triggers := a.Stats()
		a.log.Info().Int("frames", frames).Int("triggers", triggers).Msg("Drum loop stopped")
	})
}

// State returns the current loop state.
func (a *App) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Stats returns the number of frames processed and triggers dispatched.
func (a *App) Stats() (frames, triggers int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frames, a.triggers
}

// Zones returns the drum layout.
func (a *App) Zones() *zone.Map {
	return a.config.Zones
}

func (a *App) setState(s State) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = s
}
