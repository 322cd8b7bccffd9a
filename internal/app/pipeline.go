package app

import (
	"fmt"

	"github.com/ayusman/airdrums/internal/capture"
	"github.com/ayusman/airdrums/internal/drumkit"
	"github.com/ayusman/airdrums/internal/overlay"
)

// processFrame runs one loop iteration and reports whether the loop is done.
//
// Pipeline:
// 1. Read a frame; a failed read ends the loop
// 2. Mirror and resize it to the zone plane
// 3. Detect hands
// 4. Hit-test each fingertip (drumkit.Step)
// 5. Draw zones, dispatch hits (sound + highlight), draw hands
// 6. Show the frame and poll the quit key
func (a *App) processFrame() (bool, error) {
	zones := a.config.Zones

	frame, err := a.camera.ReadFrame()
	if err != nil {
		a.log.Error().Err(err).Msg("Camera feed not available")
		return true, nil
	}
	defer frame.Close()

	if err := capture.Prepare(frame, zones.Width(), zones.Height(), a.config.Mirror); err != nil {
		a.log.Error().Err(err).Msg("Camera feed not available")
		return true, nil
	}

	hands, err := a.detector.Detect(frame)
	if err != nil {
		return true, fmt.Errorf("%w: %w", ErrDetection, err)
	}

	action := drumkit.Step(zones, hands)

	canvas := overlay.NewCanvas(frame)
	canvas.DrawZones(zones.Zones())
	fired := a.dispatcher.DispatchAll(action, canvas)
	for i := range hands {
		canvas.DrawHand(&hands[i])
	}

	a.mu.Lock()
	a.frames++
	a.triggers += fired
	a.mu.Unlock()

	if err := a.display.Show(frame); err != nil {
		return true, fmt.Errorf("show frame: %w", err)
	}

	if key := a.display.PollKey(); key != overlay.NoKey && key&0xFF == QuitKey {
		a.log.Info().Msg("Quit key pressed")
		return true, nil
	}

	return false, nil
}
