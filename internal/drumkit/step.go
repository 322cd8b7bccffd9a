// Package drumkit decides which drum zones the detected hands strike and
// dispatches the resulting triggers.
package drumkit

import (
	"image"

	"github.com/ayusman/airdrums/internal/detector"
	"github.com/ayusman/airdrums/internal/zone"
)

// TrackedLandmark is the landmark that strikes zones.
const TrackedLandmark = detector.IndexTip

// Hit records that one hand's fingertip is inside a zone in this frame.
type Hit struct {
	Hand int         // index into the detected hands
	Zone string      // zone name
	Tip  image.Point // fingertip in pixels
}

// Action is the outcome of one frame: every fingertip, and the hits to dispatch.
type Action struct {
	Tips []image.Point
	Hits []Hit
}

// Fingertip scales the tracked landmark of hand to the zone plane.
func Fingertip(hand *detector.HandLandmarks, zones *zone.Map) image.Point {
	return hand.Pixel(TrackedLandmark, zones.Width(), zones.Height())
}

// Step hit-tests every hand against zones. It keeps no state between calls
// and performs no I/O; a hand yields at most one hit.
func Step(zones *zone.Map, hands []detector.HandLandmarks) Action {
	if len(hands) == 0 {
		return Action{}
	}

	action := Action{
		Tips: make([]image.Point, 0, len(hands)),
	}

	for i := range hands {
		tip := Fingertip(&hands[i], zones)
		action.Tips = append(action.Tips, tip)

		if name, ok := zones.HitTest(tip); ok {
			action.Hits = append(action.Hits, Hit{Hand: i, Zone: name, Tip: tip})
		}
	}

	return action
}
