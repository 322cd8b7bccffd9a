package detector

import (
	"errors"

	"gocv.io/x/gocv"
)

// ErrScriptNotFound is returned when the MediaPipe service script cannot be located.
var ErrScriptNotFound = errors.New("mediapipe_service.py not found")

// Detector defines the interface for hand detection implementations.
type Detector interface {
	// Detect analyzes a video frame and returns detected hand landmarks.
	// Returns an empty slice if no hands are detected.
	Detect(frame *gocv.Mat) ([]HandLandmarks, error)

	// Close releases any resources held by the detector.
	Close() error
}

// Config holds configuration options for hand detection.
type Config struct {
	// MaxHands is the maximum number of hands to detect (default: 2).
	MaxHands int

	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64
}

// DefaultConfig returns the settings used for drumming: two hands, and
// fairly strict confidence so a blurred fingertip does not fire zones.
func DefaultConfig() Config {
	return Config{
		MaxHands:        2,
		MinConfidence:   0.7,
		MinTrackingConf: 0.7,
	}
}

// NoHands is a Detector that never reports a hand. It stands in when no
// landmark model is available so the camera feed and zones still render.
type NoHands struct{}

// Detect returns no hands.
func (NoHands) Detect(frame *gocv.Mat) ([]HandLandmarks, error) { return nil, nil }

// Close does nothing.
func (NoHands) Close() error { return nil }
