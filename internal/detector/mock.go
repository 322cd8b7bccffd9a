package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It returns scripted results, one entry per call to Detect. Once the script
// is exhausted the fallback hands set by SetHands are returned.
type MockDetector struct {
	mu     sync.Mutex
	hands  []HandLandmarks
	script [][]HandLandmarks
	err    error
	calls  int
	closed int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned once the script is exhausted.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// Script queues per-frame results; the n-th call to Detect returns frames[n].
func (m *MockDetector) Script(frames ...[]HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, frames...)
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Detect returns the next scripted result, the fallback hands, or the configured error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if len(m.script) > 0 {
		next := m.script[0]
		m.script = m.script[1:]
		return next, nil
	}
	return m.hands, nil
}

// Close records the call and returns nil.
func (m *MockDetector) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed++
	return nil
}

// Calls returns how many times Detect was called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Closed returns how many times Close was called.
func (m *MockDetector) Closed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// PointingLandmarks returns a right hand with the index finger extended and its
// tip at the normalized position (x, y). The other fingers are curled below it.
func PointingLandmarks(x, y float64) HandLandmarks {
	landmarks := HandLandmarks{
		Handedness: "Right",
		Score:      0.95,
	}

	// Wrist sits below the fingertip
	landmarks.Points[Wrist] = Point3D{X: x, Y: y + 0.35, Z: 0.0}

	// Thumb tucked to the side
	landmarks.Points[ThumbCMC] = Point3D{X: x + 0.04, Y: y + 0.31, Z: 0.0}
	landmarks.Points[ThumbMCP] = Point3D{X: x + 0.07, Y: y + 0.27, Z: 0.0}
	landmarks.Points[ThumbIP] = Point3D{X: x + 0.07, Y: y + 0.23, Z: 0.0}
	landmarks.Points[ThumbTip] = Point3D{X: x + 0.05, Y: y + 0.21, Z: 0.0}

	// Index finger extended upward
	landmarks.Points[IndexMCP] = Point3D{X: x, Y: y + 0.22, Z: 0.0}
	landmarks.Points[IndexPIP] = Point3D{X: x, Y: y + 0.14, Z: 0.0}
	landmarks.Points[IndexDIP] = Point3D{X: x, Y: y + 0.07, Z: 0.0}
	landmarks.Points[IndexTip] = Point3D{X: x, Y: y, Z: 0.0}

	// Middle finger curled
	landmarks.Points[MiddleMCP] = Point3D{X: x - 0.04, Y: y + 0.22, Z: -0.02}
	landmarks.Points[MiddlePIP] = Point3D{X: x - 0.04, Y: y + 0.19, Z: -0.05}
	landmarks.Points[MiddleDIP] = Point3D{X: x - 0.04, Y: y + 0.22, Z: -0.04}
	landmarks.Points[MiddleTip] = Point3D{X: x - 0.04, Y: y + 0.25, Z: -0.02}

	// Ring finger curled
	landmarks.Points[RingMCP] = Point3D{X: x - 0.08, Y: y + 0.23, Z: -0.02}
	landmarks.Points[RingPIP] = Point3D{X: x - 0.08, Y: y + 0.20, Z: -0.05}
	landmarks.Points[RingDIP] = Point3D{X: x - 0.08, Y: y + 0.23, Z: -0.04}
	landmarks.Points[RingTip] = Point3D{X: x - 0.08, Y: y + 0.26, Z: -0.02}

	// Pinky finger curled
	landmarks.Points[PinkyMCP] = Point3D{X: x - 0.11, Y: y + 0.25, Z: -0.02}
	landmarks.Points[PinkyPIP] = Point3D{X: x - 0.11, Y: y + 0.22, Z: -0.05}
	landmarks.Points[PinkyDIP] = Point3D{X: x - 0.11, Y: y + 0.25, Z: -0.04}
	landmarks.Points[PinkyTip] = Point3D{X: x - 0.11, Y: y + 0.28, Z: -0.02}

	return landmarks
}

// PointingAtPixel is PointingLandmarks for a fingertip at pixel (px, py) of a
// width x height frame. The tip is nudged a quarter pixel in so it scales back
// to exactly (px, py) despite float rounding.
func PointingAtPixel(px, py, width, height int) HandLandmarks {
	return PointingLandmarks(
		(float64(px)+0.25)/float64(width),
		(float64(py)+0.25)/float64(height),
	)
}
