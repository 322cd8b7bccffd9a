package overlay

import (
	"sync"

	"gocv.io/x/gocv"
)

// WindowTitle is the title of the display window.
const WindowTitle = "Virtual Drum Set"

// NoKey is returned by PollKey when no key was pressed.
const NoKey = -1

// Display renders one annotated frame per loop iteration.
type Display interface {
	// Show renders frame.
	Show(frame *gocv.Mat) error

	// PollKey waits briefly for a key press and returns its code, or NoKey.
	PollKey() int

	// Close destroys the display.
	Close() error
}

// Window is a Display backed by an OpenCV HighGUI window.
type Window struct {
	win     *gocv.Window
	delayMs int
}

// NewWindow opens a window with the given title. PollKey waits delayMs
// milliseconds; values below 1 are raised to 1 so the call never blocks.
func NewWindow(title string, delayMs int) *Window {
	if delayMs < 1 {
		delayMs = 1
	}
	return &Window{
		win:     gocv.NewWindow(title),
		delayMs: delayMs,
	}
}

// Show renders frame in the window.
func (w *Window) Show(frame *gocv.Mat) error {
	w.win.IMShow(*frame)
	return nil
}

// PollKey returns the pressed key code, or NoKey.
func (w *Window) PollKey() int {
	return w.win.WaitKey(w.delayMs)
}

// Close destroys the window.
func (w *Window) Close() error {
	return w.win.Close()
}

// MockDisplay is a Display for tests. It counts shown frames and returns
// scripted key codes.
type MockDisplay struct {
	mu     sync.Mutex
	shown  int
	keys   []int
	closes int
	err    error
}

// NewMockDisplay returns a MockDisplay that will report keys in order, one
// per PollKey, then NoKey.
func NewMockDisplay(keys ...int) *MockDisplay {
	return &MockDisplay{keys: keys}
}

// Show counts the frame, or returns the configured error.
func (m *MockDisplay) Show(frame *gocv.Mat) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.shown++
	return nil
}

// PollKey returns the next scripted key.
func (m *MockDisplay) PollKey() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.keys) == 0 {
		return NoKey
	}
	k := m.keys[0]
	m.keys = m.keys[1:]
	return k
}

// Close counts the call.
func (m *MockDisplay) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closes++
	return nil
}

// SetError makes Show fail with err.
func (m *MockDisplay) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Shown returns how many frames were shown.
func (m *MockDisplay) Shown() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.shown
}

// Closes returns how many times Close was called.
func (m *MockDisplay) Closes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closes
}
