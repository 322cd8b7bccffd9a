package audio

import "sync"

// Recorder is a Player that records the names it was asked to play.
// It is used in place of a sound device in tests.
type Recorder struct {
	mu     sync.Mutex
	played []string
	err    error
	closes int
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Play records name, or returns the configured error.
func (r *Recorder) Play(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.played = append(r.played, name)
	return nil
}

// SetError makes every following Play fail with err.
func (r *Recorder) SetError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

// Played returns a copy of the recorded names in order.
func (r *Recorder) Played() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, len(r.played))
	copy(out, r.played)
	return out
}

// Close records the call.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closes++
	return nil
}

// Closes returns how many times Close was called.
func (r *Recorder) Closes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closes
}
