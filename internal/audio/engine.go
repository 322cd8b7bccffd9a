// Package audio plays the preloaded drum samples.
package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Output defaults.
const (
	DefaultSampleRate     = beep.SampleRate(44100)
	DefaultBufferDuration = 20 * time.Millisecond
	// resampleQuality is beep's interpolation quality (1-64) used when a
	// sample's rate differs from the output rate.
	resampleQuality = 4
)

var (
	// ErrUnknownSample is returned when playing a name with no loaded sample.
	ErrUnknownSample = errors.New("unknown sample")
	// ErrEngineClosed is returned when playing after Close.
	ErrEngineClosed = errors.New("audio engine closed")
)

// logger returns the audio sub-logger. It is built per call so it follows
// the global logger after logging is configured.
func logger() zerolog.Logger {
	return log.With().Str("module", "audio").Logger()
}

// Player fires a named sample without waiting for it to finish.
type Player interface {
	Play(name string) error
}

// Output mixes streamers onto a sound device.
type Output interface {
	Play(s ...beep.Streamer)
	Close()
}

// speakerOutput is the beep speaker, which mixes overlapping streamers on
// its own goroutine.
type speakerOutput struct{}

func (speakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (speakerOutput) Close()                  { speaker.Close() }

// Config holds configuration for the sample engine.
type Config struct {
	// Dir is the directory the sample files are read from.
	Dir string

	// Files maps a sample name to a WAV file inside Dir.
	Files map[string]string

	// SampleRate is the output rate; samples are resampled to it.
	SampleRate beep.SampleRate

	// BufferDuration is the speaker buffer size. Smaller is lower latency.
	BufferDuration time.Duration
}

// DefaultFiles maps each drum to its sample file name.
func DefaultFiles() map[string]string {
	return map[string]string{
		"snare": "snare.wav",
		"bass":  "bass.wav",
		"hihat": "hihat.wav",
	}
}

// DefaultConfig returns a Config reading the default files from dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		Files:          DefaultFiles(),
		SampleRate:     DefaultSampleRate,
		BufferDuration: DefaultBufferDuration,
	}
}

// Engine holds decoded samples in memory and plays them on an Output.
// Every Play starts a fresh streamer over the shared buffer, so repeated
// triggers overlap instead of restarting.
type Engine struct {
	samples map[string]*beep.Buffer
	out     Output

	mu     sync.Mutex
	closed bool
}

// NewEngine loads every sample in cfg and opens the default sound device.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.BufferDuration <= 0 {
		cfg.BufferDuration = DefaultBufferDuration
	}

	samples, err := LoadSamples(cfg.Dir, cfg.Files, cfg.SampleRate)
	if err != nil {
		return nil, err
	}

	if err := speaker.Init(cfg.SampleRate, cfg.SampleRate.N(cfg.BufferDuration)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}

	e := NewEngineWithOutput(samples, speakerOutput{})

	l := logger()
	l.Info().
		Int("sample_rate", int(cfg.SampleRate)).
		Dur("buffer", cfg.BufferDuration).
		Strs("samples", e.Names()).
		Msg("Audio engine ready")

	return e, nil
}

// NewEngineWithOutput builds an Engine over already loaded samples.
func NewEngineWithOutput(samples map[string]*beep.Buffer, out Output) *Engine {
	return &Engine{
		samples: samples,
		out:     out,
	}
}

// Play starts the named sample and returns immediately.
func (e *Engine) Play(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	buf, ok := e.samples[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSample, name)
	}

	e.out.Play(buf.Streamer(0, buf.Len()))
	return nil
}

// Require returns an error naming every name without a loaded sample.
func (e *Engine) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if _, ok := e.samples[n]; !ok {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrUnknownSample, missing)
	}
	return nil
}

// Names returns the loaded sample names, sorted.
func (e *Engine) Names() []string {
	names := make([]string, 0, len(e.samples))
	for n := range e.samples {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Close shuts the output down. It is safe to call more than once.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true
	e.out.Close()
	return nil
}

// LoadSamples decodes each file in files (relative to dir) into memory at rate.
func LoadSamples(dir string, files map[string]string, rate beep.SampleRate) (map[string]*beep.Buffer, error) {
	samples := make(map[string]*beep.Buffer, len(files))
	for name, file := range files {
		buf, err := loadSample(filepath.Join(dir, file), rate)
		if err != nil {
			return nil, fmt.Errorf("load sample %s: %w", name, err)
		}
		samples[name] = buf
	}
	return samples, nil
}

func loadSample(path string, rate beep.SampleRate) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	// Closing the decoder closes f.
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, streamer)
	}

	buf := beep.NewBuffer(beep.Format{
		SampleRate:  rate,
		NumChannels: format.NumChannels,
		Precision:   format.Precision,
	})
	buf.Append(s)

	l := logger()
	l.Debug().
		Str("path", path).
		Int("source_rate", int(format.SampleRate)).
		Int("frames", buf.Len()).
		Msg("Loaded sample")

	return buf, nil
}
