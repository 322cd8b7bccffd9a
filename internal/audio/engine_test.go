package audio

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// fakeOutput records streamers instead of sending them to a device.
type fakeOutput struct {
	mu      sync.Mutex
	streams []beep.Streamer
	closes  int
}

func (f *fakeOutput) Play(s ...beep.Streamer) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.streams = append(f.streams, s...)
}

func (f *fakeOutput) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closes++
}

// writeWAV writes n frames of silence at rate to dir/name.
func writeWAV(t *testing.T, dir, name string, rate beep.SampleRate, n int) {
	t.Helper()

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Silence(n), format); err != nil {
		t.Fatalf("encode %s: %v", name, err)
	}
}

func TestLoadSamples(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "snare.wav", DefaultSampleRate, 4410)
	writeWAV(t, dir, "bass.wav", DefaultSampleRate, 8820)
	writeWAV(t, dir, "hihat.wav", 22050, 2205)

	samples, err := LoadSamples(dir, DefaultFiles(), DefaultSampleRate)
	if err != nil {
		t.Fatalf("LoadSamples() error = %v", err)
	}

	if len(samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(samples))
	}

	t.Run("native rate kept", func(t *testing.T) {
		if got := samples["snare"].Len(); got != 4410 {
			t.Errorf("snare frames = %d, want 4410", got)
		}
		if got := samples["bass"].Len(); got != 8820 {
			t.Errorf("bass frames = %d, want 8820", got)
		}
	})

	t.Run("resampled to output rate", func(t *testing.T) {
		got := samples["hihat"].Len()
		// 0.1s at 22050 Hz should become roughly 0.1s at 44100 Hz.
		if got < 4300 || got > 4500 {
			t.Errorf("hihat frames = %d, want about 4410", got)
		}
		if samples["hihat"].Format().SampleRate != DefaultSampleRate {
			t.Errorf("hihat rate = %d, want %d", samples["hihat"].Format().SampleRate, DefaultSampleRate)
		}
	})
}

func TestLoadSamples_Missing(t *testing.T) {
	dir := t.TempDir()
	writeWAV(t, dir, "snare.wav", DefaultSampleRate, 100)

	_, err := LoadSamples(dir, DefaultFiles(), DefaultSampleRate)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadSamples() error = %v, want not-exist error", err)
	}
}

func TestLoadSamples_NotWAV(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "snare.wav"), []byte("not a wav file"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadSamples(dir, map[string]string{"snare": "snare.wav"}, DefaultSampleRate)
	if err == nil {
		t.Error("expected decode error for a non-WAV file")
	}
}

func newTestEngine(t *testing.T) (*Engine, *fakeOutput) {
	t.Helper()

	dir := t.TempDir()
	writeWAV(t, dir, "snare.wav", DefaultSampleRate, 441)
	writeWAV(t, dir, "bass.wav", DefaultSampleRate, 441)
	writeWAV(t, dir, "hihat.wav", DefaultSampleRate, 441)

	samples, err := LoadSamples(dir, DefaultFiles(), DefaultSampleRate)
	if err != nil {
		t.Fatalf("LoadSamples() error = %v", err)
	}

	out := &fakeOutput{}
	return NewEngineWithOutput(samples, out), out
}

func TestEngine_Play(t *testing.T) {
	engine, out := newTestEngine(t)

	t.Run("known sample starts a stream", func(t *testing.T) {
		if err := engine.Play("snare"); err != nil {
			t.Fatalf("Play() error = %v", err)
		}
		if len(out.streams) != 1 {
			t.Fatalf("expected 1 stream, got %d", len(out.streams))
		}
	})

	t.Run("retrigger overlaps with an independent stream", func(t *testing.T) {
		before := len(out.streams)
		engine.Play("snare")
		engine.Play("snare")
		if len(out.streams) != before+2 {
			t.Fatalf("expected %d streams, got %d", before+2, len(out.streams))
		}
		if out.streams[before] == out.streams[before+1] {
			t.Error("each Play should get its own streamer")
		}
	})

	t.Run("unknown sample", func(t *testing.T) {
		err := engine.Play("cowbell")
		if !errors.Is(err, ErrUnknownSample) {
			t.Errorf("Play() error = %v, want ErrUnknownSample", err)
		}
	})
}

func TestEngine_Require(t *testing.T) {
	engine, _ := newTestEngine(t)

	if err := engine.Require("snare", "bass", "hihat"); err != nil {
		t.Errorf("Require() error = %v, want nil", err)
	}
	if err := engine.Require("snare", "tom"); !errors.Is(err, ErrUnknownSample) {
		t.Errorf("Require() error = %v, want ErrUnknownSample", err)
	}
}

func TestEngine_Names(t *testing.T) {
	engine, _ := newTestEngine(t)

	got := engine.Names()
	want := []string{"bass", "hihat", "snare"}
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestEngine_Close(t *testing.T) {
	engine, out := newTestEngine(t)

	if err := engine.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if out.closes != 1 {
		t.Errorf("output closed %d times, want 1", out.closes)
	}

	if err := engine.Play("snare"); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("Play() after Close error = %v, want ErrEngineClosed", err)
	}
}

func TestRecorder(t *testing.T) {
	var _ Player = (*Recorder)(nil)

	r := NewRecorder()
	r.Play("snare")
	r.Play("bass")

	played := r.Played()
	if len(played) != 2 || played[0] != "snare" || played[1] != "bass" {
		t.Errorf("Played() = %v, want [snare bass]", played)
	}

	boom := errors.New("device gone")
	r.SetError(boom)
	if err := r.Play("hihat"); err != boom {
		t.Errorf("Play() error = %v, want %v", err, boom)
	}
	if len(r.Played()) != 2 {
		t.Error("failed Play should not be recorded")
	}
}
