package detector

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"gocv.io/x/gocv"
)

// fakeService answers the detector protocol without MediaPipe. The first
// frame yields one hand whose handedness echoes the command-line flags, the
// second an error line, and later frames no hands. Anything that is not a
// JPEG gets an error line.
const fakeService = `import json, struct, sys

args = " ".join(sys.argv[1:])
stdin = sys.stdin.buffer
n = 0
while True:
    header = stdin.read(4)
    if len(header) < 4:
        break
    (length,) = struct.unpack(">I", header)
    data = stdin.read(length)
    if len(data) < length:
        sys.exit(1)
    n += 1
    if data[:2] != b"\xff\xd8":
        out = {"hands": [], "error": "not a jpeg"}
    elif n == 1:
        points = [{"x": 0.5, "y": 0.25, "z": 0.0}] * 21
        out = {"hands": [{"points": points, "handedness": args, "score": 0.9}]}
    elif n == 2:
        out = {"hands": [], "error": "model crashed"}
    else:
        out = {"hands": []}
    sys.stdout.write(json.dumps(out) + "\n")
    sys.stdout.flush()
`

func newFakeDetector(t *testing.T) *MediaPipeDetector {
	t.Helper()

	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("skipping test - python3 not available")
	}

	script := filepath.Join(t.TempDir(), scriptName)
	if err := os.WriteFile(script, []byte(fakeService), 0o644); err != nil {
		t.Fatalf("write fake service: %v", err)
	}

	cfg := Config{MaxHands: 1, MinConfidence: 0.5, MinTrackingConf: 0.6}
	return NewMediaPipeDetectorWithScript(cfg, script)
}

func TestMediaPipeDetector_Protocol(t *testing.T) {
	d := newFakeDetector(t)

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	t.Run("hand decoded", func(t *testing.T) {
		hands, err := d.Detect(&frame)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(hands) != 1 {
			t.Fatalf("expected 1 hand, got %d", len(hands))
		}

		flags := hands[0].Handedness
		for _, want := range []string{"--max-hands 1", "--min-detection-confidence 0.5", "--min-tracking-confidence 0.6"} {
			if !strings.Contains(flags, want) {
				t.Errorf("service args %q missing %q", flags, want)
			}
		}

		got := hands[0].Pixel(IndexTip, frame.Cols(), frame.Rows())
		if got.X != 32 || got.Y != 12 {
			t.Errorf("index tip = %v, want (32,12)", got)
		}
	})

	t.Run("error line", func(t *testing.T) {
		_, err := d.Detect(&frame)
		if err == nil || !strings.Contains(err.Error(), "model crashed") {
			t.Errorf("Detect() error = %v, want service error", err)
		}
	})

	t.Run("service still answers after an error", func(t *testing.T) {
		hands, err := d.Detect(&frame)
		if err != nil {
			t.Fatalf("Detect() error = %v", err)
		}
		if len(hands) != 0 {
			t.Errorf("expected no hands, got %d", len(hands))
		}
	})

	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestMediaPipeDetector_ServiceExits(t *testing.T) {
	if _, err := exec.LookPath("python3"); err != nil {
		t.Skip("skipping test - python3 not available")
	}

	script := filepath.Join(t.TempDir(), scriptName)
	if err := os.WriteFile(script, []byte("import sys\nsys.exit(0)\n"), 0o644); err != nil {
		t.Fatalf("write service: %v", err)
	}
	d := NewMediaPipeDetectorWithScript(DefaultConfig(), script)
	defer d.Close()

	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if _, err := d.Detect(&frame); err == nil {
		t.Error("expected error when the service exits without answering")
	}
}

func TestNoHands(t *testing.T) {
	var d Detector = NoHands{}

	hands, err := d.Detect(nil)
	if err != nil || len(hands) != 0 {
		t.Errorf("Detect() = (%v, %v), want no hands", hands, err)
	}
	if err := d.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
