package overlay

import (
	"image"
	"testing"

	"github.com/ayusman/airdrums/internal/detector"
	"github.com/ayusman/airdrums/internal/zone"
	"gocv.io/x/gocv"
)

func blankFrame() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), zone.DefaultHeight, zone.DefaultWidth, gocv.MatTypeCV8UC3)
}

// bgr returns the blue, green and red bytes of the pixel at p.
func bgr(m *gocv.Mat, p image.Point) (uint8, uint8, uint8) {
	return m.GetUCharAt(p.Y, p.X*3), m.GetUCharAt(p.Y, p.X*3+1), m.GetUCharAt(p.Y, p.X*3+2)
}

func TestCanvas_DrawZones(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	zones, err := zone.DefaultLayout(zone.DefaultWidth, zone.DefaultHeight)
	if err != nil {
		t.Fatalf("DefaultLayout() error = %v", err)
	}

	NewCanvas(&frame).DrawZones(zones.Zones())

	tests := []struct {
		name    string
		point   image.Point
		b, g, r uint8
	}{
		{name: "snare ring is blue", point: image.Point{X: 160 + 50, Y: 240}, b: 255},
		{name: "bass ring is green", point: image.Point{X: 320 + 50, Y: 240}, g: 255},
		{name: "hihat ring is red", point: image.Point{X: 480 + 50, Y: 240}, r: 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, g, r := bgr(&frame, tt.point)
			if b != tt.b || g != tt.g || r != tt.r {
				t.Errorf("pixel %v = (%d,%d,%d), want (%d,%d,%d)", tt.point, b, g, r, tt.b, tt.g, tt.r)
			}
		})
	}

	t.Run("zone centers stay clear", func(t *testing.T) {
		for _, z := range zones.Zones() {
			b, g, r := bgr(&frame, z.Center)
			if b != 0 || g != 0 || r != 0 {
				t.Errorf("center of %s = (%d,%d,%d), want black", z.Name, b, g, r)
			}
		}
	})
}

func TestCanvas_Highlight(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	tip := image.Point{X: 200, Y: 100}
	NewCanvas(&frame).Highlight(tip)

	b, g, r := bgr(&frame, tip)
	if b != 0 || g != 255 || r != 255 {
		t.Errorf("highlight pixel = (%d,%d,%d), want yellow (0,255,255)", b, g, r)
	}

	// Filled dot covers pixels inside the radius.
	b, g, r = bgr(&frame, image.Point{X: tip.X + HighlightRadius - 2, Y: tip.Y})
	if g != 255 || r != 255 {
		t.Errorf("pixel inside highlight = (%d,%d,%d), want yellow", b, g, r)
	}

	// And nothing well outside it.
	b, g, r = bgr(&frame, image.Point{X: tip.X + 3*HighlightRadius, Y: tip.Y})
	if b != 0 || g != 0 || r != 0 {
		t.Errorf("pixel outside highlight = (%d,%d,%d), want black", b, g, r)
	}
}

func TestCanvas_DrawHand(t *testing.T) {
	frame := blankFrame()
	defer frame.Close()

	hand := detector.PointingAtPixel(320, 120, zone.DefaultWidth, zone.DefaultHeight)
	NewCanvas(&frame).DrawHand(&hand)

	tip := hand.Pixel(detector.IndexTip, zone.DefaultWidth, zone.DefaultHeight)
	b, g, r := bgr(&frame, tip)
	if b != 0 || g != 0 || r != 255 {
		t.Errorf("index tip joint = (%d,%d,%d), want red", b, g, r)
	}

	if gocv.CountNonZero(frameGray(t, &frame)) == 0 {
		t.Error("expected skeleton pixels on the frame")
	}
}

func frameGray(t *testing.T, frame *gocv.Mat) gocv.Mat {
	t.Helper()
	gray := gocv.NewMat()
	t.Cleanup(func() { gray.Close() })
	gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	return gray
}

func TestMockDisplay(t *testing.T) {
	var _ Display = (*MockDisplay)(nil)
	var _ Display = (*Window)(nil)

	d := NewMockDisplay('a', 'q')
	frame := blankFrame()
	defer frame.Close()

	d.Show(&frame)
	d.Show(&frame)

	if d.Shown() != 2 {
		t.Errorf("Shown() = %d, want 2", d.Shown())
	}

	keys := []int{d.PollKey(), d.PollKey(), d.PollKey()}
	want := []int{'a', 'q', NoKey}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("PollKey() #%d = %d, want %d", i, keys[i], want[i])
		}
	}

	d.Close()
	if d.Closes() != 1 {
		t.Errorf("Closes() = %d, want 1", d.Closes())
	}
}
