// Package overlay draws the drum zones and hands onto frames and shows them in a window.
package overlay

import (
	"image"
	"image/color"
	"strings"

	"github.com/ayusman/airdrums/internal/detector"
	"github.com/ayusman/airdrums/internal/zone"
	"gocv.io/x/gocv"
)

// Drawing settings.
const (
	ZoneThickness   = 2
	LabelScale      = 0.7
	LabelOffset     = 20 // label sits this far up and left of the zone center
	HighlightRadius = 10
	JointRadius     = 3
	BoneThickness   = 2
)

// Overlay colors. gocv takes RGBA and converts to OpenCV's BGR order.
var (
	HighlightColor = color.RGBA{R: 255, G: 255, B: 0, A: 0}
	JointColor     = color.RGBA{R: 255, G: 0, B: 0, A: 0}
	BoneColor      = color.RGBA{R: 255, G: 255, B: 255, A: 0}
)

// Canvas draws overlay primitives onto one frame. It is the highlight cue
// target for the trigger dispatcher.
type Canvas struct {
	frame *gocv.Mat
}

// NewCanvas wraps frame. Drawing modifies frame in place.
func NewCanvas(frame *gocv.Mat) *Canvas {
	return &Canvas{frame: frame}
}

// DrawZones outlines each zone and labels it with its upper-cased name.
func (c *Canvas) DrawZones(zones []zone.Zone) {
	for _, z := range zones {
		gocv.Circle(c.frame, z.Center, int(z.Radius), z.Color, ZoneThickness)
		label := image.Point{X: z.Center.X - LabelOffset, Y: z.Center.Y - LabelOffset}
		gocv.PutText(c.frame, strings.ToUpper(z.Name), label, gocv.FontHersheySimplex, LabelScale, z.Color, ZoneThickness)
	}
}

// Highlight fills a dot at the fingertip that hit a zone.
func (c *Canvas) Highlight(at image.Point) {
	gocv.Circle(c.frame, at, HighlightRadius, HighlightColor, -1)
}

// DrawHand draws the hand skeleton: bones first, then the joints on top.
func (c *Canvas) DrawHand(hand *detector.HandLandmarks) {
	w, h := c.frame.Cols(), c.frame.Rows()

	for _, bone := range detector.HandConnections {
		a := hand.Pixel(bone[0], w, h)
		b := hand.Pixel(bone[1], w, h)
		gocv.Line(c.frame, a, b, BoneColor, BoneThickness)
	}

	for i := 0; i < detector.NumLandmarks; i++ {
		gocv.Circle(c.frame, hand.Pixel(i, w, h), JointRadius, JointColor, -1)
	}
}
