// Package zone provides the fixed layout of drum zones and the hit-test over them.
package zone

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// Default frame plane and zone settings.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	// DefaultRadius is the radius around a zone center that triggers its sound.
	DefaultRadius = 50.0
)

// Zone names used by the default layout.
const (
	Snare = "snare"
	Bass  = "bass"
	HiHat = "hihat"
)

var (
	// ErrDuplicateZone is returned when two zones share a name.
	ErrDuplicateZone = errors.New("duplicate zone name")
	// ErrInvalidZone is returned for a zone with an empty name or a non-positive radius.
	ErrInvalidZone = errors.New("invalid zone")
	// ErrInvalidPlane is returned when the plane has non-positive dimensions.
	ErrInvalidPlane = errors.New("invalid plane size")
)

// Zone is a named circular trigger region over the video frame.
type Zone struct {
	Name   string
	Center image.Point
	Radius float64
	Color  color.RGBA // overlay color
}

// Contains reports whether p lies strictly inside the zone.
func (z Zone) Contains(p image.Point) bool {
	return z.distance(p) < z.Radius
}

func (z Zone) distance(p image.Point) float64 {
	dx := float64(p.X - z.Center.X)
	dy := float64(p.Y - z.Center.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// Map is an ordered, read-only set of zones over a width x height plane.
// Order decides which zone wins when a point lies in more than one.
type Map struct {
	width  int
	height int
	zones  []Zone
}

// New builds a Map from zones in the given order.
func New(width, height int, zones ...Zone) (*Map, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidPlane, width, height)
	}

	seen := make(map[string]struct{}, len(zones))
	for _, z := range zones {
		if z.Name == "" {
			return nil, fmt.Errorf("%w: empty name", ErrInvalidZone)
		}
		if z.Radius <= 0 || math.IsNaN(z.Radius) {
			return nil, fmt.Errorf("%w: %s has radius %v", ErrInvalidZone, z.Name, z.Radius)
		}
		if _, ok := seen[z.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateZone, z.Name)
		}
		seen[z.Name] = struct{}{}
	}

	owned := make([]Zone, len(zones))
	copy(owned, zones)

	return &Map{
		width:  width,
		height: height,
		zones:  owned,
	}, nil
}

// DefaultLayout returns the snare, bass and hi-hat zones spread across the
// horizontal middle of a width x height plane.
func DefaultLayout(width, height int) (*Map, error) {
	return New(width, height,
		Zone{
			Name:   Snare,
			Center: image.Point{X: width / 4, Y: height / 2},
			Radius: DefaultRadius,
			Color:  color.RGBA{R: 0, G: 0, B: 255, A: 0},
		},
		Zone{
			Name:   Bass,
			Center: image.Point{X: width / 2, Y: height / 2},
			Radius: DefaultRadius,
			Color:  color.RGBA{R: 0, G: 255, B: 0, A: 0},
		},
		Zone{
			Name:   HiHat,
			Center: image.Point{X: 3 * width / 4, Y: height / 2},
			Radius: DefaultRadius,
			Color:  color.RGBA{R: 255, G: 0, B: 0, A: 0},
		},
	)
}

// Zones returns a copy of the zones in map order.
func (m *Map) Zones() []Zone {
	out := make([]Zone, len(m.zones))
	copy(out, m.zones)
	return out
}

// Names returns the zone names in map order.
func (m *Map) Names() []string {
	names := make([]string, len(m.zones))
	for i, z := range m.zones {
		names[i] = z.Name
	}
	return names
}

// Width returns the plane width in pixels.
func (m *Map) Width() int { return m.width }

// Height returns the plane height in pixels.
func (m *Map) Height() int { return m.height }

// HitTest returns the name of the first zone, in map order, whose center is
// strictly closer to p than its radius.
func (m *Map) HitTest(p image.Point) (string, bool) {
	for _, z := range m.zones {
		if z.Contains(p) {
			return z.Name, true
		}
	}
	return "", false
}
