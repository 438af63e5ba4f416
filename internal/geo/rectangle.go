package geo

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

// Quadrant indexes the four children of a subdivided rectangle.
type Quadrant int

const (
	Northwest Quadrant = iota
	Northeast
	Southwest
	Southeast
)

func (q Quadrant) String() string {
	switch q {
	case Northwest:
		return "northwest"
	case Northeast:
		return "northeast"
	case Southwest:
		return "southwest"
	case Southeast:
		return "southeast"
	default:
		return "unknown"
	}
}

// Rectangle is a geographic extent in radians. East may be smaller than West
// when the rectangle crosses the antimeridian.
type Rectangle struct {
	West  float64
	South float64
	East  float64
	North float64
}

// MaxRectangle covers the whole ellipsoid.
var MaxRectangle = Rectangle{West: -math.Pi, South: -math.Pi / 2, East: math.Pi, North: math.Pi / 2}

// RectangleFromDegrees builds a Rectangle from degree angles.
func RectangleFromDegrees(west, south, east, north float64) Rectangle {
	return Rectangle{
		West:  mathutil.ToRadians(west),
		South: mathutil.ToRadians(south),
		East:  mathutil.ToRadians(east),
		North: mathutil.ToRadians(north),
	}
}

// Width returns the longitudinal span in radians.
func (r Rectangle) Width() float64 {
	east := r.East
	if east < r.West {
		east += 2 * math.Pi
	}
	return east - r.West
}

// Height returns the latitudinal span in radians.
func (r Rectangle) Height() float64 {
	return r.North - r.South
}

// Center returns the rectangle center at zero height.
func (r Rectangle) Center() Cartographic {
	east := r.East
	if east < r.West {
		east += 2 * math.Pi
	}
	return Cartographic{
		Longitude: mathutil.NegativePiToPi((r.West + east) * 0.5),
		Latitude:  (r.South + r.North) * 0.5,
	}
}

func (r Rectangle) Southwest() Cartographic { return Cartographic{Longitude: r.West, Latitude: r.South} }
func (r Rectangle) Northeast() Cartographic { return Cartographic{Longitude: r.East, Latitude: r.North} }

// Contains reports whether the point lies inside the rectangle, edges included.
func (r Rectangle) Contains(c Cartographic) bool {
	lon := c.Longitude
	lat := c.Latitude
	west := r.West
	east := r.East

	if east < west {
		east += 2 * math.Pi
		if lon < 0 {
			lon += 2 * math.Pi
		}
	}

	return (lon > west || mathutil.EqualsEpsilon(lon, west, mathutil.Epsilon14)) &&
		(lon < east || mathutil.EqualsEpsilon(lon, east, mathutil.Epsilon14)) &&
		lat >= r.South &&
		lat <= r.North
}

// Intersects reports whether two rectangles overlap with a non-empty area.
// Neither rectangle may cross the antimeridian.
func (r Rectangle) Intersects(other Rectangle) bool {
	return r.West < other.East && other.West < r.East &&
		r.South < other.North && other.South < r.North
}

// Equal reports whether both rectangles have identical edges.
func (r Rectangle) Equal(other Rectangle) bool {
	return r.West == other.West && r.South == other.South &&
		r.East == other.East && r.North == other.North
}

// Subdivide splits the rectangle at its midpoints. The result is indexed by
// Quadrant and shares edges with the parent exactly.
func (r Rectangle) Subdivide() [4]Rectangle {
	midLon := r.West + r.Width()*0.5
	if midLon > math.Pi {
		midLon -= 2 * math.Pi
	}
	midLat := (r.South + r.North) * 0.5

	var children [4]Rectangle
	children[Northwest] = Rectangle{West: r.West, South: midLat, East: midLon, North: r.North}
	children[Northeast] = Rectangle{West: midLon, South: midLat, East: r.East, North: r.North}
	children[Southwest] = Rectangle{West: r.West, South: r.South, East: midLon, North: midLat}
	children[Southeast] = Rectangle{West: midLon, South: r.South, East: r.East, North: midLat}
	return children
}

// Subsample returns an n×n grid of positions over the rectangle at the given
// height. n is clamped to at least 2.
func (r Rectangle) Subsample(ellipsoid *Ellipsoid, height float64, n int) []mgl64.Vec3 {
	if n < 2 {
		n = 2
	}
	width := r.Width()
	positions := make([]mgl64.Vec3, 0, n*n)
	for row := 0; row < n; row++ {
		lat := r.North - r.Height()*float64(row)/float64(n-1)
		for col := 0; col < n; col++ {
			lon := mathutil.NegativePiToPi(r.West + width*float64(col)/float64(n-1))
			positions = append(positions, ellipsoid.CartographicToCartesian(Cartographic{
				Longitude: lon,
				Latitude:  lat,
				Height:    height,
			}))
		}
	}
	return positions
}
