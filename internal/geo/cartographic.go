// Package geo holds the geodesy and intersection math shared by the terrain
// surface: ellipsoids, geographic rectangles, rays, bounding spheres, map
// projections and culling helpers.
package geo

import (
	"fmt"
	"math"

	"github.com/MapColonies/cesium-standalone/internal/mathutil"
)

// Cartographic is a position on an ellipsoid. Angles are radians, height is
// meters above the ellipsoid surface.
type Cartographic struct {
	Longitude float64
	Latitude  float64
	Height    float64
}

// CartographicFromDegrees builds a Cartographic from degree angles.
func CartographicFromDegrees(longitude, latitude, height float64) Cartographic {
	return Cartographic{
		Longitude: mathutil.ToRadians(longitude),
		Latitude:  mathutil.ToRadians(latitude),
		Height:    height,
	}
}

// IsValid reports whether the position is finite and its latitude lies in
// [-π/2, π/2].
func (c Cartographic) IsValid() bool {
	for _, v := range [...]float64{c.Longitude, c.Latitude, c.Height} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return c.Latitude >= -math.Pi/2 && c.Latitude <= math.Pi/2
}

func (c Cartographic) String() string {
	return fmt.Sprintf("(%.6f°, %.6f°, %.2fm)",
		mathutil.ToDegrees(c.Longitude), mathutil.ToDegrees(c.Latitude), c.Height)
}
