package geo

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

// SceneMode selects how the surface is laid out in world space.
type SceneMode int

const (
	Scene3D SceneMode = iota
	Scene2D
	SceneColumbusView
	SceneMorphing
)

func (m SceneMode) String() string {
	switch m {
	case Scene3D:
		return "3d"
	case Scene2D:
		return "2d"
	case SceneColumbusView:
		return "columbus"
	case SceneMorphing:
		return "morphing"
	default:
		return "unknown"
	}
}

// ParseSceneMode parses the String form of a mode.
func ParseSceneMode(s string) (SceneMode, bool) {
	for _, m := range [...]SceneMode{Scene3D, Scene2D, SceneColumbusView, SceneMorphing} {
		if m.String() == s {
			return m, true
		}
	}
	return Scene3D, false
}

// MapProjection maps geodetic positions to planar coordinates
// (x east, y north, z height) in meters.
type MapProjection interface {
	Ellipsoid() *Ellipsoid
	Project(c Cartographic) mgl64.Vec3
	Unproject(p mgl64.Vec3) Cartographic
}

// GeographicProjection is the equirectangular projection scaled by the
// ellipsoid's maximum radius.
type GeographicProjection struct {
	ellipsoid      *Ellipsoid
	semimajorAxis  float64
	oneOverSemimaj float64
}

func NewGeographicProjection(ellipsoid *Ellipsoid) *GeographicProjection {
	a := ellipsoid.MaximumRadius()
	return &GeographicProjection{ellipsoid: ellipsoid, semimajorAxis: a, oneOverSemimaj: 1 / a}
}

func (p *GeographicProjection) Ellipsoid() *Ellipsoid { return p.ellipsoid }

func (p *GeographicProjection) Project(c Cartographic) mgl64.Vec3 {
	return mgl64.Vec3{c.Longitude * p.semimajorAxis, c.Latitude * p.semimajorAxis, c.Height}
}

func (p *GeographicProjection) Unproject(v mgl64.Vec3) Cartographic {
	return Cartographic{
		Longitude: v.X() * p.oneOverSemimaj,
		Latitude:  v.Y() * p.oneOverSemimaj,
		Height:    v.Z(),
	}
}

// MaximumMercatorLatitude is the latitude at which Web Mercator becomes square.
var MaximumMercatorLatitude = mercatorAngleToGeodeticLatitude(math.Pi)

// WebMercatorProjection is the spherical Mercator projection used by most
// web map tiles.
type WebMercatorProjection struct {
	ellipsoid      *Ellipsoid
	semimajorAxis  float64
	oneOverSemimaj float64
}

func NewWebMercatorProjection(ellipsoid *Ellipsoid) *WebMercatorProjection {
	a := ellipsoid.MaximumRadius()
	return &WebMercatorProjection{ellipsoid: ellipsoid, semimajorAxis: a, oneOverSemimaj: 1 / a}
}

func (p *WebMercatorProjection) Ellipsoid() *Ellipsoid { return p.ellipsoid }

func (p *WebMercatorProjection) Project(c Cartographic) mgl64.Vec3 {
	return mgl64.Vec3{
		c.Longitude * p.semimajorAxis,
		geodeticLatitudeToMercatorAngle(c.Latitude) * p.semimajorAxis,
		c.Height,
	}
}

func (p *WebMercatorProjection) Unproject(v mgl64.Vec3) Cartographic {
	return Cartographic{
		Longitude: v.X() * p.oneOverSemimaj,
		Latitude:  mercatorAngleToGeodeticLatitude(v.Y() * p.oneOverSemimaj),
		Height:    v.Z(),
	}
}

func mercatorAngleToGeodeticLatitude(angle float64) float64 {
	return math.Pi/2 - 2*math.Atan(math.Exp(-angle))
}

func geodeticLatitudeToMercatorAngle(latitude float64) float64 {
	latitude = mathutil.Clamp(latitude, -MaximumMercatorLatitude, MaximumMercatorLatitude)
	sinLatitude := math.Sin(latitude)
	return 0.5 * math.Log((1+sinLatitude)/(1-sinLatitude))
}

// UnprojectScenePoint converts a point in 2D or Columbus view scene
// coordinates back to ECEF through the projection's ellipsoid.
func UnprojectScenePoint(p mgl64.Vec3, projection MapProjection) mgl64.Vec3 {
	c := projection.Unproject(FromSceneCoordinates(p))
	return projection.Ellipsoid().CartographicToCartesian(c)
}
