package viewer

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	minimumCameraHeight = 100.0
	maximumCameraHeight = 1e8
	maximumLatitude     = 89 * math.Pi / 180
)

// CameraController orbits the camera above a geodetic position and builds
// the scene camera for the current mode.
type CameraController struct {
	Longitude float64 // radians
	Latitude  float64 // radians
	Height    float64 // meters

	FovY float64
	Near float64
	Far  float64

	// MoveSpeed is the fraction of the height travelled per second.
	MoveSpeed float64
}

// Pan moves the camera by a number of seconds of travel in each direction.
// The ground distance scales with the height so panning feels the same at
// every zoom level.
func (c *CameraController) Pan(east, north float64, ellipsoid *geo.Ellipsoid) {
	angle := c.MoveSpeed * c.Height / ellipsoid.MaximumRadius()
	c.Longitude = mathutil.NegativePiToPi(c.Longitude + east*angle/max(math.Cos(c.Latitude), 0.1))
	c.Latitude = mathutil.Clamp(c.Latitude+north*angle, -maximumLatitude, maximumLatitude)
}

// Zoom multiplies the height by factor.
func (c *CameraController) Zoom(factor float64) {
	c.Height = mathutil.Clamp(c.Height*factor, minimumCameraHeight, maximumCameraHeight)
}

// Position returns the geodetic position of the camera.
func (c *CameraController) Position() geo.Cartographic {
	return geo.Cartographic{Longitude: c.Longitude, Latitude: c.Latitude, Height: c.Height}
}

// Camera returns the scene camera. The 3D camera looks straight down at the
// ellipsoid. The 2D and Columbus view cameras look down the scene X axis at
// the projected position, 2D using an orthographic frustum.
func (c *CameraController) Camera(mode geo.SceneMode, ellipsoid *geo.Ellipsoid, projection geo.MapProjection) scene.Camera {
	ground := geo.Cartographic{Longitude: c.Longitude, Latitude: c.Latitude}

	if mode == geo.Scene3D {
		target := ellipsoid.CartographicToCartesian(ground)
		position := ellipsoid.CartographicToCartesian(c.Position())
		return scene.LookAt(position, target, mgl64.Vec3{0, 0, 1}, c.FovY, c.Near, c.Far)
	}

	target := geo.ToSceneCoordinates(projection.Project(ground))
	camera := scene.Camera{
		Position:  target.Add(mgl64.Vec3{c.Height, 0, 0}),
		Direction: mgl64.Vec3{-1, 0, 0},
		Up:        mgl64.Vec3{0, 0, 1},
		FovY:      c.FovY,
		Near:      c.Near,
		Far:       c.Far,
	}
	if mode == geo.Scene2D {
		camera.OrthographicWidth = 2 * c.Height * math.Tan(c.FovY*0.5)
	}
	return camera
}
