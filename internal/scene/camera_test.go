package scene

import (
	"math"
	"testing"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func testCamera() Camera {
	return LookAt(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, math.Pi/3, 1, 100)
}

func TestLookAtBasis(t *testing.T) {
	c := testCamera()
	require.InDelta(t, -1.0, c.Direction.X(), 1e-12)
	require.InDelta(t, 1.0, c.Up.Z(), 1e-12)
	require.InDelta(t, 0.0, c.Direction.Dot(c.Up), 1e-12)
	require.InDelta(t, 0.0, c.Right().Dot(c.Up), 1e-12)
}

func TestPerspectiveCullingVolume(t *testing.T) {
	volume := testCamera().CullingVolume(1)

	require.Equal(t, geo.Inside, volume.ComputeVisibility(geo.BoundingSphere{Radius: 1}))
	require.Equal(t, geo.Outside, volume.ComputeVisibility(geo.BoundingSphere{Center: mgl64.Vec3{20, 0, 0}, Radius: 1}), "behind camera")
	require.Equal(t, geo.Outside, volume.ComputeVisibility(geo.BoundingSphere{Center: mgl64.Vec3{0, 50, 0}, Radius: 1}), "far to the side")
	require.Equal(t, geo.Outside, volume.ComputeVisibility(geo.BoundingSphere{Center: mgl64.Vec3{-200, 0, 0}, Radius: 1}), "beyond far plane")
	require.Equal(t, geo.Intersecting, volume.ComputeVisibility(geo.BoundingSphere{Radius: 20}))
}

func TestOrthographicCullingVolume(t *testing.T) {
	c := testCamera()
	c.OrthographicWidth = 4
	volume := c.CullingVolume(2)

	require.Equal(t, geo.Inside, volume.ComputeVisibility(geo.BoundingSphere{Radius: 0.5}))
	require.Equal(t, geo.Outside, volume.ComputeVisibility(geo.BoundingSphere{Center: mgl64.Vec3{0, 3, 0}, Radius: 0.5}))
	require.Equal(t, geo.Outside, volume.ComputeVisibility(geo.BoundingSphere{Center: mgl64.Vec3{0, 0, 2}, Radius: 0.5}))
}

func TestPickRayThroughCenter(t *testing.T) {
	c := testCamera()
	ray := c.PickRay(50, 50, 100, 100)
	require.InDelta(t, -1.0, ray.Direction.X(), 1e-12)
	require.Equal(t, c.Position, ray.Origin)

	top := c.PickRay(50, 0, 100, 100)
	require.Greater(t, top.Direction.Z(), 0.0)
	require.InDelta(t, math.Pi/6, math.Acos(top.Direction.Dot(c.Direction)), 1e-9)
}

func TestMetersPerPixel(t *testing.T) {
	frame := &FrameState{ViewportWidth: 200, ViewportHeight: 100}
	frame.Camera.OrthographicWidth = 1000
	require.InDelta(t, 5.0, frame.MetersPerPixel(), 1e-12)
}
