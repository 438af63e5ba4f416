package quadtree

import (
	"math"
	"testing"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func quad(a, b, c, d mgl64.Vec3) *terrain.Mesh {
	return terrain.NewMesh([]mgl64.Vec3{a, b, c, d}, nil, []uint32{0, 1, 2, 0, 2, 3})
}

// nearestPickSurface renders two tiles whose meshes are planes crossing the
// +x axis at 5 and 10. The nearer plane has the farther bounding sphere
// centre.
func nearestPickSurface(t *testing.T) *Surface {
	provider := newMockTileProvider(terrain.NewGeographicTilingScheme(geo.WGS84, 2, 1))
	provider.distance = func(n *Node) float64 { return 1e9 }
	provider.data = func(n *Node) *terrain.TileData {
		if n.X == 0 {
			return &terrain.TileData{Mesh: quad(
				mgl64.Vec3{5, -1, -50}, mgl64.Vec3{5, 1, -50}, mgl64.Vec3{5, 1, 1}, mgl64.Vec3{5, -1, 1})}
		}
		return &terrain.TileData{Mesh: quad(
			mgl64.Vec3{10, -1, -1}, mgl64.Vec3{10, 2, -1}, mgl64.Vec3{10, 2, 1.5}, mgl64.Vec3{10, -1, 1.5})}
	}

	s := NewSurface(provider)
	frame := testFrame()
	runFrame(s, frame, testOptions())
	runFrame(s, frame, testOptions())
	require.Len(t, s.TilesToRender(), 2)
	return s
}

func TestPickReturnsNearestIntersection(t *testing.T) {
	s := nearestPickSurface(t)

	ray := geo.Ray{Direction: mgl64.Vec3{1, 0, 0}}
	hit, ok := s.Pick(ray, geo.Scene3D, nil, false)
	require.True(t, ok)
	require.InDelta(t, 5.0, hit.X(), 1e-9)
	require.InDelta(t, 0.0, hit.Y(), 1e-9)
	require.InDelta(t, 0.0, hit.Z(), 1e-9)

	// Every candidate intersection is at least as far as the result.
	for _, id := range s.TilesToRender() {
		if tHit, ok := s.Tree().Node(id).Data.Mesh.Intersect(ray, geo.Scene3D, nil, false); ok {
			require.GreaterOrEqual(t, tHit, hit.Len()-1e-9)
		}
	}
}

func TestPickRayPointingAwayMisses(t *testing.T) {
	s := nearestPickSurface(t)

	_, ok := s.Pick(geo.Ray{Direction: mgl64.Vec3{-1, 0, 0}}, geo.Scene3D, nil, false)
	require.False(t, ok)
}

func TestPickBeforeAnyTileIsRendered(t *testing.T) {
	s := NewSurface(newMockTileProvider(terrain.NewGeographicTilingScheme(geo.WGS84, 1, 1)))
	_, ok := s.Pick(geo.Ray{Direction: mgl64.Vec3{1, 0, 0}}, geo.Scene3D, nil, false)
	require.False(t, ok)
}

func TestPickProjected(t *testing.T) {
	for _, mode := range []geo.SceneMode{geo.Scene2D, geo.SceneColumbusView} {
		t.Run(mode.String(), func(t *testing.T) {
			rect := geo.RectangleFromDegrees(0, 0, 40, 40)
			ts := terrain.NewGeographicTilingSchemeForRectangle(geo.WGS84, rect, 1, 1)
			provider := newMockTileProvider(ts)
			provider.distance = func(n *Node) float64 { return 1e9 }
			provider.data = func(n *Node) *terrain.TileData {
				return flatData(n, geo.WGS84, 0)
			}

			s := NewSurface(provider)
			frame := testFrame()
			frame.Mode = mode
			if mode == geo.Scene2D {
				frame.Camera.OrthographicWidth = 1e3
			}
			runFrame(s, frame, testOptions())
			runFrame(s, frame, testOptions())
			require.Len(t, s.TilesToRender(), 1)

			c := geo.CartographicFromDegrees(13.1, 26.3, 0)
			projection := geo.NewGeographicProjection(geo.WGS84)
			origin := geo.ToSceneCoordinates(projection.Project(c)).Add(mgl64.Vec3{1e6, 0, 0})

			hit, ok := s.Pick(geo.Ray{Origin: origin, Direction: mgl64.Vec3{-1, 0, 0}}, mode, projection, true)
			require.True(t, ok)
			require.InDelta(t, 0.0, hit.Sub(geo.WGS84.CartographicToCartesian(c)).Len(), 1e-3)

			// A ray along the scene y axis never reaches the map plane.
			_, ok = s.Pick(geo.Ray{Origin: origin, Direction: mgl64.Vec3{0, 1, 0}}, mode, projection, true)
			require.False(t, ok)
		})
	}
}

func TestHeightOutsideEveryLevelZeroTile(t *testing.T) {
	ts := terrain.NewGeographicTilingSchemeForRectangle(geo.WGS84, geo.RectangleFromDegrees(0, 0, 90, 45), 1, 1)
	provider := newMockTileProvider(ts)
	provider.distance = func(n *Node) float64 { return 1e9 }
	provider.data = func(n *Node) *terrain.TileData { return flatData(n, geo.WGS84, 10) }

	s := NewSurface(provider)
	frame := testFrame()
	runFrame(s, frame, testOptions())
	runFrame(s, frame, testOptions())

	_, ok := s.Height(geo.CartographicFromDegrees(-10, 10, 0), -11500)
	require.False(t, ok)

	h, ok := s.Height(geo.CartographicFromDegrees(30.7, 20.2, 0), -11500)
	require.True(t, ok)
	require.InDelta(t, 10.0, h, 1e-9)
}

func TestHeightWithinTileBounds(t *testing.T) {
	ts := terrain.NewGeographicTilingScheme(geo.WGS84, 1, 1)
	provider := newMockTileProvider(ts)
	provider.distance = func(n *Node) float64 { return 1e9 }
	hills := terrain.RollingHills(1000)
	provider.data = func(n *Node) *terrain.TileData {
		data, err := terrain.SampleHeightmap(n.Rectangle, 17, hills, false).CreateTileData(geo.WGS84, n.Rectangle)
		require.NoError(t, err)
		return data
	}

	provider.async = true

	s := NewSurface(provider)
	frame := testFrame()

	_, ok := s.Height(geo.CartographicFromDegrees(12.3, 7.7, 0), -11500)
	require.False(t, ok, "no traversal yet")

	runFrame(s, frame, testOptions())
	_, ok = s.Height(geo.CartographicFromDegrees(12.3, 7.7, 0), -11500)
	require.False(t, ok, "tile is still loading")

	root := s.Tree().Node(s.Tree().LevelZero()[0])
	root.Loaded(provider.data(root))
	runFrame(s, frame, testOptions())
	for _, c := range []geo.Cartographic{
		geo.CartographicFromDegrees(12.3, 7.7, 0),
		geo.CartographicFromDegrees(-101.9, -33.4, 0),
		geo.CartographicFromDegrees(57.1, 61.8, 0),
	} {
		h, ok := s.Height(c, -11500)
		require.True(t, ok, c.String())
		require.False(t, math.IsNaN(h))
		require.GreaterOrEqual(t, h, root.Data.MinimumHeight)
		require.LessOrEqual(t, h, root.Data.MaximumHeight)
	}
}

func TestHeightFallbackOriginOnFlattenedEllipsoid(t *testing.T) {
	ellipsoid := geo.NewEllipsoid(1000, 1000, 800)
	ts := terrain.NewGeographicTilingSchemeForRectangle(ellipsoid, geo.RectangleFromDegrees(0, 0, 40, 40), 1, 1)
	provider := newMockTileProvider(ts)
	provider.distance = func(n *Node) float64 { return 1e9 }
	provider.data = func(n *Node) *terrain.TileData { return flatData(n, ellipsoid, 5) }

	s := NewSurface(provider)
	frame := testFrame()
	runFrame(s, frame, testOptions())
	runFrame(s, frame, testOptions())

	// The axis intersection is rejected because the buffer exceeds the
	// polar radius, so the origin is placed just below the surface.
	h, ok := s.Height(geo.CartographicFromDegrees(21.3, 17.9, 0), -11500)
	require.True(t, ok)
	require.InDelta(t, 5.0, h, 1e-9)
}
