package terrain

import (
	"context"
	"testing"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestCreateTileData(t *testing.T) {
	rect := geo.RectangleFromDegrees(0, 0, 10, 10)
	heightmap := SampleHeightmap(rect, 5, func(lon, lat float64) float64 {
		return 1000 * lon
	}, true)

	data, err := heightmap.CreateTileData(geo.WGS84, rect)
	require.NoError(t, err)
	require.Equal(t, 0.0, data.MinimumHeight)
	require.InDelta(t, 1000*rect.East, data.MaximumHeight, 1e-9)
	require.Len(t, data.Mesh.Positions, 25)
	require.Equal(t, 32, data.Mesh.TriangleCount())
	require.True(t, data.HasHorizonCullingPoint)
	require.Equal(t, byte(255), data.WaterMask[0], "zero height at the west edge is water")

	for _, p := range data.Mesh.Positions {
		require.LessOrEqual(t, p.Sub(data.Mesh.BoundingSphere3D.Center).Len(), data.Mesh.BoundingSphere3D.Radius+1e-6)
	}

	// Triangles face away from the ellipsoid centre.
	idx := data.Mesh.Indices
	for i := 0; i < len(idx); i += 3 {
		p0, p1, p2 := data.Mesh.Positions[idx[i]], data.Mesh.Positions[idx[i+1]], data.Mesh.Positions[idx[i+2]]
		normal := p1.Sub(p0).Cross(p2.Sub(p0))
		require.Greater(t, normal.Dot(p0), 0.0, "triangle %d", i/3)
	}
}

func TestCreateTileDataRejectsBadHeightmap(t *testing.T) {
	_, err := (&Heightmap{Width: 1, Height: 1, Heights: []float64{0}}).CreateTileData(geo.WGS84, geo.MaxRectangle)
	require.Error(t, err)
	require.True(t, errors.IsType(err, ErrTypeInvalidHeightmap))

	_, err = (&Heightmap{Width: 2, Height: 2, Heights: []float64{0}}).CreateTileData(geo.WGS84, geo.MaxRectangle)
	require.True(t, errors.IsType(err, ErrTypeInvalidHeightmap))
}

func TestMeshIntersect3D(t *testing.T) {
	rect := geo.RectangleFromDegrees(0, 0, 10, 10)
	heightmap := SampleHeightmap(rect, 9, func(lon, lat float64) float64 { return 500 }, false)
	data, err := heightmap.CreateTileData(geo.WGS84, rect)
	require.NoError(t, err)

	target := geo.WGS84.CartographicToCartesian(geo.CartographicFromDegrees(3.3, 4.1, 0))
	normal := geo.WGS84.GeodeticSurfaceNormal(target)
	ray := geo.Ray{Origin: target.Add(normal.Mul(100000)), Direction: normal.Mul(-1)}

	hit, ok := data.Mesh.Intersect(ray, geo.Scene3D, nil, true)
	require.True(t, ok)
	c, ok := geo.WGS84.CartesianToCartographic(ray.At(hit))
	require.True(t, ok)
	// The flat facets sag below the sampled height between vertices.
	require.InDelta(t, 500.0, c.Height, 1000)
	require.InDelta(t, 3.3, c.Longitude*180/3.141592653589793, 0.01)

	away := geo.Ray{Origin: ray.Origin, Direction: normal}
	_, ok = data.Mesh.Intersect(away, geo.Scene3D, nil, true)
	require.False(t, ok)

	// From inside, front faces are culled.
	inside := geo.Ray{Origin: mgl64.Vec3{}, Direction: normal}
	_, ok = data.Mesh.Intersect(inside, geo.Scene3D, nil, true)
	require.False(t, ok)
	_, ok = data.Mesh.Intersect(inside, geo.Scene3D, nil, false)
	require.True(t, ok)
}

func TestMeshIntersectProjected(t *testing.T) {
	rect := geo.RectangleFromDegrees(0, 0, 10, 10)
	heightmap := SampleHeightmap(rect, 9, func(lon, lat float64) float64 { return 0 }, false)
	data, err := heightmap.CreateTileData(geo.WGS84, rect)
	require.NoError(t, err)

	projection := geo.NewGeographicProjection(geo.WGS84)
	c := geo.CartographicFromDegrees(6.7, 2.2, 0)
	projected := geo.ToSceneCoordinates(projection.Project(c))
	ray := geo.Ray{Origin: projected.Add(mgl64.Vec3{1e6, 0, 0}), Direction: mgl64.Vec3{-1, 0, 0}}

	for _, mode := range []geo.SceneMode{geo.Scene2D, geo.SceneColumbusView} {
		hit, ok := data.Mesh.Intersect(ray, mode, projection, true)
		require.True(t, ok, mode.String())
		unprojected := geo.UnprojectScenePoint(ray.At(hit), projection)
		require.InDelta(t, 0.0, unprojected.Sub(geo.WGS84.CartographicToCartesian(c)).Len(), 1e-3)
	}

	_, ok := data.Mesh.Intersect(ray, geo.Scene2D, nil, true)
	require.False(t, ok, "no projection")

	bare := NewMesh(data.Mesh.Positions, nil, data.Mesh.Indices)
	_, ok = bare.Intersect(ray, geo.Scene2D, projection, true)
	require.False(t, ok, "no cartographics")
	target := geo.WGS84.CartographicToCartesian(c)
	_, ok = bare.Intersect(geo.Ray{Origin: target.Mul(2), Direction: target.Mul(-1).Normalize()}, geo.Scene3D, nil, true)
	require.True(t, ok, "3D only needs positions")
}

func TestProceduralProviderAvailability(t *testing.T) {
	ts := NewGeographicTilingScheme(geo.WGS84, 2, 1)
	p := NewProceduralTerrainProvider(ts, RollingHills(100), ProceduralOptions{SampleWidth: 5, MaximumLevel: 2})

	require.True(t, p.TileDataAvailable(0, 0, 2))
	require.False(t, p.TileDataAvailable(0, 0, 3))

	h, err := p.RequestTileGeometry(context.Background(), 1, 0, 0)
	require.NoError(t, err)
	require.Len(t, h.Heights, 25)

	_, err = p.RequestTileGeometry(context.Background(), 0, 0, 3)
	require.True(t, errors.IsType(err, ErrTypeTileUnavailable))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.RequestTileGeometry(ctx, 0, 0, 0)
	require.ErrorIs(t, err, context.Canceled)
}
