package viewer

import (
	"math"
	"testing"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/globe"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
	"github.com/stretchr/testify/require"
)

func TestPickAtReturnsClickedPosition(t *testing.T) {
	for _, mode := range []geo.SceneMode{geo.Scene3D, geo.Scene2D, geo.SceneColumbusView} {
		t.Run(mode.String(), func(t *testing.T) {
			g := globe.New(geo.WGS84, globe.Options{
				TerrainProvider: terrain.NewEllipsoidTerrainProviderWithScheme(
					terrain.NewGeographicTilingScheme(geo.WGS84, 2, 1), 17),
				Tunables: globe.DefaultTunables(),
			})
			defer g.Destroy()

			v := New(Options{
				Globe:  g,
				Camera: testController(),
				Mode:   mode,
				Width:  800,
				Height: 600,
			})
			for i := 0; i < 8; i++ {
				frame := v.newFrame(scene.Passes{Render: true})
				v.runFrame(frame)
				v.frame = frame
			}

			target := geo.Cartographic{Longitude: 0.52, Latitude: 0.31}
			world := geo.WGS84.CartographicToCartesian(target)
			if mode != geo.Scene3D {
				world = geo.ToSceneCoordinates(v.projection.Project(target))
			}
			x, y, ok := projectToScreen(v.frame.Camera, world, v.width, v.height)
			require.True(t, ok)

			v.pickAt(float64(x), float64(y))
			require.True(t, v.pick.valid)
			require.InDelta(t, target.Longitude, v.pick.position.Longitude, 1e-3)
			require.InDelta(t, target.Latitude, v.pick.position.Latitude, 1e-3)
			require.Less(t, math.Abs(v.pick.position.Height), 5e4)

			require.True(t, v.pick.hasHeight)
			require.Less(t, math.Abs(v.pick.height), 5e4)
		})
	}
}
