package viewer

import (
	"math"
	"testing"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/stretchr/testify/require"
)

func TestProjectToScreenInvertsPickRay(t *testing.T) {
	c := testController()
	projection := geo.NewGeographicProjection(geo.WGS84)

	for _, mode := range []geo.SceneMode{geo.Scene3D, geo.Scene2D, geo.SceneColumbusView} {
		t.Run(mode.String(), func(t *testing.T) {
			camera := c.Camera(mode, geo.WGS84, projection)

			for _, pixel := range [][2]float64{{400, 300}, {12, 590}, {777, 3}} {
				ray := camera.PickRay(pixel[0], pixel[1], 800, 600)
				x, y, ok := projectToScreen(camera, ray.Origin.Add(ray.Direction.Mul(5e5)), 800, 600)
				require.True(t, ok)
				require.InDelta(t, pixel[0], float64(x), 1e-2)
				require.InDelta(t, pixel[1], float64(y), 1e-2)
			}
		})
	}
}

func TestProjectToScreenClipsBehindCamera(t *testing.T) {
	camera := testController().Camera(geo.Scene3D, geo.WGS84, nil)

	_, _, ok := projectToScreen(camera, camera.Position.Sub(camera.Direction.Mul(10)), 800, 600)
	require.False(t, ok)

	_, _, ok = projectToScreen(camera, camera.Position.Add(camera.Direction.Mul(10)), 0, 600)
	require.False(t, ok)
}

func TestNextModeCycles(t *testing.T) {
	mode := geo.Scene3D
	seen := map[geo.SceneMode]bool{}
	for i := 0; i < 3; i++ {
		mode = nextMode(mode)
		seen[mode] = true
	}
	require.Equal(t, geo.Scene3D, mode)
	require.Len(t, seen, 3)
}

func TestLevelColorIsTranslucent(t *testing.T) {
	for level := 0; level < 20; level++ {
		c := levelColor(level)
		require.Equal(t, uint8(140), c.A)
		require.LessOrEqual(t, math.Max(float64(c.R), math.Max(float64(c.G), float64(c.B))), 128.0)
	}
}
