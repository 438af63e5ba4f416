package globe

import "github.com/MapColonies/cesium-standalone/internal/quadtree"

// Tunables are the per-frame parameters of the globe. They are read at every
// BeginFrame and may be changed between frames.
type Tunables struct {
	MaximumScreenSpaceError float64
	TileCacheSize           int
	LoadingBudget           int
	MaximumConcurrentLoads  int

	EnableLighting       bool
	ShowGroundAtmosphere bool
	Shadows              ShadowMode

	// Camera distances, in meters, over which ground lighting and the night
	// side fade in and out.
	LightingFadeOutDistance float64
	LightingFadeInDistance  float64
	NightFadeOutDistance    float64
	NightFadeInDistance     float64

	ShowWaterEffect                 bool
	ZoomedOutOceanSpecularIntensity float64

	// MinimumTerrainHeight bounds height query rays when the terrain
	// provider does not report its own minimum.
	MinimumTerrainHeight float64
}

// DefaultTunables returns values suited to a WGS84 globe.
func DefaultTunables() Tunables {
	return Tunables{
		MaximumScreenSpaceError:         2,
		TileCacheSize:                   100,
		EnableLighting:                  false,
		ShowGroundAtmosphere:            true,
		Shadows:                         ShadowsReceiveOnly,
		LightingFadeOutDistance:         1e7,
		LightingFadeInDistance:          2e7,
		NightFadeOutDistance:            1e7,
		NightFadeInDistance:             5e7,
		ShowWaterEffect:                 true,
		ZoomedOutOceanSpecularIntensity: 0.5,
		MinimumTerrainHeight:            -11500,
	}
}

func (t Tunables) frameOptions() quadtree.FrameOptions {
	return quadtree.FrameOptions{
		MaximumScreenSpaceError: t.MaximumScreenSpaceError,
		TileCacheSize:           t.TileCacheSize,
		LoadingBudget:           t.LoadingBudget,
		MaximumConcurrentLoads:  t.MaximumConcurrentLoads,
	}
}
