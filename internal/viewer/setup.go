package viewer

import (
	"github.com/MapColonies/cesium-standalone/internal/config"
	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/globe"
	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
)

// Ellipsoid returns the configured ellipsoid.
func Ellipsoid(cfg *config.Config) *geo.Ellipsoid {
	return geo.NewEllipsoid(cfg.Globe.RadiusX, cfg.Globe.RadiusY, cfg.Globe.RadiusZ)
}

// TerrainProvider builds the configured terrain provider over a geographic
// tiling scheme with twice as many level zero tiles east to west as north
// to south.
func TerrainProvider(cfg *config.Config, ellipsoid *geo.Ellipsoid) terrain.Provider {
	nx := cfg.Terrain.LevelZeroTiles
	ts := terrain.NewGeographicTilingScheme(ellipsoid, nx, max(nx/2, 1))

	if cfg.Terrain.Provider == "ellipsoid" {
		return terrain.NewEllipsoidTerrainProviderWithScheme(ts, cfg.Terrain.HeightmapSize)
	}

	amplitude := cfg.Terrain.Amplitude
	return terrain.NewProceduralTerrainProvider(ts, terrain.RollingHills(amplitude), terrain.ProceduralOptions{
		SampleWidth:   cfg.Terrain.HeightmapSize,
		MaximumLevel:  cfg.Terrain.MaximumLevel,
		WaterMask:     cfg.Terrain.WaterMask,
		MinimumHeight: -1.5 * amplitude,
	})
}

// Tunables maps the globe and surface sections onto globe tunables.
func Tunables(cfg *config.Config) globe.Tunables {
	shadows, _ := globe.ParseShadowMode(cfg.Globe.Shadows)

	t := globe.DefaultTunables()
	t.MaximumScreenSpaceError = cfg.Globe.MaximumScreenSpaceError
	t.TileCacheSize = cfg.Surface.TileCacheSize
	t.LoadingBudget = cfg.Surface.LoadingBudget
	t.MaximumConcurrentLoads = cfg.Surface.MaximumConcurrentLoads
	t.EnableLighting = cfg.Globe.EnableLighting
	t.ShowGroundAtmosphere = cfg.Globe.ShowGroundAtmosphere
	t.Shadows = shadows
	t.LightingFadeOutDistance = cfg.Globe.LightingFadeOutDistance
	t.LightingFadeInDistance = cfg.Globe.LightingFadeInDistance
	t.NightFadeOutDistance = cfg.Globe.NightFadeOutDistance
	t.NightFadeInDistance = cfg.Globe.NightFadeInDistance
	t.ShowWaterEffect = cfg.Globe.ShowWaterEffect
	t.ZoomedOutOceanSpecularIntensity = cfg.Globe.ZoomedOutOceanSpecularIntensity
	t.MinimumTerrainHeight = cfg.Globe.MinimumTerrainHeight
	return t
}

// Camera returns the camera controller at the configured start position.
func Camera(cfg *config.Config) *CameraController {
	return &CameraController{
		Longitude: mathutil.ToRadians(cfg.Camera.StartLongitude),
		Latitude:  mathutil.ToRadians(cfg.Camera.StartLatitude),
		Height:    cfg.Camera.StartHeight,
		FovY:      cfg.GetCameraFOV(),
		Near:      cfg.Camera.Near,
		Far:       cfg.Camera.Far,
		MoveSpeed: cfg.Camera.MoveSpeed,
	}
}
