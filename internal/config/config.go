package config

import (
	"math"
	"os"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrTypeConfigInvalid is the error type of configuration errors.
const ErrTypeConfigInvalid = "config_invalid"

// Config holds all viewer configuration values
type Config struct {
	Display   DisplayConfig   `yaml:"display"`
	Globe     GlobeConfig     `yaml:"globe"`
	Surface   SurfaceConfig   `yaml:"surface"`
	Terrain   TerrainConfig   `yaml:"terrain"`
	Camera    CameraConfig    `yaml:"camera"`
	Threading ThreadingConfig `yaml:"threading"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Inspect   InspectConfig   `yaml:"inspect"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
	SceneMode    string `yaml:"scene_mode"` // 3d, 2d or columbus
}

type GlobeConfig struct {
	// Ellipsoid radii in meters. Defaults to WGS84.
	RadiusX float64 `yaml:"radius_x"`
	RadiusY float64 `yaml:"radius_y"`
	RadiusZ float64 `yaml:"radius_z"`

	Show                    bool    `yaml:"show"`
	MaximumScreenSpaceError float64 `yaml:"maximum_screen_space_error"`

	EnableLighting       bool   `yaml:"enable_lighting"`
	ShowGroundAtmosphere bool   `yaml:"show_ground_atmosphere"`
	Shadows              string `yaml:"shadows"`

	LightingFadeOutDistance float64 `yaml:"lighting_fade_out_distance"`
	LightingFadeInDistance  float64 `yaml:"lighting_fade_in_distance"`
	NightFadeOutDistance    float64 `yaml:"night_fade_out_distance"`
	NightFadeInDistance     float64 `yaml:"night_fade_in_distance"`

	ShowWaterEffect                 bool    `yaml:"show_water_effect"`
	ZoomedOutOceanSpecularIntensity float64 `yaml:"zoomed_out_ocean_specular_intensity"`
	OceanNormalMapURL               string  `yaml:"ocean_normal_map_url"`

	// Lowest terrain height assumed by height queries when the terrain
	// provider does not report one.
	MinimumTerrainHeight float64 `yaml:"minimum_terrain_height"`
}

type SurfaceConfig struct {
	TileCacheSize          int `yaml:"tile_cache_size"`
	LoadingBudget          int `yaml:"loading_budget"`
	MaximumConcurrentLoads int `yaml:"maximum_concurrent_loads"`
}

type TerrainConfig struct {
	Provider       string  `yaml:"provider"` // ellipsoid or procedural
	LevelZeroTiles int     `yaml:"level_zero_tiles_x"`
	MaximumLevel   int     `yaml:"maximum_level"`
	HeightmapSize  int     `yaml:"heightmap_size"`
	Amplitude      float64 `yaml:"amplitude"`
	WaterMask      bool    `yaml:"water_mask"`
}

type CameraConfig struct {
	FieldOfView    float64 `yaml:"field_of_view"` // degrees
	StartLongitude float64 `yaml:"start_longitude"`
	StartLatitude  float64 `yaml:"start_latitude"`
	StartHeight    float64 `yaml:"start_height"`
	MoveSpeed      float64 `yaml:"move_speed"` // fraction of the height per second
	Near           float64 `yaml:"near"`
	Far            float64 `yaml:"far"`
}

type ThreadingConfig struct {
	Workers int `yaml:"workers"` // 0 uses one worker per CPU
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Indent bool   `yaml:"indent"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type InspectConfig struct {
	Addr     string        `yaml:"addr"`
	Interval time.Duration `yaml:"interval"`
}

// Global config instance
var GlobalConfig *Config

// DefaultConfig returns the configuration used for values missing from the
// file.
func DefaultConfig() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1024,
			ScreenHeight: 768,
			WindowTitle:  "Terrain Surface Viewer",
			Resizable:    true,
			SceneMode:    "3d",
		},
		Globe: GlobeConfig{
			RadiusX:                         6378137.0,
			RadiusY:                         6378137.0,
			RadiusZ:                         6356752.3142451793,
			Show:                            true,
			MaximumScreenSpaceError:         2,
			ShowGroundAtmosphere:            true,
			Shadows:                         "receive_only",
			LightingFadeOutDistance:         1e7,
			LightingFadeInDistance:          2e7,
			NightFadeOutDistance:            1e7,
			NightFadeInDistance:             5e7,
			ShowWaterEffect:                 true,
			ZoomedOutOceanSpecularIntensity: 0.5,
			MinimumTerrainHeight:            -11500,
		},
		Surface: SurfaceConfig{
			TileCacheSize: 100,
		},
		Terrain: TerrainConfig{
			Provider:       "procedural",
			LevelZeroTiles: 2,
			MaximumLevel:   12,
			HeightmapSize:  33,
			Amplitude:      4000,
			WaterMask:      true,
		},
		Camera: CameraConfig{
			FieldOfView:    60,
			StartLongitude: 35,
			StartLatitude:  32,
			StartHeight:    2e7,
			MoveSpeed:      0.5,
			Near:           1,
			Far:            5e8,
		},
		Log: LogConfig{
			Level: "info",
		},
		Inspect: InspectConfig{
			Interval: time.Second,
		},
	}
}

// LoadConfig loads the configuration from a yaml file over the defaults
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New("reading config failed").
			WithType(ErrTypeConfigInvalid).
			WithTag("filename", filename).
			Wrap(err)
	}

	config := DefaultConfig()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New("parsing config failed").
			WithType(ErrTypeConfigInvalid).
			WithTag("filename", filename).
			Wrap(err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}

	// Set global config for easy access
	GlobalConfig = config

	return config, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	config, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return config
}

// Validate checks the values that would break the viewer.
func (c *Config) Validate() error {
	switch {
	case c.Display.ScreenWidth <= 0 || c.Display.ScreenHeight <= 0:
		return invalid("display", "screen size must be positive")
	case c.Display.SceneMode != "3d" && c.Display.SceneMode != "2d" && c.Display.SceneMode != "columbus":
		return invalid("display.scene_mode", "expected 3d, 2d or columbus")
	case c.Globe.RadiusX <= 0 || c.Globe.RadiusY <= 0 || c.Globe.RadiusZ <= 0:
		return invalid("globe", "ellipsoid radii must be positive")
	case c.Globe.MaximumScreenSpaceError <= 0:
		return invalid("globe.maximum_screen_space_error", "must be positive")
	case c.Globe.MinimumTerrainHeight > 0:
		return invalid("globe.minimum_terrain_height", "must not be above the ellipsoid")
	case c.Surface.TileCacheSize < 0 || c.Surface.LoadingBudget < 0 || c.Surface.MaximumConcurrentLoads < 0:
		return invalid("surface", "limits must not be negative")
	case c.Terrain.Provider != "ellipsoid" && c.Terrain.Provider != "procedural":
		return invalid("terrain.provider", "expected ellipsoid or procedural")
	case c.Terrain.LevelZeroTiles <= 0:
		return invalid("terrain.level_zero_tiles_x", "must be positive")
	case c.Terrain.HeightmapSize < 2:
		return invalid("terrain.heightmap_size", "must be at least 2")
	case c.Camera.FieldOfView <= 0 || c.Camera.FieldOfView >= 180:
		return invalid("camera.field_of_view", "must be within (0, 180) degrees")
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return invalid("camera", "near must be positive and below far")
	case c.Threading.Workers < 0:
		return invalid("threading.workers", "must not be negative")
	}

	switch c.Globe.Shadows {
	case "disabled", "enabled", "cast_only", "receive_only", "":
	default:
		return invalid("globe.shadows", "expected disabled, enabled, cast_only or receive_only")
	}
	return nil
}

func invalid(field, reason string) error {
	return errors.New("invalid configuration").
		WithType(ErrTypeConfigInvalid).
		WithTag("field", field).
		WithTag("reason", reason)
}

// Helper functions for easy access to commonly used values
func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// GetCameraFOV returns the vertical field of view in radians.
func (c *Config) GetCameraFOV() float64 {
	return c.Camera.FieldOfView * math.Pi / 180
}
