package scene

import "github.com/MapColonies/cesium-standalone/internal/geo"

// Pass identifies the render pass a command belongs to.
type Pass int

const (
	PassGlobe Pass = iota
	PassPick
)

func (p Pass) String() string {
	if p == PassPick {
		return "pick"
	}
	return "globe"
}

// DrawCommand is one tile draw request. Rendering backends interpret it; the
// surface never touches GPU state.
type DrawCommand struct {
	Pass      Pass
	Level     int
	X         int
	Y         int
	Rectangle geo.Rectangle

	MinimumHeight float64
	MaximumHeight float64

	ShowWater          bool
	ShowOceanNormals   bool
	EnableLighting     bool
	GroundAtmosphere   bool
	CastShadows        bool
	ReceiveShadows     bool
	ImageryLayerCount  int
	ShaderVersion      int
	OceanSpecularLevel float64
}
