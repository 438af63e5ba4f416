package terrain

import (
	"context"
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// HeightFunc returns the terrain height in meters at a longitude and latitude
// in radians.
type HeightFunc func(longitude, latitude float64) float64

// ProceduralTerrainProvider samples a HeightFunc into heightmap tiles.
type ProceduralTerrainProvider struct {
	tilingScheme              *TilingScheme
	heightFunc                HeightFunc
	sampleWidth               int
	maximumLevel              int
	waterMask                 bool
	minimumHeight             float64
	levelZeroMaximumGeomError float64
}

// ProceduralOptions configures a ProceduralTerrainProvider.
type ProceduralOptions struct {
	SampleWidth   int
	MaximumLevel  int
	WaterMask     bool
	MinimumHeight float64
}

func NewProceduralTerrainProvider(ts *TilingScheme, fn HeightFunc, opts ProceduralOptions) *ProceduralTerrainProvider {
	if opts.SampleWidth < 2 {
		opts.SampleWidth = 33
	}
	return &ProceduralTerrainProvider{
		tilingScheme:  ts,
		heightFunc:    fn,
		sampleWidth:   opts.SampleWidth,
		maximumLevel:  opts.MaximumLevel,
		waterMask:     opts.WaterMask,
		minimumHeight: opts.MinimumHeight,
		levelZeroMaximumGeomError: EstimatedLevelZeroGeometricErrorForAHeightmap(
			ts.Ellipsoid, 65, ts.NumberOfLevelZeroTilesX),
	}
}

// RollingHills is a smooth HeightFunc with oceans below zero, used by the
// viewer when no real terrain source is configured.
func RollingHills(amplitude float64) HeightFunc {
	return func(lon, lat float64) float64 {
		return amplitude * (math.Sin(3*lon)*math.Cos(2*lat) + 0.5*math.Sin(7*lon+lat)*math.Cos(5*lat))
	}
}

func (p *ProceduralTerrainProvider) Ready() bool                 { return true }
func (p *ProceduralTerrainProvider) HasWaterMask() bool          { return p.waterMask }
func (p *ProceduralTerrainProvider) RequestVertexNormals() bool  { return true }
func (p *ProceduralTerrainProvider) TilingScheme() *TilingScheme { return p.tilingScheme }
func (p *ProceduralTerrainProvider) MinimumHeight() float64      { return p.minimumHeight }

func (p *ProceduralTerrainProvider) LevelMaximumGeometricError(level int) float64 {
	return p.levelZeroMaximumGeomError / float64(int64(1)<<uint(level))
}

func (p *ProceduralTerrainProvider) TileDataAvailable(x, y, level int) bool {
	return p.maximumLevel <= 0 || level <= p.maximumLevel
}

func (p *ProceduralTerrainProvider) RequestTileGeometry(ctx context.Context, x, y, level int) (*Heightmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.TileDataAvailable(x, y, level) {
		return nil, errors.New("tile not available").
			WithType(ErrTypeTileUnavailable).
			WithTag("x", x).
			WithTag("y", y).
			WithTag("level", level)
	}

	rect := p.tilingScheme.TileXYToRectangle(x, y, level)
	return SampleHeightmap(rect, p.sampleWidth, p.heightFunc, p.waterMask), nil
}

// SampleHeightmap evaluates fn on a width × width grid over rect.
func SampleHeightmap(rect geo.Rectangle, width int, fn HeightFunc, waterMask bool) *Heightmap {
	h := &Heightmap{
		Width:   width,
		Height:  width,
		Heights: make([]float64, width*width),
	}
	if waterMask {
		h.WaterMask = make([]byte, width*width)
	}

	for row := 0; row < width; row++ {
		lat := rect.North - rect.Height()*float64(row)/float64(width-1)
		for col := 0; col < width; col++ {
			lon := rect.West + rect.Width()*float64(col)/float64(width-1)
			i := row*width + col
			h.Heights[i] = fn(lon, lat)
			if waterMask && h.Heights[i] <= 0 {
				h.WaterMask[i] = 255
			}
		}
	}
	return h
}
