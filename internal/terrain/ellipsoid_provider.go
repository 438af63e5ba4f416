package terrain

import (
	"context"

	"github.com/MapColonies/cesium-standalone/internal/geo"
)

const ellipsoidTileWidth = 64

// EllipsoidTerrainProvider returns flat tiles lying on the ellipsoid surface.
type EllipsoidTerrainProvider struct {
	tilingScheme              *TilingScheme
	levelZeroMaximumGeomError float64
	sampleWidth               int
}

// NewEllipsoidTerrainProvider uses a two by one geographic tiling scheme.
// sampleWidth is the heightmap resolution per tile edge.
func NewEllipsoidTerrainProvider(ellipsoid *geo.Ellipsoid, sampleWidth int) *EllipsoidTerrainProvider {
	return NewEllipsoidTerrainProviderWithScheme(NewGeographicTilingScheme(ellipsoid, 2, 1), sampleWidth)
}

// NewEllipsoidTerrainProviderWithScheme uses the given tiling scheme.
func NewEllipsoidTerrainProviderWithScheme(ts *TilingScheme, sampleWidth int) *EllipsoidTerrainProvider {
	if sampleWidth < 2 {
		sampleWidth = 16
	}
	return &EllipsoidTerrainProvider{
		tilingScheme: ts,
		levelZeroMaximumGeomError: EstimatedLevelZeroGeometricErrorForAHeightmap(
			ts.Ellipsoid, ellipsoidTileWidth, ts.NumberOfLevelZeroTilesX),
		sampleWidth: sampleWidth,
	}
}

func (p *EllipsoidTerrainProvider) Ready() bool                 { return true }
func (p *EllipsoidTerrainProvider) HasWaterMask() bool          { return false }
func (p *EllipsoidTerrainProvider) RequestVertexNormals() bool  { return false }
func (p *EllipsoidTerrainProvider) TilingScheme() *TilingScheme { return p.tilingScheme }
func (p *EllipsoidTerrainProvider) MinimumHeight() float64      { return 0 }

func (p *EllipsoidTerrainProvider) LevelMaximumGeometricError(level int) float64 {
	return p.levelZeroMaximumGeomError / float64(int64(1)<<uint(level))
}

func (p *EllipsoidTerrainProvider) TileDataAvailable(x, y, level int) bool {
	return true
}

func (p *EllipsoidTerrainProvider) RequestTileGeometry(ctx context.Context, x, y, level int) (*Heightmap, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Heightmap{
		Width:   p.sampleWidth,
		Height:  p.sampleWidth,
		Heights: make([]float64, p.sampleWidth*p.sampleWidth),
	}, nil
}
