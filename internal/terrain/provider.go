package terrain

import "context"

// Provider supplies terrain geometry for the tiles of its tiling scheme.
// Implementations must be safe for RequestTileGeometry calls from worker
// goroutines; every other method is called from the frame loop.
type Provider interface {
	Ready() bool
	HasWaterMask() bool
	RequestVertexNormals() bool
	TilingScheme() *TilingScheme
	LevelMaximumGeometricError(level int) float64
	TileDataAvailable(x, y, level int) bool
	RequestTileGeometry(ctx context.Context, x, y, level int) (*Heightmap, error)
}

// MinimumHeightReporter is implemented by providers that know the lowest
// height they can return.
type MinimumHeightReporter interface {
	MinimumHeight() float64
}
