// Package terrain defines the terrain provider contract, the geographic
// tiling scheme and the tile meshes that the surface renders and picks.
package terrain

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/mathutil"
)

// TilingScheme partitions a rectangle of the ellipsoid into a quadtree of
// tiles using the geographic (equirectangular) layout. Row 0 is the northern
// most row at every level.
type TilingScheme struct {
	Ellipsoid               *geo.Ellipsoid
	Rectangle               geo.Rectangle
	NumberOfLevelZeroTilesX int
	NumberOfLevelZeroTilesY int
	Projection              geo.MapProjection
}

// NewGeographicTilingScheme covers the whole ellipsoid with nx × ny tiles at
// level zero.
func NewGeographicTilingScheme(ellipsoid *geo.Ellipsoid, nx, ny int) *TilingScheme {
	return NewGeographicTilingSchemeForRectangle(ellipsoid, geo.MaxRectangle, nx, ny)
}

// NewGeographicTilingSchemeForRectangle covers only rect with nx × ny tiles
// at level zero.
func NewGeographicTilingSchemeForRectangle(ellipsoid *geo.Ellipsoid, rect geo.Rectangle, nx, ny int) *TilingScheme {
	return &TilingScheme{
		Ellipsoid:               ellipsoid,
		Rectangle:               rect,
		NumberOfLevelZeroTilesX: mathutil.IntMax(1, nx),
		NumberOfLevelZeroTilesY: mathutil.IntMax(1, ny),
		Projection:              geo.NewGeographicProjection(ellipsoid),
	}
}

// NumberOfXTilesAtLevel returns the tile column count at a level.
func (ts *TilingScheme) NumberOfXTilesAtLevel(level int) int {
	return ts.NumberOfLevelZeroTilesX << uint(level)
}

// NumberOfYTilesAtLevel returns the tile row count at a level.
func (ts *TilingScheme) NumberOfYTilesAtLevel(level int) int {
	return ts.NumberOfLevelZeroTilesY << uint(level)
}

// TileXYToRectangle returns the extent of a tile. Edges are computed from the
// parent chain so that sibling tiles share edges exactly and children cover
// their parent.
func (ts *TilingScheme) TileXYToRectangle(x, y, level int) geo.Rectangle {
	if level == 0 {
		width := ts.Rectangle.Width() / float64(ts.NumberOfLevelZeroTilesX)
		height := ts.Rectangle.Height() / float64(ts.NumberOfLevelZeroTilesY)

		west := ts.Rectangle.West + float64(x)*width
		east := ts.Rectangle.West + float64(x+1)*width
		if x == ts.NumberOfLevelZeroTilesX-1 {
			east = ts.Rectangle.East
		}
		north := ts.Rectangle.North - float64(y)*height
		south := ts.Rectangle.North - float64(y+1)*height
		if y == ts.NumberOfLevelZeroTilesY-1 {
			south = ts.Rectangle.South
		}
		return geo.Rectangle{
			West:  mathutil.NegativePiToPi(west),
			South: south,
			East:  mathutil.NegativePiToPi(east),
			North: north,
		}
	}

	parent := ts.TileXYToRectangle(x/2, y/2, level-1)
	children := parent.Subdivide()
	return children[quadrantOf(x, y)]
}

// PositionToTileXY returns the tile containing a position at a level.
func (ts *TilingScheme) PositionToTileXY(c geo.Cartographic, level int) (int, int, bool) {
	if !ts.Rectangle.Contains(c) {
		return 0, 0, false
	}

	xTiles := ts.NumberOfXTilesAtLevel(level)
	yTiles := ts.NumberOfYTilesAtLevel(level)

	lon := c.Longitude
	if ts.Rectangle.East < ts.Rectangle.West && lon < ts.Rectangle.West {
		lon += 2 * math.Pi
	}

	x := int((lon - ts.Rectangle.West) / (ts.Rectangle.Width() / float64(xTiles)))
	if x >= xTiles {
		x = xTiles - 1
	}
	y := int((ts.Rectangle.North - c.Latitude) / (ts.Rectangle.Height() / float64(yTiles)))
	if y >= yTiles {
		y = yTiles - 1
	}
	return x, y, true
}

// Equal reports whether both schemes produce identical tiles.
func (ts *TilingScheme) Equal(other *TilingScheme) bool {
	if ts == nil || other == nil {
		return ts == other
	}
	return ts.Ellipsoid.Equal(other.Ellipsoid) &&
		ts.Rectangle.Equal(other.Rectangle) &&
		ts.NumberOfLevelZeroTilesX == other.NumberOfLevelZeroTilesX &&
		ts.NumberOfLevelZeroTilesY == other.NumberOfLevelZeroTilesY
}

func quadrantOf(x, y int) geo.Quadrant {
	switch {
	case x%2 == 0 && y%2 == 0:
		return geo.Northwest
	case y%2 == 0:
		return geo.Northeast
	case x%2 == 0:
		return geo.Southwest
	default:
		return geo.Southeast
	}
}

// EstimatedLevelZeroGeometricErrorForAHeightmap returns the geometric error
// of a level-zero heightmap tile of the given sample width.
func EstimatedLevelZeroGeometricErrorForAHeightmap(ellipsoid *geo.Ellipsoid, tileImageWidth, numberOfTilesAtLevelZero int) float64 {
	return ellipsoid.MaximumRadius() * 2 * math.Pi * 0.25 /
		float64(tileImageWidth*numberOfTilesAtLevelZero)
}
