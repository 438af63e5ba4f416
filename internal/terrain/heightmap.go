package terrain

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/go-gl/mathgl/mgl64"
)

// Heightmap is a regular grid of heights covering a tile rectangle. Row 0 is
// the northern edge and column 0 the western edge.
type Heightmap struct {
	Width   int
	Height  int
	Heights []float64

	// WaterMask holds one byte per sample, 255 for water and 0 for land. A
	// single byte marks the whole tile.
	WaterMask []byte
}

// TileData is the loaded render data of a tile.
type TileData struct {
	Mesh          *Mesh
	MinimumHeight float64
	MaximumHeight float64
	WaterMask     []byte

	HorizonCullingPoint    mgl64.Vec3
	HasHorizonCullingPoint bool
}

// CreateTileData builds the mesh for the heightmap over rect.
func (h *Heightmap) CreateTileData(ellipsoid *geo.Ellipsoid, rect geo.Rectangle) (*TileData, error) {
	if h.Width < 2 || h.Height < 2 {
		return nil, errors.Newf("heightmap must be at least 2x2, got %dx%d", h.Width, h.Height).
			WithType(ErrTypeInvalidHeightmap)
	}
	if len(h.Heights) != h.Width*h.Height {
		return nil, errors.Newf("heightmap has %d samples, expected %d", len(h.Heights), h.Width*h.Height).
			WithType(ErrTypeInvalidHeightmap)
	}

	count := h.Width * h.Height
	positions := make([]mgl64.Vec3, count)
	cartographics := make([]geo.Cartographic, count)

	minimumHeight := math.Inf(1)
	maximumHeight := math.Inf(-1)

	width := rect.Width()
	for row := 0; row < h.Height; row++ {
		lat := rect.North - rect.Height()*float64(row)/float64(h.Height-1)
		for col := 0; col < h.Width; col++ {
			i := row*h.Width + col
			height := h.Heights[i]
			c := geo.Cartographic{
				Longitude: rect.West + width*float64(col)/float64(h.Width-1),
				Latitude:  lat,
				Height:    height,
			}
			cartographics[i] = c
			positions[i] = ellipsoid.CartographicToCartesian(c)

			minimumHeight = math.Min(minimumHeight, height)
			maximumHeight = math.Max(maximumHeight, height)
		}
	}

	indices := make([]uint32, 0, (h.Width-1)*(h.Height-1)*6)
	for row := 0; row < h.Height-1; row++ {
		for col := 0; col < h.Width-1; col++ {
			nw := uint32(row*h.Width + col)
			ne := nw + 1
			sw := nw + uint32(h.Width)
			se := sw + 1
			// Counter-clockwise seen from above the surface.
			indices = append(indices, sw, se, nw, nw, se, ne)
		}
	}

	mesh := NewMesh(positions, cartographics, indices)
	mesh.Rectangle = rect

	data := &TileData{
		Mesh:          mesh,
		MinimumHeight: minimumHeight,
		MaximumHeight: maximumHeight,
		WaterMask:     h.WaterMask,
	}

	occluder := geo.NewEllipsoidalOccluder(ellipsoid)
	data.HorizonCullingPoint, data.HasHorizonCullingPoint =
		occluder.ComputeHorizonCullingPoint(mesh.BoundingSphere3D.Center, positions)

	return data, nil
}
