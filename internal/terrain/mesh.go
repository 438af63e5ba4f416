package terrain

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is the triangulated surface of one tile in ECEF coordinates.
type Mesh struct {
	Positions     []mgl64.Vec3
	Cartographics []geo.Cartographic
	Indices       []uint32
	Rectangle     geo.Rectangle

	BoundingSphere3D geo.BoundingSphere
}

// NewMesh wraps triangle data and computes its bounding sphere.
// Cartographics may be nil when the mesh is only intersected in 3D.
func NewMesh(positions []mgl64.Vec3, cartographics []geo.Cartographic, indices []uint32) *Mesh {
	return &Mesh{
		Positions:        positions,
		Cartographics:    cartographics,
		Indices:          indices,
		BoundingSphere3D: geo.BoundingSphereFromPoints(positions),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Intersect returns the ray parameter of the nearest triangle hit. In 2D and
// Columbus view the ray is in scene coordinates and vertices are projected
// with projection, which needs Cartographics. Without them it never hits.
func (m *Mesh) Intersect(ray geo.Ray, mode geo.SceneMode, projection geo.MapProjection, cullBackFaces bool) (float64, bool) {
	position := m.vertexFunc(mode, projection)
	if position == nil {
		return 0, false
	}

	best := math.Inf(1)
	found := false
	for i := 0; i+2 < len(m.Indices); i += 3 {
		p0 := position(m.Indices[i])
		p1 := position(m.Indices[i+1])
		p2 := position(m.Indices[i+2])

		t, ok := geo.RayTriangle(ray, p0, p1, p2, cullBackFaces)
		if ok && t < best {
			best = t
			found = true
		}
	}
	return best, found
}

func (m *Mesh) vertexFunc(mode geo.SceneMode, projection geo.MapProjection) func(uint32) mgl64.Vec3 {
	if mode == geo.Scene3D {
		return func(i uint32) mgl64.Vec3 { return m.Positions[i] }
	}
	if projection == nil || m.Cartographics == nil {
		return nil
	}
	return func(i uint32) mgl64.Vec3 {
		return geo.ToSceneCoordinates(projection.Project(m.Cartographics[i]))
	}
}
