package quadtree

import (
	"math"
	"sort"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

type pickCandidate struct {
	id             NodeID
	distanceSquare float64
	entry          float64
}

// Pick intersects a ray with the tiles selected by the latest traversal and
// returns the nearest hit in ECEF coordinates. In 2D and Columbus view the ray
// is given in scene coordinates.
func (s *Surface) Pick(ray geo.Ray, mode geo.SceneMode, projection geo.MapProjection, cullBackFaces bool) (mgl64.Vec3, bool) {
	if s.tree == nil {
		return mgl64.Vec3{}, false
	}
	if projection == nil {
		projection = s.tree.TilingScheme().Projection
	}

	var candidates []pickCandidate
	for _, id := range s.tilesToRender {
		node := s.tree.Node(id)
		if node.Data == nil || node.Data.Mesh == nil {
			continue
		}

		var sphere geo.BoundingSphere
		if mode == geo.Scene3D {
			sphere = node.Data.Mesh.BoundingSphere3D
		} else {
			sphere = geo.BoundingSphereFromRectangleWithHeights2D(
				node.Rectangle, projection, node.Data.MinimumHeight, node.Data.MaximumHeight)
			sphere.Center = geo.ToSceneCoordinates(sphere.Center)
		}

		interval, ok := geo.RaySphere(ray, sphere)
		if !ok {
			continue
		}
		candidates = append(candidates, pickCandidate{
			id:             id,
			distanceSquare: sphere.Center.Sub(ray.Origin).LenSqr(),
			entry:          interval.Start,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distanceSquare < candidates[j].distanceSquare
	})

	best := math.Inf(1)
	found := false
	for _, c := range candidates {
		// A sphere entered beyond the best hit cannot hold a nearer one.
		if found && c.entry > best {
			continue
		}
		t, ok := s.tree.Node(c.id).Data.Mesh.Intersect(ray, mode, projection, cullBackFaces)
		if ok && t < best {
			best = t
			found = true
		}
	}
	if !found {
		return mgl64.Vec3{}, false
	}

	hit := ray.At(best)
	if mode != geo.Scene3D {
		hit = geo.UnprojectScenePoint(hit, projection)
	}
	return hit, true
}

// Height returns the terrain height under a position from the tiles rendered
// by the latest traversal. minimumHeight is the lowest height the terrain
// may have and sizes the buffer kept between the ray origin and the surface.
func (s *Surface) Height(c geo.Cartographic, minimumHeight float64) (float64, bool) {
	if s.tree == nil {
		return 0, false
	}

	id, ok := s.tree.FindLevelZero(c)
	if !ok {
		return 0, false
	}

	node := s.tree.Node(id)
	for node.LastSelectionResult == SelectionRefined {
		children, ok := s.tree.Children(node.ID)
		if !ok {
			break
		}
		next := children[geo.Northeast]
		for _, q := range [...]geo.Quadrant{geo.Southwest, geo.Southeast, geo.Northwest} {
			if s.tree.Node(children[q]).Rectangle.Contains(c) {
				next = children[q]
				break
			}
		}
		node = s.tree.Node(next)
	}

	if node.LastSelectionResult != SelectionRendered || node.Data == nil || node.Data.Mesh == nil {
		return 0, false
	}

	ellipsoid := s.tree.TilingScheme().Ellipsoid
	surface := ellipsoid.CartographicToCartesian(geo.Cartographic{Longitude: c.Longitude, Latitude: c.Latitude})
	normal := ellipsoid.GeodeticSurfaceNormal(surface)

	origin, ok := ellipsoid.SurfaceNormalIntersectionWithZAxis(surface, math.Abs(minimumHeight))
	if !ok {
		magnitude := math.Min(node.Data.MinimumHeight, minimumHeight)
		origin = surface.Sub(normal.Mul(math.Abs(magnitude) + 1))
	}

	ray := geo.Ray{Origin: origin, Direction: normal}
	t, ok := node.Data.Mesh.Intersect(ray, geo.Scene3D, nil, false)
	if !ok {
		return 0, false
	}

	hit, ok := ellipsoid.CartesianToCartographic(ray.At(t))
	if !ok {
		return 0, false
	}
	return mathutil.Clamp(hit.Height, node.Data.MinimumHeight, node.Data.MaximumHeight), true
}
