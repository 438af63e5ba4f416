package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// rectangleSamples is the grid resolution used when bounding a rectangle
// whose mesh is not loaded yet.
const rectangleSamples = 5

// BoundingSphere is a sphere enclosing a set of positions.
type BoundingSphere struct {
	Center mgl64.Vec3
	Radius float64
}

// BoundingSphereFromPoints bounds the points with a sphere centred on their
// axis aligned box.
func BoundingSphereFromPoints(points []mgl64.Vec3) BoundingSphere {
	if len(points) == 0 {
		return BoundingSphere{}
	}

	lo := points[0]
	hi := points[0]
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}

	center := lo.Add(hi).Mul(0.5)
	radiusSquared := 0.0
	for _, p := range points {
		radiusSquared = math.Max(radiusSquared, p.Sub(center).LenSqr())
	}
	return BoundingSphere{Center: center, Radius: math.Sqrt(radiusSquared)}
}

// BoundingSphereFromRectangle3D bounds the surface inside a rectangle between
// two heights in ECEF coordinates.
func BoundingSphereFromRectangle3D(r Rectangle, ellipsoid *Ellipsoid, minimumHeight, maximumHeight float64) BoundingSphere {
	points := r.Subsample(ellipsoid, minimumHeight, rectangleSamples)
	points = append(points, r.Subsample(ellipsoid, maximumHeight, rectangleSamples)...)
	return BoundingSphereFromPoints(points)
}

// BoundingSphereFromRectangleWithHeights2D bounds a rectangle in projected
// coordinates: the south west corner at the minimum height and the north east
// corner at the maximum height span the sphere diameter. The result is in
// projection axes (x east, y north, z up); use ToSceneCoordinates before
// testing it against scene rays.
func BoundingSphereFromRectangleWithHeights2D(r Rectangle, projection MapProjection, minimumHeight, maximumHeight float64) BoundingSphere {
	southwest := r.Southwest()
	southwest.Height = minimumHeight
	northeast := r.Northeast()
	northeast.Height = maximumHeight

	lowerLeft := projection.Project(southwest)
	upperRight := projection.Project(northeast)

	diagonal := upperRight.Sub(lowerLeft)
	return BoundingSphere{
		Center: lowerLeft.Add(diagonal.Mul(0.5)),
		Radius: diagonal.Len() * 0.5,
	}
}

// DistanceTo returns the distance from p to the sphere surface, zero inside.
func (s BoundingSphere) DistanceTo(p mgl64.Vec3) float64 {
	return math.Max(0, p.Sub(s.Center).Len()-s.Radius)
}

// ToSceneCoordinates permutes projected coordinates (x, y, height) into the
// 2D and Columbus view scene axes (height, x, y).
func ToSceneCoordinates(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Z(), v.X(), v.Y()}
}

// FromSceneCoordinates undoes ToSceneCoordinates.
func FromSceneCoordinates(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.Y(), v.Z(), v.X()}
}
