package geo

import "github.com/go-gl/mathgl/mgl64"

// Intersect classifies a volume against a set of planes.
type Intersect int

const (
	Outside Intersect = iota - 1
	Intersecting
	Inside
)

func (i Intersect) String() string {
	switch i {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "intersecting"
	}
}

// Plane is the set of points p with Normal·p + Distance = 0. Points with a
// positive signed distance are on the inner side.
type Plane struct {
	Normal   mgl64.Vec3
	Distance float64
}

// PlaneFromPointNormal builds a plane through point with the given normal.
func PlaneFromPointNormal(point, normal mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, Distance: -n.Dot(point)}
}

// SignedDistance returns the distance of p to the plane, positive inside.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.Distance
}

// CullingVolume is the intersection of the inner half spaces of its planes.
type CullingVolume struct {
	Planes []Plane
}

// ComputeVisibility classifies a bounding sphere against the volume.
func (v *CullingVolume) ComputeVisibility(sphere BoundingSphere) Intersect {
	intersecting := false
	for _, plane := range v.Planes {
		d := plane.SignedDistance(sphere.Center)
		if d < -sphere.Radius {
			return Outside
		}
		if d < sphere.Radius {
			intersecting = true
		}
	}
	if intersecting {
		return Intersecting
	}
	return Inside
}
