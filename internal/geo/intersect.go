package geo

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

// Interval is a parametric range along a ray.
type Interval struct {
	Start float64
	Stop  float64
}

// RaySphere intersects a ray with a sphere. Start is clamped to zero when the
// ray origin is inside the sphere. It fails when the sphere is missed or lies
// entirely behind the origin.
func RaySphere(ray Ray, sphere BoundingSphere) (Interval, bool) {
	diff := ray.Origin.Sub(sphere.Center)

	a := ray.Direction.Dot(ray.Direction)
	b := 2 * ray.Direction.Dot(diff)
	c := diff.LenSqr() - sphere.Radius*sphere.Radius

	det := b*b - 4*a*c
	if det < 0 || a == 0 {
		return Interval{}, false
	}

	var result Interval
	if det > 0 {
		denominator := 1 / (2 * a)
		disc := math.Sqrt(det)
		root0 := (-b + disc) * denominator
		root1 := (-b - disc) * denominator
		if root0 < root1 {
			result = Interval{Start: root0, Stop: root1}
		} else {
			result = Interval{Start: root1, Stop: root0}
		}
	} else {
		root := -b / (2 * a)
		result = Interval{Start: root, Stop: root}
	}

	if result.Stop < 0 {
		return Interval{}, false
	}
	result.Start = math.Max(result.Start, 0)
	return result, true
}

// RayTriangle intersects a ray with the triangle p0, p1, p2 and returns the
// ray parameter of the hit. With cullBackFaces set, triangles wound clockwise
// as seen from the ray origin are ignored.
func RayTriangle(ray Ray, p0, p1, p2 mgl64.Vec3, cullBackFaces bool) (float64, bool) {
	edge0 := p1.Sub(p0)
	edge1 := p2.Sub(p0)

	p := ray.Direction.Cross(edge1)
	det := edge0.Dot(p)

	var t float64
	if cullBackFaces {
		if det < mathutil.Epsilon6 {
			return 0, false
		}

		tvec := ray.Origin.Sub(p0)
		u := tvec.Dot(p)
		if u < 0 || u > det {
			return 0, false
		}

		q := tvec.Cross(edge0)
		v := ray.Direction.Dot(q)
		if v < 0 || u+v > det {
			return 0, false
		}

		t = edge1.Dot(q) / det
	} else {
		if math.Abs(det) < mathutil.Epsilon6 {
			return 0, false
		}
		invDet := 1 / det

		tvec := ray.Origin.Sub(p0)
		u := tvec.Dot(p) * invDet
		if u < 0 || u > 1 {
			return 0, false
		}

		q := tvec.Cross(edge0)
		v := ray.Direction.Dot(q) * invDet
		if v < 0 || u+v > 1 {
			return 0, false
		}

		t = edge1.Dot(q) * invDet
	}

	if t < 0 {
		return 0, false
	}
	return t, true
}
