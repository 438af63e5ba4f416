package geo

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/go-gl/mathgl/mgl64"
)

// maxScaleIterations bounds the Newton iteration in ScaleToGeodeticSurface.
const maxScaleIterations = 64

// Ellipsoid is a triaxial ellipsoid centred at the origin of an
// earth-centred, earth-fixed frame with Z through the north pole.
type Ellipsoid struct {
	radii               mgl64.Vec3
	radiiSquared        mgl64.Vec3
	oneOverRadii        mgl64.Vec3
	oneOverRadiiSquared mgl64.Vec3
	minimumRadius       float64
	maximumRadius       float64
	centerTolerance     float64
}

var (
	// WGS84 is the World Geodetic System 1984 ellipsoid.
	WGS84 = NewEllipsoid(6378137.0, 6378137.0, 6356752.3142451793)
	// UnitSphere has a radius of 1 on every axis.
	UnitSphere = NewEllipsoid(1, 1, 1)
)

// NewEllipsoid creates an ellipsoid from its three radii in meters.
func NewEllipsoid(x, y, z float64) *Ellipsoid {
	return &Ellipsoid{
		radii:               mgl64.Vec3{x, y, z},
		radiiSquared:        mgl64.Vec3{x * x, y * y, z * z},
		oneOverRadii:        mgl64.Vec3{1 / x, 1 / y, 1 / z},
		oneOverRadiiSquared: mgl64.Vec3{1 / (x * x), 1 / (y * y), 1 / (z * z)},
		minimumRadius:       math.Min(x, math.Min(y, z)),
		maximumRadius:       math.Max(x, math.Max(y, z)),
		centerTolerance:     mathutil.Epsilon1,
	}
}

func (e *Ellipsoid) Radii() mgl64.Vec3       { return e.radii }
func (e *Ellipsoid) MinimumRadius() float64  { return e.minimumRadius }
func (e *Ellipsoid) MaximumRadius() float64  { return e.maximumRadius }
func (e *Ellipsoid) OneOverRadii() mgl64.Vec3 { return e.oneOverRadii }

// Equal reports whether both ellipsoids have the same radii.
func (e *Ellipsoid) Equal(other *Ellipsoid) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.radii == other.radii
}

// GeodeticSurfaceNormal returns the outward unit normal of the surface at a
// point on (or near) it.
func (e *Ellipsoid) GeodeticSurfaceNormal(position mgl64.Vec3) mgl64.Vec3 {
	return multiplyComponents(position, e.oneOverRadiiSquared).Normalize()
}

// GeodeticSurfaceNormalCartographic returns the unit normal for a position
// given in longitude and latitude.
func (e *Ellipsoid) GeodeticSurfaceNormalCartographic(c Cartographic) mgl64.Vec3 {
	cosLatitude := math.Cos(c.Latitude)
	return mgl64.Vec3{
		cosLatitude * math.Cos(c.Longitude),
		cosLatitude * math.Sin(c.Longitude),
		math.Sin(c.Latitude),
	}.Normalize()
}

// CartographicToCartesian converts a geodetic position to ECEF coordinates.
func (e *Ellipsoid) CartographicToCartesian(c Cartographic) mgl64.Vec3 {
	n := e.GeodeticSurfaceNormalCartographic(c)
	k := multiplyComponents(e.radiiSquared, n)
	gamma := math.Sqrt(n.Dot(k))
	k = k.Mul(1 / gamma)
	return k.Add(n.Mul(c.Height))
}

// CartesianToCartographic converts ECEF coordinates to a geodetic position.
// It fails for positions at the centre of the ellipsoid.
func (e *Ellipsoid) CartesianToCartographic(position mgl64.Vec3) (Cartographic, bool) {
	p, ok := e.ScaleToGeodeticSurface(position)
	if !ok {
		return Cartographic{}, false
	}

	n := e.GeodeticSurfaceNormal(p)
	h := position.Sub(p)

	height := h.Len()
	if h.Dot(position) < 0 {
		height = -height
	}

	return Cartographic{
		Longitude: math.Atan2(n.Y(), n.X()),
		Latitude:  math.Asin(mathutil.Clamp(n.Z(), -1, 1)),
		Height:    height,
	}, true
}

// ScaleToGeodeticSurface projects a position onto the surface along the
// geodetic normal.
func (e *Ellipsoid) ScaleToGeodeticSurface(position mgl64.Vec3) (mgl64.Vec3, bool) {
	px, py, pz := position.X(), position.Y(), position.Z()
	ox, oy, oz := e.oneOverRadii.X(), e.oneOverRadii.Y(), e.oneOverRadii.Z()

	x2 := px * px * ox * ox
	y2 := py * py * oy * oy
	z2 := pz * pz * oz * oz

	squaredNorm := x2 + y2 + z2
	ratio := math.Sqrt(1 / squaredNorm)
	intersection := position.Mul(ratio)

	if squaredNorm < e.centerTolerance {
		if math.IsInf(ratio, 0) || math.IsNaN(ratio) {
			return mgl64.Vec3{}, false
		}
		return intersection, true
	}

	sx, sy, sz := e.oneOverRadiiSquared.X(), e.oneOverRadiiSquared.Y(), e.oneOverRadiiSquared.Z()
	gradient := mgl64.Vec3{
		intersection.X() * sx * 2,
		intersection.Y() * sy * 2,
		intersection.Z() * sz * 2,
	}

	lambda := (1 - ratio) * position.Len() / (0.5 * gradient.Len())
	correction := 0.0

	var xMultiplier, yMultiplier, zMultiplier float64
	for i := 0; i < maxScaleIterations; i++ {
		lambda -= correction

		xMultiplier = 1 / (1 + lambda*sx)
		yMultiplier = 1 / (1 + lambda*sy)
		zMultiplier = 1 / (1 + lambda*sz)

		xMultiplier2 := xMultiplier * xMultiplier
		yMultiplier2 := yMultiplier * yMultiplier
		zMultiplier2 := zMultiplier * zMultiplier

		fn := x2*xMultiplier2 + y2*yMultiplier2 + z2*zMultiplier2 - 1
		if math.Abs(fn) <= mathutil.Epsilon12 {
			break
		}

		denominator := x2*xMultiplier2*xMultiplier*sx +
			y2*yMultiplier2*yMultiplier*sy +
			z2*zMultiplier2*zMultiplier*sz
		correction = fn / (-2 * denominator)
	}

	return mgl64.Vec3{px * xMultiplier, py * yMultiplier, pz * zMultiplier}, true
}

// TransformPositionToScaledSpace scales a position by the inverse radii so
// the ellipsoid becomes a unit sphere.
func (e *Ellipsoid) TransformPositionToScaledSpace(position mgl64.Vec3) mgl64.Vec3 {
	return multiplyComponents(position, e.oneOverRadii)
}

// SurfaceNormalIntersectionWithZAxis returns where the surface normal line
// through position crosses the polar axis. It fails when the ellipsoid is not
// one of revolution or when the intersection lies closer than buffer to the
// surface along the axis.
func (e *Ellipsoid) SurfaceNormalIntersectionWithZAxis(position mgl64.Vec3, buffer float64) (mgl64.Vec3, bool) {
	if !mathutil.EqualsEpsilon(e.radii.X(), e.radii.Y(), mathutil.Epsilon14) || e.radii.Z() <= 0 {
		return mgl64.Vec3{}, false
	}

	squaredXOverSquaredZ := e.radiiSquared.X() / e.radiiSquared.Z()
	result := mgl64.Vec3{0, 0, position.Z() * (1 - squaredXOverSquaredZ)}

	if math.Abs(result.Z()) >= e.radii.Z()-buffer {
		return mgl64.Vec3{}, false
	}
	return result, true
}

func multiplyComponents(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{a.X() * b.X(), a.Y() * b.Y(), a.Z() * b.Z()}
}
