package geo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// EllipsoidalOccluder decides whether points are hidden behind the ellipsoid
// horizon as seen from a camera position. Points are tested in scaled space
// where the ellipsoid is a unit sphere.
type EllipsoidalOccluder struct {
	ellipsoid                *Ellipsoid
	cameraPosition           mgl64.Vec3
	cameraPositionInScaled   mgl64.Vec3
	distanceToLimbInScaledSq float64
}

func NewEllipsoidalOccluder(ellipsoid *Ellipsoid) *EllipsoidalOccluder {
	return &EllipsoidalOccluder{ellipsoid: ellipsoid}
}

func (o *EllipsoidalOccluder) Ellipsoid() *Ellipsoid { return o.ellipsoid }

// SetCameraPosition updates the viewpoint.
func (o *EllipsoidalOccluder) SetCameraPosition(position mgl64.Vec3) {
	cv := o.ellipsoid.TransformPositionToScaledSpace(position)
	o.cameraPosition = position
	o.cameraPositionInScaled = cv
	o.distanceToLimbInScaledSq = cv.LenSqr() - 1
}

// IsScaledSpacePointVisible tests a point produced by
// ComputeHorizonCullingPoint.
func (o *EllipsoidalOccluder) IsScaledSpacePointVisible(occludee mgl64.Vec3) bool {
	cv := o.cameraPositionInScaled
	vt := occludee.Sub(cv)
	vtDotVc := -vt.Dot(cv)

	// Inside the ellipsoid only the half space behind the camera is hidden.
	if o.distanceToLimbInScaledSq < 0 {
		return vtDotVc <= 0
	}

	return !(vtDotVc > o.distanceToLimbInScaledSq &&
		vtDotVc*vtDotVc/vt.LenSqr() > o.distanceToLimbInScaledSq)
}

// ComputeHorizonCullingPoint returns a scaled space point along
// directionToPoint that is occluded only when every position is occluded.
// It fails when no such point exists, for example when the positions span
// more than a hemisphere.
func (o *EllipsoidalOccluder) ComputeHorizonCullingPoint(directionToPoint mgl64.Vec3, positions []mgl64.Vec3) (mgl64.Vec3, bool) {
	scaledDirection := o.ellipsoid.TransformPositionToScaledSpace(directionToPoint)
	if scaledDirection.LenSqr() < 1e-20 {
		return mgl64.Vec3{}, false
	}
	scaledDirection = scaledDirection.Normalize()

	resultMagnitude := 0.0
	for _, position := range positions {
		scaled := o.ellipsoid.TransformPositionToScaledSpace(position)
		candidate := computeMagnitude(scaled, scaledDirection)
		if candidate < 0 || math.IsNaN(candidate) {
			return mgl64.Vec3{}, false
		}
		resultMagnitude = math.Max(resultMagnitude, candidate)
	}

	if resultMagnitude <= 0 || math.IsInf(resultMagnitude, 0) {
		return mgl64.Vec3{}, false
	}
	return scaledDirection.Mul(resultMagnitude), true
}

func computeMagnitude(scaledPosition, scaledDirection mgl64.Vec3) float64 {
	magnitudeSquared := scaledPosition.LenSqr()
	magnitude := math.Sqrt(magnitudeSquared)
	direction := scaledPosition.Mul(1 / magnitude)

	// Clamp to the surface so points below it behave like surface points.
	magnitudeSquared = math.Max(1, magnitudeSquared)
	magnitude = math.Max(1, magnitude)

	cosAlpha := direction.Dot(scaledDirection)
	sinAlpha := direction.Cross(scaledDirection).Len()
	cosBeta := 1 / magnitude
	sinBeta := math.Sqrt(magnitudeSquared-1) * cosBeta

	return 1 / (cosAlpha*cosBeta - sinAlpha*sinBeta)
}
