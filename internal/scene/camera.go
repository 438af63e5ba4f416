package scene

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera describes the viewpoint of a frame in world coordinates. A positive
// OrthographicWidth selects an orthographic frustum, used by the 2D mode.
type Camera struct {
	Position  mgl64.Vec3
	Direction mgl64.Vec3
	Up        mgl64.Vec3

	FovY float64 // radians
	Near float64
	Far  float64

	OrthographicWidth float64
}

// LookAt builds a perspective camera at position facing target.
func LookAt(position, target, up mgl64.Vec3, fovY, near, far float64) Camera {
	direction := target.Sub(position).Normalize()
	right := direction.Cross(up).Normalize()
	return Camera{
		Position:  position,
		Direction: direction,
		Up:        right.Cross(direction).Normalize(),
		FovY:      fovY,
		Near:      near,
		Far:       far,
	}
}

// Right returns the unit vector pointing to the right of the view direction.
func (c Camera) Right() mgl64.Vec3 {
	return c.Direction.Cross(c.Up).Normalize()
}

// IsOrthographic reports whether the camera uses an orthographic frustum.
func (c Camera) IsOrthographic() bool {
	return c.OrthographicWidth > 0
}

// SSEDenominator is 2·tan(fovy/2), the screen space error scale of a
// perspective frustum.
func (c Camera) SSEDenominator() float64 {
	return 2 * math.Tan(c.FovY*0.5)
}

// CullingVolume returns the six frustum planes for the given aspect ratio
// (width / height).
func (c Camera) CullingVolume(aspect float64) *geo.CullingVolume {
	if aspect <= 0 {
		aspect = 1
	}
	if c.IsOrthographic() {
		return c.orthographicCullingVolume(aspect)
	}

	position := c.Position
	direction := c.Direction
	up := c.Up
	right := c.Right()

	t := c.Near * math.Tan(c.FovY*0.5)
	b := -t
	r := t * aspect
	l := -r

	nearCenter := position.Add(direction.Mul(c.Near))
	farCenter := position.Add(direction.Mul(c.Far))

	planes := make([]geo.Plane, 0, 6)

	edge := nearCenter.Add(right.Mul(l)).Sub(position).Normalize()
	planes = append(planes, geo.PlaneFromPointNormal(position, edge.Cross(up)))

	edge = nearCenter.Add(right.Mul(r)).Sub(position).Normalize()
	planes = append(planes, geo.PlaneFromPointNormal(position, up.Cross(edge)))

	edge = nearCenter.Add(up.Mul(b)).Sub(position).Normalize()
	planes = append(planes, geo.PlaneFromPointNormal(position, right.Cross(edge)))

	edge = nearCenter.Add(up.Mul(t)).Sub(position).Normalize()
	planes = append(planes, geo.PlaneFromPointNormal(position, edge.Cross(right)))

	planes = append(planes,
		geo.PlaneFromPointNormal(nearCenter, direction),
		geo.PlaneFromPointNormal(farCenter, direction.Mul(-1)),
	)
	return &geo.CullingVolume{Planes: planes}
}

func (c Camera) orthographicCullingVolume(aspect float64) *geo.CullingVolume {
	position := c.Position
	right := c.Right()
	up := c.Up
	halfWidth := c.OrthographicWidth * 0.5
	halfHeight := halfWidth / aspect

	return &geo.CullingVolume{Planes: []geo.Plane{
		geo.PlaneFromPointNormal(position.Sub(right.Mul(halfWidth)), right),
		geo.PlaneFromPointNormal(position.Add(right.Mul(halfWidth)), right.Mul(-1)),
		geo.PlaneFromPointNormal(position.Sub(up.Mul(halfHeight)), up),
		geo.PlaneFromPointNormal(position.Add(up.Mul(halfHeight)), up.Mul(-1)),
		geo.PlaneFromPointNormal(position.Add(c.Direction.Mul(c.Near)), c.Direction),
		geo.PlaneFromPointNormal(position.Add(c.Direction.Mul(c.Far)), c.Direction.Mul(-1)),
	}}
}

// PickRay returns the ray through a window pixel. The origin of window
// coordinates is the top left corner.
func (c Camera) PickRay(x, y float64, width, height int) geo.Ray {
	ndcX := 2*x/float64(width) - 1
	ndcY := 1 - 2*y/float64(height)
	aspect := float64(width) / float64(height)
	right := c.Right()

	if c.IsOrthographic() {
		halfWidth := c.OrthographicWidth * 0.5
		origin := c.Position.
			Add(right.Mul(ndcX * halfWidth)).
			Add(c.Up.Mul(ndcY * halfWidth / aspect))
		return geo.Ray{Origin: origin, Direction: c.Direction}
	}

	tanY := math.Tan(c.FovY * 0.5)
	direction := c.Direction.
		Add(right.Mul(ndcX * tanY * aspect)).
		Add(c.Up.Mul(ndcY * tanY))
	return geo.NewRay(c.Position, direction)
}
