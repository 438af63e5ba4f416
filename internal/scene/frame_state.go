// Package scene carries the per-frame state shared between the globe, the
// quadtree surface and the tile provider.
package scene

import (
	"image"

	"github.com/MapColonies/cesium-standalone/internal/geo"
)

// Passes selects what a frame produces.
type Passes struct {
	Render bool
	Pick   bool
}

// Texture is a GPU-side resource owned by whoever created it.
type Texture interface {
	Destroy()
}

// Context creates textures on the rendering thread.
type Context interface {
	CreateTexture(img image.Image) (Texture, error)
}

// FrameState is the read-only view of one frame handed to every phase.
type FrameState struct {
	FrameNumber    uint64
	Mode           geo.SceneMode
	Projection     geo.MapProjection
	Camera         Camera
	ViewportWidth  int
	ViewportHeight int
	Passes         Passes
	Context        Context

	CommandList []DrawCommand
}

// AspectRatio returns width / height of the viewport, 1 when unknown.
func (f *FrameState) AspectRatio() float64 {
	if f.ViewportWidth <= 0 || f.ViewportHeight <= 0 {
		return 1
	}
	return float64(f.ViewportWidth) / float64(f.ViewportHeight)
}

// MetersPerPixel returns the ground size of one pixel for an orthographic
// camera.
func (f *FrameState) MetersPerPixel() float64 {
	width := f.Camera.OrthographicWidth
	height := width / f.AspectRatio()
	pixels := f.ViewportWidth
	if f.ViewportHeight > pixels {
		pixels = f.ViewportHeight
	}
	if pixels <= 0 {
		pixels = 1
	}
	return max(width, height) / float64(pixels)
}
