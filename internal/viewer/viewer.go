// Package viewer runs the globe inside an ebiten window. Every ebiten Update
// is one globe frame; Draw paints the draw commands of the latest frame as
// tile outlines seen through the scene camera.
package viewer

import (
	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/globe"
	"github.com/MapColonies/cesium-standalone/internal/inspect"
	"github.com/MapColonies/cesium-standalone/internal/monitoring"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Options configure a Viewer.
type Options struct {
	Globe      *globe.Globe
	Camera     *CameraController
	Mode       geo.SceneMode
	Projection geo.MapProjection
	Monitor    *monitoring.Monitor
	Inspect    *inspect.Server
	Width      int
	Height     int
}

// pickResult is the surface position under the last click.
type pickResult struct {
	valid     bool
	position  geo.Cartographic
	height    float64
	hasHeight bool
}

// Viewer implements ebiten.Game.
type Viewer struct {
	globe      *globe.Globe
	camera     *CameraController
	mode       geo.SceneMode
	projection geo.MapProjection
	monitor    *monitoring.Monitor
	inspect    *inspect.Server
	context    textureContext

	width       int
	height      int
	frameNumber uint64
	frame       *scene.FrameState
	commands    []scene.DrawCommand
	pick        pickResult
	frozen      bool
}

func New(opts Options) *Viewer {
	projection := opts.Projection
	if projection == nil {
		projection = geo.NewGeographicProjection(opts.Globe.Ellipsoid())
	}
	return &Viewer{
		globe:      opts.Globe,
		camera:     opts.Camera,
		mode:       opts.Mode,
		projection: projection,
		monitor:    opts.Monitor,
		inspect:    opts.Inspect,
		width:      opts.Width,
		height:     opts.Height,
	}
}

// Update handles input and runs one globe frame.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	v.handleInput(1 / float64(ebiten.TPS()))

	frame := v.newFrame(scene.Passes{Render: true})
	v.runFrame(frame)

	v.commands = v.commands[:0]
	for _, cmd := range frame.CommandList {
		if cmd.Pass == scene.PassGlobe {
			v.commands = append(v.commands, cmd)
		}
	}
	v.frame = frame

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		v.pickAt(float64(x), float64(y))
	}

	if v.inspect != nil {
		v.inspect.Publish(v.globe.Surface().Statistics())
	}
	return nil
}

// Layout keeps the logical screen at the window size.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.width = outsideWidth
	v.height = outsideHeight
	return outsideWidth, outsideHeight
}

func (v *Viewer) handleInput(dt float64) {
	var east, north float64
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		east--
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		east++
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		north++
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		north--
	}
	if east != 0 || north != 0 {
		v.camera.Pan(east*dt, north*dt, v.globe.Ellipsoid())
	}

	if ebiten.IsKeyPressed(ebiten.KeyQ) {
		v.camera.Zoom(1 + dt)
	}
	if ebiten.IsKeyPressed(ebiten.KeyE) {
		v.camera.Zoom(1 / (1 + dt))
	}
	if _, wheel := ebiten.Wheel(); wheel != 0 {
		v.camera.Zoom(1 - 0.1*wheel)
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		v.globe.Show = !v.globe.Show
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF) {
		v.frozen = !v.frozen
		v.globe.Surface().SetFrozen(v.frozen)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyL) {
		v.globe.Tunables.EnableLighting = !v.globe.Tunables.EnableLighting
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.mode = nextMode(v.mode)
		logs.WithTag("mode", v.mode).Info("scene mode changed")
	}
}

func nextMode(mode geo.SceneMode) geo.SceneMode {
	switch mode {
	case geo.Scene3D:
		return geo.SceneColumbusView
	case geo.SceneColumbusView:
		return geo.Scene2D
	default:
		return geo.Scene3D
	}
}

func (v *Viewer) newFrame(passes scene.Passes) *scene.FrameState {
	v.frameNumber++
	return &scene.FrameState{
		FrameNumber:    v.frameNumber,
		Mode:           v.mode,
		Projection:     v.projection,
		Camera:         v.camera.Camera(v.mode, v.globe.Ellipsoid(), v.projection),
		ViewportWidth:  v.width,
		ViewportHeight: v.height,
		Passes:         passes,
		Context:        v.context,
	}
}

func (v *Viewer) runFrame(frame *scene.FrameState) {
	v.globe.BeginFrame(frame)
	v.globe.Update(frame)
	v.globe.Render(frame)
	v.globe.EndFrame(frame)
}

// pickAt intersects the ray through a window pixel with the tiles of the
// latest frame and samples the height at the hit.
func (v *Viewer) pickAt(x, y float64) {
	v.pick = pickResult{}
	if v.frame == nil || v.width <= 0 || v.height <= 0 {
		return
	}

	ray := v.frame.Camera.PickRay(x, y, v.width, v.height)
	hit, ok, err := v.globe.Pick(&ray, v.frame)
	if err != nil {
		logs.Warn(err)
		return
	}
	if !ok {
		return
	}

	// Globe.Pick answers in ECEF whatever the scene mode.
	position, ok := v.globe.Ellipsoid().CartesianToCartographic(hit)
	if !ok {
		return
	}
	v.pick = pickResult{valid: true, position: position}

	height, ok, err := v.globe.GetHeight(&position)
	if err != nil {
		logs.Warn(err)
		return
	}
	v.pick.height = height
	v.pick.hasHeight = ok

	logs.WithTag("position", position).
		WithTag("height", height).
		Debug("picked surface")
}
