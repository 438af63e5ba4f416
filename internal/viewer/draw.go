package viewer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/mathutil"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

// Segments per tile edge when outlining a tile.
const edgeSegments = 4

var (
	colorBackground = color.RGBA{8, 10, 24, 255}
	colorWater      = color.RGBA{30, 80, 160, 160}
	colorOutline    = color.RGBA{220, 220, 220, 200}
	colorPick       = color.RGBA{255, 80, 40, 255}
	colorHUD        = color.RGBA{230, 230, 230, 255}

	whiteImage    = ebiten.NewImage(3, 3)
	whiteSubImage = whiteImage.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
)

func init() {
	whiteImage.Fill(color.White)
}

// Draw paints the tiles of the latest frame and the HUD.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)

	if v.frame != nil {
		for _, cmd := range v.commands {
			v.drawTile(screen, cmd)
		}
		if v.pick.valid {
			v.drawPick(screen)
		}
	}

	v.drawHUD(screen)
}

func (v *Viewer) drawTile(screen *ebiten.Image, cmd scene.DrawCommand) {
	outline := v.tileOutline(cmd)

	var path vector.Path
	visible := true
	for i, p := range outline {
		if !p.ok {
			visible = false
			break
		}
		if i == 0 {
			path.MoveTo(p.x, p.y)
		} else {
			path.LineTo(p.x, p.y)
		}
	}
	if visible {
		path.Close()
		fill := levelColor(cmd.Level)
		if cmd.ShowWater {
			fill = colorWater
		}
		fillPath(screen, &path, fill)
	}

	for i := range outline {
		a, b := outline[i], outline[(i+1)%len(outline)]
		if a.ok && b.ok {
			vector.StrokeLine(screen, a.x, a.y, b.x, b.y, 1, colorOutline, false)
		}
	}
}

func (v *Viewer) drawPick(screen *ebiten.Image) {
	var world mgl64.Vec3
	if v.mode == geo.Scene3D {
		world = v.globe.Ellipsoid().CartographicToCartesian(v.pick.position)
	} else {
		world = geo.ToSceneCoordinates(v.projection.Project(v.pick.position))
	}
	if x, y, ok := projectToScreen(v.frame.Camera, world, v.width, v.height); ok {
		vector.DrawFilledCircle(screen, x, y, 4, colorPick, true)
	}
}

func (v *Viewer) drawHUD(screen *ebiten.Image) {
	stats := v.globe.Surface().Statistics()
	snapshot := v.monitor.Snapshot()
	camera := v.camera.Position()

	lines := []string{
		fmt.Sprintf("FPS %.1f  mode %s  frozen %t", ebiten.ActualFPS(), v.mode, v.frozen),
		fmt.Sprintf("camera %.3f, %.3f  height %.0f m",
			mathutil.ToDegrees(camera.Longitude), mathutil.ToDegrees(camera.Latitude), camera.Height),
		fmt.Sprintf("tiles rendered %d  visited %d  culled %d  resident %d  depth %d",
			stats.TilesRendered, stats.TilesVisited, stats.TilesCulled, stats.TilesResident, stats.MaxDepth),
		fmt.Sprintf("load queue %d/%d/%d  loaded %t",
			stats.QueueHigh, stats.QueueMedium, stats.QueueLow, stats.AllTilesLoaded),
		fmt.Sprintf("frames %d  avg %s  mem %d MB",
			snapshot.FrameCount, snapshot.AverageFrameTime, snapshot.MemoryUsageMB),
	}
	if v.pick.valid {
		line := fmt.Sprintf("pick %.4f, %.4f",
			mathutil.ToDegrees(v.pick.position.Longitude), mathutil.ToDegrees(v.pick.position.Latitude))
		if v.pick.hasHeight {
			line += fmt.Sprintf("  height %.1f m", v.pick.height)
		}
		lines = append(lines, line)
	}

	face := basicfont.Face7x13
	for i, line := range lines {
		ebitext.Draw(screen, line, face, 8, 8+face.Ascent+i*(face.Height+2), colorHUD)
	}
}

type screenPoint struct {
	x, y float32
	ok   bool
}

// tileOutline samples the tile rectangle border at its mid height and
// projects it to the screen.
func (v *Viewer) tileOutline(cmd scene.DrawCommand) []screenPoint {
	r := cmd.Rectangle
	height := (cmd.MinimumHeight + cmd.MaximumHeight) * 0.5

	corners := [...]geo.Cartographic{
		{Longitude: r.West, Latitude: r.South, Height: height},
		{Longitude: r.East, Latitude: r.South, Height: height},
		{Longitude: r.East, Latitude: r.North, Height: height},
		{Longitude: r.West, Latitude: r.North, Height: height},
	}

	points := make([]screenPoint, 0, len(corners)*edgeSegments)
	for i := range corners {
		a, b := corners[i], corners[(i+1)%len(corners)]
		for s := 0; s < edgeSegments; s++ {
			t := float64(s) / edgeSegments
			c := geo.Cartographic{
				Longitude: a.Longitude + (b.Longitude-a.Longitude)*t,
				Latitude:  a.Latitude + (b.Latitude-a.Latitude)*t,
				Height:    height,
			}

			var world mgl64.Vec3
			if v.mode == geo.Scene3D {
				world = v.globe.Ellipsoid().CartographicToCartesian(c)
			} else {
				world = geo.ToSceneCoordinates(v.projection.Project(c))
			}

			x, y, ok := projectToScreen(v.frame.Camera, world, v.width, v.height)
			points = append(points, screenPoint{x: x, y: y, ok: ok})
		}
	}
	return points
}

// projectToScreen is the inverse of Camera.PickRay. It reports false for
// points outside the near and far planes.
func projectToScreen(camera scene.Camera, p mgl64.Vec3, width, height int) (float32, float32, bool) {
	if width <= 0 || height <= 0 {
		return 0, 0, false
	}

	relative := p.Sub(camera.Position)
	depth := relative.Dot(camera.Direction)
	if depth < camera.Near || depth > camera.Far {
		return 0, 0, false
	}

	aspect := float64(width) / float64(height)
	right := camera.Right()

	var ndcX, ndcY float64
	if camera.IsOrthographic() {
		halfWidth := camera.OrthographicWidth * 0.5
		ndcX = relative.Dot(right) / halfWidth
		ndcY = relative.Dot(camera.Up) / (halfWidth / aspect)
	} else {
		tanY := math.Tan(camera.FovY * 0.5)
		ndcX = relative.Dot(right) / (depth * tanY * aspect)
		ndcY = relative.Dot(camera.Up) / (depth * tanY)
	}

	x := (ndcX + 1) * 0.5 * float64(width)
	y := (1 - ndcY) * 0.5 * float64(height)
	return float32(x), float32(y), true
}

// levelColor spreads quadtree levels over the hue circle.
func levelColor(level int) color.RGBA {
	hue := math.Mod(float64(level)*47, 360) / 60
	x := uint8(255 * (1 - math.Abs(math.Mod(hue, 2)-1)))

	var r, g, b uint8
	switch int(hue) {
	case 0:
		r, g = 255, x
	case 1:
		r, g = x, 255
	case 2:
		g, b = 255, x
	case 3:
		g, b = x, 255
	case 4:
		r, b = x, 255
	default:
		r, b = 255, x
	}
	return color.RGBA{r / 2, g / 2, b / 2, 140}
}

func fillPath(screen *ebiten.Image, path *vector.Path, clr color.RGBA) {
	vs, is := path.AppendVerticesAndIndicesForFilling(nil, nil)
	for i := range vs {
		vs[i].SrcX = 1
		vs[i].SrcY = 1
		vs[i].ColorR = float32(clr.R) / 255
		vs[i].ColorG = float32(clr.G) / 255
		vs[i].ColorB = float32(clr.B) / 255
		vs[i].ColorA = float32(clr.A) / 255
	}

	screen.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{})
}
