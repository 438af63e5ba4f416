package globe

import (
	"context"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/monitoring"
	"github.com/MapColonies/cesium-standalone/internal/quadtree"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
	"github.com/MapColonies/cesium-standalone/internal/threading/core"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// Tiles deeper than this are never refined, whatever the provider reports.
const maximumTileLevel = 30

// tileParams are the globe derived parameters pushed into the tile provider
// at the start of every frame.
type tileParams struct {
	hasWaterMask            bool
	oceanNormalMap          scene.Texture
	enableLighting          bool
	showGroundAtmosphere    bool
	shadows                 ShadowMode
	lightingFadeOutDistance float64
	lightingFadeInDistance  float64
	nightFadeOutDistance    float64
	nightFadeInDistance     float64
	oceanSpecularIntensity  float64
	shaderVersion           int
}

// SurfaceTileProvider loads terrain tiles through a terrain provider on an
// executor and turns the selected tiles into draw commands.
type SurfaceTileProvider struct {
	terrain     terrain.Provider
	imagery     *ImageryLayerCollection
	surface     *quadtree.Surface
	executor    core.Executor
	completions *core.CompletionQueue[*scene.FrameState]
	monitor     *monitoring.Monitor
	ctx         context.Context

	// Loads submitted to the executor whose completion has not run yet.
	inFlight int

	params tileParams

	mode          geo.SceneMode
	projection    geo.MapProjection
	cameraHeight  float64
	cullingVolume *geo.CullingVolume
	occluder      *geo.EllipsoidalOccluder
	commands      []scene.DrawCommand
}

func newSurfaceTileProvider(
	ctx context.Context,
	provider terrain.Provider,
	imagery *ImageryLayerCollection,
	executor core.Executor,
	completions *core.CompletionQueue[*scene.FrameState],
	monitor *monitoring.Monitor,
) *SurfaceTileProvider {
	return &SurfaceTileProvider{
		terrain:     provider,
		imagery:     imagery,
		executor:    executor,
		completions: completions,
		monitor:     monitor,
		ctx:         ctx,
	}
}

func (p *SurfaceTileProvider) Ready() bool {
	return p.terrain.Ready()
}

func (p *SurfaceTileProvider) TilingScheme() *terrain.TilingScheme {
	return p.terrain.TilingScheme()
}

func (p *SurfaceTileProvider) LevelMaximumGeometricError(level int) float64 {
	return p.terrain.LevelMaximumGeometricError(level)
}

func (p *SurfaceTileProvider) LoadsInFlight() int {
	return p.inFlight
}

func (p *SurfaceTileProvider) Initialize(frame *scene.FrameState) {
	p.mode = frame.Mode
	p.projection = frame.Projection
	if p.projection == nil {
		p.projection = p.terrain.TilingScheme().Projection
	}
	p.cullingVolume = frame.Camera.CullingVolume(frame.AspectRatio())

	ellipsoid := p.terrain.TilingScheme().Ellipsoid
	if p.occluder == nil || !p.occluder.Ellipsoid().Equal(ellipsoid) {
		p.occluder = geo.NewEllipsoidalOccluder(ellipsoid)
	}

	if p.mode == geo.Scene3D {
		p.occluder.SetCameraPosition(frame.Camera.Position)
		if c, ok := ellipsoid.CartesianToCartographic(frame.Camera.Position); ok {
			p.cameraHeight = c.Height
		} else {
			p.cameraHeight = 0
		}
	} else {
		p.cameraHeight = frame.Camera.Position.X()
	}
}

// LoadTile requests the tile geometry on the executor. The completion is
// applied on a later BeginFrame and dropped when the node changed meanwhile.
// Dropped completions still count as in flight until they run.
func (p *SurfaceTileProvider) LoadTile(frame *scene.FrameState, tree *quadtree.Tree, node *quadtree.Node) {
	if node.State != quadtree.LoadStart || !p.terrain.Ready() {
		return
	}

	var (
		provider   = p.terrain
		ellipsoid  = tree.TilingScheme().Ellipsoid
		id         = node.ID
		generation = node.Generation
		level      = node.Level
		x          = node.X
		y          = node.Y
		rect       = node.Rectangle
	)

	node.MarkLoading()
	p.inFlight++
	p.executor.Submit(func() {
		var data *terrain.TileData
		heightmap, err := provider.RequestTileGeometry(p.ctx, x, y, level)
		if err == nil {
			data, err = heightmap.CreateTileData(ellipsoid, rect)
		}

		p.completions.Push(func(frame *scene.FrameState) {
			p.inFlight--

			if p.surface == nil || p.surface.Tree() != tree {
				p.monitor.TileLoad(monitoring.LoadStale)
				return
			}

			n := tree.Node(id)
			if n.Generation != generation || n.State != quadtree.LoadLoading {
				logs.WithTag("level", level).
					WithTag("x", x).
					WithTag("y", y).
					Debug("dropping stale tile load")
				p.monitor.TileLoad(monitoring.LoadStale)
				return
			}

			if err != nil {
				logs.Warn(errors.New("loading tile failed").
					WithType(ErrTypeTileLoadFailed).
					WithTag("level", level).
					WithTag("x", x).
					WithTag("y", y).
					Wrap(err))
				n.Failed()
				p.monitor.TileLoad(monitoring.LoadFailed)
				return
			}

			n.Loaded(data)
			p.monitor.TileLoad(monitoring.LoadLoaded)
		})
	})
}

func (p *SurfaceTileProvider) ComputeTileVisibility(frame *scene.FrameState, tree *quadtree.Tree, node *quadtree.Node) quadtree.Visibility {
	sphere := p.boundingSphere(tree, node)

	intersection := p.cullingVolume.ComputeVisibility(sphere)
	if intersection == geo.Outside {
		return quadtree.VisibilityNone
	}

	if p.mode == geo.Scene3D && node.Data != nil && node.Data.HasHorizonCullingPoint {
		if !p.occluder.IsScaledSpacePointVisible(node.Data.HorizonCullingPoint) {
			return quadtree.VisibilityNone
		}
	}

	if intersection == geo.Inside {
		return quadtree.VisibilityFull
	}
	return quadtree.VisibilityPartial
}

// ComputeDistanceToTile returns the distance from the camera to the tile
// bounding sphere, never less than the camera height above the tile.
func (p *SurfaceTileProvider) ComputeDistanceToTile(frame *scene.FrameState, tree *quadtree.Tree, node *quadtree.Node) float64 {
	distance := p.boundingSphere(tree, node).DistanceTo(frame.Camera.Position)
	_, maximumHeight := p.heightBounds(tree, node)
	return max(distance, p.cameraHeight-maximumHeight)
}

func (p *SurfaceTileProvider) CanRefine(node *quadtree.Node) bool {
	if node.Level >= maximumTileLevel {
		return false
	}
	return p.terrain.TileDataAvailable(node.X*2, node.Y*2, node.Level+1)
}

func (p *SurfaceTileProvider) BeginUpdate(frame *scene.FrameState) {
	p.commands = p.commands[:0]
}

func (p *SurfaceTileProvider) ShowTileThisFrame(frame *scene.FrameState, node *quadtree.Node) {
	if node.Data == nil {
		return
	}

	showWater := p.params.hasWaterMask && len(node.Data.WaterMask) > 0
	p.commands = append(p.commands, scene.DrawCommand{
		Level:              node.Level,
		X:                  node.X,
		Y:                  node.Y,
		Rectangle:          node.Rectangle,
		MinimumHeight:      node.Data.MinimumHeight,
		MaximumHeight:      node.Data.MaximumHeight,
		ShowWater:          showWater,
		ShowOceanNormals:   showWater && p.params.oceanNormalMap != nil,
		EnableLighting:     p.params.enableLighting,
		GroundAtmosphere:   p.params.showGroundAtmosphere,
		CastShadows:        p.params.shadows.CastShadows(),
		ReceiveShadows:     p.params.shadows.ReceiveShadows(),
		ImageryLayerCount:  p.imagery.VisibleCount(),
		ShaderVersion:      p.params.shaderVersion,
		OceanSpecularLevel: p.params.oceanSpecularIntensity,
	})
}

func (p *SurfaceTileProvider) EndUpdate(frame *scene.FrameState) {}

// Render appends one command per shown tile and requested pass.
func (p *SurfaceTileProvider) Render(frame *scene.FrameState) {
	for _, pass := range []struct {
		enabled bool
		pass    scene.Pass
	}{
		{frame.Passes.Render, scene.PassGlobe},
		{frame.Passes.Pick, scene.PassPick},
	} {
		if !pass.enabled {
			continue
		}
		for _, cmd := range p.commands {
			cmd.Pass = pass.pass
			frame.CommandList = append(frame.CommandList, cmd)
		}
	}
}

// FreeTile is called before tile data is evicted. Meshes live on the Go heap
// so there is nothing to release.
func (p *SurfaceTileProvider) FreeTile(node *quadtree.Node) {}

func (p *SurfaceTileProvider) boundingSphere(tree *quadtree.Tree, node *quadtree.Node) geo.BoundingSphere {
	minimumHeight, maximumHeight := p.heightBounds(tree, node)

	if p.mode != geo.Scene3D {
		sphere := geo.BoundingSphereFromRectangleWithHeights2D(node.Rectangle, p.projection, minimumHeight, maximumHeight)
		sphere.Center = geo.ToSceneCoordinates(sphere.Center)
		return sphere
	}

	if node.Data != nil && node.Data.Mesh != nil {
		return node.Data.Mesh.BoundingSphere3D
	}
	return geo.BoundingSphereFromRectangle3D(node.Rectangle, tree.TilingScheme().Ellipsoid, minimumHeight, maximumHeight)
}

// heightBounds returns the height range of the node, borrowed from the
// nearest loaded ancestor while the node has no data.
func (p *SurfaceTileProvider) heightBounds(tree *quadtree.Tree, node *quadtree.Node) (float64, float64) {
	for n := node; ; n = tree.Node(n.Parent) {
		if n.Data != nil {
			return n.Data.MinimumHeight, n.Data.MaximumHeight
		}
		if n.Parent == quadtree.NoNode {
			return 0, 0
		}
	}
}
