// Package globe coordinates the per-frame lifecycle of a terrain surface:
// it owns the quadtree surface, the shader set and the ocean normal map, and
// forwards globe-wide parameters to the tile provider.
package globe

import (
	"context"
	"image"
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/monitoring"
	"github.com/MapColonies/cesium-standalone/internal/quadtree"
	"github.com/MapColonies/cesium-standalone/internal/resource"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
	"github.com/MapColonies/cesium-standalone/internal/threading/core"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/go-gl/mathgl/mgl64"
)

// Phase is the position of the globe in the frame cycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBeginFrame
	PhaseUpdate
	PhaseRender
	PhaseEndFrame
)

func (p Phase) String() string {
	switch p {
	case PhaseBeginFrame:
		return "begin_frame"
	case PhaseUpdate:
		return "update"
	case PhaseRender:
		return "render"
	case PhaseEndFrame:
		return "end_frame"
	default:
		return "idle"
	}
}

// Options configure a new Globe.
type Options struct {
	// The terrain provider. Defaults to a smooth ellipsoid.
	TerrainProvider terrain.Provider

	// Runs tile loads and resource fetches. Defaults to running them inline.
	Executor core.Executor

	// Resolves the ocean normal map URL. Defaults to an HTTP fetcher.
	Fetcher resource.Fetcher

	Monitor           *monitoring.Monitor
	Tunables          Tunables
	OceanNormalMapURL string
}

// Globe drives a quadtree surface through the BeginFrame, Update, Render and
// EndFrame phases of every frame. All methods must be called from the frame
// loop.
type Globe struct {
	// Show disables every phase when false.
	Show bool

	Tunables Tunables

	ellipsoid       *geo.Ellipsoid
	terrainProvider terrain.Provider
	imageryLayers   *ImageryLayerCollection
	material        Material
	shaderSet       *ShaderSet
	tileProvider    *SurfaceTileProvider
	surface         *quadtree.Surface

	oceanNormalMapURL   string
	oceanNormalMapDirty bool
	oceanNormalMap      scene.Texture

	fetcher     resource.Fetcher
	executor    core.Executor
	completions *core.CompletionQueue[*scene.FrameState]
	monitor     *monitoring.Monitor
	ctx         context.Context
	cancel      func()

	listeners  []func(terrain.Provider)
	phase      Phase
	frameTimer *monitoring.FrameTimer
	destroyed  bool
}

// New creates a globe over the ellipsoid.
func New(ellipsoid *geo.Ellipsoid, opts Options) *Globe {
	if opts.TerrainProvider == nil {
		opts.TerrainProvider = terrain.NewEllipsoidTerrainProvider(ellipsoid, 16)
	}
	if opts.Executor == nil {
		opts.Executor = core.InlineExecutor{}
	}
	if opts.Fetcher == nil {
		opts.Fetcher = resource.NewHTTPFetcher(nil)
	}

	ctx, cancel := context.WithCancel(context.Background())

	g := &Globe{
		Show:                true,
		Tunables:            opts.Tunables,
		ellipsoid:           ellipsoid,
		terrainProvider:     opts.TerrainProvider,
		imageryLayers:       NewImageryLayerCollection(),
		shaderSet:           &ShaderSet{},
		oceanNormalMapURL:   opts.OceanNormalMapURL,
		oceanNormalMapDirty: opts.OceanNormalMapURL != "",
		fetcher:             opts.Fetcher,
		executor:            opts.Executor,
		completions:         core.NewCompletionQueue[*scene.FrameState](),
		monitor:             opts.Monitor,
		ctx:                 ctx,
		cancel:              cancel,
	}

	g.tileProvider = newSurfaceTileProvider(ctx,
		g.terrainProvider,
		g.imageryLayers,
		g.executor,
		g.completions,
		g.monitor,
	)
	g.surface = quadtree.NewSurface(g.tileProvider)
	g.tileProvider.surface = g.surface
	g.shaderSet.Regenerate(nil, g.terrainProvider)
	return g
}

func (g *Globe) Ellipsoid() *geo.Ellipsoid {
	g.checkNotDestroyed()
	return g.ellipsoid
}

func (g *Globe) ImageryLayers() *ImageryLayerCollection {
	g.checkNotDestroyed()
	return g.imageryLayers
}

func (g *Globe) TerrainProvider() terrain.Provider {
	g.checkNotDestroyed()
	return g.terrainProvider
}

// SetTerrainProvider swaps the terrain provider. Listeners are notified, the
// material shaders are regenerated and every tile is reloaded.
func (g *Globe) SetTerrainProvider(provider terrain.Provider) error {
	g.checkNotDestroyed()
	if provider == nil {
		return invalidArgument("provider", "nil terrain provider")
	}
	if provider == g.terrainProvider {
		return nil
	}

	g.terrainProvider = provider
	g.tileProvider.terrain = provider

	for _, l := range g.listeners {
		l(provider)
	}
	if g.material != nil {
		g.shaderSet.Regenerate(g.material, provider)
	}
	g.surface.InvalidateAllTiles()

	logs.WithTag("ready", provider.Ready()).
		WithTag("water_mask", provider.HasWaterMask()).
		Info("terrain provider changed")
	return nil
}

// OnTerrainProviderChanged registers fn to be called after every terrain
// provider swap.
func (g *Globe) OnTerrainProviderChanged(fn func(terrain.Provider)) {
	g.checkNotDestroyed()
	g.listeners = append(g.listeners, fn)
}

func (g *Globe) Material() Material {
	g.checkNotDestroyed()
	return g.material
}

// SetMaterial attaches a material, or restores default shading when nil.
func (g *Globe) SetMaterial(material Material) {
	g.checkNotDestroyed()
	g.material = material
	g.shaderSet.Regenerate(material, g.terrainProvider)
}

func (g *Globe) ShaderSet() *ShaderSet {
	g.checkNotDestroyed()
	return g.shaderSet
}

func (g *Globe) OceanNormalMapURL() string {
	g.checkNotDestroyed()
	return g.oceanNormalMapURL
}

// SetOceanNormalMapURL changes the ocean normal map resource. The new URL is
// fetched once, on the next frame that renders water.
func (g *Globe) SetOceanNormalMapURL(url string) {
	g.checkNotDestroyed()
	if url == g.oceanNormalMapURL {
		return
	}
	g.oceanNormalMapURL = url
	g.oceanNormalMapDirty = true
}

// OceanNormalMap returns the installed normal map texture, nil when none.
func (g *Globe) OceanNormalMap() scene.Texture {
	g.checkNotDestroyed()
	return g.oceanNormalMap
}

// HasWaterMask reports whether water is rendered this frame.
func (g *Globe) HasWaterMask() bool {
	g.checkNotDestroyed()
	return g.hasWaterMask()
}

func (g *Globe) hasWaterMask() bool {
	return g.Tunables.ShowWaterEffect &&
		g.terrainProvider.Ready() &&
		g.terrainProvider.HasWaterMask()
}

func (g *Globe) Surface() *quadtree.Surface {
	g.checkNotDestroyed()
	return g.surface
}

// TilesLoaded reports whether the terrain provider is ready and no tile load
// is pending.
func (g *Globe) TilesLoaded() bool {
	g.checkNotDestroyed()
	return g.surface.TilesLoaded()
}

func (g *Globe) Phase() Phase {
	return g.phase
}

// BeginFrame applies async completions, starts the ocean normal map fetch
// when needed, pushes the tunables into the tile provider and selects the
// tiles of the frame.
func (g *Globe) BeginFrame(frame *scene.FrameState) {
	g.checkNotDestroyed()
	if !g.Show {
		return
	}
	g.enterPhase(PhaseBeginFrame, PhaseIdle)
	g.frameTimer = g.monitor.StartFrame()

	g.completions.Drain(frame)

	hasWaterMask := g.hasWaterMask()
	if hasWaterMask && g.oceanNormalMapDirty {
		g.oceanNormalMapDirty = false
		g.fetchOceanNormalMap()
	}

	specular := 0.0
	if frame.Mode == geo.Scene3D {
		specular = g.Tunables.ZoomedOutOceanSpecularIntensity
	}
	g.tileProvider.params = tileParams{
		hasWaterMask:            hasWaterMask,
		oceanNormalMap:          g.oceanNormalMap,
		enableLighting:          g.Tunables.EnableLighting,
		showGroundAtmosphere:    g.Tunables.ShowGroundAtmosphere,
		shadows:                 g.Tunables.Shadows,
		lightingFadeOutDistance: g.Tunables.LightingFadeOutDistance,
		lightingFadeInDistance:  g.Tunables.LightingFadeInDistance,
		nightFadeOutDistance:    g.Tunables.NightFadeOutDistance,
		nightFadeInDistance:     g.Tunables.NightFadeInDistance,
		oceanSpecularIntensity:  specular,
		shaderVersion:           g.shaderSet.Version,
	}

	g.surface.BeginFrame(frame, g.Tunables.frameOptions())
}

// Update shows the selected tiles for the render and pick passes.
func (g *Globe) Update(frame *scene.FrameState) {
	g.checkNotDestroyed()
	if !g.Show {
		return
	}
	g.enterPhase(PhaseUpdate, PhaseBeginFrame)

	if frame.Passes.Render || frame.Passes.Pick {
		g.surface.Update(frame)
	}
}

// Render appends the draw commands of the frame to frame.CommandList.
func (g *Globe) Render(frame *scene.FrameState) {
	g.checkNotDestroyed()
	if !g.Show {
		return
	}
	g.enterPhase(PhaseRender, PhaseUpdate)
	g.surface.Render(frame)
}

// EndFrame starts queued tile loads, evicts unused tiles and records the
// frame metrics.
func (g *Globe) EndFrame(frame *scene.FrameState) {
	g.checkNotDestroyed()
	if !g.Show {
		return
	}
	g.enterPhase(PhaseEndFrame, PhaseRender)

	g.surface.EndFrame(frame)
	if frame.Passes.Render {
		g.monitor.ObserveSurface(g.surface.Statistics())
	}
	g.frameTimer.EndFrame()
	g.frameTimer = nil
	g.phase = PhaseIdle
}

// Pick returns the nearest intersection of the ray with the surface rendered
// by the latest frame. The ray is in the coordinates of frame.Mode.
func (g *Globe) Pick(ray *geo.Ray, frame *scene.FrameState) (mgl64.Vec3, bool, error) {
	g.checkNotDestroyed()
	if ray == nil {
		return mgl64.Vec3{}, false, invalidArgument("ray", "nil ray")
	}
	if frame == nil {
		return mgl64.Vec3{}, false, invalidArgument("frame", "nil frame state")
	}
	if !isFinite(ray.Origin) || !isFinite(ray.Direction) || ray.Direction.LenSqr() == 0 {
		return mgl64.Vec3{}, false, invalidArgument("ray", "ray must be finite with a direction")
	}

	p, ok := g.surface.Pick(*ray, frame.Mode, frame.Projection, true)
	return p, ok, nil
}

// GetHeight returns the height of the rendered surface at c. Longitude and
// latitude are used, the height of c is ignored.
func (g *Globe) GetHeight(c *geo.Cartographic) (float64, bool, error) {
	g.checkNotDestroyed()
	if c == nil {
		return 0, false, invalidArgument("cartographic", "nil cartographic")
	}
	if math.IsNaN(c.Longitude) || math.IsNaN(c.Latitude) ||
		math.IsInf(c.Longitude, 0) || math.IsInf(c.Latitude, 0) {
		return 0, false, invalidArgument("cartographic", "longitude and latitude must be finite")
	}

	minimumHeight := g.Tunables.MinimumTerrainHeight
	if r, ok := g.terrainProvider.(terrain.MinimumHeightReporter); ok {
		minimumHeight = r.MinimumHeight()
	}

	h, ok := g.surface.Height(*c, minimumHeight)
	return h, ok, nil
}

// Destroy releases the surface, the shader set and the ocean normal map.
// Terrain and imagery providers are left to their owner. Any later call
// panics.
func (g *Globe) Destroy() {
	g.checkNotDestroyed()

	g.cancel()
	g.surface.Destroy()
	g.shaderSet.Destroy()
	if g.oceanNormalMap != nil {
		g.oceanNormalMap.Destroy()
		g.oceanNormalMap = nil
	}
	g.listeners = nil
	g.destroyed = true
}

// IsDestroyed reports whether Destroy was called.
func (g *Globe) IsDestroyed() bool {
	return g.destroyed
}

func (g *Globe) fetchOceanNormalMap() {
	url := g.oceanNormalMapURL
	if url == "" {
		if g.oceanNormalMap != nil {
			g.oceanNormalMap.Destroy()
			g.oceanNormalMap = nil
		}
		return
	}

	logs.WithTag("url", url).Debug("fetching ocean normal map")

	fetcher := g.fetcher
	ctx := g.ctx
	g.executor.Submit(func() {
		img, err := fetcher.Fetch(ctx, url)
		g.completions.Push(func(frame *scene.FrameState) {
			g.installOceanNormalMap(frame, url, img, err)
		})
	})
}

func (g *Globe) installOceanNormalMap(frame *scene.FrameState, url string, img image.Image, err error) {
	if url != g.oceanNormalMapURL {
		logs.WithTag("url", url).
			WithTag("current_url", g.oceanNormalMapURL).
			Debug("discarding stale ocean normal map")
		g.monitor.NormalMapFetch(monitoring.FetchStale)
		return
	}

	if err == nil && frame.Context == nil {
		err = errors.New("no rendering context")
	}
	var texture scene.Texture
	if err == nil {
		texture, err = frame.Context.CreateTexture(img)
	}
	if err != nil {
		logs.Warn(errors.New("loading ocean normal map failed").
			WithType(resource.ErrTypeFetchFailed).
			WithTag("url", url).
			Wrap(err))
		g.monitor.NormalMapFetch(monitoring.FetchFailed)
		return
	}

	if g.oceanNormalMap != nil {
		g.oceanNormalMap.Destroy()
	}
	g.oceanNormalMap = texture
	g.monitor.NormalMapFetch(monitoring.FetchInstalled)
	logs.WithTag("url", url).Info("ocean normal map installed")
}

func (g *Globe) enterPhase(next, expected Phase) {
	if g.phase != expected {
		logs.WithTag("phase", g.phase.String()).
			WithTag("next", next.String()).
			Debug("frame phase out of order")
	}
	g.phase = next
}

func (g *Globe) checkNotDestroyed() {
	if g.destroyed {
		panic(errors.New("globe used after destroy").WithType(ErrTypeDestroyed))
	}
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
