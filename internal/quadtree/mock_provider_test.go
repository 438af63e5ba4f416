package quadtree

import (
	"math"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
)

// mockTileProvider decides visibility from a view rectangle and loads tiles
// synchronously unless async is set.
type mockTileProvider struct {
	ready        bool
	tilingScheme *terrain.TilingScheme
	view         geo.Rectangle
	async        bool

	geometricError func(level int) float64
	distance       func(n *Node) float64
	data           func(n *Node) *terrain.TileData
	canRefine      func(n *Node) bool

	tree        *Tree
	initialized int
	loads       []NodeID
	freed       []NodeID
	shown       []NodeID
	rendered    int
}

func newMockTileProvider(ts *terrain.TilingScheme) *mockTileProvider {
	return &mockTileProvider{
		ready:        true,
		tilingScheme: ts,
		view:         geo.MaxRectangle,
		geometricError: func(level int) float64 {
			return 100 / math.Pow(2, float64(level))
		},
		distance: func(n *Node) float64 { return 10 },
		data: func(n *Node) *terrain.TileData {
			return &terrain.TileData{}
		},
		canRefine: func(n *Node) bool { return true },
	}
}

func (m *mockTileProvider) Ready() bool                         { return m.ready }
func (m *mockTileProvider) TilingScheme() *terrain.TilingScheme { return m.tilingScheme }

func (m *mockTileProvider) LevelMaximumGeometricError(level int) float64 {
	return m.geometricError(level)
}

func (m *mockTileProvider) Initialize(frame *scene.FrameState) {
	m.initialized++
}

func (m *mockTileProvider) LoadTile(frame *scene.FrameState, tree *Tree, node *Node) {
	if node.State != LoadStart {
		return
	}
	m.tree = tree
	m.loads = append(m.loads, node.ID)
	if m.async {
		node.MarkLoading()
		return
	}
	node.Loaded(m.data(node))
}

// LoadsInFlight counts loading nodes. Tests finish async loads by calling
// Loaded on the node.
func (m *mockTileProvider) LoadsInFlight() int {
	if m.tree == nil {
		return 0
	}
	n := 0
	m.tree.ForEach(func(node *Node) {
		if node.State == LoadLoading {
			n++
		}
	})
	return n
}

func (m *mockTileProvider) ComputeTileVisibility(frame *scene.FrameState, tree *Tree, node *Node) Visibility {
	if node.Rectangle.Intersects(m.view) {
		return VisibilityPartial
	}
	return VisibilityNone
}

func (m *mockTileProvider) ComputeDistanceToTile(frame *scene.FrameState, tree *Tree, node *Node) float64 {
	return m.distance(node)
}

func (m *mockTileProvider) CanRefine(node *Node) bool { return m.canRefine(node) }

func (m *mockTileProvider) BeginUpdate(frame *scene.FrameState) {
	m.shown = m.shown[:0]
}

func (m *mockTileProvider) ShowTileThisFrame(frame *scene.FrameState, node *Node) {
	m.shown = append(m.shown, node.ID)
}

func (m *mockTileProvider) EndUpdate(frame *scene.FrameState) {}

func (m *mockTileProvider) Render(frame *scene.FrameState) {
	m.rendered++
}

func (m *mockTileProvider) FreeTile(node *Node) {
	m.freed = append(m.freed, node.ID)
}

// testFrame has a screen space error of 10 × geometric error at distance 10.
func testFrame() *scene.FrameState {
	return &scene.FrameState{
		Mode:           geo.Scene3D,
		Camera:         scene.Camera{FovY: 2 * math.Atan(0.5), Near: 1, Far: 1e12},
		ViewportWidth:  100,
		ViewportHeight: 100,
		Passes:         scene.Passes{Render: true},
	}
}

func testOptions() FrameOptions {
	opts := DefaultFrameOptions()
	opts.MaximumScreenSpaceError = 300
	return opts
}

func runFrame(s *Surface, frame *scene.FrameState, opts FrameOptions) {
	frame.FrameNumber++
	s.BeginFrame(frame, opts)
	s.Update(frame)
	s.Render(frame)
	s.EndFrame(frame)
}

// flatData builds tile data whose height is constant, so height queries
// reveal which tile answered.
func flatData(n *Node, ellipsoid *geo.Ellipsoid, height float64) *terrain.TileData {
	heightmap := terrain.SampleHeightmap(n.Rectangle, 5, func(lon, lat float64) float64 {
		return height
	}, false)
	data, err := heightmap.CreateTileData(ellipsoid, n.Rectangle)
	if err != nil {
		panic(err)
	}
	return data
}
