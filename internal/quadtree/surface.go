package quadtree

import (
	"math"
	"sort"

	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/aukilabs/go-tooling/pkg/logs"
)

// FrameOptions are the tunables applied by one frame.
type FrameOptions struct {
	// MaximumScreenSpaceError is the largest error in pixels a tile may
	// have before it is refined.
	MaximumScreenSpaceError float64

	// TileCacheSize is the number of loaded tiles kept beyond those used
	// by the current frame.
	TileCacheSize int

	// LoadingBudget caps the loads started per frame, zero means no cap.
	LoadingBudget int

	// MaximumConcurrentLoads caps loads in flight, zero means no cap.
	MaximumConcurrentLoads int
}

// DefaultFrameOptions returns the options used when none are configured.
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{
		MaximumScreenSpaceError: 2,
		TileCacheSize:           100,
		LoadingBudget:           0,
		MaximumConcurrentLoads:  0,
	}
}

// Surface selects the tiles to render each frame, drives their loading
// through a TileProvider and evicts unused tile data.
type Surface struct {
	provider TileProvider
	tree     *Tree
	options  FrameOptions

	frameNumber   uint64
	selectedFrame bool
	tilesToRender []NodeID
	loadQueueHigh []NodeID
	loadQueueMed  []NodeID
	loadQueueLow  []NodeID
	stats         Statistics
	debugFrozen   bool
	destroyed     bool
}

// NewSurface creates a surface over provider. Level-zero nodes are created
// on the first frame the provider is ready.
func NewSurface(provider TileProvider) *Surface {
	return &Surface{
		provider: provider,
		options:  DefaultFrameOptions(),
	}
}

func (s *Surface) Provider() TileProvider { return s.provider }

// Tree returns the node arena, nil before the provider became ready.
func (s *Surface) Tree() *Tree { return s.tree }

// TilesToRender returns the nodes selected by the latest traversal.
func (s *Surface) TilesToRender() []NodeID { return s.tilesToRender }

// Statistics returns a snapshot of the latest frame.
func (s *Surface) Statistics() Statistics { return s.stats }

// SetFrozen stops selection so the current tile set can be inspected.
func (s *Surface) SetFrozen(frozen bool) { s.debugFrozen = frozen }

// TilesLoaded reports whether the provider is ready and no load is queued.
func (s *Surface) TilesLoaded() bool {
	return s.provider.Ready() &&
		len(s.loadQueueHigh) == 0 &&
		len(s.loadQueueMed) == 0 &&
		len(s.loadQueueLow) == 0
}

// BeginFrame initializes the provider and, for frames with a render pass,
// selects the tiles to render.
func (s *Surface) BeginFrame(frame *scene.FrameState, opts FrameOptions) {
	if s.destroyed {
		return
	}
	s.options = opts
	s.selectedFrame = false
	s.provider.Initialize(frame)

	if !frame.Passes.Render || s.debugFrozen {
		return
	}

	s.frameNumber++
	s.selectedFrame = true
	s.loadQueueHigh = s.loadQueueHigh[:0]
	s.loadQueueMed = s.loadQueueMed[:0]
	s.loadQueueLow = s.loadQueueLow[:0]
	s.selectTilesForRendering(frame)
}

// Update shows every selected tile through the provider.
func (s *Surface) Update(frame *scene.FrameState) {
	if s.destroyed || s.tree == nil {
		return
	}
	s.provider.BeginUpdate(frame)
	for _, id := range s.tilesToRender {
		s.provider.ShowTileThisFrame(frame, s.tree.Node(id))
	}
	s.provider.EndUpdate(frame)
}

// Render asks the provider to emit draw commands.
func (s *Surface) Render(frame *scene.FrameState) {
	if s.destroyed {
		return
	}
	s.provider.Render(frame)
}

// EndFrame starts queued loads and evicts unused tile data.
func (s *Surface) EndFrame(frame *scene.FrameState) {
	if s.destroyed || !s.selectedFrame || s.tree == nil {
		return
	}

	s.processTileLoadQueue(frame)
	s.trimTiles()
	s.updateStatistics()
}

// InvalidateAllTiles marks every loaded tile stale after a provider change.
// Tiles keep rendering their old data until the reload completes. When the
// tiling scheme itself changed the tree is rebuilt.
func (s *Surface) InvalidateAllTiles() {
	if s.tree == nil {
		return
	}

	if !s.tree.TilingScheme().Equal(s.provider.TilingScheme()) {
		s.freeAll()
		s.tree = nil
		s.tilesToRender = s.tilesToRender[:0]
		return
	}

	s.tree.ForEach(func(n *Node) {
		n.invalidate()
	})
}

// Destroy frees all tile data. The surface does nothing afterwards.
func (s *Surface) Destroy() {
	if s.destroyed {
		return
	}
	s.freeAll()
	s.tree = nil
	s.tilesToRender = nil
	s.destroyed = true
}

func (s *Surface) freeAll() {
	if s.tree == nil {
		return
	}
	s.tree.ForEach(func(n *Node) {
		if n.Data != nil {
			s.provider.FreeTile(n)
			n.unload()
		}
	})
}

func (s *Surface) selectTilesForRendering(frame *scene.FrameState) {
	s.tilesToRender = s.tilesToRender[:0]
	s.stats = Statistics{FrameNumber: s.frameNumber}

	if s.tree == nil {
		if !s.provider.Ready() {
			return
		}
		s.tree = NewTree(s.provider.TilingScheme())
		logs.WithTag("tiles", len(s.tree.LevelZero())).Debug("created level zero tiles")
	}

	roots := append([]NodeID(nil), s.tree.LevelZero()...)
	s.sortNearToFar(frame, roots)
	for _, id := range roots {
		s.visitTile(frame, id)
	}

	s.stats.QueueHigh = len(s.loadQueueHigh)
	s.stats.QueueMedium = len(s.loadQueueMed)
	s.stats.QueueLow = len(s.loadQueueLow)
}

func (s *Surface) visitTile(frame *scene.FrameState, id NodeID) {
	node := s.tree.Node(id)
	s.stats.TilesVisited++
	node.LastSelectionResultFrame = s.frameNumber

	if s.provider.ComputeTileVisibility(frame, s.tree, node) == VisibilityNone {
		node.LastSelectionResult = SelectionCulled
		s.stats.TilesCulled++
		return
	}

	node.lastVisitedFrame = s.frameNumber
	node.Distance = s.provider.ComputeDistanceToTile(frame, s.tree, node)
	if node.Level > s.stats.MaxDepth {
		s.stats.MaxDepth = node.Level
	}

	if !node.Renderable {
		// Nothing to draw yet, but the slot is resolved so the parent's
		// refinement stays consistent.
		node.LastSelectionResult = SelectionRendered
		s.loadQueueHigh = append(s.loadQueueHigh, id)
		return
	}

	if node.NeedsLoading() {
		s.loadQueueLow = append(s.loadQueueLow, id)
	}

	if s.screenSpaceError(frame, node) <= s.options.MaximumScreenSpaceError || !s.provider.CanRefine(node) {
		s.addTileToRenderList(node)
		return
	}

	children := s.tree.Subdivide(id)

	allRenderable := true
	for _, childID := range children {
		child := s.tree.Node(childID)
		if s.provider.ComputeTileVisibility(frame, s.tree, child) == VisibilityNone {
			continue
		}
		if child.Renderable {
			continue
		}
		allRenderable = false
		if child.State != LoadFailed {
			child.Distance = s.provider.ComputeDistanceToTile(frame, s.tree, child)
			s.loadQueueMed = append(s.loadQueueMed, childID)
		}
	}

	node = s.tree.Node(id)
	if !allRenderable {
		s.addTileToRenderList(node)
		return
	}

	node.LastSelectionResult = SelectionRefined
	ordered := children[:]
	s.sortNearToFar(frame, ordered)
	for _, childID := range ordered {
		s.visitTile(frame, childID)
	}
}

func (s *Surface) addTileToRenderList(node *Node) {
	node.LastSelectionResult = SelectionRendered
	s.tilesToRender = append(s.tilesToRender, node.ID)
	s.stats.TilesRendered++
}

func (s *Surface) screenSpaceError(frame *scene.FrameState, node *Node) float64 {
	maxGeometricError := s.provider.LevelMaximumGeometricError(node.Level)

	if frame.Mode == geo.Scene2D || frame.Camera.IsOrthographic() {
		pixelSize := frame.MetersPerPixel()
		if pixelSize <= 0 {
			return math.Inf(1)
		}
		return maxGeometricError / pixelSize
	}

	distance := node.Distance
	denominator := distance * frame.Camera.SSEDenominator()
	if denominator <= 0 {
		return math.Inf(1)
	}
	return maxGeometricError * float64(frame.ViewportHeight) / denominator
}

// sortNearToFar orders ids by provider distance, visible tiles first.
func (s *Surface) sortNearToFar(frame *scene.FrameState, ids []NodeID) {
	distances := make(map[NodeID]float64, len(ids))
	for _, id := range ids {
		distances[id] = s.provider.ComputeDistanceToTile(frame, s.tree, s.tree.Node(id))
	}
	sort.SliceStable(ids, func(i, j int) bool {
		return distances[ids[i]] < distances[ids[j]]
	})
}

func (s *Surface) processTileLoadQueue(frame *scene.FrameState) {
	started := 0
	for _, queue := range [][]NodeID{s.loadQueueHigh, s.loadQueueMed, s.loadQueueLow} {
		s.sortByPriority(queue)

		for _, id := range queue {
			if s.options.LoadingBudget > 0 && started >= s.options.LoadingBudget {
				s.stats.LoadsStarted = started
				return
			}
			// Loads dropped by InvalidateAllTiles still occupy the executor,
			// so the provider count is used rather than node states.
			if s.options.MaximumConcurrentLoads > 0 && s.provider.LoadsInFlight() >= s.options.MaximumConcurrentLoads {
				s.stats.LoadsStarted = started
				return
			}

			node := s.tree.Node(id)
			node.lastVisitedFrame = s.frameNumber
			before := node.State
			s.provider.LoadTile(frame, s.tree, node)

			if before == LoadStart && s.tree.Node(id).State != LoadStart {
				started++
			}
		}
	}
	s.stats.LoadsStarted = started
}

func (s *Surface) sortByPriority(queue []NodeID) {
	sort.SliceStable(queue, func(i, j int) bool {
		return s.tree.Node(queue[i]).Distance < s.tree.Node(queue[j]).Distance
	})
}

// trimTiles evicts least recently visited tile data until at most
// TileCacheSize nodes hold data. Nodes visited this frame, level-zero nodes
// and nodes with a load in flight are kept.
func (s *Surface) trimTiles() {
	loaded := 0
	var candidates []NodeID
	s.tree.ForEach(func(n *Node) {
		if n.Data == nil {
			return
		}
		loaded++
		if n.lastVisitedFrame == s.frameNumber || n.Level == 0 || n.State == LoadLoading {
			return
		}
		candidates = append(candidates, n.ID)
	})

	limit := max(s.options.TileCacheSize, 0)
	if loaded <= limit {
		return
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := s.tree.Node(candidates[i]), s.tree.Node(candidates[j])
		if a.lastVisitedFrame != b.lastVisitedFrame {
			return a.lastVisitedFrame < b.lastVisitedFrame
		}
		return a.Level > b.Level
	})

	for _, id := range candidates {
		if loaded <= limit {
			break
		}
		node := s.tree.Node(id)
		s.provider.FreeTile(node)
		node.unload()
		loaded--
		s.stats.TilesEvicted++
	}
}

func (s *Surface) updateStatistics() {
	resident := 0
	s.tree.ForEach(func(n *Node) {
		if n.Data != nil {
			resident++
		}
	})
	s.stats.TilesResident = resident
	s.stats.AllTilesLoaded = s.TilesLoaded()
}
