package quadtree

import (
	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
)

// Visibility is the coarse outcome of a tile visibility test.
type Visibility int

const (
	VisibilityNone Visibility = iota
	VisibilityPartial
	VisibilityFull
)

// TileProvider loads, tests and draws the tiles selected by a Surface.
// Every method runs on the frame loop.
type TileProvider interface {
	Ready() bool
	TilingScheme() *terrain.TilingScheme
	LevelMaximumGeometricError(level int) float64

	// Initialize prepares per-frame state such as the culling volume.
	Initialize(frame *scene.FrameState)

	// LoadTile advances the node's load state. It may finish synchronously
	// or mark the node loading and finish on a later frame.
	LoadTile(frame *scene.FrameState, tree *Tree, node *Node)

	// LoadsInFlight is the number of loads started by LoadTile whose
	// results have not been applied or dropped yet.
	LoadsInFlight() int

	ComputeTileVisibility(frame *scene.FrameState, tree *Tree, node *Node) Visibility
	ComputeDistanceToTile(frame *scene.FrameState, tree *Tree, node *Node) float64
	CanRefine(node *Node) bool

	BeginUpdate(frame *scene.FrameState)
	ShowTileThisFrame(frame *scene.FrameState, node *Node)
	EndUpdate(frame *scene.FrameState)
	Render(frame *scene.FrameState)

	// FreeTile releases the node's data before eviction or teardown.
	FreeTile(node *Node)
}
