// Package quadtree selects, loads and evicts terrain tiles for each frame and
// answers pick and height queries against the selected tiles.
package quadtree

import (
	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
)

// NodeID indexes a node in its Tree.
type NodeID int32

// NoNode is the null NodeID.
const NoNode NodeID = -1

// TileSelectionResult records what the latest traversal did with a node.
type TileSelectionResult int

const (
	SelectionNone TileSelectionResult = iota
	SelectionCulled
	SelectionRendered
	SelectionRefined
)

func (r TileSelectionResult) String() string {
	switch r {
	case SelectionCulled:
		return "culled"
	case SelectionRendered:
		return "rendered"
	case SelectionRefined:
		return "refined"
	default:
		return "none"
	}
}

// LoadState tracks the tile data lifecycle of a node.
type LoadState int

const (
	LoadStart LoadState = iota
	LoadLoading
	LoadDone
	LoadFailed
)

func (s LoadState) String() string {
	switch s {
	case LoadLoading:
		return "loading"
	case LoadDone:
		return "done"
	case LoadFailed:
		return "failed"
	default:
		return "start"
	}
}

// Node is one tile of the quadtree. Children are created on first
// subdivision and live until the tree is torn down; loaded data may be
// evicted at any time the node is not in use.
type Node struct {
	ID        NodeID
	Level     int
	X         int
	Y         int
	Rectangle geo.Rectangle
	Parent    NodeID

	State      LoadState
	Renderable bool
	Data       *terrain.TileData

	// Generation changes whenever loaded data becomes stale. Loads capture
	// it and are dropped on completion when it no longer matches.
	Generation uint64

	LastSelectionResult      TileSelectionResult
	LastSelectionResultFrame uint64

	Distance float64

	children         [4]NodeID
	hasChildren      bool
	lastVisitedFrame uint64
}

// HasChildren reports whether the node has been subdivided.
func (n *Node) HasChildren() bool {
	return n.hasChildren
}

// NeedsLoading reports whether a load should be issued or is in flight.
func (n *Node) NeedsLoading() bool {
	return n.State == LoadStart || n.State == LoadLoading
}

// MarkLoading records that a load for the current generation started.
func (n *Node) MarkLoading() {
	n.State = LoadLoading
}

// Loaded installs data and makes the node renderable.
func (n *Node) Loaded(data *terrain.TileData) {
	n.Data = data
	n.Renderable = data != nil
	n.State = LoadDone
}

// Failed marks the current load as failed. Previously loaded data keeps
// rendering.
func (n *Node) Failed() {
	n.State = LoadFailed
}

func (n *Node) unload() {
	n.Data = nil
	n.Renderable = false
	n.State = LoadStart
	n.Generation++
}

func (n *Node) invalidate() {
	n.Generation++
	if n.State != LoadStart {
		n.State = LoadStart
	}
}
