package quadtree

import (
	"github.com/MapColonies/cesium-standalone/internal/geo"
	"github.com/MapColonies/cesium-standalone/internal/terrain"
)

// Tree is the node arena of one tiling scheme. Node pointers returned by Node
// are valid until the next Subdivide call.
type Tree struct {
	tilingScheme *terrain.TilingScheme
	nodes        []Node
	levelZero    []NodeID
}

// NewTree creates the level-zero nodes of the tiling scheme.
func NewTree(ts *terrain.TilingScheme) *Tree {
	t := &Tree{tilingScheme: ts}
	for y := 0; y < ts.NumberOfLevelZeroTilesY; y++ {
		for x := 0; x < ts.NumberOfLevelZeroTilesX; x++ {
			id := t.add(0, x, y, ts.TileXYToRectangle(x, y, 0), NoNode)
			t.levelZero = append(t.levelZero, id)
		}
	}
	return t
}

func (t *Tree) add(level, x, y int, rect geo.Rectangle, parent NodeID) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		ID:        id,
		Level:     level,
		X:         x,
		Y:         y,
		Rectangle: rect,
		Parent:    parent,
		children:  [4]NodeID{NoNode, NoNode, NoNode, NoNode},
	})
	return id
}

func (t *Tree) TilingScheme() *terrain.TilingScheme { return t.tilingScheme }
func (t *Tree) LevelZero() []NodeID                 { return t.levelZero }
func (t *Tree) Len() int                            { return len(t.nodes) }

// Node returns the node with the given id.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Children returns the child ids in geo.Quadrant order, if subdivided.
func (t *Tree) Children(id NodeID) ([4]NodeID, bool) {
	n := &t.nodes[id]
	return n.children, n.hasChildren
}

// Subdivide creates the four children of a node on first use and returns
// them in geo.Quadrant order.
func (t *Tree) Subdivide(id NodeID) [4]NodeID {
	if n := &t.nodes[id]; n.hasChildren {
		return n.children
	}

	parent := t.nodes[id]
	rects := parent.Rectangle.Subdivide()
	level := parent.Level + 1

	var children [4]NodeID
	children[geo.Northwest] = t.add(level, parent.X*2, parent.Y*2, rects[geo.Northwest], id)
	children[geo.Northeast] = t.add(level, parent.X*2+1, parent.Y*2, rects[geo.Northeast], id)
	children[geo.Southwest] = t.add(level, parent.X*2, parent.Y*2+1, rects[geo.Southwest], id)
	children[geo.Southeast] = t.add(level, parent.X*2+1, parent.Y*2+1, rects[geo.Southeast], id)

	n := &t.nodes[id]
	n.children = children
	n.hasChildren = true
	return children
}

// ForEach calls fn for every node in creation order.
func (t *Tree) ForEach(fn func(n *Node)) {
	for i := range t.nodes {
		fn(&t.nodes[i])
	}
}

// FindLevelZero returns the level-zero node whose rectangle contains c.
func (t *Tree) FindLevelZero(c geo.Cartographic) (NodeID, bool) {
	for _, id := range t.levelZero {
		if t.nodes[id].Rectangle.Contains(c) {
			return id, true
		}
	}
	return NoNode, false
}
