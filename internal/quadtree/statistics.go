package quadtree

// Statistics describes the work done by one frame.
type Statistics struct {
	FrameNumber    uint64 `json:"frame"`
	TilesVisited   int    `json:"tilesVisited"`
	TilesCulled    int    `json:"tilesCulled"`
	TilesRendered  int    `json:"tilesRendered"`
	MaxDepth       int    `json:"maxDepth"`
	QueueHigh      int    `json:"queueHigh"`
	QueueMedium    int    `json:"queueMedium"`
	QueueLow       int    `json:"queueLow"`
	LoadsStarted   int    `json:"loadsStarted"`
	TilesEvicted   int    `json:"tilesEvicted"`
	TilesResident  int    `json:"tilesResident"`
	AllTilesLoaded bool   `json:"allTilesLoaded"`
}
