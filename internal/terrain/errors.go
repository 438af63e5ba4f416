package terrain

const (
	ErrTypeInvalidHeightmap = "invalid_heightmap"
	ErrTypeTileUnavailable  = "tile_unavailable"
)
