package viewer

import (
	"image"

	"github.com/MapColonies/cesium-standalone/internal/scene"
	"github.com/hajimehoshi/ebiten/v2"
)

// textureContext uploads images as ebiten images. It must only be used from
// the ebiten Update or Draw callbacks.
type textureContext struct{}

func (textureContext) CreateTexture(img image.Image) (scene.Texture, error) {
	return &texture{image: ebiten.NewImageFromImage(img)}, nil
}

type texture struct {
	image *ebiten.Image
}

func (t *texture) Destroy() {
	t.image.Deallocate()
}
