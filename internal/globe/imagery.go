package globe

// ImageryLayer is one imagery source draped over the terrain. Layers are
// owned by the caller and only counted and forwarded by the globe.
type ImageryLayer struct {
	Name  string
	URL   string
	Alpha float64
	Show  bool
}

// ImageryLayerCollection is an ordered list of imagery layers, bottom first.
type ImageryLayerCollection struct {
	layers []*ImageryLayer
}

func NewImageryLayerCollection() *ImageryLayerCollection {
	return &ImageryLayerCollection{}
}

// Add appends a layer on top of the others.
func (c *ImageryLayerCollection) Add(layer *ImageryLayer) {
	c.layers = append(c.layers, layer)
}

// Remove removes the layer and reports whether it was found.
func (c *ImageryLayerCollection) Remove(layer *ImageryLayer) bool {
	for i, l := range c.layers {
		if l == layer {
			c.layers = append(c.layers[:i], c.layers[i+1:]...)
			return true
		}
	}
	return false
}

func (c *ImageryLayerCollection) Len() int {
	return len(c.layers)
}

func (c *ImageryLayerCollection) Get(i int) *ImageryLayer {
	return c.layers[i]
}

// VisibleCount returns the number of shown layers with a non-zero alpha.
func (c *ImageryLayerCollection) VisibleCount() int {
	count := 0
	for _, l := range c.layers {
		if l.Show && l.Alpha > 0 {
			count++
		}
	}
	return count
}
