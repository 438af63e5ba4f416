package globe

import "github.com/MapColonies/cesium-standalone/internal/terrain"

// Material customizes how the surface is shaded. Only its shader text and
// its need for vertex normals are inspected here.
type Material interface {
	ShaderSource() string
	RequiresNormals() bool
}

// ShaderSet tracks the surface shader composition. Every regeneration bumps
// Version so renderers know to recompile.
type ShaderSet struct {
	Version         int
	MaterialSource  string
	RequiresNormals bool
	VertexNormals   bool

	destroyed bool
}

// Regenerate recomposes the shaders for the material and terrain provider.
// A nil material restores the default shading.
func (s *ShaderSet) Regenerate(material Material, provider terrain.Provider) {
	s.Version++
	s.MaterialSource = ""
	s.RequiresNormals = false
	if material != nil {
		s.MaterialSource = material.ShaderSource()
		s.RequiresNormals = material.RequiresNormals()
	}
	s.VertexNormals = provider != nil && provider.RequestVertexNormals()
}

func (s *ShaderSet) Destroy() {
	s.destroyed = true
	s.MaterialSource = ""
}

func (s *ShaderSet) IsDestroyed() bool {
	return s.destroyed
}
