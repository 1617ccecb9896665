package scene

// Material is the surface description handed to the renderer.
type Material struct {
	Name    string
	Diffuse [3]float64
	// BumpTexture is a path or URL resolved by the renderer. Empty means none.
	BumpTexture string
}

// Clone returns a copy of m, or nil for a nil material.
func (m *Material) Clone() *Material {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}
