package orientation

// Dimensions are the world-aligned extents of a prism at rest.
type Dimensions struct {
	X        float64 `json:"x"` // along world X
	Z        float64 `json:"z"` // along world Z
	Vertical float64 `json:"vertical"`
}

// Footprint returns the extents of a width x height x depth prism resting in
// pose o. Top/bottom rest on width x depth, left/right on height x depth and
// front/back on width x height; a quarter turn swaps the X and Z extents.
func Footprint(o Orientation, width, height, depth float64) (Dimensions, bool) {
	var d Dimensions
	switch o.Face {
	case Top, Bottom:
		d = Dimensions{X: width, Z: depth, Vertical: height}
	case Left, Right:
		d = Dimensions{X: height, Z: depth, Vertical: width}
	case Front, Back:
		// Mirrors the left/right pairing with depth in place of width.
		d = Dimensions{X: width, Z: height, Vertical: depth}
	default:
		return Dimensions{}, false
	}
	if o.QuarterTurns()%2 == 1 {
		d.X, d.Z = d.Z, d.X
	}
	return d, true
}
