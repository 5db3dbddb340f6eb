package imaging

import "image"

// Geometry is the resolved placement of one stage: where its center sits and how
// large its box is, in pixels of the raster the stage started from.
type Geometry struct {
	Center image.Point
	// Size is the resolved width/height box; the zero value means the stage declared none.
	Size image.Point
	// Face is the detected face box, empty when no face lookup happened or none was found.
	Face image.Rectangle
	// Anchored is set when the center was given explicitly or by a face.
	Anchored bool
}

func (g Geometry) HasSize() bool {
	return g.Size.X > 0 && g.Size.Y > 0
}

// Box is the rectangle of the resolved size centered on the resolved center.
func (g Geometry) Box() image.Rectangle {
	topLeft := g.Center.Sub(g.Size.Div(2))
	return image.Rectangle{Min: topLeft, Max: topLeft.Add(g.Size)}
}

// Region is the area region-honouring operations act on, clipped to bounds: the
// box when a size was declared, else the face, else the whole frame.
func (g Geometry) Region(bounds image.Rectangle) image.Rectangle {
	switch {
	case g.HasSize():
		return g.Box().Intersect(bounds)
	case !g.Face.Empty():
		return g.Face.Intersect(bounds)
	default:
		return bounds
	}
}
