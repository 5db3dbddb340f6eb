package stage

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/rm-hull/inteliver/internal/imaging"
)

type FlipDirection string

const (
	FlipVertical   FlipDirection = "v"
	FlipHorizontal FlipDirection = "h"
	FlipBoth       FlipDirection = "b"
)

type FlipStage struct {
	Direction FlipDirection
}

// Process mirrors the image top-to-bottom (v), left-to-right (h) or both (b)
func (s *FlipStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	var out image.Image
	switch s.Direction {
	case FlipVertical:
		out = transform.FlipV(src.Img)
	case FlipHorizontal:
		out = transform.FlipH(src.Img)
	case FlipBoth:
		out = transform.FlipH(transform.FlipV(src.Img))
	default:
		return nil, fmt.Errorf("unknown flip direction %q", s.Direction)
	}
	return imaging.NewRaster(out), nil
}
