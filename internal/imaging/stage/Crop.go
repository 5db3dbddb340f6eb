package stage

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/rm-hull/inteliver/internal/imaging"
)

type CropStage struct {
	Rect image.Rectangle
}

// Process extracts Rect, clipped to the image bounds
func (s *CropStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	rect := s.Rect.Intersect(src.Bounds)
	if rect.Empty() {
		return nil, ErrEmptyRegion
	}
	return imaging.NewRaster(transform.Crop(src.Img, rect)), nil
}
