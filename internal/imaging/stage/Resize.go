package stage

import (
	"image"

	"github.com/rm-hull/inteliver/internal/imaging"
	"golang.org/x/image/draw"
)

type ResizeStage struct {
	Width  int
	Height int
}

func (s *ResizeStage) OutputSize(image.Point) image.Point {
	return image.Pt(s.Width, s.Height)
}

// Process applies a Catmull-Rom resampling to scale the image to exactly
// Width x Height, ignoring the original aspect ratio
func (s *ResizeStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	resized := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	draw.CatmullRom.Scale(resized, resized.Bounds(), src.Img, src.Bounds, draw.Src, nil)
	return imaging.NewRaster(resized), nil
}
