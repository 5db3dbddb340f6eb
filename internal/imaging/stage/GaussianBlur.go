package stage

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/rm-hull/inteliver/internal/imaging"
)

type GaussianBlurStage struct {
	Radius float64
	Region image.Rectangle
}

// Process applies a Gaussian blur of the given Radius inside Region
// Higher Radius values result in a more pronounced blur effect
func (s *GaussianBlurStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	return applyToRegion(src, s.Region, func(sub *image.RGBA) image.Image {
		return blur.Gaussian(sub, s.Radius)
	})
}
