package stage

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/rm-hull/inteliver/internal/imaging"
)

const (
	sharpenRadius = 2.0
	sharpenAmount = 1.0
)

type SharpenStage struct {
	Region image.Rectangle
}

// Process applies an unsharp mask inside Region
func (s *SharpenStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	return applyToRegion(src, s.Region, func(sub *image.RGBA) image.Image {
		return effect.UnsharpMask(sub, sharpenRadius, sharpenAmount)
	})
}
