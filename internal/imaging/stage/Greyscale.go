package stage

import (
	"image"
	"image/color"

	"github.com/rm-hull/inteliver/internal/imaging"
)

type GreyscaleStage struct {
	Region image.Rectangle
}

// Process desaturates the pixels inside Region using luminance calculation
// The alpha channel is preserved, so transparent pixels remain transparent
func (s *GreyscaleStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	return applyToRegion(src, s.Region, func(sub *image.RGBA) image.Image {
		b := sub.Bounds()
		gs := image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				c := sub.RGBAAt(x, y)
				// Reference: https://en.wikipedia.org/wiki/Grayscale#Luma_coding_in_video_systems
				lum := uint8(0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B))
				gs.SetRGBA(x, y, color.RGBA{lum, lum, lum, c.A})
			}
		}
		return gs
	})
}
