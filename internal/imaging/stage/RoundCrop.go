package stage

import (
	"image"
	"image/color"

	"github.com/rm-hull/inteliver/internal/imaging"
)

type RoundCropStage struct{}

// Process makes every pixel outside the ellipse inscribed in the frame fully
// transparent. The mask only survives encoders with an alpha channel
func (s *RoundCropStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	b := src.Bounds
	out := image.NewRGBA(b)
	rx, ry := float64(b.Dx())/2, float64(b.Dy())/2
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dx := (float64(x) + 0.5 - rx) / rx
			dy := (float64(y) + 0.5 - ry) / ry
			if dx*dx+dy*dy > 1 {
				out.SetRGBA(x, y, color.RGBA{})
				continue
			}
			out.SetRGBA(x, y, src.Img.RGBAAt(x, y))
		}
	}
	return imaging.NewRaster(out), nil
}
