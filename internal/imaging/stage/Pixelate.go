package stage

import (
	"image"

	"github.com/rm-hull/inteliver/internal/imaging"
	"golang.org/x/image/draw"
)

type PixelateStage struct {
	BlockSize int
	Region    image.Rectangle
}

// Process turns Region into a mosaic of BlockSize x BlockSize tiles by sampling
// down and scaling back up with nearest-neighbour
func (s *PixelateStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	block := max(s.BlockSize, 1)
	return applyToRegion(src, s.Region, func(sub *image.RGBA) image.Image {
		w, h := sub.Bounds().Dx(), sub.Bounds().Dy()
		cols, rows := ceilDiv(w, block), ceilDiv(h, block)

		small := image.NewRGBA(image.Rect(0, 0, cols, rows))
		draw.ApproxBiLinear.Scale(small, small.Bounds(), sub, sub.Bounds(), draw.Src, nil)

		tiles := image.NewRGBA(image.Rect(0, 0, cols*block, rows*block))
		draw.NearestNeighbor.Scale(tiles, tiles.Bounds(), small, small.Bounds(), draw.Src, nil)
		return tiles.SubImage(image.Rect(0, 0, w, h))
	})
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
