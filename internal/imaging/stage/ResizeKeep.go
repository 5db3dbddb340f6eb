package stage

import (
	"image"
	"math"

	"github.com/nfnt/resize"
	"github.com/rm-hull/inteliver/internal/imaging"
	"golang.org/x/image/draw"
)

type ResizeKeepStage struct {
	Width  int
	Height int
}

func (s *ResizeKeepStage) OutputSize(image.Point) image.Point {
	return image.Pt(s.Width, s.Height)
}

// Process scales the image to fit inside Width x Height keeping its aspect ratio,
// then centers it on a transparent canvas of exactly Width x Height
func (s *ResizeKeepStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	ratio := math.Min(float64(s.Width)/float64(src.Width()), float64(s.Height)/float64(src.Height()))
	fitW := max(int(math.Round(float64(src.Width())*ratio)), 1)
	fitH := max(int(math.Round(float64(src.Height())*ratio)), 1)

	fitted := resize.Resize(uint(fitW), uint(fitH), src.Img, resize.Lanczos3)

	canvas := image.NewRGBA(image.Rect(0, 0, s.Width, s.Height))
	offset := image.Pt((s.Width-fitW)/2, (s.Height-fitH)/2)
	draw.Draw(canvas, image.Rectangle{Min: offset, Max: offset.Add(image.Pt(fitW, fitH))}, fitted, fitted.Bounds().Min, draw.Src)
	return imaging.NewRaster(canvas), nil
}
