package stage

import (
	"errors"
	"image"
	"image/draw"

	"github.com/anthonynsimon/bild/clone"
	"github.com/rm-hull/inteliver/internal/imaging"
)

// ErrEmptyRegion is returned when the resolved region lies outside the raster.
var ErrEmptyRegion = errors.New("region does not overlap the image")

// applyToRegion runs fn over a zero-origin copy of the part of src inside region
// and pastes the result back into a copy of src.
func applyToRegion(src *imaging.Raster, region image.Rectangle, fn func(sub *image.RGBA) image.Image) (*imaging.Raster, error) {
	region = region.Intersect(src.Bounds)
	if region.Empty() {
		return nil, ErrEmptyRegion
	}

	sub := image.NewRGBA(image.Rect(0, 0, region.Dx(), region.Dy()))
	draw.Draw(sub, sub.Bounds(), src.Img, region.Min, draw.Src)

	out := clone.AsRGBA(src.Img)
	filtered := fn(sub)
	draw.Draw(out, region, filtered, filtered.Bounds().Min, draw.Src)
	return imaging.NewRaster(out), nil
}
