package stage

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/transform"
	"github.com/rm-hull/inteliver/internal/imaging"
)

type RotateStage struct {
	Degrees float64
	Scale   float64
	// Pivot keeps the frame size and rotates around this point; nil rotates
	// around the middle and grows the frame to fit the rotated image.
	Pivot *image.Point
}

// OutputSize is the frame after rotation and scaling. An unanchored rotation
// grows to the bounding box of the rotated image.
func (s *RotateStage) OutputSize(in image.Point) image.Point {
	w, h := float64(in.X), float64(in.Y)
	if s.Pivot == nil {
		rad := s.Degrees * math.Pi / 180
		sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
		w, h = math.Ceil(w*cos+h*sin), math.Ceil(w*sin+h*cos)
	}
	if s.Scale > 0 && s.Scale != 1 {
		w, h = math.Round(w*s.Scale), math.Round(h*s.Scale)
	}
	return image.Pt(max(int(w), 1), max(int(h), 1))
}

// Process rotates the image clockwise by Degrees, then multiplies its size by Scale
func (s *RotateStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	rotated := transform.Rotate(src.Img, s.Degrees, &transform.RotationOptions{
		ResizeBounds: s.Pivot == nil,
		Pivot:        s.Pivot,
	})

	if s.Scale > 0 && s.Scale != 1 {
		b := rotated.Bounds()
		w := max(int(math.Round(float64(b.Dx())*s.Scale)), 1)
		h := max(int(math.Round(float64(b.Dy())*s.Scale)), 1)
		rotated = transform.Resize(rotated, w, h, transform.Linear)
	}
	return imaging.NewRaster(rotated), nil
}
