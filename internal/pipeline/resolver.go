package pipeline

import (
	"fmt"
	"image"
	"math"

	"github.com/rm-hull/inteliver/internal/command"
	"github.com/rm-hull/inteliver/internal/face"
	"github.com/rm-hull/inteliver/internal/imaging"
	"go.uber.org/zap"
)

// Resolver turns the parameters of a stage into pixel geometry for the raster the
// stage starts from.
type Resolver struct {
	Detector face.Detector
	// Limits bounds resolved stage sizes and the rasters operations produce.
	Limits imaging.Limits
}

func NewResolver(detector face.Detector) *Resolver {
	if detector == nil {
		detector = face.Disabled()
	}
	return &Resolver{Detector: detector, Limits: imaging.DefaultLimits}
}

// Resolve computes the box size and center of st on raster. A face center that
// finds no face falls back to the geometric center, and its region to the whole
// frame unless the stage declared a size.
func (r *Resolver) Resolve(st *command.Stage, raster *imaging.Raster) (imaging.Geometry, error) {
	width, height := raster.Width(), raster.Height()
	geo := imaging.Geometry{
		Center: image.Pt(width/2, height/2),
		Size:   resolveSize(st, width, height),
	}
	if geo.HasSize() {
		if err := r.Limits.Check(geo.Size); err != nil {
			return imaging.Geometry{}, err
		}
	}

	switch st.Center.Kind {
	case command.CenterExplicit:
		geo.Center = geo.Center.Add(image.Pt(st.Center.X, st.Center.Y))
		geo.Anchored = true

	case command.CenterFace:
		box, ok, err := r.Detector.Detect(raster.Img)
		if err != nil {
			return imaging.Geometry{}, fmt.Errorf("face detection failed: %w", err)
		}
		if !ok {
			zap.S().Warnw("no face found, using the geometric center", "width", width, "height", height)
			break
		}
		geo.Face = box
		geo.Center = image.Pt((box.Min.X+box.Max.X)/2, (box.Min.Y+box.Max.Y)/2)
		geo.Anchored = true

	case command.CenterImplicit:
	}
	return geo, nil
}

// resolveSize derives a missing axis from the current aspect ratio. The zero
// point means the stage declared neither axis.
func resolveSize(st *command.Stage, width, height int) image.Point {
	w := st.Width.Resolve(width, width, height)
	h := st.Height.Resolve(height, width, height)

	switch {
	case w == 0 && h == 0:
		return image.Point{}
	case w == 0:
		w = max(1, int(math.Round(float64(h)*float64(width)/float64(height))))
	case h == 0:
		h = max(1, int(math.Round(float64(w)*float64(height)/float64(width))))
	}
	return image.Pt(w, h)
}
