package stage

import "github.com/rm-hull/inteliver/internal/imaging"

// PassthroughStage hands the raster on untouched; used by operations that only
// affect encoding.
type PassthroughStage struct{}

func (PassthroughStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	return src, nil
}
