package cmd

import (
	"github.com/rm-hull/inteliver/internal/configure"
	"github.com/rm-hull/inteliver/internal/face"
	"go.uber.org/zap"
)

// newDetector loads the configured face cascade, falling back to the bundled
// facefinder. With face detection disabled, face centers fail with a processing
// error rather than guessing.
func newDetector(cfg *configure.Config) (face.Detector, error) {
	switch {
	case cfg.Face.Disabled:
		zap.S().Warn("face detection disabled, i_c_face is unavailable")
		return face.Disabled(), nil
	case cfg.Face.CascadeFile != "":
		return face.NewPigoFromFile(cfg.Face.CascadeFile, cfg.FaceOptions())
	default:
		return face.NewDefaultPigo(cfg.FaceOptions())
	}
}
