package face

import (
	_ "embed"
	"errors"
	"fmt"
	"image"
	"os"
	"sort"

	pigo "github.com/esimov/pigo/core"
	"go.uber.org/zap"
)

// Detector finds the most prominent face on an image. ok is false when there is
// none; err is reserved for failures of the detector itself.
type Detector interface {
	Detect(img image.Image) (box image.Rectangle, ok bool, err error)
}

// facefinder is the frontal face cascade shipped with pigo.
//
//go:embed cascade/facefinder
var facefinder []byte

// ErrDisabled is returned by the detector used when face detection is turned off.
var ErrDisabled = errors.New("face detection is not configured")

type disabled struct{}

// Disabled returns a detector that always fails with ErrDisabled.
func Disabled() Detector {
	return disabled{}
}

func (disabled) Detect(image.Image) (image.Rectangle, bool, error) {
	return image.Rectangle{}, false, ErrDisabled
}

type Options struct {
	MinSize   int
	MaxSize   int
	Threshold float32
	// IoU is the overlap above which two detections are merged.
	IoU float64
}

var DefaultOptions = Options{
	MinSize:   20,
	MaxSize:   1000,
	Threshold: 5.0,
	IoU:       0.2,
}

// cascadeHeader is the skipped prefix plus the tree depth and count.
const cascadeHeader = 16

// Pigo is a Detector backed by a pigo face cascade.
type Pigo struct {
	classifier *pigo.Pigo
	opts       Options
}

// NewPigo unpacks a binary cascade such as pigo's "facefinder".
func NewPigo(cascade []byte, opts Options) (p *Pigo, err error) {
	if len(cascade) < cascadeHeader {
		return nil, fmt.Errorf("failed to unpack face cascade: %d bytes is too short", len(cascade))
	}
	// Unpack indexes the packet without bounds checks.
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("failed to unpack face cascade: %v", r)
		}
	}()

	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack face cascade: %w", err)
	}
	return &Pigo{classifier: classifier, opts: opts}, nil
}

// NewDefaultPigo uses the bundled facefinder cascade.
func NewDefaultPigo(opts Options) (*Pigo, error) {
	return NewPigo(facefinder, opts)
}

// NewPigoFromFile reads the cascade at path.
func NewPigoFromFile(path string, opts Options) (*Pigo, error) {
	cascade, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read face cascade %s: %w", path, err)
	}
	return NewPigo(cascade, opts)
}

func (p *Pigo) Detect(img image.Image) (image.Rectangle, bool, error) {
	bounds := img.Bounds()
	cols, rows := bounds.Dx(), bounds.Dy()

	params := pigo.CascadeParams{
		MinSize:     p.opts.MinSize,
		MaxSize:     min(p.opts.MaxSize, max(cols, rows)),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := p.classifier.RunCascade(params, 0.0)
	dets = p.classifier.ClusterDetections(dets, p.opts.IoU)

	candidates := make([]pigo.Detection, 0, len(dets))
	for _, det := range dets {
		if det.Q >= p.opts.Threshold {
			candidates = append(candidates, det)
		}
	}
	if len(candidates) == 0 {
		return image.Rectangle{}, false, nil
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Q > candidates[j].Q
	})
	best := candidates[0]
	zap.S().Debugw("face detected", "row", best.Row, "col", best.Col, "scale", best.Scale, "q", best.Q, "candidates", len(candidates))

	half := best.Scale / 2
	box := image.Rect(best.Col-half, best.Row-half, best.Col+half, best.Row+half).
		Add(bounds.Min).
		Intersect(bounds)
	return box, !box.Empty(), nil
}
