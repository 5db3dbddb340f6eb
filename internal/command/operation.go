package command

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/imaging/stage"
)

const (
	OpResize     = "resize"
	OpResizeKeep = "resize_keep"
	OpCrop       = "crop"
	OpRoundCrop  = "rcrop"
	OpRotate     = "rotate"
	OpFlip       = "flip"
	OpBlur       = "blur"
	OpPixelate   = "pixelate"
	OpSharpen    = "sharpen"
	OpGray       = "gray"
	OpFormat     = "format"
	OpText       = "text"
)

const (
	formatJPG  = "jpg"
	formatWebP = "webp"
	formatPNG  = "png"
)

// Operation is a validated, typed catalogue entry. The set of implementations is
// closed: only this package can satisfy the interface.
type Operation interface {
	Name() string
	// Bind turns the operation into a pixel stage for the geometry its stage
	// resolved against the current raster.
	Bind(geo imaging.Geometry) imaging.PipelineStage
	sealed()
}

type Resize struct{}

func (Resize) Name() string { return OpResize }
func (Resize) sealed()      {}
func (Resize) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.ResizeStage{Width: geo.Size.X, Height: geo.Size.Y}
}

type ResizeKeep struct{}

func (ResizeKeep) Name() string { return OpResizeKeep }
func (ResizeKeep) sealed()      {}
func (ResizeKeep) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.ResizeKeepStage{Width: geo.Size.X, Height: geo.Size.Y}
}

type Crop struct{}

func (Crop) Name() string { return OpCrop }
func (Crop) sealed()      {}
// Bind crops to the stage box, else the face. A face center that found no face
// keeps the whole frame.
func (Crop) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.CropStage{Rect: geo.Region(everywhere)}
}

type RoundCrop struct{}

func (RoundCrop) Name() string { return OpRoundCrop }
func (RoundCrop) sealed()      {}
func (RoundCrop) Bind(imaging.Geometry) imaging.PipelineStage {
	return &stage.RoundCropStage{}
}

type Rotate struct {
	Degrees float64
	Scale   float64
}

func (Rotate) Name() string { return OpRotate }
func (Rotate) sealed()      {}
func (r Rotate) Bind(geo imaging.Geometry) imaging.PipelineStage {
	s := &stage.RotateStage{Degrees: r.Degrees, Scale: r.Scale}
	if geo.Anchored {
		pivot := geo.Center
		s.Pivot = &pivot
	}
	return s
}

type Flip struct {
	Direction string
}

func (Flip) Name() string { return OpFlip }
func (Flip) sealed()      {}
func (f Flip) Bind(imaging.Geometry) imaging.PipelineStage {
	return &stage.FlipStage{Direction: stage.FlipDirection(f.Direction)}
}

type Blur struct {
	Radius int
}

func (Blur) Name() string { return OpBlur }
func (Blur) sealed()      {}
func (b Blur) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.GaussianBlurStage{Radius: float64(b.Radius), Region: geo.Region(everywhere)}
}

type Pixelate struct {
	BlockSize int
}

func (Pixelate) Name() string { return OpPixelate }
func (Pixelate) sealed()      {}
func (p Pixelate) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.PixelateStage{BlockSize: p.BlockSize, Region: geo.Region(everywhere)}
}

type Sharpen struct{}

func (Sharpen) Name() string { return OpSharpen }
func (Sharpen) sealed()      {}
func (Sharpen) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.SharpenStage{Region: geo.Region(everywhere)}
}

type Gray struct{}

func (Gray) Name() string { return OpGray }
func (Gray) sealed()      {}
func (Gray) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.GreyscaleStage{Region: geo.Region(everywhere)}
}

// Format selects the encoding; it never changes pixels.
type Format struct {
	Target  string
	Quality *int
}

func (Format) Name() string { return OpFormat }
func (Format) sealed()      {}
func (Format) Bind(imaging.Geometry) imaging.PipelineStage {
	return stage.PassthroughStage{}
}

// Output converts the requested format and quality into an OutputSpec. jpg and
// webp take a 1-100 quality, png a single 1-9 digit.
func (f Format) Output() (imaging.OutputSpec, error) {
	var (
		spec     imaging.OutputSpec
		limit    int
		fallback float64
	)
	switch f.Target {
	case formatJPG:
		spec.Format, limit, fallback = imaging.FormatJPEG, 100, 0.95
	case formatWebP:
		spec.Format, limit, fallback = imaging.FormatWebP, 100, 0.80
	case formatPNG:
		spec.Format, limit, fallback = imaging.FormatPNG, 9, 0.30
	default:
		return spec, fmt.Errorf("unknown format %q", f.Target)
	}

	if f.Quality == nil {
		spec.Weight = fallback
		return spec, nil
	}

	q := *f.Quality
	if q < 1 || q > limit {
		return spec, fmt.Errorf("quality %d outside 1-%d for %s", q, limit, f.Target)
	}
	if limit == 100 {
		spec.Weight = float64(q) / 100
	} else {
		spec.Weight = float64(q) / 10
	}
	return spec, nil
}

type Text struct {
	Text      string
	Size      float64
	Thickness float64
	// Color is red, green, blue in 0-255; values outside are clamped when drawn.
	Color [3]float64
}

func (Text) Name() string { return OpText }
func (Text) sealed()      {}
func (t Text) Bind(geo imaging.Geometry) imaging.PipelineStage {
	return &stage.TextStage{
		Text:      t.Text,
		Size:      t.Size,
		Thickness: t.Thickness,
		Color:     color.RGBA{channel(t.Color[0]), channel(t.Color[1]), channel(t.Color[2]), 0xff},
		At:        geo.Center,
	}
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(255, v))))
}

// everywhere is handed to Geometry.Region so that an undeclared region stays
// unbounded until the stage clips it to the raster it receives.
var everywhere = image.Rect(math.MinInt32/2, math.MinInt32/2, math.MaxInt32/2, math.MaxInt32/2)
