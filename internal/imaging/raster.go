package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"math"

	"github.com/anthonynsimon/bild/clone"
	"github.com/chai2010/webp"
	"github.com/h2non/filetype"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrMalformed means the bytes are not an image at all, or a truncated one.
	ErrMalformed = errors.New("can not decode the image data")
	// ErrUnsupported means the bytes are a recognised image format that no decoder handles.
	ErrUnsupported = errors.New("unsupported image format")
)

// Raster is the working image of one request. Img always has its origin at (0,0).
type Raster struct {
	Img    *image.RGBA
	Bounds image.Rectangle
}

// PipelineStage transforms a raster into a new one; src is never modified.
type PipelineStage interface {
	Process(src *Raster) (*Raster, error)
}

func NewRaster(img image.Image) *Raster {
	rgba := clone.AsRGBA(img)
	if rgba.Bounds().Min != (image.Point{}) {
		moved := image.NewRGBA(image.Rect(0, 0, rgba.Bounds().Dx(), rgba.Bounds().Dy()))
		draw.Draw(moved, moved.Bounds(), rgba, rgba.Bounds().Min, draw.Src)
		rgba = moved
	}
	return &Raster{
		Img:    rgba,
		Bounds: rgba.Bounds(),
	}
}

// Decode sniffs and decodes raw bytes. Bytes of an image type that has no
// registered decoder fail with ErrUnsupported, anything else with ErrMalformed.
func Decode(data []byte) (*Raster, error) {
	kind, _ := filetype.Match(data)
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if errors.Is(err, image.ErrFormat) && filetype.IsImage(data) {
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, kind.MIME.Value)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return NewRaster(img), nil
}

// NewRasterFromReader decodes everything r yields.
func NewRasterFromReader(r io.Reader) (*Raster, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func (r *Raster) Width() int  { return r.Bounds.Dx() }
func (r *Raster) Height() int { return r.Bounds.Dy() }

// Write encodes the raster as described by spec.
func (r *Raster) Write(w io.Writer, spec OutputSpec) error {
	switch spec.Format {
	case FormatPNG:
		enc := png.Encoder{CompressionLevel: spec.pngCompression()}
		return enc.Encode(w, r.Img)
	case FormatWebP:
		return webp.Encode(w, r.Img, &webp.Options{Quality: float32(spec.percent())})
	case FormatJPEG:
		return jpeg.Encode(w, flatten(r.Img), &jpeg.Options{Quality: spec.percent()})
	default:
		return fmt.Errorf("no encoder for format %q", spec.Format)
	}
}

// Encode is Write into a fresh buffer.
func (r *Raster) Encode(spec OutputSpec) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, spec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Pipeline runs stages in order, each consuming the raster the previous one produced.
func (r *Raster) Pipeline(stages ...PipelineStage) (*Raster, error) {
	current := r
	for _, stage := range stages {
		next, err := stage.Process(current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// flatten composites img over white, since JPEG has no alpha channel.
func flatten(img *image.RGBA) image.Image {
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

func (s OutputSpec) percent() int {
	return int(math.Round(s.Weight * 100))
}

func (s OutputSpec) pngCompression() png.CompressionLevel {
	switch level := int(math.Round(s.Weight * 10)); {
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}
