package stage

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/anthonynsimon/bild/clone"
	"github.com/rm-hull/inteliver/internal/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// textUnit is the font size in pixels of a Size of 1.
	textUnit     = 32.0
	maxThickness = 20
)

var (
	regularFont     *opentype.Font
	regularFontErr  error
	regularFontOnce sync.Once
)

func loadRegularFont() (*opentype.Font, error) {
	regularFontOnce.Do(func() {
		regularFont, regularFontErr = opentype.Parse(goregular.TTF)
	})
	return regularFont, regularFontErr
}

type TextStage struct {
	Text      string
	Size      float64
	Thickness float64
	Color     color.RGBA
	// At is the point the text is centered on.
	At image.Point
}

// Process draws Text centered on At. Thickness widens the stroke by repeating the
// glyphs over a disc of that diameter
func (s *TextStage) Process(src *imaging.Raster) (*imaging.Raster, error) {
	tt, err := loadRegularFont()
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}

	face, err := opentype.NewFace(tt, &opentype.FaceOptions{
		Size:    math.Max(s.Size, 0.1) * textUnit,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create font face: %w", err)
	}
	defer face.Close()

	out := clone.AsRGBA(src.Img)
	metrics := face.Metrics()
	width := font.MeasureString(face, s.Text)
	origin := fixed.Point26_6{
		X: fixed.I(s.At.X) - width/2,
		Y: fixed.I(s.At.Y) + (metrics.Ascent-metrics.Descent)/2,
	}

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(s.Color),
		Face: face,
	}
	radius := min(int(math.Max(s.Thickness, 0)/2), maxThickness/2)
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			d.Dot = origin.Add(fixed.P(dx, dy))
			d.DrawString(s.Text)
		}
	}
	return imaging.NewRaster(out), nil
}
