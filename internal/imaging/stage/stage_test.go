package stage

import (
	"image"
	"image/color"
	"testing"

	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRaster(w, h int) *imaging.Raster {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{0, 0, 255, 255}
			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{255, 200, 0, 255}
			}
			img.SetRGBA(x, y, c)
		}
	}
	return imaging.NewRaster(img)
}

func isGrey(c color.RGBA) bool {
	return c.R == c.G && c.G == c.B
}

func TestResizeStage(t *testing.T) {
	out, err := (&ResizeStage{Width: 30, Height: 7}).Process(newTestRaster(40, 20))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 30, 7), out.Bounds)
}

func TestResizeKeepStage(t *testing.T) {
	out, err := (&ResizeKeepStage{Width: 20, Height: 20}).Process(newTestRaster(40, 20))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 20, 20), out.Bounds)

	// 40x20 fits as 20x10, letterboxed with 5 transparent rows top and bottom
	assert.Equal(t, uint8(0), out.Img.RGBAAt(10, 0).A)
	assert.Equal(t, uint8(0), out.Img.RGBAAt(10, 19).A)
	assert.Greater(t, out.Img.RGBAAt(10, 10).A, uint8(200))
}

func TestCropStage(t *testing.T) {
	src := newTestRaster(40, 20)

	t.Run("inside", func(t *testing.T) {
		out, err := (&CropStage{Rect: image.Rect(4, 0, 12, 8)}).Process(src)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 8, 8), out.Bounds)
		assert.Equal(t, src.Img.RGBAAt(4, 0), out.Img.RGBAAt(0, 0))
	})

	t.Run("clipped", func(t *testing.T) {
		out, err := (&CropStage{Rect: image.Rect(30, 10, 50, 30)}).Process(src)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 10, 10), out.Bounds)
	})

	t.Run("outside", func(t *testing.T) {
		_, err := (&CropStage{Rect: image.Rect(100, 100, 120, 120)}).Process(src)
		assert.ErrorIs(t, err, ErrEmptyRegion)
	})
}

func TestRoundCropStage(t *testing.T) {
	out, err := (&RoundCropStage{}).Process(newTestRaster(20, 20))
	require.NoError(t, err)
	assert.Equal(t, uint8(0), out.Img.RGBAAt(0, 0).A)
	assert.Equal(t, uint8(0), out.Img.RGBAAt(19, 19).A)
	assert.Equal(t, uint8(255), out.Img.RGBAAt(10, 10).A)
	assert.Equal(t, uint8(255), out.Img.RGBAAt(10, 0).A)
}

func TestRotateStage(t *testing.T) {
	src := newTestRaster(40, 20)

	t.Run("implicit center grows the frame", func(t *testing.T) {
		out, err := (&RotateStage{Degrees: 90, Scale: 1}).Process(src)
		require.NoError(t, err)
		assert.InDelta(t, 20, out.Width(), 1)
		assert.InDelta(t, 40, out.Height(), 1)
	})

	t.Run("pivot keeps the frame", func(t *testing.T) {
		pivot := image.Pt(10, 10)
		out, err := (&RotateStage{Degrees: 45, Scale: 1, Pivot: &pivot}).Process(src)
		require.NoError(t, err)
		assert.Equal(t, src.Bounds, out.Bounds)
	})

	t.Run("scale", func(t *testing.T) {
		pivot := image.Pt(20, 10)
		out, err := (&RotateStage{Degrees: 60, Scale: 2, Pivot: &pivot}).Process(src)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 80, 40), out.Bounds)
	})
}

func TestFlipStage(t *testing.T) {
	src := newTestRaster(10, 6)
	src.Img.SetRGBA(0, 0, color.RGBA{1, 2, 3, 255})

	tests := []struct {
		direction FlipDirection
		at        image.Point
	}{
		{FlipHorizontal, image.Pt(9, 0)},
		{FlipVertical, image.Pt(0, 5)},
		{FlipBoth, image.Pt(9, 5)},
	}
	for _, tt := range tests {
		t.Run(string(tt.direction), func(t *testing.T) {
			out, err := (&FlipStage{Direction: tt.direction}).Process(src)
			require.NoError(t, err)
			assert.Equal(t, color.RGBA{1, 2, 3, 255}, out.Img.RGBAAt(tt.at.X, tt.at.Y))
		})
	}

	_, err := (&FlipStage{Direction: "x"}).Process(src)
	assert.Error(t, err)
}

func TestGreyscaleStage_Region(t *testing.T) {
	src := newTestRaster(20, 20)
	out, err := (&GreyscaleStage{Region: image.Rect(0, 0, 10, 20)}).Process(src)
	require.NoError(t, err)

	assert.True(t, isGrey(out.Img.RGBAAt(2, 2)))
	assert.Equal(t, src.Img.RGBAAt(15, 15), out.Img.RGBAAt(15, 15))
	assert.False(t, isGrey(out.Img.RGBAAt(15, 15)))
}

func TestGaussianBlurStage_Region(t *testing.T) {
	src := newTestRaster(32, 32)
	region := image.Rect(0, 0, 16, 32)
	out, err := (&GaussianBlurStage{Radius: 3, Region: region}).Process(src)
	require.NoError(t, err)

	assert.NotEqual(t, src.Img.RGBAAt(3, 3), out.Img.RGBAAt(3, 3))
	for _, p := range []image.Point{{20, 3}, {31, 31}, {16, 0}} {
		assert.Equal(t, src.Img.RGBAAt(p.X, p.Y), out.Img.RGBAAt(p.X, p.Y))
	}
}

func TestRegionStages_Outside(t *testing.T) {
	outside := image.Rect(50, 50, 60, 60)
	stages := []imaging.PipelineStage{
		&GaussianBlurStage{Radius: 2, Region: outside},
		&GreyscaleStage{Region: outside},
		&PixelateStage{BlockSize: 2, Region: outside},
		&SharpenStage{Region: outside},
	}
	for _, s := range stages {
		_, err := s.Process(newTestRaster(20, 20))
		assert.ErrorIs(t, err, ErrEmptyRegion)
	}
}

func TestPixelateStage(t *testing.T) {
	src := newTestRaster(24, 24)
	out, err := (&PixelateStage{BlockSize: 6, Region: src.Bounds}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds, out.Bounds)

	first := out.Img.RGBAAt(6, 6)
	for y := 6; y < 12; y++ {
		for x := 6; x < 12; x++ {
			assert.Equal(t, first, out.Img.RGBAAt(x, y))
		}
	}
}

func TestSharpenStage(t *testing.T) {
	src := newTestRaster(16, 16)
	out, err := (&SharpenStage{Region: src.Bounds}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds, out.Bounds)
}

func TestPassthroughStage(t *testing.T) {
	src := newTestRaster(4, 4)
	out, err := PassthroughStage{}.Process(src)
	require.NoError(t, err)
	assert.Same(t, src, out)
}

func TestTextStage(t *testing.T) {
	src := imaging.NewRaster(image.NewRGBA(image.Rect(0, 0, 200, 80)))
	out, err := (&TextStage{
		Text:      "Your-Brand",
		Size:      1.5,
		Thickness: 4,
		Color:     color.RGBA{14, 70, 160, 255},
		At:        image.Pt(100, 40),
	}).Process(src)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds, out.Bounds)

	painted := 0
	for y := 0; y < 80; y++ {
		for x := 0; x < 200; x++ {
			if out.Img.RGBAAt(x, y).A > 0 {
				painted++
			}
		}
	}
	assert.Positive(t, painted)
	assert.Equal(t, uint8(0), src.Img.RGBAAt(100, 40).A, "source must not be modified")
}

func TestStages_DoNotModifySource(t *testing.T) {
	src := newTestRaster(20, 20)
	before := append([]uint8(nil), src.Img.Pix...)

	stages := []imaging.PipelineStage{
		&GaussianBlurStage{Radius: 2, Region: src.Bounds},
		&GreyscaleStage{Region: src.Bounds},
		&PixelateStage{BlockSize: 3, Region: src.Bounds},
		&SharpenStage{Region: src.Bounds},
		&RoundCropStage{},
		&FlipStage{Direction: FlipBoth},
	}
	for _, s := range stages {
		_, err := s.Process(src)
		require.NoError(t, err)
	}
	assert.Equal(t, before, src.Img.Pix)
}
