package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x * 255 / w), uint8(y * 255 / h), 128, 255})
		}
	}
	return img
}

func TestOutputSpec_ContentType(t *testing.T) {
	tests := []struct {
		spec     OutputSpec
		expected string
	}{
		{DefaultOutput, "image/jpeg;q=0.95"},
		{OutputSpec{FormatJPEG, 0.8}, "image/jpeg;q=0.8"},
		{OutputSpec{FormatJPEG, 0.2}, "image/jpeg;q=0.2"},
		{OutputSpec{FormatWebP, 0.8}, "image/webp;q=0.8"},
		{OutputSpec{FormatWebP, 0.4}, "image/webp;q=0.4"},
		{OutputSpec{FormatPNG, 0.3}, "image/png;q=0.3"},
		{OutputSpec{FormatPNG, 0.6}, "image/png;q=0.6"},
		{OutputSpec{FormatPNG, 0.9}, "image/png;q=0.9"},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.spec.ContentType())
		})
	}
}

func TestNewRaster_NormalizesOrigin(t *testing.T) {
	src := gradient(20, 10).SubImage(image.Rect(5, 2, 15, 8))
	r := NewRaster(src)
	assert.Equal(t, image.Rect(0, 0, 10, 6), r.Bounds)
	assert.Equal(t, src.At(5, 2), r.Img.At(0, 0))
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(30, 20)))

	t.Run("png", func(t *testing.T) {
		r, err := Decode(buf.Bytes())
		require.NoError(t, err)
		assert.Equal(t, 30, r.Width())
		assert.Equal(t, 20, r.Height())
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := Decode([]byte("definitely not an image"))
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("truncated", func(t *testing.T) {
		_, err := Decode(buf.Bytes()[:40])
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("unsupported", func(t *testing.T) {
		psd := append([]byte("8BPS\x00\x01"), make([]byte, 32)...)
		_, err := Decode(psd)
		assert.ErrorIs(t, err, ErrUnsupported)
	})
}

func TestRaster_Encode(t *testing.T) {
	r := NewRaster(gradient(16, 12))
	specs := []OutputSpec{
		DefaultOutput,
		{FormatPNG, 0.1},
		{FormatPNG, 0.9},
		{FormatWebP, 0.8},
	}
	for _, spec := range specs {
		t.Run(spec.String(), func(t *testing.T) {
			data, err := r.Encode(spec)
			require.NoError(t, err)

			decoded, err := Decode(data)
			require.NoError(t, err)
			assert.Equal(t, r.Bounds, decoded.Bounds)
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		_, err := r.Encode(OutputSpec{Format: "gif", Weight: 1})
		assert.Error(t, err)
	})
}

func TestRaster_EncodeIsDeterministic(t *testing.T) {
	r := NewRaster(gradient(16, 12))
	for _, spec := range []OutputSpec{DefaultOutput, {FormatPNG, 0.3}} {
		a, err := r.Encode(spec)
		require.NoError(t, err)
		b, err := r.Encode(spec)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	}
}

func TestFlatten(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(1, 0, color.RGBA{255, 0, 0, 255})
	out := flatten(img)
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, out.At(0, 0))
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, out.At(1, 0))
}

func TestPngCompression(t *testing.T) {
	assert.Equal(t, png.BestSpeed, OutputSpec{FormatPNG, 0.3}.pngCompression())
	assert.Equal(t, png.DefaultCompression, OutputSpec{FormatPNG, 0.6}.pngCompression())
	assert.Equal(t, png.BestCompression, OutputSpec{FormatPNG, 0.9}.pngCompression())
}

type countingStage struct{ calls int }

func (s *countingStage) Process(src *Raster) (*Raster, error) {
	s.calls++
	return src, nil
}

func TestRaster_Pipeline(t *testing.T) {
	a, b := &countingStage{}, &countingStage{}
	r := NewRaster(gradient(4, 4))
	out, err := r.Pipeline(a, b)
	require.NoError(t, err)
	assert.Same(t, r, out)
	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestNewRasterFromReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 7, 3))))

	r, err := NewRasterFromReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 7, 3), r.Bounds)

	_, err = NewRasterFromReader(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrMalformed)
}
