package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup_LongestName(t *testing.T) {
	sig, rest, ok := lookup([]string{"resize", "keep"})
	assert.True(t, ok)
	assert.Equal(t, OpResizeKeep, sig.Name)
	assert.Empty(t, rest)

	sig, rest, ok = lookup([]string{"format", "png", "6"})
	assert.True(t, ok)
	assert.Equal(t, OpFormat, sig.Name)
	assert.Equal(t, []string{"png", "6"}, rest)

	_, _, ok = lookup([]string{"explode"})
	assert.False(t, ok)
}

func TestSignature_Usage(t *testing.T) {
	assert.Equal(t, "rotate_degrees_[scale]", Catalogue[OpRotate].Usage())
	assert.Equal(t, "flip_v|h|b", Catalogue[OpFlip].Usage())
	assert.Equal(t, "gray", Catalogue[OpGray].Usage())
}

func TestCatalogue_Complete(t *testing.T) {
	assert.Equal(t, []string{
		"blur", "crop", "flip", "format", "gray", "pixelate",
		"rcrop", "resize", "resize_keep", "rotate", "sharpen", "text",
	}, Names())

	for name, sig := range Catalogue {
		assert.Equal(t, name, sig.Name)
		assert.NotNil(t, sig.build, name)
		assert.LessOrEqual(t, sig.Min, sig.Max(), name)
	}
}

func TestError_Message(t *testing.T) {
	_, err := Parse("i_o_rotate")
	assert.EqualError(t, err, `rotate needs at least 1 argument(s), usage rotate_degrees_[scale]: "i_o_rotate"`)
	assert.Equal(t, "insufficient_arguments", KindOf(err).String())
}

func TestParse_Ceilings(t *testing.T) {
	tests := []struct {
		raw string
		ok  bool
	}{
		{"i_h_16384,i_o_resize", true},
		{"i_h_16385,i_o_resize", false},
		{"i_h_2147483648,i_w_2147483648,i_o_resize", false},
		{"i_w_16.0,i_o_resize", true},
		{"i_w_16.5,i_o_resize", false},
		{"i_o_rotate_90_16", true},
		{"i_o_rotate_90_17", false},
		{"i_o_blur_100", true},
		{"i_o_blur_101", false},
		{"i_o_pixelate_16385", false},
		{"i_o_text_hello_20_1_0_0_0", true},
		{"i_o_text_hello_20.5_1_0_0_0", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			_, err := Parse(tt.raw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrUnprocessableArguments)
				assert.Contains(t, err.Error(), "must be at most")
			}
		})
	}
}
