package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DimensionKind selects how a Dimension turns into pixels.
type DimensionKind int

const (
	// DimensionNone means the stage did not declare this axis.
	DimensionNone DimensionKind = iota
	DimensionPixels
	DimensionScale
	DimensionSourceWidth
	DimensionSourceHeight
)

const (
	symbolWidth  = "iw"
	symbolHeight = "ih"
)

// Dimension is a stage height or width. It is resolved against the raster that is
// current when the stage runs, never at parse time.
type Dimension struct {
	Kind   DimensionKind
	Pixels int
	Scale  float64
}

func Pixels(n int) Dimension    { return Dimension{Kind: DimensionPixels, Pixels: n} }
func Scale(f float64) Dimension { return Dimension{Kind: DimensionScale, Scale: f} }
func SourceWidth() Dimension    { return Dimension{Kind: DimensionSourceWidth} }
func SourceHeight() Dimension   { return Dimension{Kind: DimensionSourceHeight} }

// IsSet reports whether the stage declared this axis.
func (d Dimension) IsSet() bool { return d.Kind != DimensionNone }

func (d Dimension) String() string {
	switch d.Kind {
	case DimensionPixels:
		return strconv.Itoa(d.Pixels)
	case DimensionScale:
		return strconv.FormatFloat(d.Scale, 'f', -1, 64)
	case DimensionSourceWidth:
		return symbolWidth
	case DimensionSourceHeight:
		return symbolHeight
	default:
		return ""
	}
}

// Resolve converts the dimension to pixels. own is the raster size on the axis the
// dimension is declared for, width and height are the current raster size.
func (d Dimension) Resolve(own, width, height int) int {
	var n int
	switch d.Kind {
	case DimensionPixels:
		n = d.Pixels
	case DimensionScale:
		n = int(math.Round(d.Scale * float64(own)))
	case DimensionSourceWidth:
		n = width
	case DimensionSourceHeight:
		n = height
	default:
		return 0
	}
	return max(n, 1)
}

// Ceilings on literal values. Sizes that are only known once a stage runs are
// checked against imaging.Limits instead.
const (
	MaxSide       = 16384
	MaxScale      = 16.0
	MaxBlurRadius = 100
	MaxTextSize   = 20.0
)

var errNotPositive = errors.New("must be greater than zero")

func errAbove(limit float64) error {
	return fmt.Errorf("must be at most %s", strconv.FormatFloat(limit, 'f', -1, 64))
}

// ParseDimension accepts an integer pixel count, a decimal scale factor, or one of
// the raster references iw/ih.
func ParseDimension(s string) (Dimension, error) {
	switch s {
	case symbolWidth:
		return SourceWidth(), nil
	case symbolHeight:
		return SourceHeight(), nil
	}

	if strings.Contains(s, ".") {
		f, err := parseDecimal(s)
		if err != nil {
			return Dimension{}, err
		}
		if f <= 0 {
			return Dimension{}, errNotPositive
		}
		if f > MaxScale {
			return Dimension{}, errAbove(MaxScale)
		}
		return Scale(f), nil
	}

	n, err := parseInteger(s)
	if err != nil {
		return Dimension{}, err
	}
	if n <= 0 {
		return Dimension{}, errNotPositive
	}
	if n > MaxSide {
		return Dimension{}, errAbove(MaxSide)
	}
	return Pixels(n), nil
}

func parseInteger(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not an integer", s)
	}
	return n, nil
}

func parseDecimal(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%q is not a decimal", s)
	}
	return f, nil
}
