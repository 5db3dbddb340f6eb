package imaging

import (
	"errors"
	"fmt"
	"image"
)

// ErrTooLarge is returned when a raster would exceed the configured Limits.
var ErrTooLarge = errors.New("image exceeds the size limit")

// Limits bounds the rasters a pipeline is allowed to allocate.
type Limits struct {
	MaxSide   int
	MaxPixels int
}

var DefaultLimits = Limits{
	MaxSide:   8192,
	MaxPixels: 40_000_000,
}

// Check fails with ErrTooLarge when size is wider, taller or larger in area
// than the limits allow.
func (l Limits) Check(size image.Point) error {
	if size.X > l.MaxSide || size.Y > l.MaxSide {
		return fmt.Errorf("%w: %dx%d is over %d pixels on a side", ErrTooLarge, size.X, size.Y, l.MaxSide)
	}
	if size.X*size.Y > l.MaxPixels {
		return fmt.Errorf("%w: %dx%d is over %d pixels", ErrTooLarge, size.X, size.Y, l.MaxPixels)
	}
	return nil
}

// Sizer is implemented by stages that change the raster size, so the result can
// be checked against Limits before anything is allocated.
type Sizer interface {
	OutputSize(in image.Point) image.Point
}
