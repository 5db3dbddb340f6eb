package imaging

import (
	"fmt"
	"strconv"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
	FormatPNG  Format = "png"
)

// OutputSpec is the encoding chosen for a pipeline. Weight is the quality weight
// advertised in the content type.
type OutputSpec struct {
	Format Format
	Weight float64
}

// DefaultOutput is used when a pipeline never selects a format.
var DefaultOutput = OutputSpec{Format: FormatJPEG, Weight: 0.95}

// ContentType renders the media type with the quality weight, eg. image/png;q=0.3.
func (s OutputSpec) ContentType() string {
	return fmt.Sprintf("image/%s;q=%s", s.Format, strconv.FormatFloat(s.Weight, 'f', -1, 64))
}

func (s OutputSpec) String() string {
	return s.ContentType()
}
