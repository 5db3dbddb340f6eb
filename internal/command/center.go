package command

import "fmt"

const (
	centerFace = "face"
	centerX    = "x"
	centerY    = "y"
)

// CenterKind selects where a stage anchors its region.
type CenterKind int

const (
	// CenterImplicit is the geometric center of the raster.
	CenterImplicit CenterKind = iota
	// CenterFace is the center of the face found on the raster.
	CenterFace
	// CenterExplicit is an X/Y pixel offset from the geometric center.
	CenterExplicit
)

// CenterSpec is the center declared by a stage. An axis that was never given keeps
// a zero offset, ie. the geometric center on that axis.
type CenterSpec struct {
	Kind CenterKind
	X    int
	Y    int
}

func (c CenterSpec) String() string {
	switch c.Kind {
	case CenterFace:
		return centerFace
	case CenterExplicit:
		return fmt.Sprintf("(%+d,%+d)", c.X, c.Y)
	default:
		return "center"
	}
}

// withAxis returns the spec with one explicit axis updated. A later c_face or
// c_x/c_y replaces the previous form, matching "last wins" for stage parameters.
func (c CenterSpec) withAxis(axis string, v int) CenterSpec {
	if c.Kind != CenterExplicit {
		c = CenterSpec{Kind: CenterExplicit}
	}
	if axis == centerX {
		c.X = v
	} else {
		c.Y = v
	}
	return c
}
