package command

import (
	"fmt"
	"sort"
	"strings"
)

// ArgKind is the declared type of one operation argument.
type ArgKind int

const (
	ArgInteger ArgKind = iota
	ArgDecimal
	ArgEnum
	ArgText
)

func (k ArgKind) String() string {
	switch k {
	case ArgInteger:
		return "int"
	case ArgDecimal:
		return "decimal"
	case ArgEnum:
		return "enum"
	case ArgText:
		return "text"
	default:
		return fmt.Sprintf("arg(%d)", int(k))
	}
}

// ArgSpec describes a single positional argument.
type ArgSpec struct {
	Name   string
	Kind   ArgKind
	Values []string // allowed values for ArgEnum
}

// Value is a converted argument. Only the field matching the spec kind is set.
type Value struct {
	Int     int
	Decimal float64
	Text    string
}

// Signature declares an operation's name, arity and argument types. Arguments past
// Min are optional.
type Signature struct {
	Name        string
	Args        []ArgSpec
	Min         int
	Description string
	build       func(stage *Stage, args []Value, token string) (Operation, error)
}

func (s Signature) Max() int {
	return len(s.Args)
}

func (s Signature) Usage() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	for i, a := range s.Args {
		name := a.Name
		if a.Kind == ArgEnum {
			name = strings.Join(a.Values, "|")
		}
		if i >= s.Min {
			name = "[" + name + "]"
		}
		sb.WriteString("_")
		sb.WriteString(name)
	}
	return sb.String()
}

// Catalogue is the fixed set of operations, keyed by name.
var Catalogue = map[string]Signature{
	OpResize: {
		Name:        OpResize,
		Description: "Scale to the stage height/width, ignoring aspect ratio.",
		build: func(st *Stage, _ []Value, token string) (Operation, error) {
			if err := st.requireSize(token, OpResize); err != nil {
				return nil, err
			}
			return Resize{}, nil
		},
	},
	OpResizeKeep: {
		Name:        OpResizeKeep,
		Description: "Fit inside the stage height/width keeping aspect ratio, then letterbox.",
		build: func(st *Stage, _ []Value, token string) (Operation, error) {
			if err := st.requireSize(token, OpResizeKeep); err != nil {
				return nil, err
			}
			return ResizeKeep{}, nil
		},
	},
	OpCrop: {
		Name:        OpCrop,
		Description: "Extract the stage box around the stage center.",
		build: func(st *Stage, _ []Value, token string) (Operation, error) {
			if st.Center.Kind != CenterFace {
				if err := st.requireSize(token, OpCrop); err != nil {
					return nil, err
				}
			}
			return Crop{}, nil
		},
	},
	OpRoundCrop: {
		Name:        OpRoundCrop,
		Description: "Mask everything outside the ellipse inscribed in the frame.",
		build: func(*Stage, []Value, string) (Operation, error) {
			return RoundCrop{}, nil
		},
	},
	OpRotate: {
		Name: OpRotate,
		Args: []ArgSpec{
			{Name: "degrees", Kind: ArgDecimal},
			{Name: "scale", Kind: ArgDecimal},
		},
		Min:         1,
		Description: "Rotate clockwise about the stage center, optionally scaling the result.",
		build: func(_ *Stage, args []Value, token string) (Operation, error) {
			op := Rotate{Degrees: args[0].Decimal, Scale: 1}
			if len(args) > 1 {
				if args[1].Decimal <= 0 {
					return nil, unprocessableArguments(token, errNotPositive, "scale")
				}
				if args[1].Decimal > MaxScale {
					return nil, unprocessableArguments(token, errAbove(MaxScale), "scale")
				}
				op.Scale = args[1].Decimal
			}
			return op, nil
		},
	},
	OpFlip: {
		Name:        OpFlip,
		Args:        []ArgSpec{{Name: "direction", Kind: ArgEnum, Values: []string{"v", "h", "b"}}},
		Min:         1,
		Description: "Mirror vertically, horizontally or both.",
		build: func(_ *Stage, args []Value, _ string) (Operation, error) {
			return Flip{Direction: args[0].Text}, nil
		},
	},
	OpBlur: {
		Name:        OpBlur,
		Args:        []ArgSpec{{Name: "radius", Kind: ArgInteger}},
		Min:         1,
		Description: "Gaussian blur over the stage region.",
		build: func(_ *Stage, args []Value, token string) (Operation, error) {
			if args[0].Int <= 0 {
				return nil, unprocessableArguments(token, errNotPositive, "radius")
			}
			if args[0].Int > MaxBlurRadius {
				return nil, unprocessableArguments(token, errAbove(MaxBlurRadius), "radius")
			}
			return Blur{Radius: args[0].Int}, nil
		},
	},
	OpPixelate: {
		Name:        OpPixelate,
		Args:        []ArgSpec{{Name: "block", Kind: ArgInteger}},
		Min:         1,
		Description: "Mosaic the stage region with square tiles.",
		build: func(_ *Stage, args []Value, token string) (Operation, error) {
			if args[0].Int <= 0 {
				return nil, unprocessableArguments(token, errNotPositive, "block size")
			}
			if args[0].Int > MaxSide {
				return nil, unprocessableArguments(token, errAbove(MaxSide), "block size")
			}
			return Pixelate{BlockSize: args[0].Int}, nil
		},
	},
	OpSharpen: {
		Name:        OpSharpen,
		Description: "Unsharp mask over the stage region.",
		build: func(*Stage, []Value, string) (Operation, error) {
			return Sharpen{}, nil
		},
	},
	OpGray: {
		Name:        OpGray,
		Description: "Grayscale the stage region.",
		build: func(*Stage, []Value, string) (Operation, error) {
			return Gray{}, nil
		},
	},
	OpFormat: {
		Name: OpFormat,
		Args: []ArgSpec{
			{Name: "format", Kind: ArgEnum, Values: []string{formatJPG, formatWebP, formatPNG}},
			{Name: "quality", Kind: ArgInteger},
		},
		Min:         1,
		Description: "Select the output format and quality.",
		build: func(_ *Stage, args []Value, token string) (Operation, error) {
			op := Format{Target: args[0].Text}
			if len(args) > 1 {
				q := args[1].Int
				op.Quality = &q
			}
			if _, err := op.Output(); err != nil {
				return nil, unprocessableArguments(token, err, "quality")
			}
			return op, nil
		},
	},
	OpText: {
		Name: OpText,
		Args: []ArgSpec{
			{Name: "text", Kind: ArgText},
			{Name: "size", Kind: ArgDecimal},
			{Name: "thickness", Kind: ArgDecimal},
			{Name: "r", Kind: ArgDecimal},
			{Name: "g", Kind: ArgDecimal},
			{Name: "b", Kind: ArgDecimal},
		},
		Min:         6,
		Description: "Overlay text centered on the stage center.",
		build: func(_ *Stage, args []Value, token string) (Operation, error) {
			if args[1].Decimal > MaxTextSize {
				return nil, unprocessableArguments(token, errAbove(MaxTextSize), "size")
			}
			return Text{
				Text:      args[0].Text,
				Size:      args[1].Decimal,
				Thickness: args[2].Decimal,
				Color:     [3]float64{args[3].Decimal, args[4].Decimal, args[5].Decimal},
			}, nil
		},
	},
}

// Names lists the catalogue in sorted order.
func Names() []string {
	names := make([]string, 0, len(Catalogue))
	for name := range Catalogue {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup matches the longest operation name at the start of fields, so that
// resize_keep wins over resize.
func lookup(fields []string) (Signature, []string, bool) {
	for n := len(fields); n > 0; n-- {
		if sig, ok := Catalogue[strings.Join(fields[:n], partSeparator)]; ok {
			return sig, fields[n:], true
		}
	}
	return Signature{}, nil, false
}

// Validate converts a raw call into a typed operation of the stage.
func (s Signature) Validate(st *Stage, call OperationCall) (Operation, error) {
	if len(call.Args) < s.Min {
		return nil, insufficientArguments(call.Token, "%s needs at least %d argument(s), usage %s", s.Name, s.Min, s.Usage())
	}
	if len(call.Args) > s.Max() {
		return nil, unprocessableArguments(call.Token, nil, "%s takes at most %d argument(s), usage %s", s.Name, s.Max(), s.Usage())
	}

	values := make([]Value, len(call.Args))
	for i, raw := range call.Args {
		v, err := convert(s.Args[i], raw)
		if err != nil {
			return nil, unprocessableArguments(call.Token, err, "%s argument %s", s.Name, s.Args[i].Name)
		}
		values[i] = v
	}
	return s.build(st, values, call.Token)
}

func convert(spec ArgSpec, raw string) (Value, error) {
	switch spec.Kind {
	case ArgInteger:
		n, err := parseInteger(raw)
		return Value{Int: n}, err
	case ArgDecimal:
		f, err := parseDecimal(raw)
		return Value{Decimal: f}, err
	case ArgEnum:
		for _, allowed := range spec.Values {
			if raw == allowed {
				return Value{Text: raw}, nil
			}
		}
		return Value{}, fmt.Errorf("%q is not one of %s", raw, strings.Join(spec.Values, ", "))
	case ArgText:
		return Value{Text: raw}, nil
	default:
		return Value{}, fmt.Errorf("unsupported argument kind %s", spec.Kind)
	}
}
