package command

import "strings"

// OperationCall is an operation as written in the command, before its
// arguments are type checked.
type OperationCall struct {
	Name  string
	Args  []string
	Token string
}

// Stage is one slash-delimited segment of a command. Its parameters apply only to
// its own operations.
type Stage struct {
	Height     Dimension
	Width      Dimension
	Center     CenterSpec
	Calls      []OperationCall
	Operations []Operation
}

// HasSize reports whether a height or width was declared.
func (st *Stage) HasSize() bool {
	return st.Height.IsSet() || st.Width.IsSet()
}

func (st *Stage) requireSize(token, op string) error {
	if !st.HasSize() {
		return insufficientArguments(token, "%s needs a stage height or width", op)
	}
	return nil
}

func (st *Stage) String() string {
	parts := make([]string, 0, len(st.Calls)+3)
	if st.Height.IsSet() {
		parts = append(parts, "h="+st.Height.String())
	}
	if st.Width.IsSet() {
		parts = append(parts, "w="+st.Width.String())
	}
	if st.Center.Kind != CenterImplicit {
		parts = append(parts, "c="+st.Center.String())
	}
	for _, call := range st.Calls {
		parts = append(parts, call.Name)
	}
	return strings.Join(parts, " ")
}

// buildStage applies the tokens of one segment in order, then validates every
// operation call against the final stage parameters.
func buildStage(tokens []Token) (Stage, error) {
	var st Stage
	for _, tok := range tokens {
		switch tok.Category {
		case CategoryHeight, CategoryWidth:
			d, err := singleDimension(tok)
			if err != nil {
				return Stage{}, err
			}
			if tok.Category == CategoryHeight {
				st.Height = d
			} else {
				st.Width = d
			}

		case CategoryCenter:
			axis := tok.Args[0]
			if axis == centerFace {
				st.Center = CenterSpec{Kind: CenterFace}
				continue
			}
			v, err := singleOffset(tok)
			if err != nil {
				return Stage{}, err
			}
			st.Center = st.Center.withAxis(axis, v)

		case CategoryOperation:
			sig, args, ok := lookup(tok.Args)
			if !ok {
				return Stage{}, invalidOperation(tok.Raw, strings.Join(tok.Args, partSeparator))
			}
			st.Calls = append(st.Calls, OperationCall{Name: sig.Name, Args: args, Token: tok.Raw})
		}
	}

	st.Operations = make([]Operation, 0, len(st.Calls))
	for _, call := range st.Calls {
		op, err := Catalogue[call.Name].Validate(&st, call)
		if err != nil {
			return Stage{}, err
		}
		st.Operations = append(st.Operations, op)
	}
	return st, nil
}

func singleDimension(tok Token) (Dimension, error) {
	switch len(tok.Args) {
	case 0:
		return Dimension{}, insufficientArguments(tok.Raw, "%s needs a value", tok.Category)
	case 1:
	default:
		return Dimension{}, unprocessableArguments(tok.Raw, nil, "%s takes a single value", tok.Category)
	}

	d, err := ParseDimension(tok.Args[0])
	if err != nil {
		return Dimension{}, unprocessableArguments(tok.Raw, err, "bad %s", tok.Category)
	}
	return d, nil
}

func singleOffset(tok Token) (int, error) {
	axis := tok.Args[0]
	switch len(tok.Args) {
	case 1:
		return 0, insufficientArguments(tok.Raw, "center %s needs a value", axis)
	case 2:
	default:
		return 0, unprocessableArguments(tok.Raw, nil, "center %s takes a single value", axis)
	}

	v, err := parseInteger(tok.Args[1])
	if err != nil {
		return 0, unprocessableArguments(tok.Raw, err, "bad center %s", axis)
	}
	return v, nil
}
