package command

import (
	"strings"

	"github.com/rm-hull/inteliver/internal/imaging"
)

// Pipeline is a fully validated command. It is never modified after Parse.
type Pipeline struct {
	Raw    string
	Stages []Stage
}

// Parse lexes, builds and validates a whole command string. The first failure is
// returned and no partial pipeline is produced.
func Parse(raw string) (*Pipeline, error) {
	lexed, err := Lex(raw)
	if err != nil {
		return nil, err
	}

	stages := make([]Stage, 0, len(lexed))
	for _, tokens := range lexed {
		st, err := buildStage(tokens)
		if err != nil {
			return nil, err
		}
		stages = append(stages, st)
	}
	return &Pipeline{Raw: strings.TrimSpace(raw), Stages: stages}, nil
}

// Output is the encoding chosen by the last format operation anywhere in the
// pipeline, or JPEG at 0.95 when there is none.
func (p *Pipeline) Output() imaging.OutputSpec {
	out := imaging.DefaultOutput
	for _, st := range p.Stages {
		for _, op := range st.Operations {
			if f, ok := op.(Format); ok {
				if spec, err := f.Output(); err == nil {
					out = spec
				}
			}
		}
	}
	return out
}

// Len is the total number of operations across all stages.
func (p *Pipeline) Len() int {
	n := 0
	for _, st := range p.Stages {
		n += len(st.Operations)
	}
	return n
}
