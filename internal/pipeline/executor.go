package pipeline

import (
	"context"
	"fmt"

	"github.com/rm-hull/inteliver/internal/command"
	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/metrics"
	"go.uber.org/zap"
)

type Executor struct {
	resolver *Resolver
	metrics  metrics.Metrics
}

func NewExecutor(resolver *Resolver, m metrics.Metrics) *Executor {
	if m == nil {
		m = metrics.Noop{}
	}
	return &Executor{resolver: resolver, metrics: m}
}

// Execute runs every stage of p in order, each operation consuming the raster
// produced by the one before. Cancellation is honoured between operations only.
func (e *Executor) Execute(ctx context.Context, p *command.Pipeline, src *imaging.Raster) (*imaging.Raster, error) {
	current := src
	for i := range p.Stages {
		st := &p.Stages[i]
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stopped before stage %d: %w", i+1, err)
		}

		geo, err := e.resolver.Resolve(st, current)
		if err != nil {
			return nil, command.NewProcessingError(fmt.Sprintf("stage %d", i+1), err)
		}
		zap.S().Debugw("stage resolved", "stage", i+1, "params", st.String(), "center", geo.Center, "size", geo.Size, "face", geo.Face)

		stages := make([]imaging.PipelineStage, 0, len(st.Operations))
		for _, op := range st.Operations {
			stages = append(stages, &guarded{
				ctx:     ctx,
				stage:   i + 1,
				name:    op.Name(),
				next:    op.Bind(geo),
				limits:  e.resolver.Limits,
				metrics: e.metrics,
			})
		}

		if current, err = current.Pipeline(stages...); err != nil {
			return nil, err
		}
	}
	return current, nil
}

// guarded wraps a bound operation with the cancellation check, size limit and
// timing that apply to every operation of a pipeline.
type guarded struct {
	ctx     context.Context
	stage   int
	name    string
	next    imaging.PipelineStage
	limits  imaging.Limits
	metrics metrics.Metrics
}

func (g *guarded) Process(src *imaging.Raster) (*imaging.Raster, error) {
	if err := g.ctx.Err(); err != nil {
		return nil, fmt.Errorf("stopped before %s in stage %d: %w", g.name, g.stage, err)
	}

	if sizer, ok := g.next.(imaging.Sizer); ok {
		if err := g.limits.Check(sizer.OutputSize(src.Bounds.Size())); err != nil {
			return nil, command.NewProcessingError(g.name, err)
		}
	}

	done := g.metrics.Operation(g.name)
	out, err := g.next.Process(src)
	done()
	if err != nil {
		return nil, command.NewProcessingError(g.name, err)
	}
	return out, nil
}
