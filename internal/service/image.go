package service

import (
	"context"
	"fmt"

	"github.com/rm-hull/inteliver/internal/command"
	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/metrics"
	"github.com/rm-hull/inteliver/internal/pipeline"
	"github.com/rm-hull/inteliver/internal/source"
	"github.com/rm-hull/inteliver/internal/tenant"
	"go.uber.org/zap"
)

type Request struct {
	Cloudname string
	Command   string
	Source    source.Kind
	// URI is the object key for S3 sources and the remote URL for HTTP ones.
	URI string
}

type Result struct {
	Body        []byte
	ContentType string
	Width       int
	Height      int
}

type ImageService struct {
	tenants  tenant.Registry
	sources  source.Fetcher
	executor *pipeline.Executor
	metrics  metrics.Metrics
}

func NewImageService(tenants tenant.Registry, sources source.Fetcher, executor *pipeline.Executor, m metrics.Metrics) *ImageService {
	if m == nil {
		m = metrics.Noop{}
	}
	return &ImageService{
		tenants:  tenants,
		sources:  sources,
		executor: executor,
		metrics:  m,
	}
}

// Process validates the command before anything is fetched, then runs it over
// the decoded source image and encodes the result.
func (s *ImageService) Process(ctx context.Context, req Request) (result *Result, err error) {
	done := s.metrics.StartRequest()
	defer func() {
		if err != nil {
			s.metrics.Rejected(string(Classify(err).Type))
		}
		done(err == nil)
	}()

	p, err := command.Parse(req.Command)
	if err != nil {
		return nil, err
	}

	t, err := s.tenants.Lookup(ctx, req.Cloudname)
	if err != nil {
		return nil, err
	}

	loc := source.Locator{Kind: req.Source, Bucket: t.Bucket, Key: req.URI}
	fetched := s.metrics.Fetch()
	data, err := s.sources.Fetch(ctx, loc)
	fetched()
	if err != nil {
		return nil, err
	}
	s.metrics.BytesFetched(len(data))

	src, err := imaging.Decode(data)
	if err != nil {
		return nil, err
	}

	out, err := s.executor.Execute(ctx, p, src)
	if err != nil {
		return nil, err
	}

	return s.encode(p, out)
}

// Render runs a command over an image that is already in memory.
func (s *ImageService) Render(ctx context.Context, commands string, src *imaging.Raster) (*Result, error) {
	p, err := command.Parse(commands)
	if err != nil {
		return nil, err
	}
	out, err := s.executor.Execute(ctx, p, src)
	if err != nil {
		return nil, err
	}
	return s.encode(p, out)
}

func (s *ImageService) encode(p *command.Pipeline, out *imaging.Raster) (*Result, error) {
	spec := p.Output()
	body, err := out.Encode(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", spec.Format, err)
	}
	s.metrics.BytesServed(len(body))

	zap.S().Debugw("image rendered", "command", p.Raw, "operations", p.Len(), "content_type", spec.ContentType(), "width", out.Width(), "height", out.Height(), "bytes", len(body))
	return &Result{
		Body:        body,
		ContentType: spec.ContentType(),
		Width:       out.Width(),
		Height:      out.Height(),
	}, nil
}
