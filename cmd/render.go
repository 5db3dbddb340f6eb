package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rm-hull/inteliver/internal/configure"
	"github.com/rm-hull/inteliver/internal/imaging"
	"github.com/rm-hull/inteliver/internal/metrics"
	"github.com/rm-hull/inteliver/internal/pipeline"
	"github.com/rm-hull/inteliver/internal/service"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Render applies commands to a local image file and writes the encoded result.
func Render(ctx context.Context, cfg *configure.Config, commands, inFile, outFile string) error {
	f, err := os.Open(inFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inFile, err)
	}
	src, err := imaging.NewRasterFromReader(f)
	err = multierr.Append(err, f.Close())
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", inFile, err)
	}

	detector, err := newDetector(cfg)
	if err != nil {
		return err
	}

	resolver := pipeline.NewResolver(detector)
	resolver.Limits = cfg.ImageLimits()
	exec := pipeline.NewExecutor(resolver, metrics.Noop{})
	res, err := service.NewImageService(nil, nil, exec, metrics.Noop{}).Render(ctx, commands, src)
	if err != nil {
		return err
	}

	if err := os.WriteFile(outFile, res.Body, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outFile, err)
	}

	zap.S().Infow("rendered",
		"in", inFile,
		"out", outFile,
		"content_type", res.ContentType,
		"width", res.Width,
		"height", res.Height,
	)
	return nil
}
