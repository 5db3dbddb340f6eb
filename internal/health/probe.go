package health

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/go-co-op/gocron/v2"
	"github.com/tavsec/gin-healthcheck/checks"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Probe is a health check whose state is refreshed in the background, so that
// answering /healthz never waits on a remote service.
type Probe interface {
	checks.Check
	Run(ctx context.Context) error
}

type BucketAPI interface {
	HeadBucketWithContext(ctx aws.Context, input *s3.HeadBucketInput, opts ...request.Option) (*s3.HeadBucketOutput, error)
}

// S3Probe checks that every tenant bucket is reachable.
type S3Probe struct {
	client  BucketAPI
	buckets []string
	timeout time.Duration
	healthy atomic.Bool
}

func NewS3Probe(client BucketAPI, buckets []string, timeout time.Duration) *S3Probe {
	return &S3Probe{client: client, buckets: buckets, timeout: timeout}
}

func (p *S3Probe) Name() string {
	return "s3"
}

func (p *S3Probe) Pass() bool {
	return p.healthy.Load()
}

func (p *S3Probe) Run(ctx context.Context) error {
	var err error
	for _, bucket := range p.buckets {
		err = multierr.Append(err, p.head(ctx, bucket))
	}

	p.healthy.Store(err == nil)
	if err != nil {
		zap.S().Warnw("s3 is not responding", "buckets", p.buckets, "error", err)
	}
	return err
}

func (p *S3Probe) head(ctx context.Context, bucket string) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if _, err := p.client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("bucket %s: %w", bucket, err)
	}
	return nil
}

// NewScheduler runs every probe once, then again each interval.
func NewScheduler(interval time.Duration, probes ...Probe) (gocron.Scheduler, error) {
	runAll := func() {
		for _, p := range probes {
			_ = p.Run(context.Background())
		}
	}
	runAll()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(runAll),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	scheduler.Start()
	return scheduler, nil
}

// Checks adapts probes for the healthcheck handler.
func Checks(probes ...Probe) []checks.Check {
	out := make([]checks.Check, len(probes))
	for i, p := range probes {
		out[i] = p
	}
	return out
}
