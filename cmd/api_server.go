package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Depado/ginprom"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rm-hull/inteliver/internal"
	"github.com/rm-hull/inteliver/internal/api"
	"github.com/rm-hull/inteliver/internal/configure"
	"github.com/rm-hull/inteliver/internal/health"
	"github.com/rm-hull/inteliver/internal/metrics"
	"github.com/rm-hull/inteliver/internal/pipeline"
	"github.com/rm-hull/inteliver/internal/service"
	"github.com/rm-hull/inteliver/internal/source"
	"github.com/rm-hull/inteliver/internal/tenant"
	healthcheck "github.com/tavsec/gin-healthcheck"
	hc_config "github.com/tavsec/gin-healthcheck/config"
	"go.uber.org/zap"
)

func ApiServer(cfg *configure.Config) error {
	internal.ShowVersion()
	internal.UserInfo()
	internal.EnvironmentVars()

	registry, err := tenant.NewStaticRegistry(cfg.Tenants)
	if err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}

	sess, err := source.NewS3Session(cfg.S3Options())
	if err != nil {
		return err
	}

	sources := source.Sources{
		source.KindS3:   source.NewS3FetcherFromSession(sess, cfg.HTTP.MaxBytes),
		source.KindHTTP: source.NewHTTPFetcher(&http.Client{}, cfg.HTTPTimeout(), cfg.HTTP.MaxBytes),
	}

	m := metrics.New(metrics.Options{Labels: cfg.Monitoring.Labels.ToPrometheus()})
	m.Register(prometheus.DefaultRegisterer)

	detector, err := newDetector(cfg)
	if err != nil {
		return err
	}

	resolver := pipeline.NewResolver(detector)
	resolver.Limits = cfg.ImageLimits()
	svc := service.NewImageService(registry, sources, pipeline.NewExecutor(resolver, m), m)

	probe := health.NewS3Probe(s3.New(sess), registry.Buckets(), 5*time.Second)
	sched, err := health.NewScheduler(cfg.ProbeInterval(), probe)
	if err != nil {
		return err
	}
	defer func() {
		if err := sched.Shutdown(); err != nil {
			zap.S().Errorw("failed to shutdown scheduler", "error", err)
		}
	}()

	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	prom := ginprom.New(
		ginprom.Engine(r),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/healthz"),
	)

	r.Use(
		gin.Recovery(),
		gin.LoggerWithWriter(gin.DefaultWriter, "/healthz", "/metrics"),
		prom.Instrument(),
		api.RequestID(),
	)

	if cfg.Server.Debug {
		zap.S().Warn("pprof endpoints are enabled and exposed. Do not run with this flag in production.")
		pprof.Register(r)
	}

	if err := healthcheck.New(r, hc_config.DefaultConfig(), health.Checks(probe)); err != nil {
		return fmt.Errorf("failed to initialize healthcheck: %w", err)
	}

	api.NewImageHandler(svc).Register(r.Group(cfg.Server.BasePath))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zap.S().Infow("starting HTTP API server", "port", cfg.Server.Port, "base_path", cfg.Server.BasePath, "tenants", len(cfg.Tenants))
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP API server failed to start on port %d: %w", cfg.Server.Port, err)
	}
	return nil
}
