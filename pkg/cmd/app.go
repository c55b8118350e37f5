package cmd

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/navarrastar/review-register/pkg/clients/register"
	"github.com/navarrastar/review-register/pkg/config"
	"github.com/navarrastar/review-register/pkg/controller"
	"github.com/navarrastar/review-register/pkg/logging"
	"github.com/navarrastar/review-register/pkg/metric"
	"github.com/navarrastar/review-register/pkg/services"
	"github.com/navarrastar/review-register/pkg/storage"
	"github.com/navarrastar/review-register/pkg/telemetry"
	"github.com/navarrastar/review-register/pkg/validation"
	"github.com/navarrastar/review-register/pkg/view"
)

// app holds everything one command invocation needs.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metric.SubmissionMetrics
	out     io.Writer

	shutdownTracer func(context.Context) error
}

func newApp(ctx context.Context, out, errOut io.Writer) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metric.NewSubmissionMetrics(),
		out:     out,
	}

	if cfg.TraceStdout {
		shutdown, err := telemetry.InitTracer(ctx, errOut)
		if err != nil {
			return nil, err
		}
		a.shutdownTracer = shutdown
	}
	return a, nil
}

// close flushes traces and metrics. Failures are logged, not returned.
func (a *app) close(ctx context.Context) {
	if a.shutdownTracer != nil {
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Warn("error shutting down tracer provider", zap.Error(err))
		}
	}
	if a.cfg.MetricsTextfile != "" {
		if err := a.metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			a.logger.Warn("error writing metrics", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func (a *app) draft() *storage.FileRepository {
	return storage.NewFileRepository(a.cfg.DraftPath, a.logger)
}

func (a *app) controller(repo controller.FormRepository, countryCodePrefix bool) *controller.PageController {
	client := register.NewClient(a.cfg.BaseURL, &http.Client{Timeout: a.cfg.RequestTimeout}, a.logger)
	submitter := services.NewSubmitter(
		client,
		services.SubmitterConfig{CountryCodePrefix: countryCodePrefix},
		a.logger,
		a.metrics,
	)
	return controller.NewPageController(repo, validation.Default(), submitter, view.NewTerminal(a.out), controller.Options{
		GateCampaignSuccess: a.cfg.GateCampaignSuccess,
		Logger:              a.logger,
		Metrics:             a.metrics,
	})
}
