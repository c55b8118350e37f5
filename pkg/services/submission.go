package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/navarrastar/review-register/pkg/clients/register"
	"github.com/navarrastar/review-register/pkg/metric"
	"github.com/navarrastar/review-register/pkg/models"
	"github.com/navarrastar/review-register/pkg/utils"
)

// CountryCode is prepended to the phone number when CountryCodePrefix is set.
const CountryCode = "+1"

// Result is the single outcome of one asynchronous request.
type Result struct {
	Body      string
	RequestID string
	Err       error
}

// OK reports whether the request completed with status 200.
func (r Result) OK() bool {
	return r.Err == nil
}

// Submitter defines the interface for sending registrations and starting campaigns.
// Each call issues exactly one request and delivers exactly one Result before the
// channel is closed. Calls are independent; nothing is de-duplicated.
type Submitter interface {
	Submit(ctx context.Context, form models.RegistrationForm) <-chan Result
	StartCampaign(ctx context.Context) <-chan Result
}

// SubmitterConfig selects the payload variant.
type SubmitterConfig struct {
	CountryCodePrefix bool
}

type submitterImpl struct {
	client  register.Client
	config  SubmitterConfig
	logger  *zap.Logger
	metrics *metric.SubmissionMetrics
}

// NewSubmitter creates a new submission service. logger and metrics may be nil.
func NewSubmitter(
	client register.Client,
	config SubmitterConfig,
	logger *zap.Logger,
	metrics *metric.SubmissionMetrics,
) Submitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &submitterImpl{
		client:  client,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

// BuildPayload converts a form into the wire body for the configured mode.
func BuildPayload(form models.RegistrationForm, config SubmitterConfig) models.RegistrationPayload {
	phone := form.PhoneNumber
	if config.CountryCodePrefix {
		phone = CountryCode + phone
	}
	return models.RegistrationPayload{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		PhoneNumber: phone,
		Email:       form.Email,
	}
}

func (s *submitterImpl) Submit(ctx context.Context, form models.RegistrationForm) <-chan Result {
	payload := BuildPayload(form, s.config)
	logger := s.logger.With(
		zap.String("endpoint", register.RegisterPath),
		zap.String("phone_ref", utils.PhoneRef(form.PhoneNumber)),
	)
	logger.Info("submitting registration",
		zap.Bool("country_code_prefix", s.config.CountryCodePrefix))

	return s.run(ctx, register.RegisterPath, logger, func(ctx context.Context) (*register.Response, error) {
		return s.client.Register(ctx, payload)
	})
}

func (s *submitterImpl) StartCampaign(ctx context.Context) <-chan Result {
	logger := s.logger.With(zap.String("endpoint", register.CampaignStartPath))
	logger.Info("starting campaign")

	return s.run(ctx, register.CampaignStartPath, logger, s.client.StartCampaign)
}

func (s *submitterImpl) run(
	ctx context.Context,
	endpoint string,
	logger *zap.Logger,
	call func(context.Context) (*register.Response, error),
) <-chan Result {
	results := make(chan Result, 1)

	go func() {
		defer close(results)

		start := time.Now()
		resp, err := call(ctx)
		elapsed := time.Since(start)

		if err != nil {
			s.metrics.Observe(endpoint, outcomeOf(err), elapsed)
			logger.Warn("request failed", zap.Error(err), zap.Duration("elapsed", elapsed))
			results <- Result{RequestID: requestIDOf(err), Err: err}
			return
		}

		s.metrics.Observe(endpoint, metric.OutcomeSuccess, elapsed)
		logger.Info("request succeeded",
			zap.String("request_id", resp.RequestID),
			zap.Duration("elapsed", elapsed))
		results <- Result{Body: resp.Body, RequestID: resp.RequestID}
	}()

	return results
}

// Then waits for the result and runs onSuccess for a 200 response, onFailure otherwise.
// A nil onFailure drops failures silently. It blocks until the channel delivers or closes.
func Then(results <-chan Result, onSuccess, onFailure func(Result)) {
	r, ok := <-results
	if !ok {
		return
	}
	if r.OK() {
		if onSuccess != nil {
			onSuccess(r)
		}
		return
	}
	if onFailure != nil {
		onFailure(r)
	}
}

func outcomeOf(err error) string {
	var rejected *register.ServerRejectedError
	if errors.As(err, &rejected) {
		return metric.OutcomeRejected
	}
	return metric.OutcomeNetwork
}

func requestIDOf(err error) string {
	var rejected *register.ServerRejectedError
	if errors.As(err, &rejected) {
		return rejected.RequestID
	}
	var netErr *register.NetworkError
	if errors.As(err, &netErr) {
		return netErr.RequestID
	}
	return ""
}
