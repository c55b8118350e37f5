package controller

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/navarrastar/review-register/pkg/clients/register"
	"github.com/navarrastar/review-register/pkg/metric"
	"github.com/navarrastar/review-register/pkg/models"
	"github.com/navarrastar/review-register/pkg/services"
)

// Page identifies which page the controls were clicked on.
type Page string

const (
	RegisterPage     Page = "/register"
	ControlPanelPage Page = "/control-panel"
)

// Element ids shared with the page markup.
const (
	FirstNameField   = "firstName"
	LastNameField    = "lastName"
	PhoneNumberField = "phoneNumber"
	EmailField       = "email"

	SubmitButton        = "form-submit-btn"
	StartCampaignButton = "start-campaign-btn"
	SuccessElement      = "text-submit-success"
)

const InvalidInputMessage = "Invalid Input"

var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnknownPage    = errors.New("unknown page")
	ErrUnknownControl = errors.New("unknown control")
)

// FormRepository is where the form fields live.
type FormRepository interface {
	Read() models.RegistrationForm
	Clear()
}

// FormValidator reports every failing field of a form, or nil.
type FormValidator interface {
	ValidateForm(form models.RegistrationForm) error
}

// View is what the user sees.
type View interface {
	Alert(msg string)
	Show(elementID string)
	Fail(err error)
}

type handler func(ctx context.Context) (<-chan services.Result, error)

// PageController binds page controls to validation and submission.
type PageController struct {
	repo      FormRepository
	validator FormValidator
	submitter services.Submitter
	view      View
	logger    *zap.Logger
	metrics   *metric.SubmissionMetrics

	// gateCampaignSuccess delays the campaign success element until a 200 arrives.
	gateCampaignSuccess bool

	routes map[Page]map[string]handler
}

// Options configures a PageController. Every field is optional.
type Options struct {
	GateCampaignSuccess bool
	Logger              *zap.Logger
	Metrics             *metric.SubmissionMetrics
}

// NewPageController creates a controller for the register and control panel pages.
func NewPageController(
	repo FormRepository,
	validator FormValidator,
	submitter services.Submitter,
	view View,
	opts Options,
) *PageController {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	ctr := &PageController{
		repo:                repo,
		validator:           validator,
		submitter:           submitter,
		view:                view,
		logger:              opts.Logger,
		metrics:             opts.Metrics,
		gateCampaignSuccess: opts.GateCampaignSuccess,
	}
	ctr.routes = map[Page]map[string]handler{
		RegisterPage:     {SubmitButton: ctr.SubmitRegistration},
		ControlPanelPage: {StartCampaignButton: ctr.StartCampaign},
	}
	return ctr
}

// Click dispatches a button click on page. The returned channel delivers the
// request outcome after the page has been updated for it.
func (ctr *PageController) Click(ctx context.Context, page Page, control string) (<-chan services.Result, error) {
	controls, ok := ctr.routes[page]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, page)
	}
	h, ok := controls[control]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownControl, control, page)
	}
	return h(ctx)
}

// SubmitRegistration validates the form and submits it. An invalid form raises
// an alert and is never submitted. On success the form is cleared and the success
// element revealed.
func (ctr *PageController) SubmitRegistration(ctx context.Context) (<-chan services.Result, error) {
	form := ctr.repo.Read()
	if err := ctr.validator.ValidateForm(form); err != nil {
		ctr.metrics.Invalid(register.RegisterPath)
		ctr.logger.Info("form rejected", zap.Error(err))
		ctr.view.Alert(InvalidInputMessage)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	results := ctr.submitter.Submit(ctx, form)
	return ctr.forward(results,
		func(services.Result) {
			ctr.repo.Clear()
			ctr.view.Show(SuccessElement)
		},
		func(r services.Result) {
			ctr.view.Fail(r.Err)
		},
	), nil
}

// StartCampaign starts the campaign. Unless gated, the success element is revealed
// right away, before the request completes.
func (ctr *PageController) StartCampaign(ctx context.Context) (<-chan services.Result, error) {
	results := ctr.submitter.StartCampaign(ctx)
	if !ctr.gateCampaignSuccess {
		ctr.view.Show(SuccessElement)
	}

	return ctr.forward(results,
		func(services.Result) {
			if ctr.gateCampaignSuccess {
				ctr.view.Show(SuccessElement)
			}
		},
		func(r services.Result) {
			ctr.view.Fail(r.Err)
		},
	), nil
}

func (ctr *PageController) forward(results <-chan services.Result, onSuccess, onFailure func(services.Result)) <-chan services.Result {
	out := make(chan services.Result, 1)
	go func() {
		defer close(out)
		services.Then(results,
			func(r services.Result) {
				onSuccess(r)
				out <- r
			},
			func(r services.Result) {
				onFailure(r)
				out <- r
			},
		)
	}()
	return out
}
