package register

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/navarrastar/review-register/pkg/models"
	"github.com/navarrastar/review-register/pkg/telemetry"
)

const (
	RegisterPath      = "/register"
	CampaignStartPath = "/campaign-start"

	RequestIDHeader = "X-Request-ID"
)

// Client defines the interface for the registration endpoints
type Client interface {
	Register(ctx context.Context, payload models.RegistrationPayload) (*Response, error)
	StartCampaign(ctx context.Context) (*Response, error)
}

// Response is a completed request that returned HTTP 200.
type Response struct {
	Status    int
	Body      string
	RequestID string
}

// NetworkError is returned when no response was received.
type NetworkError struct {
	Op        string
	RequestID string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error calling %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerRejectedError is returned for any completed response whose status is not 200.
type ServerRejectedError struct {
	Op        string
	Status    int
	Body      string
	RequestID string
}

func (e *ServerRejectedError) Error() string {
	return fmt.Sprintf("%s rejected with status %d: %s", e.Op, e.Status, e.Body)
}

type clientImpl struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new registration client. A nil httpClient uses one with no timeout.
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &clientImpl{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *clientImpl) Register(ctx context.Context, payload models.RegistrationPayload) (*Response, error) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error creating payload: %w", err)
	}
	return c.post(ctx, RegisterPath, jsonPayload)
}

func (c *clientImpl) StartCampaign(ctx context.Context) (*Response, error) {
	return c.post(ctx, CampaignStartPath, nil)
}

func (c *clientImpl) post(ctx context.Context, path string, body []byte) (*Response, error) {
	requestID := uuid.NewString()

	ctx, span := telemetry.Tracer().Start(ctx, "POST "+path)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.request.method", http.MethodPost),
		attribute.String("url.path", path),
		attribute.String("request.id", requestID),
	)

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return nil, &NetworkError{Op: path, RequestID: requestID, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reading response")
		return nil, &NetworkError{Op: path, RequestID: requestID, Err: fmt.Errorf("error reading response: %w", err)}
	}
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, resp.Status)
		return nil, &ServerRejectedError{
			Op:        path,
			Status:    resp.StatusCode,
			Body:      string(respBody),
			RequestID: requestID,
		}
	}

	c.logger.Debug("received response",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.String("body", string(respBody)),
	)
	return &Response{Status: resp.StatusCode, Body: string(respBody), RequestID: requestID}, nil
}
