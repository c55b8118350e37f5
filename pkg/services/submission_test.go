package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navarrastar/review-register/pkg/clients/register"
	"github.com/navarrastar/review-register/pkg/metric"
	"github.com/navarrastar/review-register/pkg/models"
	fake "github.com/navarrastar/review-register/pkg/testutil"
)

func janeDoe() models.RegistrationForm {
	return models.RegistrationForm{
		FirstName:   "Jane",
		LastName:    "Doe",
		PhoneNumber: "4155550123",
		Email:       "jane@doe.com",
	}
}

func await(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case r, ok := <-results:
		require.True(t, ok, "channel closed without a result")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for result")
		return Result{}
	}
}

func TestBuildPayload(t *testing.T) {
	prefixed := BuildPayload(janeDoe(), SubmitterConfig{CountryCodePrefix: true})
	assert.Equal(t, "+14155550123", prefixed.PhoneNumber)

	raw := BuildPayload(janeDoe(), SubmitterConfig{})
	assert.Equal(t, "4155550123", raw.PhoneNumber)
	assert.Equal(t, "Jane", raw.FirstName)
	assert.Equal(t, "Doe", raw.LastName)
	assert.Equal(t, "jane@doe.com", raw.Email)
}

func TestSubmitPrefixedBody(t *testing.T) {
	endpoint := fake.NewEndpoint(t)
	s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{CountryCodePrefix: true}, nil, nil)

	r := await(t, s.Submit(context.Background(), janeDoe()))
	require.True(t, r.OK())

	reqs := endpoint.Requests()
	require.Len(t, reqs, 1)
	assert.JSONEq(t,
		`{"firstName":"Jane","lastName":"Doe","phoneNumber":"+14155550123","email":"jane@doe.com"}`,
		string(reqs[0].Body))
}

func TestSubmitRawBodyRoundTrips(t *testing.T) {
	endpoint := fake.NewEndpoint(t)
	s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{}, nil, nil)

	r := await(t, s.Submit(context.Background(), janeDoe()))
	require.True(t, r.OK())

	var got models.RegistrationForm
	require.NoError(t, json.Unmarshal(endpoint.Requests()[0].Body, &got))
	assert.Equal(t, janeDoe(), got)
}

func TestSubmitDeliversOnceThenCloses(t *testing.T) {
	endpoint := fake.NewEndpoint(t)
	s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{}, nil, nil)

	results := s.Submit(context.Background(), janeDoe())
	await(t, results)

	_, ok := <-results
	assert.False(t, ok)
}

func TestSubmitIsAsynchronous(t *testing.T) {
	endpoint := fake.NewEndpoint(t)
	endpoint.Hold()
	s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{}, nil, nil)

	results := s.Submit(context.Background(), janeDoe())

	<-endpoint.Received()
	select {
	case <-results:
		t.Fatal("result delivered before the response")
	default:
	}

	endpoint.Release()
	assert.True(t, await(t, results).OK())
}

func TestSubmitFailures(t *testing.T) {
	t.Run("rejected", func(t *testing.T) {
		endpoint := fake.NewEndpoint(t)
		endpoint.SetStatus(http.StatusInternalServerError, "boom")
		metrics := metric.NewSubmissionMetrics()
		s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{}, nil, metrics)

		r := await(t, s.Submit(context.Background(), janeDoe()))

		var rejected *register.ServerRejectedError
		require.True(t, errors.As(r.Err, &rejected))
		assert.Equal(t, http.StatusInternalServerError, rejected.Status)
		assert.Equal(t, rejected.RequestID, r.RequestID)
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(register.RegisterPath, metric.OutcomeRejected)))
	})

	t.Run("network", func(t *testing.T) {
		endpoint := fake.NewEndpoint(t)
		url := endpoint.URL()
		endpoint.Server.Close()
		metrics := metric.NewSubmissionMetrics()
		s := NewSubmitter(register.NewClient(url, nil, nil), SubmitterConfig{}, nil, metrics)

		r := await(t, s.StartCampaign(context.Background()))

		var netErr *register.NetworkError
		require.True(t, errors.As(r.Err, &netErr))
		assert.False(t, r.OK())
		assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(register.CampaignStartPath, metric.OutcomeNetwork)))
	})
}

func TestStartCampaign(t *testing.T) {
	endpoint := fake.NewEndpoint(t)
	metrics := metric.NewSubmissionMetrics()
	s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{}, nil, metrics)

	r := await(t, s.StartCampaign(context.Background()))
	require.True(t, r.OK())

	reqs := endpoint.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, register.CampaignStartPath, reqs[0].Path)
	assert.Empty(t, reqs[0].Body)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(register.CampaignStartPath, metric.OutcomeSuccess)))
}

func TestConcurrentSubmissionsAreIndependent(t *testing.T) {
	endpoint := fake.NewEndpoint(t)
	s := NewSubmitter(register.NewClient(endpoint.URL(), nil, nil), SubmitterConfig{}, nil, nil)

	var mu sync.Mutex
	var all []<-chan Result
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ch := s.Submit(context.Background(), janeDoe())
			mu.Lock()
			all = append(all, ch)
			mu.Unlock()
		}()
	}
	wg.Wait()

	ids := make(map[string]bool)
	for _, ch := range all {
		r := await(t, ch)
		assert.True(t, r.OK())
		ids[r.RequestID] = true
	}
	assert.Len(t, ids, 5)
	assert.Len(t, endpoint.Requests(), 5)
}

func TestThen(t *testing.T) {
	deliver := func(r Result) <-chan Result {
		ch := make(chan Result, 1)
		ch <- r
		close(ch)
		return ch
	}

	t.Run("success", func(t *testing.T) {
		var got Result
		var failed bool
		Then(deliver(Result{Body: "ok"}), func(r Result) { got = r }, func(Result) { failed = true })
		assert.Equal(t, "ok", got.Body)
		assert.False(t, failed)
	})

	t.Run("failure", func(t *testing.T) {
		var succeeded bool
		var got error
		want := &register.ServerRejectedError{Status: http.StatusBadGateway}
		Then(deliver(Result{Err: want, RequestID: "req-1"}), func(Result) { succeeded = true }, func(r Result) { got = r.Err })
		assert.False(t, succeeded)
		assert.Equal(t, want, got)
	})

	t.Run("failure dropped", func(t *testing.T) {
		var succeeded bool
		assert.NotPanics(t, func() {
			Then(deliver(Result{Err: errors.New("x")}), func(Result) { succeeded = true }, nil)
		})
		assert.False(t, succeeded)
	})

	t.Run("closed without result", func(t *testing.T) {
		ch := make(chan Result)
		close(ch)
		var called bool
		Then(ch, func(Result) { called = true }, func(Result) { called = true })
		assert.False(t, called)
	})
}
