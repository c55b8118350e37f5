// Package testutil serves a fake registration backend for tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/gin-gonic/gin"
)

// RecordedRequest is one request received by the Endpoint
type RecordedRequest struct {
	Method      string
	Path        string
	ContentType string
	RequestID   string
	Body        []byte
}

// Endpoint fakes POST /register and POST /campaign-start.
type Endpoint struct {
	Server *httptest.Server

	mu       sync.Mutex
	status   int
	body     string
	hold     chan struct{}
	requests []RecordedRequest
	received chan RecordedRequest
}

// NewEndpoint starts a fake backend answering 200 until SetStatus is called.
// The server is closed when the test ends.
func NewEndpoint(t interface{ Cleanup(func()) }) *Endpoint {
	gin.SetMode(gin.TestMode)

	e := &Endpoint{
		status:   http.StatusOK,
		body:     `{"status":"success","message":"Success"}`,
		received: make(chan RecordedRequest, 64),
	}

	router := gin.New()
	router.POST("/register", e.handle)
	router.POST("/campaign-start", e.handle)

	e.Server = httptest.NewServer(router)
	t.Cleanup(e.Close)
	return e
}

// URL is the base URL of the fake backend
func (e *Endpoint) URL() string {
	return e.Server.URL
}

// SetStatus sets the status code and body returned by later requests.
func (e *Endpoint) SetStatus(status int, body string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.body = body
}

// Hold makes the handlers block until Release is called.
func (e *Endpoint) Hold() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.hold = make(chan struct{})
}

func (e *Endpoint) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.hold != nil {
		close(e.hold)
		e.hold = nil
	}
}

// Received delivers each request as soon as it has been read, before any Hold.
func (e *Endpoint) Received() <-chan RecordedRequest {
	return e.received
}

// Requests returns a copy of every request received so far.
func (e *Endpoint) Requests() []RecordedRequest {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]RecordedRequest, len(e.requests))
	copy(out, e.requests)
	return out
}

func (e *Endpoint) Close() {
	e.Release()
	e.Server.Close()
}

func (e *Endpoint) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error reading request"})
		return
	}

	rec := RecordedRequest{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		ContentType: c.GetHeader("Content-Type"),
		RequestID:   c.GetHeader("X-Request-ID"),
		Body:        body,
	}

	e.mu.Lock()
	e.requests = append(e.requests, rec)
	status, respBody, hold := e.status, e.body, e.hold
	e.mu.Unlock()

	select {
	case e.received <- rec:
	default:
	}

	if hold != nil {
		select {
		case <-hold:
		case <-c.Request.Context().Done():
			return
		}
	}

	c.Data(status, "application/json; charset=utf-8", []byte(respBody))
}
