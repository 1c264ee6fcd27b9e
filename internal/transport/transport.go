// Package transport performs single HTTP exchanges against the Corpora API
// with consistent headers and a fixed base URL, and normalizes failures into
// one error shape.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// apiVersion is prefixed to every operation path.
const apiVersion = "/v1"

// refererMarker identifies SDK traffic to the API.
const refererMarker = "https://github.com/corpora-ai/gosdk"

// Config holds everything the transport needs at construction time.
type Config struct {
	// BaseURL is the scheme+host of the API, without the version prefix.
	BaseURL string
	// APIKey is sent as `Authorization: Token <key>` on every request.
	// An empty key omits the header entirely; it is not an error at this
	// layer.
	APIKey string
	// Logger receives request/response debug logging. Nil disables it.
	Logger *zap.Logger
	// HTTPClient optionally replaces the underlying *http.Client, mainly
	// for tests.
	HTTPClient *http.Client
}

// Envelope describes one HTTP exchange. A fresh Envelope is built per call
// and never reused.
type Envelope struct {
	Path   string
	Method string
	// Body is a flat mapping serialized to JSON for non-GET requests.
	// GET requests never carry a body.
	Body map[string]any
	// Form, when set, is sent as a multipart form instead of Body. The
	// Content-Type (and its boundary) is computed by the HTTP stack and
	// must not be set manually.
	Form map[string]string
	// Headers are per-request overrides merged over the defaults.
	Headers map[string]string
	// Stream requests the raw response body instead of a decoded one.
	Stream bool
}

// StatusError is the normalized non-2xx failure. Body holds the
// JSON-decoded error body with the numeric status code and status text
// merged in.
type StatusError struct {
	Body       map[string]any
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	if msg, ok := e.Body["message"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("request failed: %s", e.Status)
}

// Transport issues one HTTP exchange per Do call. All requests in flight
// through the same Transport share a single cancellation scope; Cancel
// aborts them all at once.
type Transport struct {
	rest *resty.Client
	log  *zap.Logger

	mu     sync.Mutex
	scope  context.Context
	cancel context.CancelFunc
}

// New creates a Transport bound to cfg.BaseURL plus the API version prefix.
func New(cfg Config) *Transport {
	var rest *resty.Client
	if cfg.HTTPClient != nil {
		rest = resty.NewWithClient(cfg.HTTPClient)
	} else {
		rest = resty.New()
	}
	rest.SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/") + apiVersion)
	rest.SetHeader("Referer", refererMarker)
	if cfg.APIKey != "" {
		rest.SetHeader("Authorization", "Token "+cfg.APIKey)
	}

	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	scope, cancel := context.WithCancel(context.Background())
	return &Transport{rest: rest, log: log, scope: scope, cancel: cancel}
}

// Cancel aborts every request currently in flight through this transport and
// immediately installs a fresh cancellation scope, so requests issued
// afterwards are unaffected. Cancellation is instance-wide; there is no
// per-call handle.
func (t *Transport) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancel()
	t.scope, t.cancel = context.WithCancel(context.Background())
}

func (t *Transport) currentScope() context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scope
}

// Do performs exactly one HTTP exchange described by env. On a 2xx response
// it returns the JSON body, or the raw body stream when env.Stream is set
// (the caller owns closing it). Any non-2xx response comes back as a
// *StatusError; everything else is a plain wrapped error.
func (t *Transport) Do(ctx context.Context, env Envelope) (json.RawMessage, io.ReadCloser, error) {
	// The request context answers to both the caller's context and the
	// transport-wide cancellation scope.
	reqCtx, cancelReq := context.WithCancel(ctx)
	stop := context.AfterFunc(t.currentScope(), cancelReq)
	release := func() {
		cancelReq()
		stop()
	}

	req := t.rest.R().SetContext(reqCtx)
	for k, v := range env.Headers {
		req.SetHeader(k, v)
	}
	switch {
	case env.Form != nil:
		req.SetMultipartFormData(env.Form)
	case env.Method != http.MethodGet && env.Body != nil:
		req.SetHeader("Content-Type", "application/json")
		req.SetBody(env.Body)
	}
	if env.Stream {
		req.SetDoNotParseResponse(true)
	}

	t.log.Debug("sending request",
		zap.String("method", env.Method),
		zap.String("path", env.Path),
		zap.Bool("stream", env.Stream),
	)

	resp, err := req.Execute(env.Method, env.Path)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("perform request: %w", err)
	}

	t.log.Debug("received response",
		zap.String("path", env.Path),
		zap.Int("status_code", resp.StatusCode()),
	)

	if env.Stream {
		raw := resp.RawBody()
		if resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
			body, readErr := io.ReadAll(raw)
			raw.Close()
			release()
			if readErr != nil {
				return nil, nil, fmt.Errorf("read error body: %w", readErr)
			}
			return nil, nil, t.statusError(resp, body)
		}
		// The stream outlives this call, so its cancellation lifetime is
		// tied to the body handed upward.
		return nil, &streamBody{body: raw, release: release}, nil
	}

	defer release()
	if !resp.IsSuccess() {
		return nil, nil, t.statusError(resp, resp.Body())
	}

	// Some operations answer 2xx with no body at all.
	if len(resp.Body()) == 0 {
		return nil, nil, nil
	}

	var probe any
	if err := json.Unmarshal(resp.Body(), &probe); err != nil {
		return nil, nil, fmt.Errorf("decode response body: %w", err)
	}
	return json.RawMessage(resp.Body()), nil, nil
}

func (t *Transport) statusError(resp *resty.Response, body []byte) error {
	merged := map[string]any{}
	if err := json.Unmarshal(body, &merged); err != nil {
		return fmt.Errorf("decode error body (status %s): %w", resp.Status(), err)
	}
	merged["status_code"] = resp.StatusCode()
	merged["status"] = resp.Status()
	return &StatusError{
		Body:       merged,
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
	}
}

// streamBody closes the underlying response body and releases the request's
// cancellation resources in one step.
type streamBody struct {
	body    io.ReadCloser
	release func()
	once    sync.Once
}

func (s *streamBody) Read(p []byte) (int, error) { return s.body.Read(p) }

func (s *streamBody) Close() error {
	err := s.body.Close()
	s.once.Do(s.release)
	return err
}
