// Package identity is a typed client for the identity and policy service
// (users, groups, policies and permission masks).
//
// The client is a thin translation layer: one method per remote operation,
// one HTTP round trip per call, no caching and no retries. Failures are
// returned as *APIError classified by ErrorKind; retry policy belongs to the
// caller.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/argo-platform/program-service/internal/telemetry"
)

const (
	tracerName = "programapi/identity"

	defaultTimeout  = 10 * time.Second
	defaultPageSize = 100

	// maxResponseBytes bounds how much of a response body is read.
	maxResponseBytes = 4 << 20
)

// Config holds configuration for creating a Client.
type Config struct {
	// BaseURL is the root URL of the identity service API.
	BaseURL string

	// HTTPClient is used for all requests. Defaults to a client over NewTransport.
	HTTPClient *http.Client

	// TokenSource supplies the service credential. When nil requests are unauthenticated.
	TokenSource oauth2.TokenSource

	// RequestTimeout bounds each call. Exceeding it yields a KindTransient error.
	RequestTimeout time.Duration

	// Limiter throttles outbound calls. Optional.
	Limiter *rate.Limiter

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *telemetry.IdentityMetrics
}

// Client is a typed identity service API client. It is safe for concurrent use;
// the underlying connection pool is the only shared resource.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	limiter    *rate.Limiter
	logger     *slog.Logger
	metrics    *telemetry.IdentityMetrics
}

// NewTransport returns a pooled transport for identity service traffic.
func NewTransport(maxIdleConns int) *http.Transport {
	if maxIdleConns <= 0 {
		maxIdleConns = 32
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConns = maxIdleConns
	transport.MaxIdleConnsPerHost = maxIdleConns
	transport.IdleConnTimeout = 90 * time.Second
	transport.TLSHandshakeTimeout = 10 * time.Second
	return transport
}

// NewClient creates a client from the given configuration.
func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		return nil, errors.New("identity: BaseURL is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("identity: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Transport: NewTransport(0)}
	}
	if cfg.TokenSource != nil {
		base := httpClient.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		wrapped := *httpClient
		wrapped.Transport = &oauth2.Transport{Source: oauth2.ReuseTokenSource(nil, cfg.TokenSource), Base: base}
		httpClient = &wrapped
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		timeout:    timeout,
		limiter:    cfg.Limiter,
		logger:     logger,
		metrics:    cfg.Metrics,
	}, nil
}

// request describes one call. name is a low-cardinality label ("CreateGroup")
// used for spans and metrics; path is the concrete URL path.
type request struct {
	name   string
	method string
	path   string
	query  url.Values
	body   any
}

// do executes a request and JSON-decodes a 2xx response into out (when non-nil).
func (c *Client) do(ctx context.Context, req request, out any) error {
	body, err := c.doRaw(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &APIError{
			Kind:   KindInvalid,
			Method: req.method,
			Path:   req.path,
			Err:    fmt.Errorf("decode response: %w", err),
		}
	}
	return nil
}

// doRaw executes a request and returns the raw 2xx response body.
// The response body is closed on every path.
func (c *Client) doRaw(ctx context.Context, req request) ([]byte, error) {
	ctx, span := telemetry.StartSpan(ctx, tracerName, "identity."+req.name,
		attribute.String(telemetry.AttrIdentityMethod, req.method),
		attribute.String(telemetry.AttrIdentityPath, req.path),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	status, body, err := c.roundTrip(ctx, req)
	durationMs := float64(time.Since(start).Microseconds()) / 1000.0

	var errKind string
	if err != nil {
		errKind = string(KindOf(err))
		span.SetAttributes(attribute.String(telemetry.AttrIdentityErrKind, errKind))
		telemetry.RecordError(span, err)
		c.logger.Debug("identity request failed",
			"call", req.name,
			"method", req.method,
			"path", req.path,
			"status", status,
			"error", err,
		)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrIdentityStatus, status))
	c.metrics.RecordRequest(ctx, req.method, req.name, status, errKind, durationMs)

	return body, err
}

func (c *Client) roundTrip(ctx context.Context, req request) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, &APIError{Kind: KindTransient, Method: req.method, Path: req.path, Err: err}
		}
	}

	u := c.baseURL + req.path
	if len(req.query) > 0 {
		u += "?" + req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return 0, nil, fmt.Errorf("identity: encode %s body: %w", req.name, err)
		}
		reader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("identity: build request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if reader != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, transportError(req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, &APIError{
			Kind:       KindTransient,
			StatusCode: resp.StatusCode,
			Method:     req.method,
			Path:       req.path,
			Err:        fmt.Errorf("read response body: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, &APIError{
			Kind:       KindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Method:     req.method,
			Path:       req.path,
			Message:    errorMessage(body),
		}
	}
	return resp.StatusCode, body, nil
}

// transportError classifies failures that produced no HTTP response. A rejected
// token exchange is a credential problem; everything else (dial errors, resets,
// deadline exceeded) is transient.
func transportError(req request, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
		kind := KindForStatus(retrieveErr.Response.StatusCode)
		if kind == KindInvalid {
			kind = KindUnauthorized
		}
		return &APIError{
			Kind:       kind,
			StatusCode: retrieveErr.Response.StatusCode,
			Method:     req.method,
			Path:       req.path,
			Message:    "service credential rejected",
			Err:        err,
		}
	}
	return &APIError{Kind: KindTransient, Method: req.method, Path: req.path, Err: err}
}

// errorMessage extracts a human readable message from an error body.
func errorMessage(body []byte) string {
	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		if parsed.Message != "" {
			return parsed.Message
		}
		if parsed.Error != "" {
			return parsed.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 256 {
		msg = msg[:256] + "..."
	}
	return msg
}

func listQuery(opts ListOptions) url.Values {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	q := url.Values{}
	q.Set("offset", strconv.Itoa(opts.Offset))
	q.Set("limit", strconv.Itoa(limit))
	if opts.Query != "" {
		q.Set("query", opts.Query)
	}
	return q
}

func escape(id string) string {
	return url.PathEscape(id)
}
