package colorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/five82/palette/internal/logging"
)

// Client talks to the color service HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	tracer    trace.Tracer
	requestID func() string
}

const (
	defaultAPIURL    = "http://127.0.0.1:7000"
	defaultUserAgent = "palette/0.1"
	requestTimeout   = 5 * time.Second
	maxErrorBody     = 4 << 10
	colorsPath       = "/colors"
	tracerName       = "github.com/five82/palette/internal/colorapi"
)

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTracer sets the tracer used for request spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) {
		if t != nil {
			c.tracer = t
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua = strings.TrimSpace(ua); ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient builds a Client for the service at apiURL.
func NewClient(apiURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		tracer:    otel.Tracer(tracerName),
		requestID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// List retrieves every color, optionally sorted by category on the server.
func (c *Client) List(ctx context.Context, sortByCategory bool) ([]Color, error) {
	rel := &url.URL{Path: colorsPath}
	if sortByCategory {
		rel.RawQuery = url.Values{"sortByCategory": []string{"true"}}.Encode()
	}
	var payload []Color
	if err := c.do(ctx, "list", http.MethodGet, rel, nil, &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Create stores a new color; the service assigns its ID.
func (c *Client) Create(ctx context.Context, in ColorInput) (Color, error) {
	var created Color
	if err := c.do(ctx, "create", http.MethodPost, &url.URL{Path: colorsPath}, in, &created); err != nil {
		return Color{}, err
	}
	return created, nil
}

// Update replaces the color with the given id.
func (c *Client) Update(ctx context.Context, id string, in ColorInput) (Color, error) {
	rel, err := itemURL("update", id)
	if err != nil {
		return Color{}, err
	}
	var updated Color
	if err := c.do(ctx, "update", http.MethodPut, rel, in, &updated); err != nil {
		return Color{}, err
	}
	return updated, nil
}

// Delete removes the color with the given id.
func (c *Client) Delete(ctx context.Context, id string) error {
	rel, err := itemURL("delete", id)
	if err != nil {
		return err
	}
	return c.do(ctx, "delete", http.MethodDelete, rel, nil, nil)
}

func itemURL(op, id string) (*url.URL, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, &Error{Kind: KindRequest, Op: op, Err: fmt.Errorf("color id required")}
	}
	return &url.URL{Path: colorsPath + "/" + url.PathEscape(id)}, nil
}

func (c *Client) do(ctx context.Context, op, method string, rel *url.URL, body, dest any) (err error) {
	if c == nil {
		return &Error{Kind: KindRequest, Op: op, Err: fmt.Errorf("client is nil")}
	}
	reqURL := c.baseURL.ResolveReference(rel)

	ctx, span := c.tracer.Start(ctx, "colorapi."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", reqURL.Path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, KindOf(err).String())
		}
		span.End()
	}()

	fail := func(kind Kind, cause error) *Error {
		return &Error{Kind: kind, Op: op, Method: method, Path: rel.String(), Err: cause}
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fail(KindRequest, fmt.Errorf("encode body: %w", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fail(KindRequest, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.requestID != nil {
		req.Header.Set("X-Request-ID", c.requestID())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Debug(logging.CatAPI, "request failed", "method", method, "path", reqURL.Path, "error", err)
		return fail(KindNoResponse, fmt.Errorf("execute request: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()
	logging.Debug(logging.CatAPI, "request", "method", method, "path", reqURL.Path,
		"status", resp.StatusCode, "elapsed", time.Since(start).Round(time.Millisecond))

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := fail(KindStatus, nil)
		apiErr.StatusCode = resp.StatusCode
		apiErr.Body = strings.TrimSpace(string(snippet))
		return apiErr
	}
	if dest == nil {
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(KindNoResponse, fmt.Errorf("read response: %w", err))
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fail(KindDecode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api_url %q: %w", apiURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api_url %q: missing host", apiURL)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
