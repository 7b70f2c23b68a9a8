// Package api implements the REST client for the external shop and auth API.
// Every response is wrapped in a {data, meta} envelope; errors carry the
// server's message, status code, and raw payload. The client never retries:
// failures are terminal per user action.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/haugland/velour/internal/catalog"
	"github.com/haugland/velour/internal/session"
	"github.com/haugland/velour/pkg/httpclient"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://v2.api.noroff.dev"

const (
	shopPath = "/online-shop"
	authPath = "/auth"
)

// Meta is the pagination metadata attached to every list envelope. The core
// accepts it but is not required to act on it.
type Meta struct {
	IsFirstPage  *bool `json:"isFirstPage,omitempty"`
	IsLastPage   *bool `json:"isLastPage,omitempty"`
	CurrentPage  *int  `json:"currentPage,omitempty"`
	PreviousPage *int  `json:"previousPage,omitempty"`
	NextPage     *int  `json:"nextPage,omitempty"`
	PageCount    *int  `json:"pageCount,omitempty"`
	TotalCount   *int  `json:"totalCount,omitempty"`
}

// ClientConfig configures a Client. Zero values pick sensible defaults.
type ClientConfig struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string
	// Tokens supplies the bearer token for authenticated requests. May be nil.
	Tokens httpclient.TokenSource
	// Timeout bounds a single request. Defaults to 10s.
	Timeout time.Duration
	// TracerProvider enables tracing of outbound requests. May be nil.
	TracerProvider trace.TracerProvider
	// Transport is the base transport, overridable in tests. May be nil.
	Transport http.RoundTripper
}

// Client is the HTTP client for the external catalog and auth endpoints.
type Client struct {
	http    *http.Client
	baseURL string
	tracer  trace.Tracer
}

// NewClient builds a Client with an instrumented transport: otel HTTP
// spans, request IDs, bearer token injection, and request logging.
func NewClient(cfg ClientConfig) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = noop.NewTracerProvider()
	}

	middlewares := []httpclient.Middleware{
		httpclient.RequestID(),
		httpclient.LogRequests(),
	}
	if cfg.Tokens != nil {
		middlewares = append(middlewares, httpclient.Bearer(cfg.Tokens))
	}

	transport := otelhttp.NewTransport(
		httpclient.Wrap(cfg.Transport, middlewares...),
		otelhttp.WithTracerProvider(tp),
	)

	return &Client{
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		tracer:  tp.Tracer("velour/api"),
	}
}

// Products fetches the full product collection.
func (c *Client) Products(ctx context.Context) ([]catalog.Product, Meta, error) {
	var env envelope[[]catalog.Product]
	if err := c.get(ctx, shopPath, nil, &env); err != nil {
		return nil, Meta{}, err
	}
	return env.Data, env.Meta, nil
}

// ProductByID fetches a single product. A 404 maps to catalog.ErrNotFound so
// callers can distinguish "not found" from other failures.
func (c *Client) ProductByID(ctx context.Context, id string) (*catalog.Product, error) {
	var env envelope[catalog.Product]
	err := c.get(ctx, shopPath+"/"+url.PathEscape(id), nil, &env)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, catalog.ErrNotFound
		}
		return nil, err
	}
	return &env.Data, nil
}

// SearchProducts runs a free-text search against the catalog.
func (c *Client) SearchProducts(ctx context.Context, query string) ([]catalog.Product, Meta, error) {
	q := url.Values{"q": []string{query}}
	var env envelope[[]catalog.Product]
	if err := c.get(ctx, shopPath, q, &env); err != nil {
		return nil, Meta{}, err
	}
	return env.Data, env.Meta, nil
}

// RegisterRequest holds the profile fields for account registration.
type RegisterRequest struct {
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Bio      string         `json:"bio,omitempty"`
	Avatar   *catalog.Media `json:"avatar,omitempty"`
	Banner   *catalog.Media `json:"banner,omitempty"`
}

// Register creates a new account and returns the created user profile.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*session.User, error) {
	var env envelope[session.User]
	if err := c.post(ctx, authPath+"/register", req, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates with email and password, returning the user record
// including the bearer access token.
func (c *Client) Login(ctx context.Context, email, password string) (*session.User, error) {
	var env envelope[session.User]
	if err := c.post(ctx, authPath+"/login", loginRequest{Email: email, Password: password}, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// envelope is the {data, meta} wrapper on every successful response.
type envelope[T any] struct {
	Data T    `json:"data"`
	Meta Meta `json:"meta"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// do performs a single request. Network failures come back as plain wrapped
// errors; HTTP failures come back as *Error. No retries in either case.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return errors.Wrap(err, "request "+path)
	}
	defer func() { _ = resp.Body.Close() }()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		span.SetStatus(codes.Error, strconv.Itoa(resp.StatusCode))
		return newError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return errors.Wrap(err, "decode response")
		}
	}
	return nil
}
