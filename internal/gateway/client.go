package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"

	perrors "github.com/felixgeelhaar/portal/internal/errors"
	"github.com/felixgeelhaar/portal/internal/log"
	"github.com/felixgeelhaar/portal/internal/metrics"
)

// DefaultTimeout bounds every backend request.
const DefaultTimeout = 10 * time.Second

// RequestHook observes every outgoing request.
type RequestHook func(method, url string)

// FailureHook observes every failed request. status is 0 for transport
// failures, in which case body is empty.
type FailureHook func(method, url string, status int, body []byte)

// Client is the portal backend API client. One attempt is made per call and
// errors are returned to the caller as-is.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string

	mu       sync.RWMutex
	token    string
	tokenGen uint64

	logger    *log.Logger
	metrics   *metrics.Metrics
	onRequest RequestHook
	onFailure FailureHook
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout. It applies whatever the order
// of options and never changes a client passed to WithHTTPClient.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger used by the default hooks
func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records per-route request metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithUserAgent sets the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithRequestHook replaces the default request logging hook
func WithRequestHook(h RequestHook) Option {
	return func(c *Client) { c.onRequest = h }
}

// WithFailureHook replaces the default failure logging hook
func WithFailureHook(h FailureHook) Option {
	return func(c *Client) { c.onFailure = h }
}

// NewClient creates a client for the backend at host. All routes are
// resolved under host + "/api".
func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(host, "/") + "/api",
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     log.DefaultLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}

	if c.onRequest == nil {
		c.onRequest = func(method, url string) {
			c.logger.Info("api request", "method", method, "url", url)
		}
	}
	if c.onFailure == nil {
		c.onFailure = func(method, url string, status int, body []byte) {
			c.logger.Error("api request failed", "method", method, "url", url, "status", status, "body", string(body))
		}
	}
	return c
}

// BaseURL returns the API root, including the /api suffix
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetToken sets the bearer token sent with every request. An empty token
// disables the Authorization header.
func (c *Client) SetToken(token string) {
	c.AcquireToken(token)
}

// AcquireToken sets the bearer token and returns a handle for ReleaseToken.
func (c *Client) AcquireToken(token string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokenGen++
	c.token = token
	return c.tokenGen
}

// ReleaseToken clears the bearer token unless it was set again after the
// AcquireToken call that returned gen.
func (c *Client) ReleaseToken(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tokenGen == gen {
		c.token = ""
	}
}

// Token returns the current bearer token
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// request is one prepared call
type request struct {
	route       Route
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(route Route, path string, payload any) (request, error) {
	req := request{route: route, path: path}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return req, perrors.Wrap(perrors.ErrCodeGatewayEncode, "failed to marshal request body", err)
		}
		req.body = bytes.NewReader(data)
		req.contentType = "application/json"
	}
	return req, nil
}

// do performs the request and returns the response body of a 2xx answer.
func (c *Client) do(ctx context.Context, r request) ([]byte, error) {
	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}
	method := r.route.Method

	req, err := http.NewRequestWithContext(ctx, method, target, r.body)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeGatewayEncode, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.onRequest(method, target)
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.observe(r.route, "error", start)
		c.fail(r.route, "transport")
		c.onFailure(method, target, 0, nil)
		return nil, &TransportError{Method: method, URL: target, Timeout: isTimeout(err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.observe(r.route, strconv.Itoa(resp.StatusCode), start)
	if err != nil {
		c.fail(r.route, "transport")
		c.onFailure(method, target, resp.StatusCode, nil)
		return nil, &TransportError{Method: method, URL: target, Timeout: isTimeout(err), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.fail(r.route, "status")
		c.onFailure(method, target, resp.StatusCode, body)
		return nil, &APIError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Body:       body,
			Detail:     extractDetail(body),
		}
	}
	return body, nil
}

func (c *Client) observe(route Route, status string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.GatewayRequests.WithLabelValues(route.String(), status).Inc()
	c.metrics.GatewayLatency.WithLabelValues(route.String()).Observe(time.Since(start).Seconds())
}

func (c *Client) fail(route Route, kind string) {
	if c.metrics == nil {
		return
	}
	c.metrics.GatewayFailures.WithLabelValues(route.String(), kind).Inc()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// decode unmarshals body into out. When field is set and the body is an
// object carrying it, only that member is decoded; this unwraps envelopes
// such as {"contracts": [...]} while still accepting a bare array.
func decode(body []byte, field string, out any) error {
	if out == nil {
		return nil
	}
	data := body
	if field != "" {
		if res := gjson.GetBytes(body, field); res.Exists() {
			data = []byte(res.Raw)
		}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return perrors.Wrap(perrors.ErrCodeGatewayDecode, "failed to decode response", err)
	}
	return nil
}

// getJSON issues a GET and decodes the (optionally enveloped) response.
func (c *Client) getJSON(ctx context.Context, route Route, path string, query url.Values, field string, out any) error {
	body, err := c.do(ctx, request{route: route, path: path, query: query})
	if err != nil {
		return err
	}
	return decode(body, field, out)
}

// sendJSON issues a request with a JSON body and decodes the response.
func (c *Client) sendJSON(ctx context.Context, route Route, path string, payload any, out any) error {
	req, err := jsonRequest(route, path, payload)
	if err != nil {
		return err
	}
	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}
	return decode(body, "", out)
}

func requireID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return perrors.New(perrors.ErrCodeGatewayMissingID, kind+" id is required")
	}
	return nil
}
