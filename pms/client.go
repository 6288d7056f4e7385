// Package pms is a thin client for the property-management REST API. It sends
// canonical parameter maps as query strings and decodes JSON bodies; it does
// no validation of its own.
package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elnormous/contenttype"
	"github.com/ggoodman/pms-mcp/internal/config"
	"github.com/ggoodman/pms-mcp/internal/logctx"
	"github.com/ggoodman/pms-mcp/params"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// RequestIDHeader carries a per-request correlation id upstream.
	RequestIDHeader = "X-Request-Id"

	maxErrorBody = 2048
)

var (
	jsonMediaType = contenttype.NewMediaType("application/json")

	// ErrUnexpectedContentType is returned when a successful response is not JSON.
	ErrUnexpectedContentType = errors.New("pms: unexpected content type")
)

// Searcher is the part of the client the connector tools depend on.
type Searcher interface {
	Get(ctx context.Context, path string, query *params.ParameterMap, out any) error
}

// APIError is a non-2xx upstream response.
type APIError struct {
	Status    int
	Body      string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pms: upstream returned %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("pms: upstream returned %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
}

// Client talks to one property-management API tenant.
type Client struct {
	http    *resty.Client
	log     *slog.Logger
	limiter *rate.Limiter
}

var _ Searcher = (*Client)(nil)

// Option customizes a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.http.SetHeader("User-Agent", ua)
		}
	}
}

// WithRateLimit caps outgoing requests at rps per second with the given burst.
// A non-positive rps leaves the client unlimited.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger overrides the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New builds a Client authenticating with HTTP basic credentials.
func New(baseURL, key, secret string, opts ...Option) *Client {
	c := &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetBasicAuth(key, secret).
			SetTimeout(30*time.Second).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "pms-mcp"),
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logctx.Decorate(c.log)
	c.http.SetLogger(restyLogger{l: c.log})
	return c
}

// NewFromConfig builds a Client from validated settings.
func NewFromConfig(cfg *config.Config, log *slog.Logger) *Client {
	return New(cfg.BaseURL, cfg.APIKey, cfg.APISecret,
		WithTimeout(cfg.Timeout),
		WithUserAgent(cfg.UserAgent),
		WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		WithLogger(log),
	)
}

// Get issues GET path with query encoded from the canonical map (lists as
// repeated keys) and decodes the JSON body into out. Numbers decode as
// json.Number when out is an interface or map.
func (c *Client) Get(ctx context.Context, path string, query *params.ParameterMap, out any) error {
	start := time.Now()
	reqID := uuid.NewString()
	ctx = logctx.WithUpstreamData(ctx, &logctx.UpstreamData{RequestID: reqID, Path: path})

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			c.log.WarnContext(ctx, "pms.get.rate_limited", slog.String("err", err.Error()))
			return fmt.Errorf("pms: GET %s: rate limit: %w", path, err)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader(RequestIDHeader, reqID).
		SetQueryParamsFromValues(query.Values()).
		Get(path)
	if err != nil {
		c.log.ErrorContext(ctx, "pms.get.fail", slog.String("err", err.Error()))
		return fmt.Errorf("pms: GET %s: %w", path, err)
	}

	log := c.log.With(slog.Int("status", resp.StatusCode()), slog.Int64("dur_ms", time.Since(start).Milliseconds()))
	if !resp.IsSuccess() {
		log.WarnContext(ctx, "pms.get.status")
		return &APIError{Status: resp.StatusCode(), Body: truncate(resp.String(), maxErrorBody), RequestID: reqID}
	}

	ctype := resp.Header().Get("Content-Type")
	if !isJSON(ctype) {
		log.WarnContext(ctx, "pms.get.content_type", slog.String("content_type", ctype))
		return fmt.Errorf("%w: %q", ErrUnexpectedContentType, ctype)
	}

	if out != nil {
		dec := json.NewDecoder(bytes.NewReader(resp.Body()))
		dec.UseNumber()
		if err := dec.Decode(out); err != nil {
			log.ErrorContext(ctx, "pms.get.decode", slog.String("err", err.Error()))
			return fmt.Errorf("pms: decode %s: %w", path, err)
		}
	}

	log.InfoContext(ctx, "pms.get.ok")
	return nil
}

// isJSON accepts application/json and structured-syntax variants such as
// application/hal+json.
func isJSON(ctype string) bool {
	mt := contenttype.NewMediaType(ctype)
	if mt.Type == "" {
		return false
	}
	return mt.Matches(jsonMediaType) || (mt.Type == "application" && strings.HasSuffix(mt.Subtype, "+json"))
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// restyLogger routes resty's own diagnostics into slog.
type restyLogger struct{ l *slog.Logger }

func (r restyLogger) Errorf(format string, v ...any) { r.l.Error(fmt.Sprintf(format, v...)) }
func (r restyLogger) Warnf(format string, v ...any)  { r.l.Warn(fmt.Sprintf(format, v...)) }
func (r restyLogger) Debugf(format string, v ...any) { r.l.Debug(fmt.Sprintf(format, v...)) }
