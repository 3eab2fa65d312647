// Package upstream is the shared outbound HTTP client for third party providers
// It paces requests, retries transient failures and maps statuses onto platform error codes
package upstream

import (
	"bytes"
	"context"
	stderrs "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	perr "xfriends/internal/platform/errors"
	"xfriends/internal/platform/logger"
)

const (
	defaultTimeout   = 15 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	defaultRetryMax  = 8 * time.Second
	defaultMaxBody   = 1 << 20
)

// NoRetries in Options.MaxRetries sends each request once; zero means the default
const NoRetries = -1

// Retries turns a configured retry count into Options.MaxRetries, so a configured 0 really means none
func Retries(n int) int {
	if n <= 0 {
		return NoRetries
	}
	return n
}

// Options configures a Client
type Options struct {
	// Name labels logs and error messages, e.g. "neynar"
	Name    string
	Timeout time.Duration

	// MaxRetries is 0 for the default, NoRetries for none
	MaxRetries int
	RetryBase  time.Duration
	RetryMax   time.Duration

	// RPS <= 0 disables pacing
	RPS   float64
	Burst int

	MaxBody int64

	// Accept reports which statuses count as success; nil means any 2xx
	Accept func(status int) bool
}

// Option mutates a Client after defaults are applied
type Option func(*Client)

// WithHTTPClient swaps the transport, mostly for httptest servers
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithBackOff overrides the retry schedule
func WithBackOff(f func() backoff.BackOff) Option { return func(c *Client) { c.newBackOff = f } }

// WithLogger overrides the component logger
func WithLogger(l logger.Logger) Option { return func(c *Client) { c.log = l } }

// Client issues requests with pacing, retries and a bounded body read
type Client struct {
	http       *http.Client
	opts       Options
	limiter    *rate.Limiter
	log        logger.Logger
	newBackOff func() backoff.BackOff
}

// Request is one logical call; it is rebuilt for every attempt
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// StatusError carries a non 2xx status and a short body tail; it never reaches callers verbatim
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string { return fmt.Sprintf("status %d: %s", e.Status, e.Body) }

// StatusOf returns the upstream status wrapped in err, or 0
func StatusOf(err error) int {
	var se *StatusError
	if stderrs.As(err, &se) {
		return se.Status
	}
	return 0
}

// New builds a Client with defaults filled in
func New(o Options, opts ...Option) *Client {
	if o.Name == "" {
		o.Name = "upstream"
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	} else if o.MaxRetries == 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	if o.RetryMax <= 0 {
		o.RetryMax = defaultRetryMax
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}

	lim := rate.NewLimiter(rate.Inf, 1)
	if o.RPS > 0 {
		burst := o.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(o.RPS), burst)
	}

	c := &Client{
		http:    &http.Client{Timeout: o.Timeout},
		opts:    o,
		limiter: lim,
		log:     *logger.Named(o.Name),
	}
	c.newBackOff = func() backoff.BackOff {
		return backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(c.opts.RetryBase),
			backoff.WithMaxInterval(c.opts.RetryMax),
			backoff.WithMaxElapsedTime(0),
		)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the label this client logs under
func (c *Client) Name() string { return c.opts.Name }

// Do runs r until it succeeds, fails permanently or runs out of retries
// 429 and 5xx and transport errors are retried; 401/403 map to Unauthorized, 404 to NotFound
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	attempt := 0
	op := func() ([]byte, error) {
		attempt++
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, backoff.Permanent(err)
		}
		return c.once(ctx, r)
	}
	notify := func(err error, wait time.Duration) {
		c.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", wait).
			Str("method", r.Method).Msg(c.opts.Name + " transient error retrying")
	}

	b := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.opts.MaxRetries)), ctx)
	body, err := backoff.RetryNotifyWithData(op, b, notify)
	if err == nil {
		return body, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	// out of retries; an unavailable provider is a provider failure to our callers
	if perr.IsCode(err, perr.ErrorCodeUnavailable) {
		return nil, perr.Wrap(err, perr.ErrorCodeUpstream, c.opts.Name+" request failed")
	}
	return nil, err
}

func (c *Client) once(ctx context.Context, r Request) ([]byte, error) {
	var rd io.Reader
	if r.Body != nil {
		rd = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, rd)
	if err != nil {
		return nil, backoff.Permanent(perr.Wrap(err, perr.ErrorCodeUnknown, c.opts.Name+" new request failed"))
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, c.opts.Name+" transport error")
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("method", r.Method).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg(c.opts.Name + " http response")

	if c.accept(resp.StatusCode) {
		b, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxBody))
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeUnavailable, c.opts.Name+" read body failed")
		}
		return b, nil
	}

	tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	se := &StatusError{Status: resp.StatusCode, Body: string(tail)}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, perr.Wrap(se, perr.ErrorCodeTooManyRequests, c.opts.Name+" rate limited")
	case resp.StatusCode >= 500:
		return nil, perr.Wrap(se, perr.ErrorCodeUnavailable, c.opts.Name+" server error")
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, backoff.Permanent(perr.Wrap(se, perr.ErrorCodeUnauthorized, c.opts.Name+" rejected credentials"))
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(perr.Wrap(se, perr.ErrorCodeNotFound, c.opts.Name+" not found"))
	default:
		return nil, backoff.Permanent(perr.Wrap(se, perr.ErrorCodeUpstream, c.opts.Name+" unexpected status"))
	}
}

func (c *Client) accept(status int) bool {
	if c.opts.Accept != nil {
		return c.opts.Accept(status)
	}
	return status >= 200 && status < 300
}

// Get is sugar for a GET with headers
func (c *Client) Get(ctx context.Context, url string, h http.Header) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, URL: url, Header: h})
}

// PostJSON is sugar for a POST of an already encoded JSON body
func (c *Client) PostJSON(ctx context.Context, url string, h http.Header, body []byte) ([]byte, error) {
	if h == nil {
		h = http.Header{}
	}
	h.Set("Content-Type", "application/json")
	return c.Do(ctx, Request{Method: http.MethodPost, URL: url, Header: h, Body: body})
}
