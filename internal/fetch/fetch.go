// Package fetch retrieves raw product page HTML over HTTP. It classifies
// failures (network, timeout, unexpected status) and leaves retry policy to
// the caller: a failed fetch is simply retried on the next scheduled cycle.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

type Reason string

const (
	ReasonNetwork Reason = "network"
	ReasonTimeout Reason = "timeout"
	ReasonStatus  Reason = "status"
)

type Error struct {
	URL        string
	Reason     Reason
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %v", e.URL, e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type Client struct {
	client    *http.Client
	timeout   time.Duration
	limiter   *rate.Limiter
	userAgent string
}

func New(opts ...Option) *Client {
	c := &Client{
		client:    http.DefaultClient,
		timeout:   10 * time.Second,
		userAgent: defaultUserAgent,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type Option func(*Client)

func WithClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLimiter throttles outgoing requests so tracked sites are not hammered
// when many products share a host.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// Fetch retrieves the page at url and returns its body. Any failure is
// reported as *Error with a distinguishing reason. No retries are attempted.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", &Error{URL: url, Reason: ReasonNetwork, Err: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{URL: url, Reason: ReasonNetwork, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)

	res, err := c.client.Do(req)
	if err != nil {
		return "", &Error{URL: url, Reason: classify(err), Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", &Error{URL: url, Reason: ReasonStatus, StatusCode: res.StatusCode}
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", &Error{URL: url, Reason: classify(err), Err: err}
	}

	return string(body), nil
}

func classify(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ReasonTimeout
	}
	return ReasonNetwork
}
