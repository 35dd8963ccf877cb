package http

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Client sends GET and POST requests over raw TCP connections. It keeps no
// state between requests.
type Client struct {
	transport *Transport
	timeout   time.Duration
}

// ClientOption is a function that configures a Client
type ClientOption func(*Client)

// NewClient creates a new client with the given options. Without WithTimeout
// a request waits for the peer indefinitely.
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		transport: NewTransport(),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithTimeout bounds each request, from connect to connection close
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithMaxResponseSize sets the largest response the client will buffer
func WithMaxResponseSize(size int64) ClientOption {
	return func(c *Client) {
		c.transport.MaxResponseSize = size
	}
}

// WithDialer replaces the dialer used to open connections
func WithDialer(dialer Dialer) ClientOption {
	return func(c *Client) {
		c.transport.Dialer = dialer
	}
}

// Get sends a GET request to rawURL
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.Do(ctx, NewRequest(MethodGet, rawURL))
}

// Post sends form as an application/x-www-form-urlencoded POST to rawURL
func (c *Client) Post(ctx context.Context, rawURL string, form url.Values) (*Response, error) {
	return c.Do(ctx, NewRequest(MethodPost, rawURL).WithForm(form))
}

// Command sends a POST when method is "POST" and a GET for anything else
func (c *Client) Command(ctx context.Context, method, rawURL string, form url.Values) (*Response, error) {
	if method == MethodPost {
		return c.Post(ctx, rawURL, form)
	}
	return c.Get(ctx, rawURL)
}

// Do sends req over a fresh connection and parses the response
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	text, timing, err := c.transport.Send(ctx, req.Target, req.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL)
	}

	resp, err := ParseResponse(text)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", req.Method, req.URL)
	}
	resp.Timing = timing

	return resp, nil
}
