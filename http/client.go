package http

import (
	"context"
	"net/url"

	internal "github.com/wesleyorama2/sockhttp/internal/http"
)

type (
	Client                 = internal.Client
	ClientOption           = internal.ClientOption
	Request                = internal.Request
	Response               = internal.Response
	Target                 = internal.Target
	TimingInfo             = internal.TimingInfo
	Transport              = internal.Transport
	Dialer                 = internal.Dialer
	ConnectionError        = internal.ConnectionError
	MalformedResponseError = internal.MalformedResponseError
)

const (
	MethodGet  = internal.MethodGet
	MethodPost = internal.MethodPost

	DefaultPort            = internal.DefaultPort
	DefaultMaxResponseSize = internal.DefaultMaxResponseSize
)

var (
	ErrConnection        = internal.ErrConnection
	ErrMalformedResponse = internal.ErrMalformedResponse
	ErrResponseTooLarge  = internal.ErrResponseTooLarge
)

var (
	NewClient           = internal.NewClient
	NewRequest          = internal.NewRequest
	NewTransport        = internal.NewTransport
	WithTimeout         = internal.WithTimeout
	WithMaxResponseSize = internal.WithMaxResponseSize
	WithDialer          = internal.WithDialer

	Resolve         = internal.Resolve
	BuildGet        = internal.BuildGet
	BuildPost       = internal.BuildPost
	ParseResponse   = internal.ParseResponse
	ParseStatusCode = internal.ParseStatusCode
	ParseHeaders    = internal.ParseHeaders
	ParseBody       = internal.ParseBody
)

// Command sends a single request with a default client: "POST" sends form
// encoded, every other method sends a GET.
func Command(ctx context.Context, method, rawURL string, form url.Values) (*Response, error) {
	return NewClient().Command(ctx, method, rawURL, form)
}
