package anthropic

import (
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/effective-security/mcpagent/pkg/llms"
)

const (
	TokenEnvVarName = "ANTHROPIC_API_KEY" //nolint:gosec
)

type Options struct {
	Token      string
	Model      string
	BaseURL    string
	HttpClient option.HTTPClient
	// Headers are added to every request
	Headers    map[string]string
	MaxRetries int

	CallOptions llms.CallOptions
}

type Option func(*Options)

// WithToken passes the Anthropic API token to the client. If not set, the token
// is read from the ANTHROPIC_API_KEY environment variable.
func WithToken(token string) Option {
	return func(opts *Options) {
		opts.Token = token
	}
}

// WithModel passes the Anthropic model to the client.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL passes the Anthropic base URL to the client.
// If not set, the default base URL is used.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHTTPClient allows setting a custom HTTP client. If not set, the default value
// is http.DefaultClient.
func WithHTTPClient(client option.HTTPClient) Option {
	return func(opts *Options) {
		opts.HttpClient = client
	}
}

// WithHeaders adds the headers to every request,
// for example `anthropic-beta`.
func WithHeaders(headers map[string]string) Option {
	return func(opts *Options) {
		opts.Headers = headers
	}
}

// WithMaxRetries sets the number of retries on transient failures, default is 2.
func WithMaxRetries(retries int) Option {
	return func(opts *Options) {
		opts.MaxRetries = retries
	}
}

// WithCallOptions sets max tokens and temperature of every turn.
func WithCallOptions(callOpts ...llms.CallOption) Option {
	return func(opts *Options) {
		opts.CallOptions = llms.NewCallOptions(callOpts...)
	}
}
