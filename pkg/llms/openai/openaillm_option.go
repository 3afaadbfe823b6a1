package openai

import (
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/openai/openai-go/v3/option"
)

const (
	tokenEnvVarName        = "OPENAI_API_KEY"       //nolint:gosec
	baseURLEnvVarName      = "OPENAI_BASE_URL"      //nolint:gosec
	organizationEnvVarName = "OPENAI_ORGANIZATION"  //nolint:gosec
	azureTokenEnvVarName   = "AZURE_OPENAI_API_KEY" //nolint:gosec
	azureBaseEnvVarName    = "AZURE_OPENAI_ENDPOINT"
)

const (
	DefaultAPIVersion = "2024-10-21"
)

type options struct {
	token        string
	model        string
	baseURL      string
	organization string
	provider     llms.ProviderType
	httpClient   option.HTTPClient
	headers      map[string]string
	maxRetries   int

	// required when provider is Azure
	apiVersion string

	callOptions llms.CallOptions
}

// Option is a functional option for the OpenAI client.
type Option func(*options)

// WithToken passes the OpenAI API token to the client. If not set, the token
// is read from the OPENAI_API_KEY environment variable,
// or AZURE_OPENAI_API_KEY for Azure.
func WithToken(token string) Option {
	return func(opts *options) {
		opts.token = token
	}
}

// WithModel passes the OpenAI model to the client.
// For Azure it is the deployment name.
func WithModel(model string) Option {
	return func(opts *options) {
		opts.model = model
	}
}

// WithBaseURL passes the OpenAI base url to the client. If not set, the base url
// is read from the OPENAI_BASE_URL environment variable.
// For Azure it is the resource endpoint, by default AZURE_OPENAI_ENDPOINT.
func WithBaseURL(baseURL string) Option {
	return func(opts *options) {
		opts.baseURL = baseURL
	}
}

// WithOrganization passes the OpenAI organization to the client. If not set, the
// organization is read from the OPENAI_ORGANIZATION.
func WithOrganization(organization string) Option {
	return func(opts *options) {
		opts.organization = organization
	}
}

// WithAPIVersion passes the Azure API version to the client.
func WithAPIVersion(apiVersion string) Option {
	return func(opts *options) {
		opts.apiVersion = apiVersion
	}
}

// WithProvider sets the provider: OPENAI or AZURE.
func WithProvider(provider llms.ProviderType) Option {
	return func(opts *options) {
		opts.provider = provider
	}
}

// WithHTTPClient allows setting a custom HTTP client.
func WithHTTPClient(client option.HTTPClient) Option {
	return func(opts *options) {
		opts.httpClient = client
	}
}

// WithHeaders adds the headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(opts *options) {
		opts.headers = headers
	}
}

// WithMaxRetries sets the number of retries on transient failures, default is 2.
func WithMaxRetries(retries int) Option {
	return func(opts *options) {
		opts.maxRetries = retries
	}
}

// WithCallOptions sets max tokens and temperature of every turn.
func WithCallOptions(callOpts ...llms.CallOption) Option {
	return func(opts *options) {
		opts.callOptions = llms.NewCallOptions(callOpts...)
	}
}
