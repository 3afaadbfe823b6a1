package googleai

import (
	"net/http"
	"os"

	"cloud.google.com/go/auth"
	"github.com/effective-security/mcpagent/pkg/llms"
	"google.golang.org/genai"
)

// Options is a set of options for GoogleAI and Vertex clients.
type Options struct {
	CloudProject  string
	CloudLocation string
	Model         string
	HarmThreshold genai.HarmBlockThreshold
	APIKey        string
	Credentials   *auth.Credentials
	HTTPClient    *http.Client
	// BaseURL overrides the API endpoint
	BaseURL string
	Headers map[string]string
	// Vertex selects the Vertex AI backend,
	// it is also selected when CloudProject is set
	Vertex bool

	CallOptions llms.CallOptions
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Model:         "gemini-2.5-pro",
		CloudLocation: "us-central1",
		HarmThreshold: genai.HarmBlockThresholdBlockOnlyHigh,
		CallOptions:   llms.NewCallOptions(),
	}
}

// EnsureAuthPresent attempts to ensure that the client has authentication information.
// If it does not, it will attempt to use the GOOGLE_API_KEY or GEMINI_API_KEY
// environment variables.
func (o *Options) EnsureAuthPresent() {
	if o.Credentials != nil || o.APIKey != "" || o.isVertex() {
		return
	}
	for _, env := range []string{"GOOGLE_API_KEY", "GEMINI_API_KEY"} {
		if key := os.Getenv(env); key != "" {
			o.APIKey = key
			return
		}
	}
}

func (o *Options) isVertex() bool {
	return o.Vertex || o.CloudProject != ""
}

// Option is a function that can be passed to New to modify the client's options.
type Option func(*Options)

// WithAPIKey passes the API KEY (token) to the client.
func WithAPIKey(apiKey string) Option {
	return func(opts *Options) {
		opts.APIKey = apiKey
	}
}

// WithCredentials sets the Vertex credentials,
// by default the application default credentials are used.
func WithCredentials(credentials *auth.Credentials) Option {
	return func(opts *Options) {
		if credentials == nil {
			return
		}
		opts.Credentials = credentials
	}
}

// WithHTTPClient append a ClientOption that uses the provided HTTP client to
// make requests.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(opts *Options) {
		opts.HTTPClient = httpClient
	}
}

// WithCloudProject selects the Vertex backend in the project.
func WithCloudProject(p string) Option {
	return func(opts *Options) {
		opts.CloudProject = p
	}
}

// WithCloudLocation sets the Vertex location.
func WithCloudLocation(l string) Option {
	return func(opts *Options) {
		opts.CloudLocation = l
	}
}

// WithVertex selects the Vertex AI backend.
func WithVertex() Option {
	return func(opts *Options) {
		opts.Vertex = true
	}
}

// WithModel sets the model.
func WithModel(model string) Option {
	return func(opts *Options) {
		opts.Model = model
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(baseURL string) Option {
	return func(opts *Options) {
		opts.BaseURL = baseURL
	}
}

// WithHeaders adds the headers to every request.
func WithHeaders(headers map[string]string) Option {
	return func(opts *Options) {
		opts.Headers = headers
	}
}

// WithHarmThreshold sets the safety/harm setting for the model, potentially
// limiting any harmful content it may generate.
func WithHarmThreshold(ht genai.HarmBlockThreshold) Option {
	return func(opts *Options) {
		opts.HarmThreshold = ht
	}
}

// WithCallOptions sets max tokens and temperature of every turn.
func WithCallOptions(callOpts ...llms.CallOption) Option {
	return func(opts *Options) {
		opts.CallOptions = llms.NewCallOptions(callOpts...)
	}
}
