// Package googleai implements the Adapter for Google Gemini,
// on the Gemini API or Vertex AI.
// See https://ai.google.dev/ for more details.
package googleai

import (
	"context"
	"net/http"

	"cloud.google.com/go/auth/credentials"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"google.golang.org/genai"
)

// CloudPlatformScope is the OAuth scope for Vertex AI
const CloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// GoogleAI is a type that represents a Google AI API client.
type GoogleAI struct {
	client *genai.Client
	opts   Options
}

var _ llms.Adapter = (*GoogleAI)(nil)

// New creates a new GoogleAI client.
func New(ctx context.Context, opts ...Option) (*GoogleAI, error) {
	clientOptions := DefaultOptions()
	for _, opt := range opts {
		opt(&clientOptions)
	}
	clientOptions.EnsureAuthPresent()

	if clientOptions.Model == "" {
		return nil, errors.New("googleai: model is required")
	}

	cfg := &genai.ClientConfig{
		HTTPClient: clientOptions.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: clientOptions.BaseURL,
		},
	}
	if len(clientOptions.Headers) > 0 {
		cfg.HTTPOptions.Headers = http.Header{}
		for k, v := range clientOptions.Headers {
			cfg.HTTPOptions.Headers.Set(k, v)
		}
	}

	if clientOptions.isVertex() {
		if clientOptions.Credentials == nil {
			creds, err := credentials.DetectDefault(&credentials.DetectOptions{
				Scopes: []string{CloudPlatformScope},
			})
			if err != nil {
				return nil, errors.Wrap(err, "googleai: failed to detect default credentials")
			}
			clientOptions.Credentials = creds
		}
		cfg.Backend = genai.BackendVertexAI
		cfg.Project = clientOptions.CloudProject
		cfg.Location = clientOptions.CloudLocation
		cfg.Credentials = clientOptions.Credentials
	} else {
		if clientOptions.APIKey == "" {
			return nil, errors.New("googleai: missing API key, set it in the GOOGLE_API_KEY environment variable")
		}
		cfg.Backend = genai.BackendGeminiAPI
		cfg.APIKey = clientOptions.APIKey
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "googleai: failed to create client")
	}

	return &GoogleAI{
		client: client,
		opts:   clientOptions,
	}, nil
}
