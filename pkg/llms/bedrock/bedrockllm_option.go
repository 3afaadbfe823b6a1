package bedrock

import (
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/effective-security/mcpagent/pkg/llms"
)

// DefaultModel is the default Claude inference profile
const DefaultModel = "us.anthropic.claude-sonnet-4-20250514-v1:0"

type options struct {
	modelID      string
	region       string
	accessKey    string
	secretKey    string
	sessionToken string
	baseURL      string
	maxRetries   int
	client       *bedrockruntime.Client
	callOptions  llms.CallOptions
}

// Option is an option for the Bedrock LLM.
type Option func(*options)

// WithModel allows setting a custom model ID,
// only Anthropic models and inference profiles are supported.
func WithModel(modelID string) Option {
	return func(o *options) {
		o.modelID = modelID
	}
}

// WithRegion sets the AWS region,
// by default the region of the shared AWS config is used.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithCredentials sets static AWS credentials,
// by default the default credential chain is used.
func WithCredentials(accessKey, secretKey, sessionToken string) Option {
	return func(o *options) {
		o.accessKey = accessKey
		o.secretKey = secretKey
		o.sessionToken = sessionToken
	}
}

// WithBaseURL overrides the bedrock runtime endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

// WithMaxRetries sets the maximum number of attempts.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		o.maxRetries = n
	}
}

// WithClient allows setting a custom bedrockruntime.Client.
func WithClient(client *bedrockruntime.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithCallOptions sets max tokens and temperature of every turn.
func WithCallOptions(callOpts ...llms.CallOption) Option {
	return func(o *options) {
		o.callOptions = llms.NewCallOptions(callOpts...)
	}
}
