package bedrockclient

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
)

// ErrUnsupportedProvider is returned for model families other than Anthropic
var ErrUnsupportedProvider = errors.New("bedrock: unsupported provider")

// InvokeModelAPI is the subset of the bedrockruntime client used here.
type InvokeModelAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client is a Bedrock client.
type Client struct {
	client InvokeModelAPI
}

// NewClient creates a new Bedrock client.
func NewClient(client InvokeModelAPI) *Client {
	return &Client{
		client: client,
	}
}

// GetProvider returns the model family of the model ID.
// Inference profiles (e.g., "us.anthropic.claude-3-5-sonnet-20241022-v2:0")
// carry a region prefix before the family.
func GetProvider(modelID string) string {
	parts := strings.Split(modelID, ".")
	if len(parts) >= 2 {
		if len(parts[0]) == 2 && strings.ToLower(parts[0]) == parts[0] {
			return parts[1]
		}
	}
	return parts[0]
}

// CreateCompletion sends the Anthropic messages request to the model.
func (c *Client) CreateCompletion(ctx context.Context, modelID string, req *Request) (*Response, error) {
	if provider := GetProvider(modelID); provider != "anthropic" {
		return nil, errors.WithMessagef(ErrUnsupportedProvider, "%q", provider)
	}

	if req.AnthropicVersion == "" {
		req.AnthropicVersion = AnthropicLatestVersion
	}
	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(modelID),
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return nil, errors.Wrap(err, "bedrock: failed to invoke model")
	}

	var output Response
	if err = json.Unmarshal(resp.Body, &output); err != nil {
		return nil, errors.Wrap(err, "bedrock: failed to decode response")
	}
	return &output, nil
}
