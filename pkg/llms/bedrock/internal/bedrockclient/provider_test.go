package bedrockclient

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInvoker struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvoker) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestGetProvider(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modelID  string
		expected string
	}{
		{
			name:     "Direct Anthropic model ID",
			modelID:  "anthropic.claude-3-sonnet-20240229-v1:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with US region",
			modelID:  "us.anthropic.claude-3-5-sonnet-20241022-v2:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with EU region",
			modelID:  "eu.anthropic.claude-3-haiku-20240307-v1:0",
			expected: "anthropic",
		},
		{
			name:     "Inference Profile with Amazon",
			modelID:  "us.amazon.nova-micro-v1:0",
			expected: "amazon",
		},
		{
			name:     "Direct Meta model ID",
			modelID:  "meta.llama3-2-1b-instruct-v1:0",
			expected: "meta",
		},
		{
			name:     "Single part model ID",
			modelID:  "anthropic",
			expected: "anthropic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetProvider(tt.modelID))
		})
	}
}

func TestCreateCompletion(t *testing.T) {
	t.Parallel()

	fake := &fakeInvoker{
		body: `{
			"id": "msg_1",
			"type": "message",
			"role": "assistant",
			"content": [
				{"type": "text", "text": "hashing"},
				{"type": "tool_use", "id": "toolu_1", "name": "md5", "input": {"text": "hello"}}
			],
			"stop_reason": "tool_use",
			"usage": {"input_tokens": 20, "output_tokens": 7}
		}`,
	}
	c := NewClient(fake)

	req := &Request{
		MaxTokens: 100,
		System:    "be brief",
		Messages:  AppendMessage(nil, AnthropicRoleUser, Content{Type: AnthropicMessageTypeText, Text: "hash hello"}),
		Tools: []Tool{{
			Name:        "md5",
			InputSchema: map[string]any{"type": "object"},
		}},
	}
	resp, err := c.CreateCompletion(context.Background(), "us.anthropic.claude-sonnet-4", req)
	require.NoError(t, err)

	assert.Equal(t, "us.anthropic.claude-sonnet-4", aws.ToString(fake.input.ModelId))
	var sent map[string]any
	require.NoError(t, json.Unmarshal(fake.input.Body, &sent))
	assert.Equal(t, AnthropicLatestVersion, sent["anthropic_version"])
	assert.Equal(t, "be brief", sent["system"])
	assert.NotContains(t, sent, "temperature")

	assert.Equal(t, []string{"hashing"}, resp.Texts())
	uses := resp.ToolUses()
	require.Len(t, uses, 1)
	assert.Equal(t, "toolu_1", uses[0].ID)
	assert.JSONEq(t, `{"text":"hello"}`, string(uses[0].Input))
	assert.Equal(t, Usage{InputTokens: 20, OutputTokens: 7}, resp.Usage)

	zero := 0.0
	req.Temperature = &zero
	_, err = c.CreateCompletion(context.Background(), "us.anthropic.claude-sonnet-4", req)
	require.NoError(t, err)
	sent = nil
	require.NoError(t, json.Unmarshal(fake.input.Body, &sent))
	assert.Contains(t, sent, "temperature")
	assert.Equal(t, 0.0, sent["temperature"])
}

func TestCreateCompletion_Errors(t *testing.T) {
	t.Parallel()

	c := NewClient(&fakeInvoker{})
	_, err := c.CreateCompletion(context.Background(), "amazon.titan-text-lite-v1", &Request{})
	assert.True(t, errors.Is(err, ErrUnsupportedProvider))

	c = NewClient(&fakeInvoker{err: errors.New("throttled")})
	_, err = c.CreateCompletion(context.Background(), "anthropic.claude-3-haiku", &Request{})
	assert.EqualError(t, err, "bedrock: failed to invoke model: throttled")

	c = NewClient(&fakeInvoker{body: "not json"})
	_, err = c.CreateCompletion(context.Background(), "anthropic.claude-3-haiku", &Request{})
	require.Error(t, err)
}

func TestAppendMessage(t *testing.T) {
	t.Parallel()

	var msgs []*Message
	msgs = AppendMessage(msgs, AnthropicRoleUser, Content{Type: AnthropicMessageTypeText, Text: "hi"})
	msgs = AppendMessage(msgs, AnthropicRoleAssistant)
	msgs = AppendMessage(msgs, AnthropicRoleAssistant, Content{Type: AnthropicMessageTypeToolUse, ID: "1"})
	msgs = AppendMessage(msgs, AnthropicRoleUser, Content{Type: AnthropicMessageTypeToolResult, ToolUseID: "1"})
	msgs = AppendMessage(msgs, AnthropicRoleUser, Content{Type: AnthropicMessageTypeToolResult, ToolUseID: "2"})

	require.Len(t, msgs, 3)
	assert.Len(t, msgs[2].Content, 2)
}
