// Package bedrock implements the Adapter for Anthropic models on AWS Bedrock.
package bedrock

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llms/bedrock/internal/bedrockclient"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg/llms", "bedrock")

var ErrUnsupportedPartType = errors.New("bedrock: unsupported message part type")

// LLM is a Bedrock LLM implementation.
type LLM struct {
	opts   *options
	client *bedrockclient.Client
}

var _ llms.Adapter = (*LLM)(nil)

// New creates a new Bedrock LLM implementation.
func New(ctx context.Context, opts ...Option) (*LLM, error) {
	o := &options{
		modelID:     DefaultModel,
		maxRetries:  3,
		callOptions: llms.NewCallOptions(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.client == nil {
		var loadOpts []func(*config.LoadOptions) error
		if o.region != "" {
			loadOpts = append(loadOpts, config.WithRegion(o.region))
		}
		if o.accessKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(o.accessKey, o.secretKey, o.sessionToken)))
		}
		cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
		if err != nil {
			return nil, errors.Wrap(err, "bedrock: failed to load AWS config")
		}
		o.client = bedrockruntime.NewFromConfig(cfg, func(bo *bedrockruntime.Options) {
			if o.baseURL != "" {
				bo.BaseEndpoint = aws.String(o.baseURL)
			}
			if o.maxRetries > 0 {
				bo.RetryMaxAttempts = o.maxRetries
			}
		})
	}

	return &LLM{
		opts:   o,
		client: bedrockclient.NewClient(o.client),
	}, nil
}

// ModelName implements the Adapter interface.
func (l *LLM) ModelName() string {
	return l.opts.modelID
}

// ProviderType implements the Adapter interface.
func (l *LLM) ProviderType() llms.ProviderType {
	return llms.ProviderBedrock
}

// DescribeTool implements the Adapter interface,
// the canonical schema is advertised as is.
func (l *LLM) DescribeTool(d *tools.Descriptor) (llms.ToolSpec, error) {
	s := d.InputSchema
	if s == nil {
		s = schema.Object(nil)
	}
	inputSchema, err := s.ToMap()
	if err != nil {
		return llms.ToolSpec{}, errors.WithMessagef(err, "bedrock: tool %q", d.Name)
	}
	return llms.ToolSpec{
		Name: d.Name,
		Native: bedrockclient.Tool{
			Name:        d.Name,
			Description: d.Description,
			InputSchema: inputSchema,
		},
	}, nil
}

// SendTurn implements the Adapter interface.
func (l *LLM) SendTurn(ctx context.Context, conv *llms.Conversation, specs []llms.ToolSpec) (*llms.Reply, error) {
	messages, err := ToMessages(conv.Messages)
	if err != nil {
		return nil, err
	}

	req := &bedrockclient.Request{
		AnthropicVersion: bedrockclient.AnthropicLatestVersion,
		MaxTokens:        l.opts.callOptions.MaxTokens,
		System:           conv.System,
		Messages:         messages,
		Temperature:      l.opts.callOptions.Temperature,
	}
	for _, spec := range specs {
		tool, ok := spec.Native.(bedrockclient.Tool)
		if !ok {
			return nil, errors.Newf("bedrock: tool %q: unexpected spec %T", spec.Name, spec.Native)
		}
		req.Tools = append(req.Tools, tool)
	}

	resp, err := l.client.CreateCompletion(ctx, l.opts.modelID, req)
	if err != nil {
		return nil, errors.Mark(err, llms.ErrProviderRequest)
	}

	reply := &llms.Reply{
		Text:               resp.Texts(),
		NativeFinishReason: resp.StopReason,
		FinishReason:       FinishReason(resp.StopReason),
		Usage: llms.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
		Native: resp,
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "invoke_model",
		"model", l.opts.modelID,
		"stop_reason", resp.StopReason,
		"blocks", len(resp.Content),
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
	)
	if reply.FinishReason == llms.FinishReasonFiltered {
		return reply, errors.Mark(errors.New("bedrock: the model refused to respond"), llms.ErrProviderRequest)
	}
	return reply, nil
}

// ExtractInvocations implements the Adapter interface.
func (l *LLM) ExtractInvocations(reply *llms.Reply) []llms.Invocation {
	resp, ok := reply.Native.(*bedrockclient.Response)
	if !ok || resp == nil {
		return nil
	}

	var list []llms.Invocation
	for _, tu := range resp.ToolUses() {
		input := string(tu.Input)
		if input == "" || input == "null" {
			input = "{}"
		}
		list = append(list, llms.NewInvocation(tu.ID, tu.Name, input))
	}
	return list
}

// FinishReason normalizes the stop reason
func FinishReason(stopReason string) llms.FinishReason {
	switch stopReason {
	case bedrockclient.AnthropicCompletionReasonEndTurn, bedrockclient.AnthropicCompletionReasonStopSequence:
		return llms.FinishReasonStop
	case bedrockclient.AnthropicCompletionReasonToolUse:
		return llms.FinishReasonToolUse
	case bedrockclient.AnthropicCompletionReasonMaxTokens:
		return llms.FinishReasonLength
	case bedrockclient.AnthropicCompletionReasonRefusal:
		return llms.FinishReasonFiltered
	}
	return llms.FinishReasonOther
}

// ToMessages converts the conversation to the Anthropic messages,
// tool results are `tool_result` blocks of a user message.
func ToMessages(messages []llms.Message) ([]*bedrockclient.Message, error) {
	var res []*bedrockclient.Message
	for _, msg := range messages {
		role := bedrockclient.AnthropicRoleUser
		if msg.Role == llms.RoleAssistant {
			role = bedrockclient.AnthropicRoleAssistant
		}

		var content []bedrockclient.Content
		for _, part := range msg.Parts {
			switch p := part.(type) {
			case llms.TextPart:
				if p.Text != "" {
					content = append(content, bedrockclient.Content{
						Type: bedrockclient.AnthropicMessageTypeText,
						Text: p.Text,
					})
				}
			case llms.ToolCallPart:
				input := json.RawMessage(p.Input)
				if len(input) == 0 || !json.Valid(input) {
					input = json.RawMessage("{}")
				}
				content = append(content, bedrockclient.Content{
					Type:  bedrockclient.AnthropicMessageTypeToolUse,
					ID:    p.ID,
					Name:  p.Name,
					Input: input,
				})
			case llms.ToolResultPart:
				content = append(content, bedrockclient.Content{
					Type:      bedrockclient.AnthropicMessageTypeToolResult,
					ToolUseID: p.CallID,
					Content:   p.Content,
					IsError:   p.IsError,
				})
			default:
				return nil, errors.WithMessagef(ErrUnsupportedPartType, "%T", part)
			}
		}
		res = bedrockclient.AppendMessage(res, role, content...)
	}
	return res, nil
}
