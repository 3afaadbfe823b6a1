// Package anthropic implements the Adapter for the Anthropic Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg/llms", "anthropic")

var (
	ErrMissingToken        = errors.New("anthropic: missing API key, set it in the ANTHROPIC_API_KEY environment variable")
	ErrUnsupportedPartType = errors.New("anthropic: unsupported message part type")
)

type LLM struct {
	Client  *anthropic.Client
	Options *Options
}

var _ llms.Adapter = (*LLM)(nil)

// New creates a new Anthropic adapter using the official Anthropic SDK.
//
// Required configuration:
//   - API token (via WithToken option or ANTHROPIC_API_KEY env var)
//   - Model (via WithModel option)
func New(opts ...Option) (*LLM, error) {
	options := &Options{
		Token:       os.Getenv(TokenEnvVarName),
		BaseURL:     "https://api.anthropic.com",
		HttpClient:  http.DefaultClient,
		MaxRetries:  2,
		CallOptions: llms.NewCallOptions(),
	}

	for _, opt := range opts {
		opt(options)
	}

	if len(options.Token) == 0 {
		return nil, ErrMissingToken
	}
	if options.Model == "" {
		return nil, errors.New("anthropic: model is required")
	}

	return &LLM{
		Client:  newClient(options),
		Options: options,
	}, nil
}

func newClient(options *Options) *anthropic.Client {
	sdkOpts := []option.RequestOption{
		option.WithAPIKey(options.Token),
		option.WithMaxRetries(options.MaxRetries),
		option.WithRequestTimeout(5 * time.Minute),
	}

	if options.BaseURL != "" {
		sdkOpts = append(sdkOpts, option.WithBaseURL(options.BaseURL))
	}
	if options.HttpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(options.HttpClient))
	}
	for k, v := range options.Headers {
		sdkOpts = append(sdkOpts, option.WithHeader(k, v))
	}

	client := anthropic.NewClient(sdkOpts...)
	return &client
}

// ModelName implements the Adapter interface.
func (o *LLM) ModelName() string {
	return o.Options.Model
}

// ProviderType implements the Adapter interface.
func (o *LLM) ProviderType() llms.ProviderType {
	return llms.ProviderAnthropic
}

// DescribeTool implements the Adapter interface,
// the canonical schema is advertised as is.
func (o *LLM) DescribeTool(d *tools.Descriptor) (llms.ToolSpec, error) {
	inputSchema, err := ToInputSchema(d.InputSchema)
	if err != nil {
		return llms.ToolSpec{}, errors.WithMessagef(err, "anthropic: tool %q", d.Name)
	}

	tool := &anthropic.ToolParam{
		Name:        d.Name,
		InputSchema: inputSchema,
	}
	if d.Description != "" {
		tool.Description = anthropic.String(d.Description)
	}
	return llms.ToolSpec{
		Name:   d.Name,
		Native: anthropic.ToolUnionParam{OfTool: tool},
	}, nil
}

// ToInputSchema splits the object schema into the SDK input schema
func ToInputSchema(s *schema.Schema) (anthropic.ToolInputSchemaParam, error) {
	res := anthropic.ToolInputSchemaParam{
		Type: "object",
	}
	if s == nil {
		return res, nil
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		res.Properties = s.Properties
	}
	res.Required = s.Required

	m, err := s.ToMap()
	if err != nil {
		return res, err
	}
	delete(m, "type")
	delete(m, "properties")
	delete(m, "required")
	if len(m) > 0 {
		res.ExtraFields = m
	}
	return res, nil
}

// SendTurn implements the Adapter interface.
func (o *LLM) SendTurn(ctx context.Context, conv *llms.Conversation, specs []llms.ToolSpec) (*llms.Reply, error) {
	messages, err := ToMessages(conv.Messages)
	if err != nil {
		return nil, err
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(o.Options.Model),
		Messages:  messages,
		MaxTokens: int64(o.Options.CallOptions.MaxTokens),
	}
	if conv.System != "" {
		params.System = []anthropic.TextBlockParam{
			{
				Type: "text",
				Text: conv.System,
			},
		}
	}
	if t := o.Options.CallOptions.Temperature; t != nil {
		params.Temperature = anthropic.Float(*t)
	}
	for _, spec := range specs {
		tool, ok := spec.Native.(anthropic.ToolUnionParam)
		if !ok {
			return nil, errors.Newf("anthropic: tool %q: unexpected spec %T", spec.Name, spec.Native)
		}
		params.Tools = append(params.Tools, tool)
	}

	result, err := o.Client.Messages.New(ctx, params)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "anthropic: failed to create message"), llms.ErrProviderRequest)
	}

	reply := &llms.Reply{
		NativeFinishReason: string(result.StopReason),
		FinishReason:       FinishReason(string(result.StopReason)),
		Usage: llms.Usage{
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
		},
		Native: result,
	}
	for _, block := range result.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			reply.Text = append(reply.Text, tb.Text)
		}
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "message",
		"model", o.Options.Model,
		"stop_reason", reply.NativeFinishReason,
		"blocks", len(result.Content),
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
	)
	if reply.FinishReason == llms.FinishReasonFiltered {
		return reply, errors.Mark(errors.New("anthropic: the model refused to respond"), llms.ErrProviderRequest)
	}
	return reply, nil
}

// ExtractInvocations implements the Adapter interface.
func (o *LLM) ExtractInvocations(reply *llms.Reply) []llms.Invocation {
	result, ok := reply.Native.(*anthropic.Message)
	if !ok || result == nil {
		return nil
	}

	var list []llms.Invocation
	for _, block := range result.Content {
		tu, ok := block.AsAny().(anthropic.ToolUseBlock)
		if !ok {
			continue
		}
		input, err := json.Marshal(tu.Input)
		if err != nil || len(input) == 0 || string(input) == "null" {
			input = []byte("{}")
		}
		list = append(list, llms.NewInvocation(tu.ID, tu.Name, string(input)))
	}
	return list
}

// FinishReason normalizes the stop reason
func FinishReason(stopReason string) llms.FinishReason {
	switch stopReason {
	case "end_turn", "stop_sequence":
		return llms.FinishReasonStop
	case "tool_use":
		return llms.FinishReasonToolUse
	case "max_tokens":
		return llms.FinishReasonLength
	case "refusal":
		return llms.FinishReasonFiltered
	}
	return llms.FinishReasonOther
}

// ToMessages converts the conversation to the SDK messages.
// Tool results are sent as `tool_result` blocks of a user message,
// consecutive messages of the same role are merged into one.
func ToMessages(messages []llms.Message) ([]anthropic.MessageParam, error) {
	var res []anthropic.MessageParam
	var lastRole anthropic.MessageParamRole

	for _, msg := range messages {
		role := anthropic.MessageParamRoleUser
		if msg.Role == llms.RoleAssistant {
			role = anthropic.MessageParamRoleAssistant
		}

		blocks, err := toBlocks(msg)
		if err != nil {
			return nil, err
		}
		if len(blocks) == 0 {
			continue
		}

		if len(res) > 0 && lastRole == role {
			last := &res[len(res)-1]
			last.Content = append(last.Content, blocks...)
			continue
		}

		if role == anthropic.MessageParamRoleAssistant {
			res = append(res, anthropic.NewAssistantMessage(blocks...))
		} else {
			res = append(res, anthropic.NewUserMessage(blocks...))
		}
		lastRole = role
	}
	return res, nil
}

func toBlocks(msg llms.Message) ([]anthropic.ContentBlockParamUnion, error) {
	var blocks []anthropic.ContentBlockParamUnion
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextPart:
			if p.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(p.Text))
			}
		case llms.ToolCallPart:
			input := json.RawMessage(p.Input)
			if len(input) == 0 || !json.Valid(input) {
				input = json.RawMessage("{}")
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(p.ID, input, p.Name))
		case llms.ToolResultPart:
			blocks = append(blocks, anthropic.NewToolResultBlock(p.CallID, p.Content, p.IsError))
		default:
			return nil, errors.WithMessagef(ErrUnsupportedPartType, "%T", part)
		}
	}
	return blocks, nil
}
