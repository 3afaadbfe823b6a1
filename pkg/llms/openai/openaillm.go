// Package openai implements the Adapter for OpenAI and Azure OpenAI chat completions.
package openai

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/values"
	"github.com/effective-security/xlog"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg/llms", "openai")

var (
	ErrEmptyResponse       = errors.New("no response")
	ErrMissingToken        = errors.New("missing the OpenAI API key, set it in the OPENAI_API_KEY environment variable")
	ErrMissingAzureModel   = errors.New("model (deployment name) needs to be provided when using Azure API")
	ErrMissingAzureBaseURL = errors.New("endpoint needs to be provided when using Azure API")
	ErrUnsupportedPartType = errors.New("unsupported message part type")
)

// ErrorPrefix is prepended to the content of failed tool results
const ErrorPrefix = "Error: "

type LLM struct {
	client *openai.Client
	opts   *options
}

var _ llms.Adapter = (*LLM)(nil)

// New returns a new OpenAI or Azure OpenAI adapter.
func New(opts ...Option) (*LLM, error) {
	o := &options{
		provider:    llms.ProviderOpenAI,
		httpClient:  http.DefaultClient,
		maxRetries:  2,
		callOptions: llms.NewCallOptions(),
	}
	for _, opt := range opts {
		opt(o)
	}

	sdkOpts := []option.RequestOption{
		option.WithMaxRetries(o.maxRetries),
		option.WithRequestTimeout(5 * time.Minute),
	}
	if o.httpClient != nil {
		sdkOpts = append(sdkOpts, option.WithHTTPClient(o.httpClient))
	}

	switch o.provider {
	case llms.ProviderOpenAI:
		o.token = values.StringsCoalesce(o.token, os.Getenv(tokenEnvVarName))
		o.baseURL = values.StringsCoalesce(o.baseURL, os.Getenv(baseURLEnvVarName))
		o.organization = values.StringsCoalesce(o.organization, os.Getenv(organizationEnvVarName))
		if o.token == "" {
			return nil, ErrMissingToken
		}
		if o.model == "" {
			return nil, errors.New("model is required")
		}

		sdkOpts = append(sdkOpts, option.WithAPIKey(o.token))
		if o.baseURL != "" {
			sdkOpts = append(sdkOpts, option.WithBaseURL(o.baseURL))
		}
		if o.organization != "" {
			sdkOpts = append(sdkOpts, option.WithOrganization(o.organization))
		}
	case llms.ProviderAzure:
		o.token = values.StringsCoalesce(o.token, os.Getenv(azureTokenEnvVarName), os.Getenv(tokenEnvVarName))
		o.baseURL = values.StringsCoalesce(o.baseURL, os.Getenv(azureBaseEnvVarName))
		o.apiVersion = values.StringsCoalesce(o.apiVersion, DefaultAPIVersion)
		if o.token == "" {
			return nil, ErrMissingToken
		}
		if o.model == "" {
			return nil, ErrMissingAzureModel
		}
		if o.baseURL == "" {
			return nil, ErrMissingAzureBaseURL
		}
		sdkOpts = append(sdkOpts,
			azure.WithEndpoint(o.baseURL, o.apiVersion),
			azure.WithAPIKey(o.token),
		)
	default:
		return nil, errors.Newf("unsupported provider: %s", o.provider)
	}

	for k, v := range o.headers {
		sdkOpts = append(sdkOpts, option.WithHeader(k, v))
	}

	client := openai.NewClient(sdkOpts...)
	return &LLM{
		client: &client,
		opts:   o,
	}, nil
}

// ModelName implements the Adapter interface.
func (o *LLM) ModelName() string {
	return o.opts.model
}

// ProviderType implements the Adapter interface.
func (o *LLM) ProviderType() llms.ProviderType {
	return o.opts.provider
}

// DescribeTool implements the Adapter interface.
// The schema is normalized with schema.Strict and the function is
// advertised in strict mode.
func (o *LLM) DescribeTool(d *tools.Descriptor) (llms.ToolSpec, error) {
	strict := schema.Strict(d.InputSchema)
	if strict == nil {
		strict = schema.Object(nil)
	}
	params, err := strict.ToMap()
	if err != nil {
		return llms.ToolSpec{}, errors.WithMessagef(err, "tool %q", d.Name)
	}

	fn := openai.FunctionDefinitionParam{
		Name:       d.Name,
		Parameters: openai.FunctionParameters(params),
		// strict mode requires declared properties
		Strict: openai.Bool(strict.Properties != nil && strict.Properties.Len() > 0),
	}
	if d.Description != "" {
		fn.Description = openai.String(d.Description)
	}

	return llms.ToolSpec{
		Name:   d.Name,
		Native: openai.ChatCompletionFunctionTool(fn),
	}, nil
}

// SendTurn implements the Adapter interface.
func (o *LLM) SendTurn(ctx context.Context, conv *llms.Conversation, specs []llms.ToolSpec) (*llms.Reply, error) {
	messages, err := ToMessages(conv)
	if err != nil {
		return nil, err
	}

	params := openai.ChatCompletionNewParams{
		Model:               openai.ChatModel(o.opts.model),
		Messages:            messages,
		MaxCompletionTokens: openai.Int(int64(o.opts.callOptions.MaxTokens)),
	}
	if t := o.opts.callOptions.Temperature; t != nil {
		params.Temperature = openai.Float(*t)
	}
	for _, spec := range specs {
		tool, ok := spec.Native.(openai.ChatCompletionToolUnionParam)
		if !ok {
			return nil, errors.Newf("tool %q: unexpected spec %T", spec.Name, spec.Native)
		}
		params.Tools = append(params.Tools, tool)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to create chat completion"), llms.ErrProviderRequest)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Mark(ErrEmptyResponse, llms.ErrProviderRequest)
	}

	choice := resp.Choices[0]
	reply := &llms.Reply{
		NativeFinishReason: choice.FinishReason,
		FinishReason:       FinishReason(choice.FinishReason),
		Usage: llms.Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		Native: resp,
	}
	if choice.Message.Content != "" {
		reply.Text = append(reply.Text, choice.Message.Content)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "chat_completion",
		"provider", o.opts.provider,
		"model", o.opts.model,
		"finish_reason", choice.FinishReason,
		"tool_calls", len(choice.Message.ToolCalls),
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
	)

	if choice.Message.Refusal != "" {
		return reply, errors.Mark(errors.Newf("the model refused to respond: %s", choice.Message.Refusal), llms.ErrProviderRequest)
	}
	return reply, nil
}

// ExtractInvocations implements the Adapter interface.
// The arguments are a serialized JSON string, parsed per call.
func (o *LLM) ExtractInvocations(reply *llms.Reply) []llms.Invocation {
	resp, ok := reply.Native.(*openai.ChatCompletion)
	if !ok || resp == nil || len(resp.Choices) == 0 {
		return nil
	}

	var list []llms.Invocation
	for _, tc := range resp.Choices[0].Message.ToolCalls {
		list = append(list, llms.NewInvocation(tc.ID, tc.Function.Name, tc.Function.Arguments))
	}
	return list
}

// FinishReason normalizes the finish reason
func FinishReason(reason string) llms.FinishReason {
	switch reason {
	case "stop":
		return llms.FinishReasonStop
	case "tool_calls", "function_call":
		return llms.FinishReasonToolUse
	case "length":
		return llms.FinishReasonLength
	case "content_filter":
		return llms.FinishReasonFiltered
	}
	return llms.FinishReasonOther
}

// ToMessages converts the conversation to the SDK messages.
// Each tool result is a `tool` message correlated by tool_call_id,
// failed results are prefixed with ErrorPrefix.
func ToMessages(conv *llms.Conversation) ([]openai.ChatCompletionMessageParamUnion, error) {
	var res []openai.ChatCompletionMessageParamUnion
	if conv.System != "" {
		res = append(res, openai.SystemMessage(conv.System))
	}

	for _, msg := range conv.Messages {
		switch msg.Role {
		case llms.RoleUser:
			res = append(res, openai.UserMessage(msg.Text()))
		case llms.RoleAssistant:
			am := &openai.ChatCompletionAssistantMessageParam{}
			if text := msg.Text(); text != "" {
				am.Content = openai.ChatCompletionAssistantMessageParamContentUnion{
					OfString: openai.String(text),
				}
			}
			for _, tc := range msg.ToolCalls() {
				am.ToolCalls = append(am.ToolCalls, openai.ChatCompletionMessageToolCallUnionParam{
					OfFunction: &openai.ChatCompletionMessageFunctionToolCallParam{
						ID: tc.ID,
						Function: openai.ChatCompletionMessageFunctionToolCallFunctionParam{
							Name:      tc.Name,
							Arguments: values.StringsCoalesce(tc.Input, "{}"),
						},
					},
				})
			}
			res = append(res, openai.ChatCompletionMessageParamUnion{OfAssistant: am})
		case llms.RoleTool:
			for _, tr := range msg.ToolResults() {
				content := tr.Content
				if tr.IsError {
					content = ErrorPrefix + content
				}
				res = append(res, openai.ToolMessage(content, tr.CallID))
			}
		default:
			return nil, errors.WithMessagef(ErrUnsupportedPartType, "role %q", msg.Role)
		}
	}
	return res, nil
}
