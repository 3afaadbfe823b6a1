package googleai

import (
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"google.golang.org/genai"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent/pkg/llms", "googleai")

var (
	ErrNoContentInResponse = errors.New("googleai: no content in generation response")
	ErrUnsupportedPartType = errors.New("googleai: unsupported message part type")
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ModelName implements the Adapter interface.
func (g *GoogleAI) ModelName() string {
	return g.opts.Model
}

// ProviderType implements the Adapter interface.
func (g *GoogleAI) ProviderType() llms.ProviderType {
	return llms.ProviderGoogleAI
}

// DescribeTool implements the Adapter interface,
// the canonical schema is advertised as JSON schema.
func (g *GoogleAI) DescribeTool(d *tools.Descriptor) (llms.ToolSpec, error) {
	fd := &genai.FunctionDeclaration{
		Name:        d.Name,
		Description: d.Description,
	}
	if d.InputSchema != nil {
		params, err := d.InputSchema.ToMap()
		if err != nil {
			return llms.ToolSpec{}, errors.WithMessagef(err, "googleai: tool %q", d.Name)
		}
		fd.ParametersJsonSchema = params
	}
	return llms.ToolSpec{
		Name:   d.Name,
		Native: fd,
	}, nil
}

// SendTurn implements the Adapter interface.
func (g *GoogleAI) SendTurn(ctx context.Context, conv *llms.Conversation, specs []llms.ToolSpec) (*llms.Reply, error) {
	history, err := ToContents(conv.Messages)
	if err != nil {
		return nil, err
	}

	callCfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.opts.CallOptions.MaxTokens),
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryDangerousContent,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategoryHarassment,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: g.opts.HarmThreshold,
			},
			{
				Category:  genai.HarmCategorySexuallyExplicit,
				Threshold: g.opts.HarmThreshold,
			},
		},
	}
	if t := g.opts.CallOptions.Temperature; t != nil {
		callCfg.Temperature = genai.Ptr(float32(*t))
	}
	if conv.System != "" {
		callCfg.SystemInstruction = genai.NewContentFromText(conv.System, RoleUser)
	}
	if len(specs) > 0 {
		tool := &genai.Tool{}
		for _, spec := range specs {
			fd, ok := spec.Native.(*genai.FunctionDeclaration)
			if !ok {
				return nil, errors.Newf("googleai: tool %q: unexpected spec %T", spec.Name, spec.Native)
			}
			tool.FunctionDeclarations = append(tool.FunctionDeclarations, fd)
		}
		callCfg.Tools = []*genai.Tool{tool}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.opts.Model, history, callCfg)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "googleai: failed to generate content"), llms.ErrProviderRequest)
	}
	if len(resp.Candidates) == 0 {
		reason := ""
		if resp.PromptFeedback != nil {
			reason = string(resp.PromptFeedback.BlockReason)
		}
		return nil, errors.Mark(errors.WithMessagef(ErrNoContentInResponse, "block reason: %q", reason), llms.ErrProviderRequest)
	}

	candidate := resp.Candidates[0]
	reply := &llms.Reply{
		NativeFinishReason: string(candidate.FinishReason),
		Native:             candidate,
	}
	if resp.UsageMetadata != nil {
		reply.Usage = llms.Usage{
			InputTokens:  int64(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	hasCalls := false
	if candidate.Content != nil {
		for _, part := range candidate.Content.Parts {
			switch {
			case part == nil || part.Thought:
			case part.FunctionCall != nil:
				hasCalls = true
				// Gemini API does not always return call IDs
				if part.FunctionCall.ID == "" {
					part.FunctionCall.ID = uuid.NewString()
				}
			case part.Text != "":
				reply.Text = append(reply.Text, part.Text)
			}
		}
	}
	reply.FinishReason = FinishReason(string(candidate.FinishReason), hasCalls)

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "generate_content",
		"model", g.opts.Model,
		"finish_reason", reply.NativeFinishReason,
		"input_tokens", reply.Usage.InputTokens,
		"output_tokens", reply.Usage.OutputTokens,
	)
	return reply, nil
}

// ExtractInvocations implements the Adapter interface.
func (g *GoogleAI) ExtractInvocations(reply *llms.Reply) []llms.Invocation {
	candidate, ok := reply.Native.(*genai.Candidate)
	if !ok || candidate == nil || candidate.Content == nil {
		return nil
	}

	var list []llms.Invocation
	for _, part := range candidate.Content.Parts {
		if part == nil || part.FunctionCall == nil {
			continue
		}
		fc := part.FunctionCall
		args := fc.Args
		if args == nil {
			args = map[string]any{}
		}
		input, err := json.Marshal(args)
		if err != nil {
			list = append(list, llms.Invocation{
				ID:        fc.ID,
				Name:      fc.Name,
				Err:       errors.Mark(errors.WithStack(err), tools.ErrInvalidArguments),
				Signature: part.ThoughtSignature,
			})
			continue
		}
		list = append(list, llms.Invocation{
			ID:        fc.ID,
			Name:      fc.Name,
			Input:     string(input),
			Arguments: tools.Arguments(args),
			Signature: part.ThoughtSignature,
		})
	}
	return list
}

// FinishReason normalizes the finish reason.
// Gemini reports STOP when the reply has function calls.
func FinishReason(reason string, hasCalls bool) llms.FinishReason {
	switch reason {
	case "STOP", "":
		if hasCalls {
			return llms.FinishReasonToolUse
		}
		return llms.FinishReasonStop
	case "MAX_TOKENS":
		return llms.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT", "SPII", "IMAGE_SAFETY":
		return llms.FinishReasonFiltered
	}
	return llms.FinishReasonOther
}

// ToContents converts the conversation to the genai contents.
// Tool results are sent as FunctionResponse parts of a user content,
// consecutive messages of the same role are merged into one.
func ToContents(messages []llms.Message) ([]*genai.Content, error) {
	var res []*genai.Content
	for _, msg := range messages {
		role := RoleUser
		if msg.Role == llms.RoleAssistant {
			role = RoleModel
		}

		parts, err := toParts(msg)
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			continue
		}

		if n := len(res); n > 0 && res[n-1].Role == role {
			res[n-1].Parts = append(res[n-1].Parts, parts...)
			continue
		}
		res = append(res, &genai.Content{Role: role, Parts: parts})
	}
	return res, nil
}

func toParts(msg llms.Message) ([]*genai.Part, error) {
	var parts []*genai.Part
	for _, part := range msg.Parts {
		switch p := part.(type) {
		case llms.TextPart:
			if p.Text != "" {
				parts = append(parts, &genai.Part{Text: p.Text})
			}
		case llms.ToolCallPart:
			args, err := tools.ParseArguments([]byte(p.Input))
			if err != nil {
				args = tools.Arguments{}
			}
			parts = append(parts, &genai.Part{
				FunctionCall: &genai.FunctionCall{
					ID:   p.ID,
					Name: p.Name,
					Args: args,
				},
				ThoughtSignature: p.Signature,
			})
		case llms.ToolResultPart:
			key := "output"
			if p.IsError {
				key = "error"
			}
			parts = append(parts, &genai.Part{
				FunctionResponse: &genai.FunctionResponse{
					ID:       p.CallID,
					Name:     p.Name,
					Response: map[string]any{key: p.Content},
				},
			})
		default:
			return nil, errors.WithMessagef(ErrUnsupportedPartType, "%T", part)
		}
	}
	return parts, nil
}
