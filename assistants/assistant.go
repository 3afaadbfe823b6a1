package assistants

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/pkg/llmutils"
	"github.com/effective-security/mcpagent/pkg/metricskey"
	"github.com/effective-security/mcpagent/pkg/prompts"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// Assistant runs the conversation loop of one provider adapter
// with the tools of the dispatcher.
type Assistant struct {
	llm   llms.Adapter
	tools ToolDispatcher
	cfg   *Config
}

// New returns the Assistant
func New(adapter llms.Adapter, dispatcher ToolDispatcher, opts ...Option) *Assistant {
	return &Assistant{
		llm:   adapter,
		tools: dispatcher,
		cfg:   NewConfig(opts...),
	}
}

// Config returns the config of the Assistant
func (a *Assistant) Config() *Config {
	return a.cfg
}

// Run sends the instruction to the model and executes the requested tools,
// until the model replies without tool calls.
// On ErrMaxTurns or a provider failure the partial Result is returned
// together with the error.
func (a *Assistant) Run(ctx context.Context, instruction string) (*Result, error) {
	provider := string(a.llm.ProviderType())
	defer metricskey.PerfAssistantRun.MeasureSince(time.Now(), provider)

	callback := a.cfg.Callback
	if callback != nil {
		callback.OnRunStart(ctx, instruction)
	}

	res, err := a.run(ctx, instruction)
	if err != nil {
		metricskey.StatsAssistantRunsFailed.IncrCounter(1, provider)
		logger.ContextKV(ctx, xlog.ERROR,
			"status", "run_failed",
			"provider", provider,
			"model", a.llm.ModelName(),
			"err", err.Error(),
		)
		if callback != nil {
			callback.OnRunError(ctx, err)
		}
		return res, err
	}

	metricskey.StatsAssistantRunsSucceeded.IncrCounter(1, provider)
	if callback != nil {
		callback.OnRunEnd(ctx, res)
	}
	return res, nil
}

func (a *Assistant) run(ctx context.Context, instruction string) (*Result, error) {
	catalog := a.tools.Catalog()

	specs := make([]llms.ToolSpec, 0, len(catalog))
	for _, d := range catalog {
		spec, err := a.llm.DescribeTool(d)
		if err != nil {
			return nil, errors.WithMessagef(err, "failed to describe tool %q", d.Name)
		}
		specs = append(specs, spec)
	}

	system, err := a.systemPrompt(ctx, catalog)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Conversation: llms.NewConversation(system, instruction),
	}

	for {
		if a.cfg.MaxTurns > 0 && res.Turns >= a.cfg.MaxTurns {
			return res, errors.WithMessagef(ErrMaxTurns, "%d turns", res.Turns)
		}
		res.Turns++

		reply, err := a.sendTurn(ctx, res.Turns, res.Conversation, specs)
		if err != nil {
			return res, err
		}
		res.Usage.Add(reply.Usage)
		res.FinishReason = reply.FinishReason

		invocations := a.llm.ExtractInvocations(reply)

		msg := llms.Message{Role: llms.RoleAssistant}
		for _, text := range reply.Text {
			msg.Parts = append(msg.Parts, llms.TextPart{Text: text})
			if a.cfg.Callback != nil {
				a.cfg.Callback.OnModelText(ctx, text)
			}
		}
		for _, inv := range invocations {
			msg.Parts = append(msg.Parts, inv.ToolCall())
		}
		if len(msg.Parts) > 0 {
			res.Conversation.Append(msg)
		}

		if reply.FinishReason == llms.FinishReasonLength {
			logger.ContextKV(ctx, xlog.WARNING,
				"status", "max_tokens_reached",
				"turn", res.Turns,
				"finish_reason", reply.NativeFinishReason,
			)
		}

		if len(invocations) == 0 {
			res.Answer = reply.Content()
			return res, nil
		}

		for _, inv := range invocations {
			res.ToolCalls++
			res.Conversation.Append(llms.Message{
				Role:  llms.RoleTool,
				Parts: []llms.Part{a.execute(ctx, inv, catalog)},
			})
		}
	}
}

func (a *Assistant) sendTurn(ctx context.Context, turn int, conv *llms.Conversation, specs []llms.ToolSpec) (*llms.Reply, error) {
	provider := string(a.llm.ProviderType())
	model := a.llm.ModelName()

	if a.cfg.Callback != nil {
		a.cfg.Callback.OnLLMCallStart(ctx, turn, conv)
	}

	logger.ContextKV(ctx, xlog.DEBUG,
		"status", "send_turn",
		"turn", turn,
		"messages", len(conv.Messages),
		"size", llmutils.CountConversationSize(conv),
	)

	started := time.Now()
	reply, err := a.llm.SendTurn(ctx, conv, specs)
	metricskey.PerfLLMTurn.MeasureSince(started, provider, model)
	if err != nil {
		metricskey.StatsLLMFailed.IncrCounter(1, provider, model)
		if !errors.Is(err, llms.ErrProviderRequest) {
			err = errors.Mark(err, llms.ErrProviderRequest)
		}
		return nil, errors.WithMessagef(err, "turn %d", turn)
	}

	metricskey.StatsLLMTurns.IncrCounter(1, provider, model)
	metricskey.StatsLLMInputTokens.IncrCounter(float64(reply.Usage.InputTokens), provider, model)
	metricskey.StatsLLMOutputTokens.IncrCounter(float64(reply.Usage.OutputTokens), provider, model)

	if a.cfg.Callback != nil {
		a.cfg.Callback.OnLLMCallEnd(ctx, turn, reply)
	}
	return reply, nil
}

// execute runs the tool call, any failure becomes an error result
func (a *Assistant) execute(ctx context.Context, inv llms.Invocation, catalog []*tools.Descriptor) llms.ToolResultPart {
	callback := a.cfg.Callback

	if inv.Err != nil {
		metricskey.StatsToolArgumentsInvalid.IncrCounter(1, inv.Name)
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "invalid_arguments",
			"tool", inv.Name,
			"call_id", inv.ID,
			"input", slices.StringUpto(inv.Input, 64),
			"err", inv.Err.Error(),
		)
		if callback != nil {
			callback.OnToolError(ctx, inv, inv.Err)
		}
		return llms.Error(inv.ID, inv.Name, inv.Err.Error())
	}

	if callback != nil {
		callback.OnToolStart(ctx, inv)
	}

	output, err := a.tools.Dispatch(ctx, inv.Name, inv.Arguments)
	if err != nil {
		if callback != nil {
			callback.OnToolError(ctx, inv, err)
		}
		text := err.Error()
		if errors.Is(err, tools.ErrToolNotFound) {
			text = fmt.Sprintf("%s. Available tools: %s", text, strings.Join(toolNames(catalog), ", "))
		}
		return llms.Error(inv.ID, inv.Name, text)
	}

	if callback != nil {
		callback.OnToolEnd(ctx, inv, output)
	}
	return llms.Ok(inv.ID, inv.Name, output)
}

// systemPrompt renders the configured prompt as a template.
// A prompt without template actions is sent as is. A prompt that fails
// to parse is sent as is too, unless prompt input values are configured.
func (a *Assistant) systemPrompt(ctx context.Context, catalog []*tools.Descriptor) (string, error) {
	if a.cfg.SystemPrompt == "" {
		return "", nil
	}
	if !strings.Contains(a.cfg.SystemPrompt, "{{") {
		return strings.TrimSpace(a.cfg.SystemPrompt), nil
	}

	values := map[string]any{
		"tools":    toolNames(catalog),
		"provider": string(a.llm.ProviderType()),
		"model":    a.llm.ModelName(),
	}
	for k, v := range a.cfg.PromptInput {
		values[k] = v
	}

	prompt, err := prompts.Render(a.cfg.SystemPrompt, values)
	if err != nil {
		if len(a.cfg.PromptInput) > 0 {
			return "", errors.Mark(errors.WithMessage(err, "invalid system prompt"), tools.ErrConfiguration)
		}
		logger.ContextKV(ctx, xlog.WARNING,
			"status", "system_prompt_not_template",
			"err", err.Error(),
		)
		return strings.TrimSpace(a.cfg.SystemPrompt), nil
	}
	return strings.TrimSpace(prompt), nil
}

func toolNames(catalog []*tools.Descriptor) []string {
	names := make([]string, 0, len(catalog))
	for _, d := range catalog {
		names = append(names, d.Name)
	}
	return names
}
