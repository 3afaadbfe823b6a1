package callbacks

import (
	"context"

	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/x/slices"
	"github.com/effective-security/xlog"
)

// PackageLogger is a callback handler that prints to the logger.
type PackageLogger struct {
	logger *xlog.PackageLogger
}

func NewPackageLogger(logger *xlog.PackageLogger) *PackageLogger {
	return &PackageLogger{logger: logger}
}

func (l *PackageLogger) OnRunStart(ctx context.Context, instruction string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "run_start",
		"instruction", slices.StringUpto(instruction, 256),
	)
}

func (l *PackageLogger) OnRunEnd(ctx context.Context, res *assistants.Result) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "run_end",
		"turns", res.Turns,
		"tool_calls", res.ToolCalls,
		"finish_reason", res.FinishReason,
		"input_tokens", res.Usage.InputTokens,
		"output_tokens", res.Usage.OutputTokens,
	)
}

func (l *PackageLogger) OnRunError(ctx context.Context, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "run_error",
		"err", err.Error(),
	)
}

func (l *PackageLogger) OnModelText(ctx context.Context, text string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "model_text",
		"text", slices.StringUpto(text, 256),
	)
}

func (l *PackageLogger) OnLLMCallStart(ctx context.Context, turn int, conv *llms.Conversation) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_start",
		"turn", turn,
		"messages", len(conv.Messages),
	)
}

func (l *PackageLogger) OnLLMCallEnd(ctx context.Context, turn int, reply *llms.Reply) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "llm_call_end",
		"turn", turn,
		"finish_reason", reply.FinishReason,
		"native_finish_reason", reply.NativeFinishReason,
	)
}

func (l *PackageLogger) OnToolStart(ctx context.Context, inv llms.Invocation) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", inv.Name,
		"call_id", inv.ID,
		"input", slices.StringUpto(inv.Input, 256),
	)
}

func (l *PackageLogger) OnToolEnd(ctx context.Context, inv llms.Invocation, output string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", inv.Name,
		"call_id", inv.ID,
		"output", slices.StringUpto(output, 256),
	)
}

func (l *PackageLogger) OnToolError(ctx context.Context, inv llms.Invocation, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", inv.Name,
		"call_id", inv.ID,
		"err", err.Error(),
	)
}
