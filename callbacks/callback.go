package callbacks

import (
	"context"

	"github.com/effective-security/mcpagent/assistants"
	"github.com/effective-security/mcpagent/pkg/llms"
)

// ensure that the callbacks implement the correct interfaces
var (
	_ assistants.Callback = (*Noop)(nil)
	_ assistants.Callback = (*Printer)(nil)
	_ assistants.Callback = (*PackageLogger)(nil)
	_ assistants.Callback = (*Fanout)(nil)
)

// Fanout is a callback handler that forwards the events to multiple callbacks.
type Fanout struct {
	callbacks []assistants.Callback
}

func NewFanout(callbacks ...assistants.Callback) *Fanout {
	f := &Fanout{}
	for _, cb := range callbacks {
		f.Add(cb)
	}
	return f
}

// Add appends the callback, nil is ignored
func (l *Fanout) Add(callback assistants.Callback) {
	if callback != nil {
		l.callbacks = append(l.callbacks, callback)
	}
}

func (l *Fanout) OnRunStart(ctx context.Context, instruction string) {
	for _, callback := range l.callbacks {
		callback.OnRunStart(ctx, instruction)
	}
}

func (l *Fanout) OnRunEnd(ctx context.Context, res *assistants.Result) {
	for _, callback := range l.callbacks {
		callback.OnRunEnd(ctx, res)
	}
}

func (l *Fanout) OnRunError(ctx context.Context, err error) {
	for _, callback := range l.callbacks {
		callback.OnRunError(ctx, err)
	}
}

func (l *Fanout) OnModelText(ctx context.Context, text string) {
	for _, callback := range l.callbacks {
		callback.OnModelText(ctx, text)
	}
}

func (l *Fanout) OnLLMCallStart(ctx context.Context, turn int, conv *llms.Conversation) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallStart(ctx, turn, conv)
	}
}

func (l *Fanout) OnLLMCallEnd(ctx context.Context, turn int, reply *llms.Reply) {
	for _, callback := range l.callbacks {
		callback.OnLLMCallEnd(ctx, turn, reply)
	}
}

func (l *Fanout) OnToolStart(ctx context.Context, inv llms.Invocation) {
	for _, callback := range l.callbacks {
		callback.OnToolStart(ctx, inv)
	}
}

func (l *Fanout) OnToolEnd(ctx context.Context, inv llms.Invocation, output string) {
	for _, callback := range l.callbacks {
		callback.OnToolEnd(ctx, inv, output)
	}
}

func (l *Fanout) OnToolError(ctx context.Context, inv llms.Invocation, err error) {
	for _, callback := range l.callbacks {
		callback.OnToolError(ctx, inv, err)
	}
}

// Noop does nothing.
type Noop struct{}

func NewNoop() *Noop {
	return &Noop{}
}

func (l *Noop) OnRunStart(ctx context.Context, instruction string)                    {}
func (l *Noop) OnRunEnd(ctx context.Context, res *assistants.Result)                  {}
func (l *Noop) OnRunError(ctx context.Context, err error)                             {}
func (l *Noop) OnModelText(ctx context.Context, text string)                          {}
func (l *Noop) OnLLMCallStart(ctx context.Context, turn int, conv *llms.Conversation) {}
func (l *Noop) OnLLMCallEnd(ctx context.Context, turn int, reply *llms.Reply)         {}
func (l *Noop) OnToolStart(ctx context.Context, inv llms.Invocation)                  {}
func (l *Noop) OnToolEnd(ctx context.Context, inv llms.Invocation, output string)     {}
func (l *Noop) OnToolError(ctx context.Context, inv llms.Invocation, err error)       {}
