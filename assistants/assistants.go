package assistants

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"github.com/effective-security/mcpagent/tools"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/mcpagent", "assistants")

//go:generate mockgen -source=assistants.go -destination=../mocks/mockassistants/assistants_mock.gen.go -package mockassistants

// ErrMaxTurns is returned when the model keeps requesting tools
// after the configured number of turns.
var ErrMaxTurns = errors.New("maximum number of turns exceeded")

// ToolDispatcher provides the tool catalog and executes tool calls,
// implemented by tools.Registry.
type ToolDispatcher interface {
	// Catalog returns the descriptors of all available tools.
	Catalog() []*tools.Descriptor
	// Dispatch executes the tool by the qualified name.
	Dispatch(ctx context.Context, name string, args tools.Arguments) (string, error)
}

// Callback receives the events of the run.
type Callback interface {
	OnRunStart(ctx context.Context, instruction string)
	OnRunEnd(ctx context.Context, res *Result)
	OnRunError(ctx context.Context, err error)

	// OnModelText is called for each text segment of the model reply
	OnModelText(ctx context.Context, text string)
	OnLLMCallStart(ctx context.Context, turn int, conv *llms.Conversation)
	OnLLMCallEnd(ctx context.Context, turn int, reply *llms.Reply)

	OnToolStart(ctx context.Context, inv llms.Invocation)
	OnToolEnd(ctx context.Context, inv llms.Invocation, output string)
	OnToolError(ctx context.Context, inv llms.Invocation, err error)
}

// Result is the outcome of a run.
type Result struct {
	// Answer is the text of the last reply
	Answer string
	// Turns is the number of model turns
	Turns int
	// ToolCalls is the number of executed tool calls, including failed ones
	ToolCalls    int
	FinishReason llms.FinishReason
	Usage        llms.Usage
	Conversation *llms.Conversation
}
