package tools

import (
	"context"

	"github.com/effective-security/mcpagent/pkg/schema"
)

// ITool is a tool implemented in process.
type ITool interface {
	// Name returns the name of the Tool.
	// The name must not contain the Separator.
	Name() string
	// Description returns the description of the tool, to be used in the prompt.
	// Should not exceed LLM model limit.
	Description() string
	// Parameters returns the schema of the tool arguments.
	Parameters() *schema.Schema
	// Call executes the tool with the given arguments and returns the result.
	// If the tool fails to decode the arguments, it should return ErrInvalidArguments error.
	Call(context.Context, Arguments) (string, error)
}

// Tool is a tool with typed input and output.
type Tool[I any, O any] interface {
	ITool
	Run(context.Context, *I) (*O, error)
}

// Func is the function backing a tool created by NewFunc.
type Func func(ctx context.Context, args Arguments) (string, error)

type funcTool struct {
	name        string
	description string
	params      *schema.Schema
	fn          Func
}

// NewFunc returns a tool backed by the function.
// A nil params is an object with no properties.
func NewFunc(name, description string, params *schema.Schema, fn Func) ITool {
	if params == nil {
		params = schema.Object(nil)
	}
	return &funcTool{
		name:        name,
		description: description,
		params:      params,
		fn:          fn,
	}
}

func (t *funcTool) Name() string {
	return t.name
}

func (t *funcTool) Description() string {
	return t.description
}

func (t *funcTool) Parameters() *schema.Schema {
	return t.params
}

func (t *funcTool) Call(ctx context.Context, args Arguments) (string, error) {
	return t.fn(ctx, args)
}
