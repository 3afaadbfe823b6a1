package bedrockclient

import (
	"encoding/json"
)

// Ref: https://docs.aws.amazon.com/bedrock/latest/userguide/model-parameters-anthropic-claude-messages.html
// Also: https://docs.anthropic.com/claude/reference/messages_post

// The latest version of the model.
const (
	AnthropicLatestVersion = "bedrock-2023-05-31"
)

// Role attribute for the anthropic message.
const (
	AnthropicRoleUser      = "user"
	AnthropicRoleAssistant = "assistant"
)

// Type attribute for the anthropic content block.
const (
	AnthropicMessageTypeText       = "text"
	AnthropicMessageTypeToolUse    = "tool_use"
	AnthropicMessageTypeToolResult = "tool_result"
)

// Finish reason for the completion of the generation.
const (
	AnthropicCompletionReasonEndTurn      = "end_turn"
	AnthropicCompletionReasonMaxTokens    = "max_tokens"
	AnthropicCompletionReasonStopSequence = "stop_sequence"
	AnthropicCompletionReasonToolUse      = "tool_use"
	AnthropicCompletionReasonRefusal      = "refusal"
)

// Content is a content block of the input or output message.
type Content struct {
	// One of: "text", "tool_use", "tool_result"
	Type string `json:"type"`
	// Required if type is "text"
	Text string `json:"text,omitempty"`
	// Tool use fields
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
	// Tool result fields
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// Message is a message of the input,
// the system prompt is the System field of the Request.
type Message struct {
	// One of: ["user", "assistant"]
	Role    string    `json:"role"`
	Content []Content `json:"content"`
}

// Tool represents a tool that can be used by the model
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

// Request is the input to the model.
type Request struct {
	// The version of the model to use. Required
	AnthropicVersion string `json:"anthropic_version"`
	// The maximum number of tokens to generate per result. Required
	MaxTokens int `json:"max_tokens"`
	// The system prompt to use. Optional
	System   string     `json:"system,omitempty"`
	Messages []*Message `json:"messages"`
	// The amount of randomness injected into the response. Optional, default = 1
	Temperature *float64 `json:"temperature,omitempty"`
	Tools       []Tool   `json:"tools,omitempty"`
}

// Usage is the token usage of the generation.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Response is the generated output.
type Response struct {
	ID string `json:"id"`
	// For messages, it is "message"
	Type string `json:"type"`
	// This will always be "assistant".
	Role string `json:"role"`
	// Content blocks, "text" or "tool_use".
	Content []Content `json:"content"`
	// One of: ["end_turn", "max_tokens", "stop_sequence", "tool_use", "refusal"]
	StopReason   string `json:"stop_reason"`
	StopSequence string `json:"stop_sequence"`
	Usage        Usage  `json:"usage"`
}

// Texts returns the non-empty text blocks
func (r *Response) Texts() []string {
	var res []string
	for _, c := range r.Content {
		if c.Type == AnthropicMessageTypeText && c.Text != "" {
			res = append(res, c.Text)
		}
	}
	return res
}

// ToolUses returns the tool_use blocks
func (r *Response) ToolUses() []Content {
	var res []Content
	for _, c := range r.Content {
		if c.Type == AnthropicMessageTypeToolUse {
			res = append(res, c)
		}
	}
	return res
}

// AppendMessage appends the content blocks to the messages,
// consecutive blocks of the same role are merged into one message.
func AppendMessage(messages []*Message, role string, content ...Content) []*Message {
	if len(content) == 0 {
		return messages
	}
	if n := len(messages); n > 0 && messages[n-1].Role == role {
		messages[n-1].Content = append(messages[n-1].Content, content...)
		return messages
	}
	return append(messages, &Message{Role: role, Content: content})
}
