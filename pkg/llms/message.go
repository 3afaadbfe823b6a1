package llms

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
)

// Role is the role of the message author.
type Role string

const (
	// RoleUser is the role of the user instruction.
	RoleUser Role = "user"
	// RoleAssistant is the role of the model reply.
	RoleAssistant Role = "assistant"
	// RoleTool is the role of a tool result.
	RoleTool Role = "tool"
)

// Part is a part of the message:
// TextPart, ToolCallPart or ToolResultPart.
type Part interface {
	isPart()
}

// TextPart is a free text segment.
type TextPart struct {
	Text string `json:"text"`
}

// ToolCallPart is a tool call requested by the model.
type ToolCallPart struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Input is the serialized arguments as the provider sent them
	Input string `json:"input"`
	// Signature is an opaque provider token that must be sent back
	// with the call on the next turns
	Signature []byte `json:"signature,omitempty"`
}

// ToolResultPart is the result of a tool call, correlated by CallID.
type ToolResultPart struct {
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

func (TextPart) isPart()       {}
func (ToolCallPart) isPart()   {}
func (ToolResultPart) isPart() {}

// Ok returns a successful tool result.
func Ok(callID, name, text string) ToolResultPart {
	return ToolResultPart{CallID: callID, Name: name, Content: text}
}

// Error returns a failed tool result.
func Error(callID, name, text string) ToolResultPart {
	return ToolResultPart{CallID: callID, Name: name, Content: text, IsError: true}
}

// Message is a message of the conversation.
type Message struct {
	Role  Role
	Parts []Part
}

// TextMessage returns a message with a single text part
func TextMessage(role Role, text string) Message {
	return Message{
		Role:  role,
		Parts: []Part{TextPart{Text: text}},
	}
}

// Text returns the text parts joined with new line
func (m Message) Text() string {
	var texts []string
	for _, p := range m.Parts {
		if tp, ok := p.(TextPart); ok {
			texts = append(texts, tp.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// ToolCalls returns the tool call parts
func (m Message) ToolCalls() []ToolCallPart {
	var calls []ToolCallPart
	for _, p := range m.Parts {
		if tc, ok := p.(ToolCallPart); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ToolResults returns the tool result parts
func (m Message) ToolResults() []ToolResultPart {
	var results []ToolResultPart
	for _, p := range m.Parts {
		if tr, ok := p.(ToolResultPart); ok {
			results = append(results, tr)
		}
	}
	return results
}

type partJSON struct {
	Type    string `json:"type"`
	Text    string `json:"text"`
	ID      string `json:"id"`
	CallID  string `json:"call_id"`
	Name    string `json:"name"`
	Input   string `json:"input"`
	Content string `json:"content"`
	IsError bool   `json:"is_error"`
	// Signature is base64 encoded by encoding/json
	Signature []byte `json:"signature"`
}

type messageJSON struct {
	Role  Role              `json:"role"`
	Parts []json.RawMessage `json:"parts"`
}

// MarshalJSON encodes the parts with the `type` discriminator:
// text, tool_call or tool_result.
func (m Message) MarshalJSON() ([]byte, error) {
	mj := messageJSON{
		Role:  m.Role,
		Parts: make([]json.RawMessage, 0, len(m.Parts)),
	}
	for _, p := range m.Parts {
		var v any
		switch pp := p.(type) {
		case TextPart:
			v = struct {
				Type string `json:"type"`
				TextPart
			}{"text", pp}
		case ToolCallPart:
			v = struct {
				Type string `json:"type"`
				ToolCallPart
			}{"tool_call", pp}
		case ToolResultPart:
			v = struct {
				Type string `json:"type"`
				ToolResultPart
			}{"tool_result", pp}
		default:
			return nil, errors.Newf("unsupported part type: %T", p)
		}
		js, err := json.Marshal(v)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		mj.Parts = append(mj.Parts, js)
	}
	return json.Marshal(mj)
}

// UnmarshalJSON decodes the message encoded by MarshalJSON.
func (m *Message) UnmarshalJSON(data []byte) error {
	var mj messageJSON
	if err := json.Unmarshal(data, &mj); err != nil {
		return errors.WithStack(err)
	}
	m.Role = mj.Role
	m.Parts = make([]Part, 0, len(mj.Parts))
	for _, raw := range mj.Parts {
		var pj partJSON
		if err := json.Unmarshal(raw, &pj); err != nil {
			return errors.WithStack(err)
		}
		switch pj.Type {
		case "text":
			m.Parts = append(m.Parts, TextPart{Text: pj.Text})
		case "tool_call":
			m.Parts = append(m.Parts, ToolCallPart{ID: pj.ID, Name: pj.Name, Input: pj.Input, Signature: pj.Signature})
		case "tool_result":
			m.Parts = append(m.Parts, ToolResultPart{CallID: pj.CallID, Name: pj.Name, Content: pj.Content, IsError: pj.IsError})
		default:
			return errors.Newf("unsupported part type: %q", pj.Type)
		}
	}
	return nil
}

// Conversation is the ordered, append-only history of a run.
type Conversation struct {
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
}

// NewConversation returns a conversation with the optional system prompt
// and the user instruction.
func NewConversation(system, instruction string) *Conversation {
	return &Conversation{
		System:   system,
		Messages: []Message{TextMessage(RoleUser, instruction)},
	}
}

// Append adds the messages to the end of the conversation
func (c *Conversation) Append(msgs ...Message) {
	c.Messages = append(c.Messages, msgs...)
}

// Last returns the last message, or nil
func (c *Conversation) Last() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return &c.Messages[len(c.Messages)-1]
}

// FinishReason is the normalized reason the model stopped generating.
type FinishReason string

const (
	FinishReasonStop     FinishReason = "stop"
	FinishReasonToolUse  FinishReason = "tool_use"
	FinishReasonLength   FinishReason = "length"
	FinishReasonFiltered FinishReason = "filtered"
	FinishReasonOther    FinishReason = "other"
)

// Usage is the token usage.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add adds the usage
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// Total returns the total tokens
func (u Usage) Total() int64 {
	return u.InputTokens + u.OutputTokens
}

// Reply is the model reply to one turn.
type Reply struct {
	// Text is the list of free text segments
	Text []string
	// FinishReason is the normalized finish reason
	FinishReason FinishReason
	// NativeFinishReason is the finish reason as the provider sent it
	NativeFinishReason string
	Usage              Usage
	// Native is the provider response, consumed by ExtractInvocations
	Native any
}

// Content returns the text segments joined with new line
func (r *Reply) Content() string {
	return strings.Join(r.Text, "\n")
}

// Invocation is a tool call requested by the model.
type Invocation struct {
	// ID correlates the result with the call
	ID string
	// Name is the qualified tool name
	Name string
	// Input is the serialized arguments as the provider sent them
	Input string
	// Arguments are the parsed arguments
	Arguments tools.Arguments
	// Err is set when the arguments failed to parse,
	// the call must be answered with an error result
	Err error
	// Signature is the opaque provider token of the call
	Signature []byte
}

// ToolCall returns the call part for the assistant message
func (i Invocation) ToolCall() ToolCallPart {
	return ToolCallPart{ID: i.ID, Name: i.Name, Input: i.Input, Signature: i.Signature}
}

// NewInvocation parses the serialized arguments
func NewInvocation(id, name, input string) Invocation {
	args, err := tools.ParseArguments([]byte(input))
	return Invocation{
		ID:        id,
		Name:      name,
		Input:     input,
		Arguments: args,
		Err:       err,
	}
}
