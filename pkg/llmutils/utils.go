package llmutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/pkg/llms"
	"gopkg.in/yaml.v3"
)

func JSONIndent(body string) string {
	var buf bytes.Buffer
	_ = json.Indent(&buf, []byte(body), "", "\t")
	return buf.String()
}

func ToJSON(val any) string {
	js, _ := json.Marshal(val)
	return string(js)
}

func ToJSONIndent(val any) string {
	js, _ := json.MarshalIndent(val, "", "\t")
	return string(js)
}

func ToYAML(val any) string {
	js, _ := yaml.Marshal(val)
	return string(js)
}

// ToTOML returns TOML of the value.
// TOML has no null, so nil elements in arrays fail to encode.
func ToTOML(val any) (string, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(val); err != nil {
		return "", errors.Wrap(err, "failed to encode TOML")
	}
	return buf.String(), nil
}

func BackticksJSON(js string) string {
	return "\n```json\n" + strings.TrimSpace(js) + "\n```\n"
}

func BackticksYAML(js string) string {
	return "\n```yaml\n" + strings.TrimSpace(js) + "\n```\n"
}

type Stringer interface {
	String() string
}

func Stringify(s any) string {
	if v, ok := s.(Stringer); ok {
		return v.String()
	}
	if v, ok := s.(string); ok {
		return v
	}
	js, _ := json.MarshalIndent(s, "", "\t")
	return BackticksJSON(string(js))
}

// Truncate returns the first n runes of the text,
// with `...` appended when the text is longer.
func Truncate(text string, n int) string {
	if n <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// PrintConversation is a debugging helper for Conversation.
func PrintConversation(w io.Writer, conv *llms.Conversation) {
	if conv.System != "" {
		fmt.Fprintf(w, "SYSTEM: %s\n", conv.System)
	}
	for _, msg := range conv.Messages {
		role := strings.ToUpper(string(msg.Role))
		for _, p := range msg.Parts {
			switch pp := p.(type) {
			case llms.TextPart:
				fmt.Fprintf(w, "%s: %s\n", role, pp.Text)
			case llms.ToolCallPart:
				fmt.Fprintf(w, "%s: Tool Call: ID=%s, %s(%s)\n", role, pp.ID, pp.Name, pp.Input)
			case llms.ToolResultPart:
				kind := "Tool Result"
				if pp.IsError {
					kind = "Tool Error"
				}
				fmt.Fprintf(w, "%s: %s: ID=%s, %s: %s\n", role, kind, pp.CallID, pp.Name, pp.Content)
			}
		}
	}
}

// CountConversationSize counts the size of the content in the conversation
func CountConversationSize(conv *llms.Conversation) uint64 {
	size := uint64(len(conv.System))
	for _, msg := range conv.Messages {
		size += uint64(len(msg.Role))
		for _, p := range msg.Parts {
			switch pp := p.(type) {
			case llms.TextPart:
				size += uint64(len(pp.Text))
			case llms.ToolCallPart:
				size += uint64(len(pp.ID))
				size += uint64(len(pp.Name))
				size += uint64(len(pp.Input))
			case llms.ToolResultPart:
				size += uint64(len(pp.CallID))
				size += uint64(len(pp.Name))
				size += uint64(len(pp.Content))
			}
		}
	}
	return size
}

// EnsureEndsWithNewline ensures the message ends with a newline,
// it also removes any extra leading and trailing spaces.
func EnsureEndsWithNewline(s string) string {
	s = strings.TrimSpace(s)
	c := len(s)
	if c == 0 {
		return s
	}
	if s[c-1] != '\n' {
		return s + "\n"
	}
	return s
}
