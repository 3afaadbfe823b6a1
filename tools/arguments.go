package tools

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Arguments are the arguments of a tool call: a JSON object.
// Values are the JSON value algebra of encoding/json:
// nil, bool, float64, string, []any and map[string]any.
type Arguments map[string]any

// ParseArguments decodes a serialized arguments object.
// Empty input and `null` are an empty object; any other non-object value
// is ErrInvalidArguments.
func ParseArguments(data []byte) (Arguments, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return Arguments{}, nil
	}
	if trimmed[0] != '{' {
		return nil, errors.Mark(errors.Newf("arguments must be a JSON object: %s", truncate(trimmed, 64)), ErrInvalidArguments)
	}

	var args Arguments
	if err := json.Unmarshal(trimmed, &args); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to parse arguments"), ErrInvalidArguments)
	}
	if args == nil {
		args = Arguments{}
	}
	return args, nil
}

// Decode decodes the arguments into the typed input of a tool.
func Decode[I any](args Arguments) (*I, error) {
	js, err := json.Marshal(args)
	if err != nil {
		return nil, errors.Mark(errors.WithStack(err), ErrInvalidArguments)
	}
	in := new(I)
	if err = json.Unmarshal(js, in); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "failed to decode arguments"), ErrInvalidArguments)
	}
	return in, nil
}

// String returns the arguments as JSON.
func (a Arguments) String() string {
	if a == nil {
		return "{}"
	}
	js, _ := json.Marshal(a)
	return string(js)
}

func truncate(bs []byte, n int) string {
	if len(bs) <= n {
		return string(bs)
	}
	return string(bs[:n]) + "..."
}
