package tools_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/mcpagent/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArguments(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		name string
		in   string
		exp  tools.Arguments
		err  string
	}{
		{name: "empty", in: "", exp: tools.Arguments{}},
		{name: "spaces", in: " \n", exp: tools.Arguments{}},
		{name: "null", in: "null", exp: tools.Arguments{}},
		{name: "empty_object", in: "{}", exp: tools.Arguments{}},
		{
			name: "values",
			in:   `{"s":"x","n":1.5,"b":true,"z":null,"a":[1,"2"],"o":{"k":"v"}}`,
			exp: tools.Arguments{
				"s": "x",
				"n": 1.5,
				"b": true,
				"z": nil,
				"a": []any{float64(1), "2"},
				"o": map[string]any{"k": "v"},
			},
		},
		{name: "array", in: `[1,2]`, err: "arguments must be a JSON object: [1,2]"},
		{name: "string", in: `"text"`, err: `arguments must be a JSON object: "text"`},
		{name: "malformed", in: `{"a":`, err: "failed to parse arguments"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			args, err := tools.ParseArguments([]byte(tc.in))
			if tc.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.err)
				assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.exp, args)
		})
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	type input struct {
		Query string `json:"query"`
		Limit int    `json:"limit"`
	}

	in, err := tools.Decode[input](tools.Arguments{"query": "go", "limit": float64(3)})
	require.NoError(t, err)
	assert.Equal(t, &input{Query: "go", Limit: 3}, in)

	_, err = tools.Decode[input](tools.Arguments{"limit": "three"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, tools.ErrInvalidArguments))
}

func TestArgumentsString(t *testing.T) {
	t.Parallel()

	var nilArgs tools.Arguments
	assert.Equal(t, "{}", nilArgs.String())
	assert.Equal(t, `{"a":1,"b":"x"}`, tools.Arguments{"b": "x", "a": 1}.String())
}
