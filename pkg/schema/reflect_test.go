package schema_test

import (
	"reflect"
	"testing"

	"github.com/effective-security/mcpagent/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Search represents a search request with various parameters.
type Search struct {
	Topic string  `json:"topic,omitempty" jsonschema:"title=Topic,description=Topic of the search"`
	Query string  `json:"query" jsonschema:"title=Query,description=Query to search for relevant content"`
	Type  string  `json:"type" jsonschema:"title=Type,description=Type of search,enum=web,enum=image"`
	Args  []*Pair `json:"args,omitempty" jsonschema:"title=Args,description=Arguments for the search"`
}

// Pair represents a key-value pair.
type Pair struct {
	Key   string `json:"key" jsonschema:"description=Key of the pair"`
	Value string `json:"value" jsonschema:"description=Value of the pair"`
}

func TestFromType(t *testing.T) {
	t.Parallel()

	s, err := schema.FromType(reflect.TypeOf(Search{}))
	require.NoError(t, err)

	assert.True(t, s.Type.Has(schema.TypeObject))
	assert.ElementsMatch(t, []string{"query", "type"}, s.Required)
	assert.NotContains(t, s.Extra, "$schema")
	assert.NotContains(t, s.Extra, "$ref")

	assert.Equal(t, "Query to search for relevant content", s.Property("query").Description)
	assert.Len(t, s.Property("type").Enum, 2)

	args := s.Property("args")
	require.NotNil(t, args)
	assert.True(t, args.Type.Has(schema.TypeArray))
	require.NotNil(t, args.Items)
	assert.True(t, args.Items.Type.Has(schema.TypeObject))
	assert.ElementsMatch(t, []string{"key", "value"}, args.Items.Required)

	// cached copies are independent
	s.Required = nil
	s2 := schema.MustFromType(reflect.TypeOf(Search{}))
	assert.ElementsMatch(t, []string{"query", "type"}, s2.Required)
}

func TestFromType_NotObject(t *testing.T) {
	t.Parallel()

	tcases := []struct {
		typ reflect.Type
		exp string
	}{
		{typ: reflect.TypeOf(""), exp: "parameters of string must be an object, got string"},
		{typ: reflect.TypeOf(0), exp: "parameters of int must be an object, got int"},
		{typ: reflect.TypeOf([]Search{}), exp: "must be an object, got slice"},
		{typ: reflect.TypeOf(map[string]any{}), exp: "must be an object, got map"},
		{typ: reflect.TypeOf(new(int)), exp: "parameters of int must be an object"},
		{typ: nil, exp: "parameters type is nil"},
	}
	for _, tc := range tcases {
		_, err := schema.FromType(tc.typ)
		require.Error(t, err)
		assert.Contains(t, err.Error(), tc.exp)
	}
	assert.Panics(t, func() { schema.MustFromType(reflect.TypeOf(0)) })

	// pointers to structs are dereferenced
	s, err := schema.FromType(reflect.TypeOf(&Search{}))
	require.NoError(t, err)
	assert.True(t, s.Type.Has(schema.TypeObject))
}
