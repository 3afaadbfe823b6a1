package schema

import (
	"bytes"
	"encoding/json"
	"slices"
	"sort"

	"github.com/cockroachdb/errors"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// JSON Schema type names.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeNull    = "null"
)

// TypeSet is the value of the `type` keyword.
// One type is encoded as a string, several types as an array.
type TypeSet []string

// Has returns true if the set contains the type.
func (t TypeSet) Has(name string) bool {
	return slices.Contains(t, name)
}

// MarshalJSON implements json.Marshaler
func (t TypeSet) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON implements json.Unmarshaler
func (t *TypeSet) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*t = TypeSet{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.Wrap(err, "type must be a string or an array of strings")
	}
	*t = many
	return nil
}

// Properties is the ordered set of object properties.
type Properties = orderedmap.OrderedMap[string, *Schema]

// NewProperties returns an empty property set.
func NewProperties() *Properties {
	return orderedmap.New[string, *Schema]()
}

// Schema describes a JSON value: tool parameters, nested objects,
// arrays and scalars.
type Schema struct {
	Type                 TypeSet
	Description          string
	Properties           *Properties
	Items                *Schema
	Required             []string
	AdditionalProperties *Schema
	Default              json.RawMessage
	Enum                 []json.RawMessage
	// Extra holds the keywords without a dedicated field, verbatim.
	Extra map[string]json.RawMessage

	// boolean is set for the `true` and `false` schemas
	boolean *bool
}

// True returns the schema that accepts any value.
func True() *Schema {
	b := true
	return &Schema{boolean: &b}
}

// False returns the schema that rejects every value.
func False() *Schema {
	b := false
	return &Schema{boolean: &b}
}

// Bool returns the value of a boolean schema, and false for ok
// if the schema is not boolean.
func (s *Schema) Bool() (value bool, ok bool) {
	if s == nil || s.boolean == nil {
		return false, false
	}
	return *s.boolean, true
}

// Object returns an object schema with the given properties.
// Properties listed in required are marked as required.
func Object(props *Properties, required ...string) *Schema {
	if props == nil {
		props = NewProperties()
	}
	return &Schema{
		Type:       TypeSet{TypeObject},
		Properties: props,
		Required:   required,
	}
}

// Scalar returns a schema of the given type with description.
func Scalar(typ, description string) *Schema {
	return &Schema{
		Type:        TypeSet{typ},
		Description: description,
	}
}

// Property returns the property schema by name, or nil.
func (s *Schema) Property(name string) *Schema {
	if s == nil || s.Properties == nil {
		return nil
	}
	p, _ := s.Properties.Get(name)
	return p
}

// HasDefault returns true if the `default` keyword is present.
func (s *Schema) HasDefault() bool {
	return s != nil && len(s.Default) > 0
}

// IsRequired returns true if the property is listed in `required`.
func (s *Schema) IsRequired(name string) bool {
	return s != nil && slices.Contains(s.Required, name)
}

// Clone returns a deep copy of the schema.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	c := &Schema{
		Type:                 slices.Clone(s.Type),
		Description:          s.Description,
		Items:                s.Items.Clone(),
		Required:             slices.Clone(s.Required),
		AdditionalProperties: s.AdditionalProperties.Clone(),
		Default:              slices.Clone(s.Default),
	}
	if s.boolean != nil {
		b := *s.boolean
		c.boolean = &b
	}
	if s.Properties != nil {
		c.Properties = NewProperties()
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			c.Properties.Set(pair.Key, pair.Value.Clone())
		}
	}
	if s.Enum != nil {
		c.Enum = make([]json.RawMessage, len(s.Enum))
		for i, v := range s.Enum {
			c.Enum[i] = slices.Clone(v)
		}
	}
	if s.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(s.Extra))
		for k, v := range s.Extra {
			c.Extra[k] = slices.Clone(v)
		}
	}
	return c
}

// MarshalJSON implements json.Marshaler.
// Known keywords are written first in a fixed order, then the extra keywords
// sorted by name.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s.boolean != nil {
		return json.Marshal(*s.boolean)
	}

	m := orderedmap.New[string, any]()
	if len(s.Type) > 0 {
		m.Set("type", s.Type)
	}
	if s.Description != "" {
		m.Set("description", s.Description)
	}
	if s.Properties != nil {
		m.Set("properties", s.Properties)
	}
	if s.Items != nil {
		m.Set("items", s.Items)
	}
	if len(s.Required) > 0 {
		m.Set("required", s.Required)
	}
	if s.AdditionalProperties != nil {
		m.Set("additionalProperties", s.AdditionalProperties)
	}
	if len(s.Default) > 0 {
		m.Set("default", s.Default)
	}
	if len(s.Enum) > 0 {
		m.Set("enum", s.Enum)
	}

	keys := make([]string, 0, len(s.Extra))
	for k := range s.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, s.Extra[k])
	}

	return json.Marshal(m)
}

// UnmarshalJSON implements json.Unmarshaler
func (s *Schema) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true":
		*s = *True()
		return nil
	case "false":
		*s = *False()
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return errors.Wrap(err, "schema must be an object or a boolean")
	}

	*s = Schema{}
	for key, value := range raw {
		var err error
		switch key {
		case "type":
			err = json.Unmarshal(value, &s.Type)
		case "description":
			err = json.Unmarshal(value, &s.Description)
		case "properties":
			s.Properties = NewProperties()
			err = json.Unmarshal(value, s.Properties)
		case "items":
			if isArray(value) {
				// tuple validation has no dedicated field
				s.setExtra(key, value)
				continue
			}
			s.Items = new(Schema)
			err = json.Unmarshal(value, s.Items)
		case "required":
			err = json.Unmarshal(value, &s.Required)
		case "additionalProperties":
			s.AdditionalProperties = new(Schema)
			err = json.Unmarshal(value, s.AdditionalProperties)
		case "default":
			s.Default = slices.Clone(value)
		case "enum":
			err = json.Unmarshal(value, &s.Enum)
		default:
			s.setExtra(key, value)
		}
		if err != nil {
			return errors.Wrapf(err, "invalid %q keyword", key)
		}
	}
	return nil
}

func (s *Schema) setExtra(key string, value json.RawMessage) {
	if s.Extra == nil {
		s.Extra = make(map[string]json.RawMessage)
	}
	s.Extra[key] = slices.Clone(value)
}

// String returns indented JSON
func (s *Schema) String() string {
	js, _ := json.MarshalIndent(s, "", "\t")
	return string(js)
}

// ToMap returns the schema as a generic JSON object,
// as required by SDKs that accept untyped parameters.
func (s *Schema) ToMap() (map[string]any, error) {
	js, err := json.Marshal(s)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	var m map[string]any
	if err = json.Unmarshal(js, &m); err != nil {
		return nil, errors.Wrap(err, "schema is not a JSON object")
	}
	return m, nil
}

// Parse returns the schema decoded from JSON.
func Parse(data []byte) (*Schema, error) {
	s := new(Schema)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, errors.Wrap(err, "failed to parse schema")
	}
	return s, nil
}

// MustParse returns the schema decoded from JSON, and panics on error.
//
// For example:
//
//	schema.MustParse(`{
//		"type": "object",
//		"properties": {
//			"query": {"type": "string"}
//		}
//	}`)
func MustParse(data string) *Schema {
	s, err := Parse([]byte(data))
	if err != nil {
		panic(err)
	}
	return s
}

// FromAny creates a schema from any JSON-serializable value,
// for example a map[string]any or a schema from another library.
func FromAny(v any) (*Schema, error) {
	if raw, ok := v.(json.RawMessage); ok {
		return Parse(raw)
	}
	js, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return Parse(js)
}

func isArray(data json.RawMessage) bool {
	trimmed := bytes.TrimSpace(data)
	return len(trimmed) > 0 && trimmed[0] == '['
}
