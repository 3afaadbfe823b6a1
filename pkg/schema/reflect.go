package schema

import (
	"encoding/json"
	"reflect"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
	"github.com/invopop/jsonschema"
)

var (
	cache   = make(map[reflect.Type]*Schema)
	cacheMu sync.Mutex
)

// FromType returns the parameters schema of a Go struct type:
// an object with the struct fields as properties and no references.
// Fields without `omitempty` are required.
func FromType(t reflect.Type) (*Schema, error) {
	if t == nil {
		return nil, errors.New("parameters type is nil")
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Newf("parameters of %s must be an object, got %s", t.String(), t.Kind())
	}

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if s, ok := cache[t]; ok {
		return s.Clone(), nil
	}

	js, err := json.Marshal(JSONSchema(t))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to reflect %s", t.String())
	}
	s, err := Parse(js)
	if err != nil {
		return nil, err
	}
	delete(s.Extra, "$schema")
	delete(s.Extra, "$id")
	if len(s.Extra) == 0 {
		s.Extra = nil
	}
	if !s.Type.Has(TypeObject) {
		return nil, errors.Newf("parameters of %s must be an object, got %v", t.String(), s.Type)
	}

	cache[t] = s
	return s.Clone(), nil
}

// MustFromType returns the parameters schema of a Go struct type,
// and panics on error.
func MustFromType(t reflect.Type) *Schema {
	s, err := FromType(t)
	if err != nil {
		panic(err)
	}
	return s
}

// JSONSchema returns the reflected JSON schema of the type
func JSONSchema(t reflect.Type) *jsonschema.Schema {
	r := new(jsonschema.Reflector)
	r.ExpandedStruct = true
	r.DoNotReference = true
	r.AllowAdditionalProperties = true

	// Struct names may repeat across packages, the package path hash
	// keeps definitions distinct.
	r.Namer = func(t reflect.Type) string {
		name := t.Name()
		if t.Kind() == reflect.Struct {
			fullname := t.PkgPath() + "/" + t.Name()
			name = t.Name() + "@" + strconv.FormatUint(xxhash.Sum64String(fullname), 10)
		}
		return name
	}

	return r.ReflectFromType(t)
}
