package schema

// Strict returns a copy of s rewritten for providers that accept only closed
// objects with every property required.
//
// For each object with declared properties, `additionalProperties` defaults
// to false, and every optional property becomes required and nullable:
// `null` is added to its type and its `default` is dropped.
// Arrays are rewritten through their items. Other schemas are unchanged.
//
// The input schema is not modified, and Strict(Strict(s)) equals Strict(s).
func Strict(s *Schema) *Schema {
	out := s.Clone()
	strict(out)
	return out
}

func strict(s *Schema) {
	if s == nil || s.boolean != nil {
		return
	}

	if s.Type.Has(TypeArray) {
		strict(s.Items)
	}

	if !s.Type.Has(TypeObject) || s.Properties == nil {
		return
	}

	if s.AdditionalProperties == nil {
		s.AdditionalProperties = False()
	}

	for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
		prop := pair.Value
		if prop == nil {
			continue
		}
		if !s.IsRequired(pair.Key) {
			if len(prop.Type) > 0 && !prop.Type.Has(TypeNull) {
				prop.Type = append(prop.Type, TypeNull)
			}
			prop.Default = nil
			s.Required = append(s.Required, pair.Key)
		}
		strict(prop)
	}
}
