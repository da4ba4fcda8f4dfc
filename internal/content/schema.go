package content

import "fmt"

// FieldType is the closed enumeration of schema field types.
type FieldType string

const (
	FieldRichText FieldType = "richtext"
	FieldText     FieldType = "text"
	FieldList     FieldType = "list"
	FieldMap      FieldType = "map"
	FieldDateTime FieldType = "datetime"
	FieldString   FieldType = "string"
	FieldNumber   FieldType = "number"
	FieldObject   FieldType = "object"
	FieldArray    FieldType = "array"
	FieldBlob     FieldType = "blob"
)

// ParseFieldType converts a string into a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	switch FieldType(s) {
	case FieldRichText, FieldText, FieldList, FieldMap, FieldDateTime,
		FieldString, FieldNumber, FieldObject, FieldArray, FieldBlob:
		return FieldType(s), nil
	default:
		return "", fmt.Errorf("%w: invalid field type %q", ErrValidation, s)
	}
}

// FieldDefinition describes one field in a collection's schema.
// Type and Required may be absent: partial descriptions are legal and pass
// through validation unchanged.
type FieldDefinition struct {
	Type     FieldType `json:"type,omitempty"`
	Required *bool     `json:"required,omitempty"`
}

// Model maps field names to their definitions.
type Model map[string]FieldDefinition

// ValidateModel checks an untyped candidate schema, as received over the
// serialization boundary, and converts it into a Model. It rejects — never
// coerces — any field whose description is not an object, whose type is
// present but not in the enumeration, or whose required flag is present but
// not a boolean. Absent type/required on a field description is tolerated.
func ValidateModel(candidate map[string]any) (Model, error) {
	model := make(Model, len(candidate))
	for name, raw := range candidate {
		desc, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: field %q description must be an object", ErrValidation, name)
		}

		var def FieldDefinition
		if t, present := desc["type"]; present {
			s, ok := t.(string)
			if !ok {
				return nil, fmt.Errorf("%w: field %q type must be a string", ErrValidation, name)
			}
			ft, err := ParseFieldType(s)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			def.Type = ft
		}
		if r, present := desc["required"]; present {
			b, ok := r.(bool)
			if !ok {
				return nil, fmt.Errorf("%w: field %q required must be a boolean", ErrValidation, name)
			}
			def.Required = &b
		}

		model[name] = def
	}
	return model, nil
}

func boolPtr(b bool) *bool { return &b }

// requiredField is a convenience for the bootstrap models, which always
// carry both type and required.
func requiredField(t FieldType) FieldDefinition {
	return FieldDefinition{Type: t, Required: boolPtr(true)}
}
