package message

import (
	"encoding/json"
	"fmt"
)

// FileUpdate is the closed set of update variants UpdateFile accepts.
// Exactly one variant is set per message; which variants a given file
// accepts depends on its declared type and is checked by the actor.
type FileUpdate struct {
	SetField    *SetField `json:"SetField,omitempty"`
	SetName     *string   `json:"SetName,omitempty"`
	SetContent  *string   `json:"SetContent,omitempty"`
	SetBody     *string   `json:"SetBody,omitempty"`
	SetTitle    *string   `json:"SetTitle,omitempty"`
	SetURL      *string   `json:"SetUrl,omitempty"`
	SetMimeType *string   `json:"SetMimeType,omitempty"`
	SetAlt      *string   `json:"SetAlt,omitempty"`
}

// SetField targets an extension field by name.
type SetField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (u *FileUpdate) UnmarshalJSON(data []byte) error {
	*u = FileUpdate{}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("file update must be a tagged object: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("file update must carry exactly one variant, got %d keys", len(obj))
	}

	for name, raw := range obj {
		if name == "SetField" {
			u.SetField = &SetField{}
			if err := json.Unmarshal(raw, u.SetField); err != nil {
				return fmt.Errorf("decoding SetField payload: %w", err)
			}
			return nil
		}

		target := u.stringVariant(name)
		if target == nil {
			return fmt.Errorf("unknown file update %q", name)
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("decoding %s payload: %w", name, err)
		}
	}
	return nil
}

func (u *FileUpdate) stringVariant(name string) **string {
	switch name {
	case "SetName":
		return &u.SetName
	case "SetContent":
		return &u.SetContent
	case "SetBody":
		return &u.SetBody
	case "SetTitle":
		return &u.SetTitle
	case "SetUrl":
		return &u.SetURL
	case "SetMimeType":
		return &u.SetMimeType
	case "SetAlt":
		return &u.SetAlt
	}
	return nil
}

func (u FileUpdate) MarshalJSON() ([]byte, error) {
	type alias FileUpdate
	return json.Marshal(alias(u))
}

// Variant returns the name of the variant set on this update, or "".
func (u *FileUpdate) Variant() string {
	switch {
	case u.SetField != nil:
		return "SetField"
	case u.SetName != nil:
		return "SetName"
	case u.SetContent != nil:
		return "SetContent"
	case u.SetBody != nil:
		return "SetBody"
	case u.SetTitle != nil:
		return "SetTitle"
	case u.SetURL != nil:
		return "SetUrl"
	case u.SetMimeType != nil:
		return "SetMimeType"
	case u.SetAlt != nil:
		return "SetAlt"
	}
	return ""
}
