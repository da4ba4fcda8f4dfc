package content

import (
	"errors"
	"testing"
)

func TestParseFieldType(t *testing.T) {
	t.Parallel()

	valid := []string{"richtext", "text", "list", "map", "datetime", "string", "number", "object", "array", "blob"}
	for _, s := range valid {
		if _, err := ParseFieldType(s); err != nil {
			t.Errorf("ParseFieldType(%q) error = %v", s, err)
		}
	}

	if _, err := ParseFieldType("integer"); !errors.Is(err, ErrValidation) {
		t.Errorf("ParseFieldType(integer) error = %v, want ErrValidation", err)
	}
}

func TestValidateModel(t *testing.T) {
	t.Parallel()

	t.Run("accepts full descriptions", func(t *testing.T) {
		t.Parallel()
		model, err := ValidateModel(map[string]any{
			"title": map[string]any{"type": "string", "required": true},
			"body":  map[string]any{"type": "richtext", "required": false},
		})
		if err != nil {
			t.Fatalf("ValidateModel() error = %v", err)
		}
		if model["title"].Type != FieldString {
			t.Errorf("title type = %q, want string", model["title"].Type)
		}
		if model["title"].Required == nil || !*model["title"].Required {
			t.Error("title required = false, want true")
		}
		if model["body"].Required == nil || *model["body"].Required {
			t.Error("body required = true, want false")
		}
	})

	t.Run("tolerates partial descriptions", func(t *testing.T) {
		t.Parallel()
		model, err := ValidateModel(map[string]any{
			"notes": map[string]any{},
			"extra": map[string]any{"type": "text"},
		})
		if err != nil {
			t.Fatalf("ValidateModel() error = %v", err)
		}
		if model["notes"].Type != "" || model["notes"].Required != nil {
			t.Error("empty description should pass through unchanged")
		}
		if model["extra"].Required != nil {
			t.Error("absent required should stay absent")
		}
	})

	t.Run("rejects non-object description", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateModel(map[string]any{"title": "string"})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateModel(map[string]any{"title": map[string]any{"type": "integer"}})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects non-string type", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateModel(map[string]any{"title": map[string]any{"type": 7}})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})

	t.Run("rejects non-boolean required", func(t *testing.T) {
		t.Parallel()
		_, err := ValidateModel(map[string]any{"title": map[string]any{"required": "yes"}})
		if !errors.Is(err, ErrValidation) {
			t.Errorf("error = %v, want ErrValidation", err)
		}
	})
}
