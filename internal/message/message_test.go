package message

import (
	"encoding/json"
	"testing"
)

func TestMessage_UnmarshalUnitVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		check func(Message) bool
	}{
		{`"GetSite"`, func(m Message) bool { return m.GetSite }},
		{`"GetTheme"`, func(m Message) bool { return m.GetTheme }},
		{`"InitDefault"`, func(m Message) bool { return m.InitDefault }},
		{`{"GetSite": null}`, func(m Message) bool { return m.GetSite }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			var m Message
			if err := json.Unmarshal([]byte(tt.input), &m); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if !tt.check(m) {
				t.Errorf("Unmarshal(%s) did not set the expected variant", tt.input)
			}
		})
	}
}

func TestMessage_UnmarshalTaggedVariants(t *testing.T) {
	t.Parallel()

	t.Run("CreateSite", func(t *testing.T) {
		t.Parallel()
		var m Message
		input := `{"CreateSite": {"name": "S1", "theme_id": "t-1"}}`
		if err := json.Unmarshal([]byte(input), &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if m.CreateSite == nil {
			t.Fatal("CreateSite not set")
		}
		if m.CreateSite.Name != "S1" || m.CreateSite.ThemeID != "t-1" {
			t.Errorf("CreateSite = %+v", m.CreateSite)
		}
		if m.Variant() != "CreateSite" {
			t.Errorf("Variant() = %q", m.Variant())
		}
	})

	t.Run("AddCollection carries raw fields", func(t *testing.T) {
		t.Parallel()
		var m Message
		input := `{"AddCollection": {"project_type": "theme", "name": "recipe",
			"fields": {"servings": {"type": "number", "required": true}}}}`
		if err := json.Unmarshal([]byte(input), &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if m.AddCollection == nil {
			t.Fatal("AddCollection not set")
		}
		desc := m.AddCollection.Fields["servings"]
		if desc["type"] != "number" {
			t.Errorf("field type = %v", desc["type"])
		}
	})

	t.Run("UpdateFile with nested update", func(t *testing.T) {
		t.Parallel()
		var m Message
		input := `{"UpdateFile": {"project_type": "site", "collection_name": "page",
			"file_id": "f-1", "updates": {"SetTitle": "Hi"}}}`
		if err := json.Unmarshal([]byte(input), &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if m.UpdateFile == nil || m.UpdateFile.Updates.SetTitle == nil {
			t.Fatalf("UpdateFile = %+v", m.UpdateFile)
		}
		if *m.UpdateFile.Updates.SetTitle != "Hi" {
			t.Errorf("SetTitle = %q", *m.UpdateFile.Updates.SetTitle)
		}
	})

	t.Run("GetDocument with optional since_version", func(t *testing.T) {
		t.Parallel()
		var m Message
		if err := json.Unmarshal([]byte(`{"GetDocument": {"document_id": "d-1"}}`), &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if m.GetDocument == nil || m.GetDocument.SinceVersion != nil {
			t.Errorf("GetDocument = %+v, want nil SinceVersion", m.GetDocument)
		}

		if err := json.Unmarshal([]byte(`{"GetDocument": {"document_id": "d-1", "since_version": 3}}`), &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if m.GetDocument.SinceVersion == nil || *m.GetDocument.SinceVersion != 3 {
			t.Errorf("SinceVersion = %v, want 3", m.GetDocument.SinceVersion)
		}
	})

	t.Run("ApplySteps", func(t *testing.T) {
		t.Parallel()
		var m Message
		input := `{"ApplySteps": {"document_id": "d-1", "version": 2, "client_id": "c-9",
			"steps": [{"type": "insert", "from": 0, "to": 0, "content": "hi"}]}}`
		if err := json.Unmarshal([]byte(input), &m); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if m.ApplySteps == nil || len(m.ApplySteps.Steps) != 1 {
			t.Fatalf("ApplySteps = %+v", m.ApplySteps)
		}
		if m.ApplySteps.Steps[0].Content != "hi" {
			t.Errorf("step content = %q", m.ApplySteps.Steps[0].Content)
		}
	})
}

func TestMessage_UnmarshalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"unknown unit variant", `"Frobnicate"`},
		{"unknown tagged variant", `{"Frobnicate": {}}`},
		{"two variants", `{"GetSite": null, "GetTheme": null}`},
		{"zero variants", `{}`},
		{"not an object or string", `42`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var m Message
			if err := json.Unmarshal([]byte(tt.input), &m); err == nil {
				t.Errorf("Unmarshal(%s) expected error", tt.input)
			}
		})
	}
}

func TestMessage_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("unit variant encodes as bare string", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Message{GetTheme: true})
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(data) != `"GetTheme"` {
			t.Errorf("Marshal() = %s, want \"GetTheme\"", data)
		}
	})

	t.Run("payload variant round trips", func(t *testing.T) {
		t.Parallel()
		orig := Message{CreateFile: &CreateFile{ProjectType: "site", CollectionName: "page", Name: "about"}}
		data, err := json.Marshal(orig)
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		var got Message
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if got.CreateFile == nil || *got.CreateFile != *orig.CreateFile {
			t.Errorf("round trip = %+v, want %+v", got.CreateFile, orig.CreateFile)
		}
	})
}

func TestFileUpdate_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("string variants", func(t *testing.T) {
		t.Parallel()
		tests := []struct {
			input string
			get   func(FileUpdate) *string
		}{
			{`{"SetName": "n"}`, func(u FileUpdate) *string { return u.SetName }},
			{`{"SetContent": "c"}`, func(u FileUpdate) *string { return u.SetContent }},
			{`{"SetBody": "b"}`, func(u FileUpdate) *string { return u.SetBody }},
			{`{"SetTitle": "t"}`, func(u FileUpdate) *string { return u.SetTitle }},
			{`{"SetUrl": "u"}`, func(u FileUpdate) *string { return u.SetURL }},
			{`{"SetMimeType": "m"}`, func(u FileUpdate) *string { return u.SetMimeType }},
			{`{"SetAlt": "a"}`, func(u FileUpdate) *string { return u.SetAlt }},
		}
		for _, tt := range tests {
			var u FileUpdate
			if err := json.Unmarshal([]byte(tt.input), &u); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			if tt.get(u) == nil {
				t.Errorf("Unmarshal(%s) did not set the variant", tt.input)
			}
		}
	})

	t.Run("SetField", func(t *testing.T) {
		t.Parallel()
		var u FileUpdate
		if err := json.Unmarshal([]byte(`{"SetField": {"name": "servings", "value": "4"}}`), &u); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if u.SetField == nil || u.SetField.Name != "servings" || u.SetField.Value != "4" {
			t.Errorf("SetField = %+v", u.SetField)
		}
	})

	t.Run("rejects multiple variants", func(t *testing.T) {
		t.Parallel()
		var u FileUpdate
		if err := json.Unmarshal([]byte(`{"SetName": "a", "SetTitle": "b"}`), &u); err == nil {
			t.Error("expected error for two variants")
		}
	})

	t.Run("rejects unknown variant", func(t *testing.T) {
		t.Parallel()
		var u FileUpdate
		if err := json.Unmarshal([]byte(`{"SetColor": "red"}`), &u); err == nil {
			t.Error("expected error for unknown variant")
		}
	})
}

func TestResponse_JSON(t *testing.T) {
	t.Parallel()

	t.Run("success encodes under Success", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Success(map[string]any{"status": "ok"}))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(data) != `{"Success":{"status":"ok"}}` {
			t.Errorf("Marshal() = %s", data)
		}
	})

	t.Run("error encodes under Error", func(t *testing.T) {
		t.Parallel()
		data, err := json.Marshal(Error("boom"))
		if err != nil {
			t.Fatalf("Marshal() error = %v", err)
		}
		if string(data) != `{"Error":"boom"}` {
			t.Errorf("Marshal() = %s", data)
		}
	})

	t.Run("decode success", func(t *testing.T) {
		t.Parallel()
		var r Response
		if err := json.Unmarshal([]byte(`{"Success": [1, 2]}`), &r); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if r.IsError() {
			t.Error("IsError() = true for success")
		}
	})

	t.Run("decode error", func(t *testing.T) {
		t.Parallel()
		var r Response
		if err := json.Unmarshal([]byte(`{"Error": "boom"}`), &r); err != nil {
			t.Fatalf("Unmarshal() error = %v", err)
		}
		if !r.IsError() || r.ErrorMessage() != "boom" {
			t.Errorf("IsError() = %v, ErrorMessage() = %q", r.IsError(), r.ErrorMessage())
		}
	})

	t.Run("rejects both keys", func(t *testing.T) {
		t.Parallel()
		var r Response
		if err := json.Unmarshal([]byte(`{"Success": 1, "Error": "x"}`), &r); err == nil {
			t.Error("expected error for response with both keys")
		}
	})

	t.Run("rejects neither key", func(t *testing.T) {
		t.Parallel()
		var r Response
		if err := json.Unmarshal([]byte(`{"Other": 1}`), &r); err == nil {
			t.Error("expected error for response with unknown key")
		}
	})
}
