// Package message defines the request/response protocol of the actor.
//
// Requests and responses cross a serialization boundary: every request is a
// tagged JSON object with exactly one recognized key (payload-free variants
// may also appear as a bare JSON string), and every response is exactly one
// of {"Success": ...} or {"Error": "..."} — never both, never neither.
package message

import (
	"encoding/json"
	"fmt"
)

// Message is the closed set of requests the actor accepts. Exactly one
// variant is set; UnmarshalJSON enforces this for decoded messages.
type Message struct {
	CreateSite         *CreateSite         `json:"CreateSite,omitempty"`
	GetSite            bool                `json:"-"`
	CreateTheme        *CreateTheme        `json:"CreateTheme,omitempty"`
	GetTheme           bool                `json:"-"`
	AddCollection      *AddCollection      `json:"AddCollection,omitempty"`
	GetCollection      *CollectionRef      `json:"GetCollection,omitempty"`
	ListCollections    *ListCollections    `json:"ListCollections,omitempty"`
	CreateFile         *CreateFile         `json:"CreateFile,omitempty"`
	UpdateFile         *UpdateFile         `json:"UpdateFile,omitempty"`
	GetFile            *FileRef            `json:"GetFile,omitempty"`
	ListFiles          *CollectionRef      `json:"ListFiles,omitempty"`
	DeleteFile         *FileRef            `json:"DeleteFile,omitempty"`
	SaveState          *SaveState          `json:"SaveState,omitempty"`
	LoadState          *LoadState          `json:"LoadState,omitempty"`
	ExportProject      *ExportProject      `json:"ExportProject,omitempty"`
	ImportProject      *ImportProject      `json:"ImportProject,omitempty"`
	InitDefault        bool                `json:"-"`
	InitializeDocument *InitializeDocument `json:"InitializeDocument,omitempty"`
	GetDocument        *GetDocument        `json:"GetDocument,omitempty"`
	ApplySteps         *ApplySteps         `json:"ApplySteps,omitempty"`
}

type CreateSite struct {
	Name    string `json:"name"`
	ThemeID string `json:"theme_id"`
}

type CreateTheme struct {
	Name string `json:"name"`
}

// AddCollection carries the candidate field model as it arrived over the
// wire; validation happens in the schema layer, not during decoding.
type AddCollection struct {
	ProjectType string                    `json:"project_type"`
	Name        string                    `json:"name"`
	Fields      map[string]map[string]any `json:"fields"`
}

type CollectionRef struct {
	ProjectType string `json:"project_type"`
	Name        string `json:"name"`
}

type ListCollections struct {
	ProjectType string `json:"project_type"`
}

type CreateFile struct {
	ProjectType    string `json:"project_type"`
	CollectionName string `json:"collection_name"`
	Name           string `json:"name"`
}

type UpdateFile struct {
	ProjectType    string     `json:"project_type"`
	CollectionName string     `json:"collection_name"`
	FileID         string     `json:"file_id"`
	Updates        FileUpdate `json:"updates"`
}

type FileRef struct {
	ProjectType    string `json:"project_type"`
	CollectionName string `json:"collection_name"`
	FileID         string `json:"file_id"`
}

type SaveState struct {
	ProjectType string `json:"project_type"`
}

type LoadState struct {
	SiteID  *string `json:"site_id"`
	ThemeID *string `json:"theme_id"`
}

type ExportProject struct {
	ProjectType string `json:"project_type"`
}

type ImportProject struct {
	Data        []byte `json:"data"`
	ID          string `json:"id"`
	ProjectType string `json:"project_type"`
	Created     int64  `json:"created"` // unix milliseconds
	Updated     int64  `json:"updated"` // unix milliseconds
}

type InitializeDocument struct {
	DocumentID string `json:"document_id"`
	Content    string `json:"content"`
}

// GetDocument fetches a document's content, version and applied steps.
// SinceVersion limits the steps to those with a greater version; absent, all
// retained steps are returned.
type GetDocument struct {
	DocumentID   string `json:"document_id"`
	SinceVersion *int   `json:"since_version,omitempty"`
}

// ApplySteps streams one batch of position-addressed edit operations from
// the external editing surface. Version must equal the document's current
// version or the whole batch is rejected.
type ApplySteps struct {
	DocumentID string `json:"document_id"`
	Steps      []Step `json:"steps"`
	Version    int    `json:"version"`
	ClientID   string `json:"client_id"`
}

// Step is one position-addressed edit: insert at From, delete [From, To),
// or replace [From, To) with Content.
type Step struct {
	Type    string `json:"type"` // "insert", "delete" or "replace"
	From    int    `json:"from"`
	To      int    `json:"to"`
	Content string `json:"content,omitempty"`
}

// unitVariants are the payload-free messages, encoded as bare strings.
var unitVariants = map[string]func(*Message){
	"GetSite":     func(m *Message) { m.GetSite = true },
	"GetTheme":    func(m *Message) { m.GetTheme = true },
	"InitDefault": func(m *Message) { m.InitDefault = true },
}

func (m *Message) UnmarshalJSON(data []byte) error {
	*m = Message{}

	var unit string
	if err := json.Unmarshal(data, &unit); err == nil {
		set, ok := unitVariants[unit]
		if !ok {
			return fmt.Errorf("unknown message %q", unit)
		}
		set(m)
		return nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("message must be a tagged object or variant name: %w", err)
	}
	if len(obj) != 1 {
		return fmt.Errorf("message must carry exactly one variant, got %d keys", len(obj))
	}

	for name, raw := range obj {
		if set, ok := unitVariants[name]; ok {
			set(m)
			return nil
		}
		target := m.payloadFor(name)
		if target == nil {
			return fmt.Errorf("unknown message %q", name)
		}
		if err := json.Unmarshal(raw, target); err != nil {
			return fmt.Errorf("decoding %s payload: %w", name, err)
		}
	}
	return nil
}

// payloadFor allocates and wires the payload struct for a variant name,
// returning a pointer to decode into. Nil for unrecognized names.
func (m *Message) payloadFor(name string) any {
	switch name {
	case "CreateSite":
		m.CreateSite = &CreateSite{}
		return m.CreateSite
	case "CreateTheme":
		m.CreateTheme = &CreateTheme{}
		return m.CreateTheme
	case "AddCollection":
		m.AddCollection = &AddCollection{}
		return m.AddCollection
	case "GetCollection":
		m.GetCollection = &CollectionRef{}
		return m.GetCollection
	case "ListCollections":
		m.ListCollections = &ListCollections{}
		return m.ListCollections
	case "CreateFile":
		m.CreateFile = &CreateFile{}
		return m.CreateFile
	case "UpdateFile":
		m.UpdateFile = &UpdateFile{}
		return m.UpdateFile
	case "GetFile":
		m.GetFile = &FileRef{}
		return m.GetFile
	case "ListFiles":
		m.ListFiles = &CollectionRef{}
		return m.ListFiles
	case "DeleteFile":
		m.DeleteFile = &FileRef{}
		return m.DeleteFile
	case "SaveState":
		m.SaveState = &SaveState{}
		return m.SaveState
	case "LoadState":
		m.LoadState = &LoadState{}
		return m.LoadState
	case "ExportProject":
		m.ExportProject = &ExportProject{}
		return m.ExportProject
	case "ImportProject":
		m.ImportProject = &ImportProject{}
		return m.ImportProject
	case "InitializeDocument":
		m.InitializeDocument = &InitializeDocument{}
		return m.InitializeDocument
	case "GetDocument":
		m.GetDocument = &GetDocument{}
		return m.GetDocument
	case "ApplySteps":
		m.ApplySteps = &ApplySteps{}
		return m.ApplySteps
	}
	return nil
}

func (m Message) MarshalJSON() ([]byte, error) {
	switch {
	case m.GetSite:
		return json.Marshal("GetSite")
	case m.GetTheme:
		return json.Marshal("GetTheme")
	case m.InitDefault:
		return json.Marshal("InitDefault")
	}
	type alias Message // drop methods to use the struct tags
	return json.Marshal(alias(m))
}

// Variant returns the name of the variant set on this message, or "" when
// none is.
func (m *Message) Variant() string {
	switch {
	case m.CreateSite != nil:
		return "CreateSite"
	case m.GetSite:
		return "GetSite"
	case m.CreateTheme != nil:
		return "CreateTheme"
	case m.GetTheme:
		return "GetTheme"
	case m.AddCollection != nil:
		return "AddCollection"
	case m.GetCollection != nil:
		return "GetCollection"
	case m.ListCollections != nil:
		return "ListCollections"
	case m.CreateFile != nil:
		return "CreateFile"
	case m.UpdateFile != nil:
		return "UpdateFile"
	case m.GetFile != nil:
		return "GetFile"
	case m.ListFiles != nil:
		return "ListFiles"
	case m.DeleteFile != nil:
		return "DeleteFile"
	case m.SaveState != nil:
		return "SaveState"
	case m.LoadState != nil:
		return "LoadState"
	case m.ExportProject != nil:
		return "ExportProject"
	case m.ImportProject != nil:
		return "ImportProject"
	case m.InitDefault:
		return "InitDefault"
	case m.InitializeDocument != nil:
		return "InitializeDocument"
	case m.GetDocument != nil:
		return "GetDocument"
	case m.ApplySteps != nil:
		return "ApplySteps"
	}
	return ""
}
