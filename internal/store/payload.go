package store

import (
	"sort"

	"organ-go/internal/content"
)

// Response payload builders. Payload shapes are part of the wire protocol:
// callers on the other side of the serialization boundary pattern-match on
// these keys.

// ProjectPayload describes a project. ThemeID is present only for sites.
type ProjectPayload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	ThemeID string `json:"themeId,omitempty"`
}

func projectPayload(p *content.Project) ProjectPayload {
	name, err := p.Name()
	if err != nil {
		name = "Unnamed"
	}
	out := ProjectPayload{ID: p.ID(), Name: name}
	if p.Kind() == content.ProjectSite {
		themeID, _ := p.ThemeID()
		out.ThemeID = themeID
	}
	return out
}

// FieldPayload is one schema field.
type FieldPayload struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required"`
}

// CollectionPayload describes a collection and its schema. Fields are
// sorted by name so the payload is deterministic.
type CollectionPayload struct {
	Name   string         `json:"name"`
	Fields []FieldPayload `json:"fields"`
}

func collectionPayload(c *content.Collection) (CollectionPayload, error) {
	model, err := c.Fields()
	if err != nil {
		return CollectionPayload{}, err
	}

	fields := make([]FieldPayload, 0, len(model))
	for name, def := range model {
		fp := FieldPayload{Name: name, Type: string(def.Type)}
		if def.Required != nil {
			fp.Required = *def.Required
		}
		fields = append(fields, fp)
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Name < fields[j].Name })

	return CollectionPayload{Name: c.Name(), Fields: fields}, nil
}

func collectionsPayload(cols []*content.Collection) ([]CollectionPayload, error) {
	out := make([]CollectionPayload, 0, len(cols))
	for _, c := range cols {
		p, err := collectionPayload(c)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// filePayload describes a file. The keys present depend on the file's
// declared type, exhaustively per kind; custom-collection files carry only
// the common keys.
func filePayload(f *content.File) (map[string]any, error) {
	out := map[string]any{
		"id":              f.ID(),
		"collection_type": string(f.Kind()),
	}
	name, err := f.Name()
	if err != nil {
		return nil, err
	}
	out["name"] = name

	switch f.Kind() {
	case content.FilePage:
		if err := addString(out, "title", f.Title); err != nil {
			return nil, err
		}
		if err := addString(out, "url", f.URL); err != nil {
			return nil, err
		}
		if err := addString(out, "body", f.Body); err != nil {
			return nil, err
		}
	case content.FilePost:
		if err := addString(out, "title", f.Title); err != nil {
			return nil, err
		}
		if err := addString(out, "url", f.URL); err != nil {
			return nil, err
		}
		if err := addString(out, "body", f.Body); err != nil {
			return nil, err
		}
		date, err := f.Date()
		if err != nil {
			return nil, err
		}
		out["date"] = date.UnixMilli()
		tags, err := f.Tags()
		if err != nil {
			return nil, err
		}
		out["tags"] = tags
	case content.FileAsset:
		if err := addString(out, "url", f.URL); err != nil {
			return nil, err
		}
		if err := addString(out, "mime_type", f.MimeType); err != nil {
			return nil, err
		}
		if err := addString(out, "alt", f.Alt); err != nil {
			return nil, err
		}
	case content.FileTemplate, content.FilePartial, content.FileText:
		if err := addString(out, "content", f.Content); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func addString(out map[string]any, key string, get func() (string, error)) error {
	v, err := get()
	if err != nil {
		return err
	}
	out[key] = v
	return nil
}

func filesPayload(files []*content.File) ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(files))
	for _, f := range files {
		p, err := filePayload(f)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
