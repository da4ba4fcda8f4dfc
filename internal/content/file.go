package content

import (
	"fmt"
	"time"

	"github.com/automerge/automerge-go"
)

// Attribute keys for the built-in kinds.
const (
	nodeTitle    = "title"
	nodeURL      = "url"
	nodeBody     = "body"
	nodeContent  = "content"
	nodeMimeType = "mimeType"
	nodeAlt      = "alt"
	nodeDate     = "date"
	nodeTags     = "tags"
)

// File is a typed view over one node of a collection's files list. The node
// outlives the view: multiple File views over the same node observe each
// other's changes only through the shared document state. The declared kind
// is set once at creation and determines which attribute containers exist;
// accessing an attribute the kind does not define is an error, not a silent
// default.
type File struct {
	col  *Collection
	node *automerge.Map
	id   string
	kind FileKind
}

func (f *File) ID() string     { return f.id }
func (f *File) Kind() FileKind { return f.kind }

// Into re-types the view. The target must be one of the six built-in kinds
// and must match the node's declared kind — a file is never re-typed.
func (f *File) Into(kind FileKind) (*File, error) {
	if !IsBuiltinFileKind(string(kind)) {
		return nil, fmt.Errorf("%w: unknown file type %q", ErrValidation, kind)
	}
	if f.kind != kind {
		return nil, fmt.Errorf("%w: file %s is a %s, not a %s", ErrValidation, f.id, f.kind, kind)
	}
	return &File{col: f.col, node: f.node, id: f.id, kind: kind}, nil
}

func (f *File) Name() (string, error) {
	name, _, err := stringAt(f.node, nodeName)
	return name, err
}

func (f *File) SetName(name string) error {
	if err := f.node.Set(nodeName, name); err != nil {
		return fmt.Errorf("setting name: %w", err)
	}
	return f.col.project.touch("set file name")
}

func (f *File) Deleted() (bool, error) {
	return boolAt(f.node, nodeDeleted)
}

// kindGate errors unless the file's kind is one of the given kinds.
func (f *File) kindGate(attr string, kinds ...FileKind) error {
	for _, k := range kinds {
		if f.kind == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s files have no %s attribute", ErrValidation, f.kind, attr)
}

func (f *File) Title() (string, error) {
	if err := f.kindGate(nodeTitle, FilePage, FilePost); err != nil {
		return "", err
	}
	title, _, err := stringAt(f.node, nodeTitle)
	return title, err
}

func (f *File) SetTitle(title string) error {
	if err := f.kindGate(nodeTitle, FilePage, FilePost); err != nil {
		return err
	}
	if err := f.node.Set(nodeTitle, title); err != nil {
		return fmt.Errorf("setting title: %w", err)
	}
	return f.col.project.touch("set title")
}

func (f *File) URL() (string, error) {
	if err := f.kindGate(nodeURL, FilePage, FilePost, FileAsset); err != nil {
		return "", err
	}
	url, _, err := stringAt(f.node, nodeURL)
	return url, err
}

func (f *File) SetURL(url string) error {
	if err := f.kindGate(nodeURL, FilePage, FilePost, FileAsset); err != nil {
		return err
	}
	if err := f.node.Set(nodeURL, url); err != nil {
		return fmt.Errorf("setting url: %w", err)
	}
	return f.col.project.touch("set url")
}

// Body returns the rich-text body of a page or post.
func (f *File) Body() (string, error) {
	if err := f.kindGate(nodeBody, FilePage, FilePost); err != nil {
		return "", err
	}
	text, err := childText(f.node, nodeBody)
	if err != nil {
		return "", err
	}
	return text.Get()
}

func (f *File) SetBody(body string) error {
	if err := f.kindGate(nodeBody, FilePage, FilePost); err != nil {
		return err
	}
	text, err := childText(f.node, nodeBody)
	if err != nil {
		return err
	}
	if err := setText(text, body); err != nil {
		return fmt.Errorf("setting body: %w", err)
	}
	return f.col.project.touch("set body")
}

// Content returns the plain-text content of a template, partial or text file.
func (f *File) Content() (string, error) {
	if err := f.kindGate(nodeContent, FileTemplate, FilePartial, FileText); err != nil {
		return "", err
	}
	text, err := childText(f.node, nodeContent)
	if err != nil {
		return "", err
	}
	return text.Get()
}

func (f *File) SetContent(content string) error {
	if err := f.kindGate(nodeContent, FileTemplate, FilePartial, FileText); err != nil {
		return err
	}
	text, err := childText(f.node, nodeContent)
	if err != nil {
		return err
	}
	if err := setText(text, content); err != nil {
		return fmt.Errorf("setting content: %w", err)
	}
	return f.col.project.touch("set content")
}

func (f *File) MimeType() (string, error) {
	if err := f.kindGate(nodeMimeType, FileAsset); err != nil {
		return "", err
	}
	mt, _, err := stringAt(f.node, nodeMimeType)
	return mt, err
}

func (f *File) SetMimeType(mimeType string) error {
	if err := f.kindGate(nodeMimeType, FileAsset); err != nil {
		return err
	}
	if err := f.node.Set(nodeMimeType, mimeType); err != nil {
		return fmt.Errorf("setting mime type: %w", err)
	}
	return f.col.project.touch("set mime type")
}

func (f *File) Alt() (string, error) {
	if err := f.kindGate(nodeAlt, FileAsset); err != nil {
		return "", err
	}
	alt, _, err := stringAt(f.node, nodeAlt)
	return alt, err
}

func (f *File) SetAlt(alt string) error {
	if err := f.kindGate(nodeAlt, FileAsset); err != nil {
		return err
	}
	if err := f.node.Set(nodeAlt, alt); err != nil {
		return fmt.Errorf("setting alt: %w", err)
	}
	return f.col.project.touch("set alt")
}

// Date returns a post's publication timestamp.
func (f *File) Date() (time.Time, error) {
	if err := f.kindGate(nodeDate, FilePost); err != nil {
		return time.Time{}, err
	}
	ms, err := int64At(f.node, nodeDate)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms).UTC(), nil
}

func (f *File) SetDate(t time.Time) error {
	if err := f.kindGate(nodeDate, FilePost); err != nil {
		return err
	}
	if err := f.node.Set(nodeDate, t.UnixMilli()); err != nil {
		return fmt.Errorf("setting date: %w", err)
	}
	return f.col.project.touch("set date")
}

// Tags returns a post's tags in list order.
func (f *File) Tags() ([]string, error) {
	if err := f.kindGate(nodeTags, FilePost); err != nil {
		return nil, err
	}
	list, err := childList(f.node, nodeTags)
	if err != nil {
		return nil, err
	}
	n := list.Len()
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		v, err := list.Get(i)
		if err != nil {
			return nil, fmt.Errorf("reading tag %d: %w", i, err)
		}
		if v.Kind() == automerge.KindStr {
			tags = append(tags, v.Str())
		}
	}
	return tags, nil
}

func (f *File) AddTag(tag string) error {
	if err := f.kindGate(nodeTags, FilePost); err != nil {
		return err
	}
	list, err := childList(f.node, nodeTags)
	if err != nil {
		return err
	}
	if err := list.Append(tag); err != nil {
		return fmt.Errorf("adding tag: %w", err)
	}
	return f.col.project.touch("add tag")
}

// Field reads an extension field. Extension fields are the escape hatch for
// schema-driven custom fields outside the built-in attributes.
func (f *File) Field(name string) (string, error) {
	fields, err := childMap(f.node, nodeFields)
	if err != nil {
		return "", err
	}
	value, ok, err := stringAt(fields, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: field %q on file %s", ErrNotFound, name, f.id)
	}
	return value, nil
}

// SetField writes an extension field. When per-write validation is on, the
// field must be declared in the owning collection's schema.
func (f *File) SetField(name, value string) error {
	if f.col.project.validateWrites {
		model, err := f.col.Fields()
		if err != nil {
			return err
		}
		if _, declared := model[name]; !declared {
			return fmt.Errorf("%w: field %q is not declared in collection %q", ErrValidation, name, f.col.name)
		}
	}
	fields, err := childMap(f.node, nodeFields)
	if err != nil {
		return err
	}
	if err := fields.Set(name, value); err != nil {
		return fmt.Errorf("setting field %q: %w", name, err)
	}
	return f.col.project.touch("set field " + name)
}

// materialize stamps a fresh node with its identity and eagerly creates the
// kind-specific containers, so the node is fully formed before the create
// commits.
func (f *File) materialize(name string) error {
	sets := []struct {
		key   string
		value any
	}{
		{nodeID, f.id},
		{nodeName, name},
		{nodeType, string(f.kind)},
		{nodeParentID, ""},
		{nodeDeleted, false},
		{nodeFields, automerge.NewMap()},
	}
	for _, s := range sets {
		if err := f.node.Set(s.key, s.value); err != nil {
			return fmt.Errorf("setting %q: %w", s.key, err)
		}
	}

	switch f.kind {
	case FilePage:
		return f.setAll(map[string]any{
			nodeTitle: "",
			nodeURL:   "",
			nodeBody:  automerge.NewText(""),
		})
	case FilePost:
		return f.setAll(map[string]any{
			nodeTitle: "",
			nodeURL:   "",
			nodeDate:  f.col.project.clock.Now().UnixMilli(),
			nodeTags:  automerge.NewList(),
			nodeBody:  automerge.NewText(""),
		})
	case FileAsset:
		return f.setAll(map[string]any{
			nodeMimeType: "",
			nodeURL:      "",
			nodeAlt:      "",
		})
	case FileTemplate, FilePartial, FileText:
		return f.setAll(map[string]any{
			nodeContent: automerge.NewText(""),
		})
	default:
		// Custom collection: attributes live in the extension fields map only.
		return nil
	}
}

func (f *File) setAll(values map[string]any) error {
	for key, value := range values {
		if err := f.node.Set(key, value); err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}
	}
	return nil
}
