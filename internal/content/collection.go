package content

import (
	"fmt"

	"github.com/automerge/automerge-go"
)

// Container keys inside a collection map.
const (
	fieldsKey = "fields"
	filesKey  = "files"
)

// File node keys common to every kind.
const (
	nodeID       = "id"
	nodeName     = "name"
	nodeType     = "type"
	nodeParentID = "parentId"
	nodeDeleted  = "deleted"
	nodeFields   = "fields"
)

// Collection is a typed view over one entry of the project's collections
// map: a `fields` schema map and an ordered `files` list of node maps.
// The original system kept files in a tree container; here sibling order is
// the list order and hierarchy is the per-node parentId, which merges the
// same way while keeping node identity in the immutable per-node id.
type Collection struct {
	project *Project
	name    string
	node    *automerge.Map
}

func (c *Collection) Name() string { return c.name }

// FileKind returns the file type this collection produces: the matching
// built-in kind for vocabulary collections, the collection name itself for
// custom collections.
func (c *Collection) FileKind() FileKind {
	return FileKind(c.name)
}

func (c *Collection) fieldsMap() (*automerge.Map, error) {
	return childMap(c.node, fieldsKey)
}

func (c *Collection) filesList() (*automerge.List, error) {
	return childList(c.node, filesKey)
}

// Fields returns the collection's schema.
func (c *Collection) Fields() (Model, error) {
	fields, err := c.fieldsMap()
	if err != nil {
		return nil, err
	}
	keys, err := fields.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing fields: %w", err)
	}

	model := make(Model, len(keys))
	for _, name := range keys {
		desc, err := childMap(fields, name)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		var def FieldDefinition
		if t, ok, err := stringAt(desc, "type"); err != nil {
			return nil, err
		} else if ok {
			def.Type = FieldType(t)
		}
		if v, err := desc.Get("required"); err != nil {
			return nil, err
		} else if v.Kind() == automerge.KindBool {
			def.Required = boolPtr(v.Bool())
		}
		model[name] = def
	}
	return model, nil
}

// mergeFields upserts the model into the stored schema. Existing fields not
// named by the model are left alone.
func (c *Collection) mergeFields(model Model) error {
	fields, err := c.fieldsMap()
	if err != nil {
		return err
	}
	for name, def := range model {
		desc, err := ensureChildMap(fields, name)
		if err != nil {
			return err
		}
		if def.Type != "" {
			if err := desc.Set("type", string(def.Type)); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
		if def.Required != nil {
			if err := desc.Set("required", *def.Required); err != nil {
				return fmt.Errorf("field %q: %w", name, err)
			}
		}
	}
	return nil
}

// CreateFile allocates a new node in the files list, stamps it with a fresh
// immutable id and this collection's file kind, and eagerly materializes
// the kind-specific containers so later reads never find half a file.
// Any failure unwinds by tombstoning the partial node.
func (c *Collection) CreateFile(name string) (*File, error) {
	files, err := c.filesList()
	if err != nil {
		return nil, err
	}
	if err := files.Append(automerge.NewMap()); err != nil {
		return nil, fmt.Errorf("allocating file node: %w", err)
	}
	v, err := files.Get(files.Len() - 1)
	if err != nil || v.Kind() != automerge.KindMap {
		return nil, fmt.Errorf("reading new file node: %w", err)
	}
	node := v.Map()

	id := c.project.idgen.New()
	kind := c.FileKind()
	f := &File{col: c, node: node, id: id, kind: kind}

	if err := f.materialize(name); err != nil {
		// The list entry exists; mark it dead so it never surfaces.
		_ = node.Set(nodeDeleted, true)
		_ = c.project.commit("abort file create")
		return nil, fmt.Errorf("creating file %q: %w", name, err)
	}
	if err := c.project.touch("create file " + name); err != nil {
		return nil, err
	}
	return f, nil
}

// File resolves a live (non-tombstoned) file by id.
func (c *Collection) File(id string) (*File, error) {
	f, err := c.lookup(id)
	if err != nil {
		return nil, err
	}
	deleted, err := boolAt(f.node, nodeDeleted)
	if err != nil {
		return nil, err
	}
	if deleted {
		return nil, fmt.Errorf("%w: file %s", ErrNotFound, id)
	}
	return f, nil
}

// Files returns the collection's live files in list order. Tombstoned nodes
// are filtered out.
func (c *Collection) Files() ([]*File, error) {
	files, err := c.filesList()
	if err != nil {
		return nil, err
	}

	n := files.Len()
	result := make([]*File, 0, n)
	for i := 0; i < n; i++ {
		v, err := files.Get(i)
		if err != nil {
			return nil, fmt.Errorf("reading file node %d: %w", i, err)
		}
		if v.Kind() != automerge.KindMap {
			continue
		}
		node := v.Map()

		deleted, err := boolAt(node, nodeDeleted)
		if err != nil {
			return nil, err
		}
		if deleted {
			continue
		}
		id, ok, err := stringAt(node, nodeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		kind, _, err := stringAt(node, nodeType)
		if err != nil {
			return nil, err
		}
		result = append(result, &File{col: c, node: node, id: id, kind: FileKind(kind)})
	}
	return result, nil
}

// DeleteFile tombstones a file. The node stays in the list with its
// deleted flag set so concurrent edits merge cleanly; it simply stops
// appearing in lookups and listings.
func (c *Collection) DeleteFile(id string) error {
	f, err := c.File(id)
	if err != nil {
		return err
	}
	if err := f.node.Set(nodeDeleted, true); err != nil {
		return fmt.Errorf("tombstoning file %s: %w", id, err)
	}
	return c.project.touch("delete file " + id)
}

// lookup scans the files list for a node with the given id, tombstoned or not.
func (c *Collection) lookup(id string) (*File, error) {
	files, err := c.filesList()
	if err != nil {
		return nil, err
	}
	n := files.Len()
	for i := 0; i < n; i++ {
		v, err := files.Get(i)
		if err != nil {
			return nil, fmt.Errorf("reading file node %d: %w", i, err)
		}
		if v.Kind() != automerge.KindMap {
			continue
		}
		node := v.Map()
		nid, ok, err := stringAt(node, nodeID)
		if err != nil {
			return nil, err
		}
		if !ok || nid != id {
			continue
		}
		kind, _, err := stringAt(node, nodeType)
		if err != nil {
			return nil, err
		}
		return &File{col: c, node: node, id: id, kind: FileKind(kind)}, nil
	}
	return nil, fmt.Errorf("%w: file %s in collection %q", ErrNotFound, id, c.name)
}
