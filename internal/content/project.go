package content

import (
	"fmt"
	"sort"
	"time"

	"github.com/automerge/automerge-go"
)

// Container keys at the project document root.
const (
	metaKey        = "meta"
	collectionsKey = "collections"
)

// Meta map keys.
const (
	metaID      = "id"
	metaName    = "name"
	metaThemeID = "themeId"
)

// Project is a typed view over one automerge document representing either a
// site or a theme. The document owns a `meta` map and a `collections` map;
// everything else hangs off those two containers. The id is generated at
// creation and never reused or reassigned; kind is immutable. Creation and
// update timestamps live on the wrapper, not in the document — the
// persistence layer carries them alongside the exported bytes so that
// imports restore identity without forking it.
type Project struct {
	id      string
	kind    ProjectKind
	created time.Time
	updated time.Time
	doc     *automerge.Doc

	clock Clock
	idgen IDGenerator

	// validateWrites gates extension-field writes against the owning
	// collection's schema. On by default; the composition root can switch
	// it off via SetFieldWriteValidation.
	validateWrites bool
}

// NewProject creates a project of the given kind, bootstraps its default
// collections and seed files, and commits the result as one change.
// A site must reference the theme it depends on; themeID is ignored for
// themes. The theme reference is validated here, at creation — the CRDT
// itself cannot enforce it.
func NewProject(kind ProjectKind, themeID string, clock Clock, idgen IDGenerator) (*Project, error) {
	if kind == ProjectSite && themeID == "" {
		return nil, fmt.Errorf("%w: a site requires a theme id", ErrValidation)
	}

	now := clock.Now()
	p := &Project{
		id:             idgen.New(),
		kind:           kind,
		created:        now,
		updated:        now,
		doc:            automerge.New(),
		clock:          clock,
		idgen:          idgen,
		validateWrites: true,
	}

	root := p.doc.RootMap()
	if err := root.Set(collectionsKey, automerge.NewMap()); err != nil {
		return nil, fmt.Errorf("creating collections map: %w", err)
	}
	if err := root.Set(metaKey, automerge.NewMap()); err != nil {
		return nil, fmt.Errorf("creating meta map: %w", err)
	}
	meta, err := p.meta()
	if err != nil {
		return nil, err
	}
	if err := meta.Set(metaID, p.id); err != nil {
		return nil, fmt.Errorf("setting project id: %w", err)
	}

	switch kind {
	case ProjectSite:
		if err := p.bootstrapSite(themeID); err != nil {
			return nil, fmt.Errorf("initializing site: %w", err)
		}
	case ProjectTheme:
		if err := p.bootstrapTheme(); err != nil {
			return nil, fmt.Errorf("initializing theme: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown project kind %q", ErrValidation, kind)
	}

	if err := p.commit("bootstrap"); err != nil {
		return nil, err
	}
	return p, nil
}

// ImportProject reconstructs a project from a previously exported snapshot.
// The original identifier and timestamps are preserved, never regenerated:
// loading must not fork identity.
func ImportProject(data []byte, id string, kind ProjectKind, created, updated time.Time, clock Clock, idgen IDGenerator) (*Project, error) {
	doc, err := automerge.Load(data)
	if err != nil {
		return nil, fmt.Errorf("importing project %s: %w", id, err)
	}
	return &Project{
		id:             id,
		kind:           kind,
		created:        created,
		updated:        updated,
		doc:            doc,
		clock:          clock,
		idgen:          idgen,
		validateWrites: true,
	}, nil
}

// Export serializes the full current document state into a self-describing
// snapshot suitable for cold-start reconstruction. Not a diff.
func (p *Project) Export() []byte {
	return p.doc.Save()
}

func (p *Project) ID() string         { return p.id }
func (p *Project) Kind() ProjectKind  { return p.kind }
func (p *Project) Created() time.Time { return p.created }
func (p *Project) Updated() time.Time { return p.updated }

// SetFieldWriteValidation switches per-write schema validation for
// extension fields on or off for this project.
func (p *Project) SetFieldWriteValidation(on bool) { p.validateWrites = on }

func (p *Project) meta() (*automerge.Map, error) {
	return childMap(p.doc.RootMap(), metaKey)
}

func (p *Project) collections() (*automerge.Map, error) {
	return childMap(p.doc.RootMap(), collectionsKey)
}

// Name returns the project's display name.
func (p *Project) Name() (string, error) {
	meta, err := p.meta()
	if err != nil {
		return "", err
	}
	name, ok, err := stringAt(meta, metaName)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: project has no name", ErrNotFound)
	}
	return name, nil
}

func (p *Project) SetName(name string) error {
	meta, err := p.meta()
	if err != nil {
		return err
	}
	if err := meta.Set(metaName, name); err != nil {
		return fmt.Errorf("setting name: %w", err)
	}
	return p.touch("set name")
}

// ThemeID returns the theme this site depends on, or "" for themes and
// sites that have not been linked.
func (p *Project) ThemeID() (string, error) {
	meta, err := p.meta()
	if err != nil {
		return "", err
	}
	id, _, err := stringAt(meta, metaThemeID)
	return id, err
}

func (p *Project) SetThemeID(themeID string) error {
	if p.kind != ProjectSite {
		return fmt.Errorf("%w: only sites reference a theme", ErrValidation)
	}
	meta, err := p.meta()
	if err != nil {
		return err
	}
	if err := meta.Set(metaThemeID, themeID); err != nil {
		return fmt.Errorf("setting theme id: %w", err)
	}
	return p.touch("set theme id")
}

// AddCollection creates a collection with an empty files list and the given
// field model. Re-adding an existing name merges the new fields into the
// existing schema rather than erroring (permissive upsert).
func (p *Project) AddCollection(name string, model Model) (*Collection, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: collection name must not be empty", ErrValidation)
	}

	cols, err := p.collections()
	if err != nil {
		return nil, err
	}
	node, err := ensureChildMap(cols, name)
	if err != nil {
		return nil, err
	}
	if err := node.Set("name", name); err != nil {
		return nil, fmt.Errorf("setting collection name: %w", err)
	}
	if _, err := ensureChildMap(node, fieldsKey); err != nil {
		return nil, err
	}
	if v, err := node.Get(filesKey); err != nil {
		return nil, fmt.Errorf("reading files list: %w", err)
	} else if v.Kind() != automerge.KindList {
		if err := node.Set(filesKey, automerge.NewList()); err != nil {
			return nil, fmt.Errorf("creating files list: %w", err)
		}
	}

	col := &Collection{project: p, name: name, node: node}
	if err := col.mergeFields(model); err != nil {
		return nil, err
	}
	if err := p.touch("add collection " + name); err != nil {
		return nil, err
	}
	return col, nil
}

// Collection resolves a collection by name.
func (p *Project) Collection(name string) (*Collection, error) {
	cols, err := p.collections()
	if err != nil {
		return nil, err
	}
	node, err := childMap(cols, name)
	if err != nil {
		return nil, fmt.Errorf("collection %q: %w", name, err)
	}
	return &Collection{project: p, name: name, node: node}, nil
}

// Collections returns every collection in the project, sorted by name.
func (p *Project) Collections() ([]*Collection, error) {
	cols, err := p.collections()
	if err != nil {
		return nil, err
	}
	keys, err := cols.Keys()
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	sort.Strings(keys)

	result := make([]*Collection, 0, len(keys))
	for _, name := range keys {
		node, err := childMap(cols, name)
		if err != nil {
			continue // a non-map entry is not a collection
		}
		result = append(result, &Collection{project: p, name: name, node: node})
	}
	return result, nil
}

// CreateFile validates that the collection name is permitted for this
// project's kind — a built-in collection of the kind's vocabulary, or a
// custom collection that already exists — then delegates to the collection.
// A disallowed name is an error, never a silent no-op.
func (p *Project) CreateFile(collectionName, fileName string) (*File, error) {
	if IsBuiltinFileKind(collectionName) && !CollectionAllowed(p.kind, collectionName) {
		return nil, fmt.Errorf("%w: file type %q is not permitted in a %s project", ErrValidation, collectionName, p.kind)
	}
	col, err := p.Collection(collectionName)
	if err != nil {
		return nil, err
	}
	return col.CreateFile(fileName)
}

// touch records a mutation: bumps the update timestamp and commits the
// pending change to the document.
func (p *Project) touch(msg string) error {
	p.updated = p.clock.Now()
	return p.commit(msg)
}

func (p *Project) commit(msg string) error {
	if _, err := p.doc.Commit(msg); err != nil {
		return fmt.Errorf("committing change: %w", err)
	}
	return nil
}
