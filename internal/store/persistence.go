package store

import (
	"encoding/json"
	"fmt"
	"time"

	"organ-go/internal/blob"
	"organ-go/internal/content"
)

// Snapshot is one exported project: the opaque bytes plus the identity
// metadata a cold start needs to reconstruct it without forking identity.
type Snapshot struct {
	Data      []byte `json:"data"`
	ID        string `json:"id"`
	Kind      string `json:"project_type"`
	Name      string `json:"name"`
	CreatedMS int64  `json:"created_ms"`
	UpdatedMS int64  `json:"updated_ms"`
}

// ExportProject serializes the active project of the given kind into a full
// self-describing snapshot.
func (s *Store) ExportProject(kind content.ProjectKind) (*Snapshot, error) {
	p, err := s.Project(kind)
	if err != nil {
		return nil, err
	}
	name, err := p.Name()
	if err != nil {
		name = ""
	}
	return &Snapshot{
		Data:      p.Export(),
		ID:        p.ID(),
		Kind:      string(p.Kind()),
		Name:      name,
		CreatedMS: p.Created().UnixMilli(),
		UpdatedMS: p.Updated().UnixMilli(),
	}, nil
}

// ImportProject reconstructs a project from exported bytes, preserving the
// original identifier and timestamps, and installs it as the active project
// of its kind.
func (s *Store) ImportProject(data []byte, id string, kind content.ProjectKind, created, updated time.Time) (*content.Project, error) {
	p, err := content.ImportProject(data, id, kind, created, updated, s.clock, s.idgen)
	if err != nil {
		return nil, err
	}
	switch kind {
	case content.ProjectSite:
		s.SetActiveSite(p)
	case content.ProjectTheme:
		s.SetActiveTheme(p)
	default:
		return nil, fmt.Errorf("%w: unknown project kind %q", content.ErrValidation, kind)
	}
	s.logger.Info("project imported", "id", id, "kind", kind)
	return p, nil
}

// SaveState exports the active project of the given kind and persists it to
// the snapshot store, then records it as the most recently active project of
// its kind. With an empty kind both active projects are saved, site first
// then theme, sequentially: a site failure leaves the theme unattempted but
// never corrupts already-saved data.
func (s *Store) SaveState(kind content.ProjectKind) error {
	if kind != "" {
		return s.saveProject(kind)
	}
	if err := s.saveProject(content.ProjectSite); err != nil {
		return err
	}
	return s.saveProject(content.ProjectTheme)
}

func (s *Store) saveProject(kind content.ProjectKind) error {
	// Resolve before touching the store: a missing active project must fail
	// without persisting anything.
	snap, err := s.ExportProject(kind)
	if err != nil {
		return err
	}

	meta := blob.Metadata{
		ID:        snap.ID,
		Kind:      snap.Kind,
		Name:      snap.Name,
		CreatedMS: snap.CreatedMS,
		UpdatedMS: snap.UpdatedMS,
	}
	if err := s.blobs.Put(snap.ID, snap.Data, meta); err != nil {
		return fmt.Errorf("persisting %s snapshot: %w", kind, err)
	}

	activeKey := blob.MetaActiveSiteID
	if kind == content.ProjectTheme {
		activeKey = blob.MetaActiveThemeID
	}
	if err := s.blobs.PutMeta(activeKey, snap.ID); err != nil {
		return fmt.Errorf("recording active %s: %w", kind, err)
	}
	if err := s.persistKnownProjects(); err != nil {
		return err
	}

	s.logger.Info("state saved", "kind", kind, "id", snap.ID, "bytes", len(snap.Data))
	return nil
}

func (s *Store) persistKnownProjects() error {
	ids, err := json.Marshal(s.KnownProjects())
	if err != nil {
		return fmt.Errorf("encoding known projects: %w", err)
	}
	if err := s.blobs.PutMeta(blob.MetaKnownProjects, string(ids)); err != nil {
		return fmt.Errorf("recording known projects: %w", err)
	}
	return nil
}

// LoadState retrieves the site and theme snapshots by the given identifiers
// — or, when an identifier is nil, by the most recently active id recorded
// in the store — imports them, and installs them as the active projects.
// When neither an identifier nor a recorded active id exists for either
// kind, it returns ErrNothingToLoad: a first run is not corruption.
func (s *Store) LoadState(siteID, themeID *string) (loadedSite, loadedTheme string, err error) {
	sid, err := s.resolveID(siteID, blob.MetaActiveSiteID)
	if err != nil {
		return "", "", err
	}
	tid, err := s.resolveID(themeID, blob.MetaActiveThemeID)
	if err != nil {
		return "", "", err
	}
	if sid == "" && tid == "" {
		return "", "", content.ErrNothingToLoad
	}

	if tid != "" {
		if err := s.loadProject(tid, content.ProjectTheme); err != nil {
			return "", "", err
		}
	}
	if sid != "" {
		if err := s.loadProject(sid, content.ProjectSite); err != nil {
			return "", "", err
		}
	}

	s.logger.Info("state loaded", "site_id", sid, "theme_id", tid)
	return sid, tid, nil
}

// resolveID prefers an explicit id, then the recorded active id, then "".
func (s *Store) resolveID(explicit *string, metaKey string) (string, error) {
	if explicit != nil && *explicit != "" {
		return *explicit, nil
	}
	id, err := s.blobs.GetMeta(metaKey)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", metaKey, err)
	}
	return id, nil
}

func (s *Store) loadProject(id string, kind content.ProjectKind) error {
	data, meta, err := s.blobs.Get(id)
	if err != nil {
		return fmt.Errorf("reading %s snapshot: %w", kind, err)
	}
	if meta == nil {
		return fmt.Errorf("%w: no snapshot for %s %s", content.ErrNotFound, kind, id)
	}
	if meta.Kind != string(kind) {
		return fmt.Errorf("%w: snapshot %s is a %s, not a %s", content.ErrValidation, id, meta.Kind, kind)
	}

	_, err = s.ImportProject(data, meta.ID, kind,
		time.UnixMilli(meta.CreatedMS).UTC(), time.UnixMilli(meta.UpdatedMS).UTC())
	return err
}
