// Package store holds the process-wide root of the content model: the
// active site and theme projects, the registry of known project ids, the
// document-sync registry, and the persistence orchestration against the
// snapshot store. All access goes through the Actor.
package store

import (
	"fmt"
	"sort"

	"organ-go/internal/blob"
	"organ-go/internal/content"
	"organ-go/internal/docsync"
)

// Store is the root of one content-authoring session. It holds at most one
// active site and one active theme; projects are never destroyed in-session,
// only replaced as the active reference.
type Store struct {
	blobs  blob.Store
	docs   *docsync.Registry
	logger content.Logger
	clock  content.Clock
	idgen  content.IDGenerator

	validateOnWrite bool

	activeSite  *content.Project
	activeTheme *content.Project

	// known tracks every project id seen this session, with its kind.
	known map[string]content.ProjectKind
}

// NewStore creates a Store with the provided dependencies. Per-write schema
// validation starts enabled; use SetWriteValidation to change the policy.
func NewStore(blobs blob.Store, logger content.Logger, clock content.Clock, idgen content.IDGenerator) *Store {
	return &Store{
		blobs:           blobs,
		docs:            docsync.NewRegistry(),
		logger:          logger,
		clock:           clock,
		idgen:           idgen,
		validateOnWrite: true,
		known:           make(map[string]content.ProjectKind),
	}
}

// SetWriteValidation switches per-write schema validation for extension
// fields. Applies to the current active projects and every project created
// or imported afterwards.
func (s *Store) SetWriteValidation(on bool) {
	s.validateOnWrite = on
	if s.activeSite != nil {
		s.activeSite.SetFieldWriteValidation(on)
	}
	if s.activeTheme != nil {
		s.activeTheme.SetFieldWriteValidation(on)
	}
}

// Documents returns the document-sync registry.
func (s *Store) Documents() *docsync.Registry { return s.docs }

// ActiveSite returns the active site, or ErrNoActiveProject.
func (s *Store) ActiveSite() (*content.Project, error) {
	if s.activeSite == nil {
		return nil, fmt.Errorf("%w: no active site", content.ErrNoActiveProject)
	}
	return s.activeSite, nil
}

// ActiveTheme returns the active theme, or ErrNoActiveProject.
func (s *Store) ActiveTheme() (*content.Project, error) {
	if s.activeTheme == nil {
		return nil, fmt.Errorf("%w: no active theme", content.ErrNoActiveProject)
	}
	return s.activeTheme, nil
}

// Project resolves the active project of the given kind.
func (s *Store) Project(kind content.ProjectKind) (*content.Project, error) {
	switch kind {
	case content.ProjectSite:
		return s.ActiveSite()
	case content.ProjectTheme:
		return s.ActiveTheme()
	default:
		return nil, fmt.Errorf("%w: unknown project kind %q", content.ErrValidation, kind)
	}
}

// SetActiveSite installs a project as the active site and registers its id.
func (s *Store) SetActiveSite(p *content.Project) {
	p.SetFieldWriteValidation(s.validateOnWrite)
	s.activeSite = p
	s.known[p.ID()] = content.ProjectSite
}

// SetActiveTheme installs a project as the active theme and registers its id.
func (s *Store) SetActiveTheme(p *content.Project) {
	p.SetFieldWriteValidation(s.validateOnWrite)
	s.activeTheme = p
	s.known[p.ID()] = content.ProjectTheme
}

// KnownProjects returns every project id seen this session, sorted.
func (s *Store) KnownProjects() []string {
	ids := make([]string, 0, len(s.known))
	for id := range s.known {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CreateSite creates a site referencing the given theme, names it, and
// installs it as the active site.
func (s *Store) CreateSite(name, themeID string) (*content.Project, error) {
	p, err := content.NewProject(content.ProjectSite, themeID, s.clock, s.idgen)
	if err != nil {
		return nil, err
	}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	s.SetActiveSite(p)
	s.logger.Info("site created", "id", p.ID(), "name", name, "theme_id", themeID)
	return p, nil
}

// CreateTheme creates a theme, names it, and installs it as the active theme.
func (s *Store) CreateTheme(name string) (*content.Project, error) {
	p, err := content.NewProject(content.ProjectTheme, "", s.clock, s.idgen)
	if err != nil {
		return nil, err
	}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	s.SetActiveTheme(p)
	s.logger.Info("theme created", "id", p.ID(), "name", name)
	return p, nil
}

// InitDefault bootstraps a fresh default theme/site pair and installs both
// as the active projects. The theme is created first so the site can
// reference it; the pair always ends up cross-referenced — a second call
// replaces both references together, never one of them.
func (s *Store) InitDefault() error {
	theme, err := content.NewProject(content.ProjectTheme, "", s.clock, s.idgen)
	if err != nil {
		return fmt.Errorf("creating default theme: %w", err)
	}
	site, err := content.NewProject(content.ProjectSite, theme.ID(), s.clock, s.idgen)
	if err != nil {
		return fmt.Errorf("creating default site: %w", err)
	}

	s.SetActiveTheme(theme)
	s.SetActiveSite(site)
	s.logger.Info("default projects initialized", "site_id", site.ID(), "theme_id", theme.ID())
	return nil
}
