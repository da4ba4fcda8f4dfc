// Package blob defines the persistence collaborator: an addressable store
// of opaque project snapshots keyed by project identifier, plus a small
// separate metadata keyspace for the active-project bookkeeping. The store
// and load operations of the core are specified purely against this
// interface; the storage technology behind it is substitutable.
package blob

// Metadata travels alongside a snapshot so a cold start can reconstruct the
// project without forking its identity. Timestamps are unix milliseconds.
type Metadata struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	CreatedMS int64  `json:"created_ms"`
	UpdatedMS int64  `json:"updated_ms"`
}

// Well-known metadata keyspace keys.
const (
	MetaActiveSiteID  = "active_site_id"
	MetaActiveThemeID = "active_theme_id"
	MetaKnownProjects = "known_projects"
)

// Store is the interface all snapshot-store backends implement.
type Store interface {
	// Put stores a snapshot and its metadata under the project id.
	// Overwrites any previous snapshot for the same id.
	Put(id string, data []byte, meta Metadata) error

	// Get retrieves a snapshot and its metadata. A missing id returns
	// (nil, nil, nil), not an error: absence is an answer, distinct from
	// a failing backend.
	Get(id string) ([]byte, *Metadata, error)

	// ListKeys returns the ids of every stored snapshot.
	ListKeys() ([]string, error)

	// PutMeta writes one entry of the metadata keyspace.
	PutMeta(key, value string) error

	// GetMeta reads one entry of the metadata keyspace. A missing key
	// returns ("", nil).
	GetMeta(key string) (string, error)

	// Close releases backend resources.
	Close() error
}
