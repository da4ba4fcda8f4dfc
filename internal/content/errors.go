package content

import "errors"

// Sentinel errors for the taxonomy callers are expected to branch on.
// All errors surfaced by this package wrap one of these, so callers can
// use errors.Is regardless of the message detail.
var (
	// ErrValidation covers malformed schemas, file types disallowed for a
	// project kind, and update/file-type mismatches.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers unknown project, collection and file identifiers.
	ErrNotFound = errors.New("not found")

	// ErrNoActiveProject is a state error: the operation needs an active
	// project of a kind that has not been created yet. Distinct from
	// ErrNotFound so callers can react by creating a default.
	ErrNoActiveProject = errors.New("no active project")

	// ErrVersionMismatch is returned when a step batch carries a version
	// that does not match the target document's current version.
	ErrVersionMismatch = errors.New("version mismatch")

	// ErrNothingToLoad is returned by LoadState when no identifiers were
	// given and nothing has ever been saved. Not a corruption error.
	ErrNothingToLoad = errors.New("nothing to load")
)
