package testutil

import (
	"testing"

	"organ-go/internal/blob"
	"organ-go/internal/content"
	"organ-go/internal/store"
)

// NewTestBlobStore creates a new in-memory snapshot store for testing.
func NewTestBlobStore() blob.Store {
	return blob.NewMemoryStore()
}

// NewTestStore creates a Store over an in-memory snapshot store, with a
// fixed clock and sequential IDs for deterministic output.
func NewTestStore(t *testing.T) *store.Store {
	t.Helper()
	return NewTestStoreWith(t, NewTestBlobStore())
}

// NewTestStoreWith creates a Store over the given snapshot store.
func NewTestStoreWith(t *testing.T, blobs blob.Store) *store.Store {
	t.Helper()
	s := store.NewStore(blobs, content.NewNopLogger(), FixedClock(), NewStubIDGenerator())
	t.Cleanup(func() {
		blobs.Close()
	})
	return s
}

// NewTestActor creates an Actor over a fresh test store.
func NewTestActor(t *testing.T) *store.Actor {
	t.Helper()
	return store.NewActor(NewTestStore(t), content.NewNopLogger(), nil)
}
