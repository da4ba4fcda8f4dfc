package blob

import (
	"bytes"
	"sort"
	"testing"

	"organ-go/internal/encryption"
)

// backends lists every Store implementation testable without external
// services. The same behavioral suite runs against each.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	fs, err := NewFileSystemStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSystemStore() error = %v", err)
	}

	return map[string]Store{
		"memory":     NewMemoryStore(),
		"filesystem": fs,
		"encrypted":  NewEncryptedStore(NewMemoryStore(), encryption.NewTestCodec()),
	}
}

func TestStore_PutGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			meta := Metadata{ID: "p-1", Kind: "site", Name: "S1", CreatedMS: 100, UpdatedMS: 200}
			if err := s.Put("p-1", []byte("snapshot-bytes"), meta); err != nil {
				t.Fatalf("Put() error = %v", err)
			}

			data, got, err := s.Get("p-1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got == nil {
				t.Fatal("Get() metadata = nil for stored id")
			}
			if !bytes.Equal(data, []byte("snapshot-bytes")) {
				t.Errorf("Get() data = %q", data)
			}
			if *got != meta {
				t.Errorf("Get() metadata = %+v, want %+v", *got, meta)
			}
		})
	}
}

func TestStore_GetMissing(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			data, meta, err := s.Get("absent")
			if err != nil {
				t.Fatalf("Get(absent) error = %v", err)
			}
			if data != nil || meta != nil {
				t.Errorf("Get(absent) = (%v, %v), want (nil, nil)", data, meta)
			}
		})
	}
}

func TestStore_Overwrite(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			if err := s.Put("p-1", []byte("v1"), Metadata{ID: "p-1", Name: "old"}); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			if err := s.Put("p-1", []byte("v2"), Metadata{ID: "p-1", Name: "new"}); err != nil {
				t.Fatalf("Put() overwrite error = %v", err)
			}

			data, meta, err := s.Get("p-1")
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if !bytes.Equal(data, []byte("v2")) || meta.Name != "new" {
				t.Errorf("Get() after overwrite = (%q, %+v)", data, meta)
			}

			keys, err := s.ListKeys()
			if err != nil {
				t.Fatalf("ListKeys() error = %v", err)
			}
			if len(keys) != 1 {
				t.Errorf("ListKeys() = %v, want one key", keys)
			}
		})
	}
}

func TestStore_ListKeys(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			for _, id := range []string{"b", "a", "c"} {
				if err := s.Put(id, []byte(id), Metadata{ID: id}); err != nil {
					t.Fatalf("Put(%s) error = %v", id, err)
				}
			}

			keys, err := s.ListKeys()
			if err != nil {
				t.Fatalf("ListKeys() error = %v", err)
			}
			sort.Strings(keys)
			want := []string{"a", "b", "c"}
			if len(keys) != len(want) {
				t.Fatalf("ListKeys() = %v, want %v", keys, want)
			}
			for i := range want {
				if keys[i] != want[i] {
					t.Fatalf("ListKeys() = %v, want %v", keys, want)
				}
			}
		})
	}
}

func TestStore_MetaKeyspace(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()

			got, err := s.GetMeta(MetaActiveSiteID)
			if err != nil {
				t.Fatalf("GetMeta() error = %v", err)
			}
			if got != "" {
				t.Errorf("GetMeta() on empty store = %q, want empty", got)
			}

			if err := s.PutMeta(MetaActiveSiteID, "p-1"); err != nil {
				t.Fatalf("PutMeta() error = %v", err)
			}
			if err := s.PutMeta(MetaActiveSiteID, "p-2"); err != nil {
				t.Fatalf("PutMeta() overwrite error = %v", err)
			}

			got, err = s.GetMeta(MetaActiveSiteID)
			if err != nil {
				t.Fatalf("GetMeta() error = %v", err)
			}
			if got != "p-2" {
				t.Errorf("GetMeta() = %q, want p-2", got)
			}
		})
	}
}
