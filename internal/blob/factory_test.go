package blob

import (
	"testing"

	"organ-go/internal/config"
)

func TestNewStoreFromConfig(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		s, err := NewStoreFromConfig(config.StorageConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer s.Close()
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("store type = %T, want *MemoryStore", s)
		}
	})

	t.Run("filesystem", func(t *testing.T) {
		s, err := NewStoreFromConfig(config.StorageConfig{Type: "filesystem", Root: t.TempDir()})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer s.Close()
		if _, ok := s.(*FileSystemStore); !ok {
			t.Errorf("store type = %T, want *FileSystemStore", s)
		}
	})

	t.Run("empty type defaults to filesystem", func(t *testing.T) {
		s, err := NewStoreFromConfig(config.StorageConfig{Root: t.TempDir()})
		if err != nil {
			t.Fatalf("NewStoreFromConfig() error = %v", err)
		}
		defer s.Close()
		if _, ok := s.(*FileSystemStore); !ok {
			t.Errorf("store type = %T, want *FileSystemStore", s)
		}
	})

	t.Run("filesystem without root fails", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.StorageConfig{Type: "filesystem"}); err == nil {
			t.Error("expected error for filesystem store without root")
		}
	})

	t.Run("sqlite without data_dir fails", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.StorageConfig{Type: "sqlite"}); err == nil {
			t.Error("expected error for sqlite store without data_dir")
		}
	})

	t.Run("unknown type fails", func(t *testing.T) {
		if _, err := NewStoreFromConfig(config.StorageConfig{Type: "carrier-pigeon"}); err == nil {
			t.Error("expected error for unknown storage type")
		}
	})
}
