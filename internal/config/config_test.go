package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"organ-go/internal/encryption"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		BaseDir: "/home/user/.local/share/organ",
		LogDir:  "/home/user/.local/share/organ/log",
		Storage: StorageConfig{
			Type:    "sqlite",
			DataDir: "/home/user/.local/share/organ/db",
		},
		Encryption: encryption.Config{
			Type:          "age",
			RecipientPath: "/home/user/.local/share/organ/keys/organ.pub",
			IdentityPath:  "/home/user/.local/share/organ/keys/organ.key",
		},
		Validation: ValidationConfig{OnWrite: true},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.BaseDir != original.BaseDir {
		t.Errorf("BaseDir = %q, want %q", got.BaseDir, original.BaseDir)
	}
	if got.LogDir != original.LogDir {
		t.Errorf("LogDir = %q, want %q", got.LogDir, original.LogDir)
	}
	if got.Storage.Type != "sqlite" {
		t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "sqlite")
	}
	if got.Storage.DataDir != original.Storage.DataDir {
		t.Errorf("Storage.DataDir = %q, want %q", got.Storage.DataDir, original.Storage.DataDir)
	}
	if got.Encryption.Type != "age" {
		t.Errorf("Encryption.Type = %q, want %q", got.Encryption.Type, "age")
	}
	if got.Encryption.RecipientPath != original.Encryption.RecipientPath {
		t.Errorf("Encryption.RecipientPath = %q, want %q", got.Encryption.RecipientPath, original.Encryption.RecipientPath)
	}
	if got.Encryption.IdentityPath != original.Encryption.IdentityPath {
		t.Errorf("Encryption.IdentityPath = %q, want %q", got.Encryption.IdentityPath, original.Encryption.IdentityPath)
	}
	if !got.Validation.OnWrite {
		t.Error("Validation.OnWrite = false, want true")
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("/data/organ")

	if cfg.BaseDir != "/data/organ" {
		t.Errorf("BaseDir = %q, want %q", cfg.BaseDir, "/data/organ")
	}
	if cfg.LogDir != "/data/organ/log" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, "/data/organ/log")
	}
	if cfg.Storage.Type != "filesystem" {
		t.Errorf("Storage.Type = %q, want %q", cfg.Storage.Type, "filesystem")
	}
	if cfg.Storage.Root != "/data/organ/store" {
		t.Errorf("Storage.Root = %q, want %q", cfg.Storage.Root, "/data/organ/store")
	}
	if cfg.Encryption.Type != "none" {
		t.Errorf("Encryption.Type = %q, want %q", cfg.Encryption.Type, "none")
	}
	if !cfg.Validation.OnWrite {
		t.Error("Validation.OnWrite = false, want true")
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "organ.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "organ.toml")
		cfg := NewConfig(dir)

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		err := Init(path, cfg)
		if err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("reads valid config", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "organ.toml")
		cfg := NewConfig(dir)
		cfg.Storage = StorageConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Storage.Type != "memory" {
			t.Errorf("Storage.Type = %q, want %q", got.Storage.Type, "memory")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/organ.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
