package blob

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSystemStore is a filesystem implementation of the Store interface.
// It lays snapshots and metadata out as:
//
//	<root>/
//	  projects/
//	    <id>.snapshot   (opaque CRDT snapshot bytes)
//	    <id>.meta       (JSON Metadata sidecar)
//	  meta/
//	    <key>           (metadata keyspace entries)
type FileSystemStore struct {
	root        string
	projectsDir string
	metaDir     string
}

// NewFileSystemStore creates a store rooted at the given path, creating the
// directory structure if needed.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	projectsDir := filepath.Join(root, "projects")
	metaDir := filepath.Join(root, "meta")

	if err := os.MkdirAll(projectsDir, 0755); err != nil {
		return nil, fmt.Errorf("creating projects directory: %w", err)
	}
	if err := os.MkdirAll(metaDir, 0755); err != nil {
		return nil, fmt.Errorf("creating meta directory: %w", err)
	}

	return &FileSystemStore{root: root, projectsDir: projectsDir, metaDir: metaDir}, nil
}

func (s *FileSystemStore) Put(id string, data []byte, meta Metadata) error {
	metaBytes, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding metadata for %s: %w", id, err)
	}
	if err := s.writeFile(filepath.Join(s.projectsDir, id+".snapshot"), data); err != nil {
		return err
	}
	return s.writeFile(filepath.Join(s.projectsDir, id+".meta"), metaBytes)
}

func (s *FileSystemStore) Get(id string) ([]byte, *Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.projectsDir, id+".snapshot"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading snapshot %s: %w", id, err)
	}

	metaBytes, err := os.ReadFile(filepath.Join(s.projectsDir, id+".meta"))
	if err != nil {
		return nil, nil, fmt.Errorf("reading metadata %s: %w", id, err)
	}
	var meta Metadata
	if err := json.Unmarshal(metaBytes, &meta); err != nil {
		return nil, nil, fmt.Errorf("decoding metadata %s: %w", id, err)
	}
	return data, &meta, nil
}

func (s *FileSystemStore) ListKeys() ([]string, error) {
	entries, err := os.ReadDir(s.projectsDir)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	var keys []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".snapshot"); ok {
			keys = append(keys, name)
		}
	}
	return keys, nil
}

func (s *FileSystemStore) PutMeta(key, value string) error {
	return s.writeFile(filepath.Join(s.metaDir, key), []byte(value))
}

func (s *FileSystemStore) GetMeta(key string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.metaDir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading meta key %q: %w", key, err)
	}
	return string(data), nil
}

func (s *FileSystemStore) Close() error { return nil }

// writeFile writes data atomically via a temp file and rename, so a crash
// mid-write never leaves a torn snapshot behind.
func (s *FileSystemStore) writeFile(destPath string, data []byte) error {
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("writing data: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements the Store interface
var _ Store = (*FileSystemStore)(nil)
