package blob

import (
	"fmt"

	"organ-go/internal/encryption"
)

// EncryptedStore decorates a Store with at-rest encryption of snapshot
// bytes. Metadata and the meta keyspace pass through unencrypted so that
// listing and lookup keep working without keys.
type EncryptedStore struct {
	inner Store
	codec encryption.Codec
}

var _ Store = (*EncryptedStore)(nil)

// NewEncryptedStore wraps inner so that snapshot payloads are encrypted with
// codec before storage and decrypted on retrieval.
func NewEncryptedStore(inner Store, codec encryption.Codec) *EncryptedStore {
	return &EncryptedStore{inner: inner, codec: codec}
}

func (s *EncryptedStore) Put(id string, data []byte, meta Metadata) error {
	encrypted, err := s.codec.Encrypt(data)
	if err != nil {
		return fmt.Errorf("encrypting snapshot %s: %w", id, err)
	}
	return s.inner.Put(id, encrypted, meta)
}

func (s *EncryptedStore) Get(id string) ([]byte, *Metadata, error) {
	data, meta, err := s.inner.Get(id)
	if err != nil || meta == nil {
		return nil, meta, err
	}
	plain, err := s.codec.Decrypt(data)
	if err != nil {
		return nil, nil, fmt.Errorf("decrypting snapshot %s: %w", id, err)
	}
	return plain, meta, nil
}

func (s *EncryptedStore) ListKeys() ([]string, error) {
	return s.inner.ListKeys()
}

func (s *EncryptedStore) PutMeta(key, value string) error {
	return s.inner.PutMeta(key, value)
}

func (s *EncryptedStore) GetMeta(key string) (string, error) {
	return s.inner.GetMeta(key)
}

func (s *EncryptedStore) Close() error {
	return s.inner.Close()
}
