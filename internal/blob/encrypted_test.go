package blob

import (
	"bytes"
	"testing"

	"organ-go/internal/encryption"
)

func newEncryptedPair(t *testing.T) (*MemoryStore, *EncryptedStore) {
	t.Helper()
	inner := NewMemoryStore()
	return inner, NewEncryptedStore(inner, encryption.NewTestCodec())
}

func TestEncryptedStore_SnapshotBytesAtRestDiffer(t *testing.T) {
	inner, enc := newEncryptedPair(t)

	plain := []byte("snapshot-bytes")
	if err := enc.Put("p-1", plain, Metadata{ID: "p-1"}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	stored, _, err := inner.Get("p-1")
	if err != nil {
		t.Fatalf("inner Get() error = %v", err)
	}
	if bytes.Equal(stored, plain) {
		t.Error("stored bytes equal plaintext; snapshot was not encrypted")
	}

	got, _, err := enc.Get("p-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("Get() = %q, want %q", got, plain)
	}
}

func TestEncryptedStore_MetadataPassesThrough(t *testing.T) {
	inner, enc := newEncryptedPair(t)

	meta := Metadata{ID: "p-1", Kind: "theme", Name: "T1", CreatedMS: 1, UpdatedMS: 2}
	if err := enc.Put("p-1", []byte("x"), meta); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	_, got, err := inner.Get("p-1")
	if err != nil {
		t.Fatalf("inner Get() error = %v", err)
	}
	if got == nil || *got != meta {
		t.Errorf("inner metadata = %+v, want %+v", got, meta)
	}

	if err := enc.PutMeta(MetaActiveThemeID, "p-1"); err != nil {
		t.Fatalf("PutMeta() error = %v", err)
	}
	v, err := inner.GetMeta(MetaActiveThemeID)
	if err != nil {
		t.Fatalf("inner GetMeta() error = %v", err)
	}
	if v != "p-1" {
		t.Errorf("inner GetMeta() = %q, want p-1", v)
	}
}

func TestEncryptedStore_GetMissing(t *testing.T) {
	_, enc := newEncryptedPair(t)

	data, meta, err := enc.Get("absent")
	if err != nil {
		t.Fatalf("Get(absent) error = %v", err)
	}
	if data != nil || meta != nil {
		t.Errorf("Get(absent) = (%v, %v), want (nil, nil)", data, meta)
	}
}

func TestEncryptedStore_CorruptCiphertext(t *testing.T) {
	inner, enc := newEncryptedPair(t)

	if err := inner.Put("p-1", []byte("not a ciphertext"), Metadata{ID: "p-1"}); err != nil {
		t.Fatalf("inner Put() error = %v", err)
	}
	if _, _, err := enc.Get("p-1"); err == nil {
		t.Error("Get() with corrupt ciphertext should return error")
	}
}
