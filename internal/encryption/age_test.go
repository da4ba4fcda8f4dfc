package encryption

import (
	"bytes"
	"path/filepath"
	"testing"
)

func newTestAgeCodec(t *testing.T) *AgeCodec {
	t.Helper()
	dir := t.TempDir()
	c, err := NewAgeCodec(
		filepath.Join(dir, "keys", "organ.pub"),
		filepath.Join(dir, "keys", "organ.key"),
	)
	if err != nil {
		t.Fatalf("NewAgeCodec() error = %v", err)
	}
	return c
}

func TestNewAgeCodec_MissingPaths(t *testing.T) {
	t.Parallel()
	if _, err := NewAgeCodec("", ""); err == nil {
		t.Error("NewAgeCodec() with empty paths should return error")
	}
}

func TestAgeCodec_IsConfigured_BeforeSetup(t *testing.T) {
	t.Parallel()
	c := newTestAgeCodec(t)
	if c.IsConfigured() {
		t.Error("IsConfigured() = true before Setup, want false")
	}
}

func TestAgeCodec_Setup_IsConfigured(t *testing.T) {
	t.Parallel()
	c := newTestAgeCodec(t)

	if err := c.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	if !c.IsConfigured() {
		t.Error("IsConfigured() = false after Setup, want true")
	}
}

func TestAgeCodec_EncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
		{name: "large data", input: bytes.Repeat([]byte("abcdef"), 10000)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestAgeCodec(t)
			if err := c.Setup(); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			encrypted, err := c.Encrypt(tt.input)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			// Encrypted output should differ from plaintext
			if len(tt.input) > 0 && bytes.Equal(encrypted, tt.input) {
				t.Error("encrypted output is identical to plaintext")
			}

			decrypted, err := c.Decrypt(encrypted)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}

			if !bytes.Equal(decrypted, tt.input) {
				t.Errorf("round-trip failed: got %d bytes, want %d bytes", len(decrypted), len(tt.input))
			}
		})
	}
}

func TestAgeCodec_EncryptBeforeSetup(t *testing.T) {
	t.Parallel()

	c := newTestAgeCodec(t)
	if _, err := c.Encrypt([]byte("data")); err == nil {
		t.Error("Encrypt() before Setup should return error")
	}
}

func TestAgeCodec_DecryptWrongKey(t *testing.T) {
	t.Parallel()

	c1 := newTestAgeCodec(t)
	if err := c1.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	c2 := newTestAgeCodec(t)
	if err := c2.Setup(); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	encrypted, err := c1.Encrypt([]byte("secret"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	if _, err := c2.Decrypt(encrypted); err == nil {
		t.Error("Decrypt() with the wrong identity should return error")
	}
}
