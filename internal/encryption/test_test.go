package encryption

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestTestCodec_EncryptDecrypt(t *testing.T) {
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

			c := NewTestCodec()

			encrypted, err := c.Encrypt(tt.input)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}

			// Encrypted output should differ from plaintext (the header makes
			// even empty input different).
			if bytes.Equal(encrypted, tt.input) {
				t.Error("encrypted output is identical to plaintext")
			}
			if !bytes.HasPrefix(encrypted, testHeader) {
				t.Error("encrypted output does not start with test header")
			}

			decrypted, err := c.Decrypt(encrypted)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted, tt.input) {
				t.Errorf("round-trip failed: got %q, want %q", decrypted, tt.input)
			}
		})
	}
}

func TestTestCodec_ChecksumsDiffer(t *testing.T) {
	t.Parallel()

	input := []byte("some snapshot content")

	c := NewTestCodec()
	encrypted, err := c.Encrypt(input)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}

	plainHash := sha256.Sum256(input)
	encHash := sha256.Sum256(encrypted)

	if hex.EncodeToString(plainHash[:]) == hex.EncodeToString(encHash[:]) {
		t.Error("plaintext and encrypted checksums should differ")
	}
}

func TestTestCodec_Deterministic(t *testing.T) {
	t.Parallel()

	input := []byte("deterministic test")
	c := NewTestCodec()

	enc1, err := c.Encrypt(input)
	if err != nil {
		t.Fatalf("first Encrypt() error = %v", err)
	}
	enc2, err := c.Encrypt(input)
	if err != nil {
		t.Fatalf("second Encrypt() error = %v", err)
	}

	if !bytes.Equal(enc1, enc2) {
		t.Error("same input produced different encrypted output")
	}
}

func TestTestCodec_InvalidHeader(t *testing.T) {
	t.Parallel()

	c := NewTestCodec()
	if _, err := c.Decrypt([]byte("NOT_VALID_HEADER_data")); err == nil {
		t.Error("Decrypt() with invalid header should return error")
	}
}

func TestTestCodec_TruncatedInput(t *testing.T) {
	t.Parallel()

	c := NewTestCodec()
	if _, err := c.Decrypt([]byte("OR")); err == nil {
		t.Error("Decrypt() with truncated data should return error")
	}
	if _, err := c.Decrypt(nil); err == nil {
		t.Error("Decrypt() with empty input should return error")
	}
}

func TestNewCodecFromConfig(t *testing.T) {
	t.Parallel()

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		c, err := NewCodecFromConfig(Config{Type: "none"})
		if err != nil {
			t.Fatalf("NewCodecFromConfig() error = %v", err)
		}
		if c != nil {
			t.Error("expected nil codec for type none")
		}
	})

	t.Run("empty defaults to none", func(t *testing.T) {
		t.Parallel()
		c, err := NewCodecFromConfig(Config{})
		if err != nil {
			t.Fatalf("NewCodecFromConfig() error = %v", err)
		}
		if c != nil {
			t.Error("expected nil codec for empty type")
		}
	})

	t.Run("test", func(t *testing.T) {
		t.Parallel()
		c, err := NewCodecFromConfig(Config{Type: "test"})
		if err != nil {
			t.Fatalf("NewCodecFromConfig() error = %v", err)
		}
		if _, ok := c.(*TestCodec); !ok {
			t.Errorf("expected *TestCodec, got %T", c)
		}
	})

	t.Run("age", func(t *testing.T) {
		t.Parallel()
		c, err := NewCodecFromConfig(Config{Type: "age", RecipientPath: "/tmp/r", IdentityPath: "/tmp/i"})
		if err != nil {
			t.Fatalf("NewCodecFromConfig() error = %v", err)
		}
		if _, ok := c.(*AgeCodec); !ok {
			t.Errorf("expected *AgeCodec, got %T", c)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		if _, err := NewCodecFromConfig(Config{Type: "rot13"}); err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
