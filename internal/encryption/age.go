package encryption

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"filippo.io/age"
)

// AgeCodec implements Codec using filippo.io/age with X25519 keys read
// from configured paths. Encryption needs only the recipient (public key);
// decryption needs the identity (private key). Key files use the standard
// age one-key-per-line format.
type AgeCodec struct {
	recipientPath string
	identityPath  string
}

var _ Codec = (*AgeCodec)(nil)

// NewAgeCodec creates an age codec over the given key file paths. The key
// files are read lazily, per operation, so key rotation needs no restart.
func NewAgeCodec(recipientPath, identityPath string) (*AgeCodec, error) {
	if recipientPath == "" || identityPath == "" {
		return nil, fmt.Errorf("age encryption requires recipient_path and identity_path")
	}
	return &AgeCodec{recipientPath: recipientPath, identityPath: identityPath}, nil
}

// Setup performs one-time key generation: writes a fresh X25519 key pair to
// the configured paths. The identity file is created with owner-only
// permissions.
func (c *AgeCodec) Setup() error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	for _, path := range []string{c.recipientPath, c.identityPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return fmt.Errorf("creating key directory: %w", err)
		}
	}
	if err := os.WriteFile(c.recipientPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		return fmt.Errorf("writing recipient: %w", err)
	}
	if err := os.WriteFile(c.identityPath, []byte(identity.String()+"\n"), 0600); err != nil {
		return fmt.Errorf("writing identity: %w", err)
	}
	return nil
}

// IsConfigured returns true if both key files exist.
func (c *AgeCodec) IsConfigured() bool {
	if _, err := os.Stat(c.recipientPath); err != nil {
		return false
	}
	if _, err := os.Stat(c.identityPath); err != nil {
		return false
	}
	return true
}

func (c *AgeCodec) Encrypt(data []byte) ([]byte, error) {
	recipient, err := c.loadRecipient()
	if err != nil {
		return nil, fmt.Errorf("loading recipient: %w", err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("encrypting data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *AgeCodec) Decrypt(data []byte) ([]byte, error) {
	identity, err := c.loadIdentity()
	if err != nil {
		return nil, fmt.Errorf("loading identity: %w", err)
	}

	r, err := age.Decrypt(bytes.NewReader(data), identity)
	if err != nil {
		return nil, fmt.Errorf("creating decrypted reader: %w", err)
	}
	plain, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decrypting data: %w", err)
	}
	return plain, nil
}

func (c *AgeCodec) loadRecipient() (age.Recipient, error) {
	data, err := os.ReadFile(c.recipientPath)
	if err != nil {
		return nil, fmt.Errorf("reading recipient file: %w", err)
	}
	recipients, err := age.ParseRecipients(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing recipient file: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in %s", c.recipientPath)
	}
	return recipients[0], nil
}

func (c *AgeCodec) loadIdentity() (age.Identity, error) {
	data, err := os.ReadFile(c.identityPath)
	if err != nil {
		return nil, fmt.Errorf("reading identity file: %w", err)
	}
	identities, err := age.ParseIdentities(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing identity file: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("no identities found in %s", c.identityPath)
	}
	return identities[0], nil
}
