// Package encryption provides optional at-rest encryption for exported
// snapshots. Backends are selected by config type, mirroring the snapshot
// store factory.
package encryption

import "fmt"

// Codec encrypts and decrypts snapshot bytes. Implementations must be
// symmetric: Decrypt(Encrypt(b)) == b.
type Codec interface {
	Encrypt(data []byte) ([]byte, error)
	Decrypt(data []byte) ([]byte, error)
}

// Config selects and parameterizes a codec.
type Config struct {
	Type          string `toml:"type"` // "none", "age" or "test"
	RecipientPath string `toml:"recipient_path,omitempty"`
	IdentityPath  string `toml:"identity_path,omitempty"`
}

// NewCodecFromConfig creates a Codec based on the config type. A "none"
// (or empty) type returns (nil, nil): encryption is off.
func NewCodecFromConfig(cfg Config) (Codec, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "age":
		return NewAgeCodec(cfg.RecipientPath, cfg.IdentityPath)
	case "test":
		return NewTestCodec(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %s", cfg.Type)
	}
}
