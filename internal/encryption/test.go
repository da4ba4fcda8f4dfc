package encryption

import (
	"bytes"
	"fmt"
)

// testHeader is prepended to data by TestCodec to make encrypted output
// clearly different from plaintext while remaining deterministic and
// trivially reversible.
var testHeader = []byte("ORGENC\x00\x00")

// TestCodec is a simple, deterministic codec for testing. It prepends a
// fixed 8-byte header during encryption and strips it during decryption,
// requiring no actual crypto.
type TestCodec struct{}

var _ Codec = (*TestCodec)(nil)

// NewTestCodec creates a new TestCodec.
func NewTestCodec() *TestCodec {
	return &TestCodec{}
}

func (*TestCodec) Encrypt(data []byte) ([]byte, error) {
	out := make([]byte, 0, len(testHeader)+len(data))
	out = append(out, testHeader...)
	return append(out, data...), nil
}

func (*TestCodec) Decrypt(data []byte) ([]byte, error) {
	if len(data) < len(testHeader) || !bytes.Equal(data[:len(testHeader)], testHeader) {
		return nil, fmt.Errorf("invalid test encryption header")
	}
	return append([]byte{}, data[len(testHeader):]...), nil
}
