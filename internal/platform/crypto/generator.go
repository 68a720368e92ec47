// File: internal/platform/crypto/generator.go
package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// RandomHex returns n cryptographically secure random bytes, hex encoded.
// The result is 2*n characters long and safe to use in URLs and slugs.
func RandomHex(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("random length must be positive, got %d", n)
	}
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
