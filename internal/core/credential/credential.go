// Package credential decodes transport-encoded passwords and hashes them
// with bcrypt.
package credential

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/fasttech/usuarios/internal/core/domain"
)

// hashCost is fixed so every stored hash carries the same work factor.
const hashCost = bcrypt.DefaultCost

// Decode converts a standard base64 password into its UTF-8 plaintext.
// Empty input, malformed base64 and non-UTF-8 payloads are rejected.
func Decode(encoded string) (string, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return "", domain.ErrInvalidPasswordEncoding
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) == 0 || !utf8.Valid(raw) {
		return "", domain.ErrInvalidPasswordEncoding
	}
	return string(raw), nil
}

// Encode is the inverse of Decode.
func Encode(plaintext string) string {
	return base64.StdEncoding.EncodeToString([]byte(plaintext))
}

// Hash returns a salted bcrypt hash of plaintext. The salt is generated per
// call and embedded in the result.
func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

// Verify reports whether plaintext matches hash. A malformed hash is a
// mismatch, never an error.
func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
