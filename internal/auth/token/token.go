// Package token generates and hashes opaque refresh tokens. Only the
// SHA-256 digest is stored; the raw token never touches the database.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
)

// RefreshTokenSize is the entropy, in bytes, of an issued refresh token.
const RefreshTokenSize = 48

func Generate(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func HashSHA256(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
