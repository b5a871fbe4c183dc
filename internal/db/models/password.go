package models

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// passwordSaltLength is the number of random salt bytes per password.
	passwordSaltLength = 16
	// passwordKeyLength is the number of derived key bytes.
	passwordKeyLength = 32
	// passwordIterations is the PBKDF2 iteration count.
	passwordIterations = 100_000
)

// HashPassword hashes a plaintext password with PBKDF2-SHA256.
// The persisted layout is base64(salt(16) || derivedKey(32)), 48 raw bytes.
func HashPassword(password string) string {
	salt := make([]byte, passwordSaltLength)
	if _, err := rand.Read(salt); err != nil {
		log.Fatal().Msgf("failed to draw password salt: %v", err)
	}

	key := pbkdf2.Key([]byte(password), salt, passwordIterations, passwordKeyLength, sha256.New)

	return base64.StdEncoding.EncodeToString(append(salt, key...))
}

// VerifyPassword re-derives the key with the stored salt and compares it in
// constant time. Malformed blobs (bad encoding, wrong length) do not verify.
func VerifyPassword(password, encoded string) bool {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return false
	}

	if len(raw) != passwordSaltLength+passwordKeyLength {
		return false
	}

	salt := raw[:passwordSaltLength]
	derived := pbkdf2.Key([]byte(password), salt, passwordIterations, passwordKeyLength, sha256.New)

	return subtle.ConstantTimeCompare(derived, raw[passwordSaltLength:]) == 1
}
