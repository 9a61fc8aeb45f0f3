package totp

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
)

// secretKeyBytes is the raw secret length: 160 bits, the RFC 4226 recommendation.
const secretKeyBytes = 20

// GenerateSecretKey generates a new Base32-encoded shared secret for TOTP.
//
// The secret is drawn from crypto/rand only. If the secure random source
// fails the error is ErrEntropyUnavailable and the enrollment must be
// aborted; there is no fallback to a weaker source.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, secretKeyBytes)
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(secret), nil
}
