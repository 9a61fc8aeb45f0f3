package backupcode

import (
	"crypto/rand"
	"errors"
	"strings"
)

const (
	// DefaultCount is the number of codes in a freshly generated set.
	DefaultCount = 10
	// DefaultLength is the number of alphabet characters per code.
	DefaultLength = 8
)

// Alphabet is the unambiguous character set used for backup codes. It drops
// the visually confusable pairs 0/O and 1/I, leaving exactly 32 characters so
// random bytes can be mapped without modulo bias.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Generate creates count cryptographically random backup codes of the given
// length. Pass 0 for either argument to use the defaults. The returned
// plaintext codes are handed to the user exactly once; callers must persist
// only hashes (see Hash).
func Generate(count, length int) ([]string, error) {
	if count == 0 {
		count = DefaultCount
	}
	if length == 0 {
		length = DefaultLength
	}
	if count < 1 {
		return nil, ErrInvalidCodeCount
	}
	if length < 6 {
		return nil, ErrInvalidCodeLength
	}

	codes := make([]string, count)
	for i := range codes {
		code, err := generateOne(length)
		if err != nil {
			return nil, err
		}
		codes[i] = code
	}
	return codes, nil
}

func generateOne(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", errors.Join(ErrEntropyUnavailable, err)
	}

	var b strings.Builder
	b.Grow(length)
	for _, c := range raw {
		// The alphabet has 32 entries, so the low 5 bits index it uniformly.
		b.WriteByte(Alphabet[c&0x1f])
	}
	return b.String(), nil
}

// Format renders a code for display with a separator in the middle
// (ABCD-EFGH), matching how it is printed on recovery sheets. Normalize
// reverses it.
func Format(code string) string {
	if len(code) < 4 || len(code)%2 != 0 {
		return code
	}
	half := len(code) / 2
	return code[:half] + "-" + code[half:]
}

// Normalize canonicalizes user input: uppercased with separators and
// whitespace stripped. Both "abcd-efgh" and "ABCDEFGH" normalize to the same
// stored form.
func Normalize(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ':
			return -1
		}
		return r
	}, code)
}

// IsWellFormed reports whether a normalized code has the exact backup-code
// shape: the given length and only alphabet characters. The verification
// coordinator uses this to route submissions between the TOTP and backup-code
// paths; it says nothing about whether the code exists.
func IsWellFormed(code string, length int) bool {
	if length == 0 {
		length = DefaultLength
	}
	if len(code) != length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(Alphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
