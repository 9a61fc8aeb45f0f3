package backupcode_test

import (
	"strings"
	"testing"

	"github.com/sitetrack/authkit/pkg/backupcode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestGenerate(t *testing.T) {
	t.Parallel()
	codes, err := backupcode.Generate(0, 0)
	require.NoError(t, err)
	require.Len(t, codes, backupcode.DefaultCount)

	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		assert.Len(t, code, backupcode.DefaultLength)
		for _, r := range code {
			assert.Contains(t, backupcode.Alphabet, string(r))
		}
		seen[code] = struct{}{}
	}
	assert.Len(t, seen, len(codes), "codes must be unique within a batch")
}

func TestGenerateCustomShape(t *testing.T) {
	t.Parallel()
	codes, err := backupcode.Generate(5, 12)
	require.NoError(t, err)
	require.Len(t, codes, 5)
	for _, code := range codes {
		assert.Len(t, code, 12)
	}
}

func TestGenerateRejectsInvalidShape(t *testing.T) {
	t.Parallel()
	_, err := backupcode.Generate(-1, 8)
	assert.ErrorIs(t, err, backupcode.ErrInvalidCodeCount)

	_, err = backupcode.Generate(10, 4)
	assert.ErrorIs(t, err, backupcode.ErrInvalidCodeLength)
}

func TestGenerateExcludesConfusableCharacters(t *testing.T) {
	t.Parallel()
	codes, err := backupcode.Generate(50, 8)
	require.NoError(t, err)
	joined := strings.Join(codes, "")
	assert.NotContains(t, joined, "0")
	assert.NotContains(t, joined, "O")
	assert.NotContains(t, joined, "1")
	assert.NotContains(t, joined, "I")
}

func TestFormatAndNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"formatted", "ABCD-EFGH", "ABCDEFGH"},
		{"lowercase", "abcdefgh", "ABCDEFGH"},
		{"whitespace", "  ABCD EFGH ", "ABCDEFGH"},
		{"already normal", "ABCDEFGH", "ABCDEFGH"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, backupcode.Normalize(tt.input))
		})
	}

	assert.Equal(t, "ABCD-EFGH", backupcode.Format("ABCDEFGH"))
	assert.Equal(t, "ABCDEFGH", backupcode.Normalize(backupcode.Format("ABCDEFGH")))
}

func TestIsWellFormed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		code string
		want bool
	}{
		{"valid", "ABCDEFGH", true},
		{"valid digits", "A2B3C4D5", true},
		{"too short", "ABCDEFG", false},
		{"too long", "ABCDEFGHJ", false},
		{"totp shaped", "12345678", false}, // contains 0/1-class digits
		{"confusable zero", "ABCDEFG0", false},
		{"confusable oh", "ABCDEFGO", false},
		{"lowercase", "abcdefgh", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, backupcode.IsWellFormed(tt.code, 0))
		})
	}
}

func TestHashAndMatch(t *testing.T) {
	t.Parallel()
	hash, err := backupcode.HashWithCost("ABCDEFGH", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "ABCDEFGH", hash)

	assert.True(t, backupcode.Match(hash, "ABCDEFGH"))
	assert.False(t, backupcode.Match(hash, "ABCDEFGJ"))
	assert.False(t, backupcode.Match(hash, ""))

	// Hashes are salted: the same code hashes differently each time.
	other, err := backupcode.HashWithCost("ABCDEFGH", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
	assert.True(t, backupcode.Match(other, "ABCDEFGH"))
}
