package twofactor_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sitetrack/authkit/pkg/twofactor"
)

func testCredential(userID uuid.UUID) *twofactor.Credential {
	step := int64(42)
	now := time.Unix(1700000000, 0).UTC()
	return &twofactor.Credential{
		UserID:       userID,
		Secret:       "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ",
		State:        twofactor.StateEnabled,
		LastUsedStep: &step,
		Codes: []twofactor.BackupCode{
			{Hash: "$2a$04$fakehashone"},
			{Hash: "$2a$04$fakehashtwo", Used: true, UsedAt: &now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestMemoryStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		_, err := ms.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	})

	t.Run("put then get", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		userID := uuid.New()
		require.NoError(t, ms.Put(ctx, testCredential(userID)))

		got, err := ms.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, twofactor.StateEnabled, got.State)
		assert.Len(t, got.Codes, 2)
	})

	t.Run("get returns detached copies", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		userID := uuid.New()
		require.NoError(t, ms.Put(ctx, testCredential(userID)))

		first, err := ms.Get(ctx, userID)
		require.NoError(t, err)
		first.Codes[0].Used = true
		*first.LastUsedStep = 99

		second, err := ms.Get(ctx, userID)
		require.NoError(t, err)
		assert.False(t, second.Codes[0].Used)
		assert.Equal(t, int64(42), *second.LastUsedStep)
	})

	t.Run("put replaces whole record", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		userID := uuid.New()
		require.NoError(t, ms.Put(ctx, testCredential(userID)))

		replacement := testCredential(userID)
		replacement.State = twofactor.StatePending
		replacement.Codes = nil
		require.NoError(t, ms.Put(ctx, replacement))

		got, err := ms.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, twofactor.StatePending, got.State)
		assert.Empty(t, got.Codes)
	})

	t.Run("transact missing", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		err := ms.Transact(ctx, uuid.New(), func(*twofactor.Credential) error { return nil })
		assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	})

	t.Run("transact persists mutation", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		userID := uuid.New()
		require.NoError(t, ms.Put(ctx, testCredential(userID)))

		err := ms.Transact(ctx, userID, func(cred *twofactor.Credential) error {
			cred.Codes[0].Used = true
			return nil
		})
		require.NoError(t, err)

		got, err := ms.Get(ctx, userID)
		require.NoError(t, err)
		assert.True(t, got.Codes[0].Used)
	})

	t.Run("transact error aborts", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		userID := uuid.New()
		require.NoError(t, ms.Put(ctx, testCredential(userID)))

		boom := errors.New("boom")
		err := ms.Transact(ctx, userID, func(cred *twofactor.Credential) error {
			cred.Codes[0].Used = true
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := ms.Get(ctx, userID)
		require.NoError(t, err)
		assert.False(t, got.Codes[0].Used, "aborted transaction must not persist")
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		ms := twofactor.NewMemoryStorage()
		userID := uuid.New()
		require.NoError(t, ms.Put(ctx, testCredential(userID)))
		require.NoError(t, ms.Delete(ctx, userID))

		_, err := ms.Get(ctx, userID)
		assert.ErrorIs(t, err, twofactor.ErrCredentialNotFound)
	})
}

func TestCredentialClone(t *testing.T) {
	t.Parallel()

	var nilCred *twofactor.Credential
	assert.Nil(t, nilCred.Clone())

	cred := testCredential(uuid.New())
	clone := cred.Clone()

	clone.Codes[1].UsedAt = nil
	*clone.LastUsedStep = 7
	assert.NotNil(t, cred.Codes[1].UsedAt)
	assert.Equal(t, int64(42), *cred.LastUsedStep)
}

func TestCredentialUnusedCodes(t *testing.T) {
	t.Parallel()

	cred := testCredential(uuid.New())
	assert.Equal(t, 1, cred.UnusedCodes())

	cred.Codes = nil
	assert.Zero(t, cred.UnusedCodes())
}
