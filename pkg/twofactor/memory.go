package twofactor

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStorage implements Storage in process memory. It backs tests and
// single-process deployments; production deployments use the mongostore
// subpackage.
type MemoryStorage struct {
	mu    sync.Mutex
	creds map[uuid.UUID]*Credential
}

// NewMemoryStorage creates an empty in-memory credential repository.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{creds: make(map[uuid.UUID]*Credential)}
}

func (ms *MemoryStorage) Get(ctx context.Context, userID uuid.UUID) (*Credential, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cred, ok := ms.creds[userID]
	if !ok {
		return nil, ErrCredentialNotFound
	}
	return cred.Clone(), nil
}

func (ms *MemoryStorage) Put(ctx context.Context, cred *Credential) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.creds[cred.UserID] = cred.Clone()
	return nil
}

// Transact holds the store mutex across fn, so concurrent transactions for
// one credential serialize and exactly one redeemer of a backup code wins.
func (ms *MemoryStorage) Transact(ctx context.Context, userID uuid.UUID, fn func(*Credential) error) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	cred, ok := ms.creds[userID]
	if !ok {
		return ErrCredentialNotFound
	}

	working := cred.Clone()
	if err := fn(working); err != nil {
		return err
	}
	ms.creds[userID] = working
	return nil
}

// Delete removes a credential outright. Mainly for tests.
func (ms *MemoryStorage) Delete(ctx context.Context, userID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.creds, userID)
	return nil
}
