package twofactor

import (
	"context"

	"github.com/google/uuid"
)

// Storage is the credential repository contract. The service performs every
// state change through Put (atomic replace) or Transact (conditional
// read-modify-write); there is no partial-field update surface.
//
// Implementations must guarantee that Transact calls for the same user are
// serialized: fn observes the latest committed credential, and its mutations
// are persisted only when it returns nil, as a single atomic operation. That
// property is what makes backup-code redemption at-most-once - two
// concurrent redemptions of one code must not both see it unused.
type Storage interface {
	// Get loads the credential for a user, or ErrCredentialNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*Credential, error)

	// Put replaces the stored credential wholesale, creating it if absent.
	// Any previous secret, state and backup-code set are discarded, never
	// merged.
	Put(ctx context.Context, cred *Credential) error

	// Transact atomically applies fn to the stored credential. fn receives a
	// private copy; returning an error aborts without persisting anything
	// and the error is passed through to the caller.
	Transact(ctx context.Context, userID uuid.UUID, fn func(*Credential) error) error
}
