package twofactor

import (
	"time"

	"github.com/google/uuid"
)

// State is the lifecycle state of a user's two-factor credential.
type State string

const (
	// StateNotSet means the user has never enrolled (or has disabled 2FA).
	StateNotSet State = "not_set"
	// StatePending means a secret has been provisioned but not yet confirmed
	// with a live code.
	StatePending State = "pending"
	// StateEnabled means enrollment is confirmed and login verification is
	// enforced.
	StateEnabled State = "enabled"
	// StateDisabled marks a credential suspended administratively. It is
	// never produced by this package - user-driven disablement wipes the
	// credential back to StateNotSet - but login verification refuses it the
	// same way it refuses StatePending.
	StateDisabled State = "disabled"
)

// BackupCode is one stored recovery code entry. Only the bcrypt hash is ever
// persisted; Used is monotonic and never reverts to false within a set.
type BackupCode struct {
	Hash   string     `json:"hash" bson:"hash"`
	Used   bool       `json:"used" bson:"used"`
	UsedAt *time.Time `json:"used_at,omitempty" bson:"used_at,omitempty"`
}

// Credential is the per-user two-factor record. The secret and the backup
// code set share one generation: provisioning a new secret atomically
// replaces both, so stale codes can never outlive the secret they were
// issued with.
type Credential struct {
	UserID uuid.UUID `json:"user_id" bson:"user_id"`

	// Secret is the Base32 shared secret, or its AES-256-GCM ciphertext when
	// the service is configured with an encryption key.
	Secret string `json:"secret" bson:"secret"`

	State State `json:"state" bson:"state"`

	// LastUsedStep is the anti-replay marker: the most recent time-step index
	// consumed by a successful TOTP verification. Nil until first use.
	LastUsedStep *int64 `json:"last_used_step,omitempty" bson:"last_used_step,omitempty"`

	// ConfirmedAt is set once, on the first successful enrollment
	// confirmation.
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`

	Codes []BackupCode `json:"codes" bson:"codes"`

	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Clone returns a deep copy, detaching pointer fields and the code slice so
// storage implementations never hand out aliased state.
func (c *Credential) Clone() *Credential {
	if c == nil {
		return nil
	}
	out := *c
	if c.LastUsedStep != nil {
		step := *c.LastUsedStep
		out.LastUsedStep = &step
	}
	if c.ConfirmedAt != nil {
		at := *c.ConfirmedAt
		out.ConfirmedAt = &at
	}
	if c.Codes != nil {
		out.Codes = make([]BackupCode, len(c.Codes))
		for i, code := range c.Codes {
			out.Codes[i] = code
			if code.UsedAt != nil {
				at := *code.UsedAt
				out.Codes[i].UsedAt = &at
			}
		}
	}
	return &out
}

// UnusedCodes counts the backup codes still available for redemption.
func (c *Credential) UnusedCodes() int {
	n := 0
	for _, code := range c.Codes {
		if !code.Used {
			n++
		}
	}
	return n
}

// Method identifies which verification path satisfied a login check.
type Method string

const (
	MethodTOTP       Method = "totp"
	MethodBackupCode Method = "backup_code"
)

// SetupResult is returned by Setup. The plaintext backup codes and the
// Base32 secret appear here exactly once; storage keeps only hashes and
// (optionally encrypted) secret material.
type SetupResult struct {
	Secret      string   // Base32 secret for manual entry
	URI         string   // otpauth:// provisioning URI; QR rendering is the caller's concern
	BackupCodes []string // Display-formatted single-use recovery codes
}

// LoginResult carries the outcome metadata of a verification attempt.
// On failure it accompanies a sentinel error: AttemptsRemaining with
// ErrInvalidCode, LockedUntil with ErrRateLimited.
type LoginResult struct {
	Method               Method
	AttemptsRemaining    int
	LockedUntil          time.Time
	BackupCodesRemaining int // Populated after a backup-code redemption
}
