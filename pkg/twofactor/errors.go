package twofactor

import "errors"

// Construction errors
var (
	ErrStorageRequired = errors.New("storage is required")
	ErrIssuerRequired  = errors.New("issuer is required")
	ErrUserIDRequired  = errors.New("user id is required")
)

// Storage contract errors
var (
	// ErrCredentialNotFound is returned by Storage implementations when no
	// credential exists for the user.
	ErrCredentialNotFound = errors.New("two-factor credential not found")
	// ErrTransactConflict is returned by Storage implementations when a
	// conditional update loses its race and retries are exhausted.
	ErrTransactConflict = errors.New("credential transaction conflict")
)

// Verification errors. Only ErrInvalidCode and ErrRateLimited should ever
// reach an end user during login; backup-code misses and repeats surface as
// ErrInvalidCode so callers cannot probe which codes exist.
var (
	ErrSetupNotStarted      = errors.New("two-factor setup has not been started")
	ErrNotEnabled           = errors.New("two-factor authentication is not enabled")
	ErrInvalidCode          = errors.New("invalid verification code")
	ErrRateLimited          = errors.New("too many failed attempts, try again later")
	ErrBackupCodesExhausted = errors.New("all backup codes have been used")
)
