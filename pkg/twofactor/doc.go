// Package twofactor coordinates two-factor authentication end to end:
// secret provisioning, enrollment confirmation, login-time verification,
// single-use backup codes, and brute-force lockout.
//
// It composes three leaf packages - totp (the pure RFC 6238 engine),
// backupcode (recovery-code generation and hashing) and lockout (the
// failure limiter) - over a narrow credential repository interface, and owns
// all cross-cutting policy. The credential lifecycle is
//
//	StateNotSet -> StatePending   via Setup (new secret + backup codes)
//	StatePending -> StateEnabled  via ConfirmSetup (live TOTP code)
//	StateEnabled -> StateNotSet   via Disable (fresh verification required)
//
// Regenerating an enrollment or a backup-code set replaces the previous
// generation wholesale; old secrets and codes are never merged with new ones.
//
// # Usage
//
//	store := twofactor.NewMemoryStorage()
//	svc, err := twofactor.New(store, twofactor.Config{Issuer: "SiteTrack"})
//	if err != nil { ... }
//
//	setup, err := svc.Setup(ctx, userID, "foreman@example.com")
//	// show setup.URI as a QR code, setup.BackupCodes exactly once
//
//	if err := svc.ConfirmSetup(ctx, userID, codeFromApp); err != nil { ... }
//
//	res, err := svc.VerifyLogin(ctx, userID, submitted)
//	switch {
//	case errors.Is(err, twofactor.ErrRateLimited):
//	    // blocked until res.LockedUntil
//	case errors.Is(err, twofactor.ErrInvalidCode):
//	    // res.AttemptsRemaining left before lockout
//	case err == nil:
//	    // res.Method says whether a TOTP or a backup code was used
//	}
//
// Production deployments back the service with the mongostore subpackage for
// credentials and a lockout.RedisStore for the shared failure budget; the
// in-memory implementations serve tests and single-process use.
//
// # Concurrency
//
// All mutating flows run inside Storage.Transact, a serialized
// read-modify-write per user. That is what makes backup-code redemption
// at-most-once under concurrent logins, and the limiter's atomic failure
// recording is what keeps parallel wrong guesses from exceeding the lockout
// threshold.
package twofactor
