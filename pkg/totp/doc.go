// Package totp implements the time-based one-time password algorithms of
// RFC 4226 (HOTP) and RFC 6238 (TOTP) as a pure function set: secret key
// generation, per-step code computation, drift-tolerant verification with
// replay rejection, and provisioning URI construction for authenticator apps.
//
// Nothing in this package performs I/O or holds mutable state, so every
// function is safe to call concurrently without synchronization. Persistence
// of secrets and replay markers belongs to the caller; the twofactor package
// composes this engine with storage and rate limiting.
//
// # Verification
//
// Verify accepts codes from the time steps within the configured drift window
// (default one 30-second step in each direction) to absorb clock skew between
// client and server. Candidates are compared in constant time, and a match at
// or below the caller-supplied replay marker fails with ErrReplay even when
// the digits are correct:
//
//	secret, _ := totp.GenerateSecretKey()
//	step, err := totp.Verify(secret, submitted, time.Now(), totp.NoPriorStep, totp.Params{})
//	if err == nil {
//	    // persist step as the new replay marker
//	}
//
// # Secret storage
//
// Helpers in aes256.go encrypt secrets with AES-256-GCM before they are
// persisted. The key is loaded once per process from the TOTP_ENCRYPTION_KEY
// environment variable as a base64-encoded 32-byte value.
//
// # Error Handling
//
// Exported operations return package-level sentinels (ErrInvalidSecret,
// ErrNoMatch, ErrReplay, ErrEntropyUnavailable, ...) that may be wrapped with
// errors.Join; inspect them with errors.Is. ErrEntropyUnavailable is fatal:
// secret generation never falls back to a weaker random source.
package totp
