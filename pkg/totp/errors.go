package totp

import "errors"

var (
	ErrInvalidSecret        = errors.New("invalid TOTP secret")
	ErrMissingSecret        = errors.New("missing secret")
	ErrMissingAccountName   = errors.New("missing account name")
	ErrMissingIssuer        = errors.New("missing issuer")
	ErrInvalidDigits        = errors.New("digits must be 6 or 8")
	ErrInvalidPeriod        = errors.New("period must be at least one second")
	ErrInvalidSkew          = errors.New("skew must not be negative")
	ErrUnsupportedAlgorithm = errors.New("unsupported TOTP algorithm")
	ErrNoMatch              = errors.New("code does not match any step in the drift window")
	ErrReplay               = errors.New("code step already consumed")
	ErrEntropyUnavailable   = errors.New("secure random source unavailable")

	ErrFailedToEncryptSecret         = errors.New("failed to encrypt TOTP secret")
	ErrFailedToDecryptSecret         = errors.New("failed to decrypt TOTP secret")
	ErrInvalidCipherTooShort         = errors.New("cipher text too short")
	ErrFailedToGenerateEncryptionKey = errors.New("failed to generate encryption key")
	ErrFailedToLoadEncryptionKey     = errors.New("failed to load encryption key")
	ErrInvalidEncryptionKeyLength    = errors.New("invalid encryption key length")
	ErrEncryptionKeyNotSet           = errors.New("TOTP encryption key not set")
)
