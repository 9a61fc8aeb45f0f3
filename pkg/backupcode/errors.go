package backupcode

import "errors"

var (
	ErrInvalidCodeCount   = errors.New("invalid backup code count, must be greater than 0")
	ErrInvalidCodeLength  = errors.New("invalid backup code length, must be at least 6")
	ErrEntropyUnavailable = errors.New("secure random source unavailable")
	ErrFailedToHashCode   = errors.New("failed to hash backup code")
)
