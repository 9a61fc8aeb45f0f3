package lockout

import "errors"

var (
	ErrStoreRequired    = errors.New("store is required")
	ErrKeyRequired      = errors.New("identity and action are required")
	ErrInvalidThreshold = errors.New("threshold must be positive")
	ErrInvalidInterval  = errors.New("window and lockout must be positive")
	ErrStoreUnavailable = errors.New("lockout store unavailable")
)
