package twofactor

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sitetrack/authkit/pkg/lockout"
	"github.com/sitetrack/authkit/pkg/totp"
)

// ActionVerify is the lockout action key shared by every login-equivalent
// verification path (login, disable, backup-code regeneration).
const ActionVerify = "2fa-verify"

// Service is the verification coordinator: it composes the TOTP engine,
// backup codes and the failure limiter over a credential repository, and owns
// all cross-cutting policy (state transitions, rate limiting, replay marker
// persistence).
type Service struct {
	storage    Storage
	limiter    *lockout.Limiter
	logger     *slog.Logger
	now        func() time.Time
	cfg        Config
	params     totp.Params
	encKey     []byte
	bcryptCost int
}

// Option configures a Service.
type Option func(*Service)

// WithLimiter replaces the default in-memory failure limiter, typically with
// one backed by lockout.RedisStore so instances share a failure budget.
func WithLimiter(limiter *lockout.Limiter) Option {
	return func(s *Service) {
		if limiter != nil {
			s.limiter = limiter
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTimeSource injects the clock used for step arithmetic and timestamps.
// Defaults to time.Now.
func WithTimeSource(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSecretEncryptionKey enables AES-256-GCM encryption of stored secrets
// with an explicit 32-byte key, overriding the base64 key from Config.
func WithSecretEncryptionKey(key []byte) Option {
	return func(s *Service) { s.encKey = key }
}

// WithBcryptCost sets the bcrypt cost for backup-code hashing. Tests use
// bcrypt.MinCost to keep fixtures fast.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

// New creates the verification coordinator over the given credential
// repository. Unset Config fields fall back to their defaults; Issuer is
// required.
func New(storage Storage, cfg Config, opts ...Option) (*Service, error) {
	if storage == nil {
		return nil, ErrStorageRequired
	}
	if cfg.Issuer == "" {
		return nil, ErrIssuerRequired
	}
	if cfg.BackupCodeCount == 0 {
		cfg.BackupCodeCount = 10
	}
	if cfg.BackupCodeLength == 0 {
		cfg.BackupCodeLength = 8
	}

	s := &Service{
		storage:    storage,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		cfg:        cfg,
		bcryptCost: bcrypt.DefaultCost,
		params: totp.Params{
			Digits: cfg.Digits,
			Period: cfg.Period,
			Skew:   cfg.Skew,
		}.GetDefaults(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.params.Validate(); err != nil {
		return nil, err
	}

	if s.encKey == nil && cfg.EncryptionKey != "" {
		key, err := totp.GetEncryptionKey(totp.Config{EncryptionKey: cfg.EncryptionKey})
		if err != nil {
			return nil, err
		}
		s.encKey = key
	}
	if s.encKey != nil && len(s.encKey) != totp.AESKeySize {
		return nil, totp.ErrInvalidEncryptionKeyLength
	}

	if s.limiter == nil {
		limiter, err := lockout.New(lockout.NewMemoryStore())
		if err != nil {
			return nil, err
		}
		s.limiter = limiter
	}

	return s, nil
}

// storedSecret prepares a freshly generated Base32 secret for persistence.
func (s *Service) storedSecret(secret string) (string, error) {
	if s.encKey == nil {
		return secret, nil
	}
	return totp.EncryptSecret(secret, s.encKey)
}

// liveSecret recovers the Base32 secret from its stored form.
func (s *Service) liveSecret(stored string) (string, error) {
	if s.encKey == nil {
		return stored, nil
	}
	return totp.DecryptSecret(stored, s.encKey)
}

func lastStep(cred *Credential) int64 {
	if cred.LastUsedStep == nil {
		return totp.NoPriorStep
	}
	return *cred.LastUsedStep
}

// mapVerifyErr collapses the engine's failure taxonomy into the caller-facing
// invalid-code error; anything else (malformed secret, store trouble) passes
// through unchanged.
func mapVerifyErr(err error) error {
	if errors.Is(err, totp.ErrNoMatch) || errors.Is(err, totp.ErrReplay) {
		return ErrInvalidCode
	}
	return err
}
