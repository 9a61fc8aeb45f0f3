package twofactor

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sitetrack/authkit/pkg/backupcode"
	"github.com/sitetrack/authkit/pkg/logger"
	"github.com/sitetrack/authkit/pkg/totp"
)

// ConfirmSetup completes enrollment: it verifies a live TOTP code against the
// pending secret and flips the credential to StateEnabled, recording
// ConfirmedAt and the consumed step as the initial replay marker.
//
// Only the TOTP path is accepted here - backup codes are never valid during
// enrollment - and the attempt is not rate limited, since the caller already
// holds a fresh authenticated session. A failed code leaves the credential
// in StatePending untouched.
func (s *Service) ConfirmSetup(ctx context.Context, userID uuid.UUID, code string) error {
	if userID == uuid.Nil {
		return ErrUserIDRequired
	}

	err := s.storage.Transact(ctx, userID, func(cred *Credential) error {
		if cred.State != StatePending {
			return ErrSetupNotStarted
		}

		secret, err := s.liveSecret(cred.Secret)
		if err != nil {
			return err
		}

		now := s.now()
		matched, err := totp.Verify(secret, strings.TrimSpace(code), now, lastStep(cred), s.params)
		if err != nil {
			return mapVerifyErr(err)
		}

		cred.State = StateEnabled
		cred.ConfirmedAt = &now
		cred.LastUsedStep = &matched
		cred.UpdatedAt = now
		return nil
	})
	if errors.Is(err, ErrCredentialNotFound) {
		return ErrSetupNotStarted
	}
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "two-factor authentication enabled",
		logger.UserID(userID.String()),
		logger.Component("twofactor"),
		logger.Event("2fa_enabled"),
	)
	return nil
}

// VerifyLogin performs the login-time check for an enabled credential.
//
// The submitted code is routed by lexical shape. Input matching the
// backup-code alphabet and length is redeemed against the single-use set,
// except that a fully decimal code of the configured digit length goes
// through the TOTP engine first and falls back to redemption only on a miss;
// an eight-digit code can fit both shapes since the backup alphabet includes
// the digits 2-9. A lockout blocks the attempt before any code is examined,
// even a correct one. Failures are counted atomically against the
// (user, "2fa-verify") key; missing and already-used backup codes both report
// ErrInvalidCode so callers cannot probe which codes exist.
func (s *Service) VerifyLogin(ctx context.Context, userID uuid.UUID, code string) (*LoginResult, error) {
	return s.verified(ctx, userID, code, nil)
}

// Disable turns two-factor authentication off after a fresh successful
// verification - a credential is never disabled unauthenticated. On success
// the secret, replay marker and backup-code set are discarded entirely and
// the state returns to StateNotSet; re-enabling starts from a brand-new
// Setup.
func (s *Service) Disable(ctx context.Context, userID uuid.UUID, code string) error {
	_, err := s.verified(ctx, userID, code, func(cred *Credential) error {
		cred.State = StateNotSet
		cred.Secret = ""
		cred.Codes = nil
		cred.LastUsedStep = nil
		cred.ConfirmedAt = nil
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "two-factor authentication disabled",
		logger.UserID(userID.String()),
		logger.Component("twofactor"),
		logger.Event("2fa_disabled"),
	)
	return nil
}

// RegenerateBackupCodes issues a fresh backup-code set after a fresh
// successful verification. The old set is replaced atomically in full; prior
// codes become permanently unredeemable even if never used. The plaintext of
// the new set is returned exactly once.
//
// The replacement set is generated and hashed inside the transaction, after
// the submitted code verifies; a locked-out or failed attempt does no
// generation work.
func (s *Service) RegenerateBackupCodes(ctx context.Context, userID uuid.UUID, code string) ([]string, error) {
	var plain []string
	if _, err := s.verified(ctx, userID, code, func(cred *Credential) error {
		generated, err := backupcode.Generate(s.cfg.BackupCodeCount, s.cfg.BackupCodeLength)
		if err != nil {
			return err
		}
		codes, err := s.hashCodes(generated)
		if err != nil {
			return err
		}
		plain = generated
		cred.Codes = codes
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "backup codes regenerated",
		logger.UserID(userID.String()),
		logger.Component("twofactor"),
		logger.Event("backup_codes_regenerated"),
	)

	display := make([]string, len(plain))
	for i, c := range plain {
		display[i] = backupcode.Format(c)
	}
	return display, nil
}

// BackupCodesRemaining reports how many unused backup codes the enabled
// credential still holds, or ErrBackupCodesExhausted when the whole set has
// been redeemed and a regeneration is due.
func (s *Service) BackupCodesRemaining(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, ErrUserIDRequired
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return 0, ErrNotEnabled
		}
		return 0, err
	}
	if cred.State != StateEnabled {
		return 0, ErrNotEnabled
	}

	remaining := cred.UnusedCodes()
	if remaining == 0 {
		return 0, ErrBackupCodesExhausted
	}
	return remaining, nil
}

// State reports the credential lifecycle state, StateNotSet when the user has
// never enrolled.
func (s *Service) State(ctx context.Context, userID uuid.UUID) (State, error) {
	if userID == uuid.Nil {
		return StateNotSet, ErrUserIDRequired
	}

	cred, err := s.storage.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrCredentialNotFound) {
			return StateNotSet, nil
		}
		return StateNotSet, err
	}
	return cred.State, nil
}

// verified runs the login-equivalent verification flow: lockout pre-check,
// transactional code verification, and failure/success bookkeeping on the
// limiter. When mutate is non-nil it is applied inside the same transaction
// after the code verifies, so follow-up state changes (disable, code
// regeneration) commit atomically with the verification itself.
func (s *Service) verified(ctx context.Context, userID uuid.UUID, code string, mutate func(*Credential) error) (*LoginResult, error) {
	if userID == uuid.Nil {
		return nil, ErrUserIDRequired
	}
	identity := userID.String()

	locked, until, err := s.limiter.IsLocked(ctx, identity, ActionVerify)
	if err != nil {
		return nil, err
	}
	if locked {
		return &LoginResult{LockedUntil: until}, ErrRateLimited
	}

	var (
		method    Method
		remaining int
	)
	err = s.storage.Transact(ctx, userID, func(cred *Credential) error {
		if cred.State != StateEnabled {
			return ErrNotEnabled
		}

		m, left, err := s.verifyCredential(cred, code)
		if err != nil {
			return err
		}
		method = m
		remaining = left
		cred.UpdatedAt = s.now()

		if mutate != nil {
			return mutate(cred)
		}
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrCredentialNotFound), errors.Is(err, ErrNotEnabled):
		return nil, ErrNotEnabled
	case errors.Is(err, ErrInvalidCode):
		status, limErr := s.limiter.RecordFailure(ctx, identity, ActionVerify)
		if limErr != nil {
			return nil, limErr
		}
		if status.Locked {
			s.logger.WarnContext(ctx, "two-factor verification locked out",
				logger.UserID(identity),
				logger.Component("twofactor"),
				logger.Event("2fa_locked_out"),
			)
		}
		return &LoginResult{
			AttemptsRemaining: status.AttemptsRemaining,
			LockedUntil:       status.LockedUntil,
		}, ErrInvalidCode
	default:
		return nil, err
	}

	if err := s.limiter.RecordSuccess(ctx, identity, ActionVerify); err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "two-factor verification succeeded",
		logger.UserID(identity),
		logger.Component("twofactor"),
		logger.Event("2fa_verified"),
	)
	return &LoginResult{Method: method, BackupCodesRemaining: remaining}, nil
}

// verifyCredential checks one submitted code against an enabled credential,
// mutating it on success: the TOTP path advances the replay marker, the
// backup path marks the matched entry used. The returned count is the number
// of unused backup codes left after a backup redemption.
//
// Backup-shaped input goes to redemption unless it is also a decimal code of
// the configured TOTP length. The shapes overlap when the digit count equals
// the backup-code length (eight digits by default), because the backup
// alphabet contains 2-9; such a code is tried as TOTP first so a correct
// login code is never rejected for its shape, and a TOTP miss still falls
// through to redemption so a digit-only backup code stays redeemable.
func (s *Service) verifyCredential(cred *Credential, code string) (Method, int, error) {
	normalized := backupcode.Normalize(code)
	backupShaped := backupcode.IsWellFormed(normalized, s.cfg.BackupCodeLength)
	if backupShaped && !isDecimal(normalized, s.params.Digits) {
		return s.redeemBackupCode(cred, normalized)
	}

	method, left, err := s.verifyTOTP(cred, code)
	if backupShaped && errors.Is(err, ErrInvalidCode) {
		return s.redeemBackupCode(cred, normalized)
	}
	return method, left, err
}

// verifyTOTP checks the code against the TOTP engine and advances the replay
// marker on success.
func (s *Service) verifyTOTP(cred *Credential, code string) (Method, int, error) {
	secret, err := s.liveSecret(cred.Secret)
	if err != nil {
		return "", 0, err
	}

	now := s.now()
	matched, err := totp.Verify(secret, strings.TrimSpace(code), now, lastStep(cred), s.params)
	if err != nil {
		return "", 0, mapVerifyErr(err)
	}
	cred.LastUsedStep = &matched
	return MethodTOTP, 0, nil
}

// isDecimal reports whether s is exactly n ASCII digits.
func isDecimal(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// redeemBackupCode finds the unused entry matching the normalized code and
// marks it used. Used entries are skipped, so a second redemption of the
// same code reports the same generic failure as a code that never existed.
// The caller runs this inside Storage.Transact, which is what makes the
// check-and-mark atomic: of two concurrent redemptions, exactly one wins.
func (s *Service) redeemBackupCode(cred *Credential, normalized string) (Method, int, error) {
	for i := range cred.Codes {
		entry := &cred.Codes[i]
		if entry.Used {
			continue
		}
		if backupcode.Match(entry.Hash, normalized) {
			now := s.now()
			entry.Used = true
			entry.UsedAt = &now
			return MethodBackupCode, cred.UnusedCodes(), nil
		}
	}
	return "", 0, ErrInvalidCode
}
