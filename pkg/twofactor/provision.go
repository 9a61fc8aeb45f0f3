package twofactor

import (
	"context"

	"github.com/google/uuid"

	"github.com/sitetrack/authkit/pkg/backupcode"
	"github.com/sitetrack/authkit/pkg/logger"
	"github.com/sitetrack/authkit/pkg/totp"
)

// Setup provisions a new enrollment: a fresh 160-bit secret, its otpauth://
// URI, and a full batch of single-use backup codes. The credential is written
// in StatePending as one atomic replace - any prior pending or enabled state
// for the user is discarded entirely, never merged, and the previous backup
// codes die with the previous secret.
//
// The returned plaintext codes and secret are shown to the user exactly once;
// only bcrypt hashes and the (optionally encrypted) secret persist. If the
// secure random source fails, the call aborts with
// totp.ErrEntropyUnavailable.
func (s *Service) Setup(ctx context.Context, userID uuid.UUID, accountName string) (*SetupResult, error) {
	if userID == uuid.Nil {
		return nil, ErrUserIDRequired
	}
	if accountName == "" {
		accountName = userID.String()
	}

	secret, err := totp.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	uri, err := totp.ProvisioningURI(totp.URIParams{
		Secret:      secret,
		AccountName: accountName,
		Issuer:      s.cfg.Issuer,
		Params:      s.params,
	})
	if err != nil {
		return nil, err
	}

	plain, err := backupcode.Generate(s.cfg.BackupCodeCount, s.cfg.BackupCodeLength)
	if err != nil {
		return nil, err
	}
	codes, err := s.hashCodes(plain)
	if err != nil {
		return nil, err
	}

	stored, err := s.storedSecret(secret)
	if err != nil {
		return nil, err
	}

	now := s.now()
	cred := &Credential{
		UserID:    userID,
		Secret:    stored,
		State:     StatePending,
		Codes:     codes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.storage.Put(ctx, cred); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "two-factor setup provisioned",
		logger.UserID(userID.String()),
		logger.Component("twofactor"),
		logger.Event("2fa_setup_started"),
	)

	display := make([]string, len(plain))
	for i, code := range plain {
		display[i] = backupcode.Format(code)
	}

	return &SetupResult{
		Secret:      secret,
		URI:         uri,
		BackupCodes: display,
	}, nil
}

func (s *Service) hashCodes(plain []string) ([]BackupCode, error) {
	codes := make([]BackupCode, len(plain))
	for i, code := range plain {
		hash, err := backupcode.HashWithCost(code, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		codes[i] = BackupCode{Hash: hash}
	}
	return codes, nil
}
