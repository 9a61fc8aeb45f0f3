package totp

import (
	"fmt"
	"net/url"
	"strings"
)

// URIParams contains the parameters for provisioning URI generation
type URIParams struct {
	Secret      string // Base32-encoded TOTP secret key (required)
	AccountName string // User identifier like email (required)
	Issuer      string // Service name displayed in authenticator apps (required)
	Params      Params // Algorithm parameters (optional, RFC 6238 defaults)
}

// Validate ensures all required URI parameters are present and valid
func (p URIParams) Validate() error {
	if p.Secret == "" {
		return ErrMissingSecret
	}
	if !ValidateSecretKeyRegex.MatchString(p.Secret) {
		return ErrInvalidSecret
	}
	if p.AccountName == "" {
		return ErrMissingAccountName
	}
	if p.Issuer == "" {
		return ErrMissingIssuer
	}
	return p.Params.Validate()
}

// ProvisioningURI creates a properly encoded otpauth:// URI for enrolling the
// secret in authenticator apps. The format follows the Key Uri Format
// specification:
// https://github.com/google/google-authenticator/wiki/Key-Uri-Format
func ProvisioningURI(params URIParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	p := params.Params.GetDefaults()

	label := fmt.Sprintf("%s:%s",
		url.PathEscape(params.Issuer),
		url.PathEscape(params.AccountName),
	)

	query := url.Values{}
	query.Set("secret", params.Secret)
	query.Set("issuer", params.Issuer)
	query.Set("algorithm", strings.ToUpper(p.Algorithm))
	query.Set("digits", fmt.Sprintf("%d", p.Digits))
	query.Set("period", fmt.Sprintf("%d", p.Period))

	return fmt.Sprintf("otpauth://totp/%s?%s", label, query.Encode()), nil
}
