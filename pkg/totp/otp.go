package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second validity window (RFC 6238 standard)
	DefaultSkew      = 1      // Accept one adjacent time step in each direction
	DefaultAlgorithm = "SHA1" // HMAC-SHA1 algorithm (RFC 6238 standard)
)

// NoPriorStep marks a credential that has never consumed a time step.
// Pass it as lastUsedStep when there is no replay marker yet.
const NoPriorStep int64 = -1

// ValidateSecretKeyRegex ensures Base32 format: uppercase A-Z, digits 2-7, optional padding
var ValidateSecretKeyRegex = regexp.MustCompile("^[A-Z2-7]+=*$")

// Params contains the shared algorithm parameters for code generation and
// verification. The zero value is usable; unset fields fall back to the
// RFC 6238 defaults.
type Params struct {
	Digits    int    // Number of digits in generated codes, 6 or 8 (defaults to 6)
	Period    int    // Code validity period in seconds (defaults to 30)
	Skew      int    // Accepted clock drift in time steps per direction (defaults to 1)
	Algorithm string // HMAC algorithm: SHA1, SHA256 or SHA512 (defaults to SHA1)
}

// GetDefaults returns a copy with RFC 6238 standard defaults applied to zero-valued fields
func (p Params) GetDefaults() Params {
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	if p.Skew == 0 {
		p.Skew = DefaultSkew
	}
	if p.Algorithm == "" {
		p.Algorithm = DefaultAlgorithm
	}
	return p
}

// Validate ensures the parameters describe a code format authenticator apps understand.
func (p Params) Validate() error {
	p = p.GetDefaults()
	if p.Digits != 6 && p.Digits != 8 {
		return ErrInvalidDigits
	}
	if p.Period < 1 {
		return ErrInvalidPeriod
	}
	if p.Skew < 0 {
		return ErrInvalidSkew
	}
	if _, err := hmacFunc(p.Algorithm); err != nil {
		return err
	}
	return nil
}

// Step maps a wall-clock time to its time-step index: floor(unix / period).
func Step(at time.Time, period int) int64 {
	if period < 1 {
		period = DefaultPeriod
	}
	return at.Unix() / int64(period)
}

// Code computes the HOTP value (RFC 4226) for a single time-step index and
// renders it as a fixed-width, zero-padded decimal string. Codes are compared
// as strings, never as numbers, so leading zeros are significant.
func Code(secret []byte, step int64, params Params) (string, error) {
	params = params.GetDefaults()
	if err := params.Validate(); err != nil {
		return "", err
	}
	if len(secret) == 0 {
		return "", ErrInvalidSecret
	}

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], uint64(step))

	hf, err := hmacFunc(params.Algorithm)
	if err != nil {
		return "", err
	}
	mac := hmac.New(hf, secret)
	_, _ = mac.Write(msg[:])
	sum := mac.Sum(nil)

	// Dynamic truncation (RFC 4226): last 4 bits select the offset, then a
	// 31-bit big-endian value is extracted and reduced to the digit count.
	offset := sum[len(sum)-1] & 0x0f
	bin := (int(sum[offset])&0x7f)<<24 |
		(int(sum[offset+1])&0xff)<<16 |
		(int(sum[offset+2])&0xff)<<8 |
		(int(sum[offset+3]) & 0xff)

	mod := 1
	for i := 0; i < params.Digits; i++ {
		mod *= 10
	}

	return fmt.Sprintf("%0*d", params.Digits, bin%mod), nil
}

// Verify checks a submitted code against the time steps within the drift
// window around at. It returns the matched step index on success.
//
// lastUsedStep is the replay marker: any match at or below it fails with
// ErrReplay even when the digits are correct, so a code consumed once cannot
// be resubmitted within the tolerance window. Pass NoPriorStep when the
// credential has never consumed a step.
//
// Candidate comparison uses constant-time string equality and every candidate
// in the window is evaluated, so verification time does not reveal which step
// matched.
func Verify(secretBase32, submitted string, at time.Time, lastUsedStep int64, params Params) (int64, error) {
	params = params.GetDefaults()
	if err := params.Validate(); err != nil {
		return 0, err
	}

	key, err := DecodeSecret(secretBase32)
	if err != nil {
		return 0, err
	}

	submitted = strings.TrimSpace(submitted)
	if len(submitted) != params.Digits || !isDecimal(submitted) {
		return 0, ErrNoMatch
	}

	base := Step(at, params.Period)
	matched := int64(-1)
	found := 0
	for offset := -params.Skew; offset <= params.Skew; offset++ {
		step := base + int64(offset)
		if step < 0 {
			continue
		}
		candidate, err := Code(key, step, params)
		if err != nil {
			return 0, err
		}
		// Keep the highest matching step so a code valid for two adjacent
		// windows is consumed at the later one.
		if subtle.ConstantTimeCompare([]byte(candidate), []byte(submitted)) == 1 {
			found = 1
			if step > matched {
				matched = step
			}
		}
	}

	if found == 0 {
		return 0, ErrNoMatch
	}
	if matched <= lastUsedStep {
		return 0, ErrReplay
	}
	return matched, nil
}

// DecodeSecret decodes a Base32 shared secret in the canonical no-padding form
// produced by GenerateSecretKey. Padding and surrounding whitespace are tolerated.
func DecodeSecret(secretBase32 string) ([]byte, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(strings.ToUpper(secretBase32)), "=")
	if cleaned == "" || !ValidateSecretKeyRegex.MatchString(cleaned) {
		return nil, ErrInvalidSecret
	}
	key, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(cleaned)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}

func isDecimal(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func hmacFunc(algorithm string) (func() hash.Hash, error) {
	switch strings.ToUpper(algorithm) {
	case "", "SHA1":
		return sha1.New, nil
	case "SHA256":
		return sha256.New, nil
	case "SHA512":
		return sha512.New, nil
	default:
		return nil, ErrUnsupportedAlgorithm
	}
}
