// Package backupcode generates and hashes single-use recovery codes that let
// a user complete two-factor verification when the authenticator device is
// unavailable.
//
// Codes are drawn from crypto/rand over a 32-character alphabet that excludes
// the confusable pairs 0/O and 1/I, and are stored only as salted bcrypt
// hashes. The package is the pure half of the backup-code store: the
// atomic check-and-mark that guarantees at-most-once redemption lives in the
// credential repository contract of the twofactor package, which composes
// these helpers inside a transactional update.
package backupcode
