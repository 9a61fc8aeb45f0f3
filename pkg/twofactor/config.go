package twofactor

import (
	"github.com/caarlos0/env/v11"
	_ "github.com/joho/godotenv/autoload" // Load .env file automatically
)

// Config carries the enrollment policy. The zero value of every field except
// Issuer falls back to the documented default.
type Config struct {
	Issuer           string `env:"TWOFA_ISSUER,required"`                    // Service name shown in authenticator apps
	Digits           int    `env:"TWOFA_DIGITS" envDefault:"6"`              // TOTP code length, 6 or 8
	Period           int    `env:"TWOFA_PERIOD" envDefault:"30"`             // TOTP step length in seconds
	Skew             int    `env:"TWOFA_SKEW" envDefault:"1"`                // Accepted clock drift in steps per direction
	BackupCodeCount  int    `env:"TWOFA_BACKUP_CODE_COUNT" envDefault:"10"`  // Codes per generated set
	BackupCodeLength int    `env:"TWOFA_BACKUP_CODE_LENGTH" envDefault:"8"`  // Characters per code
	EncryptionKey    string `env:"TWOFA_SECRET_ENCRYPTION_KEY" envDefault:""` // Optional base64 AES-256 key for at-rest secrets
}

// LoadConfig parses the service configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
