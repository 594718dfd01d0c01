package config

import (
	"github.com/joho/godotenv"
)

// LoadDotEnv reads .env files and sets environment variables.
// It does NOT override existing env vars (env takes precedence).
// With no paths it reads ".env" from the working directory.
func LoadDotEnv(paths ...string) error {
	return godotenv.Load(paths...)
}
