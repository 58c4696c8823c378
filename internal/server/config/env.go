package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix shared by every environment variable the server reads,
// e.g. FRIENDBOOK_DATABASE_DSN.
const EnvPrefix = "FRIENDBOOK_"

// parseEnv loads ./.env when present (existing variables win) and overlays
// every FRIENDBOOK_* variable that is set.
func parseEnv(config *Config) error {
	_ = godotenv.Load()

	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return err
	}

	if k.Exists("endpoint_addr_grpc") {
		config.EndpointAddrGRPC = k.String("endpoint_addr_grpc")
	}
	if k.Exists("database_dsn") {
		config.DatabaseDSN = k.String("database_dsn")
	}
	if k.Exists("secret_key") {
		config.SecretKey = k.String("secret_key")
	}
	if k.Exists("access_token_validity_duration") {
		config.AccessTokenValidityDuration = k.Duration("access_token_validity_duration")
	}
	if k.Exists("bcrypt_cost") {
		config.BcryptCost = k.Int("bcrypt_cost")
	}
	if k.Exists("log_format") {
		config.LogFormat = k.String("log_format")
	}
	if k.Exists("log_level") {
		config.LogLevel = k.String("log_level")
	}
	return nil
}
