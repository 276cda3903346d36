// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "agrifund", cfg.Database.Database)
	assert.Equal(t, 125.0, cfg.Platform.DefaultTokenPrice)
	assert.Equal(t, 28.5, cfg.Platform.DefaultExpectedROI)
	assert.Equal(t, "testnet", cfg.Platform.HederaNetwork)
	assert.Equal(t, 10.0, cfg.Payment.MinimumWithdrawal)
}

func TestValidateProduction(t *testing.T) {
	cfg := &Config{
		Environment: "production",
		JWT:         JWTConfig{SecretKey: "your-secret-key-change-in-production"},
		Database:    DatabaseConfig{Password: "pw"},
	}
	assert.Error(t, cfg.Validate())

	cfg.JWT.SecretKey = "a-real-secret"
	cfg.Database.Password = ""
	assert.Error(t, cfg.Validate())

	cfg.Database.Password = "pw"
	assert.NoError(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     "5432",
		User:     "postgres",
		Password: "secret",
		Database: "agrifund",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=agrifund")
	assert.Contains(t, dsn, "sslmode=disable")
}
