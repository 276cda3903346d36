// internal/services/token_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
)

func testConfig() *config.Config {
	return &config.Config{
		Platform: config.PlatformConfig{
			DefaultTokenPrice:  125.0,
			DefaultExpectedROI: 28.5,
			HederaNetwork:      "testnet",
		},
	}
}

func TestMintFarmToken(t *testing.T) {
	svc := NewTokenService(nil, testConfig())

	farm := &models.Farm{
		OwnerID:  uuid.New(),
		Name:     "Kericho Tea Estate",
		CropType: models.CropTypeTea,
	}
	farm.ID = uuid.New()

	tokenID, err := svc.MintFarmToken(farm)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(tokenID, "0.0."), "token ID %q should follow the 0.0.N shape", tokenID)
}

func TestRecordContribution(t *testing.T) {
	svc := NewTokenService(nil, testConfig())

	hash := svc.RecordContribution(uuid.New(), uuid.New(), decimal.NewFromInt(500))
	assert.Len(t, hash, 64)

	other := svc.RecordContribution(uuid.New(), uuid.New(), decimal.NewFromInt(500))
	assert.NotEqual(t, hash, other)
}

func TestRecordPayout(t *testing.T) {
	svc := NewTokenService(nil, testConfig())

	hash := svc.RecordPayout(uuid.New(), decimal.NewFromFloat(42.50))
	assert.Len(t, hash, 64)
}
