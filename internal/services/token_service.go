// internal/services/token_service.go
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
)

// TokenService simulates the Hedera token layer. Farm tokens get an
// HTS-style token ID and contributions get a deterministic transaction
// hash; a real deployment would swap this for SDK calls against the
// configured network.
type TokenService struct {
	db     *gorm.DB
	config *config.Config
}

func NewTokenService(db *gorm.DB, config *config.Config) *TokenService {
	return &TokenService{
		db:     db,
		config: config,
	}
}

// MintFarmToken issues the fractional-ownership token for a farm when it
// goes active. The returned ID follows the Hedera 0.0.N shape.
func (s *TokenService) MintFarmToken(farm *models.Farm) (string, error) {
	recordData := map[string]interface{}{
		"type":      "farm_token_mint",
		"farm_id":   farm.ID.String(),
		"owner_id":  farm.OwnerID.String(),
		"name":      farm.Name,
		"crop_type": farm.CropType,
		"network":   s.config.Platform.HederaNetwork,
		"timestamp": time.Now().Unix(),
	}

	hash := s.generateHash(recordData)
	tokenID := fmt.Sprintf("0.0.%d", tokenNumFromHash(hash))

	logrus.WithFields(logrus.Fields{
		"farm_id":  farm.ID,
		"token_id": tokenID,
		"network":  s.config.Platform.HederaNetwork,
	}).Info("Farm token minted")

	return tokenID, nil
}

// RecordContribution produces the transaction hash for an HBAR contribution
// when the client did not supply one.
func (s *TokenService) RecordContribution(investorID, farmID uuid.UUID, amount decimal.Decimal) string {
	recordData := map[string]interface{}{
		"type":        "token_purchase",
		"investor_id": investorID.String(),
		"farm_id":     farmID.String(),
		"amount":      amount.String(),
		"network":     s.config.Platform.HederaNetwork,
		"timestamp":   time.Now().Unix(),
	}

	return s.generateHash(recordData)
}

// RecordPayout hashes an ROI distribution so the payout can be referenced
// from the ledger.
func (s *TokenService) RecordPayout(investmentID uuid.UUID, amount decimal.Decimal) string {
	recordData := map[string]interface{}{
		"type":          "roi_payout",
		"investment_id": investmentID.String(),
		"amount":        amount.String(),
		"network":       s.config.Platform.HederaNetwork,
		"timestamp":     time.Now().Unix(),
	}

	return s.generateHash(recordData)
}

// VerifyFarmToken checks that an active farm carries a minted token.
func (s *TokenService) VerifyFarmToken(farmID uuid.UUID) (bool, error) {
	var farm models.Farm
	if err := s.db.First(&farm, farmID).Error; err != nil {
		return false, fmt.Errorf("farm not found: %w", err)
	}

	if farm.Status == models.FarmStatusPending {
		return false, fmt.Errorf("farm has not been activated")
	}
	if farm.TokenID == "" {
		return false, fmt.Errorf("no token found for farm")
	}

	return true, nil
}

func (s *TokenService) generateHash(data map[string]interface{}) string {
	// Convert data to JSON string for consistent hashing
	jsonStr := fmt.Sprintf("%+v", data)
	hash := sha256.Sum256([]byte(jsonStr))
	return hex.EncodeToString(hash[:])
}

func tokenNumFromHash(hash string) uint32 {
	var n uint32
	for i := 0; i < 8 && i < len(hash); i++ {
		n = n<<4 | uint32(hexDigit(hash[i]))
	}
	// Keep the entity number in a plausible testnet range
	return 1000000 + n%9000000
}

func hexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	}
	return 0
}
