// internal/services/investment_service_test.go
package services

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// A named shared-cache database so every pooled connection sees the
	// same in-memory store.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Farm{},
		&models.Investment{},
		&models.ROIRecord{},
		&models.Withdrawal{},
		&models.AuditLog{},
	))

	return db
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:     fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		FirstName: "Wanjiku",
		LastName:  "Mwangi",
		Role:      role,
		KYCStatus: models.KYCStatusVerified,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedFarm(t *testing.T, db *gorm.DB, ownerID uuid.UUID, status models.FarmStatus) *models.Farm {
	t.Helper()

	farm := &models.Farm{
		OwnerID:     ownerID,
		Name:        "Nyeri Coffee Cooperative",
		CropType:    models.CropTypeCoffee,
		Location:    "Nyeri, Kenya",
		Valuation:   decimal.NewFromInt(50000),
		Description: "Volcanic soil arabica plots",
		TokenPrice:  decimal.NewFromInt(125),
		Raised:      decimal.Zero,
		ExpectedROI: 28.5,
		Status:      status,
	}
	require.NoError(t, db.Create(farm).Error)
	return farm
}

func defaultPaginationParams() utils.PaginationParams {
	return utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}
}

func newInvestmentService(db *gorm.DB) *InvestmentService {
	cfg := testConfig()
	return NewInvestmentService(db, cfg, NewPaymentService(db, cfg), NewTokenService(db, cfg))
}

func contribution(farmID uuid.UUID, amount int64, tokens int64) *RecordInvestmentRequest {
	return &RecordInvestmentRequest{
		FarmID:          farmID,
		Tokens:          tokens,
		Invested:        decimal.NewFromInt(amount),
		PaymentMethod:   models.PaymentMethodHBAR,
		TransactionHash: "0x" + uuid.NewString(),
	}
}

func TestRecordInvestmentCreatesLedgerRow(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)

	inv, err := svc.RecordInvestment(investor.ID, contribution(farm.ID, 1000, 8))
	require.NoError(t, err)

	assert.True(t, inv.Invested.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(8), inv.Tokens)

	var reloaded models.Farm
	require.NoError(t, db.First(&reloaded, farm.ID).Error)
	assert.True(t, reloaded.Raised.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, int64(1), reloaded.Investors)
}

func TestRecordInvestmentAccumulatesIntoSingleRow(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)

	_, err := svc.RecordInvestment(investor.ID, contribution(farm.ID, 1000, 8))
	require.NoError(t, err)
	_, err = svc.RecordInvestment(investor.ID, contribution(farm.ID, 500, 4))
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).
		Where("investor_id = ? AND farm_id = ?", investor.ID, farm.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count, "repeat contributions must merge into one row")

	var row models.Investment
	require.NoError(t, db.Where("investor_id = ? AND farm_id = ?", investor.ID, farm.ID).
		First(&row).Error)
	assert.True(t, row.Invested.Equal(decimal.NewFromInt(1500)), "invested should be 1500, got %s", row.Invested)
	assert.Equal(t, int64(12), row.Tokens)

	var reloaded models.Farm
	require.NoError(t, db.First(&reloaded, farm.ID).Error)
	assert.True(t, reloaded.Raised.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, int64(1), reloaded.Investors, "a repeat contributor is still one investor")
}

func TestRecordInvestmentRaisedMatchesLedgerSum(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	alice := seedUser(t, db, models.UserRoleInvestor)
	bob := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)

	_, err := svc.RecordInvestment(alice.ID, contribution(farm.ID, 1000, 8))
	require.NoError(t, err)
	_, err = svc.RecordInvestment(bob.ID, contribution(farm.ID, 250, 2))
	require.NoError(t, err)
	_, err = svc.RecordInvestment(alice.ID, contribution(farm.ID, 750, 6))
	require.NoError(t, err)

	var sum decimal.NullDecimal
	require.NoError(t, db.Model(&models.Investment{}).
		Where("farm_id = ?", farm.ID).
		Select("COALESCE(SUM(invested), 0)").
		Scan(&sum).Error)

	var reloaded models.Farm
	require.NoError(t, db.First(&reloaded, farm.ID).Error)
	assert.True(t, reloaded.Raised.Equal(sum.Decimal),
		"farm.raised %s must equal the ledger sum %s", reloaded.Raised, sum.Decimal)
	assert.True(t, reloaded.Raised.Equal(decimal.NewFromInt(2000)))
	assert.Equal(t, int64(2), reloaded.Investors)
}

func TestRecordInvestmentRejectsNonPositiveAmount(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)

	_, err := svc.RecordInvestment(investor.ID, contribution(farm.ID, -5, 4))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	var count int64
	require.NoError(t, db.Model(&models.Investment{}).Count(&count).Error)
	assert.Zero(t, count, "a rejected contribution must leave no ledger row")

	var reloaded models.Farm
	require.NoError(t, db.First(&reloaded, farm.ID).Error)
	assert.True(t, reloaded.Raised.IsZero(), "a rejected contribution must not move raised")
}

func TestRecordInvestmentRejectsOwnFarm(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)

	_, err := svc.RecordInvestment(farmer.ID, contribution(farm.ID, 1000, 8))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "own farm")
}

func TestRecordInvestmentRejectsInactiveFarm(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusPending)

	_, err := svc.RecordInvestment(investor.ID, contribution(farm.ID, 1000, 8))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not open for investment")
}

func TestListInvestmentsScopedToParticipants(t *testing.T) {
	db := newTestDB(t)
	svc := newInvestmentService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	stranger := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)

	_, err := svc.RecordInvestment(investor.ID, contribution(farm.ID, 1000, 8))
	require.NoError(t, err)

	params := defaultPaginationParams()

	_, total, err := svc.ListInvestments(investor.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	_, total, err = svc.ListInvestments(farmer.ID, params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total, "the farm owner sees rows against their farm")

	_, total, err = svc.ListInvestments(stranger.ID, params)
	require.NoError(t, err)
	assert.Zero(t, total, "a third party sees nothing")
}
