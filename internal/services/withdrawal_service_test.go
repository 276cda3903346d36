// internal/services/withdrawal_service_test.go
package services

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
)

func newWithdrawalService(db *gorm.DB) *WithdrawalService {
	cfg := testConfig()
	cfg.Payment = config.PaymentConfig{MinimumWithdrawal: 10.0}
	roiService := NewROIService(db, cfg, NewTokenService(db, cfg))
	return NewWithdrawalService(db, cfg, roiService, nil)
}

// seedPayout gives the investor an earned balance by planting a ledger
// row and a distributed return against it.
func seedPayout(t *testing.T, db *gorm.DB, investorID, farmID uuid.UUID, amount int64) {
	t.Helper()

	investment := &models.Investment{
		InvestorID:    investorID,
		FarmID:        farmID,
		Tokens:        8,
		Invested:      decimal.NewFromInt(1000),
		PaymentMethod: models.PaymentMethodHBAR,
	}
	require.NoError(t, db.Create(investment).Error)

	record := &models.ROIRecord{
		InvestmentID: investment.ID,
		ROIAmount:    decimal.NewFromInt(amount),
	}
	require.NoError(t, db.Create(record).Error)
}

func TestCreateWithdrawalWithinBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)
	seedPayout(t, db, investor.ID, farm.ID, 100)

	w, err := svc.CreateWithdrawal(investor.ID, &CreateWithdrawalRequest{
		Amount: decimal.NewFromInt(60),
		Method: models.WithdrawalMethodFiat,
	})
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusPending, w.Status)
	assert.True(t, w.Amount.Equal(decimal.NewFromInt(60)))
}

func TestCreateWithdrawalPendingCountsAgainstBalance(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)
	seedPayout(t, db, investor.ID, farm.ID, 100)

	_, err := svc.CreateWithdrawal(investor.ID, &CreateWithdrawalRequest{
		Amount: decimal.NewFromInt(60),
		Method: models.WithdrawalMethodFiat,
	})
	require.NoError(t, err)

	// The first request is still pending, yet the remaining balance is
	// already down to 40.
	_, err = svc.CreateWithdrawal(investor.ID, &CreateWithdrawalRequest{
		Amount: decimal.NewFromInt(60),
		Method: models.WithdrawalMethodFiat,
	})
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	var count int64
	require.NoError(t, db.Model(&models.Withdrawal{}).
		Where("investor_id = ?", investor.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count, "the rejected request must not be recorded")
}

func TestCreateWithdrawalBelowMinimum(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)
	seedPayout(t, db, investor.ID, farm.ID, 100)

	_, err := svc.CreateWithdrawal(investor.ID, &CreateWithdrawalRequest{
		Amount: decimal.NewFromInt(5),
		Method: models.WithdrawalMethodFiat,
	})
	assert.ErrorIs(t, err, ErrBelowMinimumWithdrawal)
}

func TestAvailableBalanceSubtractsAllRequests(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)
	seedPayout(t, db, investor.ID, farm.ID, 100)

	_, err := svc.CreateWithdrawal(investor.ID, &CreateWithdrawalRequest{
		Amount: decimal.NewFromInt(60),
		Method: models.WithdrawalMethodCrypto,
	})
	require.NoError(t, err)

	balance, err := svc.AvailableBalance(investor.ID)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(40)), "balance should be 40, got %s", balance)
}

func TestWithdrawalStatusFlow(t *testing.T) {
	db := newTestDB(t)
	svc := newWithdrawalService(db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	admin := seedUser(t, db, models.UserRoleAdmin)
	farm := seedFarm(t, db, farmer.ID, models.FarmStatusActive)
	seedPayout(t, db, investor.ID, farm.ID, 100)

	w, err := svc.CreateWithdrawal(investor.ID, &CreateWithdrawalRequest{
		Amount: decimal.NewFromInt(50),
		Method: models.WithdrawalMethodFiat,
	})
	require.NoError(t, err)

	// Completing a pending request skips approval and must be refused
	_, err = svc.CompleteWithdrawal(w.ID, admin.ID, "")
	assert.ErrorIs(t, err, ErrInvalidStatusChange)

	approved, err := svc.ApproveWithdrawal(w.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin.ID, *approved.ApprovedBy)

	completed, err := svc.CompleteWithdrawal(w.ID, admin.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalStatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)
	assert.True(t, strings.HasPrefix(completed.TxHash, "agf_"),
		"a completion without an explicit hash gets a generated reference")

	// Approving a completed request walks the machine backwards
	_, err = svc.ApproveWithdrawal(w.ID, admin.ID)
	assert.ErrorIs(t, err, ErrInvalidStatusChange)
}
