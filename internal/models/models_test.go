// internal/models/models_test.go
package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestUserPassword(t *testing.T) {
	user := &User{}

	err := user.SetPassword("SecurePass123!")
	assert.NoError(t, err)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "SecurePass123!", user.PasswordHash)

	assert.NoError(t, user.CheckPassword("SecurePass123!"))
	assert.Error(t, user.CheckPassword("wrong-password"))
}

func TestWithdrawalStatusTransitions(t *testing.T) {
	tests := []struct {
		from    WithdrawalStatus
		to      WithdrawalStatus
		allowed bool
	}{
		{WithdrawalStatusPending, WithdrawalStatusApproved, true},
		{WithdrawalStatusApproved, WithdrawalStatusCompleted, true},
		{WithdrawalStatusPending, WithdrawalStatusCompleted, false},
		{WithdrawalStatusApproved, WithdrawalStatusPending, false},
		{WithdrawalStatusCompleted, WithdrawalStatusPending, false},
		{WithdrawalStatusCompleted, WithdrawalStatusApproved, false},
		{WithdrawalStatusPending, WithdrawalStatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestFarmStatusTransitions(t *testing.T) {
	tests := []struct {
		from    FarmStatus
		to      FarmStatus
		allowed bool
	}{
		{FarmStatusPending, FarmStatusActive, true},
		{FarmStatusActive, FarmStatusFunded, true},
		{FarmStatusFunded, FarmStatusCompleted, true},
		{FarmStatusPending, FarmStatusFunded, false},
		{FarmStatusActive, FarmStatusPending, false},
		{FarmStatusCompleted, FarmStatusActive, false},
		{FarmStatusActive, FarmStatusActive, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestFarmFundingPercent(t *testing.T) {
	farm := &Farm{
		Valuation: decimal.NewFromInt(10000),
		Raised:    decimal.NewFromInt(2500),
	}
	assert.InDelta(t, 25.0, farm.FundingPercent(), 0.001)

	farm.Raised = decimal.NewFromInt(10000)
	assert.InDelta(t, 100.0, farm.FundingPercent(), 0.001)

	// No valuation means no meaningful percentage
	farm.Valuation = decimal.Zero
	assert.Equal(t, 0.0, farm.FundingPercent())
}

func TestUserSummary(t *testing.T) {
	user := &User{
		Email:     "farmer@example.com",
		FirstName: "Amina",
		LastName:  "Omollo",
		Role:      UserRoleFarmer,
		KYCStatus: KYCStatusVerified,
	}

	summary := user.Summary()
	assert.Equal(t, "farmer@example.com", summary["email"])
	assert.Equal(t, UserRoleFarmer, summary["role"])
	assert.NotContains(t, summary, "password_hash")
}
