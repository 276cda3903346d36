// internal/services/investment_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

var (
	ErrInvestmentNotFound = errors.New("investment not found")
	ErrInvalidAmount      = errors.New("investment amount must be greater than zero")
)

// lockForUpdate takes a row lock on dialects that support SELECT ... FOR
// UPDATE. SQLite rejects the clause and serializes writers on its own.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

type InvestmentService struct {
	db             *gorm.DB
	cfg            *config.Config
	paymentService *PaymentService
	tokenService   *TokenService
}

type RecordInvestmentRequest struct {
	FarmID          uuid.UUID            `json:"farm_id" validate:"required"`
	Tokens          int64                `json:"tokens" validate:"required,gt=0"`
	Invested        decimal.Decimal      `json:"invested" validate:"required"`
	CurrentValue    decimal.Decimal      `json:"current_value"`
	ROI             float64              `json:"roi"`
	PaymentMethod   models.PaymentMethod `json:"payment_method" validate:"required,oneof=usd hbar"`
	TransactionHash string               `json:"transaction_hash,omitempty" validate:"omitempty,max=100"`
	PaymentIntentID string               `json:"payment_intent_id,omitempty"`
}

func NewInvestmentService(db *gorm.DB, cfg *config.Config, paymentService *PaymentService, tokenService *TokenService) *InvestmentService {
	return &InvestmentService{
		db:             db,
		cfg:            cfg,
		paymentService: paymentService,
		tokenService:   tokenService,
	}
}

// RecordInvestment creates or augments the single ledger row for the
// (investor, farm) pair and moves the farm aggregate in the same database
// transaction. The farm row is locked for the duration so concurrent
// contributions to one farm serialize instead of losing updates; the
// invariant farm.raised == sum(invested) over the farm's rows holds at
// every commit point.
func (s *InvestmentService) RecordInvestment(investorID uuid.UUID, req *RecordInvestmentRequest) (*models.Investment, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Invested.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	if req.Tokens <= 0 {
		return nil, errors.New("token count must be greater than zero")
	}

	// USD contributions settle through Stripe; the intent must have
	// succeeded before the ledger is touched.
	if req.PaymentMethod == models.PaymentMethodUSD && req.PaymentIntentID != "" {
		if err := s.paymentService.VerifyIntentSucceeded(req.PaymentIntentID); err != nil {
			return nil, err
		}
	}

	txHash := req.TransactionHash
	if req.PaymentMethod == models.PaymentMethodHBAR && txHash == "" {
		txHash = s.tokenService.RecordContribution(investorID, req.FarmID, req.Invested)
	}

	var investment *models.Investment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Lock the farm row; it is the contended aggregate
		var farm models.Farm
		if err := lockForUpdate(tx).First(&farm, req.FarmID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFarmNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if farm.OwnerID == investorID {
			return errors.New("farm owners cannot invest in their own farm")
		}
		if farm.Status != models.FarmStatusActive {
			return errors.New("farm is not open for investment")
		}

		// Upsert the ledger row keyed by (investor, farm)
		var existing models.Investment
		err := tx.Where("investor_id = ? AND farm_id = ?", investorID, req.FarmID).
			First(&existing).Error

		switch {
		case err == nil:
			// Accumulate into the existing row. Tokens and current value
			// add up; roi and the transaction hash take the latest values.
			updates := map[string]interface{}{
				"invested":      gorm.Expr("invested + ?", req.Invested),
				"tokens":        gorm.Expr("tokens + ?", req.Tokens),
				"current_value": gorm.Expr("current_value + ?", req.CurrentValue),
			}
			if req.ROI != 0 {
				updates["roi"] = req.ROI
			}
			if txHash != "" {
				updates["transaction_hash"] = txHash
			}
			if err := tx.Model(&existing).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update investment: %w", err)
			}
			investment = &existing

		case errors.Is(err, gorm.ErrRecordNotFound):
			roi := req.ROI
			if roi == 0 {
				roi = farm.ExpectedROI
			}
			investment = &models.Investment{
				InvestorID:      investorID,
				FarmID:          req.FarmID,
				Tokens:          req.Tokens,
				Invested:        req.Invested,
				CurrentValue:    req.CurrentValue,
				ROI:             roi,
				PaymentMethod:   req.PaymentMethod,
				TransactionHash: txHash,
			}
			if err := tx.Create(investment).Error; err != nil {
				return fmt.Errorf("failed to create investment: %w", err)
			}

			// First contribution from this investor
			if err := tx.Model(&farm).UpdateColumn("investors",
				gorm.Expr("investors + ?", 1)).Error; err != nil {
				return fmt.Errorf("failed to update investor count: %w", err)
			}

		default:
			return fmt.Errorf("database error: %w", err)
		}

		// Move the farm aggregate inside the same transaction
		if err := tx.Model(&farm).UpdateColumn("raised",
			gorm.Expr("raised + ?", req.Invested)).Error; err != nil {
			return fmt.Errorf("failed to update raised amount: %w", err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Load full investment data
	s.db.Preload("Investor").Preload("Farm").First(investment, investment.ID)

	return investment, nil
}

func (s *InvestmentService) GetInvestment(id uuid.UUID, callerID uuid.UUID, callerRole models.UserRole) (*models.Investment, error) {
	var investment models.Investment
	if err := s.db.Preload("Investor").Preload("Farm").First(&investment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Only the investor, the farm owner, or an admin may see a ledger row
	if callerRole != models.UserRoleAdmin &&
		investment.InvestorID != callerID &&
		investment.Farm.OwnerID != callerID {
		return nil, ErrInvestmentNotFound
	}

	return &investment, nil
}

// ListInvestments returns the caller's own ledger rows: rows they hold as an
// investor, plus rows against farms they own as a farmer.
func (s *InvestmentService) ListInvestments(callerID uuid.UUID, params utils.PaginationParams) ([]models.Investment, int64, error) {
	query := s.db.Model(&models.Investment{}).
		Joins("JOIN farms ON farms.id = investments.farm_id").
		Where("investments.investor_id = ? OR farms.owner_id = ?", callerID, callerID).
		Preload("Farm").Preload("Investor")

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count investments: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "invested", "tokens"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	// Execute query
	var investments []models.Investment
	if err := query.Find(&investments).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch investments: %w", err)
	}

	return investments, total, nil
}
