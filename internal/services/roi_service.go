// internal/services/roi_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

var ErrROIRecordNotFound = errors.New("roi record not found")

type ROIService struct {
	db           *gorm.DB
	cfg          *config.Config
	tokenService *TokenService
}

type CreateROIRecordRequest struct {
	InvestmentID uuid.UUID       `json:"investment_id" validate:"required"`
	ROIAmount    decimal.Decimal `json:"roi_amount" validate:"required"`
	TxHash       string          `json:"tx_hash,omitempty" validate:"omitempty,max=100"`
}

func NewROIService(db *gorm.DB, cfg *config.Config, tokenService *TokenService) *ROIService {
	return &ROIService{
		db:           db,
		cfg:          cfg,
		tokenService: tokenService,
	}
}

// CreateROIRecord appends a payout against a ledger row. Only the farm's
// owner or an admin may distribute, and records are never edited after the
// fact; corrections go in as new records.
func (s *ROIService) CreateROIRecord(callerID uuid.UUID, callerRole models.UserRole, req *CreateROIRecordRequest) (*models.ROIRecord, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.ROIAmount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.New("roi amount must be greater than zero")
	}

	var investment models.Investment
	if err := s.db.Preload("Farm").First(&investment, req.InvestmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvestmentNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if callerRole != models.UserRoleAdmin && investment.Farm.OwnerID != callerID {
		return nil, errors.New("only the farm owner can distribute returns")
	}

	txHash := req.TxHash
	if txHash == "" {
		txHash = s.tokenService.RecordPayout(investment.ID, req.ROIAmount)
	}

	record := &models.ROIRecord{
		InvestmentID: req.InvestmentID,
		ROIAmount:    req.ROIAmount,
		TxHash:       txHash,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create roi record: %w", err)
		}

		// Payouts grow the holding's current value
		if err := tx.Model(&investment).UpdateColumn("current_value",
			gorm.Expr("current_value + ?", req.ROIAmount)).Error; err != nil {
			return fmt.Errorf("failed to update current value: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Investment").First(record, record.ID)

	return record, nil
}

// ListROIRecords returns records visible to the caller: investors see
// payouts on their own holdings, farmers see payouts they distributed,
// admins see everything.
func (s *ROIService) ListROIRecords(callerID uuid.UUID, callerRole models.UserRole, params utils.PaginationParams) ([]models.ROIRecord, int64, error) {
	query := s.db.Model(&models.ROIRecord{}).
		Joins("JOIN investments ON investments.id = roi_records.investment_id").
		Joins("JOIN farms ON farms.id = investments.farm_id").
		Preload("Investment").Preload("Investment.Farm")

	if callerRole != models.UserRoleAdmin {
		query = query.Where("investments.investor_id = ? OR farms.owner_id = ?", callerID, callerID)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count roi records: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "roi_amount"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var records []models.ROIRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch roi records: %w", err)
	}

	return records, total, nil
}

// TotalPayouts sums distributed returns for one investor across all
// holdings. The withdrawal balance check builds on this.
func (s *ROIService) TotalPayouts(investorID uuid.UUID) (decimal.Decimal, error) {
	return s.totalPayouts(s.db, investorID)
}

func (s *ROIService) totalPayouts(tx *gorm.DB, investorID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := tx.Model(&models.ROIRecord{}).
		Joins("JOIN investments ON investments.id = roi_records.investment_id").
		Where("investments.investor_id = ?", investorID).
		Select("COALESCE(SUM(roi_records.roi_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payouts: %w", err)
	}

	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}
