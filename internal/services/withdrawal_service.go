// internal/services/withdrawal_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

var (
	ErrWithdrawalNotFound     = errors.New("withdrawal not found")
	ErrInsufficientBalance    = errors.New("insufficient balance for withdrawal")
	ErrInvalidStatusChange    = errors.New("invalid withdrawal status transition")
	ErrBelowMinimumWithdrawal = errors.New("amount is below the minimum withdrawal")
)

type WithdrawalService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	roiService          *ROIService
	notificationService *NotificationService
}

type CreateWithdrawalRequest struct {
	Amount decimal.Decimal         `json:"amount" validate:"required"`
	Method models.WithdrawalMethod `json:"method" validate:"required,oneof=fiat crypto"`
}

func NewWithdrawalService(db *gorm.DB, cfg *config.Config, roiService *ROIService, notificationService *NotificationService) *WithdrawalService {
	return &WithdrawalService{
		db:                  db,
		cfg:                 cfg,
		roiService:          roiService,
		notificationService: notificationService,
	}
}

// CreateWithdrawal opens a payout request against the investor's earned
// balance. Every request starts in pending regardless of what the client
// sends; moving it forward is an admin action.
func (s *WithdrawalService) CreateWithdrawal(investorID uuid.UUID, req *CreateWithdrawalRequest) (*models.Withdrawal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}
	minimum := decimal.NewFromFloat(s.cfg.Payment.MinimumWithdrawal)
	if req.Amount.LessThan(minimum) {
		return nil, ErrBelowMinimumWithdrawal
	}

	withdrawal := &models.Withdrawal{
		InvestorID: investorID,
		Amount:     req.Amount,
		Method:     req.Method,
		Status:     models.WithdrawalStatusPending,
	}

	// The balance check and the insert run in one transaction with the
	// investor row locked, so two concurrent requests cannot both pass
	// the check before either one is recorded.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var investor models.User
		if err := lockForUpdate(tx).First(&investor, investorID).Error; err != nil {
			return fmt.Errorf("investor not found: %w", err)
		}

		balance, err := s.availableBalance(tx, investorID)
		if err != nil {
			return err
		}
		if req.Amount.GreaterThan(balance) {
			return ErrInsufficientBalance
		}

		if err := tx.Create(withdrawal).Error; err != nil {
			return fmt.Errorf("failed to create withdrawal: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Investor").First(withdrawal, withdrawal.ID)

	return withdrawal, nil
}

// AvailableBalance is distributed returns minus everything already
// requested. Pending and approved requests count against the balance so
// an investor cannot queue up more than they have earned.
func (s *WithdrawalService) AvailableBalance(investorID uuid.UUID) (decimal.Decimal, error) {
	return s.availableBalance(s.db, investorID)
}

func (s *WithdrawalService) availableBalance(tx *gorm.DB, investorID uuid.UUID) (decimal.Decimal, error) {
	payouts, err := s.roiService.totalPayouts(tx, investorID)
	if err != nil {
		return decimal.Zero, err
	}

	var withdrawn decimal.NullDecimal
	err = tx.Model(&models.Withdrawal{}).
		Where("investor_id = ?", investorID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&withdrawn).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum withdrawals: %w", err)
	}

	if !withdrawn.Valid {
		return payouts, nil
	}
	return payouts.Sub(withdrawn.Decimal), nil
}

func (s *WithdrawalService) GetWithdrawal(id uuid.UUID, callerID uuid.UUID, callerRole models.UserRole) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := s.db.Preload("Investor").First(&withdrawal, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if callerRole != models.UserRoleAdmin && withdrawal.InvestorID != callerID {
		return nil, ErrWithdrawalNotFound
	}

	return &withdrawal, nil
}

func (s *WithdrawalService) ListWithdrawals(callerID uuid.UUID, callerRole models.UserRole, params utils.PaginationParams) ([]models.Withdrawal, int64, error) {
	query := s.db.Model(&models.Withdrawal{}).Preload("Investor")

	if callerRole != models.UserRoleAdmin {
		query = query.Where("investor_id = ?", callerID)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "amount", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var withdrawals []models.Withdrawal
	if err := query.Find(&withdrawals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch withdrawals: %w", err)
	}

	return withdrawals, total, nil
}

// ApproveWithdrawal moves a pending request to approved. Admin only; the
// status machine rejects anything else.
func (s *WithdrawalService) ApproveWithdrawal(id, adminID uuid.UUID) (*models.Withdrawal, error) {
	return s.transition(id, models.WithdrawalStatusApproved, func(w *models.Withdrawal) {
		now := time.Now()
		w.ApprovedBy = &adminID
		w.ApprovedAt = &now
	})
}

// CompleteWithdrawal marks an approved request as paid out and records the
// settlement reference.
func (s *WithdrawalService) CompleteWithdrawal(id, adminID uuid.UUID, txHash string) (*models.Withdrawal, error) {
	return s.transition(id, models.WithdrawalStatusCompleted, func(w *models.Withdrawal) {
		now := time.Now()
		w.CompletedAt = &now
		if txHash != "" {
			w.TxHash = txHash
		} else if ref, err := utils.GenerateTransactionRef(); err == nil {
			w.TxHash = ref
		}
	})
}

func (s *WithdrawalService) transition(id uuid.UUID, target models.WithdrawalStatus, apply func(*models.Withdrawal)) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&withdrawal, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWithdrawalNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !withdrawal.Status.CanTransitionTo(target) {
			return ErrInvalidStatusChange
		}

		withdrawal.Status = target
		apply(&withdrawal)

		if err := tx.Save(&withdrawal).Error; err != nil {
			return fmt.Errorf("failed to update withdrawal: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.db.Preload("Investor").First(&withdrawal, withdrawal.ID)

	// Notify the investor; delivery failures never block the transition
	if s.notificationService != nil {
		go s.notificationService.SendWithdrawalStatusEmail(&withdrawal)
	}

	return &withdrawal, nil
}
