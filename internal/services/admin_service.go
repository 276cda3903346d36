// internal/services/admin_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type AdminService struct {
	db                  *gorm.DB
	notificationService *NotificationService
}

type AdminDashboardStats struct {
	TotalUsers         int64   `json:"total_users"`
	TotalFarmers       int64   `json:"total_farmers"`
	TotalInvestors     int64   `json:"total_investors"`
	NewUsersThisMonth  int64   `json:"new_users_this_month"`
	PendingKYC         int64   `json:"pending_kyc"`
	TotalFarms         int64   `json:"total_farms"`
	ActiveFarms        int64   `json:"active_farms"`
	PendingFarms       int64   `json:"pending_farms"`
	TotalRaised        float64 `json:"total_raised"`
	RaisedThisMonth    float64 `json:"raised_this_month"`
	TotalInvestments   int64   `json:"total_investments"`
	PendingWithdrawals int64   `json:"pending_withdrawals"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role          *models.UserRole  `json:"role,omitempty"`
	KYCStatus     *models.KYCStatus `json:"kyc_status,omitempty"`
	CreatedAfter  *time.Time        `json:"created_after,omitempty"`
	CreatedBefore *time.Time        `json:"created_before,omitempty"`
}

func NewAdminService(db *gorm.DB, notificationService *NotificationService) *AdminService {
	return &AdminService{
		db:                  db,
		notificationService: notificationService,
	}
}

// Dashboard Statistics
func (s *AdminService) GetDashboardStats() (*AdminDashboardStats, error) {
	stats := &AdminDashboardStats{}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// User statistics
	s.db.Model(&models.User{}).Count(&stats.TotalUsers)
	s.db.Model(&models.User{}).Where("role = ?", models.UserRoleFarmer).Count(&stats.TotalFarmers)
	s.db.Model(&models.User{}).Where("role = ?", models.UserRoleInvestor).Count(&stats.TotalInvestors)
	s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth)
	s.db.Model(&models.User{}).Where("kyc_status = ?", models.KYCStatusPending).Count(&stats.PendingKYC)

	// Farm statistics
	s.db.Model(&models.Farm{}).Count(&stats.TotalFarms)
	s.db.Model(&models.Farm{}).Where("status = ?", models.FarmStatusActive).Count(&stats.ActiveFarms)
	s.db.Model(&models.Farm{}).Where("status = ?", models.FarmStatusPending).Count(&stats.PendingFarms)

	// Funding statistics
	s.db.Model(&models.Farm{}).
		Select("COALESCE(SUM(raised), 0)").Scan(&stats.TotalRaised)
	s.db.Model(&models.Investment{}).
		Where("created_at >= ?", monthStart).
		Select("COALESCE(SUM(invested), 0)").Scan(&stats.RaisedThisMonth)

	s.db.Model(&models.Investment{}).Count(&stats.TotalInvestments)
	s.db.Model(&models.Withdrawal{}).
		Where("status = ?", models.WithdrawalStatusPending).Count(&stats.PendingWithdrawals)

	return stats, nil
}

// User Management
func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	query := s.db.Model(&models.User{})

	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.KYCStatus != nil {
		query = query.Where("kyc_status = ?", *filter.KYCStatus)
	}
	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			searchTerm, searchTerm, searchTerm)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "email", "role", "kyc_status"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// UpdateKYCStatus verifies or rejects a user's identity documents.
func (s *AdminService) UpdateKYCStatus(userID uuid.UUID, status models.KYCStatus, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.Role == models.UserRoleAdmin {
		return errors.New("cannot modify admin kyc status")
	}

	oldStatus := user.KYCStatus
	user.KYCStatus = status

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update kyc status: %w", err)
	}

	// Create audit log
	go s.createAuditLog(adminID, "UPDATE_KYC_STATUS", "user", &userID,
		map[string]interface{}{"kyc_status": oldStatus},
		map[string]interface{}{"kyc_status": status, "reason": reason})

	// Send notification to user
	if s.notificationService != nil {
		go s.notificationService.SendKYCStatusEmail(&user)
	}

	return nil
}

// SetUserActive enables or disables a user account.
func (s *AdminService) SetUserActive(userID uuid.UUID, active bool, adminID uuid.UUID, reason string) error {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("user not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if user.Role == models.UserRoleAdmin && user.ID != adminID {
		return errors.New("cannot modify another admin account")
	}

	wasActive := user.IsActive
	user.IsActive = active

	if err := s.db.Save(&user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_USER_ACTIVE", "user", &userID,
		map[string]interface{}{"is_active": wasActive},
		map[string]interface{}{"is_active": active, "reason": reason})

	return nil
}

// GetAuditLogs lists the audit trail, newest first.
func (s *AdminService) GetAuditLogs(params utils.PaginationParams) ([]models.AuditLog, int64, error) {
	query := s.db.Model(&models.AuditLog{}).Preload("User")

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("action ILIKE ? OR resource_type ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	allowedSortFields := []string{"created_at", "action"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var logs []models.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}

func (s *AdminService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}
