// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

var ErrNoKYCDocument = errors.New("no KYC document on file")

type UserService struct {
	db             *gorm.DB
	storageService *StorageService
}

type UpdateUserProfileRequest struct {
	FirstName string `json:"first_name,omitempty" validate:"omitempty,max=30"`
	LastName  string `json:"last_name,omitempty" validate:"omitempty,max=30"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,phone"`
	WalletID  string `json:"wallet_id,omitempty" validate:"omitempty,max=100"`
}

func NewUserService(db *gorm.DB, storageService *StorageService) *UserService {
	return &UserService{
		db:             db,
		storageService: storageService,
	}
}

func (s *UserService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateUserProfileRequest) (*models.User, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find user
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Update fields
	updates := make(map[string]interface{})
	if req.FirstName != "" {
		updates["first_name"] = req.FirstName
	}
	if req.LastName != "" {
		updates["last_name"] = req.LastName
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.WalletID != "" {
		updates["wallet_id"] = req.WalletID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	return &user, nil
}

// UploadKYCDocument stores an identity document in the private bucket
// folder and resets verification so an admin reviews the new document.
func (s *UserService) UploadKYCDocument(userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("kyc"))
	if err != nil {
		return nil, fmt.Errorf("failed to upload document: %w", err)
	}

	updates := map[string]interface{}{
		"kyc_document_key": result.Key,
		"kyc_status":       models.KYCStatusPending,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to save document key: %w", err)
	}

	user.KYCDocumentKey = result.Key
	user.KYCStatus = models.KYCStatusPending
	return &user, nil
}

// KYCDocumentURL returns a short-lived presigned link to the user's
// identity document. The object itself is never publicly readable.
func (s *UserService) KYCDocumentURL(userID uuid.UUID) (string, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("user not found")
		}
		return "", fmt.Errorf("database error: %w", err)
	}

	if user.KYCDocumentKey == "" {
		return "", ErrNoKYCDocument
	}

	return s.storageService.GeneratePresignedURL(user.KYCDocumentKey, 15*time.Minute)
}
