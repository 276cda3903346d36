// internal/services/farm_service.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

var (
	ErrFarmNotFound = errors.New("farm not found")
	ErrNotFarmOwner = errors.New("you do not have permission to modify this farm")
)

type FarmService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	storageService      *StorageService
	tokenService        *TokenService
	notificationService *NotificationService
}

type CreateFarmRequest struct {
	Name           string          `json:"name" validate:"required,max=150"`
	Size           decimal.Decimal `json:"size" validate:"omitempty,gt=0"`
	CropType       models.CropType `json:"crop_type" validate:"required,oneof=coffee maize rice wheat avocado tea cocoa other"`
	Location       string          `json:"location" validate:"required,max=255"`
	Valuation      decimal.Decimal `json:"valuation" validate:"required,gt=0"`
	Description    string          `json:"description" validate:"required"`
	TokenPrice     decimal.Decimal `json:"token_price" validate:"omitempty,gt=0"`
	ExpectedROI    float64         `json:"expected_roi" validate:"omitempty,gt=0"`
	Certifications []string        `json:"certifications,omitempty"`
}

type UpdateFarmRequest struct {
	Name           string          `json:"name,omitempty" validate:"omitempty,max=150"`
	Size           decimal.Decimal `json:"size,omitempty" validate:"omitempty,gt=0"`
	CropType       models.CropType `json:"crop_type,omitempty" validate:"omitempty,oneof=coffee maize rice wheat avocado tea cocoa other"`
	Location       string          `json:"location,omitempty" validate:"omitempty,max=255"`
	Valuation      decimal.Decimal `json:"valuation,omitempty" validate:"omitempty,gt=0"`
	Description    string          `json:"description,omitempty"`
	TokenPrice     decimal.Decimal `json:"token_price,omitempty" validate:"omitempty,gt=0"`
	ExpectedROI    float64         `json:"expected_roi,omitempty" validate:"omitempty,gt=0"`
	Certifications []string        `json:"certifications,omitempty"`
}

func NewFarmService(db *gorm.DB, cfg *config.Config, storageService *StorageService, tokenService *TokenService, notificationService *NotificationService) *FarmService {
	return &FarmService{
		db:                  db,
		cfg:                 cfg,
		storageService:      storageService,
		tokenService:        tokenService,
		notificationService: notificationService,
	}
}

func (s *FarmService) CreateFarm(ownerID uuid.UUID, req *CreateFarmRequest) (*models.Farm, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Only farmers may list farms
	var owner models.User
	if err := s.db.First(&owner, ownerID).Error; err != nil {
		return nil, fmt.Errorf("owner not found: %w", err)
	}
	if owner.Role != models.UserRoleFarmer {
		return nil, errors.New("only farmers can create farm listings")
	}

	tokenPrice := req.TokenPrice
	if tokenPrice.IsZero() {
		tokenPrice = decimal.NewFromFloat(s.cfg.Platform.DefaultTokenPrice)
	}
	expectedROI := req.ExpectedROI
	if expectedROI == 0 {
		expectedROI = s.cfg.Platform.DefaultExpectedROI
	}

	farm := &models.Farm{
		OwnerID:        ownerID,
		Name:           req.Name,
		Size:           req.Size,
		CropType:       req.CropType,
		Location:       req.Location,
		Valuation:      req.Valuation,
		Description:    req.Description,
		TokenPrice:     tokenPrice,
		Raised:         decimal.Zero,
		ExpectedROI:    expectedROI,
		Status:         models.FarmStatusPending,
		Certifications: pq.StringArray(req.Certifications),
	}

	if err := s.db.Create(farm).Error; err != nil {
		return nil, fmt.Errorf("failed to create farm: %w", err)
	}

	return farm, nil
}

func (s *FarmService) GetFarm(id uuid.UUID) (*models.Farm, error) {
	var farm models.Farm
	if err := s.db.Preload("Owner").First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &farm, nil
}

// ListFarms applies the visibility rule: an authenticated caller sees only
// their own farms, a guest sees everything.
func (s *FarmService) ListFarms(callerID *uuid.UUID, params utils.PaginationParams) ([]models.Farm, int64, error) {
	query := s.db.Model(&models.Farm{}).Preload("Owner")

	if callerID != nil {
		query = query.Where("owner_id = ?", *callerID)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Search != "" {
		search := "%" + params.Search + "%"
		query = query.Where("name ILIKE ? OR location ILIKE ?", search, search)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count farms: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "valuation", "raised", "expected_roi", "name"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	// Execute query
	var farms []models.Farm
	if err := query.Find(&farms).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch farms: %w", err)
	}

	return farms, total, nil
}

func (s *FarmService) UpdateFarm(id uuid.UUID, ownerID uuid.UUID, req *UpdateFarmRequest) (*models.Farm, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Find and verify ownership
	var farm models.Farm
	if err := s.db.First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if farm.OwnerID != ownerID {
		return nil, ErrNotFarmOwner
	}

	// Update fields
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if !req.Size.IsZero() {
		updates["size"] = req.Size
	}
	if req.CropType != "" {
		updates["crop_type"] = req.CropType
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if !req.Valuation.IsZero() {
		updates["valuation"] = req.Valuation
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if !req.TokenPrice.IsZero() {
		updates["token_price"] = req.TokenPrice
	}
	if req.ExpectedROI != 0 {
		updates["expected_roi"] = req.ExpectedROI
	}
	if req.Certifications != nil {
		updates["certifications"] = pq.StringArray(req.Certifications)
	}

	if len(updates) > 0 {
		if err := s.db.Model(&farm).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update farm: %w", err)
		}
	}

	// Reload with relationships
	s.db.Preload("Owner").First(&farm, id)

	return &farm, nil
}

func (s *FarmService) DeleteFarm(id uuid.UUID, ownerID uuid.UUID) error {
	// Find and verify ownership
	var farm models.Farm
	if err := s.db.First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFarmNotFound
		}
		return fmt.Errorf("database error: %w", err)
	}

	if farm.OwnerID != ownerID {
		return ErrNotFarmOwner
	}

	// A farm that has taken investor money cannot be removed; deleting it
	// would cascade away the ledger rows backing farm.raised.
	if farm.Raised.GreaterThan(decimal.Zero) {
		return errors.New("cannot delete a farm that has raised funds")
	}

	// Soft delete
	if err := s.db.Delete(&farm).Error; err != nil {
		return fmt.Errorf("failed to delete farm: %w", err)
	}

	if farm.ImageURL != "" {
		s.removeStoredImage(farm.ImageURL)
	}

	return nil
}

func (s *FarmService) UploadFarmImage(id uuid.UUID, ownerID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.Farm, error) {
	// Find and verify ownership
	var farm models.Farm
	if err := s.db.First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if farm.OwnerID != ownerID {
		return nil, ErrNotFarmOwner
	}

	if err := s.storageService.ValidateImage(file); err != nil {
		return nil, err
	}

	result, err := s.storageService.UploadFile(file, header, s.storageService.GetDefaultUploadOptions("farms"))
	if err != nil {
		return nil, fmt.Errorf("failed to upload farm image: %w", err)
	}

	if err := s.db.Model(&farm).Update("image_url", result.URL).Error; err != nil {
		return nil, fmt.Errorf("failed to save image URL: %w", err)
	}

	// The replaced object is garbage once the new URL is saved
	if farm.ImageURL != "" {
		s.removeStoredImage(farm.ImageURL)
	}

	farm.ImageURL = result.URL
	return &farm, nil
}

func (s *FarmService) removeStoredImage(imageURL string) {
	key := s.storageService.KeyFromURL(imageURL)
	if key == "" {
		return
	}
	if err := s.storageService.DeleteFile(key); err != nil {
		logrus.WithError(err).WithField("key", key).
			Warn("Failed to delete stored farm image")
	}
}

// UpdateFarmStatus advances the farm lifecycle one step; used by admins.
// Activation mints the farm's Hedera token id.
func (s *FarmService) UpdateFarmStatus(id uuid.UUID, status models.FarmStatus) (*models.Farm, error) {
	var farm models.Farm
	if err := s.db.First(&farm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !farm.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("farm cannot move from %s to %s", farm.Status, status)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.FarmStatusActive && farm.TokenID == "" {
		tokenID, err := s.tokenService.MintFarmToken(&farm)
		if err != nil {
			return nil, fmt.Errorf("failed to mint farm token: %w", err)
		}
		updates["token_id"] = tokenID
	}

	if err := s.db.Model(&farm).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update farm status: %w", err)
	}

	s.db.Preload("Owner").First(&farm, id)

	// Tell the farmer; delivery failures never block the transition
	if s.notificationService != nil {
		farmCopy := farm
		go func() {
			if err := s.notificationService.SendFarmStatusEmail(&farmCopy); err != nil {
				logrus.WithError(err).WithField("farm_id", farmCopy.ID).
					Error("Failed to send farm status email")
			}
		}()
	}

	return &farm, nil
}
