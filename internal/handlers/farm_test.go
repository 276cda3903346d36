// internal/handlers/farm_test.go
package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agrifund/agrifund-backend/internal/config"
	"github.com/agrifund/agrifund-backend/internal/middleware"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret-key")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

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

func testConfig() *config.Config {
	return &config.Config{
		Platform: config.PlatformConfig{
			DefaultTokenPrice:  125.0,
			DefaultExpectedROI: 28.5,
			HederaNetwork:      "testnet",
		},
	}
}

func seedUser(t *testing.T, db *gorm.DB, role models.UserRole) *models.User {
	t.Helper()

	user := &models.User{
		Email:     fmt.Sprintf("%s-%s@example.com", role, uuid.NewString()[:8]),
		FirstName: "Achieng",
		LastName:  "Odhiambo",
		Role:      role,
		KYCStatus: models.KYCStatusVerified,
		IsActive:  true,
	}
	require.NoError(t, user.SetPassword("secret123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedFarm(t *testing.T, db *gorm.DB, ownerID uuid.UUID) *models.Farm {
	t.Helper()

	farm := &models.Farm{
		OwnerID:     ownerID,
		Name:        "Eldoret Maize Fields",
		CropType:    models.CropTypeMaize,
		Location:    "Eldoret, Kenya",
		Valuation:   decimal.NewFromInt(30000),
		Description: "Rain-fed maize acreage",
		TokenPrice:  decimal.NewFromInt(125),
		Raised:      decimal.Zero,
		ExpectedROI: 28.5,
		Status:      models.FarmStatusActive,
	}
	require.NoError(t, db.Create(farm).Error)
	return farm
}

func bearerToken(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := utils.GenerateJWT(user.ID, user.Email, string(user.Role), string(user.KYCStatus), 1)
	require.NoError(t, err)
	return "Bearer " + token
}

func newFarmTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	cfg := testConfig()
	storageService, err := services.NewStorageService(cfg)
	require.NoError(t, err)
	tokenService := services.NewTokenService(db, cfg)
	notificationService := services.NewNotificationService(db, cfg)
	farmService := services.NewFarmService(db, cfg, storageService, tokenService, notificationService)
	handler := NewFarmHandler(farmService, tokenService)

	r := gin.New()
	r.GET("/v1/farms", middleware.OptionalAuth(), handler.ListFarms)
	return r
}

func listFarms(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/farms", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListFarmsGuestSeesWholeRegistry(t *testing.T) {
	db := newTestDB(t)
	r := newFarmTestRouter(t, db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	for i := 0; i < 3; i++ {
		seedFarm(t, db, farmer.ID)
	}

	w := listFarms(r, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))
}

func TestListFarmsAuthenticatedCallerSeesOnlyOwnFarms(t *testing.T) {
	db := newTestDB(t)
	r := newFarmTestRouter(t, db)

	farmer := seedUser(t, db, models.UserRoleFarmer)
	otherFarmer := seedUser(t, db, models.UserRoleFarmer)
	investor := seedUser(t, db, models.UserRoleInvestor)
	for i := 0; i < 3; i++ {
		seedFarm(t, db, farmer.ID)
	}
	seedFarm(t, db, otherFarmer.ID)

	w := listFarms(r, bearerToken(t, farmer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "3", w.Header().Get("X-Total-Count"))

	w = listFarms(r, bearerToken(t, otherFarmer))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-Total-Count"))

	// An investor owns no listings, so an authenticated browse of the
	// registry comes back empty rather than exposing everyone's farms.
	w = listFarms(r, bearerToken(t, investor))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-Total-Count"))
}
