// internal/handlers/auth_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/services"
)

func newAuthTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()

	cfg := testConfig()
	cfg.JWT.AccessTokenTTL = 1
	cfg.JWT.RefreshTokenTTL = 7
	notificationService := services.NewNotificationService(db, cfg)
	authService := services.NewAuthService(db, cfg, notificationService)
	handler := NewAuthHandler(authService)

	r := gin.New()
	r.POST("/v1/auth/register", handler.Register)
	return r
}

func postRegister(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterCreatesUser(t *testing.T) {
	db := newTestDB(t)
	r := newAuthTestRouter(t, db)

	w := postRegister(r, `{
		"email": "amina@example.com",
		"first_name": "Amina",
		"last_name": "Juma",
		"password": "secret123",
		"password2": "secret123",
		"role": "investor"
	}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.User{}).
		Where("email = ?", "amina@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRegisterPasswordMismatchPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	r := newAuthTestRouter(t, db)

	w := postRegister(r, `{
		"email": "amina@example.com",
		"first_name": "Amina",
		"last_name": "Juma",
		"password": "secret123",
		"password2": "different456",
		"role": "investor"
	}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "passwords do not match")

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count, "a failed registration must leave no user behind")
}
