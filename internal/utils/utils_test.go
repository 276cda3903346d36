// internal/utils/utils_test.go
package utils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
	SetJWTSecret("test-secret-key")
}

func TestJWTRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateJWT(userID, "investor@example.com", "investor", "verified", 1)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ValidateJWT(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "investor@example.com", claims.Email)
	assert.Equal(t, "investor", claims.Role)
	assert.Equal(t, "verified", claims.KYCStatus)
}

func TestValidateJWTRejectsGarbage(t *testing.T) {
	_, err := ValidateJWT("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	userID := uuid.New()

	token, err := GenerateRefreshToken(userID, 24)
	assert.NoError(t, err)

	gotID, err := ValidateRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, userID.String(), gotID)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	userID := uuid.New()

	accessToken, err := GenerateJWT(userID, "a@b.com", "investor", "pending", 1)
	assert.NoError(t, err)

	_, err = ValidateRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestGetPaginationParamsDefaults(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/farms", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "created_at", params.Sort)
	assert.Equal(t, "desc", params.Order)
}

func TestGetPaginationParamsClamping(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/farms?page=-3&limit=5000&order=sideways", nil)

	params := GetPaginationParams(c)
	assert.Equal(t, 1, params.Page)
	assert.Equal(t, 20, params.Limit)
	assert.Equal(t, "desc", params.Order)
}

func TestCreatePaginationResult(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 10}
	result := CreatePaginationResult([]string{"a"}, 25, params)

	assert.Equal(t, 2, result.Page)
	assert.Equal(t, int64(25), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestGenerateTransactionRef(t *testing.T) {
	ref, err := GenerateTransactionRef()
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "agf_"))

	other, err := GenerateTransactionRef()
	assert.NoError(t, err)
	assert.NotEqual(t, ref, other)
}

func TestNotFoundResponseLowercasesResourceKey(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/v1/farms/missing", nil)

	NotFoundResponse(c, "Farm")

	// Without a loaded locale the translator echoes the key back, which
	// must be the lowercase catalog key, not "Farm.not_found".
	assert.Contains(t, w.Body.String(), "farm.not_found")
	assert.NotContains(t, w.Body.String(), "Farm.not_found")
}

type validationTarget struct {
	Email  string          `validate:"required,email"`
	Phone  string          `validate:"omitempty,phone"`
	Role   string          `validate:"required,oneof=farmer investor"`
	Amount decimal.Decimal `validate:"required"`
}

func TestValidateStruct(t *testing.T) {
	valid := validationTarget{
		Email:  "user@example.com",
		Phone:  "+254712345678",
		Role:   "farmer",
		Amount: decimal.NewFromInt(100),
	}
	assert.NoError(t, ValidateStruct(&valid))

	invalid := validationTarget{
		Email: "not-an-email",
		Phone: "abc",
		Role:  "landlord",
	}
	err := ValidateStruct(&invalid)
	assert.Error(t, err)

	fieldErrors := GetValidationErrors(err)
	assert.NotEmpty(t, fieldErrors)

	fields := make(map[string]bool)
	for _, fe := range fieldErrors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["email"])
	assert.True(t, fields["role"])
}
