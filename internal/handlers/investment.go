// internal/handlers/investment.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrifund/agrifund-backend/internal/i18n"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type InvestmentHandler struct {
	investmentService *services.InvestmentService
}

func NewInvestmentHandler(investmentService *services.InvestmentService) *InvestmentHandler {
	return &InvestmentHandler{
		investmentService: investmentService,
	}
}

// POST /investments
func (h *InvestmentHandler) RecordInvestment(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.RecordInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	investment, err := h.investmentService.RecordInvestment(userID, &req)
	if err != nil {
		switch err {
		case services.ErrFarmNotFound:
			utils.NotFoundResponse(c, "Farm")
		case services.ErrInvalidAmount:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyInvestmentInvalid), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInvestmentRecorded),
		"investment": investment,
	})
}

// GET /investments
func (h *InvestmentHandler) ListInvestments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)

	investments, total, err := h.investmentService.ListInvestments(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch investments")
		return
	}

	result := utils.CreatePaginationResult(investments, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /investments/:id
func (h *InvestmentHandler) GetInvestment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	investmentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid investment ID", nil)
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)

	investment, err := h.investmentService.GetInvestment(investmentID, userID, models.UserRole(role))
	if err != nil {
		utils.NotFoundResponse(c, "Investment")
		return
	}

	utils.SuccessResponse(c, gin.H{"investment": investment})
}
