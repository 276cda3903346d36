// internal/handlers/withdrawal.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrifund/agrifund-backend/internal/i18n"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type WithdrawalHandler struct {
	withdrawalService *services.WithdrawalService
}

func NewWithdrawalHandler(withdrawalService *services.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{
		withdrawalService: withdrawalService,
	}
}

// POST /withdrawals
func (h *WithdrawalHandler) CreateWithdrawal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	withdrawal, err := h.withdrawalService.CreateWithdrawal(userID, &req)
	if err != nil {
		switch err {
		case services.ErrInsufficientBalance:
			utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyWithdrawalInsufficient), nil)
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyWithdrawalRequested),
		"withdrawal": withdrawal,
	})
}

// GET /withdrawals
func (h *WithdrawalHandler) ListWithdrawals(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	params := utils.GetPaginationParams(c)

	withdrawals, total, err := h.withdrawalService.ListWithdrawals(userID, models.UserRole(role), params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch withdrawals")
		return
	}

	result := utils.CreatePaginationResult(withdrawals, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /withdrawals/:id
func (h *WithdrawalHandler) GetWithdrawal(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid withdrawal ID", nil)
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)

	withdrawal, err := h.withdrawalService.GetWithdrawal(withdrawalID, userID, models.UserRole(role))
	if err != nil {
		utils.NotFoundResponse(c, "Withdrawal")
		return
	}

	utils.SuccessResponse(c, gin.H{"withdrawal": withdrawal})
}

// PUT /admin/withdrawals/:id/approve
func (h *WithdrawalHandler) ApproveWithdrawal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid withdrawal ID", nil)
		return
	}

	withdrawal, err := h.withdrawalService.ApproveWithdrawal(withdrawalID, adminID)
	if err != nil {
		h.writeTransitionError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyWithdrawalApproved),
		"withdrawal": withdrawal,
	})
}

// PUT /admin/withdrawals/:id/complete
func (h *WithdrawalHandler) CompleteWithdrawal(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	withdrawalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid withdrawal ID", nil)
		return
	}

	var req struct {
		TxHash string `json:"tx_hash,omitempty"`
	}
	// Body is optional; a settlement reference is generated when absent
	c.ShouldBindJSON(&req)

	withdrawal, err := h.withdrawalService.CompleteWithdrawal(withdrawalID, adminID, req.TxHash)
	if err != nil {
		h.writeTransitionError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyWithdrawalCompleted),
		"withdrawal": withdrawal,
	})
}

func (h *WithdrawalHandler) writeTransitionError(c *gin.Context, lang string, err error) {
	switch err {
	case services.ErrWithdrawalNotFound:
		utils.NotFoundResponse(c, "Withdrawal")
	case services.ErrInvalidStatusChange:
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyWithdrawalBadStatus))
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
