// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrifund/agrifund-backend/internal/i18n"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
	farmService  *services.FarmService
	userService  *services.UserService
}

func NewAdminHandler(adminService *services.AdminService, farmService *services.FarmService, userService *services.UserService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		farmService:  farmService,
		userService:  userService,
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch dashboard stats")
		return
	}

	utils.SuccessResponse(c, gin.H{"stats": stats})
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	if kyc := c.Query("kyc_status"); kyc != "" {
		k := models.KYCStatus(kyc)
		filter.KYCStatus = &k
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch users")
		return
	}

	result := utils.CreatePaginationResult(users, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /admin/users/:id/kyc-document
// Presigned view of the document backing a pending verification.
func (h *AdminHandler) GetUserKYCDocument(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	url, err := h.userService.KYCDocumentURL(userID)
	if err != nil {
		if err == services.ErrNoKYCDocument {
			utils.NotFoundResponse(c, "document")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{"url": url})
}

// PUT /admin/users/:id/kyc
func (h *AdminHandler) UpdateKYCStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		Status models.KYCStatus `json:"status" validate:"required,oneof=pending verified rejected"`
		Reason string           `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.adminService.UpdateKYCStatus(userID, req.Status, adminID, req.Reason); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserKYCUpdated),
	})
}

// PUT /admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := currentUserID(c)
	if !ok {
		return
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req struct {
		Active bool   `json:"active"`
		Reason string `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if err := h.adminService.SetUserActive(userID, req.Active, adminID, req.Reason); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}

// PUT /admin/farms/:id/status
func (h *AdminHandler) UpdateFarmStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	farmID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid farm ID", nil)
		return
	}

	var req struct {
		Status models.FarmStatus `json:"status" validate:"required,oneof=pending active funded completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	farm, err := h.farmService.UpdateFarmStatus(farmID, req.Status)
	if err != nil {
		switch err {
		case services.ErrFarmNotFound:
			utils.NotFoundResponse(c, "Farm")
		default:
			utils.ConflictResponse(c, err.Error())
		}
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmStatusUpdated),
		"farm":    farm,
	})
}

// GET /admin/audit-logs
func (h *AdminHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	logs, total, err := h.adminService.GetAuditLogs(params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch audit logs")
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}
