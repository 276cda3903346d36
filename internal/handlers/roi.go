// internal/handlers/roi.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/agrifund/agrifund-backend/internal/i18n"
	"github.com/agrifund/agrifund-backend/internal/models"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type ROIHandler struct {
	roiService *services.ROIService
}

func NewROIHandler(roiService *services.ROIService) *ROIHandler {
	return &ROIHandler{
		roiService: roiService,
	}
}

// POST /roi-records
func (h *ROIHandler) CreateROIRecord(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateROIRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)

	record, err := h.roiService.CreateROIRecord(userID, models.UserRole(role), &req)
	if err != nil {
		switch err {
		case services.ErrInvestmentNotFound:
			utils.NotFoundResponse(c, "Investment")
		default:
			utils.BadRequestResponse(c, err.Error(), nil)
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyROIRecorded),
		"roi_record": record,
	})
}

// GET /roi-records
func (h *ROIHandler) ListROIRecords(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	role, _ := utils.GetUserRoleFromContext(c)
	params := utils.GetPaginationParams(c)

	records, total, err := h.roiService.ListROIRecords(userID, models.UserRole(role), params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch roi records")
		return
	}

	result := utils.CreatePaginationResult(records, total, params)
	utils.PaginatedResponse(c, result)
}
