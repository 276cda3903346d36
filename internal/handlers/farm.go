// internal/handlers/farm.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/agrifund/agrifund-backend/internal/i18n"
	"github.com/agrifund/agrifund-backend/internal/services"
	"github.com/agrifund/agrifund-backend/internal/utils"
)

type FarmHandler struct {
	farmService  *services.FarmService
	tokenService *services.TokenService
}

func NewFarmHandler(farmService *services.FarmService, tokenService *services.TokenService) *FarmHandler {
	return &FarmHandler{
		farmService:  farmService,
		tokenService: tokenService,
	}
}

// GET /farms
// Authenticated callers see only their own listings; guests browse the
// whole registry.
func (h *FarmHandler) ListFarms(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var callerID *uuid.UUID
	if userIDStr, exists := utils.GetUserIDFromContext(c); exists {
		if id, err := uuid.Parse(userIDStr); err == nil {
			callerID = &id
		}
	}

	farms, total, err := h.farmService.ListFarms(callerID, params)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to fetch farms")
		return
	}

	result := utils.CreatePaginationResult(farms, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /farms
func (h *FarmHandler) CreateFarm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.CreateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	farm, err := h.farmService.CreateFarm(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmCreated),
		"farm":    farm,
	})
}

// GET /farms/:id
func (h *FarmHandler) GetFarm(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid farm ID", nil)
		return
	}

	farm, err := h.farmService.GetFarm(farmID)
	if err != nil {
		utils.NotFoundResponse(c, "Farm")
		return
	}

	utils.SuccessResponse(c, gin.H{"farm": farm})
}

// GET /farms/:id/verify
// Confirms that an activated farm carries its minted Hedera token.
func (h *FarmHandler) VerifyFarmToken(c *gin.Context) {
	farmID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid farm ID", nil)
		return
	}

	farm, err := h.farmService.GetFarm(farmID)
	if err != nil {
		utils.NotFoundResponse(c, "Farm")
		return
	}

	verified, err := h.tokenService.VerifyFarmToken(farmID)
	if err != nil {
		utils.SuccessResponse(c, gin.H{
			"verified": false,
			"reason":   err.Error(),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"verified": verified,
		"token_id": farm.TokenID,
	})
}

// PATCH /farms/:id
func (h *FarmHandler) UpdateFarm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	farmID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid farm ID", nil)
		return
	}

	var req services.UpdateFarmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	farm, err := h.farmService.UpdateFarm(farmID, userID, &req)
	if err != nil {
		h.writeFarmError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmUpdated),
		"farm":    farm,
	})
}

// DELETE /farms/:id
func (h *FarmHandler) DeleteFarm(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	farmID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid farm ID", nil)
		return
	}

	if err := h.farmService.DeleteFarm(farmID, userID); err != nil {
		h.writeFarmError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFarmDeleted),
	})
}

// POST /farms/:id/image
func (h *FarmHandler) UploadFarmImage(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	farmID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid farm ID", nil)
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyFileUploadFailed), err.Error())
		return
	}
	defer file.Close()

	farm, err := h.farmService.UploadFarmImage(farmID, userID, file, header)
	if err != nil {
		h.writeFarmError(c, lang, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyFileUploadSuccess),
		"farm":    farm,
	})
}

func (h *FarmHandler) writeFarmError(c *gin.Context, lang string, err error) {
	switch err {
	case services.ErrFarmNotFound:
		utils.NotFoundResponse(c, "Farm")
	case services.ErrNotFarmOwner:
		utils.ForbiddenResponse(c, i18n.T(lang, i18n.KeyFarmNotOwner))
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}
