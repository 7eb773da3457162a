// internal/handlers/company.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/locmaq/locmaq-backend/internal/i18n"
	"github.com/locmaq/locmaq-backend/internal/services"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type CompanyHandler struct {
	companyService *services.CompanyService
}

func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// GET /company
func (h *CompanyHandler) ListContent(c *gin.Context) {
	contents, err := h.companyService.ListContent()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"contents": contents,
	})
}

// GET /company/:section
func (h *CompanyHandler) GetContent(c *gin.Context) {
	section := c.Param("section")

	content, err := h.companyService.GetContent(section)
	if err != nil {
		if strings.Contains(err.Error(), "not found") || strings.Contains(err.Error(), "unknown") {
			utils.NotFoundResponse(c, "company")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"content": content,
	})
}

// PUT /admin/company/:section
func (h *CompanyHandler) UpsertContent(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	section := c.Param("section")

	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	adminID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	var req services.UpsertCompanyContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	// Validate request
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	content, err := h.companyService.UpsertContent(section, adminID, &req)
	if err != nil {
		if strings.Contains(err.Error(), "unknown") {
			utils.NotFoundResponse(c, "company")
			return
		}
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyCompanyContentUpdated),
		"content": content,
	})
}
