// internal/handlers/dashboard.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/locmaq/locmaq-backend/internal/services"
	"github.com/locmaq/locmaq-backend/internal/utils"
)

type DashboardHandler struct {
	dashboardService    *services.DashboardService
	notificationService *services.NotificationService
}

func NewDashboardHandler(dashboardService *services.DashboardService, notificationService *services.NotificationService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService:    dashboardService,
		notificationService: notificationService,
	}
}

// GET /dashboard/landlord
func (h *DashboardHandler) GetLandlordDashboard(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	landlordID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	stats, err := h.dashboardService.GetLandlordDashboard(landlordID)
	if err != nil {
		if strings.Contains(err.Error(), "only available") {
			utils.ForbiddenResponse(c, err.Error())
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"statistics": stats,
	})
}

// GET /dashboard/client
func (h *DashboardHandler) GetClientDashboard(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	clientID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	stats, err := h.dashboardService.GetClientDashboard(clientID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"statistics": stats,
	})
}

// GET /notifications
func (h *DashboardHandler) GetNotifications(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notificationService.ListNotifications(userID, unreadOnly)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	unreadCount, err := h.notificationService.UnreadCount(userID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"notifications": notifications,
		"unread_count":  unreadCount,
	})
}

// PUT /notifications/:id/read
func (h *DashboardHandler) MarkNotificationRead(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := h.notificationService.MarkNotificationRead(id, userID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			utils.NotFoundResponse(c, "notification")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"read": true,
	})
}

// PUT /notifications/read-all
func (h *DashboardHandler) MarkAllNotificationsRead(c *gin.Context) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	if err := h.notificationService.MarkAllNotificationsRead(userID); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"read": true,
	})
}
