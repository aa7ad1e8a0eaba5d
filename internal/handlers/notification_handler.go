package handlers

import (
	"net/http"

	"wedding_backend/internal/services"
	"wedding_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	*BaseHandler
	notificationService services.NotificationService
}

func NewNotificationHandler(base *BaseHandler, notificationService services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		BaseHandler:         base,
		notificationService: notificationService,
	}
}

func (h *NotificationHandler) RegisterRoutes(wedding *gin.RouterGroup) {
	notifications := wedding.Group("/notifications")
	{
		notifications.GET("", h.GetNotifications)
		notifications.GET("/unread-count", h.GetUnreadCount)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.PUT("/:eventId/read", h.MarkAsRead)
	}
}

// GetNotifications godoc
// @Summary Лента событий свадьбы с отметками о прочтении
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param unread_only query bool false "Только непрочитанные"
// @Param page query int false "Страница"
// @Param page_size query int false "Размер страницы"
// @Success 200 {object} dto.NotificationListResponse
// @Router /admin/weddings/{weddingId}/notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var criteria dto.NotificationCriteria
	if !h.BindAndValidate_Query(c, &criteria) {
		return
	}

	resp, err := h.notificationService.GetNotifications(c.Request.Context(), h.GetDB(c), weddingID, adminID, criteria)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}

	if err := h.notificationService.MarkAsRead(c.Request.Context(), h.GetDB(c), weddingID, c.Param("eventId"), adminID); err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}

	marked, err := h.notificationService.MarkAllAsRead(c.Request.Context(), h.GetDB(c), weddingID, adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Marked: marked})
}

func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}

	count, err := h.notificationService.GetUnreadCount(c.Request.Context(), h.GetDB(c), weddingID, adminID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}
