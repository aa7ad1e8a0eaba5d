package handlers

import (
	"net/http"

	"wedding_backend/internal/services"
	"wedding_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// CommunicationHandler - рассылки из админки: save-the-date, приглашения, напоминания
type CommunicationHandler struct {
	*BaseHandler
	saveTheDate services.SaveTheDateService
	invitations services.InvitationService
	reminders   services.ReminderService
}

func NewCommunicationHandler(
	base *BaseHandler,
	saveTheDate services.SaveTheDateService,
	invitations services.InvitationService,
	reminders services.ReminderService,
) *CommunicationHandler {
	return &CommunicationHandler{
		BaseHandler: base,
		saveTheDate: saveTheDate,
		invitations: invitations,
		reminders:   reminders,
	}
}

// RegisterRoutes ожидает группу /admin/weddings/:weddingId
func (h *CommunicationHandler) RegisterRoutes(wedding *gin.RouterGroup) {
	wedding.POST("/save-the-date", h.SendSaveTheDate)
	wedding.POST("/invitations", h.SendInvitations)
	wedding.POST("/reminders", h.SendReminders)
}

// SendSaveTheDate godoc
// @Summary Рассылка save-the-date
// @Tags communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param request body dto.SaveTheDateRequest false "Семьи и канал"
// @Success 200 {object} services.BulkResult
// @Failure 400 {object} apperrors.AppError "FEATURE_DISABLED"
// @Router /admin/weddings/{weddingId}/save-the-date [post]
func (h *CommunicationHandler) SendSaveTheDate(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var req dto.SaveTheDateRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.saveTheDate.SendToWedding(c.Request.Context(), h.GetDB(c), weddingID, adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendInvitations godoc
// @Summary Рассылка приглашений
// @Tags communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param request body dto.InvitationRequest false "Семьи, канал, повторная отправка"
// @Success 200 {object} services.BulkResult
// @Router /admin/weddings/{weddingId}/invitations [post]
func (h *CommunicationHandler) SendInvitations(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var req dto.InvitationRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.invitations.SendToWedding(c.Request.Context(), h.GetDB(c), weddingID, adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendReminders godoc
// @Summary Напоминания семьям без ответа
// @Tags communications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param request body dto.ReminderRequest false "Семьи и канал"
// @Success 200 {object} services.BulkResult
// @Router /admin/weddings/{weddingId}/reminders [post]
func (h *CommunicationHandler) SendReminders(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var req dto.ReminderRequest
	if !h.bindOptional(c, &req) {
		return
	}

	result, err := h.reminders.SendToWedding(c.Request.Context(), h.GetDB(c), weddingID, adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// bindOptional: пустое тело означает "все подходящие семьи, канал по умолчанию"
func (h *CommunicationHandler) bindOptional(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return h.validate(c, obj)
	}
	return h.BindAndValidate_JSON(c, obj)
}
