package handlers

import (
	"net/http"

	"wedding_backend/internal/services"
	"wedding_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type FamilyHandler struct {
	*BaseHandler
	familyService   services.FamilyService
	timelineService services.TimelineService
}

func NewFamilyHandler(base *BaseHandler, familyService services.FamilyService, timelineService services.TimelineService) *FamilyHandler {
	return &FamilyHandler{
		BaseHandler:     base,
		familyService:   familyService,
		timelineService: timelineService,
	}
}

func (h *FamilyHandler) RegisterRoutes(wedding *gin.RouterGroup) {
	families := wedding.Group("/families")
	{
		families.POST("", h.CreateFamily)
		families.GET("/:familyId/timeline", h.GetTimeline)
		families.POST("/:familyId/payments", h.RecordPayment)
		families.GET("/:familyId/qr", h.GetQRCode)
	}
}

// CreateFamily godoc
// @Summary Добавить семью гостей
// @Tags families
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param request body dto.CreateFamilyRequest true "Семья и ее члены"
// @Success 201 {object} models.Family
// @Router /admin/weddings/{weddingId}/families [post]
func (h *FamilyHandler) CreateFamily(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var req dto.CreateFamilyRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	family, err := h.familyService.CreateFamily(c.Request.Context(), h.GetDB(c), weddingID, adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, family)
}

// GetTimeline godoc
// @Summary Хронология событий семьи
// @Tags families
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param familyId path string true "ID семьи"
// @Success 200 {object} dto.TimelineResponse
// @Failure 404 {object} apperrors.AppError
// @Router /admin/weddings/{weddingId}/families/{familyId}/timeline [get]
func (h *FamilyHandler) GetTimeline(c *gin.Context) {
	_, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}

	timeline, err := h.timelineService.GetTimeline(c.Request.Context(), h.GetDB(c), c.Param("familyId"), weddingID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, timeline)
}

func (h *FamilyHandler) RecordPayment(c *gin.Context) {
	adminID, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	event, err := h.familyService.RecordPayment(c.Request.Context(), h.GetDB(c), weddingID, c.Param("familyId"), adminID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// GetQRCode отдает PNG с короткой ссылкой семьи для печатных приглашений
func (h *FamilyHandler) GetQRCode(c *gin.Context) {
	_, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}

	png, err := h.familyService.QRCode(c.Request.Context(), h.GetDB(c), weddingID, c.Param("familyId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
