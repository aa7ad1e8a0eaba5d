package handlers

import (
	"net/http"

	"wedding_backend/internal/services"
	"wedding_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

// WeddingHandler - настройки свадьбы и галерея
type WeddingHandler struct {
	*BaseHandler
	weddingService services.WeddingService
	galleryService services.GalleryService
}

func NewWeddingHandler(base *BaseHandler, weddingService services.WeddingService, galleryService services.GalleryService) *WeddingHandler {
	return &WeddingHandler{
		BaseHandler:    base,
		weddingService: weddingService,
		galleryService: galleryService,
	}
}

func (h *WeddingHandler) RegisterRoutes(wedding *gin.RouterGroup) {
	wedding.GET("", h.GetWedding)
	wedding.PUT("/settings", h.UpdateSettings)
	wedding.GET("/gallery", h.ListGallery)
}

func (h *WeddingHandler) GetWedding(c *gin.Context) {
	_, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}

	wedding, err := h.weddingService.GetWedding(c.Request.Context(), h.GetDB(c), weddingID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wedding)
}

// UpdateSettings godoc
// @Summary Изменить настройки свадьбы
// @Tags weddings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param weddingId path string true "ID свадьбы"
// @Param request body dto.UpdateSettingsRequest true "Изменяемые поля"
// @Success 200 {object} models.Wedding
// @Router /admin/weddings/{weddingId}/settings [put]
func (h *WeddingHandler) UpdateSettings(c *gin.Context) {
	_, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	var req dto.UpdateSettingsRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	wedding, err := h.weddingService.UpdateSettings(c.Request.Context(), h.GetDB(c), weddingID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, wedding)
}

func (h *WeddingHandler) ListGallery(c *gin.Context) {
	_, weddingID, ok := h.GetWeddingScope(c)
	if !ok {
		return
	}
	page, pageSize := ParsePagination(c)

	resp, err := h.galleryService.ListPhotos(c.Request.Context(), h.GetDB(c), weddingID, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
