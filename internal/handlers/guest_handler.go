package handlers

import (
	"net/http"

	"wedding_backend/internal/services"
	"wedding_backend/internal/services/dto"
	"wedding_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// GuestHandler - публичная страница семьи по magic-ссылке
type GuestHandler struct {
	*BaseHandler
	guestService services.GuestService
	maxPhotoSize int64
}

func NewGuestHandler(base *BaseHandler, guestService services.GuestService, maxPhotoSize int64) *GuestHandler {
	return &GuestHandler{
		BaseHandler:  base,
		guestService: guestService,
		maxPhotoSize: maxPhotoSize,
	}
}

// RegisterRoutes: photoLimit ограничивает загрузки фото по IP
func (h *GuestHandler) RegisterRoutes(rg *gin.RouterGroup, photoLimit gin.HandlerFunc) {
	guest := rg.Group("/guest/:token")
	{
		guest.GET("", h.GetPage)
		guest.POST("/rsvp", h.SubmitRSVP)
		guest.POST("/photos", photoLimit, h.UploadPhoto)
	}
}

// GetPage godoc
// @Summary Страница семьи по magic-ссылке
// @Tags guest
// @Produce json
// @Param token path string true "Magic token"
// @Success 200 {object} dto.GuestPageResponse
// @Failure 401 {object} apperrors.AppError
// @Failure 404 {object} apperrors.AppError
// @Router /guest/{token} [get]
func (h *GuestHandler) GetPage(c *gin.Context) {
	resp, err := h.guestService.GetPage(c.Request.Context(), h.GetDB(c), c.Param("token"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitRSVP godoc
// @Summary Ответ семьи на приглашение
// @Tags guest
// @Accept json
// @Produce json
// @Param token path string true "Magic token"
// @Param request body dto.RSVPRequest true "Ответы по членам семьи"
// @Success 200 {object} dto.RSVPResponse
// @Failure 400 {object} apperrors.AppError
// @Failure 403 {object} apperrors.AppError "RSVP_CUTOFF_PASSED"
// @Router /guest/{token}/rsvp [post]
func (h *GuestHandler) SubmitRSVP(c *gin.Context) {
	var req dto.RSVPRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	resp, err := h.guestService.SubmitRSVP(c.Request.Context(), h.GetDB(c), c.Param("token"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UploadPhoto godoc
// @Summary Загрузка фото гостем в галерею свадьбы
// @Tags guest
// @Accept multipart/form-data
// @Produce json
// @Param token path string true "Magic token"
// @Param file formData file true "Фото"
// @Success 201 {object} models.GalleryPhoto
// @Failure 413 {object} apperrors.AppError
// @Failure 429 {object} apperrors.AppError
// @Router /guest/{token}/photos [post]
func (h *GuestHandler) UploadPhoto(c *gin.Context) {
	// запас на служебные части multipart
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxPhotoSize+1<<20)

	file, err := c.FormFile("file")
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("File is required"))
		return
	}

	photo, err := h.guestService.UploadPhoto(c.Request.Context(), h.GetDB(c), c.Param("token"), file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, photo)
}
