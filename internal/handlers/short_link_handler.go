package handlers

import (
	"net/http"

	"wedding_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ShortLinkHandler struct {
	*BaseHandler
	links services.ShortLinkService
}

func NewShortLinkHandler(base *BaseHandler, links services.ShortLinkService) *ShortLinkHandler {
	return &ShortLinkHandler{BaseHandler: base, links: links}
}

func (h *ShortLinkHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/s/:code", h.Redirect)
}

// Redirect ведет короткую ссылку на страницу RSVP семьи
func (h *ShortLinkHandler) Redirect(c *gin.Context) {
	target, err := h.links.Resolve(c.Request.Context(), h.GetDB(c), c.Param("code"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, target)
}
