package handlers

import (
	"net/http"

	"wedding_backend/internal/services"
	"wedding_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const twilioSignatureHeader = "X-Twilio-Signature"

// WebhookHandler принимает входящие WhatsApp сообщения от Twilio
type WebhookHandler struct {
	*BaseHandler
	webhookService services.WhatsAppWebhookService
}

func NewWebhookHandler(base *BaseHandler, webhookService services.WhatsAppWebhookService) *WebhookHandler {
	return &WebhookHandler{
		BaseHandler:    base,
		webhookService: webhookService,
	}
}

func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/webhooks/twilio/whatsapp", h.WhatsApp)
}

// WhatsApp godoc
// @Summary Входящее WhatsApp сообщение (Twilio)
// @Tags webhooks
// @Accept x-www-form-urlencoded
// @Produce xml
// @Success 200 {string} string "TwiML"
// @Failure 400 {object} apperrors.AppError "MISSING_SIGNATURE"
// @Failure 403 {object} apperrors.AppError "INVALID_SIGNATURE"
// @Router /webhooks/twilio/whatsapp [post]
func (h *WebhookHandler) WhatsApp(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Invalid form body"))
		return
	}

	params := make(map[string]string, len(c.Request.PostForm))
	for key, values := range c.Request.PostForm {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	msg := &services.InboundMessage{
		URL:       requestURL(c),
		Signature: c.GetHeader(twilioSignatureHeader),
		Params:    params,
	}
	if err := h.webhookService.Verify(msg); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	twiml := h.webhookService.Handle(c.Request.Context(), h.GetDB(c), msg)
	c.Data(http.StatusOK, "text/xml; charset=utf-8", []byte(twiml))
}

// requestURL восстанавливает адрес, по которому Twilio считал подпись
func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + c.Request.Host + c.Request.RequestURI
}
