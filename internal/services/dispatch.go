package services

import (
	"context"
	"errors"

	"wedding_backend/internal/email"
	"wedding_backend/internal/logger"
	"wedding_backend/internal/messaging"
	"wedding_backend/internal/models"
)

// DispatchMessage - уже отрендеренное сообщение для одного адресата
type DispatchMessage struct {
	To          string
	Language    models.Language
	CoupleNames string
	Subject     string
	Body        string
	ImageURL    string
	ButtonURL   string

	// только WhatsApp
	Mode              models.WhatsAppMode
	ContentTemplateID string
	ContentVariables  map[string]string
}

// DispatchResult - единый результат адаптеров каналов
type DispatchResult struct {
	Success   bool
	MessageID string
	WaLink    string
	Error     string
}

func failed(err error) DispatchResult {
	return DispatchResult{Error: err.Error()}
}

type ChannelAdapter interface {
	Send(ctx context.Context, msg DispatchMessage) DispatchResult
}

// Dispatcher выбирает адаптер по каналу
type Dispatcher struct {
	adapters map[models.Channel]ChannelAdapter
}

func NewDispatcher(emailAdapter, smsAdapter, whatsAppAdapter ChannelAdapter) *Dispatcher {
	return &Dispatcher{adapters: map[models.Channel]ChannelAdapter{
		models.ChannelEmail:    emailAdapter,
		models.ChannelSMS:      smsAdapter,
		models.ChannelWhatsApp: whatsAppAdapter,
	}}
}

func (d *Dispatcher) Send(ctx context.Context, channel models.Channel, msg DispatchMessage) DispatchResult {
	adapter, ok := d.adapters[channel]
	if !ok || adapter == nil {
		return DispatchResult{Error: "Unsupported channel: " + string(channel)}
	}
	return adapter.Send(ctx, msg)
}

// ---------------- Email ----------------

type EmailAdapter struct {
	provider email.Provider
	renderer email.TemplateRenderer
}

func NewEmailAdapter(provider email.Provider, renderer email.TemplateRenderer) *EmailAdapter {
	return &EmailAdapter{provider: provider, renderer: renderer}
}

func (a *EmailAdapter) Send(ctx context.Context, msg DispatchMessage) DispatchResult {
	htmlBody, err := email.RenderLayout(a.renderer, msg.Language, email.LayoutData{
		Title:       msg.Subject,
		Body:        email.BodyToHTML(msg.Body),
		ImageURL:    msg.ImageURL,
		CoupleNames: msg.CoupleNames,
		ButtonURL:   msg.ButtonURL,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Failed to render email layout", err)
		return failed(err)
	}

	id, err := a.provider.Send(ctx, &email.Email{
		FromName: email.SenderName(msg.Language, msg.CoupleNames),
		To:       []string{msg.To},
		Subject:  msg.Subject,
		Body:     msg.Body,
		HTMLBody: htmlBody,
	})
	if err != nil {
		logger.CtxWithError(ctx, "Email dispatch failed", err, "to", msg.To)
		return failed(err)
	}
	return DispatchResult{Success: true, MessageID: id}
}

// ---------------- SMS ----------------

type SMSAdapter struct {
	client messaging.Client
}

func NewSMSAdapter(client messaging.Client) *SMSAdapter {
	return &SMSAdapter{client: client}
}

func (a *SMSAdapter) Send(ctx context.Context, msg DispatchMessage) DispatchResult {
	sid, err := a.client.SendSMS(ctx, messaging.E164(msg.To), msg.Body)
	if err != nil {
		logger.CtxWithError(ctx, "SMS dispatch failed", err)
		return failed(err)
	}
	return DispatchResult{Success: true, MessageID: sid}
}

// ---------------- WhatsApp ----------------

type WhatsAppAdapter struct {
	client messaging.Client
}

func NewWhatsAppAdapter(client messaging.Client) *WhatsAppAdapter {
	return &WhatsAppAdapter{client: client}
}

func (a *WhatsAppAdapter) Send(ctx context.Context, msg DispatchMessage) DispatchResult {
	if msg.Mode == models.WhatsAppModeLinks || msg.Mode == "" {
		// провайдер не вызывается, админ отправляет ссылку сам
		return DispatchResult{Success: true, WaLink: messaging.WaMeLink(msg.To, msg.Body)}
	}

	out := messaging.WhatsAppMessage{To: messaging.WhatsAppAddress(msg.To)}
	if msg.ContentTemplateID != "" {
		out.ContentSID = msg.ContentTemplateID
		out.ContentVariables = msg.ContentVariables
	} else {
		out.Body = msg.Body
		out.MediaURL = msg.ImageURL
	}

	sid, err := a.client.SendWhatsApp(ctx, out)
	if err != nil {
		if errors.Is(err, messaging.ErrProviderNotConfigured) {
			logger.CtxWarn(ctx, "WhatsApp provider is not configured")
		} else {
			logger.CtxWithError(ctx, "WhatsApp dispatch failed", err)
		}
		return failed(err)
	}
	return DispatchResult{Success: true, MessageID: sid}
}
