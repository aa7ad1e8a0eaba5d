package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var ErrProviderNotConfigured = errors.New("messaging provider is not configured")

// WhatsAppMessage - исходящее WhatsApp сообщение. ContentSID имеет приоритет
// над Body: отправляется одобренный шаблон с переменными.
type WhatsAppMessage struct {
	To               string
	Body             string
	MediaURL         string
	ContentSID       string
	ContentVariables map[string]string
}

// Client - провайдер SMS/WhatsApp
type Client interface {
	SendSMS(ctx context.Context, to, body string) (string, error)
	SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (string, error)
	// ValidateSignature проверяет X-Twilio-Signature для URL и form-параметров
	ValidateSignature(url string, params map[string]string, signature string) bool
	// DownloadMedia скачивает вложение входящего сообщения
	DownloadMedia(ctx context.Context, mediaURL string, maxBytes int64) ([]byte, string, error)
}

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	SMSFrom      string
	WhatsAppFrom string
}

type twilioClient struct {
	cfg        TwilioConfig
	rest       *twilio.RestClient
	validator  twclient.RequestValidator
	httpClient *http.Client
}

func NewTwilioClient(cfg TwilioConfig) Client {
	return &twilioClient{
		cfg: cfg,
		rest: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: cfg.AccountSID,
			Password: cfg.AuthToken,
		}),
		validator:  twclient.NewRequestValidator(cfg.AuthToken),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *twilioClient) configured() bool {
	return c.cfg.AccountSID != "" && c.cfg.AuthToken != ""
}

func (c *twilioClient) SendSMS(ctx context.Context, to, body string) (string, error) {
	if !c.configured() || c.cfg.SMSFrom == "" {
		return "", ErrProviderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(E164(to))
	params.SetFrom(c.cfg.SMSFrom)
	params.SetBody(body)

	return c.create(params)
}

func (c *twilioClient) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (string, error) {
	if !c.configured() || c.cfg.WhatsAppFrom == "" {
		return "", ErrProviderNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(WhatsAppAddress(msg.To))
	params.SetFrom(WhatsAppAddress(c.cfg.WhatsAppFrom))

	if msg.ContentSID != "" {
		params.SetContentSid(msg.ContentSID)
		if len(msg.ContentVariables) > 0 {
			vars, err := json.Marshal(msg.ContentVariables)
			if err != nil {
				return "", fmt.Errorf("encode content variables: %w", err)
			}
			params.SetContentVariables(string(vars))
		}
	} else {
		params.SetBody(msg.Body)
		if msg.MediaURL != "" {
			params.SetMediaUrl([]string{msg.MediaURL})
		}
	}

	return c.create(params)
}

func (c *twilioClient) create(params *openapi.CreateMessageParams) (string, error) {
	resp, err := c.rest.Api.CreateMessage(params)
	if err != nil {
		return "", fmt.Errorf("twilio create message: %w", err)
	}
	if resp.Sid == nil {
		return "", errors.New("twilio create message: empty sid")
	}
	return *resp.Sid, nil
}

func (c *twilioClient) ValidateSignature(url string, params map[string]string, signature string) bool {
	if c.cfg.AuthToken == "" || signature == "" {
		return false
	}
	return c.validator.Validate(url, params, signature)
}

func (c *twilioClient) DownloadMedia(ctx context.Context, mediaURL string, maxBytes int64) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, "", err
	}
	// медиа Twilio отдается только с basic auth аккаунта
	req.SetBasicAuth(c.cfg.AccountSID, c.cfg.AuthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download media: unexpected status %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", fmt.Errorf("read media: %w", err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", fmt.Errorf("media exceeds %d bytes", maxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
