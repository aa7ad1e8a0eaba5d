package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх gomail
type SMTPProvider struct {
	config *SMTPConfig
	dialer *gomail.Dialer
}

// NewSMTPProvider создает новый SMTP провайдер; пустые Port и Timeout берутся из DefaultConfig
func NewSMTPProvider(config *SMTPConfig) *SMTPProvider {
	defaults := DefaultConfig()
	if config.Port == 0 {
		config.Port = defaults.Port
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	d := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)
	d.SSL = config.UseTLS
	d.TLSConfig = &tls.Config{ServerName: config.Host}

	return &SMTPProvider{
		config: config,
		dialer: d,
	}
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(ctx context.Context, email *Email) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	if len(email.To) == 0 {
		return "", fmt.Errorf("email has no recipients")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	messageID := fmt.Sprintf("<%s@%s>", uuid.NewString(), p.messageDomain())
	m := p.buildMessage(email, messageID)

	done := make(chan error, 1)
	go func() { done <- p.dialer.DialAndSend(m) }()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-done:
		if err != nil {
			return "", fmt.Errorf("smtp send: %w", err)
		}
		return messageID, nil
	}
}

// Validate проверяет конфигурацию SMTP
func (p *SMTPProvider) Validate() error {
	if p.config.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}

	if p.config.Port <= 0 || p.config.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", p.config.Port)
	}

	if p.config.FromEmail == "" {
		return fmt.Errorf("SMTP from address is required")
	}

	return nil
}

// Close закрывает соединение (gomail открывает соединение на каждую отправку)
func (p *SMTPProvider) Close() error {
	return nil
}

func (p *SMTPProvider) buildMessage(email *Email, messageID string) *gomail.Message {
	m := gomail.NewMessage(gomail.SetCharset("UTF-8"))

	from := email.From
	if from == "" {
		from = p.config.FromEmail
	}
	name := email.FromName
	if name == "" {
		name = p.config.FromName
	}
	m.SetAddressHeader("From", from, name)
	m.SetHeader("To", email.To...)
	if email.ReplyTo != "" {
		m.SetHeader("Reply-To", email.ReplyTo)
	}
	m.SetHeader("Subject", email.Subject)
	m.SetHeader("Message-ID", messageID)

	switch {
	case email.HTMLBody != "" && email.Body != "":
		m.SetBody("text/plain", email.Body)
		m.AddAlternative("text/html", email.HTMLBody)
	case email.HTMLBody != "":
		m.SetBody("text/html", email.HTMLBody)
	default:
		m.SetBody("text/plain", email.Body)
	}

	return m
}

func (p *SMTPProvider) messageDomain() string {
	if at := strings.LastIndex(p.config.FromEmail, "@"); at >= 0 && at < len(p.config.FromEmail)-1 {
		return p.config.FromEmail[at+1:]
	}
	return "localhost"
}
