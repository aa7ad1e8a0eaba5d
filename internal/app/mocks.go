package app

import (
	"context"

	"wedding_backend/internal/email"
	"wedding_backend/internal/logger"

	"github.com/google/uuid"
)

// LogEmailProvider пишет письма в лог вместо отправки. Используется, когда SMTP не настроен.
type LogEmailProvider struct{}

func (LogEmailProvider) Send(ctx context.Context, msg *email.Email) (string, error) {
	id := "log-" + uuid.NewString()
	logger.CtxInfo(ctx, "Email not sent: SMTP is not configured",
		"to", msg.To,
		"subject", msg.Subject,
		"message_id", id,
	)
	return id, nil
}

func (LogEmailProvider) Validate() error { return nil }
func (LogEmailProvider) Close() error    { return nil }
