package email

import "context"

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет письмо и возвращает Message-ID
	Send(ctx context.Context, email *Email) (string, error)

	// Validate проверяет конфигурацию провайдера
	Validate() error

	// Close закрывает соединение с провайдером
	Close() error
}

// TemplateRenderer определяет интерфейс для рендеринга шаблонов
type TemplateRenderer interface {
	// Render рендерит шаблон с данными
	Render(templateName string, data any) (string, error)

	// AddTemplate добавляет шаблон в рендерер
	AddTemplate(name string, template string) error
}
