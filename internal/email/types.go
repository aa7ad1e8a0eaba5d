package email

// Email представляет структуру email сообщения
type Email struct {
	From     string // пусто -> адрес из конфигурации
	FromName string // отображаемое имя отправителя
	To       []string
	ReplyTo  string
	Subject  string
	Body     string
	HTMLBody string
}
