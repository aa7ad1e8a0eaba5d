package email

import (
	"fmt"
	"html"
	"html/template"
	"strings"

	"wedding_backend/internal/models"
)

const layoutTemplate = "layout"

// LayoutData - данные общего макета писем гостям
type LayoutData struct {
	Lang        string
	Title       string
	Body        template.HTML // тело уже подготовлено планировщиком, не экранируется
	ImageURL    string
	CoupleNames string
	ButtonURL   string
	ButtonLabel string
	Footer      string
}

// Copy - локализованные строки писем
type Copy struct {
	SenderName   string // формат, %s - имена пары
	Footer       string // формат, %s - имена пары
	ButtonLabel  string
	PhotoThanks  string
	Confirmation ConfirmationCopy
}

// ConfirmationCopy - письмо-подтверждение RSVP, если у свадьбы нет шаблона CONFIRMATION
type ConfirmationCopy struct {
	Subject string // формат, %s - имена пары
	Body    string // формат: %s - имя семьи, %s - имена пары
}

var copies = map[models.Language]Copy{
	models.LanguageEN: newCopy("%s's Wedding", "You are receiving this email because you are invited to the wedding of %s.", "Open invitation", "Thank you for the photo! 📸",
		"RSVP received - %s", "Dear %s,\n\nThank you for your reply. We have saved your RSVP.\n\n%s"),
	models.LanguageES: newCopy("Boda de %s", "Recibes este correo porque estás invitado a la boda de %s.", "Abrir invitación", "¡Gracias por la foto! 📸",
		"Confirmación recibida - %s", "Querida familia %s:\n\nGracias por vuestra respuesta. Hemos guardado vuestra confirmación.\n\n%s"),
	models.LanguageCA: newCopy("Casament de %s", "Reps aquest correu perquè estàs convidat al casament de %s.", "Obrir invitació", "Gràcies per la foto! 📸",
		"Confirmació rebuda - %s", "Benvolguda família %s:\n\nGràcies per la vostra resposta. Hem desat la vostra confirmació.\n\n%s"),
	models.LanguageFR: newCopy("Mariage de %s", "Vous recevez cet e-mail car vous êtes invité au mariage de %s.", "Ouvrir l'invitation", "Merci pour la photo ! 📸",
		"Réponse reçue - %s", "Chère famille %s,\n\nMerci pour votre réponse. Nous l'avons bien enregistrée.\n\n%s"),
	models.LanguageIT: newCopy("Matrimonio di %s", "Ricevi questa email perché sei invitato al matrimonio di %s.", "Apri l'invito", "Grazie per la foto! 📸",
		"Risposta ricevuta - %s", "Cara famiglia %s,\n\ngrazie per la vostra risposta. L'abbiamo registrata.\n\n%s"),
	models.LanguageDE: newCopy("Hochzeit von %s", "Sie erhalten diese E-Mail, weil Sie zur Hochzeit von %s eingeladen sind.", "Einladung öffnen", "Danke für das Foto! 📸",
		"Antwort erhalten - %s", "Liebe Familie %s,\n\nvielen Dank für eure Antwort. Wir haben sie gespeichert.\n\n%s"),
	models.LanguagePT: newCopy("Casamento de %s", "Recebe este email porque está convidado para o casamento de %s.", "Abrir convite", "Obrigado pela foto! 📸",
		"Resposta recebida - %s", "Querida família %s,\n\nObrigado pela vossa resposta. Guardámos a vossa confirmação.\n\n%s"),
}

func newCopy(sender, footer, button, photoThanks, confirmSubject, confirmBody string) Copy {
	return Copy{
		SenderName:   sender,
		Footer:       footer,
		ButtonLabel:  button,
		PhotoThanks:  photoThanks,
		Confirmation: ConfirmationCopy{Subject: confirmSubject, Body: confirmBody},
	}
}

// CopyFor возвращает строки для языка; неизвестный язык -> EN
func CopyFor(lang models.Language) Copy {
	if c, ok := copies[lang]; ok {
		return c
	}
	return copies[models.LanguageEN]
}

// SenderName - отображаемое имя отправителя для свадьбы
func SenderName(lang models.Language, coupleNames string) string {
	return fmt.Sprintf(CopyFor(lang).SenderName, coupleNames)
}

// BodyToHTML превращает текстовое тело в HTML, если в нем нет разметки
func BodyToHTML(body string) template.HTML {
	if strings.Contains(body, "<") && strings.Contains(body, ">") {
		return template.HTML(body)
	}
	escaped := html.EscapeString(body)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// RenderLayout оборачивает тело письма в локализованный макет
func RenderLayout(r TemplateRenderer, lang models.Language, data LayoutData) (string, error) {
	c := CopyFor(lang)
	data.Lang = strings.ToLower(string(lang))
	if data.Footer == "" {
		data.Footer = fmt.Sprintf(c.Footer, data.CoupleNames)
	}
	if data.ButtonURL != "" && data.ButtonLabel == "" {
		data.ButtonLabel = c.ButtonLabel
	}
	return r.Render(layoutTemplate, data)
}
