package services

import (
	"time"

	"wedding_backend/internal/models"

	"github.com/go-playground/locales"
	"github.com/go-playground/locales/ca"
	"github.com/go-playground/locales/de"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	"github.com/go-playground/locales/fr"
	"github.com/go-playground/locales/it"
	"github.com/go-playground/locales/pt"
)

var translators = map[models.Language]locales.Translator{
	models.LanguageEN: en.New(),
	models.LanguageES: es.New(),
	models.LanguageCA: ca.New(),
	models.LanguageFR: fr.New(),
	models.LanguageIT: it.New(),
	models.LanguageDE: de.New(),
	models.LanguagePT: pt.New(),
}

// FormatDate - длинная дата на языке семьи ("12 de septiembre de 2026")
func FormatDate(t time.Time, lang models.Language) string {
	tr, ok := translators[lang]
	if !ok {
		tr = translators[models.LanguageEN]
	}
	return tr.FmtDateLong(t)
}
