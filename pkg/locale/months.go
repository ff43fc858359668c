package locale

import (
	"strings"
	"time"
)

const (
	LangSpanish = "es"
	LangEnglish = "en"

	DefaultLang = LangSpanish
)

// Spanish month names in the form the revenue reports render them
// (lowercase, as the track's back office has always shown them).
var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// MonthName returns the display name of a month in the given language.
// Unknown languages fall back to English.
func MonthName(lang string, m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	switch strings.ToLower(lang) {
	case LangSpanish:
		return spanishMonths[m-1]
	default:
		return m.String()
	}
}
