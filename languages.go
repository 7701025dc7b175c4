package glossa

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultNoTermsMarker is rendered in place of the glossary section when no
// term matched.
const DefaultNoTermsMarker = "Nenhum termo do glossário encontrado neste texto."

// NoTermsMarkers maps base language codes to the localized "no terms" marker.
var NoTermsMarkers = map[string]string{
	"pt": DefaultNoTermsMarker,
	"en": "No glossary terms found in this text.",
	"es": "No se encontraron términos del glosario en este texto.",
	"fr": "Aucun terme du glossaire trouvé dans ce texte.",
	"de": "In diesem Text wurden keine Glossarbegriffe gefunden.",
	"it": "Nessun termine del glossario trovato in questo testo.",
	"nl": "Geen woordenlijsttermen gevonden in deze tekst.",
	"pl": "Nie znaleziono terminów ze słownika w tym tekście.",
}

// GetNoTermsMarker returns the marker for langCode ("pt", "en_US", "es-MX"...).
// Falls back to the Portuguese marker.
func GetNoTermsMarker(langCode string) string {
	if marker, ok := NoTermsMarkers[BaseLang(langCode)]; ok {
		return marker
	}
	return DefaultNoTermsMarker
}

// NormalizeLocale converts a language code to the standard format (e.g., "es-ES" → "es_ES").
func NormalizeLocale(langCode string) string {
	return strings.ReplaceAll(langCode, "-", "_")
}

// BaseLang returns the lowercase base language of a BCP 47 or POSIX style
// code ("en" from "en_US", "zh" from "zh-Hant-TW"). Codes x/text cannot
// parse fall back to their first subtag.
func BaseLang(langCode string) string {
	code := strings.TrimSpace(langCode)
	if code == "" {
		return ""
	}
	if tag, err := language.Parse(strings.ReplaceAll(code, "_", "-")); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	return strings.ToLower(strings.Split(NormalizeLocale(code), "_")[0])
}
