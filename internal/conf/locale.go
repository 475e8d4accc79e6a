// conf/locale.go contains the user interface languages the application supports

package conf

import (
	"strings"

	"golang.org/x/text/language"
)

// Language is a selectable user interface language.
type Language struct {
	Code string // BCP 47 code, e.g. "hi"
	Name string // English display name shown in the selector
}

// SupportedLanguages lists the selector entries in display order.
var SupportedLanguages = []Language{
	{Code: "en", Name: "English"},
	{Code: "hi", Name: "Hindi"},
	{Code: "bn", Name: "Bengali"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
}

// DefaultLanguage is used when a request names no supported language.
const DefaultLanguage = "en"

var languageMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(SupportedLanguages))
	for _, l := range SupportedLanguages {
		tags = append(tags, language.MustParse(l.Code))
	}
	return language.NewMatcher(tags)
}()

// LanguageCodes returns the supported codes in display order.
func LanguageCodes() []string {
	codes := make([]string, 0, len(SupportedLanguages))
	for _, l := range SupportedLanguages {
		codes = append(codes, l.Code)
	}
	return codes
}

// IsSupportedLanguage reports whether code names one of the supported languages exactly.
func IsSupportedLanguage(code string) bool {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range SupportedLanguages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// NormalizeLanguage maps a code or Accept-Language value such as "es-MX" or
// "fr-CA,fr;q=0.9" to the closest supported language, falling back to English.
func NormalizeLanguage(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return DefaultLanguage
	}
	if IsSupportedLanguage(input) {
		return strings.ToLower(input)
	}

	tags, _, err := language.ParseAcceptLanguage(input)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages[idx].Code
}
