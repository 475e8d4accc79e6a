package conf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLanguage(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "en"},
		{"en", "en"},
		{"HI", "hi"},
		{" bn ", "bn"},
		{"es-MX", "es"},
		{"fr-CA,fr;q=0.9,en;q=0.8", "fr"},
		{"de-DE", "en"},
		{"not a language!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeLanguage(tt.input))
		})
	}
}

func TestLanguageCodesOrder(t *testing.T) {
	assert.Equal(t, []string{"en", "hi", "bn", "es", "fr"}, LanguageCodes())
}

func TestEnvValidators(t *testing.T) {
	assert.NoError(t, validateEnvBool("true"))
	assert.Error(t, validateEnvBool("yes please"))
	assert.NoError(t, validateEnvPort("8080"))
	assert.Error(t, validateEnvPort("70000"))
	assert.NoError(t, validateEnvDuration("90m"))
	assert.Error(t, validateEnvDuration("soon"))
	assert.NoError(t, validateEnvURL("https://example.com/model.tflite"))
	assert.Error(t, validateEnvURL("file:///etc/passwd"))
	assert.NoError(t, validateEnvLanguage("es"))
	assert.Error(t, validateEnvLanguage("de"))
}
