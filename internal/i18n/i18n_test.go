// internal/i18n/i18n_test.go
package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTranslations(t *testing.T) {
	err := InitializeWithPath("./locales")
	assert.NoError(t, err)

	assert.Equal(t, "Logged in successfully", T("en", KeyAuthLoginSuccess))
	assert.Equal(t, "Umeingia kikamilifu", T("sw", KeyAuthLoginSuccess))

	// Unknown language falls back to English
	assert.Equal(t, "Logged in successfully", T("fr", KeyAuthLoginSuccess))

	// Unknown key falls back to the key itself
	assert.Equal(t, "no.such.key", T("en", "no.such.key"))
}

func TestSupportedLanguages(t *testing.T) {
	err := InitializeWithPath("./locales")
	assert.NoError(t, err)

	langs := GetSupportedLanguages()
	assert.Contains(t, langs, "en")
	assert.Contains(t, langs, "sw")
}
