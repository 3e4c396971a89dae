package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedMessages(t *testing.T) {
	m, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Continue", m.T(EN, "cart.continue"))
	assert.Equal(t, "متابعة التسوق", m.T(AR, "cart.continue"))
}

func TestEveryArabicKeyExistsInEnglish(t *testing.T) {
	m := MustLoad()
	en := make(map[string]bool)
	for _, k := range m.Keys(EN) {
		en[k] = true
	}
	for _, k := range m.Keys(AR) {
		assert.True(t, en[k], "key %q has no English fallback", k)
	}
}

func TestFallbackToEnglish(t *testing.T) {
	m := New(map[Lang]map[string]string{
		EN: {"greet": "Hello %s", "only.en": "English only"},
		AR: {"greet": "مرحبا %s"},
	})

	assert.Equal(t, "مرحبا Sara", m.T(AR, "greet", "Sara"))
	assert.Equal(t, "English only", m.T(AR, "only.en"))
	assert.Equal(t, "Hello Sara", m.T(Lang("fr"), "greet", "Sara"))
	assert.Equal(t, "Hello Sara", m.T(Lang(""), "greet", "Sara"))
	assert.Equal(t, "missing.key", m.T(AR, "missing.key"))
}

func TestLiteralMatchers(t *testing.T) {
	tests := []struct {
		name  string
		match func(string) bool
		in    string
		want  bool
	}{
		{"menu", IsMenuCommand, "  MENU ", true},
		{"hi", IsMenuCommand, "Hi", true},
		{"arabic menu", IsMenuCommand, "القائمة الرئيسية", true},
		{"not menu", IsMenuCommand, "menus", false},
		{"language", IsLanguageCommand, "Language", true},
		{"arabic language", IsLanguageCommand, "لغة", true},
		{"yes", IsYes, "YES", true},
		{"arabic yes", IsYes, "نعم", true},
		{"no", IsNo, "No", true},
		{"arabic no", IsNo, "لا", true},
		{"maybe", IsYes, "maybe", false},
		{"none", IsNone, "NoNe", true},
		{"order number", IsNone, "P1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.match(tt.in))
		})
	}
}
