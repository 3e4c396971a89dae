// Package i18n resolves message keys to display strings for the two
// storefront languages. English is the fallback for every lookup.
package i18n

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed messages/*.yaml
var messageFiles embed.FS

// Lang is a supported conversation language. The zero value means "not chosen".
type Lang string

const (
	EN Lang = "en"
	AR Lang = "ar"
)

// Fallback is used for missing keys and unrecognised languages.
const Fallback = EN

// Valid reports whether l is a supported language.
func (l Lang) Valid() bool {
	return l == EN || l == AR
}

// Messages is an immutable key/language lookup table.
type Messages struct {
	tables map[Lang]map[string]string
}

// Load reads the embedded message catalog.
func Load() (*Messages, error) {
	m := &Messages{tables: make(map[Lang]map[string]string)}
	for _, lang := range []Lang{EN, AR} {
		data, err := messageFiles.ReadFile("messages/" + string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read %s messages: %w", lang, err)
		}
		table := make(map[string]string)
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse %s messages: %w", lang, err)
		}
		m.tables[lang] = table
	}
	return m, nil
}

// MustLoad is Load for startup paths where a broken binary should not run.
func MustLoad() *Messages {
	m, err := Load()
	if err != nil {
		panic(err)
	}
	return m
}

// New builds a Messages from in-memory tables.
func New(tables map[Lang]map[string]string) *Messages {
	return &Messages{tables: tables}
}

// Lookup returns the raw string for key in lang, falling back to English.
func (m *Messages) Lookup(lang Lang, key string) (string, bool) {
	if s, ok := m.tables[lang][key]; ok && lang.Valid() {
		return s, true
	}
	s, ok := m.tables[Fallback][key]
	return s, ok
}

// T resolves key and formats it with args. A key unknown in every language
// renders as the key itself.
func (m *Messages) T(lang Lang, key string, args ...any) string {
	s, ok := m.Lookup(lang, key)
	if !ok {
		s = key
	}
	if len(args) == 0 {
		return s
	}
	return fmt.Sprintf(s, args...)
}

// Keys returns every key known for lang.
func (m *Messages) Keys(lang Lang) []string {
	keys := make([]string, 0, len(m.tables[lang]))
	for k := range m.tables[lang] {
		keys = append(keys, k)
	}
	return keys
}

var (
	languageCommands = set("language", "لغة", "اللغة")
	menuCommands     = set("menu", "hi", "hello", "القائمة الرئيسية", "القائمة")
	yesWords         = set("yes", "y", "نعم")
	noWords          = set("no", "n", "لا")
	noneWords        = set("none", "لا يوجد")
)

func set(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// Normalize trims and lower-cases user input for literal matching.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func IsLanguageCommand(s string) bool { return languageCommands[Normalize(s)] }
func IsMenuCommand(s string) bool     { return menuCommands[Normalize(s)] }
func IsYes(s string) bool             { return yesWords[Normalize(s)] }
func IsNo(s string) bool              { return noWords[Normalize(s)] }
func IsNone(s string) bool            { return noneWords[Normalize(s)] }
