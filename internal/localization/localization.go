package localization

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed translations/*.yaml
var translationsFS embed.FS

const DefaultLanguage = "en"

var Languages = []string{"en", "vi"}

type Service struct {
	translations map[string]map[string]interface{}
	fallback     string
}

// NewService loads the embedded translations. fallback is used for unknown
// languages and missing keys; an unsupported fallback becomes English.
func NewService(fallback string) (*Service, error) {
	s := &Service{
		translations: make(map[string]map[string]interface{}),
		fallback:     DefaultLanguage,
	}

	for _, lang := range Languages {
		data, err := translationsFS.ReadFile(fmt.Sprintf("translations/%s.yaml", lang))
		if err != nil {
			return nil, fmt.Errorf("read %s translations: %w", lang, err)
		}

		var translations map[string]interface{}
		if err := yaml.Unmarshal(data, &translations); err != nil {
			return nil, fmt.Errorf("parse %s translations: %w", lang, err)
		}

		s.translations[lang] = translations
	}

	if _, ok := s.translations[fallback]; ok {
		s.fallback = fallback
	}
	return s, nil
}

// Get retrieves a translation by key for the given language
// Key format: "section.subsection.key" or "section.key"
// Params can contain placeholders like {{name}}, {{amount}}, etc.
func (s *Service) Get(lang, key string, params map[string]interface{}) string {
	text, ok := s.lookup(s.Match(lang), key)
	if !ok {
		if text, ok = s.lookup(s.fallback, key); !ok {
			return key
		}
	}
	return s.replacePlaceholders(text, params)
}

// Match picks a supported language from a cookie value or an Accept-Language
// header such as "vi-VN,vi;q=0.9,en;q=0.8".
func (s *Service) Match(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := s.translations[base]; ok {
			return base
		}
	}
	return s.fallback
}

func (s *Service) lookup(lang, key string) (string, bool) {
	var current interface{} = s.translations[lang]
	for _, part := range strings.Split(key, ".") {
		m, ok := current.(map[string]interface{})
		if !ok {
			return "", false
		}
		current = m[part]
	}
	text, ok := current.(string)
	return text, ok
}

func (s *Service) replacePlaceholders(text string, params map[string]interface{}) string {
	if params == nil {
		return text
	}

	result := text
	for key, value := range params {
		placeholder := fmt.Sprintf("{{%s}}", key)
		result = strings.ReplaceAll(result, placeholder, fmt.Sprint(value))
	}

	return result
}
