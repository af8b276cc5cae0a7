package i18n

import (
	"embed"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

//go:embed active.*.toml
var localeFS embed.FS

// DefaultLocale is used when no locale is configured or the configured one is unknown
const DefaultLocale = "ko"

// Translator is a thin wrapper around go-i18n's Bundle/Localizer bound to one locale.
type Translator struct {
	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	locale    language.Tag
	logger    *zap.Logger
}

// NewTranslator builds a Translator for locale, falling back to Korean.
// Translations are loaded from the embedded active.*.toml files.
func NewTranslator(locale string, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}

	defaultTag := language.Korean
	tag, err := language.Parse(locale)
	if err != nil {
		tag = defaultTag
	}

	bundle := i18n.NewBundle(defaultTag)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	for _, file := range []string{"active.ko.toml", "active.en.toml"} {
		if _, err := bundle.LoadMessageFileFS(localeFS, file); err != nil {
			logger.Warn("i18n: failed to load message file", zap.String("file", file), zap.Error(err))
		}
	}

	return &Translator{
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, tag.String(), defaultTag.String()),
		locale:    tag,
		logger:    logger,
	}
}

// Locale returns the active locale tag
func (t *Translator) Locale() language.Tag {
	return t.locale
}

// T renders the message identified by key.
// Missing keys fall back to the default locale, then to the key itself.
func (t *Translator) T(key string, data map[string]any) string {
	if key == "" {
		return ""
	}

	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		t.logger.Debug("i18n: localize failed", zap.String("key", key), zap.Error(err))
		return key
	}
	return msg
}
