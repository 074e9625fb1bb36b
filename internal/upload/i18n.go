package upload

import (
	"embed"
	"path"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/zhubert/chatlog/internal/logger"
)

// Message IDs of the localized status texts.
const (
	msgSelectZip  = "upload_select_zip"
	msgNoFile     = "upload_no_file"
	msgInProgress = "upload_in_progress"
	msgSucceeded  = "upload_succeeded"
	msgFailed     = "upload_failed"
	msgDropHint   = "drop_hint"
	msgImported   = "import_completed"
)

//go:embed locales/*.toml
var localeFS embed.FS

// newBundle loads every embedded locale file. English is the fallback.
func newBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		logger.WithComponent("upload").Error("failed to list locales", "error", err)
		return bundle
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(localeFS, path.Join("locales", e.Name())); err != nil {
			logger.WithComponent("upload").Error("failed to load locale", "file", e.Name(), "error", err)
		}
	}
	return bundle
}

// Translator renders localized upload texts.
type Translator struct {
	localizer *i18n.Localizer
}

// NewTranslator returns a Translator for locale, falling back to English
// for missing messages.
func NewTranslator(locale string) *Translator {
	return &Translator{localizer: i18n.NewLocalizer(newBundle(), locale, language.English.String())}
}

// Text returns the message with the given ID, or the ID itself if it
// cannot be rendered.
func (t *Translator) Text(id string, data map[string]any) string {
	s, err := t.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		logger.WithComponent("upload").Warn("missing translation", "id", id, "error", err)
		return id
	}
	return s
}

// Count returns a pluralized message for n.
func (t *Translator) Count(id string, n int) string {
	s, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  n,
		TemplateData: map[string]any{"Count": n},
	})
	if err != nil {
		logger.WithComponent("upload").Warn("missing translation", "id", id, "error", err)
		return id
	}
	return s
}
