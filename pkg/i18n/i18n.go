// Package i18n resolves message IDs against the embedded per-language
// toml catalogs. Unknown IDs and unknown languages fall back to the ID
// itself so a missing translation never breaks a response.
package i18n

import (
	"embed"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.toml
var catalogs embed.FS

type Localizer struct {
	bundle  *i18n.Bundle
	perLang map[string]*i18n.Localizer
}

// NewLocalizer loads <lang>.toml for each requested language. A catalog
// that fails to load is logged and skipped rather than aborting startup.
func NewLocalizer(languages ...string) Localizer {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	loc := Localizer{
		bundle:  bundle,
		perLang: make(map[string]*i18n.Localizer),
	}
	for _, lang := range languages {
		file := lang + ".toml"
		if _, err := bundle.LoadMessageFileFS(catalogs, file); err != nil {
			slog.Error("Failed to load i18n catalog",
				slog.String("lang", lang),
				slog.String("file", file),
				slog.String("error", err.Error()))
			continue
		}
		loc.perLang[lang] = i18n.NewLocalizer(bundle, lang)
	}
	return loc
}

func (l Localizer) Get(lang string, id string) string {
	localizer, ok := l.perLang[lang]
	if !ok {
		return id
	}

	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, One: id, Other: id},
	})
	if err != nil {
		slog.Info("i18n lookup missed", slog.String("id", id), slog.String("lang", lang), slog.String("error", err.Error()))
		return id
	}
	return msg
}
