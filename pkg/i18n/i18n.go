// Package i18n carga las traducciones embebidas (en, es) para recibos, reportes y mensajes de la CLI.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var localeFS embed.FS

// Translator traduce IDs de mensaje a un idioma concreto.
type Translator struct {
	lang      string
	localizer *i18n.Localizer
}

var bundle = mustBundle()

func mustBundle() *i18n.Bundle {
	b := i18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		panic(fmt.Sprintf("i18n: leer locales embebidos: %v", err))
	}
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + f.Name())
		if err != nil {
			panic(fmt.Sprintf("i18n: leer %s: %v", f.Name(), err))
		}
		if _, err := b.ParseMessageFileBytes(data, f.Name()); err != nil {
			panic(fmt.Sprintf("i18n: parsear %s: %v", f.Name(), err))
		}
	}
	return b
}

// New construye un Translator para lang ("en", "es"...). Idiomas desconocidos caen a inglés.
func New(lang string) *Translator {
	return &Translator{lang: lang, localizer: i18n.NewLocalizer(bundle, lang, "en")}
}

// Lang devuelve el idioma solicitado.
func (t *Translator) Lang() string { return t.lang }

// T traduce messageID con datos de plantilla opcionales. Si el ID no existe devuelve el ID.
func (t *Translator) T(messageID string, data ...map[string]any) string {
	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if len(data) > 0 {
		cfg.TemplateData = data[0]
	}
	msg, err := t.localizer.Localize(cfg)
	if err != nil {
		return messageID
	}
	return msg
}
