// Package i18n holds the localized user-facing messages of erdgeo.
//
// Components never look translations up through global state. They receive
// a [Printer] at construction (usually the one returned by [NewPrinter]) and
// format every user-facing notice through it. Message keys are the English
// format strings, so an untranslated key still prints sensibly.
//
//	p := i18n.NewPrinter("fr")
//	msg := p.Sprintf(i18n.MsgOutputGenerated, "diagram_svg.py")
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Printer formats a localized message. *message.Printer satisfies it.
type Printer interface {
	Sprintf(key message.Reference, a ...any) string
}

// Message keys. Each is also the English rendering.
const (
	MsgOutputGenerated = "Output file %q successfully generated."
	MsgOutputFailed    = "Unable to generate file %q!"
	MsgTemplateProblem = "Problem with template %s."
	MsgSchemaProblem   = "Problem during the generation of the relational schema."
	MsgEncodingFailure = "Unable to read %q with any of the following encodings: %q."
	MsgStyleProblem    = "Problem with %q file %q."
	MsgStyleMissing    = "No %q file found at %q."
)

// DefaultLanguage is used when no language is requested.
const DefaultLanguage = "en"

var translations = map[language.Tag]map[string]string{
	language.French: {
		MsgOutputGenerated: "Fichier de sortie %q généré avec succès.",
		MsgOutputFailed:    "Impossible de générer le fichier %q !",
		MsgTemplateProblem: "Problème avec le gabarit %s.",
		MsgSchemaProblem:   "Problème lors de la génération du schéma relationnel.",
		MsgEncodingFailure: "Impossible de lire %q avec l'un des encodages suivants : %q.",
		MsgStyleProblem:    "Problème avec le fichier %q %q.",
		MsgStyleMissing:    "Aucun fichier %q trouvé en %q.",
	},
}

// Keys lists every message key in declaration order.
func Keys() []string {
	return []string{
		MsgOutputGenerated,
		MsgOutputFailed,
		MsgTemplateProblem,
		MsgSchemaProblem,
		MsgEncodingFailure,
		MsgStyleProblem,
		MsgStyleMissing,
	}
}

// Catalog builds the message catalog. English is the fallback language.
func Catalog() (catalog.Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range Keys() {
		if err := b.SetString(language.English, key, key); err != nil {
			return nil, err
		}
	}
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}
	return b, nil
}

// Languages returns the languages with a full translation, English first.
func Languages() []string {
	return []string{"en", "fr"}
}

// NewPrinter returns a printer for lang ("en", "fr", "fr-CA", ...).
// Unknown or malformed tags fall back to English.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil || lang == "" {
		tag = language.English
	}
	cat, err := Catalog()
	if err != nil {
		return message.NewPrinter(tag)
	}
	return message.NewPrinter(tag, message.Catalog(cat))
}

// OrDefault returns p, or an English printer when p is nil.
func OrDefault(p Printer) Printer {
	if p == nil {
		return NewPrinter(DefaultLanguage)
	}
	return p
}
