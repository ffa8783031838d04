package i18n

import "testing"

func TestNewPrinter(t *testing.T) {
	tests := []struct {
		name string
		lang string
		key  string
		args []any
		want string
	}{
		{"english", "en", MsgOutputGenerated, []any{"a_svg.py"}, `Output file "a_svg.py" successfully generated.`},
		{"french", "fr", MsgOutputGenerated, []any{"a_svg.py"}, `Fichier de sortie "a_svg.py" généré avec succès.`},
		{"regional french", "fr-CA", MsgSchemaProblem, nil, "Problème lors de la génération du schéma relationnel."},
		{"unknown language", "de", MsgTemplateProblem, []any{"x.json"}, "Problem with template x.json."},
		{"malformed tag", "not a tag!", MsgTemplateProblem, []any{"x.json"}, "Problem with template x.json."},
		{"empty", "", MsgOutputFailed, []any{"geo.json"}, `Unable to generate file "geo.json"!`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPrinter(tt.lang)
			if got := p.Sprintf(tt.key, tt.args...); got != tt.want {
				t.Errorf("Sprintf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTranslationsCoverAllKeys(t *testing.T) {
	for tag, msgs := range translations {
		for _, key := range Keys() {
			if _, ok := msgs[key]; !ok {
				t.Errorf("%s: missing translation for %q", tag, key)
			}
		}
	}
}

func TestOrDefault(t *testing.T) {
	if OrDefault(nil) == nil {
		t.Fatal("OrDefault(nil) returned nil")
	}
	p := NewPrinter("fr")
	if OrDefault(p) != Printer(p) {
		t.Error("OrDefault should return the given printer")
	}
}
