package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
	"github.com/matzehuels/erdgeo/pkg/mcd"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"colors/plain.json": {Data: []byte(`{"entity_color": "#FFF", "shared": "from colors", "card_color": null}`)},
		"shapes/box.json":   {Data: []byte("// comment\n{\"margin_size\": 10, \"shared\": \"from shapes\",}")},
		"shapes/list.json":  {Data: []byte(`[1, 2]`)},
		"shapes/null.json":  {Data: []byte(`null`)},
	}
}

func TestLoadBundled(t *testing.T) {
	s, err := NewLoader("plain", "box", testFS(), nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if s["shared"] != "from shapes" {
		t.Errorf("shared = %v, want shapes value to win", s["shared"])
	}
	if s["margin_size"] != float64(10) {
		t.Errorf("margin_size = %v, want 10", s["margin_size"])
	}
	v, ok := s[TransparentColor]
	if !ok || v != nil {
		t.Errorf("transparent_color = %v (present %v), want nil and present", v, ok)
	}
}

func TestLoadEmbeddedDefaults(t *testing.T) {
	s, err := NewLoader("", "", nil, nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, ok := s["entity_color"]; !ok {
		t.Error("default colors missing entity_color")
	}
	if _, ok := s["margin_size"]; !ok {
		t.Error("default shapes missing margin_size")
	}
	for _, name := range []string{"ocean"} {
		if _, err := NewLoader(name, "trebuchet", nil, nil, nil).Load(); err != nil {
			t.Errorf("bundled %s/trebuchet: %v", name, err)
		}
	}
}

func TestLoadTransparentOverridesDocuments(t *testing.T) {
	fsys := testFS()
	fsys["colors/tc.json"] = &fstest.MapFile{Data: []byte(`{"transparent_color": "#123456"}`)}

	s, err := NewLoader("tc", "box", fsys, nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s[TransparentColor] != nil {
		t.Errorf("transparent_color = %v, want nil", s[TransparentColor])
	}
}

func TestLoadUserPathWins(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "mine.json")
	if err := os.WriteFile(user, []byte(`{"entity_color": "#ABCDEF"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	// Without the suffix: ".json" is appended.
	s, err := NewLoader(filepath.Join(dir, "mine"), "box", testFS(), nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s["entity_color"] != "#ABCDEF" {
		t.Errorf("entity_color = %v, want user value", s["entity_color"])
	}

	// With the suffix.
	s, err = NewLoader(user, "box", testFS(), nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s["entity_color"] != "#ABCDEF" {
		t.Errorf("entity_color = %v, want user value", s["entity_color"])
	}
}

func TestLoadFallsBackToBundledByBaseName(t *testing.T) {
	s, err := NewLoader(filepath.Join(t.TempDir(), "plain.json"), "box", testFS(), nil, nil).Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if s["entity_color"] != "#FFF" {
		t.Errorf("entity_color = %v, want bundled value", s["entity_color"])
	}
}

func TestLoadInvalidUserDocumentDoesNotFallBack(t *testing.T) {
	dir := t.TempDir()
	user := filepath.Join(dir, "plain.json")
	if err := os.WriteFile(user, []byte(`{broken`), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewLoader(user, "box", testFS(), nil, nil).Load()
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("err = %v, want CONFIG", err)
	}
	if !strings.Contains(err.Error(), user) {
		t.Errorf("error %q does not name %s", err, user)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name   string
		colors string
		shapes string
		want   []string
	}{
		{"missing colors", "absent", "box", []string{`"colors"`, "colors/absent.json"}},
		{"missing shapes", "plain", "absent", []string{`"shapes"`, "shapes/absent.json"}},
		{"array document", "plain", "list", []string{"shapes/list.json"}},
		{"null document", "plain", "null", []string{"shapes/null.json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewLoader(tt.colors, tt.shapes, testFS(), nil, nil).Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if s != nil {
				t.Error("style must not be partially returned")
			}
			if !errors.Is(err, errors.ErrCodeConfig) {
				t.Errorf("code = %v, want CONFIG", errors.GetCode(err))
			}
			for _, w := range tt.want {
				if !strings.Contains(err.Error(), w) {
					t.Errorf("error %q does not contain %q", err, w)
				}
			}
		})
	}
}

func TestLoadLocalizedError(t *testing.T) {
	_, err := NewLoader("absent", "box", testFS(), i18n.NewPrinter("fr"), nil).Load()
	if err == nil || !strings.Contains(err.Error(), "Aucun fichier") {
		t.Errorf("err = %v, want French message", err)
	}
}

func TestColorKeys(t *testing.T) {
	s := Style{
		"zeta_color":       "#000",
		"alpha_color":      nil,
		TransparentColor:   nil,
		"margin_size":      3.0,
		"color_of_nothing": "x",
	}
	want := []string{"alpha_color", "transparent_color", "zeta_color"}
	if diff := cmp.Diff(want, s.ColorKeys()); diff != "" {
		t.Errorf("ColorKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestColor(t *testing.T) {
	s := Style{"a_color": "#111", "b_color": "", "c_color": nil}
	tests := []struct {
		key  string
		want mcd.Value
	}{
		{"a_color", mcd.String("#111")},
		{"b_color", mcd.Null()},
		{"c_color", mcd.Null()},
		{"missing_color", mcd.Null()},
	}
	for _, tt := range tests {
		if got := s.Color(tt.key); got != tt.want {
			t.Errorf("Color(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
