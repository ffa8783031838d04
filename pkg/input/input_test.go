package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/erdgeo/pkg/errors"
	"github.com/matzehuels/erdgeo/pkg/i18n"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "diagram.mcd")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoadUTF8(t *testing.T) {
	path := writeFile(t, []byte("box entity \"CLIENT\" 0 0 1 1\nleg é 1"))

	res, err := NewLoader([]string{"utf-8", "latin-1"}, nil, nil).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Encoding != "utf-8" {
		t.Errorf("Encoding = %q, want utf-8", res.Encoding)
	}
	want := []string{"box entity CLIENT 0 0 1 1", "leg é 1"}
	if diff := cmp.Diff(want, res.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFallsBackToLatin1(t *testing.T) {
	// "café" in ISO-8859-1: the 0xE9 byte is invalid UTF-8.
	path := writeFile(t, []byte("caf\xe9\n"))

	res, err := NewLoader([]string{"utf-8", "latin-1"}, nil, nil).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Encoding != "latin-1" {
		t.Errorf("Encoding = %q, want latin-1", res.Encoding)
	}
	if diff := cmp.Diff([]string{"café", ""}, res.Lines); diff != "" {
		t.Errorf("Lines mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadMacRoman(t *testing.T) {
	// 0x8E is "é" in Mac OS Roman.
	path := writeFile(t, []byte("caf\x8e"))

	res, err := NewLoader(nil, nil, nil).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Encoding != "macroman" {
		t.Errorf("Encoding = %q, want macroman", res.Encoding)
	}
	if res.Lines[0] != "café" {
		t.Errorf("Lines[0] = %q, want café", res.Lines[0])
	}
}

func TestLoadAllEncodingsFail(t *testing.T) {
	path := writeFile(t, []byte("caf\xe9"))

	_, err := NewLoader([]string{"utf-8", "ascii"}, nil, nil).Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, errors.ErrCodeInputEncoding) {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeInputEncoding)
	}
	msg := err.Error()
	for _, want := range []string{path, "utf-8, ascii"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q does not mention %q", msg, want)
		}
	}
}

func TestLoadUnknownEncodingCountsAsFailure(t *testing.T) {
	path := writeFile(t, []byte("caf\xe9"))

	_, err := NewLoader([]string{"utf-8", "klingon-42"}, nil, nil).Load(path)
	if !errors.Is(err, errors.ErrCodeInputEncoding) {
		t.Fatalf("err = %v, want INPUT_ENCODING", err)
	}
	if !strings.Contains(err.Error(), "klingon-42") {
		t.Errorf("error %q does not name the unknown encoding", err)
	}
}

func TestLoadLocalizedFailure(t *testing.T) {
	path := writeFile(t, []byte("\xff"))

	_, err := NewLoader([]string{"utf-8"}, i18n.NewPrinter("fr"), nil).Load(path)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Impossible de lire") {
		t.Errorf("error %q is not localized", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(nil, nil, nil).Load(filepath.Join(t.TempDir(), "absent.mcd"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadUTF8BOM(t *testing.T) {
	path := writeFile(t, []byte("\xef\xbb\xbfrow"))
	res, err := NewLoader([]string{"utf-8"}, nil, nil).Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if res.Lines[0] != "row" {
		t.Errorf("Lines[0] = %q, want row", res.Lines[0])
	}
}

func TestSplit(t *testing.T) {
	got := Split("a \"b\"\nc\r\n\"\"")
	want := []string{"a b", "c\r", ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Split() mismatch (-want +got):\n%s", diff)
	}
}
