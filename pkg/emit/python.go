package emit

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/erdgeo/pkg/geometry"
	"github.com/matzehuels/erdgeo/pkg/mcd"
)

// Python emits Python source.
//
// Inline output looks like:
//
//	(width,height) = (400,300)
//	cx = {
//	    "CLIENT"   :   60,
//	    "COMMANDE" :   50,
//	}
type Python struct{}

func (Python) Name() string      { return TargetPython }
func (Python) Extension() string { return ".py" }

// keyPadding is added to the longest key of a mapping to align the values.
const keyPadding = 3

func (Python) Inline(r *geometry.Record) ([]string, error) {
	lines := []string{fmt.Sprintf("(width,height) = (%d,%d)", r.Size.Width, r.Size.Height)}
	for _, e := range r.Entries() {
		if len(e.Mapping) == 0 {
			continue
		}
		lines = append(lines, pythonDict(e.Name, e.Mapping))
	}
	return lines, nil
}

func pythonDict(name string, m geometry.Mapping) string {
	width := 0
	for _, it := range m {
		width = max(width, utf8.RuneCountInString(it.Key))
	}
	width += keyPadding

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(" = {")
	for _, it := range m {
		key := strconv.Quote(it.Key)
		pad := max(width-utf8.RuneCountInString(key), 0)
		fmt.Fprintf(&b, "\n    %s%s: %s,", key, strings.Repeat(" ", pad), pythonValue(it.Value))
	}
	b.WriteString("\n}")
	return b.String()
}

func pythonValue(v mcd.Value) string {
	switch v.Kind() {
	case mcd.KindInt:
		return fmt.Sprintf("%4d", v.AsInt())
	case mcd.KindFloat:
		return fmt.Sprintf("% .2f", v.AsFloat())
	case mcd.KindBool:
		if v.AsBool() {
			return "True"
		}
		return "False"
	case mcd.KindString:
		return strconv.Quote(v.AsString())
	default:
		return "None"
	}
}

func (Python) Stub(dataPath string) ([]string, error) {
	lines := []string{
		"import json",
		"",
		fmt.Sprintf("with open(%s, encoding=\"utf-8\") as f:", strconv.Quote(dataPath)),
		"    geo = json.load(f)",
		"(width, height) = geo[\"size\"]",
	}
	for _, name := range entryNames() {
		lines = append(lines, fmt.Sprintf("%s = geo[%q]", name, name))
	}
	return lines, nil
}

func entryNames() []string {
	var r geometry.Record
	entries := r.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
