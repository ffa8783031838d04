package emit

import (
	"bytes"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/matzehuels/erdgeo/pkg/geometry"
	"github.com/matzehuels/erdgeo/pkg/mcd"
)

// GeneratedHeader marks emitted Go files as generated.
const GeneratedHeader = "Code generated by erdgeo. DO NOT EDIT."

// DefaultGoPackage is the package clause of emitted Go files.
const DefaultGoPackage = "drawing"

// Go emits a Go source file.
//
// Inline output declares width and height and one map variable per
// non-empty entry. The element type of each map follows the value kinds it
// holds: int, float64, bool or string when they agree, interface{}
// otherwise. A null among strings renders as the empty string.
type Go struct {
	// Package is the package clause; DefaultGoPackage when empty.
	Package string
}

func (Go) Name() string      { return TargetGo }
func (Go) Extension() string { return ".go" }

func (g Go) newFile() *jen.File {
	pkg := g.Package
	if pkg == "" {
		pkg = DefaultGoPackage
	}
	f := jen.NewFile(pkg)
	f.HeaderComment(GeneratedHeader)
	return f
}

func (g Go) Inline(r *geometry.Record) ([]string, error) {
	f := g.newFile()
	f.Var().List(jen.Id("width"), jen.Id("height")).Op("=").List(jen.Lit(r.Size.Width), jen.Lit(r.Size.Height))
	for _, e := range r.Entries() {
		if len(e.Mapping) == 0 {
			continue
		}
		elem := elementType(e.Mapping)
		// Later keys win, as they would in a Python dict.
		last := make(map[string]mcd.Value, len(e.Mapping))
		for _, it := range e.Mapping {
			last[it.Key] = it.Value
		}
		values := jen.Dict{}
		for key, v := range last {
			values[jen.Lit(key)] = elem.literal(v)
		}
		f.Var().Id(e.Name).Op("=").Map(jen.String()).Add(elem.code()).Values(values)
	}
	return render(f)
}

func (g Go) Stub(dataPath string) ([]string, error) {
	f := g.newFile()
	f.Const().Id("geometryFile").Op("=").Lit(dataPath)

	f.Comment("Geometry mirrors the geometry data file.")
	f.Type().Id("Geometry").Struct(
		jen.Id("Size").Index(jen.Lit(2)).Int().Tag(map[string]string{"json": geometry.EntrySize}),
		jen.Id("CX").Map(jen.String()).Int().Tag(map[string]string{"json": geometry.EntryCX}),
		jen.Id("CY").Map(jen.String()).Int().Tag(map[string]string{"json": geometry.EntryCY}),
		jen.Id("K").Map(jen.String()).Interface().Tag(map[string]string{"json": geometry.EntryK}),
		jen.Id("T").Map(jen.String()).Float64().Tag(map[string]string{"json": geometry.EntryT}),
		jen.Id("Colors").Map(jen.String()).Op("*").String().Tag(map[string]string{"json": geometry.EntryColors}),
	)

	f.Comment("LoadGeometry reads the geometry data file.")
	f.Func().Id("LoadGeometry").Params().Params(jen.Op("*").Id("Geometry"), jen.Error()).Block(
		jen.List(jen.Id("data"), jen.Err()).Op(":=").Qual("os", "ReadFile").Call(jen.Id("geometryFile")),
		jen.If(jen.Err().Op("!=").Nil()).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Var().Id("g").Id("Geometry"),
		jen.If(
			jen.Err().Op(":=").Qual("encoding/json", "Unmarshal").Call(jen.Id("data"), jen.Op("&").Id("g")),
			jen.Err().Op("!=").Nil(),
		).Block(
			jen.Return(jen.Nil(), jen.Err()),
		),
		jen.Return(jen.Op("&").Id("g"), jen.Nil()),
	)
	return render(f)
}

func render(f *jen.File) ([]string, error) {
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"), nil
}

// goType is the element type chosen for one emitted map.
type goType int

const (
	goAny goType = iota
	goInt
	goFloat
	goBool
	goString
)

func elementType(m geometry.Mapping) goType {
	var ints, floats, bools, strs, nulls int
	for _, it := range m {
		switch it.Value.Kind() {
		case mcd.KindInt:
			ints++
		case mcd.KindFloat:
			floats++
		case mcd.KindBool:
			bools++
		case mcd.KindString:
			strs++
		default:
			nulls++
		}
	}
	n := len(m)
	switch {
	case ints == n:
		return goInt
	case ints+floats == n:
		return goFloat
	case bools == n:
		return goBool
	case strs+nulls == n:
		return goString
	default:
		return goAny
	}
}

func (t goType) code() jen.Code {
	switch t {
	case goInt:
		return jen.Int()
	case goFloat:
		return jen.Float64()
	case goBool:
		return jen.Bool()
	case goString:
		return jen.String()
	default:
		return jen.Interface()
	}
}

func (t goType) literal(v mcd.Value) jen.Code {
	switch t {
	case goFloat:
		return jen.Lit(v.AsFloat())
	case goString:
		return jen.Lit(v.AsString())
	}
	switch v.Kind() {
	case mcd.KindInt:
		return jen.Lit(v.AsInt())
	case mcd.KindFloat:
		return jen.Lit(v.AsFloat())
	case mcd.KindBool:
		return jen.Lit(v.AsBool())
	case mcd.KindString:
		return jen.Lit(v.AsString())
	default:
		return jen.Nil()
	}
}
