package relations

import (
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/matzehuels/erdgeo/pkg/mcd"
)

// Renderer turns a diagram and a template descriptor into schema text.
type Renderer interface {
	Render(d *mcd.Diagram, tpl *Template) (string, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(d *mcd.Diagram, tpl *Template) (string, error)

func (f RendererFunc) Render(d *mcd.Diagram, tpl *Template) (string, error) { return f(d, tpl) }

// Relation is the context of one rendered relation.
type Relation struct {
	Name       string
	Kind       string
	Attributes []string
	Legs       []string
}

// Collect returns one relation per named, non-phantom box in row then
// column order.
func Collect(d *mcd.Diagram) []Relation {
	var out []Relation
	for _, b := range d.Boxes() {
		if b.IsPhantom() || b.Name == "" {
			continue
		}
		legs := make([]string, 0, len(b.Legs))
		for _, l := range b.Legs {
			legs = append(legs, l.Identifier())
		}
		attrs := append([]string{}, b.Attributes...)
		out = append(out, Relation{Name: b.Name, Kind: b.Kind, Attributes: attrs, Legs: legs})
	}
	return out
}

// PongoRenderer renders the header, relation, separator and footer
// templates of a descriptor with pongo2.
//
// The relation template sees name, kind, attributes, legs and index. The
// header, separator and footer templates see relations (the list) and count.
type PongoRenderer struct {
	set *pongo2.TemplateSet
}

// NewPongoRenderer creates a renderer with its own template set.
func NewPongoRenderer() *PongoRenderer {
	return &PongoRenderer{set: pongo2.NewSet("erdgeo", pongo2.NewFSLoader(bundled))}
}

func (r *PongoRenderer) Render(d *mcd.Diagram, tpl *Template) (string, error) {
	rels := Collect(d)
	list := make([]pongo2.Context, len(rels))
	for i, rel := range rels {
		list[i] = pongo2.Context{
			"name":       rel.Name,
			"kind":       rel.Kind,
			"attributes": rel.Attributes,
			"legs":       rel.Legs,
			"index":      i,
		}
	}
	global := pongo2.Context{"relations": list, "count": len(list)}

	var b strings.Builder
	if err := r.execute(&b, "header", tpl.Header, tpl.Escape, global); err != nil {
		return "", err
	}
	for i, ctx := range list {
		if i > 0 {
			if err := r.execute(&b, "separator", tpl.Separator, tpl.Escape, global); err != nil {
				return "", err
			}
		}
		if err := r.execute(&b, "relation", tpl.Relation, tpl.Escape, ctx); err != nil {
			return "", err
		}
	}
	if err := r.execute(&b, "footer", tpl.Footer, tpl.Escape, global); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (r *PongoRenderer) execute(b *strings.Builder, part, src string, escape bool, ctx pongo2.Context) error {
	if src == "" {
		return nil
	}
	if !escape {
		src = "{% autoescape off %}" + src + "{% endautoescape %}"
	}
	if r.set == nil {
		r.set = NewPongoRenderer().set
	}
	t, err := r.set.FromString(src)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	out, err := t.Execute(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", part, err)
	}
	b.WriteString(out)
	return nil
}
