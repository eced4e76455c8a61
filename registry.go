package recinject

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SlotKind names the kind of fragment a slot on the page wants.
type SlotKind string

const (
	SlotHeader SlotKind = "header"
	SlotHero   SlotKind = "hero"
	SlotFooter SlotKind = "footer"
)

// slotTemplateIDs maps each slot kind to the id of its template in the shared
// resource.
var slotTemplateIDs = map[SlotKind]string{
	SlotHeader: "tpl-header",
	SlotHero:   "tpl-hero",
	SlotFooter: "tpl-footer",
}

// TemplateID returns the id of the template that fills slots of kind k, and
// whether k is a known kind.
func (k SlotKind) TemplateID() (string, bool) {
	id, ok := slotTemplateIDs[k]
	return id, ok
}

// Registry holds the fragment templates of a parsed shared resource. It is
// never mutated after ParseRegistry returns; everything handed out is a copy.
type Registry struct {
	templates   map[string]*goquery.Selection
	globalStyle *html.Node
}

// ParseRegistry parses the shared resource and indexes every <template>
// element that has an id, along with the first <style data-global-style>
// block.
func ParseRegistry(text string) (*Registry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("parse shared resource: %w", err)
	}
	reg := &Registry{
		templates: map[string]*goquery.Selection{},
	}
	doc.Find("template[id]").Each(func(_ int, tpl *goquery.Selection) {
		id, _ := tpl.Attr("id")
		if _, dup := reg.templates[id]; dup || id == "" {
			return
		}
		reg.templates[id] = tpl
	})
	if style := doc.Find("style[data-global-style]").First(); style.Length() > 0 {
		reg.globalStyle = style.Get(0)
	}
	return reg, nil
}

// Has reports whether the registry holds a template with the given id.
func (r *Registry) Has(id string) bool {
	_, ok := r.templates[id]
	return ok
}

// Clone returns a deep copy of the content of the template with the given
// id. The returned nodes are detached, so they can be inserted anywhere and
// mutated freely.
func (r *Registry) Clone(id string) ([]*html.Node, error) {
	tpl, ok := r.templates[id]
	if !ok {
		return nil, &TemplateMissingError{ID: id}
	}
	return tpl.Contents().Clone().Nodes, nil
}

// GlobalStyle returns a detached copy of the global style block, or nil if
// the resource has none.
func (r *Registry) GlobalStyle() *html.Node {
	if r.globalStyle == nil {
		return nil
	}
	return cloneNode(r.globalStyle)
}

func cloneNode(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      make([]html.Attribute, len(n.Attr)),
	}
	copy(clone.Attr, n.Attr)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(cloneNode(c))
	}
	return clone
}

func newElement(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
