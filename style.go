package recinject

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// setStyleProperty sets one property in the inline style attribute of every
// element in sel, keeping the other declarations. An empty value removes the
// property, and the style attribute if nothing is left.
func setStyleProperty(sel *goquery.Selection, property, value string) {
	sel.Each(func(_ int, el *goquery.Selection) {
		existing := el.AttrOr("style", "")
		decls, err := parseInlineStyle(existing)
		if err != nil {
			// unparseable styles are kept verbatim, the new declaration
			// goes after them so it still wins
			if value != "" {
				el.SetAttr("style", terminate(existing)+" "+property+": "+value)
			}
			return
		}

		kept := make([]*css.Declaration, 0, len(decls)+1)
		for _, d := range decls {
			if d.Property != property {
				kept = append(kept, d)
			}
		}
		if value != "" {
			kept = append(kept, &css.Declaration{Property: property, Value: value})
		}
		if len(kept) == 0 {
			el.RemoveAttr("style")
			return
		}
		el.SetAttr("style", formatDeclarations(kept))
	})
}

// styleProperty returns the value of property in el's inline style, if set.
func styleProperty(el *goquery.Selection, property string) (string, bool) {
	decls, err := parseInlineStyle(el.AttrOr("style", ""))
	if err != nil {
		return "", false
	}
	for _, d := range decls {
		if d.Property == property {
			return d.Value, true
		}
	}
	return "", false
}

// parseInlineStyle parses the declarations of a style attribute. douceur
// drops the value of a final declaration that has no terminating semicolon,
// so one is added first.
func parseInlineStyle(style string) ([]*css.Declaration, error) {
	if strings.TrimSpace(style) == "" {
		return nil, nil
	}
	return parser.ParseDeclarations(terminate(style))
}

// terminate trims style and makes sure it ends with a semicolon.
func terminate(style string) string {
	style = strings.TrimSpace(style)
	if style == "" || strings.HasSuffix(style, ";") {
		return style
	}
	return style + ";"
}

func formatDeclarations(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		part := d.Property + ": " + d.Value
		if d.Important {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
