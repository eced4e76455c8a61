package recinject

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// elementByID returns the first element under root, root included, whose id
// is id.
func elementByID(root *html.Node, id string) *html.Node {
	if root == nil {
		return nil
	}
	if root.Type == html.ElementNode {
		for _, a := range root.Attr {
			if a.Namespace == "" && a.Key == "id" && a.Val == id {
				return root
			}
		}
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := elementByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// within reports whether n is one of the nodes in sel or a descendant of
// one.
func within(sel *goquery.Selection, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		for _, candidate := range sel.Nodes {
			if candidate == n {
				return true
			}
		}
	}
	return false
}

// setHidden toggles the boolean hidden attribute.
func setHidden(sel *goquery.Selection, hidden bool) {
	if hidden {
		sel.SetAttr("hidden", "")
		return
	}
	sel.RemoveAttr("hidden")
}
