package recinject

import (
	"github.com/PuerkitoBio/goquery"
)

const activeNavClass = "is-active"

// MarkActive marks the navigation links whose data-nav key equals active as
// the current page, and clears the marking from every other keyed link. An
// empty active leaves the links untouched. It returns how many links were
// marked; zero or several are both accepted.
func MarkActive(live *goquery.Document, active Section) int {
	if active == "" {
		return 0
	}
	marked := 0
	live.Find("[data-nav]").Each(func(_ int, link *goquery.Selection) {
		key, _ := link.Attr("data-nav")
		if Section(key) == active {
			link.AddClass(activeNavClass).SetAttr("aria-current", "page")
			marked++
			return
		}
		link.RemoveClass(activeNavClass).RemoveAttr("aria-current")
	})
	return marked
}
