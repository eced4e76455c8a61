package recinject

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/PuerkitoBio/goquery"
)

// copyGlobalStyle appends the registry's global style block to the page's
// <head>, unless the page already carries it. A block with an id is
// recognized by that id; one without is recognized by a checksum of its
// contents. It reports whether anything was added.
func copyGlobalStyle(live *goquery.Document, reg *Registry) bool {
	style := reg.GlobalStyle()
	if style == nil {
		return false
	}
	head := live.Find("head").First()
	if head.Length() < 1 {
		return false
	}
	styleSel := goquery.NewDocumentFromNode(style).Selection
	if id, ok := styleSel.Attr("id"); ok && id != "" {
		if elementByID(live.Get(0), id) != nil {
			return false
		}
	} else {
		checksum := styleChecksum(styleSel)
		duplicate := false
		head.Find("style[data-global-style]").Each(func(_ int, existing *goquery.Selection) {
			if styleChecksum(existing) == checksum {
				duplicate = true
			}
		})
		if duplicate {
			return false
		}
	}
	head.Get(0).AppendChild(style)
	return true
}

func styleChecksum(style *goquery.Selection) string {
	sum := sha256.Sum256([]byte(style.Text()))
	return hex.EncodeToString(sum[:])
}
