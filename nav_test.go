package recinject

import (
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkActive(t *testing.T) {
	t.Parallel()

	doc := injectedDoc(t, productsPage)
	// a stale marking from the template must be cleared too
	doc.Find(`[data-nav="home"]`).AddClass(activeNavClass).SetAttr("aria-current", "page")

	require.Equal(t, 1, MarkActive(doc, SectionProducts))

	doc.Find("[data-nav]").Each(func(_ int, link *goquery.Selection) {
		key := link.AttrOr("data-nav", "")
		current, hasCurrent := link.Attr("aria-current")
		if key == "products" {
			assert.True(t, link.HasClass(activeNavClass), "products link should be active")
			assert.Equal(t, "page", current)
			return
		}
		assert.False(t, link.HasClass(activeNavClass), "%s link should not be active", key)
		assert.False(t, hasCurrent, "%s link should not be current", key)
	})
}

func TestMarkActiveEmptyIsNoop(t *testing.T) {
	t.Parallel()

	doc := injectedDoc(t, productsPage)
	doc.Find(`[data-nav="home"]`).AddClass(activeNavClass)

	assert.Zero(t, MarkActive(doc, ""))
	assert.True(t, doc.Find(`[data-nav="home"]`).HasClass(activeNavClass))
}

func TestMarkActiveUnknownMarksNothing(t *testing.T) {
	t.Parallel()

	doc := injectedDoc(t, productsPage)
	assert.Zero(t, MarkActive(doc, "blog"))
	assert.Zero(t, doc.Find("."+activeNavClass).Length())
}
