package recinject

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// slotSelector matches placeholder slots on the page.
const slotSelector = "[data-include]"

// InjectAll replaces every slot on the page with a copy of its template from
// reg, in document order, and copies the global style block into <head>. It
// returns the kinds it injected, in order.
//
// Slots of an unknown kind are left alone. Only the first slot of each kind
// is filled; later ones are left in place and logged. A slot whose template
// is missing from reg stops the injection with a *TemplateMissingError;
// slots replaced before it stay replaced.
func InjectAll(ctx context.Context, live *goquery.Document, reg *Registry) ([]SlotKind, error) {
	log := logger(ctx)
	if copyGlobalStyle(live, reg) {
		log.Debug("copied global style into head")
	}

	// collect first, since replacing slots changes the tree being walked
	var slots []*goquery.Selection
	live.Find(slotSelector).Each(func(_ int, slot *goquery.Selection) {
		slots = append(slots, slot)
	})

	var injected []SlotKind
	seen := map[SlotKind]struct{}{}
	for _, slot := range slots {
		kind := SlotKind(slot.AttrOr("data-include", ""))
		id, ok := kind.TemplateID()
		if !ok {
			log.Debug("skipping slot of unknown kind", "kind", kind)
			continue
		}
		if _, dup := seen[kind]; dup {
			log.Warn("skipping repeated slot", "kind", kind)
			continue
		}
		nodes, err := reg.Clone(id)
		if err != nil {
			return injected, err
		}
		replaceNode(slot.Get(0), nodes)
		seen[kind] = struct{}{}
		injected = append(injected, kind)
		log.Debug("injected fragment", "kind", kind, "template", id)
	}
	return injected, nil
}

// replaceNode puts nodes where old is, in order, and detaches old.
func replaceNode(old *html.Node, nodes []*html.Node) {
	parent := old.Parent
	if parent == nil {
		return
	}
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)
}
