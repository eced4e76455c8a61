package recinject

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// heroOverlayVar is the custom property the hero's stylesheet reads its
// overlay from.
const heroOverlayVar = "--hero-overlay"

// ConfigureHero fills the injected hero from cfg. It fails with a
// *ConfigError, before touching the page, when cfg has no title. The
// background is resolved through images, the only step that does I/O.
//
// Hooks that aren't on the page are skipped. Optional text that is empty
// hides its element with the hidden attribute rather than removing it.
func ConfigureHero(ctx context.Context, live *goquery.Document, cfg PageConfig, images ImageResolver) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	// hooks are looked up under <body> only: the page's <html> element
	// carries data-hero-title too, as the title's declaration
	body := live.Find("body").First()

	if cfg.HeroOverlay != "" {
		setStyleProperty(body.Find(".hero").First(), heroOverlayVar, cfg.HeroOverlay)
	}

	if bg := body.Find("[data-hero-bg]").First(); bg.Length() > 0 {
		src := images.Resolve(ctx, cfg.HeroImageBase)
		setStyleProperty(bg, "background-image", "url('"+src+"')")
	}

	if logo := body.Find("[data-hero-logo]").First(); logo.Length() > 0 {
		if cfg.HeroShowLogo {
			setStyleProperty(logo, "display", "")
		} else {
			setStyleProperty(logo, "display", "none")
		}
	}

	body.Find("[data-hero-title]").First().SetText(cfg.HeroTitle)

	setOptionalText(body.Find("[data-hero-subtitle]").First(), cfg.HeroSubtitle)
	setOptionalText(body.Find("[data-hero-lead]").First(), cfg.HeroLead)

	body.Find("[data-hero-crumbs]").First().SetText(BreadcrumbText(cfg.ActiveSection))

	actions := body.Find("[data-hero-actions]").First()
	button := body.Find("[data-hero-button]").First()
	if actions.Length() > 0 && button.Length() > 0 {
		if cfg.ShowButton() {
			setHidden(actions, false)
			button.SetAttr("href", cfg.HeroButtonHref).SetText(cfg.HeroButtonText)
		} else {
			setHidden(actions, true)
		}
	}
	return nil
}

func setOptionalText(el *goquery.Selection, text string) {
	if el.Length() < 1 {
		return
	}
	if text == "" {
		setHidden(el, true)
		return
	}
	setHidden(el, false)
	el.SetText(text)
}
