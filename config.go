package recinject

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Section identifies which part of the site a page belongs to.
type Section string

const (
	SectionHome     Section = "home"
	SectionAbout    Section = "about"
	SectionProducts Section = "products"
	SectionContact  Section = "contact"
)

// Known reports whether s is one of the site's sections.
func (s Section) Known() bool {
	_, ok := sectionCrumbs[s]
	return ok
}

// DefaultHeroImage is the hero background base name used when the page
// doesn't declare one.
const DefaultHeroImage = "capa-home"

// PageConfig is what a page declares about itself through data-* attributes
// on its <html> element. Every value is trimmed of surrounding whitespace.
type PageConfig struct {
	ActiveSection Section // data-active, may be empty or unknown
	HeroTitle     string  // data-hero-title, required
	HeroImageBase string  // data-hero-img, defaults to DefaultHeroImage
	HeroOverlay   string  // data-hero-overlay
	HeroShowLogo  bool    // data-hero-show-logo="true"
	HeroSubtitle  string  // data-hero-subtitle
	HeroLead      string  // data-hero-lead

	HeroShowButton bool   // data-hero-show-button="true"
	HeroButtonHref string // data-hero-button-href
	HeroButtonText string // data-hero-button-text
}

// ReadPageConfig reads the page's declarations from its <html> element.
// Reading never fails; missing attributes take their defaults, and booleans
// are true only for the literal string "true".
func ReadPageConfig(live *goquery.Document) PageConfig {
	root := live.Find("html").First()
	attr := func(name string) string {
		return strings.TrimSpace(root.AttrOr(name, ""))
	}
	cfg := PageConfig{
		ActiveSection:  Section(attr("data-active")),
		HeroTitle:      attr("data-hero-title"),
		HeroImageBase:  attr("data-hero-img"),
		HeroOverlay:    attr("data-hero-overlay"),
		HeroShowLogo:   attr("data-hero-show-logo") == "true",
		HeroSubtitle:   attr("data-hero-subtitle"),
		HeroLead:       attr("data-hero-lead"),
		HeroShowButton: attr("data-hero-show-button") == "true",
		HeroButtonHref: attr("data-hero-button-href"),
		HeroButtonText: attr("data-hero-button-text"),
	}
	if cfg.HeroImageBase == "" {
		cfg.HeroImageBase = DefaultHeroImage
	}
	return cfg
}

// Validate checks the one attribute without a default.
func (c PageConfig) Validate() error {
	if c.HeroTitle == "" {
		return &ConfigError{Attribute: "data-hero-title", Err: ErrHeroTitleRequired}
	}
	return nil
}

// ShowButton reports whether the hero's call-to-action should be shown: the
// flag must be set and both the destination and the label present.
func (c PageConfig) ShowButton() bool {
	return c.HeroShowButton && c.HeroButtonHref != "" && c.HeroButtonText != ""
}
