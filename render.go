package recinject

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is a page of the site being assembled: its parsed document and the URL
// it was loaded from. Relative references, like the shared resource and hero
// images, are resolved against URL.
type Page struct {
	URL      *url.URL
	Document *goquery.Document
}

// ParsePage parses the page markup read from r, loaded from pageURL.
func ParsePage(pageURL string, r io.Reader) (*Page, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing page URL %q: %w", pageURL, err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing page %s: %w", pageURL, err)
	}
	return &Page{URL: u, Document: doc}, nil
}

func (p *Page) resolve(ref string) string {
	if p.URL == nil {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return p.URL.ResolveReference(parsed).String()
}

func (p *Page) openedFromFile() bool {
	return p.URL != nil && p.URL.Scheme == "file"
}

// Assembly is the outcome of assembling a Page.
type Assembly struct {
	Page *Page

	// Injected lists the slot kinds that were filled, in document order.
	Injected []SlotKind

	// Config is what the page declared on its <html> element.
	Config PageConfig

	// Menu drives the page's mobile menu. It's nil when the page has no
	// menu or assembly failed before reaching it.
	Menu *MenuController
}

// Assemble runs the whole pipeline on page, in order: fetch the shared
// resource, inject the fragments, mark the active navigation link, configure
// the hero, attach the mobile menu, and stamp the footer year. The first
// failure stops the pipeline; the page keeps whatever was done before it,
// gets an error notice prepended to its <body>, and the error is returned
// alongside the partial Assembly.
func Assemble(ctx context.Context, site Site, page *Page) (result *Assembly, err error) {
	ctx, span := startSpan(ctx, "recinject.assemble")
	defer func() { endSpan(span, err) }()
	if page.URL != nil {
		span.SetAttributes(attribute.String("page.url", page.URL.String()))
	}

	log := logger(ctx)
	if page.openedFromFile() {
		log.Warn("page opened from file://, the shared resource can only be fetched when the site is served")
	}

	result = &Assembly{Page: page}
	err = assemble(ctx, site, page, result)
	if err != nil {
		log.Error("error assembling page", "error", err)
		prependNotice(ctx, site, page, err)
	}
	return result, err
}

func assemble(ctx context.Context, site Site, page *Page, result *Assembly) error {
	client := siteClient(ctx, site)
	clock := siteClock(ctx, site)
	live := page.Document

	var text string
	err := step(ctx, "fetch", func(ctx context.Context) error {
		var err error
		text, err = Fetcher{Client: client}.Fetch(ctx, page.resolve(site.TemplatePath(ctx)))
		return err
	})
	if err != nil {
		return err
	}

	err = step(ctx, "inject", func(ctx context.Context) error {
		reg, err := ParseRegistry(text)
		if err != nil {
			return err
		}
		result.Injected, err = InjectAll(ctx, live, reg)
		return err
	})
	if err != nil {
		return err
	}

	result.Config = ReadPageConfig(live)
	_ = step(ctx, "mark-active", func(ctx context.Context) error {
		marked := MarkActive(live, result.Config.ActiveSection)
		logger(ctx).Debug("marked active navigation", "section", result.Config.ActiveSection, "links", marked)
		return nil
	})

	err = step(ctx, "configure-hero", func(ctx context.Context) error {
		images := ImageResolver{Base: page.URL, Prober: HTTPProber{Client: client}}
		return ConfigureHero(ctx, live, result.Config, images)
	})
	if err != nil {
		return err
	}

	_ = step(ctx, "menu-setup", func(ctx context.Context) error {
		result.Menu = SetupMenu(ctx, live, MenuOptions{
			Clock:      clock,
			CloseDelay: siteMenuDelay(ctx, site),
		})
		return nil
	})

	_ = step(ctx, "stamp-year", func(_ context.Context) error {
		StampYear(live, clock.Now())
		return nil
	})
	return nil
}

func step(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	ctx, span := startSpan(ctx, "recinject."+name)
	defer func() { endSpan(span, err) }()
	logger(ctx).Debug("running step", "step", name)
	if err := fn(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Render assembles page and writes the resulting document to out. If
// assembly fails, the page is still written, with the error notice on top,
// and the assembly error is returned.
func Render(ctx context.Context, out io.Writer, site Site, page *Page) error {
	_, assembleErr := Assemble(ctx, site, page)
	if err := html.Render(out, page.Document.Get(0)); err != nil {
		logger(ctx).Error("error writing page", "error", err)
		if assembleErr == nil {
			return fmt.Errorf("error writing page: %w", err)
		}
	}
	return assembleErr
}

const noticeStyle = "margin:16px; padding:14px 16px; border-radius:14px; background:#fff; " +
	"border:1px solid rgba(0,0,0,.15); box-shadow:0 12px 30px rgba(0,0,0,.12); " +
	"font-family:system-ui, -apple-system, Segoe UI, Roboto, Arial"

func prependNotice(ctx context.Context, site Site, page *Page, err error) {
	var notice *html.Node
	if noticer, ok := site.(ErrorNoticer); ok {
		notice = noticer.ErrorNotice(ctx, page, err)
	}
	if notice == nil {
		notice = defaultNotice(ctx, site, page, err)
	}
	body := page.Document.Find("body").First()
	if body.Length() < 1 {
		return
	}
	b := body.Get(0)
	b.InsertBefore(notice, b.FirstChild)
}

func defaultNotice(ctx context.Context, site Site, page *Page, err error) *html.Node {
	div := newElement(atom.Div,
		html.Attribute{Key: "role", Val: "alert"},
		html.Attribute{Key: "data-recinject-error", Val: ""},
		html.Attribute{Key: "style", Val: noticeStyle},
	)
	strong := newElement(atom.Strong)
	strong.AppendChild(textNode("Não foi possível carregar o template do site."))
	div.AppendChild(strong)
	div.AppendChild(newElement(atom.Br))

	if page.openedFromFile() && isTransportFailure(err) {
		appendInline(div,
			"Você está abrindo via ", code("file://"),
			". Use o ", bold("Live Server"), " no VS Code.")
		return div
	}
	appendInline(div,
		"Verifique se o arquivo ", code(site.TemplatePath(ctx)),
		" está na raiz e acessível.")
	return div
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func code(s string) *html.Node {
	n := newElement(atom.Code)
	n.AppendChild(textNode(s))
	return n
}

func bold(s string) *html.Node {
	n := newElement(atom.B)
	n.AppendChild(textNode(s))
	return n
}

// appendInline appends parts to parent; strings become text nodes.
func appendInline(parent *html.Node, parts ...any) {
	for _, p := range parts {
		switch v := p.(type) {
		case string:
			parent.AppendChild(textNode(v))
		case *html.Node:
			parent.AppendChild(v)
		}
	}
}
