package recinject

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func mustParsePage(t testing.TB, pageURL, markup string) *Page {
	t.Helper()

	page, err := ParsePage(pageURL, strings.NewReader(markup))
	require.NoError(t, err)
	return page
}

func TestAssemble(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, sharedResource, "capa-home.png")
	clock := newFakeClock(time.Date(2027, time.January, 2, 9, 0, 0, 0, time.Local))
	site := &StaticSite{Client: srv.Client(), Time: clock}
	page := mustParsePage(t, srv.URL+"/produtos-servicos.html", productsPage)

	result, err := Assemble(t.Context(), site, page)
	require.NoError(t, err)

	doc := page.Document
	assert.Equal(t, []SlotKind{SlotHeader, SlotHero, SlotFooter}, result.Injected)
	assert.Equal(t, SectionProducts, result.Config.ActiveSection)
	assert.Zero(t, doc.Find("[data-recinject-error]").Length())

	assert.Equal(t, "page", doc.Find(`[data-nav="products"]`).AttrOr("aria-current", ""))
	assert.Equal(t, "Produtos e Serviços", doc.Find("h1[data-hero-title]").Text())
	assert.Equal(t, "O que fazemos", doc.Find("body [data-hero-subtitle]").Text())
	assert.Equal(t, "Início / Produtos e Serviços", doc.Find("[data-hero-crumbs]").Text())
	bg, _ := styleProperty(doc.Find("[data-hero-bg]"), "background-image")
	assert.Equal(t, "url('capa-home.png')", bg)
	assert.Equal(t, "2027", doc.Find("[data-year]").Text())
	assert.Equal(t, 1, doc.Find("head style[data-global-style]").Length())

	require.NotNil(t, result.Menu)
	assert.Equal(t, MenuClosed, result.Menu.State())
	result.Menu.Toggle()
	assert.Equal(t, MenuOpen, result.Menu.State())

	assert.EqualValues(t, 1, srv.count("GET", "/"+DefaultTemplatePath))
	assert.EqualValues(t, 1, srv.count("HEAD", "/capa-home.png"))
}

func TestAssembleMissingTitleAborts(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, sharedResource, "capa-home.png")
	site := &StaticSite{Client: srv.Client(), Time: newFakeClock(time.Now())}
	markup := strings.Replace(productsPage, `data-hero-title="Produtos e Serviços"`, "", 1)
	page := mustParsePage(t, srv.URL+"/produtos-servicos.html", markup)

	result, err := Assemble(t.Context(), site, page)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHeroTitleRequired)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))

	doc := page.Document
	assert.Empty(t, doc.Find("h1[data-hero-title]").Text(), "hero is not populated")
	assert.Empty(t, doc.Find("[data-hero-crumbs]").Text())
	assert.Zero(t, srv.count("HEAD", "/capa-home.png"), "no best-effort image resolution")
	assert.Nil(t, result.Menu, "later steps don't run")
	assert.Empty(t, doc.Find("[data-year]").Text())

	notice := doc.Find("body > [data-recinject-error]")
	require.Equal(t, 1, notice.Length())
	assert.Equal(t, notice.Get(0), doc.Find("body").Children().Get(0), "notice is prepended")
	assert.Contains(t, notice.Text(), "Não foi possível carregar o template do site.")
}

func TestAssembleStatusFailure(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, sharedResource)
	site := &StaticSite{
		Template: "nao-existe.html.txt",
		Client:   srv.Client(),
	}
	page := mustParsePage(t, srv.URL+"/index.html", productsPage)

	result, err := Assemble(t.Context(), site, page)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Empty(t, result.Injected)

	doc := page.Document
	assert.Equal(t, 3, doc.Find("[data-include]").Length(), "nothing was injected")
	notice := doc.Find("[data-recinject-error]")
	assert.Contains(t, notice.Text(), "nao-existe.html.txt")
	assert.NotContains(t, notice.Text(), "file://")
}

func TestAssembleFromFile(t *testing.T) {
	t.Parallel()

	page := mustParsePage(t, "file:///home/site/index.html", productsPage)
	_, err := Assemble(t.Context(), &StaticSite{}, page)
	require.Error(t, err)
	assert.True(t, isTransportFailure(err))

	notice := page.Document.Find("[data-recinject-error]")
	require.Equal(t, 1, notice.Length())
	assert.Contains(t, notice.Find("code").Text(), "file://")
	assert.Contains(t, notice.Text(), "Live Server")
}

type noticeSite struct {
	StaticSite
	got error
}

func (s *noticeSite) ErrorNotice(_ context.Context, _ *Page, err error) *html.Node {
	s.got = err
	n := newElement(atom.Aside, html.Attribute{Key: "id", Val: "custom-notice"})
	n.AppendChild(textNode("Site fora do ar"))
	return n
}

func TestAssembleCustomNotice(t *testing.T) {
	t.Parallel()

	site := &noticeSite{}
	page := mustParsePage(t, "file:///home/site/index.html", productsPage)
	_, err := Assemble(t.Context(), site, page)
	require.Error(t, err)

	assert.Equal(t, err, site.got)
	assert.Equal(t, "Site fora do ar", page.Document.Find("body > aside#custom-notice").Text())
	assert.Zero(t, page.Document.Find("[data-recinject-error]").Length())
}

func TestRender(t *testing.T) {
	t.Parallel()

	srv := newSiteServer(t, sharedResource)
	site := &StaticSite{Client: srv.Client(), Time: newFakeClock(time.Date(2030, 5, 5, 0, 0, 0, 0, time.Local))}
	page := mustParsePage(t, srv.URL+"/produtos-servicos.html", productsPage)

	var out bytes.Buffer
	require.NoError(t, Render(t.Context(), &out, site, page))

	rendered := parseDoc(t, out.String())
	assert.Equal(t, "Produtos e Serviços", rendered.Find("h1[data-hero-title]").Text())
	assert.Equal(t, "2030", rendered.Find("[data-year]").Text())
	bg, _ := styleProperty(rendered.Find("[data-hero-bg]"), "background-image")
	assert.Equal(t, "url('capa-home.jpg')", bg)
}

func TestRenderWritesPageOnFailure(t *testing.T) {
	t.Parallel()

	page := mustParsePage(t, "file:///site/index.html", productsPage)

	var out bytes.Buffer
	err := Render(t.Context(), &out, &StaticSite{}, page)
	require.Error(t, err)

	rendered := parseDoc(t, out.String())
	assert.Equal(t, 1, rendered.Find("[data-recinject-error]").Length())
	assert.Equal(t, "conteúdo", rendered.Find("#between").Text())
}
