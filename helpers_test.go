package recinject

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

const sharedResource = `<!doctype html>
<html>
<head>
<style id="global-style" data-global-style>body { margin: 0; }</style>
</head>
<body>
<template id="tpl-header"><header class="site-header"><nav><a data-nav="home" href="index.html">Início</a><a data-nav="about" href="quem-somos.html">Quem Somos</a><a data-nav="products" href="produtos-servicos.html">Produtos</a><a data-nav="contact" href="contato.html">Contato</a></nav><button data-menu-btn aria-label="Abrir menu" aria-expanded="false">Menu</button><div data-mobile-panel hidden><a id="panel-link" href="index.html"><span id="panel-link-text">Início</span></a><p id="panel-text">Olá</p></div></header></template>
<template id="tpl-hero"><section class="hero"><div data-hero-bg></div><img data-hero-logo src="logo.png"><h1 data-hero-title></h1><p data-hero-subtitle></p><p data-hero-lead></p><nav data-hero-crumbs></nav><div data-hero-actions><a data-hero-button href="#"></a></div></section></template>
<template id="tpl-footer"><footer class="site-footer">© <span data-year></span></footer></template>
</body>
</html>`

const productsPage = `<!doctype html>
<html lang="pt-BR" data-active="products" data-hero-title="Produtos e Serviços" data-hero-subtitle="O que fazemos">
<head><title>Produtos</title></head>
<body>
<div data-include="header"></div>
<p id="between">conteúdo</p>
<div data-include="hero"></div>
<main id="main"></main>
<div data-include="footer"></div>
</body>
</html>`

func parseDoc(t testing.TB, markup string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err, "parse html")
	return doc
}

func mustRegistry(t testing.TB, markup string) *Registry {
	t.Helper()

	reg, err := ParseRegistry(markup)
	require.NoError(t, err, "parse registry")
	return reg
}

// injectedDoc returns productsPage with every fragment injected.
func injectedDoc(t testing.TB, page string) *goquery.Document {
	t.Helper()

	doc := parseDoc(t, page)
	_, err := InjectAll(t.Context(), doc, mustRegistry(t, sharedResource))
	require.NoError(t, err)
	return doc
}

// siteServer serves the shared resource and the named images, counting the
// requests it gets per path.
type siteServer struct {
	*httptest.Server
	hits sync.Map
}

func newSiteServer(t testing.TB, resource string, images ...string) *siteServer {
	t.Helper()

	s := &siteServer{}
	existing := map[string]bool{}
	for _, img := range images {
		existing["/"+img] = true
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		counter, _ := s.hits.LoadOrStore(r.Method+" "+r.URL.Path, new(atomic.Int64))
		counter.(*atomic.Int64).Add(1)

		switch {
		case r.URL.Path == "/"+DefaultTemplatePath && r.Method == http.MethodGet:
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			_, _ = w.Write([]byte(resource))
		case existing[r.URL.Path]:
			w.Header().Set("Content-Type", "image/png")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *siteServer) count(method, path string) int64 {
	counter, ok := s.hits.Load(method + " " + path)
	if !ok {
		return 0
	}
	return counter.(*atomic.Int64).Load()
}

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward and runs, in order, every timer that came
// due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// pending returns how many timers are neither stopped nor fired.
func (c *fakeClock) pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
