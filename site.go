package recinject

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

const (
	// DefaultTemplatePath is where pages expect the shared resource,
	// relative to themselves.
	DefaultTemplatePath = "template-padrao.html.txt"

	// DefaultMenuCloseDelay is how long a closing mobile menu panel stays
	// in the layout so its transition can play.
	DefaultMenuCloseDelay = 220 * time.Millisecond
)

// Site is an interface for the singleton describing how every page of a site
// gets assembled. Consumers can implement the optional interfaces below to
// control how resources are retrieved and how failures are shown.
type Site interface {
	// TemplatePath returns the location of the shared resource holding
	// the fragment templates, resolved relative to each page's URL.
	TemplatePath(ctx context.Context) string
}

// HTTPClienter is an optional interface for Sites. The client it returns is
// used to fetch the shared resource and to probe image candidates. Sites that
// don't implement it use http.DefaultClient.
type HTTPClienter interface {
	HTTPClient(ctx context.Context) *http.Client
}

// Clocker is an optional interface for Sites that want to control time, for
// the footer year and the mobile menu's deferred hide. Sites that don't
// implement it use SystemClock.
type Clocker interface {
	Clock(ctx context.Context) Clock
}

// MenuDelayer is an optional interface for Sites that want a mobile menu close
// delay other than DefaultMenuCloseDelay.
type MenuDelayer interface {
	MenuCloseDelay(ctx context.Context) time.Duration
}

// ErrorNoticer is an optional interface for Sites. If a Site implements
// ErrorNoticer and assembling a page fails, the node it returns is prepended
// to the page's <body> instead of the default notice. Returning nil falls
// back to the default notice.
type ErrorNoticer interface {
	ErrorNotice(ctx context.Context, page *Page, err error) *html.Node
}

var _ Site = &StaticSite{}
var _ HTTPClienter = &StaticSite{}
var _ Clocker = &StaticSite{}
var _ MenuDelayer = &StaticSite{}

// StaticSite is an implementation of the Site interface that can be embedded
// in other Site implementations. It fulfills Site, HTTPClienter, Clocker, and
// MenuDelayer. Its zero value is usable and behaves like the defaults.
type StaticSite struct {
	// Template overrides DefaultTemplatePath when set.
	Template string

	// Client overrides http.DefaultClient when set.
	Client *http.Client

	// Time overrides SystemClock when set.
	Time Clock

	// CloseDelay overrides DefaultMenuCloseDelay when positive.
	CloseDelay time.Duration
}

// NewStaticSite returns a StaticSite that fetches the resource at
// templatePath with client. Either may be left empty for the default.
func NewStaticSite(templatePath string, client *http.Client) *StaticSite {
	return &StaticSite{
		Template: templatePath,
		Client:   client,
	}
}

// TemplatePath returns the configured template path, or DefaultTemplatePath.
func (s *StaticSite) TemplatePath(_ context.Context) string {
	if s.Template == "" {
		return DefaultTemplatePath
	}
	return s.Template
}

// HTTPClient returns the configured client, or http.DefaultClient.
func (s *StaticSite) HTTPClient(_ context.Context) *http.Client {
	if s.Client == nil {
		return http.DefaultClient
	}
	return s.Client
}

// Clock returns the configured clock, or SystemClock.
func (s *StaticSite) Clock(_ context.Context) Clock {
	if s.Time == nil {
		return SystemClock{}
	}
	return s.Time
}

// MenuCloseDelay returns the configured delay, or DefaultMenuCloseDelay.
func (s *StaticSite) MenuCloseDelay(_ context.Context) time.Duration {
	if s.CloseDelay <= 0 {
		return DefaultMenuCloseDelay
	}
	return s.CloseDelay
}

func siteClient(ctx context.Context, site Site) *http.Client {
	if c, ok := site.(HTTPClienter); ok {
		if client := c.HTTPClient(ctx); client != nil {
			return client
		}
	}
	return http.DefaultClient
}

func siteClock(ctx context.Context, site Site) Clock {
	if c, ok := site.(Clocker); ok {
		if clock := c.Clock(ctx); clock != nil {
			return clock
		}
	}
	return SystemClock{}
}

func siteMenuDelay(ctx context.Context, site Site) time.Duration {
	if d, ok := site.(MenuDelayer); ok {
		if delay := d.MenuCloseDelay(ctx); delay > 0 {
			return delay
		}
	}
	return DefaultMenuCloseDelay
}
