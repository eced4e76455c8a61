package recinject

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MenuState is the state of the mobile navigation panel.
type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpen
)

func (s MenuState) String() string {
	if s == MenuOpen {
		return "open"
	}
	return "closed"
}

const (
	menuButtonOpenClass = "menu-open"
	menuPanelOpenClass  = "open"
	menuOpenLabel       = "Abrir menu"
	menuCloseLabel      = "Fechar menu"
)

// MenuOptions tunes a MenuController.
type MenuOptions struct {
	// Clock schedules the deferred hide. Defaults to SystemClock.
	Clock Clock

	// CloseDelay is how long the panel stays in the layout after
	// closing. Defaults to DefaultMenuCloseDelay.
	CloseDelay time.Duration

	// Reflow, if set, is called with the panel after it's unhidden and
	// before it gets its open class, where a browser would flush layout
	// so the opening transition plays.
	Reflow func(panel *html.Node)
}

// MenuController drives the mobile navigation panel. The state lives in the
// controller; the button's aria-expanded attribute, its classes and label,
// the panel's hidden attribute and class, and the body's overflow are all
// rendered from it.
//
// Browser events are delivered by calling Click and KeyDown. A
// MenuController is safe for concurrent use; the deferred hide runs on the
// clock's goroutine.
type MenuController struct {
	mu sync.Mutex

	button *goquery.Selection
	panel  *goquery.Selection
	body   *goquery.Selection

	clock      Clock
	closeDelay time.Duration
	reflow     func(*html.Node)
	log        *slog.Logger

	state     MenuState
	openLabel string

	// pendingHide is the deferred hide of the last close, if it hasn't
	// run yet. hideSeq identifies it, so a hide that fires after a
	// reopen can tell it's stale.
	pendingHide Timer
	hideSeq     uint64
}

// SetupMenu attaches a controller to the page's [data-menu-btn] button and
// [data-mobile-panel] panel. It returns nil when either is missing, as the
// menu is optional.
func SetupMenu(ctx context.Context, live *goquery.Document, opts MenuOptions) *MenuController {
	button := live.Find("[data-menu-btn]").First()
	panel := live.Find("[data-mobile-panel]").First()
	if button.Length() < 1 || panel.Length() < 1 {
		logger(ctx).Debug("no mobile menu on page")
		return nil
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.CloseDelay <= 0 {
		opts.CloseDelay = DefaultMenuCloseDelay
	}

	m := &MenuController{
		button:     button,
		panel:      panel,
		body:       live.Find("body").First(),
		clock:      opts.Clock,
		closeDelay: opts.CloseDelay,
		reflow:     opts.Reflow,
		log:        logger(ctx),
		state:      MenuClosed,
		openLabel:  button.AttrOr("aria-label", menuOpenLabel),
	}
	button.SetAttr("aria-expanded", "false")
	return m
}

// State returns the current state.
func (m *MenuController) State() MenuState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Open opens the panel. It does nothing if the panel is already open.
func (m *MenuController) Open() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.open()
}

// Close closes the panel. It does nothing if the panel is already closed.
func (m *MenuController) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.close()
}

// Toggle opens a closed panel and closes an open one.
func (m *MenuController) Toggle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toggle()
}

// KeyDown handles a key press anywhere on the page. Escape closes an open
// panel.
func (m *MenuController) KeyDown(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == "Escape" && m.state == MenuOpen {
		m.close()
	}
}

// Click handles a click on target, running the same listeners a browser
// would as the event bubbles: the button toggles, links in the panel close
// it, and then the document-wide listener closes an open panel when the click
// landed outside both the panel and the button. The click that opens the
// panel lands on the button, so it never closes it again on the way up.
func (m *MenuController) Click(target *html.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if within(m.button, target) {
		m.toggle()
	}
	if within(m.panel, target) && inLink(target, m.panel) {
		m.close()
	}
	if m.state == MenuOpen && !within(m.panel, target) && !within(m.button, target) {
		m.close()
	}
}

func (m *MenuController) toggle() {
	if m.state == MenuOpen {
		m.close()
		return
	}
	m.open()
}

func (m *MenuController) open() {
	if m.state == MenuOpen {
		return
	}
	m.state = MenuOpen
	m.cancelPendingHide()

	m.button.AddClass(menuButtonOpenClass).
		SetAttr("aria-expanded", "true").
		SetAttr("aria-label", menuCloseLabel)
	setHidden(m.panel, false)
	if m.reflow != nil {
		m.reflow(m.panel.Get(0))
	}
	m.panel.AddClass(menuPanelOpenClass)
	setStyleProperty(m.body, "overflow", "hidden")
	m.log.Debug("mobile menu opened")
}

func (m *MenuController) close() {
	if m.state == MenuClosed {
		return
	}
	m.state = MenuClosed

	m.button.RemoveClass(menuButtonOpenClass).
		SetAttr("aria-expanded", "false").
		SetAttr("aria-label", m.openLabel)
	m.panel.RemoveClass(menuPanelOpenClass)
	setStyleProperty(m.body, "overflow", "")

	m.cancelPendingHide()
	m.hideSeq++
	seq := m.hideSeq
	m.pendingHide = m.clock.AfterFunc(m.closeDelay, func() {
		m.hide(seq)
	})
	m.log.Debug("mobile menu closed", "hide_delay", m.closeDelay)
}

// hide is the deferred half of close. It only applies if no open or later
// close has happened since it was scheduled.
func (m *MenuController) hide(seq uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if seq != m.hideSeq || m.state != MenuClosed {
		return
	}
	m.pendingHide = nil
	setHidden(m.panel, true)
}

func (m *MenuController) cancelPendingHide() {
	if m.pendingHide == nil {
		return
	}
	m.pendingHide.Stop()
	m.pendingHide = nil
	// a hide already waiting on mu must not apply
	m.hideSeq++
}

// inLink reports whether n is inside an <a> element that is itself inside
// stop.
func inLink(n *html.Node, stop *goquery.Selection) bool {
	for ; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			return within(stop, n)
		}
		if len(stop.Nodes) > 0 && n == stop.Nodes[0] {
			return false
		}
	}
	return false
}
