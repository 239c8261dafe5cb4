// Package ui hosts the interactive storefront. It follows the Elm loop:
// every user event funnels through Update, and View regenerates the whole
// screen from current state — a full replace, never a patch. All state
// mutation happens in Update; View is a pure projection.
package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"menucart/internal/cart"
	"menucart/internal/catalog"
	"menucart/internal/checkout"
	"menucart/internal/menu"
	"menucart/internal/orders"
)

// viewMode determines which screen is active.
type viewMode int

const (
	menuView viewMode = iota
	cartView
	authView
	historyView
)

// authField indexes the focused auth form input.
type authField int

const (
	fieldEmail authField = iota
	fieldPassword
	fieldFullName
)

const authMessageTTL = 3 * time.Second

// historyLimit caps how many past orders the history screen lists.
const historyLimit = 20

// Messages produced by commands.

// catalogLoadedMsg carries the catalog after a successful load.
type catalogLoadedMsg []catalog.Product

// catalogFailedMsg carries the load error; the menu stays empty and the UI
// shows an inline message, no retry.
type catalogFailedMsg struct{ err error }

// authMsgExpiredMsg dismisses the auth inline message after a short delay.
// The sequence number guards against a stale timer clearing a newer message.
type authMsgExpiredMsg struct{ seq int }

// historyLoadedMsg carries past orders for the history screen.
type historyLoadedMsg []orders.Order

// historyFailedMsg carries a history read error; shown inline, no retry.
type historyFailedMsg struct{ err error }

// Authenticator is the slice of the auth demo module the UI needs.
type Authenticator interface {
	Register(email, password, fullName string) error
	Login(email, password string) error
}

// History is the slice of the order archive the UI needs.
type History interface {
	Recent(limit int) ([]orders.Order, error)
}

// Model is the single source of UI state.
type Model struct {
	loader   *catalog.Loader
	cart     *cart.Store
	auth     Authenticator
	checkout *checkout.Service
	history  History

	fetchTimeout time.Duration

	mode viewMode

	// Catalog state. items is immutable once loaded.
	items      []catalog.Product
	categories []string // "all" + first-seen catalog categories
	catIndex   int
	loading    bool
	loadErr    error

	// Menu screen
	search  textinput.Model
	cursor  int
	spinner spinner.Model

	// Cart screen
	cartCursor  int
	checkoutMsg string
	checkoutOK  bool

	// History screen
	historyOrders []orders.Order
	historyErr    error

	// Auth screen
	registerMode bool
	emailInput   textinput.Model
	passInput    textinput.Model
	nameInput    textinput.Model
	authFocus    authField
	authMsg      string
	authOK       bool
	authSeq      int

	width  int
	height int
}

// NewModel wires the UI to its collaborators.
func NewModel(loader *catalog.Loader, cartStore *cart.Store, authSvc Authenticator, checkoutSvc *checkout.Service, historySvc History, fetchTimeout time.Duration) Model {
	search := textinput.New()
	search.Placeholder = "search dishes..."
	search.Prompt = "/ "
	search.CharLimit = 64

	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.Prompt = ""
	email.CharLimit = 128

	pass := textinput.New()
	pass.Placeholder = "password"
	pass.Prompt = ""
	pass.CharLimit = 128
	pass.EchoMode = textinput.EchoPassword

	name := textinput.New()
	name.Placeholder = "Full name"
	name.Prompt = ""
	name.CharLimit = 128

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		loader:       loader,
		cart:         cartStore,
		auth:         authSvc,
		checkout:     checkoutSvc,
		history:      historySvc,
		fetchTimeout: fetchTimeout,
		mode:         menuView,
		categories:   []string{menu.AllCategories},
		loading:      true,
		search:       search,
		spinner:      sp,
		emailInput:   email,
		passInput:    pass,
		nameInput:    name,
	}
}

// Init kicks off the one-shot catalog load. While it is pending the menu
// shows a spinner; there is no data to filter or render yet.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCatalog(), m.spinner.Tick)
}

func (m Model) loadCatalog() tea.Cmd {
	loader := m.loader
	timeout := m.fetchTimeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		items, err := loader.Load(ctx)
		if err != nil {
			return catalogFailedMsg{err: err}
		}
		return catalogLoadedMsg(items)
	}
}

// loadHistory reads the recent order archive off the event loop, like the
// catalog load. The store is local, but the Elm loop stays non-blocking.
func (m Model) loadHistory() tea.Cmd {
	history := m.history
	return func() tea.Msg {
		if history == nil {
			return historyLoadedMsg(nil)
		}
		recent, err := history.Recent(historyLimit)
		if err != nil {
			return historyFailedMsg{err: err}
		}
		return historyLoadedMsg(recent)
	}
}

// filtered projects the catalog through the filter engine using the current
// category selection and search text.
func (m Model) filtered() []catalog.Product {
	return menu.Filter(m.items, m.selectedCategory(), m.search.Value())
}

func (m Model) selectedCategory() string {
	if m.catIndex < 0 || m.catIndex >= len(m.categories) {
		return menu.AllCategories
	}
	return m.categories[m.catIndex]
}
