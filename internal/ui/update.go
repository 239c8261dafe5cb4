package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"menucart/internal/auth"
	"menucart/internal/cart"
	"menucart/internal/catalog"
	"menucart/internal/checkout"
	"menucart/internal/logger"
	"menucart/internal/menu"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case catalogLoadedMsg:
		m.items = msg
		m.categories = append([]string{menu.AllCategories}, catalog.Categories(msg)...)
		m.catIndex = 0
		m.cursor = 0
		m.loading = false
		return m, nil

	case catalogFailedMsg:
		m.loading = false
		m.loadErr = msg.err
		logger.LogError("Menu load failed: %v", msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case authMsgExpiredMsg:
		if msg.seq == m.authSeq {
			m.authMsg = ""
		}
		return m, nil

	case historyLoadedMsg:
		m.historyOrders = msg
		m.historyErr = nil
		return m, nil

	case historyFailedMsg:
		m.historyErr = msg.err
		logger.LogError("Order history load failed: %v", msg.err)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case menuView:
			return m.updateMenu(msg)
		case cartView:
			return m.updateCart(msg)
		case authView:
			return m.updateAuth(msg)
		case historyView:
			return m.updateHistory(msg)
		}
	}

	return m, nil
}

// =============================================================================
// MENU SCREEN
// =============================================================================

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.search.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.search.Blur()
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			m.cursor = clamp(m.cursor, len(m.filtered()))
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "/":
		m.search.Focus()
		return m, textinput.Blink
	case "left":
		if m.catIndex > 0 {
			m.catIndex--
			m.cursor = 0
		}
	case "right", "tab":
		if m.catIndex < len(m.categories)-1 {
			m.catIndex++
			m.cursor = 0
		} else if msg.String() == "tab" {
			m.catIndex = 0
			m.cursor = 0
		}
	case "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down":
		if m.cursor < len(m.filtered())-1 {
			m.cursor++
		}
	case "enter", "a":
		items := m.filtered()
		if m.cursor >= 0 && m.cursor < len(items) {
			m.cart.Add(items[m.cursor])
		}
	case "c":
		m.mode = cartView
		m.cartCursor = 0
		m.checkoutMsg = ""
	case "l":
		m.mode = authView
		m.authMsg = ""
		m.authFocus = fieldEmail
		cmd := m.focusAuthField()
		return m, cmd
	case "o":
		m.mode = historyView
		m.historyOrders = nil
		m.historyErr = nil
		return m, m.loadHistory()
	}

	return m, nil
}

// =============================================================================
// CART SCREEN
// =============================================================================

func (m Model) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := m.cart.Lines()

	switch msg.String() {
	case "esc", "c", "q":
		m.mode = menuView
		m.checkoutMsg = ""
	case "up":
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case "down":
		if m.cartCursor < len(lines)-1 {
			m.cartCursor++
		}
	case "+", "=":
		if line, ok := lineAt(lines, m.cartCursor); ok {
			m.cart.Increment(line.ProductID)
		}
	case "-", "_":
		if line, ok := lineAt(lines, m.cartCursor); ok {
			m.cart.Decrement(line.ProductID)
		}
	case "x", "delete", "backspace":
		if line, ok := lineAt(lines, m.cartCursor); ok {
			m.cart.Remove(line.ProductID)
			m.cartCursor = clamp(m.cartCursor, m.cart.Len())
		}
	case "enter":
		order, err := m.checkout.Checkout()
		if err == checkout.ErrEmptyCart {
			m.checkoutMsg = "Your cart is empty."
			m.checkoutOK = false
			return m, nil
		}
		if err != nil {
			m.checkoutMsg = "Checkout failed: " + err.Error()
			m.checkoutOK = false
			return m, nil
		}
		// Simulated payment succeeded: the cart is cleared and the cart
		// view closes.
		m.checkoutMsg = "Payment simulated. Order placed. Receipt " + order.Receipt + "."
		m.checkoutOK = true
		m.mode = menuView
	}

	return m, nil
}

// =============================================================================
// HISTORY SCREEN
// =============================================================================

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "o", "q":
		m.mode = menuView
	}
	return m, nil
}

// =============================================================================
// AUTH SCREEN
// =============================================================================

func (m Model) updateAuth(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = menuView
		m.blurAuthFields()
		return m, nil
	case "ctrl+r":
		m.registerMode = !m.registerMode
		m.authMsg = ""
		if !m.registerMode && m.authFocus == fieldFullName {
			m.authFocus = fieldEmail
		}
		cmd := m.focusAuthField()
		return m, cmd
	case "tab", "down":
		m.authFocus = m.nextAuthField(1)
		cmd := m.focusAuthField()
		return m, cmd
	case "shift+tab", "up":
		m.authFocus = m.nextAuthField(-1)
		cmd := m.focusAuthField()
		return m, cmd
	case "enter":
		return m.submitAuth()
	}

	var cmd tea.Cmd
	switch m.authFocus {
	case fieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case fieldPassword:
		m.passInput, cmd = m.passInput.Update(msg)
	case fieldFullName:
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m Model) submitAuth() (tea.Model, tea.Cmd) {
	email := m.emailInput.Value()
	password := m.passInput.Value()

	if m.registerMode {
		err := m.auth.Register(email, password, m.nameInput.Value())
		switch {
		case err == auth.ErrMissingName:
			return m.showAuthMsg("Please enter full name", false)
		case err == auth.ErrAlreadyExists:
			return m.showAuthMsg("User already exists", false)
		case err != nil:
			return m.showAuthMsg("Registration failed: "+err.Error(), false)
		}
		// Match the original flow: drop back to login mode after a
		// successful registration.
		m.registerMode = false
		m.authFocus = fieldEmail
		model, cmd := m.showAuthMsg("Registered successfully. You can login now.", true)
		focusCmd := model.focusAuthField()
		return model, tea.Batch(cmd, focusCmd)
	}

	if err := m.auth.Login(email, password); err != nil {
		return m.showAuthMsg("Invalid credentials", false)
	}

	// Success is purely an acknowledgment; no session is created. Close
	// the auth screen like the original closes its modal.
	m.mode = menuView
	m.blurAuthFields()
	return m.showAuthMsg("Login successful", true)
}

// showAuthMsg sets the inline auth message and arms its auto-dismiss timer.
func (m Model) showAuthMsg(text string, ok bool) (Model, tea.Cmd) {
	m.authMsg = text
	m.authOK = ok
	m.authSeq++
	seq := m.authSeq
	return m, tea.Tick(authMessageTTL, func(time.Time) tea.Msg {
		return authMsgExpiredMsg{seq: seq}
	})
}

func (m Model) nextAuthField(dir int) authField {
	count := 2
	if m.registerMode {
		count = 3
	}
	next := (int(m.authFocus) + dir + count) % count
	return authField(next)
}

// focusAuthField focuses the current field and blurs the rest.
func (m *Model) focusAuthField() tea.Cmd {
	m.emailInput.Blur()
	m.passInput.Blur()
	m.nameInput.Blur()

	switch m.authFocus {
	case fieldEmail:
		return m.emailInput.Focus()
	case fieldPassword:
		return m.passInput.Focus()
	case fieldFullName:
		return m.nameInput.Focus()
	}
	return nil
}

func (m *Model) blurAuthFields() {
	m.emailInput.Blur()
	m.passInput.Blur()
	m.nameInput.Blur()
}

// =============================================================================
// HELPERS
// =============================================================================

func clamp(i, length int) int {
	if i >= length {
		i = length - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func lineAt(lines []cart.Line, i int) (cart.Line, bool) {
	if i < 0 || i >= len(lines) {
		return cart.Line{}, false
	}
	return lines[i], true
}
