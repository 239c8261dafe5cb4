package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	switch m.mode {
	case menuView:
		b.WriteString(m.renderMenu())
	case cartView:
		b.WriteString(m.renderCart())
	case authView:
		b.WriteString(m.renderAuth())
	case historyView:
		b.WriteString(m.renderHistory())
	}

	return b.String()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render(" MenuCart ")
	info := headerInfoStyle.Render(fmt.Sprintf("cart: %d items · ₹%.2f",
		m.cart.TotalItems(), m.cart.TotalPrice()))
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", info)
}

// =============================================================================
// MENU SCREEN
// =============================================================================

func (m Model) renderMenu() string {
	var b strings.Builder

	if m.loading {
		b.WriteString(m.spinner.View())
		b.WriteString(" Loading menu...")
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Failed to load menu."))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(m.loadErr.Error()))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("c cart · o orders · l login · q quit"))
		return b.String()
	}

	// Category bar
	var cats []string
	for i, c := range m.categories {
		label := c
		if label == "all" {
			label = "All"
		}
		if i == m.catIndex {
			cats = append(cats, categoryActiveStyle.Render(label))
		} else {
			cats = append(cats, categoryStyle.Render(label))
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cats...))
	b.WriteString("\n\n")

	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	items := m.filtered()
	if len(items) == 0 {
		b.WriteString(dimStyle.Render("No dishes match."))
		b.WriteString("\n")
	}
	for i, item := range items {
		marker := "  "
		if i == m.cursor && !m.search.Focused() {
			marker = cursorStyle.Render("▸ ")
		}
		line := fmt.Sprintf("%s%-28s %s  %s",
			marker,
			item.Name,
			priceStyle.Render(fmt.Sprintf("₹%8.2f", item.Price)),
			dimStyle.Render(item.Category),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.checkoutMsg != "" && m.checkoutOK {
		b.WriteString("\n")
		b.WriteString(okStyle.Render(m.checkoutMsg))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select · enter add · ←/→ category · / search · c cart · o orders · l login · q quit"))
	return b.String()
}

// =============================================================================
// HISTORY SCREEN
// =============================================================================

func (m Model) renderHistory() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" Recent Orders "))
	b.WriteString("\n\n")

	if m.historyErr != nil {
		b.WriteString(errorStyle.Render("Failed to load order history."))
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("esc back"))
		return b.String()
	}

	if len(m.historyOrders) == 0 {
		b.WriteString(dimStyle.Render("No orders yet."))
		b.WriteString("\n")
	}
	for _, o := range m.historyOrders {
		b.WriteString(fmt.Sprintf("%s  %s  %s\n",
			dimStyle.Render(o.CreatedAt.Local().Format("2006-01-02 15:04")),
			o.Receipt,
			priceStyle.Render(fmt.Sprintf("₹%.2f", o.Total)),
		))
		for _, item := range o.Items {
			b.WriteString(dimStyle.Render(fmt.Sprintf("    %s ×%d", item.Name, item.Quantity)))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("esc back"))
	return b.String()
}

// =============================================================================
// CART SCREEN
// =============================================================================

func (m Model) renderCart() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" Your Cart "))
	b.WriteString("\n\n")

	lines := m.cart.Lines()
	if len(lines) == 0 {
		b.WriteString(dimStyle.Render("Your cart is empty."))
		b.WriteString("\n")
	}
	for i, line := range lines {
		marker := "  "
		if i == m.cartCursor {
			marker = cursorStyle.Render("▸ ")
		}
		b.WriteString(fmt.Sprintf("%s%-28s ×%-3d %s  %s\n",
			marker,
			line.Name,
			line.Quantity,
			priceStyle.Render(fmt.Sprintf("₹%8.2f", line.Price)),
			dimStyle.Render(fmt.Sprintf("= ₹%.2f", line.Subtotal())),
		))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %s (%d items)\n",
		priceStyle.Render(fmt.Sprintf("₹%.2f", m.cart.TotalPrice())),
		m.cart.TotalItems()))

	if m.checkoutMsg != "" {
		b.WriteString("\n")
		if m.checkoutOK {
			b.WriteString(okStyle.Render(m.checkoutMsg))
		} else {
			b.WriteString(errorStyle.Render(m.checkoutMsg))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ select · + / - quantity · x remove · enter checkout · esc back"))
	return b.String()
}

// =============================================================================
// AUTH SCREEN
// =============================================================================

func (m Model) renderAuth() string {
	var b strings.Builder

	heading := " Login "
	if m.registerMode {
		heading = " Register "
	}
	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("Email"))
	b.WriteString(m.emailInput.View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Password"))
	b.WriteString(m.passInput.View())
	b.WriteString("\n")
	if m.registerMode {
		b.WriteString(labelStyle.Render("Name"))
		b.WriteString(m.nameInput.View())
		b.WriteString("\n")
	}

	if m.authMsg != "" {
		b.WriteString("\n")
		if m.authOK {
			b.WriteString(okStyle.Render(m.authMsg))
		} else {
			b.WriteString(errorStyle.Render(m.authMsg))
		}
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab next field · ctrl+r login/register · enter submit · esc back"))
	return b.String()
}
