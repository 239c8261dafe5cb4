// Package checkout simulates payment. It is the seam where a real payment
// collaborator would plug in; today success is unconditional once the cart
// is non-empty.
package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"menucart/internal/cart"
	"menucart/internal/logger"
	"menucart/internal/orders"
)

var ErrEmptyCart = errors.New("cart is empty")

// Recorder persists simulated orders. Recording is best-effort: a failed
// insert is logged but does not fail the checkout.
type Recorder interface {
	Insert(orders.Order) error
}

type Service struct {
	cart     *cart.Store
	recorder Recorder
}

func NewService(c *cart.Store, r Recorder) *Service {
	return &Service{cart: c, recorder: r}
}

// Checkout validates the cart, simulates a successful payment, records the
// order, and clears the cart. An empty cart fails with ErrEmptyCart and
// leaves everything untouched.
func (s *Service) Checkout() (orders.Order, error) {
	if s.cart.Len() == 0 {
		return orders.Order{}, ErrEmptyCart
	}

	lines := s.cart.Lines()

	receipt, err := orders.NewReceiptCode(lines[0].Name)
	if err != nil {
		logger.LogWarn("Failed to generate receipt code: %v", err)
		receipt = "X-00000"
	}

	order := orders.Order{
		ID:        uuid.NewString(),
		Receipt:   receipt,
		Items:     lines,
		Total:     s.cart.TotalPrice(),
		CreatedAt: time.Now(),
	}

	if s.recorder != nil {
		if err := s.recorder.Insert(order); err != nil {
			logger.LogWarn("Failed to record simulated order %s: %v", order.ID, err)
		}
	}

	s.cart.Clear()
	logger.LogInfo("Simulated payment for order %s (receipt %s, total %.2f)",
		order.ID, order.Receipt, order.Total)

	return order, nil
}
