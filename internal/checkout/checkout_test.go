package checkout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menucart/internal/cart"
	"menucart/internal/catalog"
	"menucart/internal/checkout"
	"menucart/internal/orders"
)

type fakePersister struct {
	values map[string]string
}

func newFakePersister() *fakePersister {
	return &fakePersister{values: make(map[string]string)}
}

func (f *fakePersister) Get(key string) (string, bool, error) {
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakePersister) Put(key, value string) error {
	f.values[key] = value
	return nil
}

type fakeRecorder struct {
	inserted []orders.Order
	err      error
}

func (f *fakeRecorder) Insert(o orders.Order) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, o)
	return nil
}

func TestCheckoutEmptyCart(t *testing.T) {
	cartStore := cart.NewStore(newFakePersister())
	rec := &fakeRecorder{}
	svc := checkout.NewService(cartStore, rec)

	_, err := svc.Checkout()

	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Empty(t, rec.inserted, "nothing may be recorded for a rejected checkout")
	assert.Equal(t, 0, cartStore.Len(), "cart unchanged")
}

func TestCheckoutSuccess(t *testing.T) {
	cartStore := cart.NewStore(newFakePersister())
	cartStore.Add(catalog.Product{ID: "2", Name: "Cola", Category: "Drinks", Price: 40})
	cartStore.Add(catalog.Product{ID: "2", Name: "Cola", Category: "Drinks", Price: 40})

	rec := &fakeRecorder{}
	svc := checkout.NewService(cartStore, rec)

	order, err := svc.Checkout()
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Regexp(t, `^[A-Z]-\d{5}$`, order.Receipt)
	assert.InDelta(t, 80.0, order.Total, 1e-9)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)

	// The cart is cleared wholesale.
	assert.Equal(t, 0, cartStore.Len())
	assert.Equal(t, 0, cartStore.TotalItems())

	require.Len(t, rec.inserted, 1)
	assert.Equal(t, order.ID, rec.inserted[0].ID)
}

func TestCheckoutRecordingIsBestEffort(t *testing.T) {
	cartStore := cart.NewStore(newFakePersister())
	cartStore.Add(catalog.Product{ID: "1", Name: "Veg Burger", Category: "Burgers", Price: 120})

	rec := &fakeRecorder{err: assert.AnError}
	svc := checkout.NewService(cartStore, rec)

	order, err := svc.Checkout()

	// A failed history insert does not fail the simulated payment.
	require.NoError(t, err)
	assert.NotEmpty(t, order.Receipt)
	assert.Equal(t, 0, cartStore.Len())
}
