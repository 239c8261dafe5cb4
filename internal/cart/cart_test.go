package cart_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menucart/internal/cart"
	"menucart/internal/catalog"
)

var (
	vegBurger = catalog.Product{ID: "1", Name: "Veg Burger", Category: "Burgers", Price: 120}
	cola      = catalog.Product{ID: "2", Name: "Cola", Category: "Drinks", Price: 40}
)

// fakePersister is an in-memory stand-in for the SQLite-backed store.
type fakePersister struct {
	values map[string]string
	puts   int
	getErr error
	putErr error
}

func newFakePersister() *fakePersister {
	return &fakePersister{values: make(map[string]string)}
}

func (f *fakePersister) Get(key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakePersister) Put(key, value string) error {
	if f.putErr != nil {
		return f.putErr
	}
	f.puts++
	f.values[key] = value
	return nil
}

// checkTotals asserts the derived totals always match the line contents.
// The invariant must hold after every single mutation, not just end-state.
func checkTotals(t *testing.T, s *cart.Store) {
	t.Helper()

	items := 0
	price := 0.0
	for _, line := range s.Lines() {
		items += line.Quantity
		price += float64(line.Quantity) * line.Price
	}
	assert.Equal(t, items, s.TotalItems())
	assert.InDelta(t, price, s.TotalPrice(), 1e-9)
}

func TestAddMergesIntoSingleLine(t *testing.T) {
	s := cart.NewStore(newFakePersister())

	s.Add(cola)
	checkTotals(t, s)
	s.Add(cola)
	checkTotals(t, s)

	require.Equal(t, 1, s.Len())
	line, ok := s.Line("2")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 40.0, line.Price)
	assert.Equal(t, 2, s.TotalItems())
	assert.InDelta(t, 80.0, s.TotalPrice(), 1e-9)
}

func TestAddCapturesPriceAtAddTime(t *testing.T) {
	s := cart.NewStore(newFakePersister())

	s.Add(vegBurger)

	repriced := vegBurger
	repriced.Price = 999
	s.Add(repriced)

	line, ok := s.Line("1")
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
	assert.Equal(t, 120.0, line.Price, "price must stay as captured on first add")
}

func TestIncrementMissingLineIsNoOp(t *testing.T) {
	p := newFakePersister()
	s := cart.NewStore(p)
	s.Add(cola)
	putsBefore := p.puts

	s.Increment("missing")

	assert.Equal(t, 1, s.TotalItems())
	assert.Equal(t, putsBefore, p.puts, "a no-op must not persist")
	checkTotals(t, s)
}

func TestDecrementNeverGoesBelowOne(t *testing.T) {
	s := cart.NewStore(newFakePersister())
	s.Add(cola)
	s.Increment("2")

	s.Decrement("2")
	line, _ := s.Line("2")
	assert.Equal(t, 1, line.Quantity)
	checkTotals(t, s)

	// Decrementing from 1 stays at 1. Reducing and removing are distinct
	// actions.
	s.Decrement("2")
	line, ok := s.Line("2")
	require.True(t, ok, "decrement must never remove a line")
	assert.Equal(t, 1, line.Quantity)
	checkTotals(t, s)
}

func TestRemoveDeletesLineRegardlessOfQuantity(t *testing.T) {
	s := cart.NewStore(newFakePersister())
	s.Add(cola)
	s.Increment("2")
	s.Increment("2")

	s.Remove("2")

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.TotalItems())
	assert.Zero(t, s.TotalPrice())
	checkTotals(t, s)
}

func TestClearEmptiesEverything(t *testing.T) {
	s := cart.NewStore(newFakePersister())
	s.Add(cola)
	s.Add(vegBurger)

	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Lines())
	checkTotals(t, s)
}

func TestEveryMutationPersists(t *testing.T) {
	p := newFakePersister()
	s := cart.NewStore(p)

	s.Add(cola)       // 1
	s.Add(vegBurger)  // 2
	s.Increment("2")  // 3
	s.Decrement("2")  // 4
	s.Remove("1")     // 5
	s.Clear()         // 6

	assert.Equal(t, 6, p.puts)

	var persisted map[string]cart.Line
	require.NoError(t, json.Unmarshal([]byte(p.values[cart.StorageKey]), &persisted))
	assert.Empty(t, persisted)
}

func TestObserverNotifiedAfterEveryMutation(t *testing.T) {
	s := cart.NewStore(newFakePersister())

	calls := 0
	s.OnChange(func() { calls++ })

	s.Add(cola)
	s.Increment("2")
	s.Decrement("2")
	s.Remove("2")
	s.Clear()

	assert.Equal(t, 5, calls)
}

func TestRestoreFromPersistedState(t *testing.T) {
	p := newFakePersister()
	first := cart.NewStore(p)
	first.Add(cola)
	first.Add(cola)
	first.Add(vegBurger)

	second := cart.NewStore(p)

	assert.Equal(t, 2, second.Len())
	assert.Equal(t, 3, second.TotalItems())
	assert.InDelta(t, 200.0, second.TotalPrice(), 1e-9)
	checkTotals(t, second)
}

func TestMalformedPersistedCartStartsEmpty(t *testing.T) {
	p := newFakePersister()
	p.values[cart.StorageKey] = `{not json at all`

	s := cart.NewStore(p)

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.TotalItems())
	assert.Zero(t, s.TotalPrice())

	// The store stays fully usable afterwards.
	s.Add(cola)
	assert.Equal(t, 1, s.TotalItems())
}

func TestRestoreEnforcesQuantityFloor(t *testing.T) {
	p := newFakePersister()
	p.values[cart.StorageKey] = `{"9":{"id":"9","name":"Ghost","price":10,"qty":0}}`

	s := cart.NewStore(p)

	line, ok := s.Line("9")
	require.True(t, ok)
	assert.Equal(t, 1, line.Quantity)
	checkTotals(t, s)
}

func TestPersistFailureDoesNotBreakSession(t *testing.T) {
	p := newFakePersister()
	p.putErr = assert.AnError
	s := cart.NewStore(p)

	s.Add(cola)

	// Persist failed silently; in-memory state is still correct.
	assert.Equal(t, 1, s.TotalItems())
	checkTotals(t, s)
}
