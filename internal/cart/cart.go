// Package cart holds the shopping cart state machine: one line per product,
// quantity never below 1, totals recomputed and state persisted on every
// mutation.
package cart

import (
	"encoding/json"
	"sort"

	"menucart/internal/catalog"
	"menucart/internal/logger"
)

// StorageKey is the logical key the cart persists itself under.
const StorageKey = "cart"

// Line is a cart entry for one product. Price is captured at add time so a
// later catalog change does not silently reprice an existing cart.
type Line struct {
	ProductID string  `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"qty"`
}

// Subtotal returns quantity times captured price.
func (l Line) Subtotal() float64 {
	return float64(l.Quantity) * l.Price
}

// Persister is the slice of the persistent store the cart needs.
type Persister interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Store owns the cart mapping. All access happens on the UI event loop, so
// no locking is needed.
type Store struct {
	lines    map[string]Line
	order    []string // stable presentation order of product ids
	total    int
	price    float64
	persist  Persister
	onChange func()
}

// NewStore loads any persisted cart from p. Absent or malformed state yields
// an empty cart; a broken persisted value must never take the session down.
func NewStore(p Persister) *Store {
	s := &Store{
		lines:   make(map[string]Line),
		persist: p,
	}
	s.restore()
	s.recompute()
	return s
}

// OnChange registers the single observer notified after every mutation.
// The UI uses this to trigger a full re-render.
func (s *Store) OnChange(fn func()) {
	s.onChange = fn
}

// restore reads the persisted mapping. Parse failure is deliberately treated
// as absence (demo-grade recovery policy), logged but not surfaced.
func (s *Store) restore() {
	if s.persist == nil {
		return
	}

	raw, ok, err := s.persist.Get(StorageKey)
	if err != nil {
		logger.LogWarn("Could not read persisted cart, starting empty: %v", err)
		return
	}
	if !ok || raw == "" {
		return
	}

	var lines map[string]Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		logger.LogWarn("Persisted cart is malformed, starting empty: %v", err)
		return
	}

	for id, line := range lines {
		if line.Quantity < 1 {
			// Enforce the quantity floor even against hand-edited state.
			line.Quantity = 1
		}
		if line.ProductID == "" {
			line.ProductID = id
		}
		s.lines[id] = line
	}

	// Insertion order is not recoverable from the persisted mapping; fall
	// back to a sorted, deterministic presentation order.
	for id := range s.lines {
		s.order = append(s.order, id)
	}
	sort.Strings(s.order)
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Add puts one unit of product in the cart, merging into an existing line
// when present. It never fails.
func (s *Store) Add(p catalog.Product) {
	if line, ok := s.lines[p.ID]; ok {
		line.Quantity++
		s.lines[p.ID] = line
	} else {
		s.lines[p.ID] = Line{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  1,
		}
		s.order = append(s.order, p.ID)
	}
	s.commit()
}

// Increment raises the quantity of an existing line by one. A missing line
// is a no-op, not an error.
func (s *Store) Increment(productID string) {
	line, ok := s.lines[productID]
	if !ok {
		return
	}
	line.Quantity++
	s.lines[productID] = line
	s.commit()
}

// Decrement lowers the quantity of an existing line by one, but never below
// 1. Reducing and removing are distinct actions: decrementing from 1 stays
// at 1, and only Remove eliminates a line.
func (s *Store) Decrement(productID string) {
	line, ok := s.lines[productID]
	if !ok {
		return
	}
	if line.Quantity > 1 {
		line.Quantity--
	}
	s.lines[productID] = line
	s.commit()
}

// Remove deletes the line entirely regardless of quantity.
func (s *Store) Remove(productID string) {
	if _, ok := s.lines[productID]; !ok {
		return
	}
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.commit()
}

// Clear empties the cart wholesale. Checkout uses this after a simulated
// payment.
func (s *Store) Clear() {
	s.lines = make(map[string]Line)
	s.order = nil
	s.commit()
}

// commit recomputes totals, persists the full cart, and notifies the
// observer. The three steps always run together so no caller ever sees
// stale totals or unpersisted state.
func (s *Store) commit() {
	s.recompute()
	s.save()
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Store) recompute() {
	s.total = 0
	s.price = 0
	for _, line := range s.lines {
		s.total += line.Quantity
		s.price += line.Subtotal()
	}
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}

	data, err := json.Marshal(s.lines)
	if err != nil {
		logger.LogError("Failed to serialize cart: %v", err)
		return
	}
	if err := s.persist.Put(StorageKey, string(data)); err != nil {
		logger.LogWarn("Failed to persist cart: %v", err)
	}
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Lines returns the cart lines in stable presentation order.
func (s *Store) Lines() []Line {
	lines := make([]Line, 0, len(s.order))
	for _, id := range s.order {
		lines = append(lines, s.lines[id])
	}
	return lines
}

// Line returns the line for productID, if present.
func (s *Store) Line(productID string) (Line, bool) {
	line, ok := s.lines[productID]
	return line, ok
}

// Len returns the number of distinct lines.
func (s *Store) Len() int {
	return len(s.lines)
}

// TotalItems is the sum of all line quantities.
func (s *Store) TotalItems() int {
	return s.total
}

// TotalPrice is the sum over lines of quantity times captured price.
func (s *Store) TotalPrice() float64 {
	return s.price
}
