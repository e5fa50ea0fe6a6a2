// Package cart holds the two client-visible state containers for a checkout
// attempt: the cart itself and the ephemeral checkout state. The only
// cross-store operation, freezing the cart into a payment session, goes
// through the Coordinator so it is a single atomic transition.
package cart

import "sync"

type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// PaymentSession is the frozen cart snapshot for an in-flight payment
// attempt. A non-empty session and a non-empty active cart never coexist.
type PaymentSession struct {
	SessionID string `json:"sessionId"`
	Items     []Item `json:"items"`
}

// Store is the cart state container. All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	items   []Item
	session *PaymentSession
}

func NewStore() *Store {
	return &Store{}
}

// Add inserts a product or bumps its quantity by one.
func (s *Store) Add(item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			return
		}
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	s.items = append(s.items, item)
}

// Remove drops an item entirely.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(productID)
}

func (s *Store) removeLocked(productID string) {
	out := s.items[:0]
	for _, it := range s.items {
		if it.ID != productID {
			out = append(out, it)
		}
	}
	s.items = out
}

// UpdateQuantity sets an item's quantity. A quantity of zero or less is
// equivalent to removal; no zero-quantity line ever exists.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(productID)
		return
	}
	for i := range s.items {
		if s.items[i].ID == productID {
			s.items[i].Quantity = quantity
			return
		}
	}
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the current cart contents.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyItems(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum float64
	for _, it := range s.items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}

// Session returns the in-flight payment session, or nil.
func (s *Store) Session() *PaymentSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil
	}
	cp := PaymentSession{SessionID: s.session.SessionID, Items: copyItems(s.session.Items)}
	return &cp
}

func copyItems(items []Item) []Item {
	if items == nil {
		return nil
	}
	out := make([]Item, len(items))
	copy(out, items)
	return out
}
