package cart

import "sync"

// Session bundles the per-shopper state containers with the coordinator
// that owns transitions between them.
type Session struct {
	Cart        *Store
	Checkout    *CheckoutState
	Coordinator *Coordinator
}

// Sessions hands out per-shopper state keyed by cart id. State lives in
// memory only; a restart empties every cart.
type Sessions struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessions() *Sessions {
	return &Sessions{sessions: make(map[string]*Session)}
}

// Get returns the session for the given cart id, creating it on first use.
func (s *Sessions) Get(cartID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[cartID]; ok {
		return sess
	}
	store := NewStore()
	checkout := NewCheckoutState()
	sess := &Session{
		Cart:        store,
		Checkout:    checkout,
		Coordinator: NewCoordinator(store, checkout),
	}
	s.sessions[cartID] = sess
	return sess
}
