package cart

// Coordinator owns the one cross-store transition: freezing the active cart
// into a payment session. It executes in-memory under the cart lock, so it
// cannot partially apply.
type Coordinator struct {
	cart     *Store
	checkout *CheckoutState
}

func NewCoordinator(cart *Store, checkout *CheckoutState) *Coordinator {
	return &Coordinator{cart: cart, checkout: checkout}
}

// SetPaymentSession atomically moves the cart contents into a session
// snapshot and empties the cart. On an empty cart it is a no-op and reports
// false: there is nothing to freeze.
func (c *Coordinator) SetPaymentSession(sessionID string) bool {
	c.cart.mu.Lock()
	defer c.cart.mu.Unlock()

	if len(c.cart.items) == 0 {
		return false
	}
	c.cart.session = &PaymentSession{
		SessionID: sessionID,
		Items:     copyItems(c.cart.items),
	}
	c.cart.items = nil
	return true
}

// ReleasePaymentSession restores the frozen items to the cart after a failed
// payment attempt. Items already re-added to the cart keep their place; the
// session snapshot is merged back line by line. The whole merge happens under
// the cart lock so a concurrent freeze sees either the full restore or none
// of it.
func (c *Coordinator) ReleasePaymentSession() {
	c.cart.mu.Lock()
	defer c.cart.mu.Unlock()

	session := c.cart.session
	if session == nil {
		return
	}
	c.cart.session = nil

	for _, restore := range session.Items {
		found := false
		for i := range c.cart.items {
			if c.cart.items[i].ID == restore.ID {
				c.cart.items[i].Quantity += restore.Quantity
				found = true
				break
			}
		}
		if !found {
			c.cart.items = append(c.cart.items, restore)
		}
	}
}

// Complete discards the payment session after the vendor confirms payment
// and resets the checkout totals for the next attempt.
func (c *Coordinator) Complete() {
	c.cart.mu.Lock()
	c.cart.session = nil
	c.cart.mu.Unlock()
	c.checkout.Reset()
}
