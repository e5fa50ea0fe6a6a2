package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/r-mccarty/opticworks-store-sub001/internal/cart"
)

// CartHandler exposes the per-shopper cart and checkout state over HTTP.
// Carts are keyed by a client-chosen cart id and live in memory.
type CartHandler struct {
	sessions *cart.Sessions
	logger   *log.Logger
}

func NewCartHandler(sessions *cart.Sessions, logger *log.Logger) *CartHandler {
	return &CartHandler{sessions: sessions, logger: logger}
}

type cartView struct {
	Items          []cart.Item          `json:"items"`
	TotalItems     int                  `json:"totalItems"`
	TotalPrice     float64              `json:"totalPrice"`
	PaymentSession *cart.PaymentSession `json:"paymentSession"`
}

func (h *CartHandler) view(s *cart.Session) cartView {
	items := s.Cart.Items()
	if items == nil {
		items = []cart.Item{}
	}
	return cartView{
		Items:          items,
		TotalItems:     s.Cart.TotalItems(),
		TotalPrice:     s.Cart.TotalPrice(),
		PaymentSession: s.Cart.Session(),
	}
}

// Get returns the current cart contents and totals.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	writeJSON(w, http.StatusOK, h.view(s))
}

// AddItem inserts a product or bumps its quantity.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var item cart.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if item.ID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: id")
		return
	}

	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	s.Cart.Add(item)
	writeJSON(w, http.StatusOK, h.view(s))
}

// UpdateItem sets an item's quantity. Zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	s.Cart.UpdateQuantity(chi.URLParam(r, "productId"), body.Quantity)
	writeJSON(w, http.StatusOK, h.view(s))
}

// RemoveItem drops a line entirely.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	s.Cart.Remove(chi.URLParam(r, "productId"))
	writeJSON(w, http.StatusOK, h.view(s))
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	s.Cart.Clear()
	writeJSON(w, http.StatusOK, h.view(s))
}

// Freeze moves the cart contents into a payment session snapshot. An empty
// cart has nothing to freeze and is a 400.
func (h *CartHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if body.SessionID == "" {
		writeError(w, http.StatusBadRequest, "Missing required field: sessionId")
		return
	}

	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	if !s.Coordinator.SetPaymentSession(body.SessionID) {
		writeError(w, http.StatusBadRequest, "Cart is empty")
		return
	}
	writeJSON(w, http.StatusOK, h.view(s))
}

// Release restores the frozen items after a failed payment attempt.
func (h *CartHandler) Release(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	s.Coordinator.ReleasePaymentSession()
	writeJSON(w, http.StatusOK, h.view(s))
}

// Complete discards the payment session after the vendor confirms payment.
func (h *CartHandler) Complete(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	s.Coordinator.Complete()
	writeJSON(w, http.StatusOK, h.view(s))
}

// CheckoutState returns the computed totals for the active checkout attempt.
func (h *CartHandler) CheckoutState(w http.ResponseWriter, r *http.Request) {
	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	writeJSON(w, http.StatusOK, s.Checkout.Snapshot())
}

// UpdateCheckoutState records client-computed totals and the shipping
// address for the active checkout attempt.
func (h *CartHandler) UpdateCheckoutState(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Subtotal        *float64              `json:"subtotal"`
		TaxAmount       *float64              `json:"taxAmount"`
		IsCalculating   *bool                 `json:"isCalculatingTax"`
		ShippingAddress *cart.ShippingAddress `json:"shippingAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	s := h.sessions.Get(chi.URLParam(r, "cartId"))
	if body.Subtotal != nil {
		s.Checkout.SetSubtotal(*body.Subtotal)
	}
	if body.TaxAmount != nil {
		s.Checkout.SetTaxAmount(*body.TaxAmount)
	}
	if body.IsCalculating != nil {
		s.Checkout.SetCalculatingTax(*body.IsCalculating)
	}
	if body.ShippingAddress != nil {
		s.Checkout.SetShippingAddress(body.ShippingAddress)
	}
	writeJSON(w, http.StatusOK, s.Checkout.Snapshot())
}
