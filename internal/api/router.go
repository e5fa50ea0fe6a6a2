package api

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/r-mccarty/opticworks-store-sub001/internal/analytics"
	"github.com/r-mccarty/opticworks-store-sub001/internal/cart"
	"github.com/r-mccarty/opticworks-store-sub001/internal/checkout"
	"github.com/r-mccarty/opticworks-store-sub001/internal/clients"
	"github.com/r-mccarty/opticworks-store-sub001/internal/email"
	"github.com/r-mccarty/opticworks-store-sub001/internal/inventory"
	"github.com/r-mccarty/opticworks-store-sub001/internal/middleware"
)

type Deps struct {
	Logger *log.Logger

	Checkout  *checkout.Service
	Carts     *cart.Sessions
	Email     *email.Service
	Inventory *inventory.Service
	Analytics *analytics.Store
	EasyPost  *clients.EasyPostClient

	WebhookSecret    string
	CORSAllowOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.Recover(d.Logger))
	r.Use(middleware.Logging(d.Logger))
	r.Use(middleware.CORS(d.CORSAllowOrigins))

	r.Get("/health", healthHandler)

	taxH := NewTaxHandler(d.Logger)
	addressH := NewAddressHandler(d.EasyPost, d.Logger)
	shippingH := NewShippingHandler(d.Logger)
	checkoutH := NewCheckoutHandler(d.Checkout, d.Logger)
	webhookH := NewWebhookHandler(d.Checkout, d.WebhookSecret, d.Logger)
	emailH := NewEmailHandler(d.Email, d.Logger)
	inventoryH := NewInventoryHandler(d.Inventory, d.Logger)
	analyticsH := NewAnalyticsHandler(d.Analytics, d.Logger)

	carts := d.Carts
	if carts == nil {
		carts = cart.NewSessions()
	}
	cartH := NewCartHandler(carts, d.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Post("/tax/calculate", taxH.Calculate)

		r.Post("/easypost/validate-address", addressH.Validate)
		r.Post("/easypost/suggest-address", addressH.Suggest)

		r.Post("/shipping/rates", shippingH.Rates)

		r.Post("/stripe/create-payment-intent", checkoutH.CreatePaymentIntent)
		r.Post("/stripe/create-checkout-session", checkoutH.CreateCheckoutSession)
		r.Post("/stripe/get-session-tax", checkoutH.SessionTax)
		r.Post("/stripe/webhook", webhookH.Handle)
		r.Get("/order-details", checkoutH.OrderDetails)

		r.Post("/email/send", emailH.Send)

		r.Post("/inventory/check", inventoryH.Check)
		r.Get("/inventory/check", inventoryH.Lookup)

		r.Post("/analytics/events", analyticsH.Track)
		r.Get("/analytics/events", analyticsH.Recent)

		r.Route("/cart/{cartId}", func(r chi.Router) {
			r.Get("/", cartH.Get)
			r.Post("/items", cartH.AddItem)
			r.Put("/items/{productId}", cartH.UpdateItem)
			r.Delete("/items/{productId}", cartH.RemoveItem)
			r.Post("/clear", cartH.Clear)
			r.Post("/checkout", cartH.Freeze)
			r.Post("/checkout/release", cartH.Release)
			r.Post("/checkout/complete", cartH.Complete)
			r.Get("/checkout-state", cartH.CheckoutState)
			r.Put("/checkout-state", cartH.UpdateCheckoutState)
		})
	})

	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}
