package email

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names accepted by the send endpoint. A few names alias the
// order-confirmation layout until their own templates exist.
const (
	TemplateOrderConfirmation    = "order-confirmation"
	TemplatePaymentFailed        = "payment-failed"
	TemplateSupportRequest       = "support-request"
	TemplateShippingNotification = "shipping-notification"
	TemplateSupportResponse      = "support-response"
	TemplateWarrantyClaim        = "warranty-claim"
)

var templateFiles = map[string]string{
	TemplateOrderConfirmation:    "templates/order_confirmation.html",
	TemplatePaymentFailed:        "templates/payment_failed.html",
	TemplateSupportRequest:       "templates/support_request.html",
	TemplateShippingNotification: "templates/order_confirmation.html",
	TemplateSupportResponse:      "templates/order_confirmation.html",
	TemplateWarrantyClaim:        "templates/order_confirmation.html",
}

type registry struct {
	templates map[string]*template.Template
}

func loadRegistry() (*registry, error) {
	r := &registry{templates: make(map[string]*template.Template, len(templateFiles))}
	for name, file := range templateFiles {
		t, err := template.ParseFS(templateFS, file)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// lookup returns the template for a registered name, or false. Existence is
// checked before any rendering is attempted.
func (r *registry) lookup(name string) (*template.Template, bool) {
	t, ok := r.templates[name]
	return t, ok
}
