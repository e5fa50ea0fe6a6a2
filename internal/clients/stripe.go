package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
)

// StripeClient wraps the Stripe REST API surface the orchestration needs:
// customer resolution, payment intents, embedded checkout sessions, session
// lookup, and tax calculations. Requests are form-encoded per the Stripe
// wire protocol; every mutating call carries an Idempotency-Key.
type StripeClient struct {
	c      *Client
	apiKey string
}

func NewStripeClient(c *Client, apiKey string) *StripeClient {
	return &StripeClient{c: c, apiKey: apiKey}
}

type StripeAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type Customer struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Status       string `json:"status"`
}

type CheckoutSession struct {
	ID              string           `json:"id"`
	ClientSecret    string           `json:"client_secret"`
	AmountTotal     *int64           `json:"amount_total"`
	PaymentIntent   string           `json:"payment_intent"`
	CustomerDetails *CustomerDetails `json:"customer_details"`
}

type CustomerDetails struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address *StripeAddress `json:"address"`
}

type TaxCalculation struct {
	ID                 string         `json:"id"`
	TaxAmountExclusive int64          `json:"tax_amount_exclusive"`
	AmountTotal        int64          `json:"amount_total"`
	TaxBreakdown       []TaxBreakdown `json:"tax_breakdown"`
}

type TaxBreakdown struct {
	TaxAmount      int64 `json:"tax_amount"`
	Jurisdiction   struct {
		DisplayName string `json:"display_name"`
	} `json:"jurisdiction"`
	TaxRateDetails struct {
		PercentageDecimal string `json:"percentage_decimal"`
	} `json:"tax_rate_details"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FindCustomerByEmail returns the first customer with the given email, or
// nil when none exists. This is the only duplicate-customer guard; the
// lookup-then-create sequence is not atomic on the vendor side.
func (s *StripeClient) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	q := url.Values{"email": {email}, "limit": {"1"}}
	resp, err := s.c.Do(ctx, http.MethodGet, "/v1/customers", q, nil, s.headers(""))
	if err != nil {
		return nil, apperr.Internalf(err, "Failed to look up customer")
	}
	defer resp.Body.Close()

	var list struct {
		Data []Customer `json:"data"`
	}
	if err := s.decode(resp, &list); err != nil {
		return nil, err
	}
	if len(list.Data) == 0 {
		return nil, nil
	}
	return &list.Data[0], nil
}

func (s *StripeClient) GetCustomer(ctx context.Context, id string) (*Customer, error) {
	resp, err := s.c.Do(ctx, http.MethodGet, "/v1/customers/"+id, nil, nil, s.headers(""))
	if err != nil {
		return nil, apperr.Internalf(err, "Failed to look up customer")
	}
	defer resp.Body.Close()

	var cust Customer
	if err := s.decode(resp, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

func (s *StripeClient) CreateCustomer(ctx context.Context, email, name string, addr StripeAddress, idempotencyKey string) (*Customer, error) {
	form := url.Values{}
	form.Set("email", email)
	form.Set("name", name)
	form.Set("shipping[name]", name)
	encodeAddress(form, "shipping[address]", addr)

	var cust Customer
	if err := s.postForm(ctx, "/v1/customers", form, idempotencyKey, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

type PaymentIntentParams struct {
	AmountCents    int64
	CustomerID     string
	CustomerName   string
	Address        StripeAddress
	Metadata       map[string]string
	IdempotencyKey string
}

func (s *StripeClient) CreatePaymentIntent(ctx context.Context, p PaymentIntentParams) (*PaymentIntent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(p.AmountCents, 10))
	form.Set("currency", "usd")
	form.Set("customer", p.CustomerID)
	form.Set("automatic_payment_methods[enabled]", "true")
	form.Set("shipping[name]", p.CustomerName)
	encodeAddress(form, "shipping[address]", p.Address)
	for k, v := range p.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var pi PaymentIntent
	if err := s.postForm(ctx, "/v1/payment_intents", form, p.IdempotencyKey, &pi); err != nil {
		return nil, err
	}
	return &pi, nil
}

type SessionLineItem struct {
	Name            string
	ProductID       string
	UnitAmountCents int64
	Quantity        int
}

type CheckoutSessionParams struct {
	LineItems      []SessionLineItem
	Metadata       map[string]string
	IdempotencyKey string
}

// CreateCheckoutSession builds an embedded-components session: vendor-side
// automatic tax, US-only address collection, invoice generation, and no
// redirect URLs (forbidden in this ui mode).
func (s *StripeClient) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("ui_mode", "custom")
	form.Set("mode", "payment")
	form.Set("currency", "usd")
	form.Set("automatic_tax[enabled]", "true")
	form.Set("shipping_address_collection[allowed_countries][0]", "US")
	form.Set("invoice_creation[enabled]", "true")

	for i, li := range p.LineItems {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[price_data][currency]", "usd")
		form.Set(prefix+"[price_data][product_data][name]", li.Name)
		if li.ProductID != "" {
			form.Set(prefix+"[price_data][product_data][metadata][product_id]", li.ProductID)
		}
		form.Set(prefix+"[price_data][unit_amount]", strconv.FormatInt(li.UnitAmountCents, 10))
		form.Set(prefix+"[quantity]", strconv.Itoa(li.Quantity))
	}
	for k, v := range p.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	var sess CheckoutSession
	if err := s.postForm(ctx, "/v1/checkout/sessions", form, p.IdempotencyKey, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListSessionsByPaymentIntent returns every checkout session referencing the
// payment intent. Callers enforce the exactly-one invariant.
func (s *StripeClient) ListSessionsByPaymentIntent(ctx context.Context, paymentIntentID string) ([]CheckoutSession, error) {
	q := url.Values{"payment_intent": {paymentIntentID}}
	resp, err := s.c.Do(ctx, http.MethodGet, "/v1/checkout/sessions", q, nil, s.headers(""))
	if err != nil {
		return nil, apperr.Internalf(err, "Internal Server Error")
	}
	defer resp.Body.Close()

	var list struct {
		Data []CheckoutSession `json:"data"`
	}
	if err := s.decode(resp, &list); err != nil {
		return nil, err
	}
	return list.Data, nil
}

type TaxLineItem struct {
	AmountCents int64
	Reference   string
}

// CreateTaxCalculation runs Stripe Tax for the destination address. Line
// amounts are tax-exclusive minor units under the general tangible-goods
// tax code.
func (s *StripeClient) CreateTaxCalculation(ctx context.Context, lines []TaxLineItem, addr StripeAddress) (*TaxCalculation, error) {
	form := url.Values{}
	form.Set("currency", "usd")
	for i, li := range lines {
		prefix := fmt.Sprintf("line_items[%d]", i)
		form.Set(prefix+"[amount]", strconv.FormatInt(li.AmountCents, 10))
		form.Set(prefix+"[reference]", li.Reference)
		form.Set(prefix+"[tax_behavior]", "exclusive")
		form.Set(prefix+"[tax_code]", "txcd_99999999")
	}
	line1 := addr.Line1
	if line1 == "" {
		line1 = "123 Main St"
	}
	country := addr.Country
	if country == "" {
		country = "US"
	}
	form.Set("customer_details[address][line1]", line1)
	form.Set("customer_details[address][city]", addr.City)
	form.Set("customer_details[address][state]", addr.State)
	form.Set("customer_details[address][postal_code]", addr.PostalCode)
	form.Set("customer_details[address][country]", country)
	form.Set("customer_details[address_source]", "shipping")
	form.Set("shipping_cost[amount]", "0")
	form.Set("shipping_cost[tax_behavior]", "exclusive")

	var calc TaxCalculation
	if err := s.postForm(ctx, "/v1/tax/calculations", form, "", &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

func (s *StripeClient) postForm(ctx context.Context, path string, form url.Values, idempotencyKey string, out any) error {
	h := s.headers(idempotencyKey)
	h.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.c.Do(ctx, http.MethodPost, path, nil, strings.NewReader(form.Encode()), h)
	if err != nil {
		return apperr.Internalf(err, "Payment provider request failed")
	}
	defer resp.Body.Close()

	return s.decode(resp, out)
}

func (s *StripeClient) headers(idempotencyKey string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+s.apiKey)
	if idempotencyKey != "" {
		h.Set("Idempotency-Key", idempotencyKey)
	}
	return h
}

// decode unmarshals a success body, or maps a Stripe error envelope: a
// vendor-reported 4xx carries the vendor message, every other failure is
// internal.
func (s *StripeClient) decode(resp *http.Response, out any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Internalf(err, "Payment provider request failed")
	}

	if resp.StatusCode >= 400 {
		var se stripeError
		if jsonErr := json.Unmarshal(body, &se); jsonErr == nil && se.Error.Message != "" && resp.StatusCode < 500 {
			return apperr.Vendorf("%s", se.Error.Message)
		}
		return apperr.Internalf(fmt.Errorf("stripe status %d", resp.StatusCode), "Payment provider request failed")
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperr.Internalf(err, "Payment provider request failed")
	}
	return nil
}

func encodeAddress(form url.Values, prefix string, addr StripeAddress) {
	form.Set(prefix+"[line1]", addr.Line1)
	if addr.Line2 != "" {
		form.Set(prefix+"[line2]", addr.Line2)
	}
	form.Set(prefix+"[city]", addr.City)
	form.Set(prefix+"[state]", addr.State)
	form.Set(prefix+"[postal_code]", addr.PostalCode)
	form.Set(prefix+"[country]", addr.Country)
}

// Cents converts a dollar amount to integer minor units.
func Cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
