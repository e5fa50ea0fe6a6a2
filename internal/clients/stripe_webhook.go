package clients

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultWebhookTolerance bounds how stale a signed webhook timestamp may be.
const DefaultWebhookTolerance = 5 * time.Minute

var (
	ErrNoSignature      = errors.New("no signature provided")
	ErrBadSignature     = errors.New("webhook signature verification failed")
	ErrStaleSignature   = errors.New("webhook timestamp outside tolerance")
)

// WebhookEvent is the envelope Stripe posts to the webhook endpoint. Object
// stays raw so each event type unmarshals its own payload.
type WebhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// WebhookPaymentIntent is the payment_intent object as delivered in
// payment_intent.succeeded / payment_intent.payment_failed events.
type WebhookPaymentIntent struct {
	ID           string            `json:"id"`
	Amount       int64             `json:"amount"`
	Customer     string            `json:"customer"`
	ReceiptEmail string            `json:"receipt_email"`
	Metadata     map[string]string `json:"metadata"`
	Shipping     *struct {
		Name    string         `json:"name"`
		Address *StripeAddress `json:"address"`
	} `json:"shipping"`
	LastPaymentError *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// ConstructWebhookEvent verifies the Stripe-Signature header (t=...,v1=...
// scheme, HMAC-SHA256 over "timestamp.payload") and unmarshals the event.
func ConstructWebhookEvent(payload []byte, sigHeader, secret string, tolerance time.Duration, now time.Time) (*WebhookEvent, error) {
	if sigHeader == "" {
		return nil, ErrNoSignature
	}

	var ts int64
	var sigs []string
	for _, part := range strings.Split(sigHeader, ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch k {
		case "t":
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return nil, ErrBadSignature
			}
			ts = parsed
		case "v1":
			sigs = append(sigs, v)
		}
	}
	if ts == 0 || len(sigs) == 0 {
		return nil, ErrBadSignature
	}

	if tolerance > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > tolerance || age < -tolerance {
			return nil, ErrStaleSignature
		}
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	verified := false
	for _, sig := range sigs {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			verified = true
			break
		}
	}
	if !verified {
		return nil, ErrBadSignature
	}

	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal event: %w", err)
	}
	return &ev, nil
}

// SignWebhookPayload produces a Stripe-Signature header value for a payload.
// Used by tests and local tooling; the inverse of ConstructWebhookEvent.
func SignWebhookPayload(payload []byte, secret string, at time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", at.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", at.Unix(), hex.EncodeToString(mac.Sum(nil)))
}
