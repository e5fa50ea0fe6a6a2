package email

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/r-mccarty/opticworks-store-sub001/internal/apperr"
)

type fakeSender struct {
	calls int
	to    string
	html  string
	err   error
}

func (f *fakeSender) Send(ctx context.Context, to, subject, html string) (string, error) {
	f.calls++
	f.to = to
	f.html = html
	if f.err != nil {
		return "", f.err
	}
	return "msg_123", nil
}

func discardLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func orderData() map[string]any {
	return map[string]any{
		"CustomerName": "Ada Lovelace",
		"OrderNumber":  "ORD-1001",
		"Items": []map[string]any{
			{"Name": "CyberShade IRX Sunroof", "Quantity": 1, "Price": 299.99},
		},
		"Subtotal": 299.99,
		"Shipping": 0.0,
		"Tax":      21.75,
		"Total":    321.74,
		"ShippingAddress": map[string]any{
			"Name":     "Ada Lovelace",
			"Address1": "1 Analytical Way",
			"City":     "San Francisco",
			"State":    "CA",
			"ZipCode":  "94105",
		},
	}
}

func TestSendUnknownTemplate(t *testing.T) {
	sender := &fakeSender{}
	svc, err := NewService(sender, true, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Send(context.Background(), Request{
		To:       "a@example.com",
		Subject:  "hi",
		Template: "no-such-template",
		Data:     map[string]any{},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.Validation {
		t.Errorf("expected validation error, got %v", err)
	}
	if sender.calls != 0 {
		t.Error("sender must not be invoked for unknown template")
	}
}

func TestSendMissingFields(t *testing.T) {
	svc, err := NewService(&fakeSender{}, true, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	_, err = svc.Send(context.Background(), Request{To: "a@example.com", Subject: "hi", Template: TemplateOrderConfirmation})
	if err == nil {
		t.Fatal("expected error for missing data")
	}
}

func TestSendDevModeRendersWithoutDelivering(t *testing.T) {
	sender := &fakeSender{}
	svc, err := NewService(sender, false, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Send(context.Background(), Request{
		To:       "ada@example.com",
		Subject:  "Order Confirmation - ORD-1001",
		Template: TemplateOrderConfirmation,
		Data:     orderData(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sender.calls != 0 {
		t.Error("dev mode must never deliver")
	}
	if !strings.HasPrefix(res.MessageID, "dev_") {
		t.Errorf("messageId = %q", res.MessageID)
	}
	if res.Preview == "" || !strings.HasSuffix(res.Preview, "...") {
		t.Errorf("expected truncated preview, got %q", res.Preview)
	}
}

func TestSendProductionDelivers(t *testing.T) {
	sender := &fakeSender{}
	svc, err := NewService(sender, true, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	res, err := svc.Send(context.Background(), Request{
		To:       "ada@example.com",
		Subject:  "Order Confirmation - ORD-1001",
		Template: TemplateOrderConfirmation,
		Data:     orderData(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if sender.calls != 1 {
		t.Fatalf("sender calls = %d", sender.calls)
	}
	if res.MessageID != "msg_123" {
		t.Errorf("messageId = %q", res.MessageID)
	}
	if !strings.Contains(sender.html, "ORD-1001") || !strings.Contains(sender.html, "Ada Lovelace") {
		t.Error("rendered html missing order fields")
	}
}

func TestSendDeliveryFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("vendor down")}
	svc, err := NewService(sender, true, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Send(context.Background(), Request{
		To:       "ada@example.com",
		Subject:  "hello",
		Template: TemplatePaymentFailed,
		Data: map[string]any{
			"CustomerName": "Ada",
			"OrderNumber":  "ORD-1001",
			"Amount":       321.74,
			"RetryURL":     "https://example.com/retry",
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind != apperr.Internal {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestPreview(t *testing.T) {
	tests := map[string]struct {
		in   string
		n    int
		want string
	}{
		"short string unchanged":     {in: "hello", n: 200, want: "hello"},
		"exact length unchanged":     {in: "hello", n: 5, want: "hello"},
		"cut marked with ellipsis":   {in: "hello world", n: 5, want: "hello..."},
		"multi-byte rune kept whole": {in: "héllo wörld", n: 7, want: "héllo w..."},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got := preview(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("preview(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("preview produced invalid UTF-8: %q", got)
			}
		})
	}
}
