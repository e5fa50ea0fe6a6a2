package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func easypostAt(t *testing.T, handler http.HandlerFunc) *EasyPostClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewEasyPostClient(NewClient("easypost", srv.URL, srv.Client()), "ep_test_key")
}

func sfAddress() AddressInput {
	return AddressInput{Street1: "1 Market St", City: "San Francisco", State: "CA", Zip: "94105"}
}

func TestValidateAddressSuccess(t *testing.T) {
	client := easypostAt(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v2/addresses" {
			t.Errorf("unexpected call: %s %s", r.Method, r.URL.Path)
		}
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Error("missing bearer auth")
		}

		var body struct {
			Address map[string]any `json:"address"`
			Verify  []string       `json:"verify"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Verify) != 1 || body.Verify[0] != "delivery" {
			t.Errorf("verify = %v, want [delivery]", body.Verify)
		}
		if body.Address["country"] != "US" {
			t.Errorf("country = %v, want default US", body.Address["country"])
		}

		fmt.Fprint(w, `{
			"id": "adr_1",
			"street1": "1 MARKET ST",
			"city": "SAN FRANCISCO",
			"state": "CA",
			"zip": "94105-1420",
			"country": "US",
			"verifications": {"delivery": {"success": true}, "zip4": {"success": true}}
		}`)
	})

	res, err := client.ValidateAddress(context.Background(), sfAddress())
	if err != nil {
		t.Fatalf("ValidateAddress: %v", err)
	}
	if !res.Success || res.Address == nil || res.Address.Zip != "94105-1420" {
		t.Fatalf("result = %+v", res)
	}
}

func TestValidateAddressDeliveryFailureIsNotAnError(t *testing.T) {
	client := easypostAt(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprint(w, `{
			"id": "adr_2",
			"verifications": {"delivery": {"success": false, "errors": [{"message": "Address not found"}]}}
		}`)
	})

	res, err := client.ValidateAddress(context.Background(), sfAddress())
	if err != nil {
		t.Fatalf("delivery failure must not be a transport error: %v", err)
	}
	if res.Success {
		t.Fatal("expected success=false")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Address not found" {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestValidateAddressVendorOutageIsAnError(t *testing.T) {
	client := easypostAt(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := client.ValidateAddress(context.Background(), sfAddress()); err == nil {
		t.Fatal("expected error on vendor 5xx")
	}
}

func TestSuggestionsWithoutKeyUseLocalCorrections(t *testing.T) {
	client := NewEasyPostClient(NewClient("easypost", "https://api.easypost.example", nil), "")

	tests := map[string]struct {
		street1 string
		want    string
	}{
		"misspelled street": {"123 main stret", "123 Main Street"},
		"st abbreviation":   {"456 oak st", "456 Oak Street"},
		"ave abbreviation":  {"789 fifth ave", "789 Fifth Avenue"},
		"blvd abbreviation": {"10 sunset blvd", "10 Sunset Boulevard"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			addr := sfAddress()
			addr.Street1 = tc.street1

			res, err := client.GetAddressSuggestions(context.Background(), addr)
			if err != nil {
				t.Fatalf("GetAddressSuggestions: %v", err)
			}
			if !res.Success || len(res.Suggestions) != 1 {
				t.Fatalf("result = %+v", res)
			}
			got := res.Suggestions[0]
			if got.Street1 != tc.want {
				t.Fatalf("street1 = %q, want %q", got.Street1, tc.want)
			}
			if !strings.HasPrefix(got.ID, "mock_") {
				t.Fatalf("id = %q, want mock_ prefix", got.ID)
			}
			if got.Verifications.Zip4.Zip4 != "94105-1234" {
				t.Fatalf("zip4 = %q", got.Verifications.Zip4.Zip4)
			}
		})
	}
}

func TestSuggestionsWithoutKeyNoCorrectionNeeded(t *testing.T) {
	client := NewEasyPostClient(NewClient("easypost", "https://api.easypost.example", nil), "")

	addr := sfAddress()
	addr.Street1 = "1 Market Street"

	res, err := client.GetAddressSuggestions(context.Background(), addr)
	if err != nil {
		t.Fatalf("GetAddressSuggestions: %v", err)
	}
	if !res.Success {
		t.Fatal("expected success")
	}
	if len(res.Suggestions) != 0 {
		t.Fatalf("suggestions = %+v, want none", res.Suggestions)
	}
}
