package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// EasyPostClient wraps the address verification API. When no API key is
// configured (local development) it falls back to the built-in
// street-abbreviation suggestion table instead of calling out.
type EasyPostClient struct {
	c      *Client
	apiKey string
}

func NewEasyPostClient(c *Client, apiKey string) *EasyPostClient {
	return &EasyPostClient{c: c, apiKey: apiKey}
}

func (e *EasyPostClient) Configured() bool { return e.apiKey != "" }

type AddressInput struct {
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country,omitempty"`
	Name    string `json:"name,omitempty"`
}

type VerificationError struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type DeliveryVerification struct {
	Success bool                `json:"success"`
	Errors  []VerificationError `json:"errors"`
	Details struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		TimeZone  string  `json:"time_zone"`
	} `json:"details"`
}

type Zip4Verification struct {
	Success bool   `json:"success"`
	Zip4    string `json:"zip4"`
}

type ValidatedAddress struct {
	ID          string `json:"id"`
	Street1     string `json:"street1"`
	Street2     string `json:"street2"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	Country     string `json:"country"`
	Name        string `json:"name"`
	Residential bool   `json:"residential"`
	Verifications struct {
		Delivery DeliveryVerification `json:"delivery"`
		Zip4     Zip4Verification     `json:"zip4"`
	} `json:"verifications"`
}

type ValidationResult struct {
	Success     bool               `json:"success"`
	Address     *ValidatedAddress  `json:"address,omitempty"`
	Suggestions []ValidatedAddress `json:"suggestions,omitempty"`
	Errors      []string           `json:"errors,omitempty"`
}

type SuggestionResult struct {
	Success         bool               `json:"success"`
	Suggestions     []ValidatedAddress `json:"suggestions"`
	OriginalAddress AddressInput       `json:"originalAddress"`
}

// ValidateAddress creates a verified address with the vendor. A vendor
// delivery-verification failure is a success:false result, not an error;
// only transport/vendor outages return an error.
func (e *EasyPostClient) ValidateAddress(ctx context.Context, addr AddressInput) (*ValidationResult, error) {
	if addr.Country == "" {
		addr.Country = "US"
	}

	payload := map[string]any{
		"address": map[string]any{
			"street1": addr.Street1,
			"street2": addr.Street2,
			"city":    addr.City,
			"state":   addr.State,
			"zip":     addr.Zip,
			"country": addr.Country,
			"name":    addr.Name,
		},
		"verify": []string{"delivery"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+e.apiKey)
	h.Set("Content-Type", "application/json")

	resp, err := e.c.Do(ctx, http.MethodPost, "/v2/addresses", nil, bytes.NewReader(body), h)
	if err != nil {
		return nil, fmt.Errorf("easypost request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("easypost response: %w", err)
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("easypost status %d", resp.StatusCode)
	}

	var validated ValidatedAddress
	if err := json.Unmarshal(raw, &validated); err != nil {
		return nil, fmt.Errorf("easypost decode: %w", err)
	}

	if resp.StatusCode >= 400 || !validated.Verifications.Delivery.Success {
		msgs := make([]string, 0, len(validated.Verifications.Delivery.Errors))
		for _, ve := range validated.Verifications.Delivery.Errors {
			msgs = append(msgs, ve.Message)
		}
		if len(msgs) == 0 {
			msgs = []string{"Address validation failed"}
		}
		return &ValidationResult{Success: false, Errors: msgs}, nil
	}

	return &ValidationResult{
		Success: true,
		Address: &validated,
		// the verification call does not produce alternatives
		Suggestions: []ValidatedAddress{},
	}, nil
}

// GetAddressSuggestions returns ranked candidate corrections. With a vendor
// key the verified address is the single candidate; without one the local
// abbreviation table supplies development suggestions. An empty list is a
// valid outcome, not an error.
func (e *EasyPostClient) GetAddressSuggestions(ctx context.Context, addr AddressInput) (*SuggestionResult, error) {
	if !e.Configured() {
		return mockSuggestions(addr), nil
	}

	validation, err := e.ValidateAddress(ctx, addr)
	if err != nil {
		return nil, err
	}
	if validation.Success && validation.Address != nil {
		return &SuggestionResult{
			Success:         true,
			Suggestions:     []ValidatedAddress{*validation.Address},
			OriginalAddress: addr,
		}, nil
	}
	return &SuggestionResult{
		Success:         false,
		Suggestions:     []ValidatedAddress{},
		OriginalAddress: addr,
	}, nil
}

// Common street-suffix corrections for the development suggestion table.
var streetCorrections = []struct{ from, to string }{
	{"stret", "street"},
	{"st", "street"},
	{"ave", "avenue"},
	{"rd", "road"},
	{"blvd", "boulevard"},
	{"ln", "lane"},
	{"dr", "drive"},
}

var wordStart = regexp.MustCompile(`\b\w`)

func mockSuggestions(addr AddressInput) *SuggestionResult {
	corrected := strings.ToLower(addr.Street1)
	hasSuggestion := false

	for _, c := range streetCorrections {
		re := regexp.MustCompile(`(?i)\b` + c.from + `\b`)
		if re.MatchString(corrected) {
			corrected = re.ReplaceAllString(corrected, c.to)
			hasSuggestion = true
		}
	}

	corrected = wordStart.ReplaceAllStringFunc(corrected, strings.ToUpper)

	suggestions := []ValidatedAddress{}
	if hasSuggestion {
		s := ValidatedAddress{
			ID:          "mock_" + uuid.NewString(),
			Street1:     corrected,
			Street2:     addr.Street2,
			City:        addr.City,
			State:       addr.State,
			Zip:         addr.Zip,
			Country:     "US",
			Name:        addr.Name,
			Residential: true,
		}
		s.Verifications.Delivery.Success = true
		s.Verifications.Delivery.Details.Latitude = 40.7128
		s.Verifications.Delivery.Details.Longitude = -74.0060
		s.Verifications.Delivery.Details.TimeZone = "America/New_York"
		s.Verifications.Zip4.Success = true
		if len(addr.Zip) == 5 {
			s.Verifications.Zip4.Zip4 = addr.Zip + "-1234"
		} else {
			s.Verifications.Zip4.Zip4 = addr.Zip
		}
		suggestions = append(suggestions, s)
	}

	return &SuggestionResult{
		Success:         true,
		Suggestions:     suggestions,
		OriginalAddress: addr,
	}
}
