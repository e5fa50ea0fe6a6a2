package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ResendClient delivers rendered HTML through the transactional-email
// vendor. Delivery is real: there is no simulation path in this client.
type ResendClient struct {
	c      *Client
	apiKey string
	from   string
}

func NewResendClient(c *Client, apiKey, from string) *ResendClient {
	return &ResendClient{c: c, apiKey: apiKey, from: from}
}

type resendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send submits one email and returns the vendor message id.
func (r *ResendClient) Send(ctx context.Context, to, subject, html string) (string, error) {
	body, err := json.Marshal(resendRequest{
		From:    r.from,
		To:      to,
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return "", err
	}

	h := http.Header{}
	h.Set("Authorization", "Bearer "+r.apiKey)
	h.Set("Content-Type", "application/json")

	resp, err := r.c.Do(ctx, http.MethodPost, "/emails", nil, bytes.NewReader(body), h)
	if err != nil {
		return "", fmt.Errorf("resend request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("resend response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var re resendError
		if json.Unmarshal(raw, &re) == nil && re.Message != "" {
			return "", fmt.Errorf("resend: %s", re.Message)
		}
		return "", fmt.Errorf("resend status %d", resp.StatusCode)
	}

	var out resendResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("resend decode: %w", err)
	}
	return out.ID, nil
}
